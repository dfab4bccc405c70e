package emit

import (
	"errors"
	"testing"

	"github.com/bpytools/rnagen/pkg/host"
	"github.com/bpytools/rnagen/pkg/host/hosttest"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const redTree = `bpy.data.materials["Red"].node_tree`

const wantRedTree = `import bpy

tree = bpy.data.materials["Red"].node_tree

# Frame
frame = tree.nodes.new("NodeFrame")
frame.name = "Frame"
frame.location = (-600.000000, 200.000000)
frame.label = "Inputs"
frame.width = 400.000000

# Color Ramp
color_ramp = tree.nodes.new("ShaderNodeValToRGB")
color_ramp.name = "Color Ramp"
color_ramp.location = (-500.000000, 300.000000)
color_ramp.color_ramp.interpolation = "EASE"
color_ramp.color_ramp.elements[0].position = 0.000000
color_ramp.color_ramp.elements[0].color = (0.000000, 0.000000, 0.000000, 1.000000)
color_ramp.color_ramp.elements[1].position = 0.500000
color_ramp.color_ramp.elements[1].color = (1.000000, 0.000000, 0.000000, 1.000000)
elem = color_ramp.color_ramp.elements.new(1.000000)
elem.color = (1.000000, 1.000000, 1.000000, 1.000000)
color_ramp.inputs[0].default_value = 0.250000
color_ramp.outputs[0].default_value = (0.000000, 0.000000, 0.000000, 1.000000)
color_ramp.outputs[1].default_value = 0.000000

# RGB Curves
rgb_curves = tree.nodes.new("ShaderNodeRGBCurve")
rgb_curves.name = "RGB Curves"
rgb_curves.location = (-500.000000, -100.000000)
rgb_curves.mapping.curves[0].points[0].location = (0.000000, 0.000000)
rgb_curves.mapping.curves[0].points[1].location = (1.000000, 1.000000)
rgb_curves.mapping.curves[1].points[0].location = (0.000000, 0.000000)
rgb_curves.mapping.curves[1].points[1].location = (0.500000, 0.700000)
rgb_curves.mapping.curves[1].points[1].handle_type = "VECTOR"
point = rgb_curves.mapping.curves[1].points.new(1.000000, 1.000000)
rgb_curves.mapping.update()
rgb_curves.inputs[0].default_value = 1.000000
rgb_curves.inputs[1].default_value = (1.000000, 1.000000, 1.000000, 1.000000)
rgb_curves.outputs[0].default_value = (0.000000, 0.000000, 0.000000, 1.000000)

# Principled BSDF
principled_bsdf = tree.nodes.new("ShaderNodeBsdfPrincipled")
principled_bsdf.name = "Principled BSDF"
principled_bsdf.location = (0.000000, 300.000000)
principled_bsdf.distribution = "GGX"
principled_bsdf.inputs[1].default_value = 0.000000
principled_bsdf.inputs[2].default_value = 0.300000

# Material Output
material_output = tree.nodes.new("ShaderNodeOutputMaterial")
material_output.name = "Material Output"
material_output.location = (300.000000, 300.000000)

color_ramp.parent = frame

tree.links.new(color_ramp.outputs[0], principled_bsdf.inputs[0])
tree.links.new(principled_bsdf.outputs[0], material_output.inputs[0])
`

func TestNodeTreeExport(t *testing.T) {
	ns := hosttest.Scene(t)
	rep := newFakeReporter()
	e := NewNodeTreeExporter(ns, WithReporter(rep))

	buf := NewTextBuffer()
	stats, err := e.Export(buf, redTree, NodeOptions{})
	require.NoError(t, err)

	if diff := cmp.Diff(wantRedTree, buf.String()); diff != "" {
		t.Errorf("unexpected output (-want +got):\n%s", diff)
	}
	require.Equal(t, 5, stats.Nodes)
	require.Equal(t, 2, stats.Links)
	require.Equal(t, 8, stats.Sockets)
	require.Zero(t, stats.Cycles)
	require.Zero(t, stats.Unresolved)
	require.Equal(t, 5, rep.emitted[kindNode])
	require.Equal(t, 2, rep.emitted[kindLink])
}

func TestNodeTreeExport_Options(t *testing.T) {
	tcs := []struct {
		name        string
		opts        NodeOptions
		contains    []string
		notContains []string
	}{
		{
			name: "defaults are skipped",
			notContains: []string{
				"material_output.is_active_output",
				"principled_bsdf.inputs[0].default_value",
				"principled_bsdf.inputs[3].default_value",
				"tree.nodes.clear()",
			},
		},
		{
			name: "write defaults",
			opts: NodeOptions{WriteDefaults: true},
			contains: []string{
				"material_output.is_active_output = True\n",
				"material_output.width = 140.000000\n",
				"material_output.label = \"\"\n",
				"frame.shrink = True\n",
				"color_ramp.color_ramp.color_mode = \"RGB\"\n",
				"rgb_curves.mapping.use_clip = True\n",
				"point.handle_type = \"AUTO\"\n",
			},
			notContains: []string{"principled_bsdf.inputs[0].default_value"},
		},
		{
			name: "linked defaults",
			opts: NodeOptions{LinkedDefaults: true},
			contains: []string{
				"principled_bsdf.inputs[0].default_value = (0.800000, 0.800000, 0.800000, 1.000000)\n",
			},
			notContains: []string{"principled_bsdf.inputs[3].default_value"},
		},
		{
			name: "clear tree inside a function",
			opts: NodeOptions{Options: Options{MakeIntoFunction: true}, ClearTree: true},
			contains: []string{
				"def make_node_tree():\n    tree = bpy.data.materials[\"Red\"].node_tree\n    tree.nodes.clear()\n",
				"\n    color_ramp.parent = frame\n",
				"\n\n\nmake_node_tree()\n",
			},
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			ns := hosttest.Scene(t)
			buf := NewTextBuffer()
			_, err := NewNodeTreeExporter(ns).Export(buf, redTree, tc.opts)
			require.NoError(t, err)
			for _, s := range tc.contains {
				require.Contains(t, buf.String(), s)
			}
			for _, s := range tc.notContains {
				require.NotContains(t, buf.String(), s)
			}
		})
	}
}

func TestNodeTreeExport_Errors(t *testing.T) {
	ns := hosttest.Scene(t)
	e := NewNodeTreeExporter(ns)

	_, err := e.Export(NewTextBuffer(), `bpy.data.materials["Missing"].node_tree`, NodeOptions{})
	var evalErr *host.EvalError
	require.True(t, errors.As(err, &evalErr))

	buf := NewTextBuffer()
	_, err = e.Export(buf, `bpy.data.objects["Cube"]`, NodeOptions{})
	require.ErrorIs(t, err, ErrNotNodeTree)
	require.Zero(t, buf.LineCount())
}

func mathNode(name string) (node, in, out *host.Struct) {
	in = host.NewStruct("NodeSocketFloat").Set("name", "Value").Set("hide", false).Set("is_linked", true).Set("default_value", 0.5)
	out = host.NewStruct("NodeSocketFloat").Set("name", "Value").Set("hide", false).Set("is_linked", true).Set("default_value", 0.0)
	node = host.NewStruct("ShaderNodeMath").
		Set("name", name).
		Set("location", host.Vector{0, 0}).
		Set("operation", "MULTIPLY").
		Set("inputs", host.NewCollection("NodeSocket", in)).
		Set("outputs", host.NewCollection("NodeSocket", out))
	return node, in, out
}

func link(from, fromSock, to, toSock *host.Struct) *host.Struct {
	return host.NewStruct("NodeLink").
		Set("from_node", from).
		Set("from_socket", fromSock).
		Set("to_node", to).
		Set("to_socket", toSock)
}

func TestNodeTreeExport_Cycles(t *testing.T) {
	ns := host.NewNamespace()
	a, aIn, aOut := mathNode("A")
	b, bIn, bOut := mathNode("B")
	stray, strayIn, _ := mathNode("Stray")
	tree := host.NewStruct(host.ShaderNodeTreeType).
		Set("name", "Loop").
		Set("nodes", host.NewCollection("Node", a, b)).
		Set("links", host.NewCollection("NodeLink",
			link(a, aOut, b, bIn),
			link(b, bOut, a, aIn),
			link(a, aOut, stray, strayIn),
		))
	_, err := ns.Add(tree)
	require.NoError(t, err)

	buf := NewTextBuffer()
	stats, err := NewNodeTreeExporter(ns).Export(buf, `bpy.data.node_groups["Loop"]`, NodeOptions{})
	require.NoError(t, err)

	require.Equal(t, 2, stats.Nodes)
	require.Equal(t, 2, stats.Links)
	require.Equal(t, 1, stats.Cycles)
	require.Equal(t, 1, stats.Unresolved)
	require.Contains(t, buf.String(), "a.operation = \"MULTIPLY\"\n")
	require.Contains(t, buf.String(), "tree.links.new(a.outputs[0], b.inputs[0])\ntree.links.new(b.outputs[0], a.inputs[0])\n")
}
