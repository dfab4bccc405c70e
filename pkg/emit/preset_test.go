package emit

import (
	"testing"

	"github.com/bpytools/rnagen/pkg/literal"
	"github.com/bpytools/rnagen/pkg/preset"
	"github.com/stretchr/testify/require"
)

func TestPresetCode(t *testing.T) {
	hidden := true
	p := &preset.Preset{
		Name:     "Default",
		BaseType: "Object",
		Properties: []preset.Property{
			{Path: "location", Value: literal.Record{Kind: literal.KindVector3, Vector: []float64{0, 0, 0}}},
			{Path: "hide_render", Value: literal.Record{Kind: literal.KindBool, Bool: &hidden}},
			{Path: `modifiers["Bevel"].name`, Value: literal.Record{Kind: literal.KindReference, Reference: &literal.Reference{Registry: "meshes", Item: "Cube"}}},
		},
	}

	buf := NewTextBuffer()
	require.NoError(t, PresetCode(buf, p, `bpy.data.objects["Empty"]`, Options{}))
	require.Equal(t, `import bpy

# Default (Object)
target = bpy.data.objects["Empty"]
target.location = (0.000000, 0.000000, 0.000000)
target.hide_render = True
target.modifiers["Bevel"].name = bpy.data.meshes.get("Cube")
`, buf.String())
}

func TestPresetCode_Invalid(t *testing.T) {
	tcs := []struct {
		name   string
		preset *preset.Preset
		target string
	}{
		{
			name:   "record without value",
			preset: &preset.Preset{Name: "Broken", BaseType: "Object", Properties: []preset.Property{{Path: "location", Value: literal.Record{Kind: literal.KindVector3}}}},
			target: `bpy.data.objects["Cube"]`,
		},
		{
			name:   "unnamed preset",
			preset: &preset.Preset{BaseType: "Object"},
			target: `bpy.data.objects["Cube"]`,
		},
		{
			name:   "malformed target",
			preset: &preset.Preset{Name: "Default", BaseType: "Object"},
			target: `bpy.data.objects["Cube"`,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			buf := NewTextBuffer()
			require.Error(t, PresetCode(buf, tc.preset, tc.target, Options{}))
			require.Zero(t, buf.LineCount())
		})
	}
}
