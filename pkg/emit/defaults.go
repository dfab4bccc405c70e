package emit

import "github.com/bpytools/rnagen/pkg/host"

// anyNode holds defaults shared by every node type.
const anyNode = "*"

// nodeDefaults holds the value each node attribute has on a freshly created
// node. Attributes equal to their default are not written unless asked to.
var nodeDefaults = map[string]map[string]any{
	anyNode: {
		"label":            "",
		"width":            140.0,
		"hide":             false,
		"mute":             false,
		"use_custom_color": false,
		"color":            host.Vector{0.608, 0.608, 0.608},
		"show_options":     true,
		"show_preview":     false,
		"show_texture":     false,
	},
	"NodeFrame": {
		"width":      150.0,
		"shrink":     true,
		"label_size": 20,
		"text":       nil,
	},
	"NodeReroute": {
		"width": 16.0,
	},
	"ShaderNodeBsdfPrincipled": {
		"width":             240.0,
		"distribution":      "MULTI_GGX",
		"subsurface_method": "RANDOM_WALK",
	},
	"ShaderNodeValToRGB": {
		"width": 240.0,
	},
	"ShaderNodeRGBCurve": {
		"width": 240.0,
	},
	"ShaderNodeVectorCurve": {
		"width": 240.0,
	},
	"ShaderNodeFloatCurve": {
		"width": 240.0,
	},
	"ShaderNodeOutputMaterial": {
		"is_active_output": true,
		"target":           "ALL",
	},
	"ShaderNodeOutputWorld": {
		"is_active_output": true,
		"target":           "ALL",
	},
	"ShaderNodeMath": {
		"operation": "ADD",
		"use_clamp": false,
	},
	"ShaderNodeVectorMath": {
		"operation": "ADD",
	},
	"ShaderNodeMixRGB": {
		"blend_type": "MIX",
		"use_clamp":  false,
		"use_alpha":  false,
	},
	"ShaderNodeMix": {
		"data_type":    "FLOAT",
		"blend_type":   "MIX",
		"clamp_factor": true,
		"clamp_result": false,
		"factor_mode":  "UNIFORM",
	},
	"ShaderNodeMapRange": {
		"data_type":          "FLOAT",
		"interpolation_type": "LINEAR",
		"clamp":              true,
	},
	"ShaderNodeMapping": {
		"vector_type": "POINT",
	},
	"ShaderNodeTexImage": {
		"width":         240.0,
		"image":         nil,
		"interpolation": "Linear",
		"projection":    "FLAT",
		"extension":     "REPEAT",
	},
	"ShaderNodeTexNoise": {
		"noise_dimensions": "3D",
	},
	"ShaderNodeSeparateColor": {
		"mode": "RGB",
	},
	"ShaderNodeCombineColor": {
		"mode": "RGB",
	},
	"ShaderNodeGroup": {
		"node_tree": nil,
	},
}

// Defaults of the structures behind color_ramp and mapping.
var (
	colorRampDefaults = map[string]any{
		"color_mode":        "RGB",
		"interpolation":     "LINEAR",
		"hue_interpolation": "NEAR",
	}
	curveMappingDefaults = map[string]any{
		"use_clip":    true,
		"clip_min_x":  0.0,
		"clip_min_y":  0.0,
		"clip_max_x":  1.0,
		"clip_max_y":  1.0,
		"extend":      "EXTRAPOLATED",
		"tone":        "STANDARD",
		"black_level": host.Vector{0, 0, 0},
		"white_level": host.Vector{1, 1, 1},
	}
	curvePointDefaults = map[string]any{
		"handle_type": "AUTO",
	}
)

// Minimum element counts the host creates along with a ramp or curve. They
// cannot be removed below these counts, only moved.
const (
	implicitRampElements = 2
	implicitCurvePoints  = 2
)

// nodeDefault returns the default of attr on a node of typeName.
func nodeDefault(typeName, attr string) (any, bool) {
	if v, ok := nodeDefaults[typeName][attr]; ok {
		return v, true
	}
	v, ok := nodeDefaults[anyNode][attr]
	return v, ok
}

// skippedNodeFields are never written as plain attribute assignments:
// identity, layout and sockets are handled separately, the rest is read-only.
var skippedNodeFields = map[string]struct{}{
	"name":           {},
	"location":       {},
	"parent":         {},
	"inputs":         {},
	"outputs":        {},
	"color_ramp":     {},
	"mapping":        {},
	"internal_links": {},
	"dimensions":     {},
	"id_data":        {},
	"type":           {},
	"bl_idname":      {},
	"select":         {},
	"rna_type":       {},
}
