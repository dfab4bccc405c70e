/*

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package host

import "sort"

const (
	// RootName is the binding every absolute path starts from.
	RootName = "bpy"
	// DataPath is the accessor of the global data block registries.
	DataPath = "bpy.data"
	// BlendDataType is the umbrella type of DataPath. It is never a typed root.
	BlendDataType = "BlendData"

	// NodeGroupsRegistry holds node trees that are not embedded in another ID.
	NodeGroupsRegistry = "node_groups"
)

// registryTable maps a struct type name to the bpy.data registry that owns
// instances of it.
var registryTable = map[string]string{
	"Action":             "actions",
	"Armature":           "armatures",
	"Brush":              "brushes",
	"CacheFile":          "cache_files",
	"Camera":             "cameras",
	"Collection":         "collections",
	"Curve":              "curves",
	"SurfaceCurve":       "curves",
	"TextCurve":          "curves",
	"Curves":             "hair_curves",
	"VectorFont":         "fonts",
	"GreasePencil":       "grease_pencils",
	"Image":              "images",
	"Key":                "shape_keys",
	"Lattice":            "lattices",
	"Library":            "libraries",
	"LightProbe":         "lightprobes",
	"Light":              "lights",
	"PointLight":         "lights",
	"SunLight":           "lights",
	"SpotLight":          "lights",
	"AreaLight":          "lights",
	"FreestyleLineStyle": "linestyles",
	"Mask":               "masks",
	"Material":           "materials",
	"Mesh":               "meshes",
	"MetaBall":           "metaballs",
	"MovieClip":          "movieclips",
	"NodeTree":           "node_groups",
	"GeometryNodeTree":   "node_groups",
	"CompositorNodeTree": "node_groups",
	"TextureNodeTree":    "node_groups",
	"Object":             "objects",
	"PaintCurve":         "paint_curves",
	"Palette":            "palettes",
	"ParticleSettings":   "particles",
	"PointCloud":         "pointclouds",
	"Scene":              "scenes",
	"Screen":             "screens",
	"Sound":              "sounds",
	"Speaker":            "speakers",
	"Text":               "texts",
	"Texture":            "textures",
	"ImageTexture":       "textures",
	"CloudsTexture":      "textures",
	"NoiseTexture":       "textures",
	"Volume":             "volumes",
	"WindowManager":      "window_managers",
	"WorkSpace":          "workspaces",
	"World":              "worlds",
	ShaderNodeTreeType:   "node_groups",
}

// ShaderNodeTreeType is the node tree type that is usually embedded in a
// material or world rather than living in node_groups.
const ShaderNodeTreeType = "ShaderNodeTree"

// NodeTreeOwners lists the registries whose members may embed a shader node
// tree under their node_tree attribute, in lookup order.
var NodeTreeOwners = []string{"materials", "worlds", "lights"}

// registryDefaultType is the type given to untyped members of a registry.
var registryDefaultType = map[string]string{
	"actions":         "Action",
	"armatures":       "Armature",
	"brushes":         "Brush",
	"cache_files":     "CacheFile",
	"cameras":         "Camera",
	"collections":     "Collection",
	"curves":          "Curve",
	"hair_curves":     "Curves",
	"fonts":           "VectorFont",
	"grease_pencils":  "GreasePencil",
	"images":          "Image",
	"shape_keys":      "Key",
	"lattices":        "Lattice",
	"libraries":       "Library",
	"lightprobes":     "LightProbe",
	"lights":          "Light",
	"linestyles":      "FreestyleLineStyle",
	"masks":           "Mask",
	"materials":       "Material",
	"meshes":          "Mesh",
	"metaballs":       "MetaBall",
	"movieclips":      "MovieClip",
	"node_groups":     "NodeTree",
	"objects":         "Object",
	"paint_curves":    "PaintCurve",
	"palettes":        "Palette",
	"particles":       "ParticleSettings",
	"pointclouds":     "PointCloud",
	"scenes":          "Scene",
	"screens":         "Screen",
	"sounds":          "Sound",
	"speakers":        "Speaker",
	"texts":           "Text",
	"textures":        "Texture",
	"volumes":         "Volume",
	"window_managers": "WindowManager",
	"workspaces":      "WorkSpace",
	"worlds":          "World",
}

// excludedRoots are struct types that stand for the whole namespace.
var excludedRoots = map[string]struct{}{
	BlendDataType: {},
}

var leafTags = map[Tag]struct{}{
	TagBool:   {},
	TagInt:    {},
	TagFloat:  {},
	TagString: {},
	TagEuler:  {},
}

var leafVectorSizes = map[int]struct{}{3: {}, 4: {}}

var leafLayerSizes = map[int]struct{}{20: {}, 32: {}}

// RegistryFor returns the registry that owns instances of typeName.
func RegistryFor(typeName string) (string, bool) {
	r, ok := registryTable[typeName]
	return r, ok
}

// RegistryTable returns a copy of the type name to registry table.
func RegistryTable() map[string]string {
	out := make(map[string]string, len(registryTable))
	for k, v := range registryTable {
		out[k] = v
	}
	return out
}

// Registries returns every registry name, sorted.
func Registries() []string {
	out := make([]string, 0, len(registryDefaultType))
	for r := range registryDefaultType {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// DefaultType returns the struct type given to untyped members of registry.
func DefaultType(registry string) (string, bool) {
	t, ok := registryDefaultType[registry]
	return t, ok
}
