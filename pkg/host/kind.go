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

import "fmt"

// Tag identifies the runtime kind of a live value. Every dispatch on value
// kinds goes through Classify so the tables below stay the single source of
// truth.
type Tag int

const (
	TagUnknown Tag = iota
	TagNone
	TagBool
	TagInt
	TagFloat
	TagString
	TagVector
	TagEuler
	TagBoolArray
	TagSet
	TagDict
	TagSequence
	TagCollection
	TagStruct
	TagModule
)

var tagNames = map[Tag]string{
	TagUnknown:    "Unknown",
	TagNone:       "None",
	TagBool:       "Bool",
	TagInt:        "Int",
	TagFloat:      "Float",
	TagString:     "String",
	TagVector:     "Vector",
	TagEuler:      "Euler",
	TagBoolArray:  "BoolArray",
	TagSet:        "Set",
	TagDict:       "Dict",
	TagSequence:   "Sequence",
	TagCollection: "Collection",
	TagStruct:     "Struct",
	TagModule:     "Module",
}

func (t Tag) String() string {
	if n, ok := tagNames[t]; ok {
		return n
	}
	return fmt.Sprintf("Tag(%d)", int(t))
}

// Classify computes the tag of v.
func Classify(v any) Tag {
	switch v.(type) {
	case nil:
		return TagNone
	case bool:
		return TagBool
	case int, int32, int64:
		return TagInt
	case float64, float32:
		return TagFloat
	case string:
		return TagString
	case Vector:
		return TagVector
	case Euler:
		return TagEuler
	case BoolArray:
		return TagBoolArray
	case EnumSet:
		return TagSet
	case map[string]any:
		return TagDict
	case []any:
		return TagSequence
	case *Collection:
		return TagCollection
	case *Struct:
		return TagStruct
	case *Module:
		return TagModule
	default:
		return TagUnknown
	}
}

// Indexable reports whether members of v can be reached by an index
// expression.
func Indexable(v any) bool {
	switch Classify(v) {
	case TagCollection, TagSequence, TagVector, TagBoolArray, TagDict:
		return true
	}
	return false
}

// Identity returns a comparable identity key for values that have one. Only
// graph-owned records have identity; plain data does not.
func Identity(v any) (any, bool) {
	switch x := v.(type) {
	case *Struct:
		return x, x != nil
	case *Collection:
		return x, x != nil
	case *Module:
		return x, x != nil
	}
	return nil, false
}

// TypedRootName returns the type name of v if v is a typed root: any host
// struct except the namespace umbrella types.
func TypedRootName(v any) (string, bool) {
	s, ok := v.(*Struct)
	if !ok || s == nil {
		return "", false
	}
	if _, excluded := excludedRoots[s.TypeName]; excluded {
		return "", false
	}
	return s.TypeName, true
}

// IsLeaf reports whether v is a terminal property value: a scalar, a 3 or 4
// element vector, an euler, or a 20/32 layer mask.
func IsLeaf(v any) bool {
	switch x := v.(type) {
	case Vector:
		_, ok := leafVectorSizes[len(x)]
		return ok
	case BoolArray:
		_, ok := leafLayerSizes[len(x)]
		return ok
	}
	_, ok := leafTags[Classify(v)]
	return ok
}

// ToInt returns v as an int if it is an integer kind.
func ToInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int32:
		return int(x), true
	case int64:
		return int(x), true
	}
	return 0, false
}

// ToFloat returns v as a float64 if it is any numeric kind.
func ToFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	}
	if i, ok := ToInt(v); ok {
		return float64(i), true
	}
	return 0, false
}
