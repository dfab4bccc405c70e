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

package literal

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bpytools/rnagen/pkg/host"
)

// None is the literal written in place of values that cannot be serialized
// inside a container.
const None = "None"

// Serializer turns live values into source literals that rebuild them.
// Registry references are checked against the namespace it was created with.
type Serializer struct {
	ns *host.Namespace
}

func NewSerializer(ns *host.Namespace) *Serializer {
	return &Serializer{ns: ns}
}

// ToLiteral returns the source literal for v. ok is false when v has no
// literal form; callers must not confuse that with the literal None.
//
// Strings are quoted but not escaped: callers escape them first.
func (s *Serializer) ToLiteral(v any) (string, bool) {
	switch host.Classify(v) {
	case host.TagString:
		return `"` + v.(string) + `"`, true
	case host.TagBool:
		return pyBool(v.(bool)), true
	case host.TagInt:
		i, _ := host.ToInt(v)
		return fmt.Sprintf("%d", i), true
	case host.TagFloat:
		f, _ := host.ToFloat(v)
		return fmt.Sprintf("%f", f), true
	case host.TagDict:
		return repr(v), true
	case host.TagSet:
		set := v.(host.EnumSet)
		if len(set) == 0 {
			return "set()", true
		}
		items := make([]any, len(set))
		for i, it := range set {
			items[i] = it
		}
		return "{" + s.join(items) + "}", true
	case host.TagSequence, host.TagVector, host.TagBoolArray, host.TagEuler, host.TagCollection:
		return s.tuple(members(v)), true
	case host.TagStruct:
		ref, ok := s.Reference(v.(*host.Struct))
		if !ok {
			return "", false
		}
		return ref.Literal(), true
	}
	return "", false
}

func (s *Serializer) join(items []any) string {
	parts := make([]string, len(items))
	for i, it := range items {
		lit, ok := s.ToLiteral(it)
		if !ok {
			lit = None
		}
		parts[i] = lit
	}
	return strings.Join(parts, ", ")
}

func (s *Serializer) tuple(items []any) string {
	if len(items) == 1 {
		return "(" + s.join(items) + ",)"
	}
	return "(" + s.join(items) + ")"
}

// members returns the elements of a sequence-like value.
func members(v any) []any {
	switch x := v.(type) {
	case []any:
		return x
	case host.Vector:
		out := make([]any, len(x))
		for i, f := range x {
			out[i] = f
		}
		return out
	case host.BoolArray:
		out := make([]any, len(x))
		for i, b := range x {
			out[i] = b
		}
		return out
	case host.Euler:
		return []any{x.X, x.Y, x.Z}
	case *host.Collection:
		return x.Items()
	}
	return nil
}

// Reference finds the registry lookup that yields st. Shader node trees are
// usually embedded in a material, world or light rather than registered
// themselves; for those the owner is looked up and node_tree accessed on it.
func (s *Serializer) Reference(st *host.Struct) (Reference, bool) {
	if st == nil {
		return Reference{}, false
	}
	name, ok := st.Name()
	if !ok {
		return Reference{}, false
	}
	registry, ok := host.RegistryFor(st.TypeName)
	if !ok {
		return Reference{}, false
	}

	if st.TypeName == host.ShaderNodeTreeType {
		if groups, ok := s.ns.Registry(host.NodeGroupsRegistry); ok && groups.Has(name) {
			return Reference{Registry: host.NodeGroupsRegistry, Item: name}, true
		}
		// Linear scan; owner registries are small.
		for _, owners := range host.NodeTreeOwners {
			coll, ok := s.ns.Registry(owners)
			if !ok {
				continue
			}
			for _, it := range coll.Items() {
				owner, ok := it.(*host.Struct)
				if !ok {
					continue
				}
				if tree, _ := owner.Attr("node_tree"); tree == any(st) {
					ownerName, _ := owner.Name()
					return Reference{Registry: owners, Item: ownerName, Accessor: "node_tree"}, true
				}
			}
		}
		return Reference{}, false
	}

	return Reference{Registry: registry, Item: name}, true
}

// repr renders dict-like values the way the host prints them. Keys are sorted
// so the output is stable.
func repr(v any) string {
	switch x := v.(type) {
	case nil:
		return None
	case bool:
		return pyBool(x)
	case string:
		return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(x) + "'"
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = repr(k) + ": " + repr(x[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = repr(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case host.Vector, host.Euler, host.BoolArray:
		parts := make([]string, 0, 4)
		for _, e := range members(x) {
			parts = append(parts, repr(e))
		}
		if len(parts) == 1 {
			return "(" + parts[0] + ",)"
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case host.EnumSet:
		if len(x) == 0 {
			return "set()"
		}
		set := host.NewEnumSet(x...)
		parts := make([]string, len(set))
		for i, e := range set {
			parts[i] = repr(e)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	if i, ok := host.ToInt(v); ok {
		return strconv.Itoa(i)
	}
	if f, ok := host.ToFloat(v); ok {
		out := strconv.FormatFloat(f, 'g', -1, 64)
		if !strings.ContainsAny(out, ".eIN") {
			out += ".0"
		}
		return out
	}
	if st, ok := v.(*host.Struct); ok {
		return st.String()
	}
	return fmt.Sprintf("%v", v)
}

func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
