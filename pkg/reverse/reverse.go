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

// Package reverse maps live values back to the paths that reach them.
package reverse

import (
	"github.com/bpytools/rnagen/pkg/datapath"
	"github.com/bpytools/rnagen/pkg/host"
)

// Source is a named root to search: a chain of attribute names below
// bpy.data, e.g. {"Material node trees", ["materials", "node_tree"]}.
type Source struct {
	Name  string   `json:"name"`
	Chain []string `json:"chain"`
}

// String returns the chain as a path below bpy.data.
func (s Source) String() string {
	out := host.DataPath
	for _, attr := range s.Chain {
		out += "." + attr
	}
	return out
}

var defaultSources = []Source{
	{Name: "Objects", Chain: []string{"objects"}},
	{Name: "Scenes", Chain: []string{"scenes"}},
	{Name: "Meshes", Chain: []string{"meshes"}},
	{Name: "Shape keys", Chain: []string{"shape_keys"}},
	{Name: "Materials", Chain: []string{"materials"}},
	{Name: "Material node trees", Chain: []string{"materials", "node_tree"}},
	{Name: "Worlds", Chain: []string{"worlds"}},
	{Name: "World node trees", Chain: []string{"worlds", "node_tree"}},
	{Name: "Lights", Chain: []string{"lights"}},
	{Name: "Light node trees", Chain: []string{"lights", "node_tree"}},
	{Name: "Cameras", Chain: []string{"cameras"}},
	{Name: "Armatures", Chain: []string{"armatures"}},
	{Name: "Curves", Chain: []string{"curves"}},
	{Name: "Node groups", Chain: []string{"node_groups"}},
	{Name: "Textures", Chain: []string{"textures"}},
	{Name: "Particles", Chain: []string{"particles"}},
}

// DefaultSources returns the animatable sources searched when none are
// configured.
func DefaultSources() []Source {
	out := make([]Source, len(defaultSources))
	for i, s := range defaultSources {
		out[i] = Source{Name: s.Name, Chain: append([]string(nil), s.Chain...)}
	}
	return out
}

// VisitFunc is called for every value a source reaches, with the path that
// reaches it.
type VisitFunc func(path string, v any)

// Walk calls fn for every value reached by following src from bpy.data.
// Indexable values are expanded member by member, preferring the member's
// name over its position, before the next attribute of the chain is taken.
// Missing attributes end their branch silently.
func Walk(ns *host.Namespace, src Source, fn VisitFunc) error {
	root, err := ns.Eval(host.DataPath)
	if err != nil {
		return err
	}
	walk(host.DataPath, root, src.Chain, fn)
	return nil
}

// The chain shrinks on every attribute step and each indexable value is
// expanded once, so the recursion ends without tracking visited values.
func walk(path string, v any, remaining []string, fn VisitFunc) {
	if coll, ok := v.(*host.Collection); ok {
		for i, it := range coll.Items() {
			walk(path+memberIndex(it, i), it, remaining, fn)
		}
		return
	}
	if seq, ok := v.([]any); ok {
		for i, it := range seq {
			walk(path+memberIndex(it, i), it, remaining, fn)
		}
		return
	}

	if len(remaining) == 0 {
		fn(path, v)
		return
	}
	s, ok := v.(*host.Struct)
	if !ok {
		return
	}
	next, ok := s.Attr(remaining[0])
	if !ok || next == nil {
		return
	}
	walk(path+"."+remaining[0], next, remaining[1:], fn)
}

func memberIndex(v any, i int) string {
	if s, ok := v.(*host.Struct); ok {
		if name, ok := s.Name(); ok {
			return datapath.QuoteIndex(name)
		}
	}
	return datapath.IntIndex(i)
}

// Map is a short-lived index from value identity to the path reaching it.
type Map struct {
	paths map[any]string
	order []any
}

// Build walks every source and records the first path found for each value.
func Build(ns *host.Namespace, sources []Source) (*Map, error) {
	m := &Map{paths: make(map[any]string)}
	for _, src := range sources {
		err := Walk(ns, src, func(path string, v any) {
			id, ok := host.Identity(v)
			if !ok {
				return
			}
			if _, seen := m.paths[id]; seen {
				return
			}
			m.paths[id] = path
			m.order = append(m.order, id)
		})
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

// PathFor returns the recorded path of v. ok is false for values no source
// reaches; callers fall back to inline serialization.
func (m *Map) PathFor(v any) (string, bool) {
	id, ok := host.Identity(v)
	if !ok {
		return "", false
	}
	p, ok := m.paths[id]
	return p, ok
}

func (m *Map) Len() int {
	return len(m.paths)
}

// Entry is one recorded value and its path.
type Entry struct {
	Path  string
	Value any
}

// Entries returns every recorded entry in discovery order.
func (m *Map) Entries() []Entry {
	out := make([]Entry, len(m.order))
	for i, id := range m.order {
		out[i] = Entry{Path: m.paths[id], Value: id}
	}
	return out
}
