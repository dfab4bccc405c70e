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

import (
	"fmt"
	"sort"
)

// Vector is a fixed-size numeric tuple such as a location, a color or a
// node socket's default value.
type Vector []float64

// Euler is a rotation triple with its axis order, e.g. "XYZ".
type Euler struct {
	X, Y, Z float64
	Order   string
}

// BoolArray is a fixed-size boolean array, e.g. a 20 or 32 layer mask.
type BoolArray []bool

// EnumSet is a set of enum identifiers. Use NewEnumSet to keep it normalized.
type EnumSet []string

// NewEnumSet returns the sorted, de-duplicated set of items.
func NewEnumSet(items ...string) EnumSet {
	seen := make(map[string]struct{}, len(items))
	out := make(EnumSet, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	sort.Strings(out)
	return out
}

// Module is a plain namespace object such as the top level `bpy` binding. It
// is never a typed root.
type Module struct {
	Name    string
	members map[string]any
}

func NewModule(name string) *Module {
	return &Module{Name: name, members: make(map[string]any)}
}

func (m *Module) Set(name string, v any) *Module {
	m.members[name] = v
	return m
}

func (m *Module) Attr(name string) (any, bool) {
	v, ok := m.members[name]
	return v, ok
}

// Struct is a typed record of the live graph: an object, a material, a node,
// a modifier and so on. Fields keep their insertion order.
type Struct struct {
	TypeName string
	fields   []string
	values   map[string]any
}

func NewStruct(typeName string) *Struct {
	return &Struct{TypeName: typeName, values: make(map[string]any)}
}

// Set adds or replaces a field. New fields are appended to the field order.
func (s *Struct) Set(name string, v any) *Struct {
	if _, ok := s.values[name]; !ok {
		s.fields = append(s.fields, name)
	}
	s.values[name] = v
	return s
}

func (s *Struct) Attr(name string) (any, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Delete removes a field. It returns false if the field did not exist.
func (s *Struct) Delete(name string) bool {
	if _, ok := s.values[name]; !ok {
		return false
	}
	delete(s.values, name)
	for i, f := range s.fields {
		if f == name {
			s.fields = append(s.fields[:i:i], s.fields[i+1:]...)
			break
		}
	}
	return true
}

// Fields returns the field names in order.
func (s *Struct) Fields() []string {
	out := make([]string, len(s.fields))
	copy(out, s.fields)
	return out
}

// Name returns the identity name of the struct, if it has one.
func (s *Struct) Name() (string, bool) {
	v, ok := s.values["name"]
	if !ok {
		return "", false
	}
	name, ok := v.(string)
	return name, ok
}

func (s *Struct) String() string {
	if name, ok := s.Name(); ok {
		return fmt.Sprintf("<%s %q>", s.TypeName, name)
	}
	return fmt.Sprintf("<%s>", s.TypeName)
}

// Collection is an indexable sequence whose members may be addressed by
// position or, when they carry a name, by name.
type Collection struct {
	TypeName string
	items    []any
}

func NewCollection(typeName string, items ...any) *Collection {
	return &Collection{TypeName: typeName, items: items}
}

func (c *Collection) Len() int {
	return len(c.items)
}

// At returns the member at position i. Negative positions count from the end.
func (c *Collection) At(i int) (any, bool) {
	if i < 0 {
		i += len(c.items)
	}
	if i < 0 || i >= len(c.items) {
		return nil, false
	}
	return c.items[i], true
}

// Lookup returns the first member whose name is name.
func (c *Collection) Lookup(name string) (any, bool) {
	for _, it := range c.items {
		if s, ok := it.(*Struct); ok {
			if n, ok := s.Name(); ok && n == name {
				return s, true
			}
		}
	}
	return nil, false
}

// Get is Lookup restricted to struct members.
func (c *Collection) Get(name string) (*Struct, bool) {
	v, ok := c.Lookup(name)
	if !ok {
		return nil, false
	}
	s, ok := v.(*Struct)
	return s, ok
}

func (c *Collection) Has(name string) bool {
	_, ok := c.Lookup(name)
	return ok
}

// Items returns a copy of the member list.
func (c *Collection) Items() []any {
	out := make([]any, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Collection) Append(v any) *Collection {
	c.items = append(c.items, v)
	return c
}

// Remove drops the first member named name.
func (c *Collection) Remove(name string) bool {
	for i, it := range c.items {
		if s, ok := it.(*Struct); ok {
			if n, ok := s.Name(); ok && n == name {
				c.items = append(c.items[:i:i], c.items[i+1:]...)
				return true
			}
		}
	}
	return false
}

// Move relocates the member at position from to position to.
func (c *Collection) Move(from, to int) bool {
	if from < 0 || from >= len(c.items) || to < 0 || to >= len(c.items) {
		return false
	}
	it := c.items[from]
	c.items = append(c.items[:from:from], c.items[from+1:]...)
	c.items = append(c.items[:to], append([]any{it}, c.items[to:]...)...)
	return true
}

// IndexOf returns the position of v compared by identity, or -1.
func (c *Collection) IndexOf(v any) int {
	id, ok := Identity(v)
	if !ok {
		return -1
	}
	for i, it := range c.items {
		if other, ok := Identity(it); ok && other == id {
			return i
		}
	}
	return -1
}
