package host

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClassify(t *testing.T) {
	tcs := []struct {
		name string
		v    any
		want Tag
	}{
		{name: "nil", v: nil, want: TagNone},
		{name: "bool", v: true, want: TagBool},
		{name: "int", v: 42, want: TagInt},
		{name: "int64", v: int64(42), want: TagInt},
		{name: "float", v: 3.5, want: TagFloat},
		{name: "float32", v: float32(3.5), want: TagFloat},
		{name: "string", v: "Cube", want: TagString},
		{name: "vector", v: Vector{0, 0, 0}, want: TagVector},
		{name: "euler", v: Euler{Order: "XYZ"}, want: TagEuler},
		{name: "layers", v: make(BoolArray, 20), want: TagBoolArray},
		{name: "set", v: NewEnumSet("A"), want: TagSet},
		{name: "dict", v: map[string]any{}, want: TagDict},
		{name: "sequence", v: []any{1}, want: TagSequence},
		{name: "collection", v: NewCollection("Object"), want: TagCollection},
		{name: "struct", v: NewStruct("Object"), want: TagStruct},
		{name: "module", v: NewModule("bpy"), want: TagModule},
		{name: "unknown", v: struct{}{}, want: TagUnknown},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.v); got != tc.want {
				t.Errorf("Classify(%#v) = %v, want %v", tc.v, got, tc.want)
			}
		})
	}
}

func TestIsLeaf(t *testing.T) {
	tcs := []struct {
		name string
		v    any
		want bool
	}{
		{name: "bool", v: false, want: true},
		{name: "int", v: 1, want: true},
		{name: "float", v: 1.0, want: true},
		{name: "string", v: "", want: true},
		{name: "euler", v: Euler{}, want: true},
		{name: "vector3", v: Vector{1, 2, 3}, want: true},
		{name: "vector4", v: Vector{1, 2, 3, 4}, want: true},
		{name: "vector2", v: Vector{1, 2}, want: false},
		{name: "layers20", v: make(BoolArray, 20), want: true},
		{name: "layers32", v: make(BoolArray, 32), want: true},
		{name: "layers8", v: make(BoolArray, 8), want: false},
		{name: "nil", v: nil, want: false},
		{name: "set", v: NewEnumSet("A"), want: false},
		{name: "struct", v: NewStruct("Object"), want: false},
		{name: "collection", v: NewCollection("Object"), want: false},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsLeaf(tc.v); got != tc.want {
				t.Errorf("IsLeaf() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTypedRootName(t *testing.T) {
	if got, ok := TypedRootName(NewStruct("Object")); !ok || got != "Object" {
		t.Errorf("TypedRootName(Object) = %q, %v", got, ok)
	}
	if _, ok := TypedRootName(NewStruct(BlendDataType)); ok {
		t.Errorf("BlendData must never be a typed root")
	}
	if _, ok := TypedRootName(NewModule(RootName)); ok {
		t.Errorf("modules must never be typed roots")
	}
	var nilStruct *Struct
	if _, ok := TypedRootName(nilStruct); ok {
		t.Errorf("nil struct must not be a typed root")
	}
}

func TestRegistryTable(t *testing.T) {
	for typeName, reg := range RegistryTable() {
		if _, ok := DefaultType(reg); !ok {
			t.Errorf("type %s maps to registry %s which has no default type", typeName, reg)
		}
	}
	for _, reg := range Registries() {
		def, _ := DefaultType(reg)
		got, ok := RegistryFor(def)
		if !ok || got != reg {
			t.Errorf("default type %s of registry %s maps back to %q", def, reg, got)
		}
	}

	// Mutating the copy must not leak into the table.
	table := RegistryTable()
	table["Object"] = "nope"
	if got, _ := RegistryFor("Object"); got != "objects" {
		t.Errorf("RegistryFor(Object) = %q after mutating the copy", got)
	}
}

func TestCollection(t *testing.T) {
	a := NewStruct("Object").Set("name", "A")
	b := NewStruct("Object").Set("name", "B")
	c := NewStruct("Object").Set("name", "C")
	coll := NewCollection("Object", a, b, c)

	if got, ok := coll.At(-1); !ok || got != c {
		t.Errorf("At(-1) = %v, %v", got, ok)
	}
	if _, ok := coll.At(3); ok {
		t.Errorf("At(3) should be out of range")
	}
	if !coll.Move(0, 2) {
		t.Fatal("Move(0, 2) failed")
	}
	var names []string
	for _, it := range coll.Items() {
		n, _ := it.(*Struct).Name()
		names = append(names, n)
	}
	if diff := cmp.Diff([]string{"B", "C", "A"}, names); diff != "" {
		t.Error(diff)
	}
	if got := coll.IndexOf(a); got != 2 {
		t.Errorf("IndexOf(a) = %d, want 2", got)
	}
	if got := coll.IndexOf(NewStruct("Object").Set("name", "A")); got != -1 {
		t.Errorf("IndexOf compares by identity, got %d", got)
	}
	if !coll.Remove("C") || coll.Has("C") || coll.Len() != 2 {
		t.Errorf("Remove(C) did not remove the member")
	}
}

func TestStructFields(t *testing.T) {
	s := NewStruct("Object").Set("name", "Cube").Set("location", Vector{0, 0, 0}).Set("scale", Vector{1, 1, 1})
	s.Set("name", "Cube.001")
	if diff := cmp.Diff([]string{"name", "location", "scale"}, s.Fields()); diff != "" {
		t.Error(diff)
	}
	if !s.Delete("location") || s.Delete("location") {
		t.Errorf("Delete should succeed exactly once")
	}
	if diff := cmp.Diff([]string{"name", "scale"}, s.Fields()); diff != "" {
		t.Error(diff)
	}
	if got := s.String(); got != `<Object "Cube.001">` {
		t.Errorf("String() = %s", got)
	}
}

func TestEqual(t *testing.T) {
	obj := NewStruct("Object")
	tcs := []struct {
		name string
		a, b any
		want bool
	}{
		{name: "int float", a: 1, b: 1.0, want: true},
		{name: "int int", a: 2, b: 3, want: false},
		{name: "bool", a: true, b: true, want: true},
		{name: "bool int", a: true, b: 1, want: false},
		{name: "string", a: "a", b: "a", want: true},
		{name: "nil", a: nil, b: nil, want: true},
		{name: "nil struct", a: nil, b: obj, want: false},
		{name: "vector", a: Vector{1, 2, 3}, b: Vector{1, 2, 3}, want: true},
		{name: "vector sequence", a: Vector{1, 2, 3}, b: []any{1, 2, 3.0}, want: true},
		{name: "vector length", a: Vector{1, 2, 3}, b: Vector{1, 2}, want: false},
		{name: "euler", a: Euler{X: 1, Order: "XYZ"}, b: Euler{X: 1, Order: "XYZ"}, want: true},
		{name: "euler order", a: Euler{X: 1, Order: "XYZ"}, b: Euler{X: 1, Order: "ZYX"}, want: false},
		{name: "set order", a: EnumSet{"B", "A"}, b: NewEnumSet("A", "B"), want: true},
		{name: "layers", a: BoolArray{true, false}, b: BoolArray{true, false}, want: true},
		{name: "struct identity", a: obj, b: obj, want: true},
		{name: "struct copy", a: obj, b: NewStruct("Object"), want: false},
		{name: "sequence", a: []any{1, "a"}, b: []any{1.0, "a"}, want: true},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			if got := Equal(tc.a, tc.b); got != tc.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}
