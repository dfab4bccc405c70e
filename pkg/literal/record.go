package literal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bpytools/rnagen/pkg/datapath"
	"github.com/bpytools/rnagen/pkg/host"
)

var (
	// ErrUnsupportedValue is returned when a value has no record form.
	ErrUnsupportedValue = errors.New("value cannot be stored in a record")
	// ErrUnresolvableReference is returned when a reference names a registry
	// item that does not exist.
	ErrUnresolvableReference = errors.New("unresolvable reference")
	// ErrInvalidRecord is returned by Validate for malformed records.
	ErrInvalidRecord = errors.New("invalid record")
)

// Kind names the populated variant of a Record.
type Kind string

const (
	KindBool      Kind = "BOOL"
	KindInt       Kind = "INT"
	KindFloat     Kind = "FLOAT"
	KindStr       Kind = "STR"
	KindEuler     Kind = "EULER"
	KindVector3   Kind = "VECTOR3"
	KindVector4   Kind = "VECTOR4"
	KindLayer20   Kind = "LAYER20"
	KindLayer32   Kind = "LAYER32"
	KindReference Kind = "REFERENCE"
)

// Reference is a lookup of a named registry item, optionally followed by an
// accessor such as "node_tree".
type Reference struct {
	Registry string `json:"registry"`
	Item     string `json:"item"`
	Accessor string `json:"accessor,omitempty"`
}

// Literal returns the lookup expression, e.g. bpy.data.objects.get("Cube").
func (r Reference) Literal() string {
	lookup := fmt.Sprintf("%s.%s.get(%s)", host.DataPath, r.Registry, Quote(r.Item))
	return datapath.Join(lookup, r.Accessor)
}

// Euler is the stored form of a rotation.
type Euler struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Order string  `json:"order"`
}

// Record is a typed snapshot of one property value. Exactly one of the value
// fields is set, matching Kind.
type Record struct {
	Kind      Kind       `json:"kind"`
	Bool      *bool      `json:"bool,omitempty"`
	Int       *int       `json:"int,omitempty"`
	Float     *float64   `json:"float,omitempty"`
	Str       *string    `json:"str,omitempty"`
	Euler     *Euler     `json:"euler,omitempty"`
	Vector    []float64  `json:"vector,omitempty"`
	Layers    []bool     `json:"layers,omitempty"`
	Reference *Reference `json:"reference,omitempty"`
}

// Snapshot captures v as a Record. References are only recorded for items
// that currently exist in their registry.
func (s *Serializer) Snapshot(v any) (Record, error) {
	switch x := v.(type) {
	case bool:
		return Record{Kind: KindBool, Bool: &x}, nil
	case string:
		return Record{Kind: KindStr, Str: &x}, nil
	case host.Euler:
		return Record{Kind: KindEuler, Euler: &Euler{X: x.X, Y: x.Y, Z: x.Z, Order: x.Order}}, nil
	case host.Vector:
		vec := make([]float64, len(x))
		copy(vec, x)
		switch len(x) {
		case 3:
			return Record{Kind: KindVector3, Vector: vec}, nil
		case 4:
			return Record{Kind: KindVector4, Vector: vec}, nil
		}
	case host.BoolArray:
		layers := make([]bool, len(x))
		copy(layers, x)
		switch len(x) {
		case 20:
			return Record{Kind: KindLayer20, Layers: layers}, nil
		case 32:
			return Record{Kind: KindLayer32, Layers: layers}, nil
		}
	case *host.Struct:
		ref, ok := s.Reference(x)
		if !ok {
			return Record{}, fmt.Errorf("%w: %s", ErrUnresolvableReference, x)
		}
		if _, err := ref.Resolve(s.ns); err != nil {
			return Record{}, err
		}
		return Record{Kind: KindReference, Reference: &ref}, nil
	}

	if i, ok := host.ToInt(v); ok {
		return Record{Kind: KindInt, Int: &i}, nil
	}
	if f, ok := host.ToFloat(v); ok {
		return Record{Kind: KindFloat, Float: &f}, nil
	}
	return Record{}, fmt.Errorf("%w: %s", ErrUnsupportedValue, host.Classify(v))
}

// Validate checks that exactly the variant named by Kind is populated.
func (r Record) Validate() error {
	populated := 0
	for _, set := range []bool{
		r.Bool != nil, r.Int != nil, r.Float != nil, r.Str != nil, r.Euler != nil,
		r.Vector != nil, r.Layers != nil, r.Reference != nil,
	} {
		if set {
			populated++
		}
	}
	if populated != 1 {
		return fmt.Errorf("%w: %d values set", ErrInvalidRecord, populated)
	}

	var ok bool
	switch r.Kind {
	case KindBool:
		ok = r.Bool != nil
	case KindInt:
		ok = r.Int != nil
	case KindFloat:
		ok = r.Float != nil
	case KindStr:
		ok = r.Str != nil
	case KindEuler:
		ok = r.Euler != nil
	case KindVector3:
		ok = len(r.Vector) == 3
	case KindVector4:
		ok = len(r.Vector) == 4
	case KindLayer20:
		ok = len(r.Layers) == 20
	case KindLayer32:
		ok = len(r.Layers) == 32
	case KindReference:
		ok = r.Reference != nil && r.Reference.Registry != "" && r.Reference.Item != ""
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidRecord, r.Kind)
	}
	if !ok {
		return fmt.Errorf("%w: value does not match kind %s", ErrInvalidRecord, r.Kind)
	}
	return nil
}

// Restore returns the live value the record describes. References are looked
// up in ns and fail with ErrUnresolvableReference when the item is gone.
func (r Record) Restore(ns *host.Namespace) (any, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	switch r.Kind {
	case KindBool:
		return *r.Bool, nil
	case KindInt:
		return *r.Int, nil
	case KindFloat:
		return *r.Float, nil
	case KindStr:
		return *r.Str, nil
	case KindEuler:
		return host.Euler{X: r.Euler.X, Y: r.Euler.Y, Z: r.Euler.Z, Order: r.Euler.Order}, nil
	case KindVector3, KindVector4:
		out := make(host.Vector, len(r.Vector))
		copy(out, r.Vector)
		return out, nil
	case KindLayer20, KindLayer32:
		out := make(host.BoolArray, len(r.Layers))
		copy(out, r.Layers)
		return out, nil
	}
	return r.Reference.Resolve(ns)
}

// Resolve looks the referenced item up in ns.
func (r Reference) Resolve(ns *host.Namespace) (any, error) {
	coll, ok := ns.Registry(r.Registry)
	if !ok {
		return nil, fmt.Errorf("%w: no registry %q", ErrUnresolvableReference, r.Registry)
	}
	item, ok := coll.Get(r.Item)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no item %q", ErrUnresolvableReference, r.Registry, r.Item)
	}
	if r.Accessor == "" {
		return item, nil
	}
	v, err := ns.EvalFrom(item, r.Accessor)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnresolvableReference, err)
	}
	return v, nil
}

// Literal returns source text that rebuilds the recorded value.
func (r Record) Literal() string {
	switch r.Kind {
	case KindBool:
		return pyBool(*r.Bool)
	case KindInt:
		return fmt.Sprintf("%d", *r.Int)
	case KindFloat:
		return fmt.Sprintf("%f", *r.Float)
	case KindStr:
		return Quote(*r.Str)
	case KindEuler:
		return floats(r.Euler.X, r.Euler.Y, r.Euler.Z)
	case KindVector3, KindVector4:
		return floats(r.Vector...)
	case KindLayer20, KindLayer32:
		parts := make([]string, len(r.Layers))
		for i, b := range r.Layers {
			parts[i] = pyBool(b)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case KindReference:
		return r.Reference.Literal()
	}
	return None
}

// String is a short human readable form used in listings.
func (r Record) String() string {
	if r.Kind == KindReference && r.Reference != nil {
		return fmt.Sprintf("%s %s[%q]", r.Kind, r.Reference.Registry, r.Reference.Item)
	}
	return fmt.Sprintf("%s %s", r.Kind, r.Literal())
}

func floats(fs ...float64) string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = fmt.Sprintf("%f", f)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// RegistryTable returns the type name to registry table references are built
// from.
func RegistryTable() map[string]string {
	return host.RegistryTable()
}
