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

	"github.com/bpytools/rnagen/pkg/datapath"
	"github.com/bpytools/rnagen/pkg/datapath/token"
)

// Assign sets the value at path. The parent of the last token must already
// exist; assignment never creates attributes, since host structs have a fixed
// set of properties.
func (ns *Namespace) Assign(path string, value any) error {
	p, err := datapath.Parse(path)
	if err != nil {
		return &EvalError{Path: path, Err: err}
	}
	if p.Len() < 2 {
		return &EvalError{Path: path, Err: fmt.Errorf("%w: cannot rebind a root name", ErrReadOnly)}
	}

	parent, err := ns.EvalPath(p.Parent())
	if err != nil {
		return &EvalError{Path: path, Err: err}
	}

	last, _ := p.Last()
	switch last.Kind {
	case token.Attribute:
		err = setAttr(parent, last.Text, value)
	case token.Index:
		err = setIndex(parent, last.Text, value)
	default:
		err = ErrSelfReference
	}
	if err != nil {
		return &EvalError{Path: path, Err: err}
	}
	return nil
}

// Assign replaces an existing field of s, converting value to the field's
// current kind where the host would.
func (s *Struct) Assign(name string, value any) error {
	current, ok := s.values[name]
	if !ok {
		return fmt.Errorf("%w: %s has no attribute %q", ErrNoAttribute, s, name)
	}
	next, err := coerce(current, value)
	if err != nil {
		return fmt.Errorf("assigning %s.%s: %w", s.TypeName, name, err)
	}
	s.values[name] = next
	return nil
}

func setAttr(parent any, name string, value any) error {
	switch x := parent.(type) {
	case *Struct:
		return x.Assign(name, value)
	case Vector:
		i, ok := vectorComponents[name]
		if !ok || i >= len(x) {
			return fmt.Errorf("%w: vector has no attribute %q", ErrNoAttribute, name)
		}
		f, ok := ToFloat(value)
		if !ok {
			return fmt.Errorf("%w: vector component needs a number, got %s", ErrTypeMismatch, Classify(value))
		}
		x[i] = f
		return nil
	case *Collection, *Module:
		return fmt.Errorf("%w: %s", ErrReadOnly, describe(parent))
	}
	return fmt.Errorf("%w: %s has no attribute %q", ErrNoAttribute, describe(parent), name)
}

func setIndex(parent any, expr string, value any) error {
	iv, err := datapath.ParseIndex(expr)
	if err != nil {
		return err
	}

	switch x := parent.(type) {
	case map[string]any:
		if !iv.IsKey {
			return fmt.Errorf("%w: dict keys are strings, got %s", ErrTypeMismatch, expr)
		}
		x[iv.Key] = value
		return nil
	case []any:
		i, ok := position(iv.Pos, len(x))
		if iv.IsKey || !ok {
			return fmt.Errorf("%w: %s", ErrOutOfRange, expr)
		}
		next, err := coerce(x[i], value)
		if err != nil {
			return err
		}
		x[i] = next
		return nil
	case Vector:
		i, ok := position(iv.Pos, len(x))
		if iv.IsKey || !ok {
			return fmt.Errorf("%w: %s", ErrOutOfRange, expr)
		}
		f, ok := ToFloat(value)
		if !ok {
			return fmt.Errorf("%w: vector element needs a number, got %s", ErrTypeMismatch, Classify(value))
		}
		x[i] = f
		return nil
	case BoolArray:
		i, ok := position(iv.Pos, len(x))
		if iv.IsKey || !ok {
			return fmt.Errorf("%w: %s", ErrOutOfRange, expr)
		}
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("%w: array element needs a bool, got %s", ErrTypeMismatch, Classify(value))
		}
		x[i] = b
		return nil
	case *Collection:
		return fmt.Errorf("%w: collection members cannot be replaced", ErrReadOnly)
	}
	return fmt.Errorf("%w: %s", ErrNotIndexable, describe(parent))
}

// coerce returns value converted to the kind of current, or an error if the
// host would reject the assignment.
func coerce(current, value any) (any, error) {
	ct, vt := Classify(current), Classify(value)
	switch {
	case ct == TagNone:
		return value, nil
	case ct == TagStruct && vt == TagNone:
		// Pointer properties may be cleared.
		return nil, nil
	case ct == TagCollection:
		return nil, fmt.Errorf("%w: collection properties cannot be assigned", ErrReadOnly)
	}

	switch ct {
	case TagFloat:
		if f, ok := ToFloat(value); ok {
			return f, nil
		}
	case TagInt:
		if i, ok := ToInt(value); ok {
			return i, nil
		}
	case TagVector:
		cur := current.(Vector)
		if vec, ok := toVector(value); ok && len(vec) == len(cur) {
			return vec, nil
		}
		return nil, fmt.Errorf("%w: want %d-element vector, got %s", ErrTypeMismatch, len(cur), describeShape(value))
	case TagEuler:
		// The rotation order belongs to the target; only angles are assigned.
		cur := current.(Euler)
		switch x := value.(type) {
		case Euler:
			return Euler{X: x.X, Y: x.Y, Z: x.Z, Order: cur.Order}, nil
		case Vector:
			if len(x) == 3 {
				return Euler{X: x[0], Y: x[1], Z: x[2], Order: cur.Order}, nil
			}
		}
	case TagBoolArray:
		cur := current.(BoolArray)
		if arr, ok := value.(BoolArray); ok && len(arr) == len(cur) {
			out := make(BoolArray, len(arr))
			copy(out, arr)
			return out, nil
		}
		return nil, fmt.Errorf("%w: want %d-element bool array, got %s", ErrTypeMismatch, len(cur), describeShape(value))
	case TagSet:
		if set, ok := value.(EnumSet); ok {
			return NewEnumSet(set...), nil
		}
	default:
		if ct == vt {
			return value, nil
		}
	}
	return nil, fmt.Errorf("%w: cannot assign %s to %s", ErrTypeMismatch, vt, ct)
}

func toVector(v any) (Vector, bool) {
	switch x := v.(type) {
	case Vector:
		out := make(Vector, len(x))
		copy(out, x)
		return out, true
	case []any:
		out := make(Vector, len(x))
		for i, e := range x {
			f, ok := ToFloat(e)
			if !ok {
				return nil, false
			}
			out[i] = f
		}
		return out, true
	}
	return nil, false
}

func describeShape(v any) string {
	switch x := v.(type) {
	case Vector:
		return fmt.Sprintf("%d-element vector", len(x))
	case BoolArray:
		return fmt.Sprintf("%d-element bool array", len(x))
	}
	return Classify(v).String()
}
