package host

import "reflect"

// Equal reports whether two live values hold the same data. Numbers compare
// across int and float kinds; structs and collections compare by identity.
func Equal(a, b any) bool {
	if fa, ok := ToFloat(a); ok {
		fb, ok := ToFloat(b)
		return ok && fa == fb
	}

	switch x := a.(type) {
	case nil:
		return b == nil
	case bool, string:
		return a == b
	case Vector:
		y, ok := toVector(b)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if x[i] != y[i] {
				return false
			}
		}
		return true
	case Euler:
		y, ok := b.(Euler)
		return ok && x == y
	case BoolArray:
		y, ok := b.(BoolArray)
		return ok && reflect.DeepEqual(x, y)
	case EnumSet:
		y, ok := b.(EnumSet)
		return ok && reflect.DeepEqual(NewEnumSet(x...), NewEnumSet(y...))
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		y, ok := b.(map[string]any)
		return ok && reflect.DeepEqual(x, y)
	}

	ia, okA := Identity(a)
	ib, okB := Identity(b)
	return okA && okB && ia == ib
}
