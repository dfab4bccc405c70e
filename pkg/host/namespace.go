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
	"errors"
	"fmt"

	"github.com/bpytools/rnagen/pkg/datapath"
	"github.com/bpytools/rnagen/pkg/datapath/token"
)

// Base errors for evaluating paths against the namespace.
var (
	ErrUnknownName   = errors.New("name is not defined")
	ErrNoAttribute   = errors.New("no such attribute")
	ErrNotIndexable  = errors.New("value is not indexable")
	ErrNotFound      = errors.New("key not found")
	ErrOutOfRange    = errors.New("index out of range")
	ErrTypeMismatch  = errors.New("type mismatch")
	ErrReadOnly      = errors.New("value is read-only")
	ErrSelfReference = errors.New("self token cannot be evaluated here")
)

// EvalError is returned whenever evaluating or assigning a path fails. Path
// is the full path that was requested.
type EvalError struct {
	Path string
	Err  error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("evaluating %q: %v", e.Path, e.Err)
}

func (e *EvalError) Unwrap() error {
	return e.Err
}

// Namespace is the global namespace paths are evaluated against. It owns the
// `bpy` module binding and the BlendData registries below it. It is not safe
// for concurrent use.
type Namespace struct {
	bindings map[string]any
	data     *Struct
}

// NewNamespace returns a namespace with an empty registry for every known
// registry name.
func NewNamespace() *Namespace {
	data := NewStruct(BlendDataType)
	for _, reg := range Registries() {
		t, _ := DefaultType(reg)
		data.Set(reg, NewCollection(t))
	}
	ns := &Namespace{
		bindings: make(map[string]any),
		data:     data,
	}
	ns.bindings[RootName] = NewModule(RootName).Set("data", data)
	return ns
}

// Data returns the BlendData struct.
func (ns *Namespace) Data() *Struct {
	return ns.data
}

// Registry returns the named global registry.
func (ns *Namespace) Registry(name string) (*Collection, bool) {
	v, ok := ns.data.Attr(name)
	if !ok {
		return nil, false
	}
	c, ok := v.(*Collection)
	return c, ok
}

// Add appends s to the registry that owns its type and returns s.
func (ns *Namespace) Add(s *Struct) (*Struct, error) {
	reg, ok := RegistryFor(s.TypeName)
	if !ok {
		return nil, fmt.Errorf("%w: no registry holds type %s", ErrTypeMismatch, s.TypeName)
	}
	c, ok := ns.Registry(reg)
	if !ok {
		return nil, fmt.Errorf("%w: registry %s", ErrNotFound, reg)
	}
	c.Append(s)
	return s, nil
}

// Bind makes v reachable as a top level name.
func (ns *Namespace) Bind(name string, v any) {
	ns.bindings[name] = v
}

// Eval evaluates an absolute path and returns its value.
func (ns *Namespace) Eval(path string) (any, error) {
	p, err := datapath.Parse(path)
	if err != nil {
		return nil, &EvalError{Path: path, Err: err}
	}
	return ns.EvalPath(p)
}

// EvalPath evaluates an already parsed absolute path.
func (ns *Namespace) EvalPath(p datapath.Path) (any, error) {
	tokens := p.Tokens()
	if len(tokens) == 0 {
		return nil, &EvalError{Path: p.String(), Err: token.ErrEmptyPath}
	}
	if tokens[0].Kind != token.Attribute {
		return nil, &EvalError{Path: p.String(), Err: ErrSelfReference}
	}
	cur, ok := ns.bindings[tokens[0].Text]
	if !ok {
		return nil, &EvalError{Path: p.String(), Err: fmt.Errorf("%w: %s", ErrUnknownName, tokens[0].Text)}
	}
	v, err := walk(cur, tokens[1:])
	if err != nil {
		return nil, &EvalError{Path: p.String(), Err: err}
	}
	return v, nil
}

// EvalFrom evaluates rel relative to v. rel may start with an attribute name,
// a separator or an index expression; "." and "" return v itself.
func (ns *Namespace) EvalFrom(v any, rel string) (any, error) {
	tokens, err := relativeTokens(rel)
	if err != nil {
		return nil, &EvalError{Path: rel, Err: err}
	}
	out, err := walk(v, tokens)
	if err != nil {
		return nil, &EvalError{Path: rel, Err: err}
	}
	return out, nil
}

// relativeTokens parses a relative path by anchoring it on a dummy root.
func relativeTokens(rel string) ([]datapath.Token, error) {
	if rel == "" || rel == "." {
		return nil, nil
	}
	p, err := datapath.Parse(datapath.Join("_", rel))
	if err != nil {
		return nil, err
	}
	return p.Tokens()[1:], nil
}

func walk(cur any, tokens []datapath.Token) (any, error) {
	var err error
	for _, t := range tokens {
		switch t.Kind {
		case token.Attribute:
			cur, err = getAttr(cur, t.Text)
		case token.Index:
			cur, err = getIndex(cur, t.Text)
		case token.Self:
			continue
		}
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

var vectorComponents = map[string]int{"x": 0, "y": 1, "z": 2, "w": 3}

func getAttr(v any, name string) (any, error) {
	switch x := v.(type) {
	case *Module:
		if out, ok := x.Attr(name); ok {
			return out, nil
		}
	case *Struct:
		if out, ok := x.Attr(name); ok {
			return out, nil
		}
	case Vector:
		if i, ok := vectorComponents[name]; ok && i < len(x) {
			return x[i], nil
		}
	case Euler:
		switch name {
		case "x":
			return x.X, nil
		case "y":
			return x.Y, nil
		case "z":
			return x.Z, nil
		case "order":
			return x.Order, nil
		}
	}
	return nil, fmt.Errorf("%w: %s has no attribute %q", ErrNoAttribute, describe(v), name)
}

func getIndex(v any, expr string) (any, error) {
	iv, err := datapath.ParseIndex(expr)
	if err != nil {
		return nil, err
	}

	if iv.IsKey {
		switch x := v.(type) {
		case *Collection:
			if out, ok := x.Lookup(iv.Key); ok {
				return out, nil
			}
			return nil, fmt.Errorf("%w: %s", ErrNotFound, expr)
		case map[string]any:
			if out, ok := x[iv.Key]; ok {
				return out, nil
			}
			return nil, fmt.Errorf("%w: %s", ErrNotFound, expr)
		}
		return nil, fmt.Errorf("%w: %s by key %s", ErrNotIndexable, describe(v), expr)
	}

	switch x := v.(type) {
	case *Collection:
		if out, ok := x.At(iv.Pos); ok {
			return out, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrOutOfRange, expr)
	case []any:
		if i, ok := position(iv.Pos, len(x)); ok {
			return x[i], nil
		}
		return nil, fmt.Errorf("%w: %s", ErrOutOfRange, expr)
	case Vector:
		if i, ok := position(iv.Pos, len(x)); ok {
			return x[i], nil
		}
		return nil, fmt.Errorf("%w: %s", ErrOutOfRange, expr)
	case BoolArray:
		if i, ok := position(iv.Pos, len(x)); ok {
			return x[i], nil
		}
		return nil, fmt.Errorf("%w: %s", ErrOutOfRange, expr)
	case Euler:
		if i, ok := position(iv.Pos, 3); ok {
			return []float64{x.X, x.Y, x.Z}[i], nil
		}
		return nil, fmt.Errorf("%w: %s", ErrOutOfRange, expr)
	}
	return nil, fmt.Errorf("%w: %s by position %s", ErrNotIndexable, describe(v), expr)
}

func position(i, n int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, i >= 0 && i < n
}

func describe(v any) string {
	switch x := v.(type) {
	case *Struct:
		return x.String()
	case *Collection:
		return fmt.Sprintf("<collection of %s>", x.TypeName)
	case *Module:
		return fmt.Sprintf("<module %s>", x.Name)
	}
	return Classify(v).String()
}
