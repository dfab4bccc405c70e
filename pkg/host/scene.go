package host

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Scene document tags. Mappings tagged with any other local tag are structs
// of that type, e.g. `!Object {name: Cube}`.
const (
	tagVector     = "!vec"
	tagEuler      = "!euler"
	tagLayers     = "!layers"
	tagSet        = "!set"
	tagCollection = "!coll"
	tagRef        = "!ref"
)

// ErrInvalidScene is returned for scene documents that do not describe a
// valid graph.
var ErrInvalidScene = errors.New("invalid scene document")

// sceneRef is a `!ref` placeholder waiting for the graph to be complete.
type sceneRef struct {
	path string
	line int
	set  func(any)
}

type sceneDecoder struct {
	refs []*sceneRef
	// seen keeps YAML aliases pointing at the same struct or collection.
	seen map[*yaml.Node]any
}

// LoadScene decodes a YAML scene document into a fresh namespace. The top
// level keys are registry names, each holding a sequence of structs:
//
//	objects:
//	  - !Object
//	    name: Cube
//	    location: !vec [0, 0, 0]
//	    data: !ref bpy.data.meshes["Cube"]
//
// `!ref` values are paths, resolved once the whole document is loaded, so
// they may point forward or form cycles.
func LoadScene(r io.Reader) (*Namespace, error) {
	ns := NewNamespace()

	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return ns, nil
		}
		return nil, errors.Wrap(err, "reading scene")
	}
	if len(doc.Content) == 0 {
		return ns, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, errors.Wrapf(ErrInvalidScene, "line %d: top level must be a mapping of registries", root.Line)
	}

	d := &sceneDecoder{seen: make(map[*yaml.Node]any)}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		reg, ok := ns.Registry(key.Value)
		if !ok {
			return nil, errors.Wrapf(ErrInvalidScene, "line %d: unknown registry %q", key.Line, key.Value)
		}
		if err := d.decodeRegistry(reg, val); err != nil {
			return nil, errors.Wrapf(err, "registry %s", key.Value)
		}
	}

	if err := d.resolve(ns); err != nil {
		return nil, err
	}
	return ns, nil
}

func (d *sceneDecoder) decodeRegistry(reg *Collection, node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return errors.Wrapf(ErrInvalidScene, "line %d: registry must be a sequence", node.Line)
	}
	for _, item := range node.Content {
		if item.Kind == yaml.MappingNode && !isLocalTag(item) {
			// Untagged members take the registry's default type.
			item.Tag = "!" + reg.TypeName
		}
		v, err := d.decode(item)
		if err != nil {
			return err
		}
		s, ok := v.(*Struct)
		if !ok {
			return errors.Wrapf(ErrInvalidScene, "line %d: registry members must be structs", item.Line)
		}
		if _, ok := s.Name(); !ok {
			return errors.Wrapf(ErrInvalidScene, "line %d: registry members need a name", item.Line)
		}
		reg.Append(s)
	}
	return nil
}

// resolve replaces every `!ref` placeholder with the value its path points
// at. Refs may point at other refs, so unresolved ones are retried until a
// pass makes no progress.
func (d *sceneDecoder) resolve(ns *Namespace) error {
	pending := d.refs
	for len(pending) > 0 {
		var next []*sceneRef
		var lastErr error
		for _, ref := range pending {
			v, err := ns.Eval(ref.path)
			if err == nil {
				if _, unresolved := v.(*sceneRef); unresolved {
					err = errors.New("target is itself an unresolved reference")
				}
			}
			if err != nil {
				next = append(next, ref)
				lastErr = errors.Wrapf(err, "line %d: resolving !ref %s", ref.line, ref.path)
				continue
			}
			ref.set(v)
		}
		if len(next) == len(pending) {
			return lastErr
		}
		pending = next
	}
	return nil
}

func isLocalTag(n *yaml.Node) bool {
	tag := n.ShortTag()
	return strings.HasPrefix(tag, "!") && !strings.HasPrefix(tag, "!!")
}

func (d *sceneDecoder) decode(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.AliasNode:
		if v, ok := d.seen[n.Alias]; ok {
			return v, nil
		}
		return d.decode(n.Alias)
	case yaml.ScalarNode:
		return d.decodeScalar(n)
	case yaml.SequenceNode:
		return d.decodeSequence(n)
	case yaml.MappingNode:
		return d.decodeMapping(n)
	}
	return nil, errors.Wrapf(ErrInvalidScene, "line %d: unsupported node", n.Line)
}

func (d *sceneDecoder) decodeScalar(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case tagRef:
		ref := &sceneRef{path: n.Value, line: n.Line}
		d.refs = append(d.refs, ref)
		return ref, nil
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		err := n.Decode(&b)
		return b, err
	case "!!int":
		var i int
		err := n.Decode(&i)
		return i, err
	case "!!float":
		var f float64
		err := n.Decode(&f)
		return f, err
	case "!!str":
		return n.Value, nil
	}
	return nil, errors.Wrapf(ErrInvalidScene, "line %d: unsupported scalar tag %s", n.Line, n.Tag)
}

func (d *sceneDecoder) decodeSequence(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case tagVector:
		out := make(Vector, len(n.Content))
		for i, c := range n.Content {
			if err := c.Decode(&out[i]); err != nil {
				return nil, errors.Wrapf(err, "line %d: vector element", c.Line)
			}
		}
		return out, nil
	case tagEuler:
		if len(n.Content) != 3 && len(n.Content) != 4 {
			return nil, errors.Wrapf(ErrInvalidScene, "line %d: euler needs 3 angles and an optional order", n.Line)
		}
		e := Euler{Order: "XYZ"}
		for i, p := range []*float64{&e.X, &e.Y, &e.Z} {
			if err := n.Content[i].Decode(p); err != nil {
				return nil, errors.Wrapf(err, "line %d: euler angle", n.Content[i].Line)
			}
		}
		if len(n.Content) == 4 {
			e.Order = n.Content[3].Value
		}
		return e, nil
	case tagLayers:
		out := make(BoolArray, len(n.Content))
		for i, c := range n.Content {
			if err := c.Decode(&out[i]); err != nil {
				return nil, errors.Wrapf(err, "line %d: layer element", c.Line)
			}
		}
		return out, nil
	case tagSet:
		items := make([]string, len(n.Content))
		for i, c := range n.Content {
			items[i] = c.Value
		}
		return NewEnumSet(items...), nil
	case tagCollection:
		c := NewCollection("")
		d.seen[n] = c
		for _, item := range n.Content {
			v, err := d.decode(item)
			if err != nil {
				return nil, err
			}
			if s, ok := v.(*Struct); ok && c.TypeName == "" {
				c.TypeName = s.TypeName
			}
			if ref, ok := v.(*sceneRef); ok {
				idx := c.Len()
				ref.set = func(resolved any) { c.items[idx] = resolved }
			}
			c.Append(v)
		}
		return c, nil
	case "!!seq":
		out := make([]any, len(n.Content))
		for i, item := range n.Content {
			v, err := d.decode(item)
			if err != nil {
				return nil, err
			}
			if ref, ok := v.(*sceneRef); ok {
				idx := i
				ref.set = func(resolved any) { out[idx] = resolved }
			}
			out[i] = v
		}
		return out, nil
	}
	return nil, errors.Wrapf(ErrInvalidScene, "line %d: unsupported sequence tag %s", n.Line, n.Tag)
}

func (d *sceneDecoder) decodeMapping(n *yaml.Node) (any, error) {
	if !isLocalTag(n) {
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			v, err := d.decode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			if ref, ok := v.(*sceneRef); ok {
				ref.set = func(resolved any) { out[key] = resolved }
			}
			out[key] = v
		}
		return out, nil
	}

	s := NewStruct(strings.TrimPrefix(n.ShortTag(), "!"))
	d.seen[n] = s
	for i := 0; i+1 < len(n.Content); i += 2 {
		key := n.Content[i].Value
		v, err := d.decode(n.Content[i+1])
		if err != nil {
			return nil, errors.Wrapf(err, "%s.%s", s.TypeName, key)
		}
		if ref, ok := v.(*sceneRef); ok {
			ref.set = func(resolved any) { s.values[key] = resolved }
		}
		s.Set(key, v)
	}
	return s, nil
}
