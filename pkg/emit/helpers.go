package emit

import "github.com/bpytools/rnagen/pkg/host"

func attrStruct(s *host.Struct, name string) (*host.Struct, bool) {
	v, ok := s.Attr(name)
	if !ok {
		return nil, false
	}
	out, ok := v.(*host.Struct)
	return out, ok && out != nil
}

func attrCollection(s *host.Struct, name string) (*host.Collection, bool) {
	v, ok := s.Attr(name)
	if !ok {
		return nil, false
	}
	out, ok := v.(*host.Collection)
	return out, ok && out != nil
}

func attrString(s *host.Struct, name string) (string, bool) {
	v, ok := s.Attr(name)
	if !ok {
		return "", false
	}
	out, ok := v.(string)
	return out, ok
}

func attrBool(s *host.Struct, name string) bool {
	v, _ := s.Attr(name)
	b, _ := v.(bool)
	return b
}

// structs returns the struct members of c, skipping anything else.
func structs(c *host.Collection) []*host.Struct {
	if c == nil {
		return nil
	}
	var out []*host.Struct
	for _, it := range c.Items() {
		if s, ok := it.(*host.Struct); ok && s != nil {
			out = append(out, s)
		}
	}
	return out
}

func describeValue(v any) string {
	if s, ok := v.(*host.Struct); ok {
		return s.String()
	}
	return host.Classify(v).String()
}
