package emit

import (
	"fmt"
	"strings"
	"unicode"
)

// reservedNames cannot be used as node variables: they are either keywords
// or names the generated code already binds.
var reservedNames = map[string]struct{}{
	"tree": {}, "bpy": {}, "elem": {}, "point": {}, "fc": {}, "drv": {}, "var": {}, "tgt": {}, "target": {},

	"False": {}, "None": {}, "True": {}, "and": {}, "as": {}, "assert": {}, "async": {}, "await": {},
	"break": {}, "class": {}, "continue": {}, "def": {}, "del": {}, "elif": {}, "else": {},
	"except": {}, "finally": {}, "for": {}, "from": {}, "global": {}, "if": {}, "import": {},
	"in": {}, "is": {}, "lambda": {}, "nonlocal": {}, "not": {}, "or": {}, "pass": {},
	"raise": {}, "return": {}, "try": {}, "while": {}, "with": {}, "yield": {},
}

// varNames hands out unique identifiers derived from node names.
type varNames struct {
	used map[string]struct{}
}

func newVarNames() *varNames {
	return &varNames{used: make(map[string]struct{})}
}

// next returns an identifier for name that has not been handed out before.
func (v *varNames) next(name string) string {
	base := sanitize(name)
	out := base
	for i := 2; ; i++ {
		_, reserved := reservedNames[out]
		_, taken := v.used[out]
		if !reserved && !taken {
			break
		}
		out = fmt.Sprintf("%s_%d", base, i)
	}
	v.used[out] = struct{}{}
	return out
}

// sanitize lower-cases name and replaces every run of characters that are
// not valid in an identifier with a single underscore.
func sanitize(name string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(name) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	out := b.String()
	switch {
	case out == "":
		return "node"
	case out[0] >= '0' && out[0] <= '9':
		return "node_" + out
	}
	return out
}
