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

package datapath

import (
	"strings"

	"github.com/bpytools/rnagen/pkg/datapath/token"
)

// Token is one element of a parsed attribute path. For Attribute tokens Text
// is the bare name; for Index tokens it is the bracketed expression.
type Token struct {
	Kind token.Kind
	Text string
}

// String renders the token the way it appears after a preceding token.
func (t Token) String() string {
	if t.Kind == token.Attribute {
		return "." + t.Text
	}
	return t.Text
}

// Path is an immutable, parsed attribute path.
type Path struct {
	tokens []Token
}

// Parse lexes text into a Path. Malformed paths fail as a whole.
func Parse(text string) (Path, error) {
	spans, err := token.Lex(text)
	if err != nil {
		return Path{}, err
	}
	p := Path{tokens: make([]Token, len(spans))}
	for i, s := range spans {
		p.tokens[i] = Token{Kind: s.Kind, Text: s.Text(text)}
	}
	return p, nil
}

// MustParse is like Parse but panics on malformed input. Intended for
// hand-written tables.
func MustParse(text string) Path {
	p, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Path) Len() int {
	return len(p.tokens)
}

// Tokens returns a copy of the path's tokens.
func (p Path) Tokens() []Token {
	out := make([]Token, len(p.tokens))
	copy(out, p.tokens)
	return out
}

// Last returns the final token. ok is false for the empty path.
func (p Path) Last() (Token, bool) {
	if len(p.tokens) == 0 {
		return Token{}, false
	}
	return p.tokens[len(p.tokens)-1], true
}

// Parent returns the path without its final token.
func (p Path) Parent() Path {
	if len(p.tokens) == 0 {
		return p
	}
	return Path{tokens: p.tokens[:len(p.tokens)-1:len(p.tokens)-1]}
}

// Append returns a new path with t added at the end.
func (p Path) Append(t Token) Path {
	out := make([]Token, len(p.tokens), len(p.tokens)+1)
	copy(out, p.tokens)
	return Path{tokens: append(out, t)}
}

// HasPrefix reports whether every token of short matches the head of p.
func (p Path) HasPrefix(short Path) bool {
	if len(short.tokens) > len(p.tokens) {
		return false
	}
	for i, t := range short.tokens {
		if p.tokens[i] != t {
			return false
		}
	}
	return true
}

func (p Path) String() string {
	result := strings.Builder{}
	for i, t := range p.tokens {
		if i == 0 {
			// No leading separator.
			result.WriteString(t.Text)
			continue
		}
		result.WriteString(t.String())
	}
	return result.String()
}

// RemoveLastAttribute splits text into the path up to the end of its
// second-last token and the text of the last token. ok is false when the path
// does not parse or has fewer than two tokens: the root is never strippable.
func RemoveLastAttribute(text string) (prefix, last string, ok bool) {
	spans, err := token.Lex(text)
	if err != nil || len(spans) < 2 {
		return "", "", false
	}
	n := len(spans)
	return text[:spans[n-2].End], spans[n-1].Text(text), true
}

// Prefix is one step of a path's hierarchy.
type Prefix struct {
	Text    string
	Indexed bool
}

// Hierarchy enumerates every non-empty prefix of text that ends on a token
// boundary, outermost first. The full path is the last entry.
func Hierarchy(text string) ([]Prefix, error) {
	spans, err := token.Lex(text)
	if err != nil {
		return nil, err
	}
	out := make([]Prefix, 0, len(spans))
	for _, s := range spans {
		out = append(out, Prefix{Text: text[:s.End], Indexed: s.Kind == token.Index})
	}
	return out, nil
}

// Join appends a relative path to base. Relative paths starting with an index
// expression attach without a separator; "." and "" mean base itself.
func Join(base, rel string) string {
	switch {
	case rel == "" || rel == ".":
		return base
	case base == "":
		return strings.TrimPrefix(rel, ".")
	case strings.HasPrefix(rel, "["):
		return base + rel
	case strings.HasPrefix(rel, "."):
		return base + rel
	default:
		return base + "." + rel
	}
}

// Relative strips base from full and returns what remains without a leading
// separator. ok is false when base is not a token-aligned prefix of full.
func Relative(full, base string) (string, bool) {
	if full == base {
		return "", true
	}
	if !strings.HasPrefix(full, base) {
		return "", false
	}
	rest := full[len(base):]
	switch {
	case strings.HasPrefix(rest, "."):
		return rest[1:], true
	case strings.HasPrefix(rest, "["):
		return rest, true
	default:
		return "", false
	}
}
