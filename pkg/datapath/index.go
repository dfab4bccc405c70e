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
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidIndex means an index expression is neither an integer nor a
// single quoted string.
var ErrInvalidIndex = errors.New("invalid index expression")

// IndexValue is the decoded content of an index expression.
type IndexValue struct {
	IsKey bool
	Key   string
	Pos   int
}

func (v IndexValue) String() string {
	if v.IsKey {
		return QuoteIndex(v.Key)
	}
	return IntIndex(v.Pos)
}

// QuoteIndex returns the by-name index expression for name, e.g. ["Cube"].
func QuoteIndex(name string) string {
	return "[" + quote(name) + "]"
}

// IntIndex returns the positional index expression for i, e.g. [0].
func IntIndex(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}

// ParseIndex decodes a bracketed index expression.
func ParseIndex(expr string) (IndexValue, error) {
	if len(expr) < 2 || expr[0] != '[' || expr[len(expr)-1] != ']' {
		return IndexValue{}, fmt.Errorf("%w: %s", ErrInvalidIndex, expr)
	}
	inner := strings.TrimSpace(expr[1 : len(expr)-1])
	if inner == "" {
		return IndexValue{}, fmt.Errorf("%w: %s", ErrInvalidIndex, expr)
	}

	if q := inner[0]; q == '"' || q == '\'' {
		key, err := unquote(inner)
		if err != nil {
			return IndexValue{}, fmt.Errorf("%w: %s: %v", ErrInvalidIndex, expr, err)
		}
		return IndexValue{IsKey: true, Key: key}, nil
	}

	pos, err := strconv.Atoi(inner)
	if err != nil {
		return IndexValue{}, fmt.Errorf("%w: %s", ErrInvalidIndex, expr)
	}
	return IndexValue{Pos: pos}, nil
}

// unquote decodes a single- or double-quoted string. The closing quote must
// be the last character.
func unquote(s string) (string, error) {
	quoteChar := s[0]
	var out strings.Builder
	for i := 1; i < len(s); i++ {
		c := s[i]
		switch {
		case c == quoteChar:
			if i != len(s)-1 {
				return "", errors.New("trailing characters after string")
			}
			return out.String(), nil
		case c == '\\':
			i++
			if i >= len(s) {
				return "", errors.New("unterminated string")
			}
			switch s[i] {
			case 'n':
				out.WriteByte('\n')
			case 't':
				out.WriteByte('\t')
			case 'r':
				out.WriteByte('\r')
			default:
				out.WriteByte(s[i])
			}
		default:
			out.WriteByte(c)
		}
	}
	return "", errors.New("unterminated string")
}

// quote adds double quotes around the passed string.
func quote(s string) string {
	// Using fmt.Sprintf with %q converts non-ASCII runes to escape sequences,
	// and we don't want that.
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
