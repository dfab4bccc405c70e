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

package token

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"
)

const eof = rune(-1)

// Base errors for lexing paths.
var (
	ErrEmptyPath          = errors.New("empty path")
	ErrUnterminatedString = errors.New("unterminated string")
	ErrUnbalancedBracket  = errors.New("unbalanced bracket")
	ErrEmptyIndex         = errors.New("empty index expression")
	ErrInvalidIdentifier  = errors.New("invalid identifier")
	ErrInvalidCharacter   = errors.New("invalid character")
)

// Kind is the type of a path token.
type Kind int

const (
	// Attribute is a named attribute access. The root identifier of a path is
	// also an Attribute, just without a leading separator.
	Attribute Kind = iota
	// Index is a bracketed index expression, brackets included.
	Index
	// Self is the synthetic "." token meaning the current value.
	Self
)

func (k Kind) String() string {
	switch k {
	case Attribute:
		return "Attribute"
	case Index:
		return "Index"
	case Self:
		return "Self"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Span locates one token in the scanned input. Attribute spans cover the name
// only, without the separator in front of it.
type Span struct {
	Kind  Kind
	Start int
	End   int
}

// Text returns the slice of input covered by the span.
func (s Span) Text(input string) string {
	return input[s.Start:s.End]
}

// Scanner splits an attribute path such as `bpy.data.objects["Cube"].location`
// into token spans.
type Scanner struct {
	input   string
	pos     int // Current position
	readPos int // Next position to read
	ch      rune
	started bool
	err     error // Last error if any
}

func NewScanner(input string) *Scanner {
	s := &Scanner{input: input}
	s.read()
	return s
}

// Next returns the next span. ok is false at the end of input or after an
// error; Err distinguishes the two.
func (s *Scanner) Next() (Span, bool) {
	if s.err != nil || s.ch == eof {
		return Span{}, false
	}

	if !s.started {
		s.started = true
		return s.readIdent()
	}

	switch s.ch {
	case '.':
		s.read()
		return s.readIdent()
	case '[':
		return s.readIndex()
	case ']':
		s.setError(ErrUnbalancedBracket)
	default:
		s.setError(ErrInvalidCharacter)
	}
	return Span{}, false
}

// Err returns the error that stopped the scanner, if any.
func (s *Scanner) Err() error {
	return s.err
}

// Lex scans the whole input. It never returns a partial result: either every
// token of the input is returned or an error is.
func Lex(input string) ([]Span, error) {
	if input == "" {
		return nil, LexError{Inner: ErrEmptyPath}
	}
	if input == "." {
		return []Span{{Kind: Self, Start: 0, End: 1}}, nil
	}

	s := NewScanner(input)
	var spans []Span
	for {
		span, ok := s.Next()
		if !ok {
			break
		}
		spans = append(spans, span)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return spans, nil
}

// read consumes the next rune and advances.
func (s *Scanner) read() rune {
	if s.readPos >= len(s.input) {
		s.ch = eof
		s.pos = len(s.input)
		return eof
	}
	r, w := utf8.DecodeRuneInString(s.input[s.readPos:])
	s.pos = s.readPos // Mark last read position
	s.readPos += w    // Advance for next read
	s.ch = r
	return r
}

func (s *Scanner) readIdent() (Span, bool) {
	start := s.pos
	if !isIdentStart(s.ch) {
		s.setError(ErrInvalidIdentifier)
		return Span{}, false
	}
	for isIdentPart(s.ch) {
		s.read()
	}
	return Span{Kind: Attribute, Start: start, End: s.pos}, true
}

// readIndex consumes a balanced bracket expression. Brackets inside quoted
// strings do not count towards the balance.
func (s *Scanner) readIndex() (Span, bool) {
	start := s.pos
	depth := 0
	for {
		switch s.ch {
		case eof:
			s.setError(ErrUnbalancedBracket)
			return Span{}, false
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				s.read()
				if s.pos-start == 2 {
					s.pos = start
					s.setError(ErrEmptyIndex)
					return Span{}, false
				}
				return Span{Kind: Index, Start: start, End: s.pos}, true
			}
		case '"', '\'':
			if !s.skipString() {
				return Span{}, false
			}
		}
		s.read()
	}
}

// skipString advances over a quoted string, leaving s.ch on the closing quote.
func (s *Scanner) skipString() bool {
	quote := s.ch
	for {
		s.read()
		switch s.ch {
		case quote:
			return true
		case '\\':
			// Escaped character
			s.read()
			if s.ch != eof {
				continue
			}
			s.setError(ErrUnterminatedString)
			return false
		case eof:
			s.setError(ErrUnterminatedString)
			return false
		}
	}
}

func (s *Scanner) setError(err error) {
	s.err = LexError{
		Inner:    err,
		Position: s.pos,
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

type LexError struct {
	Inner    error
	Position int
}

func (e LexError) Error() string {
	var innerMsg string
	if e.Inner != nil {
		innerMsg = e.Inner.Error()
	}
	return fmt.Sprintf("error at position %d: %s", e.Position, innerMsg)
}

// Unwrap allows errors.Is() to inspect the underlying error.
func (e LexError) Unwrap() error {
	return e.Inner
}
