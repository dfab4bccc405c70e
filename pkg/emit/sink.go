package emit

import (
	"errors"
	"fmt"
	"strings"
)

// Sink is an append-only text buffer generated code is written into.
type Sink interface {
	WriteLine(line string)
	// LineCount returns the number of lines written so far.
	LineCount() int
}

// TextBuffer is an in-memory Sink.
type TextBuffer struct {
	b     strings.Builder
	lines int
}

var _ Sink = &TextBuffer{}

func NewTextBuffer() *TextBuffer {
	return &TextBuffer{}
}

func (t *TextBuffer) WriteLine(line string) {
	t.b.WriteString(line)
	t.b.WriteByte('\n')
	t.lines++
}

func (t *TextBuffer) LineCount() int {
	return t.lines
}

func (t *TextBuffer) String() string {
	return t.b.String()
}

// StringWriter knows how to write a string to a Writer.
//
// Note: *os.File and *bytes.Buffer meet this interface.
type StringWriter interface {
	WriteString(s string) (int, error)
}

// ErrWritingString means there was a problem writing output to the writer
// behind a WriterSink.
var ErrWritingString = errors.New("writing output")

// WriterSink streams lines to a StringWriter. The first write error stops
// further writes and is reported by Err.
type WriterSink struct {
	w     StringWriter
	lines int
	err   error
}

var _ Sink = &WriterSink{}

func NewWriterSink(w StringWriter) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) WriteLine(line string) {
	if s.err != nil {
		return
	}
	if _, err := s.w.WriteString(line + "\n"); err != nil {
		s.err = fmt.Errorf("%w: %v", ErrWritingString, err)
		return
	}
	s.lines++
}

func (s *WriterSink) LineCount() int {
	return s.lines
}

func (s *WriterSink) Err() error {
	return s.err
}

// Options controls the shape of generated code.
type Options struct {
	// MakeIntoFunction wraps the generated statements in a function that is
	// called at the end of the script.
	MakeIntoFunction bool
	// FunctionName overrides the name of the wrapping function.
	FunctionName string
}

const indentUnit = "    "

// writer formats statements into a Sink at the current indent level.
type writer struct {
	sink   Sink
	indent int
}

func (w *writer) line(format string, args ...any) {
	if format == "" {
		w.sink.WriteLine("")
		return
	}
	text := format
	if len(args) > 0 {
		text = fmt.Sprintf(format, args...)
	}
	w.sink.WriteLine(strings.Repeat(indentUnit, w.indent) + text)
}

// script writes the common prologue, calls body, and closes the script. body
// returns nothing to signal that it wrote no statements; a placeholder keeps
// the output valid in that case.
func (w *writer) script(opts Options, defaultName string, body func() error) error {
	name := opts.FunctionName
	if name == "" {
		name = defaultName
	}

	w.line("import bpy")
	w.line("")
	if opts.MakeIntoFunction {
		w.line("")
		w.line("def %s():", name)
		w.indent++
	}

	before := w.sink.LineCount()
	if err := body(); err != nil {
		return err
	}
	if w.sink.LineCount() == before {
		w.line("pass")
	}

	if opts.MakeIntoFunction {
		w.indent--
		w.line("")
		w.line("")
		w.line("%s()", name)
	}
	return nil
}
