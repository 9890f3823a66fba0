// Package ini writes FSUIPC-style INI sections whose numbered entries carry
// provenance comments, and filters sections out of existing INI files.
package ini

import (
	"errors"
	"fmt"
	"io"

	"github.com/flightrig/fsuipcgen/trace"
)

// ErrSectionClosed is returned when emitting into a closed section.
var ErrSectionClosed = errors.New("section closed")

// Writer writes lines with a fixed line ending. The first write error is
// kept and every later write becomes a no-op.
type Writer struct {
	w   io.Writer
	eol string
	err error
}

// NewWriter returns a Writer ending lines in "\r\n" when crlf is set and in
// "\n" otherwise.
func NewWriter(w io.Writer, crlf bool) *Writer {
	eol := "\n"
	if crlf {
		eol = "\r\n"
	}
	return &Writer{w: w, eol: eol}
}

// Line writes s followed by the line ending.
func (w *Writer) Line(s string) {
	if w.err != nil {
		return
	}
	_, w.err = io.WriteString(w.w, s+w.eol)
}

// Err returns the first write error.
func (w *Writer) Err() error { return w.err }

// Record is one numbered section entry.
type Record struct {
	Section string
	Index   int
	Token   string
	Comment string
}

// String renders "<index>=<token> ;<comment>", or "<index>=;<comment>" for
// comment-only records.
func (r Record) String() string {
	if r.Token == "" {
		return fmt.Sprintf("%d=;%s", r.Index, r.Comment)
	}
	return fmt.Sprintf("%d=%s ;%s", r.Index, r.Token, r.Comment)
}

// Option configures a Section.
type Option func(*Section)

// WithObserver calls fn for every record the section writes, including the
// file-code records written by Close.
func WithObserver(fn func(Record)) Option {
	return func(s *Section) { s.observe = fn }
}

// Section is one open "[name]" block. It owns the running entry index and
// the file-code table used for provenance comments; both start fresh for
// every section.
type Section struct {
	name    string
	out     *Writer
	idx     int
	codes   *trace.Table
	observe func(Record)
	closed  bool
}

// Open writes the section header and returns the open section.
func Open(out *Writer, name string, opts ...Option) *Section {
	s := &Section{
		name:  name,
		out:   out,
		codes: trace.NewTable(),
	}
	for _, o := range opts {
		o(s)
	}
	out.Line("")
	out.Line("[" + name + "]")
	return s
}

// Name returns the section name.
func (s *Section) Name() string { return s.name }

// Len returns how many numbered entries have been written so far.
func (s *Section) Len() int { return s.idx }

// Preamble writes an unnumbered "key=value ;trace" line.
func (s *Section) Preamble(key string, value any, at trace.Stack) error {
	if s.closed {
		return fmt.Errorf("preamble %s in [%s]: %w", key, s.name, ErrSectionClosed)
	}
	s.out.Line(fmt.Sprintf("%s=%v ;%s", key, value, s.codes.Format(at)))
	return s.out.Err()
}

// Emit writes token as the next numbered entry, annotated with at.
func (s *Section) Emit(token string, at trace.Stack) (Record, error) {
	if s.closed {
		return Record{}, fmt.Errorf("emit into [%s]: %w", s.name, ErrSectionClosed)
	}
	return s.write(token, s.codes.Format(at))
}

// Close writes the file-code table as comment-only entries continuing the
// index sequence. Closing twice is a no-op.
func (s *Section) Close() error {
	if s.closed {
		return nil
	}
	for _, e := range s.codes.Entries() {
		if _, err := s.write("", e.Comment()); err != nil {
			return err
		}
	}
	s.closed = true
	s.codes = trace.NewTable()
	return s.out.Err()
}

func (s *Section) write(token, comment string) (Record, error) {
	s.idx++
	r := Record{Section: s.name, Index: s.idx, Token: token, Comment: comment}
	s.out.Line(r.String())
	if err := s.out.Err(); err != nil {
		return r, fmt.Errorf("write [%s] entry %d: %w", s.name, r.Index, err)
	}
	if s.observe != nil {
		s.observe(r)
	}
	return r, nil
}
