// Package trace records where generated INI records came from.
//
// Every record carries a trailing comment listing the chain of source
// locations that produced it, innermost first. Files are replaced by short
// alphabetic codes (a, b, ..., z, aa, ab, ...) assigned per section in
// encounter order, and the code table is written out when the section
// closes.
package trace

import (
	"runtime"
	"strconv"
	"strings"
)

// MaxLen is the longest trace comment body the INI consumer keeps.
const MaxLen = 64

// Frame is one source location.
type Frame struct {
	File string
	Line int
}

// Here returns the location of its caller.
func Here() Frame {
	_, file, line, ok := runtime.Caller(1)
	if !ok {
		return Frame{File: "?"}
	}
	return Frame{File: file, Line: line}
}

// At builds a frame from an explicit file and line.
func At(file string, line int) Frame {
	return Frame{File: file, Line: line}
}

// Stack is a chain of frames, innermost first.
type Stack []Frame

// Within returns a new stack with f as the innermost frame.
func (s Stack) Within(f Frame) Stack {
	out := make(Stack, 0, len(s)+1)
	out = append(out, f)
	return append(out, s...)
}

// Code returns the bijective base-26 code for the n-th (0-based) file:
// 0 -> "a", 25 -> "z", 26 -> "aa", 51 -> "az", 52 -> "ba".
func Code(n int) string {
	if n < 0 {
		return ""
	}
	var b []byte
	for v := n + 1; v > 0; v /= 26 {
		v--
		b = append(b, byte('a'+v%26))
	}
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

// Compress keeps the last MaxLen characters of s, marking a cut with a
// leading '~'.
func Compress(s string) string {
	if len(s) <= MaxLen {
		return s
	}
	return "~" + s[len(s)-MaxLen:]
}

// Entry maps a file code back to its file.
type Entry struct {
	Code string
	File string
}

// Comment renders "code>file", shortening the file name from the left so
// the whole comment fits in MaxLen.
func (e Entry) Comment() string {
	head := e.Code + ">"
	file := e.File
	if len(head)+len(file) > MaxLen {
		keep := MaxLen - 1 - len(head)
		if keep < 0 {
			keep = 0
		}
		file = "~" + file[len(file)-keep:]
	}
	return head + file
}

// Table assigns file codes for one section. The zero value is not usable;
// call NewTable.
type Table struct {
	codes map[string]string
	files []string
}

func NewTable() *Table {
	return &Table{codes: make(map[string]string)}
}

// Code returns the code for file, allocating the next one on first sight.
func (t *Table) Code(file string) string {
	if c, ok := t.codes[file]; ok {
		return c
	}
	c := Code(len(t.files))
	t.codes[file] = c
	t.files = append(t.files, file)
	return c
}

// Format renders s as "<code><line>;..." and compresses it.
func (t *Table) Format(s Stack) string {
	parts := make([]string, 0, len(s))
	for _, f := range s {
		parts = append(parts, t.Code(f.File)+strconv.Itoa(f.Line))
	}
	return Compress(strings.Join(parts, ";"))
}

// Entries lists the assigned codes in allocation order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, 0, len(t.files))
	for _, f := range t.files {
		out = append(out, Entry{Code: t.codes[f], File: f})
	}
	return out
}

// Len reports how many files have a code.
func (t *Table) Len() int { return len(t.files) }
