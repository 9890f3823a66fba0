package fsuipc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Control is anything that can be referenced as the control of an entry.
type Control interface {
	CtrlCode() string
}

// ParamControl is a Control that also supplies the entry parameter.
type ParamControl interface {
	Control
	CtrlParam() string
}

// Bound pairs a control with the parameter it is sent with. The parameter
// of the outermost Bound wins.
type Bound struct {
	Control Control
	Param   any
}

// Bind returns ctrl sent with param.
func Bind(ctrl Control, param any) Bound {
	return Bound{Control: ctrl, Param: param}
}

func (b Bound) CtrlCode() string { return b.Control.CtrlCode() }

func (b Bound) CtrlParam() string { return Format(b.Param) }

// resolve returns the control code and parameter of c. Controls without a
// parameter are sent with 0.
func resolve(c Control) (code, param string, err error) {
	if c == nil {
		return "", "", fmt.Errorf("%w: nil control", ErrInvalidArgument)
	}
	if b, ok := c.(Bound); ok && b.Control == nil {
		return "", "", fmt.Errorf("%w: bound parameter %v without a control", ErrInvalidArgument, b.Param)
	}
	param = "0"
	if pc, ok := c.(ParamControl); ok {
		param = pc.CtrlParam()
	}
	return c.CtrlCode(), param, nil
}

// SimControl is a numbered simulator or FSUIPC control.
type SimControl struct {
	Code     int
	Name     string
	FullName string
	Prefix   string
}

func (c SimControl) CtrlCode() string { return c.Prefix + strconv.Itoa(c.Code) }

func (c SimControl) Value() any { return c.Code }

func (c SimControl) String() string { return c.Name }

// DefaultControlPrefix marks numbered controls in [Buttons] entries.
const DefaultControlPrefix = "C"

// DefaultNamePattern matches the control names of the FSUIPC controls lists.
const DefaultNamePattern = `[\w.]+`

// TableOptions tune how a control list is read.
type TableOptions struct {
	// Prefix is put before every control number; DefaultControlPrefix when
	// empty.
	Prefix string
	// NamePattern matches the raw name following the number;
	// DefaultNamePattern when empty.
	NamePattern string
	// NameFilter maps a raw name to the lookup name.
	NameFilter func(string) string
}

// ControlTable maps control names to numbered controls.
type ControlTable struct {
	Name   string
	byName map[string]SimControl
}

// NewControlTable builds a table from explicit codes.
func NewControlTable(name, prefix string, codes map[string]int) *ControlTable {
	if prefix == "" {
		prefix = DefaultControlPrefix
	}
	t := &ControlTable{Name: name, byName: make(map[string]SimControl, len(codes))}
	for n, c := range codes {
		t.byName[n] = SimControl{Code: c, Name: n, FullName: n, Prefix: prefix}
	}
	return t
}

// ParseControlTable reads a controls list: every line starting with at
// least four digits, whitespace and a name defines one control. Other lines
// are ignored. When a name repeats, the last line wins.
func ParseControlTable(name string, r io.Reader, opts TableOptions) (*ControlTable, error) {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultControlPrefix
	}
	pattern := opts.NamePattern
	if pattern == "" {
		pattern = DefaultNamePattern
	}
	re, err := regexp.Compile(`^(\d{4,})\s+(` + pattern + `)`)
	if err != nil {
		return nil, fmt.Errorf("%w: control name pattern %q: %v", ErrInvalidArgument, pattern, err)
	}

	t := &ControlTable{Name: name, byName: make(map[string]SimControl)}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		m := re.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		code, err := strconv.Atoi(m[1])
		if err != nil {
			return nil, fmt.Errorf("%w: control number %q", ErrInvalidArgument, m[1])
		}
		raw := m[2]
		n := raw
		if opts.NameFilter != nil {
			n = opts.NameFilter(raw)
		}
		t.byName[n] = SimControl{Code: code, Name: n, FullName: raw, Prefix: prefix}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read control table %s: %w", name, err)
	}
	return t, nil
}

// LoadControlTable reads a controls list from path. A missing file is
// reported as ErrNotFound.
func LoadControlTable(name, path string, opts TableOptions) (*ControlTable, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: control table %s: %w", ErrNotFound, name, err)
		}
		return nil, fmt.Errorf("open control table %s: %w", name, err)
	}
	defer f.Close()
	return ParseControlTable(name, f, opts)
}

// Lookup returns the named control.
func (t *ControlTable) Lookup(name string) (SimControl, error) {
	c, ok := t.byName[name]
	if !ok {
		return SimControl{}, fmt.Errorf("%w: control %s.%s", ErrNotFound, t.Name, name)
	}
	return c, nil
}

// Len returns the number of controls.
func (t *ControlTable) Len() int { return len(t.byName) }

// Names returns the control names, sorted.
func (t *ControlTable) Names() []string {
	out := make([]string, 0, len(t.byName))
	for n := range t.byName {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// StripPrefix returns a NameFilter that cuts the name at its first space
// when trimAtSpace is set and then removes one leading prefix, ignoring
// case. StripPrefix("MobiFlight.", true) turns "MobiFlight.AS1000_PFD_ENT"
// into "AS1000_PFD_ENT".
func StripPrefix(prefix string, trimAtSpace bool) func(string) string {
	return func(n string) string {
		if trimAtSpace {
			n, _, _ = strings.Cut(n, " ")
		}
		if prefix != "" && len(n) >= len(prefix) && strings.EqualFold(n[:len(prefix)], prefix) {
			n = n[len(prefix):]
		}
		return n
	}
}
