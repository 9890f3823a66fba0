// Package profile compiles YAML button profiles into FSUIPC INI sections.
//
// A profile declares control tables, devices, keys, offsets, named
// condition sets and encoder groups, then lists the entries of each
// section by reference to those declarations. Every entry is annotated
// with the profile lines it came from.
package profile

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Profile is the decoded YAML document.
type Profile struct {
	Controls   []TableSpec         `yaml:"controls"`
	Devices    []DeviceSpec        `yaml:"devices"`
	Keys       map[string]KeySpec  `yaml:"keys"`
	Offsets    []OffsetSpec        `yaml:"offsets"`
	Conditions map[string]CondList `yaml:"conditions"`
	Groups     []GroupSpec         `yaml:"groups"`
	Sections   []SectionSpec       `yaml:"sections"`

	// Path is the file the profile was read from, as given. It names the
	// profile in trace comments and anchors relative table paths.
	Path string `yaml:"-"`
}

// TableSpec declares a control table, read from the first existing file
// and/or given inline.
type TableSpec struct {
	Name        string         `yaml:"name"`
	File        string         `yaml:"file"`
	Files       []string       `yaml:"files"`
	Prefix      string         `yaml:"prefix"`
	StripPrefix string         `yaml:"strip_prefix"`
	TrimAtSpace bool           `yaml:"trim_at_space"`
	NamePattern string         `yaml:"name_pattern"`
	Codes       map[string]int `yaml:"codes"`
}

// DeviceSpec binds a registered layout, or an inline button map, to a
// joystick number or letter.
type DeviceSpec struct {
	Name    string         `yaml:"name"`
	Joy     string         `yaml:"joy"`
	Layout  string         `yaml:"layout"`
	Buttons map[string]int `yaml:"buttons"`
}

// KeySpec is a keystroke: a virtual key name or number and the held
// modifiers.
type KeySpec struct {
	Key  string   `yaml:"key"`
	Mods []string `yaml:"mods"`
}

// OffsetSpec declares an offset, optionally with named values. Without
// explicit limits the named values set them.
type OffsetSpec struct {
	Name   string      `yaml:"name"`
	Offset string      `yaml:"offset"`
	Size   string      `yaml:"size"`
	Min    *int64      `yaml:"min"`
	Max    *int64      `yaml:"max"`
	Values OrderedInts `yaml:"values"`
}

// GroupSpec names the four buttons of a rotary encoder.
type GroupSpec struct {
	Name    string `yaml:"name"`
	SlowDec string `yaml:"slow_dec"`
	SlowInc string `yaml:"slow_inc"`
	FastDec string `yaml:"fast_dec"`
	FastInc string `yaml:"fast_inc"`

	Line int `yaml:"-"`
}

func (g *GroupSpec) UnmarshalYAML(n *yaml.Node) error {
	type plain GroupSpec
	if err := n.Decode((*plain)(g)); err != nil {
		return err
	}
	g.Line = n.Line
	return nil
}

// SectionSpec is one INI section.
type SectionSpec struct {
	Name     string      `yaml:"name"`
	Preamble Preamble    `yaml:"preamble"`
	Map      []EntrySpec `yaml:"map"`

	Line int `yaml:"-"`
}

func (s *SectionSpec) UnmarshalYAML(n *yaml.Node) error {
	type plain SectionSpec
	if err := n.Decode((*plain)(s)); err != nil {
		return err
	}
	s.Line = n.Line
	return nil
}

// EntrySpec is either a single mapping (Button set) or the use of an
// encoder group (Group set).
type EntrySpec struct {
	Button  string       `yaml:"button"`
	Control *ControlSpec `yaml:"control"`
	Param   string       `yaml:"param"`
	Repeat  int          `yaml:"repeat"`

	Group      string       `yaml:"group"`
	Dec        *ControlSpec `yaml:"dec"`
	Inc        *ControlSpec `yaml:"inc"`
	FastDec    *ControlSpec `yaml:"fast_dec"`
	FastInc    *ControlSpec `yaml:"fast_inc"`
	FastEvents int          `yaml:"fast_events"`

	When   CondList `yaml:"when"`
	Action string   `yaml:"action"`

	Line int `yaml:"-"`
}

func (e *EntrySpec) UnmarshalYAML(n *yaml.Node) error {
	type plain EntrySpec
	if err := n.Decode((*plain)(e)); err != nil {
		return err
	}
	e.Line = n.Line
	return nil
}

// ControlSpec is a control reference ("Table.NAME", "key:NAME",
// "virt:press:Dev.BTN") or an offset operation.
type ControlSpec struct {
	Ref string `yaml:"-"`

	Offset  string `yaml:"offset"`
	Op      string `yaml:"op"`
	Operand string `yaml:"operand"`
}

func (c *ControlSpec) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		c.Ref = n.Value
		return nil
	}
	type plain ControlSpec
	return n.Decode((*plain)(c))
}

func (c *ControlSpec) String() string {
	if c.Ref != "" {
		return c.Ref
	}
	return fmt.Sprintf("%s %s %s", c.Offset, c.Op, c.Operand)
}

// CondSpec is a condition reference ("Dev.BTN", "!flag:Dev.BTN",
// "Offset.VALUE", "@named", "raw:<token>") or an offset comparison.
type CondSpec struct {
	Ref string `yaml:"-"`

	Offset string `yaml:"offset"`
	Size   string `yaml:"size"`
	Test   string `yaml:"test"`
	Value  string `yaml:"value"`
	Mask   string `yaml:"mask"`

	Line int `yaml:"-"`
}

func (c *CondSpec) UnmarshalYAML(n *yaml.Node) error {
	c.Line = n.Line
	if n.Kind == yaml.ScalarNode {
		c.Ref = n.Value
		return nil
	}
	type plain CondSpec
	return n.Decode((*plain)(c))
}

func (c CondSpec) String() string {
	if c.Ref != "" {
		return c.Ref
	}
	return fmt.Sprintf("%s%s%s", c.Offset, c.Test, c.Value)
}

// CondList is a list of conditions; a single scalar is a list of one.
type CondList []CondSpec

func (l *CondList) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		*l = CondList{{Ref: n.Value, Line: n.Line}}
		return nil
	}
	var out []CondSpec
	if err := n.Decode(&out); err != nil {
		return err
	}
	*l = out
	return nil
}

// PreambleItem is one "key=value" line written before the entries.
type PreambleItem struct {
	Key   string
	Value string
	Line  int
}

// Preamble keeps the document order of its keys.
type Preamble []PreambleItem

func (p *Preamble) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: preamble must be a mapping", n.Line)
	}
	out := make(Preamble, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if v.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: preamble value of %s must be a scalar", v.Line, k.Value)
		}
		out = append(out, PreambleItem{Key: k.Value, Value: v.Value, Line: k.Line})
	}
	*p = out
	return nil
}

// NamedInt is one entry of an OrderedInts.
type NamedInt struct {
	Name  string
	Value int64
}

// OrderedInts is a name to integer mapping that keeps document order.
type OrderedInts []NamedInt

func (o *OrderedInts) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: values must be a mapping", n.Line)
	}
	out := make(OrderedInts, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		var v int64
		if err := n.Content[i+1].Decode(&v); err != nil {
			return fmt.Errorf("line %d: value %s: %w", n.Content[i+1].Line, n.Content[i].Value, err)
		}
		out = append(out, NamedInt{Name: n.Content[i].Value, Value: v})
	}
	*o = out
	return nil
}
