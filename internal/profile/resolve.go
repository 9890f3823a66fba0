package profile

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/flightrig/fsuipcgen/device"
	"github.com/flightrig/fsuipcgen/fsuipc"
	"github.com/flightrig/fsuipcgen/internal/log"
)

// Offset is a declared offset: its control and, when named values were
// declared, their enumeration.
type Offset struct {
	Ctrl fsuipc.OffsetControl
	Enum *fsuipc.OffsetEnum
}

// Group is a declared encoder group and the line it was declared on.
type Group struct {
	fsuipc.Group
	Line int
}

// Env holds the resolved declarations of a profile and resolves the
// references used by its entries.
type Env struct {
	// Tables holds the tables of each control table name in lookup order.
	Tables  map[string][]*fsuipc.ControlTable
	Devices map[string]*fsuipc.Device
	Keys    map[string]fsuipc.KeyControl
	Offsets map[string]*Offset
	Groups  map[string]Group

	conds  map[string]CondList
	path   string
	logger *slog.Logger
}

// NewEnv resolves the declarations of p. All declaration errors are
// reported together.
func NewEnv(p *Profile, logger *slog.Logger) (*Env, error) {
	env := &Env{
		Tables:  make(map[string][]*fsuipc.ControlTable),
		Devices: make(map[string]*fsuipc.Device),
		Keys:    make(map[string]fsuipc.KeyControl),
		Offsets: make(map[string]*Offset),
		Groups:  make(map[string]Group),
		conds:   p.Conditions,
		path:    p.Path,
		logger:  logger,
	}
	if env.logger == nil {
		env.logger = log.Discard()
	}

	var errs []error
	for _, t := range p.Controls {
		errs = append(errs, env.addTable(t))
	}
	for _, d := range p.Devices {
		errs = append(errs, env.addDevice(d))
	}
	for name, k := range p.Keys {
		errs = append(errs, env.addKey(name, k))
	}
	for _, o := range p.Offsets {
		errs = append(errs, env.addOffset(o))
	}
	// Groups and condition sets refer to devices and offsets.
	for _, g := range p.Groups {
		errs = append(errs, env.addGroup(g))
	}
	for name := range p.Conditions {
		if _, err := env.Conditions(CondList{{Ref: "@" + name}}); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return env, nil
}

func (e *Env) at(line int, err error) error {
	if err == nil {
		return nil
	}
	if line == 0 {
		return fmt.Errorf("%s: %w", e.path, err)
	}
	return fmt.Errorf("%s:%d: %w", e.path, line, err)
}

func (e *Env) relPath(p string) string {
	if filepath.IsAbs(p) || e.path == "" {
		return p
	}
	return filepath.Join(filepath.Dir(e.path), p)
}

func (e *Env) addTable(t TableSpec) error {
	if t.Name == "" {
		return e.at(0, fmt.Errorf("%w: control table without a name", fsuipc.ErrInvalidArgument))
	}
	var tables []*fsuipc.ControlTable
	if len(t.Codes) > 0 {
		tables = append(tables, fsuipc.NewControlTable(t.Name, t.Prefix, t.Codes))
	}

	var files []string
	if t.File != "" {
		files = append(files, t.File)
	}
	files = append(files, t.Files...)
	if len(files) > 0 {
		opts := fsuipc.TableOptions{Prefix: t.Prefix, NamePattern: t.NamePattern}
		if t.StripPrefix != "" || t.TrimAtSpace {
			opts.NameFilter = fsuipc.StripPrefix(t.StripPrefix, t.TrimAtSpace)
		}
		tab, err := e.loadFirst(t.Name, files, opts)
		if err != nil {
			return e.at(0, err)
		}
		tables = append(tables, tab)
	}
	if len(tables) == 0 {
		return e.at(0, fmt.Errorf("%w: control table %s has neither files nor codes", fsuipc.ErrInvalidArgument, t.Name))
	}
	e.Tables[t.Name] = tables
	return nil
}

// loadFirst loads the first of files that exists.
func (e *Env) loadFirst(name string, files []string, opts fsuipc.TableOptions) (*fsuipc.ControlTable, error) {
	for _, f := range files {
		p := e.relPath(f)
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			e.logger.Debug("Control table file not found", "table", name, "file", p)
			continue
		}
		tab, err := fsuipc.LoadControlTable(name, p, opts)
		if err != nil {
			return nil, err
		}
		e.logger.Debug("Loaded control table", "table", name, "file", p, "controls", tab.Len())
		return tab, nil
	}
	return nil, fmt.Errorf("%w: control table %s: none of %s exists", fsuipc.ErrNotFound, name, strings.Join(files, ", "))
}

func (e *Env) addDevice(d DeviceSpec) error {
	if d.Name == "" || d.Joy == "" {
		return e.at(0, fmt.Errorf("%w: device needs a name and a joy", fsuipc.ErrInvalidArgument))
	}
	buttons := make(map[string]int)
	if d.Layout != "" {
		l := device.Lookup(d.Layout)
		if l == nil {
			return e.at(0, fmt.Errorf("%w: device %s: layout %s (known: %s)",
				fsuipc.ErrNotFound, d.Name, d.Layout, strings.Join(device.Names(), ", ")))
		}
		maps.Copy(buttons, l.Buttons)
	}
	maps.Copy(buttons, d.Buttons)
	if len(buttons) == 0 {
		return e.at(0, fmt.Errorf("%w: device %s has no buttons", fsuipc.ErrInvalidArgument, d.Name))
	}
	e.Devices[d.Name] = fsuipc.NewDevice(d.Name, fsuipc.ParseJoyCode(d.Joy), buttons)
	return nil
}

func (e *Env) addKey(name string, k KeySpec) error {
	kc, err := parseKey(k.Key, k.Mods)
	if err != nil {
		return e.at(0, fmt.Errorf("key %s: %w", name, err))
	}
	e.Keys[name] = kc
	return nil
}

func parseKey(key string, mods []string) (fsuipc.KeyControl, error) {
	vk, err := fsuipc.ParseKey(key)
	if err != nil {
		return fsuipc.KeyControl{}, err
	}
	var ms []fsuipc.Modifier
	for _, m := range mods {
		mod, err := fsuipc.ParseModifier(m)
		if err != nil {
			return fsuipc.KeyControl{}, err
		}
		ms = append(ms, mod)
	}
	return fsuipc.Key(vk, ms...), nil
}

func (e *Env) addOffset(o OffsetSpec) error {
	if o.Name == "" {
		return e.at(0, fmt.Errorf("%w: offset without a name", fsuipc.ErrInvalidArgument))
	}
	addr, err := strconv.ParseUint(o.Offset, 0, 32)
	if err != nil {
		return e.at(0, fmt.Errorf("%w: offset %s: address %q", fsuipc.ErrInvalidArgument, o.Name, o.Offset))
	}
	size, err := fsuipc.ParseOffsetSize(o.Size)
	if err != nil {
		return e.at(0, fmt.Errorf("offset %s: %w", o.Name, err))
	}

	def := &Offset{}
	var lo, hi int64
	if len(o.Values) > 0 {
		def.Enum = fsuipc.NewOffsetEnum(o.Name, uint32(addr), size)
		for _, v := range o.Values {
			def.Enum.Add(v.Name, v.Value)
		}
		lo, hi = def.Enum.Limits()
	}
	if o.Min != nil {
		lo = *o.Min
	}
	if o.Max != nil {
		hi = *o.Max
	}
	def.Ctrl = fsuipc.NewOffsetControl(uint32(addr), size, lo, hi)
	e.Offsets[o.Name] = def
	return nil
}

func (e *Env) addGroup(g GroupSpec) error {
	if g.Name == "" {
		return e.at(g.Line, fmt.Errorf("%w: group without a name", fsuipc.ErrInvalidArgument))
	}
	grp := Group{Group: fsuipc.Group{Name: g.Name}, Line: g.Line}
	refs := []struct {
		ref string
		dst *fsuipc.Button
	}{
		{g.SlowDec, &grp.SlowDec},
		{g.SlowInc, &grp.SlowInc},
		{g.FastDec, &grp.FastDec},
		{g.FastInc, &grp.FastInc},
	}
	for _, r := range refs {
		b, err := e.Button(r.ref)
		if err != nil {
			return e.at(g.Line, fmt.Errorf("group %s: %w", g.Name, err))
		}
		*r.dst = b
	}
	e.Groups[g.Name] = grp
	return nil
}

// Button resolves "Dev.BTN" or a literal "joy,button".
func (e *Env) Button(ref string) (fsuipc.Button, error) {
	if joy, btn, ok := strings.Cut(ref, ","); ok {
		n, err := strconv.Atoi(strings.TrimSpace(btn))
		if err != nil {
			return fsuipc.Button{}, fmt.Errorf("%w: button %q", fsuipc.ErrInvalidArgument, ref)
		}
		return fsuipc.NewButton(fsuipc.ParseJoyCode(strings.TrimSpace(joy)), n), nil
	}
	dev, name, ok := strings.Cut(ref, ".")
	if !ok {
		return fsuipc.Button{}, fmt.Errorf("%w: button %q, want Device.BUTTON", fsuipc.ErrInvalidArgument, ref)
	}
	d, ok := e.Devices[dev]
	if !ok {
		return fsuipc.Button{}, fmt.Errorf("%w: device %s", fsuipc.ErrNotFound, dev)
	}
	return d.Button(name)
}

// Key resolves a declared key name or a "MOD+MOD+KEY" chord.
func (e *Env) Key(ref string) (fsuipc.KeyControl, error) {
	if k, ok := e.Keys[ref]; ok {
		return k, nil
	}
	parts := strings.Split(ref, "+")
	k, err := parseKey(parts[len(parts)-1], parts[:len(parts)-1])
	if err != nil {
		return fsuipc.KeyControl{}, fmt.Errorf("key %s: %w", ref, err)
	}
	return k, nil
}

func enumValue(o *Offset, name string) (fsuipc.OffsetValue, error) {
	if o.Enum == nil {
		return fsuipc.OffsetValue{}, fmt.Errorf("%w: offset has no named values", fsuipc.ErrNotFound)
	}
	return o.Enum.Value(name)
}

func (e *Env) offsetValue(ref string) (fsuipc.OffsetValue, bool, error) {
	name, val, ok := strings.Cut(ref, ".")
	if !ok {
		return fsuipc.OffsetValue{}, false, nil
	}
	o, ok := e.Offsets[name]
	if !ok || o.Enum == nil {
		return fsuipc.OffsetValue{}, false, nil
	}
	v, err := o.Enum.Value(val)
	return v, true, err
}

// Conditions resolves a condition list, expanding named sets.
func (e *Env) Conditions(list CondList) ([]fsuipc.Condition, error) {
	return e.conditions(list, nil)
}

func (e *Env) conditions(list CondList, expanding []string) ([]fsuipc.Condition, error) {
	var out []fsuipc.Condition
	for _, c := range list {
		if named, ok := strings.CutPrefix(c.Ref, "@"); ok {
			for _, n := range expanding {
				if n == named {
					return nil, e.at(c.Line, fmt.Errorf("%w: condition set %s includes itself", fsuipc.ErrInvalidArgument, named))
				}
			}
			set, ok := e.conds[named]
			if !ok {
				return nil, e.at(c.Line, fmt.Errorf("%w: condition set %s", fsuipc.ErrNotFound, named))
			}
			sub, err := e.conditions(set, append(expanding, named))
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
			continue
		}
		cond, err := e.condition(c)
		if err != nil {
			return nil, e.at(c.Line, err)
		}
		out = append(out, cond)
	}
	return out, nil
}

func (e *Env) condition(c CondSpec) (fsuipc.Condition, error) {
	if c.Ref == "" {
		return e.offsetCondition(c)
	}
	if raw, ok := strings.CutPrefix(c.Ref, "raw:"); ok {
		e.logger.Warn("Raw condition passed through unchecked", "file", e.path, "line", c.Line, "token", raw)
		return fsuipc.RawCondition(raw), nil
	}

	ref, neg := strings.CutPrefix(c.Ref, "!")
	if flag, ok := strings.CutPrefix(ref, "flag:"); ok {
		b, err := e.Button(flag)
		if err != nil {
			return nil, err
		}
		if neg {
			return b.CondFlagClear(), nil
		}
		return b.CondFlagSet(), nil
	}

	if v, ok, err := e.offsetValue(ref); ok {
		if err != nil {
			return nil, err
		}
		if neg {
			return v.CondNotEqual(), nil
		}
		return v.CondEqual(), nil
	}

	b, err := e.Button(ref)
	if err != nil {
		return nil, fmt.Errorf("condition %q: %w", c.Ref, err)
	}
	if neg {
		return b.CondNotPressed(), nil
	}
	return b, nil
}

func (e *Env) offsetCondition(c CondSpec) (fsuipc.Condition, error) {
	oc := fsuipc.OffsetCondition{}
	var enum *fsuipc.OffsetEnum
	if o, ok := e.Offsets[c.Offset]; ok {
		oc.Offset, oc.Size, enum = o.Ctrl.Offset, o.Ctrl.Size, o.Enum
	} else {
		addr, err := strconv.ParseUint(c.Offset, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: condition offset %q", fsuipc.ErrNotFound, c.Offset)
		}
		oc.Offset = uint32(addr)
	}
	if c.Size != "" {
		size, err := fsuipc.ParseOffsetSize(c.Size)
		if err != nil {
			return nil, err
		}
		oc.Size = size
	}
	if oc.Size.CondCode == "" {
		return nil, fmt.Errorf("%w: offset condition on %s needs an integer size", fsuipc.ErrInvalidArgument, c.Offset)
	}

	test, err := fsuipc.ParseComparison(c.Test)
	if err != nil {
		return nil, err
	}
	oc.Test = test

	if enum != nil {
		if v, err := enum.Value(c.Value); err == nil {
			oc.Value = v
		}
	}
	if oc.Value == nil {
		n, err := fsuipc.Int(c.Value)
		if err != nil {
			return nil, err
		}
		oc.Value = n
	}

	if c.Mask != "" {
		m, err := strconv.ParseUint(c.Mask, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: mask %q", fsuipc.ErrInvalidArgument, c.Mask)
		}
		mask := uint32(m)
		oc.Mask = &mask
	}
	return oc, nil
}

// Control resolves a control reference and binds param, if given.
func (e *Env) Control(c *ControlSpec, param string) (fsuipc.Control, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: missing control", fsuipc.ErrInvalidArgument)
	}
	ctrl, err := e.control(c)
	if err != nil {
		return nil, err
	}
	if param == "" {
		return ctrl, nil
	}
	p, err := e.Param(param)
	if err != nil {
		return nil, err
	}
	return fsuipc.Bind(ctrl, p), nil
}

func (e *Env) control(c *ControlSpec) (fsuipc.Control, error) {
	if c.Ref == "" {
		return e.offsetOp(c)
	}
	if k, ok := strings.CutPrefix(c.Ref, "key:"); ok {
		return e.Key(k)
	}
	if v, ok := strings.CutPrefix(c.Ref, "virt:"); ok {
		op, ref, _ := strings.Cut(v, ":")
		b, err := e.Button(ref)
		if err != nil {
			return nil, err
		}
		switch op {
		case "press":
			return b.VirtPress()
		case "release":
			return b.VirtRelease()
		case "toggle":
			return b.VirtToggle()
		}
		return nil, fmt.Errorf("%w: virtual button operation %q", fsuipc.ErrInvalidArgument, op)
	}
	if n, err := strconv.Atoi(c.Ref); err == nil {
		return fsuipc.SimControl{Code: n, Name: c.Ref, Prefix: fsuipc.DefaultControlPrefix}, nil
	}

	table, name, ok := strings.Cut(c.Ref, ".")
	if !ok {
		return nil, fmt.Errorf("%w: control %q, want Table.NAME", fsuipc.ErrInvalidArgument, c.Ref)
	}
	tabs, ok := e.Tables[table]
	if !ok {
		return nil, fmt.Errorf("%w: control table %s", fsuipc.ErrNotFound, table)
	}
	var err error
	for _, t := range tabs {
		sc, lerr := t.Lookup(name)
		if lerr == nil {
			return sc, nil
		}
		err = lerr
	}
	return nil, err
}

func (e *Env) offsetOp(c *ControlSpec) (fsuipc.Control, error) {
	o, ok := e.Offsets[c.Offset]
	if !ok {
		return nil, fmt.Errorf("%w: offset %s", fsuipc.ErrNotFound, c.Offset)
	}
	op, err := fsuipc.ParseOperation(c.Op)
	if err != nil {
		return nil, err
	}
	var operand int64
	if v, err := enumValue(o, c.Operand); err == nil {
		operand = v.V
	} else if c.Operand != "" {
		if operand, err = fsuipc.Int(c.Operand); err != nil {
			return nil, err
		}
	}
	return o.Ctrl.Op(op, operand)
}

// Param resolves an entry parameter: an integer, "flag:Dev.BTN",
// "key:NAME" or "Offset.VALUE".
func (e *Env) Param(s string) (any, error) {
	if n, err := strconv.ParseInt(s, 0, 64); err == nil {
		return n, nil
	}
	if flag, ok := strings.CutPrefix(s, "flag:"); ok {
		b, err := e.Button(flag)
		if err != nil {
			return nil, err
		}
		return b.FlagParam()
	}
	if k, ok := strings.CutPrefix(s, "key:"); ok {
		return e.Key(k)
	}
	if v, ok, err := e.offsetValue(s); ok {
		return v, err
	}
	return nil, fmt.Errorf("%w: parameter %q", fsuipc.ErrInvalidArgument, s)
}
