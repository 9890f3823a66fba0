package profile

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/flightrig/fsuipcgen/fsuipc"
	"github.com/flightrig/fsuipcgen/ini"
	"github.com/flightrig/fsuipcgen/trace"
)

// Options tune Compile.
type Options struct {
	// CRLF ends lines in "\r\n".
	CRLF bool
	// Observer sees every written entry.
	Observer func(ini.Record)
}

// Result summarizes a compiled profile.
type Result struct {
	// Sections lists the written section names in order.
	Sections []string
	// Entries counts the numbered entries written, trace table entries
	// included.
	Entries int
}

// Compile resolves p and writes its sections to w.
func Compile(p *Profile, w io.Writer, opts Options, logger *slog.Logger) (Result, error) {
	env, err := NewEnv(p, logger)
	if err != nil {
		return Result{}, err
	}
	return env.Compile(p, w, opts)
}

// Compile writes the sections of p to w. The output is rendered in memory
// first, so nothing reaches w when any entry fails.
func (e *Env) Compile(p *Profile, w io.Writer, opts Options) (Result, error) {
	var buf bytes.Buffer
	out := ini.NewWriter(&buf, opts.CRLF)

	var res Result
	for _, s := range p.Sections {
		n, err := e.compileSection(out, s, opts)
		if err != nil {
			return Result{}, err
		}
		res.Sections = append(res.Sections, s.Name)
		res.Entries += n
		e.logger.Info("Compiled section", "section", s.Name, "entries", n)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return Result{}, fmt.Errorf("write output: %w", err)
	}
	return res, nil
}

// stack builds the trace of an entry from profile lines, innermost first.
func (e *Env) stack(lines ...int) trace.Stack {
	s := make(trace.Stack, 0, len(lines))
	for _, l := range lines {
		s = append(s, trace.At(e.path, l))
	}
	return s
}

func (e *Env) compileSection(out *ini.Writer, s SectionSpec, opts Options) (int, error) {
	if s.Name == "" {
		return 0, e.at(s.Line, fmt.Errorf("%w: section without a name", fsuipc.ErrInvalidArgument))
	}
	observe := func(r ini.Record) {
		if opts.Observer != nil {
			opts.Observer(r)
		}
	}
	sec := ini.Open(out, s.Name, ini.WithObserver(observe))
	for _, p := range s.Preamble {
		if err := sec.Preamble(p.Key, p.Value, e.stack(p.Line)); err != nil {
			return 0, err
		}
	}

	m := fsuipc.NewMapper(sec)
	for _, ent := range s.Map {
		if err := e.compileEntry(m, ent); err != nil {
			return 0, fmt.Errorf("[%s]: %w", s.Name, err)
		}
	}
	if err := sec.Close(); err != nil {
		return 0, err
	}
	return sec.Len(), nil
}

func (e *Env) compileEntry(m *fsuipc.Mapper, ent EntrySpec) error {
	if (ent.Button == "") == (ent.Group == "") {
		return e.at(ent.Line, fmt.Errorf("%w: entry needs exactly one of button and group", fsuipc.ErrInvalidArgument))
	}

	action := fsuipc.Press
	if ent.Action != "" {
		a, err := fsuipc.ParseAction(ent.Action)
		if err != nil {
			return e.at(ent.Line, err)
		}
		action = a
	}
	conds, err := e.Conditions(ent.When)
	if err != nil {
		return err
	}

	if ent.Group != "" {
		return e.compileGroup(m, ent, action, conds)
	}

	btn, err := e.Button(ent.Button)
	if err != nil {
		return e.at(ent.Line, err)
	}
	ctrl, err := e.Control(ent.Control, ent.Param)
	if err != nil {
		return e.at(ent.Line, err)
	}
	_, err = m.Map(e.stack(ent.Line), fsuipc.Mapping{
		Button:     btn,
		Control:    ctrl,
		Conditions: conds,
		Action:     action,
		Repeat:     ent.Repeat,
	})
	return e.at(ent.Line, err)
}

func (e *Env) compileGroup(m *fsuipc.Mapper, ent EntrySpec, action fsuipc.Action, conds []fsuipc.Condition) error {
	g, ok := e.Groups[ent.Group]
	if !ok {
		return e.at(ent.Line, fmt.Errorf("%w: group %s", fsuipc.ErrNotFound, ent.Group))
	}

	gm := fsuipc.GroupMapping{Conditions: conds, FastEvents: ent.FastEvents, Action: action}
	var err error
	if gm.Dec, err = e.Control(ent.Dec, ""); err != nil {
		return e.at(ent.Line, fmt.Errorf("dec: %w", err))
	}
	if gm.Inc, err = e.Control(ent.Inc, ""); err != nil {
		return e.at(ent.Line, fmt.Errorf("inc: %w", err))
	}
	if ent.FastDec != nil {
		if gm.FastDec, err = e.Control(ent.FastDec, ""); err != nil {
			return e.at(ent.Line, fmt.Errorf("fast_dec: %w", err))
		}
	}
	if ent.FastInc != nil {
		if gm.FastInc, err = e.Control(ent.FastInc, ""); err != nil {
			return e.at(ent.Line, fmt.Errorf("fast_inc: %w", err))
		}
	}

	_, err = m.MapGroup(e.stack(g.Line, ent.Line), g.Group, gm)
	return e.at(ent.Line, err)
}
