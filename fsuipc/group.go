package fsuipc

import (
	"fmt"

	"github.com/flightrig/fsuipcgen/ini"
	"github.com/flightrig/fsuipcgen/trace"
)

// Group is a rotary encoder reporting slow and fast turns in each direction
// as four separate buttons.
type Group struct {
	Name    string
	SlowDec Button
	SlowInc Button
	FastDec Button
	FastInc Button
}

// GroupMapping binds an encoder to a decrement and an increment control.
// FastDec and FastInc default to Dec and Inc. Every fast turn sends its
// control FastEvents times (at least once).
type GroupMapping struct {
	Dec        Control
	Inc        Control
	FastDec    Control
	FastInc    Control
	Conditions []Condition
	FastEvents int
	Action     Action
}

// Mappings expands gm into the mappings of the four encoder buttons in
// write order: slow decrement, slow increment, fast decrement, fast
// increment.
func (g Group) Mappings(gm GroupMapping) ([]Mapping, error) {
	if gm.FastEvents < 0 {
		return nil, fmt.Errorf("%w: fast events %d", ErrInvalidArgument, gm.FastEvents)
	}
	fastDec, fastInc := gm.FastDec, gm.FastInc
	if fastDec == nil {
		fastDec = gm.Dec
	}
	if fastInc == nil {
		fastInc = gm.Inc
	}
	mk := func(b Button, c Control, n int) Mapping {
		return Mapping{Button: b, Control: c, Conditions: gm.Conditions, Action: gm.Action, Repeat: n}
	}
	n := max(gm.FastEvents, 1)
	return []Mapping{
		mk(g.SlowDec, gm.Dec, 1),
		mk(g.SlowInc, gm.Inc, 1),
		mk(g.FastDec, fastDec, n),
		mk(g.FastInc, fastInc, n),
	}, nil
}

// MapGroup writes the entries of an encoder group. Nothing is written if
// any of them is invalid.
func (m *Mapper) MapGroup(at trace.Stack, g Group, gm GroupMapping) ([]ini.Record, error) {
	mps, err := g.Mappings(gm)
	if err != nil {
		return nil, fmt.Errorf("group %s: %w", g.Name, err)
	}
	var toks []string
	for _, mp := range mps {
		t, err := Tokens(mp)
		if err != nil {
			return nil, fmt.Errorf("group %s: %w", g.Name, err)
		}
		toks = append(toks, t...)
	}
	return m.emit(at, toks)
}
