package fsuipc

import (
	"fmt"

	"github.com/flightrig/fsuipcgen/ini"
	"github.com/flightrig/fsuipcgen/trace"
)

// Sink receives finished entry tokens. *ini.Section is the usual Sink.
type Sink interface {
	Emit(token string, at trace.Stack) (ini.Record, error)
}

// Mapping binds one button to one control.
type Mapping struct {
	Button     Button
	Control    Control
	Conditions []Condition
	Action     Action
	// Repeat writes the entries this many times; zero means once.
	Repeat int
}

// Mapper turns mappings into entries written to a Sink.
type Mapper struct {
	sink Sink
}

// NewMapper returns a Mapper writing to sink.
func NewMapper(sink Sink) *Mapper {
	return &Mapper{sink: sink}
}

// Token renders the entry of mp for a single phase, e.g.
// "W0120=5 CP(+1,3)(+2,4)1,3,C65700,0".
func Token(mp Mapping, phase Action) (string, error) {
	if phase == PressAndRelease {
		return "", fmt.Errorf("%w: %s is not a single phase", ErrInvalidArgument, phase)
	}
	code, param, err := resolve(mp.Control)
	if err != nil {
		return "", fmt.Errorf("map %s: %w", mp.Button, err)
	}
	return Prefix(phase.Code(), mp.Conditions) + mp.Button.Ref() + "," + code + "," + param, nil
}

// Tokens renders every entry of mp in write order.
func Tokens(mp Mapping) ([]string, error) {
	if mp.Repeat < 0 {
		return nil, fmt.Errorf("%w: repeat count %d", ErrInvalidArgument, mp.Repeat)
	}
	n := max(mp.Repeat, 1)
	phases := mp.Action.Phases()
	out := make([]string, 0, n*len(phases))
	for i := 0; i < n; i++ {
		for _, ph := range phases {
			tok, err := Token(mp, ph)
			if err != nil {
				return nil, err
			}
			out = append(out, tok)
		}
	}
	return out, nil
}

// Map writes the entries of mp annotated with at. All tokens are rendered
// before the first one is written, so an invalid mapping writes nothing.
func (m *Mapper) Map(at trace.Stack, mp Mapping) ([]ini.Record, error) {
	toks, err := Tokens(mp)
	if err != nil {
		return nil, err
	}
	return m.emit(at, toks)
}

func (m *Mapper) emit(at trace.Stack, toks []string) ([]ini.Record, error) {
	recs := make([]ini.Record, 0, len(toks))
	for _, t := range toks {
		r, err := m.sink.Emit(t, at)
		if err != nil {
			return recs, err
		}
		recs = append(recs, r)
	}
	return recs, nil
}
