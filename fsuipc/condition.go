package fsuipc

import (
	"strings"
)

// Condition is one of ButtonCondition, OffsetCondition, Button (its pressed
// state) or RawCondition. The set is closed.
type Condition interface {
	String() string
	condition()
}

// RawCondition is written into the button-condition block verbatim, e.g.
// "(-A,0)". Nothing checks its syntax.
type RawCondition string

func (r RawCondition) String() string { return string(r) }

func (RawCondition) condition() {}

// Prefix renders the condition part of an entry token for action code act.
// Offset conditions come first, space separated; button conditions follow
// "C"+act without separators. Without button conditions the token starts
// with act alone. Order within each kind is kept.
func Prefix(act string, conds []Condition) string {
	var offsets []string
	var buttons strings.Builder
	for _, c := range conds {
		switch c := c.(type) {
		case nil:
		case OffsetCondition:
			offsets = append(offsets, c.String())
		case Button:
			buttons.WriteString(c.CondPressed().String())
		default:
			buttons.WriteString(c.String())
		}
	}

	s := act
	if buttons.Len() > 0 {
		s = "C" + act + buttons.String()
	}
	if len(offsets) > 0 {
		s = strings.Join(offsets, " ") + " " + s
	}
	return s
}
