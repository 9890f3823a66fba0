package fsuipc

import (
	"fmt"
	"strings"
)

// Action is the button event an entry fires on.
type Action int

const (
	Press Action = iota
	Release
	Repeat
	Hold
	// PressAndRelease is shorthand for a Press entry followed by a Release
	// entry with the same control.
	PressAndRelease
)

var actionCodes = map[Action]string{
	Press:           "P",
	Release:         "U",
	Repeat:          "R",
	Hold:            "H",
	PressAndRelease: "",
}

var actionNames = map[Action]string{
	Press:           "Press",
	Release:         "Release",
	Repeat:          "Repeat",
	Hold:            "Hold",
	PressAndRelease: "PressAndRelease",
}

// Code returns the single-letter entry code. PressAndRelease has none.
func (a Action) Code() string { return actionCodes[a] }

func (a Action) String() string {
	if n, ok := actionNames[a]; ok {
		return n
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Phases returns the actions actually written for a.
func (a Action) Phases() []Action {
	if a == PressAndRelease {
		return []Action{Press, Release}
	}
	return []Action{a}
}

// ParseAction accepts an action name or its letter code, ignoring case,
// '_' and '-'. "PR" stands for PressAndRelease.
func ParseAction(s string) (Action, error) {
	key := strings.ToLower(strings.NewReplacer("_", "", "-", "").Replace(s))
	if key == "pr" {
		return PressAndRelease, nil
	}
	for a, n := range actionNames {
		if strings.ToLower(n) == key || (actionCodes[a] != "" && strings.ToLower(actionCodes[a]) == key) {
			return a, nil
		}
	}
	return 0, fmt.Errorf("%w: button action %q", ErrInvalidArgument, s)
}
