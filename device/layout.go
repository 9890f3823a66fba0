// Package device holds the button layouts of supported input hardware.
//
// Layout packages register themselves from init(); import
// internal/registry to get all of them.
package device

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/flightrig/fsuipcgen/fsuipc"
)

// Layout names the buttons of one device model. Several names may share a
// button number when a control has both a generic and a labelled name.
type Layout struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Buttons     map[string]int `yaml:"buttons"`
}

// ParseLayout decodes a YAML layout.
func ParseLayout(data []byte) (*Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	if l.Name == "" {
		return nil, fmt.Errorf("parse layout: %w: missing name", fsuipc.ErrInvalidArgument)
	}
	for n, code := range l.Buttons {
		if code < 0 || code > 255 {
			return nil, fmt.Errorf("layout %s: %w: button %s has number %d", l.Name, fsuipc.ErrInvalidArgument, n, code)
		}
	}
	return &l, nil
}

// Names returns the button names, sorted.
func (l *Layout) Names() []string {
	out := make([]string, 0, len(l.Buttons))
	for n := range l.Buttons {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Device binds the layout to a joystick.
func (l *Layout) Device(name string, joy fsuipc.JoyCode) *fsuipc.Device {
	return fsuipc.NewDevice(name, joy, l.Buttons)
}
