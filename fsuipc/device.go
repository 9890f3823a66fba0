package fsuipc

import (
	"fmt"
	"sort"
)

// Device is a named set of buttons sharing one joystick code, e.g. a
// throttle quadrant assigned joystick letter "B".
type Device struct {
	Name string
	Joy  JoyCode

	buttons map[string]Button
}

// NewDevice binds a button layout (name -> button number) to joy.
func NewDevice(name string, joy JoyCode, layout map[string]int) *Device {
	d := &Device{Name: name, Joy: joy, buttons: make(map[string]Button, len(layout))}
	for n, code := range layout {
		d.buttons[n] = Button{Joy: joy, Code: code, Name: name + "." + n}
	}
	return d
}

// Button returns the named button.
func (d *Device) Button(name string) (Button, error) {
	b, ok := d.buttons[name]
	if !ok {
		return Button{}, fmt.Errorf("%w: button %s.%s", ErrNotFound, d.Name, name)
	}
	return b, nil
}

// Names returns the button names, sorted.
func (d *Device) Names() []string {
	out := make([]string, 0, len(d.buttons))
	for n := range d.buttons {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
