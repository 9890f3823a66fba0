package fsuipc

import (
	"fmt"
	"strconv"
)

// JoyCode identifies a joystick: either a number or, for devices assigned a
// joystick letter, a label such as "A".
type JoyCode struct {
	num   int
	label string
}

// JoyNumber returns the code of numbered joystick n.
func JoyNumber(n int) JoyCode { return JoyCode{num: n} }

// JoyLetter returns the code of a lettered joystick.
func JoyLetter(l string) JoyCode { return JoyCode{label: l} }

// ParseJoyCode treats all-digit input as a joystick number and anything
// else as a letter.
func ParseJoyCode(s string) JoyCode {
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return JoyNumber(n)
	}
	return JoyLetter(s)
}

// Number returns the joystick number and whether the code is numeric.
func (j JoyCode) Number() (int, bool) {
	return j.num, j.label == ""
}

func (j JoyCode) String() string {
	if j.label != "" {
		return j.label
	}
	return strconv.Itoa(j.num)
}

func (j JoyCode) Value() any {
	if j.label != "" {
		return j.label
	}
	return j.num
}

// ButtonTest is what a button condition looks at.
type ButtonTest int

const (
	// TestPressed looks at the physical (or virtual) button state.
	TestPressed ButtonTest = iota
	// TestFlag looks at the FSUIPC button flag.
	TestFlag
)

// ButtonCondition holds while a button is (or is not) pressed, or while its
// flag is (or is not) set.
type ButtonCondition struct {
	Joy   JoyCode
	Code  int
	Test  ButtonTest
	State bool
}

func (c ButtonCondition) marker() string {
	m := "-"
	if c.State {
		m = "+"
	}
	if c.Test == TestFlag {
		return "F" + m
	}
	return m
}

// String renders e.g. "(+A,133)" or "(F-66,1)".
func (c ButtonCondition) String() string {
	return "(" + c.marker() + c.Joy.String() + "," + strconv.Itoa(c.Code) + ")"
}

func (ButtonCondition) condition() {}

// Button is one button of one joystick. Used as a condition, a Button
// stands for its pressed state.
type Button struct {
	Joy  JoyCode
	Code int
	Name string
}

// NewButton returns button code of joystick joy.
func NewButton(joy JoyCode, code int) Button {
	return Button{Joy: joy, Code: code}
}

// Ref renders the "joy,button" pair used in entries.
func (b Button) Ref() string { return b.Joy.String() + "," + strconv.Itoa(b.Code) }

func (b Button) String() string {
	if b.Name != "" {
		return b.Name
	}
	return b.Ref()
}

func (b Button) Value() any { return b.Code }

func (b Button) CondPressed() ButtonCondition {
	return ButtonCondition{Joy: b.Joy, Code: b.Code, Test: TestPressed, State: true}
}

func (b Button) CondNotPressed() ButtonCondition {
	return ButtonCondition{Joy: b.Joy, Code: b.Code, Test: TestPressed, State: false}
}

func (b Button) CondFlagSet() ButtonCondition {
	return ButtonCondition{Joy: b.Joy, Code: b.Code, Test: TestFlag, State: true}
}

func (b Button) CondFlagClear() ButtonCondition {
	return ButtonCondition{Joy: b.Joy, Code: b.Code, Test: TestFlag, State: false}
}

func (Button) condition() {}

// FlagParam encodes the button as the parameter of the FSUIPC set, clear
// and toggle button flag controls: 256*joy + button. Only numbered
// joysticks can be encoded.
func (b Button) FlagParam() (int, error) {
	joy, ok := b.Joy.Number()
	if !ok {
		return 0, fmt.Errorf("%w: button flag parameter needs a joystick number, %s has joystick %s",
			ErrInvalidArgument, b, b.Joy)
	}
	if joy < 0 || joy > 255 || b.Code < 0 || b.Code > 255 {
		return 0, fmt.Errorf("%w: button %d,%d does not fit a flag parameter", ErrInvalidArgument, joy, b.Code)
	}
	return joy<<8 | b.Code, nil
}

// DecodeFlagParam splits a flag parameter back into joystick and button.
func DecodeFlagParam(code int) (joy, btn int) {
	return code >> 8 & 0xFF, code & 0xFF
}

// Virtual buttons live on joysticks 64..72, 32 buttons each, as bits of the
// 32-bit offsets starting at 0x3340.
const (
	VirtualJoyFirst   = 64
	VirtualJoyLast    = 72
	VirtualButtonLast = 31
	virtualBase       = 0x3340
)

// VirtualControl returns the offset control holding the virtual button's
// joystick bits.
func (b Button) VirtualControl() (OffsetControl, error) {
	joy, ok := b.Joy.Number()
	if !ok || joy < VirtualJoyFirst || joy > VirtualJoyLast {
		return OffsetControl{}, fmt.Errorf("%w: virtual button joystick %s, must be %d-%d",
			ErrInvalidArgument, b.Joy, VirtualJoyFirst, VirtualJoyLast)
	}
	if b.Code < 0 || b.Code > VirtualButtonLast {
		return OffsetControl{}, fmt.Errorf("%w: virtual button %d, must be 0-%d",
			ErrInvalidArgument, b.Code, VirtualButtonLast)
	}
	return NewOffsetControl(uint32(virtualBase+(joy-VirtualJoyFirst)*4), SizeInt32, 0, VirtualButtonLast), nil
}

func (b Button) virtual(op Operation) (Bound, error) {
	c, err := b.VirtualControl()
	if err != nil {
		return Bound{}, err
	}
	return c.Op(op, 1<<b.Code)
}

// VirtPress sets the virtual button.
func (b Button) VirtPress() (Bound, error) { return b.virtual(OpSetBits) }

// VirtRelease clears the virtual button.
func (b Button) VirtRelease() (Bound, error) { return b.virtual(OpClearBits) }

// VirtToggle toggles the virtual button.
func (b Button) VirtToggle() (Bound, error) { return b.virtual(OpToggleBits) }
