package fsuipc

import (
	"fmt"
	"strconv"
	"strings"
)

// Modifier bits of the FSUIPC key shift code. The shift code sent with a
// key is ShiftBase plus the held modifiers.
const (
	ModShift Modifier = 1
	ModCtrl  Modifier = 2
	ModTab   Modifier = 4
	ModAlt   Modifier = 16
	ModWin   Modifier = 32
	ModApps  Modifier = 64

	ShiftBase = 8
)

// Modifier is a set of held modifier keys.
type Modifier uint8

var modifierNames = map[string]Modifier{
	"SHIFT": ModShift,
	"CTRL":  ModCtrl,
	"TAB":   ModTab,
	"ALT":   ModAlt,
	"WIN":   ModWin,
	"APPS":  ModApps,
}

// ParseModifier looks a modifier up by name, ignoring case.
func ParseModifier(name string) (Modifier, error) {
	if m, ok := modifierNames[strings.ToUpper(name)]; ok {
		return m, nil
	}
	return 0, fmt.Errorf("%w: key modifier %q", ErrInvalidArgument, name)
}

// Windows virtual-key codes.
const (
	VKBack     = 0x08
	VKTab      = 0x09
	VKReturn   = 0x0D
	VKPause    = 0x13
	VKCapital  = 0x14
	VKEscape   = 0x1B
	VKSpace    = 0x20
	VKPrior    = 0x21 // Page Up
	VKNext     = 0x22 // Page Down
	VKEnd      = 0x23
	VKHome     = 0x24
	VKLeft     = 0x25
	VKUp       = 0x26
	VKRight    = 0x27
	VKDown     = 0x28
	VKInsert   = 0x2D
	VKDelete   = 0x2E
	VKNumpad0  = 0x60
	VKMultiply = 0x6A
	VKAdd      = 0x6B
	VKSubtract = 0x6D
	VKDecimal  = 0x6E
	VKDivide   = 0x6F
	VKF1       = 0x70
	VKOEM1     = 0xBA // ;:
	VKOEMPlus  = 0xBB
	VKOEMComma = 0xBC
	VKOEMMinus = 0xBD
	VKOEMDot   = 0xBE
	VKOEM2     = 0xBF // /?
	VKOEM3     = 0xC0 // `~
	VKOEM4     = 0xDB // [{
	VKOEM5     = 0xDC // \|
	VKOEM6     = 0xDD // ]}
	VKOEM7     = 0xDE // '"
)

// VirtualKeys maps key names to virtual-key codes. Letters and digits map
// to their ASCII codes, F1..F24 and NUMPAD0..NUMPAD9 are included.
var VirtualKeys = buildVirtualKeys()

func buildVirtualKeys() map[string]uint8 {
	keys := map[string]uint8{
		"BACK":       VKBack,
		"TAB":        VKTab,
		"RETURN":     VKReturn,
		"ENTER":      VKReturn,
		"PAUSE":      VKPause,
		"CAPITAL":    VKCapital,
		"ESCAPE":     VKEscape,
		"ESC":        VKEscape,
		"SPACE":      VKSpace,
		"PRIOR":      VKPrior,
		"PGUP":       VKPrior,
		"NEXT":       VKNext,
		"PGDN":       VKNext,
		"END":        VKEnd,
		"HOME":       VKHome,
		"LEFT":       VKLeft,
		"UP":         VKUp,
		"RIGHT":      VKRight,
		"DOWN":       VKDown,
		"INSERT":     VKInsert,
		"DELETE":     VKDelete,
		"MULTIPLY":   VKMultiply,
		"ADD":        VKAdd,
		"SUBTRACT":   VKSubtract,
		"DECIMAL":    VKDecimal,
		"DIVIDE":     VKDivide,
		"OEM_1":      VKOEM1,
		"OEM_PLUS":   VKOEMPlus,
		"OEM_COMMA":  VKOEMComma,
		"OEM_MINUS":  VKOEMMinus,
		"OEM_PERIOD": VKOEMDot,
		"OEM_2":      VKOEM2,
		"OEM_3":      VKOEM3,
		"OEM_4":      VKOEM4,
		"OEM_5":      VKOEM5,
		"OEM_6":      VKOEM6,
		"OEM_7":      VKOEM7,
	}
	for c := 'A'; c <= 'Z'; c++ {
		keys[string(c)] = uint8(c)
	}
	for c := '0'; c <= '9'; c++ {
		keys[string(c)] = uint8(c)
		keys["NUMPAD"+string(c)] = VKNumpad0 + uint8(c-'0')
	}
	for i := 0; i < 24; i++ {
		keys["F"+strconv.Itoa(i+1)] = VKF1 + uint8(i)
	}
	return keys
}

// ParseKey looks a virtual key up by name, ignoring case. A plain number is
// taken as the code itself.
func ParseKey(name string) (uint8, error) {
	if k, ok := VirtualKeys[strings.ToUpper(name)]; ok {
		return k, nil
	}
	if n, err := strconv.ParseUint(name, 0, 8); err == nil {
		return uint8(n), nil
	}
	return 0, fmt.Errorf("%w: virtual key %q", ErrInvalidArgument, name)
}

// KeyControl sends a keystroke, rendered as control "K<vk>" with the shift
// code as parameter.
type KeyControl struct {
	Key  uint8
	Mods Modifier
}

// Key returns a KeyControl for vk with the given modifiers held.
func Key(vk uint8, mods ...Modifier) KeyControl {
	k := KeyControl{Key: vk}
	for _, m := range mods {
		k.Mods |= m
	}
	return k
}

// Shift returns the FSUIPC shift code.
func (k KeyControl) Shift() int { return ShiftBase + int(k.Mods) }

func (k KeyControl) CtrlCode() string { return "K" + strconv.Itoa(int(k.Key)) }

func (k KeyControl) CtrlParam() string { return strconv.Itoa(k.Shift()) }

// ParamCode packs the key for the parameter of the FSUIPC key press and
// release controls: vk + 256*shift.
func (k KeyControl) ParamCode() int { return int(k.Key) + 256*k.Shift() }

func (k KeyControl) Value() any { return k.ParamCode() }
