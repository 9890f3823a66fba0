// Package fsuipc builds [Buttons] entries for the FSUIPC INI file.
//
// Buttons, controls and conditions are small immutable values that are
// constructed once (usually from device layouts and control tables) and
// combined by a Mapper into encoded entry tokens such as
//
//	W0120=5 CP(+1,3)(+2,4)1,3,C65700,0
//
// which the Mapper hands to an ini.Section together with the provenance of
// the call.
package fsuipc

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrInvalidArgument reports a value that cannot be encoded, such as a
	// lettered joystick where a joystick number is required.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound reports an unknown name or a missing table file.
	ErrNotFound = errors.New("not found")
)

// Valuer is implemented by symbolic values that stand for a primitive.
type Valuer interface {
	Value() any
}

const maxUnwrap = 32

// Val unwraps v until it is no longer a Valuer. Primitives come back
// unchanged.
func Val(v any) any {
	for i := 0; i < maxUnwrap; i++ {
		w, ok := v.(Valuer)
		if !ok {
			return v
		}
		v = w.Value()
	}
	return v
}

// Int resolves v to an integer.
func Int(v any) (int64, error) {
	switch x := Val(v).(type) {
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint:
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint64:
		return int64(x), nil
	case string:
		n, err := strconv.ParseInt(x, 0, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidArgument, x)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: %v (%T) is not an integer", ErrInvalidArgument, x, x)
	}
}

// Format resolves v and renders it for an INI field.
func Format(v any) string {
	switch x := Val(v).(type) {
	case nil:
		return "0"
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// Hex is a 32-bit parameter rendered as 'x' and eight hex digits.
type Hex uint32

func (h Hex) String() string {
	return fmt.Sprintf("x%04X%04X", uint32(h)>>16, uint32(h)&0xFFFF)
}
