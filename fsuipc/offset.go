package fsuipc

import (
	"fmt"
	"sort"
	"strings"
)

// OffsetSize is the width of an offset as seen by offset controls (CtrlCode)
// and offset conditions (CondCode). Float sizes have no condition marker.
type OffsetSize struct {
	Name     string
	CtrlCode uint32
	CondCode string
}

var (
	SizeFloat32 = OffsetSize{Name: "Float32", CtrlCode: 0}
	SizeByte    = OffsetSize{Name: "Byte", CtrlCode: 1, CondCode: "B"}
	SizeInt8    = OffsetSize{Name: "Int8", CtrlCode: 1, CondCode: "B"}
	SizeWord    = OffsetSize{Name: "Word", CtrlCode: 2, CondCode: "W"}
	SizeInt16   = OffsetSize{Name: "Int16", CtrlCode: 2, CondCode: "W"}
	SizeDWord   = OffsetSize{Name: "DWord", CtrlCode: 3, CondCode: "D"}
	SizeInt32   = OffsetSize{Name: "Int32", CtrlCode: 3, CondCode: "D"}
	SizeFloat64 = OffsetSize{Name: "Float64", CtrlCode: 4}
)

var offsetSizes = []OffsetSize{
	SizeFloat32, SizeByte, SizeInt8, SizeWord, SizeInt16,
	SizeDWord, SizeInt32, SizeFloat64,
}

// ParseOffsetSize looks a size up by name, ignoring case.
func ParseOffsetSize(name string) (OffsetSize, error) {
	for _, s := range offsetSizes {
		if strings.EqualFold(s.Name, name) {
			return s, nil
		}
	}
	return OffsetSize{}, fmt.Errorf("%w: offset size %q", ErrInvalidArgument, name)
}

// Operation selects what an offset control does to its offset.
type Operation uint32

const (
	OpSet               Operation = 0
	OpSetBits           Operation = 1
	OpClearBits         Operation = 2
	OpToggleBits        Operation = 3
	OpIncrementUnsigned Operation = 4
	OpDecrementUnsigned Operation = 8
	OpIncrementSigned   Operation = 12
	OpDecrementSigned   Operation = 16
	OpIncrementCyclic   Operation = 20
	OpDecrementCyclic   Operation = 24
	OpFloatSet          Operation = 28
	OpFloatInc          Operation = 30
)

const (
	operationShift = 26
	sizeShift      = 24
	offsetMask     = 0x00FFFFFF

	// Within the stepping operations bit 2 separates the increments (set)
	// from the decrements (clear).
	incrementBit Operation = 4
)

var operationNames = map[Operation]string{
	OpSet:               "Set",
	OpSetBits:           "SetBits",
	OpClearBits:         "ClearBits",
	OpToggleBits:        "ToggleBits",
	OpIncrementUnsigned: "IncrementUnsigned",
	OpDecrementUnsigned: "DecrementUnsigned",
	OpIncrementSigned:   "IncrementSigned",
	OpDecrementSigned:   "DecrementSigned",
	OpIncrementCyclic:   "IncrementCyclic",
	OpDecrementCyclic:   "DecrementCyclic",
	OpFloatSet:          "FloatSet",
	OpFloatInc:          "FloatInc",
}

// Operations returns every known operation in code order.
func Operations() []Operation {
	ops := make([]Operation, 0, len(operationNames))
	for op := range operationNames {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}

func (o Operation) String() string {
	if n, ok := operationNames[o]; ok {
		return n
	}
	return fmt.Sprintf("Operation(%d)", uint32(o))
}

// Valid reports whether o is a known operation.
func (o Operation) Valid() bool {
	_, ok := operationNames[o]
	return ok
}

// ParseOperation looks an operation up by name. Case and underscores are
// ignored, and the short spellings "Setbits", "Clrbits" and "Togglebits"
// are accepted.
func ParseOperation(name string) (Operation, error) {
	key := strings.ToLower(strings.ReplaceAll(name, "_", ""))
	if key == "clrbits" {
		return OpClearBits, nil
	}
	for op, n := range operationNames {
		if strings.ToLower(n) == key {
			return op, nil
		}
	}
	return 0, fmt.Errorf("%w: offset operation %q", ErrInvalidArgument, name)
}

// Stepping reports whether o is an integer increment or decrement, plain or
// cyclic. Stepping operations pack a clamp limit into their parameter.
func (o Operation) Stepping() bool {
	return o >= OpIncrementUnsigned && o <= OpDecrementCyclic && o%4 == 0
}

// IsDecrement reports whether o steps downwards and so clamps at the
// lower limit.
func (o Operation) IsDecrement() bool {
	return o.Stepping() && o&incrementBit == 0
}

// IsIncrement reports whether o steps upwards and so clamps at the upper
// limit.
func (o Operation) IsIncrement() bool {
	return o.Stepping() && o&incrementBit != 0
}

// OffsetCode is an encoded offset control: operation, size and offset
// packed into 32 bits.
type OffsetCode uint32

// Encode packs (op << 26) | (size << 24) | offset.
func Encode(op Operation, size OffsetSize, offset uint32) OffsetCode {
	return OffsetCode(uint32(op)<<operationShift | size.CtrlCode<<sizeShift | offset&offsetMask)
}

func (c OffsetCode) String() string { return fmt.Sprintf("x%08X", uint32(c)) }

// CtrlCode renders the code as a control reference, e.g. "Cx32000BC0".
func (c OffsetCode) CtrlCode() string { return "C" + c.String() }

// OffsetControl manipulates one offset, clamping stepping operations to
// [Min, Max].
type OffsetControl struct {
	Offset uint32
	Size   OffsetSize
	Min    int64
	Max    int64
}

// NewOffsetControl returns a control for offset with the given limits.
func NewOffsetControl(offset uint32, size OffsetSize, lo, hi int64) OffsetControl {
	return OffsetControl{Offset: offset, Size: size, Min: lo, Max: hi}
}

// Code returns the encoded control for op.
func (c OffsetControl) Code(op Operation) OffsetCode {
	return Encode(op, c.Size, c.Offset)
}

// Param computes the parameter for op. Stepping operations put the clamp
// limit (Min for decrements, Max for increments) in the high 16 bits and
// the step in the low 16 bits; every other operation uses the operand as a
// plain 32-bit value.
func (c OffsetControl) Param(op Operation, operand int64) Hex {
	if !op.Stepping() {
		return Hex(uint32(operand))
	}
	limit := c.Max
	if op.IsDecrement() {
		limit = c.Min
	}
	return Hex(uint32(limit&0xFFFF)<<16 | uint32(operand&0xFFFF))
}

// Op binds op and operand to the control, giving the control code and the
// parameter of one INI entry.
func (c OffsetControl) Op(op Operation, operand int64) (Bound, error) {
	if !op.Valid() {
		return Bound{}, fmt.Errorf("%w: offset operation %d", ErrInvalidArgument, uint32(op))
	}
	return Bind(c.Code(op), c.Param(op, operand)), nil
}

// Comparison is the test applied by an offset condition.
type Comparison byte

const (
	Equal       Comparison = '='
	NotEqual    Comparison = '!'
	LessThan    Comparison = '<'
	GreaterThan Comparison = '>'
)

// ParseComparison accepts "=", "==", "!", "!=", "<" and ">".
func ParseComparison(s string) (Comparison, error) {
	switch s {
	case "=", "==", "":
		return Equal, nil
	case "!", "!=":
		return NotEqual, nil
	case "<":
		return LessThan, nil
	case ">":
		return GreaterThan, nil
	}
	return 0, fmt.Errorf("%w: comparison %q", ErrInvalidArgument, s)
}

// OffsetCondition compares an offset (optionally masked) against a value.
type OffsetCondition struct {
	Size   OffsetSize
	Offset uint32
	Test   Comparison
	Value  any
	Mask   *uint32
}

// String renders e.g. "W0120=5" or "B66C0&x3!0".
func (c OffsetCondition) String() string {
	var mask string
	if c.Mask != nil {
		mask = fmt.Sprintf("&x%X", *c.Mask)
	}
	test := c.Test
	if test == 0 {
		test = Equal
	}
	return fmt.Sprintf("%s%04X%s%c%s", c.Size.CondCode, c.Offset, mask, test, Format(c.Value))
}

func (OffsetCondition) condition() {}

// OffsetEnum names the meaningful values of one offset, such as the
// positions of a selector kept in a user offset. The control limits are the
// smallest and largest declared values.
type OffsetEnum struct {
	Name   string
	Offset uint32
	Size   OffsetSize

	names  []string
	values map[string]int64
}

// NewOffsetEnum returns an empty enumeration for offset.
func NewOffsetEnum(name string, offset uint32, size OffsetSize) *OffsetEnum {
	return &OffsetEnum{
		Name:   name,
		Offset: offset,
		Size:   size,
		values: make(map[string]int64),
	}
}

// Add declares a named value. Redeclaring a name replaces its value.
func (e *OffsetEnum) Add(name string, v int64) *OffsetEnum {
	if _, ok := e.values[name]; !ok {
		e.names = append(e.names, name)
	}
	e.values[name] = v
	return e
}

// Names lists the declared values in declaration order.
func (e *OffsetEnum) Names() []string {
	return append([]string(nil), e.names...)
}

// Value returns the named value.
func (e *OffsetEnum) Value(name string) (OffsetValue, error) {
	v, ok := e.values[name]
	if !ok {
		return OffsetValue{}, fmt.Errorf("%w: %s has no value %s", ErrNotFound, e.Name, name)
	}
	return OffsetValue{enum: e, Name: name, V: v}, nil
}

// Limits returns the smallest and largest declared values.
func (e *OffsetEnum) Limits() (lo, hi int64) {
	for i, n := range e.names {
		v := e.values[n]
		if i == 0 || v < lo {
			lo = v
		}
		if i == 0 || v > hi {
			hi = v
		}
	}
	return lo, hi
}

// Ctrl returns an offset control clamped to the declared values.
func (e *OffsetEnum) Ctrl() OffsetControl {
	lo, hi := e.Limits()
	return NewOffsetControl(e.Offset, e.Size, lo, hi)
}

// OffsetValue is one named value of an OffsetEnum.
type OffsetValue struct {
	enum *OffsetEnum
	Name string
	V    int64
}

func (v OffsetValue) Value() any { return v.V }

// CondEqual holds while the offset equals v.
func (v OffsetValue) CondEqual() OffsetCondition {
	return OffsetCondition{Size: v.enum.Size, Offset: v.enum.Offset, Test: Equal, Value: v.V}
}

// CondNotEqual holds while the offset differs from v.
func (v OffsetValue) CondNotEqual() OffsetCondition {
	c := v.CondEqual()
	c.Test = NotEqual
	return c
}
