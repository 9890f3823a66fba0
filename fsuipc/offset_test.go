package fsuipc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightrig/fsuipcgen/fsuipc"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		op     fsuipc.Operation
		size   fsuipc.OffsetSize
		offset uint32
		want   string
	}{
		{fsuipc.OpSet, fsuipc.SizeByte, 0x66C0, "Cx010066C0"},
		{fsuipc.OpSetBits, fsuipc.SizeInt32, 0x3340, "Cx07003340"},
		{fsuipc.OpIncrementSigned, fsuipc.SizeWord, 0x0BC0, "Cx32000BC0"},
		{fsuipc.OpDecrementCyclic, fsuipc.SizeDWord, 0x3340, "Cx63003340"},
		{fsuipc.OpFloatSet, fsuipc.SizeFloat32, 0x0BC0, "Cx70000BC0"},
	}
	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, fsuipc.Encode(tt.op, tt.size, tt.offset).CtrlCode())
		})
	}
}

func TestOperationDirection(t *testing.T) {
	inc := []fsuipc.Operation{fsuipc.OpIncrementUnsigned, fsuipc.OpIncrementSigned, fsuipc.OpIncrementCyclic}
	dec := []fsuipc.Operation{fsuipc.OpDecrementUnsigned, fsuipc.OpDecrementSigned, fsuipc.OpDecrementCyclic}
	for _, op := range inc {
		assert.True(t, op.IsIncrement(), op.String())
		assert.False(t, op.IsDecrement(), op.String())
	}
	for _, op := range dec {
		assert.True(t, op.IsDecrement(), op.String())
		assert.False(t, op.IsIncrement(), op.String())
	}
	for _, op := range []fsuipc.Operation{fsuipc.OpSet, fsuipc.OpSetBits, fsuipc.OpClearBits, fsuipc.OpToggleBits, fsuipc.OpFloatSet, fsuipc.OpFloatInc} {
		assert.False(t, op.Stepping(), op.String())
	}
}

func TestParamPacksLimit(t *testing.T) {
	c := fsuipc.NewOffsetControl(0x0BC0, fsuipc.SizeWord, -100, 100)

	assert.Equal(t, "x00640005", c.Param(fsuipc.OpIncrementSigned, 5).String())
	assert.Equal(t, "xFF9C0005", c.Param(fsuipc.OpDecrementSigned, 5).String())

	for _, op := range fsuipc.Operations() {
		p := uint32(c.Param(op, 5))
		switch {
		case op.IsIncrement():
			assert.Equal(t, uint32(0x0064), p>>16, op.String())
			assert.Equal(t, uint32(5), p&0xFFFF, op.String())
		case op.IsDecrement():
			assert.Equal(t, uint32(0xFF9C), p>>16, op.String())
			assert.Equal(t, uint32(5), p&0xFFFF, op.String())
		default:
			assert.Equal(t, uint32(5), p, op.String())
		}
	}
}

func TestBitOpsUsePlainOperand(t *testing.T) {
	c := fsuipc.NewOffsetControl(0x3340, fsuipc.SizeInt32, 0, 31)
	b, err := c.Op(fsuipc.OpSetBits, 1<<31)
	require.NoError(t, err)
	assert.Equal(t, "Cx07003340", b.CtrlCode())
	assert.Equal(t, "x80000000", b.CtrlParam())
}

func TestOpRejectsUnknownOperation(t *testing.T) {
	c := fsuipc.NewOffsetControl(0x3340, fsuipc.SizeInt32, 0, 31)
	_, err := c.Op(fsuipc.Operation(5), 1)
	assert.ErrorIs(t, err, fsuipc.ErrInvalidArgument)
}

func TestParseOperation(t *testing.T) {
	tests := map[string]fsuipc.Operation{
		"Set":              fsuipc.OpSet,
		"setbits":          fsuipc.OpSetBits,
		"Clrbits":          fsuipc.OpClearBits,
		"ClearBits":        fsuipc.OpClearBits,
		"toggle_bits":      fsuipc.OpToggleBits,
		"increment_signed": fsuipc.OpIncrementSigned,
		"DecrementCyclic":  fsuipc.OpDecrementCyclic,
	}
	for in, want := range tests {
		got, err := fsuipc.ParseOperation(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := fsuipc.ParseOperation("Multiply")
	assert.ErrorIs(t, err, fsuipc.ErrInvalidArgument)
}

func TestParseOffsetSize(t *testing.T) {
	s, err := fsuipc.ParseOffsetSize("word")
	require.NoError(t, err)
	assert.Equal(t, fsuipc.SizeWord, s)

	_, err = fsuipc.ParseOffsetSize("Qword")
	assert.ErrorIs(t, err, fsuipc.ErrInvalidArgument)
}

func TestOffsetConditionString(t *testing.T) {
	mask := uint32(3)
	tests := []struct {
		cond fsuipc.OffsetCondition
		want string
	}{
		{fsuipc.OffsetCondition{Size: fsuipc.SizeWord, Offset: 0x120, Test: fsuipc.Equal, Value: 5}, "W0120=5"},
		{fsuipc.OffsetCondition{Size: fsuipc.SizeByte, Offset: 0x66C0, Mask: &mask, Test: fsuipc.NotEqual, Value: 0}, "B66C0&x3!0"},
		{fsuipc.OffsetCondition{Size: fsuipc.SizeDWord, Offset: 0x3340, Test: fsuipc.GreaterThan, Value: 10}, "D3340>10"},
		{fsuipc.OffsetCondition{Size: fsuipc.SizeWord, Offset: 0x120, Value: 1}, "W0120=1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.cond.String())
	}
}

func TestParseComparison(t *testing.T) {
	for in, want := range map[string]fsuipc.Comparison{
		"=": fsuipc.Equal, "==": fsuipc.Equal, "!=": fsuipc.NotEqual, "<": fsuipc.LessThan, ">": fsuipc.GreaterThan,
	} {
		got, err := fsuipc.ParseComparison(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := fsuipc.ParseComparison(">=")
	assert.ErrorIs(t, err, fsuipc.ErrInvalidArgument)
}

func TestOffsetEnum(t *testing.T) {
	xpdr := fsuipc.NewOffsetEnum("Xpdr", 0x66C1, fsuipc.SizeByte).
		Add("OFF", 0).
		Add("STBY", 1).
		Add("ALT", 4).
		Add("TST", 3)

	assert.Equal(t, []string{"OFF", "STBY", "ALT", "TST"}, xpdr.Names())
	lo, hi := xpdr.Limits()
	assert.Equal(t, int64(0), lo)
	assert.Equal(t, int64(4), hi)

	alt, err := xpdr.Value("ALT")
	require.NoError(t, err)
	assert.Equal(t, "B66C1=4", alt.CondEqual().String())
	assert.Equal(t, "B66C1!4", alt.CondNotEqual().String())
	assert.Equal(t, int64(4), fsuipc.Val(alt))

	b, err := xpdr.Ctrl().Op(fsuipc.OpIncrementUnsigned, 1)
	require.NoError(t, err)
	assert.Equal(t, "Cx110066C1", b.CtrlCode())
	assert.Equal(t, "x00040001", b.CtrlParam())

	_, err = xpdr.Value("GND")
	assert.ErrorIs(t, err, fsuipc.ErrNotFound)
}
