package rep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/snug/internal/snug"
)

func TestLookup(t *testing.T) {
	for _, typ := range Types() {
		got, err := Lookup(string(typ))
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}

	got, err := Lookup("byte")
	require.NoError(t, err)
	assert.Equal(t, Uint8, got)

	_, err = Lookup("float64")
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestTypesOrder(t *testing.T) {
	types := Types()
	require.Len(t, types, 10)
	assert.Equal(t, Int8, types[0])
	assert.Equal(t, Uint, types[9])

	types[0] = "mutated"
	assert.Equal(t, Int8, Types()[0])
}

func TestBounds(t *testing.T) {
	tests := []struct {
		typ          Type
		lower, upper string
		signed       bool
	}{
		{Int8, "-128", "127", true},
		{Int16, "-32768", "32767", true},
		{Int64, "-9223372036854775808", "9223372036854775807", true},
		{Uint8, "0", "255", false},
		{Uint64, "0", "18446744073709551615", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			lower, upper, err := tt.typ.Bounds()
			require.NoError(t, err)
			assert.Equal(t, tt.lower, lower)
			assert.Equal(t, tt.upper, upper)
			assert.Equal(t, tt.signed, tt.typ.Signed())
		})
	}

	_, _, err := Type("int128").Bounds()
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestApply(t *testing.T) {
	a, err := Parse(Int8, "100")
	require.NoError(t, err)
	b, err := Parse(Int8, "50")
	require.NoError(t, err)

	_, err = Apply(OpAdd, a, b)
	assert.ErrorIs(t, err, snug.AdditionOverflow)

	diff, err := Apply(OpSub, a, b)
	require.NoError(t, err)
	assert.Equal(t, "50", diff.String())
	assert.Equal(t, Int8, diff.Type())

	_, err = Apply("mod", a, b)
	assert.ErrorIs(t, err, ErrUnknownOp)
}

func TestApplyTypeMismatch(t *testing.T) {
	a, err := Parse(Int32, "1")
	require.NoError(t, err)
	b, err := Parse(Int64, "1")
	require.NoError(t, err)

	_, err = Apply(OpAdd, a, b)
	assert.ErrorIs(t, err, snug.TypeMismatch)
	assert.Contains(t, err.Error(), "int32/int64")

	_, err = Compare(a, b)
	assert.ErrorIs(t, err, snug.TypeMismatch)
}

func TestStep(t *testing.T) {
	v, err := Parse(Uint8, "0")
	require.NoError(t, err)

	_, err = Step(OpDec, v)
	assert.ErrorIs(t, err, snug.SubtractionUnderflow)
	assert.Equal(t, "0", v.String(), "values are immutable")

	next, err := Step(OpInc, v)
	require.NoError(t, err)
	assert.Equal(t, "1", next.String())

	_, err = Step(OpAdd, v)
	assert.ErrorIs(t, err, ErrUnknownOp)
}

func TestAssign(t *testing.T) {
	v, err := New(Int16)
	require.NoError(t, err)
	assert.Equal(t, "0", v.String())

	v2, err := Assign(v, "-300")
	require.NoError(t, err)
	assert.Equal(t, "-300", v2.String())

	_, err = Assign(v2, "40000")
	assert.ErrorIs(t, err, snug.SizeMismatch)
}

func TestParseUnknownType(t *testing.T) {
	_, err := Parse("int7", "1")
	assert.ErrorIs(t, err, ErrUnknownType)
	_, err = New("int7")
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestUnwrap(t *testing.T) {
	v, err := Parse(Uint16, "65535")
	require.NoError(t, err)

	n, ok := Unwrap[uint16](v)
	require.True(t, ok)
	assert.Equal(t, uint16(65535), n.Value())

	_, ok = Unwrap[int16](v)
	assert.False(t, ok)
}

func TestCompare(t *testing.T) {
	a, _ := Parse(Int, "-5")
	b, _ := Parse(Int, "7")
	c, err := Compare(a, b)
	require.NoError(t, err)
	assert.Equal(t, -1, c)
	c, err = Compare(b, a)
	require.NoError(t, err)
	assert.Equal(t, 1, c)
}
