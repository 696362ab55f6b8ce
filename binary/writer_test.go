package binary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteBool(true)
	w.WriteU8(200)
	w.WriteU16(60000)
	w.WriteU24(8_492_696)
	w.WriteI24(-8_284_520)
	w.WriteU32(4000000000)
	w.WriteU64(18000000000000000000)
	w.WriteI8(-5)
	w.WriteI16(-1000)
	w.WriteI32(-100000)
	w.WriteI64(-100000000000)
	w.WriteF32(3.5)
	w.WriteF64(-2.25)

	r := NewReader(w.Bytes())
	b, _ := r.ReadBool()
	assert.True(t, b)
	u8, _ := r.ReadU8()
	assert.EqualValues(t, 200, u8)
	u16, _ := r.ReadU16()
	assert.EqualValues(t, 60000, u16)
	u24, _ := r.ReadU24()
	assert.EqualValues(t, 8_492_696, u24)
	i24, _ := r.ReadI24()
	assert.EqualValues(t, -8_284_520, i24)
	u32, _ := r.ReadU32()
	assert.EqualValues(t, 4000000000, u32)
	u64, _ := r.ReadU64()
	assert.EqualValues(t, 18000000000000000000, u64)
	i8, _ := r.ReadI8()
	assert.EqualValues(t, -5, i8)
	i16, _ := r.ReadI16()
	assert.EqualValues(t, -1000, i16)
	i32, _ := r.ReadI32()
	assert.EqualValues(t, -100000, i32)
	i64, _ := r.ReadI64()
	assert.EqualValues(t, -100000000000, i64)
	f32, _ := r.ReadF32()
	assert.EqualValues(t, 3.5, f32)
	f64, _ := r.ReadF64()
	assert.EqualValues(t, -2.25, f64)
	assert.Equal(t, 0, r.Remaining())
}

func TestStringRoundTrips(t *testing.T) {
	w := NewWriter()
	w.WriteSizedStringU8("hello")
	w.WriteSizedStringU16("waha")
	w.WriteOptionalStringU8("")
	w.WriteOptionalStringU8("present")
	w.WriteStringU8_0Terminated("terminated")
	require.NoError(t, w.WriteStringU8_0Padded("pad", 8))

	r := NewReader(w.Bytes())
	s, err := r.ReadSizedStringU8()
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	s, err = r.ReadSizedStringU16()
	require.NoError(t, err)
	assert.Equal(t, "waha", s)

	s, err = r.ReadOptionalStringU8()
	require.NoError(t, err)
	assert.Equal(t, "", s)

	s, err = r.ReadOptionalStringU8()
	require.NoError(t, err)
	assert.Equal(t, "present", s)

	s, err = r.ReadStringU8_0Terminated()
	require.NoError(t, err)
	assert.Equal(t, "terminated", s)

	s, err = r.ReadStringU8_0Padded(8)
	require.NoError(t, err)
	assert.Equal(t, "pad", s)
}

func TestColourRoundTrip(t *testing.T) {
	w := NewWriter()
	require.NoError(t, w.WriteStringColourRGB("0504FF"))
	r := NewReader(w.Bytes())
	s, err := r.ReadStringColourRGB()
	require.NoError(t, err)
	assert.Equal(t, "0504FF", s)
}

func TestISO885915RoundTrip(t *testing.T) {
	w := NewWriter()
	require.NoError(t, w.WriteStringU8ISO885915("Cafe"))
	r := NewReader(w.Bytes())
	s, err := r.ReadStringU8ISO885915(4)
	require.NoError(t, err)
	assert.Equal(t, "Cafe", s)
}
