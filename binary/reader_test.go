package binary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpfm-go/rpfmcore/rerr"
)

func TestReadBoolInvalid(t *testing.T) {
	_, err := NewReader([]byte{0x02}).ReadBool()
	require.Error(t, err)
	var rerrv *rerr.Error
	require.ErrorAs(t, err, &rerrv)
	assert.Equal(t, rerr.KindInvalidBool, rerrv.Kind)
	assert.Equal(t, 2, rerrv.Got)
}

func TestReadBoolValid(t *testing.T) {
	v, err := NewReader([]byte{0x00}).ReadBool()
	require.NoError(t, err)
	assert.False(t, v)

	v, err = NewReader([]byte{0x01}).ReadBool()
	require.NoError(t, err)
	assert.True(t, v)
}

func TestReadU24(t *testing.T) {
	v, err := NewReader([]byte{152, 150, 129}).ReadU24()
	require.NoError(t, err)
	assert.EqualValues(t, 8_492_696, v)
}

func TestReadI24(t *testing.T) {
	v, err := NewReader([]byte{152, 150, 129}).ReadI24()
	require.NoError(t, err)
	assert.EqualValues(t, -8_284_520, v)
}

func TestReadSizedStringU8(t *testing.T) {
	v, err := NewReader([]byte{10, 0, 87, 97, 104, 97, 104, 97, 104, 97, 104, 97}).ReadSizedStringU8()
	require.NoError(t, err)
	assert.Equal(t, "Wahahahaha", v)
}

func TestReadOptionalStringU16(t *testing.T) {
	v, err := NewReader([]byte{1, 4, 0, 87, 0, 97, 0, 104, 0, 97, 0}).ReadOptionalStringU16()
	require.NoError(t, err)
	assert.Equal(t, "Waha", v)

	v, err = NewReader([]byte{0}).ReadOptionalStringU16()
	require.NoError(t, err)
	assert.Equal(t, "", v)
}

func TestReadStringColourRGB(t *testing.T) {
	v, err := NewReader([]byte{0xFF, 0x04, 0x05, 0x00}).ReadStringColourRGB()
	require.NoError(t, err)
	assert.Equal(t, "0504FF", v)
}

func TestReadZeroLengthSliceSucceeds(t *testing.T) {
	b, err := NewReader([]byte{}).ReadSlice(0)
	require.NoError(t, err)
	assert.Empty(t, b)
}

func TestReadExactLengthBoundary(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4})
	b, err := r.ReadSlice(4)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, b)
	assert.Equal(t, 0, r.Remaining())
}

func TestReadOneByteShortFails(t *testing.T) {
	_, err := NewReader([]byte{1, 2, 3}).ReadU32()
	require.Error(t, err)
	var rerrv *rerr.Error
	require.ErrorAs(t, err, &rerrv)
	assert.Equal(t, rerr.KindNotEnoughBytesForType, rerrv.Kind)
}

func TestReadStringU16UnevenBytesFails(t *testing.T) {
	_, err := NewReader([]byte{1, 2, 3}).ReadSlice(3)
	require.NoError(t, err) // sanity: slice read itself doesn't validate evenness

	_, err = decodeUTF16LE([]byte{1, 2, 3})
	require.Error(t, err)
	var rerrv *rerr.Error
	require.ErrorAs(t, err, &rerrv)
	assert.Equal(t, rerr.KindUnevenUTF16Input, rerrv.Kind)
}

func TestString0PaddedAdvancesFullSizeAndTruncatesAtNul(t *testing.T) {
	r := NewReader([]byte{'h', 'i', 0, 'X', 'X', 0xAA})
	s, err := r.ReadStringU8_0Padded(5)
	require.NoError(t, err)
	assert.Equal(t, "hi", s)
	assert.Equal(t, 5, r.Pos())
}

func TestString0TerminatedFailsWithoutNul(t *testing.T) {
	_, err := NewReader([]byte{'h', 'i'}).ReadStringU8_0Terminated()
	require.Error(t, err)
}

func TestString0TerminatedAdvancesPastNul(t *testing.T) {
	r := NewReader([]byte{'h', 'i', 0, 'X'})
	s, err := r.ReadStringU8_0Terminated()
	require.NoError(t, err)
	assert.Equal(t, "hi", s)
	assert.Equal(t, 3, r.Pos())
}

func TestOptionalStringBadBoolByte(t *testing.T) {
	_, err := NewReader([]byte{2}).ReadOptionalStringU8()
	require.Error(t, err)
}

func TestReadCauleb128RoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 127, 128, 300, 1 << 20, 1 << 40} {
		w := NewWriter()
		w.WriteCauleb128(v)
		got, err := NewReader(w.Bytes()).ReadCauleb128()
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestReadCauleb128Truncated(t *testing.T) {
	_, err := NewReader([]byte{0x80}).ReadCauleb128()
	require.Error(t, err)
}
