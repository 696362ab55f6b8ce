// Package binary provides the endian/width-tagged scalar, varint, string and
// colour readers and writers every typed file codec in rfile/ is built on.
//
// The cursor-based Reader mirrors the teacher's style of reading structures
// field-by-field from a byte slice rather than through reflection
// (helper.go's comment: "I read structs from the ... source field-by-field
// for efficiency"), generalized here into a reusable primitive instead of
// being reimplemented per struct.
package binary

import (
	"encoding/binary"
	"math"
	"strings"
	"unicode/utf16"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/rpfm-go/rpfmcore/rerr"
)

// Reader reads little-endian scalars and the handful of string encodings
// the Pack typed-file formats use out of an in-memory byte slice.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf for sequential reading starting at offset 0.
func NewReader(buf []byte) *Reader { return &Reader{buf: buf} }

// Pos returns the current read cursor, in bytes from the start of buf.
func (r *Reader) Pos() int { return r.pos }

// Len returns the total length of the wrapped buffer.
func (r *Reader) Len() int { return len(r.buf) }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }

// Seek repositions the cursor to an absolute offset.
func (r *Reader) Seek(pos int) { r.pos = pos }

func (r *Reader) take(n int, kind string) ([]byte, error) {
	if r.Remaining() < n {
		return nil, rerr.NotEnoughBytesForType(kind, n, r.Remaining())
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadSlice reads exactly size raw bytes and advances the cursor.
func (r *Reader) ReadSlice(size int) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}
	return r.take(size, "slice")
}

// ReadBool reads one byte, accepting only 0 or 1.
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.take(1, "bool")
	if err != nil {
		return false, err
	}
	switch b[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, rerr.InvalidBool(b[0])
	}
}

// ReadU8 reads an unsigned 8-bit integer.
func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.take(1, "u8")
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU16 reads a little-endian unsigned 16-bit integer.
func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.take(2, "u16")
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadU24 reads a little-endian unsigned 24-bit integer, as used by some
// packed colour/index fields.
func (r *Reader) ReadU24() (uint32, error) {
	b, err := r.take(3, "u24")
	if err != nil {
		return 0, err
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16, nil
}

// ReadI24 reads a little-endian signed 24-bit integer (sign-extended from
// bit 23).
func (r *Reader) ReadI24() (int32, error) {
	u, err := r.ReadU24()
	if err != nil {
		return 0, err
	}
	if u&0x800000 != 0 {
		return int32(u | 0xFF000000), nil
	}
	return int32(u), nil
}

// ReadU32 reads a little-endian unsigned 32-bit integer.
func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.take(4, "u32")
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadU64 reads a little-endian unsigned 64-bit integer.
func (r *Reader) ReadU64() (uint64, error) {
	b, err := r.take(8, "u64")
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadI8 reads a signed 8-bit integer.
func (r *Reader) ReadI8() (int8, error) {
	b, err := r.take(1, "i8")
	if err != nil {
		return 0, err
	}
	return int8(b[0]), nil
}

// ReadI16 reads a little-endian signed 16-bit integer.
func (r *Reader) ReadI16() (int16, error) {
	u, err := r.ReadU16()
	return int16(u), err
}

// ReadI32 reads a little-endian signed 32-bit integer.
func (r *Reader) ReadI32() (int32, error) {
	u, err := r.ReadU32()
	return int32(u), err
}

// ReadI64 reads a little-endian signed 64-bit integer.
func (r *Reader) ReadI64() (int64, error) {
	u, err := r.ReadU64()
	return int64(u), err
}

// ReadF32 reads a little-endian IEEE-754 single precision float.
func (r *Reader) ReadF32() (float32, error) {
	u, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(u), nil
}

// ReadF64 reads a little-endian IEEE-754 double precision float.
func (r *Reader) ReadF64() (float64, error) {
	u, err := r.ReadU64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(u), nil
}

// ReadCauleb128 reads the host-specific variable-length unsigned integer:
// each byte's high bit signals continuation, the low 7 bits are the payload,
// least-significant group first.
func (r *Reader) ReadCauleb128() (uint64, error) {
	var result uint64
	var shift uint
	for {
		b, err := r.ReadU8()
		if err != nil {
			return 0, rerr.Wrap(rerr.KindNoBytesLeft, "truncated cauleb128", err)
		}
		result |= uint64(b&0x7F) << shift
		if b&0x80 == 0 {
			break
		}
		shift += 7
		if shift >= 64 {
			return 0, rerr.NotEnoughBytesForType("cauleb128", 1, 0)
		}
	}
	return result, nil
}

// ReadStringU8 reads a plain UTF-8 byte slice of the given length.
func (r *Reader) ReadStringU8(length int) (string, error) {
	b, err := r.take(length, "string_u8")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ReadStringU16 reads a UTF-16LE string spanning charLen UTF-16 code units
// (charLen*2 bytes).
func (r *Reader) ReadStringU16(charLen int) (string, error) {
	b, err := r.take(charLen*2, "string_u16")
	if err != nil {
		return "", err
	}
	return decodeUTF16LE(b)
}

// ReadStringU8ISO885915 reads length bytes decoded as ISO-8859-15.
func (r *Reader) ReadStringU8ISO885915(length int) (string, error) {
	b, err := r.take(length, "string_u8_iso_8859_15")
	if err != nil {
		return "", err
	}
	out, err := charmap.ISO8859_15.NewDecoder().Bytes(b)
	if err != nil {
		return "", rerr.ISO88591Decode(err)
	}
	return string(out), nil
}

// ReadStringU8_0Padded reads exactly size bytes, truncating the returned
// string at the first NUL, but always advancing the cursor by size.
func (r *Reader) ReadStringU8_0Padded(size int) (string, error) {
	b, err := r.take(size, "string_u8_0padded")
	if err != nil {
		return "", err
	}
	if i := strings.IndexByte(string(b), 0); i >= 0 {
		return string(b[:i]), nil
	}
	return string(b), nil
}

// ReadStringU8_0Terminated reads bytes up to and including the first NUL,
// returning everything before it. Fails if EOF is reached with no NUL.
func (r *Reader) ReadStringU8_0Terminated() (string, error) {
	start := r.pos
	for r.pos < len(r.buf) {
		if r.buf[r.pos] == 0 {
			s := string(r.buf[start:r.pos])
			r.pos++
			return s, nil
		}
		r.pos++
	}
	r.pos = start
	return "", rerr.String0TerminatedNoNul()
}

// ReadSizedStringU8 reads a u16 length prefix followed by that many UTF-8
// bytes.
func (r *Reader) ReadSizedStringU8() (string, error) {
	n, err := r.ReadU16()
	if err != nil {
		return "", err
	}
	return r.ReadStringU8(int(n))
}

// ReadSizedStringU16 reads a u16 length prefix (character count) followed
// by that many UTF-16LE code units.
func (r *Reader) ReadSizedStringU16() (string, error) {
	n, err := r.ReadU16()
	if err != nil {
		return "", err
	}
	return r.ReadStringU16(int(n))
}

// ReadOptionalStringU8 reads one bool; if false, consumes just that byte
// and returns "". If true, reads a sized u8 string.
func (r *Reader) ReadOptionalStringU8() (string, error) {
	has, err := r.ReadBool()
	if err != nil {
		return "", rerr.OptionalStringBadBool("u8")
	}
	if !has {
		return "", nil
	}
	return r.ReadSizedStringU8()
}

// ReadOptionalStringU16 reads one bool; if false, consumes just that byte
// and returns "". If true, reads a sized u16 string.
func (r *Reader) ReadOptionalStringU16() (string, error) {
	has, err := r.ReadBool()
	if err != nil {
		return "", rerr.OptionalStringBadBool("u16")
	}
	if !has {
		return "", nil
	}
	return r.ReadSizedStringU16()
}

// ReadStringColourRGB reads a 32-bit BGR0 colour and returns it as an
// uppercase "RRGGBB" hex string.
func (r *Reader) ReadStringColourRGB() (string, error) {
	b, err := r.take(4, "colour_rgb")
	if err != nil {
		return "", err
	}
	blue, green, red := b[0], b[1], b[2]
	const hex = "0123456789ABCDEF"
	out := make([]byte, 6)
	out[0], out[1] = hex[red>>4], hex[red&0xF]
	out[2], out[3] = hex[green>>4], hex[green&0xF]
	out[4], out[5] = hex[blue>>4], hex[blue&0xF]
	return string(out), nil
}

func decodeUTF16LE(b []byte) (string, error) {
	if len(b)%2 != 0 {
		return "", rerr.UnevenUTF16Input(len(b))
	}
	u16s := make([]uint16, len(b)/2)
	for i := range u16s {
		u16s[i] = binary.LittleEndian.Uint16(b[i*2:])
	}
	return string(utf16.Decode(u16s)), nil
}

// utf16Decoder is a golang.org/x/text UTF-16LE decoder. Nothing reads
// through it: decodeUTF16LE above decodes with unicode/utf16, and the
// assembly-kit importer reads its XML through etree.
var utf16Decoder = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
