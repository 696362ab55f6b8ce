package binary

import (
	"bytes"
	"encoding/binary"
	"math"
	"unicode/utf16"

	"golang.org/x/text/encoding/charmap"

	"github.com/rpfm-go/rpfmcore/rerr"
)

// Writer accumulates little-endian scalars and the typed-file string
// encodings into an in-memory buffer, mirroring Reader's method set so
// codecs can write the exact inverse of what they read.
type Writer struct {
	buf bytes.Buffer
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer { return &Writer{} }

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

// Len returns the number of bytes written so far.
func (w *Writer) Len() int { return w.buf.Len() }

// WriteSlice appends raw bytes verbatim.
func (w *Writer) WriteSlice(b []byte) { w.buf.Write(b) }

// WriteBool writes 1 or 0.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

// WriteU8 writes an unsigned 8-bit integer.
func (w *Writer) WriteU8(v uint8) { w.buf.WriteByte(v) }

// WriteU16 writes a little-endian unsigned 16-bit integer.
func (w *Writer) WriteU16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

// WriteU24 writes a little-endian unsigned 24-bit integer (low 3 bytes of v).
func (w *Writer) WriteU24(v uint32) {
	w.buf.Write([]byte{byte(v), byte(v >> 8), byte(v >> 16)})
}

// WriteI24 writes a little-endian signed 24-bit integer.
func (w *Writer) WriteI24(v int32) { w.WriteU24(uint32(v) & 0xFFFFFF) }

// WriteU32 writes a little-endian unsigned 32-bit integer.
func (w *Writer) WriteU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

// WriteU64 writes a little-endian unsigned 64-bit integer.
func (w *Writer) WriteU64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

// WriteI8 writes a signed 8-bit integer.
func (w *Writer) WriteI8(v int8) { w.buf.WriteByte(byte(v)) }

// WriteI16 writes a little-endian signed 16-bit integer.
func (w *Writer) WriteI16(v int16) { w.WriteU16(uint16(v)) }

// WriteI32 writes a little-endian signed 32-bit integer.
func (w *Writer) WriteI32(v int32) { w.WriteU32(uint32(v)) }

// WriteI64 writes a little-endian signed 64-bit integer.
func (w *Writer) WriteI64(v int64) { w.WriteU64(uint64(v)) }

// WriteF32 writes a little-endian IEEE-754 single precision float.
func (w *Writer) WriteF32(v float32) { w.WriteU32(math.Float32bits(v)) }

// WriteF64 writes a little-endian IEEE-754 double precision float.
func (w *Writer) WriteF64(v float64) { w.WriteU64(math.Float64bits(v)) }

// WriteCauleb128 writes v as the host-specific continuation-bit varint.
func (w *Writer) WriteCauleb128(v uint64) {
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.buf.WriteByte(b)
		if v == 0 {
			break
		}
	}
}

// WriteStringU8 writes s as raw UTF-8 bytes, no length prefix.
func (w *Writer) WriteStringU8(s string) { w.buf.WriteString(s) }

// WriteStringU16 writes s as UTF-16LE code units, no length prefix.
func (w *Writer) WriteStringU16(s string) {
	for _, u := range utf16.Encode([]rune(s)) {
		w.WriteU16(u)
	}
}

// WriteStringU8ISO885915 writes s encoded as ISO-8859-15.
func (w *Writer) WriteStringU8ISO885915(s string) error {
	out, err := charmap.ISO8859_15.NewEncoder().String(s)
	if err != nil {
		return rerr.ISO88591Decode(err)
	}
	w.buf.WriteString(out)
	return nil
}

// WriteStringU8_0Padded writes s padded to exactly size bytes, NUL-padding
// any remainder. A string longer than size is not truncated: it fails with
// MismatchedSize and nothing is written.
func (w *Writer) WriteStringU8_0Padded(s string, size int) error {
	b := []byte(s)
	if len(b) > size {
		return rerr.MismatchedSize(size, len(b))
	}
	w.buf.Write(b)
	for i := len(b); i < size; i++ {
		w.buf.WriteByte(0)
	}
	return nil
}

// WriteStringU8_0Terminated writes s followed by a single NUL byte.
func (w *Writer) WriteStringU8_0Terminated(s string) {
	w.buf.WriteString(s)
	w.buf.WriteByte(0)
}

// WriteSizedStringU8 writes a u16 byte-length prefix followed by s.
func (w *Writer) WriteSizedStringU8(s string) {
	w.WriteU16(uint16(len(s)))
	w.WriteStringU8(s)
}

// WriteSizedStringU16 writes a u16 prefix counting UTF-16 code units (the
// count ReadSizedStringU16 reads) followed by s as UTF-16LE.
func (w *Writer) WriteSizedStringU16(s string) {
	w.WriteU16(uint16(len(utf16.Encode([]rune(s)))))
	w.WriteStringU16(s)
}

// WriteOptionalStringU8 writes false+nothing for an empty string, or
// true+sized-string otherwise.
func (w *Writer) WriteOptionalStringU8(s string) {
	if s == "" {
		w.WriteBool(false)
		return
	}
	w.WriteBool(true)
	w.WriteSizedStringU8(s)
}

// WriteOptionalStringU16 writes false+nothing for an empty string, or
// true+sized-string otherwise.
func (w *Writer) WriteOptionalStringU16(s string) {
	if s == "" {
		w.WriteBool(false)
		return
	}
	w.WriteBool(true)
	w.WriteSizedStringU16(s)
}

// WriteStringColourRGB writes hexRGB (an "RRGGBB" hex string, case
// insensitive) as a 32-bit BGR0 colour.
func (w *Writer) WriteStringColourRGB(hexRGB string) error {
	if len(hexRGB) != 6 {
		return rerr.MismatchedSize(6, len(hexRGB))
	}
	var vals [3]byte
	for i := 0; i < 3; i++ {
		hi, ok1 := hexDigit(hexRGB[i*2])
		lo, ok2 := hexDigit(hexRGB[i*2+1])
		if !ok1 || !ok2 {
			return rerr.WrongFieldType("hex colour", hexRGB)
		}
		vals[i] = hi<<4 | lo
	}
	red, green, blue := vals[0], vals[1], vals[2]
	w.buf.Write([]byte{blue, green, red, 0})
	return nil
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	default:
		return 0, false
	}
}
