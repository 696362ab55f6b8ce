package misc

import "github.com/rpfm-go/rpfmcore/rerr"

// Opaque wraps a typed file the core never interprets beyond holding its
// bytes: sound banks, video, images, and compiled shader blobs all decode
// and encode as a no-op identity (spec.md §4.3.6 — "each specified by their
// wire layout and exposed with the same decode/encode contract", but these
// four have no fields the core reads or writes).
type Opaque struct {
	Raw []byte
}

// DecodeOpaque wraps buf without copying or interpreting it.
func DecodeOpaque(buf []byte) (*Opaque, error) {
	return &Opaque{Raw: buf}, nil
}

// EncodeOpaque returns the wrapped bytes unchanged.
func EncodeOpaque(o *Opaque) []byte {
	return o.Raw
}

// Replace refuses regex and length-changing replacements: an opaque blob has
// no string boundaries the core understands (spec.md §7 scenario 9's
// reasoning extended to every binary format with no decoded text fields).
// A plain same-length pattern is accepted; Replace itself changes no bytes.
func (o *Opaque) Replace(pattern, replacement string, useRegex bool) error {
	if useRegex || len(replacement) != len(pattern) {
		return rerr.GlobalReplaceRequiresSameLengthAndNotRegex()
	}
	return nil
}

// SoundBank is the wire-format wrapper for .bank audio bank files.
type SoundBank = Opaque

// Video is the wire-format wrapper for .ca_vp8 files.
type Video = Opaque

// Image is the wire-format wrapper for raster image files.
type Image = Opaque

// HlslCompiled is the wire-format wrapper for compiled shader blobs.
type HlslCompiled = Opaque

// DecodeSoundBank, DecodeVideo, DecodeImage and DecodeHlslCompiled all share
// Opaque's identity decode, keeping one named entry point per catalogue
// type (spec.md §6's "for every type in §4.3, expose file_type/decode/encode").
var (
	DecodeSoundBank     = DecodeOpaque
	DecodeVideo         = DecodeOpaque
	DecodeImage         = DecodeOpaque
	DecodeHlslCompiled  = DecodeOpaque
	EncodeSoundBank     = EncodeOpaque
	EncodeVideo         = EncodeOpaque
	EncodeImage         = EncodeOpaque
	EncodeHlslCompiled  = EncodeOpaque
)
