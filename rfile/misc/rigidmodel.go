// Package misc implements the smaller typed file codecs of spec.md §4.3.6:
// rigid model, matched combat, anims table, unit variant, atlas, audio,
// video, text, image and compiled-shader files. Most of these carry either
// an opaque binary payload the core passes through untouched, or a thin
// wire header around one; the distinguishing behaviour lives in how each
// refuses or allows search/replace (spec.md §4.3.7, §7 scenario 9).
package misc

import (
	"github.com/rpfm-go/rpfmcore/binary"
	"github.com/rpfm-go/rpfmcore/rerr"
)

// RigidModel is a 3D model file. The core does not interpret the mesh
// payload; it is carried as an opaque blob so re-encoding is byte-exact.
type RigidModel struct {
	Version uint32
	Raw     []byte
}

// DecodeRigidModel reads the version tag and keeps the remainder opaque.
func DecodeRigidModel(buf []byte) (*RigidModel, error) {
	r := binary.NewReader(buf)
	version, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	rest, err := r.ReadSlice(r.Remaining())
	if err != nil {
		return nil, err
	}
	return &RigidModel{Version: version, Raw: rest}, nil
}

// EncodeRigidModel reassembles the version tag and opaque payload.
func EncodeRigidModel(m *RigidModel) []byte {
	w := binary.NewWriter()
	w.WriteU32(m.Version)
	w.WriteSlice(m.Raw)
	return w.Bytes()
}

// Replace refuses regex and length-changing replacements on RigidModel: its
// fixed-width binary fields have no text boundaries the core understands, so
// neither is safe (spec.md §7 scenario 9). A plain same-length pattern is
// accepted; Replace itself changes no bytes.
func (m *RigidModel) Replace(pattern, replacement string, useRegex bool) error {
	if useRegex {
		return rerr.GlobalReplaceRequiresSameLengthAndNotRegex()
	}
	if len(replacement) != len(pattern) {
		return rerr.GlobalReplaceRequiresSameLengthAndNotRegex()
	}
	return nil
}
