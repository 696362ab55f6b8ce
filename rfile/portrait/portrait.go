// Package portrait implements the portrait settings typed file codec,
// spec.md §4.3.4: a versioned list of entries, each carrying camera
// settings and an ordered list of texture variants.
package portrait

import (
	"path"
	"strings"

	"github.com/rpfm-go/rpfmcore/binary"
)

// emptyMaskSentinel is the file name the game treats as "no mask present"
// (spec.md §4.3.4); the optimiser clears mask fields that match it.
const emptyMaskSentinel = "empty_mask.png"

// Camera is the shared shape of head- and body-camera settings.
type Camera struct {
	Distance float32
	Theta    float32
	Phi      float32
	FOV      float32
}

// Variant is one texture set an entry can render with.
type Variant struct {
	Filename   string
	FileDiffuse string
	FileMask1  string
	FileMask2  string
	FileMask3  string
}

// Entry is one portrait settings row.
type Entry struct {
	ID          string
	HeadCamera  Camera
	HasBody     bool
	BodyCamera  Camera
	Variants    []Variant
}

// File is a decoded portrait settings container.
type File struct {
	Version int32
	Entries []Entry
}

func decodeCamera(r *binary.Reader) (Camera, error) {
	var c Camera
	var err error
	if c.Distance, err = r.ReadF32(); err != nil {
		return c, err
	}
	if c.Theta, err = r.ReadF32(); err != nil {
		return c, err
	}
	if c.Phi, err = r.ReadF32(); err != nil {
		return c, err
	}
	c.FOV, err = r.ReadF32()
	return c, err
}

func encodeCamera(w *binary.Writer, c Camera) {
	w.WriteF32(c.Distance)
	w.WriteF32(c.Theta)
	w.WriteF32(c.Phi)
	w.WriteF32(c.FOV)
}

func decodeVariant(r *binary.Reader) (Variant, error) {
	var v Variant
	var err error
	if v.Filename, err = r.ReadSizedStringU8(); err != nil {
		return v, err
	}
	if v.FileDiffuse, err = r.ReadSizedStringU8(); err != nil {
		return v, err
	}
	if v.FileMask1, err = r.ReadSizedStringU8(); err != nil {
		return v, err
	}
	if v.FileMask2, err = r.ReadSizedStringU8(); err != nil {
		return v, err
	}
	v.FileMask3, err = r.ReadSizedStringU8()
	return v, err
}

func encodeVariant(w *binary.Writer, v Variant) {
	w.WriteSizedStringU8(v.Filename)
	w.WriteSizedStringU8(v.FileDiffuse)
	w.WriteSizedStringU8(v.FileMask1)
	w.WriteSizedStringU8(v.FileMask2)
	w.WriteSizedStringU8(v.FileMask3)
}

// Decode parses buf into a portrait settings File.
func Decode(buf []byte) (*File, error) {
	r := binary.NewReader(buf)
	version, err := r.ReadI32()
	if err != nil {
		return nil, err
	}
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}

	f := &File{Version: version}
	for i := uint32(0); i < count; i++ {
		var e Entry
		if e.ID, err = r.ReadSizedStringU8(); err != nil {
			return nil, err
		}
		if e.HeadCamera, err = decodeCamera(r); err != nil {
			return nil, err
		}
		if e.HasBody, err = r.ReadBool(); err != nil {
			return nil, err
		}
		if e.HasBody {
			if e.BodyCamera, err = decodeCamera(r); err != nil {
				return nil, err
			}
		}
		variantCount, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		for v := uint32(0); v < variantCount; v++ {
			variant, err := decodeVariant(r)
			if err != nil {
				return nil, err
			}
			e.Variants = append(e.Variants, variant)
		}
		f.Entries = append(f.Entries, e)
	}
	return f, nil
}

// Encode serializes f back to bytes.
func Encode(f *File) []byte {
	w := binary.NewWriter()
	w.WriteI32(f.Version)
	w.WriteU32(uint32(len(f.Entries)))
	for _, e := range f.Entries {
		w.WriteSizedStringU8(e.ID)
		encodeCamera(w, e.HeadCamera)
		w.WriteBool(e.HasBody)
		if e.HasBody {
			encodeCamera(w, e.BodyCamera)
		}
		w.WriteU32(uint32(len(e.Variants)))
		for _, v := range e.Variants {
			encodeVariant(w, v)
		}
	}
	return w.Bytes()
}

// ClearEmptyMasks sets to "" any variant mask path whose file name is the
// sentinel the game treats as absent (compared case-insensitively, in any
// directory), per spec.md §4.3.4. Returns how many fields were cleared, for
// the optimiser's change count.
func ClearEmptyMasks(f *File) int {
	isEmpty := func(p string) bool {
		return strings.EqualFold(path.Base(strings.ReplaceAll(p, "\\", "/")), emptyMaskSentinel)
	}
	cleared := 0
	for ei := range f.Entries {
		variants := f.Entries[ei].Variants
		for vi := range variants {
			if isEmpty(variants[vi].FileMask1) {
				variants[vi].FileMask1 = ""
				cleared++
			}
			if isEmpty(variants[vi].FileMask2) {
				variants[vi].FileMask2 = ""
				cleared++
			}
			if isEmpty(variants[vi].FileMask3) {
				variants[vi].FileMask3 = ""
				cleared++
			}
		}
	}
	return cleared
}
