// Package animfrag implements the battle animation fragment typed file
// codec, spec.md §4.3.5.
package animfrag

import (
	"github.com/rpfm-go/rpfmcore/binary"
)

// AnimRefs is the inner file-path triple carried by each fragment entry.
type AnimRefs struct {
	FilePath     string
	MetaFilePath string
	SndFilePath  string
}

// Entry is one animation fragment row.
type Entry struct {
	Filename      string
	Metadata      string
	MetadataSound string
	SkeletonType  string
	Uk4           uint32
	AnimRefs      []AnimRefs
}

// File is a decoded animation fragment container.
type File struct {
	Version            int32
	SkeletonName        string
	TableName            string
	MountTableName       string
	UnmountTableName     string
	LocomotionGraph      string
	Entries              []Entry
}

func decodeAnimRefs(r *binary.Reader) (AnimRefs, error) {
	var a AnimRefs
	var err error
	if a.FilePath, err = r.ReadSizedStringU8(); err != nil {
		return a, err
	}
	if a.MetaFilePath, err = r.ReadSizedStringU8(); err != nil {
		return a, err
	}
	a.SndFilePath, err = r.ReadSizedStringU8()
	return a, err
}

func encodeAnimRefs(w *binary.Writer, a AnimRefs) {
	w.WriteSizedStringU8(a.FilePath)
	w.WriteSizedStringU8(a.MetaFilePath)
	w.WriteSizedStringU8(a.SndFilePath)
}

// Decode parses buf into a File.
func Decode(buf []byte) (*File, error) {
	r := binary.NewReader(buf)
	f := &File{}
	var err error

	if f.Version, err = r.ReadI32(); err != nil {
		return nil, err
	}
	if f.SkeletonName, err = r.ReadSizedStringU8(); err != nil {
		return nil, err
	}
	if f.TableName, err = r.ReadSizedStringU8(); err != nil {
		return nil, err
	}
	if f.MountTableName, err = r.ReadSizedStringU8(); err != nil {
		return nil, err
	}
	if f.UnmountTableName, err = r.ReadSizedStringU8(); err != nil {
		return nil, err
	}
	if f.LocomotionGraph, err = r.ReadSizedStringU8(); err != nil {
		return nil, err
	}

	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	for i := uint32(0); i < count; i++ {
		var e Entry
		if e.Filename, err = r.ReadSizedStringU8(); err != nil {
			return nil, err
		}
		if e.Metadata, err = r.ReadSizedStringU8(); err != nil {
			return nil, err
		}
		if e.MetadataSound, err = r.ReadSizedStringU8(); err != nil {
			return nil, err
		}
		if e.SkeletonType, err = r.ReadSizedStringU8(); err != nil {
			return nil, err
		}
		if e.Uk4, err = r.ReadU32(); err != nil {
			return nil, err
		}
		refCount, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		for rn := uint32(0); rn < refCount; rn++ {
			ref, err := decodeAnimRefs(r)
			if err != nil {
				return nil, err
			}
			e.AnimRefs = append(e.AnimRefs, ref)
		}
		f.Entries = append(f.Entries, e)
	}
	return f, nil
}

// Encode serializes f back to bytes.
func Encode(f *File) []byte {
	w := binary.NewWriter()
	w.WriteI32(f.Version)
	w.WriteSizedStringU8(f.SkeletonName)
	w.WriteSizedStringU8(f.TableName)
	w.WriteSizedStringU8(f.MountTableName)
	w.WriteSizedStringU8(f.UnmountTableName)
	w.WriteSizedStringU8(f.LocomotionGraph)
	w.WriteU32(uint32(len(f.Entries)))
	for _, e := range f.Entries {
		w.WriteSizedStringU8(e.Filename)
		w.WriteSizedStringU8(e.Metadata)
		w.WriteSizedStringU8(e.MetadataSound)
		w.WriteSizedStringU8(e.SkeletonType)
		w.WriteU32(e.Uk4)
		w.WriteU32(uint32(len(e.AnimRefs)))
		for _, ref := range e.AnimRefs {
			encodeAnimRefs(w, ref)
		}
	}
	return w.Bytes()
}
