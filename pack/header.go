// Package pack implements the Pack archive container, spec.md §3.1/§4.4:
// an ordered mapping from container path to RFile backed by a fixed header,
// a pack-name table of dependency archives, and a file index, with lazy
// disk-backed entries mmapped in rather than eagerly read (grounded on the
// teacher's mmap-backed File in file.go, generalized from one fixed PE
// layout to the handful of versioned Pack wire layouts this format uses).
package pack

import "github.com/rpfm-go/rpfmcore/rerr"

// PFHVersion is the 4-byte magic selecting one of the Pack wire layouts.
type PFHVersion string

const (
	PFH6 PFHVersion = "PFH6"
	PFH5 PFHVersion = "PFH5"
	PFH4 PFHVersion = "PFH4"
	PFH3 PFHVersion = "PFH3"
	PFH2 PFHVersion = "PFH2"
	PFH0 PFHVersion = "PFH0"
)

func (v PFHVersion) valid() bool {
	switch v {
	case PFH6, PFH5, PFH4, PFH3, PFH2, PFH0:
		return true
	}
	return false
}

// PFHFileType is the Pack's type tag, controlling load precedence.
type PFHFileType uint32

const (
	FileTypeBoot PFHFileType = iota
	FileTypeRelease
	FileTypePatch
	FileTypeMod
	FileTypeMovie
	FileTypeOther
)

// Bitflags packed into the header's bitflags word.
const (
	FlagHasExtendedHeader uint32 = 1 << 0
	FlagHasIndexWithTimestamps uint32 = 1 << 2
	FlagHasEncryptedIndex uint32 = 1 << 3
	FlagHasEncryptedData uint32 = 1 << 4
	FlagHasCompressedData uint32 = 1 << 7
)

// Header is the fixed leading structure of every Pack wire layout
// (spec.md §4.4.1).
type Header struct {
	Version            PFHVersion
	FileType           PFHFileType
	Bitflags           uint32
	PackNameCount      uint32
	PackNameTableSize  uint32
	FileCount          uint32
	IndexSize          uint32
	Timestamp          uint32
	ExtendedHeaderData []byte // 4 or 20 extra bytes depending on version/flags
}

// HasCompressedData reports whether entries are individually compressed.
func (h Header) HasCompressedData() bool { return h.Bitflags&FlagHasCompressedData != 0 }

// HasIndexTimestamps reports whether index entries carry a per-file timestamp.
func (h Header) HasIndexTimestamps() bool { return h.Bitflags&FlagHasIndexWithTimestamps != 0 }

// HasEncryptedIndex/Data report whether decoders must treat those sections
// as encrypted; writers always refuse to produce encrypted output
// (spec.md §4.4.1, §9 open question 3).
func (h Header) HasEncryptedIndex() bool { return h.Bitflags&FlagHasEncryptedIndex != 0 }
func (h Header) HasEncryptedData() bool  { return h.Bitflags&FlagHasEncryptedData != 0 }

func validateVersion(v PFHVersion) error {
	if !v.valid() {
		return rerr.UnknownPfhVersion(string(v))
	}
	return nil
}

func validateFileType(t uint32) error {
	if t > uint32(FileTypeOther) {
		return rerr.UnknownPfhFileType(t)
	}
	return nil
}
