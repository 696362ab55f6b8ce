package pack

import "github.com/rpfm-go/rpfmcore/rfile"

// Storage is the tagged union of where an RFile's bytes currently live
// (spec.md §3.2): still on disk behind the Pack's reader, pulled into
// memory raw, or decoded into a typed value.
type Storage struct {
	Kind StorageKind

	OnDisk   OnDiskStorage
	Cached   []byte
	Decoded  *rfile.Decoded
}

// StorageKind discriminates Storage.
type StorageKind int

const (
	StorageOnDisk StorageKind = iota
	StorageCached
	StorageDecoded
)

// OnDiskStorage is a stable offset/length pair into the Pack's backing
// reader (spec.md §4.4.3: "Lazy entries hold a stable offset/length pair
// for the lifetime of the backing reader").
type OnDiskStorage struct {
	Offset       int64
	Length       int64
	IsCompressed bool
	IsEncrypted  bool
}

// RFile is one entry in a Pack: a path, its derived or overridden file
// type, an optional timestamp, and its current storage (spec.md §3.2).
type RFile struct {
	Path      string
	FileType  rfile.FileType
	Timestamp uint32
	Storage   Storage
}
