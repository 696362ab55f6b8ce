package misc

import (
	"github.com/rpfm-go/rpfmcore/binary"
	"github.com/rpfm-go/rpfmcore/rerr"
)

// AnimsTableEntry binds one animation/fragment pair to a skeleton.
type AnimsTableEntry struct {
	Skeleton string
	Anim     string
	Fragment string
	Uk1      bool
}

// AnimsTable is the single file at
// animations/animation_tables/animation_tables.bin.
type AnimsTable struct {
	Version uint32
	Entries []AnimsTableEntry
}

const animsTableMaxSupportedVersion = 3

// DecodeAnimsTable parses buf.
func DecodeAnimsTable(buf []byte) (*AnimsTable, error) {
	r := binary.NewReader(buf)
	version, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if version > animsTableMaxSupportedVersion {
		return nil, rerr.AnimsTableUnknownVersion(int(version))
	}
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	at := &AnimsTable{Version: version}
	for i := uint32(0); i < count; i++ {
		var e AnimsTableEntry
		if e.Skeleton, err = r.ReadSizedStringU8(); err != nil {
			return nil, err
		}
		if e.Anim, err = r.ReadSizedStringU8(); err != nil {
			return nil, err
		}
		if e.Fragment, err = r.ReadSizedStringU8(); err != nil {
			return nil, err
		}
		if e.Uk1, err = r.ReadBool(); err != nil {
			return nil, err
		}
		at.Entries = append(at.Entries, e)
	}
	return at, nil
}

// EncodeAnimsTable serializes at back to bytes.
func EncodeAnimsTable(at *AnimsTable) []byte {
	w := binary.NewWriter()
	w.WriteU32(at.Version)
	w.WriteU32(uint32(len(at.Entries)))
	for _, e := range at.Entries {
		w.WriteSizedStringU8(e.Skeleton)
		w.WriteSizedStringU8(e.Anim)
		w.WriteSizedStringU8(e.Fragment)
		w.WriteBool(e.Uk1)
	}
	return w.Bytes()
}
