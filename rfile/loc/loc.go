// Package loc implements the Loc (localisation) typed file codec of
// spec.md §4.3.2: a flat key/value/tooltip table with a fixed 2-byte magic,
// version byte, and row count header.
package loc

import (
	"sort"

	"github.com/rpfm-go/rpfmcore/binary"
	"github.com/rpfm-go/rpfmcore/rerr"
)

// magic is the fixed 2-byte Loc signature (spec.md §4.3.2).
var magic = [2]byte{0xFF, 0xFE}

const currentVersion = 1

// Row is one localisation entry.
type Row struct {
	Key     string
	Value   string
	Tooltip bool
}

// Loc is a decoded localisation file.
type Loc struct {
	Version int
	Rows    []Row
}

// Decode parses buf per spec.md §4.3.2.
func Decode(buf []byte) (*Loc, error) {
	r := binary.NewReader(buf)

	sig, err := r.ReadSlice(2)
	if err != nil {
		return nil, err
	}
	if [2]byte(sig) != magic {
		return nil, rerr.NotALocTable()
	}

	version, err := r.ReadU8()
	if err != nil {
		return nil, err
	}

	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, count)
	for i := uint32(0); i < count; i++ {
		key, err := r.ReadSizedStringU16()
		if err != nil {
			return nil, rerr.DecodeFieldError(int(i), 0, "key", err)
		}
		value, err := r.ReadSizedStringU16()
		if err != nil {
			return nil, rerr.DecodeFieldError(int(i), 1, "value", err)
		}
		tooltip, err := r.ReadBool()
		if err != nil {
			return nil, rerr.DecodeFieldError(int(i), 2, "tooltip", err)
		}
		rows = append(rows, Row{Key: key, Value: value, Tooltip: tooltip})
	}

	return &Loc{Version: int(version), Rows: rows}, nil
}

// Encode writes l back to its wire form.
func Encode(l *Loc) []byte {
	w := binary.NewWriter()
	w.WriteSlice(magic[:])
	version := l.Version
	if version == 0 {
		version = currentVersion
	}
	w.WriteU8(uint8(version))
	w.WriteU32(uint32(len(l.Rows)))
	for _, row := range l.Rows {
		w.WriteSizedStringU16(row.Key)
		w.WriteSizedStringU16(row.Value)
		w.WriteBool(row.Tooltip)
	}
	return w.Bytes()
}

// Merge sorts rows from every input Loc by key and deduplicates on key,
// last occurrence wins — the helper translation tools use (spec.md
// §4.3.2).
func Merge(locs []*Loc) *Loc {
	byKey := map[string]Row{}
	var order []string
	for _, l := range locs {
		for _, row := range l.Rows {
			if _, seen := byKey[row.Key]; !seen {
				order = append(order, row.Key)
			}
			byKey[row.Key] = row
		}
	}
	sort.Strings(order)
	out := &Loc{Version: currentVersion}
	for _, k := range order {
		out.Rows = append(out.Rows, byKey[k])
	}
	return out
}
