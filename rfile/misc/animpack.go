package misc

import "github.com/rpfm-go/rpfmcore/binary"

// AnimPackEntry is one file carried inside an .anim.pack bundle.
type AnimPackEntry struct {
	Path string
	Data []byte
}

// AnimPack is the nested container format under *.anim.pack: a flat list of
// named animation-related files, distinct from the full Pack container
// (spec.md §4.3.6) in that it carries no dependency or header metadata.
type AnimPack struct {
	Entries []AnimPackEntry
}

// DecodeAnimPack parses buf.
func DecodeAnimPack(buf []byte) (*AnimPack, error) {
	r := binary.NewReader(buf)
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	ap := &AnimPack{}
	for i := uint32(0); i < count; i++ {
		p, err := r.ReadSizedStringU8()
		if err != nil {
			return nil, err
		}
		size, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		data, err := r.ReadSlice(int(size))
		if err != nil {
			return nil, err
		}
		ap.Entries = append(ap.Entries, AnimPackEntry{Path: p, Data: data})
	}
	return ap, nil
}

// EncodeAnimPack serializes ap back to bytes.
func EncodeAnimPack(ap *AnimPack) []byte {
	w := binary.NewWriter()
	w.WriteU32(uint32(len(ap.Entries)))
	for _, e := range ap.Entries {
		w.WriteSizedStringU8(e.Path)
		w.WriteU32(uint32(len(e.Data)))
		w.WriteSlice(e.Data)
	}
	return w.Bytes()
}
