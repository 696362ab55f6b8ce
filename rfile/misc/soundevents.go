package misc

import "github.com/rpfm-go/rpfmcore/binary"

// SoundEvent maps one named audio event to the numeric id audio banks
// reference it by.
type SoundEvent struct {
	Name string
	ID   uint32
}

// SoundEvents is a flat keyed table of event name to numeric id (a
// supplemented feature, not in the distilled spec — audio banks resolve
// events through it, but it carries no cross-table references of its own).
type SoundEvents struct {
	Version uint32
	Events  []SoundEvent
}

// DecodeSoundEvents parses buf into a SoundEvents table.
func DecodeSoundEvents(buf []byte) (*SoundEvents, error) {
	r := binary.NewReader(buf)
	version, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	se := &SoundEvents{Version: version}
	for i := uint32(0); i < count; i++ {
		name, err := r.ReadSizedStringU8()
		if err != nil {
			return nil, err
		}
		id, err := r.ReadU32()
		if err != nil {
			return nil, err
		}
		se.Events = append(se.Events, SoundEvent{Name: name, ID: id})
	}
	return se, nil
}

// EncodeSoundEvents serializes se back to bytes.
func EncodeSoundEvents(se *SoundEvents) []byte {
	w := binary.NewWriter()
	w.WriteU32(se.Version)
	w.WriteU32(uint32(len(se.Events)))
	for _, e := range se.Events {
		w.WriteSizedStringU8(e.Name)
		w.WriteU32(e.ID)
	}
	return w.Bytes()
}
