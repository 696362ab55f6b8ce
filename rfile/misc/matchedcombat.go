package misc

import "github.com/rpfm-go/rpfmcore/binary"

// MatchedCombatEntry pairs two animation fragment names used together in a
// scripted combat sequence.
type MatchedCombatEntry struct {
	Attacker string
	Defender string
}

// MatchedCombat is the table under matched_combat/*.bin.
type MatchedCombat struct {
	Version uint32
	Entries []MatchedCombatEntry
}

// DecodeMatchedCombat parses buf.
func DecodeMatchedCombat(buf []byte) (*MatchedCombat, error) {
	r := binary.NewReader(buf)
	version, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	mc := &MatchedCombat{Version: version}
	for i := uint32(0); i < count; i++ {
		attacker, err := r.ReadSizedStringU8()
		if err != nil {
			return nil, err
		}
		defender, err := r.ReadSizedStringU8()
		if err != nil {
			return nil, err
		}
		mc.Entries = append(mc.Entries, MatchedCombatEntry{Attacker: attacker, Defender: defender})
	}
	return mc, nil
}

// EncodeMatchedCombat serializes mc back to bytes.
func EncodeMatchedCombat(mc *MatchedCombat) []byte {
	w := binary.NewWriter()
	w.WriteU32(mc.Version)
	w.WriteU32(uint32(len(mc.Entries)))
	for _, e := range mc.Entries {
		w.WriteSizedStringU8(e.Attacker)
		w.WriteSizedStringU8(e.Defender)
	}
	return w.Bytes()
}
