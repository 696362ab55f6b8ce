package misc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRigidModelRoundTrip(t *testing.T) {
	m := &RigidModel{Version: 7, Raw: []byte{1, 2, 3, 4}}
	decoded, err := DecodeRigidModel(EncodeRigidModel(m))
	require.NoError(t, err)
	assert.Equal(t, m, decoded)
}

func TestRigidModelReplaceRefusesRegex(t *testing.T) {
	m := &RigidModel{}
	err := m.Replace("foo", "bar", true)
	require.Error(t, err)
}

func TestRigidModelReplaceRefusesLengthChange(t *testing.T) {
	m := &RigidModel{}
	err := m.Replace("foo", "longer_bar", false)
	require.Error(t, err)
}

func TestRigidModelReplaceAllowsSameLengthPlain(t *testing.T) {
	m := &RigidModel{}
	err := m.Replace("foo", "bar", false)
	require.NoError(t, err)
}

func TestSoundEventsRoundTrip(t *testing.T) {
	se := &SoundEvents{Version: 1, Events: []SoundEvent{{Name: "battle_cry", ID: 42}}}
	decoded, err := DecodeSoundEvents(EncodeSoundEvents(se))
	require.NoError(t, err)
	assert.Equal(t, se, decoded)
}

func TestMatchedCombatRoundTrip(t *testing.T) {
	mc := &MatchedCombat{Version: 1, Entries: []MatchedCombatEntry{{Attacker: "a.frg", Defender: "b.frg"}}}
	decoded, err := DecodeMatchedCombat(EncodeMatchedCombat(mc))
	require.NoError(t, err)
	assert.Equal(t, mc, decoded)
}

func TestAnimsTableRoundTrip(t *testing.T) {
	at := &AnimsTable{Version: 2, Entries: []AnimsTableEntry{{Skeleton: "hu1", Anim: "walk.anim", Fragment: "walk.frg", Uk1: true}}}
	decoded, err := DecodeAnimsTable(EncodeAnimsTable(at))
	require.NoError(t, err)
	assert.Equal(t, at, decoded)
}

func TestAnimsTableRejectsFutureVersion(t *testing.T) {
	buf := []byte{99, 0, 0, 0, 0, 0, 0, 0}
	_, err := DecodeAnimsTable(buf)
	require.Error(t, err)
}

func TestUnitVariantRoundTrip(t *testing.T) {
	uv := &UnitVariant{
		Version: 1, ID: "wh_main_inf_halberdiers_0",
		Categories: []UnitVariantCategory{
			{Name: "head", Meshes: []UnitVariantMesh{{Name: "helmet", File: "helmet.rigid_model_v2", Attach: "bone_head"}}},
		},
	}
	decoded, err := DecodeUnitVariant(EncodeUnitVariant(uv))
	require.NoError(t, err)
	assert.Equal(t, uv, decoded)
}

func TestAtlasRoundTrip(t *testing.T) {
	a := &Atlas{Version: 1, Texture: "ui/atlas.png", Sprites: []AtlasSprite{{Name: "icon_sword", X: 0, Y: 0, Width: 32, Height: 32}}}
	decoded, err := DecodeAtlas(EncodeAtlas(a))
	require.NoError(t, err)
	assert.Equal(t, a, decoded)
}

func TestOpaqueRoundTrip(t *testing.T) {
	o, err := DecodeOpaque([]byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, EncodeOpaque(o))
}

func TestTextSearchReplace(t *testing.T) {
	text := &Text{Contents: "unit count = 10; unit name = foo"}
	matches, err := text.Search("unit", true, false)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	n := text.Replace(matches, "squad")
	assert.Equal(t, 2, n)
	assert.Equal(t, "squad count = 10; squad name = foo", text.Contents)
}

func TestAnimPackRoundTrip(t *testing.T) {
	ap := &AnimPack{Entries: []AnimPackEntry{{Path: "anims/walk.anim", Data: []byte{9, 9, 9}}}}
	decoded, err := DecodeAnimPack(EncodeAnimPack(ap))
	require.NoError(t, err)
	assert.Equal(t, ap, decoded)
}
