package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpfm-go/rpfmcore/pack"
	"github.com/rpfm-go/rpfmcore/rfile/loc"
	"github.com/rpfm-go/rpfmcore/rfile/misc"
	"github.com/rpfm-go/rpfmcore/rfile/table"
	"github.com/rpfm-go/rpfmcore/schema"
)

func testSchema() *schema.Schema {
	s := schema.New("test")
	s.AddDefinition("units_tables", schema.Definition{
		Version: 1,
		Fields: []schema.Field{
			{Name: "key", Kind: schema.KindStringU8, IsKey: true, Default: "default_key"},
			{Name: "name", Kind: schema.KindStringU8, Default: ""},
		},
	})
	return s
}

func buildPack(t *testing.T, s *schema.Schema) *pack.Pack {
	t.Helper()
	tbl := &table.Table{Name: "units_tables", Rows: []table.Row{
		{{Kind: schema.KindStringU8, Str: "unit_a"}, {Kind: schema.KindStringU8, Str: "Swordsman"}},
	}}
	buf, err := table.Encode(tbl, table.Options{Schema: s, TableNameHint: "units_tables"})
	require.NoError(t, err)

	p := pack.New(pack.PFH6, pack.FileTypeMod)
	p.Insert("db/units_tables/data__", buf)
	p.Insert("text/loc/campaign.loc", loc.Encode(&loc.Loc{Rows: []loc.Row{
		{Key: "unit_a_name", Value: "Swordsman"},
	}}))
	return p
}

func TestGlobalSearchFindsDBAndLocMatches(t *testing.T) {
	s := testSchema()
	p := buildPack(t, s)

	results, err := GlobalSearch(p, "swordsman", Options{Schema: s})
	require.NoError(t, err)
	require.Len(t, results, 2)

	byPath := map[string]FileResult{}
	for _, r := range results {
		byPath[r.Path] = r
	}

	dbResult, ok := byPath["db/units_tables/data__"]
	require.True(t, ok)
	require.Len(t, dbResult.Matches, 1)
	assert.Equal(t, "row:0,col:1", dbResult.Matches[0].Locator)
	assert.Equal(t, "Swordsman", dbResult.Matches[0].Text)

	locResult, ok := byPath["text/loc/campaign.loc"]
	require.True(t, ok)
	require.Len(t, locResult.Matches, 1)
	assert.Equal(t, "row:0,field:value", locResult.Matches[0].Locator)
}

func TestGlobalReplaceUpdatesDBCellInPlace(t *testing.T) {
	s := testSchema()
	p := buildPack(t, s)

	n, err := GlobalReplace(p, "Swordsman", "Hoplite", Options{Schema: s})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rf := p.Files["db/units_tables/data__"]
	raw, err := p.ReadFile(rf)
	require.NoError(t, err)
	decoded, err := table.Decode(raw, table.Options{Schema: s, TableNameHint: "units_tables"})
	require.NoError(t, err)
	assert.Equal(t, "Hoplite", decoded.Rows[0][1].Str)

	lrf := p.Files["text/loc/campaign.loc"]
	lraw, err := p.ReadFile(lrf)
	require.NoError(t, err)
	decodedLoc, err := loc.Decode(lraw)
	require.NoError(t, err)
	assert.Equal(t, "Hoplite", decodedLoc.Rows[0].Value)
}

func TestGlobalReplaceHonorsPathsSubset(t *testing.T) {
	s := testSchema()
	p := buildPack(t, s)

	n, err := GlobalReplace(p, "Swordsman", "Hoplite", Options{
		Schema:      s,
		PathsSubset: []string{"db/units_tables/data__"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	lrf := p.Files["text/loc/campaign.loc"]
	lraw, err := p.ReadFile(lrf)
	require.NoError(t, err)
	decodedLoc, err := loc.Decode(lraw)
	require.NoError(t, err)
	assert.Equal(t, "Swordsman", decodedLoc.Rows[0].Value)
}

func TestGlobalReplaceRigidModelRefusesRegex(t *testing.T) {
	p := pack.New(pack.PFH6, pack.FileTypeMod)
	m := &misc.RigidModel{Version: 7, Raw: []byte("mesh-payload-AAAA-tail")}
	original := misc.EncodeRigidModel(m)
	p.Insert("models/unit.rigid_model_v2", original)

	n, err := GlobalReplace(p, "AAAA", "BB", Options{UseRegex: true})
	require.Error(t, err)
	assert.Equal(t, 0, n)

	rf := p.Files["models/unit.rigid_model_v2"]
	raw, readErr := p.ReadFile(rf)
	require.NoError(t, readErr)
	assert.Equal(t, original, raw)
}

func TestGlobalReplaceRigidModelAppliesSameLengthPlainReplace(t *testing.T) {
	p := pack.New(pack.PFH6, pack.FileTypeMod)
	m := &misc.RigidModel{Version: 7, Raw: []byte("mesh-payload-AAAA-tail")}
	p.Insert("models/unit.rigid_model_v2", misc.EncodeRigidModel(m))

	n, err := GlobalReplace(p, "AAAA", "BBBB", Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rf := p.Files["models/unit.rigid_model_v2"]
	raw, err := p.ReadFile(rf)
	require.NoError(t, err)
	decoded, err := misc.DecodeRigidModel(raw)
	require.NoError(t, err)
	assert.Contains(t, string(decoded.Raw), "BBBB")
}
