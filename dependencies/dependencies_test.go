package dependencies

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpfm-go/rpfmcore/pack"
	"github.com/rpfm-go/rpfmcore/rfile/table"
	"github.com/rpfm-go/rpfmcore/schema"
)

func testSchema() *schema.Schema {
	s := schema.New("test")
	s.AddDefinition("land_units_tables", schema.Definition{
		Version: 1,
		Fields: []schema.Field{
			{Name: "key", Kind: schema.KindStringU8, IsKey: true},
			{Name: "onscreen_name", Kind: schema.KindStringU8},
		},
	})
	s.AddDefinition("units_tables", schema.Definition{
		Version: 1,
		Fields: []schema.Field{
			{Name: "key", Kind: schema.KindStringU8, IsKey: true},
			{
				Name:      "unit",
				Kind:      schema.KindStringU8,
				Reference: &schema.Reference{Table: "land_units_tables", Column: "key"},
				Lookup:    []string{"onscreen_name"},
			},
		},
	})
	return s
}

func writePack(t *testing.T, s *schema.Schema) string {
	t.Helper()

	landUnits := &table.Table{
		Name: "land_units_tables",
		Rows: []table.Row{
			{
				{Kind: schema.KindStringU8, Str: "swordsmen"},
				{Kind: schema.KindStringU8, Str: "Swordsmen"},
			},
		},
	}
	buf, err := table.Encode(landUnits, table.Options{Schema: s, TableNameHint: "land_units_tables"})
	require.NoError(t, err)

	p := pack.New(pack.PFH6, pack.FileTypeMod)
	p.Insert("db/land_units_tables/data__", buf)

	encoded, err := p.Encode()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "base.pack")
	require.NoError(t, os.WriteFile(path, encoded, 0o644))
	return path
}

func TestRebuildPopulatesDBDataAndLookups(t *testing.T) {
	s := testSchema()
	base := writePack(t, s)

	d := New()
	err := d.Rebuild(GameInfo{Key: "test", BaseArchivePaths: []string{base}}, nil, s)
	require.NoError(t, err)

	assert.True(t, d.IsVanillaDataLoaded())
	assert.True(t, d.FileExists("db/land_units_tables/data__", true, false))

	lookups := d.DBValuesFromTableNameAndColumnName("land_units_tables", "key")
	require.NotNil(t, lookups)
	assert.Equal(t, "Swordsmen", lookups["swordsmen"])
}

func TestFileNotFoundReturnsError(t *testing.T) {
	d := New()
	_, err := d.File("db/missing/data")
	assert.Error(t, err)
}

func TestTipsAddAndDelete(t *testing.T) {
	tips := NewTips()
	tips.Add(Tip{ID: 1, Message: "note one", Path: "db/land_units_tables/data__"})
	tips.Add(Tip{ID: 2, Message: "note two", Path: "db/land_units_tables/data__"})

	assert.Len(t, tips.ForPath("db/land_units_tables/data__"), 2)

	tips.DeleteByID(1)
	forPath := tips.ForPath("db/land_units_tables/data__")
	require.Len(t, forPath, 1)
	assert.Equal(t, "note two", forPath[0].Message)
}

func TestTipsSaveLoadRoundTrip(t *testing.T) {
	tips := NewTips()
	tips.Add(Tip{ID: 7, Message: "hello", Path: "loc/text.loc"})

	path := filepath.Join(t.TempDir(), "tips.json")
	require.NoError(t, tips.Save(path))

	loaded, err := LoadTips(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", loaded.ForPath("loc/text.loc")[0].Message)
}

func TestLoadTipsMissingFileReturnsEmpty(t *testing.T) {
	loaded, err := LoadTips(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Empty(t, loaded.ByPath)
}
