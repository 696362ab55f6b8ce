package optimizer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpfm-go/rpfmcore/dependencies"
	"github.com/rpfm-go/rpfmcore/pack"
	"github.com/rpfm-go/rpfmcore/rfile/loc"
	"github.com/rpfm-go/rpfmcore/rfile/table"
	"github.com/rpfm-go/rpfmcore/schema"
)

func testSchema() *schema.Schema {
	s := schema.New("test")
	s.AddDefinition("units_tables", schema.Definition{
		Version: 1,
		Fields: []schema.Field{
			{Name: "key", Kind: schema.KindStringU8, IsKey: true, Default: "default_key"},
			{Name: "cost", Kind: schema.KindI32, Default: "0"},
		},
	})
	return s
}

func TestOptimizeRemovesDuplicateAndNewRows(t *testing.T) {
	s := testSchema()
	rows := []table.Row{
		{{Kind: schema.KindStringU8, Str: "unit_a"}, {Kind: schema.KindI32, Int: 10}},
		{{Kind: schema.KindStringU8, Str: "unit_a"}, {Kind: schema.KindI32, Int: 10}},
		{{Kind: schema.KindStringU8, Str: "default_key"}, {Kind: schema.KindI32, Int: 0}},
	}
	tbl := &table.Table{Name: "units_tables", Rows: rows}
	buf, err := table.Encode(tbl, table.Options{Schema: s, TableNameHint: "units_tables"})
	require.NoError(t, err)

	p := pack.New(pack.PFH6, pack.FileTypeMod)
	p.Insert("db/units_tables/data__", buf)

	_, err = Optimize(p, nil, nil, s, Options{RemoveDuplicateRows: true, RemoveITNR: true})
	require.NoError(t, err)

	rf := p.Files["db/units_tables/data__"]
	raw, err := p.ReadFile(rf)
	require.NoError(t, err)
	decoded, err := table.Decode(raw, table.Options{Schema: s, TableNameHint: "units_tables"})
	require.NoError(t, err)
	assert.Len(t, decoded.Rows, 1)
	assert.Equal(t, "unit_a", decoded.Rows[0][0].Str)
}

func TestOptimizeRemovesEmptyFileEntirely(t *testing.T) {
	s := testSchema()
	rows := []table.Row{
		{{Kind: schema.KindStringU8, Str: "default_key"}, {Kind: schema.KindI32, Int: 0}},
	}
	tbl := &table.Table{Name: "units_tables", Rows: rows}
	buf, err := table.Encode(tbl, table.Options{Schema: s, TableNameHint: "units_tables"})
	require.NoError(t, err)

	p := pack.New(pack.PFH6, pack.FileTypeMod)
	p.Insert("db/units_tables/data__", buf)

	removed, err := Optimize(p, nil, nil, s, Options{RemoveITNR: true, RemoveEmptyFiles: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"db/units_tables/data__"}, removed)
	_, ok := p.Files["db/units_tables/data__"]
	assert.False(t, ok)
}

func TestOptimizeSkipsDatacoredTableByDefault(t *testing.T) {
	s := testSchema()
	rows := []table.Row{
		{{Kind: schema.KindStringU8, Str: "default_key"}, {Kind: schema.KindI32, Int: 0}},
	}
	tbl := &table.Table{Name: "units_tables", Rows: rows}
	buf, err := table.Encode(tbl, table.Options{Schema: s, TableNameHint: "units_tables"})
	require.NoError(t, err)

	p := pack.New(pack.PFH6, pack.FileTypeMod)
	p.Insert("db/units_tables/data__", buf)

	base := pack.New(pack.PFH6, pack.FileTypeMod)
	base.Insert("db/units_tables/data__", buf)
	baseBuf, err := base.Encode()
	require.NoError(t, err)
	basePath := filepath.Join(t.TempDir(), "base.pack")
	require.NoError(t, os.WriteFile(basePath, baseBuf, 0o644))

	d := dependencies.New()
	require.NoError(t, d.Rebuild(dependencies.GameInfo{Key: "test", BaseArchivePaths: []string{basePath}}, nil, s))

	removed, err := Optimize(p, nil, d, s, Options{RemoveITNR: true, RemoveEmptyFiles: true})
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestOptimizeRemovesITMLocRows(t *testing.T) {
	s := testSchema()

	baseBuf := loc.Encode(&loc.Loc{Rows: []loc.Row{{Key: "k", Value: "v"}}})
	base := pack.New(pack.PFH6, pack.FileTypeMod)
	base.Insert("text/db.loc", baseBuf)
	baseEncoded, err := base.Encode()
	require.NoError(t, err)
	basePath := filepath.Join(t.TempDir(), "base.pack")
	require.NoError(t, os.WriteFile(basePath, baseEncoded, 0o644))

	d := dependencies.New()
	require.NoError(t, d.Rebuild(dependencies.GameInfo{Key: "test", BaseArchivePaths: []string{basePath}}, nil, s))

	modBuf := loc.Encode(&loc.Loc{Rows: []loc.Row{
		{Key: "k", Value: "v"},
		{Key: "k2", Value: "v2"},
	}})
	p := pack.New(pack.PFH6, pack.FileTypeMod)
	p.Insert("text/mymod.loc", modBuf)

	_, err = Optimize(p, nil, d, s, Options{RemoveITM: true})
	require.NoError(t, err)

	rf := p.Files["text/mymod.loc"]
	raw, err := p.ReadFile(rf)
	require.NoError(t, err)
	decoded, err := loc.Decode(raw)
	require.NoError(t, err)
	require.Len(t, decoded.Rows, 1)
	assert.Equal(t, "k2", decoded.Rows[0].Key)
	assert.Equal(t, "v2", decoded.Rows[0].Value)
}

func TestRemoveTextByproductsDropsSiblingXML(t *testing.T) {
	p := pack.New(pack.PFH6, pack.FileTypeMod)
	p.Insert("terrain/tiles/battle/map.bin", []byte("x"))
	p.Insert("terrain/tiles/battle/map.xml", []byte("<x/>"))
	p.Insert("terrain/tiles/battle/unrelated.xml", []byte("<y/>"))

	removed, err := Optimize(p, nil, nil, nil, Options{RemoveTextByproducts: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"terrain/tiles/battle/map.xml"}, removed)
	_, ok := p.Files["terrain/tiles/battle/unrelated.xml"]
	assert.True(t, ok)
}
