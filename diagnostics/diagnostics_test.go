package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpfm-go/rpfmcore/pack"
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

func buildPack(t *testing.T, s *schema.Schema, rows []table.Row) *pack.Pack {
	t.Helper()
	tbl := &table.Table{Name: "units_tables", Rows: rows}
	buf, err := table.Encode(tbl, table.Options{Schema: s, TableNameHint: "units_tables"})
	require.NoError(t, err)

	p := pack.New(pack.PFH6, pack.FileTypeMod)
	p.Insert("db/units_tables/data__", buf)
	return p
}

func TestCheckDetectsDuplicatedKeyAndEmptyRow(t *testing.T) {
	s := testSchema()
	rows := []table.Row{
		{{Kind: schema.KindStringU8, Str: "unit_a"}, {Kind: schema.KindI32, Int: 10}},
		{{Kind: schema.KindStringU8, Str: "unit_a"}, {Kind: schema.KindI32, Int: 20}},
		{{Kind: schema.KindStringU8, Str: "default_key"}, {Kind: schema.KindI32, Int: 0}},
	}
	p := buildPack(t, s, rows)

	d, err := Check(p, nil, Options{Schema: s})
	require.NoError(t, err)
	require.Len(t, d.Reports, 1)

	var codes []Code
	for _, e := range d.Reports[0].Entries {
		codes = append(codes, e.Code)
	}
	assert.Contains(t, codes, CodeDuplicatedKey)
	assert.Contains(t, codes, CodeEmptyRow)
}

func TestCheckIgnoreDirectiveSuppressesCode(t *testing.T) {
	s := testSchema()
	rows := []table.Row{
		{{Kind: schema.KindStringU8, Str: "unit_a"}, {Kind: schema.KindI32, Int: 10}},
		{{Kind: schema.KindStringU8, Str: "unit_a"}, {Kind: schema.KindI32, Int: 20}},
	}
	p := buildPack(t, s, rows)
	p.Settings.Texts["diagnostics_ignore"] = "units_tables;key;duplicated_key"

	d, err := Check(p, nil, Options{Schema: s})
	require.NoError(t, err)
	assert.Empty(t, d.Reports)
}

func TestCheckInvalidFilenameCharacter(t *testing.T) {
	p := pack.New(pack.PFH6, pack.FileTypeMod)
	p.Insert("text/bad<name>.txt", []byte("x"))

	d, err := Check(p, nil, Options{})
	require.NoError(t, err)
	require.Len(t, d.Reports, 1)
	assert.Equal(t, CodeInvalidFilenameCharacter, d.Reports[0].Entries[0].Code)
}

func TestCheckConcurrentProducesSameReports(t *testing.T) {
	s := testSchema()
	rows := []table.Row{
		{{Kind: schema.KindStringU8, Str: "unit_a"}, {Kind: schema.KindI32, Int: 10}},
		{{Kind: schema.KindStringU8, Str: "unit_a"}, {Kind: schema.KindI32, Int: 20}},
	}
	p := buildPack(t, s, rows)

	d, err := Check(p, nil, Options{Schema: s, Concurrent: true})
	require.NoError(t, err)
	require.Len(t, d.Reports, 1)

	buf, err := d.Json()
	require.NoError(t, err)
	assert.NotEmpty(t, buf)
}
