package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpfm-go/rpfmcore/rerr"
	"github.com/rpfm-go/rpfmcore/schema"
)

func testSchema() *schema.Schema {
	s := schema.New("test")
	s.AddDefinition("units_tables", schema.Definition{
		Version: 1,
		Fields: []schema.Field{
			{Name: "key", Kind: schema.KindStringU8, IsKey: true},
			{Name: "cost", Kind: schema.KindI32},
			{Name: "armour", Kind: schema.KindF32},
		},
	})
	return s
}

func sampleTable() *Table {
	return &Table{
		Name:              "units_tables",
		DefinitionVersion: 1,
		Rows: []Row{
			{
				{Kind: schema.KindStringU8, Str: "unit_a"},
				{Kind: schema.KindI32, Int: 100},
				{Kind: schema.KindF32, F64: 1.5},
			},
			{
				{Kind: schema.KindStringU8, Str: "unit_b"},
				{Kind: schema.KindI32, Int: 200},
				{Kind: schema.KindF32, F64: 2.25},
			},
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	s := testSchema()
	tbl := sampleTable()

	buf, err := Encode(tbl, Options{Schema: s, TableNameHint: "units_tables"})
	require.NoError(t, err)

	decoded, err := Decode(buf, Options{Schema: s, TableNameHint: "units_tables"})
	require.NoError(t, err)

	assert.Equal(t, tbl.Rows[0][0].Str, decoded.Rows[0][0].Str)
	assert.Equal(t, tbl.Rows[1][1].Int, decoded.Rows[1][1].Int)
	assert.InDelta(t, tbl.Rows[0][2].F64, decoded.Rows[0][2].F64, 0.001)
	assert.Equal(t, 1, decoded.DefinitionVersion)
}

func TestDecodeNoDefinitionAndEmptyFails(t *testing.T) {
	s := schema.New("test")
	buf, err := Encode(&Table{Name: "ghost_tables"}, Options{Schema: func() *schema.Schema {
		s2 := schema.New("t")
		s2.AddDefinition("ghost_tables", schema.Definition{Version: 1})
		return s2
	}(), TableNameHint: "ghost_tables"})
	require.NoError(t, err)

	_, err = Decode(buf, Options{Schema: s, TableNameHint: "ghost_tables"})
	require.Error(t, err)
	var rerrv *rerr.Error
	require.ErrorAs(t, err, &rerrv)
	assert.Equal(t, rerr.KindDbNoDefinitionsAndEmpty, rerrv.Kind)
}

func TestRowWrongFieldCountValidation(t *testing.T) {
	def := schema.Definition{Fields: []schema.Field{{Kind: schema.KindI32}}}
	row := Row{{Kind: schema.KindI32}, {Kind: schema.KindI32}}
	err := row.Validate(&def)
	require.Error(t, err)
}

func TestSearchAndReplacePreservesOrderUnderReverseApply(t *testing.T) {
	tbl := sampleTable()
	matches, err := tbl.Search("unit_", true, false)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	changed, err := tbl.Replace(matches, "unit_", "infantry_", true, false)
	require.NoError(t, err)
	assert.Equal(t, 2, changed)
	assert.Equal(t, "infantry_a", tbl.Rows[0][0].Str)
	assert.Equal(t, "infantry_b", tbl.Rows[1][0].Str)
}

func TestMergeRefusesDifferentNames(t *testing.T) {
	a := &Table{Name: "a"}
	b := &Table{Name: "b"}
	_, err := Merge([]*Table{a, b})
	require.Error(t, err)
}

func TestMergeConcatenatesRows(t *testing.T) {
	a := sampleTable()
	b := &Table{Name: "units_tables", Rows: []Row{{{Kind: schema.KindStringU8, Str: "unit_c"}, {Kind: schema.KindI32, Int: 5}, {Kind: schema.KindF32}}}}
	merged, err := Merge([]*Table{a, b})
	require.NoError(t, err)
	assert.Len(t, merged.Rows, 3)
}
