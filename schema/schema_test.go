package schema

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSchema() *Schema {
	s := New("warhammer3")
	s.AddDefinition("units_tables", Definition{
		Version: 1,
		Fields: []Field{
			{Name: "key", Kind: KindStringU8, IsKey: true},
			{Name: "category", Kind: KindOptionalStringU8, Reference: &Reference{Table: "unit_category_tables", Column: "key"}},
			{Name: "cost", Kind: KindI32, Default: "100"},
		},
	})
	s.AddDefinition("units_tables", Definition{
		Version: 2,
		Fields: []Field{
			{Name: "key", Kind: KindStringU8, IsKey: true},
			{Name: "category", Kind: KindOptionalStringU8, Reference: &Reference{Table: "unit_category_tables", Column: "key"}},
			{Name: "cost", Kind: KindI32, Default: "100"},
			{Name: "armour", Kind: KindF32},
		},
	})
	return s
}

func TestHighestDefinitionAtMost(t *testing.T) {
	s := sampleSchema()
	def, ok := s.HighestDefinitionAtMost("units_tables", 5)
	require.True(t, ok)
	assert.Equal(t, 2, def.Version)

	def, ok = s.HighestDefinitionAtMost("units_tables", 1)
	require.True(t, ok)
	assert.Equal(t, 1, def.Version)

	_, ok = s.HighestDefinitionAtMost("units_tables", 0)
	assert.False(t, ok)
}

func TestCurrentDefinitionIsNewest(t *testing.T) {
	s := sampleSchema()
	def, ok := s.CurrentDefinition("units_tables")
	require.True(t, ok)
	assert.Equal(t, 2, def.Version)
}

func TestReferenceGraphScansCurrentDefinition(t *testing.T) {
	s := sampleSchema()
	edges := s.ReferenceGraph()
	require.Len(t, edges, 1)
	assert.Equal(t, "units_tables", edges[0].FromTable)
	assert.Equal(t, "category", edges[0].FromField)
	assert.Equal(t, "unit_category_tables", edges[0].ToTable)
}

func TestNewRowDefaults(t *testing.T) {
	s := sampleSchema()
	def, _ := s.CurrentDefinition("units_tables")
	row := def.NewRowDefaults()
	assert.Equal(t, []string{"", "", "100", "0.0000"}, row)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := sampleSchema()
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.toml")
	require.NoError(t, s.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	def, ok := loaded.DefinitionFor("units_tables", 2)
	require.True(t, ok)
	assert.Len(t, def.Fields, 4)
	assert.Equal(t, "armour", def.Fields[3].Name)
	assert.Equal(t, KindF32, def.Fields[3].Kind)
}

func TestSaveLoadJSONRoundTrip(t *testing.T) {
	s := sampleSchema()
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.json")
	require.NoError(t, s.SaveJSON(path))

	loaded, err := LoadJSON(path)
	require.NoError(t, err)
	def, ok := loaded.DefinitionFor("units_tables", 1)
	require.True(t, ok)
	assert.Equal(t, "key", def.Fields[0].Name)
	assert.True(t, def.Fields[0].IsKey)
}

func TestPatchLookupHardcoded(t *testing.T) {
	d := Definition{Patches: map[string]string{"name.lookup_hardcoded": "display name"}}
	v, ok := d.LookupHardcoded("name")
	require.True(t, ok)
	assert.Equal(t, "display name", v)

	_, ok = d.LookupHardcoded("missing")
	assert.False(t, ok)
}
