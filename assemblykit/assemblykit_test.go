package assemblykit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpfm-go/rpfmcore/rfile/table"
	"github.com/rpfm-go/rpfmcore/schema"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadRawDefinitionsSkipsIgnoredAndBlacklisted(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "TWaD_land_units.xml", `<root>
  <field name="key" field_type="StringU8" primary_key="1"/>
  <field name="cost" field_type="SingleInteger" column_source_table="land_units_cost_tables" column_source_column="id"/>
</root>`)
	writeFile(t, dir, "TWaD_tables.xml", `<root/>`)

	defs, err := LoadRawDefinitions(dir, nil)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "land_units", defs[0].TableName)
	require.Len(t, defs[0].Fields, 2)
	assert.True(t, defs[0].Fields[0].PrimaryKey)
	assert.Equal(t, "land_units_cost_tables", defs[0].Fields[1].ColumnSourceTable)
}

func TestLoadRawDefinitionsHonorsTablesToSkip(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "TWaD_land_units.xml", `<root><field name="key" primary_key="1"/></root>`)

	defs, err := LoadRawDefinitions(dir, []string{"land_units"})
	require.NoError(t, err)
	assert.Empty(t, defs)
}

func TestUpdateSchemaFromRawFillsReferenceAndUnusedPatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "TWaD_land_units.xml", `<root>
  <field name="key" field_type="StringU8" primary_key="1"/>
  <field name="unit_class" field_type="StringU8" column_source_table="unit_class_tables" column_source_column="id" highlight_flag="#c8c8c8"/>
  <field name="description" field_type="StringU8"/>
</root>`)
	s := schema.New("test")
	s.AddDefinition("land_units_tables", schema.Definition{
		Version: 1,
		Fields: []schema.Field{
			{Name: "key", Kind: schema.KindStringU8, IsKey: true},
			{Name: "unit_class", Kind: schema.KindStringU8},
		},
	})

	vanilla := map[string][]*table.Table{
		"land_units_tables": {{Name: "land_units_tables", DefinitionVersion: 1}},
	}

	result, err := UpdateSchemaFromRaw(s, vanilla, Options{Path: dir})
	require.NoError(t, err)

	def, ok := s.DefinitionFor("land_units_tables", 1)
	require.True(t, ok)

	f, _, ok := def.FieldByName("unit_class")
	require.True(t, ok)
	require.NotNil(t, f.Reference)
	assert.Equal(t, "unit_class_tables", f.Reference.Table)
	assert.Equal(t, "id", f.Reference.Column)

	unused, ok := def.Patch("unit_class", "unused")
	require.True(t, ok)
	assert.Equal(t, "true", unused)

	assert.Empty(t, result.UnfoundFields["land_units_tables"])
}

func TestUpdateSchemaFromRawReportsMissingFields(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "TWaD_land_units.xml", `<root>
  <field name="key" field_type="StringU8" primary_key="1"/>
</root>`)

	s := schema.New("test")
	s.AddDefinition("land_units_tables", schema.Definition{
		Version: 1,
		Fields: []schema.Field{
			{Name: "key", Kind: schema.KindStringU8, IsKey: true},
			{Name: "cost", Kind: schema.KindI32},
		},
	})

	vanilla := map[string][]*table.Table{
		"land_units_tables": {{Name: "land_units_tables", DefinitionVersion: 1}},
	}

	result, err := UpdateSchemaFromRaw(s, vanilla, Options{Path: dir})
	require.NoError(t, err)
	assert.Equal(t, []string{"cost"}, result.UnfoundFields["land_units_tables"])
}

func TestDeriveLookupHardcodedFromDescriptionColumn(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "TWaD_land_units.xml", `<root>
  <datarow>
    <datafield name="key">unit_a</datafield>
    <datafield name="description">Unit A</datafield>
  </datarow>
  <datarow>
    <datafield name="key">unit_b</datafield>
    <datafield name="description">Unit B</datafield>
  </datarow>
</root>`)

	rawDef := RawDefinition{
		TableName: "land_units",
		Fields: []RawField{
			{Name: "key", PrimaryKey: true},
			{Name: "description"},
		},
	}
	def := &schema.Definition{
		Version: 1,
		Fields: []schema.Field{
			{Name: "key", Kind: schema.KindStringU8, IsKey: true},
		},
		Patches: map[string]string{},
	}

	require.NoError(t, deriveLookupHardcoded(def, rawDef, dir))

	lookup, ok := def.LookupHardcoded("key")
	require.True(t, ok)
	assert.Equal(t, "unit_a;;;;;Unit A:::::unit_b;;;;;Unit B", lookup)
}
