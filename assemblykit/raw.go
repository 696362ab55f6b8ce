// Package assemblykit implements the assembly-kit importer of spec.md §4.8:
// it reads the raw XML definitions and data the Total War Assembly Kit
// exports and folds them into an already-loaded Schema, filling reference
// targets, localisable-field flags, unused-field highlights, and a
// lookup_hardcoded patch for description-bearing single-key tables.
package assemblykit

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/beevik/etree"

	"github.com/rpfm-go/rpfmcore/rerr"
)

// definitionPrefix is the raw export's filename prefix for a table
// definition, carried over from the assembly kit's own TWaD_ naming.
const definitionPrefix = "TWaD_"

const localisableFieldsFileName = "TExc_LocalisableFields.xml"
const extraRelationshipsFileName = "TWaD_relationships.xml"

// ignoredDefinitionFiles are TWaD_ exports that aren't actually table
// definitions (validation/query metadata the assembly kit ships alongside
// the real tables).
var ignoredDefinitionFiles = map[string]bool{
	"TWaD_schema_validation": true,
	"TWaD_relationships":     true,
	"TWaD_validation":        true,
	"TWaD_tables":            true,
	"TWaD_queries":           true,
}

// RawField is one <field> element of a raw table definition export.
type RawField struct {
	Name                string
	FieldType           string
	PrimaryKey          bool
	ColumnSourceTable   string
	ColumnSourceColumns []string
	HighlightFlag       string
}

// RawDefinition is one TWaD_*.xml table definition export. TableName is the
// bare table name the file describes, with its "TWaD_" prefix and ".xml"
// extension already stripped.
type RawDefinition struct {
	TableName string
	Fields    []RawField
}

// RawRelationship is one row of the TWaD_relationships.xml export: a foreign
// key the assembly kit knows about that the base schema may not.
type RawRelationship struct {
	TableName         string
	ColumnName        string
	ForeignTableName  string
	ForeignColumnName string
}

// RawRow is one exported data row, field name to its raw text value.
type RawRow map[string]string

// LoadRawDefinitions reads every TWaD_*.xml definition file directly under
// dir, skipping the non-table exports and anything named in tablesToSkip.
func LoadRawDefinitions(dir string, tablesToSkip []string) ([]RawDefinition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, rerr.IO(dir, err)
	}
	skip := map[string]bool{}
	for _, t := range tablesToSkip {
		skip[t] = true
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".xml") || !strings.HasPrefix(name, definitionPrefix) {
			continue
		}
		stem := strings.TrimSuffix(name, ".xml")
		if ignoredDefinitionFiles[stem] {
			continue
		}
		tableName := strings.TrimPrefix(stem, definitionPrefix)
		if skip[tableName] {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]RawDefinition, 0, len(names))
	for _, name := range names {
		def, err := parseRawDefinitionFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func parseRawDefinitionFile(path string) (RawDefinition, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return RawDefinition{}, rerr.IO(path, err)
	}
	root := doc.Root()
	if root == nil {
		return RawDefinition{}, rerr.IO(path, os.ErrInvalid)
	}

	stem := strings.TrimSuffix(filepath.Base(path), ".xml")
	def := RawDefinition{TableName: strings.TrimPrefix(stem, definitionPrefix)}

	for _, fe := range root.SelectElements("field") {
		field := RawField{
			Name:              fe.SelectAttrValue("name", ""),
			FieldType:         fe.SelectAttrValue("field_type", ""),
			PrimaryKey:        fe.SelectAttrValue("primary_key", "0") == "1",
			ColumnSourceTable: fe.SelectAttrValue("column_source_table", ""),
			HighlightFlag:     fe.SelectAttrValue("highlight_flag", ""),
		}
		if cols := fe.SelectAttrValue("column_source_column", ""); cols != "" {
			field.ColumnSourceColumns = strings.Split(cols, ",")
		}
		def.Fields = append(def.Fields, field)
	}
	return def, nil
}

// LoadRawRelationships reads the optional TWaD_relationships.xml export.
// Returning a nil slice with no error means the file genuinely isn't
// present, matching the original's "notably missing in some games" note.
func LoadRawRelationships(dir string) ([]RawRelationship, error) {
	path := filepath.Join(dir, extraRelationshipsFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, rerr.IO(path, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, nil
	}

	var rels []RawRelationship
	for _, re := range root.SelectElements("relationship") {
		rels = append(rels, RawRelationship{
			TableName:         re.SelectAttrValue("table_name", ""),
			ColumnName:        re.SelectAttrValue("column_name", ""),
			ForeignTableName:  re.SelectAttrValue("foreign_table_name", ""),
			ForeignColumnName: re.SelectAttrValue("foreign_column_name", ""),
		})
	}
	return rels, nil
}

// LoadRawLocalisableFields reads the optional localisable-fields registry,
// returning the set of field names it marks as localisable.
func LoadRawLocalisableFields(dir string) (map[string]bool, error) {
	path := filepath.Join(dir, localisableFieldsFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, rerr.IO(path, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, nil
	}

	fields := map[string]bool{}
	for _, fe := range root.SelectElements("field") {
		if name := fe.SelectAttrValue("name", ""); name != "" {
			fields[name] = true
		}
	}
	return fields, nil
}

// LoadRawTable reads the data export matching def, one <datarow> per row and
// one <datafield name="..."> per cell.
func LoadRawTable(dir string, def RawDefinition) ([]RawRow, error) {
	path := filepath.Join(dir, definitionPrefix+def.TableName+".xml")
	candidates := []string{path, filepath.Join(dir, def.TableName+".xml")}

	var doc *etree.Document
	for _, c := range candidates {
		d := etree.NewDocument()
		if err := d.ReadFromFile(c); err == nil {
			doc = d
			break
		}
	}
	if doc == nil {
		return nil, rerr.AssemblyKitNotFound(path)
	}
	root := doc.Root()
	if root == nil {
		return nil, nil
	}

	var rows []RawRow
	for _, re := range root.SelectElements("datarow") {
		row := RawRow{}
		for _, fe := range re.SelectElements("datafield") {
			name := fe.SelectAttrValue("name", "")
			if name == "" {
				continue
			}
			row[name] = fe.Text()
		}
		rows = append(rows, row)
	}
	return rows, nil
}
