package assemblykit

import (
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rpfm-go/rpfmcore/rfile/table"
	"github.com/rpfm-go/rpfmcore/schema"
)

// Options configures UpdateSchemaFromRaw.
type Options struct {
	Path         string // assembly kit root directory holding the raw exports
	TablesToSkip []string
	Concurrent   bool
}

// Result reports the outcome of one UpdateSchemaFromRaw run.
type Result struct {
	// UnfoundFields maps table name to the field names the raw export had
	// no match for, mirroring spec.md §4.8's "emits a list of fields still
	// missing".
	UnfoundFields map[string][]string
}

// UpdateSchemaFromRaw updates every Definition in s that also has a decoded
// vanilla table in vanillaTables, using the raw exports under opts.Path. It
// mutates s in place and returns the fields it could not match (spec.md
// §4.8). vanillaTables maps table name to the vanilla Table instances found
// for that name, which pins which Definition version(s) actually need
// updating — older, unused versions are left untouched.
func UpdateSchemaFromRaw(s *schema.Schema, vanillaTables map[string][]*table.Table, opts Options) (*Result, error) {
	defs, err := LoadRawDefinitions(opts.Path, opts.TablesToSkip)
	if err != nil {
		return nil, err
	}
	relationships, err := LoadRawRelationships(opts.Path)
	if err != nil {
		return nil, err
	}
	localisable, err := LoadRawLocalisableFields(opts.Path)
	if err != nil {
		return nil, err
	}

	byBaseName := map[string]RawDefinition{}
	for _, d := range defs {
		byBaseName[d.TableName] = d
	}
	relsByTable := map[string][]RawRelationship{}
	for _, r := range relationships {
		relsByTable[r.TableName] = append(relsByTable[r.TableName], r)
	}

	var mu sync.Mutex
	unfound := map[string][]string{}

	process := func(tableName string) error {
		if !strings.HasSuffix(tableName, "_tables") {
			return nil
		}
		baseName := strings.TrimSuffix(tableName, "_tables")
		rawDef, ok := byBaseName[baseName]
		if !ok {
			return nil
		}
		vanilla := vanillaTables[tableName]
		if len(vanilla) == 0 {
			return nil
		}

		seenVersions := map[int]bool{}
		for _, vt := range vanilla {
			if seenVersions[vt.DefinitionVersion] {
				continue
			}
			seenVersions[vt.DefinitionVersion] = true

			def, ok := s.DefinitionFor(tableName, vt.DefinitionVersion)
			if !ok {
				continue
			}

			missing := updateDefinitionFromRaw(def, rawDef, relsByTable[baseName], localisable)
			if len(missing) > 0 {
				mu.Lock()
				unfound[tableName] = append(unfound[tableName], missing...)
				mu.Unlock()
			}

			if err := deriveLookupHardcoded(def, rawDef, opts.Path); err != nil {
				return err
			}
		}
		return nil
	}

	tableNames := s.TableNames()
	if opts.Concurrent {
		g := new(errgroup.Group)
		for _, tn := range tableNames {
			tn := tn
			g.Go(func() error { return process(tn) })
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for _, tn := range tableNames {
			if err := process(tn); err != nil {
				return nil, err
			}
		}
	}

	for tableName := range unfound {
		sort.Strings(unfound[tableName])
	}
	return &Result{UnfoundFields: unfound}, nil
}

// updateDefinitionFromRaw fills reference targets from rawDef's column
// source hints (overridden by an explicit relationship when one names the
// same column), marks localisable fields, and records an "unused" patch for
// fields the assembly kit highlights grey (spec.md §4.8). It returns the
// names of def's fields rawDef has no matching <field> entry for.
func updateDefinitionFromRaw(def *schema.Definition, rawDef RawDefinition, rels []RawRelationship, localisable map[string]bool) []string {
	if def.Patches == nil {
		def.Patches = map[string]string{}
	}

	rawByName := map[string]RawField{}
	for _, f := range rawDef.Fields {
		rawByName[f.Name] = f
	}
	relByColumn := map[string]RawRelationship{}
	for _, r := range rels {
		relByColumn[r.ColumnName] = r
	}

	var missing []string
	for i := range def.Fields {
		f := &def.Fields[i]
		raw, ok := rawByName[f.Name]
		if !ok {
			missing = append(missing, f.Name)
			continue
		}

		if rel, ok := relByColumn[f.Name]; ok {
			f.Reference = &schema.Reference{Table: rel.ForeignTableName, Column: rel.ForeignColumnName}
		} else if f.Reference == nil && raw.ColumnSourceTable != "" {
			col := ""
			if len(raw.ColumnSourceColumns) > 0 {
				col = raw.ColumnSourceColumns[0]
			}
			f.Reference = &schema.Reference{Table: raw.ColumnSourceTable, Column: col}
		}

		if localisable[f.Name] {
			def.Patches[f.Name+".localisable"] = "true"
		}

		if raw.HighlightFlag == "#c8c8c8" {
			def.Patches[f.Name+".unused"] = "true"
		}
	}

	return missing
}

// deriveLookupHardcoded implements spec.md §4.8's description-column
// derivation: for a table with a raw "description" field and a single key
// field, it scans the raw exported rows and stores "key;;;;;description"
// pairs joined by ":::::" as the key field's lookup_hardcoded patch, the
// literal separators the original importer uses so editors that already
// understand that patch format keep working unchanged.
func deriveLookupHardcoded(def *schema.Definition, rawDef RawDefinition, akPath string) error {
	hasDescription := false
	for _, f := range rawDef.Fields {
		if f.Name == "description" {
			hasDescription = true
			break
		}
	}
	if !hasDescription {
		return nil
	}
	for _, f := range def.Fields {
		if f.Name == "description" {
			return nil // already a real column, no need for a derived lookup
		}
	}

	keys := def.KeyIndices()
	if len(keys) != 1 {
		return nil
	}
	keyField := def.Fields[keys[0]]

	rows, err := LoadRawTable(akPath, rawDef)
	if err != nil {
		return nil // data export missing or unreadable: not fatal, just no derived lookup
	}

	var pairs []string
	for _, row := range rows {
		key, ok := row[keyField.Name]
		if !ok {
			continue
		}
		desc, ok := row["description"]
		if !ok {
			continue
		}
		pairs = append(pairs, key+";;;;;"+desc)
	}
	if len(pairs) == 0 {
		return nil
	}

	def.Patches[keyField.Name+".lookup_hardcoded"] = strings.Join(pairs, ":::::")
	return nil
}
