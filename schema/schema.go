// Package schema holds the versioned table/field definitions every typed
// file codec in rfile/ decodes and encodes against, plus the free-form
// per-field patch overrides and the cross-table reference graph the
// diagnostics and dependencies packages walk.
//
// Persistence follows the teacher's own convention of pairing a
// human-authored textual form with a machine JSON form: holocm-holo-build's
// package definitions are authored in TOML (github.com/BurntSushi/toml) and
// that is reused here for Schema.Save/Load, while the JSON form
// (encoding/json) is what a game installation actually ships on disk,
// exactly as spec.md §4.2 requires "textual and JSON".
package schema

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/rpfm-go/rpfmcore/rerr"
)

// Schema is an ordered mapping from table name to its known Definitions,
// keyed by version (spec.md §3.3). Version numbers are monotonic and never
// reused; Definitions for a table are kept sorted by Version ascending.
type Schema struct {
	Name        string
	Definitions map[string][]Definition
}

// New returns an empty, ready-to-use Schema.
func New(name string) *Schema {
	return &Schema{Name: name, Definitions: map[string][]Definition{}}
}

// DefinitionsFor returns every known Definition for table, oldest first.
func (s *Schema) DefinitionsFor(table string) []Definition {
	return s.Definitions[table]
}

// DefinitionFor returns the exact-version Definition for table, if known.
func (s *Schema) DefinitionFor(table string, version int) (*Definition, bool) {
	for i := range s.Definitions[table] {
		if s.Definitions[table][i].Version == version {
			return &s.Definitions[table][i], true
		}
	}
	return nil, false
}

// HighestDefinitionAtMost returns the highest-versioned Definition for table
// whose Version is <= headerVersion, implementing the DB decode rule of
// spec.md §4.3.1.
func (s *Schema) HighestDefinitionAtMost(table string, headerVersion int) (*Definition, bool) {
	defs := s.Definitions[table]
	var best *Definition
	for i := range defs {
		if defs[i].Version <= headerVersion {
			if best == nil || defs[i].Version > best.Version {
				best = &defs[i]
			}
		}
	}
	if best == nil {
		return nil, false
	}
	return best, true
}

// CurrentDefinition returns the highest-versioned Definition known for
// table, used by encoders (spec.md §4.3.1: "Encode emits the current
// definition's version").
func (s *Schema) CurrentDefinition(table string) (*Definition, bool) {
	defs := s.Definitions[table]
	if len(defs) == 0 {
		return nil, false
	}
	best := &defs[0]
	for i := range defs {
		if defs[i].Version > best.Version {
			best = &defs[i]
		}
	}
	return best, true
}

// AddDefinition inserts or replaces the Definition for (table, def.Version),
// keeping the slice sorted by Version.
func (s *Schema) AddDefinition(table string, def Definition) {
	defs := s.Definitions[table]
	for i := range defs {
		if defs[i].Version == def.Version {
			defs[i] = def
			s.Definitions[table] = defs
			return
		}
	}
	defs = append(defs, def)
	sort.Slice(defs, func(i, j int) bool { return defs[i].Version < defs[j].Version })
	s.Definitions[table] = defs
}

// TableNames returns every table name known to the schema, sorted.
func (s *Schema) TableNames() []string {
	names := make([]string, 0, len(s.Definitions))
	for name := range s.Definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// --- persistence ---

type wireSchema struct {
	Name  string             `toml:"name" json:"name"`
	Table map[string]wireTbl `toml:"table" json:"table"`
}

type wireTbl struct {
	Versions []wireDef `toml:"version" json:"version"`
}

type wireDef struct {
	Version int         `toml:"version" json:"version"`
	Fields  []wireField `toml:"field" json:"field"`
	Patches map[string]string `toml:"patches,omitempty" json:"patches,omitempty"`
}

type wireField struct {
	Name      string      `toml:"name" json:"name"`
	Kind      string      `toml:"kind" json:"kind"`
	Default   string      `toml:"default,omitempty" json:"default,omitempty"`
	IsKey     bool        `toml:"is_key,omitempty" json:"is_key,omitempty"`
	RefTable  string      `toml:"ref_table,omitempty" json:"ref_table,omitempty"`
	RefColumn string      `toml:"ref_column,omitempty" json:"ref_column,omitempty"`
	Lookup    []string    `toml:"lookup,omitempty" json:"lookup,omitempty"`
	Unused    bool        `toml:"unused,omitempty" json:"unused,omitempty"`
	Filename  bool        `toml:"filename,omitempty" json:"filename,omitempty"`
	CAOnly    bool        `toml:"ca_only,omitempty" json:"ca_only,omitempty"`
	BitGroup  string      `toml:"bitwise_group,omitempty" json:"bitwise_group,omitempty"`
	Fields    []wireField `toml:"field,omitempty" json:"field,omitempty"`
}

var kindNames = map[FieldKind]string{
	KindBoolean: "boolean", KindI8: "i8", KindI16: "i16", KindI32: "i32", KindI64: "i64",
	KindU8: "u8", KindU16: "u16", KindU32: "u32", KindU64: "u64",
	KindF32: "f32", KindF64: "f64", KindStringU8: "string_u8", KindStringU16: "string_u16",
	KindOptionalStringU8: "optional_string_u8", KindOptionalStringU16: "optional_string_u16",
	KindColour: "colour", KindSequence: "sequence",
}

var namesToKind = func() map[string]FieldKind {
	m := map[string]FieldKind{}
	for k, v := range kindNames {
		m[v] = k
	}
	return m
}()

func toWireField(f Field) wireField {
	wf := wireField{
		Name: f.Name, Kind: kindNames[f.Kind], Default: f.Default, IsKey: f.IsKey,
		Lookup: f.Lookup, Unused: f.Flags.Unused, Filename: f.Flags.Filename,
		CAOnly: f.Flags.CAOnly, BitGroup: f.Flags.BitwiseGroup,
	}
	if f.Reference != nil {
		wf.RefTable, wf.RefColumn = f.Reference.Table, f.Reference.Column
	}
	for _, sub := range f.Fields {
		wf.Fields = append(wf.Fields, toWireField(sub))
	}
	return wf
}

func fromWireField(wf wireField) Field {
	f := Field{
		Name: wf.Name, Kind: namesToKind[wf.Kind], Default: wf.Default, IsKey: wf.IsKey,
		Lookup: wf.Lookup,
		Flags: FieldFlags{Unused: wf.Unused, Filename: wf.Filename, CAOnly: wf.CAOnly, BitwiseGroup: wf.BitGroup},
	}
	if wf.RefTable != "" {
		f.Reference = &Reference{Table: wf.RefTable, Column: wf.RefColumn}
	}
	for _, sub := range wf.Fields {
		f.Fields = append(f.Fields, fromWireField(sub))
	}
	return f
}

func (s *Schema) toWire() wireSchema {
	w := wireSchema{Name: s.Name, Table: map[string]wireTbl{}}
	for table, defs := range s.Definitions {
		var wt wireTbl
		for _, d := range defs {
			wd := wireDef{Version: d.Version, Patches: d.Patches}
			for _, f := range d.Fields {
				wd.Fields = append(wd.Fields, toWireField(f))
			}
			wt.Versions = append(wt.Versions, wd)
		}
		w.Table[table] = wt
	}
	return w
}

func fromWire(w wireSchema) *Schema {
	s := New(w.Name)
	for table, wt := range w.Table {
		for _, wd := range wt.Versions {
			def := Definition{Version: wd.Version, Patches: wd.Patches}
			for _, wf := range wd.Fields {
				def.Fields = append(def.Fields, fromWireField(wf))
			}
			s.AddDefinition(table, def)
		}
	}
	return s
}

// Save writes the schema as TOML to path, the human-authored form.
func (s *Schema) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return rerr.IO(path, err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(s.toWire()); err != nil {
		return rerr.IO(path, err)
	}
	return nil
}

// Load reads a TOML schema file written by Save.
func Load(path string) (*Schema, error) {
	var w wireSchema
	if _, err := toml.DecodeFile(path, &w); err != nil {
		return nil, rerr.IO(path, err)
	}
	return fromWire(w), nil
}

// SaveJSON writes the schema as JSON to path, the machine-consumed form a
// game installation ships alongside its executable.
func (s *Schema) SaveJSON(path string) error {
	b, err := json.MarshalIndent(s.toWire(), "", "  ")
	if err != nil {
		return rerr.IO(path, err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return rerr.IO(path, err)
	}
	return nil
}

// LoadJSON reads a JSON schema file written by SaveJSON.
func LoadJSON(path string) (*Schema, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, rerr.IO(path, err)
	}
	var w wireSchema
	if err := json.Unmarshal(b, &w); err != nil {
		return nil, rerr.IO(path, err)
	}
	return fromWire(w), nil
}
