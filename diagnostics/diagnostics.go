// Package diagnostics implements the check catalogue of spec.md §4.6: a
// pipeline of pure checks over decoded files, aggregated into a
// JSON-serialisable report per Pack entry, with optional file-parallel
// execution and per-(table,column) ignore directives.
package diagnostics

import (
	"encoding/json"
	"path"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/rpfm-go/rpfmcore/dependencies"
	"github.com/rpfm-go/rpfmcore/pack"
	"github.com/rpfm-go/rpfmcore/rfile"
	"github.com/rpfm-go/rpfmcore/rfile/loc"
	"github.com/rpfm-go/rpfmcore/rfile/portrait"
	"github.com/rpfm-go/rpfmcore/rfile/table"
	"github.com/rpfm-go/rpfmcore/schema"
)

// Severity classifies an Entry, mirroring the teacher's convention of a
// small fixed catalogue of labelled conditions rather than free-form text.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Code identifies a check, used both in output and in ignore directives.
type Code string

const (
	CodeReferenceValueMissing       Code = "reference_value_missing"
	CodeEmptyRow                    Code = "empty_row"
	CodeDuplicatedKey                Code = "duplicated_key"
	CodeOutdatedTable                Code = "outdated_table"
	CodeLocKeyCollisionWithTable     Code = "loc_key_collision_with_table"
	CodeInvalidFilenameCharacter     Code = "invalid_filename_character"
	CodeUnusedArtSet                 Code = "unused_art_set"
	CodeUnusedVariant                Code = "unused_variant"
	CodeEmptyMaskPath                Code = "empty_mask_path"
	CodeDependenciesCacheOutOfDate   Code = "dependencies_cache_out_of_date"
	CodeFileWithNoExtension          Code = "file_with_no_extension"
	CodeDatacoredFileOverwritesVanilla Code = "datacored_file_overwrites_vanilla"
)

// Entry is one finding within a file's Report.
type Entry struct {
	Severity Severity `json:"severity"`
	Code     Code     `json:"code"`
	Message  string   `json:"message"`
	Row      int      `json:"row,omitempty"`
	Column   string   `json:"column,omitempty"`
}

// Report aggregates every Entry found for one container path.
type Report struct {
	Path     string   `json:"path"`
	FileType string   `json:"file_type"`
	Entries  []Entry  `json:"entries"`
}

// Diagnostics is the full result of a Check run: one Report per file that
// produced at least one Entry.
type Diagnostics struct {
	Reports []Report `json:"reports"`
}

// ignoreDirective suppresses entries matching (table, column, code) exactly,
// or any of those fields left as "*" to match everything.
type ignoreDirective struct {
	Table  string
	Column string
	Codes  map[string]bool
}

// parseIgnoreDirectives reads the `table;column;codes` lines spec.md §4.6
// describes out of a Pack's text settings, stored under the fixed key
// "diagnostics_ignore" (one directive per line, codes comma-separated).
func parseIgnoreDirectives(settings *pack.Settings) []ignoreDirective {
	if settings == nil {
		return nil
	}
	raw, ok := settings.Texts["diagnostics_ignore"]
	if !ok || raw == "" {
		return nil
	}
	var out []ignoreDirective
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ";", 3)
		if len(parts) != 3 {
			continue
		}
		codes := map[string]bool{}
		for _, c := range strings.Split(parts[2], ",") {
			if c = strings.TrimSpace(c); c != "" {
				codes[c] = true
			}
		}
		out = append(out, ignoreDirective{Table: parts[0], Column: parts[1], Codes: codes})
	}
	return out
}

func (d ignoreDirective) suppresses(tableName, column string, code Code) bool {
	if d.Table != "*" && d.Table != tableName {
		return false
	}
	if d.Column != "*" && d.Column != column {
		return false
	}
	return d.Codes["*"] || d.Codes[string(code)]
}

// Options configures Check.
type Options struct {
	Schema      *schema.Schema
	PathsSubset []string // empty means every file in the Pack
	Concurrent  bool
}

// Check runs the full pipeline of spec.md §4.6 over p, optionally
// cross-referencing deps, and returns the aggregated Diagnostics.
// Per-file failures (a file that fails to decode) never abort the run —
// they are simply skipped, matching spec.md §7's "never fail the whole
// pass on a single bad file".
func Check(p *pack.Pack, deps *dependencies.Dependencies, opts Options) (*Diagnostics, error) {
	targets := opts.PathsSubset
	if len(targets) == 0 {
		for cp := range p.Files {
			targets = append(targets, cp)
		}
	}
	sort.Strings(targets)

	ignores := parseIgnoreDirectives(&p.Settings)
	reports := make([]Report, len(targets))

	runOne := func(i int) error {
		rf, ok := p.Files[targets[i]]
		if !ok {
			return nil
		}
		reports[i] = checkOne(p, rf, deps, opts.Schema, ignores)
		return nil
	}

	if opts.Concurrent {
		g := new(errgroup.Group)
		for i := range targets {
			i := i
			g.Go(func() error { return runOne(i) })
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := range targets {
			_ = runOne(i)
		}
	}

	out := &Diagnostics{}
	for _, r := range reports {
		if len(r.Entries) > 0 {
			out.Reports = append(out.Reports, r)
		}
	}
	sort.Slice(out.Reports, func(i, j int) bool { return out.Reports[i].Path < out.Reports[j].Path })

	if deps != nil && !deps.IsVanillaDataLoaded() {
		out.Reports = append(out.Reports, Report{
			Path:     "",
			FileType: "",
			Entries: []Entry{{
				Severity: SeverityWarning,
				Code:     CodeDependenciesCacheOutOfDate,
				Message:  "dependencies cache has not been rebuilt",
			}},
		})
	}

	return out, nil
}

// Json renders every report, unfiltered.
func (d *Diagnostics) Json() ([]byte, error) {
	return json.Marshal(d)
}

// FilteredJson renders only reports whose path is in paths.
func (d *Diagnostics) FilteredJson(paths []string) ([]byte, error) {
	want := map[string]bool{}
	for _, p := range paths {
		want[p] = true
	}
	filtered := &Diagnostics{}
	for _, r := range d.Reports {
		if want[r.Path] {
			filtered.Reports = append(filtered.Reports, r)
		}
	}
	return json.Marshal(filtered)
}

// Results returns every report, unfiltered — the plain-Go-value counterpart
// to Json/FilteredJson for callers that don't want serialised output.
func (d *Diagnostics) Results() []Report {
	return d.Reports
}

func checkOne(p *pack.Pack, rf *pack.RFile, deps *dependencies.Dependencies, s *schema.Schema, ignores []ignoreDirective) Report {
	report := Report{Path: rf.Path, FileType: rf.FileType.String()}

	report.Entries = append(report.Entries, checkFileWithNoExtension(rf)...)
	report.Entries = append(report.Entries, checkInvalidFilenameCharacter(rf)...)

	raw, err := p.ReadFile(rf)
	if err != nil {
		return filterEntries(report, tableNameOf(rf.Path), ignores)
	}

	switch rf.FileType {
	case rfile.TypeDB:
		report.Entries = append(report.Entries, checkDBTable(raw, rf.Path, s, deps)...)
	case rfile.TypeLoc:
		report.Entries = append(report.Entries, checkLocFile(raw, deps)...)
	case rfile.TypePortraitSettings:
		report.Entries = append(report.Entries, checkPortraitSettings(raw, deps)...)
	}

	return filterEntries(report, tableNameOf(rf.Path), ignores)
}

func filterEntries(report Report, tableName string, ignores []ignoreDirective) Report {
	if len(ignores) == 0 {
		return report
	}
	kept := report.Entries[:0]
	for _, e := range report.Entries {
		suppressed := false
		for _, ig := range ignores {
			if ig.suppresses(tableName, e.Column, e.Code) {
				suppressed = true
				break
			}
		}
		if !suppressed {
			kept = append(kept, e)
		}
	}
	report.Entries = kept
	return report
}

func tableNameOf(containerPath string) string {
	p := strings.ToLower(strings.ReplaceAll(containerPath, "\\", "/"))
	if !strings.HasPrefix(p, "db/") {
		return ""
	}
	rest := strings.TrimPrefix(p, "db/")
	if i := strings.Index(rest, "/"); i >= 0 {
		return rest[:i]
	}
	return rest
}

// checkFileWithNoExtension flags entries whose path has no file extension
// at all, a common sign of an accidental drag-and-drop import.
func checkFileWithNoExtension(rf *pack.RFile) []Entry {
	if path.Ext(rf.Path) == "" && rf.FileType != rfile.TypeDB {
		return []Entry{{
			Severity: SeverityWarning,
			Code:     CodeFileWithNoExtension,
			Message:  "file has no extension: " + rf.Path,
		}}
	}
	return nil
}

// invalidFilenameChars are characters Windows (and therefore every Total
// War install) rejects in a path component.
const invalidFilenameChars = "<>:\"|?*"

func checkInvalidFilenameCharacter(rf *pack.RFile) []Entry {
	for _, c := range rf.Path {
		if strings.ContainsRune(invalidFilenameChars, c) {
			return []Entry{{
				Severity: SeverityError,
				Code:     CodeInvalidFilenameCharacter,
				Message:  "path contains an invalid character: " + rf.Path,
			}}
		}
	}
	return nil
}

func checkDBTable(raw []byte, containerPath string, s *schema.Schema, deps *dependencies.Dependencies) []Entry {
	if s == nil {
		return nil
	}
	name := tableNameOf(containerPath)
	t, err := table.Decode(raw, table.Options{Schema: s, TableNameHint: name})
	if err != nil {
		return nil
	}

	var entries []Entry
	def, hasDef := s.CurrentDefinition(name)

	if hasDef && t.DefinitionVersion < def.Version {
		entries = append(entries, Entry{
			Severity: SeverityWarning,
			Code:     CodeOutdatedTable,
			Message:  "table uses schema version older than the current one",
		})
	}

	if hasDef {
		entries = append(entries, checkEmptyAndDuplicateRows(t, def)...)
		entries = append(entries, checkReferenceValuesMissing(t, def, deps)...)
	}

	if deps != nil && deps.IsVanillaDataLoaded() && deps.FileExists(containerPath, true, false) {
		entries = append(entries, Entry{
			Severity: SeverityInfo,
			Code:     CodeDatacoredFileOverwritesVanilla,
			Message:  "table shadows a vanilla file of the same path",
		})
	}

	return entries
}

func checkEmptyAndDuplicateRows(t *table.Table, def *schema.Definition) []Entry {
	var entries []Entry

	if len(t.Rows) == 0 {
		return entries
	}

	keyIdx := -1
	for i, f := range def.Fields {
		if f.IsKey {
			keyIdx = i
			break
		}
	}

	seenKeys := map[string]bool{}
	for i, row := range t.Rows {
		if rowIsEmpty(row, def) {
			entries = append(entries, Entry{
				Severity: SeverityWarning,
				Code:     CodeEmptyRow,
				Message:  "row matches the definition's default values",
				Row:      i,
			})
		}
		if keyIdx >= 0 && keyIdx < len(row) {
			key := row[keyIdx].String()
			if seenKeys[key] {
				entries = append(entries, Entry{
					Severity: SeverityError,
					Code:     CodeDuplicatedKey,
					Message:  "duplicated key value: " + key,
					Row:      i,
					Column:   def.Fields[keyIdx].Name,
				})
			}
			seenKeys[key] = true
		}
	}
	return entries
}

func rowIsEmpty(row table.Row, def *schema.Definition) bool {
	if len(row) != len(def.Fields) {
		return false
	}
	for i, f := range def.Fields {
		if row[i].String() != table.NewFromDefault(f).String() {
			return false
		}
	}
	return true
}

func checkReferenceValuesMissing(t *table.Table, def *schema.Definition, deps *dependencies.Dependencies) []Entry {
	if deps == nil {
		return nil
	}
	var entries []Entry
	for colIdx, f := range def.Fields {
		if f.Reference == nil {
			continue
		}
		values := deps.DBValuesFromTableNameAndColumnName(f.Reference.Table, f.Reference.Column)
		for rowIdx, row := range t.Rows {
			if colIdx >= len(row) {
				continue
			}
			v := row[colIdx].String()
			if v == "" {
				continue
			}
			if values != nil {
				if _, ok := values[v]; ok {
					continue
				}
			}
			entries = append(entries, Entry{
				Severity: SeverityError,
				Code:     CodeReferenceValueMissing,
				Message:  "value has no matching row in " + f.Reference.Table + "." + f.Reference.Column + ": " + v,
				Row:      rowIdx,
				Column:   f.Name,
			})
		}
	}
	return entries
}

// checkLocFile flags loc keys that start with "db_" and contain a further
// "_", when the segment between those two underscores, with "_tables"
// appended, names no table in the dependencies cache. Only that first
// segment is taken as the table name; column names are not checked, and
// nothing is flagged when deps is nil.
func checkLocFile(raw []byte, deps *dependencies.Dependencies) []Entry {
	l, err := loc.Decode(raw)
	if err != nil {
		return nil
	}
	var entries []Entry
	for _, row := range l.Rows {
		if !strings.HasPrefix(row.Key, "db_") {
			continue
		}
		rest := strings.TrimPrefix(row.Key, "db_")
		parts := strings.SplitN(rest, "_", 2)
		if len(parts) < 2 {
			continue
		}
		tableName := parts[0] + "_tables"
		if deps != nil && len(deps.DBData(tableName)) == 0 {
			entries = append(entries, Entry{
				Severity: SeverityWarning,
				Code:     CodeLocKeyCollisionWithTable,
				Message:  "loc key references a table not present in the dependencies cache: " + row.Key,
			})
		}
	}
	return entries
}

func checkPortraitSettings(raw []byte, deps *dependencies.Dependencies) []Entry {
	f, err := portrait.Decode(raw)
	if err != nil {
		return nil
	}
	var entries []Entry

	var artSetIDs, variantFilenames map[string]string
	if deps != nil {
		artSetIDs = deps.DBValuesFromTableNameAndColumnName("campaign_character_arts_tables", "art_set_id")
		variantFilenames = deps.DBValuesFromTableNameAndColumnName("variants_tables", "variant_filename")
	}

	for _, e := range f.Entries {
		if artSetIDs != nil {
			if _, ok := artSetIDs[e.ID]; !ok {
				entries = append(entries, Entry{
					Severity: SeverityWarning,
					Code:     CodeUnusedArtSet,
					Message:  "art set id not referenced by campaign_character_arts_tables: " + e.ID,
				})
			}
		}
		for _, v := range e.Variants {
			if variantFilenames != nil {
				if _, ok := variantFilenames[v.Filename]; !ok {
					entries = append(entries, Entry{
						Severity: SeverityWarning,
						Code:     CodeUnusedVariant,
						Message:  "variant filename not referenced by variants_tables: " + v.Filename,
					})
				}
			}
			for _, mask := range []string{v.FileMask1, v.FileMask2, v.FileMask3} {
				if mask == "" {
					entries = append(entries, Entry{
						Severity: SeverityInfo,
						Code:     CodeEmptyMaskPath,
						Message:  "mask path is empty on variant " + v.Filename,
					})
				}
			}
		}
	}
	return entries
}
