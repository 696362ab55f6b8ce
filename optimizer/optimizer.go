// Package optimizer implements the configurable removal rules of
// spec.md §4.7: identical-to-master rows, identical-to-new-row rows,
// duplicate rows, emptied-out files, map/prefab text byproducts, and
// portrait settings cleanup.
package optimizer

import (
	"path"
	"sort"
	"strings"

	"github.com/rpfm-go/rpfmcore/dependencies"
	"github.com/rpfm-go/rpfmcore/pack"
	"github.com/rpfm-go/rpfmcore/rfile"
	"github.com/rpfm-go/rpfmcore/rfile/loc"
	"github.com/rpfm-go/rpfmcore/rfile/portrait"
	"github.com/rpfm-go/rpfmcore/rfile/table"
	"github.com/rpfm-go/rpfmcore/schema"
)

// Options toggles each removal rule independently, mirroring spec.md §4.7's
// "each a separately toggleable rule".
type Options struct {
	RemoveITM             bool // identical-to-master rows vs. merged vanilla+parent
	RemoveITNR             bool // identical-to-new-row rows vs. the definition's default row
	RemoveDuplicateRows    bool // stable dedupe, first occurrence wins
	RemoveEmptyFiles       bool // drop a table/loc entirely once its rows are empty
	RemoveTextByproducts   bool // .xml siblings of .bin/.agf/.model_statistics, in any directory
	ClearEmptyMasks        bool // portrait settings: null out empty_mask.png fields
	RemoveUnusedVariants   bool // portrait settings: drop variants not in variants_tables
	RemoveUnusedArtSets    bool // portrait settings: drop entries not in campaign_character_arts_tables
	AllowDatacoredTables   bool // operate on tables that shadow a vanilla file, normally skipped
}

// byproductExtensions is the set of source extensions whose same-named .xml
// sibling removeTextByproducts treats as an export byproduct.
var byproductExtensions = map[string]bool{
	".bin":               true,
	".agf":               true,
	".model_statistics":  true,
}

// Optimize runs every enabled rule over paths (or every file in p when
// paths is empty) and returns the set of container paths it removed
// entirely. Datacored tables — those whose path also exists in the base
// game archives — are skipped unless opts.AllowDatacoredTables is set
// (spec.md §4.7).
func Optimize(p *pack.Pack, paths []string, deps *dependencies.Dependencies, s *schema.Schema, opts Options) ([]string, error) {
	targets := paths
	if len(targets) == 0 {
		for cp := range p.Files {
			targets = append(targets, cp)
		}
	}
	sort.Strings(targets)

	removed := map[string]bool{}

	for _, cp := range targets {
		rf, ok := p.Files[cp]
		if !ok {
			continue
		}
		if !opts.AllowDatacoredTables && deps != nil && deps.FileExists(cp, true, false) {
			continue
		}

		switch rf.FileType {
		case rfile.TypeDB:
			if emptied, err := optimizeDBTable(p, rf, deps, s, opts); err != nil {
				return nil, err
			} else if emptied {
				removed[cp] = true
			}
		case rfile.TypeLoc:
			if emptied, err := optimizeLoc(p, rf, deps, opts); err != nil {
				return nil, err
			} else if emptied {
				removed[cp] = true
			}
		case rfile.TypePortraitSettings:
			if err := optimizePortraitSettings(p, rf, deps, opts); err != nil {
				return nil, err
			}
		}
	}

	if opts.RemoveTextByproducts {
		for cp := range removeTextByproducts(p, targets) {
			removed[cp] = true
		}
	}

	out := make([]string, 0, len(removed))
	for cp := range removed {
		out = append(out, cp)
	}
	sort.Strings(out)
	return out, nil
}

func optimizeDBTable(p *pack.Pack, rf *pack.RFile, deps *dependencies.Dependencies, s *schema.Schema, opts Options) (bool, error) {
	if s == nil {
		return false, nil
	}
	name := tableNameOf(rf.Path)
	raw, err := p.ReadFile(rf)
	if err != nil {
		return false, err
	}
	t, err := table.Decode(raw, table.Options{Schema: s, TableNameHint: name})
	if err != nil {
		return false, nil
	}
	def, ok := s.CurrentDefinition(name)
	if !ok {
		return false, nil
	}

	masterRows := mergedMasterRowStrings(deps, name)
	newRowStr := newRowString(def)

	var kept []table.Row
	seen := map[string]bool{}
	for _, row := range t.Rows {
		key := rowString(row)

		if opts.RemoveITM && masterRows[key] {
			continue
		}
		if opts.RemoveITNR && key == newRowStr {
			continue
		}
		if opts.RemoveDuplicateRows {
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		kept = append(kept, row)
	}

	if len(kept) == len(t.Rows) {
		return false, nil
	}
	t.Rows = kept

	if len(t.Rows) == 0 && opts.RemoveEmptyFiles {
		p.Remove(rf.Path)
		return true, nil
	}

	buf, err := table.Encode(t, table.Options{Schema: s, TableNameHint: name})
	if err != nil {
		return false, err
	}
	p.Insert(rf.Path, buf)
	return false, nil
}

func optimizeLoc(p *pack.Pack, rf *pack.RFile, deps *dependencies.Dependencies, opts Options) (bool, error) {
	raw, err := p.ReadFile(rf)
	if err != nil {
		return false, err
	}
	l, err := loc.Decode(raw)
	if err != nil {
		return false, nil
	}

	masterRows := mergedMasterLocRowStrings(deps)

	var kept []loc.Row
	seen := map[string]bool{}
	for _, row := range l.Rows {
		key := row.Key + "\x00" + row.Value

		if opts.RemoveITM && masterRows[key] {
			continue
		}
		if opts.RemoveDuplicateRows {
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		kept = append(kept, row)
	}

	if len(kept) == len(l.Rows) {
		return false, nil
	}
	l.Rows = kept

	if len(l.Rows) == 0 && opts.RemoveEmptyFiles {
		p.Remove(rf.Path)
		return true, nil
	}

	p.Insert(rf.Path, loc.Encode(l))
	return false, nil
}

func optimizePortraitSettings(p *pack.Pack, rf *pack.RFile, deps *dependencies.Dependencies, opts Options) error {
	raw, err := p.ReadFile(rf)
	if err != nil {
		return err
	}
	f, err := portrait.Decode(raw)
	if err != nil {
		return nil
	}
	changed := false

	if opts.ClearEmptyMasks {
		if portrait.ClearEmptyMasks(f) > 0 {
			changed = true
		}
	}

	if opts.RemoveUnusedVariants && deps != nil {
		names := deps.DBValuesFromTableNameAndColumnName("variants_tables", "variant_filename")
		if names != nil {
			for i := range f.Entries {
				kept := f.Entries[i].Variants[:0]
				for _, v := range f.Entries[i].Variants {
					if _, ok := names[v.Filename]; ok {
						kept = append(kept, v)
					} else {
						changed = true
					}
				}
				f.Entries[i].Variants = kept
			}
		}
	}

	if opts.RemoveUnusedArtSets && deps != nil {
		ids := deps.DBValuesFromTableNameAndColumnName("campaign_character_arts_tables", "art_set_id")
		if ids != nil {
			kept := f.Entries[:0]
			for _, e := range f.Entries {
				if _, ok := ids[e.ID]; ok {
					kept = append(kept, e)
				} else {
					changed = true
				}
			}
			f.Entries = kept
		}
	}

	if changed {
		p.Insert(rf.Path, portrait.Encode(f))
	}
	return nil
}

// removeTextByproducts drops .xml files sitting next to a .bin/.agf/
// .model_statistics file of the same base name. Only paths in paths are
// considered, and the directory is not checked: a matching pair is removed
// wherever it sits, not only in map/prefab export directories.
func removeTextByproducts(p *pack.Pack, paths []string) map[string]bool {
	siblings := map[string]bool{}
	for _, cp := range paths {
		ext := strings.ToLower(path.Ext(cp))
		if byproductExtensions[ext] {
			siblings[strings.TrimSuffix(cp, ext)] = true
		}
	}

	removed := map[string]bool{}
	for _, cp := range paths {
		if strings.ToLower(path.Ext(cp)) != ".xml" {
			continue
		}
		if siblings[strings.TrimSuffix(cp, ".xml")] {
			p.Remove(cp)
			removed[cp] = true
		}
	}
	return removed
}

func rowString(row table.Row) string {
	parts := make([]string, len(row))
	for i, d := range row {
		parts[i] = d.String()
	}
	return strings.Join(parts, "\x1f")
}

func newRowString(def *schema.Definition) string {
	row := make(table.Row, len(def.Fields))
	for i, f := range def.Fields {
		row[i] = table.NewFromDefault(f)
	}
	return rowString(row)
}

// mergedMasterRowStrings returns every row (as its rowString form) present
// in any base or parent archive's decoding of tableName, the comparison set
// for the ITM rule.
func mergedMasterRowStrings(deps *dependencies.Dependencies, tableName string) map[string]bool {
	out := map[string]bool{}
	if deps == nil {
		return out
	}
	for _, t := range deps.DBData(tableName) {
		for _, row := range t.Rows {
			out[rowString(row)] = true
		}
	}
	return out
}

// mergedMasterLocRowStrings returns every loc row (as its "key\x00value"
// comparison form) present in any base or parent archive's Loc files, the
// comparison set for the Loc ITM rule.
func mergedMasterLocRowStrings(deps *dependencies.Dependencies) map[string]bool {
	out := map[string]bool{}
	if deps == nil {
		return out
	}
	for _, l := range deps.LocData() {
		for _, row := range l.Rows {
			out[row.Key+"\x00"+row.Value] = true
		}
	}
	return out
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
