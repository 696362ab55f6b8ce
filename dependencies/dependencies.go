// Package dependencies implements the dependencies cache of spec.md §3.5/
// §4.5: a merged, indexed view of base-game and parent archives a Pack is
// edited against, optionally augmented with assembly-kit exports.
package dependencies

import (
	"strings"
	"sync"

	"github.com/rpfm-go/rpfmcore/pack"
	"github.com/rpfm-go/rpfmcore/rerr"
	"github.com/rpfm-go/rpfmcore/rfile"
	"github.com/rpfm-go/rpfmcore/rfile/loc"
	"github.com/rpfm-go/rpfmcore/rfile/table"
	"github.com/rpfm-go/rpfmcore/schema"
)

// GameInfo is the minimal environment descriptor the core needs from its
// caller (spec.md §6): enough to enumerate base archives in load order. The
// richer descriptor (executable name, install-type detection, and so on)
// belongs to the front-end; the core only consumes what rebuild needs.
type GameInfo struct {
	Key              string
	BaseArchivePaths []string // already resolved, in declared load order
}

// lookupKey identifies one (table, column) pair in the value→lookup index.
type lookupKey struct {
	Table  string
	Column string
}

// Dependencies is the frozen, read-only-after-rebuild snapshot of spec.md
// §3.5: queries distinguish base, parent, and either.
type Dependencies struct {
	mu sync.RWMutex

	baseFiles   map[string]*pack.RFile
	parentFiles map[string]*pack.RFile

	dbTables map[string]*table.Table // container path -> decoded table
	locFiles map[string]*loc.Loc     // container path -> decoded loc

	lookups map[lookupKey]map[string]string // (table,column) -> value -> lookup string

	Tips Tips

	rebuilt bool
}

// New returns an empty, not-yet-rebuilt Dependencies.
func New() *Dependencies {
	return &Dependencies{
		baseFiles:   map[string]*pack.RFile{},
		parentFiles: map[string]*pack.RFile{},
		dbTables:    map[string]*table.Table{},
		locFiles:    map[string]*loc.Loc{},
		lookups:     map[lookupKey]map[string]string{},
		Tips:        NewTips(),
	}
}

// IsVanillaDataLoaded reports whether rebuild has populated the base index.
func (d *Dependencies) IsVanillaDataLoaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.rebuilt && len(d.baseFiles) > 0
}

// Rebuild enumerates game.BaseArchivePaths in order, overlays parentPackPaths
// on top (later packs in the list win), decodes every DB/Loc file found, and
// rebuilds the (table,column)→lookup indices (spec.md §4.5 steps 1-3).
// Assembly-kit folding (step 4, optional) is not done here: the caller runs
// assemblykit.UpdateSchemaFromRaw on s before calling Rebuild.
func (d *Dependencies) Rebuild(game GameInfo, parentPackPaths []string, s *schema.Schema) error {
	base := map[string]*pack.RFile{}
	if err := overlayArchives(base, game.BaseArchivePaths); err != nil {
		return err
	}

	parents := map[string]*pack.RFile{}
	if err := overlayArchives(parents, parentPackPaths); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.baseFiles = base
	d.parentFiles = parents
	d.dbTables = map[string]*table.Table{}
	d.locFiles = map[string]*loc.Loc{}
	d.lookups = map[lookupKey]map[string]string{}

	d.decodeInto(base, s)
	d.decodeInto(parents, s)
	d.rebuildLookups(s)
	d.rebuilt = true
	return nil
}

func overlayArchives(into map[string]*pack.RFile, paths []string) error {
	for _, p := range paths {
		archive, err := pack.Open(p)
		if err != nil {
			return err
		}
		if err := archive.Preload(); err != nil {
			archive.Close()
			return err
		}
		for cp, rf := range archive.Files {
			into[cp] = rf
		}
		archive.Close()
	}
	return nil
}

// decodeInto decodes every DB and Loc file in files into d's caches,
// overwriting whatever was already decoded at that path (callers pass base
// then parents, so parents win on collision, matching normal Pack overlay
// order). Files that fail to decode are skipped, not fatal — diagnostics
// and the optimiser treat the dependencies cache as best-effort context,
// never a hard precondition on a single bad table.
func (d *Dependencies) decodeInto(files map[string]*pack.RFile, s *schema.Schema) {
	for cp, rf := range files {
		if rf.Storage.Kind != pack.StorageCached {
			continue
		}
		raw := rf.Storage.Cached
		switch rf.FileType {
		case rfile.TypeDB:
			t, err := table.Decode(raw, table.Options{Schema: s, TableNameHint: dbTableName(cp)})
			if err == nil {
				d.dbTables[cp] = t
			}
		case rfile.TypeLoc:
			l, err := loc.Decode(raw)
			if err == nil {
				d.locFiles[cp] = l
			}
		}
	}
}

// dbTableName extracts the table folder name from a db/<table_name>/<file>
// container path.
func dbTableName(containerPath string) string {
	parts := splitPath(containerPath)
	if len(parts) >= 2 && parts[0] == "db" {
		return parts[1]
	}
	return ""
}

func splitPath(p string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(p); i++ {
		if p[i] == '/' {
			parts = append(parts, p[start:i])
			start = i + 1
		}
	}
	parts = append(parts, p[start:])
	return parts
}

// rebuildLookups builds the (table,column)→{value→lookup} index spec.md
// §3.3 describes for Reference fields: a field with Reference set and a
// non-empty Lookup list displays, for each row of the referenced table, the
// concatenation of that row's Lookup columns instead of the raw key value.
// This walks every known definition's fields once and, for each reference
// with a Lookup, scans the referenced table's decoded rows to populate
// d.lookups[{refTable, refColumn}].
func (d *Dependencies) rebuildLookups(s *schema.Schema) {
	if s == nil {
		return
	}
	for _, name := range s.TableNames() {
		def, ok := s.CurrentDefinition(name)
		if !ok {
			continue
		}
		for _, f := range def.Fields {
			if f.Reference == nil || len(f.Lookup) == 0 {
				continue
			}
			d.buildLookupFor(s, f.Reference.Table, f.Reference.Column, f.Lookup)
		}
	}
}

// buildLookupFor scans every decoded table named refTable and, for each of
// its rows, maps the refColumn cell's raw value to the joined string of its
// lookupCols cells.
func (d *Dependencies) buildLookupFor(s *schema.Schema, refTable, refColumn string, lookupCols []string) {
	def, ok := s.CurrentDefinition(refTable)
	if !ok {
		return
	}
	colIdx, lookupIdx := -1, map[int]bool{}
	for i, rf := range def.Fields {
		if rf.Name == refColumn {
			colIdx = i
		}
		for _, lc := range lookupCols {
			if rf.Name == lc {
				lookupIdx[i] = true
			}
		}
	}
	if colIdx < 0 || len(lookupIdx) == 0 {
		return
	}

	key := lookupKey{Table: refTable, Column: refColumn}
	out := d.lookups[key]
	if out == nil {
		out = map[string]string{}
		d.lookups[key] = out
	}

	for cp, t := range d.dbTables {
		if dbTableName(cp) != refTable {
			continue
		}
		for _, row := range t.Rows {
			if colIdx >= len(row) {
				continue
			}
			var parts []string
			for i := range row {
				if lookupIdx[i] {
					parts = append(parts, row[i].String())
				}
			}
			out[row[colIdx].String()] = strings.Join(parts, " ")
		}
	}
}

// FileExists reports whether path is present in the requested scopes.
func (d *Dependencies) FileExists(containerPath string, base, parent bool) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if base {
		if _, ok := d.baseFiles[containerPath]; ok {
			return true
		}
	}
	if parent {
		if _, ok := d.parentFiles[containerPath]; ok {
			return true
		}
	}
	return false
}

// File returns the merged entry for containerPath: the parent copy if one
// exists, otherwise the base copy.
func (d *Dependencies) File(containerPath string) (*pack.RFile, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if rf, ok := d.parentFiles[containerPath]; ok {
		return rf, nil
	}
	if rf, ok := d.baseFiles[containerPath]; ok {
		return rf, nil
	}
	return nil, rerr.FileNotFound(containerPath)
}

// FileMut returns the same entry as File. Kept as a distinct name for API
// parity with callers that want to signal intent to mutate the returned
// RFile in place — in Go the pointer File already returns is mutable, so
// there is no separate read-only view to offer.
func (d *Dependencies) FileMut(containerPath string) (*pack.RFile, error) {
	return d.File(containerPath)
}

// GenerateLocalDBReferences seeds d's lookup index with the rows an
// open-but-not-yet-saved Pack holds for tableNames, so diagnostics run
// against it see reference targets that only exist in the Pack currently
// being edited, not yet in any dependency archive (spec.md §6:
// "generate_local_db_references(&pack, &tables) — this last one seeds
// per-column value sets from the open Pack before diagnostics run").
func (d *Dependencies) GenerateLocalDBReferences(p *pack.Pack, s *schema.Schema, tableNames []string) error {
	if s == nil {
		return nil
	}
	wanted := map[string]bool{}
	for _, n := range tableNames {
		wanted[n] = true
	}

	local := map[string]*table.Table{}
	for _, rf := range p.FilesByType(rfile.TypeDB) {
		name := dbTableName(rf.Path)
		if !wanted[name] {
			continue
		}
		raw, err := p.ReadFile(rf)
		if err != nil {
			return err
		}
		t, err := table.Decode(raw, table.Options{Schema: s, TableNameHint: name})
		if err != nil {
			continue
		}
		local[rf.Path] = t
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for cp, t := range local {
		d.dbTables[cp] = t
	}
	for name := range wanted {
		def, ok := s.CurrentDefinition(name)
		if !ok {
			continue
		}
		for _, f := range def.Fields {
			if f.Reference == nil || len(f.Lookup) == 0 {
				continue
			}
			d.buildLookupFor(s, f.Reference.Table, f.Reference.Column, f.Lookup)
		}
	}
	return nil
}

// DBData returns every decoded DB table whose folder name is tableName,
// merged base+parent, keyed by container path.
func (d *Dependencies) DBData(tableName string) map[string]*table.Table {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := map[string]*table.Table{}
	for cp, t := range d.dbTables {
		if dbTableName(cp) == tableName {
			out[cp] = t
		}
	}
	return out
}

// LocData returns every decoded Loc file, merged base+parent.
func (d *Dependencies) LocData() map[string]*loc.Loc {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make(map[string]*loc.Loc, len(d.locFiles))
	for cp, l := range d.locFiles {
		out[cp] = l
	}
	return out
}

// DBValuesFromTableNameAndColumnName returns the value→lookup map built for
// (tableName, columnName), or nil if rebuild never populated one.
func (d *Dependencies) DBValuesFromTableNameAndColumnName(tableName, columnName string) map[string]string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.lookups[lookupKey{Table: tableName, Column: columnName}]
}
