package table

import "github.com/rpfm-go/rpfmcore/rerr"

// Merge concatenates the rows of every table in tables onto the first,
// refusing tables of differing names (spec.md §6's RFileMerge family of
// refusals).
func Merge(tables []*Table) (*Table, error) {
	if len(tables) < 2 {
		return nil, rerr.RFileMergeOnlyOneFileProvided()
	}
	name := tables[0].Name
	out := &Table{
		Name:              name,
		DefinitionVersion: tables[0].DefinitionVersion,
		GUID:              tables[0].GUID,
	}
	for _, t := range tables {
		if t.Name != name {
			return nil, rerr.RFileMergeTablesDifferentNames()
		}
		out.Rows = append(out.Rows, t.Rows...)
	}
	return out, nil
}
