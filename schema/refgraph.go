package schema

// Edge is one field-level reference from (table, field) to
// (Reference.Table, Reference.Column), as scanned out of every Definition's
// fields (spec.md §4.2: "Reference graph is derivable by scanning every
// field's reference").
type Edge struct {
	FromTable  string
	FromField  string
	ToTable    string
	ToColumn   string
}

// ReferenceGraph scans every table's newest Definition for reference fields
// and returns the flattened edge list. Older definition versions are not
// scanned since references are a property of the current schema shape, not
// of historical ones.
func (s *Schema) ReferenceGraph() []Edge {
	var edges []Edge
	for _, table := range s.TableNames() {
		def, ok := s.CurrentDefinition(table)
		if !ok {
			continue
		}
		edges = append(edges, referencesOf(table, def.Fields)...)
	}
	return edges
}

func referencesOf(table string, fields []Field) []Edge {
	var edges []Edge
	for _, f := range fields {
		if f.Reference != nil {
			edges = append(edges, Edge{
				FromTable: table, FromField: f.Name,
				ToTable: f.Reference.Table, ToColumn: f.Reference.Column,
			})
		}
		if f.Kind == KindSequence {
			edges = append(edges, referencesOf(table, f.Fields)...)
		}
	}
	return edges
}

// ReferencesTo returns every edge in the graph whose target is
// (table, column): the fields that would break if that column were renamed.
func (s *Schema) ReferencesTo(table, column string) []Edge {
	var out []Edge
	for _, e := range s.ReferenceGraph() {
		if e.ToTable == table && e.ToColumn == column {
			out = append(out, e)
		}
	}
	return out
}
