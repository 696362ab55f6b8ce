package schema

import "strconv"

// Definition is one versioned shape of a table: an ordered list of Fields
// plus a patches map of per-field textual overrides (spec.md §3.3, §9).
type Definition struct {
	Version int
	Fields  []Field

	// Patches is a free-form text→text map keyed "<field>.<patch_key>",
	// parsed lazily by whichever codec cares about that key (spec.md §9:
	// "new patch keys must be ignored by codecs that do not know them").
	Patches map[string]string
}

// Patch reads a single patch value for field/key, returning ok=false if
// absent.
func (d *Definition) Patch(field, key string) (string, bool) {
	if d.Patches == nil {
		return "", false
	}
	v, ok := d.Patches[field+"."+key]
	return v, ok
}

// LookupHardcoded returns the "lookup_hardcoded" patch for field, if the
// assembly-kit importer derived one (spec.md §4.8).
func (d *Definition) LookupHardcoded(field string) (string, bool) {
	return d.Patch(field, "lookup_hardcoded")
}

// KeyIndices returns the positions of the fields flagged IsKey, in field
// order. A keyless table (spec.md §3.3) returns an empty slice.
func (d *Definition) KeyIndices() []int {
	var out []int
	for i, f := range d.Fields {
		if f.IsKey {
			out = append(out, i)
		}
	}
	return out
}

// FieldByName returns the field named name and its index, or ok=false.
func (d *Definition) FieldByName(name string) (Field, int, bool) {
	for i, f := range d.Fields {
		if f.Name == name {
			return f, i, true
		}
	}
	return Field{}, -1, false
}

// NewRowDefaults builds a row of default values as text: each Field's
// Default, or the zero value of its kind when Default is empty. The
// optimiser's ITNR rule builds its own row through table.NewFromDefault.
func (d *Definition) NewRowDefaults() []string {
	out := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		if f.Default != "" {
			out[i] = f.Default
			continue
		}
		out[i] = zeroValueFor(f.Kind)
	}
	return out
}

func zeroValueFor(k FieldKind) string {
	switch k {
	case KindBoolean:
		return "false"
	case KindI8, KindI16, KindI32, KindI64, KindU8, KindU16, KindU32, KindU64:
		return "0"
	case KindF32, KindF64:
		return strconv.FormatFloat(0, 'f', 4, 64)
	case KindColour:
		return "000000"
	default:
		return ""
	}
}
