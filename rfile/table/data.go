// Package table implements the DB-table typed file codec of spec.md §3.4
// and §4.3.1: schema-driven decode/encode of fixed-shape rows out of a
// Pack entry's bytes.
package table

import (
	"strconv"

	"github.com/rpfm-go/rpfmcore/rerr"
	"github.com/rpfm-go/rpfmcore/schema"
)

// Data is the tagged union every row cell holds, one arm per
// schema.FieldKind (spec.md §3.4).
type Data struct {
	Kind schema.FieldKind

	Bool bool
	Int  int64
	UInt uint64
	F64  float64
	Str  string
	Seq  []Row
}

// Row is a fixed-length vector of Data whose length and per-index Kind must
// match the owning Definition's Fields (spec.md §3.4 invariant).
type Row []Data

// Validate checks a row's shape against def, returning the spec.md §7
// errors RowWrongFieldCount / WrongFieldType when it doesn't match.
func (r Row) Validate(def *schema.Definition) error {
	if len(r) != len(def.Fields) {
		return rerr.RowWrongFieldCount(len(def.Fields), len(r))
	}
	for i, f := range def.Fields {
		if r[i].Kind != f.Kind {
			return rerr.WrongFieldType(f.Kind.String(), r[i].Kind.String())
		}
	}
	return nil
}

// String renders a cell as its canonical textual form, used by TSV export
// and by the optimiser's float-rounded equality check (spec.md §4.7:
// `format("{:.4}", v)` for both f32 and f64).
func (d Data) String() string {
	switch d.Kind {
	case schema.KindBoolean:
		if d.Bool {
			return "true"
		}
		return "false"
	case schema.KindI8, schema.KindI16, schema.KindI32, schema.KindI64:
		return strconv.FormatInt(d.Int, 10)
	case schema.KindU8, schema.KindU16, schema.KindU32, schema.KindU64:
		return strconv.FormatUint(d.UInt, 10)
	case schema.KindF32, schema.KindF64:
		return strconv.FormatFloat(d.F64, 'f', 4, 64)
	default:
		return d.Str
	}
}

// NewFromDefault builds a Data cell from a field's declared default string,
// used for keyless "new row" templates (spec.md §4.2's NewRow helper).
func NewFromDefault(f schema.Field) Data {
	switch f.Kind {
	case schema.KindBoolean:
		return Data{Kind: f.Kind, Bool: f.Default == "true"}
	case schema.KindI8, schema.KindI16, schema.KindI32, schema.KindI64:
		v, _ := strconv.ParseInt(f.Default, 10, 64)
		return Data{Kind: f.Kind, Int: v}
	case schema.KindU8, schema.KindU16, schema.KindU32, schema.KindU64:
		v, _ := strconv.ParseUint(f.Default, 10, 64)
		return Data{Kind: f.Kind, UInt: v}
	case schema.KindF32, schema.KindF64:
		v, _ := strconv.ParseFloat(f.Default, 64)
		return Data{Kind: f.Kind, F64: v}
	case schema.KindSequence:
		return Data{Kind: f.Kind}
	default:
		return Data{Kind: f.Kind, Str: f.Default}
	}
}
