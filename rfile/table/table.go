package table

import (
	"github.com/google/uuid"

	"github.com/rpfm-go/rpfmcore/binary"
	"github.com/rpfm-go/rpfmcore/rerr"
	"github.com/rpfm-go/rpfmcore/schema"
)

// guidSignature is the 4-byte marker that precedes a DB table's optional
// GUID, spec.md §4.3.1.
var guidSignature = [4]byte{0xFC, 0xFD, 0xFE, 0xFF}

// Table is a decoded DB file: spec.md §3.4.
type Table struct {
	Name              string
	DefinitionVersion int
	GUID              string
	MysteriousByte    bool
	Rows              []Row
}

// Options configures Decode/Encode, threaded in from rfile.Extra by the
// dispatcher.
type Options struct {
	Schema           *schema.Schema
	RegenerateGUID   bool
	TableNameHint    string // derived from the container path, db/<table>/...
}

// Decode parses a DB table out of buf per spec.md §4.3.1: an optional
// signature, an optional GUID, the definition version, a mysterious byte,
// a row count, then that many rows shaped by the matching Definition.
func Decode(buf []byte, opts Options) (*Table, error) {
	r := binary.NewReader(buf)

	if r.Remaining() >= 4 {
		peek, _ := r.ReadSlice(4)
		if [4]byte(peek) != guidSignature {
			r.Seek(0)
		}
	}

	guid, err := r.ReadOptionalStringU16()
	if err != nil {
		return nil, err
	}

	version, err := r.ReadI32()
	if err != nil {
		return nil, err
	}

	mysterious, err := r.ReadBool()
	if err != nil {
		return nil, err
	}

	rowCount, err := r.ReadU32()
	if err != nil {
		return nil, err
	}

	def, ok := opts.Schema.HighestDefinitionAtMost(opts.TableNameHint, int(version))
	if !ok {
		if rowCount == 0 {
			return nil, rerr.DbNoDefinitionsAndEmpty(opts.TableNameHint)
		}
		return nil, rerr.DbNoDefinitionsFound(opts.TableNameHint)
	}

	rows := make([]Row, 0, rowCount)
	for i := uint32(0); i < rowCount; i++ {
		row, err := decodeRow(r, def.Fields, int(i))
		if err != nil {
			return nil, rerr.TableIncomplete(err.Error(), len(rows))
		}
		rows = append(rows, row)
	}

	return &Table{
		Name:              opts.TableNameHint,
		DefinitionVersion: def.Version,
		GUID:              guid,
		MysteriousByte:    mysterious,
		Rows:              rows,
	}, nil
}

func decodeRow(r *binary.Reader, fields []schema.Field, rowIdx int) (Row, error) {
	row := make(Row, len(fields))
	for col, f := range fields {
		d, err := decodeField(r, f, rowIdx, col)
		if err != nil {
			return nil, rerr.DecodeFieldError(rowIdx, col, f.Kind.String(), err)
		}
		row[col] = d
	}
	return row, nil
}

func decodeField(r *binary.Reader, f schema.Field, rowIdx, col int) (Data, error) {
	switch f.Kind {
	case schema.KindBoolean:
		v, err := r.ReadBool()
		return Data{Kind: f.Kind, Bool: v}, err
	case schema.KindI8:
		v, err := r.ReadI8()
		return Data{Kind: f.Kind, Int: int64(v)}, err
	case schema.KindI16:
		v, err := r.ReadI16()
		return Data{Kind: f.Kind, Int: int64(v)}, err
	case schema.KindI32:
		v, err := r.ReadI32()
		return Data{Kind: f.Kind, Int: int64(v)}, err
	case schema.KindI64:
		v, err := r.ReadI64()
		return Data{Kind: f.Kind, Int: v}, err
	case schema.KindU8:
		v, err := r.ReadU8()
		return Data{Kind: f.Kind, UInt: uint64(v)}, err
	case schema.KindU16:
		v, err := r.ReadU16()
		return Data{Kind: f.Kind, UInt: uint64(v)}, err
	case schema.KindU32:
		v, err := r.ReadU32()
		return Data{Kind: f.Kind, UInt: uint64(v)}, err
	case schema.KindU64:
		v, err := r.ReadU64()
		return Data{Kind: f.Kind, UInt: v}, err
	case schema.KindF32:
		v, err := r.ReadF32()
		return Data{Kind: f.Kind, F64: float64(v)}, err
	case schema.KindF64:
		v, err := r.ReadF64()
		return Data{Kind: f.Kind, F64: v}, err
	case schema.KindStringU8:
		v, err := r.ReadSizedStringU8()
		return Data{Kind: f.Kind, Str: v}, err
	case schema.KindStringU16:
		v, err := r.ReadSizedStringU16()
		return Data{Kind: f.Kind, Str: v}, err
	case schema.KindOptionalStringU8:
		v, err := r.ReadOptionalStringU8()
		return Data{Kind: f.Kind, Str: v}, err
	case schema.KindOptionalStringU16:
		v, err := r.ReadOptionalStringU16()
		return Data{Kind: f.Kind, Str: v}, err
	case schema.KindColour:
		v, err := r.ReadStringColourRGB()
		return Data{Kind: f.Kind, Str: v}, err
	case schema.KindSequence:
		count, err := r.ReadU32()
		if err != nil {
			return Data{}, err
		}
		seq := make([]Row, 0, count)
		for i := uint32(0); i < count; i++ {
			sub, err := decodeRow(r, f.Fields, rowIdx)
			if err != nil {
				return Data{}, rerr.SequenceIndexError(rowIdx, col, r.Pos(), f.Kind.String())
			}
			seq = append(seq, sub)
		}
		return Data{Kind: f.Kind, Seq: seq}, nil
	default:
		return Data{}, rerr.WrongFieldType("known field kind", f.Kind.String())
	}
}

// Encode writes t back to bytes per the current (newest) definition for its
// table, regenerating the GUID when opts.RegenerateGUID is set (spec.md
// §4.3.1: "Encode emits the current definition's version").
func Encode(t *Table, opts Options) ([]byte, error) {
	def, ok := opts.Schema.CurrentDefinition(opts.TableNameHint)
	if !ok {
		return nil, rerr.DbNoDefinitionsFound(opts.TableNameHint)
	}

	w := binary.NewWriter()
	w.WriteSlice(guidSignature[:])

	guid := t.GUID
	if opts.RegenerateGUID {
		guid = uuid.NewString()
	}
	w.WriteOptionalStringU16(guid)
	w.WriteI32(int32(def.Version))
	w.WriteBool(t.MysteriousByte)
	w.WriteU32(uint32(len(t.Rows)))

	for _, row := range t.Rows {
		if err := row.Validate(def); err != nil {
			return nil, err
		}
		if err := encodeRow(w, row); err != nil {
			return nil, err
		}
	}
	return w.Bytes(), nil
}

func encodeRow(w *binary.Writer, row Row) error {
	for _, d := range row {
		if err := encodeField(w, d); err != nil {
			return err
		}
	}
	return nil
}

func encodeField(w *binary.Writer, d Data) error {
	switch d.Kind {
	case schema.KindBoolean:
		w.WriteBool(d.Bool)
	case schema.KindI8:
		w.WriteI8(int8(d.Int))
	case schema.KindI16:
		w.WriteI16(int16(d.Int))
	case schema.KindI32:
		w.WriteI32(int32(d.Int))
	case schema.KindI64:
		w.WriteI64(d.Int)
	case schema.KindU8:
		w.WriteU8(uint8(d.UInt))
	case schema.KindU16:
		w.WriteU16(uint16(d.UInt))
	case schema.KindU32:
		w.WriteU32(uint32(d.UInt))
	case schema.KindU64:
		w.WriteU64(d.UInt)
	case schema.KindF32:
		w.WriteF32(float32(d.F64))
	case schema.KindF64:
		w.WriteF64(d.F64)
	case schema.KindStringU8:
		w.WriteSizedStringU8(d.Str)
	case schema.KindStringU16:
		w.WriteSizedStringU16(d.Str)
	case schema.KindOptionalStringU8:
		w.WriteOptionalStringU8(d.Str)
	case schema.KindOptionalStringU16:
		w.WriteOptionalStringU16(d.Str)
	case schema.KindColour:
		return w.WriteStringColourRGB(d.Str)
	case schema.KindSequence:
		w.WriteU32(uint32(len(d.Seq)))
		for _, sub := range d.Seq {
			if err := encodeRow(w, sub); err != nil {
				return err
			}
		}
	default:
		return rerr.WrongFieldType("known field kind", d.Kind.String())
	}
	return nil
}

// NewRow builds a default-valued Row for def, used by editors to append a
// blank row (spec.md §6: "new_row" helper).
func NewRow(def *schema.Definition) Row {
	row := make(Row, len(def.Fields))
	for i, f := range def.Fields {
		row[i] = NewFromDefault(f)
	}
	return row
}
