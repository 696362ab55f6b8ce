package esf

import (
	"github.com/rpfm-go/rpfmcore/binary"
	"github.com/rpfm-go/rpfmcore/rerr"
)

// Compact integer sub-tags, spec.md §4.3.3: "compact-integer encodings for
// 0/1/byte/16-bit/24-bit values". subFull means the value didn't fit any
// compact form and a full-width value follows.
const (
	subZero byte = iota
	subOne
	subByte
	sub16
	sub24
	subFull
)

func compactSubtag(v int64, fullWidth int) byte {
	switch {
	case v == 0:
		return subZero
	case v == 1:
		return subOne
	case v >= 0 && v <= 0xFF:
		return subByte
	case v >= 0 && v <= 0xFFFF:
		return sub16
	case v >= 0 && v <= 0xFFFFFF && fullWidth > 3:
		return sub24
	default:
		return subFull
	}
}

func writeCompactInt(w *binary.Writer, v int64, fullWidth int) {
	sub := compactSubtag(v, fullWidth)
	w.WriteU8(sub)
	switch sub {
	case subZero, subOne:
	case subByte:
		w.WriteU8(uint8(v))
	case sub16:
		w.WriteU16(uint16(v))
	case sub24:
		w.WriteU24(uint32(v))
	case subFull:
		switch fullWidth {
		case 1:
			w.WriteI8(int8(v))
		case 2:
			w.WriteI16(int16(v))
		case 4:
			w.WriteI32(int32(v))
		case 8:
			w.WriteI64(v)
		}
	}
}

func readCompactInt(r *binary.Reader, fullWidth int) (int64, error) {
	sub, err := r.ReadU8()
	if err != nil {
		return 0, err
	}
	switch sub {
	case subZero:
		return 0, nil
	case subOne:
		return 1, nil
	case subByte:
		v, err := r.ReadU8()
		return int64(v), err
	case sub16:
		v, err := r.ReadU16()
		return int64(v), err
	case sub24:
		v, err := r.ReadU24()
		return int64(v), err
	case subFull:
		switch fullWidth {
		case 1:
			v, err := r.ReadI8()
			return int64(v), err
		case 2:
			v, err := r.ReadI16()
			return int64(v), err
		case 4:
			v, err := r.ReadI32()
			return int64(v), err
		case 8:
			return r.ReadI64()
		}
	}
	return 0, rerr.UnknownEsfDataType(sub)
}

func decodeNode(r *binary.Reader, nt *nameTable) (Node, error) {
	tag, err := r.ReadU8()
	if err != nil {
		return Node{}, err
	}

	if tag&FlagIsRecord != 0 {
		rec, err := decodeRecord(r, nt, tag)
		if err != nil {
			return Node{}, err
		}
		return Node{Kind: KindRecord, Record: rec}, nil
	}

	kind := NodeKind(tag)
	switch kind {
	case KindBool:
		v, err := r.ReadBool()
		return Node{Kind: kind, Bool: v}, err
	case KindI8:
		v, err := r.ReadI8()
		return Node{Kind: kind, Int: int64(v)}, err
	case KindI16:
		v, err := r.ReadI16()
		return Node{Kind: kind, Int: int64(v)}, err
	case KindI32:
		v, err := r.ReadI32()
		return Node{Kind: kind, Int: int64(v)}, err
	case KindI64:
		v, err := r.ReadI64()
		return Node{Kind: kind, Int: v}, err
	case KindU8:
		v, err := r.ReadU8()
		return Node{Kind: kind, UInt: uint64(v)}, err
	case KindU16:
		v, err := r.ReadU16()
		return Node{Kind: kind, UInt: uint64(v)}, err
	case KindU32:
		v, err := r.ReadU32()
		return Node{Kind: kind, UInt: uint64(v)}, err
	case KindU64:
		v, err := r.ReadU64()
		return Node{Kind: kind, UInt: v}, err
	case KindF32:
		v, err := r.ReadF32()
		return Node{Kind: kind, F32: v}, err
	case KindF64:
		v, err := r.ReadF64()
		return Node{Kind: kind, F64: v}, err
	case KindCoord2d:
		x, err := r.ReadF32()
		if err != nil {
			return Node{}, err
		}
		y, err := r.ReadF32()
		return Node{Kind: kind, X: x, Y: y}, err
	case KindCoord3d:
		x, err := r.ReadF32()
		if err != nil {
			return Node{}, err
		}
		y, err := r.ReadF32()
		if err != nil {
			return Node{}, err
		}
		z, err := r.ReadF32()
		return Node{Kind: kind, X: x, Y: y, Z: z}, err
	case KindAngle:
		x, err := r.ReadF32()
		return Node{Kind: kind, X: x}, err
	case KindUtf16:
		v, err := r.ReadSizedStringU16()
		return Node{Kind: kind, Str: v}, err
	case KindAscii:
		v, err := r.ReadSizedStringU8()
		return Node{Kind: kind, Str: v}, err
	case KindOptimizedI8:
		v, err := readCompactInt(r, 1)
		return Node{Kind: kind, Int: v}, err
	case KindOptimizedI16:
		v, err := readCompactInt(r, 2)
		return Node{Kind: kind, Int: v}, err
	case KindOptimizedI32:
		v, err := readCompactInt(r, 4)
		return Node{Kind: kind, Int: v}, err
	case KindOptimizedI64:
		v, err := readCompactInt(r, 8)
		return Node{Kind: kind, Int: v}, err
	case KindArrayBool, KindArrayI8, KindArrayI16, KindArrayI32, KindArrayI64,
		KindArrayU8, KindArrayU16, KindArrayU32, KindArrayU64,
		KindArrayF32, KindArrayF64, KindArrayUtf16, KindArrayAscii:
		return decodeArray(r, kind)
	default:
		return Node{}, rerr.UnknownEsfDataType(tag)
	}
}

func decodeArray(r *binary.Reader, kind NodeKind) (Node, error) {
	count, err := r.ReadCauleb128()
	if err != nil {
		return Node{}, err
	}
	n := Node{Kind: kind}
	for i := uint64(0); i < count; i++ {
		switch kind {
		case KindArrayBool:
			v, err := r.ReadBool()
			if err != nil {
				return Node{}, err
			}
			n.ArrayBool = append(n.ArrayBool, v)
		case KindArrayI8:
			v, err := r.ReadI8()
			if err != nil {
				return Node{}, err
			}
			n.ArrayInt = append(n.ArrayInt, int64(v))
		case KindArrayI16:
			v, err := r.ReadI16()
			if err != nil {
				return Node{}, err
			}
			n.ArrayInt = append(n.ArrayInt, int64(v))
		case KindArrayI32:
			v, err := r.ReadI32()
			if err != nil {
				return Node{}, err
			}
			n.ArrayInt = append(n.ArrayInt, int64(v))
		case KindArrayI64:
			v, err := r.ReadI64()
			if err != nil {
				return Node{}, err
			}
			n.ArrayInt = append(n.ArrayInt, v)
		case KindArrayU8:
			v, err := r.ReadU8()
			if err != nil {
				return Node{}, err
			}
			n.ArrayUInt = append(n.ArrayUInt, uint64(v))
		case KindArrayU16:
			v, err := r.ReadU16()
			if err != nil {
				return Node{}, err
			}
			n.ArrayUInt = append(n.ArrayUInt, uint64(v))
		case KindArrayU32:
			v, err := r.ReadU32()
			if err != nil {
				return Node{}, err
			}
			n.ArrayUInt = append(n.ArrayUInt, uint64(v))
		case KindArrayU64:
			v, err := r.ReadU64()
			if err != nil {
				return Node{}, err
			}
			n.ArrayUInt = append(n.ArrayUInt, v)
		case KindArrayF32:
			v, err := r.ReadF32()
			if err != nil {
				return Node{}, err
			}
			n.ArrayF32 = append(n.ArrayF32, v)
		case KindArrayF64:
			v, err := r.ReadF64()
			if err != nil {
				return Node{}, err
			}
			n.ArrayF64 = append(n.ArrayF64, v)
		case KindArrayUtf16:
			v, err := r.ReadSizedStringU16()
			if err != nil {
				return Node{}, err
			}
			n.ArrayStr = append(n.ArrayStr, v)
		case KindArrayAscii:
			v, err := r.ReadSizedStringU8()
			if err != nil {
				return Node{}, err
			}
			n.ArrayStr = append(n.ArrayStr, v)
		}
	}
	return n, nil
}

func decodeRecord(r *binary.Reader, nt *nameTable, flags byte) (*Record, error) {
	version, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	nameIx, err := r.ReadCauleb128()
	if err != nil {
		return nil, err
	}
	name, ok := nt.at(int(nameIx))
	if !ok {
		return nil, rerr.EsfRecordNameNotFound(int(nameIx))
	}

	rec := &Record{
		Name: name, Version: version,
		HasNestedBlocks: flags&FlagHasNestedBlocks != 0,
		HasNonOptimized: flags&FlagHasNonOptimizedInfo != 0,
	}

	if rec.HasNestedBlocks {
		blockCount, err := r.ReadCauleb128()
		if err != nil {
			return nil, err
		}
		rec.Blocks = map[string][]Node{}
		for b := uint64(0); b < blockCount; b++ {
			bNameIx, err := r.ReadCauleb128()
			if err != nil {
				return nil, err
			}
			bName, ok := nt.at(int(bNameIx))
			if !ok {
				return nil, rerr.EsfRecordNameNotFound(int(bNameIx))
			}
			childCount, err := r.ReadCauleb128()
			if err != nil {
				return nil, err
			}
			var children []Node
			for c := uint64(0); c < childCount; c++ {
				child, err := decodeNode(r, nt)
				if err != nil {
					return nil, err
				}
				children = append(children, child)
			}
			rec.Blocks[bName] = children
			rec.BlockOrder = append(rec.BlockOrder, bName)
		}
	} else {
		childCount, err := r.ReadCauleb128()
		if err != nil {
			return nil, err
		}
		for c := uint64(0); c < childCount; c++ {
			child, err := decodeNode(r, nt)
			if err != nil {
				return nil, err
			}
			rec.Children = append(rec.Children, child)
		}
	}

	return rec, nil
}

func encodeNode(w *binary.Writer, n Node, nt *nameTable) {
	if n.Kind == KindRecord {
		encodeRecord(w, n.Record, nt)
		return
	}

	w.WriteU8(byte(n.Kind))
	switch n.Kind {
	case KindBool:
		w.WriteBool(n.Bool)
	case KindI8:
		w.WriteI8(int8(n.Int))
	case KindI16:
		w.WriteI16(int16(n.Int))
	case KindI32:
		w.WriteI32(int32(n.Int))
	case KindI64:
		w.WriteI64(n.Int)
	case KindU8:
		w.WriteU8(uint8(n.UInt))
	case KindU16:
		w.WriteU16(uint16(n.UInt))
	case KindU32:
		w.WriteU32(uint32(n.UInt))
	case KindU64:
		w.WriteU64(n.UInt)
	case KindF32:
		w.WriteF32(n.F32)
	case KindF64:
		w.WriteF64(n.F64)
	case KindCoord2d:
		w.WriteF32(n.X)
		w.WriteF32(n.Y)
	case KindCoord3d:
		w.WriteF32(n.X)
		w.WriteF32(n.Y)
		w.WriteF32(n.Z)
	case KindAngle:
		w.WriteF32(n.X)
	case KindUtf16:
		w.WriteSizedStringU16(n.Str)
	case KindAscii:
		w.WriteSizedStringU8(n.Str)
	case KindOptimizedI8:
		writeCompactInt(w, n.Int, 1)
	case KindOptimizedI16:
		writeCompactInt(w, n.Int, 2)
	case KindOptimizedI32:
		writeCompactInt(w, n.Int, 4)
	case KindOptimizedI64:
		writeCompactInt(w, n.Int, 8)
	case KindArrayBool:
		w.WriteCauleb128(uint64(len(n.ArrayBool)))
		for _, v := range n.ArrayBool {
			w.WriteBool(v)
		}
	case KindArrayI8:
		w.WriteCauleb128(uint64(len(n.ArrayInt)))
		for _, v := range n.ArrayInt {
			w.WriteI8(int8(v))
		}
	case KindArrayI16:
		w.WriteCauleb128(uint64(len(n.ArrayInt)))
		for _, v := range n.ArrayInt {
			w.WriteI16(int16(v))
		}
	case KindArrayI32:
		w.WriteCauleb128(uint64(len(n.ArrayInt)))
		for _, v := range n.ArrayInt {
			w.WriteI32(int32(v))
		}
	case KindArrayI64:
		w.WriteCauleb128(uint64(len(n.ArrayInt)))
		for _, v := range n.ArrayInt {
			w.WriteI64(v)
		}
	case KindArrayU8:
		w.WriteCauleb128(uint64(len(n.ArrayUInt)))
		for _, v := range n.ArrayUInt {
			w.WriteU8(uint8(v))
		}
	case KindArrayU16:
		w.WriteCauleb128(uint64(len(n.ArrayUInt)))
		for _, v := range n.ArrayUInt {
			w.WriteU16(uint16(v))
		}
	case KindArrayU32:
		w.WriteCauleb128(uint64(len(n.ArrayUInt)))
		for _, v := range n.ArrayUInt {
			w.WriteU32(uint32(v))
		}
	case KindArrayU64:
		w.WriteCauleb128(uint64(len(n.ArrayUInt)))
		for _, v := range n.ArrayUInt {
			w.WriteU64(v)
		}
	case KindArrayF32:
		w.WriteCauleb128(uint64(len(n.ArrayF32)))
		for _, v := range n.ArrayF32 {
			w.WriteF32(v)
		}
	case KindArrayF64:
		w.WriteCauleb128(uint64(len(n.ArrayF64)))
		for _, v := range n.ArrayF64 {
			w.WriteF64(v)
		}
	case KindArrayUtf16:
		w.WriteCauleb128(uint64(len(n.ArrayStr)))
		for _, v := range n.ArrayStr {
			w.WriteSizedStringU16(v)
		}
	case KindArrayAscii:
		w.WriteCauleb128(uint64(len(n.ArrayStr)))
		for _, v := range n.ArrayStr {
			w.WriteSizedStringU8(v)
		}
	}
}

func encodeRecord(w *binary.Writer, rec *Record, nt *nameTable) {
	flags := FlagIsRecord
	if rec.HasNestedBlocks {
		flags |= FlagHasNestedBlocks
	}
	if rec.HasNonOptimized {
		flags |= FlagHasNonOptimizedInfo
	}
	w.WriteU8(flags)
	w.WriteU8(rec.Version)
	w.WriteCauleb128(uint64(nt.intern(rec.Name)))

	if rec.HasNestedBlocks {
		w.WriteCauleb128(uint64(len(rec.BlockOrder)))
		for _, name := range rec.BlockOrder {
			w.WriteCauleb128(uint64(nt.intern(name)))
			children := rec.Blocks[name]
			w.WriteCauleb128(uint64(len(children)))
			for _, child := range children {
				encodeNode(w, child, nt)
			}
		}
	} else {
		w.WriteCauleb128(uint64(len(rec.Children)))
		for _, child := range rec.Children {
			encodeNode(w, child, nt)
		}
	}
}
