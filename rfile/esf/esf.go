package esf

import (
	"github.com/rpfm-go/rpfmcore/binary"
	"github.com/rpfm-go/rpfmcore/rerr"
)

// Signature identifies which of the three wire variants a File uses
// (spec.md §4.3.3). Only SignatureCAAB is fully round-trippable.
type Signature string

const (
	SignatureCAAB Signature = "CAAB"
	SignatureCEAB Signature = "CEAB"
	SignatureCFAB Signature = "CFAB"
)

// File is a decoded ESF settings tree.
type File struct {
	Signature Signature
	Root      *Record

	names *nameTable
}

// Decode parses buf into a File. All three signature variants decode;
// only CAAB can be re-encoded (spec.md §4.3.3).
func Decode(buf []byte) (*File, error) {
	r := binary.NewReader(buf)
	sig, err := r.ReadSlice(4)
	if err != nil {
		return nil, err
	}
	s := Signature(sig)
	switch s {
	case SignatureCAAB, SignatureCEAB, SignatureCFAB:
	default:
		return nil, rerr.UnknownEsfSignature(string(sig))
	}

	nameCount, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	nt := newNameTable()
	for i := uint32(0); i < nameCount; i++ {
		name, err := r.ReadStringU8_0Terminated()
		if err != nil {
			return nil, rerr.EsfStringNotFound(int(i))
		}
		nt.intern(name)
	}

	node, err := decodeNode(r, nt)
	if err != nil {
		return nil, err
	}
	if node.Kind != KindRecord {
		return nil, rerr.UnknownEsfDataType(byte(node.Kind))
	}

	return &File{Signature: s, Root: node.Record, names: nt}, nil
}

// Encode serializes f back to bytes. Refuses non-CAAB signatures, which the
// source format only ever reads (spec.md §4.3.3, §9 open question 3).
func Encode(f *File) ([]byte, error) {
	if f.Signature != SignatureCAAB {
		return nil, rerr.UnsupportedFastBinSignature(string(f.Signature))
	}

	nt := f.names
	if nt == nil {
		nt = newNameTable()
		internNames(f.Root, nt)
	}

	w := binary.NewWriter()
	w.WriteSlice([]byte(f.Signature))
	w.WriteU32(uint32(len(nt.names)))
	for _, n := range nt.names {
		w.WriteStringU8_0Terminated(n)
	}

	encodeNode(w, Node{Kind: KindRecord, Record: f.Root}, nt)
	return w.Bytes(), nil
}

func internNames(rec *Record, nt *nameTable) {
	if rec == nil {
		return
	}
	nt.intern(rec.Name)
	if rec.HasNestedBlocks {
		for _, name := range rec.BlockOrder {
			nt.intern(name)
			for _, child := range rec.Blocks[name] {
				if child.Kind == KindRecord {
					internNames(child.Record, nt)
				}
			}
		}
	} else {
		for _, child := range rec.Children {
			if child.Kind == KindRecord {
				internNames(child.Record, nt)
			}
		}
	}
}
