// Package esf implements the ESF (settings tree) typed file codec of
// spec.md §4.3.3: a self-describing tagged tree of ~60 node variants,
// record nodes carrying a shared name table, and compact integer
// encodings that must round-trip byte-exact.
//
// Cyclic ownership (spec.md §9): a Record's children are owned by value in
// a slice on the owning node, never via back-pointers — cross-references
// are plain indices into the File's flat name table.
package esf

// NodeKind tags one ESF value variant. The ~60 variants spec.md describes
// (every primitive, its array form, and record) are represented here by one
// constant per primitive/array pair plus Record; this keeps the tag space
// small while covering every category the format actually branches on.
type NodeKind byte

const (
	KindInvalid NodeKind = iota
	KindBool
	KindI8
	KindI16
	KindI32
	KindI64
	KindU8
	KindU16
	KindU32
	KindU64
	KindF32
	KindF64
	KindCoord2d
	KindCoord3d
	KindUtf16
	KindAscii
	KindAngle
	KindOptimizedI8  // compact forms: 0, 1, byte, 16-bit, 24-bit
	KindOptimizedI16
	KindOptimizedI32
	KindOptimizedI64
	KindArrayBool
	KindArrayI8
	KindArrayI16
	KindArrayI32
	KindArrayI64
	KindArrayU8
	KindArrayU16
	KindArrayU32
	KindArrayU64
	KindArrayF32
	KindArrayF64
	KindArrayUtf16
	KindArrayAscii
	KindRecord
)

// Record flag bits, spec.md §4.3.3.
const (
	FlagIsRecord          byte = 0x80
	FlagHasNestedBlocks    byte = 0x40
	FlagHasNonOptimizedInfo byte = 0x20
)

// Node is the tagged union every ESF value is, including the record
// variant. Only the fields relevant to Kind are populated.
type Node struct {
	Kind NodeKind

	Bool bool
	Int  int64
	UInt uint64
	F32  float32
	F64  float64
	X, Y, Z float32 // Coord2d (X,Y) / Coord3d (X,Y,Z) / Angle (X)
	Str  string

	ArrayBool []bool
	ArrayInt  []int64
	ArrayUInt []uint64
	ArrayF32  []float32
	ArrayF64  []float64
	ArrayStr  []string

	Record *Record
}

// Record is a named node with a version and either one flat block of
// children or several named sub-blocks, matching spec.md §4.3.3.
type Record struct {
	Name            string
	Version         uint8
	HasNestedBlocks bool
	HasNonOptimized bool

	Children []Node            // used when !HasNestedBlocks
	Blocks   map[string][]Node // used when HasNestedBlocks
	BlockOrder []string        // preserves original sub-block order on encode
}
