// Package rerr defines the single tagged error type shared by every package
// in this module, following the teacher's convention of a catalogued var
// block of named errors (see the upstream saferwall/pe helper.go Errors
// block) generalized into one struct so every kind carries structured
// context (row/column/offset/path) instead of a bare string.
package rerr

import "fmt"

// Kind identifies one of the catalogued failure modes of the core.
type Kind int

const (
	KindUnknown Kind = iota

	// Decode arithmetic/range.
	KindNoBytesLeft
	KindNotEnoughBytesForType
	KindInvalidBool
	KindUnevenUTF16Input
	KindUTF16Decode
	KindISO88591Decode
	KindStringSizeUnavailable
	KindOptionalStringBadBool
	KindString0TerminatedNoNul

	// Format headers.
	KindPackHeaderIncomplete
	KindPackSubHeaderMissing
	KindPackIndexesIncomplete
	KindUnknownPfhFileType
	KindUnknownPfhVersion
	KindUnknownEsfSignature
	KindUnknownEsfDataType
	KindEsfRecordNameNotFound
	KindEsfStringNotFound
	KindUnsupportedFastBinSignature
	KindUnsupportedFastBinVersion
	KindAnimsTableUnknownVersion
	KindPortraitSettingsUnsupportedVersion
	KindAnimFragmentUnsupportedVersion
	KindMatchedCombatUnsupportedVersion

	// Table semantics.
	KindDecodeFieldError
	KindSequenceIndexError
	KindTableIncomplete
	KindRowWrongFieldCount
	KindWrongFieldType
	KindDbNoDefinitionsFound
	KindDbNoDefinitionsAndEmpty
	KindNotADbTable
	KindNotALocTable
	KindMismatchedSize

	// Container / IO.
	KindDataCannotBeCompressed
	KindDataCannotBeDecompressed
	KindFileSourceChanged
	KindDataTooBigForContainer
	KindFileNotFound
	KindFileNotDecoded
	KindReservedFile
	KindEmptyDestination
	KindNoPacksProvided
	KindIO
	KindEncryptedPackNotWritable

	// Higher-level refusals.
	KindDependenciesCacheNotGeneratedOrOutOfDate
	KindGlobalReplaceRequiresSameLengthAndNotRegex
	KindPatchEmptyPack
	KindRFileMergeOnlyOneFileProvided
	KindRFileMergeDifferentTypes
	KindRFileMergeTablesDifferentNames
	KindRFileMergeNotSupportedForType
	KindAssemblyKitUnsupportedVersion
	KindAssemblyKitNotFound
	KindAssemblyKitIgnoredTable
	KindAssemblyKitLocalisableFieldsNotFound
	KindRawTableMissingDefinition
	KindImportTsvIncorrectRow
	KindImportTsvWrongType
	KindImportTsvInvalidVersion
	KindImportTsvInvalidPath
)

// Error is the single tagged error type for the whole core. Each Kind uses
// only some of its structured fields (none, one or several); constructors
// below populate only the fields that kind uses.
type Error struct {
	Kind Kind

	// Structured context, populated selectively per Kind.
	Path     string
	Row      int
	Col      int
	Code     string
	Offset   int64
	Required int
	Provided int
	Expected int
	Got      int
	Max      int64

	msg string
	err error
}

func (e *Error) Error() string {
	if e.msg != "" {
		return e.msg
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an *Error sharing this error's Kind, so
// callers can use errors.Is(err, rerr.FileNotFound("")) style checks, or
// more simply compare e.Kind directly after an errors.As.
func (e *Error) Is(target error) bool {
	var o *Error
	if te, ok := target.(*Error); ok {
		o = te
	} else {
		return false
	}
	return e.Kind == o.Kind
}

func new_(k Kind, msg string) *Error { return &Error{Kind: k, msg: msg} }

func Wrap(k Kind, msg string, cause error) *Error {
	return &Error{Kind: k, msg: msg, err: cause}
}

// --- Decode arithmetic/range ---

func NoBytesLeft() *Error {
	return new_(KindNoBytesLeft, "no bytes left to read")
}

func NotEnoughBytesForType(kind string, required, provided int) *Error {
	return &Error{Kind: KindNotEnoughBytesForType, Required: required, Provided: provided,
		msg: fmt.Sprintf("not enough bytes to read %s: required %d, got %d", kind, required, provided)}
}

func InvalidBool(b byte) *Error {
	return &Error{Kind: KindInvalidBool, Got: int(b),
		msg: fmt.Sprintf("invalid bool byte: %d", b)}
}

func UnevenUTF16Input(length int) *Error {
	return &Error{Kind: KindUnevenUTF16Input, Got: length,
		msg: fmt.Sprintf("uneven byte length for utf-16 input: %d", length)}
}

func UTF16Decode(cause error) *Error {
	return Wrap(KindUTF16Decode, "failed to decode utf-16 string", cause)
}

func ISO88591Decode(cause error) *Error {
	return Wrap(KindISO88591Decode, "failed to decode iso-8859-15 string", cause)
}

func StringSizeUnavailable(kind string) *Error {
	return new_(KindStringSizeUnavailable, fmt.Sprintf("string size unavailable for %s", kind))
}

func OptionalStringBadBool(kind string) *Error {
	return new_(KindOptionalStringBadBool, fmt.Sprintf("optional string %s has invalid leading bool", kind))
}

func String0TerminatedNoNul() *Error {
	return new_(KindString0TerminatedNoNul, "0-terminated string missing NUL terminator before EOF")
}

// --- Format headers ---

func PackHeaderIncomplete() *Error {
	return new_(KindPackHeaderIncomplete, "pack header is incomplete")
}

func PackSubHeaderMissing() *Error {
	return new_(KindPackSubHeaderMissing, "pack extended sub-header is missing")
}

func PackIndexesIncomplete() *Error {
	return new_(KindPackIndexesIncomplete, "pack name/file index is incomplete")
}

func UnknownPfhFileType(v uint32) *Error {
	return &Error{Kind: KindUnknownPfhFileType, Got: int(v),
		msg: fmt.Sprintf("unknown pfh file type: 0x%x", v)}
}

func UnknownPfhVersion(magic string) *Error {
	return &Error{Kind: KindUnknownPfhVersion, Code: magic,
		msg: fmt.Sprintf("unknown pfh version magic: %q", magic)}
}

func UnknownEsfSignature(sig string) *Error {
	return &Error{Kind: KindUnknownEsfSignature, Code: sig,
		msg: fmt.Sprintf("unknown esf signature: %q", sig)}
}

func UnknownEsfDataType(b byte) *Error {
	return &Error{Kind: KindUnknownEsfDataType, Got: int(b),
		msg: fmt.Sprintf("unknown esf data type byte: 0x%x", b)}
}

func EsfRecordNameNotFound(ix int) *Error {
	return &Error{Kind: KindEsfRecordNameNotFound, Got: ix,
		msg: fmt.Sprintf("esf record name not found at index %d", ix)}
}

func EsfStringNotFound(ix int) *Error {
	return &Error{Kind: KindEsfStringNotFound, Got: ix,
		msg: fmt.Sprintf("esf string not found at index %d", ix)}
}

func UnsupportedFastBinSignature(sig string) *Error {
	return &Error{Kind: KindUnsupportedFastBinSignature, Code: sig,
		msg: fmt.Sprintf("unsupported fastbin signature: %q", sig)}
}

func UnsupportedFastBinVersion(v int) *Error {
	return &Error{Kind: KindUnsupportedFastBinVersion, Got: v,
		msg: fmt.Sprintf("unsupported fastbin version: %d", v)}
}

func AnimsTableUnknownVersion(v int) *Error {
	return &Error{Kind: KindAnimsTableUnknownVersion, Got: v,
		msg: fmt.Sprintf("unknown anims table version: %d", v)}
}

func PortraitSettingsUnsupportedVersion(v int) *Error {
	return &Error{Kind: KindPortraitSettingsUnsupportedVersion, Got: v,
		msg: fmt.Sprintf("unsupported portrait settings version: %d", v)}
}

func AnimFragmentUnsupportedVersion(v int) *Error {
	return &Error{Kind: KindAnimFragmentUnsupportedVersion, Got: v,
		msg: fmt.Sprintf("unsupported anim fragment version: %d", v)}
}

func MatchedCombatUnsupportedVersion(v int) *Error {
	return &Error{Kind: KindMatchedCombatUnsupportedVersion, Got: v,
		msg: fmt.Sprintf("unsupported matched combat version: %d", v)}
}

// --- Table semantics ---

func DecodeFieldError(row, col int, kind string, cause error) *Error {
	return &Error{Kind: KindDecodeFieldError, Row: row, Col: col, err: cause,
		msg: fmt.Sprintf("failed to decode field %d (%s) of row %d: %v", col, kind, row, cause)}
}

func SequenceIndexError(row, col, end int, kind string) *Error {
	return &Error{Kind: KindSequenceIndexError, Row: row, Col: col, Got: end,
		msg: fmt.Sprintf("sequence field %d (%s) of row %d ends out of bounds at %d", col, kind, row, end)}
}

func TableIncomplete(reason string, partialRows int) *Error {
	return &Error{Kind: KindTableIncomplete, Got: partialRows,
		msg: fmt.Sprintf("table decode incomplete (%s), %d rows decoded", reason, partialRows)}
}

func RowWrongFieldCount(expected, got int) *Error {
	return &Error{Kind: KindRowWrongFieldCount, Expected: expected, Got: got,
		msg: fmt.Sprintf("row has wrong field count: expected %d, got %d", expected, got)}
}

func WrongFieldType(expected, got string) *Error {
	return &Error{Kind: KindWrongFieldType, Code: expected,
		msg: fmt.Sprintf("wrong field type: expected %s, got %s", expected, got)}
}

func DbNoDefinitionsFound(table string) *Error {
	return &Error{Kind: KindDbNoDefinitionsFound, Path: table,
		msg: fmt.Sprintf("no definitions found for table %q", table)}
}

func DbNoDefinitionsAndEmpty(table string) *Error {
	return &Error{Kind: KindDbNoDefinitionsAndEmpty, Path: table,
		msg: fmt.Sprintf("no definition matches header version and table %q is empty", table)}
}

func NotADbTable() *Error { return new_(KindNotADbTable, "file is not a db table") }
func NotALocTable() *Error { return new_(KindNotALocTable, "file is not a loc table") }

func MismatchedSize(expected, got int) *Error {
	return &Error{Kind: KindMismatchedSize, Expected: expected, Got: got,
		msg: fmt.Sprintf("mismatched size: expected %d, got %d", expected, got)}
}

// --- Container / IO ---

func DataCannotBeCompressed(cause error) *Error {
	return Wrap(KindDataCannotBeCompressed, "data cannot be compressed", cause)
}

func DataCannotBeDecompressed(cause error) *Error {
	return Wrap(KindDataCannotBeDecompressed, "data cannot be decompressed", cause)
}

func FileSourceChanged(path string) *Error {
	return &Error{Kind: KindFileSourceChanged, Path: path,
		msg: fmt.Sprintf("backing source for %q changed since it was opened", path)}
}

func DataTooBigForContainer(kind string, max int64, got int64, path string) *Error {
	return &Error{Kind: KindDataTooBigForContainer, Path: path, Max: max, Got: int(got),
		msg: fmt.Sprintf("%s data for %q too big for container: max %d, got %d", kind, path, max, got)}
}

func FileNotFound(path string) *Error {
	return &Error{Kind: KindFileNotFound, Path: path, msg: fmt.Sprintf("file not found: %q", path)}
}

func FileNotDecoded(path string) *Error {
	return &Error{Kind: KindFileNotDecoded, Path: path, msg: fmt.Sprintf("file not decoded: %q", path)}
}

func ReservedFile() *Error { return new_(KindReservedFile, "path refers to a reserved file") }

func EmptyDestination() *Error {
	return new_(KindEmptyDestination, "destination path is empty")
}

func NoPacksProvided() *Error { return new_(KindNoPacksProvided, "no packs provided") }

func IO(path string, cause error) *Error {
	return &Error{Kind: KindIO, Path: path, err: cause, msg: fmt.Sprintf("io error on %q: %v", path, cause)}
}

// EncryptedPackNotWritable reports an attempt to encode a Pack with its
// index or data flagged encrypted. Encode always refuses such Packs
// (spec.md §4.4.1, §9 open question 3).
func EncryptedPackNotWritable() *Error {
	return new_(KindEncryptedPackNotWritable, "cannot encode a pack with encrypted index or data")
}

// --- Higher-level refusals ---

func DependenciesCacheNotGeneratedOrOutOfDate() *Error {
	return new_(KindDependenciesCacheNotGeneratedOrOutOfDate, "dependencies cache not generated or out of date")
}

func GlobalReplaceRequiresSameLengthAndNotRegex() *Error {
	return new_(KindGlobalReplaceRequiresSameLengthAndNotRegex,
		"replacement on this format requires a plain, same-length pattern (no regex)")
}

func PatchEmptyPack() *Error { return new_(KindPatchEmptyPack, "cannot patch an empty pack") }

func RFileMergeOnlyOneFileProvided() *Error {
	return new_(KindRFileMergeOnlyOneFileProvided, "merge requires at least two files")
}

func RFileMergeDifferentTypes() *Error {
	return new_(KindRFileMergeDifferentTypes, "cannot merge files of different types")
}

func RFileMergeTablesDifferentNames() *Error {
	return new_(KindRFileMergeTablesDifferentNames, "cannot merge tables with different names")
}

func RFileMergeNotSupportedForType(t string) *Error {
	return &Error{Kind: KindRFileMergeNotSupportedForType, Code: t,
		msg: fmt.Sprintf("merge is not supported for type %s", t)}
}

func AssemblyKitUnsupportedVersion(v int) *Error {
	return &Error{Kind: KindAssemblyKitUnsupportedVersion, Got: v,
		msg: fmt.Sprintf("unsupported assembly kit version: %d", v)}
}

func AssemblyKitNotFound(path string) *Error {
	return &Error{Kind: KindAssemblyKitNotFound, Path: path,
		msg: fmt.Sprintf("assembly kit not found at %q", path)}
}

func AssemblyKitIgnoredTable(table string) *Error {
	return &Error{Kind: KindAssemblyKitIgnoredTable, Path: table,
		msg: fmt.Sprintf("table %q is ignored by the assembly kit importer", table)}
}

func AssemblyKitLocalisableFieldsNotFound() *Error {
	return new_(KindAssemblyKitLocalisableFieldsNotFound, "localisable fields registry not found")
}

func RawTableMissingDefinition(table string) *Error {
	return &Error{Kind: KindRawTableMissingDefinition, Path: table,
		msg: fmt.Sprintf("raw table %q has no matching definition", table)}
}

func ImportTsvIncorrectRow(row int) *Error {
	return &Error{Kind: KindImportTsvIncorrectRow, Row: row,
		msg: fmt.Sprintf("tsv row %d has an incorrect number of columns", row)}
}

func ImportTsvWrongType(row, col int) *Error {
	return &Error{Kind: KindImportTsvWrongType, Row: row, Col: col,
		msg: fmt.Sprintf("tsv row %d column %d has the wrong type", row, col)}
}

func ImportTsvInvalidVersion() *Error {
	return new_(KindImportTsvInvalidVersion, "tsv header declares an invalid definition version")
}

func ImportTsvInvalidPath() *Error {
	return new_(KindImportTsvInvalidPath, "tsv header declares an invalid table path")
}
