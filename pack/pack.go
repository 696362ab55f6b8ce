package pack

import (
	"os"
	"path"
	"sort"
	"strings"

	mmap "github.com/edsrzf/mmap-go"

	"github.com/rpfm-go/rpfmcore/binary"
	"github.com/rpfm-go/rpfmcore/rerr"
	"github.com/rpfm-go/rpfmcore/rfile"
)

// extendedHeaderSizeFor returns how many extra bytes follow the fixed
// header fields for a given version/flag combination (spec.md §4.4.1:
// "version-specific extensions (4 or 20 extra bytes)").
func extendedHeaderSizeFor(v PFHVersion, bitflags uint32) int {
	if bitflags&FlagHasExtendedHeader != 0 {
		return 20
	}
	switch v {
	case PFH6, PFH5:
		return 4
	default:
		return 0
	}
}

// Settings is the persisted auxiliary state carried inside a Pack
// (spec.md §6: "PackSettings... text map and bool map"). Notes are keyed by
// a random u64 id.
type Settings struct {
	Texts map[string]string
	Bools map[string]bool
	Notes map[uint64]Note
}

// Note is one user annotation attached to the Pack.
type Note struct {
	User      string
	Timestamp int64
	Message   string
	URL       string
	Path      string
}

// NewSettings returns an empty Settings value.
func NewSettings() Settings {
	return Settings{Texts: map[string]string{}, Bools: map[string]bool{}, Notes: map[uint64]Note{}}
}

// Pack is the archive container, spec.md §3.1/§4.4: an ordered mapping from
// case-insensitive container path to RFile, plus header metadata,
// dependency names, and settings.
type Pack struct {
	Header       Header
	Dependencies []string // pack-name table: parent archive names, in load order
	Files        map[string]*RFile
	Settings     Settings
	Compression  rfile.CompressionFormat

	reader     *mappedReader
	pathsOrder []string // preserves on-disk index order for byte-identical re-encode
}

// CompressionFormat returns the format entries flagged compressed use.
func (p *Pack) CompressionFormat() rfile.CompressionFormat { return p.Compression }

// SetCompressionFormat changes the format entries flagged compressed use.
func (p *Pack) SetCompressionFormat(f rfile.CompressionFormat) { p.Compression = f }

// mappedReader owns the mmap for a disk-backed Pack; lazy RFile entries
// read through it until the Pack is closed or the entry is preloaded
// (grounded on the teacher's mmap-backed File.data in file.go, generalized
// from one whole-file mapping to per-entry offset/length slices).
type mappedReader struct {
	data  mmap.MMap
	f     *os.File
	owned bool // true only when data came from an actual mmap.Map call
}

func (m *mappedReader) slice(offset, length int64) ([]byte, error) {
	if m == nil {
		return nil, rerr.FileSourceChanged("")
	}
	end := offset + length
	if offset < 0 || end > int64(len(m.data)) {
		return nil, rerr.DataTooBigForContainer("rfile", int64(len(m.data)), end, "")
	}
	return m.data[offset:end], nil
}

func (m *mappedReader) close() error {
	if m == nil {
		return nil
	}
	var errUnmap error
	if m.owned && m.data != nil {
		errUnmap = m.data.Unmap()
	}
	if m.f != nil {
		if err := m.f.Close(); err != nil && errUnmap == nil {
			errUnmap = err
		}
	}
	return errUnmap
}

// New returns an empty Pack of the given wire version and file type.
func New(version PFHVersion, fileType PFHFileType) *Pack {
	h := Header{Version: version, FileType: fileType}
	h.ExtendedHeaderData = make([]byte, extendedHeaderSizeFor(h.Version, h.Bitflags))
	return &Pack{
		Header:      h,
		Files:       map[string]*RFile{},
		Settings:    NewSettings(),
		Compression: rfile.CompressionLZ4,
	}
}

// paddedExtendedHeader resizes data to size, zero-filling any new bytes, so
// Encode always emits exactly the extended-header length Decode will expect
// to read back regardless of how the Pack's Bitflags were set after New.
func paddedExtendedHeader(data []byte, size int) []byte {
	if len(data) == size {
		return data
	}
	out := make([]byte, size)
	copy(out, data)
	return out
}

func normalizePath(p string) string {
	return strings.ToLower(strings.ReplaceAll(p, "\\", "/"))
}

// Open mmaps name and decodes it as a Pack (spec.md §4.4.2: "decode(reader,
// extra) parses the header... Data is not eagerly read").
func Open(name string) (*Pack, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, rerr.IO(name, err)
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, rerr.IO(name, err)
	}
	reader := &mappedReader{data: data, f: f, owned: true}
	p, err := Decode(data, reader)
	if err != nil {
		reader.close()
		return nil, err
	}
	return p, nil
}

// Close releases the Pack's backing mmap and file, if any; a Pack returned
// by Open still holds them after Preload. Packs from New or from Decode over
// an in-memory buffer have nothing to release, so Close is a no-op for them.
func (p *Pack) Close() error {
	err := p.reader.close()
	p.reader = nil
	return err
}

// Decode parses buf's header, pack-name table and file index into a Pack.
// Every entry is created with OnDisk storage pointing into reader; no file
// data is read eagerly (spec.md §4.4.2).
func Decode(buf []byte, reader *mappedReader) (*Pack, error) {
	if reader == nil {
		reader = &mappedReader{data: mmap.MMap(buf)}
	}
	r := binary.NewReader(buf)

	magic, err := r.ReadSlice(4)
	if err != nil {
		return nil, rerr.PackHeaderIncomplete()
	}
	version := PFHVersion(magic)
	if err := validateVersion(version); err != nil {
		return nil, err
	}

	fileType, err := r.ReadU32()
	if err != nil {
		return nil, rerr.PackHeaderIncomplete()
	}
	if err := validateFileType(fileType); err != nil {
		return nil, err
	}

	bitflags, err := r.ReadU32()
	if err != nil {
		return nil, rerr.PackHeaderIncomplete()
	}
	packNameCount, err := r.ReadU32()
	if err != nil {
		return nil, rerr.PackHeaderIncomplete()
	}
	packNameTableSize, err := r.ReadU32()
	if err != nil {
		return nil, rerr.PackHeaderIncomplete()
	}
	fileCount, err := r.ReadU32()
	if err != nil {
		return nil, rerr.PackHeaderIncomplete()
	}
	indexSize, err := r.ReadU32()
	if err != nil {
		return nil, rerr.PackHeaderIncomplete()
	}
	timestamp, err := r.ReadU32()
	if err != nil {
		return nil, rerr.PackHeaderIncomplete()
	}

	extSize := extendedHeaderSizeFor(version, bitflags)
	var extData []byte
	if extSize > 0 {
		extData, err = r.ReadSlice(extSize)
		if err != nil {
			return nil, rerr.PackSubHeaderMissing()
		}
	}

	header := Header{
		Version: version, FileType: PFHFileType(fileType), Bitflags: bitflags,
		PackNameCount: packNameCount, PackNameTableSize: packNameTableSize,
		FileCount: fileCount, IndexSize: indexSize, Timestamp: timestamp,
		ExtendedHeaderData: extData,
	}

	if header.HasEncryptedIndex() {
		return nil, rerr.PackIndexesIncomplete()
	}

	var deps []string
	for i := uint32(0); i < packNameCount; i++ {
		name, err := r.ReadStringU8_0Terminated()
		if err != nil {
			return nil, rerr.PackSubHeaderMissing()
		}
		deps = append(deps, name)
	}

	p := &Pack{Header: header, Dependencies: deps, Files: map[string]*RFile{}, Settings: NewSettings(), Compression: rfile.CompressionLZ4, reader: reader}

	for i := uint32(0); i < fileCount; i++ {
		size, err := r.ReadU32()
		if err != nil {
			return nil, rerr.PackIndexesIncomplete()
		}
		var ts uint32
		if header.HasIndexTimestamps() {
			if ts, err = r.ReadU32(); err != nil {
				return nil, rerr.PackIndexesIncomplete()
			}
		}
		isCompressed := header.HasCompressedData()
		if header.HasCompressedData() {
			flag, err := r.ReadU8()
			if err != nil {
				return nil, rerr.PackIndexesIncomplete()
			}
			isCompressed = flag != 0
		}
		entryPath, err := r.ReadStringU8_0Terminated()
		if err != nil {
			return nil, rerr.PackIndexesIncomplete()
		}

		containerPath := normalizePath(entryPath)
		rf := &RFile{
			Path:      containerPath,
			FileType:  rfile.Dispatch(containerPath),
			Timestamp: ts,
			Storage: Storage{
				Kind: StorageOnDisk,
				OnDisk: OnDiskStorage{
					Offset:       0, // resolved below, after the data blob's start is known
					Length:       int64(size),
					IsCompressed: isCompressed,
					IsEncrypted:  header.HasEncryptedData(),
				},
			},
		}
		p.Files[containerPath] = rf
		p.pathsOrder = append(p.pathsOrder, containerPath)
	}

	// The data blob starts right after the index; entries are concatenated
	// in index order, so offsets are a running sum of preceding lengths.
	dataStart := int64(r.Pos())
	offset := dataStart
	for _, cp := range p.pathsOrder {
		rf := p.Files[cp]
		rf.Storage.OnDisk.Offset = offset
		offset += rf.Storage.OnDisk.Length
	}

	return p, nil
}

// read returns f's raw bytes regardless of current storage, reading
// through the Pack's backing reader for OnDisk entries.
func (p *Pack) read(rf *RFile) ([]byte, error) {
	switch rf.Storage.Kind {
	case StorageCached:
		return rf.Storage.Cached, nil
	case StorageOnDisk:
		d := rf.Storage.OnDisk
		raw, err := p.reader.slice(d.Offset, d.Length)
		if err != nil {
			return nil, err
		}
		if d.IsCompressed {
			return rfile.Decompress(raw, p.Compression)
		}
		return raw, nil
	case StorageDecoded:
		return nil, rerr.FileNotDecoded(rf.Path)
	default:
		return nil, rerr.FileNotFound(rf.Path)
	}
}

// ReadFile returns rf's raw bytes regardless of current storage. Exported
// for callers outside package pack (dependencies, diagnostics, optimizer,
// search) that need an entry's bytes without decoding it.
func (p *Pack) ReadFile(rf *RFile) ([]byte, error) {
	return p.read(rf)
}

// Preload materialises cached bytes for every OnDisk entry, so the Pack no
// longer depends on its backing reader (spec.md §4.4.2).
func (p *Pack) Preload() error {
	for _, cp := range p.pathsOrder {
		rf := p.Files[cp]
		if rf.Storage.Kind != StorageOnDisk {
			continue
		}
		raw, err := p.read(rf)
		if err != nil {
			return err
		}
		rf.Storage = Storage{Kind: StorageCached, Cached: raw}
	}
	return nil
}

// Insert adds or replaces the file at containerPath with raw bytes.
func (p *Pack) Insert(containerPath string, data []byte) {
	cp := normalizePath(containerPath)
	if _, exists := p.Files[cp]; !exists {
		p.pathsOrder = append(p.pathsOrder, cp)
	}
	p.Files[cp] = &RFile{
		Path:     cp,
		FileType: rfile.Dispatch(cp),
		Storage:  Storage{Kind: StorageCached, Cached: data},
	}
}

// Remove deletes every file whose path equals pathOrFolder or sits beneath
// it as a folder, returning how many were removed (spec.md §4.4.2: "folder
// operations are recursive over the mapping").
func (p *Pack) Remove(pathOrFolder string) int {
	target := normalizePath(pathOrFolder)
	prefix := target + "/"
	removed := 0
	kept := p.pathsOrder[:0]
	for _, cp := range p.pathsOrder {
		if cp == target || strings.HasPrefix(cp, prefix) {
			delete(p.Files, cp)
			removed++
			continue
		}
		kept = append(kept, cp)
	}
	p.pathsOrder = kept
	return removed
}

// Rename moves the file at oldPath to newPath, normalising both.
func (p *Pack) Rename(oldPath, newPath string) error {
	oldCP, newCP := normalizePath(oldPath), normalizePath(newPath)
	rf, ok := p.Files[oldCP]
	if !ok {
		return rerr.FileNotFound(oldPath)
	}
	delete(p.Files, oldCP)
	for i, cp := range p.pathsOrder {
		if cp == oldCP {
			p.pathsOrder[i] = newCP
			break
		}
	}
	rf.Path = newCP
	rf.FileType = rfile.Dispatch(newCP)
	p.Files[newCP] = rf
	return nil
}

// FilesByType returns every file whose derived/overridden type is t, in
// pack index order.
func (p *Pack) FilesByType(t rfile.FileType) []*RFile {
	var out []*RFile
	for _, cp := range p.pathsOrder {
		if rf := p.Files[cp]; rf.FileType == t {
			out = append(out, rf)
		}
	}
	return out
}

// FilesByPaths returns every file whose path is in paths, preserving index
// order rather than the order paths was given in.
func (p *Pack) FilesByPaths(paths []string) []*RFile {
	want := make(map[string]bool, len(paths))
	for _, pth := range paths {
		want[normalizePath(pth)] = true
	}
	var out []*RFile
	for _, cp := range p.pathsOrder {
		if want[cp] {
			out = append(out, p.Files[cp])
		}
	}
	return out
}

// ReadAndMerge opens each archive in sources and overlays their files into
// a single Pack, with later archives winning on path collisions
// (spec.md §4.4.2, §8 Pack law 3).
func ReadAndMerge(sources []string) (*Pack, error) {
	if len(sources) == 0 {
		return nil, rerr.NoPacksProvided()
	}
	merged := New(PFH6, FileTypeMod)
	for _, src := range sources {
		p, err := Open(src)
		if err != nil {
			return nil, err
		}
		if err := p.Preload(); err != nil {
			p.Close()
			return nil, err
		}
		for _, cp := range p.pathsOrder {
			rf := p.Files[cp]
			merged.Insert(rf.Path, rf.Storage.Cached)
		}
		p.Close()
	}
	return merged, nil
}

// Encode serializes the header, pack-name table, file index and data blob
// back to bytes, in the original index order for untouched entries
// (spec.md §4.4.3: re-encoding an unmodified decode is byte-identical).
// Every entry must currently be Cached or OnDisk; Decoded entries must be
// re-encoded by the caller first.
func (p *Pack) Encode() ([]byte, error) {
	if p.Header.HasEncryptedIndex() || p.Header.HasEncryptedData() {
		return nil, rerr.EncryptedPackNotWritable()
	}

	w := binary.NewWriter()
	w.WriteSlice([]byte(p.Header.Version))
	w.WriteU32(uint32(p.Header.FileType))
	w.WriteU32(p.Header.Bitflags)
	w.WriteU32(uint32(len(p.Dependencies)))

	nameTableBuf := binary.NewWriter()
	for _, dep := range p.Dependencies {
		nameTableBuf.WriteStringU8_0Terminated(dep)
	}
	w.WriteU32(uint32(nameTableBuf.Len()))
	w.WriteU32(uint32(len(p.pathsOrder)))

	indexBuf := binary.NewWriter()
	dataBuf := binary.NewWriter()
	for _, cp := range p.pathsOrder {
		rf := p.Files[cp]
		raw, err := p.read(rf)
		if err != nil {
			return nil, err
		}

		isCompressed := p.Header.HasCompressedData() && rf.Storage.Kind == StorageOnDisk && rf.Storage.OnDisk.IsCompressed
		out := raw
		if isCompressed {
			out, err = rfile.Compress(raw, p.Compression)
			if err != nil {
				return nil, err
			}
		}

		indexBuf.WriteU32(uint32(len(out)))
		if p.Header.HasIndexTimestamps() {
			indexBuf.WriteU32(rf.Timestamp)
		}
		if p.Header.HasCompressedData() {
			indexBuf.WriteBool(isCompressed)
		}
		indexBuf.WriteStringU8_0Terminated(rf.Path)
		dataBuf.WriteSlice(out)
	}

	w.WriteU32(uint32(indexBuf.Len()))
	w.WriteU32(p.Header.Timestamp)
	p.Header.ExtendedHeaderData = paddedExtendedHeader(p.Header.ExtendedHeaderData, extendedHeaderSizeFor(p.Header.Version, p.Header.Bitflags))
	w.WriteSlice(p.Header.ExtendedHeaderData)
	w.WriteSlice(nameTableBuf.Bytes())
	w.WriteSlice(indexBuf.Bytes())
	w.WriteSlice(dataBuf.Bytes())
	return w.Bytes(), nil
}

// Save encodes the Pack to a temp file alongside dest and renames it into
// place atomically on success (spec.md §4.4.2, §5: "Encoder temp files are
// created alongside the destination and renamed atomically on success").
func (p *Pack) Save(dest string) error {
	buf, err := p.Encode()
	if err != nil {
		return err
	}
	tmp := dest + ".rpfmcore-tmp"
	if err := os.WriteFile(tmp, buf, 0o644); err != nil {
		return rerr.IO(tmp, err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return rerr.IO(dest, err)
	}
	return nil
}

// Extract walks every file under containerPath (a single file or a folder
// prefix) and writes it beneath destDir, preserving the relative structure
// when keepStructure is true (spec.md §4.4.2).
func (p *Pack) Extract(containerPath, destDir string, keepStructure bool) error {
	target := normalizePath(containerPath)
	prefix := target + "/"

	var matches []string
	for _, cp := range p.pathsOrder {
		if cp == target || strings.HasPrefix(cp, prefix) {
			matches = append(matches, cp)
		}
	}
	sort.Strings(matches)

	for _, cp := range matches {
		rf := p.Files[cp]
		raw, err := p.read(rf)
		if err != nil {
			return err
		}
		outPath := path.Join(destDir, path.Base(cp))
		if keepStructure {
			outPath = path.Join(destDir, cp)
		}
		if err := os.MkdirAll(path.Dir(outPath), 0o755); err != nil {
			return rerr.IO(outPath, err)
		}
		if err := os.WriteFile(outPath, raw, 0o644); err != nil {
			return rerr.IO(outPath, err)
		}
	}
	return nil
}
