package pack

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpfm-go/rpfmcore/binary"
	"github.com/rpfm-go/rpfmcore/rfile"
)

func TestEmptyPackEncodeDecodeRoundTrip(t *testing.T) {
	p := New(PFH6, FileTypeMod)
	buf, err := p.Encode()
	require.NoError(t, err)

	decoded, err := Decode(buf, nil)
	require.NoError(t, err)
	assert.Equal(t, p.Header.Version, decoded.Header.Version)
	assert.Equal(t, p.Header.FileType, decoded.Header.FileType)
	assert.Empty(t, decoded.Files)
}

func TestCompressedEntryRoundTripsThroughReencode(t *testing.T) {
	original := []byte("the quick brown fox jumps over the lazy dog, the quick brown fox jumps over the lazy dog")
	compressed, err := rfile.Compress(original, rfile.CompressionLZ4)
	require.NoError(t, err)

	path := "text/readme.txt"

	indexBuf := binary.NewWriter()
	indexBuf.WriteU32(uint32(len(compressed)))
	indexBuf.WriteBool(true)
	indexBuf.WriteStringU8_0Terminated(path)

	w := binary.NewWriter()
	w.WriteSlice([]byte(PFH6))
	w.WriteU32(uint32(FileTypeMod))
	w.WriteU32(FlagHasCompressedData)
	w.WriteU32(0) // pack name count
	w.WriteU32(0) // pack name table size
	w.WriteU32(1) // file count
	w.WriteU32(uint32(indexBuf.Len()))
	w.WriteU32(0)                 // timestamp
	w.WriteSlice(make([]byte, 4)) // PFH6's 4-byte extension
	w.WriteSlice(indexBuf.Bytes())
	w.WriteSlice(compressed)

	p, err := Decode(w.Bytes(), nil)
	require.NoError(t, err)

	// Re-encode straight off the lazy OnDisk entry, without preloading, so
	// Encode must itself re-compress the bytes it reads back decompressed.
	reencoded, err := p.Encode()
	require.NoError(t, err)

	p2, err := Decode(reencoded, nil)
	require.NoError(t, err)

	rf, ok := p2.Files[path]
	require.True(t, ok)
	assert.True(t, rf.Storage.OnDisk.IsCompressed)

	got, err := p2.ReadFile(rf)
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

func TestInsertRemoveEncodeRoundTrip(t *testing.T) {
	p := New(PFH6, FileTypeMod)
	p.Insert("db/units_tables/data", []byte("hello"))
	p.Insert("text/readme.txt", []byte("world"))

	buf, err := p.Encode()
	require.NoError(t, err)

	decoded, err := Decode(buf, nil)
	require.NoError(t, err)
	require.NoError(t, decoded.Preload())
	assert.Len(t, decoded.Files, 2)

	removed := decoded.Remove("text/readme.txt")
	assert.Equal(t, 1, removed)
	assert.Len(t, decoded.Files, 1)
}

func TestRenameUpdatesPathAndType(t *testing.T) {
	p := New(PFH6, FileTypeMod)
	p.Insert("loc/old.loc", []byte{0xFF, 0xFE, 1, 0, 0, 0, 0})
	require.NoError(t, p.Rename("loc/old.loc", "loc/new.loc"))
	_, ok := p.Files["loc/old.loc"]
	assert.False(t, ok)
	rf, ok := p.Files["loc/new.loc"]
	require.True(t, ok)
	assert.Equal(t, "loc/new.loc", rf.Path)
}

func TestExtractWritesFiles(t *testing.T) {
	p := New(PFH6, FileTypeMod)
	p.Insert("text/a.txt", []byte("content-a"))

	dir := t.TempDir()
	require.NoError(t, p.Extract("text/a.txt", dir, false))
	data, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "content-a", string(data))
}
