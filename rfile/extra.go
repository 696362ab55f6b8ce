package rfile

import "github.com/rpfm-go/rpfmcore/schema"

// CompressionFormat names the per-entry compression algorithm a GameInfo
// selects (spec.md §2 component 4: "per-entry compression"). The two
// selectable formats are backed by github.com/klauspost/compress, the pure
// Go compression stack several repos in the retrieval pack (trivy, rclone,
// claircore) already depend on.
type CompressionFormat int

const (
	CompressionNone CompressionFormat = iota
	CompressionLZ4
	CompressionZstd
)

// Extra threads the per-call context every codec's Decode/Encode needs,
// matching spec.md §4.3's "extra" parameter: the schema to decode against,
// the declared game key, whether to regenerate UUIDs on encode, an optional
// external compression helper path, the compression format, timestamps, and
// the file's own container path (several codecs branch on it).
type Extra struct {
	Schema            *schema.Schema
	GameKey           string
	RegenerateUUID    bool
	SevenZipHelper    string
	Compression       CompressionFormat
	Timestamp         int64
	ContainerPath     string
}
