package rfile

import (
	"bytes"
	"io"
	"os/exec"

	"github.com/klauspost/compress/lz4"
	"github.com/klauspost/compress/zstd"

	"github.com/rpfm-go/rpfmcore/rerr"
)

// Compress compresses data per the format declared in extra, used by Pack
// entries whose compressed bit is set (spec.md §3.1/§4.4).
func Compress(data []byte, format CompressionFormat) ([]byte, error) {
	switch format {
	case CompressionNone:
		return data, nil
	case CompressionLZ4:
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, rerr.DataCannotBeCompressed(err)
		}
		if err := w.Close(); err != nil {
			return nil, rerr.DataCannotBeCompressed(err)
		}
		return buf.Bytes(), nil
	case CompressionZstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, rerr.DataCannotBeCompressed(err)
		}
		defer enc.Close()
		return enc.EncodeAll(data, nil), nil
	default:
		return nil, rerr.DataCannotBeCompressed(rerr.WrongFieldType("known compression format", "unknown"))
	}
}

// Decompress reverses Compress.
func Decompress(data []byte, format CompressionFormat) ([]byte, error) {
	switch format {
	case CompressionNone:
		return data, nil
	case CompressionLZ4:
		r := lz4.NewReader(bytes.NewReader(data))
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, rerr.DataCannotBeDecompressed(err)
		}
		return out, nil
	case CompressionZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, rerr.DataCannotBeDecompressed(err)
		}
		defer dec.Close()
		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			return nil, rerr.DataCannotBeDecompressed(err)
		}
		return out, nil
	default:
		return nil, rerr.DataCannotBeDecompressed(rerr.WrongFieldType("known compression format", "unknown"))
	}
}

// RunSevenZipHelper invokes an external 7-zip-compatible binary to compress
// src into an archive at dst. This is the one subprocess suspension point
// spec.md §5 allows in the core, specified only at its interface — the
// helper binary itself is an external collaborator the core never embeds.
func RunSevenZipHelper(helperPath, src, dst string) error {
	if helperPath == "" {
		return rerr.EmptyDestination()
	}
	cmd := exec.Command(helperPath, "a", "-y", dst, src)
	if err := cmd.Run(); err != nil {
		return rerr.IO(dst, err)
	}
	return nil
}
