package portrait

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFile() *File {
	return &File{
		Version: 3,
		Entries: []Entry{
			{
				ID:         "wh_main_chr_karl_franz",
				HeadCamera: Camera{Distance: 1.5, Theta: 0.1, Phi: 0.2, FOV: 30},
				HasBody:    true,
				BodyCamera: Camera{Distance: 3, Theta: 0, Phi: 0, FOV: 45},
				Variants: []Variant{
					{Filename: "default", FileDiffuse: "karl_franz_d.png", FileMask1: "empty_mask.png"},
				},
			},
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	f := sampleFile()
	buf := Encode(f)
	decoded, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, f, decoded)
}

func TestClearEmptyMasks(t *testing.T) {
	f := sampleFile()
	n := ClearEmptyMasks(f)
	assert.Equal(t, 1, n)
	assert.Empty(t, f.Entries[0].Variants[0].FileMask1)
}

func TestSearchReplace(t *testing.T) {
	f := sampleFile()
	matches, err := f.Search("karl_franz", true, false)
	require.NoError(t, err)
	require.Len(t, matches, 2) // id + file_diffuse

	_, err = f.Replace(matches, "karl_franz", "karl", true, false)
	require.NoError(t, err)
	assert.Equal(t, "wh_main_chr_karl", f.Entries[0].ID)
	assert.Equal(t, "karl_d.png", f.Entries[0].Variants[0].FileDiffuse)
}
