package esf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFile() *File {
	return &File{
		Signature: SignatureCAAB,
		Root: &Record{
			Name:    "root",
			Version: 1,
			Children: []Node{
				{Kind: KindOptimizedI32, Int: 0},
				{Kind: KindOptimizedI32, Int: 1},
				{Kind: KindOptimizedI32, Int: 42},
				{Kind: KindOptimizedI32, Int: 70000},
				{Kind: KindAscii, Str: "unit_key"},
				{Kind: KindArrayF32, ArrayF32: []float32{1.5, 2.5, 3.5}},
				{
					Kind: KindRecord,
					Record: &Record{
						Name:            "child",
						Version:         2,
						HasNestedBlocks: true,
						Blocks: map[string][]Node{
							"block_a": {{Kind: KindBool, Bool: true}},
						},
						BlockOrder: []string{"block_a"},
					},
				},
			},
		},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	f := sampleFile()
	buf, err := Encode(f)
	require.NoError(t, err)

	decoded, err := Decode(buf)
	require.NoError(t, err)

	assert.Equal(t, f.Signature, decoded.Signature)
	assert.Equal(t, f.Root.Name, decoded.Root.Name)
	assert.Equal(t, f.Root.Version, decoded.Root.Version)
	require.Len(t, decoded.Root.Children, len(f.Root.Children))

	for i, child := range f.Root.Children {
		if child.Kind == KindRecord {
			continue
		}
		assert.Equal(t, child, decoded.Root.Children[i])
	}

	nested := decoded.Root.Children[len(decoded.Root.Children)-1].Record
	require.NotNil(t, nested)
	assert.Equal(t, "child", nested.Name)
	assert.True(t, nested.HasNestedBlocks)
	require.Contains(t, nested.Blocks, "block_a")
	assert.True(t, nested.Blocks["block_a"][0].Bool)
}

func TestEncodeRefusesNonCAAB(t *testing.T) {
	f := sampleFile()
	f.Signature = SignatureCEAB
	_, err := Encode(f)
	require.Error(t, err)
}

func TestDecodeRejectsUnknownSignature(t *testing.T) {
	_, err := Decode([]byte("ZZZZ\x00\x00\x00\x00"))
	require.Error(t, err)
}

func TestCompactIntegerSubtagChoice(t *testing.T) {
	assert.Equal(t, subZero, compactSubtag(0, 4))
	assert.Equal(t, subOne, compactSubtag(1, 4))
	assert.Equal(t, subByte, compactSubtag(200, 4))
	assert.Equal(t, sub16, compactSubtag(60000, 4))
	assert.Equal(t, sub24, compactSubtag(16000000, 4))
	assert.Equal(t, subFull, compactSubtag(-5, 4))
}
