package loc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	l := &Loc{Version: 1, Rows: []Row{
		{Key: "unit_onscreen_name_unit_a", Value: "Spearmen", Tooltip: false},
		{Key: "unit_onscreen_name_unit_b", Value: "Archers", Tooltip: true},
	}}
	buf := Encode(l)
	decoded, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, l.Rows, decoded.Rows)
	assert.Equal(t, l.Version, decoded.Version)
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	_, err := Decode([]byte{0, 0, 1, 0, 0, 0, 0})
	require.Error(t, err)
}

func TestMergeSortsAndDedupsLastWins(t *testing.T) {
	a := &Loc{Rows: []Row{{Key: "b", Value: "old-b"}, {Key: "a", Value: "a"}}}
	b := &Loc{Rows: []Row{{Key: "b", Value: "new-b"}}}
	merged := Merge([]*Loc{a, b})
	require.Len(t, merged.Rows, 2)
	assert.Equal(t, "a", merged.Rows[0].Key)
	assert.Equal(t, "b", merged.Rows[1].Key)
	assert.Equal(t, "new-b", merged.Rows[1].Value)
}

func TestSearchReplace(t *testing.T) {
	l := &Loc{Rows: []Row{{Key: "k1", Value: "Hello World"}, {Key: "k2", Value: "Hello There"}}}
	matches, err := l.Search("Hello", true, false)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	n, err := l.Replace(matches, "Hello", "Hi", true, false)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "Hi World", l.Rows[0].Value)
	assert.Equal(t, "Hi There", l.Rows[1].Value)
}
