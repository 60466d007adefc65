package markdown

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyEdits_SingleReplacement(t *testing.T) {
	src := []byte("See [API](https://www.notion.so/abc) for details.\n")
	old := []byte("https://www.notion.so/abc")
	idx := bytes.Index(src, old)
	require.NotEqual(t, -1, idx)

	out, err := ApplyEdits(src, []Edit{{Start: idx, End: idx + len(old), Replacement: []byte("/docs/api/")}})
	require.NoError(t, err)
	require.Equal(t, "See [API](/docs/api/) for details.\n", string(out))
}

func TestApplyEdits_OrderIndependent(t *testing.T) {
	src := []byte("A: old\nB: old-longer\n")
	idx1 := bytes.Index(src, []byte("old"))
	idx2 := bytes.Index(src, []byte("old-longer"))

	forward := []Edit{
		{Start: idx1, End: idx1 + 3, Replacement: []byte("brand-new")},
		{Start: idx2, End: idx2 + len("old-longer"), Replacement: []byte("x")},
	}
	backward := []Edit{forward[1], forward[0]}

	out1, err := ApplyEdits(src, forward)
	require.NoError(t, err)
	out2, err := ApplyEdits(src, backward)
	require.NoError(t, err)
	require.Equal(t, "A: brand-new\nB: x\n", string(out1))
	require.Equal(t, out1, out2)
}

func TestApplyEdits_NoEditsReturnsSource(t *testing.T) {
	src := []byte("unchanged")
	out, err := ApplyEdits(src, nil)
	require.NoError(t, err)
	require.Equal(t, src, out)
}

func TestApplyEdits_RejectsOverlappingEdits(t *testing.T) {
	_, err := ApplyEdits([]byte("abcdef"), []Edit{
		{Start: 1, End: 4, Replacement: []byte("X")},
		{Start: 3, End: 5, Replacement: []byte("Y")},
	})
	require.Error(t, err)
}

func TestApplyEdits_RejectsOutOfBounds(t *testing.T) {
	_, err := ApplyEdits([]byte("abc"), []Edit{{Start: 1, End: 10}})
	require.Error(t, err)
}
