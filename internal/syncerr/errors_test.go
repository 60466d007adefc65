package syncerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap_NilStaysNil(t *testing.T) {
	require.NoError(t, Wrap(nil, KindPage, "src", "whatever"))
}

func TestKindOf_SeesThroughFmtWrapping(t *testing.T) {
	base := errors.New("connection reset")
	err := fmt.Errorf("localdump: listing failed: %w", Wrap(base, KindEnumeration, "blog", "query database"))

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindEnumeration, kind)
	assert.True(t, Is(err, KindEnumeration))
	assert.False(t, Is(err, KindConfig))
	assert.ErrorIs(t, err, base)
}

func TestError_MessageIncludesSource(t *testing.T) {
	err := New(KindConfig, "blog", "missing %s", "layout")
	assert.Equal(t, "config(blog): missing layout", err.Error())
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, 1, ExitCode(errors.New("plain")))
	assert.Equal(t, 7, ExitCode(New(KindConfig, "", "bad")))
	assert.Equal(t, 8, ExitCode(Wrap(errors.New("x"), KindEnumeration, "a", "list")))
	assert.Equal(t, 11, ExitCode(Wrap(errors.New("x"), KindFilesystem, "a", "write")))
	assert.Equal(t, 1, ExitCode(Wrap(errors.New("x"), KindAsset, "a", "fetch")))
	assert.Equal(t, 130, ExitCode(Wrap(errors.New("x"), KindCanceled, "", "interrupted")))
}
