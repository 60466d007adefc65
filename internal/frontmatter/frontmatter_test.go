package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFields_SetKeepsFirstPosition(t *testing.T) {
	f := NewFields()
	f.Set("layout", "post")
	f.Set("title", "One")
	f.Set("layout", "page")

	assert.Equal(t, []string{"layout", "title"}, f.Keys())
	v, ok := f.Get("layout")
	require.True(t, ok)
	assert.Equal(t, "page", v)
	assert.False(t, f.Has("missing"))
}

func TestSerializeYAML_PreservesInsertionOrder(t *testing.T) {
	f := NewFields()
	f.Set("layout", "post")
	f.Set("title", "My First Post")
	f.Set("permalink", "/blog/my-first-post/")
	f.Set("draft", false)
	f.Set("rating", 3.0)
	f.Set("score", 2.5)
	f.Set("tags", []string{"go", "yaml"})

	out, err := SerializeYAML(f)
	require.NoError(t, err)
	assert.Equal(t, `layout: post
title: My First Post
permalink: /blog/my-first-post/
draft: false
rating: 3
score: 2.5
tags:
  - go
  - yaml
`, string(out))
}

func TestSerializeYAML_QuotesAmbiguousStrings(t *testing.T) {
	f := NewFields()
	f.Set("answer", "true")
	f.Set("zip", "01234")

	out, err := SerializeYAML(f)
	require.NoError(t, err)

	parsed, err := ParseYAML(out)
	require.NoError(t, err)
	assert.Equal(t, "true", parsed["answer"])
	assert.Equal(t, "01234", parsed["zip"])
}

func TestSerializeYAML_NestedMapsSorted(t *testing.T) {
	f := NewFields()
	f.Set("extra", map[string]any{"b": 1, "a": "x"})

	out, err := SerializeYAML(f)
	require.NoError(t, err)
	assert.Equal(t, "extra:\n  a: x\n  b: 1\n", string(out))
}

func TestSerializeYAML_Empty(t *testing.T) {
	out, err := SerializeYAML(NewFields())
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestSplit(t *testing.T) {
	fm, body, had, err := Split([]byte("---\nkey: value\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, had)
	assert.Equal(t, "key: value\n", string(fm))
	assert.Equal(t, "# Title\n", string(body))

	_, body, had, err = Split([]byte("# Title\n"))
	require.NoError(t, err)
	assert.False(t, had)
	assert.Equal(t, "# Title\n", string(body))

	_, _, _, err = Split([]byte("---\nkey: value\n# Title\n"))
	assert.True(t, errors.Is(err, ErrMissingClosingDelimiter))
}

func TestJoinSplitRoundTrip(t *testing.T) {
	doc := Join([]byte("a: 1\n"), []byte("\nbody\n"))
	assert.Equal(t, "---\na: 1\n---\n\nbody\n", string(doc))

	fm, body, had, err := Split(doc)
	require.NoError(t, err)
	require.True(t, had)
	assert.Equal(t, "a: 1\n", string(fm))
	assert.Equal(t, "\nbody\n", string(body))
}

func TestFingerprint_IgnoresExistingFingerprintAndIsStable(t *testing.T) {
	f := NewFields()
	f.Set("title", "Hello")

	first, err := Fingerprint(f, "body")
	require.NoError(t, err)
	require.NotEmpty(t, first)

	f.Set(FingerprintKey, first)
	second, err := Fingerprint(f, "body")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	third, err := Fingerprint(f, "other body")
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}

func TestReadFingerprint(t *testing.T) {
	f := NewFields()
	f.Set("title", "Hello")
	f.Set(FingerprintKey, "abc123")
	fm, err := SerializeYAML(f)
	require.NoError(t, err)

	fp, err := ReadFingerprint(Join(fm, []byte("body\n")))
	require.NoError(t, err)
	assert.Equal(t, "abc123", fp)

	fp, err = ReadFingerprint([]byte("no header"))
	require.NoError(t, err)
	assert.Empty(t, fp)
}
