package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanLinks_InlineAndImage(t *testing.T) {
	body := []byte("Intro [see this](https://www.notion.so/abc) and ![a cat](https://files.example/cat.png \"Cat\").\n")

	links := ScanLinks(body)
	require.Len(t, links, 2)

	assert.Equal(t, LinkKindInline, links[0].Kind)
	assert.Equal(t, "see this", links[0].Text)
	assert.Equal(t, "https://www.notion.so/abc", links[0].Destination)
	assert.Equal(t, links[0].Destination, string(body[links[0].Start:links[0].End]))

	assert.Equal(t, LinkKindImage, links[1].Kind)
	assert.Equal(t, "a cat", links[1].Text)
	assert.Equal(t, "https://files.example/cat.png", links[1].Destination)
	assert.Equal(t, links[1].Destination, string(body[links[1].Start:links[1].End]))
}

func TestScanLinks_LinkedImage(t *testing.T) {
	body := []byte("[![logo](https://img.example/l.png)](https://www.notion.so/target)\n")

	links := ScanLinks(body)
	require.Len(t, links, 2)
	assert.Equal(t, LinkKindImage, links[0].Kind)
	assert.Equal(t, "https://img.example/l.png", links[0].Destination)
	assert.Equal(t, LinkKindInline, links[1].Kind)
	assert.Equal(t, "https://www.notion.so/target", links[1].Destination)
}

func TestScanLinks_SkipsCode(t *testing.T) {
	body := []byte("Real [a](https://a.example)\n\n```\n[b](https://b.example)\n```\n\nInline `[c](https://c.example)` too.\n\n    [d](https://d.example)\n")

	links := ScanLinks(body)
	require.Len(t, links, 1)
	assert.Equal(t, "https://a.example", links[0].Destination)
}

func TestScanLinks_AngleBrackets(t *testing.T) {
	body := []byte("[x](<https://x.example/a>)")
	links := ScanLinks(body)
	require.Len(t, links, 1)
	assert.Equal(t, "https://x.example/a", links[0].Destination)
}

func TestScanLinks_None(t *testing.T) {
	assert.Empty(t, ScanLinks([]byte("plain [not a link] (nope)")))
}
