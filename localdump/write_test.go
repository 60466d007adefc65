package localdump

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toothbrush/notion-dump/internal/frontmatter"
)

func renderTestPage(t *testing.T, title, body string) []byte {
	t.Helper()
	fields := frontmatter.NewFields()
	fields.Set("layout", "post")
	fields.Set("title", title)
	content, err := RenderPage(fields, body)
	require.NoError(t, err)
	return content
}

func TestRenderPage_Layout(t *testing.T) {
	content := string(renderTestPage(t, "Hello", "Body text\n"))

	assert.True(t, strings.HasPrefix(content, "---\nlayout: post\ntitle: Hello\nfingerprint: "), content)
	assert.True(t, strings.HasSuffix(content, "\n---\n\nBody text\n"), content)

	// the same input renders the same bytes
	assert.Equal(t, content, string(renderTestPage(t, "Hello", "Body text\n")))
}

func TestWriteMarkdownIntoLocal(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "posts")
	content := renderTestPage(t, "Hello", "Body\n")

	md, err := NewLocalMarkdown(dir, "page-1", "hello", content)
	require.NoError(t, err)
	path := md.Path
	assert.True(t, filepath.IsAbs(path))
	assert.Equal(t, "hello.md", filepath.Base(path))

	unchanged, err := WriteMarkdownIntoLocal(md)
	require.NoError(t, err)
	assert.False(t, unchanged)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, got)

	unchanged, err = WriteMarkdownIntoLocal(md)
	require.NoError(t, err)
	assert.True(t, unchanged)

	changed := renderTestPage(t, "Hello", "Edited\n")
	md.Content = changed
	unchanged, err = WriteMarkdownIntoLocal(md)
	require.NoError(t, err)
	assert.False(t, unchanged)
	got, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, changed, got)
}

func TestWriteMarkdownIntoLocal_ErrorNamesPage(t *testing.T) {
	root := t.TempDir()
	md, err := NewLocalMarkdown(root, "page-42", "taken", []byte("x"))
	require.NoError(t, err)
	// a directory where the file should go
	require.NoError(t, os.Mkdir(md.Path, 0750))

	_, err = WriteMarkdownIntoLocal(md)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page-42")
	assert.Contains(t, err.Error(), md.Path)
}

func TestLocalVersionIsRecent_ForeignFileIsStale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.md")
	require.NoError(t, os.WriteFile(path, []byte("# hand written\n"), 0640))

	recent, err := LocalVersionIsRecent(path, renderTestPage(t, "X", "x\n"))
	require.NoError(t, err)
	assert.False(t, recent)
}

func TestListAllMarkdownFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.md"), nil, 0640))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), nil, 0640))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0640))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "c.md"), nil, 0640))

	files, err := ListAllMarkdownFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.md"), filepath.Join(dir, "b.md")}, files)

	files, err = ListAllMarkdownFiles(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, files)
}
