package localdump

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/toothbrush/notion-dump/internal/frontmatter"
)

// RenderPage serializes front matter and body into file contents, adding the fingerprint key.
// The layout is `---\n<yaml>---\n\n<body>`.
func RenderPage(fields *frontmatter.Fields, body string) ([]byte, error) {
	fp, err := frontmatter.Fingerprint(fields, body)
	if err != nil {
		return nil, fmt.Errorf("localdump: couldn't fingerprint page: %w", err)
	}
	fields.Set(frontmatter.FingerprintKey, fp)

	fm, err := frontmatter.SerializeYAML(fields)
	if err != nil {
		return nil, fmt.Errorf("localdump: couldn't marshal front matter: %w", err)
	}
	return frontmatter.Join(fm, []byte("\n"+body)), nil
}

// NewLocalMarkdown places a rendered page at {dir}/{slug}.md, made absolute.
func NewLocalMarkdown(dir, pageID, slug string, content []byte) (LocalMarkdown, error) {
	abs, err := filepath.Abs(filepath.Join(dir, slug+".md"))
	if err != nil {
		return LocalMarkdown{}, fmt.Errorf("localdump: couldn't resolve output path for page %s: %w", pageID, err)
	}
	return LocalMarkdown{Content: content, PageID: pageID, Slug: slug, Path: abs}, nil
}

// WriteMarkdownIntoLocal writes one page to its Path, creating the directory if needed.  A file
// already holding the same bytes is left untouched and reported as unchanged.
func WriteMarkdownIntoLocal(md LocalMarkdown) (bool, error) {
	// there's probably a nicer way to express 0750 but meh
	if err := os.MkdirAll(filepath.Dir(md.Path), 0750); err != nil {
		return false, fmt.Errorf("localdump: couldn't create directory %s: %w", filepath.Dir(md.Path), err)
	}

	recent, err := LocalVersionIsRecent(md.Path, md.Content)
	if err != nil {
		return false, fmt.Errorf("localdump: couldn't check page %s: %w", md.PageID, err)
	}
	if recent {
		return true, nil
	}

	if err := os.WriteFile(md.Path, md.Content, 0640); err != nil {
		return false, fmt.Errorf("localdump: couldn't write page %s to %s: %w", md.PageID, md.Path, err)
	}
	return false, nil
}
