package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toothbrush/notion-dump/internal/syncerr"
)

const (
	dbA = "0f5c2b1e-8a4d-4c59-9d3e-1a2b3c4d5e6f"
	dbB = "1e2d3c4b5a6978876554433221100ffe"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoad_YAML(t *testing.T) {
	p := writeFile(t, "config.yaml", `
workers: 8
sources:
  - database-id: `+dbA+`
    output-dir: /tmp/site/content/blog
    base-path: /blog
    layout: post
    slug:
      from: Slug
      lower: false
    exclude-properties: [Internal]
    extra-front-matter:
      draft: false
      authors: [team]
    clean-before-sync: false
`)

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Workers)
	require.Len(t, cfg.Sources, 1)

	s := cfg.Sources[0]
	assert.Equal(t, dbA, s.DatabaseID)
	assert.Equal(t, "Slug", s.Slug.From)
	assert.False(t, s.Slug.LowerCase())
	assert.False(t, s.CleanFirst())
	assert.Equal(t, []string{"Internal"}, s.ExcludeProperties)
	assert.Equal(t, false, s.ExtraFrontMatter["draft"])
}

func TestLoad_YAMLRejectsUnknownKeys(t *testing.T) {
	p := writeFile(t, "config.yaml", "sources:\n  - database-id: x\n    colour: blue\n")

	_, err := Load(p)
	require.Error(t, err)
	assert.True(t, syncerr.Is(err, syncerr.KindConfig))
}

func TestLoad_TOML(t *testing.T) {
	p := writeFile(t, "config.toml", `
workers = 2

[[sources]]
database-id = "`+dbB+`"
output-dir = "out/docs"
base-path = "/docs"
layout = "doc"
permalink = "/docs/{slug}.html"
`)

	cfg, err := Load(p)
	require.NoError(t, err)
	require.Len(t, cfg.Sources, 1)
	assert.Equal(t, "/docs/{slug}.html", cfg.Sources[0].Permalink)
	assert.True(t, cfg.Sources[0].CleanFirst())
}

func TestLoad_TOMLRejectsUnknownKeys(t *testing.T) {
	p := writeFile(t, "config.toml", "[[sources]]\ndatabase-id = \"x\"\ncolour = \"blue\"\n")

	_, err := Load(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colour")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Equal(t, 7, syncerr.ExitCode(err))
}

func TestNormalize_Defaults(t *testing.T) {
	s, err := Source{DatabaseID: dbA, OutputDir: "out/blog/", BasePath: "blog/", Layout: "post"}.Normalize()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("out", "blog"), s.OutputDir)
	assert.Equal(t, filepath.Join("out", "blog", "images"), s.ImagesDir)
	assert.Equal(t, "/blog", s.BasePath)
	assert.Equal(t, "/blog/images", s.ImagesURLPath)
	assert.Equal(t, "/blog/{slug}/", s.Permalink)
	assert.Equal(t, "/blog/my-post/", s.PermalinkFor("my-post"))
	assert.Equal(t, SlugFromTitle, s.Slug.From)
	assert.Equal(t, SlugFromID, s.Slug.Fallback)
	assert.True(t, s.Slug.LowerCase())
	assert.Equal(t, DefaultAssetHosts, s.AssetHosts)

	again, err := s.Normalize()
	require.NoError(t, err)
	assert.Equal(t, s, again)
}

func TestNormalize_RootBasePath(t *testing.T) {
	s, err := Source{OutputDir: "out", BasePath: "/"}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, "/{slug}/", s.Permalink)
	assert.Equal(t, "/images", s.ImagesURLPath)
}

func TestValidateSources(t *testing.T) {
	good := func(id, dir string) Source {
		return Source{DatabaseID: id, OutputDir: dir, BasePath: "/", Layout: "page"}
	}

	require.NoError(t, ValidateSources([]Source{good(dbA, "a"), good(dbB, "b")}))

	tests := []struct {
		name    string
		sources []Source
		want    string
	}{
		{"empty", nil, "no sources"},
		{"missing fields", []Source{{DatabaseID: dbA}}, "output-dir, base-path, layout"},
		{"bad id", []Source{good("not-a-uuid", "a")}, "not a valid id"},
		{"duplicate database", []Source{good(dbA, "a"), good(dbA, "b")}, "configured twice"},
		{"dashless duplicate", []Source{good("0f5c2b1e8a4d4c599d3e1a2b3c4d5e6f", "a"), good(dbA, "b")}, "configured twice"},
		{"shared output dir", []Source{good(dbA, "out"), good(dbB, "out/")}, "shared with source #1"},
		{"permalink placeholder", []Source{{DatabaseID: dbA, OutputDir: "a", BasePath: "/", Layout: "x", Permalink: "/fixed/"}}, "{slug}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSources(tt.sources)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.True(t, syncerr.Is(err, syncerr.KindConfig))
		})
	}
}
