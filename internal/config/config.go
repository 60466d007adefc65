// Package config holds the on-disk configuration: a list of sources, each mirroring one remote
// database into one output directory, plus the handful of CLI options that may also be set in
// the file.
package config

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// DefaultAssetHosts are the hosts Notion serves uploaded files from.  Image links pointing
// anywhere else are left alone.
var DefaultAssetHosts = []string{
	"prod-files-secure.s3.us-west-2.amazonaws.com",
	"s3.us-west-2.amazonaws.com",
	"s3-us-west-2.amazonaws.com",
	"file.notion.so",
	"www.notion.so/image",
	"notion.so/image",
}

type Config struct {
	Workers         int      `yaml:"workers" toml:"workers"`
	WithVCR         *bool    `yaml:"with-vcr" toml:"with-vcr"`
	LogFile         string   `yaml:"log-file" toml:"log-file"`
	MetricsTextfile string   `yaml:"metrics-textfile" toml:"metrics-textfile"`
	AuthTokenCmd    []string `yaml:"auth-token-cmd" toml:"auth-token-cmd"`

	Sources []Source `yaml:"sources" toml:"sources"`
}

// Source is one remote database and how to export it.
type Source struct {
	DatabaseID string `yaml:"database-id" toml:"database-id"`
	OutputDir  string `yaml:"output-dir" toml:"output-dir"`

	// Defaults to {output-dir}/images and {base-path}/images.
	ImagesDir     string `yaml:"images-dir" toml:"images-dir"`
	ImagesURLPath string `yaml:"images-url-path" toml:"images-url-path"`

	BasePath string   `yaml:"base-path" toml:"base-path"`
	Layout   string   `yaml:"layout" toml:"layout"`
	Slug     SlugRule `yaml:"slug" toml:"slug"`

	// Route of each page, with {slug} substituted.  Defaults to {base-path}/{slug}/.
	Permalink string `yaml:"permalink" toml:"permalink"`

	ExcludeProperties []string       `yaml:"exclude-properties" toml:"exclude-properties"`
	ExtraFrontMatter  map[string]any `yaml:"extra-front-matter" toml:"extra-front-matter"`

	// Delete everything in the output and image directories before writing.  Defaults to true;
	// when false, only stale Markdown files are removed after writing.
	CleanBeforeSync *bool `yaml:"clean-before-sync" toml:"clean-before-sync"`

	AssetHosts []string `yaml:"asset-hosts" toml:"asset-hosts"`
}

// SlugRule says where a page's slug comes from: "title", "id" or a property name.
type SlugRule struct {
	From     string `yaml:"from" toml:"from"`
	Fallback string `yaml:"fallback" toml:"fallback"` // "id" or "title"
	Lower    *bool  `yaml:"lower" toml:"lower"`
}

const (
	SlugFromTitle = "title"
	SlugFromID    = "id"
)

// LowerCase defaults to true.
func (r SlugRule) LowerCase() bool {
	return r.Lower == nil || *r.Lower
}

// CleanFirst reports whether the source uses the clean-first reconciliation policy.
func (s Source) CleanFirst() bool {
	return s.CleanBeforeSync == nil || *s.CleanBeforeSync
}

// PermalinkFor substitutes slug into the permalink template.
func (s Source) PermalinkFor(slug string) string {
	return strings.ReplaceAll(s.Permalink, "{slug}", slug)
}

// Normalize fills in defaults and expands ~ in directories.  It is idempotent.
func (s Source) Normalize() (Source, error) {
	var err error
	if s.OutputDir, err = expandDir(s.OutputDir); err != nil {
		return s, err
	}
	if s.ImagesDir == "" && s.OutputDir != "" {
		s.ImagesDir = filepath.Join(s.OutputDir, "images")
	} else if s.ImagesDir, err = expandDir(s.ImagesDir); err != nil {
		return s, err
	}

	s.BasePath = cleanURLPath(s.BasePath)
	if s.ImagesURLPath == "" {
		s.ImagesURLPath = path.Join("/", s.BasePath, "images")
	} else {
		s.ImagesURLPath = cleanURLPath(s.ImagesURLPath)
	}
	if s.Permalink == "" {
		s.Permalink = strings.TrimSuffix(s.BasePath, "/") + "/{slug}/"
	}

	if s.Slug.From == "" {
		s.Slug.From = SlugFromTitle
	}
	if s.Slug.Fallback == "" {
		s.Slug.Fallback = SlugFromID
	}
	if len(s.AssetHosts) == 0 {
		s.AssetHosts = DefaultAssetHosts
	}
	return s, nil
}

// Normalize applies Source.Normalize to every source.
func (c *Config) Normalize() error {
	for i := range c.Sources {
		s, err := c.Sources[i].Normalize()
		if err != nil {
			return err
		}
		c.Sources[i] = s
	}
	return nil
}

func expandDir(dir string) (string, error) {
	if dir == "" {
		return "", nil
	}
	expanded, err := homedir.Expand(dir)
	if err != nil {
		return "", configErr("", "unable to expand homedir in %q: %v", dir, err)
	}
	return filepath.Clean(expanded), nil
}

// cleanURLPath gives "", "/" or a rooted path without a trailing slash.
func cleanURLPath(p string) string {
	if p == "" {
		return ""
	}
	return path.Clean("/" + strings.Trim(p, "/"))
}
