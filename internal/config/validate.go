package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/toothbrush/notion-dump/internal/syncerr"
)

func configErr(source string, format string, a ...any) error {
	return syncerr.New(syncerr.KindConfig, source, format, a...)
}

// Validate checks the loaded sources.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return configErr("", "workers cannot be negative")
	}
	return ValidateSources(c.Sources)
}

// ValidateSources rejects an empty source list, sources missing a required field, and two
// sources sharing a database or an output directory.  All problems are reported together.
func ValidateSources(sources []Source) error {
	if len(sources) == 0 {
		return configErr("", "no sources configured")
	}

	var errs []error
	seenIDs := map[string]int{}
	seenDirs := map[string]int{}

	for i, s := range sources {
		name := s.DatabaseID
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
		}

		if err := validateSource(s); err != nil {
			errs = append(errs, syncerr.Wrap(err, syncerr.KindConfig, name, "invalid source"))
			continue
		}

		id, _ := uuid.Parse(s.DatabaseID)
		if prev, ok := seenIDs[id.String()]; ok {
			errs = append(errs, configErr(name, "database configured twice (also source #%d)", prev+1))
		}
		seenIDs[id.String()] = i

		dir, err := filepath.Abs(s.OutputDir)
		if err != nil {
			dir = s.OutputDir
		}
		if prev, ok := seenDirs[dir]; ok {
			errs = append(errs, configErr(name, "output directory %s shared with source #%d", s.OutputDir, prev+1))
		}
		seenDirs[dir] = i
	}

	return errors.Join(errs...)
}

func validateSource(s Source) error {
	var missing []string
	if s.DatabaseID == "" {
		missing = append(missing, "database-id")
	}
	if s.OutputDir == "" {
		missing = append(missing, "output-dir")
	}
	if s.BasePath == "" {
		missing = append(missing, "base-path")
	}
	if s.Layout == "" {
		missing = append(missing, "layout")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required field(s): %s", strings.Join(missing, ", "))
	}

	if _, err := uuid.Parse(s.DatabaseID); err != nil {
		return fmt.Errorf("database-id %q is not a valid id: %w", s.DatabaseID, err)
	}
	if s.Permalink != "" && !strings.Contains(s.Permalink, "{slug}") {
		return fmt.Errorf("permalink %q lacks the {slug} placeholder", s.Permalink)
	}
	switch s.Slug.Fallback {
	case "", SlugFromID, SlugFromTitle:
	default:
		return fmt.Errorf("slug fallback must be %q or %q, got %q", SlugFromID, SlugFromTitle, s.Slug.Fallback)
	}
	return nil
}
