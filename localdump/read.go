package localdump

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ListAllMarkdownFiles returns the absolute paths of the *.md files directly inside inFolder.
// Subdirectories are not descended into, they may belong to another source.  A missing folder
// is empty; this might mean this is the first time running.
func ListAllMarkdownFiles(inFolder string) ([]string, error) {
	entries, err := os.ReadDir(inFolder)
	if errors.Is(err, os.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("localdump: error listing %s: %w", inFolder, err)
	}

	abs, err := filepath.Abs(inFolder)
	if err != nil {
		return nil, fmt.Errorf("localdump: couldn't resolve %s: %w", inFolder, err)
	}

	filenames := []string{}
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), ".md") {
			filenames = append(filenames, filepath.Join(abs, e.Name()))
		}
	}
	sort.Strings(filenames)
	return filenames, nil
}

// listRegularFiles returns every regular file directly inside dir.
func listRegularFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("localdump: error listing %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}
