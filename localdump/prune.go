package localdump

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"golang.org/x/exp/maps"

	"github.com/toothbrush/notion-dump/internal/logfields"
)

// snapshotMarkdown records the Markdown files present in dir before anything is touched.
func snapshotMarkdown(dir string) (map[string]bool, error) {
	files, err := ListAllMarkdownFiles(dir)
	if err != nil {
		return nil, err
	}
	snapshot := make(map[string]bool, len(files))
	for _, f := range files {
		snapshot[f] = true
	}
	return snapshot, nil
}

// cleanFirst empties a source's output before pass 2 writes anything: top-level Markdown files
// in the output directory and every file in the images directory.
func (s *Syncer) cleanFirst(st *sourceState) error {
	mdFiles, err := ListAllMarkdownFiles(st.config.OutputDir)
	if err != nil {
		return err
	}
	images, err := listRegularFiles(st.config.ImagesDir)
	if err != nil {
		return err
	}

	for _, f := range append(mdFiles, images...) {
		if err := os.Remove(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("localdump: failed to delete %s: %w", f, err)
		}
	}
	s.log.Debug("Cleaned output before sync",
		logfields.Source(st.config.DatabaseID),
		logfields.Count(len(mdFiles)+len(images)))
	return nil
}

// pruneStale deletes the Markdown files that were there before the run and were not written by
// it.
func (s *Syncer) pruneStale(st *sourceState) error {
	fresh := make(map[string]bool, len(st.written))
	for _, f := range st.written {
		fresh[f] = true
	}

	for _, f := range sortedKeys(st.preExist) {
		if fresh[f] {
			// file is fresh, skip!
			continue
		}

		// if we're here, it's a stale/unknown file.
		s.log.Info("Pruning", logfields.Path(f), logfields.Source(st.config.DatabaseID))
		if err := os.Remove(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("localdump: failed to delete %s: %w", f, err)
		}
	}
	return nil
}

// deletedFiles lists the files that existed before the run and are gone now.
func deletedFiles(preExist map[string]bool) []string {
	deleted := []string{}
	for _, f := range sortedKeys(preExist) {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			deleted = append(deleted, f)
		}
	}
	return deleted
}

func sortedKeys(m map[string]bool) []string {
	keys := maps.Keys(m)
	sort.Strings(keys)
	return keys
}
