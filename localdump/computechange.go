package localdump

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/toothbrush/notion-dump/internal/frontmatter"
)

// LocalVersionIsRecent reports whether the file at path already holds exactly content.  The
// recorded fingerprints are compared first, so an unchanged page costs a read but no write.
func LocalVersionIsRecent(path string, content []byte) (bool, error) {
	existing, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("localdump: couldn't read %s: %w", path, err)
	}

	ours, err := frontmatter.ReadFingerprint(content)
	if err != nil {
		return false, fmt.Errorf("localdump: couldn't read fingerprint: %w", err)
	}
	theirs, err := frontmatter.ReadFingerprint(existing)
	if err != nil || theirs == "" || theirs != ours {
		// a broken or foreign file is simply stale
		return false, nil
	}

	return bytes.Equal(existing, content), nil
}
