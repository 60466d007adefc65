package markdown

import (
	"errors"
	"fmt"
	"sort"
)

// Edit is a byte-range replacement: Replacement replaces source[Start:End].
type Edit struct {
	Start       int
	End         int
	Replacement []byte
}

// ApplyEdits applies non-overlapping edits, all expressed as offsets into the original source.
//
// Edits are sorted and applied from the end of the document toward the beginning, so an edit
// never shifts the offsets of the ones still queued.
func ApplyEdits(source []byte, edits []Edit) ([]byte, error) {
	if len(edits) == 0 {
		return source, nil
	}

	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start == sorted[j].Start {
			return sorted[i].End > sorted[j].End
		}
		return sorted[i].Start > sorted[j].Start
	})

	for i, e := range sorted {
		if e.Start < 0 || e.End < 0 {
			return nil, fmt.Errorf("markdown: invalid edit[%d]: negative range", i)
		}
		if e.End < e.Start {
			return nil, fmt.Errorf("markdown: invalid edit[%d]: end before start", i)
		}
		if e.End > len(source) {
			return nil, fmt.Errorf("markdown: invalid edit[%d]: range out of bounds", i)
		}
		// sorted by Start descending, so this edit must end at or before the previous start
		if i > 0 && e.End > sorted[i-1].Start {
			return nil, errors.New("markdown: invalid edits: overlapping ranges")
		}
	}

	out := append([]byte(nil), source...)
	for _, e := range sorted {
		next := make([]byte, 0, len(out)-(e.End-e.Start)+len(e.Replacement))
		next = append(next, out[:e.Start]...)
		next = append(next, e.Replacement...)
		next = append(next, out[e.End:]...)
		out = next
	}
	return out, nil
}
