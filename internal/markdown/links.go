// Package markdown locates link destinations in rendered Markdown so they can be rewritten
// without re-rendering the document.
package markdown

import (
	"regexp"
	"sort"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

type LinkKind string

const (
	LinkKindInline LinkKind = "inline"
	LinkKindImage  LinkKind = "image"
)

// Link is one inline link or image.  Start and End delimit the destination inside the scanned
// source, End exclusive.
type Link struct {
	Kind        LinkKind
	Text        string
	Destination string
	Start       int
	End         int
}

// `[text](dest "title")` and `![alt](dest)`, one level of nested brackets in the text, optional
// angle brackets around dest.
var linkPattern = regexp.MustCompile(`(!?)\[((?:[^\[\]]|\[[^\[\]]*\])*)\]\(\s*<?([^)\s>]+)>?(?:\s+"[^"]*")?\s*\)`)

// ScanLinks returns the links of body ordered by destination offset.  Destinations inside fenced
// or indented code blocks and inside code spans are not links and are skipped.  An image nested in
// a link's text (`[![alt](img)](target)`) is reported as well as the enclosing link.
func ScanLinks(body []byte) []Link {
	code := codeRanges(body)
	links := scanRange(body, 0, len(body), code, nil)
	sort.SliceStable(links, func(i, j int) bool { return links[i].Start < links[j].Start })
	return links
}

func scanRange(body []byte, from, to int, code spans, links []Link) []Link {
	for _, m := range linkPattern.FindAllSubmatchIndex(body[from:to], -1) {
		for i := range m {
			if m[i] >= 0 {
				m[i] += from
			}
		}
		textStart, textEnd := m[4], m[5]
		destStart, destEnd := m[6], m[7]
		if textEnd > textStart {
			links = scanRange(body, textStart, textEnd, code, links)
		}
		if code.contains(destStart) {
			continue
		}
		kind := LinkKindInline
		if m[3] > m[2] {
			kind = LinkKindImage
		}
		links = append(links, Link{
			Kind:        kind,
			Text:        string(body[textStart:textEnd]),
			Destination: string(body[destStart:destEnd]),
			Start:       destStart,
			End:         destEnd,
		})
	}
	return links
}

type span struct{ start, end int }

type spans []span

func (s spans) contains(offset int) bool {
	i := sort.Search(len(s), func(i int) bool { return s[i].end > offset })
	return i < len(s) && s[i].start <= offset
}

func codeRanges(body []byte) spans {
	root := goldmark.New().Parser().Parse(text.NewReader(body))

	var out spans
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.FencedCodeBlock, *gmast.CodeBlock:
			lines := node.Lines()
			if lines.Len() > 0 {
				out = append(out, span{lines.At(0).Start, lines.At(lines.Len() - 1).Stop})
			}
			return gmast.WalkSkipChildren, nil
		case *gmast.CodeSpan:
			start, end := -1, -1
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*gmast.Text); ok {
					if start < 0 {
						start = t.Segment.Start
					}
					end = t.Segment.Stop
				}
			}
			if start >= 0 {
				out = append(out, span{start, end})
			}
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})

	sort.Slice(out, func(i, j int) bool { return out[i].start < out[j].start })
	return out
}
