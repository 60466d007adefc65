package localdump

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/exp/maps"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/toothbrush/notion-dump/internal/config"
	"github.com/toothbrush/notion-dump/notion"
)

const maxSlugLength = 100

// dropped outright rather than turned into a separator, so "don't" becomes "dont"
const slugPunctuation = `'’"“”.,!?:;()[]{}`

var (
	nonSlugRun = regexp.MustCompile(`[^A-Za-z0-9_-]+`)
	dashRun    = regexp.MustCompile(`-{2,}`)
)

// Slugify makes s URL-safe: optionally lower-cased, diacritics and punctuation removed,
// everything else outside [A-Za-z0-9_-] collapsed to single dashes, at most 100 bytes.
func Slugify(s string, lower bool) string {
	if lower {
		s = strings.ToLower(s)
	}
	s = stripDiacritics(s)
	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(slugPunctuation, r) {
			return -1
		}
		return r
	}, s)
	s = nonSlugRun.ReplaceAllString(s, "-")
	s = dashRun.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if len(s) > maxSlugLength {
		s = strings.TrimRight(s[:maxSlugLength], "-")
	}
	return s
}

func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// PageTitle is the plain text of the page's title property.
func PageTitle(page notion.Page) string {
	names := maps.Keys(page.Properties)
	sort.Strings(names)
	for _, name := range names {
		if p := page.Properties[name]; p.Type == notion.PropertyTitle {
			return strings.TrimSpace(notion.PlainText(p.Title))
		}
	}
	return ""
}

// PageSlug derives the slug of one page.  It is never empty for a page with an ID.
func PageSlug(page notion.Page, rule config.SlugRule) string {
	var base string
	switch rule.From {
	case "", config.SlugFromTitle:
		base = PageTitle(page)
	case config.SlugFromID:
		base = page.ID
	default:
		if p, ok := page.Properties[rule.From]; ok {
			base = stringify(NormalizeProperty(p))
		}
	}

	if strings.TrimSpace(base) == "" && rule.Fallback == config.SlugFromTitle {
		base = PageTitle(page)
	}
	if strings.TrimSpace(base) == "" {
		base = page.ID
	}

	slug := Slugify(base, rule.LowerCase())
	if slug == "" {
		slug = Slugify(page.ID, rule.LowerCase())
	}
	if slug == "" {
		slug = NormalizeID(page.ID)
	}
	return slug
}

// assignSlugs computes the slug of every page of one source, in the same order as pages.  When
// two pages share a slug, the one created first keeps it and later ones get a suffix made of the
// start of their ID.
func assignSlugs(pages []notion.Page, rule config.SlugRule) []string {
	slugs := make([]string, len(pages))
	order := make([]int, len(pages))
	for i := range pages {
		order[i] = i
		slugs[i] = PageSlug(pages[i], rule)
	}
	sort.SliceStable(order, func(a, b int) bool {
		pa, pb := pages[order[a]], pages[order[b]]
		if !pa.CreatedTime.Equal(pb.CreatedTime) {
			return pa.CreatedTime.Before(pb.CreatedTime)
		}
		return pa.ID < pb.ID
	})

	taken := map[string]bool{}
	for _, i := range order {
		slug := slugs[i]
		if taken[slug] {
			id := NormalizeID(pages[i].ID)
			short := id
			if len(short) > 8 {
				short = short[:8]
			}
			slug = slug + "-" + short
			if taken[slug] {
				slug = slugs[i] + "-" + id
			}
		}
		taken[slug] = true
		slugs[i] = slug
	}
	return slugs
}
