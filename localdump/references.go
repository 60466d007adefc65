package localdump

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
	"sync"

	"github.com/toothbrush/notion-dump/internal/markdown"
)

// NormalizeID is the reference-map key of a page ID: dashes stripped, lower case.
func NormalizeID(id string) string {
	return strings.ToLower(strings.ReplaceAll(id, "-", ""))
}

// ReferenceMap maps page IDs to permalinks across every source of a run.  It is filled during
// the first pass, then frozen; after that it is read-only.
type ReferenceMap struct {
	mu      sync.RWMutex
	entries map[string]string
	frozen  bool
}

func NewReferenceMap() *ReferenceMap {
	return &ReferenceMap{entries: map[string]string{}}
}

// Add records the permalink of a page.  It fails once the map is frozen, or when the ID is
// already mapped to a different permalink.
func (m *ReferenceMap) Add(id, permalink string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.frozen {
		return fmt.Errorf("localdump: reference map is frozen, can't add %s", id)
	}
	key := NormalizeID(id)
	if prev, ok := m.entries[key]; ok && prev != permalink {
		return fmt.Errorf("localdump: page %s mapped twice (%s and %s)", id, prev, permalink)
	}
	m.entries[key] = permalink
	return nil
}

func (m *ReferenceMap) Freeze() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frozen = true
}

func (m *ReferenceMap) Lookup(id string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.entries[NormalizeID(id)]
	return p, ok
}

func (m *ReferenceMap) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

var trailingPageID = regexp.MustCompile(`(?:^|-)([0-9a-fA-F]{32}|[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12})$`)

// PageIDFromURL extracts the page ID from a link to a Notion page: an address on notion.so or a
// *.notion.site workspace whose last path segment ends in the ID, or a bare /{id} path.  The
// fragment, usually a block anchor, is returned alongside.
func PageIDFromURL(raw string) (id string, fragment string, ok bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", false
	}

	host := strings.ToLower(u.Hostname())
	relative := false
	switch {
	case host == "notion.so", host == "www.notion.so", strings.HasSuffix(host, ".notion.site"):
	case host == "" && u.Scheme == "" && strings.HasPrefix(u.Path, "/"):
		relative = true
	default:
		return "", "", false
	}

	last := path.Base(u.Path)
	m := trailingPageID.FindStringSubmatch(last)
	if m == nil {
		return "", "", false
	}
	if relative && u.Path != "/"+m[1] {
		return "", "", false
	}
	return NormalizeID(m[1]), u.Fragment, true
}

// IsAssetURL reports whether raw points at one of hosts.  A host entry containing a slash
// ("www.notion.so/image") is matched as a prefix of host+path; otherwise subdomains match too.
func IsAssetURL(raw string, hosts []string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	hostname := strings.ToLower(u.Hostname())
	hostPath := hostname + u.Path

	for _, h := range hosts {
		h = strings.ToLower(strings.TrimSuffix(h, "/"))
		if strings.Contains(h, "/") {
			if hostPath == h || strings.HasPrefix(hostPath, h+"/") {
				return true
			}
			continue
		}
		if hostname == h || strings.HasSuffix(hostname, "."+h) {
			return true
		}
	}
	return false
}

// assetLocators returns the distinct asset image destinations in body, in document order.
func assetLocators(body string, hosts []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, l := range markdown.ScanLinks([]byte(body)) {
		if l.Kind != markdown.LinkKindImage || seen[l.Destination] || !IsAssetURL(l.Destination, hosts) {
			continue
		}
		seen[l.Destination] = true
		out = append(out, l.Destination)
	}
	return out
}

// RewriteBody points asset images at their cached copies and links to known pages at their
// permalinks.  resolveAsset returns the local path of a locator, or the locator itself when it
// has none.  Everything else is left as it was.
func RewriteBody(body string, refs *ReferenceMap, hosts []string, resolveAsset func(locator string) string) (string, error) {
	var edits []markdown.Edit
	for _, l := range markdown.ScanLinks([]byte(body)) {
		replacement := ""
		switch l.Kind {
		case markdown.LinkKindImage:
			if IsAssetURL(l.Destination, hosts) {
				replacement = resolveAsset(l.Destination)
			}
		case markdown.LinkKindInline:
			if id, fragment, ok := PageIDFromURL(l.Destination); ok {
				if permalink, ok := refs.Lookup(id); ok {
					replacement = permalink
					if fragment != "" {
						replacement += "#" + fragment
					}
				}
			}
		}
		if replacement == "" || replacement == l.Destination {
			continue
		}
		edits = append(edits, markdown.Edit{Start: l.Start, End: l.End, Replacement: []byte(replacement)})
	}

	out, err := markdown.ApplyEdits([]byte(body), edits)
	if err != nil {
		return "", fmt.Errorf("localdump: couldn't rewrite links: %w", err)
	}
	return string(out), nil
}
