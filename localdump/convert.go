package localdump

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/exp/maps"

	"github.com/toothbrush/notion-dump/internal/config"
	"github.com/toothbrush/notion-dump/internal/frontmatter"
)

// pageAssets holds the resolved web paths of a page's cover and icon images, if any.
type pageAssets struct {
	Cover string
	Icon  string
}

// BuildFrontMatter assembles the ordered front matter of one page: fixed keys first, then the
// source's static extras, then the page's properties, then images.  Keys already present are
// never overwritten by later groups.
func BuildFrontMatter(meta RemoteObjectMetadata, src config.Source, assets pageAssets) *frontmatter.Fields {
	page := meta.Page
	fields := frontmatter.NewFields()

	title := PageTitle(page)
	if title == "" {
		title = meta.Slug
	}

	fields.Set("layout", src.Layout)
	fields.Set("title", title)
	fields.Set("permalink", meta.Permalink)
	fields.Set("sourcePageId", page.ID)
	if !page.CreatedTime.IsZero() {
		fields.Set("date", page.CreatedTime.UTC().Format(time.RFC3339))
	}
	if !page.LastEditedTime.IsZero() {
		fields.Set("lastmod", page.LastEditedTime.UTC().Format(time.RFC3339))
	}

	extraKeys := maps.Keys(src.ExtraFrontMatter)
	sort.Strings(extraKeys)
	for _, k := range extraKeys {
		if !fields.Has(k) {
			fields.Set(k, src.ExtraFrontMatter[k])
		}
	}

	excluded := map[string]bool{}
	for _, name := range src.ExcludeProperties {
		excluded[strings.TrimSpace(name)] = true
	}

	names := maps.Keys(page.Properties)
	sort.Strings(names)
	for _, name := range names {
		key := strings.TrimSpace(name)
		if key == "" || excluded[key] || fields.Has(key) {
			continue
		}
		v := NormalizeProperty(page.Properties[name])
		if isEmpty(v) {
			continue
		}
		fields.Set(key, v)
	}

	if assets.Cover != "" {
		fields.Set("coverImage", assets.Cover)
	}
	if assets.Icon != "" {
		fields.Set("iconImage", assets.Icon)
	}
	if page.Icon != nil && page.Icon.Emoji != "" {
		fields.Set("icon", page.Icon.Emoji)
	}
	return fields
}
