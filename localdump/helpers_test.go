package localdump

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/toothbrush/notion-dump/internal/config"
	"github.com/toothbrush/notion-dump/notion"
)

const (
	dbPosts = "11111111-1111-1111-1111-111111111111"
	dbDocs  = "22222222-2222-2222-2222-222222222222"
)

// fakeRemote serves databases, bodies and assets from memory, two pages per listing call.
type fakeRemote struct {
	mu sync.Mutex

	titles   map[string]string
	pages    map[string][]notion.Page
	bodies   map[string]string
	bodyErrs map[string]error
	assets   map[string][]byte
	listErrs map[string]error

	calls   int
	fetches map[string]int
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		titles:   map[string]string{},
		pages:    map[string][]notion.Page{},
		bodies:   map[string]string{},
		bodyErrs: map[string]error{},
		assets:   map[string][]byte{},
		listErrs: map[string]error{},
		fetches:  map[string]int{},
	}
}

func (f *fakeRemote) addPage(db string, p notion.Page, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[db] = append(f.pages[db], p)
	f.bodies[p.ID] = body
}

func (f *fakeRemote) removePage(db, id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.pages[db][:0]
	for _, p := range f.pages[db] {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	f.pages[db] = kept
}

func (f *fakeRemote) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeRemote) fetchCount(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches[url]
}

func (f *fakeRemote) GetDatabase(_ context.Context, id string) (*notion.Database, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.listErrs[id]; err != nil {
		return nil, err
	}
	title := f.titles[id]
	return &notion.Database{ID: id, Title: []notion.RichText{{Type: "text", PlainText: title}}}, nil
}

func (f *fakeRemote) QueryDatabase(_ context.Context, id string, cursor string) (*notion.PageList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.listErrs[id]; err != nil {
		return nil, err
	}

	start := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil {
			return nil, fmt.Errorf("bad cursor %q", cursor)
		}
		start = n
	}
	all := f.pages[id]
	end := min(start+2, len(all))

	list := &notion.PageList{Results: append([]notion.Page{}, all[start:end]...)}
	if end < len(all) {
		list.HasMore = true
		list.NextCursor = strconv.Itoa(end)
	}
	return list, nil
}

func (f *fakeRemote) PageMarkdown(_ context.Context, pageID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if err := f.bodyErrs[pageID]; err != nil {
		return "", err
	}
	return f.bodies[pageID], nil
}

func (f *fakeRemote) FetchBytes(_ context.Context, url string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.fetches[url]++
	b, ok := f.assets[url]
	if !ok {
		return nil, fmt.Errorf("404 for %s", url)
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func titleProperty(title string) notion.Property {
	return notion.Property{
		Type:  notion.PropertyTitle,
		Title: []notion.RichText{{Type: "text", PlainText: title}},
	}
}

// titledPage is a page with a Name title property, created n minutes after baseTime.
func titledPage(id, title string, n int) notion.Page {
	created := baseTime.Add(time.Duration(n) * time.Minute)
	return notion.Page{
		Object:         "page",
		ID:             id,
		CreatedTime:    created,
		LastEditedTime: created.Add(time.Hour),
		Properties:     map[string]notion.Property{"Name": titleProperty(title)},
	}
}

func pageID(n int) string {
	return fmt.Sprintf("aaaaaaaa-0000-0000-0000-%012d", n)
}

func testSource(db, out, base string) config.Source {
	return config.Source{
		DatabaseID: db,
		OutputDir:  out,
		BasePath:   base,
		Layout:     "post",
	}
}

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }
