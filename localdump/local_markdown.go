package localdump

import (
	"github.com/toothbrush/notion-dump/internal/config"
	"github.com/toothbrush/notion-dump/notion"
)

// LocalMarkdown is one page rendered and ready to be written.
type LocalMarkdown struct {
	// contents of the file, front matter included
	Content []byte

	// original Notion ID of the page
	PageID string

	Slug string

	// absolute output path, {outputDir}/{slug}.md
	Path string
}

// RemoteObjectMetadata is what the first pass learns about a page: enough to link to it from
// anywhere, and to write it later.
type RemoteObjectMetadata struct {
	Slug      string
	Permalink string

	Page notion.Page
}

// sourceState carries one source through a run.
type sourceState struct {
	index  int
	config config.Source
	title  string

	// in listing order, slugs assigned
	pages []RemoteObjectMetadata

	// filled by pass 2
	bodies    []string
	preExist  map[string]bool
	written   []string
	unchanged int
	err       error

	// degraded, not failed
	pageFailures  int
	assetFailures int
}

// SyncResult reports one source's outcome.  Err is set when a write or delete failed; the other
// sources are unaffected.  PagesFailed and AssetsFailed count degradations: pages written with
// an empty body and asset references left pointing at the remote.
type SyncResult struct {
	SourceID     string
	SourceTitle  string
	PageCount    int
	FilesWritten []string
	FilesDeleted []string
	PagesFailed  int
	AssetsFailed int
	Err          error
}

// Phase is a step of the run state machine.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseLoadConfig Phase = "load-config"
	PhaseEnumerate  Phase = "enumerate"
	PhaseWrite      Phase = "write"
	PhaseDone       Phase = "done"
	PhaseFailed     Phase = "failed"
)
