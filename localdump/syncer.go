package localdump

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"github.com/toothbrush/notion-dump/internal/config"
	"github.com/toothbrush/notion-dump/internal/logfields"
	"github.com/toothbrush/notion-dump/internal/metrics"
	"github.com/toothbrush/notion-dump/internal/syncerr"
	"github.com/toothbrush/notion-dump/notion"
)

const (
	listTimeout = 30 * time.Second
	pageTimeout = 2 * time.Minute
)

// Remote is what the engine needs from the content source.  *notion.API implements it.
type Remote interface {
	QueryDatabase(ctx context.Context, id string, cursor string) (*notion.PageList, error)
	GetDatabase(ctx context.Context, id string) (*notion.Database, error)
	PageMarkdown(ctx context.Context, pageID string) (string, error)
	FetchBytes(ctx context.Context, url string) (io.ReadCloser, error)
}

// Syncer mirrors a set of sources into local Markdown trees.  A Syncer runs one sync at a time.
type Syncer struct {
	Remote  Remote
	Workers int

	Logger  *slog.Logger
	Metrics metrics.Recorder

	// Per-source progress bars are drawn here when set.
	ProgressOutput io.Writer

	mu    sync.Mutex
	phase Phase
	runID string

	log *slog.Logger
}

// Phase returns the current step of the run.
func (s *Syncer) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == "" {
		return PhaseIdle
	}
	return s.phase
}

// RunID is the identifier of the current or last run.
func (s *Syncer) RunID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runID
}

func (s *Syncer) setPhase(p Phase) {
	s.mu.Lock()
	s.phase = p
	s.mu.Unlock()
	s.log.Debug("Phase", logfields.Phase(string(p)))
}

// Run syncs every source in two passes.  The first lists all pages of all sources and fixes
// their permalinks; only once every source is listed does the second fetch, rewrite and write
// page bodies, so links across sources always resolve.
//
// A configuration or listing failure fails the run before anything is written.  After that,
// failures are per page (empty body), per asset (remote link kept) or per source (SyncResult.Err).
// A cancelled ctx stops the write pass between stages; interrupted sources are not pruned and Run
// returns a KindCanceled error alongside the results.
func (s *Syncer) Run(ctx context.Context, sources []config.Source) ([]SyncResult, error) {
	if s.Logger == nil {
		s.Logger = slog.Default()
	}
	if s.Metrics == nil {
		s.Metrics = metrics.NoopRecorder{}
	}
	if s.Workers < 1 {
		s.Workers = 4
	}

	runID := ulid.Make().String()
	s.mu.Lock()
	s.runID = runID
	s.mu.Unlock()
	s.log = s.Logger.With(logfields.RunID(runID))

	s.setPhase(PhaseLoadConfig)
	states, err := s.loadConfig(sources)
	if err != nil {
		return nil, s.fail(err)
	}

	s.setPhase(PhaseEnumerate)
	start := time.Now()
	refs := NewReferenceMap()
	if err := s.enumerate(ctx, states, refs); err != nil {
		return s.results(states), s.fail(err)
	}
	refs.Freeze()
	s.Metrics.ObservePhaseDuration(string(PhaseEnumerate), time.Since(start))
	s.log.Info("Enumerated sources",
		logfields.Count(refs.Len()),
		logfields.DurationMS(time.Since(start).Milliseconds()))

	s.setPhase(PhaseWrite)
	start = time.Now()
	s.write(ctx, states, refs)
	s.Metrics.ObservePhaseDuration(string(PhaseWrite), time.Since(start))

	results := s.results(states)
	for _, r := range results {
		s.Metrics.IncSourceOutcome(r.SourceID, r.Err == nil)
		s.Metrics.AddFilesDeleted(r.SourceID, len(r.FilesDeleted))
	}
	if err := ctx.Err(); err != nil {
		return results, s.fail(syncerr.Wrap(err, syncerr.KindCanceled, "", "sync interrupted"))
	}
	s.setPhase(PhaseDone)
	return results, nil
}

func (s *Syncer) fail(err error) error {
	s.setPhase(PhaseFailed)
	s.log.Error("Sync failed", logfields.Error(err))
	return err
}

func (s *Syncer) loadConfig(sources []config.Source) ([]*sourceState, error) {
	if s.Remote == nil {
		return nil, syncerr.New(syncerr.KindConfig, "", "no remote client configured")
	}

	states := make([]*sourceState, len(sources))
	for i, src := range sources {
		normalized, err := src.Normalize()
		if err != nil {
			return nil, syncerr.Wrap(err, syncerr.KindConfig, src.DatabaseID, "invalid source")
		}
		states[i] = &sourceState{index: i, config: normalized}
	}

	normalized := make([]config.Source, len(states))
	for i, st := range states {
		normalized[i] = st.config
	}
	if err := config.ValidateSources(normalized); err != nil {
		return nil, err
	}
	return states, nil
}

// enumerate is pass 1: list every source concurrently, cursor by cursor, and record the
// permalink of every page.
func (s *Syncer) enumerate(ctx context.Context, states []*sourceState, refs *ReferenceMap) error {
	grp, gctx := errgroup.WithContext(ctx)
	for _, st := range states {
		grp.Go(func() error {
			if err := s.enumerateSource(gctx, st, refs); err != nil {
				st.err = err
				return err
			}
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return err
	}
	return nil
}

func (s *Syncer) enumerateSource(ctx context.Context, st *sourceState, refs *ReferenceMap) error {
	id := st.config.DatabaseID
	wrap := func(err error, msg string) error {
		return syncerr.Wrap(err, syncerr.KindEnumeration, id, msg)
	}

	db, err := s.getDatabase(ctx, id)
	if err != nil {
		return wrap(err, "couldn't fetch database")
	}
	st.title = db.PlainTitle()

	var pages []notion.Page
	cursor := ""
	for {
		list, err := s.queryDatabase(ctx, id, cursor)
		if err != nil {
			return wrap(err, "couldn't list pages")
		}
		for _, p := range list.Results {
			if p.Archived || p.InTrash {
				continue
			}
			pages = append(pages, p)
		}
		if !list.HasMore {
			break
		}
		if list.NextCursor == "" {
			return wrap(fmt.Errorf("has_more set but next_cursor was empty"), "couldn't list pages")
		}
		cursor = list.NextCursor
	}

	slugs := assignSlugs(pages, st.config.Slug)
	st.pages = make([]RemoteObjectMetadata, len(pages))
	for i, p := range pages {
		meta := RemoteObjectMetadata{
			Slug:      slugs[i],
			Permalink: st.config.PermalinkFor(slugs[i]),
			Page:      p,
		}
		if err := refs.Add(p.ID, meta.Permalink); err != nil {
			return wrap(err, "couldn't record page")
		}
		st.pages[i] = meta
	}

	s.log.Info("Listed source",
		logfields.Source(id),
		slog.String("title", st.title),
		logfields.Count(len(pages)))
	return nil
}

func (s *Syncer) getDatabase(ctx context.Context, id string) (*notion.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()
	return s.Remote.GetDatabase(ctx, id)
}

func (s *Syncer) queryDatabase(ctx context.Context, id, cursor string) (*notion.PageList, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()
	return s.Remote.QueryDatabase(ctx, id, cursor)
}

// write is pass 2.
func (s *Syncer) write(ctx context.Context, states []*sourceState, refs *ReferenceMap) {
	// A: snapshot, then clean-first deletions, all before any source writes.
	for _, st := range states {
		preExist, err := snapshotMarkdown(st.config.OutputDir)
		if err != nil {
			st.err = syncerr.Wrap(err, syncerr.KindFilesystem, st.config.DatabaseID, "couldn't list output directory")
			continue
		}
		st.preExist = preExist
		if st.config.CleanFirst() {
			if err := s.cleanFirst(st); err != nil {
				st.err = syncerr.Wrap(err, syncerr.KindFilesystem, st.config.DatabaseID, "couldn't clean output")
			}
		}
	}

	// B: page bodies.
	s.fetchBodies(ctx, states)
	if s.interrupted(ctx, states) {
		return
	}

	// C: assets, named in config, page, then position order.
	cache := NewAssetCache(s.Remote, s.log, s.Metrics)
	jobs := assetJobs(states)
	cache.ResolveAll(ctx, jobs, s.Workers)
	if s.interrupted(ctx, states) {
		return
	}

	failed := map[string]int{}
	for _, j := range jobs {
		if cache.Failure(j.Locator) != nil {
			failed[j.Request.Source]++
		}
	}
	for _, st := range states {
		st.assetFailures = failed[st.config.DatabaseID]
	}

	// D: rewrite, write, reconcile.
	s.writePages(ctx, states, refs, cache)
	if s.interrupted(ctx, states) {
		return
	}
	for _, st := range states {
		s.reconcile(st)
	}
}

// interrupted fails every source still in good standing once ctx is done.  A failed source is
// never reconciled, so a partial write set can't prune live pages.
func (s *Syncer) interrupted(ctx context.Context, states []*sourceState) bool {
	err := ctx.Err()
	if err == nil {
		return false
	}
	for _, st := range states {
		if st.err == nil {
			st.err = syncerr.Wrap(err, syncerr.KindCanceled, st.config.DatabaseID, "sync interrupted")
		}
	}
	return true
}

func (s *Syncer) fetchBodies(ctx context.Context, states []*sourceState) {
	var mu sync.Mutex
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(s.Workers)

	for _, st := range states {
		if st.err != nil {
			continue
		}
		st.bodies = make([]string, len(st.pages))
		for i := range st.pages {
			grp.Go(func() error {
				page := st.pages[i].Page
				ctx, cancel := context.WithTimeout(gctx, pageTimeout)
				defer cancel()

				body, err := s.Remote.PageMarkdown(ctx, page.ID)
				if err != nil {
					if runErr := gctx.Err(); runErr != nil {
						// the run is stopping, not the page
						return runErr
					}
					mu.Lock()
					st.pageFailures++
					mu.Unlock()
					s.Metrics.IncPageFailure(st.config.DatabaseID)
					s.log.Warn("Page conversion failed, writing empty body",
						logfields.Source(st.config.DatabaseID),
						logfields.PageID(page.ID),
						logfields.Error(syncerr.Wrap(err, syncerr.KindPage, st.config.DatabaseID, "conversion failed")))
					return nil
				}
				st.bodies[i] = body
				return nil
			})
		}
	}
	_ = grp.Wait()
}

func assetJobs(states []*sourceState) []AssetJob {
	var jobs []AssetJob
	for _, st := range states {
		if st.err != nil {
			continue
		}
		for i, meta := range st.pages {
			req := func(index string) AssetRequest {
				return AssetRequest{Source: st.config.DatabaseID, Slug: meta.Slug, Index: index, Dir: st.config.ImagesDir, URLPath: st.config.ImagesURLPath}
			}
			for n, locator := range assetLocators(st.bodies[i], st.config.AssetHosts) {
				jobs = append(jobs, AssetJob{Locator: locator, Request: req(strconv.Itoa(n + 1))})
			}
			if u := meta.Page.Cover.URL(); u != "" {
				jobs = append(jobs, AssetJob{Locator: u, Request: req("cover")})
			}
			if u := meta.Page.Icon.URL(); u != "" {
				jobs = append(jobs, AssetJob{Locator: u, Request: req("icon")})
			}
		}
	}
	return jobs
}

func (s *Syncer) writePages(ctx context.Context, states []*sourceState, refs *ReferenceMap, cache *AssetCache) {
	bars := newProgress(s.ProgressOutput, states)
	defer bars.wait()

	var mu sync.Mutex
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(s.Workers)

	for _, st := range states {
		if st.err != nil {
			continue
		}
		for i := range st.pages {
			grp.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				path, unchanged, err := s.writePage(st, i, refs, cache)

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					if st.err == nil {
						st.err = syncerr.Wrap(err, syncerr.KindFilesystem, st.config.DatabaseID, "couldn't write page")
					}
					s.log.Error("Writing page failed",
						logfields.Source(st.config.DatabaseID),
						logfields.PageID(st.pages[i].Page.ID),
						logfields.Error(err))
					return nil
				}
				st.written = append(st.written, path)
				if unchanged {
					st.unchanged++
				}
				s.Metrics.IncPageWritten(st.config.DatabaseID, unchanged)
				bars.increment(st.index)
				return nil
			})
		}
	}
	_ = grp.Wait()
}

func (s *Syncer) writePage(st *sourceState, i int, refs *ReferenceMap, cache *AssetCache) (string, bool, error) {
	meta := st.pages[i]

	body, err := RewriteBody(st.bodies[i], refs, st.config.AssetHosts, cache.Path)
	if err != nil {
		// unrewritten links are still links
		s.log.Warn("Link rewriting failed", logfields.PageID(meta.Page.ID), logfields.Error(err))
		body = st.bodies[i]
	}

	assets := pageAssets{}
	if u := meta.Page.Cover.URL(); u != "" {
		assets.Cover = cache.Path(u)
	}
	if u := meta.Page.Icon.URL(); u != "" {
		assets.Icon = cache.Path(u)
	}

	content, err := RenderPage(BuildFrontMatter(meta, st.config, assets), body)
	if err != nil {
		return "", false, err
	}

	md, err := NewLocalMarkdown(st.config.OutputDir, meta.Page.ID, meta.Slug, content)
	if err != nil {
		return "", false, err
	}
	unchanged, err := WriteMarkdownIntoLocal(md)
	if err != nil {
		return "", false, err
	}
	s.log.Debug("Wrote page",
		logfields.PageID(md.PageID),
		logfields.Slug(md.Slug),
		logfields.Path(md.Path),
		slog.Bool("unchanged", unchanged))
	return md.Path, unchanged, nil
}

// reconcile removes stale files of a diff-after source.  It never deletes for a source whose
// writes failed.
func (s *Syncer) reconcile(st *sourceState) {
	if st.err != nil || st.config.CleanFirst() {
		return
	}
	if err := s.pruneStale(st); err != nil {
		st.err = syncerr.Wrap(err, syncerr.KindFilesystem, st.config.DatabaseID, "couldn't prune")
	}
}

func (s *Syncer) results(states []*sourceState) []SyncResult {
	results := make([]SyncResult, 0, len(states))
	for _, st := range states {
		written := append([]string{}, st.written...)
		sort.Strings(written)

		r := SyncResult{
			SourceID:     st.config.DatabaseID,
			SourceTitle:  st.title,
			PageCount:    len(st.pages),
			FilesWritten: written,
			FilesDeleted: deletedFiles(st.preExist),
			PagesFailed:  st.pageFailures,
			AssetsFailed: st.assetFailures,
			Err:          st.err,
		}
		if r.Err != nil {
			s.log.Error("Source failed", logfields.Source(r.SourceID), logfields.Error(r.Err))
		} else {
			s.log.Info("Source synced",
				logfields.Source(r.SourceID),
				logfields.Count(len(r.FilesWritten)),
				slog.Int("unchanged", st.unchanged),
				slog.Int("deleted", len(r.FilesDeleted)))
		}
		results = append(results, r)
	}
	return results
}
