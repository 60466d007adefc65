package localdump

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/toothbrush/notion-dump/internal/logfields"
	"github.com/toothbrush/notion-dump/internal/metrics"
	"github.com/toothbrush/notion-dump/internal/syncerr"
)

// Fetcher opens a download of a remote asset.
type Fetcher interface {
	FetchBytes(ctx context.Context, url string) (io.ReadCloser, error)
}

// AssetRequest says where an asset goes and what to call it.
type AssetRequest struct {
	Source  string // owning database
	Slug    string // owning page
	Index   string // position in the page body, or "cover" / "icon"
	Dir     string // images directory
	URLPath string // web path of Dir
}

// AssetJob pairs a locator with the request of its first user.
type AssetJob struct {
	Locator string
	Request AssetRequest
}

const digestLength = 12

var imageExtensions = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "gif": true, "webp": true, "svg": true,
	"avif": true, "bmp": true, "ico": true, "tif": true, "tiff": true, "heic": true,
}

// AssetCache downloads assets and names them by content.  Entries live for one run.  Identical
// bytes under different locators end up in one file, named after whichever request committed
// first.
type AssetCache struct {
	Remote  Fetcher
	Logger  *slog.Logger
	Metrics metrics.Recorder

	mu       sync.Mutex
	resolved map[string]string // locator -> web path
	byDigest map[string]string // dir + digest + ext -> web path
	failed   map[string]error  // locator -> last failure

	group singleflight.Group
}

func NewAssetCache(remote Fetcher, logger *slog.Logger, recorder metrics.Recorder) *AssetCache {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &AssetCache{
		Remote:   remote,
		Logger:   logger,
		Metrics:  recorder,
		resolved: map[string]string{},
		byDigest: map[string]string{},
		failed:   map[string]error{},
	}
}

// Lookup returns the local web path of a locator resolved earlier in the run.  No I/O.
func (c *AssetCache) Lookup(locator string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.resolved[locator]
	return p, ok
}

// Path is Lookup falling back to the locator itself.
func (c *AssetCache) Path(locator string) string {
	if p, ok := c.Lookup(locator); ok {
		return p
	}
	return locator
}

// Failure is the classified error of the last failed attempt at locator, nil if none.
func (c *AssetCache) Failure(locator string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failed[locator]
}

// Fetch resolves one asset outside of a batch.  Concurrent calls for the same locator share one
// download.  On failure the error is logged and the locator is returned unchanged, and nothing is
// cached.
func (c *AssetCache) Fetch(ctx context.Context, locator string, req AssetRequest) string {
	if p, ok := c.Lookup(locator); ok {
		c.Metrics.IncAssetResult(metrics.AssetHit)
		return p
	}

	v, _, _ := c.group.Do("resolve\x00"+locator, func() (any, error) {
		if p, ok := c.Lookup(locator); ok {
			c.Metrics.IncAssetResult(metrics.AssetHit)
			return p, nil
		}
		staged, err := c.download(ctx, locator, req.Dir)
		if err != nil {
			c.fail(locator, req, err)
			return locator, nil
		}
		p, err := c.commit(locator, req, staged)
		if err != nil {
			c.fail(locator, req, err)
			return locator, nil
		}
		return p, nil
	})
	return v.(string)
}

// ResolveAll downloads the jobs' assets concurrently but names them in job order, so the owner
// of content shared between pages does not depend on download timing.  Jobs for an already
// resolved locator are cache hits.
func (c *AssetCache) ResolveAll(ctx context.Context, jobs []AssetJob, workers int) {
	var todo []AssetJob
	queued := map[string]bool{}
	for _, j := range jobs {
		if _, ok := c.Lookup(j.Locator); ok || queued[j.Locator] {
			c.Metrics.IncAssetResult(metrics.AssetHit)
			continue
		}
		queued[j.Locator] = true
		todo = append(todo, j)
	}

	staged := make([]stagedAsset, len(todo))
	errs := make([]error, len(todo))

	grp, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		grp.SetLimit(workers)
	}
	for i, j := range todo {
		grp.Go(func() error {
			staged[i], errs[i] = c.download(gctx, j.Locator, j.Request.Dir)
			return nil
		})
	}
	_ = grp.Wait()

	for i, j := range todo {
		if errs[i] != nil {
			c.fail(j.Locator, j.Request, errs[i])
			continue
		}
		if _, err := c.commit(j.Locator, j.Request, staged[i]); err != nil {
			c.fail(j.Locator, j.Request, err)
		}
	}
}

func (c *AssetCache) fail(locator string, req AssetRequest, err error) {
	err = syncerr.Wrap(err, syncerr.KindAsset, req.Source, "asset download failed")

	c.mu.Lock()
	c.failed[locator] = err
	c.mu.Unlock()

	c.Metrics.IncAssetResult(metrics.AssetFailed)
	c.Logger.Warn("Asset download failed, keeping remote link",
		logfields.Locator(locator),
		logfields.Error(err))
}

// download stages locator into dir.  Concurrent downloads of one locator into one dir, from
// ResolveAll or Fetch, share a single request and a single temp file.
func (c *AssetCache) download(ctx context.Context, locator string, dir string) (stagedAsset, error) {
	v, err, _ := c.group.Do(dir+"\x00"+locator, func() (any, error) {
		return c.stage(ctx, locator, dir)
	})
	if err != nil {
		return stagedAsset{}, err
	}
	return v.(stagedAsset), nil
}

type stagedAsset struct {
	tmp    string
	digest string
	ext    string
}

// stage streams the asset into a temp file in dir, hashing as it goes.
func (c *AssetCache) stage(ctx context.Context, locator string, dir string) (stagedAsset, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return stagedAsset{}, fmt.Errorf("localdump: couldn't create directory %s: %w", dir, err)
	}

	body, err := c.Remote.FetchBytes(ctx, locator)
	if err != nil {
		return stagedAsset{}, fmt.Errorf("localdump: couldn't fetch asset: %w", err)
	}
	defer body.Close()

	tmp, err := os.CreateTemp(dir, ".asset-*.tmp")
	if err != nil {
		return stagedAsset{}, fmt.Errorf("localdump: couldn't create temp file in %s: %w", dir, err)
	}

	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(tmp, h), body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return stagedAsset{}, fmt.Errorf("localdump: couldn't download asset: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return stagedAsset{}, fmt.Errorf("localdump: couldn't close temp file: %w", err)
	}

	return stagedAsset{
		tmp:    tmp.Name(),
		digest: hex.EncodeToString(h.Sum(nil))[:digestLength],
		ext:    assetExtension(locator),
	}, nil
}

// commit gives a staged download its canonical name, {slug}-{index}-{digest}.{ext}, unless the
// same content is already in place.  The temp file is always gone afterwards.
func (c *AssetCache) commit(locator string, req AssetRequest, s stagedAsset) (string, error) {
	defer os.Remove(s.tmp)

	c.mu.Lock()
	defer c.mu.Unlock()

	// a concurrent Fetch or ResolveAll got here first with the same staged file
	if p, ok := c.resolved[locator]; ok {
		return p, nil
	}

	contentKey := filepath.Join(req.Dir, s.digest+"."+s.ext)
	if p, ok := c.byDigest[contentKey]; ok {
		c.resolved[locator] = p
		delete(c.failed, locator)
		c.Metrics.IncAssetResult(metrics.AssetDedup)
		return p, nil
	}

	name := fmt.Sprintf("%s-%s-%s.%s", req.Slug, req.Index, s.digest, s.ext)
	final := filepath.Join(req.Dir, name)
	webPath := path.Join(req.URLPath, name)

	result := metrics.AssetDownloaded
	if _, err := os.Stat(final); err == nil {
		result = metrics.AssetDedup
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("localdump: couldn't stat %s: %w", final, err)
	} else if err := os.Rename(s.tmp, final); err != nil {
		return "", fmt.Errorf("localdump: couldn't move asset into place: %w", err)
	}

	c.byDigest[contentKey] = webPath
	c.resolved[locator] = webPath
	delete(c.failed, locator)
	c.Metrics.IncAssetResult(result)
	c.Logger.Debug("Cached asset", logfields.Locator(locator), logfields.Path(final), slog.String("result", string(result)))
	return webPath, nil
}

// assetExtension takes the extension from the locator's path, ignoring the query string, and
// falls back to png when it is missing or not an image type.
func assetExtension(locator string) string {
	p := locator
	if u, err := url.Parse(locator); err == nil {
		p = u.Path
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(p), "."))
	if imageExtensions[ext] {
		return ext
	}
	return "png"
}
