package logfields

import "log/slog"

// Canonical log field names, shared so the engine, client and CLI agree.
const (
	KeyRunID    = "run_id"
	KeyPhase    = "phase"
	KeySource   = "source"
	KeyPageID   = "page_id"
	KeySlug     = "slug"
	KeyPath     = "path"
	KeyLocator  = "locator"
	KeyCount    = "count"
	KeyAttempt  = "attempt"
	KeyDuration = "duration_ms"
	KeyError    = "error"
)

func RunID(id string) slog.Attr     { return slog.String(KeyRunID, id) }
func Phase(p string) slog.Attr      { return slog.String(KeyPhase, p) }
func Source(id string) slog.Attr    { return slog.String(KeySource, id) }
func PageID(id string) slog.Attr    { return slog.String(KeyPageID, id) }
func Slug(s string) slog.Attr       { return slog.String(KeySlug, s) }
func Path(p string) slog.Attr       { return slog.String(KeyPath, p) }
func Locator(u string) slog.Attr    { return slog.String(KeyLocator, u) }
func Count(n int) slog.Attr         { return slog.Int(KeyCount, n) }
func Attempt(n int) slog.Attr       { return slog.Int(KeyAttempt, n) }
func DurationMS(ms int64) slog.Attr { return slog.Int64(KeyDuration, ms) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
