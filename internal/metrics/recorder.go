// Package metrics exposes observability hooks for a sync run.  The engine only sees Recorder;
// the CLI decides whether a Prometheus registry backs it.
package metrics

import "time"

// AssetResult enumerates asset cache outcomes.
type AssetResult string

const (
	AssetHit        AssetResult = "hit"        // locator already resolved this run
	AssetDownloaded AssetResult = "downloaded" // new file promoted into place
	AssetDedup      AssetResult = "dedup"      // downloaded, but identical file already on disk
	AssetFailed     AssetResult = "failed"     // fell back to the remote locator
)

// Recorder defines the hooks the sync engine calls.  Implementations must be safe for
// concurrent use.
type Recorder interface {
	ObservePhaseDuration(phase string, d time.Duration)
	IncPageWritten(source string, unchanged bool)
	IncPageFailure(source string)
	AddFilesDeleted(source string, n int)
	IncAssetResult(result AssetResult)
	IncSourceOutcome(source string, ok bool)
}

// NoopRecorder does nothing; it is the default when metrics are not configured.
type NoopRecorder struct{}

func (NoopRecorder) ObservePhaseDuration(string, time.Duration) {}
func (NoopRecorder) IncPageWritten(string, bool)                {}
func (NoopRecorder) IncPageFailure(string)                      {}
func (NoopRecorder) AddFilesDeleted(string, int)                {}
func (NoopRecorder) IncAssetResult(AssetResult)                 {}
func (NoopRecorder) IncSourceOutcome(string, bool)              {}
