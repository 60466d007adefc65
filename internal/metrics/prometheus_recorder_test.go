package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder_Counts(t *testing.T) {
	pr := NewPrometheusRecorder(nil)

	pr.IncPageWritten("blog", false)
	pr.IncPageWritten("blog", false)
	pr.IncPageWritten("blog", true)
	pr.AddFilesDeleted("blog", 2)
	pr.AddFilesDeleted("blog", 0)
	pr.IncAssetResult(AssetHit)
	pr.IncAssetResult(AssetDownloaded)
	pr.IncSourceOutcome("blog", false)
	pr.ObservePhaseDuration("enumerate", 20*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(pr.pagesWritten.WithLabelValues("blog", "changed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.pagesWritten.WithLabelValues("blog", "unchanged")))
	assert.Equal(t, 2.0, testutil.ToFloat64(pr.filesDeleted.WithLabelValues("blog")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.assetResults.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pr.sourceResults.WithLabelValues("blog", "failed")))
}

func TestPrometheusRecorder_WriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncAssetResult(AssetDedup)

	path := filepath.Join(t.TempDir(), "notion_dump.prom")
	require.NoError(t, pr.WriteTextfile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `notion_dump_asset_results_total{result="dedup"} 1`)
}

func TestNoopRecorder_SatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.IncPageFailure("x")
	r.IncAssetResult(AssetFailed)
}
