package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "notion_dump"

// PrometheusRecorder implements Recorder on a private registry.
type PrometheusRecorder struct {
	registry      *prom.Registry
	phaseDuration *prom.HistogramVec
	pagesWritten  *prom.CounterVec
	pageFailures  *prom.CounterVec
	filesDeleted  *prom.CounterVec
	assetResults  *prom.CounterVec
	sourceResults *prom.CounterVec
}

// NewPrometheusRecorder registers the sync metrics on reg (a fresh registry when nil).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		registry: reg,
		phaseDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "phase_duration_seconds",
			Help:      "Duration of sync phases",
			Buckets:   prom.DefBuckets,
		}, []string{"phase"}),
		pagesWritten: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pages_written_total",
			Help:      "Pages emitted per source, split by whether the file changed",
		}, []string{"source", "result"}),
		pageFailures: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "page_conversion_failures_total",
			Help:      "Pages whose body could not be converted and were written with an empty body",
		}, []string{"source"}),
		filesDeleted: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "files_deleted_total",
			Help:      "Stale files removed by reconciliation",
		}, []string{"source"}),
		assetResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "asset_results_total",
			Help:      "Asset cache outcomes",
		}, []string{"result"}),
		sourceResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "source_results_total",
			Help:      "Per-source sync outcomes",
		}, []string{"source", "result"}),
	}
	reg.MustRegister(pr.phaseDuration, pr.pagesWritten, pr.pageFailures, pr.filesDeleted, pr.assetResults, pr.sourceResults)
	return pr
}

func (p *PrometheusRecorder) ObservePhaseDuration(phase string, d time.Duration) {
	p.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPageWritten(source string, unchanged bool) {
	result := "changed"
	if unchanged {
		result = "unchanged"
	}
	p.pagesWritten.WithLabelValues(source, result).Inc()
}

func (p *PrometheusRecorder) IncPageFailure(source string) {
	p.pageFailures.WithLabelValues(source).Inc()
}

func (p *PrometheusRecorder) AddFilesDeleted(source string, n int) {
	if n <= 0 {
		return
	}
	p.filesDeleted.WithLabelValues(source).Add(float64(n))
}

func (p *PrometheusRecorder) IncAssetResult(result AssetResult) {
	p.assetResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncSourceOutcome(source string, ok bool) {
	result := "success"
	if !ok {
		result = "failed"
	}
	p.sourceResults.WithLabelValues(source, result).Inc()
}

// Registry returns the registry the metrics live on.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.registry
}

// WriteTextfile dumps the registry in the node-exporter textfile format.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.registry); err != nil {
		return fmt.Errorf("metrics: couldn't write textfile %s: %w", path, err)
	}
	return nil
}
