package metrics

import (
	"strconv"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "prepdist"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once            sync.Once
	registry        *prom.Registry
	stageDuration   *prom.HistogramVec
	releaseDuration prom.Histogram
	stageResults    *prom.CounterVec
	releaseOutcome  *prom.CounterVec
	lastRun         prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}
	pr.once.Do(func() {
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual release stages",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600},
		}, []string{"stage"})
		pr.releaseDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "release_duration_seconds",
			Help:      "Total release preparation duration",
			Buckets:   []float64{1, 10, 30, 60, 120, 300, 600, 1200, 1800},
		})
		pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"})
		pr.releaseOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "release_outcomes_total",
			Help:      "Release runs by exit code and failing stage",
		}, []string{"exit_code", "stage"})
		pr.lastRun = prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last release run finished",
		})
		reg.MustRegister(pr.stageDuration, pr.releaseDuration, pr.stageResults, pr.releaseOutcome, pr.lastRun)
	})
	return pr
}

// Registry returns the registry the metrics are registered with.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	if p == nil {
		return nil
	}
	return p.registry
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveReleaseDuration(d time.Duration) {
	if p == nil || p.releaseDuration == nil {
		return
	}
	p.releaseDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncReleaseOutcome(exitCode int, stage string) {
	if p == nil || p.releaseOutcome == nil {
		return
	}
	p.releaseOutcome.WithLabelValues(strconv.Itoa(exitCode), stage).Inc()
	p.lastRun.SetToCurrentTime()
}
