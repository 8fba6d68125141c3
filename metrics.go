package pubsite

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// Recorder exposes build metrics. A nil *Recorder records nothing.
type Recorder struct {
	buildDuration prom.Histogram
	stageDuration *prom.HistogramVec
	buildOutcome  *prom.CounterVec
	pages         prom.Counter
	rewritten     prom.Counter
}

// NewRecorder constructs the build metrics and registers them on reg.
func NewRecorder(reg *prom.Registry) *Recorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	r := &Recorder{
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "pubsite",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "pubsite",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "pubsite",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		pages: prom.NewCounter(prom.CounterOpts{
			Namespace: "pubsite",
			Name:      "pages_rendered_total",
			Help:      "HTML pages rendered across builds",
		}),
		rewritten: prom.NewCounter(prom.CounterOpts{
			Namespace: "pubsite",
			Name:      "files_rewritten_total",
			Help:      "Output files changed by the placeholder rewrite",
		}),
	}
	reg.MustRegister(r.buildDuration, r.stageDuration, r.buildOutcome, r.pages, r.rewritten)
	return r
}

func (r *Recorder) observeStage(stage string, d time.Duration) {
	if r == nil {
		return
	}
	r.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (r *Recorder) observeBuild(report *BuildReport, err error) {
	if r == nil {
		return
	}
	if err != nil {
		r.buildOutcome.WithLabelValues("failure").Inc()
		return
	}
	r.buildOutcome.WithLabelValues("success").Inc()
	r.buildDuration.Observe(report.Duration.Seconds())
	r.pages.Add(float64(report.Pages))
	r.rewritten.Add(float64(report.Rewritten))
}
