// Package jobmetrics instruments asynq task handlers.
package jobmetrics

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
)

// Run outcomes recorded in the status label.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	// StatusDropped marks a run that failed with asynq.SkipRetry and will not come back.
	StatusDropped = "dropped"
)

// Metrics holds the job collectors.
type Metrics struct {
	runs        *prometheus.CounterVec
	failures    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	lastSuccess *prometheus.GaugeVec
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// NewMetrics registers the job collectors. A nil registerer means the
// Prometheus default registerer, registered once per process.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		defaultOnce.Do(func() {
			defaultMetrics = buildMetrics(prometheus.DefaultRegisterer)
		})
		return defaultMetrics
	}
	return buildMetrics(registerer)
}

// Tracker times one task run.
type Tracker struct {
	metrics *Metrics
	job     string
	attempt string
	start   time.Time
}

// Track starts timing a run of job. Runs after the first asynq attempt are
// labelled attempt="retry". Nil Metrics yield a tracker that records nothing.
func (m *Metrics) Track(ctx context.Context, job string) *Tracker {
	attempt := "first"
	if n, ok := asynq.GetRetryCount(ctx); ok && n > 0 {
		attempt = "retry"
	}
	return &Tracker{metrics: m, job: job, attempt: attempt, start: time.Now()}
}

// End records the outcome and returns err unchanged.
func (t *Tracker) End(err error) error {
	if t == nil || t.metrics == nil || t.job == "" {
		return err
	}
	status := StatusSuccess
	switch {
	case errors.Is(err, asynq.SkipRetry):
		status = StatusDropped
		t.metrics.failures.WithLabelValues(t.job).Inc()
	case err != nil:
		status = StatusFailure
		t.metrics.failures.WithLabelValues(t.job).Inc()
	default:
		t.metrics.lastSuccess.WithLabelValues(t.job).SetToCurrentTime()
	}
	t.metrics.runs.WithLabelValues(t.job, status, t.attempt).Inc()
	t.metrics.duration.WithLabelValues(t.job).Observe(time.Since(t.start).Seconds())
	return err
}

func buildMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sukanfood_jobs_total",
			Help: "Task runs by job, outcome and attempt.",
		}, []string{"job", "status", "attempt"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sukanfood_jobs_failures_total",
			Help: "Task runs that returned an error, dropped ones included.",
		}, []string{"job"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sukanfood_job_duration_seconds",
			Help:    "Task run duration.",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		}, []string{"job"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sukanfood_job_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run per job.",
		}, []string{"job"}),
	}
	registerer.MustRegister(m.runs, m.failures, m.duration, m.lastSuccess)
	return m
}
