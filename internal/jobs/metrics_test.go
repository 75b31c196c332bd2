package jobmetrics

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestTrackerRecordsOutcomes(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	ctx := context.Background()
	const job = "sales:order:archive"

	assert.NoError(t, m.Track(ctx, job).End(nil))
	boom := errors.New("boom")
	assert.ErrorIs(t, m.Track(ctx, job).End(boom), boom)
	dropped := fmt.Errorf("bad payload: %w", asynq.SkipRetry)
	assert.ErrorIs(t, m.Track(ctx, job).End(dropped), asynq.SkipRetry)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues(job, StatusSuccess, "first")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues(job, StatusFailure, "first")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues(job, StatusDropped, "first")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.failures.WithLabelValues(job)))
	assert.Positive(t, testutil.ToFloat64(m.lastSuccess.WithLabelValues(job)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}

func TestNilMetricsTrackerIsInert(t *testing.T) {
	var m *Metrics
	boom := errors.New("boom")
	assert.ErrorIs(t, m.Track(context.Background(), "job").End(boom), boom)

	var tracker *Tracker
	assert.NoError(t, tracker.End(nil))
}
