package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/Kathiriniyan/SukanFood-sub001/internal/jobs"
	"github.com/Kathiriniyan/SukanFood-sub001/internal/sales/orders"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskOrderArchive copies a submitted order snapshot into the archive.
	TaskOrderArchive = "sales:order:archive"
)

// NewOrderArchiveTask constructs an archive task carrying the snapshot as JSON.
func NewOrderArchiveTask(snap orders.Snapshot) (*asynq.Task, error) {
	if snap.OrderID == "" {
		return nil, fmt.Errorf("jobs: archive task needs an order id")
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderArchive, data), nil
}

// ArchiveJob writes submitted orders to durable storage.
type ArchiveJob struct {
	store   orders.Store
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
}

// NewArchiveJob constructs the archive handler. metrics may be nil.
func NewArchiveJob(store orders.Store, logger *slog.Logger, metrics *jobmetrics.Metrics) *ArchiveJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &ArchiveJob{store: store, logger: logger, metrics: metrics}
}

// Handle processes TaskOrderArchive tasks. Malformed payloads are not retried.
func (j *ArchiveJob) Handle(ctx context.Context, t *asynq.Task) error {
	tracker := j.metrics.Track(ctx, TaskOrderArchive)

	var snap orders.Snapshot
	if err := json.Unmarshal(t.Payload(), &snap); err != nil || snap.OrderID == "" {
		j.logger.Warn("archive: malformed payload", slog.Any("error", err))
		return tracker.End(fmt.Errorf("archive payload: %w", asynq.SkipRetry))
	}
	if err := j.store.Save(ctx, snap); err != nil {
		j.logger.Error("archive: save snapshot", slog.String("order_id", snap.OrderID), slog.Any("error", err))
		return tracker.End(err)
	}
	j.logger.Info("archive: order stored", slog.String("order_id", snap.OrderID), slog.String("status", string(snap.Status.State)))
	return tracker.End(nil)
}
