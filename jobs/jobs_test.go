package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jobmetrics "github.com/Kathiriniyan/SukanFood-sub001/internal/jobs"
	"github.com/Kathiriniyan/SukanFood-sub001/internal/sales/orders"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func submittedSnapshot() orders.Snapshot {
	return orders.Snapshot{
		OrderID:   "SO-20260314-0001",
		OrderDate: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Status:    orders.StatusFlags{State: orders.StatusSubmitted, Saved: true, Submitted: true},
		CreatedAt: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
	}
}

type failingStore struct {
	orders.Store
}

func (failingStore) Save(context.Context, orders.Snapshot) error {
	return errors.New("connection reset")
}

func TestArchiveJobStoresSnapshot(t *testing.T) {
	store := orders.NewMemoryStore()
	job := NewArchiveJob(store, discardLogger(), jobmetrics.NewMetrics(prometheus.NewRegistry()))

	task, err := NewOrderArchiveTask(submittedSnapshot())
	require.NoError(t, err)
	assert.Equal(t, TaskOrderArchive, task.Type())

	require.NoError(t, job.Handle(context.Background(), task))

	got, err := store.Load(context.Background(), "SO-20260314-0001")
	require.NoError(t, err)
	assert.Equal(t, orders.StatusSubmitted, got.Status.State)
}

func TestArchiveJobSkipsMalformedPayload(t *testing.T) {
	job := NewArchiveJob(orders.NewMemoryStore(), discardLogger(), nil)

	err := job.Handle(context.Background(), asynq.NewTask(TaskOrderArchive, []byte("{oops")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = job.Handle(context.Background(), asynq.NewTask(TaskOrderArchive, []byte(`{"notes":"no id"}`)))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestArchiveJobRetriesStoreFailure(t *testing.T) {
	job := NewArchiveJob(failingStore{}, discardLogger(), nil)
	task, err := NewOrderArchiveTask(submittedSnapshot())
	require.NoError(t, err)

	err = job.Handle(context.Background(), task)
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestNewOrderArchiveTaskRequiresID(t *testing.T) {
	_, err := NewOrderArchiveTask(orders.Snapshot{})
	assert.Error(t, err)
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{Type: task.Type(), Queue: QueueDefault}, nil
}

func (f *fakeEnqueuer) Close() error { return nil }

func TestClientEnqueueArchive(t *testing.T) {
	fake := &fakeEnqueuer{}
	client := &Client{client: fake}

	require.NoError(t, client.EnqueueArchive(context.Background(), submittedSnapshot()))
	require.Len(t, fake.tasks, 1)

	var snap orders.Snapshot
	require.NoError(t, json.Unmarshal(fake.tasks[0].Payload(), &snap))
	assert.Equal(t, "SO-20260314-0001", snap.OrderID)

	fake.err = asynq.ErrTaskIDConflict
	assert.NoError(t, client.EnqueueArchive(context.Background(), submittedSnapshot()), "duplicate archive is a no-op")

	fake.err = errors.New("redis down")
	assert.Error(t, client.EnqueueArchive(context.Background(), submittedSnapshot()))
	require.NoError(t, client.Close())
}

func TestClientSatisfiesOrderEnqueuer(t *testing.T) {
	var _ orders.Enqueuer = (*Client)(nil)
}

type fakeInspector struct {
	info *asynq.QueueInfo
	err  error
}

func (f fakeInspector) GetQueueInfo(string) (*asynq.QueueInfo, error) {
	return f.info, f.err
}

func serveHealth(h *Handler) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Route("/jobs", h.MountRoutes)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))
	return rec
}

func TestHealthHandler(t *testing.T) {
	rec := serveHealth(NewHandler(nil, discardLogger()))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"queue":"default","pending":0,"active":0,"retry":0,"archived":0}`, rec.Body.String())

	h := &Handler{inspector: fakeInspector{info: &asynq.QueueInfo{Queue: "default", Pending: 3, Retry: 1}}, logger: discardLogger()}
	rec = serveHealth(h)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"queue":"default","pending":3,"active":0,"retry":1,"archived":0}`, rec.Body.String())

	h.inspector = fakeInspector{err: errors.New("dial tcp")}
	rec = serveHealth(h)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestNewWorkerRequiresHandlers(t *testing.T) {
	_, err := NewWorker(WorkerConfig{RedisOpts: asynq.RedisClientOpt{Addr: "127.0.0.1:0"}})
	assert.Error(t, err)

	var store orders.Store = orders.NewMemoryStore()
	w, err := NewWorker(WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: "127.0.0.1:0"},
		Logger:    discardLogger(),
		Handlers:  []TaskHandler{{Type: TaskOrderArchive, Handler: NewArchiveJob(store, nil, nil).Handle}},
	})
	require.NoError(t, err)
	assert.NotNil(t, w)
}
