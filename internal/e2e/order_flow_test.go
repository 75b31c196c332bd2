package e2e

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kathiriniyan/SukanFood-sub001/internal/app"
	"github.com/Kathiriniyan/SukanFood-sub001/internal/catalog"
	"github.com/Kathiriniyan/SukanFood-sub001/internal/observability"
	"github.com/Kathiriniyan/SukanFood-sub001/internal/sales/orders"
	"github.com/Kathiriniyan/SukanFood-sub001/internal/shared"
	"github.com/Kathiriniyan/SukanFood-sub001/jobs"
)

// inlineArchiver runs the archive job synchronously instead of going through the queue.
type inlineArchiver struct {
	job *jobs.ArchiveJob
}

func (a inlineArchiver) EnqueueArchive(ctx context.Context, snap orders.Snapshot) error {
	task, err := jobs.NewOrderArchiveTask(snap)
	if err != nil {
		return err
	}
	return a.job.Handle(ctx, task)
}

type stack struct {
	router  http.Handler
	archive *orders.MemoryStore
}

func newStack(t *testing.T, rdb *redis.Client) stack {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetrics()
	repo := catalog.NewSeededRepository()
	archive := orders.NewMemoryStore()
	svc := orders.NewService(repo, orders.NewRedisStore(rdb, 0),
		inlineArchiver{job: jobs.NewArchiveJob(archive, logger, nil)},
		metrics, logger, orders.ServiceConfig{DefaultTaxLabel: "VAT"})
	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         &app.Config{AppEnv: "development", RateLimitPerMinute: 1000},
		CatalogHandler: catalog.NewHandler(logger, repo),
		OrdersHandler:  orders.NewHandler(logger, svc),
		Metrics:        metrics,
	})
	return stack{router: router, archive: archive}
}

func call(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func view(t *testing.T, rec *httptest.ResponseRecorder) orders.View {
	t.Helper()
	var v orders.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestOrderSurvivesRestartAndArchivesOnSubmit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	first := newStack(t, rdb)
	rec := call(t, first.router, http.MethodPost, "/sales/orders/drafts", `{"customerCode":"CUS-001"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	opened := view(t, rec)
	base := "/sales/orders/drafts/" + opened.OrderID
	require.NotNil(t, opened.Customer)
	assert.Contains(t, opened.Customer.Address, "Colombo")

	rec = call(t, first.router, http.MethodPost, base+"/lines", `{"productCode":"VEG-001","quantity":2}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = call(t, first.router, http.MethodPost, base+"/lines", `{"productCode":"FRU-001","quantity":1}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = call(t, first.router, http.MethodPost, base+"/taxes", `{"kind":"ON_NET_TOTAL","rate":"10"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "1,419.00", view(t, rec).Display.Grand)

	rec = call(t, first.router, http.MethodPost, base+"/save", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, mr.Exists(shared.DraftSnapshotKey(opened.OrderID)))

	// A fresh process only knows the order through the store.
	second := newStack(t, rdb)
	rec = call(t, second.router, http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = call(t, second.router, http.MethodPost, base+"/resume", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resumed := view(t, rec)
	assert.Equal(t, orders.StatusSaved, resumed.Status.State)
	require.Len(t, resumed.Items, 2)
	assert.Equal(t, "1,419.00", resumed.Display.Grand)

	rec = call(t, second.router, http.MethodPost, base+"/submit", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	archived, err := second.archive.Load(context.Background(), opened.OrderID)
	require.NoError(t, err)
	assert.Equal(t, orders.StatusSubmitted, archived.Status.State)
	assert.True(t, archived.Status.Submitted)

	rec = call(t, second.router, http.MethodPost, base+"/lines", `{"productCode":"VEG-002","quantity":1}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	metrics := call(t, second.router, http.MethodGet, "/metrics", "").Body.String()
	assert.Contains(t, metrics, `sukanfood_ledger_notices_total{kind="state"} 1`)
}
