package catalog

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() http.Handler {
	h := NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), NewSeededRepository())
	r := chi.NewRouter()
	r.Route("/catalog", h.MountRoutes)
	return r
}

func TestHandlerListProducts(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/catalog/products?search=veg&per_page=2&page=2", nil)
	newTestRouter().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var page Page[Product]
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&page))
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 5, page.Pagination.Total)
	assert.Equal(t, "VEG-003", page.Items[0].Code)
}

func TestHandlerRejectsBadParams(t *testing.T) {
	for _, target := range []string{
		"/catalog/products?page=abc",
		"/catalog/products?per_page=5000",
		"/catalog/customers?sort_by=colour",
	} {
		rec := httptest.NewRecorder()
		newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestHandlerShowCustomer(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog/customers/CUS-002", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var c Customer
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&c))
	assert.Equal(t, "Cargills Food City", c.Name)

	rec = httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/catalog/products/NOPE", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
