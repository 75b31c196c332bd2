package catalog

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Kathiriniyan/SukanFood-sub001/internal/platform/httpx"
	"github.com/Kathiriniyan/SukanFood-sub001/internal/shared"
)

// Handler serves the read-only catalog endpoints.
type Handler struct {
	logger   *slog.Logger
	repo     Repository
	validate *validator.Validate
}

// NewHandler constructs a catalog handler.
func NewHandler(logger *slog.Logger, repo Repository) *Handler {
	return &Handler{
		logger:   logger,
		repo:     repo,
		validate: validator.New(),
	}
}

// MountRoutes attaches catalog routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/products", h.ListProducts)
	r.Get("/products/{code}", h.ShowProduct)
	r.Get("/customers", h.ListCustomers)
	r.Get("/customers/{code}", h.ShowCustomer)
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params, err := h.parseListParams(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	page, err := h.repo.ListProducts(r.Context(), params)
	if err != nil {
		h.respondError(w, "list products", err)
		return
	}
	httpx.JSON(w, http.StatusOK, page)
}

func (h *Handler) ShowProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.repo.Product(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.respondError(w, "get product", err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	params, err := h.parseListParams(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	page, err := h.repo.ListCustomers(r.Context(), params)
	if err != nil {
		h.respondError(w, "list customers", err)
		return
	}
	httpx.JSON(w, http.StatusOK, page)
}

func (h *Handler) ShowCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.repo.Customer(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.respondError(w, "get customer", err)
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}

func (h *Handler) parseListParams(r *http.Request) (ListParams, error) {
	q := r.URL.Query()
	params := ListParams{
		Search:     q.Get("search"),
		SortBy:     q.Get("sort_by"),
		Desc:       q.Get("order") == "desc",
		ActiveOnly: q.Get("active") == "true",
	}
	var err error
	if params.Page, err = atoiDefault(q.Get("page"), 1); err != nil {
		return ListParams{}, fmt.Errorf("%w: page must be a number", shared.ErrValidation)
	}
	if params.PerPage, err = atoiDefault(q.Get("per_page"), 20); err != nil {
		return ListParams{}, fmt.Errorf("%w: per_page must be a number", shared.ErrValidation)
	}
	if err := h.validate.Struct(params); err != nil {
		return ListParams{}, fmt.Errorf("%w: %s", shared.ErrValidation, err.Error())
	}
	return params, nil
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	if !shared.IsRecoverable(err) {
		h.logger.Error(op+" failed", slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}

func atoiDefault(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
