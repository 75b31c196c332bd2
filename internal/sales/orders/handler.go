package orders

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Kathiriniyan/SukanFood-sub001/internal/platform/httpx"
	"github.com/Kathiriniyan/SukanFood-sub001/internal/shared"
)

// Handler exposes the order draft workflow over JSON.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	validate *validator.Validate
}

// NewHandler constructs an order handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:   logger,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	var req HeaderRequest
	if err := h.decode(r, &req, true); err != nil {
		h.respondError(w, r, err)
		return
	}
	patch, err := req.Patch()
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	view, err := h.service.Open(r.Context(), patch)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, view)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	h.respond(w, r, view, err)
}

func (h *Handler) UpdateHeader(w http.ResponseWriter, r *http.Request) {
	var req HeaderRequest
	if err := h.decode(r, &req, false); err != nil {
		h.respondError(w, r, err)
		return
	}
	patch, err := req.Patch()
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	view, err := h.service.UpdateHeader(r.Context(), chi.URLParam(r, "id"), patch)
	h.respond(w, r, view, err)
}

// Discard closes the draft. With ?purge=true the stored snapshot is deleted too.
func (h *Handler) Discard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	purge := false
	if raw := r.URL.Query().Get("purge"); raw != "" {
		var err error
		if purge, err = strconv.ParseBool(raw); err != nil {
			h.respondError(w, r, fmt.Errorf("%w: purge must be true or false", shared.ErrValidation))
			return
		}
	}
	discard := h.service.Discard
	if purge {
		discard = h.service.Purge
	}
	if err := discard(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) AddLine(w http.ResponseWriter, r *http.Request) {
	var req AddLineRequest
	if err := h.decode(r, &req, false); err != nil {
		h.respondError(w, r, err)
		return
	}
	view, err := h.service.AddLine(r.Context(), chi.URLParam(r, "id"), req)
	h.respondCreated(w, r, view, err)
}

func (h *Handler) EditLine(w http.ResponseWriter, r *http.Request) {
	var req EditLineRequest
	if err := h.decode(r, &req, false); err != nil {
		h.respondError(w, r, err)
		return
	}
	view, err := h.service.EditLine(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "lineID"), req)
	h.respond(w, r, view, err)
}

func (h *Handler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.RemoveLine(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "lineID"))
	h.respond(w, r, view, err)
}

func (h *Handler) AddTax(w http.ResponseWriter, r *http.Request) {
	var req AddTaxRequest
	if err := h.decode(r, &req, false); err != nil {
		h.respondError(w, r, err)
		return
	}
	view, err := h.service.AddTaxRow(r.Context(), chi.URLParam(r, "id"), req)
	h.respondCreated(w, r, view, err)
}

func (h *Handler) EditTax(w http.ResponseWriter, r *http.Request) {
	var req EditTaxRequest
	if err := h.decode(r, &req, false); err != nil {
		h.respondError(w, r, err)
		return
	}
	view, err := h.service.EditTaxRow(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "taxID"), req)
	h.respond(w, r, view, err)
}

func (h *Handler) RemoveTax(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.RemoveTaxRow(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "taxID"))
	h.respond(w, r, view, err)
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Save(r.Context(), chi.URLParam(r, "id"))
	h.respond(w, r, view, err)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Submit(r.Context(), chi.URLParam(r, "id"))
	h.respond(w, r, view, err)
}

func (h *Handler) Pick(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.MarkPicked(r.Context(), chi.URLParam(r, "id"))
	h.respond(w, r, view, err)
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Cancel(r.Context(), chi.URLParam(r, "id"))
	h.respond(w, r, view, err)
}

func (h *Handler) Resume(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Resume(r.Context(), chi.URLParam(r, "id"))
	h.respond(w, r, view, err)
}

func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	out, err := h.service.Export(r.Context(), chi.URLParam(r, "id"), format)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.Attachment(w, out.ContentType, out.Filename, out.Body)
}

// decode reads and validates a JSON body. allowEmpty accepts a missing body as the zero value.
func (h *Handler) decode(r *http.Request, target any, allowEmpty bool) error {
	if err := httpx.DecodeJSON(r, target); err != nil {
		if allowEmpty && errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: malformed request body: %v", shared.ErrValidation, err)
	}
	if err := h.validate.Struct(target); err != nil {
		return fmt.Errorf("%w: %s", shared.ErrValidation, err.Error())
	}
	return nil
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, view View, err error) {
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) respondCreated(w http.ResponseWriter, r *http.Request, view View, err error) {
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, view)
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	if !shared.IsRecoverable(err) {
		h.logger.Error("order request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}
