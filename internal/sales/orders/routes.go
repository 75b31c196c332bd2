package orders

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes attaches the draft routes under the caller's prefix.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/drafts", h.Open)
	r.Route("/drafts/{id}", func(r chi.Router) {
		r.Get("/", h.Show)
		r.Patch("/", h.UpdateHeader)
		r.Delete("/", h.Discard)

		r.Post("/lines", h.AddLine)
		r.Patch("/lines/{lineID}", h.EditLine)
		r.Delete("/lines/{lineID}", h.RemoveLine)

		r.Post("/taxes", h.AddTax)
		r.Patch("/taxes/{taxID}", h.EditTax)
		r.Delete("/taxes/{taxID}", h.RemoveTax)

		r.Post("/save", h.Save)
		r.Post("/submit", h.Submit)
		r.Post("/pick", h.Pick)
		r.Post("/cancel", h.Cancel)
		r.Post("/resume", h.Resume)
		r.Get("/export", h.Export)
	})
}
