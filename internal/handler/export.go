package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/retroloop-dev/retroloop/internal/export"
	"github.com/retroloop-dev/retroloop/internal/utils"
)

// ExportBoard renders the board as csv, markdown or html. Defaults to
// markdown when no format is given.
func (h *Handler) ExportBoard(w http.ResponseWriter, r *http.Request) {
	s := session(w, r)
	if s == nil {
		return
	}

	format := export.FormatMarkdown
	if q := r.URL.Query().Get("format"); q != "" {
		var err error
		if format, err = export.ParseFormat(q); err != nil {
			utils.WriteErrorAndStatusCode(w, err)
			return
		}
	}

	rendered, err := h.exports.Export(chi.URLParam(r, "board"), s.ParticipantId, format)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	w.Write(rendered)
}
