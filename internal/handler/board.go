package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/retroloop-dev/retroloop/internal/api"
	"github.com/retroloop-dev/retroloop/internal/domain"
	"github.com/retroloop-dev/retroloop/internal/middleware"
	"github.com/retroloop-dev/retroloop/internal/utils"
)

func (h *Handler) CreateBoard(w http.ResponseWriter, r *http.Request) {
	var body api.CreateBoardRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	board, carried, err := h.boards.Create(domain.BoardCreationData{
		Title:             body.Title,
		TeamLabel:         body.TeamLabel,
		Framework:         body.Framework,
		MaxVotesPerPerson: body.MaxVotesPerPerson,
		IsAnonymous:       body.IsAnonymous,
		IsPrivateWriting:  body.IsPrivateWriting,
		EnableIcebreaker:  body.EnableIcebreaker,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, api.CreateBoardResponse{Board: *board, CarryOver: carried})
}

// GetBoard serves the full board view. The session is optional; a
// joined participant sees their own hidden cards and vote balance, a
// visitor gets the anonymous view.
func (h *Handler) GetBoard(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "board")

	var requesterId *domain.ParticipantId
	if s := middleware.FromContext(r); s != nil && s.BoardSlug == slug {
		requesterId = &s.ParticipantId
	}

	view, err := h.boards.Get(slug, requesterId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) AdvancePhase(w http.ResponseWriter, r *http.Request) {
	s := session(w, r)
	if s == nil {
		return
	}
	var body api.AdvancePhaseRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	board, err := h.boards.AdvancePhase(chi.URLParam(r, "board"), s.ParticipantId, domain.Phase(body.Target))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, board)
}

func (h *Handler) GetCarryOver(w http.ResponseWriter, r *http.Request) {
	items, err := h.boards.CarryOver(chi.URLParam(r, "board"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.CarryOverResponse{Items: items})
}
