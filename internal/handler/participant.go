package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/retroloop-dev/retroloop/internal/api"
	"github.com/retroloop-dev/retroloop/internal/utils"
)

// Join adds the caller to the board and issues the session cookie the
// mutating endpoints require.
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "board")

	var body api.JoinBoardRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	participant, err := h.participants.Join(slug, body.Nickname)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.sessions.Issue(w, slug, participant.Id); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, api.JoinBoardResponse{Participant: *participant})
}

func (h *Handler) SetPresence(w http.ResponseWriter, r *http.Request) {
	s := session(w, r)
	if s == nil {
		return
	}
	var body api.PresenceRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.participants.SetOnline(chi.URLParam(r, "board"), s.ParticipantId, *body.Online); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
