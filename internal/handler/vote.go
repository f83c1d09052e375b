package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/retroloop-dev/retroloop/internal/api"
	"github.com/retroloop-dev/retroloop/internal/utils"
)

func (h *Handler) AddVote(w http.ResponseWriter, r *http.Request) {
	s := session(w, r)
	if s == nil {
		return
	}
	cardId, err := parseIdParam(r, "card")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	tally, remaining, err := h.votes.Add(chi.URLParam(r, "board"), s.ParticipantId, cardId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, api.VoteResponse{CardId: cardId, Votes: tally, VotesRemaining: remaining})
}

func (h *Handler) RemoveVote(w http.ResponseWriter, r *http.Request) {
	s := session(w, r)
	if s == nil {
		return
	}
	cardId, err := parseIdParam(r, "card")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	tally, remaining, err := h.votes.Remove(chi.URLParam(r, "board"), s.ParticipantId, cardId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.VoteResponse{CardId: cardId, Votes: tally, VotesRemaining: remaining})
}
