package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/retroloop-dev/retroloop/internal/api"
	"github.com/retroloop-dev/retroloop/internal/utils"
)

func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	s := session(w, r)
	if s == nil {
		return
	}
	var body api.CreateCardRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	card, err := h.cards.Create(chi.URLParam(r, "board"), s.ParticipantId, body.ColumnId, body.Content)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, card)
}

func (h *Handler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	s := session(w, r)
	if s == nil {
		return
	}
	cardId, err := parseIdParam(r, "card")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body api.UpdateCardRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	card, err := h.cards.Update(chi.URLParam(r, "board"), s.ParticipantId, cardId, body.Content)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, card)
}

func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	s := session(w, r)
	if s == nil {
		return
	}
	cardId, err := parseIdParam(r, "card")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.cards.Delete(chi.URLParam(r, "board"), s.ParticipantId, cardId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) MoveCard(w http.ResponseWriter, r *http.Request) {
	s := session(w, r)
	if s == nil {
		return
	}
	cardId, err := parseIdParam(r, "card")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body api.MoveCardRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.cards.Move(chi.URLParam(r, "board"), s.ParticipantId, cardId, body.ColumnId, *body.Index); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) MarkCardDiscussed(w http.ResponseWriter, r *http.Request) {
	s := session(w, r)
	if s == nil {
		return
	}
	cardId, err := parseIdParam(r, "card")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	order, err := h.cards.MarkDiscussed(chi.URLParam(r, "board"), s.ParticipantId, cardId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"discussionOrder": order})
}
