package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/retroloop-dev/retroloop/internal/api"
	"github.com/retroloop-dev/retroloop/internal/domain"
	"github.com/retroloop-dev/retroloop/internal/utils"
)

func (h *Handler) CreateActionItem(w http.ResponseWriter, r *http.Request) {
	s := session(w, r)
	if s == nil {
		return
	}
	var body api.CreateActionItemRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	item, err := h.items.Create(chi.URLParam(r, "board"), s.ParticipantId, body.CardId, body.AssigneeId, body.Content, body.DueDate)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) UpdateActionItem(w http.ResponseWriter, r *http.Request) {
	s := session(w, r)
	if s == nil {
		return
	}
	itemId, err := parseIdParam(r, "item")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body api.UpdateActionItemRequest
	if err := utils.Decode(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	item, err := h.items.Update(chi.URLParam(r, "board"), s.ParticipantId, itemId, domain.ActionItemUpdate{
		Content:    body.Content,
		AssigneeId: body.AssigneeId,
		DueDate:    body.DueDate,
	})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) DeleteActionItem(w http.ResponseWriter, r *http.Request) {
	s := session(w, r)
	if s == nil {
		return
	}
	itemId, err := parseIdParam(r, "item")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.items.Delete(chi.URLParam(r, "board"), s.ParticipantId, itemId); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) ChangeActionItemStatus(w http.ResponseWriter, r *http.Request) {
	s := session(w, r)
	if s == nil {
		return
	}
	itemId, err := parseIdParam(r, "item")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	var body api.ChangeActionItemStatusRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	item, err := h.items.ChangeStatus(chi.URLParam(r, "board"), s.ParticipantId, itemId, domain.ActionItemStatus(body.Status))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}
