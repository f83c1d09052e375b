package handler

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/retroloop-dev/retroloop/internal/errors"
	"github.com/retroloop-dev/retroloop/internal/utils"
)

// emojiParam url-decodes the emoji path segment.
func emojiParam(r *http.Request) (string, error) {
	emoji, err := url.PathUnescape(chi.URLParam(r, "emoji"))
	if err != nil || emoji == "" {
		return "", errors.BadRequest("invalid emoji")
	}
	return emoji, nil
}

func (h *Handler) AddReaction(w http.ResponseWriter, r *http.Request) {
	s := session(w, r)
	if s == nil {
		return
	}
	cardId, err := parseIdParam(r, "card")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	emoji, err := emojiParam(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	reaction, err := h.reactions.Add(chi.URLParam(r, "board"), s.ParticipantId, cardId, emoji)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, reaction)
}

func (h *Handler) RemoveReaction(w http.ResponseWriter, r *http.Request) {
	s := session(w, r)
	if s == nil {
		return
	}
	cardId, err := parseIdParam(r, "card")
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	emoji, err := emojiParam(r)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.reactions.Remove(chi.URLParam(r, "board"), s.ParticipantId, cardId, emoji); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
