package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/retroloop-dev/retroloop/internal/api"
	"github.com/retroloop-dev/retroloop/internal/domain"
	"github.com/retroloop-dev/retroloop/internal/utils"
)

func (h *Handler) GetTimer(w http.ResponseWriter, r *http.Request) {
	state, err := h.timer.StateFor(chi.URLParam(r, "board"))
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.TimerResponse{Timer: state})
}

func (h *Handler) StartTimer(w http.ResponseWriter, r *http.Request) {
	s := session(w, r)
	if s == nil {
		return
	}
	var body api.StartTimerRequest
	if err := utils.DecodeValidate(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	state, err := h.timer.Start(chi.URLParam(r, "board"), s.ParticipantId, body.Seconds)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.TimerResponse{Timer: state})
}

func (h *Handler) PauseTimer(w http.ResponseWriter, r *http.Request) {
	h.timerAction(w, r, h.timer.Pause)
}

func (h *Handler) ResumeTimer(w http.ResponseWriter, r *http.Request) {
	h.timerAction(w, r, h.timer.Resume)
}

func (h *Handler) ResetTimer(w http.ResponseWriter, r *http.Request) {
	h.timerAction(w, r, h.timer.Reset)
}

func (h *Handler) timerAction(w http.ResponseWriter, r *http.Request, action func(domain.BoardSlug, domain.ParticipantId) (domain.TimerState, error)) {
	s := session(w, r)
	if s == nil {
		return
	}

	state, err := action(chi.URLParam(r, "board"), s.ParticipantId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, api.TimerResponse{Timer: state})
}
