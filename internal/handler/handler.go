package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/retroloop-dev/retroloop/internal/errors"
	"github.com/retroloop-dev/retroloop/internal/logger"
	"github.com/retroloop-dev/retroloop/internal/middleware"
	"github.com/retroloop-dev/retroloop/internal/service"
)

// HealthChecker reports storage liveness for the readiness probe.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	boards       service.BoardService
	participants service.ParticipantService
	cards        service.CardService
	votes        service.VoteService
	memos        service.MemoService
	reactions    service.ReactionService
	items        service.ActionItemService
	timer        service.TimerService
	exports      service.ExportService
	sessions     *middleware.Sessions
	health       HealthChecker
}

func New(
	boards service.BoardService,
	participants service.ParticipantService,
	cards service.CardService,
	votes service.VoteService,
	memos service.MemoService,
	reactions service.ReactionService,
	items service.ActionItemService,
	timer service.TimerService,
	exports service.ExportService,
	sessions *middleware.Sessions,
	health HealthChecker,
) *Handler {
	return &Handler{boards, participants, cards, votes, memos, reactions, items, timer, exports, sessions, health}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}

// session never returns nil behind the Require middleware; the guard
// covers misconfigured routes.
func session(w http.ResponseWriter, r *http.Request) *middleware.Session {
	s := middleware.FromContext(r)
	if s == nil {
		http.Error(w, "Please join the board first", http.StatusUnauthorized)
	}
	return s
}

func parseIdParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, errors.BadRequest(fmt.Sprintf("invalid %s: must be an integer", name))
	}
	return id, nil
}
