// Package router wires the HTTP surface.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chi_middleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/retroloop-dev/retroloop/internal/metrics"
	"github.com/retroloop-dev/retroloop/internal/setup"
)

func New(deps *setup.Dependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chi_middleware.RequestID)
	r.Use(chi_middleware.RealIP)
	r.Use(chi_middleware.Recoverer)
	r.Use(chi_middleware.Compress(5))
	r.Use(metrics.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Public.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}))

	h := deps.Handler
	sessions := deps.Sessions

	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1/boards", func(r chi.Router) {
		r.Post("/", h.CreateBoard)

		r.Route("/{board}", func(r chi.Router) {
			r.Get("/", sessions.Optional(h.GetBoard))
			r.Post("/join", h.Join)
			r.Post("/phase", sessions.Require(h.AdvancePhase))
			r.Post("/presence", sessions.Require(h.SetPresence))
			r.Get("/carryover", sessions.Optional(h.GetCarryOver))
			r.Get("/export", sessions.Require(h.ExportBoard))

			r.Post("/cards", sessions.Require(h.CreateCard))
			r.Route("/cards/{card}", func(r chi.Router) {
				r.Patch("/", sessions.Require(h.UpdateCard))
				r.Delete("/", sessions.Require(h.DeleteCard))
				r.Post("/move", sessions.Require(h.MoveCard))
				r.Post("/discussed", sessions.Require(h.MarkCardDiscussed))
				r.Post("/votes", sessions.Require(h.AddVote))
				r.Delete("/votes", sessions.Require(h.RemoveVote))
				r.Post("/memos", sessions.Require(h.CreateMemo))
				r.Put("/reactions/{emoji}", sessions.Require(h.AddReaction))
				r.Delete("/reactions/{emoji}", sessions.Require(h.RemoveReaction))
			})

			r.Patch("/memos/{memo}", sessions.Require(h.UpdateMemo))
			r.Delete("/memos/{memo}", sessions.Require(h.DeleteMemo))

			r.Post("/action-items", sessions.Require(h.CreateActionItem))
			r.Route("/action-items/{item}", func(r chi.Router) {
				r.Patch("/", sessions.Require(h.UpdateActionItem))
				r.Delete("/", sessions.Require(h.DeleteActionItem))
				r.Post("/status", sessions.Require(h.ChangeActionItemStatus))
			})

			r.Route("/timer", func(r chi.Router) {
				r.Get("/", h.GetTimer)
				r.Post("/start", sessions.Require(h.StartTimer))
				r.Post("/pause", sessions.Require(h.PauseTimer))
				r.Post("/resume", sessions.Require(h.ResumeTimer))
				r.Post("/reset", sessions.Require(h.ResetTimer))
			})
		})
	})

	return r
}
