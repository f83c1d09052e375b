// Package setup initializes the dependency graph.
package setup

import (
	"github.com/redis/go-redis/v9"

	"github.com/retroloop-dev/retroloop/internal/broadcast"
	"github.com/retroloop-dev/retroloop/internal/config"
	"github.com/retroloop-dev/retroloop/internal/handler"
	"github.com/retroloop-dev/retroloop/internal/middleware"
	"github.com/retroloop-dev/retroloop/internal/service"
	"github.com/retroloop-dev/retroloop/internal/storage/pg"
)

// Dependencies holds every initialized component the server needs.
type Dependencies struct {
	Config   *config.Config
	Storage  *pg.Storage
	Redis    *redis.Client
	Timer    *service.Timer
	Handler  *handler.Handler
	Sessions *middleware.Sessions
}

func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	storage, err := pg.New(cfg)
	if err != nil {
		return nil, err
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Public.Redis.Addr,
		DB:   cfg.Public.Redis.DB,
	})
	gateway := broadcast.New(redisClient, cfg.Public.BroadcastTimeout)

	sessions := middleware.NewSessions(cfg.SessionKey(), cfg.SessionTTL(), cfg.Public.SecureCookies)

	carryOver := service.NewCarryOver(storage)
	timer := service.NewTimer(storage, gateway, cfg.Public.MaxTimerSeconds)
	boards := service.NewBoard(storage, carryOver, timer, gateway, cfg.Public.DefaultMaxVotes)
	participants := service.NewParticipant(storage, gateway)
	cards := service.NewCard(storage, gateway)
	votes := service.NewVote(storage, gateway)
	memos := service.NewMemo(storage, gateway)
	reactions := service.NewReaction(storage, gateway)
	items := service.NewActionItem(storage, carryOver, gateway)
	exports := service.NewExport(storage, boards)

	h := handler.New(boards, participants, cards, votes, memos, reactions, items, timer, exports, sessions, storage)

	return &Dependencies{
		Config:   cfg,
		Storage:  storage,
		Redis:    redisClient,
		Timer:    timer,
		Handler:  h,
		Sessions: sessions,
	}, nil
}

// Cleanup releases everything SetupDependencies opened.
func (d *Dependencies) Cleanup() {
	d.Timer.Shutdown()
	d.Redis.Close()
	d.Storage.Cleanup()
}
