// Package broadcast fans domain events out to every socket subscribed
// to a board's channel. Delivery is best-effort: a slow or missing
// subscriber never blocks the mutation that produced the event, and
// reconnecting clients pull full board state instead of replaying.
package broadcast

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/retroloop-dev/retroloop/internal/domain"
	"github.com/retroloop-dev/retroloop/internal/logger"
)

// Gateway is what the services see.
type Gateway interface {
	Publish(boardSlug domain.BoardSlug, event domain.Event)
}

// Envelope is the wire shape pushed to the board channel.
type Envelope struct {
	Id      string       `json:"id"`
	Type    string       `json:"type"`
	Board   string       `json:"board"`
	Ts      time.Time    `json:"ts"`
	Payload domain.Event `json:"payload"`
}

type Redis struct {
	client  *redis.Client
	timeout time.Duration
}

func New(client *redis.Client, timeout time.Duration) *Redis {
	return &Redis{client: client, timeout: timeout}
}

func Channel(boardSlug domain.BoardSlug) string {
	return "board:" + boardSlug
}

// Publish pushes the event envelope to the board channel. Errors are
// logged and swallowed: live delivery has no guarantee beyond
// best-effort fan-out.
func (r *Redis) Publish(boardSlug domain.BoardSlug, event domain.Event) {
	envelope := Envelope{
		Id:      uuid.NewString(),
		Type:    event.EventType(),
		Board:   boardSlug,
		Ts:      time.Now().UTC(),
		Payload: event,
	}
	payload, err := json.Marshal(envelope)
	if err != nil {
		logger.Log.Error("marshal event", "type", envelope.Type, "err", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	if err := r.client.Publish(ctx, Channel(boardSlug), payload).Err(); err != nil {
		logger.Log.Error("publish event", "channel", Channel(boardSlug), "type", envelope.Type, "err", err)
	}
}
