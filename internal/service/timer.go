package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/retroloop-dev/retroloop/internal/broadcast"
	"github.com/retroloop-dev/retroloop/internal/domain"
	"github.com/retroloop-dev/retroloop/internal/errors"
	"github.com/retroloop-dev/retroloop/internal/policy"
)

type TimerService interface {
	Start(slug domain.BoardSlug, requesterId domain.ParticipantId, seconds int) (domain.TimerState, error)
	Pause(slug domain.BoardSlug, requesterId domain.ParticipantId) (domain.TimerState, error)
	Resume(slug domain.BoardSlug, requesterId domain.ParticipantId) (domain.TimerState, error)
	Reset(slug domain.BoardSlug, requesterId domain.ParticipantId) (domain.TimerState, error)
	State(boardId domain.BoardId) domain.TimerState
	StateFor(slug domain.BoardSlug) (domain.TimerState, error)
}

// boardTimer is one countdown. cancel stops the tick goroutine; nil
// while paused.
type boardTimer struct {
	slug      domain.BoardSlug
	total     int
	remaining int
	running   bool
	cancel    context.CancelFunc
}

func (t *boardTimer) state() domain.TimerState {
	return domain.TimerState{
		IsRunning:        t.running,
		RemainingSeconds: t.remaining,
		TotalSeconds:     t.total,
	}
}

// Timer keeps one countdown per board, in memory only. Countdowns do
// not survive a restart; boards reopen with no timer, which is the
// documented behavior.
type Timer struct {
	storage    SessionStorage
	gateway    broadcast.Gateway
	maxSeconds int

	mu     sync.Mutex
	timers map[domain.BoardId]*boardTimer
}

func NewTimer(storage SessionStorage, gateway broadcast.Gateway, maxSeconds int) *Timer {
	return &Timer{
		storage:    storage,
		gateway:    gateway,
		maxSeconds: maxSeconds,
		timers:     make(map[domain.BoardId]*boardTimer),
	}
}

// facilitator authorizes a timer mutation on the board.
func (t *Timer) facilitator(slug domain.BoardSlug, requesterId domain.ParticipantId) (*domain.Board, error) {
	board, participant, err := requester(t.storage, slug, requesterId)
	if err != nil {
		return nil, err
	}
	if err := policy.Check(board.Phase, policy.ManageTimer, policy.Subject{IsFacilitator: participant.IsFacilitator}); err != nil {
		return nil, err
	}
	return board, nil
}

func (t *Timer) Start(slug domain.BoardSlug, requesterId domain.ParticipantId, seconds int) (domain.TimerState, error) {
	board, err := t.facilitator(slug, requesterId)
	if err != nil {
		return domain.TimerState{}, err
	}
	if seconds <= 0 {
		return domain.TimerState{}, errors.BadRequest("Timer duration must be positive")
	}
	if seconds > t.maxSeconds {
		return domain.TimerState{}, errors.BadRequest(fmt.Sprintf("Timer duration can't exceed %d seconds", t.maxSeconds))
	}

	t.mu.Lock()
	if existing, ok := t.timers[board.Id]; ok && existing.cancel != nil {
		existing.cancel()
	}
	timer := &boardTimer{slug: board.Slug, total: seconds, remaining: seconds, running: true}
	t.timers[board.Id] = timer
	t.run(board.Id, timer)
	state := timer.state()
	t.mu.Unlock()

	t.gateway.Publish(board.Slug, domain.TimerUpdate{Timer: state})
	return state, nil
}

func (t *Timer) Pause(slug domain.BoardSlug, requesterId domain.ParticipantId) (domain.TimerState, error) {
	board, err := t.facilitator(slug, requesterId)
	if err != nil {
		return domain.TimerState{}, err
	}

	t.mu.Lock()
	timer, ok := t.timers[board.Id]
	if !ok || !timer.running {
		t.mu.Unlock()
		return domain.TimerState{}, errors.BadRequest("Timer is not running")
	}
	timer.cancel()
	timer.cancel = nil
	timer.running = false
	state := timer.state()
	t.mu.Unlock()

	t.gateway.Publish(board.Slug, domain.TimerUpdate{Timer: state})
	return state, nil
}

func (t *Timer) Resume(slug domain.BoardSlug, requesterId domain.ParticipantId) (domain.TimerState, error) {
	board, err := t.facilitator(slug, requesterId)
	if err != nil {
		return domain.TimerState{}, err
	}

	t.mu.Lock()
	timer, ok := t.timers[board.Id]
	if !ok || timer.running {
		t.mu.Unlock()
		return domain.TimerState{}, errors.BadRequest("Timer is not paused")
	}
	if timer.remaining == 0 {
		// an expired countdown stays frozen at zero; resuming is a no-op
		state := timer.state()
		t.mu.Unlock()
		return state, nil
	}
	timer.running = true
	t.run(board.Id, timer)
	state := timer.state()
	t.mu.Unlock()

	t.gateway.Publish(board.Slug, domain.TimerUpdate{Timer: state})
	return state, nil
}

func (t *Timer) Reset(slug domain.BoardSlug, requesterId domain.ParticipantId) (domain.TimerState, error) {
	board, err := t.facilitator(slug, requesterId)
	if err != nil {
		return domain.TimerState{}, err
	}

	t.mu.Lock()
	if timer, ok := t.timers[board.Id]; ok {
		if timer.cancel != nil {
			timer.cancel()
		}
		delete(t.timers, board.Id)
	}
	t.mu.Unlock()

	state := domain.TimerState{}
	t.gateway.Publish(board.Slug, domain.TimerUpdate{Timer: state})
	return state, nil
}

// State returns the zero value when the board has no countdown.
func (t *Timer) State(boardId domain.BoardId) domain.TimerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	if timer, ok := t.timers[boardId]; ok {
		return timer.state()
	}
	return domain.TimerState{}
}

// StateFor resolves the board first, so unknown slugs get a 404
// instead of an empty state.
func (t *Timer) StateFor(slug domain.BoardSlug) (domain.TimerState, error) {
	board, err := t.storage.GetBoard(slug)
	if err != nil {
		return domain.TimerState{}, err
	}
	return t.State(board.Id), nil
}

// Shutdown stops every tick goroutine. Called once on server exit.
func (t *Timer) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, timer := range t.timers {
		if timer.cancel != nil {
			timer.cancel()
			timer.cancel = nil
			timer.running = false
		}
		delete(t.timers, id)
	}
}

// run starts the tick goroutine for the timer. Caller holds the lock.
func (t *Timer) run(boardId domain.BoardId, timer *boardTimer) {
	ctx, cancel := context.WithCancel(context.Background())
	timer.cancel = cancel

	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				state, live := t.tick(boardId, timer)
				if !live {
					return
				}
				t.gateway.Publish(timer.slug, domain.TimerUpdate{Timer: state})
				if !state.IsRunning {
					return
				}
			}
		}
	}()
}

// tick decrements the countdown by one second. The boolean is false
// when the tick lost a race with Pause, Reset or Start; such a tick
// must not touch the countdown or publish. An expired entry is kept so
// the board view shows 0/total.
func (t *Timer) tick(boardId domain.BoardId, timer *boardTimer) (domain.TimerState, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if current, ok := t.timers[boardId]; !ok || current != timer || !timer.running {
		return domain.TimerState{}, false
	}
	if timer.remaining > 0 {
		timer.remaining--
	}
	if timer.remaining == 0 {
		timer.running = false
		if timer.cancel != nil {
			timer.cancel()
			timer.cancel = nil
		}
	}
	return timer.state(), true
}
