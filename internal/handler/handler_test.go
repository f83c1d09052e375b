package handler

import (
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/retroloop-dev/retroloop/internal/api"
	"github.com/retroloop-dev/retroloop/internal/domain"
	"github.com/retroloop-dev/retroloop/internal/export"
	"github.com/retroloop-dev/retroloop/internal/middleware"
)

type MockBoardService struct {
	MockCreate       func(data domain.BoardCreationData) (*domain.Board, []domain.CarryOverItem, error)
	MockGet          func(slug domain.BoardSlug, requesterId *domain.ParticipantId) (*api.BoardResponse, error)
	MockAdvancePhase func(slug domain.BoardSlug, requesterId domain.ParticipantId, target domain.Phase) (*domain.Board, error)
	MockCarryOver    func(slug domain.BoardSlug) ([]domain.CarryOverItem, error)
}

func (m *MockBoardService) Create(data domain.BoardCreationData) (*domain.Board, []domain.CarryOverItem, error) {
	if m.MockCreate != nil {
		return m.MockCreate(data)
	}
	return &domain.Board{}, nil, nil
}

func (m *MockBoardService) Get(slug domain.BoardSlug, requesterId *domain.ParticipantId) (*api.BoardResponse, error) {
	if m.MockGet != nil {
		return m.MockGet(slug, requesterId)
	}
	return &api.BoardResponse{}, nil
}

func (m *MockBoardService) AdvancePhase(slug domain.BoardSlug, requesterId domain.ParticipantId, target domain.Phase) (*domain.Board, error) {
	if m.MockAdvancePhase != nil {
		return m.MockAdvancePhase(slug, requesterId, target)
	}
	return &domain.Board{}, nil
}

func (m *MockBoardService) CarryOver(slug domain.BoardSlug) ([]domain.CarryOverItem, error) {
	if m.MockCarryOver != nil {
		return m.MockCarryOver(slug)
	}
	return nil, nil
}

type MockParticipantService struct {
	MockJoin      func(slug domain.BoardSlug, nickname domain.Nickname) (*domain.Participant, error)
	MockSetOnline func(slug domain.BoardSlug, requesterId domain.ParticipantId, online bool) error
}

func (m *MockParticipantService) Join(slug domain.BoardSlug, nickname domain.Nickname) (*domain.Participant, error) {
	if m.MockJoin != nil {
		return m.MockJoin(slug, nickname)
	}
	return &domain.Participant{Id: 1}, nil
}

func (m *MockParticipantService) SetOnline(slug domain.BoardSlug, requesterId domain.ParticipantId, online bool) error {
	if m.MockSetOnline != nil {
		return m.MockSetOnline(slug, requesterId, online)
	}
	return nil
}

type MockCardService struct {
	MockCreate        func(slug domain.BoardSlug, requesterId domain.ParticipantId, columnId domain.ColumnId, content string) (*domain.Card, error)
	MockUpdate        func(slug domain.BoardSlug, requesterId domain.ParticipantId, cardId domain.CardId, content string) (*domain.Card, error)
	MockDelete        func(slug domain.BoardSlug, requesterId domain.ParticipantId, cardId domain.CardId) error
	MockMove          func(slug domain.BoardSlug, requesterId domain.ParticipantId, cardId domain.CardId, columnId domain.ColumnId, index int) error
	MockMarkDiscussed func(slug domain.BoardSlug, requesterId domain.ParticipantId, cardId domain.CardId) (int, error)
}

func (m *MockCardService) Create(slug domain.BoardSlug, requesterId domain.ParticipantId, columnId domain.ColumnId, content string) (*domain.Card, error) {
	if m.MockCreate != nil {
		return m.MockCreate(slug, requesterId, columnId, content)
	}
	return &domain.Card{}, nil
}

func (m *MockCardService) Update(slug domain.BoardSlug, requesterId domain.ParticipantId, cardId domain.CardId, content string) (*domain.Card, error) {
	if m.MockUpdate != nil {
		return m.MockUpdate(slug, requesterId, cardId, content)
	}
	return &domain.Card{}, nil
}

func (m *MockCardService) Delete(slug domain.BoardSlug, requesterId domain.ParticipantId, cardId domain.CardId) error {
	if m.MockDelete != nil {
		return m.MockDelete(slug, requesterId, cardId)
	}
	return nil
}

func (m *MockCardService) Move(slug domain.BoardSlug, requesterId domain.ParticipantId, cardId domain.CardId, columnId domain.ColumnId, index int) error {
	if m.MockMove != nil {
		return m.MockMove(slug, requesterId, cardId, columnId, index)
	}
	return nil
}

func (m *MockCardService) MarkDiscussed(slug domain.BoardSlug, requesterId domain.ParticipantId, cardId domain.CardId) (int, error) {
	if m.MockMarkDiscussed != nil {
		return m.MockMarkDiscussed(slug, requesterId, cardId)
	}
	return 0, nil
}

type MockVoteService struct {
	MockAdd    func(slug domain.BoardSlug, requesterId domain.ParticipantId, cardId domain.CardId) (int, int, error)
	MockRemove func(slug domain.BoardSlug, requesterId domain.ParticipantId, cardId domain.CardId) (int, int, error)
}

func (m *MockVoteService) Add(slug domain.BoardSlug, requesterId domain.ParticipantId, cardId domain.CardId) (int, int, error) {
	if m.MockAdd != nil {
		return m.MockAdd(slug, requesterId, cardId)
	}
	return 0, 0, nil
}

func (m *MockVoteService) Remove(slug domain.BoardSlug, requesterId domain.ParticipantId, cardId domain.CardId) (int, int, error) {
	if m.MockRemove != nil {
		return m.MockRemove(slug, requesterId, cardId)
	}
	return 0, 0, nil
}

type MockTimerService struct {
	MockStart    func(slug domain.BoardSlug, requesterId domain.ParticipantId, seconds int) (domain.TimerState, error)
	MockPause    func(slug domain.BoardSlug, requesterId domain.ParticipantId) (domain.TimerState, error)
	MockResume   func(slug domain.BoardSlug, requesterId domain.ParticipantId) (domain.TimerState, error)
	MockReset    func(slug domain.BoardSlug, requesterId domain.ParticipantId) (domain.TimerState, error)
	MockStateFor func(slug domain.BoardSlug) (domain.TimerState, error)
}

func (m *MockTimerService) Start(slug domain.BoardSlug, requesterId domain.ParticipantId, seconds int) (domain.TimerState, error) {
	if m.MockStart != nil {
		return m.MockStart(slug, requesterId, seconds)
	}
	return domain.TimerState{}, nil
}

func (m *MockTimerService) Pause(slug domain.BoardSlug, requesterId domain.ParticipantId) (domain.TimerState, error) {
	if m.MockPause != nil {
		return m.MockPause(slug, requesterId)
	}
	return domain.TimerState{}, nil
}

func (m *MockTimerService) Resume(slug domain.BoardSlug, requesterId domain.ParticipantId) (domain.TimerState, error) {
	if m.MockResume != nil {
		return m.MockResume(slug, requesterId)
	}
	return domain.TimerState{}, nil
}

func (m *MockTimerService) Reset(slug domain.BoardSlug, requesterId domain.ParticipantId) (domain.TimerState, error) {
	if m.MockReset != nil {
		return m.MockReset(slug, requesterId)
	}
	return domain.TimerState{}, nil
}

func (m *MockTimerService) State(boardId domain.BoardId) domain.TimerState {
	return domain.TimerState{}
}

func (m *MockTimerService) StateFor(slug domain.BoardSlug) (domain.TimerState, error) {
	if m.MockStateFor != nil {
		return m.MockStateFor(slug)
	}
	return domain.TimerState{}, nil
}

type MockExportService struct {
	MockExport func(slug domain.BoardSlug, requesterId domain.ParticipantId, format export.Format) ([]byte, error)
}

func (m *MockExportService) Export(slug domain.BoardSlug, requesterId domain.ParticipantId, format export.Format) ([]byte, error) {
	if m.MockExport != nil {
		return m.MockExport(slug, requesterId, format)
	}
	return []byte("# board"), nil
}

// testEnv wires a handler with mock services onto the real routes.
type testEnv struct {
	handler  *Handler
	sessions *middleware.Sessions
	router   *chi.Mux
}

func newTestEnv() *testEnv {
	sessions := middleware.NewSessions("test-key", time.Hour, false)
	h := New(
		&MockBoardService{},
		&MockParticipantService{},
		&MockCardService{},
		&MockVoteService{},
		nil, // memos
		nil, // reactions
		nil, // action items
		&MockTimerService{},
		&MockExportService{},
		sessions,
		nil, // health
	)

	r := chi.NewRouter()
	r.Route("/v1/boards", func(r chi.Router) {
		r.Post("/", h.CreateBoard)
		r.Route("/{board}", func(r chi.Router) {
			r.Get("/", sessions.Optional(h.GetBoard))
			r.Post("/join", h.Join)
			r.Post("/phase", sessions.Require(h.AdvancePhase))
			r.Get("/export", sessions.Require(h.ExportBoard))
			r.Post("/cards", sessions.Require(h.CreateCard))
			r.Post("/cards/{card}/votes", sessions.Require(h.AddVote))
			r.Post("/cards/{card}/move", sessions.Require(h.MoveCard))
			r.Get("/timer", h.GetTimer)
			r.Post("/timer/start", sessions.Require(h.StartTimer))
		})
	})

	return &testEnv{handler: h, sessions: sessions, router: r}
}

// sessionCookie issues a signed cookie the way Join does.
func (e *testEnv) sessionCookie(slug domain.BoardSlug, participantId domain.ParticipantId) *http.Cookie {
	rr := httptest.NewRecorder()
	if err := e.sessions.Issue(rr, slug, participantId); err != nil {
		panic(err)
	}
	return rr.Result().Cookies()[0]
}

