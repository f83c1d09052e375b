package service

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/retroloop-dev/retroloop/internal/api"
	"github.com/retroloop-dev/retroloop/internal/broadcast"
	"github.com/retroloop-dev/retroloop/internal/domain"
	"github.com/retroloop-dev/retroloop/internal/errors"
	"github.com/retroloop-dev/retroloop/internal/policy"
)

// to mock service in tests
type BoardService interface {
	Create(data domain.BoardCreationData) (*domain.Board, []domain.CarryOverItem, error)
	Get(slug domain.BoardSlug, requesterId *domain.ParticipantId) (*api.BoardResponse, error)
	AdvancePhase(slug domain.BoardSlug, requesterId domain.ParticipantId, target domain.Phase) (*domain.Board, error)
	CarryOver(slug domain.BoardSlug) ([]domain.CarryOverItem, error)
}

type BoardStorage interface {
	SessionStorage
	CreateBoard(data domain.BoardCreationData, slug domain.BoardSlug, columns []domain.ColumnTemplate) (*domain.Board, error)
	GetColumns(boardId domain.BoardId) ([]domain.Column, error)
	GetCards(boardId domain.BoardId) ([]domain.Card, error)
	ListParticipants(boardId domain.BoardId) ([]domain.Participant, error)
	ListActionItems(boardId domain.BoardId) ([]domain.ActionItem, error)
	UpdateBoardPhase(boardId domain.BoardId, phase domain.Phase) (*time.Time, error)
	CountVotesByParticipant(boardId domain.BoardId, participantId domain.ParticipantId) (int, error)
}

// TimerStateProvider reads the ephemeral countdown for the board view.
type TimerStateProvider interface {
	State(boardId domain.BoardId) domain.TimerState
}

type Board struct {
	storage         BoardStorage
	carryOver       *CarryOver
	timer           TimerStateProvider
	gateway         broadcast.Gateway
	defaultMaxVotes int
}

func NewBoard(storage BoardStorage, carryOver *CarryOver, timer TimerStateProvider, gateway broadcast.Gateway, defaultMaxVotes int) *Board {
	return &Board{storage, carryOver, timer, gateway, defaultMaxVotes}
}

func (b *Board) Create(data domain.BoardCreationData) (*domain.Board, []domain.CarryOverItem, error) {
	title, err := validateContent(data.Title, "Board title")
	if err != nil {
		return nil, nil, err
	}
	data.Title = title

	columns, ok := domain.FrameworkColumns(data.Framework)
	if !ok {
		return nil, nil, errors.BadRequest("Unknown framework")
	}
	if data.MaxVotesPerPerson < 0 {
		return nil, nil, errors.BadRequest("maxVotesPerPerson can't be negative")
	}
	if data.MaxVotesPerPerson == 0 {
		data.MaxVotesPerPerson = b.defaultMaxVotes
	}

	board, err := b.storage.CreateBoard(data, uuid.NewString(), columns)
	if err != nil {
		return nil, nil, err
	}

	carried, err := b.carryOver.Resolve(board.TeamLabel, board.Id)
	if err != nil {
		return nil, nil, err
	}
	return board, carried, nil
}

// Get assembles the full board view for one requester. Visibility
// filtering and anonymization happen here, at the serialization
// boundary, so no other code path can leak a hidden card.
func (b *Board) Get(slug domain.BoardSlug, requesterId *domain.ParticipantId) (*api.BoardResponse, error) {
	board, err := b.storage.GetBoard(slug)
	if err != nil {
		return nil, err
	}
	columns, err := b.storage.GetColumns(board.Id)
	if err != nil {
		return nil, err
	}
	cards, err := b.storage.GetCards(board.Id)
	if err != nil {
		return nil, err
	}
	participants, err := b.storage.ListParticipants(board.Id)
	if err != nil {
		return nil, err
	}
	items, err := b.storage.ListActionItems(board.Id)
	if err != nil {
		return nil, err
	}

	response := api.BoardResponse{
		Board:        *board,
		Columns:      buildColumnViews(board, columns, cards, requesterId),
		Participants: participants,
		ActionItems:  items,
		Timer:        b.timer.State(board.Id),
	}

	if requesterId != nil {
		used, err := b.storage.CountVotesByParticipant(board.Id, *requesterId)
		if err != nil {
			return nil, err
		}
		remaining := max(0, board.MaxVotesPerPerson-used)
		response.VotesRemaining = &remaining
	}
	return &response, nil
}

// buildColumnViews applies the card rules: private-writing hiding
// before the one-way reveal at VOTING, discussed-cards-last ordering
// from DISCUSSION on, and the anonymous-board author scrub.
func buildColumnViews(board *domain.Board, columns []domain.Column, cards []domain.Card, requesterId *domain.ParticipantId) []api.ColumnView {
	hidden := board.IsPrivateWriting && !board.Phase.AtLeast(domain.PhaseVoting)
	discussedLast := board.Phase.AtLeast(domain.PhaseDiscussion)

	views := make([]api.ColumnView, len(columns))
	index := make(map[domain.ColumnId]int, len(columns))
	for i, column := range columns {
		views[i] = api.ColumnView{Column: column, Cards: []domain.Card{}}
		index[column.Id] = i
	}

	for _, card := range cards {
		i, ok := index[card.ColumnId]
		if !ok {
			continue
		}
		if hidden && (requesterId == nil || card.AuthorId != *requesterId) {
			views[i].HiddenCardCount++
			continue
		}
		if board.IsAnonymous {
			card = card.Anonymized()
		}
		views[i].Cards = append(views[i].Cards, card)
	}

	for i := range views {
		visible := views[i].Cards
		sort.SliceStable(visible, func(a, b int) bool {
			if discussedLast && visible[a].IsDiscussed != visible[b].IsDiscussed {
				return !visible[a].IsDiscussed
			}
			return visible[a].SortOrder < visible[b].SortOrder
		})
	}
	return views
}

// AdvancePhase moves the board one step forward. Only the facilitator
// may advance, only to the single legal successor; reaching CLOSED
// also captures the history snapshot (inside the storage transaction).
func (b *Board) AdvancePhase(slug domain.BoardSlug, requesterId domain.ParticipantId, target domain.Phase) (*domain.Board, error) {
	board, participant, err := requester(b.storage, slug, requesterId)
	if err != nil {
		return nil, err
	}
	if err := policy.Check(board.Phase, policy.AdvancePhase, policy.Subject{IsFacilitator: participant.IsFacilitator}); err != nil {
		return nil, err
	}

	if !target.Valid() {
		return nil, errors.BadRequest("Unknown phase")
	}
	next, ok := board.Phase.Next()
	if !ok || target != next {
		return nil, errors.BadRequest("Phase can only advance forward, one step at a time")
	}

	closedAt, err := b.storage.UpdateBoardPhase(board.Id, target)
	if err != nil {
		return nil, err
	}
	board.Phase = target
	board.UpdatedAt = time.Now().UTC()
	board.ClosedAt = closedAt

	b.gateway.Publish(board.Slug, domain.PhaseChanged{Phase: target})
	return board, nil
}

func (b *Board) CarryOver(slug domain.BoardSlug) ([]domain.CarryOverItem, error) {
	board, err := b.storage.GetBoard(slug)
	if err != nil {
		return nil, err
	}
	return b.carryOver.Resolve(board.TeamLabel, board.Id)
}
