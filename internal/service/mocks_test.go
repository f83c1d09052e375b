package service

import (
	"time"

	"github.com/retroloop-dev/retroloop/internal/domain"
)

// mockStorage mocks the storage interfaces the services consume. Only
// the funcs a test sets are exercised.
type mockStorage struct {
	getBoardFunc                    func(slug domain.BoardSlug) (*domain.Board, error)
	getParticipantFunc              func(id domain.ParticipantId) (*domain.Participant, error)
	createBoardFunc                 func(data domain.BoardCreationData, slug domain.BoardSlug, columns []domain.ColumnTemplate) (*domain.Board, error)
	getColumnFunc                   func(id domain.ColumnId) (*domain.Column, error)
	getColumnsFunc                  func(boardId domain.BoardId) ([]domain.Column, error)
	getCardsFunc                    func(boardId domain.BoardId) ([]domain.Card, error)
	listParticipantsFunc            func(boardId domain.BoardId) ([]domain.Participant, error)
	listActionItemsFunc             func(boardId domain.BoardId) ([]domain.ActionItem, error)
	updateBoardPhaseFunc            func(boardId domain.BoardId, phase domain.Phase) (*time.Time, error)
	countVotesByParticipantFunc     func(boardId domain.BoardId, participantId domain.ParticipantId) (int, error)
	findLatestClosedBoardByTeamFunc func(teamLabel string, excludeId domain.BoardId) (*domain.Board, error)
	getUnfinishedActionItemsFunc    func(boardId domain.BoardId) ([]domain.ActionItem, error)
	addParticipantFunc              func(boardId domain.BoardId, nickname domain.Nickname) (*domain.Participant, error)
	setParticipantOnlineFunc        func(id domain.ParticipantId, online bool) error
	createCardFunc                  func(boardId domain.BoardId, columnId domain.ColumnId, authorId domain.ParticipantId, content string) (*domain.Card, error)
	getCardFunc                     func(id domain.CardId) (*domain.Card, error)
	updateCardContentFunc           func(id domain.CardId, content string) error
	deleteCardFunc                  func(id domain.CardId) error
	moveCardFunc                    func(id domain.CardId, targetColumnId domain.ColumnId, index int) error
	markCardDiscussedFunc           func(id domain.CardId) (int, error)
	addVoteFunc                     func(boardId domain.BoardId, cardId domain.CardId, participantId domain.ParticipantId, maxVotes int) (int, error)
	removeVoteFunc                  func(cardId domain.CardId, participantId domain.ParticipantId) (int, error)
	createMemoFunc                  func(cardId domain.CardId, authorId domain.ParticipantId, content string) (*domain.Memo, error)
	getMemoFunc                     func(id domain.MemoId) (*domain.Memo, error)
	updateMemoFunc                  func(id domain.MemoId, content string) (*domain.Memo, error)
	deleteMemoFunc                  func(id domain.MemoId) error
	addReactionFunc                 func(cardId domain.CardId, participantId domain.ParticipantId, emoji domain.Emoji) (*domain.Reaction, error)
	removeReactionFunc              func(cardId domain.CardId, participantId domain.ParticipantId, emoji domain.Emoji) error
	createActionItemFunc            func(data domain.ActionItemCreationData) (*domain.ActionItem, error)
	getActionItemFunc               func(id domain.ActionItemId) (*domain.ActionItem, error)
	updateActionItemFunc            func(id domain.ActionItemId, update domain.ActionItemUpdate) (*domain.ActionItem, error)
	updateActionItemStatusFunc      func(id domain.ActionItemId, status domain.ActionItemStatus) error
	deleteActionItemFunc            func(id domain.ActionItemId) error
}

func (m *mockStorage) GetBoard(slug domain.BoardSlug) (*domain.Board, error) {
	if m.getBoardFunc != nil {
		return m.getBoardFunc(slug)
	}
	return nil, nil
}

func (m *mockStorage) GetParticipant(id domain.ParticipantId) (*domain.Participant, error) {
	if m.getParticipantFunc != nil {
		return m.getParticipantFunc(id)
	}
	return nil, nil
}

func (m *mockStorage) CreateBoard(data domain.BoardCreationData, slug domain.BoardSlug, columns []domain.ColumnTemplate) (*domain.Board, error) {
	if m.createBoardFunc != nil {
		return m.createBoardFunc(data, slug, columns)
	}
	return nil, nil
}

func (m *mockStorage) GetColumn(id domain.ColumnId) (*domain.Column, error) {
	if m.getColumnFunc != nil {
		return m.getColumnFunc(id)
	}
	return nil, nil
}

func (m *mockStorage) GetColumns(boardId domain.BoardId) ([]domain.Column, error) {
	if m.getColumnsFunc != nil {
		return m.getColumnsFunc(boardId)
	}
	return nil, nil
}

func (m *mockStorage) GetCards(boardId domain.BoardId) ([]domain.Card, error) {
	if m.getCardsFunc != nil {
		return m.getCardsFunc(boardId)
	}
	return nil, nil
}

func (m *mockStorage) ListParticipants(boardId domain.BoardId) ([]domain.Participant, error) {
	if m.listParticipantsFunc != nil {
		return m.listParticipantsFunc(boardId)
	}
	return nil, nil
}

func (m *mockStorage) ListActionItems(boardId domain.BoardId) ([]domain.ActionItem, error) {
	if m.listActionItemsFunc != nil {
		return m.listActionItemsFunc(boardId)
	}
	return nil, nil
}

func (m *mockStorage) UpdateBoardPhase(boardId domain.BoardId, phase domain.Phase) (*time.Time, error) {
	if m.updateBoardPhaseFunc != nil {
		return m.updateBoardPhaseFunc(boardId, phase)
	}
	return nil, nil
}

func (m *mockStorage) CountVotesByParticipant(boardId domain.BoardId, participantId domain.ParticipantId) (int, error) {
	if m.countVotesByParticipantFunc != nil {
		return m.countVotesByParticipantFunc(boardId, participantId)
	}
	return 0, nil
}

func (m *mockStorage) FindLatestClosedBoardByTeam(teamLabel string, excludeId domain.BoardId) (*domain.Board, error) {
	if m.findLatestClosedBoardByTeamFunc != nil {
		return m.findLatestClosedBoardByTeamFunc(teamLabel, excludeId)
	}
	return nil, nil
}

func (m *mockStorage) GetUnfinishedActionItems(boardId domain.BoardId) ([]domain.ActionItem, error) {
	if m.getUnfinishedActionItemsFunc != nil {
		return m.getUnfinishedActionItemsFunc(boardId)
	}
	return nil, nil
}

func (m *mockStorage) AddParticipant(boardId domain.BoardId, nickname domain.Nickname) (*domain.Participant, error) {
	if m.addParticipantFunc != nil {
		return m.addParticipantFunc(boardId, nickname)
	}
	return nil, nil
}

func (m *mockStorage) SetParticipantOnline(id domain.ParticipantId, online bool) error {
	if m.setParticipantOnlineFunc != nil {
		return m.setParticipantOnlineFunc(id, online)
	}
	return nil
}

func (m *mockStorage) CreateCard(boardId domain.BoardId, columnId domain.ColumnId, authorId domain.ParticipantId, content string) (*domain.Card, error) {
	if m.createCardFunc != nil {
		return m.createCardFunc(boardId, columnId, authorId, content)
	}
	return nil, nil
}

func (m *mockStorage) GetCard(id domain.CardId) (*domain.Card, error) {
	if m.getCardFunc != nil {
		return m.getCardFunc(id)
	}
	return nil, nil
}

func (m *mockStorage) UpdateCardContent(id domain.CardId, content string) error {
	if m.updateCardContentFunc != nil {
		return m.updateCardContentFunc(id, content)
	}
	return nil
}

func (m *mockStorage) DeleteCard(id domain.CardId) error {
	if m.deleteCardFunc != nil {
		return m.deleteCardFunc(id)
	}
	return nil
}

func (m *mockStorage) MoveCard(id domain.CardId, targetColumnId domain.ColumnId, index int) error {
	if m.moveCardFunc != nil {
		return m.moveCardFunc(id, targetColumnId, index)
	}
	return nil
}

func (m *mockStorage) MarkCardDiscussed(id domain.CardId) (int, error) {
	if m.markCardDiscussedFunc != nil {
		return m.markCardDiscussedFunc(id)
	}
	return 0, nil
}

func (m *mockStorage) AddVote(boardId domain.BoardId, cardId domain.CardId, participantId domain.ParticipantId, maxVotes int) (int, error) {
	if m.addVoteFunc != nil {
		return m.addVoteFunc(boardId, cardId, participantId, maxVotes)
	}
	return 0, nil
}

func (m *mockStorage) RemoveVote(cardId domain.CardId, participantId domain.ParticipantId) (int, error) {
	if m.removeVoteFunc != nil {
		return m.removeVoteFunc(cardId, participantId)
	}
	return 0, nil
}

func (m *mockStorage) CreateMemo(cardId domain.CardId, authorId domain.ParticipantId, content string) (*domain.Memo, error) {
	if m.createMemoFunc != nil {
		return m.createMemoFunc(cardId, authorId, content)
	}
	return nil, nil
}

func (m *mockStorage) GetMemo(id domain.MemoId) (*domain.Memo, error) {
	if m.getMemoFunc != nil {
		return m.getMemoFunc(id)
	}
	return nil, nil
}

func (m *mockStorage) UpdateMemo(id domain.MemoId, content string) (*domain.Memo, error) {
	if m.updateMemoFunc != nil {
		return m.updateMemoFunc(id, content)
	}
	return nil, nil
}

func (m *mockStorage) DeleteMemo(id domain.MemoId) error {
	if m.deleteMemoFunc != nil {
		return m.deleteMemoFunc(id)
	}
	return nil
}

func (m *mockStorage) AddReaction(cardId domain.CardId, participantId domain.ParticipantId, emoji domain.Emoji) (*domain.Reaction, error) {
	if m.addReactionFunc != nil {
		return m.addReactionFunc(cardId, participantId, emoji)
	}
	return nil, nil
}

func (m *mockStorage) RemoveReaction(cardId domain.CardId, participantId domain.ParticipantId, emoji domain.Emoji) error {
	if m.removeReactionFunc != nil {
		return m.removeReactionFunc(cardId, participantId, emoji)
	}
	return nil
}

func (m *mockStorage) CreateActionItem(data domain.ActionItemCreationData) (*domain.ActionItem, error) {
	if m.createActionItemFunc != nil {
		return m.createActionItemFunc(data)
	}
	return nil, nil
}

func (m *mockStorage) GetActionItem(id domain.ActionItemId) (*domain.ActionItem, error) {
	if m.getActionItemFunc != nil {
		return m.getActionItemFunc(id)
	}
	return nil, nil
}

func (m *mockStorage) UpdateActionItem(id domain.ActionItemId, update domain.ActionItemUpdate) (*domain.ActionItem, error) {
	if m.updateActionItemFunc != nil {
		return m.updateActionItemFunc(id, update)
	}
	return nil, nil
}

func (m *mockStorage) UpdateActionItemStatus(id domain.ActionItemId, status domain.ActionItemStatus) error {
	if m.updateActionItemStatusFunc != nil {
		return m.updateActionItemStatusFunc(id, status)
	}
	return nil
}

func (m *mockStorage) DeleteActionItem(id domain.ActionItemId) error {
	if m.deleteActionItemFunc != nil {
		return m.deleteActionItemFunc(id)
	}
	return nil
}

// mockGateway records published events.
type mockGateway struct {
	events []domain.Event
}

func (m *mockGateway) Publish(boardSlug domain.BoardSlug, event domain.Event) {
	m.events = append(m.events, event)
}

func (m *mockGateway) last() domain.Event {
	if len(m.events) == 0 {
		return nil
	}
	return m.events[len(m.events)-1]
}
