package service

import (
	"github.com/retroloop-dev/retroloop/internal/broadcast"
	"github.com/retroloop-dev/retroloop/internal/domain"
	"github.com/retroloop-dev/retroloop/internal/errors"
	"github.com/retroloop-dev/retroloop/internal/policy"
)

type MemoService interface {
	Add(slug domain.BoardSlug, requesterId domain.ParticipantId, cardId domain.CardId, content string) (*domain.Memo, error)
	Update(slug domain.BoardSlug, requesterId domain.ParticipantId, memoId domain.MemoId, content string) (*domain.Memo, error)
	Delete(slug domain.BoardSlug, requesterId domain.ParticipantId, memoId domain.MemoId) error
}

type MemoStorage interface {
	SessionStorage
	GetCard(id domain.CardId) (*domain.Card, error)
	CreateMemo(cardId domain.CardId, authorId domain.ParticipantId, content string) (*domain.Memo, error)
	GetMemo(id domain.MemoId) (*domain.Memo, error)
	UpdateMemo(id domain.MemoId, content string) (*domain.Memo, error)
	DeleteMemo(id domain.MemoId) error
}

type Memo struct {
	storage MemoStorage
	gateway broadcast.Gateway
}

func NewMemo(storage MemoStorage, gateway broadcast.Gateway) *Memo {
	return &Memo{storage, gateway}
}

// memoFor loads a memo and its card, rejecting cross-board references.
func (m *Memo) memoFor(board *domain.Board, memoId domain.MemoId) (*domain.Memo, error) {
	memo, err := m.storage.GetMemo(memoId)
	if err != nil {
		return nil, err
	}
	card, err := m.storage.GetCard(memo.CardId)
	if err != nil {
		return nil, err
	}
	if card.BoardId != board.Id {
		return nil, errors.BadRequest("Memo does not belong to this board")
	}
	return memo, nil
}

func (m *Memo) Add(slug domain.BoardSlug, requesterId domain.ParticipantId, cardId domain.CardId, content string) (*domain.Memo, error) {
	board, participant, err := requester(m.storage, slug, requesterId)
	if err != nil {
		return nil, err
	}
	card, err := m.storage.GetCard(cardId)
	if err != nil {
		return nil, err
	}
	if card.BoardId != board.Id {
		return nil, errors.BadRequest("Card does not belong to this board")
	}

	// the creator becomes the memo's author
	subject := policy.Subject{IsFacilitator: participant.IsFacilitator, IsAuthor: true}
	if err := policy.Check(board.Phase, policy.ManageMemo, subject); err != nil {
		return nil, err
	}

	content, err = validateContent(content, "Memo")
	if err != nil {
		return nil, err
	}

	memo, err := m.storage.CreateMemo(card.Id, participant.Id, content)
	if err != nil {
		return nil, err
	}

	m.gateway.Publish(board.Slug, domain.MemoAdded{Memo: *memo})
	return memo, nil
}

func (m *Memo) Update(slug domain.BoardSlug, requesterId domain.ParticipantId, memoId domain.MemoId, content string) (*domain.Memo, error) {
	board, participant, err := requester(m.storage, slug, requesterId)
	if err != nil {
		return nil, err
	}
	memo, err := m.memoFor(board, memoId)
	if err != nil {
		return nil, err
	}

	subject := policy.Subject{IsFacilitator: participant.IsFacilitator, IsAuthor: memo.AuthorId == participant.Id}
	if err := policy.Check(board.Phase, policy.ManageMemo, subject); err != nil {
		return nil, err
	}

	content, err = validateContent(content, "Memo")
	if err != nil {
		return nil, err
	}

	updated, err := m.storage.UpdateMemo(memo.Id, content)
	if err != nil {
		return nil, err
	}

	m.gateway.Publish(board.Slug, domain.MemoUpdated{Memo: *updated})
	return updated, nil
}

func (m *Memo) Delete(slug domain.BoardSlug, requesterId domain.ParticipantId, memoId domain.MemoId) error {
	board, participant, err := requester(m.storage, slug, requesterId)
	if err != nil {
		return err
	}
	memo, err := m.memoFor(board, memoId)
	if err != nil {
		return err
	}

	subject := policy.Subject{IsFacilitator: participant.IsFacilitator, IsAuthor: memo.AuthorId == participant.Id}
	if err := policy.Check(board.Phase, policy.ManageMemo, subject); err != nil {
		return err
	}

	if err := m.storage.DeleteMemo(memo.Id); err != nil {
		return err
	}

	m.gateway.Publish(board.Slug, domain.MemoDeleted{MemoId: memo.Id, CardId: memo.CardId})
	return nil
}
