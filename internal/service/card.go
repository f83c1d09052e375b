package service

import (
	"github.com/retroloop-dev/retroloop/internal/broadcast"
	"github.com/retroloop-dev/retroloop/internal/domain"
	"github.com/retroloop-dev/retroloop/internal/errors"
	"github.com/retroloop-dev/retroloop/internal/policy"
)

type CardService interface {
	Create(slug domain.BoardSlug, requesterId domain.ParticipantId, columnId domain.ColumnId, content string) (*domain.Card, error)
	Update(slug domain.BoardSlug, requesterId domain.ParticipantId, cardId domain.CardId, content string) (*domain.Card, error)
	Delete(slug domain.BoardSlug, requesterId domain.ParticipantId, cardId domain.CardId) error
	Move(slug domain.BoardSlug, requesterId domain.ParticipantId, cardId domain.CardId, columnId domain.ColumnId, index int) error
	MarkDiscussed(slug domain.BoardSlug, requesterId domain.ParticipantId, cardId domain.CardId) (int, error)
}

type CardStorage interface {
	SessionStorage
	GetColumn(id domain.ColumnId) (*domain.Column, error)
	CreateCard(boardId domain.BoardId, columnId domain.ColumnId, authorId domain.ParticipantId, content string) (*domain.Card, error)
	GetCard(id domain.CardId) (*domain.Card, error)
	UpdateCardContent(id domain.CardId, content string) error
	DeleteCard(id domain.CardId) error
	MoveCard(id domain.CardId, targetColumnId domain.ColumnId, index int) error
	MarkCardDiscussed(id domain.CardId) (int, error)
}

type Card struct {
	storage CardStorage
	gateway broadcast.Gateway
}

func NewCard(storage CardStorage, gateway broadcast.Gateway) *Card {
	return &Card{storage, gateway}
}

// cardFor loads the card and rejects ids that belong to another board.
func (c *Card) cardFor(board *domain.Board, cardId domain.CardId) (*domain.Card, error) {
	card, err := c.storage.GetCard(cardId)
	if err != nil {
		return nil, err
	}
	if card.BoardId != board.Id {
		return nil, errors.BadRequest("Card does not belong to this board")
	}
	return card, nil
}

// publishCard prepares the payload for the shared board channel:
// content is stripped while private writing keeps cards hidden, and
// the author is scrubbed on anonymous boards. The caller's own
// response keeps the full card.
func (c *Card) publishCard(board *domain.Board, event func(domain.Card) domain.Event, card domain.Card) {
	if board.IsPrivateWriting && !board.Phase.AtLeast(domain.PhaseVoting) {
		card = card.Redacted()
	}
	if board.IsAnonymous {
		card = card.Anonymized()
	}
	c.gateway.Publish(board.Slug, event(card))
}

func (c *Card) Create(slug domain.BoardSlug, requesterId domain.ParticipantId, columnId domain.ColumnId, content string) (*domain.Card, error) {
	board, participant, err := requester(c.storage, slug, requesterId)
	if err != nil {
		return nil, err
	}
	if err := policy.Check(board.Phase, policy.CreateCard, policy.Subject{IsFacilitator: participant.IsFacilitator}); err != nil {
		return nil, err
	}

	content, err = validateContent(content, "Card")
	if err != nil {
		return nil, err
	}

	column, err := c.storage.GetColumn(columnId)
	if err != nil {
		return nil, err
	}
	if column.BoardId != board.Id {
		return nil, errors.BadRequest("Column does not belong to this board")
	}

	card, err := c.storage.CreateCard(board.Id, columnId, participant.Id, content)
	if err != nil {
		return nil, err
	}

	c.publishCard(board, func(card domain.Card) domain.Event { return domain.CardCreated{Card: card} }, *card)
	return card, nil
}

func (c *Card) Update(slug domain.BoardSlug, requesterId domain.ParticipantId, cardId domain.CardId, content string) (*domain.Card, error) {
	board, participant, err := requester(c.storage, slug, requesterId)
	if err != nil {
		return nil, err
	}
	card, err := c.cardFor(board, cardId)
	if err != nil {
		return nil, err
	}

	subject := policy.Subject{IsFacilitator: participant.IsFacilitator, IsAuthor: card.AuthorId == participant.Id}
	if err := policy.Check(board.Phase, policy.EditOwnCard, subject); err != nil {
		return nil, err
	}

	content, err = validateContent(content, "Card")
	if err != nil {
		return nil, err
	}
	if err := c.storage.UpdateCardContent(card.Id, content); err != nil {
		return nil, err
	}
	card.Content = content

	c.publishCard(board, func(card domain.Card) domain.Event { return domain.CardUpdated{Card: card} }, *card)
	return card, nil
}

func (c *Card) Delete(slug domain.BoardSlug, requesterId domain.ParticipantId, cardId domain.CardId) error {
	board, participant, err := requester(c.storage, slug, requesterId)
	if err != nil {
		return err
	}
	card, err := c.cardFor(board, cardId)
	if err != nil {
		return err
	}

	subject := policy.Subject{IsFacilitator: participant.IsFacilitator, IsAuthor: card.AuthorId == participant.Id}
	if err := policy.Check(board.Phase, policy.DeleteCard, subject); err != nil {
		return err
	}

	if err := c.storage.DeleteCard(card.Id); err != nil {
		return err
	}

	c.gateway.Publish(board.Slug, domain.CardDeleted{CardId: card.Id, ColumnId: card.ColumnId})
	return nil
}

func (c *Card) Move(slug domain.BoardSlug, requesterId domain.ParticipantId, cardId domain.CardId, columnId domain.ColumnId, index int) error {
	board, participant, err := requester(c.storage, slug, requesterId)
	if err != nil {
		return err
	}
	card, err := c.cardFor(board, cardId)
	if err != nil {
		return err
	}

	column, err := c.storage.GetColumn(columnId)
	if err != nil {
		return err
	}
	if column.BoardId != board.Id {
		return errors.BadRequest("Column does not belong to this board")
	}

	action := policy.MoveCardSameCol
	if card.ColumnId != columnId {
		action = policy.MoveCardCrossCol
	}
	subject := policy.Subject{IsFacilitator: participant.IsFacilitator, IsAuthor: card.AuthorId == participant.Id}
	if err := policy.Check(board.Phase, action, subject); err != nil {
		return err
	}

	if err := c.storage.MoveCard(card.Id, columnId, index); err != nil {
		return err
	}

	c.gateway.Publish(board.Slug, domain.CardMoved{
		CardId:       card.Id,
		FromColumnId: card.ColumnId,
		ToColumnId:   columnId,
		Index:        index,
	})
	return nil
}

func (c *Card) MarkDiscussed(slug domain.BoardSlug, requesterId domain.ParticipantId, cardId domain.CardId) (int, error) {
	board, participant, err := requester(c.storage, slug, requesterId)
	if err != nil {
		return 0, err
	}
	card, err := c.cardFor(board, cardId)
	if err != nil {
		return 0, err
	}

	if err := policy.Check(board.Phase, policy.MarkDiscussed, policy.Subject{IsFacilitator: participant.IsFacilitator}); err != nil {
		return 0, err
	}

	order, err := c.storage.MarkCardDiscussed(card.Id)
	if err != nil {
		return 0, err
	}

	c.gateway.Publish(board.Slug, domain.CardDiscussed{CardId: card.Id, DiscussionOrder: order})
	return order, nil
}
