package service

import (
	"github.com/retroloop-dev/retroloop/internal/broadcast"
	"github.com/retroloop-dev/retroloop/internal/domain"
	"github.com/retroloop-dev/retroloop/internal/errors"
	"github.com/retroloop-dev/retroloop/internal/policy"
)

type ReactionService interface {
	Add(slug domain.BoardSlug, requesterId domain.ParticipantId, cardId domain.CardId, emoji domain.Emoji) (*domain.Reaction, error)
	Remove(slug domain.BoardSlug, requesterId domain.ParticipantId, cardId domain.CardId, emoji domain.Emoji) error
}

type ReactionStorage interface {
	SessionStorage
	GetCard(id domain.CardId) (*domain.Card, error)
	AddReaction(cardId domain.CardId, participantId domain.ParticipantId, emoji domain.Emoji) (*domain.Reaction, error)
	RemoveReaction(cardId domain.CardId, participantId domain.ParticipantId, emoji domain.Emoji) error
}

type Reaction struct {
	storage ReactionStorage
	gateway broadcast.Gateway
}

func NewReaction(storage ReactionStorage, gateway broadcast.Gateway) *Reaction {
	return &Reaction{storage, gateway}
}

func (r *Reaction) cardFor(board *domain.Board, cardId domain.CardId) (*domain.Card, error) {
	card, err := r.storage.GetCard(cardId)
	if err != nil {
		return nil, err
	}
	if card.BoardId != board.Id {
		return nil, errors.BadRequest("Card does not belong to this board")
	}
	return card, nil
}

func (r *Reaction) Add(slug domain.BoardSlug, requesterId domain.ParticipantId, cardId domain.CardId, emoji domain.Emoji) (*domain.Reaction, error) {
	board, participant, err := requester(r.storage, slug, requesterId)
	if err != nil {
		return nil, err
	}
	card, err := r.cardFor(board, cardId)
	if err != nil {
		return nil, err
	}
	if err := policy.Check(board.Phase, policy.React, policy.Subject{IsFacilitator: participant.IsFacilitator}); err != nil {
		return nil, err
	}
	if !domain.EmojiAllowed(emoji) {
		return nil, errors.BadRequest("Emoji not allowed")
	}

	reaction, err := r.storage.AddReaction(card.Id, participant.Id, emoji)
	if err != nil {
		return nil, err
	}

	r.gateway.Publish(board.Slug, domain.ReactionAdded{Reaction: *reaction})
	return reaction, nil
}

func (r *Reaction) Remove(slug domain.BoardSlug, requesterId domain.ParticipantId, cardId domain.CardId, emoji domain.Emoji) error {
	board, participant, err := requester(r.storage, slug, requesterId)
	if err != nil {
		return err
	}
	card, err := r.cardFor(board, cardId)
	if err != nil {
		return err
	}
	if err := policy.Check(board.Phase, policy.React, policy.Subject{IsFacilitator: participant.IsFacilitator}); err != nil {
		return err
	}

	if err := r.storage.RemoveReaction(card.Id, participant.Id, emoji); err != nil {
		return err
	}

	r.gateway.Publish(board.Slug, domain.ReactionRemoved{
		CardId:        card.Id,
		ParticipantId: participant.Id,
		Emoji:         emoji,
	})
	return nil
}
