package service

import (
	"github.com/retroloop-dev/retroloop/internal/broadcast"
	"github.com/retroloop-dev/retroloop/internal/domain"
	"github.com/retroloop-dev/retroloop/internal/errors"
	"github.com/retroloop-dev/retroloop/internal/policy"
)

type VoteService interface {
	Add(slug domain.BoardSlug, requesterId domain.ParticipantId, cardId domain.CardId) (tally, remaining int, err error)
	Remove(slug domain.BoardSlug, requesterId domain.ParticipantId, cardId domain.CardId) (tally, remaining int, err error)
}

type VoteStorage interface {
	SessionStorage
	GetCard(id domain.CardId) (*domain.Card, error)
	AddVote(boardId domain.BoardId, cardId domain.CardId, participantId domain.ParticipantId, maxVotes int) (int, error)
	RemoveVote(cardId domain.CardId, participantId domain.ParticipantId) (int, error)
	CountVotesByParticipant(boardId domain.BoardId, participantId domain.ParticipantId) (int, error)
}

type Vote struct {
	storage VoteStorage
	gateway broadcast.Gateway
}

func NewVote(storage VoteStorage, gateway broadcast.Gateway) *Vote {
	return &Vote{storage, gateway}
}

func (v *Vote) cardFor(board *domain.Board, cardId domain.CardId) (*domain.Card, error) {
	card, err := v.storage.GetCard(cardId)
	if err != nil {
		return nil, err
	}
	if card.BoardId != board.Id {
		return nil, errors.BadRequest("Card does not belong to this board")
	}
	return card, nil
}

// remaining is clamped at zero and always recomputed from the current
// vote count, never cached.
func (v *Vote) remaining(board *domain.Board, participantId domain.ParticipantId) (int, error) {
	used, err := v.storage.CountVotesByParticipant(board.Id, participantId)
	if err != nil {
		return 0, err
	}
	return max(0, board.MaxVotesPerPerson-used), nil
}

func (v *Vote) Add(slug domain.BoardSlug, requesterId domain.ParticipantId, cardId domain.CardId) (int, int, error) {
	board, participant, err := requester(v.storage, slug, requesterId)
	if err != nil {
		return 0, 0, err
	}
	card, err := v.cardFor(board, cardId)
	if err != nil {
		return 0, 0, err
	}
	if err := policy.Check(board.Phase, policy.Vote, policy.Subject{IsFacilitator: participant.IsFacilitator}); err != nil {
		return 0, 0, err
	}

	// duplicate and quota checks re-run inside the insert transaction
	tally, err := v.storage.AddVote(board.Id, card.Id, participant.Id, board.MaxVotesPerPerson)
	if err != nil {
		return 0, 0, err
	}

	remaining, err := v.remaining(board, participant.Id)
	if err != nil {
		return 0, 0, err
	}

	v.gateway.Publish(board.Slug, domain.VoteAdded{CardId: card.Id, Votes: tally})
	return tally, remaining, nil
}

func (v *Vote) Remove(slug domain.BoardSlug, requesterId domain.ParticipantId, cardId domain.CardId) (int, int, error) {
	board, participant, err := requester(v.storage, slug, requesterId)
	if err != nil {
		return 0, 0, err
	}
	card, err := v.cardFor(board, cardId)
	if err != nil {
		return 0, 0, err
	}
	if err := policy.Check(board.Phase, policy.Vote, policy.Subject{IsFacilitator: participant.IsFacilitator}); err != nil {
		return 0, 0, err
	}

	tally, err := v.storage.RemoveVote(card.Id, participant.Id)
	if err != nil {
		return 0, 0, err
	}

	remaining, err := v.remaining(board, participant.Id)
	if err != nil {
		return 0, 0, err
	}

	v.gateway.Publish(board.Slug, domain.VoteRemoved{CardId: card.Id, Votes: tally})
	return tally, remaining, nil
}
