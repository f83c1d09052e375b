package service

import (
	"strings"
	"unicode/utf8"

	"github.com/retroloop-dev/retroloop/internal/broadcast"
	"github.com/retroloop-dev/retroloop/internal/domain"
	"github.com/retroloop-dev/retroloop/internal/errors"
	"github.com/retroloop-dev/retroloop/internal/utils"
)

const maxNicknameLen = 50

type ParticipantService interface {
	Join(slug domain.BoardSlug, nickname domain.Nickname) (*domain.Participant, error)
	SetOnline(slug domain.BoardSlug, requesterId domain.ParticipantId, online bool) error
}

type ParticipantStorage interface {
	SessionStorage
	AddParticipant(boardId domain.BoardId, nickname domain.Nickname) (*domain.Participant, error)
	SetParticipantOnline(id domain.ParticipantId, online bool) error
}

type Participant struct {
	storage ParticipantStorage
	gateway broadcast.Gateway
}

func NewParticipant(storage ParticipantStorage, gateway broadcast.Gateway) *Participant {
	return &Participant{storage, gateway}
}

// Join adds a participant to the board. The first joiner becomes the
// facilitator; the storage layer makes that assignment atomic.
func (p *Participant) Join(slug domain.BoardSlug, nickname domain.Nickname) (*domain.Participant, error) {
	board, err := p.storage.GetBoard(slug)
	if err != nil {
		return nil, err
	}
	if board.Phase == domain.PhaseClosed {
		return nil, errors.BadRequest("Board is closed")
	}

	nickname = strings.TrimSpace(utils.SanitizeContent(nickname))
	if nickname == "" {
		return nil, errors.BadRequest("Nickname can't be blank")
	}
	if utf8.RuneCountInString(nickname) > maxNicknameLen {
		return nil, errors.BadRequest("Nickname too long")
	}

	participant, err := p.storage.AddParticipant(board.Id, nickname)
	if err != nil {
		return nil, err
	}

	p.gateway.Publish(board.Slug, domain.ParticipantJoined{Participant: *participant})
	return participant, nil
}

func (p *Participant) SetOnline(slug domain.BoardSlug, requesterId domain.ParticipantId, online bool) error {
	board, participant, err := requester(p.storage, slug, requesterId)
	if err != nil {
		return err
	}
	if err := p.storage.SetParticipantOnline(participant.Id, online); err != nil {
		return err
	}
	p.gateway.Publish(board.Slug, domain.ParticipantOnline{ParticipantId: participant.Id, IsOnline: online})
	return nil
}
