package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/retroloop-dev/retroloop/internal/domain"
	"github.com/retroloop-dev/retroloop/internal/errors"
	"github.com/retroloop-dev/retroloop/internal/utils"
)

// SessionStorage is the lookup pair every mutating use case starts
// with: the board aggregate and the requesting participant.
type SessionStorage interface {
	GetBoard(slug domain.BoardSlug) (*domain.Board, error)
	GetParticipant(id domain.ParticipantId) (*domain.Participant, error)
}

// requester resolves the board and the requesting participant,
// rejecting participants from a different board. The cross-board case
// is a BadRequest, not a NotFound, so existence doesn't leak across
// boards.
func requester(storage SessionStorage, slug domain.BoardSlug, participantId domain.ParticipantId) (*domain.Board, *domain.Participant, error) {
	board, err := storage.GetBoard(slug)
	if err != nil {
		return nil, nil, err
	}
	participant, err := storage.GetParticipant(participantId)
	if err != nil {
		return nil, nil, err
	}
	if participant.BoardId != board.Id {
		return nil, nil, errors.BadRequest("Participant does not belong to this board")
	}
	return board, participant, nil
}

// validateContent sanitizes user text and enforces the length bounds.
// Returns the cleaned content.
func validateContent(content string, what string) (string, error) {
	cleaned := utils.SanitizeContent(content)
	if strings.TrimSpace(cleaned) == "" {
		return "", errors.BadRequest(fmt.Sprintf("%s content can't be blank", what))
	}
	if utf8.RuneCountInString(cleaned) > domain.CardContentMaxLen {
		return "", errors.BadRequest(fmt.Sprintf("%s content too long (max %d characters)", what, domain.CardContentMaxLen))
	}
	return cleaned, nil
}
