package pg

import (
	"errors"

	"github.com/lib/pq"
	"github.com/retroloop-dev/retroloop/internal/domain"
	internal_errors "github.com/retroloop-dev/retroloop/internal/errors"
)

const uniqueViolation = "23505"

func (s *Storage) AddReaction(cardId domain.CardId, participantId domain.ParticipantId, emoji domain.Emoji) (*domain.Reaction, error) {
	reaction := domain.Reaction{CardId: cardId, ParticipantId: participantId, Emoji: emoji}
	err := s.db.QueryRow(`
	INSERT INTO reactions(card_id, participant_id, emoji)
	VALUES($1, $2, $3)
	RETURNING created`, cardId, participantId, emoji).Scan(&reaction.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, internal_errors.Conflict("Already reacted with this emoji")
		}
		return nil, err
	}
	return &reaction, nil
}

func (s *Storage) RemoveReaction(cardId domain.CardId, participantId domain.ParticipantId, emoji domain.Emoji) error {
	result, err := s.db.Exec(`
	DELETE FROM reactions WHERE card_id = $1 AND participant_id = $2 AND emoji = $3`,
		cardId, participantId, emoji)
	if err != nil {
		return err
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return internal_errors.NotFound("Reaction not found")
	}
	return nil
}
