package pg

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/retroloop-dev/retroloop/internal/domain"
	internal_errors "github.com/retroloop-dev/retroloop/internal/errors"

	_ "github.com/lib/pq"
)

// AddVote inserts the vote after re-checking uniqueness and the quota
// inside one transaction. The participant row is locked so two
// concurrent votes from the same participant can't both pass the quota
// check against a stale count.
func (s *Storage) AddVote(boardId domain.BoardId, cardId domain.CardId, participantId domain.ParticipantId, maxVotes int) (tally int, err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback() // The rollback will be ignored if the tx has been committed later in the function.

	var id domain.ParticipantId
	err = tx.QueryRow(`SELECT id FROM participants WHERE id = $1 FOR UPDATE`, participantId).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, internal_errors.NotFound("Participant not found")
		}
		return 0, err
	}

	var exists bool
	err = tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM votes WHERE card_id = $1 AND participant_id = $2)`, cardId, participantId).Scan(&exists)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, internal_errors.Conflict("Already voted on this card")
	}

	var used int
	err = tx.QueryRow(`
	SELECT count(*) FROM votes v
	JOIN cards c ON c.id = v.card_id
	WHERE c.board_id = $1 AND v.participant_id = $2`, boardId, participantId).Scan(&used)
	if err != nil {
		return 0, err
	}
	if used >= maxVotes {
		return 0, internal_errors.BadRequest("Vote quota exhausted")
	}

	_, err = tx.Exec(`INSERT INTO votes(card_id, participant_id) VALUES($1, $2)`, cardId, participantId)
	if err != nil {
		return 0, err
	}

	err = tx.QueryRow(`SELECT count(*) FROM votes WHERE card_id = $1`, cardId).Scan(&tally)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return tally, nil
}

func (s *Storage) RemoveVote(cardId domain.CardId, participantId domain.ParticipantId) (tally int, err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`DELETE FROM votes WHERE card_id = $1 AND participant_id = $2`, cardId, participantId)
	if err != nil {
		return 0, err
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	if deleted == 0 {
		return 0, internal_errors.NotFound("Vote not found")
	}

	err = tx.QueryRow(`SELECT count(*) FROM votes WHERE card_id = $1`, cardId).Scan(&tally)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return tally, nil
}

// CountVotesByParticipant counts the participant's votes across every
// card of one board. Remaining quota is recomputed from this on demand
// rather than cached.
func (s *Storage) CountVotesByParticipant(boardId domain.BoardId, participantId domain.ParticipantId) (int, error) {
	var used int
	err := s.db.QueryRow(`
	SELECT count(*) FROM votes v
	JOIN cards c ON c.id = v.card_id
	WHERE c.board_id = $1 AND v.participant_id = $2`, boardId, participantId).Scan(&used)
	return used, err
}
