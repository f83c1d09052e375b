package pg

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/retroloop-dev/retroloop/internal/domain"
	internal_errors "github.com/retroloop-dev/retroloop/internal/errors"

	_ "github.com/lib/pq"
)

// AddParticipant inserts a participant, making the first joiner the
// facilitator. The board row is locked so two concurrent first joins
// can't both claim facilitation; the partial unique index on
// participants(board_id) WHERE is_facilitator backs this up.
func (s *Storage) AddParticipant(boardId domain.BoardId, nickname domain.Nickname) (*domain.Participant, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var id domain.BoardId
	err = tx.QueryRow(`SELECT id FROM boards WHERE id = $1 FOR UPDATE`, boardId).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal_errors.NotFound("Board not found")
		}
		return nil, err
	}

	participant := domain.Participant{BoardId: boardId, Nickname: nickname, IsOnline: true}
	err = tx.QueryRow(`
	INSERT INTO participants(board_id, nickname, is_facilitator, is_online)
	VALUES($1, $2, NOT EXISTS(SELECT 1 FROM participants WHERE board_id = $1), TRUE)
	RETURNING id, is_facilitator, created`,
		boardId, nickname).Scan(&participant.Id, &participant.IsFacilitator, &participant.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &participant, nil
}

func (s *Storage) GetParticipant(id domain.ParticipantId) (*domain.Participant, error) {
	var participant domain.Participant
	err := s.db.QueryRow(`
	SELECT id, board_id, nickname, is_facilitator, is_online, created
	FROM participants
	WHERE id = $1`, id).Scan(
		&participant.Id, &participant.BoardId, &participant.Nickname,
		&participant.IsFacilitator, &participant.IsOnline, &participant.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal_errors.NotFound("Participant not found")
		}
		return nil, err
	}
	return &participant, nil
}

func (s *Storage) ListParticipants(boardId domain.BoardId) ([]domain.Participant, error) {
	rows, err := s.db.Query(`
	SELECT id, board_id, nickname, is_facilitator, is_online, created
	FROM participants
	WHERE board_id = $1
	ORDER BY created, id`, boardId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []domain.Participant
	for rows.Next() {
		var participant domain.Participant
		err = rows.Scan(&participant.Id, &participant.BoardId, &participant.Nickname,
			&participant.IsFacilitator, &participant.IsOnline, &participant.CreatedAt)
		if err != nil {
			return nil, err
		}
		participants = append(participants, participant)
	}
	return participants, rows.Err()
}

func (s *Storage) SetParticipantOnline(id domain.ParticipantId, online bool) error {
	result, err := s.db.Exec(`UPDATE participants SET is_online = $1 WHERE id = $2`, online, id)
	if err != nil {
		return err
	}
	updated, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if updated == 0 {
		return internal_errors.NotFound("Participant not found")
	}
	return nil
}
