package pg

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	internal_errors "github.com/retroloop-dev/retroloop/internal/errors"
	"github.com/retroloop-dev/retroloop/internal/domain"

	_ "github.com/lib/pq"
)

func (s *Storage) CreateBoard(data domain.BoardCreationData, slug domain.BoardSlug, columns []domain.ColumnTemplate) (*domain.Board, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() // The rollback will be ignored if the tx has been committed later in the function.

	board := domain.Board{
		Slug:              slug,
		Title:             data.Title,
		TeamLabel:         data.TeamLabel,
		Framework:         data.Framework,
		Phase:             domain.InitialPhase(data.EnableIcebreaker),
		MaxVotesPerPerson: data.MaxVotesPerPerson,
		IsAnonymous:       data.IsAnonymous,
		IsPrivateWriting:  data.IsPrivateWriting,
		EnableIcebreaker:  data.EnableIcebreaker,
	}
	err = tx.QueryRow(`
	INSERT INTO boards(slug, title, team_label, framework, phase, max_votes_per_person, is_anonymous, is_private_writing, enable_icebreaker)
	VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING id, created, updated`,
		board.Slug, board.Title, board.TeamLabel, board.Framework, board.Phase, board.MaxVotesPerPerson,
		board.IsAnonymous, board.IsPrivateWriting, board.EnableIcebreaker,
	).Scan(&board.Id, &board.CreatedAt, &board.UpdatedAt)
	if err != nil {
		return nil, err
	}

	for i, column := range columns {
		_, err = tx.Exec(`
		INSERT INTO columns(board_id, name, sort_order, color)
		VALUES($1, $2, $3, $4)`, board.Id, column.Name, i, column.Color)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &board, nil
}

func (s *Storage) GetBoard(slug domain.BoardSlug) (*domain.Board, error) {
	var board domain.Board
	err := s.db.QueryRow(`
	SELECT id, slug, title, team_label, framework, phase, max_votes_per_person, is_anonymous, is_private_writing, enable_icebreaker, created, updated, closed
	FROM boards
	WHERE slug = $1`, slug).Scan(
		&board.Id, &board.Slug, &board.Title, &board.TeamLabel, &board.Framework, &board.Phase,
		&board.MaxVotesPerPerson, &board.IsAnonymous, &board.IsPrivateWriting, &board.EnableIcebreaker,
		&board.CreatedAt, &board.UpdatedAt, &board.ClosedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal_errors.NotFound("Board not found")
		}
		return nil, err
	}
	return &board, nil
}

func (s *Storage) GetColumns(boardId domain.BoardId) ([]domain.Column, error) {
	rows, err := s.db.Query(`
	SELECT id, board_id, name, sort_order, color
	FROM columns
	WHERE board_id = $1
	ORDER BY sort_order`, boardId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []domain.Column
	for rows.Next() {
		var column domain.Column
		if err := rows.Scan(&column.Id, &column.BoardId, &column.Name, &column.SortOrder, &column.Color); err != nil {
			return nil, err
		}
		columns = append(columns, column)
	}
	return columns, rows.Err()
}

func (s *Storage) GetColumn(id domain.ColumnId) (*domain.Column, error) {
	var column domain.Column
	err := s.db.QueryRow(`
	SELECT id, board_id, name, sort_order, color
	FROM columns
	WHERE id = $1`, id).Scan(&column.Id, &column.BoardId, &column.Name, &column.SortOrder, &column.Color)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal_errors.NotFound("Column not found")
		}
		return nil, err
	}
	return &column, nil
}

// UpdateBoardPhase sets the new phase atomically with updated. Closing
// additionally stamps closed and captures the history snapshot in the
// same transaction, so a CLOSED board always has its snapshot row.
func (s *Storage) UpdateBoardPhase(boardId domain.BoardId, phase domain.Phase) (*time.Time, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Round(time.Microsecond)
	closing := phase == domain.PhaseClosed
	var closed *time.Time
	if closing {
		closed = &now
	}
	result, err := tx.Exec(`
	UPDATE boards
	SET phase = $1, updated = $2, closed = COALESCE($3, closed)
	WHERE id = $4`, phase, now, closed, boardId)
	if err != nil {
		return nil, err
	}
	updated, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if updated == 0 {
		return nil, internal_errors.NotFound("Board not found")
	}

	if closing {
		// Snapshot consumed by the (externally owned) history dashboard.
		_, err = tx.Exec(`
		INSERT INTO board_snapshots(board_id, payload)
		SELECT b.id, jsonb_build_object(
			'slug', b.slug,
			'title', b.title,
			'teamLabel', b.team_label,
			'framework', b.framework,
			'closedAt', b.closed,
			'participantCount', (SELECT count(*) FROM participants p WHERE p.board_id = b.id),
			'cardCount', (SELECT count(*) FROM cards c WHERE c.board_id = b.id),
			'voteCount', (SELECT count(*) FROM votes v JOIN cards c ON c.id = v.card_id WHERE c.board_id = b.id),
			'actionItemCount', (SELECT count(*) FROM action_items a WHERE a.board_id = b.id)
		)
		FROM boards b
		WHERE b.id = $1`, boardId)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return closed, nil
}

// FindLatestClosedBoardByTeam returns the most recently closed board
// with the exact team label, excluding excludeId. Absence is not an
// error: (nil, nil) means no prior board.
func (s *Storage) FindLatestClosedBoardByTeam(teamLabel string, excludeId domain.BoardId) (*domain.Board, error) {
	var board domain.Board
	err := s.db.QueryRow(`
	SELECT id, slug, title, team_label, framework, phase, max_votes_per_person, is_anonymous, is_private_writing, enable_icebreaker, created, updated, closed
	FROM boards
	WHERE team_label = $1 AND phase = $2 AND id != $3 AND closed IS NOT NULL
	ORDER BY closed DESC
	LIMIT 1`, teamLabel, domain.PhaseClosed, excludeId).Scan(
		&board.Id, &board.Slug, &board.Title, &board.TeamLabel, &board.Framework, &board.Phase,
		&board.MaxVotesPerPerson, &board.IsAnonymous, &board.IsPrivateWriting, &board.EnableIcebreaker,
		&board.CreatedAt, &board.UpdatedAt, &board.ClosedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &board, nil
}
