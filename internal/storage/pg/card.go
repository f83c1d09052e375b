package pg

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/retroloop-dev/retroloop/internal/domain"
	internal_errors "github.com/retroloop-dev/retroloop/internal/errors"

	_ "github.com/lib/pq"
)

// CreateCard appends the card to the end of its column: the new
// sort_order is the current column size, computed inside the insert
// transaction so concurrent creates can't collide.
func (s *Storage) CreateCard(boardId domain.BoardId, columnId domain.ColumnId, authorId domain.ParticipantId, content string) (*domain.Card, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() // The rollback will be ignored if the tx has been committed later in the function.

	card := domain.Card{BoardId: boardId, ColumnId: columnId, AuthorId: authorId, Content: content}
	err = tx.QueryRow(`
	INSERT INTO cards(board_id, column_id, author_id, content, sort_order)
	VALUES($1, $2, $3, $4, (SELECT count(*) FROM cards WHERE column_id = $2))
	RETURNING id, sort_order, created, updated`,
		boardId, columnId, authorId, content).Scan(&card.Id, &card.SortOrder, &card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		return nil, err
	}

	err = tx.QueryRow(`SELECT nickname FROM participants WHERE id = $1`, authorId).Scan(&card.AuthorNickname)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &card, nil
}

func (s *Storage) GetCard(id domain.CardId) (*domain.Card, error) {
	var card domain.Card
	err := s.db.QueryRow(`
	SELECT c.id, c.board_id, c.column_id, c.author_id, p.nickname, c.content, c.sort_order,
		c.is_discussed, c.discussion_order, c.created, c.updated,
		(SELECT count(*) FROM votes v WHERE v.card_id = c.id) AS votes
	FROM cards c
	JOIN participants p ON p.id = c.author_id
	WHERE c.id = $1`, id).Scan(
		&card.Id, &card.BoardId, &card.ColumnId, &card.AuthorId, &card.AuthorNickname, &card.Content,
		&card.SortOrder, &card.IsDiscussed, &card.DiscussionOrder, &card.CreatedAt, &card.UpdatedAt, &card.Votes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal_errors.NotFound("Card not found")
		}
		return nil, err
	}
	return &card, nil
}

func (s *Storage) UpdateCardContent(id domain.CardId, content string) error {
	result, err := s.db.Exec(`
	UPDATE cards SET content = $1, updated = $2 WHERE id = $3`,
		content, time.Now().UTC().Round(time.Microsecond), id)
	if err != nil {
		return err
	}
	updated, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if updated == 0 {
		return internal_errors.NotFound("Card not found")
	}
	return nil
}

// DeleteCard removes the card (votes, memos and reactions cascade) and
// closes the sort_order gap it leaves in its column.
func (s *Storage) DeleteCard(id domain.CardId) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var columnId domain.ColumnId
	var order int
	err = tx.QueryRow(`DELETE FROM cards WHERE id = $1 RETURNING column_id, sort_order`, id).Scan(&columnId, &order)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return internal_errors.NotFound("Card not found")
		}
		return err
	}

	_, err = tx.Exec(`
	UPDATE cards SET sort_order = sort_order - 1
	WHERE column_id = $1 AND sort_order > $2`, columnId, order)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// MoveCard places the card at index in the target column. The target's
// order is rebuilt from current state (cards below index keep their
// position, the rest shift one down), so concurrent moves settle on a
// dense 0..n-1 sequence without a shared counter. A cross-column move
// also recompacts the source column.
func (s *Storage) MoveCard(id domain.CardId, targetColumnId domain.ColumnId, index int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var sourceColumnId domain.ColumnId
	var sourceOrder int
	err = tx.QueryRow(`SELECT column_id, sort_order FROM cards WHERE id = $1 FOR UPDATE`, id).Scan(&sourceColumnId, &sourceOrder)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return internal_errors.NotFound("Card not found")
		}
		return err
	}

	rows, err := tx.Query(`
	SELECT id, sort_order FROM cards
	WHERE column_id = $1 AND id != $2
	ORDER BY sort_order
	FOR UPDATE`, targetColumnId, id)
	if err != nil {
		return err
	}
	type cardOrder struct {
		id    domain.CardId
		order int
	}
	var target []cardOrder
	for rows.Next() {
		var c cardOrder
		if err := rows.Scan(&c.id, &c.order); err != nil {
			rows.Close()
			return err
		}
		target = append(target, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	if index < 0 || index > len(target) {
		return internal_errors.BadRequest("Card index out of range")
	}

	// Persist only the rows whose order actually changed.
	for i, c := range target {
		newOrder := i
		if i >= index {
			newOrder = i + 1
		}
		if newOrder == c.order {
			continue
		}
		if _, err := tx.Exec(`UPDATE cards SET sort_order = $1 WHERE id = $2`, newOrder, c.id); err != nil {
			return err
		}
	}

	_, err = tx.Exec(`
	UPDATE cards SET column_id = $1, sort_order = $2, updated = $3 WHERE id = $4`,
		targetColumnId, index, time.Now().UTC().Round(time.Microsecond), id)
	if err != nil {
		return err
	}

	if sourceColumnId != targetColumnId {
		_, err = tx.Exec(`
		UPDATE cards SET sort_order = sort_order - 1
		WHERE column_id = $1 AND sort_order > $2`, sourceColumnId, sourceOrder)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// MarkCardDiscussed stamps the next discussion_order on the card.
// Marking an already-discussed card keeps its original order.
func (s *Storage) MarkCardDiscussed(id domain.CardId) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var boardId domain.BoardId
	var discussed bool
	var order sql.NullInt64
	err = tx.QueryRow(`SELECT board_id, is_discussed, discussion_order FROM cards WHERE id = $1 FOR UPDATE`, id).
		Scan(&boardId, &discussed, &order)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, internal_errors.NotFound("Card not found")
		}
		return 0, err
	}
	if discussed && order.Valid {
		return int(order.Int64), tx.Commit()
	}

	var next int
	err = tx.QueryRow(`
	SELECT COALESCE(MAX(discussion_order), -1) + 1 FROM cards WHERE board_id = $1`, boardId).Scan(&next)
	if err != nil {
		return 0, err
	}

	_, err = tx.Exec(`
	UPDATE cards SET is_discussed = TRUE, discussion_order = $1, updated = $2 WHERE id = $3`,
		next, time.Now().UTC().Round(time.Microsecond), id)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return next, nil
}
