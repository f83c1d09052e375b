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

func (s *Storage) CreateActionItem(data domain.ActionItemCreationData) (*domain.ActionItem, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	item := domain.ActionItem{
		BoardId:    data.BoardId,
		CreatorId:  data.CreatorId,
		CardId:     data.CardId,
		AssigneeId: data.AssigneeId,
		Content:    data.Content,
		Status:     domain.ActionItemOpen,
		DueDate:    data.DueDate,
	}
	err = tx.QueryRow(`
	INSERT INTO action_items(board_id, creator_id, card_id, assignee_id, content, status, due_date, sort_order)
	VALUES($1, $2, $3, $4, $5, $6, $7, (SELECT count(*) FROM action_items WHERE board_id = $1))
	RETURNING id, sort_order, created, updated`,
		item.BoardId, item.CreatorId, item.CardId, item.AssigneeId, item.Content, item.Status, item.DueDate,
	).Scan(&item.Id, &item.SortOrder, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if item.AssigneeId != nil {
		err = tx.QueryRow(`SELECT nickname FROM participants WHERE id = $1`, *item.AssigneeId).Scan(&item.AssigneeNickname)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, internal_errors.NotFound("Assignee not found")
			}
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &item, nil
}

func (s *Storage) GetActionItem(id domain.ActionItemId) (*domain.ActionItem, error) {
	var item domain.ActionItem
	var nickname sql.NullString
	err := s.db.QueryRow(`
	SELECT a.id, a.board_id, a.creator_id, a.card_id, a.assignee_id, p.nickname, a.content, a.status, a.due_date, a.sort_order, a.created, a.updated
	FROM action_items a
	LEFT JOIN participants p ON p.id = a.assignee_id
	WHERE a.id = $1`, id).Scan(
		&item.Id, &item.BoardId, &item.CreatorId, &item.CardId, &item.AssigneeId, &nickname, &item.Content,
		&item.Status, &item.DueDate, &item.SortOrder, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal_errors.NotFound("Action item not found")
		}
		return nil, err
	}
	item.AssigneeNickname = nickname.String
	return &item, nil
}

func (s *Storage) UpdateActionItem(id domain.ActionItemId, update domain.ActionItemUpdate) (*domain.ActionItem, error) {
	result, err := s.db.Exec(`
	UPDATE action_items SET
		content = COALESCE($1, content),
		assignee_id = COALESCE($2, assignee_id),
		due_date = COALESCE($3, due_date),
		updated = $4
	WHERE id = $5`,
		update.Content, update.AssigneeId, update.DueDate, time.Now().UTC().Round(time.Microsecond), id)
	if err != nil {
		return nil, err
	}
	updated, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if updated == 0 {
		return nil, internal_errors.NotFound("Action item not found")
	}
	return s.GetActionItem(id)
}

func (s *Storage) UpdateActionItemStatus(id domain.ActionItemId, status domain.ActionItemStatus) error {
	result, err := s.db.Exec(`
	UPDATE action_items SET status = $1, updated = $2 WHERE id = $3`,
		status, time.Now().UTC().Round(time.Microsecond), id)
	if err != nil {
		return err
	}
	updated, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if updated == 0 {
		return internal_errors.NotFound("Action item not found")
	}
	return nil
}

func (s *Storage) DeleteActionItem(id domain.ActionItemId) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var boardId domain.BoardId
	var order int
	err = tx.QueryRow(`DELETE FROM action_items WHERE id = $1 RETURNING board_id, sort_order`, id).Scan(&boardId, &order)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return internal_errors.NotFound("Action item not found")
		}
		return err
	}

	_, err = tx.Exec(`
	UPDATE action_items SET sort_order = sort_order - 1
	WHERE board_id = $1 AND sort_order > $2`, boardId, order)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Storage) ListActionItems(boardId domain.BoardId) ([]domain.ActionItem, error) {
	return s.queryActionItems(`
	SELECT a.id, a.board_id, a.creator_id, a.card_id, a.assignee_id, p.nickname, a.content, a.status, a.due_date, a.sort_order, a.created, a.updated
	FROM action_items a
	LEFT JOIN participants p ON p.id = a.assignee_id
	WHERE a.board_id = $1
	ORDER BY a.sort_order`, boardId)
}

// GetUnfinishedActionItems returns OPEN and IN_PROGRESS items; DONE
// items never carry over.
func (s *Storage) GetUnfinishedActionItems(boardId domain.BoardId) ([]domain.ActionItem, error) {
	return s.queryActionItems(`
	SELECT a.id, a.board_id, a.creator_id, a.card_id, a.assignee_id, p.nickname, a.content, a.status, a.due_date, a.sort_order, a.created, a.updated
	FROM action_items a
	LEFT JOIN participants p ON p.id = a.assignee_id
	WHERE a.board_id = $1 AND a.status != $2
	ORDER BY a.sort_order`, boardId, domain.ActionItemDone)
}

func (s *Storage) queryActionItems(query string, args ...any) ([]domain.ActionItem, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.ActionItem
	for rows.Next() {
		var item domain.ActionItem
		var nickname sql.NullString
		err = rows.Scan(&item.Id, &item.BoardId, &item.CreatorId, &item.CardId, &item.AssigneeId, &nickname, &item.Content,
			&item.Status, &item.DueDate, &item.SortOrder, &item.CreatedAt, &item.UpdatedAt)
		if err != nil {
			return nil, err
		}
		item.AssigneeNickname = nickname.String
		items = append(items, item)
	}
	return items, rows.Err()
}
