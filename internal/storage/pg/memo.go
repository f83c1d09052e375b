package pg

import (
	"database/sql"
	"errors"
	"time"

	"github.com/retroloop-dev/retroloop/internal/domain"
	internal_errors "github.com/retroloop-dev/retroloop/internal/errors"

	_ "github.com/lib/pq"
)

func (s *Storage) CreateMemo(cardId domain.CardId, authorId domain.ParticipantId, content string) (*domain.Memo, error) {
	memo := domain.Memo{CardId: cardId, AuthorId: authorId, Content: content}
	err := s.db.QueryRow(`
	INSERT INTO memos(card_id, author_id, content)
	VALUES($1, $2, $3)
	RETURNING id, created, updated`, cardId, authorId, content).Scan(&memo.Id, &memo.CreatedAt, &memo.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &memo, nil
}

func (s *Storage) GetMemo(id domain.MemoId) (*domain.Memo, error) {
	var memo domain.Memo
	err := s.db.QueryRow(`
	SELECT id, card_id, author_id, content, created, updated
	FROM memos
	WHERE id = $1`, id).Scan(&memo.Id, &memo.CardId, &memo.AuthorId, &memo.Content, &memo.CreatedAt, &memo.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal_errors.NotFound("Memo not found")
		}
		return nil, err
	}
	return &memo, nil
}

func (s *Storage) UpdateMemo(id domain.MemoId, content string) (*domain.Memo, error) {
	var memo domain.Memo
	err := s.db.QueryRow(`
	UPDATE memos SET content = $1, updated = $2
	WHERE id = $3
	RETURNING id, card_id, author_id, content, created, updated`,
		content, time.Now().UTC().Round(time.Microsecond), id).Scan(
		&memo.Id, &memo.CardId, &memo.AuthorId, &memo.Content, &memo.CreatedAt, &memo.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal_errors.NotFound("Memo not found")
		}
		return nil, err
	}
	return &memo, nil
}

func (s *Storage) DeleteMemo(id domain.MemoId) error {
	result, err := s.db.Exec(`DELETE FROM memos WHERE id = $1`, id)
	if err != nil {
		return err
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return internal_errors.NotFound("Memo not found")
	}
	return nil
}
