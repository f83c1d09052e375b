package pg

import (
	"github.com/retroloop-dev/retroloop/internal/domain"

	_ "github.com/lib/pq"
)

// GetCards loads every card of a board fully hydrated: author
// nickname, vote tally, memos and reactions. Three queries instead of
// one join avoid a cards×memos×reactions row explosion.
func (s *Storage) GetCards(boardId domain.BoardId) ([]domain.Card, error) {
	rows, err := s.db.Query(`
	SELECT c.id, c.board_id, c.column_id, c.author_id, p.nickname, c.content, c.sort_order,
		c.is_discussed, c.discussion_order, c.created, c.updated,
		(SELECT count(*) FROM votes v WHERE v.card_id = c.id) AS votes
	FROM cards c
	JOIN participants p ON p.id = c.author_id
	WHERE c.board_id = $1
	ORDER BY c.column_id, c.sort_order`, boardId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []domain.Card
	byId := make(map[domain.CardId]int)
	for rows.Next() {
		var card domain.Card
		err = rows.Scan(&card.Id, &card.BoardId, &card.ColumnId, &card.AuthorId, &card.AuthorNickname,
			&card.Content, &card.SortOrder, &card.IsDiscussed, &card.DiscussionOrder,
			&card.CreatedAt, &card.UpdatedAt, &card.Votes)
		if err != nil {
			return nil, err
		}
		byId[card.Id] = len(cards)
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	memoRows, err := s.db.Query(`
	SELECT m.id, m.card_id, m.author_id, m.content, m.created, m.updated
	FROM memos m
	JOIN cards c ON c.id = m.card_id
	WHERE c.board_id = $1
	ORDER BY m.created, m.id`, boardId)
	if err != nil {
		return nil, err
	}
	defer memoRows.Close()
	for memoRows.Next() {
		var memo domain.Memo
		err = memoRows.Scan(&memo.Id, &memo.CardId, &memo.AuthorId, &memo.Content, &memo.CreatedAt, &memo.UpdatedAt)
		if err != nil {
			return nil, err
		}
		if i, ok := byId[memo.CardId]; ok {
			cards[i].Memos = append(cards[i].Memos, memo)
		}
	}
	if err := memoRows.Err(); err != nil {
		return nil, err
	}

	reactionRows, err := s.db.Query(`
	SELECT r.card_id, r.participant_id, r.emoji, r.created
	FROM reactions r
	JOIN cards c ON c.id = r.card_id
	WHERE c.board_id = $1
	ORDER BY r.created`, boardId)
	if err != nil {
		return nil, err
	}
	defer reactionRows.Close()
	for reactionRows.Next() {
		var reaction domain.Reaction
		err = reactionRows.Scan(&reaction.CardId, &reaction.ParticipantId, &reaction.Emoji, &reaction.CreatedAt)
		if err != nil {
			return nil, err
		}
		if i, ok := byId[reaction.CardId]; ok {
			cards[i].Reactions = append(cards[i].Reactions, reaction)
		}
	}
	return cards, reactionRows.Err()
}
