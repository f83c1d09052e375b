package domain

import (
	"time"
)

type Card struct {
	Id              CardId        `json:"id"`
	BoardId         BoardId       `json:"boardId"`
	ColumnId        ColumnId      `json:"columnId"`
	AuthorId        ParticipantId `json:"authorId,omitempty"`
	AuthorNickname  Nickname      `json:"authorNickname"`
	Content         string        `json:"content"`
	SortOrder       int           `json:"sortOrder"`
	IsDiscussed     bool          `json:"isDiscussed"`
	DiscussionOrder *int          `json:"discussionOrder,omitempty"`
	Votes           int           `json:"votes"` // tally, always derived from the votes table
	Memos           []Memo        `json:"memos,omitempty"`
	Reactions       []Reaction    `json:"reactions,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// Vote is a (card, participant) pair, unique per combination.
type Vote struct {
	CardId        CardId        `json:"cardId"`
	ParticipantId ParticipantId `json:"participantId"`
	CreatedAt     time.Time     `json:"createdAt"`
}

type Memo struct {
	Id        MemoId        `json:"id"`
	CardId    CardId        `json:"cardId"`
	AuthorId  ParticipantId `json:"authorId"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// Reaction is a (card, participant, emoji) triple, unique per combination.
type Reaction struct {
	CardId        CardId        `json:"cardId"`
	ParticipantId ParticipantId `json:"participantId"`
	Emoji         Emoji         `json:"emoji"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// allowedEmojis is the fixed reaction allow-list.
var allowedEmojis = map[Emoji]struct{}{
	"👍": {},
	"❤️": {},
	"😂": {},
	"🎉": {},
	"😮": {},
	"🙏": {},
}

func EmojiAllowed(e Emoji) bool {
	_, ok := allowedEmojis[e]
	return ok
}
