package domain

import (
	"time"
)

// to iterate thru layers: handler -> service -> storage
type BoardCreationData struct {
	Title             string
	TeamLabel         string
	Framework         string
	MaxVotesPerPerson int
	IsAnonymous       bool
	IsPrivateWriting  bool
	EnableIcebreaker  bool
}

type Board struct {
	Id                BoardId    `json:"id"`
	Slug              BoardSlug  `json:"slug"`
	Title             string     `json:"title"`
	TeamLabel         string     `json:"teamLabel,omitempty"`
	Framework         string     `json:"framework"`
	Phase             Phase      `json:"phase"`
	MaxVotesPerPerson int        `json:"maxVotesPerPerson"`
	IsAnonymous       bool       `json:"isAnonymous"`
	IsPrivateWriting  bool       `json:"isPrivateWriting"`
	EnableIcebreaker  bool       `json:"enableIcebreaker"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
	ClosedAt          *time.Time `json:"closedAt,omitempty"`
}

// Column templates are fixed at board creation and immutable after.
type Column struct {
	Id        ColumnId `json:"id"`
	BoardId   BoardId  `json:"boardId"`
	Name      string   `json:"name"`
	SortOrder int      `json:"sortOrder"`
	Color     string   `json:"color"`
}

type Participant struct {
	Id            ParticipantId `json:"id"`
	BoardId       BoardId       `json:"boardId"`
	Nickname      Nickname      `json:"nickname"`
	IsFacilitator bool          `json:"isFacilitator"`
	IsOnline      bool          `json:"isOnline"`
	CreatedAt     time.Time     `json:"createdAt"`
}
