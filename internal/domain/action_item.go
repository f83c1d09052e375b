package domain

import (
	"time"
)

type ActionItemStatus string

const (
	ActionItemOpen       ActionItemStatus = "OPEN"
	ActionItemInProgress ActionItemStatus = "IN_PROGRESS"
	ActionItemDone       ActionItemStatus = "DONE"
)

func (s ActionItemStatus) Valid() bool {
	switch s {
	case ActionItemOpen, ActionItemInProgress, ActionItemDone:
		return true
	}
	return false
}

type ActionItem struct {
	Id               ActionItemId     `json:"id"`
	BoardId          BoardId          `json:"boardId"`
	CreatorId        ParticipantId    `json:"creatorId"`
	CardId           *CardId          `json:"cardId,omitempty"`
	AssigneeId       *ParticipantId   `json:"assigneeId,omitempty"`
	AssigneeNickname Nickname         `json:"assigneeNickname,omitempty"` // empty when unassigned
	Content          string           `json:"content"`
	Status           ActionItemStatus `json:"status"`
	DueDate          *time.Time       `json:"dueDate,omitempty"`
	SortOrder        int              `json:"sortOrder"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

type ActionItemCreationData struct {
	BoardId    BoardId
	CreatorId  ParticipantId
	CardId     *CardId
	AssigneeId *ParticipantId
	Content    string
	DueDate    *time.Time
}

// ActionItemUpdate carries the mutable fields; nil means keep.
type ActionItemUpdate struct {
	Content    *string
	AssigneeId *ParticipantId
	DueDate    *time.Time
}

// CarryOverItem is an unfinished action item from the most recently
// closed board sharing the team label. The item itself is not copied;
// status changes go to the original row.
type CarryOverItem struct {
	ActionItem
	SourceBoardTitle string    `json:"sourceBoardTitle"`
	SourceBoardSlug  BoardSlug `json:"sourceBoardSlug"`
	SourceClosedAt   time.Time `json:"sourceClosedAt"`
}
