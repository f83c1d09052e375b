package api

import (
	"time"

	"github.com/retroloop-dev/retroloop/internal/domain"
)

// Request DTOs decoded and validated at the handler boundary

type CreateBoardRequest struct {
	Title             string `json:"title" validate:"required"`
	TeamLabel         string `json:"teamLabel,omitempty"`
	Framework         string `json:"framework" validate:"required"`
	MaxVotesPerPerson int    `json:"maxVotesPerPerson,omitempty"`
	IsAnonymous       bool   `json:"isAnonymous,omitempty"`
	IsPrivateWriting  bool   `json:"isPrivateWriting,omitempty"`
	EnableIcebreaker  bool   `json:"enableIcebreaker,omitempty"`
}

type JoinBoardRequest struct {
	Nickname string `json:"nickname" validate:"required"`
}

// Online is a pointer so that false survives the required check.
type PresenceRequest struct {
	Online *bool `json:"online" validate:"required"`
}

type AdvancePhaseRequest struct {
	Target string `json:"target" validate:"required"`
}

type CreateCardRequest struct {
	ColumnId domain.ColumnId `json:"columnId" validate:"required"`
	Content  string          `json:"content" validate:"required"`
}

type UpdateCardRequest struct {
	Content string `json:"content" validate:"required"`
}

// Index is a pointer so that 0 survives the required check.
type MoveCardRequest struct {
	ColumnId domain.ColumnId `json:"columnId" validate:"required"`
	Index    *int            `json:"index" validate:"required"`
}

type CreateMemoRequest struct {
	Content string `json:"content" validate:"required"`
}

type UpdateMemoRequest struct {
	Content string `json:"content" validate:"required"`
}

type CreateActionItemRequest struct {
	Content    string                `json:"content" validate:"required"`
	CardId     *domain.CardId        `json:"cardId,omitempty"`
	AssigneeId *domain.ParticipantId `json:"assigneeId,omitempty"`
	DueDate    *time.Time            `json:"dueDate,omitempty"`
}

type UpdateActionItemRequest struct {
	Content    *string               `json:"content,omitempty"`
	AssigneeId *domain.ParticipantId `json:"assigneeId,omitempty"`
	DueDate    *time.Time            `json:"dueDate,omitempty"`
}

type ChangeActionItemStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type StartTimerRequest struct {
	Seconds int `json:"seconds" validate:"required,min=1"`
}

// Response DTOs

// ColumnView is a column with its visible cards. When private writing
// hides other authors' cards, HiddenCardCount carries how many were
// omitted.
type ColumnView struct {
	domain.Column
	Cards           []domain.Card `json:"cards"`
	HiddenCardCount int           `json:"hiddenCardCount"`
}

type BoardResponse struct {
	Board          domain.Board         `json:"board"`
	Columns        []ColumnView         `json:"columns"`
	Participants   []domain.Participant `json:"participants"`
	ActionItems    []domain.ActionItem  `json:"actionItems"`
	Timer          domain.TimerState    `json:"timer"`
	VotesRemaining *int                 `json:"votesRemaining,omitempty"` // requester's, only when authenticated
}

type CreateBoardResponse struct {
	Board     domain.Board           `json:"board"`
	CarryOver []domain.CarryOverItem `json:"carryOver"`
}

type JoinBoardResponse struct {
	Participant domain.Participant `json:"participant"`
}

type CarryOverResponse struct {
	Items []domain.CarryOverItem `json:"items"`
}

type VoteResponse struct {
	CardId         domain.CardId `json:"cardId"`
	Votes          int           `json:"votes"`
	VotesRemaining int           `json:"votesRemaining"`
}

type TimerResponse struct {
	Timer domain.TimerState `json:"timer"`
}
