package domain

// Event is the closed set of domain events a use case can emit. The
// broadcast gateway wraps them in an envelope and fans them out to the
// board's channel; delivery is best-effort and never blocks a mutation.
type Event interface {
	EventType() string
}

type CardCreated struct {
	Card Card `json:"card"`
}

type CardUpdated struct {
	Card Card `json:"card"`
}

type CardDeleted struct {
	CardId   CardId   `json:"cardId"`
	ColumnId ColumnId `json:"columnId"`
}

type CardMoved struct {
	CardId       CardId   `json:"cardId"`
	FromColumnId ColumnId `json:"fromColumnId"`
	ToColumnId   ColumnId `json:"toColumnId"`
	Index        int      `json:"index"`
}

type CardDiscussed struct {
	CardId          CardId `json:"cardId"`
	DiscussionOrder int    `json:"discussionOrder"`
}

type VoteAdded struct {
	CardId CardId `json:"cardId"`
	Votes  int    `json:"votes"`
}

type VoteRemoved struct {
	CardId CardId `json:"cardId"`
	Votes  int    `json:"votes"`
}

type MemoAdded struct {
	Memo Memo `json:"memo"`
}

type MemoUpdated struct {
	Memo Memo `json:"memo"`
}

type MemoDeleted struct {
	MemoId MemoId `json:"memoId"`
	CardId CardId `json:"cardId"`
}

type ReactionAdded struct {
	Reaction Reaction `json:"reaction"`
}

type ReactionRemoved struct {
	CardId        CardId        `json:"cardId"`
	ParticipantId ParticipantId `json:"participantId"`
	Emoji         Emoji         `json:"emoji"`
}

type PhaseChanged struct {
	Phase Phase `json:"phase"`
}

type TimerUpdate struct {
	Timer TimerState `json:"timer"`
}

type ParticipantJoined struct {
	Participant Participant `json:"participant"`
}

type ParticipantOnline struct {
	ParticipantId ParticipantId `json:"participantId"`
	IsOnline      bool          `json:"isOnline"`
}

type ActionItemCreated struct {
	Item ActionItem `json:"item"`
}

type ActionItemUpdated struct {
	Item ActionItem `json:"item"`
}

type ActionItemDeleted struct {
	ItemId ActionItemId `json:"itemId"`
}

type ActionItemStatusChanged struct {
	ItemId ActionItemId     `json:"itemId"`
	Status ActionItemStatus `json:"status"`
}

func (CardCreated) EventType() string             { return "CardCreated" }
func (CardUpdated) EventType() string             { return "CardUpdated" }
func (CardDeleted) EventType() string             { return "CardDeleted" }
func (CardMoved) EventType() string               { return "CardMoved" }
func (CardDiscussed) EventType() string           { return "CardDiscussed" }
func (VoteAdded) EventType() string               { return "VoteAdded" }
func (VoteRemoved) EventType() string             { return "VoteRemoved" }
func (MemoAdded) EventType() string               { return "MemoAdded" }
func (MemoUpdated) EventType() string             { return "MemoUpdated" }
func (MemoDeleted) EventType() string             { return "MemoDeleted" }
func (ReactionAdded) EventType() string           { return "ReactionAdded" }
func (ReactionRemoved) EventType() string         { return "ReactionRemoved" }
func (PhaseChanged) EventType() string            { return "PhaseChanged" }
func (TimerUpdate) EventType() string             { return "TimerUpdate" }
func (ParticipantJoined) EventType() string       { return "ParticipantJoined" }
func (ParticipantOnline) EventType() string       { return "ParticipantOnline" }
func (ActionItemCreated) EventType() string       { return "ActionItemCreated" }
func (ActionItemUpdated) EventType() string       { return "ActionItemUpdated" }
func (ActionItemDeleted) EventType() string       { return "ActionItemDeleted" }
func (ActionItemStatusChanged) EventType() string { return "ActionItemStatusChanged" }
