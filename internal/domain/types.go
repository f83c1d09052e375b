package domain

type (
	BoardId       = int64
	BoardSlug     = string
	ColumnId      = int64
	CardId        = int64
	ParticipantId = int64
	MemoId        = int64
	ActionItemId  = int64

	Nickname = string
	Emoji    = string
)

// Card content bounds, enforced before any persistence.
const (
	CardContentMinLen = 1
	CardContentMaxLen = 2000
)
