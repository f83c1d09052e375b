// Package policy is the single authorization decision table. Every
// mutating use case asks it "can participant X do action Y given phase
// P and ownership" before touching storage; nothing caches the answer.
package policy

import (
	"fmt"

	"github.com/retroloop-dev/retroloop/internal/domain"
	"github.com/retroloop-dev/retroloop/internal/errors"
)

type Action string

const (
	CreateCard       Action = "create card"
	EditOwnCard      Action = "edit card"
	DeleteCard       Action = "delete card"
	MoveCardSameCol  Action = "reorder card"
	MoveCardCrossCol Action = "move card across columns"
	Vote             Action = "vote"
	React            Action = "react"
	MarkDiscussed    Action = "mark card discussed"
	ManageMemo       Action = "manage memo"
	ManageActionItem Action = "manage action item"
	ChangeItemStatus Action = "change action item status"
	ManageTimer      Action = "manage timer"
	AdvancePhase     Action = "advance phase"
)

// Who may perform an action in a given phase. zero value = nobody.
type requirement int

const (
	nobody requirement = iota
	anyParticipant
	authorOnly
	facilitatorOnly
	authorOrFacilitator
	assigneeOrFacilitator
)

// The table mirrors the per-phase rules of the session: writing is for
// authoring, voting for votes, discussion and action items for
// facilitation work, CLOSED is read-only apart from carried-over item
// status updates.
var table = map[Action]map[domain.Phase]requirement{
	CreateCard: {
		domain.PhaseWriting: anyParticipant,
	},
	EditOwnCard: {
		domain.PhaseWriting: authorOnly,
	},
	DeleteCard: {
		domain.PhaseWriting:     authorOrFacilitator,
		domain.PhaseVoting:      facilitatorOnly,
		domain.PhaseDiscussion:  facilitatorOnly,
		domain.PhaseActionItems: facilitatorOnly,
	},
	MoveCardSameCol: {
		domain.PhaseWriting:     authorOnly,
		domain.PhaseDiscussion:  facilitatorOnly,
		domain.PhaseActionItems: facilitatorOnly,
	},
	MoveCardCrossCol: {
		domain.PhaseWriting: authorOnly,
	},
	Vote: {
		domain.PhaseVoting: anyParticipant,
	},
	React: {
		domain.PhaseIcebreak:    anyParticipant,
		domain.PhaseWriting:     anyParticipant,
		domain.PhaseVoting:      anyParticipant,
		domain.PhaseDiscussion:  anyParticipant,
		domain.PhaseActionItems: anyParticipant,
	},
	MarkDiscussed: {
		domain.PhaseDiscussion:  facilitatorOnly,
		domain.PhaseActionItems: facilitatorOnly,
	},
	ManageMemo: {
		domain.PhaseDiscussion:  authorOrFacilitator,
		domain.PhaseActionItems: authorOrFacilitator,
	},
	ManageActionItem: {
		domain.PhaseActionItems: authorOrFacilitator,
	},
	ChangeItemStatus: {
		domain.PhaseActionItems: assigneeOrFacilitator,
		// Carried-over items stay editable by the (new board's)
		// facilitator after the source board closes.
		domain.PhaseClosed: facilitatorOnly,
	},
	ManageTimer: {
		domain.PhaseIcebreak:    facilitatorOnly,
		domain.PhaseWriting:     facilitatorOnly,
		domain.PhaseVoting:      facilitatorOnly,
		domain.PhaseDiscussion:  facilitatorOnly,
		domain.PhaseActionItems: facilitatorOnly,
	},
	AdvancePhase: {
		domain.PhaseIcebreak:    facilitatorOnly,
		domain.PhaseWriting:     facilitatorOnly,
		domain.PhaseVoting:      facilitatorOnly,
		domain.PhaseDiscussion:  facilitatorOnly,
		domain.PhaseActionItems: facilitatorOnly,
	},
}

// Subject is the requester's relationship to the object being acted on.
type Subject struct {
	IsFacilitator bool
	IsAuthor      bool // author/owner of the card, memo or action item
	IsAssignee    bool // action-item assignee
}

// Check returns nil when the action is allowed, BadRequest when the
// phase forbids the action for everyone, and Forbidden when the phase
// allows it but the subject lacks the role.
func Check(phase domain.Phase, action Action, subject Subject) error {
	req := table[action][phase]
	if req == nobody {
		return errors.BadRequest(fmt.Sprintf("Can't %s during %s phase", action, phase))
	}

	allowed := false
	switch req {
	case anyParticipant:
		allowed = true
	case authorOnly:
		allowed = subject.IsAuthor
	case facilitatorOnly:
		allowed = subject.IsFacilitator
	case authorOrFacilitator:
		allowed = subject.IsAuthor || subject.IsFacilitator
	case assigneeOrFacilitator:
		allowed = subject.IsAssignee || subject.IsFacilitator
	}
	if !allowed {
		return errors.Forbidden(fmt.Sprintf("Not allowed to %s", action))
	}
	return nil
}
