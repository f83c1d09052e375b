package domain

// Phase is the board's current stage. It only ever moves forward, one
// step at a time, and CLOSED is terminal.
type Phase string

const (
	PhaseIcebreak    Phase = "ICEBREAK"
	PhaseWriting     Phase = "WRITING"
	PhaseVoting      Phase = "VOTING"
	PhaseDiscussion  Phase = "DISCUSSION"
	PhaseActionItems Phase = "ACTION_ITEMS"
	PhaseClosed      Phase = "CLOSED"
)

// phaseOrder is the single source of truth for the forward sequence.
// ICEBREAK is position 0 but only reachable as an initial phase on
// boards created with the icebreaker enabled.
var phaseOrder = []Phase{PhaseIcebreak, PhaseWriting, PhaseVoting, PhaseDiscussion, PhaseActionItems, PhaseClosed}

func (p Phase) Valid() bool {
	for _, candidate := range phaseOrder {
		if p == candidate {
			return true
		}
	}
	return false
}

func (p Phase) position() int {
	for i, candidate := range phaseOrder {
		if p == candidate {
			return i
		}
	}
	return -1
}

// Next returns the single legal successor. ok is false for CLOSED and
// for unknown values.
func (p Phase) Next() (next Phase, ok bool) {
	i := p.position()
	if i < 0 || i == len(phaseOrder)-1 {
		return "", false
	}
	return phaseOrder[i+1], true
}

// AtLeast reports whether p is at other's position or further along.
func (p Phase) AtLeast(other Phase) bool {
	return p.position() >= other.position()
}

func InitialPhase(enableIcebreaker bool) Phase {
	if enableIcebreaker {
		return PhaseIcebreak
	}
	return PhaseWriting
}
