package workflow

// Phase is a state of the triage pipeline.
type Phase string

// Pipeline phases. Done and Escalated are terminal.
const (
	PhaseClassifying Phase = "classifying"
	PhaseRetrieving  Phase = "retrieving"
	PhaseDrafting    Phase = "drafting"
	PhaseReviewing   Phase = "reviewing"
	PhaseEscalating  Phase = "escalating"
	PhaseDone        Phase = "done"
	PhaseEscalated   Phase = "escalated"
)

// MaxRetries is the number of rejected reviews after which a ticket escalates.
const MaxRetries = 2

// Terminal reports whether p ends the pipeline.
func (p Phase) Terminal() bool {
	return p == PhaseDone || p == PhaseEscalated
}

// Next returns the phase that follows p given the state produced by p's
// stage. It has no side effects.
func Next(p Phase, s State) Phase {
	switch p {
	case PhaseClassifying:
		return PhaseRetrieving
	case PhaseRetrieving:
		return PhaseDrafting
	case PhaseDrafting:
		return PhaseReviewing
	case PhaseReviewing:
		if s.ReviewDecision == DecisionApproved {
			return PhaseDone
		}
		if s.RetryCount < MaxRetries {
			return PhaseRetrieving
		}
		return PhaseEscalating
	case PhaseEscalating:
		return PhaseEscalated
	default:
		return p
	}
}
