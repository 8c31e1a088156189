package models

// Phase is the governance lifecycle stage of the split router.
//
// Invariants:
//   - Transitions are forward-only: Survival→Transition, Survival→Permanent,
//     Transition→Permanent.
//   - Permanent is terminal. No code path constructs a transition out of it;
//     CanTransitionTo has no case returning true from Permanent.
type Phase string

const (
	// PhaseSurvival is the initial stage: the split is pinned to
	// (10000,0,0) and only the founder is paid.
	PhaseSurvival Phase = "survival"
	// PhaseTransition allows governors to propose timelocked split changes.
	PhaseTransition Phase = "transition"
	// PhasePermanent freezes the split, destinations and upgrade surface
	// forever.
	PhasePermanent Phase = "permanent"
)

// Valid reports whether p is a known phase.
func (p Phase) Valid() bool {
	switch p {
	case PhaseSurvival, PhaseTransition, PhasePermanent:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle permits moving from p to next.
// Only forward edges exist; everything out of Permanent is unreachable.
func (p Phase) CanTransitionTo(next Phase) bool {
	switch p {
	case PhaseSurvival:
		return next == PhaseTransition || next == PhasePermanent
	case PhaseTransition:
		return next == PhasePermanent
	}
	return false
}

func (p Phase) String() string { return string(p) }
