package models

import (
	"time"

	id "treasury/pkg/domain"
	dErrors "treasury/pkg/domain-errors"
)

// RouterState is the aggregate root for the phased split router: one owned
// value holding the lifecycle phase, the active split, the optional pending
// proposal, the payout destinations and the role memberships. Stores persist
// it as a unit; services mutate it only through Execute callbacks so every
// mutation is atomic validate-then-apply.
//
// Invariants:
//   - Split always sums to TotalBps.
//   - In Survival the split is pinned to (TotalBps,0,0).
//   - In Permanent FounderBps ≤ PermanentFounderCapBps and nothing about the
//     split, destinations or upgrade surface can change again.
//   - Phase never regresses (see Phase.CanTransitionTo).
//   - At most one ScheduledSplit exists; its ApplyAt honors the timelock
//     window.
//
// The Can*/Apply* pairs separate validation from mutation so stores can hold
// their lock (mutex or FOR UPDATE) across both.
type RouterState struct {
	Phase        Phase           `json:"phase"`
	Split        Split           `json:"split"`
	Scheduled    *ScheduledSplit `json:"scheduled,omitempty"`
	Destinations Destinations    `json:"destinations"`
	Roles        RoleSet         `json:"roles"`

	// UpgradeTarget records the implementation digest most recently cleared
	// through the upgrade gate. Rollout itself is an ops concern.
	UpgradeTarget string    `json:"upgrade_target,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewRouterState initializes the engine in Survival with the split pinned to
// the founder and the given initial role holders.
func NewRouterState(dest Destinations, admin, governor id.PrincipalID, now time.Time) (*RouterState, error) {
	if err := dest.Validate(); err != nil {
		return nil, err
	}
	return &RouterState{
		Phase:        PhaseSurvival,
		Split:        SurvivalSplit(),
		Destinations: dest,
		Roles:        NewRoleSet(admin, governor),
		UpdatedAt:    now,
	}, nil
}

// Clone deep-copies the state so store reads cannot alias live data.
func (s *RouterState) Clone() *RouterState {
	cp := *s
	cp.Roles = s.Roles.Clone()
	if s.Scheduled != nil {
		sched := *s.Scheduled
		cp.Scheduled = &sched
	}
	return &cp
}

// HasRole reports whether the principal holds the role.
func (s *RouterState) HasRole(role Role, principal id.PrincipalID) bool {
	return s.Roles.Has(role, principal)
}

// --- enterTransition ---------------------------------------------------------

func (s *RouterState) CanEnterTransition() error {
	if s.Phase == PhasePermanent {
		return dErrors.New(dErrors.CodeAlreadyPermanent, "split router is permanent")
	}
	if s.Phase != PhaseSurvival {
		return dErrors.Newf(dErrors.CodeWrongPhase, "transition requires survival phase, current phase is %s", s.Phase)
	}
	return nil
}

func (s *RouterState) ApplyEnterTransition(now time.Time) {
	s.Phase = PhaseTransition
	s.UpdatedAt = now
}

// --- activatePermanentSplit --------------------------------------------------

// CanActivatePermanent validates the one-shot permanent activation: not yet
// permanent, founder share within the permanent cap, split summing to 100%.
func (s *RouterState) CanActivatePermanent(split Split) error {
	if s.Phase == PhasePermanent {
		return dErrors.New(dErrors.CodeAlreadyPermanent, "split router is already permanent")
	}
	if split.FounderBps > PermanentFounderCapBps {
		return dErrors.Newf(dErrors.CodeValidation,
			"permanent founder share must be at most %d bps", PermanentFounderCapBps)
	}
	return split.Validate()
}

// ApplyActivatePermanent enters the terminal phase, installs the final split
// and destroys any pending proposal.
func (s *RouterState) ApplyActivatePermanent(split Split, now time.Time) {
	s.Phase = PhasePermanent
	s.Split = split
	s.Scheduled = nil
	s.UpdatedAt = now
}

// --- scheduleSplit -----------------------------------------------------------

func (s *RouterState) CanScheduleSplit() error {
	if s.Phase == PhasePermanent {
		return dErrors.New(dErrors.CodeAlreadyPermanent, "split router is permanent")
	}
	if s.Phase != PhaseTransition {
		return dErrors.Newf(dErrors.CodeWrongPhase, "scheduling requires transition phase, current phase is %s", s.Phase)
	}
	if s.Scheduled != nil {
		return dErrors.New(dErrors.CodeAlreadyScheduled, "a split is already scheduled")
	}
	return nil
}

func (s *RouterState) ApplyScheduleSplit(sched *ScheduledSplit, now time.Time) {
	s.Scheduled = sched
	s.UpdatedAt = now
}

// --- applySplit --------------------------------------------------------------

func (s *RouterState) CanApplyScheduled(now time.Time) error {
	if s.Phase == PhasePermanent {
		return dErrors.New(dErrors.CodeAlreadyPermanent, "split router is permanent")
	}
	if s.Phase != PhaseTransition {
		return dErrors.Newf(dErrors.CodeWrongPhase, "applying requires transition phase, current phase is %s", s.Phase)
	}
	if s.Scheduled == nil {
		return dErrors.New(dErrors.CodeNotScheduled, "no split is scheduled")
	}
	if !s.Scheduled.Ready(now) {
		return dErrors.Newf(dErrors.CodeNotReady, "split applies at %s", s.Scheduled.ApplyAt.UTC().Format(time.RFC3339))
	}
	return nil
}

func (s *RouterState) ApplyScheduled(now time.Time) {
	s.Split = s.Scheduled.Split
	s.Scheduled = nil
	s.UpdatedAt = now
}

// --- cancelScheduledSplit ----------------------------------------------------

func (s *RouterState) CanCancelScheduled() error {
	if s.Scheduled == nil {
		return dErrors.New(dErrors.CodeNotScheduled, "no split is scheduled")
	}
	return nil
}

func (s *RouterState) ApplyCancelScheduled(now time.Time) {
	s.Scheduled = nil
	s.UpdatedAt = now
}

// --- updateDestinations ------------------------------------------------------

func (s *RouterState) CanUpdateDestinations(dest Destinations) error {
	if s.Phase == PhasePermanent {
		return dErrors.New(dErrors.CodeAlreadyPermanent, "destinations are frozen once permanent")
	}
	return dest.Validate()
}

func (s *RouterState) ApplyUpdateDestinations(dest Destinations, now time.Time) {
	s.Destinations = dest
	s.UpdatedAt = now
}

// --- authorizeUpgrade --------------------------------------------------------

func (s *RouterState) CanAuthorizeUpgrade(implementation string) error {
	if s.Phase == PhasePermanent {
		return dErrors.New(dErrors.CodeAlreadyPermanent, "upgrades are frozen once permanent")
	}
	if implementation == "" {
		return dErrors.New(dErrors.CodeValidation, "implementation reference is required")
	}
	return nil
}

func (s *RouterState) ApplyAuthorizeUpgrade(implementation string, now time.Time) {
	s.UpgradeTarget = implementation
	s.UpdatedAt = now
}

// --- role membership ---------------------------------------------------------

func (s *RouterState) ApplyGrantRole(role Role, principal id.PrincipalID, now time.Time) {
	s.Roles.Grant(role, principal)
	s.UpdatedAt = now
}

func (s *RouterState) ApplyRevokeRole(role Role, principal id.PrincipalID, now time.Time) {
	s.Roles.Revoke(role, principal)
	s.UpdatedAt = now
}
