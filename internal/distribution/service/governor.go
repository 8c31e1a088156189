package service

import (
	"context"
	"fmt"

	"treasury/internal/audit"
	"treasury/internal/distribution/models"
	id "treasury/pkg/domain"
	dErrors "treasury/pkg/domain-errors"
	"treasury/pkg/requestcontext"
)

// EnterTransition moves the router from Survival into Transition.
// Governor-only.
func (s *Service) EnterTransition(ctx context.Context) (*models.PhaseResponse, error) {
	principal := requestcontext.PrincipalID(ctx)
	now := requestcontext.Now(ctx)

	st, err := s.state.Execute(ctx,
		func(st *models.RouterState) error {
			if err := requireRole(st, principal, models.RoleGovernor); err != nil {
				return err
			}
			return st.CanEnterTransition()
		},
		func(st *models.RouterState) {
			st.ApplyEnterTransition(now)
		},
	)
	if err != nil {
		return nil, translateStateErr(err)
	}

	s.emitAudit(ctx, audit.Event{
		Kind:   audit.KindPhaseTransitioned,
		Detail: fmt.Sprintf("phase %s -> %s", models.PhaseSurvival, st.Phase),
	})
	s.recordGovernance("enter_transition")
	s.recordPhase(st.Phase)
	s.logger.InfoContext(ctx, "entered transition phase")

	return &models.PhaseResponse{Phase: string(st.Phase)}, nil
}

// ActivatePermanentSplit performs the one-shot, irreversible permanent
// activation. Administrator-only. Any pending proposal is destroyed.
func (s *Service) ActivatePermanentSplit(ctx context.Context, req *models.ActivatePermanentRequest) (*models.SplitResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	split, err := req.Split()
	if err != nil {
		return nil, err
	}

	principal := requestcontext.PrincipalID(ctx)
	now := requestcontext.Now(ctx)

	st, err := s.state.Execute(ctx,
		func(st *models.RouterState) error {
			if err := requireRole(st, principal, models.RoleAdministrator); err != nil {
				return err
			}
			return st.CanActivatePermanent(split)
		},
		func(st *models.RouterState) {
			st.ApplyActivatePermanent(split, now)
		},
	)
	if err != nil {
		return nil, translateStateErr(err)
	}

	s.emitAudit(ctx, audit.Event{
		Kind: audit.KindPermanentActivated,
		Detail: fmt.Sprintf("permanent split %d/%d/%d bps",
			split.FounderBps, split.DaoBps, split.CharityBps),
	})
	s.recordGovernance("activate_permanent")
	s.recordPhase(st.Phase)
	s.logger.InfoContext(ctx, "permanent split activated",
		"founder_bps", split.FounderBps,
		"dao_bps", split.DaoBps,
		"charity_bps", split.CharityBps,
	)

	return splitResponse(st), nil
}

// UpdateDestinations replaces the payout address triple. Administrator-only;
// frozen once Permanent.
func (s *Service) UpdateDestinations(ctx context.Context, req *models.UpdateDestinationsRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	dest, err := req.Destinations()
	if err != nil {
		return err
	}

	principal := requestcontext.PrincipalID(ctx)
	now := requestcontext.Now(ctx)

	_, err = s.state.Execute(ctx,
		func(st *models.RouterState) error {
			if err := requireRole(st, principal, models.RoleAdministrator); err != nil {
				return err
			}
			return st.CanUpdateDestinations(dest)
		},
		func(st *models.RouterState) {
			st.ApplyUpdateDestinations(dest, now)
		},
	)
	if err != nil {
		return translateStateErr(err)
	}

	s.emitAudit(ctx, audit.Event{
		Kind:   audit.KindDestinationsUpdated,
		Detail: "payout destinations replaced",
	})
	s.recordGovernance("update_destinations")
	return nil
}

// GrantRole adds a principal to a role. Administrator-only.
func (s *Service) GrantRole(ctx context.Context, req *models.RoleChangeRequest) error {
	return s.changeRole(ctx, req, true)
}

// RevokeRole removes a principal from a role. Administrator-only.
func (s *Service) RevokeRole(ctx context.Context, req *models.RoleChangeRequest) error {
	return s.changeRole(ctx, req, false)
}

func (s *Service) changeRole(ctx context.Context, req *models.RoleChangeRequest, grant bool) error {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return err
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		return err
	}
	subject, err := id.ParsePrincipalID(req.PrincipalID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "invalid principal_id")
	}

	principal := requestcontext.PrincipalID(ctx)
	now := requestcontext.Now(ctx)

	_, err = s.state.Execute(ctx,
		func(st *models.RouterState) error {
			return requireRole(st, principal, models.RoleAdministrator)
		},
		func(st *models.RouterState) {
			if grant {
				st.ApplyGrantRole(role, subject, now)
			} else {
				st.ApplyRevokeRole(role, subject, now)
			}
		},
	)
	if err != nil {
		return translateStateErr(err)
	}

	kind := audit.KindRoleGranted
	action := "grant_role"
	if !grant {
		kind = audit.KindRoleRevoked
		action = "revoke_role"
	}
	s.emitAudit(ctx, audit.Event{
		Kind:   kind,
		Detail: fmt.Sprintf("%s %s for %s", action, role, subject),
	})
	s.recordGovernance(action)
	return nil
}

// AuthorizeUpgrade clears a new implementation through the upgrade gate.
// Administrator-only; always fails once Permanent.
func (s *Service) AuthorizeUpgrade(ctx context.Context, req *models.AuthorizeUpgradeRequest) error {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return err
	}

	principal := requestcontext.PrincipalID(ctx)
	now := requestcontext.Now(ctx)

	_, err := s.state.Execute(ctx,
		func(st *models.RouterState) error {
			if err := requireRole(st, principal, models.RoleAdministrator); err != nil {
				return err
			}
			return st.CanAuthorizeUpgrade(req.Implementation)
		},
		func(st *models.RouterState) {
			st.ApplyAuthorizeUpgrade(req.Implementation, now)
		},
	)
	if err != nil {
		return translateStateErr(err)
	}

	s.emitAudit(ctx, audit.Event{
		Kind:   audit.KindUpgradeAuthorized,
		Detail: fmt.Sprintf("implementation %s authorized", req.Implementation),
	})
	s.recordGovernance("authorize_upgrade")
	return nil
}

func splitResponse(st *models.RouterState) *models.SplitResponse {
	return &models.SplitResponse{
		Phase:      string(st.Phase),
		FounderBps: st.Split.FounderBps,
		DaoBps:     st.Split.DaoBps,
		CharityBps: st.Split.CharityBps,
	}
}
