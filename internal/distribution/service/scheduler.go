package service

import (
	"context"
	"fmt"

	"treasury/internal/audit"
	"treasury/internal/distribution/models"
	"treasury/pkg/requestcontext"
)

// ScheduleSplit stores a timelocked split proposal. Governor-only;
// Transition-only; at most one proposal may be pending.
func (s *Service) ScheduleSplit(ctx context.Context, req *models.ScheduleSplitRequest) (*models.ScheduledSplitResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	split, err := req.Split()
	if err != nil {
		return nil, err
	}

	principal := requestcontext.PrincipalID(ctx)
	now := requestcontext.Now(ctx)

	sched, err := models.NewScheduledSplit(split, now, req.Delay())
	if err != nil {
		return nil, err
	}

	st, err := s.state.Execute(ctx,
		func(st *models.RouterState) error {
			if err := requireRole(st, principal, models.RoleGovernor); err != nil {
				return err
			}
			return st.CanScheduleSplit()
		},
		func(st *models.RouterState) {
			st.ApplyScheduleSplit(sched, now)
		},
	)
	if err != nil {
		return nil, translateStateErr(err)
	}

	s.emitAudit(ctx, audit.Event{
		Kind: audit.KindSplitScheduled,
		Detail: fmt.Sprintf("split %d/%d/%d bps applies at %s",
			split.FounderBps, split.DaoBps, split.CharityBps,
			sched.ApplyAt.UTC().Format("2006-01-02T15:04:05Z07:00")),
	})
	s.recordGovernance("schedule_split")
	s.logger.InfoContext(ctx, "split scheduled",
		"founder_bps", split.FounderBps,
		"dao_bps", split.DaoBps,
		"charity_bps", split.CharityBps,
		"apply_at", sched.ApplyAt,
	)

	return scheduledResponse(st.Scheduled), nil
}

// ApplySplit installs a due proposal as the active split. Deliberately
// unauthenticated: anyone may push a ripe proposal over the line, so no
// single actor can block a due change by refusing to call.
func (s *Service) ApplySplit(ctx context.Context) (*models.SplitResponse, error) {
	now := requestcontext.Now(ctx)

	st, err := s.state.Execute(ctx,
		func(st *models.RouterState) error {
			return st.CanApplyScheduled(now)
		},
		func(st *models.RouterState) {
			st.ApplyScheduled(now)
		},
	)
	if err != nil {
		return nil, translateStateErr(err)
	}

	s.emitAudit(ctx, audit.Event{
		Kind: audit.KindSplitApplied,
		Detail: fmt.Sprintf("active split now %d/%d/%d bps",
			st.Split.FounderBps, st.Split.DaoBps, st.Split.CharityBps),
	})
	s.recordGovernance("apply_split")
	s.logger.InfoContext(ctx, "scheduled split applied",
		"founder_bps", st.Split.FounderBps,
		"dao_bps", st.Split.DaoBps,
		"charity_bps", st.Split.CharityBps,
	)

	return splitResponse(st), nil
}

// CancelScheduledSplit drops the pending proposal without applying it.
// Governor or Administrator; valid any time before the proposal is applied.
func (s *Service) CancelScheduledSplit(ctx context.Context) error {
	principal := requestcontext.PrincipalID(ctx)
	now := requestcontext.Now(ctx)

	_, err := s.state.Execute(ctx,
		func(st *models.RouterState) error {
			if err := requireRole(st, principal, models.RoleGovernor, models.RoleAdministrator); err != nil {
				return err
			}
			return st.CanCancelScheduled()
		},
		func(st *models.RouterState) {
			st.ApplyCancelScheduled(now)
		},
	)
	if err != nil {
		return translateStateErr(err)
	}

	s.emitAudit(ctx, audit.Event{
		Kind:   audit.KindSplitCancelled,
		Detail: "pending split proposal cancelled",
	})
	s.recordGovernance("cancel_split")
	return nil
}

func scheduledResponse(sched *models.ScheduledSplit) *models.ScheduledSplitResponse {
	return &models.ScheduledSplitResponse{
		FounderBps:  sched.Split.FounderBps,
		DaoBps:      sched.Split.DaoBps,
		CharityBps:  sched.Split.CharityBps,
		ScheduledAt: sched.ScheduledAt,
		ApplyAt:     sched.ApplyAt,
	}
}
