package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"treasury/internal/audit"
	"treasury/internal/distribution/models"
	"treasury/internal/distribution/store/idempotency"
	"treasury/internal/distribution/store/ledger"
	"treasury/internal/distribution/store/state"
	"treasury/internal/distribution/transfer"
	id "treasury/pkg/domain"
	dErrors "treasury/pkg/domain-errors"
	"treasury/pkg/requestcontext"
)

const (
	destFounder = "acct-founder"
	destDao     = "acct-dao"
	destCharity = "acct-charity"
)

type ServiceSuite struct {
	suite.Suite
	svc      *Service
	state    *state.InMemory
	ledger   *ledger.InMemory
	gateway  *transfer.InMemoryGateway
	audit    *audit.Publisher
	admin    id.PrincipalID
	governor id.PrincipalID
	now      time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.admin = id.PrincipalID(uuid.New())
	s.governor = id.PrincipalID(uuid.New())
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	dest, err := models.NewDestinations(destFounder, destDao, destCharity)
	s.Require().NoError(err)
	initial, err := models.NewRouterState(dest, s.admin, s.governor, s.now)
	s.Require().NoError(err)

	s.state = state.NewInMemory()
	s.Require().NoError(s.state.Init(context.Background(), initial))

	s.ledger = ledger.NewInMemory()
	s.gateway = transfer.NewInMemoryGateway()
	s.audit = audit.NewPublisher(audit.NewInMemoryStore(), discardLogger())

	s.svc = New(s.state, s.ledger, s.gateway,
		WithLogger(discardLogger()),
		WithAuditPublisher(s.audit),
		WithReferenceStore(idempotency.NewInMemoryStore(time.Hour)),
	)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ctxAs builds a request context for a principal with the suite clock.
func (s *ServiceSuite) ctxAs(principal id.PrincipalID) context.Context {
	ctx := requestcontext.WithTime(context.Background(), s.now)
	if !principal.IsZero() {
		ctx = requestcontext.WithPrincipalID(ctx, principal)
	}
	return ctx
}

// ctxAt is ctxAs with an explicit clock, for timelock tests.
func (s *ServiceSuite) ctxAt(principal id.PrincipalID, now time.Time) context.Context {
	ctx := requestcontext.WithTime(context.Background(), now)
	if !principal.IsZero() {
		ctx = requestcontext.WithPrincipalID(ctx, principal)
	}
	return ctx
}

func (s *ServiceSuite) deposit(amount int64) {
	_, err := s.svc.Deposit(s.ctxAs(id.PrincipalID{}), &models.DepositRequest{AssetID: "USD", Amount: amount})
	s.Require().NoError(err)
}

// enterTransition moves the suite state into Transition.
func (s *ServiceSuite) enterTransition() {
	_, err := s.svc.EnterTransition(s.ctxAs(s.governor))
	s.Require().NoError(err)
}

// installSplit schedules a split as governor and applies it after the
// minimum timelock, advancing the suite clock past the apply instant.
func (s *ServiceSuite) installSplit(founder, dao, charity int32) {
	_, err := s.svc.ScheduleSplit(s.ctxAs(s.governor), &models.ScheduleSplitRequest{
		FounderBps:   founder,
		DaoBps:       dao,
		CharityBps:   charity,
		DelaySeconds: int64(models.MinScheduleDelay / time.Second),
	})
	s.Require().NoError(err)

	s.now = s.now.Add(models.MinScheduleDelay)
	_, err = s.svc.ApplySplit(s.ctxAs(id.PrincipalID{}))
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestSurvivalPaysFounderEverything() {
	s.deposit(1000)

	dist, err := s.svc.Distribute(s.ctxAs(id.PrincipalID{}), &models.DistributeRequest{AssetID: "USD"})
	s.Require().NoError(err)

	s.Equal(int64(1000), dist.Total)
	s.Equal(int64(1000), dist.FounderAmount)
	s.Zero(dist.DaoAmount)
	s.Zero(dist.CharityAmount)
	s.Equal(int64(1000), s.gateway.TotalTo("USD", destFounder))

	balance, err := s.svc.PendingBalance(context.Background(), "USD")
	s.Require().NoError(err)
	s.Zero(balance.Balance, "custody is emptied by the payout")
}

func (s *ServiceSuite) TestDistributeEmptyBalance() {
	_, err := s.svc.Distribute(s.ctxAs(id.PrincipalID{}), &models.DistributeRequest{AssetID: "USD"})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeEmptyBalance))
}

// A second distribution with no intervening deposit sees an empty balance,
// which is what makes blind retries safe.
func (s *ServiceSuite) TestDoubleDistribute() {
	s.deposit(500)

	_, err := s.svc.Distribute(s.ctxAs(id.PrincipalID{}), &models.DistributeRequest{AssetID: "USD"})
	s.Require().NoError(err)

	_, err = s.svc.Distribute(s.ctxAs(id.PrincipalID{}), &models.DistributeRequest{AssetID: "USD"})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeEmptyBalance))
	s.Equal(int64(500), s.gateway.TotalTo("USD", destFounder), "value paid exactly once")
}

func (s *ServiceSuite) TestDistributeTransferFailureKeepsBalance() {
	s.enterTransition()
	s.installSplit(1000, 4500, 4500)
	s.deposit(10000)

	s.gateway.FailDestination(destDao, errors.New("provider timeout"))

	_, err := s.svc.Distribute(s.ctxAs(id.PrincipalID{}), &models.DistributeRequest{AssetID: "USD"})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeTransferFailed))

	balance, err := s.svc.PendingBalance(context.Background(), "USD")
	s.Require().NoError(err)
	s.Equal(int64(10000), balance.Balance, "failed distribution must not consume custody")

	// No leg of the aborted batch may have settled, or the retry below would
	// pay the earlier destinations a second time.
	s.Zero(s.gateway.TotalTo("USD", destFounder), "aborted distribution paid the founder")
	s.Zero(s.gateway.TotalTo("USD", destCharity), "aborted distribution paid the charity")

	// Once the destination recovers the full amount pays out, exactly once.
	s.gateway.FailDestination(destDao, nil)
	dist, err := s.svc.Distribute(s.ctxAs(id.PrincipalID{}), &models.DistributeRequest{AssetID: "USD"})
	s.Require().NoError(err)
	s.Equal(int64(10000), dist.Total)
	s.Equal(dist.Total, dist.FounderAmount+dist.DaoAmount+dist.CharityAmount)
	s.Equal(int64(1000), s.gateway.TotalTo("USD", destFounder))
	s.Equal(int64(4500), s.gateway.TotalTo("USD", destDao))
	s.Equal(int64(4500), s.gateway.TotalTo("USD", destCharity))
}

func (s *ServiceSuite) TestDistributeRemainderGoesToCharity() {
	s.enterTransition()
	s.installSplit(333, 3333, 6334)
	s.deposit(1001)

	dist, err := s.svc.Distribute(s.ctxAs(id.PrincipalID{}), &models.DistributeRequest{AssetID: "USD"})
	s.Require().NoError(err)

	s.Equal(int64(33), dist.FounderAmount)
	s.Equal(int64(333), dist.DaoAmount)
	s.Equal(int64(635), dist.CharityAmount)
	s.Equal(dist.Total, dist.FounderAmount+dist.DaoAmount+dist.CharityAmount)
}

func (s *ServiceSuite) TestDepositAccumulates() {
	s.deposit(300)
	s.deposit(700)

	balance, err := s.svc.PendingBalance(context.Background(), "USD")
	s.Require().NoError(err)
	s.Equal(int64(1000), balance.Balance)
}

func (s *ServiceSuite) TestDepositReferenceDeduplicates() {
	ctx := s.ctxAs(id.PrincipalID{})

	first, err := s.svc.Deposit(ctx, &models.DepositRequest{AssetID: "USD", Amount: 250, Reference: "webhook-42"})
	s.Require().NoError(err)
	s.False(first.Duplicate)
	s.Equal(int64(250), first.Balance)

	second, err := s.svc.Deposit(ctx, &models.DepositRequest{AssetID: "USD", Amount: 250, Reference: "webhook-42"})
	s.Require().NoError(err)
	s.True(second.Duplicate)
	s.Equal(int64(250), second.Balance, "redelivery must not double-fund")
}

func (s *ServiceSuite) TestDepositValidation() {
	ctx := s.ctxAs(id.PrincipalID{})

	_, err := s.svc.Deposit(ctx, &models.DepositRequest{AssetID: "", Amount: 10})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.svc.Deposit(ctx, &models.DepositRequest{AssetID: "USD", Amount: -1})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.svc.Deposit(ctx, &models.DepositRequest{AssetID: "not money!", Amount: 10})
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func (s *ServiceSuite) TestDepositOverflowRejected() {
	s.deposit(math.MaxInt64 - 5)

	_, err := s.svc.Deposit(s.ctxAs(id.PrincipalID{}), &models.DepositRequest{AssetID: "USD", Amount: 6})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	balance, err := s.svc.PendingBalance(context.Background(), "USD")
	s.Require().NoError(err)
	s.Equal(int64(math.MaxInt64-5), balance.Balance)
}

func (s *ServiceSuite) TestEnterTransitionAuthorization() {
	s.Run("anonymous caller", func() {
		_, err := s.svc.EnterTransition(s.ctxAs(id.PrincipalID{}))
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("administrator lacks the governor role", func() {
		_, err := s.svc.EnterTransition(s.ctxAs(s.admin))
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("governor succeeds once", func() {
		resp, err := s.svc.EnterTransition(s.ctxAs(s.governor))
		s.Require().NoError(err)
		s.Equal("transition", resp.Phase)

		_, err = s.svc.EnterTransition(s.ctxAs(s.governor))
		s.True(dErrors.HasCode(err, dErrors.CodeWrongPhase))
	})
}

func (s *ServiceSuite) TestScheduleSplitRules() {
	req := &models.ScheduleSplitRequest{
		FounderBps:   1000,
		DaoBps:       4500,
		CharityBps:   4500,
		DelaySeconds: int64(models.MinScheduleDelay / time.Second),
	}

	s.Run("rejected in survival", func() {
		_, err := s.svc.ScheduleSplit(s.ctxAs(s.governor), req)
		s.True(dErrors.HasCode(err, dErrors.CodeWrongPhase))
	})

	s.enterTransition()

	s.Run("governor only", func() {
		_, err := s.svc.ScheduleSplit(s.ctxAs(s.admin), req)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("delay outside the window", func() {
		bad := *req
		bad.DelaySeconds = int64((models.MinScheduleDelay - time.Hour) / time.Second)
		_, err := s.svc.ScheduleSplit(s.ctxAs(s.governor), &bad)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		bad.DelaySeconds = int64((models.MaxScheduleDelay + time.Hour) / time.Second)
		_, err = s.svc.ScheduleSplit(s.ctxAs(s.governor), &bad)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("one proposal at a time", func() {
		resp, err := s.svc.ScheduleSplit(s.ctxAs(s.governor), req)
		s.Require().NoError(err)
		s.Equal(s.now.Add(models.MinScheduleDelay), resp.ApplyAt)

		_, err = s.svc.ScheduleSplit(s.ctxAs(s.governor), req)
		s.True(dErrors.HasCode(err, dErrors.CodeAlreadyScheduled))
	})

	s.Run("premature apply", func() {
		_, err := s.svc.ApplySplit(s.ctxAt(id.PrincipalID{}, s.now.Add(models.MinScheduleDelay-time.Second)))
		s.True(dErrors.HasCode(err, dErrors.CodeNotReady))
	})

	s.Run("anyone may apply once due", func() {
		resp, err := s.svc.ApplySplit(s.ctxAt(id.PrincipalID{}, s.now.Add(models.MinScheduleDelay)))
		s.Require().NoError(err)
		s.Equal(int32(1000), resp.FounderBps)

		_, err = s.svc.ApplySplit(s.ctxAt(id.PrincipalID{}, s.now.Add(models.MinScheduleDelay)))
		s.True(dErrors.HasCode(err, dErrors.CodeNotScheduled))
	})
}

func (s *ServiceSuite) TestCancelScheduledSplit() {
	s.enterTransition()

	err := s.svc.CancelScheduledSplit(s.ctxAs(s.admin))
	s.True(dErrors.HasCode(err, dErrors.CodeNotScheduled))

	_, err = s.svc.ScheduleSplit(s.ctxAs(s.governor), &models.ScheduleSplitRequest{
		FounderBps:   500,
		DaoBps:       4500,
		CharityBps:   5000,
		DelaySeconds: int64(models.MinScheduleDelay / time.Second),
	})
	s.Require().NoError(err)

	// Either role may cancel.
	s.Require().NoError(s.svc.CancelScheduledSplit(s.ctxAs(s.admin)))

	_, err = s.svc.ScheduledSplit(context.Background())
	s.True(dErrors.HasCode(err, dErrors.CodeNotScheduled))
}

func (s *ServiceSuite) TestActivatePermanentSplit() {
	s.Run("cap enforced before any state change", func() {
		_, err := s.svc.ActivatePermanentSplit(s.ctxAs(s.admin), &models.ActivatePermanentRequest{
			FounderCapBps: 1500, DaoBps: 4000, CharityBps: 4500,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		phase, err := s.svc.CurrentPhase(context.Background())
		s.Require().NoError(err)
		s.Equal("survival", phase.Phase)
	})

	s.Run("administrator only", func() {
		_, err := s.svc.ActivatePermanentSplit(s.ctxAs(s.governor), &models.ActivatePermanentRequest{
			FounderCapBps: 1000, DaoBps: 4500, CharityBps: 4500,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("activation is terminal", func() {
		resp, err := s.svc.ActivatePermanentSplit(s.ctxAs(s.admin), &models.ActivatePermanentRequest{
			FounderCapBps: 1000, DaoBps: 4500, CharityBps: 4500,
		})
		s.Require().NoError(err)
		s.Equal("permanent", resp.Phase)
		s.Equal(int32(1000), resp.FounderBps)

		_, err = s.svc.ActivatePermanentSplit(s.ctxAs(s.admin), &models.ActivatePermanentRequest{
			FounderCapBps: 0, DaoBps: 5000, CharityBps: 5000,
		})
		s.True(dErrors.HasCode(err, dErrors.CodeAlreadyPermanent))
	})

	s.Run("everything mutable is frozen", func() {
		_, err := s.svc.EnterTransition(s.ctxAs(s.governor))
		s.True(dErrors.HasCode(err, dErrors.CodeAlreadyPermanent))

		_, err = s.svc.ScheduleSplit(s.ctxAs(s.governor), &models.ScheduleSplitRequest{
			FounderBps: 0, DaoBps: 5000, CharityBps: 5000,
			DelaySeconds: int64(models.MinScheduleDelay / time.Second),
		})
		s.True(dErrors.HasCode(err, dErrors.CodeAlreadyPermanent))

		err = s.svc.UpdateDestinations(s.ctxAs(s.admin), &models.UpdateDestinationsRequest{
			Founder: "x", Dao: "y", Charity: "z",
		})
		s.True(dErrors.HasCode(err, dErrors.CodeAlreadyPermanent))

		err = s.svc.AuthorizeUpgrade(s.ctxAs(s.admin), &models.AuthorizeUpgradeRequest{Implementation: "sha256:next"})
		s.True(dErrors.HasCode(err, dErrors.CodeAlreadyPermanent))
	})

	s.Run("distribution keeps working", func() {
		s.deposit(10000)
		dist, err := s.svc.Distribute(s.ctxAs(id.PrincipalID{}), &models.DistributeRequest{AssetID: "USD"})
		s.Require().NoError(err)
		s.Equal(int64(1000), dist.FounderAmount)
		s.Equal(int64(4500), dist.DaoAmount)
		s.Equal(int64(4500), dist.CharityAmount)
	})
}

func (s *ServiceSuite) TestUpdateDestinations() {
	err := s.svc.UpdateDestinations(s.ctxAs(s.governor), &models.UpdateDestinationsRequest{
		Founder: "a", Dao: "b", Charity: "c",
	})
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))

	s.Require().NoError(s.svc.UpdateDestinations(s.ctxAs(s.admin), &models.UpdateDestinationsRequest{
		Founder: "new-founder", Dao: "new-dao", Charity: "new-charity",
	}))

	s.deposit(100)
	_, err = s.svc.Distribute(s.ctxAs(id.PrincipalID{}), &models.DistributeRequest{AssetID: "USD"})
	s.Require().NoError(err)
	s.Equal(int64(100), s.gateway.TotalTo("USD", "new-founder"))
	s.Zero(s.gateway.TotalTo("USD", destFounder))
}

func (s *ServiceSuite) TestRoleLifecycle() {
	newGovernor := id.PrincipalID(uuid.New())

	s.Run("administrator only", func() {
		err := s.svc.GrantRole(s.ctxAs(s.governor), &models.RoleChangeRequest{
			PrincipalID: newGovernor.String(), Role: "governor",
		})
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("granted principal gains the capability", func() {
		s.Require().NoError(s.svc.GrantRole(s.ctxAs(s.admin), &models.RoleChangeRequest{
			PrincipalID: newGovernor.String(), Role: "governor",
		}))

		_, err := s.svc.EnterTransition(s.ctxAs(newGovernor))
		s.Require().NoError(err)
	})

	s.Run("revoked principal loses it", func() {
		s.Require().NoError(s.svc.RevokeRole(s.ctxAs(s.admin), &models.RoleChangeRequest{
			PrincipalID: newGovernor.String(), Role: "governor",
		}))

		_, err := s.svc.ScheduleSplit(s.ctxAs(newGovernor), &models.ScheduleSplitRequest{
			FounderBps: 1000, DaoBps: 4500, CharityBps: 4500,
			DelaySeconds: int64(models.MinScheduleDelay / time.Second),
		})
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("unknown role", func() {
		err := s.svc.GrantRole(s.ctxAs(s.admin), &models.RoleChangeRequest{
			PrincipalID: newGovernor.String(), Role: "owner",
		})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestAuthorizeUpgrade() {
	err := s.svc.AuthorizeUpgrade(s.ctxAs(s.admin), &models.AuthorizeUpgradeRequest{Implementation: "sha256:v2"})
	s.Require().NoError(err)

	st, err := s.state.Get(context.Background())
	s.Require().NoError(err)
	s.Equal("sha256:v2", st.UpgradeTarget)
}

func (s *ServiceSuite) TestQueries() {
	split, err := s.svc.CurrentSplit(context.Background())
	s.Require().NoError(err)
	s.Equal("survival", split.Phase)
	s.Equal(int32(models.TotalBps), split.FounderBps)

	phase, err := s.svc.CurrentPhase(context.Background())
	s.Require().NoError(err)
	s.Equal("survival", phase.Phase)

	balance, err := s.svc.PendingBalance(context.Background(), "usd")
	s.Require().NoError(err)
	s.Equal("USD", balance.AssetID, "asset codes normalize to upper case")
	s.Zero(balance.Balance)
}

func (s *ServiceSuite) TestDistributionsHistory() {
	s.deposit(1000)
	_, err := s.svc.Distribute(s.ctxAs(id.PrincipalID{}), &models.DistributeRequest{AssetID: "USD"})
	s.Require().NoError(err)

	s.deposit(2000)
	_, err = s.svc.Distribute(s.ctxAs(id.PrincipalID{}), &models.DistributeRequest{AssetID: "USD"})
	s.Require().NoError(err)

	dists, err := s.svc.Distributions(context.Background(), 10)
	s.Require().NoError(err)
	s.Require().Len(dists, 2)
	s.Equal(int64(2000), dists[0].Total, "newest first")
	s.Equal(int64(1000), dists[1].Total)
}
