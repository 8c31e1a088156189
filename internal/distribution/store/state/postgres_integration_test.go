//go:build integration

package state_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"treasury/internal/distribution/models"
	"treasury/internal/distribution/store/state"
	id "treasury/pkg/domain"
	"treasury/pkg/platform/sentinel"
	"treasury/pkg/testutil/containers"
)

const stateSchema = `
CREATE TABLE IF NOT EXISTS treasury_state (
    id                SMALLINT PRIMARY KEY CHECK (id = 1),
    phase             TEXT NOT NULL,
    founder_bps       INTEGER NOT NULL,
    dao_bps           INTEGER NOT NULL,
    charity_bps       INTEGER NOT NULL,
    sched_founder_bps INTEGER,
    sched_dao_bps     INTEGER,
    sched_charity_bps INTEGER,
    sched_at          TIMESTAMPTZ,
    sched_apply_at    TIMESTAMPTZ,
    dest_founder      TEXT NOT NULL,
    dest_dao          TEXT NOT NULL,
    dest_charity      TEXT NOT NULL,
    upgrade_target    TEXT NOT NULL DEFAULT '',
    updated_at        TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS treasury_roles (
    role      TEXT NOT NULL,
    principal UUID NOT NULL,
    PRIMARY KEY (role, principal)
);`

type PostgresStateSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *state.Postgres
	admin    id.PrincipalID
	governor id.PrincipalID
	now      time.Time
}

func TestPostgresStateSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStateSuite))
}

func (s *PostgresStateSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.postgres.Exec(s.T(), stateSchema)
	s.store = state.NewPostgres(s.postgres.DB)
}

func (s *PostgresStateSuite) SetupTest() {
	s.postgres.Exec(s.T(), `TRUNCATE treasury_state, treasury_roles`)
	s.admin = id.PrincipalID(uuid.New())
	s.governor = id.PrincipalID(uuid.New())
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *PostgresStateSuite) seed() *models.RouterState {
	dest, err := models.NewDestinations("acct-f", "acct-d", "acct-c")
	s.Require().NoError(err)
	st, err := models.NewRouterState(dest, s.admin, s.governor, s.now)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Init(context.Background(), st))
	return st
}

func (s *PostgresStateSuite) TestInitOnce() {
	st := s.seed()
	s.ErrorIs(s.store.Init(context.Background(), st), sentinel.ErrConflict)
}

func (s *PostgresStateSuite) TestGetBeforeInit() {
	_, err := s.store.Get(context.Background())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStateSuite) TestRoundTrip() {
	s.seed()

	st, err := s.store.Get(context.Background())
	s.Require().NoError(err)
	s.Equal(models.PhaseSurvival, st.Phase)
	s.Equal(int32(models.TotalBps), st.Split.FounderBps)
	s.Equal(models.Destination("acct-f"), st.Destinations.Founder)
	s.True(st.HasRole(models.RoleAdministrator, s.admin))
	s.True(st.HasRole(models.RoleGovernor, s.governor))
	s.Nil(st.Scheduled)
}

func (s *PostgresStateSuite) TestExecutePersistsScheduledSplit() {
	s.seed()
	ctx := context.Background()

	_, err := s.store.Execute(ctx,
		func(st *models.RouterState) error { return st.CanEnterTransition() },
		func(st *models.RouterState) { st.ApplyEnterTransition(s.now) },
	)
	s.Require().NoError(err)

	split, err := models.NewSplit(1000, 4500, 4500)
	s.Require().NoError(err)
	sched, err := models.NewScheduledSplit(split, s.now, models.MinScheduleDelay)
	s.Require().NoError(err)

	_, err = s.store.Execute(ctx,
		func(st *models.RouterState) error { return st.CanScheduleSplit() },
		func(st *models.RouterState) { st.ApplyScheduleSplit(sched, s.now) },
	)
	s.Require().NoError(err)

	st, err := s.store.Get(ctx)
	s.Require().NoError(err)
	s.Equal(models.PhaseTransition, st.Phase)
	s.Require().NotNil(st.Scheduled)
	s.Equal(int32(1000), st.Scheduled.Split.FounderBps)
	s.True(st.Scheduled.ApplyAt.Equal(s.now.Add(models.MinScheduleDelay)))

	// Applying consumes the proposal and the NULLs round-trip.
	applyAt := st.Scheduled.ApplyAt
	_, err = s.store.Execute(ctx,
		func(st *models.RouterState) error { return st.CanApplyScheduled(applyAt) },
		func(st *models.RouterState) { st.ApplyScheduled(applyAt) },
	)
	s.Require().NoError(err)

	st, err = s.store.Get(ctx)
	s.Require().NoError(err)
	s.Nil(st.Scheduled)
	s.Equal(int32(1000), st.Split.FounderBps)
}

func (s *PostgresStateSuite) TestExecuteCheckFailureRollsBack() {
	s.seed()
	ctx := context.Background()

	_, err := s.store.Execute(ctx,
		func(st *models.RouterState) error {
			st.Phase = models.PhasePermanent
			return sentinel.ErrInvalidState
		},
		func(st *models.RouterState) {},
	)
	s.ErrorIs(err, sentinel.ErrInvalidState)

	st, err := s.store.Get(ctx)
	s.Require().NoError(err)
	s.Equal(models.PhaseSurvival, st.Phase)
}

func (s *PostgresStateSuite) TestRoleReconciliation() {
	s.seed()
	ctx := context.Background()
	extra := id.PrincipalID(uuid.New())

	_, err := s.store.Execute(ctx,
		func(st *models.RouterState) error { return nil },
		func(st *models.RouterState) { st.ApplyGrantRole(models.RoleGovernor, extra, s.now) },
	)
	s.Require().NoError(err)

	st, err := s.store.Get(ctx)
	s.Require().NoError(err)
	s.True(st.HasRole(models.RoleGovernor, extra))

	_, err = s.store.Execute(ctx,
		func(st *models.RouterState) error { return nil },
		func(st *models.RouterState) { st.ApplyRevokeRole(models.RoleGovernor, extra, s.now) },
	)
	s.Require().NoError(err)

	st, err = s.store.Get(ctx)
	s.Require().NoError(err)
	s.False(st.HasRole(models.RoleGovernor, extra))
	s.True(st.HasRole(models.RoleGovernor, s.governor), "other memberships survive the reconcile")
}
