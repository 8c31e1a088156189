package state

import (
	"context"
	"database/sql"
	"fmt"

	"treasury/internal/distribution/models"
	id "treasury/pkg/domain"
	"treasury/pkg/platform/sentinel"
)

// Postgres persists the singleton aggregate in PostgreSQL. The state row is
// locked FOR UPDATE for the whole Execute callback, giving the same
// validate-then-mutate atomicity as the in-memory store's mutex.
//
// Schema:
//
//	CREATE TABLE treasury_state (
//	    id                SMALLINT PRIMARY KEY CHECK (id = 1),
//	    phase             TEXT NOT NULL,
//	    founder_bps       INTEGER NOT NULL,
//	    dao_bps           INTEGER NOT NULL,
//	    charity_bps       INTEGER NOT NULL,
//	    sched_founder_bps INTEGER,
//	    sched_dao_bps     INTEGER,
//	    sched_charity_bps INTEGER,
//	    sched_at          TIMESTAMPTZ,
//	    sched_apply_at    TIMESTAMPTZ,
//	    dest_founder      TEXT NOT NULL,
//	    dest_dao          TEXT NOT NULL,
//	    dest_charity      TEXT NOT NULL,
//	    upgrade_target    TEXT NOT NULL DEFAULT '',
//	    updated_at        TIMESTAMPTZ NOT NULL
//	);
//
//	CREATE TABLE treasury_roles (
//	    role      TEXT NOT NULL,
//	    principal UUID NOT NULL,
//	    PRIMARY KEY (role, principal)
//	);
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed state store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Init seeds the aggregate. Fails with ErrConflict when the row exists.
func (s *Postgres) Init(ctx context.Context, st *models.RouterState) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin init state: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO treasury_state
			(id, phase, founder_bps, dao_bps, charity_bps, dest_founder, dest_dao, dest_charity, upgrade_target, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`,
		string(st.Phase),
		st.Split.FounderBps, st.Split.DaoBps, st.Split.CharityBps,
		string(st.Destinations.Founder), string(st.Destinations.Dao), string(st.Destinations.Charity),
		st.UpgradeTarget,
		st.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert state: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("init state rows affected: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrConflict
	}
	if err := writeRoles(ctx, tx, st.Roles); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit init state: %w", err)
	}
	return nil
}

// Get returns a snapshot of the aggregate without locking.
func (s *Postgres) Get(ctx context.Context) (*models.RouterState, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("begin get state: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()
	return loadState(ctx, tx, false)
}

// Execute locks the state row, runs check then apply, and persists the
// mutated aggregate. A check failure rolls back and returns the error
// unchanged so services keep their domain codes.
func (s *Postgres) Execute(ctx context.Context, check func(*models.RouterState) error, apply func(*models.RouterState)) (*models.RouterState, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin execute state: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	st, err := loadState(ctx, tx, true)
	if err != nil {
		return nil, err
	}
	if err := check(st); err != nil {
		return nil, err
	}
	apply(st)

	if err := saveState(ctx, tx, st); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit execute state: %w", err)
	}
	return st, nil
}

func loadState(ctx context.Context, tx *sql.Tx, forUpdate bool) (*models.RouterState, error) {
	query := `
		SELECT phase, founder_bps, dao_bps, charity_bps,
		       sched_founder_bps, sched_dao_bps, sched_charity_bps, sched_at, sched_apply_at,
		       dest_founder, dest_dao, dest_charity, upgrade_target, updated_at
		FROM treasury_state
		WHERE id = 1
	`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var st models.RouterState
	var phase string
	var schedFounder, schedDao, schedCharity sql.NullInt32
	var schedAt, schedApplyAt sql.NullTime
	err := tx.QueryRowContext(ctx, query).Scan(
		&phase,
		&st.Split.FounderBps, &st.Split.DaoBps, &st.Split.CharityBps,
		&schedFounder, &schedDao, &schedCharity, &schedAt, &schedApplyAt,
		&st.Destinations.Founder, &st.Destinations.Dao, &st.Destinations.Charity,
		&st.UpgradeTarget, &st.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("load state: %w", err)
	}
	st.Phase = models.Phase(phase)

	if schedFounder.Valid {
		st.Scheduled = &models.ScheduledSplit{
			Split: models.Split{
				FounderBps: schedFounder.Int32,
				DaoBps:     schedDao.Int32,
				CharityBps: schedCharity.Int32,
			},
			ScheduledAt: schedAt.Time,
			ApplyAt:     schedApplyAt.Time,
		}
	}

	roles, err := loadRoles(ctx, tx)
	if err != nil {
		return nil, err
	}
	st.Roles = roles
	return &st, nil
}

func saveState(ctx context.Context, tx *sql.Tx, st *models.RouterState) error {
	var schedFounder, schedDao, schedCharity sql.NullInt32
	var schedAt, schedApplyAt sql.NullTime
	if st.Scheduled != nil {
		schedFounder = sql.NullInt32{Int32: st.Scheduled.Split.FounderBps, Valid: true}
		schedDao = sql.NullInt32{Int32: st.Scheduled.Split.DaoBps, Valid: true}
		schedCharity = sql.NullInt32{Int32: st.Scheduled.Split.CharityBps, Valid: true}
		schedAt = sql.NullTime{Time: st.Scheduled.ScheduledAt, Valid: true}
		schedApplyAt = sql.NullTime{Time: st.Scheduled.ApplyAt, Valid: true}
	}

	_, err := tx.ExecContext(ctx, `
		UPDATE treasury_state SET
			phase = $1,
			founder_bps = $2, dao_bps = $3, charity_bps = $4,
			sched_founder_bps = $5, sched_dao_bps = $6, sched_charity_bps = $7,
			sched_at = $8, sched_apply_at = $9,
			dest_founder = $10, dest_dao = $11, dest_charity = $12,
			upgrade_target = $13, updated_at = $14
		WHERE id = 1
	`,
		string(st.Phase),
		st.Split.FounderBps, st.Split.DaoBps, st.Split.CharityBps,
		schedFounder, schedDao, schedCharity, schedAt, schedApplyAt,
		string(st.Destinations.Founder), string(st.Destinations.Dao), string(st.Destinations.Charity),
		st.UpgradeTarget, st.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}

	// Role churn is rare, so a full reconcile beats diffing.
	if _, err := tx.ExecContext(ctx, `DELETE FROM treasury_roles`); err != nil {
		return fmt.Errorf("clear roles: %w", err)
	}
	return writeRoles(ctx, tx, st.Roles)
}

func loadRoles(ctx context.Context, tx *sql.Tx) (models.RoleSet, error) {
	rows, err := tx.QueryContext(ctx, `SELECT role, principal FROM treasury_roles`)
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}
	defer rows.Close()

	roles := models.RoleSet{}
	for rows.Next() {
		var role, principal string
		if err := rows.Scan(&role, &principal); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		p, err := id.ParsePrincipalID(principal)
		if err != nil {
			return nil, fmt.Errorf("parse role principal: %w", err)
		}
		roles.Grant(models.Role(role), p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate roles: %w", err)
	}
	return roles, nil
}

func writeRoles(ctx context.Context, tx *sql.Tx, roles models.RoleSet) error {
	for _, role := range []models.Role{models.RoleAdministrator, models.RoleGovernor} {
		for _, principal := range roles.Members(role) {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO treasury_roles (role, principal) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
				string(role), principal.String(),
			)
			if err != nil {
				return fmt.Errorf("write role: %w", err)
			}
		}
	}
	return nil
}
