package ledger

import (
	"context"
	"database/sql"
	"fmt"

	id "treasury/pkg/domain"
)

// Postgres persists balances in PostgreSQL. Each router instance scopes its
// rows by account so the phased router and the passthrough router can share
// the table.
//
// Schema:
//
//	CREATE TABLE treasury_balances (
//	    account TEXT NOT NULL,
//	    asset   TEXT NOT NULL,
//	    balance BIGINT NOT NULL CHECK (balance >= 0),
//	    PRIMARY KEY (account, asset)
//	);
type Postgres struct {
	db      *sql.DB
	account string
}

// NewPostgres constructs a PostgreSQL-backed ledger scoped to one account.
func NewPostgres(db *sql.DB, account string) *Postgres {
	return &Postgres{db: db, account: account}
}

// Deposit credits the asset balance and returns the new total.
func (s *Postgres) Deposit(ctx context.Context, asset id.AssetID, amount int64) (int64, error) {
	var balance int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO treasury_balances (account, asset, balance)
		VALUES ($1, $2, $3)
		ON CONFLICT (account, asset) DO UPDATE SET
			balance = treasury_balances.balance + EXCLUDED.balance
		RETURNING balance
	`, s.account, asset.String(), amount).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("deposit: %w", err)
	}
	return balance, nil
}

// Balance reads the held amount for an asset. Unknown assets read as zero.
func (s *Postgres) Balance(ctx context.Context, asset id.AssetID) (int64, error) {
	var balance int64
	err := s.db.QueryRowContext(ctx,
		`SELECT balance FROM treasury_balances WHERE account = $1 AND asset = $2`,
		s.account, asset.String(),
	).Scan(&balance)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, fmt.Errorf("balance: %w", err)
	}
	return balance, nil
}

// Distribute locks the balance row, runs fn with the current total, then
// deletes the row. If fn fails the transaction rolls back and the balance is
// untouched: no partial payout can survive.
func (s *Postgres) Distribute(ctx context.Context, asset id.AssetID, fn func(total int64) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin distribute: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var total int64
	err = tx.QueryRowContext(ctx,
		`SELECT balance FROM treasury_balances WHERE account = $1 AND asset = $2 FOR UPDATE`,
		s.account, asset.String(),
	).Scan(&total)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("lock balance: %w", err)
	}

	if err := fn(total); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM treasury_balances WHERE account = $1 AND asset = $2`,
		s.account, asset.String(),
	); err != nil {
		return fmt.Errorf("zero balance: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit distribute: %w", err)
	}
	return nil
}
