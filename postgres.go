package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BBCN-TB/butce-takip/ledger"
)

// PostgresStore is the Postgres-backed persistence gateway. Row deletion is
// a real delete here, not the snapshot-rewrite the sheet backend needs.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Close() error { return s.db.Close() }

func (s *PostgresStore) ReadAll(ctx context.Context) ([]ledger.Transaction, error) {
	const query = `
		SELECT id, date, category, description, amount::text, kind
		FROM transactions
		ORDER BY date DESC, id DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	defer rows.Close()

	txs := make([]ledger.Transaction, 0)
	for rows.Next() {
		var (
			t      ledger.Transaction
			date   time.Time
			amount string
			kind   string
		)
		if err := rows.Scan(&t.ID, &date, &t.Category, &t.Description, &amount, &kind); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
		}
		t.Date = ledger.NewDate(date.Date())
		t.Kind = ledger.Kind(kind)
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("%w: bad amount %q: %v", ErrPersistenceUnavailable, amount, err)
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	return txs, nil
}

func (s *PostgresStore) AppendBatch(ctx context.Context, batchID uuid.UUID, txs []ledger.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	defer tx.Rollback()

	const insert = `
		INSERT INTO transactions (date, month_name, year, category, description, amount, kind, batch_id, batch_seq)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (batch_id, batch_seq) DO NOTHING
	`
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	defer stmt.Close()

	for seq, t := range txs {
		_, err := stmt.ExecContext(ctx,
			t.Date.String(), t.MonthName(), t.Year(),
			t.Category, t.Description, t.Amount.StringFixed(2), string(t.Kind),
			batchID.String(), seq,
		)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	return nil
}

func (s *PostgresStore) DeleteByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ANY($1)`, ids); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	return nil
}

func (s *PostgresStore) PriceSnapshot(ctx context.Context) (ledger.PriceSnapshot, error) {
	var gold, silver string
	err := s.db.QueryRowContext(ctx,
		`SELECT gram_gold::text, gram_silver::text FROM price_snapshot WHERE id = 1`,
	).Scan(&gold, &silver)
	if err != nil {
		return ledger.PriceSnapshot{}, fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	var snap ledger.PriceSnapshot
	if snap.GramGold, err = decimal.NewFromString(gold); err != nil {
		return ledger.PriceSnapshot{}, fmt.Errorf("%w: bad gold price %q: %v", ErrPersistenceUnavailable, gold, err)
	}
	if snap.GramSilver, err = decimal.NewFromString(silver); err != nil {
		return ledger.PriceSnapshot{}, fmt.Errorf("%w: bad silver price %q: %v", ErrPersistenceUnavailable, silver, err)
	}
	return snap, nil
}

func (s *PostgresStore) SetPriceSnapshot(ctx context.Context, snap ledger.PriceSnapshot) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE price_snapshot SET gram_gold = $1, gram_silver = $2, updated_at = CURRENT_TIMESTAMP WHERE id = 1`,
		snap.GramGold.StringFixed(2), snap.GramSilver.StringFixed(2),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	return nil
}
