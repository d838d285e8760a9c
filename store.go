package main

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/BBCN-TB/butce-takip/ledger"
)

// ErrPersistenceUnavailable wraps every backend read/write failure. Handlers
// surface it to the user and abort the operation; nothing partial is kept
// and nothing is retried implicitly.
var ErrPersistenceUnavailable = errors.New("persistence unavailable")

// Store is the persistence gateway for transaction rows. Implementations own
// whatever locking or transaction discipline their backend needs; the ledger
// core stays a pure function over the snapshot ReadAll returns.
type Store interface {
	// ReadAll returns every stored row.
	ReadAll(ctx context.Context) ([]ledger.Transaction, error)

	// AppendBatch persists all rows or none of them. The batch ID makes the
	// call idempotent: replaying the same batch must not duplicate rows.
	AppendBatch(ctx context.Context, batchID uuid.UUID, rows []ledger.Transaction) error

	// DeleteByIDs removes the given rows. Unknown IDs are ignored.
	DeleteByIDs(ctx context.Context, ids []int64) error

	Close() error
}

// PriceStore persists the spot price snapshot used for portfolio valuation.
type PriceStore interface {
	PriceSnapshot(ctx context.Context) (ledger.PriceSnapshot, error)
	SetPriceSnapshot(ctx context.Context, s ledger.PriceSnapshot) error
}
