package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BBCN-TB/butce-takip/ledger"
)

// csvHeader is the sheet-compatible 7-column row schema.
var csvHeader = []string{"date", "month_name", "year", "category", "description", "amount", "kind"}

// CSVStore keeps the ledger in a single CSV file, the closest stand-in for
// the hosted spreadsheet the dashboard originally wrote to.
//
// Row IDs are 1-based line positions assigned when the file is read; the
// format has no room for anything better. Every mutation is a snapshot
// rewrite: read the whole file, apply the change, write a temp file and
// rename it over the original. The rename makes each mutation all-or-nothing
// on its own, and the mutex serializes writers within this process — two
// separate processes writing the same file can still race, which is the
// documented limit of this backend.
type CSVStore struct {
	mu         sync.Mutex
	path       string
	pricesPath string
}

func NewCSVStore(path, pricesPath string) *CSVStore {
	return &CSVStore{path: path, pricesPath: pricesPath}
}

func (s *CSVStore) Close() error { return nil }

func (s *CSVStore) ReadAll(ctx context.Context) ([]ledger.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked()
}

func (s *CSVStore) readLocked() ([]ledger.Transaction, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []ledger.Transaction{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}

	txs := make([]ledger.Transaction, 0, len(records))
	for i, rec := range records {
		if i == 0 && len(rec) > 0 && rec[0] == csvHeader[0] {
			continue
		}
		t, err := decodeRow(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrPersistenceUnavailable, i+1, err)
		}
		t.ID = int64(len(txs) + 1)
		txs = append(txs, t)
	}
	return txs, nil
}

func decodeRow(rec []string) (ledger.Transaction, error) {
	if len(rec) != len(csvHeader) {
		return ledger.Transaction{}, fmt.Errorf("want %d columns, got %d", len(csvHeader), len(rec))
	}
	date, err := ledger.ParseDate(rec[0])
	if err != nil {
		return ledger.Transaction{}, err
	}
	amount, err := decimal.NewFromString(rec[5])
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("bad amount %q: %v", rec[5], err)
	}
	return ledger.Transaction{
		Date:        date,
		Category:    rec[3],
		Description: rec[4],
		Amount:      amount,
		Kind:        ledger.Kind(rec[6]),
	}, nil
}

func encodeRow(t ledger.Transaction) []string {
	return []string{
		t.Date.String(),
		t.MonthName(),
		strconv.Itoa(t.Year()),
		t.Category,
		t.Description,
		t.Amount.StringFixed(2),
		string(t.Kind),
	}
}

// AppendBatch rewrites the file with the new rows at the end. The batch ID
// is not persisted: the CSV schema has no column for it, so idempotent
// replay is only available on the Postgres backend.
func (s *CSVStore) AppendBatch(ctx context.Context, batchID uuid.UUID, rows []ledger.Transaction) error {
	if len(rows) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.readLocked()
	if err != nil {
		return err
	}
	return s.writeLocked(append(existing, rows...))
}

func (s *CSVStore) DeleteByIDs(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.readLocked()
	if err != nil {
		return err
	}
	drop := make(map[int64]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := make([]ledger.Transaction, 0, len(existing))
	for _, t := range existing {
		if !drop[t.ID] {
			kept = append(kept, t)
		}
	}
	return s.writeLocked(kept)
}

// writeLocked writes the full snapshot to a temp file and renames it over
// the ledger file, so a failed write never leaves a half-written ledger.
func (s *CSVStore) writeLocked(txs []ledger.Transaction) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".butce-*.csv")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(csvHeader); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	for _, t := range txs {
		if err := w.Write(encodeRow(t)); err != nil {
			tmp.Close()
			return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	return nil
}

func (s *CSVStore) PriceSnapshot(ctx context.Context) (ledger.PriceSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.pricesPath)
	if errors.Is(err, fs.ErrNotExist) {
		return ledger.PriceSnapshot{GramGold: decimal.Zero, GramSilver: decimal.Zero}, nil
	}
	if err != nil {
		return ledger.PriceSnapshot{}, fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	var snap ledger.PriceSnapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return ledger.PriceSnapshot{}, fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	return snap, nil
}

func (s *CSVStore) SetPriceSnapshot(ctx context.Context, snap ledger.PriceSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	tmp := s.pricesPath + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	if err := os.Rename(tmp, s.pricesPath); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)
	}
	return nil
}
