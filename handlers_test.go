package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BBCN-TB/butce-takip/ledger"
)

// memStore is an in-memory gateway for handler tests.
type memStore struct {
	rows   []ledger.Transaction
	nextID int64
	snap   ledger.PriceSnapshot
	fail   error
}

func newMemStore() *memStore {
	return &memStore{
		nextID: 1,
		snap: ledger.PriceSnapshot{
			GramGold:   decimal.Zero,
			GramSilver: decimal.Zero,
		},
	}
}

func (m *memStore) ReadAll(ctx context.Context) ([]ledger.Transaction, error) {
	if m.fail != nil {
		return nil, m.fail
	}
	out := make([]ledger.Transaction, len(m.rows))
	copy(out, m.rows)
	return out, nil
}

func (m *memStore) AppendBatch(ctx context.Context, batchID uuid.UUID, rows []ledger.Transaction) error {
	if m.fail != nil {
		return m.fail
	}
	for _, r := range rows {
		r.ID = m.nextID
		m.nextID++
		m.rows = append(m.rows, r)
	}
	return nil
}

func (m *memStore) DeleteByIDs(ctx context.Context, ids []int64) error {
	if m.fail != nil {
		return m.fail
	}
	drop := make(map[int64]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := m.rows[:0]
	for _, r := range m.rows {
		if !drop[r.ID] {
			kept = append(kept, r)
		}
	}
	m.rows = kept
	return nil
}

func (m *memStore) Close() error { return nil }

func (m *memStore) PriceSnapshot(ctx context.Context) (ledger.PriceSnapshot, error) {
	if m.fail != nil {
		return ledger.PriceSnapshot{}, m.fail
	}
	return m.snap, nil
}

func (m *memStore) SetPriceSnapshot(ctx context.Context, s ledger.PriceSnapshot) error {
	if m.fail != nil {
		return m.fail
	}
	m.snap = s
	return nil
}

func newTestServer(m *memStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	newServer(m, m, nil).routes(r)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAddAndListTransactions(t *testing.T) {
	r := newTestServer(newMemStore())

	w := doJSON(t, r, http.MethodPost, "/api/transactions", ledger.Entry{
		Date:        "2026-08-02",
		Kind:        "Gider",
		Category:    "Market",
		Description: "Haftalık alışveriş",
		Amount:      "1.234,56",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("POST status = %d, body %s", w.Code, w.Body)
	}

	w = doJSON(t, r, http.MethodGet, "/api/transactions", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET status = %d", w.Code)
	}
	var list []transactionJSON
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("got %d rows", len(list))
	}
	got := list[0]
	if got.Amount != "1234.56" || got.MonthName != "Ağustos" || got.Year != 2026 {
		t.Errorf("row = %+v", got)
	}
}

func TestAddTransactionRejectsBadAmount(t *testing.T) {
	m := newMemStore()
	r := newTestServer(m)

	w := doJSON(t, r, http.MethodPost, "/api/transactions", ledger.Entry{
		Date:        "2026-08-02",
		Kind:        "Gider",
		Category:    "Market",
		Description: "x",
		Amount:      "12,34,56",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if len(m.rows) != 0 {
		t.Errorf("invalid entry was persisted: %+v", m.rows)
	}
}

func TestAddInstallmentsCreatesBatch(t *testing.T) {
	m := newMemStore()
	r := newTestServer(m)

	w := doJSON(t, r, http.MethodPost, "/api/transactions", ledger.Entry{
		Date:         "2026-01-31",
		Kind:         "Gider",
		Category:     "Diğer",
		Description:  "Laptop",
		Amount:       "30000",
		Installments: 3,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	if len(m.rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(m.rows))
	}
	if m.rows[2].Description != "Laptop (3/3. Installment)" {
		t.Errorf("last row = %+v", m.rows[2])
	}
}

func TestDeleteInstallmentGroup(t *testing.T) {
	m := newMemStore()
	r := newTestServer(m)

	doJSON(t, r, http.MethodPost, "/api/transactions", ledger.Entry{
		Date:         "2026-01-15",
		Kind:         "Gider",
		Category:     "Diğer",
		Description:  "Laptop",
		Amount:       "30000",
		Installments: 3,
	})
	doJSON(t, r, http.MethodPost, "/api/transactions", ledger.Entry{
		Date:        "2026-01-16",
		Kind:        "Gider",
		Category:    "Diğer",
		Description: "Laptop Bag",
		Amount:      "500",
	})

	w := doJSON(t, r, http.MethodDelete, "/api/transactions/2?group=true", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	if len(m.rows) != 1 || m.rows[0].Description != "Laptop Bag" {
		t.Errorf("surviving rows = %+v", m.rows)
	}
}

func TestDeleteSingleRow(t *testing.T) {
	m := newMemStore()
	r := newTestServer(m)

	doJSON(t, r, http.MethodPost, "/api/transactions", ledger.Entry{
		Date: "2026-08-01", Kind: "Gelir", Category: "Maaş", Amount: "45000",
	})
	w := doJSON(t, r, http.MethodDelete, "/api/transactions/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if len(m.rows) != 0 {
		t.Errorf("rows = %+v", m.rows)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	m := newMemStore()
	r := newTestServer(m)

	doJSON(t, r, http.MethodPost, "/api/transactions", ledger.Entry{
		Date: "2026-08-01", Kind: "Gelir", Category: "Maaş", Amount: "45000",
	})
	doJSON(t, r, http.MethodPost, "/api/transactions", ledger.Entry{
		Date: "2026-08-05", Kind: "Gider", Category: "Kira", Amount: "15000",
	})
	doJSON(t, r, http.MethodPost, "/api/transactions", ledger.Entry{
		Date: "2026-08-10", Kind: "Yatırım", Category: "Altın", Amount: "25000", Quantity: "5",
	})

	w := doJSON(t, r, http.MethodGet, "/api/summary?year=2026&month=8", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var s summaryJSON
	if err := json.Unmarshal(w.Body.Bytes(), &s); err != nil {
		t.Fatal(err)
	}
	if s.TotalIncome != "45000.00" || s.TotalExpense != "15000.00" || s.TotalInvestment != "25000.00" {
		t.Errorf("summary = %+v", s)
	}
	if s.RemainingCash != "5000.00" {
		t.Errorf("remaining = %s", s.RemainingCash)
	}
}

func TestPortfolioEndpoint(t *testing.T) {
	m := newMemStore()
	r := newTestServer(m)

	doJSON(t, r, http.MethodPost, "/api/transactions", ledger.Entry{
		Date: "2026-08-10", Kind: "Yatırım", Category: "Altın",
		Description: "Gram altın", Amount: "25000", Quantity: "5",
	})

	w := doJSON(t, r, http.MethodPut, "/api/prices", pricesRequest{
		GramGold: "6500", GramSilver: "80",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("PUT prices status = %d, body %s", w.Code, w.Body)
	}

	w = doJSON(t, r, http.MethodGet, "/api/portfolio", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var p portfolioJSON
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	if len(p.Rows) != 1 {
		t.Fatalf("rows = %+v", p.Rows)
	}
	if p.Rows[0].CurrentValue != "32500.00" || p.Rows[0].GainLoss != "7500.00" {
		t.Errorf("row = %+v", p.Rows[0])
	}
	if p.GainLoss != "7500.00" {
		t.Errorf("portfolio gain = %s", p.GainLoss)
	}
}

func TestPricesValidation(t *testing.T) {
	r := newTestServer(newMemStore())

	w := doJSON(t, r, http.MethodPut, "/api/prices", pricesRequest{
		GramGold: "çok pahalı", GramSilver: "80",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestPersistenceFailureSurfaces(t *testing.T) {
	m := newMemStore()
	m.fail = ErrPersistenceUnavailable
	r := newTestServer(m)

	w := doJSON(t, r, http.MethodGet, "/api/transactions", nil)
	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}
}

func TestMonthFilterValidation(t *testing.T) {
	r := newTestServer(newMemStore())
	w := doJSON(t, r, http.MethodGet, "/api/summary?month=13", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCategoriesEndpoint(t *testing.T) {
	r := newTestServer(newMemStore())
	w := doJSON(t, r, http.MethodGet, "/api/categories", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var cats map[string][]string
	if err := json.Unmarshal(w.Body.Bytes(), &cats); err != nil {
		t.Fatal(err)
	}
	if len(cats["Gider"]) == 0 || len(cats["Yatırım"]) == 0 {
		t.Errorf("categories = %+v", cats)
	}
}
