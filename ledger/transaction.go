// Package ledger implements the bookkeeping core of the dashboard: entry
// validation, installment expansion, period aggregation and portfolio
// valuation. Everything in this package is a pure function over an in-memory
// snapshot of rows; persistence and HTTP concerns live with the caller.
package ledger

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind is the transaction axis: income, expense or investment.
type Kind string

// Wire values keep the Turkish labels of the original sheet so existing rows
// stay readable by both generations of the app.
const (
	Income     Kind = "Gelir"
	Expense    Kind = "Gider"
	Investment Kind = "Yatırım"
)

// ParseKind recognizes both the Turkish wire labels and their English
// equivalents.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "gelir", "income":
		return Income, nil
	case "gider", "expense":
		return Expense, nil
	case "yatırım", "yatirim", "investment":
		return Investment, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

// Transaction is one stored ledger row. The Amount is the cost at entry
// time; rows are never edited in place, only deleted and re-entered.
type Transaction struct {
	ID          int64           `json:"id"`
	Date        Date            `json:"date"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        Kind            `json:"kind"`
}

// MonthName returns the localized month label column of the row schema.
func (t Transaction) MonthName() string { return t.Date.MonthName() }

// Year returns the year column of the row schema.
func (t Transaction) Year() int { return t.Date.Year() }

// categoriesByKind is the fixed vocabulary per kind, carried over from the
// original app's entry form.
var categoriesByKind = map[Kind][]string{
	Expense:    {"Market", "Kira", "Fatura", "Ulaşım", "Sağlık", "Eğlence", "Giyim", "Eğitim", "Diğer"},
	Income:     {"Maaş", "Ek Gelir", "Kira Geliri", "Prim", "Diğer"},
	Investment: {"Altın", "Gümüş", "Döviz", "Hisse", "Kripto", "Fon"},
}

// Categories returns the allowed category labels for a kind.
func Categories(k Kind) []string {
	return slices.Clone(categoriesByKind[k])
}

func validCategory(k Kind, category string) bool {
	return slices.Contains(categoriesByKind[k], category)
}
