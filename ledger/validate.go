package ledger

import (
	"fmt"
	"strings"
)

// Entry is raw user input for one logical transaction, before validation.
// Amount and Quantity are textual because the entry form accepts both the
// "1.234,56" and "1234.56" conventions.
type Entry struct {
	Date         string `json:"date"`
	Kind         string `json:"kind"`
	Category     string `json:"category"`
	Description  string `json:"description"`
	Amount       string `json:"amount"`
	Quantity     string `json:"quantity,omitempty"`
	Installments int    `json:"installments,omitempty"`
}

// Build validates the entry and returns the row or rows to persist: a single
// transaction, or N installment rows when Installments is 2 or more. All
// returned rows must be persisted as one atomic batch.
//
// Every failure is reported as a typed validation error before anything is
// built; invalid input never produces a zero-amount row.
func Build(e Entry) ([]Transaction, error) {
	kind, err := ParseKind(e.Kind)
	if err != nil {
		return nil, err
	}
	date, err := ParseDate(e.Date)
	if err != nil {
		return nil, err
	}
	amount, err := ParseAmount(e.Amount)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: must be positive, got %s", ErrInvalidAmount, amount)
	}
	if !validCategory(kind, e.Category) {
		return nil, fmt.Errorf("%w: %q is not a %s category", ErrInvalidCategory, e.Category, kind)
	}

	desc := strings.TrimSpace(e.Description)
	if kind == Investment && strings.TrimSpace(e.Quantity) != "" {
		qty, err := ParseQuantity(e.Quantity)
		if err != nil {
			return nil, err
		}
		if !qty.IsPositive() {
			return nil, fmt.Errorf("%w: must be positive, got %s", ErrInvalidQuantity, qty)
		}
		// The quantity travels inside the description as a leading bracketed
		// token; that is the only place the sheet schema has room for it.
		desc = "[" + qty.String() + "] " + desc
	}

	t := Transaction{
		Date:        date,
		Category:    e.Category,
		Description: desc,
		Amount:      amount.Round(2),
		Kind:        kind,
	}

	switch {
	case e.Installments <= 1:
		return []Transaction{t}, nil
	case kind != Expense:
		return nil, fmt.Errorf("%w: only expenses can be split", ErrInvalidInstallments)
	default:
		return Expand(t, e.Installments)
	}
}
