package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Installment counts accepted by the entry form.
const (
	MinInstallments = 2
	MaxInstallments = 12
)

// Expand splits one logical expense into n monthly rows.
//
// Each row carries total/n rounded half-up to two decimals; the final row
// absorbs the rounding residue (last = total − sum of the first n−1) so the
// rows always sum back to the original total to the cent. Dates advance by
// one calendar month per row with day-of-month clamping, and descriptions
// gain the " (i/n. Installment)" suffix that later drives group resolution.
func Expand(t Transaction, n int) ([]Transaction, error) {
	if n < MinInstallments || n > MaxInstallments {
		return nil, fmt.Errorf("%w: %d not in [%d,%d]", ErrInvalidInstallments, n, MinInstallments, MaxInstallments)
	}
	total := t.Amount.Round(2)
	per := total.Div(decimal.NewFromInt(int64(n))).Round(2)
	if !per.IsPositive() {
		return nil, fmt.Errorf("%w: %s is too small to split into %d installments", ErrInvalidAmount, total, n)
	}
	last := total.Sub(per.Mul(decimal.NewFromInt(int64(n - 1))))
	if !last.IsPositive() {
		return nil, fmt.Errorf("%w: %s is too small to split into %d installments", ErrInvalidAmount, total, n)
	}

	rows := make([]Transaction, 0, n)
	for i := 0; i < n; i++ {
		amount := per
		if i == n-1 {
			amount = last
		}
		rows = append(rows, Transaction{
			Date:        t.Date.AddMonths(i),
			Category:    t.Category,
			Description: fmt.Sprintf("%s (%d/%d. Installment)", t.Description, i+1, n),
			Amount:      amount,
			Kind:        t.Kind,
		})
	}
	return rows, nil
}
