package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// PeriodFilter selects rows by year and optionally by month. A zero Year
// matches every year; a zero Month matches the whole year.
type PeriodFilter struct {
	Year  int
	Month time.Month
}

// Match reports whether a transaction falls inside the period.
func (f PeriodFilter) Match(t Transaction) bool {
	if f.Year != 0 && t.Date.Year() != f.Year {
		return false
	}
	if f.Month != 0 && t.Date.Month() != f.Month {
		return false
	}
	return true
}

// Filter returns the transactions inside the period, in input order.
func Filter(txs []Transaction, f PeriodFilter) []Transaction {
	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// CategoryTotal is one slice of the spending distribution chart.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// KindTotal is one bar of the income/expense/investment balance chart.
type KindTotal struct {
	Kind  Kind            `json:"kind"`
	Total decimal.Decimal `json:"total"`
}

// PeriodSummary is the aggregate view of one period.
type PeriodSummary struct {
	TotalIncome     decimal.Decimal `json:"total_income"`
	TotalExpense    decimal.Decimal `json:"total_expense"`
	TotalInvestment decimal.Decimal `json:"total_investment"`
	RemainingCash   decimal.Decimal `json:"remaining_cash"`
	ByCategory      []CategoryTotal `json:"by_category"`
	ByKind          []KindTotal     `json:"by_kind"`
	Count           int             `json:"count"`
}

// Aggregate computes the period summary over the filtered rows. It is pure
// and order-independent: shuffling the input produces the same summary.
// Remaining cash is income minus expenses minus investment cost.
//
// The category breakdown covers expense and investment rows only, which is
// what the distribution chart plots; income has no category spread worth
// charting in this model.
func Aggregate(txs []Transaction, f PeriodFilter) PeriodSummary {
	s := PeriodSummary{
		TotalIncome:     decimal.Zero,
		TotalExpense:    decimal.Zero,
		TotalInvestment: decimal.Zero,
	}
	byCategory := make(map[string]decimal.Decimal)

	for _, t := range txs {
		if !f.Match(t) {
			continue
		}
		s.Count++
		switch t.Kind {
		case Income:
			s.TotalIncome = s.TotalIncome.Add(t.Amount)
		case Expense:
			s.TotalExpense = s.TotalExpense.Add(t.Amount)
			byCategory[t.Category] = byCategory[t.Category].Add(t.Amount)
		case Investment:
			s.TotalInvestment = s.TotalInvestment.Add(t.Amount)
			byCategory[t.Category] = byCategory[t.Category].Add(t.Amount)
		}
	}
	s.RemainingCash = s.TotalIncome.Sub(s.TotalExpense).Sub(s.TotalInvestment)

	s.ByCategory = make([]CategoryTotal, 0, len(byCategory))
	for category, total := range byCategory {
		s.ByCategory = append(s.ByCategory, CategoryTotal{Category: category, Total: total})
	}
	// Largest first, name as the deterministic tie-break.
	sort.Slice(s.ByCategory, func(i, j int) bool {
		if !s.ByCategory[i].Total.Equal(s.ByCategory[j].Total) {
			return s.ByCategory[i].Total.GreaterThan(s.ByCategory[j].Total)
		}
		return s.ByCategory[i].Category < s.ByCategory[j].Category
	})

	s.ByKind = []KindTotal{
		{Kind: Income, Total: s.TotalIncome},
		{Kind: Expense, Total: s.TotalExpense},
		{Kind: Investment, Total: s.TotalInvestment},
	}
	return s
}
