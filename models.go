package main

import (
	"github.com/BBCN-TB/butce-takip/ledger"
)

// transactionJSON is the API shape of one ledger row, exposing the full
// 7-column sheet schema plus the row identifier.
type transactionJSON struct {
	ID          int64  `json:"id"`
	Date        string `json:"date"`
	MonthName   string `json:"month_name"`
	Year        int    `json:"year"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Kind        string `json:"kind"`
}

func toTransactionJSON(t ledger.Transaction) transactionJSON {
	return transactionJSON{
		ID:          t.ID,
		Date:        t.Date.String(),
		MonthName:   t.MonthName(),
		Year:        t.Year(),
		Category:    t.Category,
		Description: t.Description,
		Amount:      t.Amount.StringFixed(2),
		Kind:        string(t.Kind),
	}
}

func toTransactionJSONList(txs []ledger.Transaction) []transactionJSON {
	// Empty slice, not nil, so the API emits [] instead of null.
	out := make([]transactionJSON, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionJSON(t))
	}
	return out
}

// pricesRequest carries the spot prices as text so both the "6.500,50" and
// "6500.50" conventions are accepted, same as amounts.
type pricesRequest struct {
	GramGold   string `json:"gram_gold"`
	GramSilver string `json:"gram_silver"`
}

// valuedInvestmentJSON is one portfolio row marked to the current snapshot.
type valuedInvestmentJSON struct {
	transactionJSON
	Quantity     string `json:"quantity"`
	CurrentValue string `json:"current_value"`
	GainLoss     string `json:"gain_loss"`
}

// portfolioJSON is the portfolio tab's payload.
type portfolioJSON struct {
	Rows         []valuedInvestmentJSON `json:"rows"`
	Cost         string                 `json:"cost"`
	CurrentValue string                 `json:"current_value"`
	GainLoss     string                 `json:"gain_loss"`
}

func toPortfolioJSON(rows []ledger.ValuedInvestment, sum ledger.PortfolioSummary) portfolioJSON {
	out := portfolioJSON{
		Rows:         make([]valuedInvestmentJSON, 0, len(rows)),
		Cost:         sum.Cost.StringFixed(2),
		CurrentValue: sum.CurrentValue.StringFixed(2),
		GainLoss:     sum.GainLoss.StringFixed(2),
	}
	for _, v := range rows {
		out.Rows = append(out.Rows, valuedInvestmentJSON{
			transactionJSON: toTransactionJSON(v.Transaction),
			Quantity:        v.Quantity.String(),
			CurrentValue:    v.CurrentValue.StringFixed(2),
			GainLoss:        v.GainLoss.StringFixed(2),
		})
	}
	return out
}

// summaryJSON is the dashboard's headline numbers plus chart breakdowns.
type summaryJSON struct {
	TotalIncome     string          `json:"total_income"`
	TotalExpense    string          `json:"total_expense"`
	TotalInvestment string          `json:"total_investment"`
	RemainingCash   string          `json:"remaining_cash"`
	ByCategory      []categoryJSON  `json:"by_category"`
	ByKind          []kindTotalJSON `json:"by_kind"`
	Count           int             `json:"count"`
}

type categoryJSON struct {
	Category string `json:"category"`
	Total    string `json:"total"`
}

type kindTotalJSON struct {
	Kind  string `json:"kind"`
	Total string `json:"total"`
}

func toSummaryJSON(s ledger.PeriodSummary) summaryJSON {
	out := summaryJSON{
		TotalIncome:     s.TotalIncome.StringFixed(2),
		TotalExpense:    s.TotalExpense.StringFixed(2),
		TotalInvestment: s.TotalInvestment.StringFixed(2),
		RemainingCash:   s.RemainingCash.StringFixed(2),
		ByCategory:      make([]categoryJSON, 0, len(s.ByCategory)),
		ByKind:          make([]kindTotalJSON, 0, len(s.ByKind)),
		Count:           s.Count,
	}
	for _, c := range s.ByCategory {
		out.ByCategory = append(out.ByCategory, categoryJSON{Category: c.Category, Total: c.Total.StringFixed(2)})
	}
	for _, k := range s.ByKind {
		out.ByKind = append(out.ByKind, kindTotalJSON{Kind: string(k.Kind), Total: k.Total.StringFixed(2)})
	}
	return out
}
