package ledger

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// PriceSnapshot is the current gram price of the tracked metals. It is
// maintained outside the ledger and always reflects today's market, not the
// market at each row's purchase date.
type PriceSnapshot struct {
	GramGold   decimal.Decimal `json:"gram_gold"`
	GramSilver decimal.Decimal `json:"gram_silver"`
}

// quantityRe grabs the leading bracketed quantity token, "[5,5] ..." or the
// unterminated "[5,5 ..." form some hand-entered rows have.
var quantityRe = regexp.MustCompile(`^\s*\[([0-9.,]+)`)

var (
	goldTokens   = []string{"altın", "altin", "gold"}
	silverTokens = []string{"gümüş", "gumus", "silver"}
)

func containsAny(s string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(s, tok) {
			return true
		}
	}
	return false
}

// ValuedInvestment is one investment row marked to the current snapshot.
type ValuedInvestment struct {
	Transaction
	Quantity     decimal.Decimal `json:"quantity"`
	CurrentValue decimal.Decimal `json:"current_value"`
	GainLoss     decimal.Decimal `json:"gain_loss"`
}

// PortfolioSummary totals the valued rows.
type PortfolioSummary struct {
	Cost         decimal.Decimal `json:"cost"`
	CurrentValue decimal.Decimal `json:"current_value"`
	GainLoss     decimal.Decimal `json:"gain_loss"`
}

// ValuePortfolio marks every investment row in txs to the price snapshot and
// totals the result. Non-investment rows are ignored.
//
// A row values at quantity × gram price when its description carries a
// parseable bracketed quantity and its category names gold or silver. Every
// other case, including a missing or malformed quantity, falls back to the
// cost basis with zero gain: not every investment category has a spot price
// to track, so failing the whole valuation over one row would be wrong.
func ValuePortfolio(txs []Transaction, prices PriceSnapshot) ([]ValuedInvestment, PortfolioSummary) {
	rows := make([]ValuedInvestment, 0)
	sum := PortfolioSummary{
		Cost:         decimal.Zero,
		CurrentValue: decimal.Zero,
		GainLoss:     decimal.Zero,
	}
	for _, t := range txs {
		if t.Kind != Investment {
			continue
		}
		v := valueRow(t, prices)
		rows = append(rows, v)
		sum.Cost = sum.Cost.Add(t.Amount)
		sum.CurrentValue = sum.CurrentValue.Add(v.CurrentValue)
		sum.GainLoss = sum.GainLoss.Add(v.GainLoss)
	}
	return rows, sum
}

func valueRow(t Transaction, prices PriceSnapshot) ValuedInvestment {
	v := ValuedInvestment{
		Transaction:  t,
		CurrentValue: t.Amount,
		GainLoss:     decimal.Zero,
	}

	m := quantityRe.FindStringSubmatch(t.Description)
	if m == nil {
		return v
	}
	qty, err := ParseQuantity(m[1])
	if err != nil {
		return v
	}
	v.Quantity = qty

	category := strings.ToLower(t.Category)
	var price decimal.Decimal
	switch {
	case containsAny(category, goldTokens):
		price = prices.GramGold
	case containsAny(category, silverTokens):
		price = prices.GramSilver
	default:
		// No spot price tracked for this asset class; cost basis stands.
		return v
	}

	v.CurrentValue = qty.Mul(price).Round(2)
	v.GainLoss = v.CurrentValue.Sub(t.Amount)
	return v
}
