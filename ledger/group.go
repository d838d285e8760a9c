package ledger

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// installmentRe matches the suffix Expand appends to every generated row.
var installmentRe = regexp.MustCompile(`^(.*) \((\d+)/(\d+)\. Installment\)$`)

// InstallmentInfo describes a row's membership in an installment group.
type InstallmentInfo struct {
	Base  string // description before the suffix
	Seq   int    // 1-based position within the group
	Count int    // total number of installments
}

// ParseInstallment extracts installment membership from a description.
// The second return value is false for ordinary rows.
func ParseInstallment(desc string) (InstallmentInfo, bool) {
	m := installmentRe.FindStringSubmatch(desc)
	if m == nil {
		return InstallmentInfo{}, false
	}
	seq, err1 := strconv.Atoi(m[2])
	count, err2 := strconv.Atoi(m[3])
	if err1 != nil || err2 != nil || seq < 1 || count < MinInstallments || seq > count {
		return InstallmentInfo{}, false
	}
	return InstallmentInfo{Base: m[1], Seq: seq, Count: count}, true
}

// Siblings resolves the full installment group of the row with the given id,
// the row itself included. For a row that is not an installment the result
// is the singleton set, and an unknown id yields nil.
//
// There is no foreign key between installment rows, only the synthesized
// description, so the match is a deliberate heuristic carried over from the
// sheet format: description contains the group's base text, carries the
// exact "/N. Installment" suffix, and the amount per row is identical.
// Matching is plain substring containment, never a regex over user text, so
// special characters in the base need no escaping.
func Siblings(txs []Transaction, targetID int64) []int64 {
	var target *Transaction
	for i := range txs {
		if txs[i].ID == targetID {
			target = &txs[i]
			break
		}
	}
	if target == nil {
		return nil
	}
	info, ok := ParseInstallment(target.Description)
	if !ok {
		return []int64{targetID}
	}

	// The last installment absorbs the rounding residue, so its amount can
	// differ from its siblings by up to one cent per preceding row. Anything
	// farther apart is a different purchase that happens to share text.
	tolerance := decimal.New(int64(info.Count-1), -2)

	suffix := fmt.Sprintf("/%d. Installment)", info.Count)
	ids := make([]int64, 0, info.Count)
	for _, t := range txs {
		if strings.Contains(t.Description, info.Base) &&
			strings.Contains(t.Description, suffix) &&
			t.Amount.Sub(target.Amount).Abs().LessThanOrEqual(tolerance) {
			ids = append(ids, t.ID)
		}
	}
	slices.Sort(ids)
	return ids
}
