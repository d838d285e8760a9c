package ledger

import "errors"

// Validation failures surfaced at the entry boundary. Callers are expected
// to match them with errors.Is and re-prompt the user; nothing here is fatal
// to the service.
var (
	// ErrInvalidAmount marks an amount that is unparseable, ambiguous, or
	// not strictly positive. Bad amounts are rejected, never coerced to zero.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidQuantity marks a malformed bracketed quantity. It is fatal
	// when the quantity is supplied at entry time, and non-fatal during
	// valuation where the row falls back to its cost basis.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInvalidCategory marks a category outside the fixed vocabulary of
	// the transaction's kind.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrInvalidKind marks an unrecognized transaction kind.
	ErrInvalidKind = errors.New("invalid kind")

	// ErrInvalidDate marks a date that does not parse as ISO-8601.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidInstallments marks an installment count outside [2,12] or an
	// installment request on a kind that cannot be split.
	ErrInvalidInstallments = errors.New("invalid installment count")
)
