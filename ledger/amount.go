package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a monetary amount written in either the local
// "1.234,56" convention (grouping dots, decimal comma) or the plain
// "1234.56" convention. Both normalize to the same decimal value.
// Unparseable or ambiguous input is an ErrInvalidAmount; it is never
// silently coerced to zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := parseLocalizedDecimal(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d, nil
}

// ParseQuantity parses a unit quantity (grams, shares) with the same locale
// rules as ParseAmount.
func ParseQuantity(s string) (decimal.Decimal, error) {
	d, err := parseLocalizedDecimal(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidQuantity, s)
	}
	return d, nil
}

func parseLocalizedDecimal(s string) (decimal.Decimal, error) {
	norm, err := normalizeDecimalText(s)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(norm)
}

// normalizeDecimalText rewrites a localized numeric string into the plain
// dot-decimal form decimal.NewFromString accepts.
//
// Separator rules: with both '.' and ',' present, the rightmost one is the
// decimal separator and the other must be well-formed grouping. A lone comma
// is a decimal comma. A lone dot is a decimal point, except when dots repeat
// in thousands positions ("1.234.567"), which is grouping.
func normalizeDecimalText(s string) (string, error) {
	s = strings.TrimSpace(s)
	// Tolerate a trailing currency marker pasted in from the sheet.
	for _, suffix := range []string{"₺", "TL", "tl"} {
		s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
	}
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return "", fmt.Errorf("empty amount")
	}

	neg := false
	if s[0] == '+' || s[0] == '-' {
		neg = s[0] == '-'
		s = s[1:]
	}

	lastDot := strings.LastIndexByte(s, '.')
	lastComma := strings.LastIndexByte(s, ',')
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			// "1.234,56": dots group, comma is the decimal mark.
			if strings.Count(s, ",") > 1 {
				return "", fmt.Errorf("multiple decimal commas")
			}
			if !validGrouping(s[:lastComma], '.') {
				return "", fmt.Errorf("malformed digit grouping")
			}
			s = strings.ReplaceAll(s[:lastComma], ".", "") + "." + s[lastComma+1:]
		} else {
			// "1,234.56": commas group, dot is the decimal mark.
			if strings.Count(s, ".") > 1 {
				return "", fmt.Errorf("multiple decimal points")
			}
			if !validGrouping(s[:lastDot], ',') {
				return "", fmt.Errorf("malformed digit grouping")
			}
			s = strings.ReplaceAll(s[:lastDot], ",", "") + s[lastDot:]
		}
	case lastComma >= 0:
		// "1234,56": decimal comma.
		if strings.Count(s, ",") > 1 {
			return "", fmt.Errorf("multiple decimal commas")
		}
		s = s[:lastComma] + "." + s[lastComma+1:]
	case strings.Count(s, ".") > 1:
		// "1.234.567": repeated dots can only be grouping.
		if !validGrouping(s, '.') {
			return "", fmt.Errorf("malformed digit grouping")
		}
		s = strings.ReplaceAll(s, ".", "")
	}

	if !digitsWithOptionalPoint(s) {
		return "", fmt.Errorf("not a number")
	}
	if neg {
		s = "-" + s
	}
	return s, nil
}

// validGrouping reports whether the integer part uses sep strictly as a
// thousands separator: groups of three, leading group of one to three.
func validGrouping(intPart string, sep byte) bool {
	groups := strings.Split(intPart, string(sep))
	for i, g := range groups {
		if i == 0 {
			if len(g) < 1 || len(g) > 3 {
				return false
			}
			continue
		}
		if len(g) != 3 {
			return false
		}
	}
	for _, g := range groups {
		for _, r := range g {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}

func digitsWithOptionalPoint(s string) bool {
	dot := false
	if s == "" || s == "." {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return true
}
