package ledger

import (
	"errors"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.234,56", "1234.56"}, // grouping dots, decimal comma
		{"1234.56", "1234.56"},  // plain decimal point
		{"1,234.56", "1234.56"}, // grouping commas, decimal point
		{"1234,56", "1234.56"},  // decimal comma, no grouping
		{"1.234.567", "1234567"},
		{"1.234.567,89", "1234567.89"},
		{"1234", "1234"},
		{"0,5", "0.5"},
		{"25000", "25000"},
		{"149,99 ₺", "149.99"},
		{"150 TL", "150"},
		{"1.234", "1.234"}, // lone dot reads as a decimal point
	}
	for _, tc := range tests {
		got, err := ParseAmount(tc.in)
		if err != nil {
			t.Errorf("ParseAmount(%q): %v", tc.in, err)
			continue
		}
		if got.String() != tc.want {
			t.Errorf("ParseAmount(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseAmountRejects(t *testing.T) {
	bad := []string{
		"", "abc", "12,34,56", "1.2.3", "12.345,67,89", "1..2", ".",
		"1,2345.6", // malformed grouping
		"12ab",
	}
	for _, in := range bad {
		if _, err := ParseAmount(in); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("ParseAmount(%q): want ErrInvalidAmount, got %v", in, err)
		}
	}
}

func TestParseQuantityErrorKind(t *testing.T) {
	if _, err := ParseQuantity("x5"); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("want ErrInvalidQuantity, got %v", err)
	}
	q, err := ParseQuantity("5,5")
	if err != nil {
		t.Fatal(err)
	}
	if q.String() != "5.5" {
		t.Errorf("ParseQuantity(5,5) = %s", q)
	}
}
