package ledger

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateFormat is the ISO-8601 layout used for dates in the row schema.
const DateFormat = "2006-01-02"

// Date is a calendar date with day granularity, in no particular timezone.
type Date struct {
	y int
	m time.Month
	d int
}

// NewDate returns a normalized Date for the given year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	d := Date{year, month, day}
	d.y, d.m, d.d = d.time().Date()
	return d
}

// ParseDate parses an ISO-8601 date string such as "2026-03-15".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q want format %q", ErrInvalidDate, s, DateFormat)
	}
	return NewDate(t.Date()), nil
}

// MustParseDate is like ParseDate but panics on error. Intended for tests.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err.Error())
	}
	return d
}

func (d Date) time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

func (d Date) Year() int         { return d.y }
func (d Date) Month() time.Month { return d.m }
func (d Date) Day() int          { return d.d }

func (d Date) IsZero() bool { return d == Date{} }

// Before reports whether d is before x.
func (d Date) Before(x Date) bool { return d.time().Before(x.time()) }

// After reports whether d is after x.
func (d Date) After(x Date) bool { return d.time().After(x.time()) }

// String formats the date in its ISO-8601 form.
func (d Date) String() string { return d.time().Format(DateFormat) }

// turkishMonths holds the month labels persisted in the sheet's
// month_name column.
var turkishMonths = [...]string{
	"Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran",
	"Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık",
}

// MonthName returns the localized month label for the row schema.
func (d Date) MonthName() string { return turkishMonths[d.m-1] }

// AddMonths advances the date by n calendar months, clamping the day of
// month when the target month is shorter: Jan 31 + 1 month is Feb 28 (or
// 29 in a leap year), never Mar 3.
func (d Date) AddMonths(n int) Date {
	// Normalize year/month first, on day 1, so time.Date cannot spill
	// into the following month.
	first := time.Date(d.y, d.m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	y, m, _ := first.Date()
	day := d.d
	if last := daysIn(y, m); day > last {
		day = last
	}
	return NewDate(y, m, day)
}

// daysIn returns the number of days in the given month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MarshalJSON encodes the date as an ISO-8601 string.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes the date from an ISO-8601 string.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

var _ json.Marshaler = (*Date)(nil)
var _ json.Unmarshaler = (*Date)(nil)
