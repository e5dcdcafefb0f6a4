package wallet

import (
	"fmt"
	"time"
)

// YearMonth identifies a calendar month without a day component, the unit of
// all period cash-flow queries.
type YearMonth struct {
	Year  int
	Month time.Month
}

// YearMonthOf extracts the year-month of a date.
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// ParseYearMonth reads the "2006-01" form.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("parsing year-month %q: %w", s, err)
	}

	return YearMonthOf(t), nil
}

// Contains reports whether the date falls inside the month.
func (ym YearMonth) Contains(t time.Time) bool {
	return t.Year() == ym.Year && t.Month() == ym.Month
}

// After reports whether ym comes strictly after other.
func (ym YearMonth) After(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year > other.Year
	}

	return ym.Month > other.Month
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}
