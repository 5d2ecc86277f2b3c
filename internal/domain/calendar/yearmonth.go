package calendar

import (
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

var ErrInvalidYearMonth = errors.New("invalid year-month, expected YYYY-MM")

// YearMonth is a calendar month without a day component.
type YearMonth struct {
	Year  int
	Month time.Month
}

func YearMonthOf(d civil.Date) YearMonth {
	return YearMonth{Year: d.Year, Month: d.Month}
}

func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, ErrInvalidYearMonth
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

func (ym YearMonth) IsValid() bool {
	return ym.Month >= time.January && ym.Month <= time.December
}

func (ym YearMonth) Next() YearMonth { return ym.AddMonths(1) }
func (ym YearMonth) Prev() YearMonth { return ym.AddMonths(-1) }

func (ym YearMonth) AddYears(n int) YearMonth {
	return YearMonth{Year: ym.Year + n, Month: ym.Month}
}

// AddMonths works on a linear month index so that December rolls into January
// of the next year and January rolls back into December of the previous one.
func (ym YearMonth) AddMonths(n int) YearMonth {
	idx := ym.Year*12 + int(ym.Month-1) + n
	year := idx / 12
	month := idx % 12
	if month < 0 {
		month += 12
		year--
	}
	return YearMonth{Year: year, Month: time.Month(month + 1)}
}

// Days returns the number of days in the month.
func (ym YearMonth) Days() int {
	return time.Date(ym.Year, ym.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Clamp returns the date in this month with the given day, limited to the
// month's range.
func (ym YearMonth) Clamp(day int) civil.Date {
	if day < 1 {
		day = 1
	}
	if n := ym.Days(); day > n {
		day = n
	}
	return civil.Date{Year: ym.Year, Month: ym.Month, Day: day}
}

func (ym YearMonth) FirstDay() civil.Date {
	return civil.Date{Year: ym.Year, Month: ym.Month, Day: 1}
}

func (ym YearMonth) LastDay() civil.Date {
	return civil.Date{Year: ym.Year, Month: ym.Month, Day: ym.Days()}
}

func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

func (ym YearMonth) MarshalText() ([]byte, error) {
	return []byte(ym.String()), nil
}

func (ym *YearMonth) UnmarshalText(data []byte) error {
	parsed, err := ParseYearMonth(string(data))
	if err != nil {
		return err
	}
	*ym = parsed
	return nil
}
