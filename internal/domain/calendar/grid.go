package calendar

import (
	"time"

	"cloud.google.com/go/civil"
)

// WeekdayLabels is the header row of a grid, Monday first.
var WeekdayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Bounds restricts the selectable range. A nil side is unbounded.
type Bounds struct {
	Min *civil.Date
	Max *civil.Date
}

type Cell struct {
	Date       civil.Date
	Blank      bool
	Selectable bool
}

// Nav holds the dates a calendar jumps to from its navigation controls.
type Nav struct {
	PrevYear  civil.Date
	NextYear  civil.Date
	PrevMonth civil.Date
	NextMonth civil.Date
}

type Grid struct {
	Month YearMonth
	Weeks [][7]Cell
	Nav   Nav
}

// Render lays out the month containing reference as Monday-first week rows.
// Days before today are never selectable, whatever Min says.
func Render(reference, today civil.Date, bounds Bounds) Grid {
	month := YearMonthOf(reference)

	var weeks [][7]Cell
	var row [7]Cell
	col := mondayIndex(month.FirstDay())
	for i := 0; i < col; i++ {
		row[i] = Cell{Blank: true}
	}

	for day := 1; day <= month.Days(); day++ {
		d := civil.Date{Year: month.Year, Month: month.Month, Day: day}
		row[col] = Cell{Date: d, Selectable: Selectable(d, today, bounds)}
		col++
		if col == 7 {
			weeks = append(weeks, row)
			row = [7]Cell{}
			col = 0
		}
	}
	if col > 0 {
		for i := col; i < 7; i++ {
			row[i] = Cell{Blank: true}
		}
		weeks = append(weeks, row)
	}

	return Grid{
		Month: month,
		Weeks: weeks,
		Nav: Nav{
			PrevYear:  month.AddYears(-1).Clamp(reference.Day),
			NextYear:  month.AddYears(1).Clamp(reference.Day),
			PrevMonth: month.Prev().Clamp(reference.Day),
			NextMonth: month.Next().Clamp(reference.Day),
		},
	}
}

// Selectable reports whether d may be picked given today and bounds.
func Selectable(d, today civil.Date, bounds Bounds) bool {
	lower := today
	if bounds.Min != nil && bounds.Min.After(lower) {
		lower = *bounds.Min
	}
	if d.Before(lower) {
		return false
	}
	if bounds.Max != nil && d.After(*bounds.Max) {
		return false
	}
	return true
}

// Cell returns the cell for d, if d belongs to the rendered month.
func (g Grid) Cell(d civil.Date) (Cell, bool) {
	for _, week := range g.Weeks {
		for _, c := range week {
			if !c.Blank && c.Date == d {
				return c, true
			}
		}
	}
	return Cell{}, false
}

func mondayIndex(d civil.Date) int {
	return (int(d.In(time.UTC).Weekday()) + 6) % 7
}
