// Package calendar computes month geometry and renders Monday-first month grids.
package calendar

import (
	"fmt"
	"time"

	"tableflip.dev/calnotes/pkg/datekey"
)

// MonthNames holds display names indexed by zero-based month.
var MonthNames = [12]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// Info is what a grid needs to lay out one month.
type Info struct {
	Year          int
	Month         int // zero-indexed
	DaysInMonth   int
	WeekdayOffset int // leading blank cells, Monday-first
}

// Range holds inclusive day bounds for a month.
type Range struct {
	Start datekey.Key
	End   datekey.Key
}

// MonthInfo returns the geometry of the month containing ref.
func MonthInfo(ref time.Time) Info {
	year, month := ref.Year(), ref.Month()
	first := time.Date(year, month, 1, 0, 0, 0, 0, ref.Location())
	return Info{
		Year:          year,
		Month:         int(month) - 1,
		DaysInMonth:   DaysIn(ref),
		WeekdayOffset: (int(first.Weekday()) + 6) % 7,
	}
}

// MonthRange returns the first and last day keys of the month containing ref.
func MonthRange(ref time.Time) Range {
	info := MonthInfo(ref)
	return Range{
		Start: datekey.Encode(info.Year, info.Month, 1),
		End:   datekey.Encode(info.Year, info.Month, info.DaysInMonth),
	}
}

// DaysIn returns the number of days in the month containing ref, taken as
// day zero of the following month.
func DaysIn(ref time.Time) int {
	return time.Date(ref.Year(), ref.Month()+1, 0, 0, 0, 0, 0, ref.Location()).Day()
}

// Anchor is the year and zero-indexed month currently on display.
type Anchor struct {
	Year  int
	Month int
}

// AnchorOf returns the anchor for the month containing t.
func AnchorOf(t time.Time) Anchor {
	return Anchor{Year: t.Year(), Month: int(t.Month()) - 1}
}

// NewAnchor normalizes month into [0, 11], carrying into the year.
func NewAnchor(year, month int) Anchor {
	year += month / 12
	month %= 12
	if month < 0 {
		month += 12
		year--
	}
	return Anchor{Year: year, Month: month}
}

// Add moves the anchor by delta months.
func (a Anchor) Add(delta int) Anchor {
	return NewAnchor(a.Year, a.Month+delta)
}

// Time returns local midnight on day 1 of the anchored month.
func (a Anchor) Time() time.Time {
	return time.Date(a.Year, time.Month(a.Month+1), 1, 0, 0, 0, 0, time.Local)
}

// Info returns the grid geometry of the anchored month.
func (a Anchor) Info() Info { return MonthInfo(a.Time()) }

// Range returns the inclusive key bounds of the anchored month.
func (a Anchor) Range() Range { return MonthRange(a.Time()) }

// Contains reports whether k falls inside the anchored month.
func (a Anchor) Contains(k datekey.Key) bool {
	y, m, _, err := datekey.Decode(k)
	return err == nil && y == a.Year && m == a.Month
}

func (a Anchor) String() string {
	return fmt.Sprintf("%s %d", MonthNames[a.Month], a.Year)
}

// ParseAnchor reads "YYYY-MM" with a one-indexed month.
func ParseAnchor(s string) (Anchor, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Anchor{}, fmt.Errorf("calendar: parse month %q: %w", s, err)
	}
	return AnchorOf(t), nil
}

// DayTitle is the heading shown for the notes of k.
func DayTitle(k datekey.Key) string {
	y, m, d, err := datekey.Decode(k)
	if err != nil || m < 0 || m > 11 {
		return "Selecciona un día para ver y crear notas"
	}
	return fmt.Sprintf("Notas para %d de %s de %d", d, MonthNames[m], y)
}
