package calendar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
)

// WeekdayNames is the Monday-first column header.
var WeekdayNames = [7]string{"Lu", "Ma", "Mi", "Ju", "Vi", "Sá", "Do"}

// Day describes a single day rendered in the calendar.
type Day struct {
	Day        int
	Count      int
	IsToday    bool
	IsSelected bool
}

// Options controls calendar styling.
type Options struct {
	HeaderStyle   lipgloss.Style
	EmptyStyle    lipgloss.Style
	EntryStyle    lipgloss.Style
	TodayStyle    lipgloss.Style
	SelectedStyle lipgloss.Style
	ShowHeader    bool
}

// Cell is the position of a day inside the grid.
type Cell struct {
	Row, Col int
}

// CellOf returns where day lands in a grid with the given geometry.
func CellOf(info Info, day int) Cell {
	idx := info.WeekdayOffset + day - 1
	return Cell{Row: idx / 7, Col: idx % 7}
}

// Rows returns how many week rows the month occupies.
func Rows(info Info) int {
	return (info.WeekdayOffset + info.DaysInMonth + 6) / 7
}

// DayAt returns the day shown at row/col, or 0 for a blank cell.
func DayAt(info Info, row, col int) int {
	day := row*7 + col - info.WeekdayOffset + 1
	if day < 1 || day > info.DaysInMonth {
		return 0
	}
	return day
}

// Render produces a multi-line Monday-first grid for the anchored month.
func Render(a Anchor, days []Day, opts Options) string {
	info := a.Info()

	byDay := make(map[int]Day, len(days))
	for _, d := range days {
		if d.Day >= 1 && d.Day <= info.DaysInMonth {
			byDay[d.Day] = d
		}
	}

	var lines []string
	if opts.ShowHeader {
		header := make([]string, 0, 7)
		for _, name := range WeekdayNames {
			header = append(header, fmt.Sprintf("%-4s", name))
		}
		lines = append(lines, opts.HeaderStyle.Render(strings.Join(header, " ")))
	}

	rows := Rows(info)
	for row := 0; row < rows; row++ {
		cells := make([]string, 0, 7)
		for col := 0; col < 7; col++ {
			day := DayAt(info, row, col)
			if day == 0 {
				cells = append(cells, opts.EmptyStyle.Render("    "))
				continue
			}
			cells = append(cells, renderDay(byDay[day], day, opts))
		}
		lines = append(lines, strings.Join(cells, " "))
	}

	return strings.Join(lines, "\n")
}

func renderDay(info Day, day int, opts Options) string {
	text := fmt.Sprintf("%2d%-2s", day, countMark(info.Count))

	style := opts.EmptyStyle
	if info.Count > 0 {
		style = opts.EntryStyle
	}
	if info.IsToday {
		style = style.Inherit(opts.TodayStyle)
	}
	if info.IsSelected {
		style = style.Inherit(opts.SelectedStyle)
	}
	return style.Render(text)
}

func countMark(n int) string {
	switch {
	case n <= 0:
		return ""
	case n > 9:
		return "·+"
	default:
		return fmt.Sprintf("·%d", n)
	}
}

// DefaultOptions returns the styling used for calendar rendering.
func DefaultOptions() Options {
	header := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Bold(true)
	empty := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	entry := lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Bold(true)
	today := lipgloss.NewStyle().Underline(true)
	selected := lipgloss.NewStyle().Background(lipgloss.Color("63")).Foreground(lipgloss.Color("0"))
	return Options{
		HeaderStyle:   header,
		EmptyStyle:    empty,
		EntryStyle:    entry,
		TodayStyle:    today,
		SelectedStyle: selected,
		ShowHeader:    true,
	}
}

// PlainOptions renders without any styling.
func PlainOptions() Options {
	return Options{
		HeaderStyle:   lipgloss.NewStyle(),
		EmptyStyle:    lipgloss.NewStyle(),
		EntryStyle:    lipgloss.NewStyle(),
		TodayStyle:    lipgloss.NewStyle(),
		SelectedStyle: lipgloss.NewStyle(),
		ShowHeader:    true,
	}
}
