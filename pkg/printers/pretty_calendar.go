package printers

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/calnotes/pkg/calendar"
	"tableflip.dev/calnotes/pkg/datekey"
	"tableflip.dev/calnotes/pkg/note"
)

const width = len("Lu  Ma  Mi  Ju  Vi  Sá  Do ") // an example week

// Month prints the anchored month as a Monday-first grid. Days with notes
// are bold and carry their count; today is underlined.
func (pp *PrettyPrint) Month(a calendar.Anchor, idx note.Index, now time.Time) {
	info := a.Info()
	out := pp.Writer()

	tf := color.New(color.FgWhite, color.Italic)
	title := a.String()
	mid := (width - len([]rune(title))) / 2
	if mid < 0 {
		mid = 0
	}
	_, _ = tf.Fprintf(out, "%s%s\n", strings.Repeat(" ", mid), title)

	h := color.New(color.Faint)
	header := make([]string, 0, 7)
	for _, name := range calendar.WeekdayNames {
		header = append(header, fmt.Sprintf("%-3s", name))
	}
	_, _ = h.Fprintln(out, strings.Join(header, " "))

	l1 := color.New(color.Faint, color.FgWhite)
	l2 := color.New(color.Bold, color.FgHiWhite)
	today := datekey.FromTime(now)

	for row := 0; row < calendar.Rows(info); row++ {
		cells := make([]string, 0, 7)
		for col := 0; col < 7; col++ {
			day := calendar.DayAt(info, row, col)
			if day == 0 {
				cells = append(cells, "   ")
				continue
			}
			k := datekey.Encode(info.Year, info.Month, day)
			n := note.CountFor(idx, k)
			printer := l1
			if n > 0 {
				printer = l2
			}
			if k == today {
				printer = color.New(color.Bold, color.Underline)
			}
			cells = append(cells, printer.Sprintf("%2d%s", day, badge(n)))
		}
		_, _ = fmt.Fprintln(out, strings.TrimRight(strings.Join(cells, " "), " "))
	}
	pp.NewLine()
}

// badge marks days that have notes: a single digit, or + past nine.
func badge(n int) string {
	switch {
	case n <= 0:
		return " "
	case n > 9:
		return "+"
	default:
		return fmt.Sprint(n)
	}
}

// MonthLong prints one line per day with the day's notes beside it.
func (pp *PrettyPrint) MonthLong(a calendar.Anchor, idx note.Index, now time.Time) {
	p := color.New()
	b := color.New(color.Bold)
	s := color.New(color.Underline)
	f := color.New(color.Faint)
	out := pp.Writer()

	info := a.Info()
	today := datekey.FromTime(now)
	for day := 1; day <= info.DaysInMonth; day++ {
		k := datekey.Encode(info.Year, info.Month, day)
		col := calendar.CellOf(info, day).Col

		printer := p
		if col == 6 {
			printer = s
		}
		if k == today {
			printer = b
		}
		_, _ = printer.Fprintf(out, "%2d %s", day, calendar.WeekdayNames[col][:1])

		rows := idx.Notes(k)
		if len(rows) == 0 {
			_, _ = fmt.Fprintln(out)
			continue
		}
		for i, r := range rows {
			pad := "  "
			if i > 0 {
				pad = "     "
			}
			_, _ = fmt.Fprint(out, pad)
			if pp.ShowID {
				_, _ = f.Fprintf(out, "[%s] ", r.ID)
			}
			_, _ = fmt.Fprintln(out, r.Content)
		}
	}
}
