package printers

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/calnotes/pkg/datekey"
	"tableflip.dev/calnotes/pkg/note"
)

type PrettyPrint struct {
	Out    io.Writer
	ShowID bool
}

// New prints to color.Output.
func New(showID bool) *PrettyPrint {
	return &PrettyPrint{Out: color.Output, ShowID: showID}
}

// Writer is where output goes, color.Output unless Out is set.
func (pp *PrettyPrint) Writer() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.Writer())
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.Writer(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.Writer(), title)
	_, _ = c.Fprintf(pp.Writer(), " - %s\n", note.Label(count))
}

// Day prints the notes of a single day.
func (pp *PrettyPrint) Day(k datekey.Key, rows []note.Row) {
	if len(rows) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.Writer(), " No hay notas todavía para este día.\n\n")
		return
	}

	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	t := color.New(color.Faint)
	for _, r := range rows {
		if pp.ShowID {
			_, _ = y.Fprintf(pp.Writer(), "%-38s", r.ID)
		}
		_, _ = t.Fprintf(pp.Writer(), "%s ", r.CreatedAt.Local().Format("15:04"))
		_, _ = fmt.Fprintln(pp.Writer(), r.Content)
	}
	pp.NewLine()
}

// Notes prints every note of the index as a table ordered by day.
func (pp *PrettyPrint) Notes(idx note.Index) {
	if idx.Len() == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.Writer(), " ninguna\n\n")
		return
	}

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.Wrap = true
	if pp.ShowID {
		tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Fecha"), bold.Sprint("Hora"), bold.Sprint("Nota"))
	} else {
		tbl.AddRow(bold.Sprint("Fecha"), bold.Sprint("Hora"), bold.Sprint("Nota"))
	}
	for _, k := range SortedDays(idx) {
		for _, r := range idx.Notes(k) {
			at := r.CreatedAt.Local().Format("15:04")
			if pp.ShowID {
				tbl.AddRow(r.ID, string(k), at, r.Content)
			} else {
				tbl.AddRow(string(k), at, r.Content)
			}
		}
	}
	_, _ = fmt.Fprintln(pp.Writer(), tbl)
}

// SortedDays returns the days of idx in calendar order.
func SortedDays(idx note.Index) []datekey.Key {
	days := make([]datekey.Key, 0, len(idx))
	for k := range idx {
		days = append(days, k)
	}
	// Keys are zero padded, so lexical order is calendar order.
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days
}
