// Package list prints notes as a table.
package list

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/calnotes/pkg/app"
	"tableflip.dev/calnotes/pkg/calendar"
	"tableflip.dev/calnotes/pkg/datekey"
	"tableflip.dev/calnotes/pkg/note"
	"tableflip.dev/calnotes/pkg/printers"
)

type List struct {
	Service *app.Service
	Anchor  calendar.Anchor
	// Day narrows the listing to a single day of Anchor's month.
	Day    datekey.Key
	ShowID bool
	Format string
	Out    io.Writer
}

func (l *List) Do(ctx context.Context) error {
	if l.Service == nil {
		return errors.New("can not list, no row store")
	}
	if l.Day != "" {
		l.Anchor = calendar.AnchorOf(l.Day.Time(nil))
	}
	if err := l.Service.Connect(ctx); err != nil {
		return err
	}
	if err := l.Service.JumpTo(ctx, l.Anchor.Year, l.Anchor.Month); err != nil {
		return err
	}
	idx := l.Service.State.Index

	pp := &printers.PrettyPrint{Out: l.Out, ShowID: l.ShowID}
	if l.Day != "" {
		rows := idx.Notes(l.Day)
		switch l.Format {
		case printers.FormatJSON, printers.FormatYAML:
			return printers.Structured(pp.Writer(), l.Format, printers.NewDayDoc(l.Day, rows))
		}
		pp.TitleWithCount(calendar.DayTitle(l.Day), len(rows))
		pp.Day(l.Day, rows)
		return nil
	}

	switch l.Format {
	case printers.FormatJSON, printers.FormatYAML:
		return printers.Structured(pp.Writer(), l.Format, printers.NewMonthDoc(l.Anchor, idx))
	}
	pp.TitleWithCount(l.Anchor.String(), monthTotal(l.Anchor, idx))
	pp.Notes(idx)
	return nil
}

func monthTotal(a calendar.Anchor, idx note.Index) int {
	n := 0
	for k, rows := range idx {
		if a.Contains(k) {
			n += len(rows)
		}
	}
	return n
}
