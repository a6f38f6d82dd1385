// Package month prints a month of notes as a calendar grid.
package month

import (
	"context"
	"errors"
	"io"
	"time"

	"tableflip.dev/calnotes/pkg/app"
	"tableflip.dev/calnotes/pkg/calendar"
	"tableflip.dev/calnotes/pkg/printers"
)

type Month struct {
	Service *app.Service
	Anchor  calendar.Anchor
	// Long prints one line per day with its notes instead of a grid.
	Long   bool
	ShowID bool
	Format string
	Out    io.Writer
}

func (m *Month) Do(ctx context.Context) error {
	if m.Service == nil {
		return errors.New("can not show month, no row store")
	}
	if err := m.Service.Connect(ctx); err != nil {
		return err
	}
	if err := m.Service.JumpTo(ctx, m.Anchor.Year, m.Anchor.Month); err != nil {
		return err
	}
	idx := m.Service.State.Index

	pp := &printers.PrettyPrint{Out: m.Out, ShowID: m.ShowID}
	switch m.Format {
	case printers.FormatJSON, printers.FormatYAML:
		return printers.Structured(pp.Writer(), m.Format, printers.NewMonthDoc(m.Anchor, idx))
	}

	now := time.Now()
	if m.Service.Now != nil {
		now = m.Service.Now()
	}
	if m.Long {
		pp.Title(m.Anchor.String())
		pp.MonthLong(m.Anchor, idx, now)
		return nil
	}
	pp.Month(m.Anchor, idx, now)
	return nil
}
