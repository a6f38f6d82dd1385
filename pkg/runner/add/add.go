package add

import (
	"context"
	"errors"
	"io"

	"tableflip.dev/calnotes/pkg/app"
	"tableflip.dev/calnotes/pkg/calendar"
	"tableflip.dev/calnotes/pkg/datekey"
	"tableflip.dev/calnotes/pkg/printers"
)

type Add struct {
	Service *app.Service
	On      datekey.Key
	Message string
	Out     io.Writer
}

func (n *Add) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not add, no row store")
	}
	if !n.On.Valid() {
		return datekey.ErrMalformedKey
	}

	a := calendar.AnchorOf(n.On.Time(nil))
	if err := n.Service.Connect(ctx); err != nil {
		return err
	}
	if err := n.Service.JumpTo(ctx, a.Year, a.Month); err != nil {
		return err
	}
	n.Service.SelectDay(n.On)
	if err := n.Service.InsertNote(ctx, n.Message); err != nil {
		return err
	}

	rows := n.Service.State.Index.Notes(n.On)
	pp := &printers.PrettyPrint{Out: n.Out}
	pp.TitleWithCount(calendar.DayTitle(n.On), len(rows))
	pp.Day(n.On, rows)
	return nil
}
