// Package rm deletes notes by id.
package rm

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"tableflip.dev/calnotes/pkg/app"
	"tableflip.dev/calnotes/pkg/printers"
)

type Remove struct {
	Service *app.Service
	IDs     []string
	Out     io.Writer
}

func (r *Remove) Do(ctx context.Context) error {
	if r.Service == nil {
		return errors.New("can not remove, no row store")
	}
	if len(r.IDs) == 0 {
		return errors.New("no ids given")
	}
	if err := r.Service.Connect(ctx); err != nil {
		return err
	}

	pp := &printers.PrettyPrint{Out: r.Out}
	ok := color.New(color.FgGreen)
	for _, id := range r.IDs {
		if err := r.Service.DeleteNote(ctx, id); err != nil {
			return fmt.Errorf("%s: %w", id, err)
		}
		_, _ = ok.Fprintf(pp.Writer(), "borrada %s\n", id)
	}
	return nil
}
