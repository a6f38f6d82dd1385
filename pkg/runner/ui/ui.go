package ui

import (
	"context"
	"log/slog"

	"tableflip.dev/calnotes/pkg/app"
	"tableflip.dev/calnotes/pkg/store"
	teaui "tableflip.dev/calnotes/pkg/tui/app"
)

// UI runs the full screen calendar. Store may be nil when no backend is
// configured; the UI then starts disconnected and says what is missing.
type UI struct {
	Config *store.Config
	Store  store.RowStore
	Log    *slog.Logger
}

func (d *UI) Do(ctx context.Context) error {
	log := d.Log
	if log == nil {
		log = slog.Default()
	}

	opts := teaui.Options{}
	if d.Config != nil {
		opts.Configured = d.Config.Configured()
		opts.Endpoint = d.Config.Endpoint()
	}
	if d.Store != nil {
		opts.Sync = app.NewSync(d.Store, log)
		if w, ok := d.Store.(store.Watcher); ok {
			opts.Watcher = w
		}
	}

	log.Info("starting ui", slog.String("endpoint", opts.Endpoint), slog.Bool("configured", opts.Configured))
	return teaui.Run(opts)
}
