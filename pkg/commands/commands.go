package commands

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/calnotes/pkg/app"
	"tableflip.dev/calnotes/pkg/commands/options"
	"tableflip.dev/calnotes/pkg/store"
)

var (
	lo = &options.LogOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "calnotes",
		Short: base.Wrap80("Calendar notes on the command line."),
		Long: base.Wrap80("Browse months, pick a day and keep short notes for it. Notes live in a " +
			"PostgREST table (url and key) or in a local diskv or sqlite store."),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	options.AddLogArgs(cmd, lo)
	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addMonth(topLevel)
	addList(topLevel)
	addAdd(topLevel)
	addRemove(topLevel)
	addServe(topLevel)
	addMCP(topLevel)
	addVersion(topLevel)
}

// openStore loads config and opens the configured row store, logging to w.
func openStore(w io.Writer) (*store.Config, store.RowStore, *slog.Logger, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	log := lo.Logger(cfg, w)
	rs, err := store.Open(cfg)
	if err != nil {
		return cfg, nil, log, err
	}
	return cfg, rs, log, nil
}

func newService(w io.Writer) (*app.Service, func(), error) {
	_, rs, log, err := openStore(w)
	if err != nil {
		return nil, nil, err
	}
	return app.NewService(rs, log), func() { _ = store.Close(rs) }, nil
}

// userFacing swaps internal error text for what a user should read.
func userFacing(err error) error {
	if err == nil {
		return nil
	}
	return errors.New(app.UserMessage(err))
}

func stderr() io.Writer { return os.Stderr }
