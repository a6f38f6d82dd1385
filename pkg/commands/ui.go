package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/calnotes/pkg/runner/ui"
	"tableflip.dev/calnotes/pkg/store"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the calendar in the terminal",
		Example: `
calnotes ui
CALNOTES_BACKEND=diskv calnotes ui
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return err
			}
			log, closer, err := lo.FileLogger(cfg)
			if err != nil {
				return err
			}
			defer closer.Close()

			i := ui.UI{Config: cfg, Log: log}
			// Without a usable config the UI still starts, disconnected.
			if rs, err := store.Open(cfg); err != nil {
				log.Warn("store not opened", "error", err)
			} else {
				defer store.Close(rs)
				i.Store = rs
			}
			return i.Do(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}
