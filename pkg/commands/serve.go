package commands

import (
	"errors"
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"tableflip.dev/calnotes/pkg/rowserver"
	"tableflip.dev/calnotes/pkg/runner/serve"
	"tableflip.dev/calnotes/pkg/store"
)

func addServe(topLevel *cobra.Command) {
	var (
		addr string
		key  string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve a local store over the PostgREST dialect",
		Long: `Expose the diskv or sqlite store over HTTP using the subset of PostgREST
the remote backend speaks, so another calnotes can point url at it.`,
		Example: `
CALNOTES_BACKEND=sqlite calnotes serve --addr 127.0.0.1:54321 --key secret
CALNOTES_URL=http://127.0.0.1:54321 CALNOTES_KEY=secret calnotes ui
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, rs, log, err := openStore(stderr())
			if err != nil {
				return err
			}
			defer store.Close(rs)
			if cfg.Backend == store.BackendPostgREST {
				return errors.New("serve needs a local backend, set backend to diskv or sqlite")
			}

			s := serve.Serve{
				Store: rs,
				Log:   log,
				Addr:  addr,
				Key:   key,
				Table: cfg.Table,
				OnListening: func(a net.Addr) {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "serving %s on http://%s%s\n", cfg.Endpoint(), a, rowserver.DefaultPrefix)
				},
			}
			return s.Do(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:54321", "address to listen on")
	cmd.Flags().StringVar(&key, "key", "", "API key clients must send; empty accepts any request")

	topLevel.AddCommand(cmd)
}
