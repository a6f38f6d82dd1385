package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"tableflip.dev/calnotes/pkg/commands/options"
	"tableflip.dev/calnotes/pkg/runner/rm"
)

func addRemove(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "rm ID...",
		Aliases: []string{"delete"},
		Short:   "delete notes by id",
		Example: `
calnotes list -k
calnotes rm 42
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("requires at least one id")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, done, err := newService(stderr())
			if err != nil {
				return oo.HandleError(err)
			}
			defer done()

			r := rm.Remove{Service: svc, IDs: args, Out: cmd.OutOrStdout()}
			return oo.HandleError(userFacing(r.Do(cmd.Context())))
		},
	}

	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
