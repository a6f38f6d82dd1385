package commands

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/calnotes/pkg/commands/options"
	"tableflip.dev/calnotes/pkg/runner/add"
)

func addAdd(topLevel *cobra.Command) {
	on := &options.OnOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "add [text]",
		Short: "add a note to a day",
		Example: `
calnotes add call the dentist
calnotes add --on 2025-3-28 pick up the bike
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("nothing to add")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := on.GetOn(time.Now())
			if err != nil {
				return oo.HandleError(userFacing(err))
			}
			svc, done, err := newService(stderr())
			if err != nil {
				return oo.HandleError(err)
			}
			defer done()

			a := add.Add{
				Service: svc,
				On:      day,
				Message: strings.Join(args, " "),
				Out:     cmd.OutOrStdout(),
			}
			return oo.HandleError(userFacing(a.Do(cmd.Context())))
		},
	}

	options.AddOnArgs(cmd, on)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
