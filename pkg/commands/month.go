package commands

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/calnotes/pkg/commands/options"
	"tableflip.dev/calnotes/pkg/runner/month"
)

func addMonth(topLevel *cobra.Command) {
	mo := &options.MonthOptions{}
	oo := &options.OutputOptions{}
	io := &options.IDOptions{}
	long := false

	cmd := &cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "show a month with the number of notes per day",
		Example: `
calnotes month
calnotes month 2025-03 --long
calnotes month 2025-03 -o yaml
`,
		Args: func(cmd *cobra.Command, args []string) error {
			return mo.FromArgs(args)
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return oo.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := mo.Anchor(time.Now())
			if err != nil {
				return oo.HandleError(err)
			}
			svc, done, err := newService(stderr())
			if err != nil {
				return oo.HandleError(err)
			}
			defer done()

			m := month.Month{
				Service: svc,
				Anchor:  a,
				Long:    long,
				ShowID:  io.ShowID,
				Format:  oo.Format,
				Out:     cmd.OutOrStdout(),
			}
			return oo.HandleError(userFacing(m.Do(cmd.Context())))
		},
	}

	cmd.Flags().BoolVarP(&long, "long", "l", false, "List every day with its notes instead of a grid.")
	options.AddFormatArg(cmd, oo)
	options.AddOutputArg(cmd, oo)
	options.AddShowIDArgs(cmd, io)

	topLevel.AddCommand(cmd)
}
