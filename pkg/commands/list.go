package commands

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/calnotes/pkg/commands/options"
	"tableflip.dev/calnotes/pkg/runner/list"
)

func addList(topLevel *cobra.Command) {
	mo := &options.MonthOptions{}
	on := &options.OnOptions{}
	oo := &options.OutputOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "list [YYYY-MM]",
		Aliases: []string{"ls"},
		Short:   "list the notes of a month or a day",
		Example: `
calnotes list
calnotes list 2025-03 -k
calnotes list --on 2025-3-28 -o json
`,
		Args: func(cmd *cobra.Command, args []string) error {
			return mo.FromArgs(args)
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return oo.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			a, err := mo.Anchor(now)
			if err != nil {
				return oo.HandleError(err)
			}
			l := list.List{
				Anchor: a,
				ShowID: io.ShowID,
				Format: oo.Format,
				Out:    cmd.OutOrStdout(),
			}
			if on.OnString != "" {
				if l.Day, err = on.GetOn(now); err != nil {
					return oo.HandleError(userFacing(err))
				}
			}

			svc, done, err := newService(stderr())
			if err != nil {
				return oo.HandleError(err)
			}
			defer done()
			l.Service = svc
			return oo.HandleError(userFacing(l.Do(cmd.Context())))
		},
	}

	options.AddOnArgs(cmd, on)
	options.AddFormatArg(cmd, oo)
	options.AddOutputArg(cmd, oo)
	options.AddShowIDArgs(cmd, io)

	topLevel.AddCommand(cmd)
}
