package options

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/calnotes/pkg/printers"
)

// OutputOptions
type OutputOptions struct {
	JSON   bool
	Format string
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.Flags().BoolVar(&po.JSON, "json", false,
		"Output errors as JSON.")
}

func AddFormatArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.Flags().StringVarP(&po.Format, "output", "o", printers.FormatPretty,
		fmt.Sprintf("Output format. One of %s.", strings.Join(printers.Formats, ", ")))
}

// Structured reports whether a machine readable format was requested.
func (o *OutputOptions) Structured() bool {
	return o.Format == printers.FormatJSON || o.Format == printers.FormatYAML
}

func (o *OutputOptions) Validate() error {
	for _, f := range printers.Formats {
		if o.Format == f || o.Format == "" {
			return nil
		}
	}
	return fmt.Errorf("unknown output format %q", o.Format)
}

func (o *OutputOptions) HandleError(err error) error {
	if o.JSON && err != nil {
		out := map[string]string{
			"error": err.Error(),
		}
		b, err := json.Marshal(out)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(color.Output, string(b))
		return nil
	}
	return err
}
