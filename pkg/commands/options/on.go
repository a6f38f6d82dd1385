package options

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/calnotes/pkg/datekey"
)

const (
	layoutISO      = "2006-1-2"
	layoutISOShort = "1/2"
)

// OnOptions
type OnOptions struct {
	OnString string
}

func AddOnArgs(cmd *cobra.Command, o *OnOptions) {
	cmd.Flags().StringVar(&o.OnString, "on", "",
		`Specify a day, example: --on="2025-3-28" or --on="3/28". Defaults to today.`)
}

// GetOn returns the requested day, or today's when none was given.
func (o *OnOptions) GetOn(now time.Time) (datekey.Key, error) {
	if o.OnString == "" {
		return datekey.FromTime(now), nil
	}
	t, err := time.ParseInLocation(layoutISO, o.OnString, now.Location())
	if err != nil {
		// Let the year be the same.
		t, err = time.ParseInLocation(layoutISOShort, o.OnString, now.Location())
		if err != nil {
			return "", fmt.Errorf("%w: %q", datekey.ErrMalformedKey, o.OnString)
		}
		t = t.AddDate(now.Year(), 0, 0)
	}
	return datekey.FromTime(t), nil
}
