package options

import (
	"fmt"
	"time"

	"tableflip.dev/calnotes/pkg/calendar"
)

// MonthOptions holds the optional YYYY-MM positional argument.
type MonthOptions struct {
	Month string
}

// FromArgs takes the month from args, if any.
func (o *MonthOptions) FromArgs(args []string) error {
	switch len(args) {
	case 0:
		return nil
	case 1:
		o.Month = args[0]
		return nil
	default:
		return fmt.Errorf("expected at most one month, got %d arguments", len(args))
	}
}

// Anchor resolves the month, defaulting to the one holding now.
func (o *MonthOptions) Anchor(now time.Time) (calendar.Anchor, error) {
	if o.Month == "" {
		return calendar.AnchorOf(now), nil
	}
	a, err := calendar.ParseAnchor(o.Month)
	if err != nil {
		return calendar.Anchor{}, fmt.Errorf("invalid month %q, expected YYYY-MM", o.Month)
	}
	return a, nil
}
