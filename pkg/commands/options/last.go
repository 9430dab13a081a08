package options

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"

	"tableflip.dev/moodlog/pkg/timeutil"
)

// LastOptions is a trailing window of days ending today.
type LastOptions struct {
	Last string
}

func AddLastArgs(cmd *cobra.Command, o *LastOptions) {
	cmd.Flags().StringVar(&o.Last, "last", timeutil.DefaultWindow,
		"time window to include (for example 3d, 1w, 1m)")
}

// Window resolves the flag into an inclusive date range and a display label.
func (o *LastOptions) Window(now time.Time) (since, until civil.Date, label string, err error) {
	d, label, err := timeutil.ParseWindow(o.Last)
	if err != nil {
		return civil.Date{}, civil.Date{}, "", err
	}
	until = civil.DateOf(now)
	return timeutil.WindowStart(until, d), until, label, nil
}
