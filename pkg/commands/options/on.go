package options

import (
	"time"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"

	"tableflip.dev/moodlog/pkg/timeutil"
)

// OnOptions selects the journal day a command applies to.
type OnOptions struct {
	OnString string
}

func AddOnArgs(cmd *cobra.Command, o *OnOptions) {
	cmd.Flags().StringVar(&o.OnString, "on", "",
		`Specify a day, example: --on="2020-2-28", --on="2/28" or --on=yesterday. Defaults to today.`)
}

func (o *OnOptions) GetOn(now time.Time) (civil.Date, error) {
	return timeutil.ParseDay(o.OnString, now)
}
