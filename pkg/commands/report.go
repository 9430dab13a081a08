package commands

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/moodlog/pkg/commands/options"
	"tableflip.dev/moodlog/pkg/runner/report"
)

func addReport(topLevel *cobra.Command) {
	lo := &options.LastOptions{}
	var calendar bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarise mood over a trailing window",
		Long: `Report averages complete days within the window and counts days where the
morning reading was missed.

Examples:
  moodlog report
  moodlog report --last 3d
  moodlog report --last 1m --calendar`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			since, until, label, err := lo.Window(time.Now())
			if err != nil {
				return output.HandleError(err)
			}
			s, err := loadSession(true)
			if err != nil {
				return output.HandleError(err)
			}
			r := report.Report{
				Service:  s.Service,
				Since:    since,
				Until:    until,
				Label:    label,
				Calendar: calendar,
				JSON:     output.JSON,
			}
			return output.HandleError(r.Do(cmd.Context()))
		},
	}

	options.AddLastArgs(cmd, lo)
	cmd.Flags().BoolVar(&calendar, "calendar", false, "shade each day of the covered months by mood")
	topLevel.AddCommand(cmd)
}
