package commands

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/moodlog/pkg/commands/options"
	"tableflip.dev/moodlog/pkg/runner/get"
)

func addGet(topLevel *cobra.Command) {
	oo := &options.OnOptions{}

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show the readings recorded for one day",
		Example: `
moodlog get
moodlog get --on yesterday
moodlog get --on 2025-6-15 --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			s, err := loadSession(true)
			if err != nil {
				return output.HandleError(err)
			}
			on, err := oo.GetOn(time.Now())
			if err != nil {
				return output.HandleError(err)
			}
			g := get.Get{
				Service: s.Service,
				Until:   on,
				JSON:    output.JSON,
			}
			return output.HandleError(g.Do(cmd.Context()))
		},
	}

	options.AddOnArgs(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addList(topLevel *cobra.Command) {
	lo := &options.LastOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recorded days within a trailing window",
		Example: `
moodlog list
moodlog list --last 1m
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			s, err := loadSession(true)
			if err != nil {
				return output.HandleError(err)
			}
			since, until, _, err := lo.Window(time.Now())
			if err != nil {
				return output.HandleError(err)
			}
			g := get.Get{
				Service: s.Service,
				Since:   since,
				Until:   until,
				JSON:    output.JSON,
			}
			return output.HandleError(g.Do(cmd.Context()))
		},
	}

	options.AddLastArgs(cmd, lo)
	topLevel.AddCommand(cmd)
}
