package commands

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/moodlog/pkg/commands/options"
	"tableflip.dev/moodlog/pkg/runner/schedule"
)

func addSchedule(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Show or change the check-in times",
		Example: `
moodlog schedule
moodlog schedule set --morning 08:00 --evening 17:30
moodlog schedule override --on tomorrow --morning 10:00
moodlog schedule clear --on tomorrow
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			s, err := loadSession(true)
			if err != nil {
				return output.HandleError(err)
			}
			show := schedule.Show{Service: s.Service, JSON: output.JSON}
			return output.HandleError(show.Do(cmd.Context()))
		},
	}

	addScheduleSet(cmd)
	addScheduleOverride(cmd)
	addScheduleClear(cmd)
	addScheduleCleanup(cmd)
	topLevel.AddCommand(cmd)
}

func addScheduleSet(parent *cobra.Command) {
	var morning, evening string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change the default check-in times",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			if morning == "" && evening == "" {
				return output.HandleError(errors.New("set requires --morning, --evening or both"))
			}
			s, err := loadSession(true)
			if err != nil {
				return output.HandleError(err)
			}
			d := schedule.Defaults{
				Service: s.Service,
				Morning: morning,
				Evening: evening,
				JSON:    output.JSON,
			}
			return output.HandleError(d.Do(cmd.Context()))
		},
	}

	cmd.Flags().StringVar(&morning, "morning", "", "default morning check-in, HH:MM")
	cmd.Flags().StringVar(&evening, "evening", "", "default evening check-in, HH:MM")
	parent.AddCommand(cmd)
}

func addScheduleOverride(parent *cobra.Command) {
	oo := &options.OnOptions{}
	var morning, evening string

	cmd := &cobra.Command{
		Use:   "override --on DATE",
		Short: "Use different check-in times for one day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			on, err := oo.GetOn(time.Now())
			if err != nil {
				return output.HandleError(err)
			}
			s, err := loadSession(true)
			if err != nil {
				return output.HandleError(err)
			}
			o := schedule.Override{
				Service: s.Service,
				Date:    on,
				Morning: morning,
				Evening: evening,
				JSON:    output.JSON,
			}
			return output.HandleError(o.Do(cmd.Context()))
		},
	}

	options.AddOnArgs(cmd, oo)
	cmd.Flags().StringVar(&morning, "morning", "", "morning check-in for that day, HH:MM")
	cmd.Flags().StringVar(&evening, "evening", "", "evening check-in for that day, HH:MM")
	parent.AddCommand(cmd)
}

func addScheduleClear(parent *cobra.Command) {
	oo := &options.OnOptions{}

	cmd := &cobra.Command{
		Use:   "clear --on DATE",
		Short: "Drop the override for one day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			on, err := oo.GetOn(time.Now())
			if err != nil {
				return output.HandleError(err)
			}
			s, err := loadSession(true)
			if err != nil {
				return output.HandleError(err)
			}
			o := schedule.Override{
				Service: s.Service,
				Date:    on,
				Clear:   true,
				JSON:    output.JSON,
			}
			return output.HandleError(o.Do(cmd.Context()))
		},
	}

	options.AddOnArgs(cmd, oo)
	parent.AddCommand(cmd)
}

func addScheduleCleanup(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Prune overrides older than the retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			s, err := loadSession(true)
			if err != nil {
				return output.HandleError(err)
			}
			c := schedule.Cleanup{Service: s.Service}
			return output.HandleError(c.Do(cmd.Context()))
		},
	}

	parent.AddCommand(cmd)
}
