package commands

import (
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/moodlog/pkg/checkin"
	"tableflip.dev/moodlog/pkg/printers"
	"tableflip.dev/moodlog/pkg/runner/remind"
)

func addRemind(topLevel *cobra.Command) {
	var every time.Duration

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Run the check-in reminder loop in the foreground",
		Long: `Remind watches the clock and the journal. It prints a reminder once per
check-in window, and when the day rolls over it saves yesterday's entry if it
has a morning reading.`,
		Example: `
moodlog remind
moodlog remind --every 30s
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			s, err := loadSession(false)
			if err != nil {
				return err
			}
			defer func() { _ = s.Log.Sync() }()

			interval := every
			if interval <= 0 {
				interval = s.Config.Interval()
			}
			r := &remind.Runner{
				Service:  s.Service,
				Interval: interval,
				Log:      s.Log,
			}
			if output.JSON {
				r.Deliver = func(msg checkin.Message) {
					_ = printers.JSON(nil, map[string]any{"type": messageType(msg), "message": msg})
				}
			}
			return r.Do(cmd.Context())
		},
	}

	cmd.Flags().DurationVar(&every, "every", 0, "how often to evaluate reminders (defaults to the configured interval)")
	topLevel.AddCommand(cmd)
}

func messageType(msg checkin.Message) string {
	switch msg.(type) {
	case checkin.DateChanged:
		return "date-changed"
	case checkin.AutoSaveOccurred:
		return "auto-save"
	case checkin.MorningReminderRaised:
		return "morning-reminder"
	case checkin.EveningReminderRaised:
		return "evening-reminder"
	default:
		return "unknown"
	}
}
