package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/moodlog/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about configuration and where entries are stored.",
		Example: `
moodlog info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			s, err := loadSession(true)
			if err != nil {
				return output.HandleError(err)
			}
			n := info.Info{
				Config:      s.Config,
				Persistence: s.Persistence,
			}
			return output.HandleError(n.Do(cmd.Context()))
		},
	}

	topLevel.AddCommand(cmd)
}
