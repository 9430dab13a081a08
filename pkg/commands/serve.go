package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/moodlog/pkg/runner/api"
)

func addServe(topLevel *cobra.Command) {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the journal over a local HTTP API",
		Example: `
moodlog serve
moodlog serve --addr 127.0.0.1:9000
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			s, err := loadSession(false)
			if err != nil {
				return err
			}
			defer func() { _ = s.Log.Sync() }()

			srv := api.NewServer(api.Config{Addr: addr}, s.Service, s.Log)
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:7420", "address to listen on")
	topLevel.AddCommand(cmd)
}
