package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/moodlog/pkg/commands/options"
	"tableflip.dev/moodlog/pkg/printers"
)

func addDelete(topLevel *cobra.Command) {
	oo := &options.OnOptions{}

	cmd := &cobra.Command{
		Use:   "delete --on DATE",
		Short: "Delete the readings for one day",
		Example: `
moodlog delete --on 2025-6-15
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			if oo.OnString == "" {
				return output.HandleError(errors.New("delete requires --on"))
			}
			on, err := oo.GetOn(time.Now())
			if err != nil {
				return output.HandleError(err)
			}
			s, err := loadSession(true)
			if err != nil {
				return output.HandleError(err)
			}
			if err := s.Service.Delete(cmd.Context(), on); err != nil {
				return output.HandleError(err)
			}
			if output.JSON {
				return printers.JSON(nil, map[string]string{"deleted": on.String()})
			}
			_, _ = fmt.Fprintf(printers.Output(), "deleted %s\n", on)
			return nil
		},
	}

	options.AddOnArgs(cmd, oo)
	topLevel.AddCommand(cmd)
}
