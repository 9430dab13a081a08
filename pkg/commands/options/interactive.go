package options

import (
	"github.com/spf13/cobra"
)

// InteractiveOptions switches a command to prompting for its inputs.
type InteractiveOptions struct {
	Interactive bool
}

func InteractiveArgs(cmd *cobra.Command, o *InteractiveOptions) {
	cmd.Flags().BoolVarP(&o.Interactive, "interactive", "i", false,
		`Prompt for the check-in and mood instead of reading them from arguments.`)
}
