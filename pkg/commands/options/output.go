package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/moodlog/pkg/printers"
)

// OutputOptions selects machine-readable output for every subcommand.
type OutputOptions struct {
	JSON bool
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.PersistentFlags().BoolVar(&po.JSON, "json", false,
		"Output as JSON.")
}

// HandleError reports err as {"error": ...} on stdout when JSON output is
// on, so scripts always get a parseable document, and returns it unchanged
// otherwise.
func (o *OutputOptions) HandleError(err error) error {
	if !o.JSON || err == nil {
		return err
	}
	return printers.JSON(nil, map[string]string{"error": err.Error()})
}
