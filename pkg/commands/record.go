package commands

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tableflip.dev/moodlog/pkg/app"
	"tableflip.dev/moodlog/pkg/commands/options"
	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/runner/record"
)

func addRecord(topLevel *cobra.Command) {
	oo := &options.OnOptions{}
	i := &options.InteractiveOptions{}
	var (
		slot  app.Slot
		value int
	)

	cmd := &cobra.Command{
		Use:   "record morning|evening <1-10>",
		Short: "Record a start-of-work or end-of-work mood",
		Example: `
moodlog record morning 6
moodlog record evening 8 --on yesterday
moodlog record -i
`,
		ValidArgs: []string{"morning", "evening"},
		Args: func(cmd *cobra.Command, args []string) error {
			if i.Interactive {
				return nil
			}
			if len(args) != 2 {
				return errors.New("requires a slot (morning or evening) and a mood from 1 to 10")
			}
			var err error
			if slot, err = app.ParseSlot(args[0]); err != nil {
				return err
			}
			if value, err = parseMood(args[1]); err != nil {
				return err
			}
			return nil
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if !i.Interactive {
				return nil
			}
			var err error
			slot, value, err = promptReading(cmd)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			s, err := loadSession(true)
			if err != nil {
				return output.HandleError(err)
			}
			on, err := oo.GetOn(time.Now())
			if err != nil {
				return output.HandleError(err)
			}
			r := record.Record{
				Service: s.Service,
				Date:    on,
				Slot:    slot,
				Value:   value,
				JSON:    output.JSON,
			}
			return output.HandleError(r.Do(cmd.Context()))
		},
	}

	options.AddOnArgs(cmd, oo)
	options.InteractiveArgs(cmd, i)
	topLevel.AddCommand(cmd)
}

func parseMood(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("mood must be a whole number, got %q", s)
	}
	if !entry.ValidMood(v) {
		return 0, fmt.Errorf("mood must be between %d and %d, got %d", entry.MinMood, entry.MaxMood, v)
	}
	return v, nil
}

func promptReading(cmd *cobra.Command) (app.Slot, int, error) {
	if in, ok := cmd.InOrStdin().(*os.File); ok && !isatty.IsTerminal(in.Fd()) && !isatty.IsCygwinTerminal(in.Fd()) {
		return "", 0, errors.New("--interactive needs a terminal; pass the check-in and mood as arguments instead")
	}
	sel := promptui.Select{
		Label:  "Which check-in",
		Items:  []string{"morning", "evening"},
		Stdin:  readCloser{cmd.InOrStdin()},
		Stdout: writeCloser{cmd.OutOrStdout()},
	}
	_, picked, err := sel.Run()
	if err != nil {
		return "", 0, err
	}
	slot, err := app.ParseSlot(picked)
	if err != nil {
		return "", 0, err
	}

	prompt := promptui.Prompt{
		Label: fmt.Sprintf("Mood (%d-%d)", entry.MinMood, entry.MaxMood),
		Validate: func(input string) error {
			_, err := parseMood(input)
			return err
		},
		Stdin:  readCloser{cmd.InOrStdin()},
		Stdout: writeCloser{cmd.OutOrStdout()},
	}
	result, err := prompt.Run()
	if err != nil {
		return "", 0, err
	}
	v, err := parseMood(result)
	return slot, v, err
}
