package info

import (
	"context"
	"fmt"
	"io"
	"os"

	"tableflip.dev/moodlog/pkg/printers"
	"tableflip.dev/moodlog/pkg/store"
)

type Info struct {
	Config      store.Config
	Persistence store.Persistence
	Out         io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = printers.Output()
	}

	if override := os.Getenv("MOODLOG_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(out, "MOODLOG_CONFIG_PATH found on env, using ", override)
	} else {
		_, _ = fmt.Fprintln(out, "MOODLOG_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}

	_, _ = fmt.Fprintln(out, "Config.path:     ", n.Config.BasePath())
	_, _ = fmt.Fprintln(out, "Config.interval: ", n.Config.Interval())
	if f := n.Config.LogFile(); f != "" {
		_, _ = fmt.Fprintln(out, "Config.log.file: ", f)
	}

	if n.Persistence == nil {
		return fmt.Errorf("failed to create persistence object")
	}

	entries := n.Persistence.ListAll(ctx)
	_, _ = fmt.Fprintf(out, "Entries: %d\n", len(entries))
	if len(entries) > 0 {
		_, _ = fmt.Fprintf(out, "  first %s\n", entries[0].Date)
		_, _ = fmt.Fprintf(out, "  last  %s\n", entries[len(entries)-1].Date)
	}

	cfg, err := n.Persistence.LoadSchedule()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Overrides: %d\n", len(cfg.Overrides()))
	return nil
}
