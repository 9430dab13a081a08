package report

import (
	"context"
	"errors"
	"io"

	"cloud.google.com/go/civil"

	"tableflip.dev/moodlog/pkg/app"
	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/printers"
)

// Report summarises mood across [Since, Until] and optionally shades a
// month calendar.
type Report struct {
	Service  *app.Service
	Since    civil.Date
	Until    civil.Date
	Label    string
	Calendar bool
	JSON     bool

	Out io.Writer
}

func (n *Report) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not report, no service")
	}

	result, err := n.Service.Report(ctx, n.Since, n.Until)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(n.Out, result)
	}

	pp := printers.PrettyPrint{Out: n.Out}
	pp.Report(result, n.Label)
	if n.Calendar {
		entries := make([]*entry.Entry, 0, len(result.Days))
		for _, d := range result.Days {
			entries = append(entries, d.Entry)
		}
		pp.Calendar(result.Since, result.Until, entries...)
	}
	return nil
}
