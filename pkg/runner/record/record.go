package record

import (
	"context"
	"errors"
	"io"
	"time"

	"cloud.google.com/go/civil"

	"tableflip.dev/moodlog/pkg/app"
	"tableflip.dev/moodlog/pkg/printers"
)

// Record stores one mood reading and prints the resulting day.
type Record struct {
	Service *app.Service
	Date    civil.Date
	Slot    app.Slot
	Value   int
	JSON    bool

	Now func() time.Time
	Out io.Writer
}

func (n *Record) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not record, no service")
	}
	now := time.Now()
	if n.Now != nil {
		now = n.Now()
	}

	e, err := n.Service.Record(ctx, n.Date, n.Slot, n.Value, now)
	if err != nil {
		return err
	}

	if n.JSON {
		return printers.JSON(n.Out, e)
	}
	pp := printers.PrettyPrint{Out: n.Out}
	pp.Entry(e)
	return nil
}
