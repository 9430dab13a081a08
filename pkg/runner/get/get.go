package get

import (
	"context"
	"errors"
	"io"

	"cloud.google.com/go/civil"

	"tableflip.dev/moodlog/pkg/app"
	"tableflip.dev/moodlog/pkg/printers"
)

// Get prints a single day when Since is zero, otherwise every recorded day
// in [Since, Until].
type Get struct {
	Service *app.Service
	Since   civil.Date
	Until   civil.Date
	JSON    bool

	Out io.Writer
}

func (n *Get) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not get, no service")
	}
	pp := printers.PrettyPrint{Out: n.Out}

	if n.Since == (civil.Date{}) {
		e, err := n.Service.Entry(ctx, n.Until)
		if err != nil {
			return err
		}
		if n.JSON {
			return printers.JSON(n.Out, e)
		}
		pp.Entry(e)
		return nil
	}

	all, err := n.Service.Range(ctx, n.Since, n.Until)
	if err != nil {
		return err
	}
	if n.JSON {
		return printers.JSON(n.Out, all)
	}
	pp.TitleWithCount(n.Since.String()+" → "+n.Until.String(), len(all))
	pp.Entries(all...)
	return nil
}
