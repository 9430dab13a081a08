package printers

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/fatih/color"

	"tableflip.dev/moodlog/pkg/entry"
)

const width = len("11 12 13 14 15 16 17") // an example week

// Calendar prints every month touched by [since, until] with each day shaded
// by its recorded mood.
func (pp *PrettyPrint) Calendar(since, until civil.Date, entries ...*entry.Entry) {
	byDate := make(map[civil.Date]*entry.Entry, len(entries))
	for _, e := range entries {
		byDate[e.Date] = e
	}

	month := civil.Date{Year: since.Year, Month: since.Month, Day: 1}
	for !month.After(until) {
		pp.PrintMonth(month, byDate)
		month = NextMonth(month)
	}
}

// PrintMonth renders one month grid.
func (pp *PrettyPrint) PrintMonth(then civil.Date, byDate map[civil.Date]*entry.Entry) {
	w := pp.out()
	d := StartDay(then)

	tf := color.New(color.FgWhite, color.Italic)

	m := then.Month.String()
	mid := (width - len(m)) / 2
	_, _ = tf.Fprintf(w, "%s%s%s\n", strings.Repeat(" ", mid), m, strings.Repeat(" ", width-mid-len(m)))

	// Pad out the start of the month.
	for i := time.Sunday; i < d; i++ {
		_, _ = fmt.Fprint(w, "   ")
	}

	for i := 1; i <= DaysIn(then); i++ {
		day := civil.Date{Year: then.Year, Month: then.Month, Day: i}
		_, _ = shade(byDate[day]).Fprintf(w, "%2d ", i)

		d++
		if d > time.Saturday {
			d = time.Sunday
			_, _ = fmt.Fprint(w, "\n")
		}
	}
	_, _ = fmt.Fprint(w, "\n\n")
}

// shade picks a color for a day: faint when nothing is recorded, yellow for
// a missing reading, then red through green by the day's change in mood.
func shade(e *entry.Entry) *color.Color {
	switch {
	case e == nil || (!e.MorningDone() && !e.EveningDone()):
		return color.New(color.Faint, color.FgWhite)
	case !e.MorningDone() || !e.EveningDone():
		return color.New(color.FgYellow)
	}
	v, _ := e.Value()
	switch {
	case v > 0:
		return color.New(color.Bold, color.FgGreen)
	case v < 0:
		return color.New(color.Bold, color.FgRed)
	default:
		return color.New(color.Bold, color.FgHiWhite)
	}
}

func NextMonth(then civil.Date) civil.Date {
	if then.Month == time.December {
		return civil.Date{Year: then.Year + 1, Month: time.January, Day: 1}
	}
	return civil.Date{Year: then.Year, Month: then.Month + 1, Day: 1}
}

func DaysIn(then civil.Date) int {
	return time.Date(then.Year, then.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func StartDay(then civil.Date) time.Weekday {
	return time.Date(then.Year, then.Month, 1, 1, 0, 0, 0, time.UTC).Weekday()
}
