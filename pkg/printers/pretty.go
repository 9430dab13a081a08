package printers

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/moodlog/pkg/app"
	"tableflip.dev/moodlog/pkg/checkin"
	"tableflip.dev/moodlog/pkg/entry"
	"tableflip.dev/moodlog/pkg/schedule"
)

type PrettyPrint struct {
	Out io.Writer
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " day")
	default:
		_, _ = c.Fprintln(pp.out(), " days")
	}
}

// Entries renders one row per day.
func (pp *PrettyPrint) Entries(entries ...*entry.Entry) {
	if len(entries) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Date"), bold.Sprint("Start"), bold.Sprint("End"), bold.Sprint("Value"), bold.Sprint("Average"))
	for _, e := range entries {
		value, average := "-", "-"
		if v, ok := e.Value(); ok {
			value = signed(v)
		}
		if v, ok := e.AverageMood(); ok {
			average = strconv.FormatFloat(v, 'f', 1, 64)
		}
		tbl.AddRow(e.Date.String(), mood(e.StartOfWork), mood(e.EndOfWork), value, average)
	}
	tbl.RightAlign(1)
	tbl.RightAlign(2)
	tbl.RightAlign(3)
	tbl.RightAlign(4)

	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Entry renders the full detail of a single day.
func (pp *PrettyPrint) Entry(e *entry.Entry) {
	pp.Title(e.Date.In(time.Local).Weekday().String() + " " + e.Date.String())

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("start of work", mood(e.StartOfWork))
	tbl.AddRow("end of work", mood(e.EndOfWork))
	if v, ok := e.Value(); ok {
		tbl.AddRow("value", signed(v))
	}
	if v, ok := e.AverageMood(); ok {
		tbl.AddRow("average", strconv.FormatFloat(v, 'f', 1, 64))
	}
	if v, ok := e.AdjustedAverageMood(); ok {
		tbl.AddRow("adjusted", strconv.FormatFloat(v, 'f', 1, 64))
	}
	if !e.CreatedAt.IsZero() {
		tbl.AddRow("created", e.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	if !e.LastModified.IsZero() {
		tbl.AddRow("saved", e.LastModified.Local().Format("2006-01-02 15:04"))
	}
	tbl.RightAlign(0)

	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// Schedule renders the default times followed by any overrides.
func (pp *PrettyPrint) Schedule(cfg *schedule.Config) {
	pp.Title("Check-in times")

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("morning", schedule.FormatClock(cfg.Morning))
	tbl.AddRow("evening", schedule.FormatClock(cfg.Evening))
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()

	overrides := cfg.Overrides()
	pp.TitleWithCount("Overrides", len(overrides))
	if len(overrides) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " none\n\n")
		return
	}

	faint := color.New(color.Faint)
	tbl = uitable.New()
	tbl.Separator = "  "
	for _, o := range overrides {
		m := faint.Sprint(schedule.FormatClock(cfg.Morning))
		if o.Morning != nil {
			m = schedule.FormatClock(*o.Morning)
		}
		ev := faint.Sprint(schedule.FormatClock(cfg.Evening))
		if o.Evening != nil {
			ev = schedule.FormatClock(*o.Evening)
		}
		tbl.AddRow(o.Date.String(), m, ev)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

// reminderWidth keeps reminders readable in a notification-sized pane.
const reminderWidth = 60

// Reminder prints the reminder text, or an idle note when none is due.
func (pp *PrettyPrint) Reminder(r checkin.Reminder) {
	switch r := r.(type) {
	case checkin.MorningReminder:
		_, _ = color.New(color.FgHiYellow).Fprintln(pp.out(), wordwrap.String(r.Message, reminderWidth))
	case checkin.EveningReminder:
		_, _ = color.New(color.FgHiMagenta).Fprintln(pp.out(), wordwrap.String(r.Message, reminderWidth))
	default:
		_, _ = color.New(color.Faint, color.Italic).Fprintln(pp.out(), "Nothing due right now.")
	}
}

// Report prints the summary line items of a report.
func (pp *PrettyPrint) Report(result app.ReportResult, label string) {
	pp.Title(fmt.Sprintf("Report · last %s (%s → %s)", label, result.Since, result.Until))

	if result.Recorded == 0 {
		_, _ = color.New(color.Faint, color.Italic).Fprint(pp.out(), " no readings in this window\n\n")
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("days recorded", strconv.Itoa(result.Recorded))
	tbl.AddRow("complete days", strconv.Itoa(result.Complete))
	tbl.AddRow("missed mornings", strconv.Itoa(result.MissedMornings))
	tbl.AddRow("average mood", optional(result.AverageMood))
	tbl.AddRow("adjusted mood", optional(result.AdjustedMood))
	tbl.AddRow("average change", optional(result.AverageValue))
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(pp.out(), tbl)
	pp.NewLine()
}

func mood(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func signed(v int) string {
	if v > 0 {
		return "+" + strconv.Itoa(v)
	}
	return strconv.Itoa(v)
}

func optional(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
