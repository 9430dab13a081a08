package checkin

import "cloud.google.com/go/civil"

// Rollover reports whether a check observed a new calendar day.
type Rollover struct {
	Changed bool
	Old     civil.Date
	New     civil.Date
}

// Watcher remembers the last date it observed.
type Watcher struct {
	last civil.Date
}

func NewWatcher(today civil.Date) Watcher {
	return Watcher{last: today}
}

func (w Watcher) Last() civil.Date {
	return w.last
}

// Check compares current with the remembered date. Moving forward reports a
// change; a clock that went backwards is adopted without one, as is the
// first date seen by a zero Watcher.
func (w *Watcher) Check(current civil.Date) Rollover {
	prev := w.last
	w.last = current
	if prev != (civil.Date{}) && current.After(prev) {
		return Rollover{Changed: true, Old: prev, New: current}
	}
	return Rollover{}
}
