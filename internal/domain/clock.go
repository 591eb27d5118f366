package domain

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Today returns the calendar date of c.Now() in loc, as midnight UTC.
// Pass a fake clock in tests to freeze the reference date used by
// [BuildDateSequence]. A nil loc means UTC.
func Today(c clockwork.Clock, loc *time.Location) time.Time {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	if loc == nil {
		loc = time.UTC
	}
	return dateOf(c.Now().In(loc))
}

// dateOf drops the clock part of t and re-anchors its calendar date at UTC
// midnight so dates compare and hash consistently.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
