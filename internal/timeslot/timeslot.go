// Package timeslot provides pure slot arithmetic over booking windows.
package timeslot

import (
	"fmt"
	"time"
)

// SlotDuration is the length of a fixed reservation slot.
const SlotDuration = 2 * time.Hour

// Bounds for variable-duration windows.
const (
	MinWindow = time.Hour
	MaxWindow = 2 * time.Hour
)

// labelFormat renders times inside opening labels ("06:00 - 08:00").
const labelFormat = "15:04"

// Window is the half-open interval [Start, End) of a booking.
type Window struct {
	Start time.Time
	End   time.Time
}

// FixedWindow returns the fixed-duration window starting at start.
func FixedWindow(start time.Time) Window {
	return Window{Start: start, End: start.Add(SlotDuration)}
}

// NewWindow builds a variable-duration window and enforces the allowed
// duration of 1 to 2 hours inclusive.
func NewWindow(initial, end time.Time) (Window, error) {
	d := end.Sub(initial)
	if d < MinWindow || d > MaxWindow {
		return Window{}, fmt.Errorf("window duration %s outside allowed range [%s, %s]", d, MinWindow, MaxWindow)
	}
	return Window{Start: initial, End: end}, nil
}

// Label formats the window the same way configured openings are written.
func (w Window) Label() string {
	return w.Start.Format(labelFormat) + " - " + w.End.Format(labelFormat)
}

// Overlaps reports whether two half-open windows intersect.
func (w Window) Overlaps(other Window) bool {
	return w.Start.Before(other.End) && other.Start.Before(w.End)
}

// SameDay reports calendar-day equality of two instants. Both arguments
// are expected to carry the deployment's location.
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsPast reports whether the window has fully elapsed.
func IsPast(w Window, now time.Time) bool {
	return w.End.Before(now)
}

// IsCurrent reports whether now falls within the window.
func IsCurrent(w Window, now time.Time) bool {
	return !now.Before(w.Start) && now.Before(w.End)
}

// IsUpcomingSoon reports whether the window starts within the next slot
// length. Used for UI emphasis only.
func IsUpcomingSoon(w Window, now time.Time) bool {
	return now.Before(w.Start) && w.Start.Sub(now) <= SlotDuration
}

// Until returns a human-readable relative label for an upcoming start,
// e.g. "in 2 hours". The zero return for non-future starts is "now".
func Until(start, now time.Time) string {
	d := start.Sub(now)
	switch {
	case d <= 0:
		return "now"
	case d < time.Minute:
		return "in under a minute"
	case d < time.Hour:
		m := int(d.Round(time.Minute) / time.Minute)
		if m == 1 {
			return "in 1 minute"
		}
		return fmt.Sprintf("in %d minutes", m)
	case d < 24*time.Hour:
		h := int(d.Round(time.Hour) / time.Hour)
		if h == 1 {
			return "in 1 hour"
		}
		return fmt.Sprintf("in %d hours", h)
	default:
		days := int(d / (24 * time.Hour))
		if days == 1 {
			return "in 1 day"
		}
		return fmt.Sprintf("in %d days", days)
	}
}
