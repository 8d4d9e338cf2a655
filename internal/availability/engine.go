// Package availability computes which reservation slots are free for a
// device on a given day, over an already-fetched booking snapshot.
package availability

import (
	"time"

	"cartbook/internal/models"
	"cartbook/internal/timeslot"
)

// Opening pairs a configured window label with its availability.
type Opening struct {
	Label     string `json:"label"`
	Available bool   `json:"available"`
}

// Engine holds the configured ordered opening list.
type Engine struct {
	openings     []string
	bookedSuffix string
}

// New creates an engine over the configured openings. The opening order
// is preserved in every result.
func New(openings []string, bookedSuffix string) *Engine {
	return &Engine{openings: openings, bookedSuffix: bookedSuffix}
}

// Openings returns the configured labels in order.
func (e *Engine) Openings() []string {
	out := make([]string, len(e.openings))
	copy(out, e.openings)
	return out
}

// FixedSlots marks each configured opening as taken when a booking for
// the device on the target day carries the identical window label.
//
// Matching is by exact label string, not interval intersection: a
// variable-duration booking that overlaps an opening without sharing its
// label is not detected here. CheckWindow does true overlap detection
// for the variable-duration path.
//
// An empty device or zero date means the caller cannot determine
// availability yet, so nothing is marked taken.
func (e *Engine) FixedSlots(bookings []models.Booking, device string, date time.Time) []Opening {
	out := make([]Opening, len(e.openings))
	for i, label := range e.openings {
		out[i] = Opening{Label: label, Available: true}
	}

	if device == "" || date.IsZero() {
		return out
	}

	taken := make(map[string]bool)
	for i := range bookings {
		b := &bookings[i]
		if b.Device != device || !timeslot.SameDay(b.Date, date) {
			continue
		}
		taken[b.Window().Label()] = true
	}

	for i := range out {
		if taken[out[i].Label] {
			out[i].Available = false
		}
	}
	return out
}

// CheckWindow returns the first booking for the device on the same day
// whose window truly overlaps the candidate, or nil when the candidate
// is free. Both directions of containment count as a conflict.
func (e *Engine) CheckWindow(bookings []models.Booking, device string, candidate timeslot.Window) *models.Booking {
	for i := range bookings {
		b := &bookings[i]
		if b.Device != device || !timeslot.SameDay(b.Date, candidate.Start) {
			continue
		}
		if b.Window().Overlaps(candidate) {
			return b
		}
	}
	return nil
}

// Annotate renders opening labels for display, appending the configured
// booked marker to taken slots ("06:00 - 08:00 (Reservado)").
func (e *Engine) Annotate(openings []Opening) []string {
	out := make([]string, len(openings))
	for i, o := range openings {
		if o.Available {
			out[i] = o.Label
		} else {
			out[i] = o.Label + " (" + e.bookedSuffix + ")"
		}
	}
	return out
}
