// Package projection derives read-side views over the booking set: the
// day-grouped upcoming list and the per-device last-used lookup.
package projection

import (
	"sort"
	"time"

	"cartbook/internal/models"
	"cartbook/internal/timeslot"
)

// DayGroup holds one calendar day's bookings, ordered by start time.
type DayGroup struct {
	Day      time.Time        `json:"day"` // start-of-day instant
	Bookings []models.Booking `json:"bookings"`
}

// GroupByDate filters bookings to those starting on or after today minus
// lookback days, then buckets them by calendar day. Groups come back in
// ascending day order; within a group bookings are ordered by start time,
// falling back to input order for identical starts.
func GroupByDate(bookings []models.Booking, lookbackDays int, now time.Time) []DayGroup {
	cutoff := timeslot.StartOfDay(now).AddDate(0, 0, -lookbackDays)

	filtered := make([]models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if !b.Date.Before(cutoff) {
			filtered = append(filtered, b)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Date.Before(filtered[j].Date)
	})

	var groups []DayGroup
	for _, b := range filtered {
		day := timeslot.StartOfDay(b.Date)
		if len(groups) == 0 || !groups[len(groups)-1].Day.Equal(day) {
			groups = append(groups, DayGroup{Day: day})
		}
		last := &groups[len(groups)-1]
		last.Bookings = append(last.Bookings, b)
	}
	return groups
}

// LastUsedByDevice returns, per device, the booking with the latest start
// among those already started (start <= now). Devices whose bookings are
// all in the future map to nil. Works over the full history, so callers
// must feed it an unfiltered booking set.
func LastUsedByDevice(bookings []models.Booking, now time.Time) map[string]*models.Booking {
	out := make(map[string]*models.Booking)
	for i := range bookings {
		b := bookings[i]
		if _, seen := out[b.Device]; !seen {
			out[b.Device] = nil
		}
		if b.Date.After(now) {
			continue
		}
		prev := out[b.Device]
		if prev == nil || !b.Date.Before(prev.Date) {
			out[b.Device] = &b
		}
	}
	return out
}
