package models

import (
	"fmt"
	"time"

	"cartbook/internal/timeslot"
)

// Booking is the in-memory shape of a reservation.
type Booking struct {
	ID       string     `json:"id"`
	Device   string     `json:"device"`
	Name     string     `json:"name"`
	Partner  string     `json:"partner"`
	Place    string     `json:"place"`
	Date     time.Time  `json:"date"`               // start of the reservation
	EndTime  *time.Time `json:"end_time,omitempty"` // nil means fixed-duration slot
	Returned bool       `json:"returned"`
	Owner    string     `json:"owner"`
}

// Window returns the effective [start, end) interval of the booking.
// Fixed-duration bookings end SlotDuration after they start.
func (b *Booking) Window() timeslot.Window {
	if b.EndTime != nil {
		return timeslot.Window{Start: b.Date, End: *b.EndTime}
	}
	return timeslot.FixedWindow(b.Date)
}

// BookingRecord is the persisted representation. Instants are stored as
// Unix seconds; the id is carried separately and assigned by storage.
type BookingRecord struct {
	ID       string
	Device   string
	Name     string
	Partner  string
	Place    string
	Date     int64
	EndTime  int64 // 0 means fixed-duration slot
	Returned bool
	Owner    string
}

// FromRecord converts a persisted record into a Booking, placing instants
// in the given location. Records missing required fields are rejected
// with ErrMalformedRecord so callers can skip them.
func FromRecord(rec BookingRecord, loc *time.Location) (Booking, error) {
	switch {
	case rec.Device == "":
		return Booking{}, fmt.Errorf("%w: missing device", ErrMalformedRecord)
	case rec.Name == "":
		return Booking{}, fmt.Errorf("%w: missing name", ErrMalformedRecord)
	case rec.Partner == "":
		return Booking{}, fmt.Errorf("%w: missing partner", ErrMalformedRecord)
	case rec.Place == "":
		return Booking{}, fmt.Errorf("%w: missing place", ErrMalformedRecord)
	case rec.Date == 0:
		return Booking{}, fmt.Errorf("%w: missing date", ErrMalformedRecord)
	}

	b := Booking{
		ID:       rec.ID,
		Device:   rec.Device,
		Name:     rec.Name,
		Partner:  rec.Partner,
		Place:    rec.Place,
		Date:     time.Unix(rec.Date, 0).In(loc),
		Returned: rec.Returned,
		Owner:    rec.Owner,
	}
	if rec.EndTime != 0 {
		end := time.Unix(rec.EndTime, 0).In(loc)
		b.EndTime = &end
	}
	return b, nil
}

// ToRecord is the inverse of FromRecord. The ID field is left empty;
// storage assigns it on creation.
func (b *Booking) ToRecord() BookingRecord {
	rec := BookingRecord{
		Device:   b.Device,
		Name:     b.Name,
		Partner:  b.Partner,
		Place:    b.Place,
		Date:     b.Date.Unix(),
		Returned: b.Returned,
		Owner:    b.Owner,
	}
	if b.EndTime != nil {
		rec.EndTime = b.EndTime.Unix()
	}
	return rec
}

// FromRecords converts a record set, dropping malformed entries. The
// second return value counts the records that were skipped.
func FromRecords(recs []BookingRecord, loc *time.Location) ([]Booking, int) {
	bookings := make([]Booking, 0, len(recs))
	skipped := 0
	for _, rec := range recs {
		b, err := FromRecord(rec, loc)
		if err != nil {
			skipped++
			continue
		}
		bookings = append(bookings, b)
	}
	return bookings, skipped
}
