package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRecord(t *testing.T) {
	loc := time.UTC
	start := time.Date(2026, 5, 1, 6, 0, 0, 0, loc)

	valid := BookingRecord{
		ID:      "abc",
		Device:  "Carrinho 1",
		Name:    "Maria",
		Partner: "João",
		Place:   "Sesc",
		Date:    start.Unix(),
	}

	t.Run("fixed slot", func(t *testing.T) {
		b, err := FromRecord(valid, loc)
		require.NoError(t, err)
		assert.Equal(t, "abc", b.ID)
		assert.True(t, b.Date.Equal(start))
		assert.Nil(t, b.EndTime)

		w := b.Window()
		assert.True(t, w.End.Equal(start.Add(2*time.Hour)))
	})

	t.Run("variable duration", func(t *testing.T) {
		rec := valid
		rec.EndTime = start.Add(90 * time.Minute).Unix()

		b, err := FromRecord(rec, loc)
		require.NoError(t, err)
		require.NotNil(t, b.EndTime)
		assert.True(t, b.EndTime.Equal(start.Add(90*time.Minute)))
		assert.True(t, b.Window().End.Equal(*b.EndTime))
	})

	t.Run("missing fields", func(t *testing.T) {
		mutations := map[string]func(*BookingRecord){
			"device":  func(r *BookingRecord) { r.Device = "" },
			"name":    func(r *BookingRecord) { r.Name = "" },
			"partner": func(r *BookingRecord) { r.Partner = "" },
			"place":   func(r *BookingRecord) { r.Place = "" },
			"date":    func(r *BookingRecord) { r.Date = 0 },
		}
		for field, mutate := range mutations {
			rec := valid
			mutate(&rec)
			_, err := FromRecord(rec, loc)
			assert.ErrorIs(t, err, ErrMalformedRecord, "missing %s", field)
		}
	})
}

func TestToRecord(t *testing.T) {
	start := time.Date(2026, 5, 1, 15, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	b := Booking{
		ID:      "ignored",
		Device:  "Display 1",
		Name:    "Ana",
		Partner: "Clara",
		Place:   "Sesc",
		Date:    start,
		EndTime: &end,
		Owner:   "ana",
	}

	rec := b.ToRecord()
	assert.Empty(t, rec.ID, "storage assigns the id")
	assert.Equal(t, start.Unix(), rec.Date)
	assert.Equal(t, end.Unix(), rec.EndTime)

	b.EndTime = nil
	assert.Zero(t, b.ToRecord().EndTime)
}

func TestFromRecords(t *testing.T) {
	loc := time.UTC
	good := BookingRecord{
		Device: "Carrinho 1", Name: "Maria", Partner: "João",
		Place: "Sesc", Date: time.Now().Unix(),
	}
	bad := good
	bad.Partner = ""

	bookings, skipped := FromRecords([]BookingRecord{good, bad, good}, loc)
	assert.Len(t, bookings, 2)
	assert.Equal(t, 1, skipped)
}
