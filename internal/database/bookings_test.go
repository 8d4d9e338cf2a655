package database

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"cartbook/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T, env string) *DB {
	t.Helper()
	logger := zerolog.New(io.Discard)
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"), env, &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func record(device string, date time.Time) models.BookingRecord {
	return models.BookingRecord{
		Device:  device,
		Name:    "Maria",
		Partner: "João",
		Place:   "Sesc",
		Date:    date.Unix(),
		Owner:   "maria",
	}
}

func TestTableName(t *testing.T) {
	assert.Equal(t, "bookings_dev", TableName("development"))
	assert.Equal(t, "bookings", TableName("production"))
	assert.Equal(t, "bookings", TableName(""))
}

func TestBookingCRUD(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, "production")
	base := time.Date(2026, 5, 1, 6, 0, 0, 0, time.UTC)

	t.Run("create assigns id and round trips", func(t *testing.T) {
		id, err := db.CreateBooking(ctx, record("Carrinho 1", base))
		require.NoError(t, err)
		require.NotEmpty(t, id)

		rec, err := db.GetBooking(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Carrinho 1", rec.Device)
		assert.Equal(t, base.Unix(), rec.Date)
		assert.Zero(t, rec.EndTime)
		assert.False(t, rec.Returned)
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := db.GetBooking(ctx, "missing")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("list ordered by start", func(t *testing.T) {
		_, err := db.CreateBooking(ctx, record("Carrinho 1", base.Add(4*time.Hour)))
		require.NoError(t, err)
		_, err = db.CreateBooking(ctx, record("Carrinho 1", base.Add(2*time.Hour)))
		require.NoError(t, err)

		recs, err := db.ListBookings(ctx)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(recs), 3)
		for i := 1; i < len(recs); i++ {
			assert.LessOrEqual(t, recs[i-1].Date, recs[i].Date)
		}
	})

	t.Run("set returned and delete", func(t *testing.T) {
		id, err := db.CreateBooking(ctx, record("Carrinho 1", base.Add(24*time.Hour)))
		require.NoError(t, err)

		require.NoError(t, db.SetReturned(ctx, id, true))
		rec, err := db.GetBooking(ctx, id)
		require.NoError(t, err)
		assert.True(t, rec.Returned)

		require.NoError(t, db.DeleteBooking(ctx, id))
		_, err = db.GetBooking(ctx, id)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("mutations on missing ids", func(t *testing.T) {
		assert.ErrorIs(t, db.DeleteBooking(ctx, "missing"), models.ErrNotFound)
		assert.ErrorIs(t, db.SetReturned(ctx, "missing", true), models.ErrNotFound)
	})
}

func TestCreateBookingConflicts(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

	variable := func(device string, start, end time.Time) models.BookingRecord {
		rec := record(device, start)
		rec.EndTime = end.Unix()
		return rec
	}

	t.Run("duplicate fixed slot rejected", func(t *testing.T) {
		db := newTestDB(t, "production")

		_, err := db.CreateBooking(ctx, record("Carrinho 1", base))
		require.NoError(t, err)
		_, err = db.CreateBooking(ctx, record("Carrinho 1", base))
		assert.ErrorIs(t, err, models.ErrConflict)
	})

	t.Run("fixed slot blocks overlapping window", func(t *testing.T) {
		db := newTestDB(t, "production")

		_, err := db.CreateBooking(ctx, record("Carrinho 1", base))
		require.NoError(t, err)

		// 10:00 - 11:00 falls inside the 09:00 fixed two-hour slot.
		_, err = db.CreateBooking(ctx, variable("Carrinho 1", base.Add(time.Hour), base.Add(2*time.Hour)))
		assert.ErrorIs(t, err, models.ErrConflict)
	})

	t.Run("window blocks contained window", func(t *testing.T) {
		db := newTestDB(t, "production")

		_, err := db.CreateBooking(ctx, variable("Carrinho 1", base, base.Add(2*time.Hour)))
		require.NoError(t, err)
		_, err = db.CreateBooking(ctx, variable("Carrinho 1", base.Add(30*time.Minute), base.Add(90*time.Minute)))
		assert.ErrorIs(t, err, models.ErrConflict)
	})

	t.Run("adjacent windows coexist", func(t *testing.T) {
		db := newTestDB(t, "production")

		_, err := db.CreateBooking(ctx, variable("Carrinho 1", base, base.Add(time.Hour)))
		require.NoError(t, err)
		_, err = db.CreateBooking(ctx, variable("Carrinho 1", base.Add(time.Hour), base.Add(2*time.Hour)))
		assert.NoError(t, err)
	})

	t.Run("other device unaffected", func(t *testing.T) {
		db := newTestDB(t, "production")

		_, err := db.CreateBooking(ctx, record("Carrinho 1", base))
		require.NoError(t, err)
		_, err = db.CreateBooking(ctx, record("Display 1", base))
		assert.NoError(t, err)
	})
}

func TestEnvironmentNamespacing(t *testing.T) {
	ctx := context.Background()
	logger := zerolog.New(io.Discard)
	path := filepath.Join(t.TempDir(), "shared.db")

	prod, err := NewDB(path, "production", &logger)
	require.NoError(t, err)
	defer prod.Close()

	dev, err := NewDB(path, "development", &logger)
	require.NoError(t, err)
	defer dev.Close()

	date := time.Date(2026, 5, 1, 6, 0, 0, 0, time.UTC)
	_, err = prod.CreateBooking(ctx, record("Carrinho 1", date))
	require.NoError(t, err)

	devRecs, err := dev.ListBookings(ctx)
	require.NoError(t, err)
	assert.Empty(t, devRecs, "development namespace must not see production data")

	prodRecs, err := prod.ListBookings(ctx)
	require.NoError(t, err)
	assert.Len(t, prodRecs, 1)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, "production")

	user := models.User{Username: "José Silva", PinCode: "1234", FullName: "José Silva"}
	require.NoError(t, db.UpsertUser(ctx, user))

	// Upsert replaces the pin for the same username.
	user.PinCode = "5678"
	require.NoError(t, db.UpsertUser(ctx, user))

	users, err := db.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "5678", users[0].PinCode)
}
