package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cartbook/internal/models"
	"cartbook/internal/timeslot"

	"github.com/google/uuid"
)

const bookingColumns = "id, device, name, partner, place, date, end_time, returned, owner"

// ListBookings returns all booking records ordered by start time
// ascending, matching the order the read-side projections expect.
func (db *DB) ListBookings(ctx context.Context) ([]models.BookingRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY date ASC, id ASC", bookingColumns, db.table)
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var recs []models.BookingRecord
	for rows.Next() {
		var rec models.BookingRecord
		if err := rows.Scan(
			&rec.ID, &rec.Device, &rec.Name, &rec.Partner, &rec.Place,
			&rec.Date, &rec.EndTime, &rec.Returned, &rec.Owner,
		); err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	return recs, nil
}

// GetBooking returns a single record by id.
func (db *DB) GetBooking(ctx context.Context, id string) (models.BookingRecord, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", bookingColumns, db.table)
	var rec models.BookingRecord
	err := db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID, &rec.Device, &rec.Name, &rec.Partner, &rec.Place,
		&rec.Date, &rec.EndTime, &rec.Returned, &rec.Owner,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.BookingRecord{}, models.ErrNotFound
	}
	if err != nil {
		return models.BookingRecord{}, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	return rec, nil
}

// CreateBooking inserts the record and returns the assigned id. The
// device/window conflict check is repeated inside the transaction, so
// two clients racing past their stale availability snapshots cannot both
// commit an overlapping booking.
func (db *DB) CreateBooking(ctx context.Context, rec models.BookingRecord) (string, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%w: begin tx: %v", models.ErrStorageUnavailable, err)
	}
	defer func() { _ = tx.Rollback() }()

	start := rec.Date
	end := rec.EndTime
	if end == 0 {
		end = start + int64(timeslot.SlotDuration.Seconds())
	}

	// Overlap against both stored variants: explicit end_time windows and
	// fixed two-hour slots.
	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM %s
		WHERE device = ?
		  AND date < ?
		  AND (CASE WHEN end_time > 0 THEN end_time ELSE date + ? END) > ?`,
		db.table,
	)
	var conflicts int64
	err = tx.QueryRowContext(ctx, query,
		rec.Device, end, int64(timeslot.SlotDuration.Seconds()), start,
	).Scan(&conflicts)
	if err != nil {
		return "", fmt.Errorf("%w: check availability: %v", models.ErrStorageUnavailable, err)
	}
	if conflicts > 0 {
		return "", models.ErrConflict
	}

	id := uuid.New().String()
	insert := fmt.Sprintf(`
		INSERT INTO %s (id, device, name, partner, place, date, end_time, returned, owner)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		db.table,
	)
	_, err = tx.ExecContext(ctx, insert,
		id, rec.Device, rec.Name, rec.Partner, rec.Place,
		rec.Date, rec.EndTime, rec.Returned, rec.Owner,
	)
	if err != nil {
		return "", fmt.Errorf("%w: insert booking: %v", models.ErrStorageUnavailable, err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("%w: commit: %v", models.ErrStorageUnavailable, err)
	}

	db.logger.Info().Str("id", id).Str("device", rec.Device).Int64("date", rec.Date).Msg("booking created")
	return id, nil
}

// DeleteBooking removes the record permanently.
func (db *DB) DeleteBooking(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", db.table)
	result, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	db.logger.Info().Str("id", id).Msg("booking deleted")
	return nil
}

// SetReturned updates only the returned flag.
func (db *DB) SetReturned(ctx context.Context, id string, returned bool) error {
	query := fmt.Sprintf("UPDATE %s SET returned = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", db.table)
	result, err := db.ExecContext(ctx, query, returned, id)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	return nil
}
