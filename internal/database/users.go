package database

import (
	"context"
	"fmt"

	"cartbook/internal/models"
)

// ListUsers returns all login users. The set is small (one congregation)
// so login matches against the full list, like the original directory.
func (db *DB) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT username, pin_code, full_name, first_name, last_name, display_name
		FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(
			&u.Username, &u.PinCode, &u.FullName, &u.FirstName, &u.LastName, &u.DisplayName,
		); err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	return users, nil
}

// UpsertUser creates or replaces a user record, keyed by username. Used
// by the batch import.
func (db *DB) UpsertUser(ctx context.Context, u models.User) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO users (username, pin_code, full_name, first_name, last_name, display_name)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET
			pin_code = excluded.pin_code,
			full_name = excluded.full_name,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			display_name = excluded.display_name`,
		u.Username, u.PinCode, u.FullName, u.FirstName, u.LastName, u.DisplayName,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	return nil
}
