package database

import (
	"context"
	"fmt"

	"cartbook/internal/models"
)

// AuditEntry is one recorded lifecycle event.
type AuditEntry struct {
	ID        int64  `json:"id"`
	EventType string `json:"event_type"`
	Payload   string `json:"payload"` // JSON as published
	CreatedAt string `json:"created_at"`
}

// InsertAuditEntry appends a lifecycle event to the audit trail.
func (db *DB) InsertAuditEntry(ctx context.Context, eventType string, payload []byte) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO audit_log (event_type, payload) VALUES (?, ?)`,
		eventType, string(payload),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	return nil
}

// ListAuditEntries returns the newest entries first, capped at limit.
func (db *DB) ListAuditEntries(ctx context.Context, limit int) ([]AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.QueryContext(ctx,
		`SELECT id, event_type, payload, created_at FROM audit_log ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		if err := rows.Scan(&e.ID, &e.EventType, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStorageUnavailable, err)
	}
	return entries, nil
}
