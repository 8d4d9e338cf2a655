package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditTrail(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t, "production")

	require.NoError(t, db.InsertAuditEntry(ctx, "booking.created", []byte(`{"id":"b1"}`)))
	require.NoError(t, db.InsertAuditEntry(ctx, "booking.deleted", []byte(`{"id":"b1"}`)))

	entries, err := db.ListAuditEntries(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "booking.deleted", entries[0].EventType)
	assert.Equal(t, "booking.created", entries[1].EventType)
	assert.Equal(t, `{"id":"b1"}`, entries[0].Payload)

	t.Run("limit", func(t *testing.T) {
		entries, err := db.ListAuditEntries(ctx, 1)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}
