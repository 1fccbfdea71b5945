package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotExport(t *testing.T) {
	db := newTestDB(t)
	customer := createCustomer(t, db, "أحمد", "01012345678")
	submitRequest(t, db, customer)
	_, err := NewQuickOrderService(db, NewMemoryFeed()).Create(context.Background(),
		CreateQuickOrderInput{CustomerName: "c", ProductName: "p", Quantity: 1})
	require.NoError(t, err)

	svc := NewSnapshotService(db, nil)
	ctx := context.Background()

	_, err = svc.Export(ctx, staff)
	assert.ErrorIs(t, err, ErrForbidden)

	snap, err := svc.Export(ctx, manager)
	require.NoError(t, err)
	assert.Len(t, snap.Users, 1)
	assert.Len(t, snap.Requests, 1)
	assert.Len(t, snap.Logs, 2)
	assert.Len(t, snap.QuickOrders, 1)

	body, err := json.Marshal(snap)
	require.NoError(t, err)
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &raw))
	for _, key := range []string{"ostaa_users", "ostaa_requests", "ostaa_logs", "quick_orders"} {
		assert.Contains(t, raw, key)
	}
	assert.NotContains(t, string(raw["ostaa_users"]), "password", "Password hashes are never exported")
}

func TestSnapshotBackup(t *testing.T) {
	db := newTestDB(t)
	createCustomer(t, db, "أحمد", "01012345678")
	ctx := context.Background()

	_, err := NewSnapshotService(db, nil).Backup(ctx, manager)
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	storage := NewMockS3Service()
	svc := NewSnapshotService(db, storage)

	_, err = svc.Backup(ctx, staff)
	assert.ErrorIs(t, err, ErrForbidden)

	result, err := svc.Backup(ctx, manager)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.Key, "snapshots/ostaa-"))
	assert.True(t, strings.HasSuffix(result.Key, ".json"))

	body, contentType, ok := storage.Object(result.Key)
	require.True(t, ok)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, result.Size, len(body))
	assert.Contains(t, string(body), "ostaa_users")
	assert.Equal(t, int64(1), countLogs(t, db, ActionBackupCreated))
}
