package state

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"bites4life/internal/dashboard/client"
)

func TestStore_UpdateKeepsRidersOnError(t *testing.T) {
	var store Store
	store.Update([]client.Rider{
		{Name: "Ali", Code: "1001", RingStatus: client.RingRinging},
		{Name: "Bilal", Code: "1002", RingStatus: client.RingIdle},
	}, nil)

	snap := store.Snapshot()
	assert.Len(t, snap.Riders, 2)
	assert.False(t, snap.IsOffline())
	assert.Equal(t, []client.Rider{snap.Riders[0]}, snap.Ringing())

	store.Update(nil, errors.New("boom"))
	store.Update(nil, errors.New("boom"))
	snap = store.Snapshot()
	assert.Len(t, snap.Riders, 2)
	assert.EqualError(t, snap.LastError, "boom")
	assert.True(t, snap.IsOffline())

	store.Update(nil, nil)
	snap = store.Snapshot()
	assert.Empty(t, snap.Riders)
	assert.Zero(t, snap.ConsecutiveFailures)
	assert.NoError(t, snap.LastError)
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	var store Store
	store.Update([]client.Rider{{Name: "Ali"}}, nil)

	snap := store.Snapshot()
	snap.Riders[0].Name = "changed"
	assert.Equal(t, "Ali", store.Snapshot().Riders[0].Name)
}
