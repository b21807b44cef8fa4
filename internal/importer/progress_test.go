package importer_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/importer"
	"gitlab.apk-group.net/itops/backend/asset-inventory/internal/importer/domain"
)

func TestSessionStore_BeginGeneratesID(t *testing.T) {
	store := importer.NewSessionStore(time.Minute)

	id := store.Begin("", 10)
	require.NotEmpty(t, id)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)

	snap, ok := store.Snapshot(id)
	require.True(t, ok)
	assert.Equal(t, id, snap.SessionID)
	assert.Equal(t, 10, snap.Total)
	assert.Equal(t, "starting", snap.CurrentActivity)
	assert.False(t, snap.Done)
}

func TestSessionStore_BeginKeepsCallerID(t *testing.T) {
	store := importer.NewSessionStore(time.Minute)
	assert.Equal(t, "session-1", store.Begin("session-1", 3))
}

func TestSessionStore_RecordRowAccumulates(t *testing.T) {
	store := importer.NewSessionStore(time.Minute)
	id := store.Begin("", 4)

	store.RecordRow(id, domain.RowOutcome{
		RowIndex:   0,
		Kind:       domain.OutcomeSuccess,
		AssetType:  "LAPTOP",
		Status:     "assigned",
		UserKey:    "Jane Doe",
		Classified: true,
	})
	store.RecordRow(id, domain.RowOutcome{
		RowIndex:    1,
		Kind:        domain.OutcomeSuccess,
		AssetType:   "LAPTOP",
		Status:      "available",
		LocationKey: "Amsterdam HQ",
	})
	store.RecordRow(id, domain.RowOutcome{
		RowIndex:    2,
		Kind:        domain.OutcomeSkipped,
		Reason:      "existing asset matches serial_number",
		OriginalRow: map[string]string{"Serial": "SN-2"},
	})
	store.RecordRow(id, domain.RowOutcome{
		RowIndex: 3,
		Kind:     domain.OutcomeFailed,
		Error:    "database gone",
	})

	snap, ok := store.Snapshot(id)
	require.True(t, ok)
	assert.Equal(t, 4, snap.Processed)
	assert.Equal(t, 2, snap.Successful)
	assert.Equal(t, 1, snap.Skipped)
	assert.Equal(t, 1, snap.Failed)
	assert.Equal(t, 2, snap.ByType["LAPTOP"])
	assert.Equal(t, 1, snap.ByStatus["assigned"])
	assert.Equal(t, 1, snap.ByStatus["available"])
	assert.Equal(t, []string{"Jane Doe"}, snap.Users)
	assert.Equal(t, []string{"Amsterdam HQ"}, snap.Locations)
	assert.Equal(t, 1, snap.Classified)

	require.Len(t, snap.Skips, 1)
	assert.Equal(t, 2, snap.Skips[0].RowIndex)
	assert.Equal(t, map[string]string{"Serial": "SN-2"}, snap.Skips[0].OriginalRow)
	require.Len(t, snap.Errors, 1)
	assert.Equal(t, "database gone", snap.Errors[0].Reason)
}

func TestSessionStore_RecordRowUnknownSession(t *testing.T) {
	store := importer.NewSessionStore(time.Minute)
	store.RecordRow("no-such-session", domain.RowOutcome{Kind: domain.OutcomeSuccess})

	_, ok := store.Snapshot("no-such-session")
	assert.False(t, ok)
}

func TestSessionStore_FinishMarksTerminal(t *testing.T) {
	store := importer.NewSessionStore(time.Minute)
	id := store.Begin("", 1)

	store.Finish(id)

	snap, ok := store.Snapshot(id)
	require.True(t, ok)
	assert.True(t, snap.Done)
	assert.Equal(t, "finished", snap.CurrentActivity)
}

func TestSessionStore_FinishedSessionsPurgedAfterRetention(t *testing.T) {
	store := importer.NewSessionStore(time.Nanosecond)

	finished := store.Begin("finished-run", 1)
	store.Finish(finished)
	running := store.Begin("running-run", 1)

	time.Sleep(time.Millisecond)
	// Purge runs lazily on the next Begin.
	store.Begin("trigger", 1)

	_, ok := store.Snapshot(finished)
	assert.False(t, ok, "finished session past retention should be gone")
	_, ok = store.Snapshot(running)
	assert.True(t, ok, "unfinished sessions are never purged")
}

func TestSessionStore_SnapshotIsACopy(t *testing.T) {
	store := importer.NewSessionStore(time.Minute)
	id := store.Begin("", 2)
	store.RecordRow(id, domain.RowOutcome{RowIndex: 0, Kind: domain.OutcomeSuccess, AssetType: "PHONE"})

	snap, ok := store.Snapshot(id)
	require.True(t, ok)
	snap.ByType["PHONE"] = 99
	snap.Errors = append(snap.Errors, domain.RowDetail{Reason: "tampered"})

	fresh, ok := store.Snapshot(id)
	require.True(t, ok)
	assert.Equal(t, 1, fresh.ByType["PHONE"])
	assert.Empty(t, fresh.Errors)
}
