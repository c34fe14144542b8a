package explorer

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/isrealmodric1-hub/Tokenized-Mutual-Aid-for-Volunteer-Care-Hours/core/types"
)

func setupTestArchive(t *testing.T) *Archive {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	archive, err := New(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = archive.Close() })
	return archive
}

func TestArchiveRecordsAndQueriesByBooking(t *testing.T) {
	archive := setupTestArchive(t)
	ctx := context.Background()

	require.NoError(t, archive.Record(ctx, []types.Event{
		{Type: "booking.created", Height: 1, Attributes: map[string]string{"bookingId": "1", "hours": "4"}},
		{Type: "bank.transfer", Height: 1, Attributes: map[string]string{"amount": "4"}},
		{Type: "booking.created", Height: 1, Attributes: map[string]string{"bookingId": "2"}},
	}))
	require.NoError(t, archive.Record(ctx, []types.Event{
		{Type: "booking.started", Height: 2, Attributes: map[string]string{"bookingId": "1"}},
	}))

	history, err := archive.ByBooking(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, "booking.created", history[0].Type)
	require.Equal(t, "4", history[0].Attributes["hours"])
	require.Equal(t, "booking.started", history[1].Type)
	require.Equal(t, uint64(2), history[1].Height)

	empty, err := archive.ByBooking(ctx, 42)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestArchiveStoresLabels(t *testing.T) {
	archive := setupTestArchive(t)
	require.NoError(t, archive.Record(context.Background(), []types.Event{
		{Type: "booking.disputed", Attributes: map[string]string{"bookingId": "3"}},
	}))
	var row EventRecord
	require.NoError(t, archive.db.First(&row).Error)
	require.Equal(t, "Booking disputed", row.Label)
	require.True(t, row.HasBooking)
	require.Equal(t, uint64(3), row.BookingID)
}

func TestArchiveHookWritesBatch(t *testing.T) {
	archive := setupTestArchive(t)
	hook := archive.Hook(nil)
	hook([]types.Event{{Type: "booking.cancelled", Attributes: map[string]string{"bookingId": "9"}}})
	require.Eventually(t, func() bool {
		history, err := archive.ByBooking(context.Background(), 9)
		return err == nil && len(history) == 1
	}, 5*time.Second, 10*time.Millisecond)
}

func TestArchiveHookDoesNotBlockOnFullQueue(t *testing.T) {
	archive := setupTestArchive(t)
	hook := archive.Hook(nil)
	batch := []types.Event{{Type: "bank.transfer", Attributes: map[string]string{"amount": "1"}}}
	done := make(chan struct{})
	go func() {
		for i := 0; i < hookQueueSize*4; i++ {
			hook(batch)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("hook blocked on a full queue")
	}
}

func TestArchiveHookAfterCloseDropsBatch(t *testing.T) {
	archive := setupTestArchive(t)
	hook := archive.Hook(nil)
	require.NoError(t, archive.Close())
	require.NotPanics(t, func() {
		hook([]types.Event{{Type: "booking.started", Attributes: map[string]string{"bookingId": "1"}}})
	})
}

func TestOpenRejectsEmptyDSN(t *testing.T) {
	_, err := Open("  ")
	require.Error(t, err)
}

func TestLabel(t *testing.T) {
	require.Equal(t, "Care session completed", Label("booking.completed"))
	require.Equal(t, "Evidence submitted", Label(" Verification.Evidence_Submitted "))
	require.Equal(t, "catalog offer created", Label("catalog.offer.created"))
	require.Equal(t, "Event", Label(""))
}
