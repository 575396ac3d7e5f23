package database

import (
	"context"
	"testing"
	"time"

	"maale/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnouncements_LatestWins(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	latest, err := db.LatestAnnouncement(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest, "empty board has no active announcement")

	base := time.Date(2026, 3, 15, 10, 0, 0, 0, time.Local)
	first := &models.Announcement{Timestamp: base, Text: "first"}
	second := &models.Announcement{Timestamp: base.Add(time.Hour), Text: "second"}
	require.NoError(t, db.AddAnnouncement(ctx, first))
	require.NoError(t, db.AddAnnouncement(ctx, second))
	assert.NotZero(t, first.ID)

	latest, err = db.LatestAnnouncement(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "second", latest.Text)
	assert.True(t, latest.Timestamp.Equal(second.Timestamp))
}

func TestDeleteLatestAnnouncement(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 15, 10, 0, 0, 0, time.Local)
	require.NoError(t, db.AddAnnouncement(ctx, &models.Announcement{Timestamp: base, Text: "keep"}))
	require.NoError(t, db.AddAnnouncement(ctx, &models.Announcement{Timestamp: base.Add(time.Hour), Text: "drop"}))

	deleted, err := db.DeleteLatestAnnouncement(ctx)
	require.NoError(t, err)
	assert.Equal(t, "drop", deleted.Text)

	// The previous entry becomes active again
	latest, err := db.LatestAnnouncement(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "keep", latest.Text)

	_, err = db.DeleteLatestAnnouncement(ctx)
	require.NoError(t, err)

	_, err = db.DeleteLatestAnnouncement(ctx)
	assert.ErrorIs(t, err, ErrNothingToDelete)
}

func TestListAnnouncements_InsertionOrder(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 15, 10, 0, 0, 0, time.Local)
	for i, text := range []string{"a", "b", "c"} {
		a := &models.Announcement{Timestamp: base.Add(time.Duration(i) * time.Minute), Text: text}
		require.NoError(t, db.AddAnnouncement(ctx, a))
	}

	list, err := db.ListAnnouncements(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "a", list[0].Text)
	assert.Equal(t, "c", list[2].Text)
}
