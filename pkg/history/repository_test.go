package history

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/inkfeed/inkfeed/internal/database"
	"github.com/inkfeed/inkfeed/internal/event_bus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRepository_RecordAndRecent(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()
	base := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)

	entries := []Entry{
		{Feed: "calendar", Topic: "calendar/test-thing/events", Bytes: 1200, ItemCount: 8, PublishedAt: base},
		{Feed: "weather", Topic: "calendar/test-thing/weather", Bytes: 640, ItemCount: 4, Degraded: true, PublishedAt: base.Add(time.Minute)},
		{Feed: "calendar", Topic: "calendar/test-thing/events", Bytes: 900, ItemCount: 5, PublishedAt: base.Add(2 * time.Minute)},
	}
	for _, entry := range entries {
		require.NoError(t, repo.Record(ctx, entry))
	}

	recent, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 3)

	// Newest first.
	assert.Equal(t, 900, recent[0].Bytes)
	assert.Equal(t, "weather", recent[1].Feed)
	assert.True(t, recent[1].Degraded)
	assert.Equal(t, base, recent[2].PublishedAt)

	limited, err := repo.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, 900, limited[0].Bytes)
}

func TestRepository_LastForFeed(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()
	base := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Record(ctx, Entry{Feed: "calendar", Topic: "t", Bytes: 100, ItemCount: 2, PublishedAt: base}))
	require.NoError(t, repo.Record(ctx, Entry{Feed: "calendar", Topic: "t", Bytes: 200, ItemCount: 3, PublishedAt: base.Add(time.Hour)}))

	last, err := repo.LastForFeed(ctx, "calendar")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, 200, last.Bytes)
	assert.Equal(t, base.Add(time.Hour), last.PublishedAt)

	missing, err := repo.LastForFeed(ctx, "weather")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRecorder_PersistsPublishedFeeds(t *testing.T) {
	repo := NewRepository(setupTestDB(t))
	bus := event_bus.NewEventBus()
	recorder := NewRecorder(bus, repo)
	defer recorder.Close()

	publishedAt := time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)
	err := bus.Publish(event_bus.NewEvent(context.Background(), event_bus.FeedPublishedType, event_bus.FeedPublished{
		Feed:        "weather",
		Topic:       "calendar/test-thing/weather",
		Bytes:       512,
		ItemCount:   4,
		Degraded:    true,
		PublishedAt: publishedAt,
	}))
	require.NoError(t, err)

	last, err := repo.LastForFeed(context.Background(), "weather")
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, 512, last.Bytes)
	assert.True(t, last.Degraded)
	assert.Equal(t, publishedAt, last.PublishedAt)
}
