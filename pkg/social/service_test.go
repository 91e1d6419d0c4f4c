package social

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/austinfarr/read-that/pkg/errcodes"
	"github.com/austinfarr/read-that/pkg/migrations"
	"github.com/austinfarr/read-that/pkg/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func createTestUser(ctx context.Context, t *testing.T, db *bun.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		PasswordHash: "x",
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	_, err := db.NewInsert().Model(user).Exec(ctx)
	require.NoError(t, err)

	return user
}

func TestServiceFollow(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	alice := createTestUser(ctx, t, db, "alice")
	bob := createTestUser(ctx, t, db, "bob")

	edge, err := svc.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.NotZero(t, edge.ID)
	assert.Equal(t, alice.ID, edge.FollowerID)
	assert.Equal(t, bob.ID, edge.FollowingID)

	following, err := svc.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	// The edge is directed.
	reverse, err := svc.IsFollowing(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, reverse)
}

func TestServiceFollowSelf(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	alice := createTestUser(ctx, t, db, "alice")

	_, err := svc.Follow(ctx, alice.ID, alice.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errcodes.ValidationError("You can't follow yourself")))
}

func TestServiceFollowUnknownUser(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	alice := createTestUser(ctx, t, db, "alice")

	_, err := svc.Follow(ctx, alice.ID, 999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errcodes.NotFound("User")))
}

func TestServiceFollowTwiceIsIdempotent(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	alice := createTestUser(ctx, t, db, "alice")
	bob := createTestUser(ctx, t, db, "bob")

	first, err := svc.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	second, err := svc.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	count, err := svc.CountFollowing(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestServiceUnfollow(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	alice := createTestUser(ctx, t, db, "alice")
	bob := createTestUser(ctx, t, db, "bob")

	_, err := svc.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	err = svc.Unfollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	following, err := svc.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)

	// Unfollowing someone you don't follow is a no-op.
	err = svc.Unfollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
}

func TestServiceListFollowers(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	alice := createTestUser(ctx, t, db, "alice")
	bob := createTestUser(ctx, t, db, "bob")
	carol := createTestUser(ctx, t, db, "carol")

	_, err := svc.Follow(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	_, err = svc.Follow(ctx, carol.ID, alice.ID)
	require.NoError(t, err)
	_, err = svc.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	followers, err := svc.ListFollowers(ctx, alice.ID, ListFollowsOptions{})
	require.NoError(t, err)
	require.Len(t, followers, 2)

	names := []string{followers[0].Username, followers[1].Username}
	assert.Contains(t, names, "bob")
	assert.Contains(t, names, "carol")

	following, err := svc.ListFollowing(ctx, alice.ID, ListFollowsOptions{})
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "bob", following[0].Username)
}

func TestServiceFeed(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	alice := createTestUser(ctx, t, db, "alice")
	bob := createTestUser(ctx, t, db, "bob")
	carol := createTestUser(ctx, t, db, "carol")

	_, err := svc.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	bookID := 101
	base := time.Now().Add(-time.Hour)

	record := func(userID int, username string, eventType string, offset time.Duration, data interface{}) {
		t.Helper()
		err := svc.RecordEvent(ctx, &models.ActivityEvent{
			CreatedAt:  base.Add(offset),
			UserID:     userID,
			Username:   username,
			EventType:  eventType,
			BookID:     &bookID,
			DataParsed: data,
		})
		require.NoError(t, err)
	}

	record(alice.ID, "alice", models.ActivityBookAdded, 0, nil)
	record(bob.ID, "bob", models.ActivityStatusChange, time.Minute, &models.StatusChangeData{
		OldStatus: models.StatusReading,
		NewStatus: models.StatusFinished,
	})
	record(bob.ID, "bob", models.ActivityReviewPosted, 2*time.Minute, &models.ReviewPostedData{Rating: 9.0})
	// Carol isn't followed by alice, so this must not show up.
	record(carol.ID, "carol", models.ActivityBookAdded, 3*time.Minute, nil)

	events, err := svc.Feed(ctx, alice.ID, FeedOptions{})
	require.NoError(t, err)
	require.Len(t, events, 3)

	// Newest first.
	assert.Equal(t, models.ActivityReviewPosted, events[0].EventType)
	assert.Equal(t, models.ActivityStatusChange, events[1].EventType)
	assert.Equal(t, models.ActivityBookAdded, events[2].EventType)
	assert.Equal(t, "alice", events[2].Username)

	// Payloads come back parsed.
	review, ok := events[0].DataParsed.(*models.ReviewPostedData)
	require.True(t, ok)
	assert.Equal(t, 9.0, review.Rating)

	change, ok := events[1].DataParsed.(*models.StatusChangeData)
	require.True(t, ok)
	assert.Equal(t, models.StatusFinished, change.NewStatus)
}

func TestServiceFeedPagination(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	alice := createTestUser(ctx, t, db, "alice")

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		err := svc.RecordEvent(ctx, &models.ActivityEvent{
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			UserID:    alice.ID,
			Username:  "alice",
			EventType: models.ActivityBookAdded,
		})
		require.NoError(t, err)
	}

	limit := 2
	offset := 1
	events, err := svc.Feed(ctx, alice.ID, FeedOptions{Limit: &limit, Offset: &offset})
	require.NoError(t, err)
	require.Len(t, events, 2)
}
