package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/newsdesk/internal/domain/activity"
	"github.com/rpggio/newsdesk/internal/repository"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func logRecord(t *testing.T, repo *ActivityRepository, id, owner string, typ activity.ActivityType, ts time.Time) *activity.Record {
	t.Helper()
	rec := &activity.Record{
		ID:          id,
		OwnerID:     owner,
		Type:        typ,
		Description: "did " + string(typ),
		Timestamp:   ts,
	}
	*rec = rec.WithDefaults()
	require.NoError(t, repo.Log(context.Background(), rec))
	return rec
}

func TestActivityRepository_LogList(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	rec := &activity.Record{
		ID:          "a1",
		OwnerID:     "u1",
		Type:        activity.TypeCommentCreate,
		Description: "Commented",
		Details:     "on post 42",
		Timestamp:   testNow.Add(-time.Hour),
		Browser:     "Firefox",
		OS:          "Linux",
		Platform:    "desktop",
		Network:     activity.Network{IPAddress: "10.0.0.1", City: "Oslo", Country: "Norway"},
		Metadata:    map[string]any{"postId": "42"},
	}
	require.NoError(t, repo.Log(ctx, rec))
	logRecord(t, repo, "a2", "u1", activity.TypeLogin, testNow)

	records, err := repo.List(ctx, activity.RepositoryListOptions{})
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "a2", records[0].ID)

	got := records[1]
	require.Equal(t, "Commented", got.Description)
	require.Equal(t, "on post 42", got.Details)
	require.True(t, rec.Timestamp.Equal(got.Timestamp))
	require.Equal(t, "Firefox", got.Browser)
	require.Equal(t, rec.Network, got.Network)
	require.Equal(t, "42", got.Metadata["postId"])
	require.Nil(t, got.Actor, "owner is not a known user")
}

func TestActivityRepository_Filters(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	logRecord(t, repo, "a1", "u1", activity.TypeLogin, testNow)
	logRecord(t, repo, "a2", "u1", activity.TypePostLike, testNow.Add(-2*time.Hour))
	logRecord(t, repo, "a3", "u1", activity.TypePostLike, testNow.Add(-10*24*time.Hour))
	logRecord(t, repo, "a4", "u2", activity.TypePostLike, testNow)

	owner := "u1"
	like := activity.TypePostLike
	since := testNow.Add(-7 * 24 * time.Hour)

	records, err := repo.List(ctx, activity.RepositoryListOptions{OwnerID: &owner})
	require.NoError(t, err)
	require.Len(t, records, 3)

	records, err = repo.List(ctx, activity.RepositoryListOptions{OwnerID: &owner, Type: &like, Since: &since})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "a2", records[0].ID)

	records, err = repo.List(ctx, activity.RepositoryListOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, records, 2)
}

func TestActivityRepository_TiesOrderByID(t *testing.T) {
	db := NewTestDB(t)
	repo := NewActivityRepository(db)

	logRecord(t, repo, "b", "u1", activity.TypeLogin, testNow)
	logRecord(t, repo, "a", "u1", activity.TypeLogin, testNow)
	logRecord(t, repo, "c", "u1", activity.TypeLogin, testNow)

	records, err := repo.List(context.Background(), activity.RepositoryListOptions{})
	require.NoError(t, err)
	require.Equal(t, "a", records[0].ID)
	require.Equal(t, "b", records[1].ID)
	require.Equal(t, "c", records[2].ID)
}

func TestActivityRepository_JoinsActor(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	repo := NewActivityRepository(db)

	require.NoError(t, users.Create(ctx, User{Actor: activity.Actor{ID: "u1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@x.io"}}))
	logRecord(t, repo, "a1", "u1", activity.TypeLogin, testNow)

	records, err := repo.List(ctx, activity.RepositoryListOptions{})
	require.NoError(t, err)
	require.NotNil(t, records[0].Actor)
	require.Equal(t, "Ada Lovelace", activity.ActorDisplayName(records[0].Actor))
}

func TestActivityRepository_DuplicateAndDelete(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewActivityRepository(db)

	rec := logRecord(t, repo, "a1", "u1", activity.TypeLogin, testNow)
	require.ErrorIs(t, repo.Log(ctx, rec), repository.ErrDuplicate)

	require.ErrorIs(t, repo.Delete(ctx, "u2", "a1"), repository.ErrNotFound, "other owners cannot delete")
	require.NoError(t, repo.Delete(ctx, "u1", "a1"))
	require.ErrorIs(t, repo.Delete(ctx, "u1", "a1"), repository.ErrNotFound)

	require.ErrorIs(t, repo.Log(ctx, &activity.Record{ID: "x"}), repository.ErrInvalidInput)
}
