package sqlite

import (
	"context"
	"testing"

	"github.com/rpggio/newsdesk/internal/domain/activity"
	"github.com/rpggio/newsdesk/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateGet(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	require.NoError(t, repo.Create(ctx, User{Actor: activity.Actor{ID: "u1", Username: "ada"}}))
	require.ErrorIs(t, repo.Create(ctx, User{Actor: activity.Actor{ID: "u1"}}), repository.ErrDuplicate)

	u, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "ada", u.Username)
	require.Equal(t, activity.RoleUser, u.Role)

	_, err = repo.Get(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_APIKeys(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	require.NoError(t, repo.Create(ctx, User{Actor: activity.Actor{ID: "root"}, Role: activity.RoleAdmin}))
	require.NoError(t, repo.CreateAPIKey(ctx, "root", "secret", "test key"))
	require.ErrorIs(t, repo.CreateAPIKey(ctx, "nobody", "other", ""), repository.ErrForeignKeyViolation)
	require.ErrorIs(t, repo.CreateAPIKey(ctx, "root", "secret", ""), repository.ErrDuplicate)

	p, err := repo.ResolvePrincipal(ctx, "secret")
	require.NoError(t, err)
	require.Equal(t, activity.Principal{UserID: "root", Role: activity.RoleAdmin}, p)
	require.True(t, p.IsAdmin())

	_, err = repo.ResolvePrincipal(ctx, "wrong")
	require.ErrorIs(t, err, repository.ErrNotFound)

	var stored string
	require.NoError(t, db.QueryRowContext(ctx, `SELECT key_hash FROM api_keys`).Scan(&stored))
	require.Equal(t, HashToken("secret"), stored)
	require.NotEqual(t, "secret", stored)
}
