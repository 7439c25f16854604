package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rpggio/newsdesk/internal/domain/activity"
	"github.com/rpggio/newsdesk/internal/testserver"
	"github.com/stretchr/testify/require"
)

func newCLIServer(t *testing.T) *testserver.TestServer {
	t.Helper()
	ts := testserver.New(t, nil)
	ts.AddUser(t, activity.Actor{ID: "alice", FirstName: "Alice", LastName: "Smith"}, activity.RoleUser, "alice-token")
	ts.Seed(t, activity.Record{ID: "a1", OwnerID: "alice", Type: activity.TypePostLike, Description: "Liked a story", Timestamp: time.Now().Add(-5 * time.Minute)})
	ts.Seed(t, activity.Record{ID: "a2", OwnerID: "alice", Type: activity.TypeLogin, Description: "Logged in", Timestamp: time.Now().Add(-2 * time.Hour)})
	t.Setenv("NEWSDESK_CLIENT_BASE_URL", ts.URL())
	t.Setenv("NEWSDESK_CLIENT_TOKEN", "alice-token")
	return ts
}

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), err
}

func TestRun_View(t *testing.T) {
	newCLIServer(t)

	out, err := runCLI(t, "")
	require.NoError(t, err)
	require.Contains(t, out, "Liked a story")
	require.Contains(t, out, "Logged in")
	require.Contains(t, out, "page 1/1, 2 matched")

	out, err = runCLI(t, "", "view", "-type", "login")
	require.NoError(t, err)
	require.NotContains(t, out, "Liked a story")

	out, err = runCLI(t, "", "view", "-mode", "analytics", "-period", "7")
	require.NoError(t, err)
	require.Contains(t, out, "Last 7 days: 2 total, 1 likes")
}

func TestRun_ViewAllRequiresAdmin(t *testing.T) {
	newCLIServer(t)
	_, err := runCLI(t, "", "view", "-scope", "all")
	require.ErrorIs(t, err, activity.ErrUnauthorized)
}

func TestRun_DeleteConfirmation(t *testing.T) {
	ts := newCLIServer(t)

	out, err := runCLI(t, "n\n", "delete", "a1")
	require.NoError(t, err)
	require.Contains(t, out, "cancelled")

	out, err = runCLI(t, "y\n", "delete", "a1")
	require.NoError(t, err)
	require.Contains(t, out, "deleted a1")

	records, err := ts.Activities.List(context.Background(), activity.RepositoryListOptions{})
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestRun_LogAndTypes(t *testing.T) {
	newCLIServer(t)

	out, err := runCLI(t, "", "log", "-type", "search", "-description", "Searched")
	require.NoError(t, err)
	require.Contains(t, out, "logged ")

	out, err = runCLI(t, "", "types")
	require.NoError(t, err)
	require.Contains(t, out, "post_like")

	_, err = runCLI(t, "", "bogus")
	require.Error(t, err)
}
