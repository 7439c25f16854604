package testserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rpggio/newsdesk/internal/config"
	"github.com/rpggio/newsdesk/internal/domain/activity"
	"github.com/rpggio/newsdesk/internal/mcp"
	"github.com/rpggio/newsdesk/internal/sqlite"
	"github.com/rpggio/newsdesk/internal/transport"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

// TestServer runs the REST API and MCP endpoint over an in-memory database.
type TestServer struct {
	Server     *httptest.Server
	DB         *sqlite.DB
	Users      *sqlite.UserRepository
	Activities *sqlite.ActivityRepository
	Service    *activity.Service
}

// New starts a server. now, if non-nil, replaces the service clock.
func New(t *testing.T, now func() time.Time) *TestServer {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	users := sqlite.NewUserRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)
	activitySvc := activity.NewService(activityRepo, nil, activity.WithClock(now))

	mcpServer := mcp.NewServer(mcp.Config{
		Activity:      activitySvc,
		Resolver:      users,
		AuthEnabled:   true,
		TransportMode: config.TransportHTTP,
	})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{Stateless: true},
	)

	router := transport.NewServer(activitySvc, transport.AuthMiddleware(users), nil)
	router.Handle("/mcp", mcpHandler)
	server := httptest.NewServer(router)

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return &TestServer{
		Server:     server,
		DB:         db,
		Users:      users,
		Activities: activityRepo,
		Service:    activitySvc,
	}
}

// AddUser creates a user holding token.
func (ts *TestServer) AddUser(t *testing.T, actor activity.Actor, role activity.Role, token string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, ts.Users.Create(ctx, sqlite.User{Actor: actor, Role: role}))
	require.NoError(t, ts.Users.CreateAPIKey(ctx, actor.ID, token, "test"))
}

// Seed stores rec as-is, bypassing ingest defaults other than Unknown fill.
func (ts *TestServer) Seed(t *testing.T, rec activity.Record) {
	t.Helper()
	rec = rec.WithDefaults()
	require.NoError(t, ts.Activities.Log(context.Background(), &rec))
}

// URL returns the server base URL.
func (ts *TestServer) URL() string {
	return ts.Server.URL
}
