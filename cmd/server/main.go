package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rpggio/newsdesk/internal/config"
	"github.com/rpggio/newsdesk/internal/domain/activity"
	"github.com/rpggio/newsdesk/internal/mcp"
	"github.com/rpggio/newsdesk/internal/repository"
	"github.com/rpggio/newsdesk/internal/sqlite"
	"github.com/rpggio/newsdesk/internal/transport"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == config.TransportStdio {
		logWriter = os.Stderr
	}
	if logPath := os.Getenv("NEWSDESK_LOG_PATH"); logPath != "" {
		fileWriter, file, err := newLogFileWriter(logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	users := sqlite.NewUserRepository(db)

	if len(os.Args) > 1 && os.Args[1] == "add-user" {
		if err := addUser(context.Background(), users, os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "add-user: %v\n", err)
			os.Exit(1)
		}
		return
	}

	loc, err := cfg.Analytics.Location()
	if err != nil {
		logger.Error("invalid analytics timezone", "error", err)
		os.Exit(1)
	}

	activityRepo := sqlite.NewActivityRepository(db)
	activitySvc := activity.NewService(activityRepo, logger, activity.WithLocation(loc))

	local := activity.Principal{UserID: cfg.Auth.LocalUser, Role: activity.RoleAdmin}
	if !cfg.Auth.Enabled || cfg.Transport.Mode == config.TransportStdio {
		if err := ensureLocalUser(context.Background(), users, local.UserID); err != nil {
			logger.Error("failed to create local user", "user_id", local.UserID, "error", err)
			os.Exit(1)
		}
	}

	mcpServer := mcp.NewServer(mcp.Config{
		Activity:       activitySvc,
		Resolver:       users,
		LocalPrincipal: local,
		AuthEnabled:    cfg.Auth.Enabled,
		TransportMode:  cfg.Transport.Mode,
		Location:       loc,
		Logger:         logger,
	})

	if cfg.Transport.Mode == config.TransportStdio {
		runStdioMode(logger, mcpServer)
		return
	}

	auth := transport.AuthMiddleware(users)
	if !cfg.Auth.Enabled {
		logger.Warn("authentication disabled", "local_user", local.UserID)
		auth = transport.StaticAuth(local)
	}
	runHTTPMode(logger, activitySvc, auth, mcpServer, cfg.Server.Host, cfg.Server.Port)
}

func runStdioMode(logger *slog.Logger, mcpServer *sdkmcp.Server) {
	logger.Info("starting stdio transport", "auth", "disabled")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}

func runHTTPMode(logger *slog.Logger, svc transport.ActivityService, auth func(http.Handler) http.Handler, mcpServer *sdkmcp.Server, host string, port int) {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			SessionTimeout: 30 * time.Minute,
		},
	)

	router := transport.NewServer(svc, auth, logger)
	router.Handle("/mcp", mcpHandler)
	router.Handle("/mcp/*", mcpHandler)

	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

// addUser handles "add-user -id alice -role admin -token secret".
func addUser(ctx context.Context, users *sqlite.UserRepository, args []string) error {
	fs := flag.NewFlagSet("add-user", flag.ContinueOnError)
	id := fs.String("id", "", "user id")
	role := fs.String("role", string(activity.RoleUser), "user or admin")
	token := fs.String("token", "", "API token to issue")
	first := fs.String("first-name", "", "first name")
	last := fs.String("last-name", "", "last name")
	username := fs.String("username", "", "username")
	email := fs.String("email", "", "email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" || *token == "" {
		return errors.New("-id and -token are required")
	}
	u := sqlite.User{
		Actor: activity.Actor{ID: *id, FirstName: *first, LastName: *last, Username: *username, Email: *email},
		Role:  activity.Role(*role),
	}
	if err := users.Create(ctx, u); err != nil && !errors.Is(err, repository.ErrDuplicate) {
		return err
	}
	return users.CreateAPIKey(ctx, *id, *token, "add-user")
}

func ensureLocalUser(ctx context.Context, users *sqlite.UserRepository, id string) error {
	err := users.Create(ctx, sqlite.User{Actor: activity.Actor{ID: id, Username: id}, Role: activity.RoleAdmin})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil
	}
	return err
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
