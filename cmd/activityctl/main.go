// Command activityctl browses and manages activity history through the
// newsdesk REST API.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rpggio/newsdesk/internal/apiclient"
	"github.com/rpggio/newsdesk/internal/config"
	"github.com/rpggio/newsdesk/internal/domain/activity"
)

const usage = `usage: activityctl [global flags] <command> [flags]

commands:
  view      show activity (default)
  delete    delete one of your records
  log       record an activity
  types     list known activity types

global flags:
`

type app struct {
	client *apiclient.Client
	cfg    config.Config
	logger *slog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "activityctl: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	global := flag.NewFlagSet("activityctl", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() {
		fmt.Fprint(stderr, usage)
		global.PrintDefaults()
	}
	baseURL := global.String("server", cfg.Client.BaseURL, "API base URL")
	token := global.String("token", cfg.Client.Token, "API token")
	verbose := global.Bool("v", false, "log requests to stderr")
	if err := global.Parse(args); err != nil {
		return err
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	a := &app{
		client: apiclient.NewClient(*baseURL, *token,
			apiclient.WithTimeout(cfg.Client.Timeout),
			apiclient.WithLogger(logger)),
		cfg:    cfg,
		logger: logger,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}

	rest := global.Args()
	cmd := "view"
	if len(rest) > 0 {
		cmd, rest = rest[0], rest[1:]
	}
	switch cmd {
	case "view":
		return a.view(ctx, rest)
	case "delete":
		return a.delete(ctx, rest)
	case "log":
		return a.log(ctx, rest)
	case "types":
		return a.types(ctx)
	default:
		global.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) session(ctx context.Context, scope string, period int) (*activity.Session, activity.Scope, error) {
	caller, err := a.client.Whoami(ctx)
	if err != nil {
		return nil, activity.Scope{}, fmt.Errorf("resolving caller: %w", err)
	}
	var sc activity.Scope
	switch scope {
	case "me", "":
		sc = activity.Self(caller.UserID)
	case "all":
		sc = activity.All()
	default:
		return nil, activity.Scope{}, fmt.Errorf("invalid scope %q: want me or all", scope)
	}
	loc, err := a.cfg.Analytics.Location()
	if err != nil {
		return nil, activity.Scope{}, err
	}
	sess, err := activity.NewSession(activity.SessionConfig{
		Store:    a.client,
		Caller:   caller,
		Scope:    sc,
		Period:   period,
		Timeout:  a.cfg.Client.Timeout,
		Location: loc,
		Logger:   a.logger,
	})
	if err != nil {
		return nil, activity.Scope{}, err
	}
	return sess, sc, nil
}

func (a *app) view(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("view", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	mode := fs.String("mode", string(activity.ViewTimeline), "timeline, analytics or detailed")
	scope := fs.String("scope", "me", "me or all")
	typ := fs.String("type", "", "activity type filter")
	search := fs.String("search", "", "case-insensitive text filter")
	days := fs.Int("days", 0, "only the last N days (0 for no limit)")
	page := fs.Int("page", 1, "result page")
	period := fs.Int("period", activity.DefaultPeriod, "statistics period in days")
	if err := fs.Parse(args); err != nil {
		return err
	}

	vm, err := activity.ParseViewMode(*mode)
	if err != nil {
		return fmt.Errorf("invalid mode %q: %w", *mode, err)
	}
	sess, sc, err := a.session(ctx, *scope, *period)
	if err != nil {
		return err
	}
	sess.SetViewMode(vm)
	if _, err := sess.SetFilter(activity.Filter{Type: activity.ActivityType(*typ), Search: *search, Days: *days}); err != nil {
		return err
	}
	if err := sess.SetPage(*page); err != nil {
		return fmt.Errorf("invalid page %d: %w", *page, err)
	}

	v := sess.Refresh(ctx)
	for _, n := range v.Notices {
		fmt.Fprintf(a.stderr, "warning: %s\n", n.Message)
	}
	return render(a.stdout, v, sc.IsAll())
}

func (a *app) delete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("delete takes exactly one activity id")
	}
	id := fs.Arg(0)

	sess, _, err := a.session(ctx, "me", activity.DefaultPeriod)
	if err != nil {
		return err
	}
	sess.Refresh(ctx)
	if err := sess.RequestDelete(id); err != nil {
		return err
	}
	if !*yes && !a.confirm(fmt.Sprintf("Delete activity %s? This cannot be undone. [y/N] ", id)) {
		sess.CancelDelete(id)
		fmt.Fprintln(a.stdout, "cancelled")
		return nil
	}
	v, err := sess.ConfirmDelete(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "deleted %s (%d activities in the last %d days)\n", id, v.Stats.Summary.Total, v.Stats.Period)
	return nil
}

func (a *app) confirm(prompt string) bool {
	fmt.Fprint(a.stdout, prompt)
	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func (a *app) log(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("log", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	typ := fs.String("type", "", "activity type")
	desc := fs.String("description", "", "description")
	details := fs.String("details", "", "details")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rec, err := a.client.Log(ctx, activity.Record{
		Type:        activity.ActivityType(*typ),
		Description: *desc,
		Details:     *details,
		Platform:    "cli",
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "logged %s\n", rec.ID)
	return nil
}

func (a *app) types(ctx context.Context) error {
	infos, err := a.client.ActivityTypes(ctx)
	if err != nil {
		return err
	}
	return renderTypes(a.stdout, infos)
}
