package activity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/newsdesk/internal/repository"
)

// Service handles activity log operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
	loc    *time.Location
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLocation sets the timezone daily buckets are computed in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a new activity service.
func NewService(repo Repository, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Service{repo: repo, logger: logger, loc: time.UTC, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the aggregation timezone.
func (s *Service) Location() *time.Location {
	return s.loc
}

// LogActivity records an activity entry owned by caller. The id and
// timestamp are assigned when missing.
func (s *Service) LogActivity(ctx context.Context, caller Principal, rec *Record) error {
	if rec == nil || strings.TrimSpace(rec.Description) == "" || strings.TrimSpace(string(rec.Type)) == "" {
		return ErrInvalidInput
	}
	if caller.UserID == "" {
		return ErrUnauthorized
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = s.now()
	}
	rec.OwnerID = caller.UserID
	rec.Actor = nil
	*rec = rec.WithDefaults()

	if err := s.repo.Log(ctx, rec); err != nil {
		return fmt.Errorf("logging activity: %w", err)
	}
	if !IsKnown(rec.Type) {
		s.logger.Debug("logged activity of unregistered type", "type", rec.Type, "id", rec.ID)
	}
	return nil
}

// List returns one page of activity visible to caller within scope.
func (s *Service) List(ctx context.Context, caller Principal, scope Scope, opts ListActivityOptions) (Page, error) {
	if err := scope.Authorize(caller); err != nil {
		s.logger.Warn("activity scope rejected", "user_id", caller.UserID, "scope", scope.String())
		return Page{}, err
	}
	if err := opts.Filter.Validate(); err != nil {
		return Page{}, err
	}

	now := s.now()
	records, err := s.repo.List(ctx, s.repoOptions(scope, opts.Filter, now))
	if err != nil {
		return Page{}, fmt.Errorf("listing activity: %w", err)
	}
	if !scope.IsAll() {
		for i := range records {
			records[i].Actor = nil
		}
	}

	return Query(records, QueryRequest{
		Caller:   caller,
		Scope:    scope,
		Filter:   opts.Filter,
		Page:     opts.Page,
		PageSize: opts.Limit,
		Now:      now,
	})
}

// GetRecentActivity lists the most recent activity in scope without paging
// through older records.
func (s *Service) GetRecentActivity(ctx context.Context, caller Principal, scope Scope, limit int) ([]Record, error) {
	page, err := s.List(ctx, caller, scope, ListActivityOptions{Limit: limit})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// Statistics aggregates the activity in scope over period days.
func (s *Service) Statistics(ctx context.Context, caller Principal, scope Scope, period int) (Snapshot, error) {
	if err := scope.Authorize(caller); err != nil {
		return Snapshot{}, err
	}
	period, err := ParsePeriod(period)
	if err != nil {
		return Snapshot{}, err
	}

	now := s.now()
	since := startOfDay(now, s.loc).AddDate(0, 0, -(period - 1))
	opts := RepositoryListOptions{Since: &since}
	if !scope.IsAll() {
		owner := scope.UserID()
		opts.OwnerID = &owner
	}
	records, err := s.repo.List(ctx, opts)
	if err != nil {
		return Snapshot{}, fmt.Errorf("loading activity for statistics: %w", err)
	}
	return Aggregate(records, period, now, s.loc), nil
}

// Delete removes one of caller's own records.
func (s *Service) Delete(ctx context.Context, caller Principal, id string) error {
	if caller.UserID == "" {
		return ErrUnauthorized
	}
	if strings.TrimSpace(id) == "" {
		return ErrInvalidInput
	}
	if err := s.repo.Delete(ctx, caller.UserID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("deleting activity: %w", err)
	}
	s.logger.Info("activity deleted", "user_id", caller.UserID, "id", id)
	return nil
}

func (s *Service) repoOptions(scope Scope, f Filter, now time.Time) RepositoryListOptions {
	var opts RepositoryListOptions
	if !scope.IsAll() {
		owner := scope.UserID()
		opts.OwnerID = &owner
	}
	if f.Type != "" && f.Type != TypeAll {
		t := f.Type
		opts.Type = &t
	}
	if f.Days > 0 {
		since := now.Add(-time.Duration(f.Days) * 24 * time.Hour)
		opts.Since = &since
	}
	return opts
}
