package activity

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Session defaults.
const (
	DefaultFetchLimit     = 500
	DefaultPeriod         = PeriodMonth
	DefaultRequestTimeout = 15 * time.Second
)

// Notice is a user-visible message about a degraded result.
type Notice struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// SessionConfig configures a Session.
type SessionConfig struct {
	Store    Store
	Caller   Principal
	Scope    Scope
	Period   int
	PageSize int
	// FetchLimit caps how many records one refresh asks the backend for.
	FetchLimit int
	Timeout    time.Duration
	Location   *time.Location
	Logger     *slog.Logger
	Clock      func() time.Time
}

// View is what a caller renders after a refresh.
type View struct {
	Mode         ViewMode            `json:"mode"`
	Filter       Filter              `json:"filter"`
	Items        []DecoratedActivity `json:"items"`
	MatchedTotal int                 `json:"matchedTotal"`
	Page         int                 `json:"page"`
	TotalPages   int                 `json:"totalPages"`
	Stats        Snapshot            `json:"stats"`
	Notices      []Notice            `json:"notices,omitempty"`
	Generation   uint64              `json:"generation"`
}

// Session holds one caller's activity screen: view mode, filters and the two
// independently fetched result sets. It is not shared across callers.
type Session struct {
	store      Store
	caller     Principal
	scope      Scope
	fetchLimit int
	timeout    time.Duration
	loc        *time.Location
	logger     *slog.Logger
	now        func() time.Time
	deleter    *Deleter

	mu         sync.Mutex
	mode       ViewMode
	filter     Filter
	period     int
	page       int
	pageSize   int
	generation uint64
	// periodGen changes only with the period; stats depend on nothing else.
	periodGen  uint64
	records    []Record
	stats      Snapshot
	notices    []Notice
}

// NewSession validates cfg and creates a Session.
func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("activity store not configured: %w", ErrInvalidInput)
	}
	if err := cfg.Scope.Authorize(cfg.Caller); err != nil {
		return nil, err
	}
	period := cfg.Period
	if period == 0 {
		period = DefaultPeriod
	}
	if _, err := ParsePeriod(period); err != nil {
		return nil, err
	}
	s := &Session{
		store:      cfg.Store,
		caller:     cfg.Caller,
		scope:      cfg.Scope,
		fetchLimit: cfg.FetchLimit,
		timeout:    cfg.Timeout,
		loc:        cfg.Location,
		logger:     cfg.Logger,
		now:        cfg.Clock,
		mode:       ViewTimeline,
		period:     period,
		page:       1,
		pageSize:   cfg.PageSize,
	}
	if s.fetchLimit <= 0 {
		s.fetchLimit = DefaultFetchLimit
	}
	if s.timeout <= 0 {
		s.timeout = DefaultRequestTimeout
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.pageSize <= 0 {
		s.pageSize = DefaultPageSize
	}
	s.stats = EmptySnapshot(period, s.now(), s.loc)
	s.deleter = NewDeleter(s.deleteRemote, func(id string, from, to DeleteState) {
		s.logger.Debug("delete transition", "id", id, "from", from, "to", to)
	})
	return s, nil
}

// SetViewMode switches the view mode. It does not invalidate fetched data.
func (s *Session) SetViewMode(mode ViewMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
}

// SetFilter replaces the filter set and returns the new generation. Results
// of fetches started under an older generation are discarded.
func (s *Session) SetFilter(f Filter) (uint64, error) {
	if err := f.Validate(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
	s.page = 1
	s.generation++
	return s.generation, nil
}

// SetPeriod changes the statistics period and bumps the generation.
func (s *Session) SetPeriod(period int) (uint64, error) {
	if _, err := ParsePeriod(period); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.period = period
	s.generation++
	s.periodGen++
	return s.generation, nil
}

// SetPage selects a page of the current result set. Pages are 1-based.
func (s *Session) SetPage(page int) error {
	if page < 1 {
		return ErrValidation
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.page = page
	return nil
}

// Refresh fetches records and statistics concurrently. Failures degrade to
// empty results with a notice. If the filter changed while the fetch was in
// flight, the results are dropped and the current view is returned.
func (s *Session) Refresh(ctx context.Context) View {
	s.mu.Lock()
	gen := s.generation
	periodGen := s.periodGen
	filter := s.filter
	period := s.period
	s.mu.Unlock()

	var (
		records    []Record
		stats      Snapshot
		recordsErr error
		statsErr   error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records, recordsErr = s.fetchRecords(gctx, filter)
		return nil
	})
	g.Go(func() error {
		stats, statsErr = s.fetchStats(gctx, period)
		return nil
	})
	_ = g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		s.logger.Debug("discarding stale activity fetch", "generation", gen, "current", s.generation)
		return s.viewLocked()
	}

	s.notices = nil
	if recordsErr != nil {
		s.records = nil
		s.addNoticeLocked("Could not load activity", recordsErr)
	} else {
		s.records = records
	}
	s.applyStatsLocked(periodGen, period, stats, statsErr)
	return s.viewLocked()
}

// RefreshStats refetches statistics only. Statistics do not depend on the
// filter, so the result is kept unless the period changed meanwhile.
func (s *Session) RefreshStats(ctx context.Context) View {
	s.mu.Lock()
	periodGen := s.periodGen
	period := s.period
	s.mu.Unlock()

	stats, err := s.fetchStats(ctx, period)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyStatsLocked(periodGen, period, stats, err)
	return s.viewLocked()
}

func (s *Session) applyStatsLocked(periodGen uint64, period int, stats Snapshot, err error) {
	if periodGen != s.periodGen {
		s.logger.Debug("discarding stale statistics", "period", period, "current", s.period)
		return
	}
	if err != nil {
		s.stats = EmptySnapshot(period, s.now(), s.loc)
		s.addNoticeLocked("Could not load statistics", err)
		return
	}
	s.stats = stats
}

// View returns the current view without fetching.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// RequestDelete starts the confirmation step for one of the caller's records.
func (s *Session) RequestDelete(id string) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx >= 0 && s.records[idx].OwnerID != s.caller.UserID {
		s.mu.Unlock()
		return ErrUnauthorized
	}
	s.mu.Unlock()
	return s.deleter.Request(id)
}

// CancelDelete abandons a pending confirmation.
func (s *Session) CancelDelete(id string) {
	s.deleter.Cancel(id)
}

// DeleteState reports the workflow state for id.
func (s *Session) DeleteState(id string) DeleteState {
	return s.deleter.State(id)
}

// ConfirmDelete deletes a confirmed record. On success the record leaves the
// local result set at once and statistics are refetched; on failure the
// record stays and a notice is added.
func (s *Session) ConfirmDelete(ctx context.Context, id string) (View, error) {
	if err := s.deleter.Confirm(ctx, id); err != nil {
		s.mu.Lock()
		if KindOf(err) != KindConflict {
			s.addNoticeLocked("Could not delete activity", err)
		}
		v := s.viewLocked()
		s.mu.Unlock()
		return v, err
	}

	s.mu.Lock()
	if idx := s.indexLocked(id); idx >= 0 {
		s.records = slices.Delete(slices.Clone(s.records), idx, idx+1)
	}
	s.mu.Unlock()

	return s.RefreshStats(ctx), nil
}

func (s *Session) deleteRemote(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return timeoutAware(ctx, s.store.DeleteSelf(ctx, id))
}

func (s *Session) fetchRecords(ctx context.Context, f Filter) ([]Record, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := ListActivityOptions{Filter: f, Limit: s.fetchLimit}
	var (
		records []Record
		err     error
	)
	if s.scope.IsAll() {
		records, err = s.store.ListAll(ctx, opts)
	} else {
		records, err = s.store.ListSelf(ctx, opts)
	}
	if err != nil {
		return nil, timeoutAware(ctx, err)
	}

	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if !s.scope.IsAll() {
			// The self endpoint only returns the caller's records; an
			// explicit foreign owner is dropped by the scope check below.
			if rec.OwnerID == "" {
				rec.OwnerID = s.scope.UserID()
			}
			rec.Actor = nil
		}
		out = append(out, rec.WithDefaults())
	}
	return out, nil
}

// fetchStats is independent of the filter and of the list fetch limit.
func (s *Session) fetchStats(ctx context.Context, period int) (Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	var (
		stats Snapshot
		err   error
	)
	if s.scope.IsAll() {
		stats, err = s.store.StatisticsAll(ctx, period)
	} else {
		stats, err = s.store.Statistics(ctx, period)
	}
	if err != nil {
		return Snapshot{}, timeoutAware(ctx, err)
	}
	return stats.Normalize(), nil
}

func (s *Session) viewLocked() View {
	now := s.now()
	page, err := Query(s.records, QueryRequest{
		Caller:   s.caller,
		Scope:    s.scope,
		Filter:   s.filter,
		Page:     s.page,
		PageSize: s.pageSize,
		Now:      now,
	})
	if err != nil {
		s.logger.Warn("activity query failed", "error", err)
	}
	viewer := Viewer{Caller: s.caller, Scope: s.scope, Now: now, Location: s.loc}
	return View{
		Mode:         s.mode,
		Filter:       s.filter,
		Items:        ProjectAll(page.Items, viewer),
		MatchedTotal: page.MatchedTotal,
		Page:         page.Page,
		TotalPages:   page.TotalPages,
		Stats:        s.stats,
		Notices:      slices.Clone(s.notices),
		Generation:   s.generation,
	}
}

func (s *Session) indexLocked(id string) int {
	return slices.IndexFunc(s.records, func(r Record) bool { return r.ID == id })
}

func (s *Session) addNoticeLocked(msg string, err error) {
	kind := KindOf(err)
	s.logger.Warn(msg, "kind", kind, "error", err)
	s.notices = append(s.notices, Notice{Kind: kind, Message: fmt.Sprintf("%s: %v", msg, err)})
}

func timeoutAware(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ctx.Err() == context.DeadlineExceeded && KindOf(err) != KindTimeout {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}
