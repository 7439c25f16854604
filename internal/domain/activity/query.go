package activity

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

type scopeKind int

const (
	scopeSelf scopeKind = iota
	scopeAll
)

// Scope is the authorization boundary of a query.
type Scope struct {
	kind   scopeKind
	userID string
}

// Self scopes a query to the records owned by userID.
func Self(userID string) Scope {
	return Scope{kind: scopeSelf, userID: userID}
}

// All scopes a query to every record. Requires administrator privilege.
func All() Scope {
	return Scope{kind: scopeAll}
}

// IsAll reports whether the scope is the admin-wide scope.
func (s Scope) IsAll() bool { return s.kind == scopeAll }

// UserID returns the owner for Self scopes and "" for All.
func (s Scope) UserID() string { return s.userID }

func (s Scope) String() string {
	if s.IsAll() {
		return "all"
	}
	return "self:" + s.userID
}

// Authorize checks that caller may query scope. A Self scope for another
// user counts as an All request.
func (s Scope) Authorize(caller Principal) error {
	if caller.IsAdmin() {
		return nil
	}
	if s.IsAll() || s.userID != caller.UserID || s.userID == "" {
		return ErrUnauthorized
	}
	return nil
}

func (s Scope) contains(rec Record) bool {
	if s.IsAll() {
		return true
	}
	return rec.OwnerID != "" && rec.OwnerID == s.userID
}

// QueryRequest describes one query over a record set.
type QueryRequest struct {
	Caller   Principal
	Scope    Scope
	Filter   Filter
	Page     int
	PageSize int
	Now      time.Time
}

// Page is one page of query results.
type Page struct {
	Items        []Record `json:"items"`
	MatchedTotal int      `json:"matchedTotal"`
	Page         int      `json:"page"`
	PageSize     int      `json:"pageSize"`
	TotalPages   int      `json:"totalPages"`
}

// Query applies scope, filter and pagination to records. The input slice is
// not modified.
func Query(records []Record, req QueryRequest) (Page, error) {
	if err := req.Scope.Authorize(req.Caller); err != nil {
		return Page{}, err
	}
	if err := req.Filter.Validate(); err != nil {
		return Page{}, err
	}
	page, size, err := normalizePaging(req.Page, req.PageSize)
	if err != nil {
		return Page{}, err
	}

	matched := Match(records, req.Scope, req.Filter, req.Now)
	SortRecords(matched)

	total := len(matched)
	start := (page - 1) * size
	end := min(start+size, total)
	items := []Record{}
	if start < total {
		items = matched[start:end]
	}

	return Page{
		Items:        items,
		MatchedTotal: total,
		Page:         page,
		PageSize:     size,
		TotalPages:   (total + size - 1) / size,
	}, nil
}

// Match returns the records inside scope that satisfy every active filter.
// Authorization is the caller's responsibility.
func Match(records []Record, scope Scope, f Filter, now time.Time) []Record {
	var since time.Time
	if f.Days > 0 {
		since = now.Add(-time.Duration(f.Days) * 24 * time.Hour)
	}
	needle := strings.ToLower(strings.TrimSpace(f.Search))
	typ := f.Type
	if typ == TypeAll {
		typ = ""
	}

	out := make([]Record, 0, len(records))
	for _, rec := range records {
		if !scope.contains(rec) {
			continue
		}
		if typ != "" && rec.Type != typ {
			continue
		}
		if !since.IsZero() && rec.Timestamp.Before(since) {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(rec.Description), needle) &&
			!strings.Contains(strings.ToLower(rec.Details), needle) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// SortRecords orders records newest first, ties broken by id ascending.
func SortRecords(records []Record) {
	slices.SortFunc(records, func(a, b Record) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

func normalizePaging(page, size int) (int, int, error) {
	if page == 0 {
		page = 1
	}
	if page < 1 || size < 0 {
		return 0, 0, ErrValidation
	}
	if size == 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size, nil
}
