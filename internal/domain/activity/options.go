package activity

import "time"

// Page size bounds.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Filter is the client-visible filter set. Active filters combine with AND.
type Filter struct {
	Type   ActivityType `json:"type,omitempty"`
	Search string       `json:"search,omitempty"`
	Days   int          `json:"days,omitempty"`
}

// Validate checks the filter for values no query can satisfy.
func (f Filter) Validate() error {
	if f.Days < 0 {
		return ErrValidation
	}
	return nil
}

// ListActivityOptions provides filtering options for listing activity.
type ListActivityOptions struct {
	Filter
	Page  int
	Limit int
}

// RepositoryListOptions narrows the rows a repository returns before the
// query engine runs.
type RepositoryListOptions struct {
	OwnerID *string
	Type    *ActivityType
	Since   *time.Time
	Limit   int
}
