package activity

import "context"

// Repository provides persistence operations for activity records.
type Repository interface {
	Log(ctx context.Context, rec *Record) error
	List(ctx context.Context, opts RepositoryListOptions) ([]Record, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// Store is the backend activity API as seen by one authenticated caller.
// Implementations normalize whatever the backend sends into canonical
// Records and Snapshots.
type Store interface {
	ListSelf(ctx context.Context, opts ListActivityOptions) ([]Record, error)
	ListAll(ctx context.Context, opts ListActivityOptions) ([]Record, error)
	Statistics(ctx context.Context, period int) (Snapshot, error)
	// StatisticsAll aggregates every user's activity. Requires admin.
	StatisticsAll(ctx context.Context, period int) (Snapshot, error)
	DeleteSelf(ctx context.Context, id string) error
}
