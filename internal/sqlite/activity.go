package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/newsdesk/internal/domain/activity"
	"github.com/rpggio/newsdesk/internal/repository"
)

// ActivityRepository implements activity.Repository for SQLite
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Log inserts a new activity record
func (r *ActivityRepository) Log(ctx context.Context, rec *activity.Record) error {
	if rec == nil || rec.ID == "" || rec.OwnerID == "" {
		return repository.ErrInvalidInput
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	var metadata sql.NullString
	if len(rec.Metadata) > 0 {
		data, err := json.Marshal(rec.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode activity metadata: %w", err)
		}
		metadata = sql.NullString{String: string(data), Valid: true}
	}

	query := `
		INSERT INTO activity_log (
			id, owner_id, type, description, details, occurred_at,
			browser, os, platform, ip_address, city, country, metadata
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.OwnerID,
		rec.Type,
		rec.Description,
		rec.Details,
		rec.Timestamp.UnixMilli(),
		rec.Browser,
		rec.OS,
		rec.Platform,
		rec.Network.IPAddress,
		rec.Network.City,
		rec.Network.Country,
		metadata,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to log activity: %w", err)
	}

	return nil
}

// List returns activity records matching the given filters, newest first.
// Records whose owner is a known user carry that user as Actor.
func (r *ActivityRepository) List(ctx context.Context, opts activity.RepositoryListOptions) ([]activity.Record, error) {
	query := `
		SELECT
			a.id, a.owner_id, a.type, a.description, a.details, a.occurred_at,
			a.browser, a.os, a.platform, a.ip_address, a.city, a.country, a.metadata,
			u.id, u.first_name, u.last_name, u.username, u.email
		FROM activity_log a
		LEFT JOIN users u ON u.id = a.owner_id
	`

	args := []interface{}{}
	conditions := []string{}

	if opts.OwnerID != nil {
		conditions = append(conditions, "a.owner_id = ?")
		args = append(args, *opts.OwnerID)
	}
	if opts.Type != nil {
		conditions = append(conditions, "a.type = ?")
		args = append(args, string(*opts.Type))
	}
	if opts.Since != nil {
		conditions = append(conditions, "a.occurred_at >= ?")
		args = append(args, opts.Since.UnixMilli())
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY a.occurred_at DESC, a.id ASC"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var records []activity.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	return records, nil
}

// Delete removes one record owned by ownerID.
func (r *ActivityRepository) Delete(ctx context.Context, ownerID, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM activity_log WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted activity: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanRecord(rows *sql.Rows) (activity.Record, error) {
	var (
		rec        activity.Record
		occurredAt int64
		metadata   sql.NullString
		actorID    sql.NullString
		firstName  sql.NullString
		lastName   sql.NullString
		username   sql.NullString
		email      sql.NullString
	)
	if err := rows.Scan(
		&rec.ID,
		&rec.OwnerID,
		&rec.Type,
		&rec.Description,
		&rec.Details,
		&occurredAt,
		&rec.Browser,
		&rec.OS,
		&rec.Platform,
		&rec.Network.IPAddress,
		&rec.Network.City,
		&rec.Network.Country,
		&metadata,
		&actorID,
		&firstName,
		&lastName,
		&username,
		&email,
	); err != nil {
		return activity.Record{}, fmt.Errorf("failed to scan activity record: %w", err)
	}

	rec.Timestamp = time.UnixMilli(occurredAt).UTC()
	if metadata.Valid && metadata.String != "" {
		if err := json.Unmarshal([]byte(metadata.String), &rec.Metadata); err != nil {
			return activity.Record{}, fmt.Errorf("failed to decode activity metadata: %w", err)
		}
	}
	if actorID.Valid {
		rec.Actor = &activity.Actor{
			ID:        actorID.String,
			FirstName: firstName.String,
			LastName:  lastName.String,
			Username:  username.String,
			Email:     email.String,
		}
	}
	return rec, nil
}
