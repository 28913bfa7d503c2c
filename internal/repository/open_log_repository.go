package repository

import (
	"context"
	"database/sql"

	"github.com/rentle/smart-locker/internal/model"
)

// OpenLogRepo appends audit records to the open_logs table.  The table is
// append-only from the service's point of view: nothing here updates or
// deletes rows.
type OpenLogRepo struct {
	db *sql.DB
}

// NewOpenLogRepo returns an OpenLogRepo bound to the provided database.
func NewOpenLogRepo(db *sql.DB) *OpenLogRepo { return &OpenLogRepo{db: db} }

// Append inserts one audit entry.  Callers are expected to swallow the
// returned error: a failed audit write must never fail the open attempt it
// describes.
func (r *OpenLogRepo) Append(ctx context.Context, e model.OpenLogEntry) error {
	meta := []byte(e.Metadata)
	if len(meta) == 0 {
		meta = []byte("{}")
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO open_logs (user_id, locker_id, action, metadata) VALUES (?, ?, ?, ?)`,
		e.UserID, e.LockerID, e.Action, meta)
	return err
}

// ListRecent returns the newest entries, for the admin audit view.
func (r *OpenLogRepo) ListRecent(ctx context.Context, limit int) ([]model.OpenLogEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, locker_id, action, metadata, created_at
		 FROM open_logs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.OpenLogEntry
	for rows.Next() {
		var (
			e        model.OpenLogEntry
			userID   sql.NullInt64
			lockerID sql.NullInt64
			meta     []byte
		)
		if err := rows.Scan(&e.ID, &userID, &lockerID, &e.Action, &meta, &e.CreatedAt); err != nil {
			return nil, err
		}
		if userID.Valid {
			v := uint64(userID.Int64)
			e.UserID = &v
		}
		if lockerID.Valid {
			v := uint64(lockerID.Int64)
			e.LockerID = &v
		}
		e.Metadata = meta
		out = append(out, e)
	}
	return out, rows.Err()
}
