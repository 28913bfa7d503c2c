package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rentle/smart-locker/internal/model"
)

// LockerRepo provides data access to the lockers table, including the atomic
// claim used by the unlock flow.
type LockerRepo struct {
	db *sql.DB
}

// NewLockerRepo returns a LockerRepo bound to the provided database.
func NewLockerRepo(db *sql.DB) *LockerRepo { return &LockerRepo{db: db} }

const lockerColumns = `id, name, hub_id, relay_id, status, last_opened_at, created_at`

func scanLocker(row interface{ Scan(...any) error }) (*model.Locker, error) {
	var (
		l      model.Locker
		opened sql.NullTime
	)
	if err := row.Scan(&l.ID, &l.Name, &l.HubID, &l.RelayID, &l.Status, &opened, &l.CreatedAt); err != nil {
		return nil, err
	}
	if opened.Valid {
		t := opened.Time
		l.LastOpenedAt = &t
	}
	return &l, nil
}

// ClaimNextClosed picks one closed locker and atomically flips it to open,
// stamping last_opened_at.  The conditional UPDATE is checked for affected
// rows, so two concurrent unlock requests can never claim the same locker:
// the loser moves on to the next candidate.  Returns ErrNoLockersAvailable
// when no closed locker remains.
//
// Candidates are ordered by id.  No fairness or product/location binding is
// applied; any closed compartment serves any booking.
func (r *LockerRepo) ClaimNextClosed(ctx context.Context) (*model.Locker, error) {
	for {
		rows, err := r.db.QueryContext(ctx,
			`SELECT id FROM lockers WHERE status = ? ORDER BY id LIMIT 10`, model.LockerClosed)
		if err != nil {
			return nil, err
		}
		var ids []uint64
		for rows.Next() {
			var id uint64
			if scanErr := rows.Scan(&id); scanErr != nil {
				rows.Close()
				return nil, scanErr
			}
			ids = append(ids, id)
		}
		if err := rows.Close(); err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return nil, ErrNoLockersAvailable
		}
		for _, id := range ids {
			res, err := r.db.ExecContext(ctx,
				`UPDATE lockers SET status = ?, last_opened_at = UTC_TIMESTAMP()
				 WHERE id = ? AND status = ?`,
				model.LockerOpen, id, model.LockerClosed)
			if err != nil {
				return nil, err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return nil, err
			}
			if n == 1 {
				return r.GetByID(ctx, id)
			}
			// lost the race for this one, try the next candidate
		}
		// every candidate was taken while we looked; re-select
	}
}

// GetByID fetches a locker by primary key.
func (r *LockerRepo) GetByID(ctx context.Context, id uint64) (*model.Locker, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+lockerColumns+` FROM lockers WHERE id = ? LIMIT 1`, id)
	l, err := scanLocker(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLockerNotFound
	}
	return l, err
}

// GetByHubRelay fetches the locker wired to a hub/relay pair.  The admin
// relay path uses it to resolve which compartment a raw command addressed.
func (r *LockerRepo) GetByHubRelay(ctx context.Context, hubID, relayID string) (*model.Locker, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+lockerColumns+` FROM lockers WHERE hub_id = ? AND relay_id = ? LIMIT 1`,
		hubID, relayID)
	l, err := scanLocker(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLockerNotFound
	}
	return l, err
}

// MarkOpen sets a locker open and stamps last_opened_at unconditionally.
// The admin relay path writes this optimistically after every open attempt,
// confirmed or not; the stored status is a best-effort mirror only.
func (r *LockerRepo) MarkOpen(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE lockers SET status = ?, last_opened_at = UTC_TIMESTAMP() WHERE id = ?`,
		model.LockerOpen, id)
	return err
}

// Close returns a locker to the closed state.  last_opened_at is left
// untouched so the audit trail of the previous open survives.
func (r *LockerRepo) Close(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE lockers SET status = ? WHERE id = ?`, model.LockerClosed, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrLockerNotFound
	}
	return nil
}

// List returns the whole pool ordered by id, for the admin overview.
func (r *LockerRepo) List(ctx context.Context) ([]model.Locker, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+lockerColumns+` FROM lockers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Locker
	for rows.Next() {
		l, err := scanLocker(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}
