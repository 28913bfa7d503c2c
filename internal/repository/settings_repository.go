package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rentle/smart-locker/internal/model"
)

// SettingsRepo reads the keyed settings table.  Hub settings are re-read on
// every hub call instead of being cached, so an admin edit takes effect on
// the very next unlock.
type SettingsRepo struct {
	db *sql.DB
}

// NewSettingsRepo returns a SettingsRepo bound to the provided database.
func NewSettingsRepo(db *sql.DB) *SettingsRepo { return &SettingsRepo{db: db} }

// Get returns the value for a single settings key, or ErrSettingNotFound.
func (r *SettingsRepo) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE `+"`key`"+` = ? LIMIT 1`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrSettingNotFound
	}
	return v, err
}

// HubSettings assembles the hub connection settings.  A missing username or
// password key is not an error (credentials are optional); a missing IP key
// yields an empty IP, which callers must treat as "hub not configured".
func (r *SettingsRepo) HubSettings(ctx context.Context) (model.HubSettings, error) {
	var s model.HubSettings
	ip, err := r.Get(ctx, model.SettingHubIP)
	if err != nil && !errors.Is(err, ErrSettingNotFound) {
		return s, err
	}
	s.IP = ip
	if u, err := r.Get(ctx, model.SettingHubUser); err == nil {
		s.Username = u
	} else if !errors.Is(err, ErrSettingNotFound) {
		return s, err
	}
	if p, err := r.Get(ctx, model.SettingHubPass); err == nil {
		s.Password = p
	} else if !errors.Is(err, ErrSettingNotFound) {
		return s, err
	}
	return s, nil
}
