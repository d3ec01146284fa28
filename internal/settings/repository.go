package settings

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the value for a key, or "" when the key is unset.
func (r *Repository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = $1`, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return value, nil
}

// Set stores a key/value pair, overwriting any previous value.
func (r *Repository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO settings (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = $3
	`
	if _, err := r.db.ExecContext(ctx, query, key, value, time.Now()); err != nil {
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}
	return nil
}

// LoadSyncConfig reads the full sync configuration in one query.
func (r *Repository) LoadSyncConfig(ctx context.Context) (SyncConfig, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT key, value FROM settings WHERE key LIKE 'elis.%'`,
	)
	if err != nil {
		return SyncConfig{}, fmt.Errorf("failed to load sync config: %w", err)
	}
	defer rows.Close()

	values := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return SyncConfig{}, fmt.Errorf("failed to scan setting: %w", err)
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return SyncConfig{}, fmt.Errorf("error iterating settings: %w", err)
	}

	return SyncConfig{
		EnableTestOrderSync: values[KeyEnableTestOrderSync] == "true",
		EnablePatientSync:   values[KeyEnablePatientSync] == "true",
		EnableLabTestSync:   values[KeyEnableLabTestSync] == "true",
		APIURL:              values[KeyAPIURL],
		APIUsername:         values[KeyAPIUsername],
		APIPassword:         values[KeyAPIPassword],
	}, nil
}

// ApplyUpdate writes the fields present in req.
func (r *Repository) ApplyUpdate(ctx context.Context, req UpdateSyncConfigRequest) error {
	boolStr := func(b bool) string {
		if b {
			return "true"
		}
		return "false"
	}

	if req.EnableTestOrderSync != nil {
		if err := r.Set(ctx, KeyEnableTestOrderSync, boolStr(*req.EnableTestOrderSync)); err != nil {
			return err
		}
	}
	if req.EnablePatientSync != nil {
		if err := r.Set(ctx, KeyEnablePatientSync, boolStr(*req.EnablePatientSync)); err != nil {
			return err
		}
	}
	if req.EnableLabTestSync != nil {
		if err := r.Set(ctx, KeyEnableLabTestSync, boolStr(*req.EnableLabTestSync)); err != nil {
			return err
		}
	}
	if req.APIURL != nil {
		if err := r.Set(ctx, KeyAPIURL, *req.APIURL); err != nil {
			return err
		}
	}
	if req.APIUsername != nil {
		if err := r.Set(ctx, KeyAPIUsername, *req.APIUsername); err != nil {
			return err
		}
	}
	if req.APIPassword != nil {
		if err := r.Set(ctx, KeyAPIPassword, *req.APIPassword); err != nil {
			return err
		}
	}
	return nil
}
