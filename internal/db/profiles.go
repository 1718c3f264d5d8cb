package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/profile-builder/internal/types"
)

// GetProfileByUser fetches the single profile for a user. Absence is not an
// error: a user without a profile yet returns (nil, nil).
func (db *DB) GetProfileByUser(ctx context.Context, userID uuid.UUID) (*types.Profile, error) {
	var data []byte
	err := db.pool.QueryRow(ctx,
		`SELECT data FROM profiles WHERE user_id = $1`,
		userID,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	var profile types.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode stored profile: %w", err)
	}
	return &profile, nil
}

// UpsertProfile writes the profile for a user, enforcing the one-profile-per-
// user invariant at the storage layer.
func (db *DB) UpsertProfile(ctx context.Context, userID uuid.UUID, profile *types.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO profiles (user_id, data, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (user_id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`,
		userID, data,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}
