package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"dinemap/internal/apperr"
	"dinemap/internal/logging"
	"dinemap/internal/model"
)

// UpsertRestaurants merges incoming records into the restaurants collection.
// A record is written when no stored copy exists, when force is set, or when
// its updatedAt is strictly newer than the stored copy's. Each record is
// handled independently; there is no cross-record atomicity. Failures are
// swallowed (best-effort cache) after logging and observer notification.
func (s *LocalStore) UpsertRestaurants(ctx context.Context, restaurants []model.Restaurant, force bool) {
	for _, r := range restaurants {
		err := s.upsertRestaurant(ctx, r, force)
		s.reportWrite(fmt.Sprintf("upsert restaurant %d", r.ID), err)
	}
}

// UpsertRestaurant merges a single record; see UpsertRestaurants.
func (s *LocalStore) UpsertRestaurant(ctx context.Context, r model.Restaurant, force bool) {
	s.UpsertRestaurants(ctx, []model.Restaurant{r}, force)
}

func (s *LocalStore) upsertRestaurant(ctx context.Context, r model.Restaurant, force bool) error {
	if !force {
		var storedUpdatedAt int64
		err := s.db.QueryRowContext(ctx,
			`SELECT updated_at FROM restaurants WHERE id = ?`, r.ID).Scan(&storedUpdatedAt)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// No stored copy, write through.
		case err != nil:
			return err
		case r.UpdatedAt.UnixMilli() <= storedUpdatedAt:
			logging.StoreDebug("Restaurant %d unchanged, stored copy is fresher or equal", r.ID)
			return nil
		}
	}

	payload, err := json.Marshal(r)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO restaurants (id, payload, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		r.ID, string(payload), r.UpdatedAt.UnixMilli())
	return err
}

// GetRestaurants returns every cached restaurant. Order is unspecified.
func (s *LocalStore) GetRestaurants(ctx context.Context) ([]model.Restaurant, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT payload FROM restaurants`)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, err, "failed to read restaurants")
	}
	defer rows.Close()

	var restaurants []model.Restaurant
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, apperr.Wrap(apperr.KindStorage, err, "failed to scan restaurant row")
		}
		var r model.Restaurant
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			return nil, apperr.Wrap(apperr.KindStorage, err, "failed to decode restaurant record")
		}
		restaurants = append(restaurants, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, err, "failed to iterate restaurants")
	}
	return restaurants, nil
}

// GetRestaurant returns the cached restaurant with the given id, or nil
// when no such record exists.
func (s *LocalStore) GetRestaurant(ctx context.Context, id int) (*model.Restaurant, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM restaurants WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, err, "failed to read restaurant %d", id)
	}
	var r model.Restaurant
	if err := json.Unmarshal([]byte(payload), &r); err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, err, "failed to decode restaurant %d", id)
	}
	return &r, nil
}
