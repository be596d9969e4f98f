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

// UpsertReviews merges incoming reviews, keyed by review id, with the same
// freshness policy and fail-silent contract as UpsertRestaurants.
func (s *LocalStore) UpsertReviews(ctx context.Context, reviews []model.Review) {
	for _, rv := range reviews {
		err := s.upsertReview(ctx, rv)
		s.reportWrite(fmt.Sprintf("upsert review %d", rv.ID), err)
	}
}

// UpsertReview merges a single review; see UpsertReviews.
func (s *LocalStore) UpsertReview(ctx context.Context, rv model.Review) {
	s.UpsertReviews(ctx, []model.Review{rv})
}

func (s *LocalStore) upsertReview(ctx context.Context, rv model.Review) error {
	var storedUpdatedAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT updated_at FROM reviews WHERE id = ?`, rv.ID).Scan(&storedUpdatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// No stored copy, write through.
	case err != nil:
		return err
	case rv.UpdatedAt.UnixMilli() <= storedUpdatedAt:
		logging.StoreDebug("Review %d unchanged, stored copy is fresher or equal", rv.ID)
		return nil
	}

	payload, err := json.Marshal(rv)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reviews (id, restaurant_id, payload, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET restaurant_id = excluded.restaurant_id,
			payload = excluded.payload, updated_at = excluded.updated_at`,
		rv.ID, rv.RestaurantID, string(payload), rv.UpdatedAt.UnixMilli())
	return err
}

// GetReviewsForRestaurant returns all cached reviews for one restaurant via
// the restaurant_id index. No reviews yields an empty slice, not an error.
func (s *LocalStore) GetReviewsForRestaurant(ctx context.Context, restaurantID int) ([]model.Review, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM reviews WHERE restaurant_id = ?`, restaurantID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, err, "failed to read reviews for restaurant %d", restaurantID)
	}
	defer rows.Close()

	reviews := []model.Review{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, apperr.Wrap(apperr.KindStorage, err, "failed to scan review row")
		}
		var rv model.Review
		if err := json.Unmarshal([]byte(payload), &rv); err != nil {
			return nil, apperr.Wrap(apperr.KindStorage, err, "failed to decode review record")
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindStorage, err, "failed to iterate reviews")
	}
	return reviews, nil
}
