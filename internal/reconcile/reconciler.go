// Package reconcile implements the network-first read protocol: try the
// remote gateway, merge results into the local store on success, and fall
// back to the store when the network fails. Only when both sides come up
// empty does a failure cross this boundary.
package reconcile

import (
	"context"

	"dinemap/internal/apperr"
	"dinemap/internal/logging"
	"dinemap/internal/model"
	"dinemap/internal/store"
)

// Gateway is the slice of the remote API the reconciler needs.
type Gateway interface {
	FetchAllRestaurants(ctx context.Context) ([]model.Restaurant, error)
	FetchRestaurant(ctx context.Context, id int) (model.Restaurant, error)
	FetchReviews(ctx context.Context, restaurantID int) ([]model.Review, error)
	ToggleFavorite(ctx context.Context, id int, favorite bool) (model.Restaurant, error)
	SubmitReview(ctx context.Context, review model.PendingReview) (model.Review, error)
}

// Reconciler merges remote reads into the local store and serves cached
// data when the network is down. Callers cannot distinguish fresh from
// stale results; that trade-off is inherited from the read protocol.
type Reconciler struct {
	gw    Gateway
	store *store.LocalStore
}

// New creates a Reconciler over the given gateway and local store.
func New(gw Gateway, st *store.LocalStore) *Reconciler {
	return &Reconciler{gw: gw, store: st}
}

// Restaurants returns the full restaurant set, network-first.
func (r *Reconciler) Restaurants(ctx context.Context) ([]model.Restaurant, error) {
	restaurants, err := r.gw.FetchAllRestaurants(ctx)
	if err == nil {
		r.store.UpsertRestaurants(ctx, restaurants, false)
		return restaurants, nil
	}

	logging.Reconcile("Restaurant fetch failed (%v), trying local store", err)
	cached, serr := r.store.GetRestaurants(ctx)
	if serr != nil {
		logging.Get(logging.CategoryReconcile).Warn("Local store read failed: %v", serr)
		return nil, apperr.Wrap(apperr.KindExhaustedFallback, serr, "no restaurants available offline")
	}
	if len(cached) == 0 {
		return nil, apperr.New(apperr.KindExhaustedFallback, "no restaurants available offline")
	}
	logging.Reconcile("Serving %d restaurants from local store", len(cached))
	return cached, nil
}

// Restaurant returns one restaurant by id, network-first.
func (r *Reconciler) Restaurant(ctx context.Context, id int) (model.Restaurant, error) {
	restaurant, err := r.gw.FetchRestaurant(ctx, id)
	if err == nil {
		r.store.UpsertRestaurant(ctx, restaurant, false)
		return restaurant, nil
	}

	logging.Reconcile("Restaurant %d fetch failed (%v), trying local store", id, err)
	cached, serr := r.store.GetRestaurant(ctx, id)
	if serr != nil {
		logging.Get(logging.CategoryReconcile).Warn("Local store read failed: %v", serr)
		return model.Restaurant{}, apperr.Wrap(apperr.KindExhaustedFallback, serr, "restaurant %d not available offline", id)
	}
	if cached == nil {
		return model.Restaurant{}, apperr.New(apperr.KindExhaustedFallback, "restaurant %d not available offline", id)
	}
	return *cached, nil
}

// ReviewsForRestaurant returns all reviews for a restaurant, network-first.
func (r *Reconciler) ReviewsForRestaurant(ctx context.Context, restaurantID int) ([]model.Review, error) {
	reviews, err := r.gw.FetchReviews(ctx, restaurantID)
	if err == nil {
		r.store.UpsertReviews(ctx, reviews)
		return reviews, nil
	}

	logging.Reconcile("Review fetch for restaurant %d failed (%v), trying local store", restaurantID, err)
	cached, serr := r.store.GetReviewsForRestaurant(ctx, restaurantID)
	if serr != nil {
		logging.Get(logging.CategoryReconcile).Warn("Local store read failed: %v", serr)
		return nil, apperr.Wrap(apperr.KindExhaustedFallback, serr, "no reviews for restaurant %d available offline", restaurantID)
	}
	if len(cached) == 0 {
		return nil, apperr.New(apperr.KindExhaustedFallback, "no reviews for restaurant %d available offline", restaurantID)
	}
	return cached, nil
}

// ToggleFavorite flips the favorite flag remotely and force-overwrites the
// cached copy. The toggle result is the newest truth by definition, so the
// freshness comparison is bypassed.
func (r *Reconciler) ToggleFavorite(ctx context.Context, id int, favorite bool) (model.Restaurant, error) {
	restaurant, err := r.gw.ToggleFavorite(ctx, id, favorite)
	if err != nil {
		return model.Restaurant{}, err
	}
	r.store.UpsertRestaurant(ctx, restaurant, true)
	return restaurant, nil
}

// SubmitReview sends a review straight to the server and caches the
// server-assigned record. The offline path lives in the queue package.
func (r *Reconciler) SubmitReview(ctx context.Context, review model.PendingReview) (model.Review, error) {
	if err := review.Validate(); err != nil {
		return model.Review{}, err
	}
	created, err := r.gw.SubmitReview(ctx, review)
	if err != nil {
		return model.Review{}, err
	}
	r.store.UpsertReview(ctx, created)
	return created, nil
}
