package reconcile

import (
	"context"
	"testing"
	"time"

	"dinemap/internal/apperr"
	"dinemap/internal/model"
	"dinemap/internal/store"
)

// fakeGateway scripts the remote API for reconciler tests. A nil error
// field returns the canned data; a non-nil one simulates that call failing.
type fakeGateway struct {
	restaurants []model.Restaurant
	reviews     []model.Review
	err         error

	fetchAllCalls int
	toggleCalls   int
}

func (f *fakeGateway) FetchAllRestaurants(ctx context.Context) ([]model.Restaurant, error) {
	f.fetchAllCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.restaurants, nil
}

func (f *fakeGateway) FetchRestaurant(ctx context.Context, id int) (model.Restaurant, error) {
	if f.err != nil {
		return model.Restaurant{}, f.err
	}
	for _, r := range f.restaurants {
		if r.ID == id {
			return r, nil
		}
	}
	return model.Restaurant{}, apperr.New(apperr.KindHTTPStatus, "GET /restaurants/%d returned 404", id)
}

func (f *fakeGateway) FetchReviews(ctx context.Context, restaurantID int) ([]model.Review, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.reviews, nil
}

func (f *fakeGateway) ToggleFavorite(ctx context.Context, id int, favorite bool) (model.Restaurant, error) {
	f.toggleCalls++
	if f.err != nil {
		return model.Restaurant{}, f.err
	}
	for _, r := range f.restaurants {
		if r.ID == id {
			r.IsFavorite = model.LooseBool(favorite)
			return r, nil
		}
	}
	return model.Restaurant{}, apperr.New(apperr.KindHTTPStatus, "PUT /restaurants/%d returned 404", id)
}

func (f *fakeGateway) SubmitReview(ctx context.Context, review model.PendingReview) (model.Review, error) {
	if f.err != nil {
		return model.Review{}, f.err
	}
	return model.Review{
		ID:           100 + len(f.reviews),
		RestaurantID: review.RestaurantID,
		Name:         review.Name,
		Rating:       review.Rating,
		Comments:     review.Comments,
	}, nil
}

func newTestStore(t *testing.T) *store.LocalStore {
	t.Helper()
	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func ts(year, month, day int) model.Timestamp {
	return model.NewTimestamp(time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC))
}

func transportDown() error {
	return apperr.New(apperr.KindTransport, "connection refused")
}

func TestRestaurantsNetworkFirst(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	gw := &fakeGateway{restaurants: []model.Restaurant{
		{ID: 1, Name: "Emily", CuisineType: "Pizza", UpdatedAt: ts(2024, 1, 1)},
	}}
	rec := New(gw, st)

	restaurants, err := rec.Restaurants(ctx)
	if err != nil {
		t.Fatalf("Restaurants failed: %v", err)
	}
	if len(restaurants) != 1 || restaurants[0].Name != "Emily" {
		t.Fatalf("Restaurants = %+v", restaurants)
	}

	// The fetch must have written through to the store.
	cached, err := st.GetRestaurants(ctx)
	if err != nil {
		t.Fatalf("GetRestaurants failed: %v", err)
	}
	if len(cached) != 1 {
		t.Errorf("Store holds %d restaurants after fetch, want 1", len(cached))
	}
}

func TestRestaurantsFallsBackToStore(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	st.UpsertRestaurant(ctx, model.Restaurant{ID: 1, Name: "Cached", UpdatedAt: ts(2024, 1, 1)}, false)

	rec := New(&fakeGateway{err: transportDown()}, st)
	restaurants, err := rec.Restaurants(ctx)
	if err != nil {
		t.Fatalf("Expected cached fallback, got error: %v", err)
	}
	if len(restaurants) != 1 || restaurants[0].Name != "Cached" {
		t.Errorf("Restaurants = %+v", restaurants)
	}
}

func TestRestaurantsExhaustedFallback(t *testing.T) {
	st := newTestStore(t)
	rec := New(&fakeGateway{err: transportDown()}, st)

	_, err := rec.Restaurants(context.Background())
	if err == nil {
		t.Fatal("Expected error when network and store are both empty")
	}
	if !apperr.IsKind(err, apperr.KindExhaustedFallback) {
		t.Errorf("Kind = %v, want EXHAUSTED_FALLBACK", apperr.KindOf(err))
	}
}

func TestRestaurantStaleFallbackIsSilent(t *testing.T) {
	// Fetch once online, cut the network, read again: the stale copy is
	// served as a plain success. Staleness never surfaces to the caller.
	ctx := context.Background()
	st := newTestStore(t)
	gw := &fakeGateway{restaurants: []model.Restaurant{
		{ID: 1, Name: "A2", CuisineType: "Asian", UpdatedAt: ts(2024, 2, 1)},
	}}
	st.UpsertRestaurant(ctx, model.Restaurant{ID: 1, Name: "A", UpdatedAt: ts(2024, 1, 1)}, false)
	rec := New(gw, st)

	fresh, err := rec.Restaurant(ctx, 1)
	if err != nil || fresh.Name != "A2" {
		t.Fatalf("Online read = %+v, %v", fresh, err)
	}

	gw.err = transportDown()
	offline, err := rec.Restaurant(ctx, 1)
	if err != nil {
		t.Fatalf("Offline read failed: %v", err)
	}
	if offline.Name != "A2" {
		t.Errorf("Offline read = %q, want the newer cached copy A2", offline.Name)
	}
}

func TestRestaurantAbsentEverywhere(t *testing.T) {
	st := newTestStore(t)
	rec := New(&fakeGateway{err: transportDown()}, st)

	_, err := rec.Restaurant(context.Background(), 42)
	if !apperr.IsKind(err, apperr.KindExhaustedFallback) {
		t.Errorf("Kind = %v, want EXHAUSTED_FALLBACK", apperr.KindOf(err))
	}
}

func TestReviewsNetworkFirstAndFallback(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	gw := &fakeGateway{reviews: []model.Review{
		{ID: 1, RestaurantID: 3, Name: "Ana", Rating: 5, Comments: "Great", UpdatedAt: ts(2024, 1, 1)},
	}}
	rec := New(gw, st)

	if _, err := rec.ReviewsForRestaurant(ctx, 3); err != nil {
		t.Fatalf("Online review read failed: %v", err)
	}

	gw.err = transportDown()
	reviews, err := rec.ReviewsForRestaurant(ctx, 3)
	if err != nil {
		t.Fatalf("Offline review read failed: %v", err)
	}
	if len(reviews) != 1 || reviews[0].Name != "Ana" {
		t.Errorf("Reviews = %+v", reviews)
	}

	// A restaurant with nothing cached fails with the terminal kind.
	_, err = rec.ReviewsForRestaurant(ctx, 99)
	if !apperr.IsKind(err, apperr.KindExhaustedFallback) {
		t.Errorf("Kind = %v, want EXHAUSTED_FALLBACK", apperr.KindOf(err))
	}
}

func TestToggleFavoriteForcesOverwrite(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	// The cached copy carries a newer updatedAt than the toggle result
	// will; the force write must still replace it.
	st.UpsertRestaurant(ctx, model.Restaurant{ID: 1, Name: "Emily", UpdatedAt: ts(2024, 6, 1)}, false)

	gw := &fakeGateway{restaurants: []model.Restaurant{
		{ID: 1, Name: "Emily", UpdatedAt: ts(2024, 1, 1)},
	}}
	rec := New(gw, st)

	updated, err := rec.ToggleFavorite(ctx, 1, true)
	if err != nil {
		t.Fatalf("ToggleFavorite failed: %v", err)
	}
	if !bool(updated.IsFavorite) {
		t.Error("Returned record not favorite")
	}

	cached, _ := st.GetRestaurant(ctx, 1)
	if cached == nil || !bool(cached.IsFavorite) {
		t.Errorf("Cached copy after toggle: %+v", cached)
	}
}

func TestToggleFavoriteOfflineFails(t *testing.T) {
	st := newTestStore(t)
	rec := New(&fakeGateway{err: transportDown()}, st)

	_, err := rec.ToggleFavorite(context.Background(), 1, true)
	if !apperr.IsKind(err, apperr.KindTransport) {
		t.Errorf("Kind = %v, want TRANSPORT (toggle has no offline path)", apperr.KindOf(err))
	}
}

func TestSubmitReviewValidatesFirst(t *testing.T) {
	st := newTestStore(t)
	gw := &fakeGateway{}
	rec := New(gw, st)

	_, err := rec.SubmitReview(context.Background(), model.PendingReview{Name: "Ana"})
	if err == nil {
		t.Fatal("Expected validation error for incomplete review")
	}
}

func TestSubmitReviewCachesResult(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	rec := New(&fakeGateway{}, st)

	created, err := rec.SubmitReview(ctx, model.PendingReview{
		Name: "Ana", Rating: 4, Comments: "Good", RestaurantID: 3,
	})
	if err != nil {
		t.Fatalf("SubmitReview failed: %v", err)
	}

	cached, err := st.GetReviewsForRestaurant(ctx, 3)
	if err != nil {
		t.Fatalf("GetReviewsForRestaurant failed: %v", err)
	}
	if len(cached) != 1 || cached[0].ID != created.ID {
		t.Errorf("Cached reviews = %+v, want the server-assigned record", cached)
	}
}
