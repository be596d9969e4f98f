package reconcile

import (
	"context"
	"fmt"

	"dinemap/internal/model"
)

// Wildcard matches any cuisine or neighborhood in the filtered reads.
const Wildcard = "all"

// The derived reads below are pure filters over the full restaurant set;
// they never touch the network or store themselves.

// RestaurantsByCuisine returns restaurants of the given cuisine.
func (r *Reconciler) RestaurantsByCuisine(ctx context.Context, cuisine string) ([]model.Restaurant, error) {
	restaurants, err := r.Restaurants(ctx)
	if err != nil {
		return nil, err
	}
	return FilterRestaurants(restaurants, cuisine, Wildcard), nil
}

// RestaurantsByNeighborhood returns restaurants in the given neighborhood.
func (r *Reconciler) RestaurantsByNeighborhood(ctx context.Context, neighborhood string) ([]model.Restaurant, error) {
	restaurants, err := r.Restaurants(ctx)
	if err != nil {
		return nil, err
	}
	return FilterRestaurants(restaurants, Wildcard, neighborhood), nil
}

// RestaurantsByCuisineAndNeighborhood filters on both dimensions; either
// may be the "all" wildcard.
func (r *Reconciler) RestaurantsByCuisineAndNeighborhood(ctx context.Context, cuisine, neighborhood string) ([]model.Restaurant, error) {
	restaurants, err := r.Restaurants(ctx)
	if err != nil {
		return nil, err
	}
	return FilterRestaurants(restaurants, cuisine, neighborhood), nil
}

// Neighborhoods returns the distinct neighborhoods, first-seen order.
func (r *Reconciler) Neighborhoods(ctx context.Context) ([]string, error) {
	restaurants, err := r.Restaurants(ctx)
	if err != nil {
		return nil, err
	}
	return DistinctNeighborhoods(restaurants), nil
}

// Cuisines returns the distinct cuisine types, first-seen order.
func (r *Reconciler) Cuisines(ctx context.Context) ([]string, error) {
	restaurants, err := r.Restaurants(ctx)
	if err != nil {
		return nil, err
	}
	return DistinctCuisines(restaurants), nil
}

// FilterRestaurants keeps restaurants matching the cuisine and neighborhood
// filters. The Wildcard value matches everything.
func FilterRestaurants(restaurants []model.Restaurant, cuisine, neighborhood string) []model.Restaurant {
	results := make([]model.Restaurant, 0, len(restaurants))
	for _, r := range restaurants {
		if cuisine != Wildcard && cuisine != "" && r.CuisineType != cuisine {
			continue
		}
		if neighborhood != Wildcard && neighborhood != "" && r.Neighborhood != neighborhood {
			continue
		}
		results = append(results, r)
	}
	return results
}

// DistinctNeighborhoods lists each neighborhood once, in first-seen order.
func DistinctNeighborhoods(restaurants []model.Restaurant) []string {
	return distinct(restaurants, func(r model.Restaurant) string { return r.Neighborhood })
}

// DistinctCuisines lists each cuisine type once, in first-seen order.
func DistinctCuisines(restaurants []model.Restaurant) []string {
	return distinct(restaurants, func(r model.Restaurant) string { return r.CuisineType })
}

func distinct(restaurants []model.Restaurant, key func(model.Restaurant) string) []string {
	seen := make(map[string]bool, len(restaurants))
	var values []string
	for _, r := range restaurants {
		k := key(r)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		values = append(values, k)
	}
	return values
}

// PageURL returns the directory page path for a restaurant.
func PageURL(r model.Restaurant) string {
	return fmt.Sprintf("/restaurant.html?id=%d", r.ID)
}

// ImageURL returns the image path for a restaurant at the given size tier
// (an empty tier yields the untiered path). Falls back to the restaurant id
// when no photograph reference exists.
func ImageURL(r model.Restaurant, tier string) string {
	if tier == "" {
		return fmt.Sprintf("/img/%s.jpg", r.ImageBasename())
	}
	return fmt.Sprintf("/img/%s/%s.jpg", tier, r.ImageBasename())
}
