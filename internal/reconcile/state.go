package reconcile

import "dinemap/internal/model"

// State is the explicit application state passed between the reconciler and
// UI layers: the current restaurant set, the active filters, and the
// selected restaurant. It replaces ambient globals; nothing in this package
// mutates it implicitly.
type State struct {
	Restaurants  []model.Restaurant
	Cuisine      string
	Neighborhood string
	Selected     *model.Restaurant
}

// NewState returns a State with both filters set to the wildcard.
func NewState() *State {
	return &State{Cuisine: Wildcard, Neighborhood: Wildcard}
}

// SetRestaurants replaces the restaurant set and drops a selection that no
// longer resolves.
func (s *State) SetRestaurants(restaurants []model.Restaurant) {
	s.Restaurants = restaurants
	if s.Selected == nil {
		return
	}
	for i := range restaurants {
		if restaurants[i].ID == s.Selected.ID {
			s.Selected = &restaurants[i]
			return
		}
	}
	s.Selected = nil
}

// Filtered returns the restaurant set under the active filters.
func (s *State) Filtered() []model.Restaurant {
	return FilterRestaurants(s.Restaurants, s.Cuisine, s.Neighborhood)
}

// Select marks the restaurant with the given id as selected. Returns false
// when the id is not in the current set.
func (s *State) Select(id int) bool {
	for i := range s.Restaurants {
		if s.Restaurants[i].ID == id {
			s.Selected = &s.Restaurants[i]
			return true
		}
	}
	return false
}
