package model

import "fmt"

// Review is a server-persisted restaurant review. The id is assigned by the
// server; RestaurantID links it back to its parent restaurant.
type Review struct {
	ID           int       `json:"id"`
	RestaurantID int       `json:"restaurant_id"`
	Name         string    `json:"name"`
	Rating       int       `json:"rating"`
	Comments     string    `json:"comments"`
	CreatedAt    Timestamp `json:"createdAt,omitzero"`
	UpdatedAt    Timestamp `json:"updatedAt,omitzero"`
}

// PendingReview is a review written while offline, parked in the durable
// queue until connectivity returns. LocalRef identifies the entry across
// replay attempts; the server never sees it.
type PendingReview struct {
	LocalRef     string    `json:"local_ref,omitempty"`
	Name         string    `json:"name"`
	Rating       int       `json:"rating"`
	Comments     string    `json:"comments"`
	RestaurantID int       `json:"restaurant_id"`
	CreatedAt    Timestamp `json:"createdAt"`
}

// Validate checks the fields the review form requires before submission.
func (p PendingReview) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("review: name is required")
	}
	if p.Rating < 1 || p.Rating > 5 {
		return fmt.Errorf("review: rating must be between 1 and 5, got %d", p.Rating)
	}
	if p.Comments == "" {
		return fmt.Errorf("review: comments are required")
	}
	if p.RestaurantID <= 0 {
		return fmt.Errorf("review: restaurant id is required")
	}
	return nil
}
