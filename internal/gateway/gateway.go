// Package gateway implements the HTTP client for the restaurant API. It
// issues one request per call and classifies failures as transport or
// http-status errors; retry and fallback policy live in the reconciler and
// queue layers, not here.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"dinemap/internal/apperr"
	"dinemap/internal/logging"
	"dinemap/internal/model"
)

// Config configures the remote gateway client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the restaurant API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a gateway client. The timeout bounds every call so a stalled
// network hands control back to the fallback path instead of hanging.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the configured API origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchAllRestaurants fetches every restaurant.
func (c *Client) FetchAllRestaurants(ctx context.Context) ([]model.Restaurant, error) {
	var restaurants []model.Restaurant
	if err := c.getJSON(ctx, c.baseURL+"/restaurants", &restaurants); err != nil {
		return nil, err
	}
	return restaurants, nil
}

// FetchRestaurant fetches one restaurant by id.
func (c *Client) FetchRestaurant(ctx context.Context, id int) (model.Restaurant, error) {
	var restaurant model.Restaurant
	if err := c.getJSON(ctx, fmt.Sprintf("%s/restaurants/%d", c.baseURL, id), &restaurant); err != nil {
		return model.Restaurant{}, err
	}
	return restaurant, nil
}

// FetchReviews fetches all reviews for a restaurant.
func (c *Client) FetchReviews(ctx context.Context, restaurantID int) ([]model.Review, error) {
	endpoint := fmt.Sprintf("%s/reviews/?restaurant_id=%d", c.baseURL, restaurantID)
	var reviews []model.Review
	if err := c.getJSON(ctx, endpoint, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// ToggleFavorite flips a restaurant's favorite flag on the server and
// returns the updated record.
func (c *Client) ToggleFavorite(ctx context.Context, id int, favorite bool) (model.Restaurant, error) {
	endpoint := fmt.Sprintf("%s/restaurants/%d/?is_favorite=%s", c.baseURL, id, strconv.FormatBool(favorite))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, nil)
	if err != nil {
		return model.Restaurant{}, apperr.Wrap(apperr.KindTransport, err, "failed to build favorite request")
	}

	var restaurant model.Restaurant
	if err := c.do(req, &restaurant); err != nil {
		return model.Restaurant{}, err
	}
	logging.Get(logging.CategoryGateway).Info("Toggled favorite for restaurant %d to %v", id, favorite)
	return restaurant, nil
}

// reviewBody is the POST /reviews/ payload. The queue's local ref is
// bookkeeping; the server never sees it.
type reviewBody struct {
	Name         string          `json:"name"`
	Rating       int             `json:"rating"`
	Comments     string          `json:"comments"`
	RestaurantID int             `json:"restaurant_id"`
	CreatedAt    model.Timestamp `json:"createdAt"`
}

// SubmitReview posts a new review and returns the server-assigned record.
func (c *Client) SubmitReview(ctx context.Context, review model.PendingReview) (model.Review, error) {
	body, err := json.Marshal(reviewBody{
		Name:         review.Name,
		Rating:       review.Rating,
		Comments:     review.Comments,
		RestaurantID: review.RestaurantID,
		CreatedAt:    review.CreatedAt,
	})
	if err != nil {
		return model.Review{}, apperr.Wrap(apperr.KindTransport, err, "failed to encode review")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/reviews/", bytes.NewReader(body))
	if err != nil {
		return model.Review{}, apperr.Wrap(apperr.KindTransport, err, "failed to build review request")
	}
	req.Header.Set("Content-Type", "application/json")

	var created model.Review
	if err := c.do(req, &created); err != nil {
		return model.Review{}, err
	}
	logging.Get(logging.CategoryGateway).Info("Submitted review for restaurant %d (server id %d)", review.RestaurantID, created.ID)
	return created, nil
}

// Ping checks whether the API is reachable. Used by the connectivity
// monitor; any response at all counts as online.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/restaurants", nil)
	if err != nil {
		return apperr.Wrap(apperr.KindTransport, err, "failed to build ping request")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.KindTransport, err, "api unreachable")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	if _, err := url.Parse(endpoint); err != nil {
		return apperr.Wrap(apperr.KindTransport, err, "invalid endpoint %s", endpoint)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return apperr.Wrap(apperr.KindTransport, err, "failed to build request for %s", endpoint)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	logging.Get(logging.CategoryGateway).Debug("%s %s", req.Method, req.URL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.KindTransport, err, "request to %s failed", req.URL)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return apperr.New(apperr.KindHTTPStatus, "%s %s returned %d", req.Method, req.URL.Path, resp.StatusCode)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Wrap(apperr.KindTransport, err, "failed to decode response from %s", req.URL.Path)
	}
	return nil
}
