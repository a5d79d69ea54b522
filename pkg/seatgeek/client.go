package seatgeek

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/sliceops-ai/sliceops-backend/pkg/errors"
)

const (
	defaultBaseURL             = "https://api.seatgeek.com/2"
	errorBodyReadLimit   int64 = 1024
	defaultClientTimeout       = 10 * time.Second
)

var errClientIDRequired = errors.New("seatgeek client id is required")

// Client wraps the SeatGeek events API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	clientID   string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds a SeatGeek client given a client ID.
func NewClient(clientID string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(clientID)
	if trimmed == "" {
		return nil, errClientIDRequired
	}
	client := &Client{
		clientID:   trimmed,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultClientTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Listing is one normalized SeatGeek event.
type Listing struct {
	Name     string
	Venue    string
	Start    time.Time
	Capacity int
	Type     string
}

// Search returns events near a coordinate inside the time window.
func (c *Client) Search(ctx context.Context, lat, lon float64, radiusMiles int, from, to time.Time) ([]Listing, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "seatgeek client not configured")
	}

	q := url.Values{}
	q.Set("client_id", c.clientID)
	q.Set("lat", fmt.Sprintf("%.4f", lat))
	q.Set("lon", fmt.Sprintf("%.4f", lon))
	q.Set("range", fmt.Sprintf("%dmi", radiusMiles))
	q.Set("datetime_utc.gte", from.UTC().Format("2006-01-02T15:04:05"))
	q.Set("datetime_utc.lte", to.UTC().Format("2006-01-02T15:04:05"))
	q.Set("per_page", "50")

	endpoint := fmt.Sprintf("%s/events?%s", strings.TrimRight(c.baseURL, "/"), q.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build seatgeek request")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute seatgeek request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, pkgerrors.New(pkgerrors.CodeRateLimit, "seatgeek rate limited")
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "seatgeek request failed")
	}

	var apiResp struct {
		Events []struct {
			Title       string `json:"title"`
			Type        string `json:"type"`
			DatetimeUTC string `json:"datetime_utc"`
			Venue       struct {
				Name     string `json:"name"`
				Capacity int    `json:"capacity"`
			} `json:"venue"`
		} `json:"events"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode seatgeek response")
	}

	listings := make([]Listing, 0, len(apiResp.Events))
	for _, ev := range apiResp.Events {
		start, err := time.Parse("2006-01-02T15:04:05", ev.DatetimeUTC)
		if err != nil {
			continue
		}
		listings = append(listings, Listing{
			Name:     ev.Title,
			Venue:    ev.Venue.Name,
			Start:    start.UTC(),
			Capacity: ev.Venue.Capacity,
			Type:     ev.Type,
		})
	}
	return listings, nil
}
