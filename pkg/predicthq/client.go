package predicthq

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
	defaultBaseURL             = "https://api.predicthq.com/v1"
	errorBodyReadLimit   int64 = 1024
	defaultClientTimeout       = 10 * time.Second
)

var errTokenRequired = errors.New("predicthq access token is required")

// Client wraps the PredictHQ events API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
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

// NewClient builds a PredictHQ client given an access token.
func NewClient(token string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return nil, errTokenRequired
	}
	client := &Client{
		token:      trimmed,
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

// Listing is one normalized PredictHQ event. Attendance doubles as the
// capacity estimate.
type Listing struct {
	Name     string
	Venue    string
	Start    time.Time
	Capacity int
	Type     string
}

// Search returns attended events near a coordinate inside the time window.
func (c *Client) Search(ctx context.Context, lat, lon float64, radiusMiles int, from, to time.Time) ([]Listing, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "predicthq client not configured")
	}

	q := url.Values{}
	q.Set("within", fmt.Sprintf("%dmi@%.4f,%.4f", radiusMiles, lat, lon))
	q.Set("active.gte", from.UTC().Format("2006-01-02"))
	q.Set("active.lte", to.UTC().Format("2006-01-02"))
	q.Set("category", "concerts,sports,festivals,performing-arts")
	q.Set("limit", "50")

	endpoint := fmt.Sprintf("%s/events/?%s", strings.TrimRight(c.baseURL, "/"), q.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build predicthq request")
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.token)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute predicthq request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, pkgerrors.New(pkgerrors.CodeRateLimit, "predicthq rate limited")
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "predicthq request failed")
	}

	var apiResp struct {
		Results []struct {
			Title         string    `json:"title"`
			Category      string    `json:"category"`
			Start         time.Time `json:"start"`
			PhqAttendance int       `json:"phq_attendance"`
			Entities      []struct {
				Name string `json:"name"`
				Type string `json:"type"`
			} `json:"entities"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode predicthq response")
	}

	listings := make([]Listing, 0, len(apiResp.Results))
	for _, ev := range apiResp.Results {
		listing := Listing{
			Name:     ev.Title,
			Start:    ev.Start.UTC(),
			Capacity: ev.PhqAttendance,
			Type:     ev.Category,
		}
		for _, ent := range ev.Entities {
			if ent.Type == "venue" {
				listing.Venue = ent.Name
				break
			}
		}
		listings = append(listings, listing)
	}
	return listings, nil
}
