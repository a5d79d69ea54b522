package eventbrite

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
	defaultBaseURL             = "https://www.eventbriteapi.com/v3"
	errorBodyReadLimit   int64 = 1024
	defaultClientTimeout       = 10 * time.Second
)

var errTokenRequired = errors.New("eventbrite token is required")

// Client wraps the Eventbrite search API.
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

// NewClient builds an Eventbrite client given a private token.
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

// Listing is one normalized Eventbrite event. Eventbrite does not expose
// expected attendance so Capacity is carried when present and zero otherwise.
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
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "eventbrite client not configured")
	}

	q := url.Values{}
	q.Set("location.latitude", fmt.Sprintf("%.4f", lat))
	q.Set("location.longitude", fmt.Sprintf("%.4f", lon))
	q.Set("location.within", fmt.Sprintf("%dmi", radiusMiles))
	q.Set("start_date.range_start", from.UTC().Format("2006-01-02T15:04:05Z"))
	q.Set("start_date.range_end", to.UTC().Format("2006-01-02T15:04:05Z"))
	q.Set("expand", "venue")
	q.Set("page_size", "50")

	endpoint := fmt.Sprintf("%s/events/search/?%s", strings.TrimRight(c.baseURL, "/"), q.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build eventbrite request")
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.token)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute eventbrite request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, pkgerrors.New(pkgerrors.CodeRateLimit, "eventbrite rate limited")
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "eventbrite request failed")
	}

	var apiResp struct {
		Events []struct {
			Name struct {
				Text string `json:"text"`
			} `json:"name"`
			Start struct {
				UTC string `json:"utc"`
			} `json:"start"`
			Capacity int `json:"capacity"`
			Venue    struct {
				Name string `json:"name"`
			} `json:"venue"`
			Category struct {
				ShortName string `json:"short_name"`
			} `json:"category"`
		} `json:"events"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode eventbrite response")
	}

	listings := make([]Listing, 0, len(apiResp.Events))
	for _, ev := range apiResp.Events {
		start, err := time.Parse("2006-01-02T15:04:05Z", ev.Start.UTC)
		if err != nil {
			continue
		}
		listings = append(listings, Listing{
			Name:     ev.Name.Text,
			Venue:    ev.Venue.Name,
			Start:    start,
			Capacity: ev.Capacity,
			Type:     ev.Category.ShortName,
		})
	}
	return listings, nil
}
