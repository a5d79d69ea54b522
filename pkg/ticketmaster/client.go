package ticketmaster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/sliceops-ai/sliceops-backend/pkg/errors"
)

const (
	defaultBaseURL             = "https://app.ticketmaster.com/discovery/v2"
	errorBodyReadLimit   int64 = 1024
	defaultClientTimeout       = 10 * time.Second
)

var errAPIKeyRequired = errors.New("ticketmaster api key is required")

// Client wraps the Ticketmaster Discovery API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
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

// WithBaseURL overrides the configured Discovery base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the Discovery client given an API key.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}
	client := &Client{
		apiKey:     trimmedKey,
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

// Listing is one normalized Discovery event.
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
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "ticketmaster client not configured")
	}

	q := url.Values{}
	q.Set("apikey", c.apiKey)
	q.Set("latlong", fmt.Sprintf("%.4f,%.4f", lat, lon))
	q.Set("radius", strconv.Itoa(radiusMiles))
	q.Set("unit", "miles")
	q.Set("startDateTime", from.UTC().Format("2006-01-02T15:04:05Z"))
	q.Set("endDateTime", to.UTC().Format("2006-01-02T15:04:05Z"))
	q.Set("size", "50")

	endpoint := fmt.Sprintf("%s/events.json?%s", strings.TrimRight(c.baseURL, "/"), q.Encode())
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build discovery request")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute discovery request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, pkgerrors.New(pkgerrors.CodeRateLimit, "ticketmaster rate limited")
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "discovery request failed")
	}

	var apiResp struct {
		Embedded struct {
			Events []struct {
				Name  string `json:"name"`
				Dates struct {
					Start struct {
						DateTime time.Time `json:"dateTime"`
					} `json:"start"`
				} `json:"dates"`
				Classifications []struct {
					Segment struct {
						Name string `json:"name"`
					} `json:"segment"`
				} `json:"classifications"`
				Embedded struct {
					Venues []struct {
						Name     string `json:"name"`
						Capacity int    `json:"capacity"`
					} `json:"venues"`
				} `json:"_embedded"`
			} `json:"events"`
		} `json:"_embedded"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode discovery response")
	}

	listings := make([]Listing, 0, len(apiResp.Embedded.Events))
	for _, ev := range apiResp.Embedded.Events {
		listing := Listing{
			Name:  ev.Name,
			Start: ev.Dates.Start.DateTime,
		}
		if len(ev.Embedded.Venues) > 0 {
			listing.Venue = ev.Embedded.Venues[0].Name
			listing.Capacity = ev.Embedded.Venues[0].Capacity
		}
		if len(ev.Classifications) > 0 {
			listing.Type = ev.Classifications[0].Segment.Name
		}
		listings = append(listings, listing)
	}
	return listings, nil
}
