package holidays

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/sliceops-ai/sliceops-backend/pkg/errors"
)

const (
	defaultBaseURL             = "https://date.nager.at/api/v3"
	errorBodyReadLimit   int64 = 1024
	defaultClientTimeout       = 10 * time.Second
)

// Client wraps the Nager.Date public holiday API. No key required.
type Client struct {
	httpClient *http.Client
	baseURL    string
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

// NewClient builds a Nager.Date client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultClientTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client
}

// Holiday is one public holiday for a country and year.
type Holiday struct {
	Date      time.Time
	Name      string
	LocalName string
}

// PublicHolidays returns the public holidays for a year and ISO country code.
func (c *Client) PublicHolidays(ctx context.Context, year int, countryCode string) ([]Holiday, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "holiday client not configured")
	}
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "country code is required")
	}

	endpoint := fmt.Sprintf("%s/PublicHolidays/%d/%s", strings.TrimRight(c.baseURL, "/"), year, code)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build holiday request")
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute holiday request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, pkgerrors.New(pkgerrors.CodeRateLimit, "holiday api rate limited")
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "holiday request failed")
	}

	var apiResp []struct {
		Date      string `json:"date"`
		LocalName string `json:"localName"`
		Name      string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode holiday response")
	}

	list := make([]Holiday, 0, len(apiResp))
	for _, h := range apiResp {
		date, err := time.Parse("2006-01-02", h.Date)
		if err != nil {
			continue
		}
		list = append(list, Holiday{Date: date, Name: h.Name, LocalName: h.LocalName})
	}
	return list, nil
}
