package predicthq

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSearchParsesEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer phq-token" {
			t.Fatalf("unexpected authorization %q", got)
		}
		if got := r.URL.Query().Get("within"); !strings.HasPrefix(got, "10mi@") {
			t.Fatalf("unexpected within %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"results": [{
				"title": "Summer Music Festival",
				"category": "festivals",
				"start": "2026-09-05T01:00:00Z",
				"phq_attendance": 25000,
				"entities": [{"name": "Grand Park", "type": "venue"}]
			}]
		}`))
	}))
	defer server.Close()

	client, err := NewClient("phq-token", WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	from := time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)
	listings, err := client.Search(context.Background(), 34.05, -118.24, 10, from, from.Add(7*24*time.Hour))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(listings))
	}
	if listings[0].Capacity != 25000 {
		t.Fatalf("unexpected capacity %d", listings[0].Capacity)
	}
	if listings[0].Venue != "Grand Park" {
		t.Fatalf("unexpected venue %q", listings[0].Venue)
	}
}

func TestSearchDependencyError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewClient("phq-token", WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.Search(context.Background(), 34.05, -118.24, 10, time.Now(), time.Now().Add(time.Hour)); err == nil {
		t.Fatal("expected dependency error")
	}
}
