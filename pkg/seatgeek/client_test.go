package seatgeek

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewClientRequiresClientID(t *testing.T) {
	if _, err := NewClient(" "); err == nil {
		t.Fatal("expected error for blank client id")
	}
}

func TestSearchParsesEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("client_id"); got != "sg-id" {
			t.Fatalf("unexpected client_id %q", got)
		}
		if got := r.URL.Query().Get("range"); got != "10mi" {
			t.Fatalf("unexpected range %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"events": [{
				"title": "Warriors vs Kings",
				"type": "nba",
				"datetime_utc": "2026-09-05T02:30:00",
				"venue": {"name": "Chase Center", "capacity": 18064}
			}, {
				"title": "Broken Event",
				"type": "concert",
				"datetime_utc": "not-a-time",
				"venue": {"name": "Nowhere", "capacity": 100}
			}]
		}`))
	}))
	defer server.Close()

	client, err := NewClient("sg-id", WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	from := time.Date(2026, 9, 4, 0, 0, 0, 0, time.UTC)
	listings, err := client.Search(context.Background(), 37.77, -122.39, 10, from, from.Add(7*24*time.Hour))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(listings))
	}
	if listings[0].Venue != "Chase Center" {
		t.Fatalf("unexpected venue %q", listings[0].Venue)
	}
	if listings[0].Capacity != 18064 {
		t.Fatalf("unexpected capacity %d", listings[0].Capacity)
	}
}

func TestSearchRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, err := NewClient("sg-id", WithBaseURL(server.URL))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.Search(context.Background(), 37.77, -122.39, 10, time.Now(), time.Now().Add(time.Hour)); err == nil {
		t.Fatal("expected rate limit error")
	}
}
