package intelligence

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/sliceops-ai/sliceops-backend/pkg/logger"
)

// ClassificationStore is the slice of the Redis client the classifier needs.
type ClassificationStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	ClassificationKey(storeID string) string
}

// Classifier buckets stores by surrounding geography. Classifications are
// read through Redis; a read failure falls back to name-based heuristics and
// the result is written back best-effort.
type Classifier struct {
	kv   ClassificationStore
	ttl  time.Duration
	logg *logger.Logger

	writeTimeout time.Duration
}

// NewClassifier builds a classifier. kv may be nil; classification then runs
// purely on heuristics.
func NewClassifier(kv ClassificationStore, ttl time.Duration, logg *logger.Logger) *Classifier {
	return &Classifier{
		kv:           kv,
		ttl:          ttl,
		logg:         logg,
		writeTimeout: 2 * time.Second,
	}
}

// Classify resolves a store's classification, preferring the cached value.
// It never fails: the heuristic answer is always available.
func (c *Classifier) Classify(ctx context.Context, store Store) Classification {
	if c.kv != nil {
		raw, err := c.kv.Get(ctx, c.kv.ClassificationKey(store.ID))
		if err == nil {
			var cls Classification
			if jsonErr := json.Unmarshal([]byte(raw), &cls); jsonErr == nil && cls.Type != "" {
				return cls
			}
		}
	}

	cls := autoClassify(store)
	if c.kv != nil {
		// Write-back never blocks the request.
		go c.persist(store.ID, cls)
	}
	return cls
}

func (c *Classifier) persist(storeID string, cls Classification) {
	ctx, cancel := context.WithTimeout(context.Background(), c.writeTimeout)
	defer cancel()
	payload, err := json.Marshal(cls)
	if err != nil {
		return
	}
	if err := c.kv.Set(ctx, c.kv.ClassificationKey(storeID), string(payload), c.ttl); err != nil {
		c.logg.Warn(ctx, "classification write-back failed: "+err.Error())
	}
}

var (
	militaryMarkers = []string{"base", "fort ", "ft. ", "ft ", "camp ", "afb", "naval", "marine corps", "jber"}
	collegeMarkers  = []string{"university", "college", "campus", "state u", "tech "}
	downtownMarkers = []string{"downtown", "city center", "city centre", "financial district"}
)

// autoClassify is the heuristic fallback: match the store and city names
// against known markers, defaulting to suburban.
func autoClassify(store Store) Classification {
	haystack := strings.ToLower(store.Name + " " + store.City)

	for _, m := range militaryMarkers {
		if strings.Contains(haystack, m) {
			return Classification{Type: "military", SubType: "base"}
		}
	}
	for _, m := range collegeMarkers {
		if strings.Contains(haystack, m) {
			return Classification{Type: "college", SubType: "campus"}
		}
	}
	for _, m := range downtownMarkers {
		if strings.Contains(haystack, m) {
			return Classification{Type: "downtown", SubType: "urban_core"}
		}
	}
	return Classification{Type: "suburban", SubType: "residential"}
}
