package intelligence

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeKV struct {
	mu      sync.Mutex
	values  map[string]string
	getErr  error
	written chan struct{}
}

func newFakeKV() *fakeKV {
	return &fakeKV{values: make(map[string]string), written: make(chan struct{}, 1)}
}

func (f *fakeKV) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return "", f.getErr
	}
	v, ok := f.values[key]
	if !ok {
		return "", errors.New("missing")
	}
	return v, nil
}

func (f *fakeKV) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.mu.Lock()
	f.values[key] = value.(string)
	f.mu.Unlock()
	select {
	case f.written <- struct{}{}:
	default:
	}
	return nil
}

func (f *fakeKV) ClassificationKey(storeID string) string {
	return "so:classification:" + storeID
}

func TestClassifyReadsThroughCache(t *testing.T) {
	kv := newFakeKV()
	kv.values[kv.ClassificationKey("store-1")] = `{"type":"military","subType":"base"}`
	c := NewClassifier(kv, time.Hour, newTestLogger())

	got := c.Classify(context.Background(), testStore())
	if got.Type != "military" || got.SubType != "base" {
		t.Fatalf("expected cached classification, got %+v", got)
	}
}

func TestClassifyFallsBackOnReadFailure(t *testing.T) {
	kv := newFakeKV()
	kv.getErr = errors.New("redis down")
	c := NewClassifier(kv, time.Hour, newTestLogger())

	store := testStore()
	store.Name = "State University Commons"
	got := c.Classify(context.Background(), store)
	if got.Type != "college" {
		t.Fatalf("expected college fallback, got %+v", got)
	}
}

func TestClassifyWritesBackBestEffort(t *testing.T) {
	kv := newFakeKV()
	c := NewClassifier(kv, time.Hour, newTestLogger())

	got := c.Classify(context.Background(), testStore())
	if got.Type != "suburban" {
		t.Fatalf("expected suburban default, got %+v", got)
	}

	select {
	case <-kv.written:
	case <-time.After(time.Second):
		t.Fatal("expected async classification write-back")
	}
}

func TestClassifyWithoutStore(t *testing.T) {
	c := NewClassifier(nil, time.Hour, newTestLogger())

	store := testStore()
	store.Name = "Fort Bragg South"
	if got := c.Classify(context.Background(), store); got.Type != "military" {
		t.Fatalf("expected military, got %+v", got)
	}

	store.Name = "Downtown Slice"
	if got := c.Classify(context.Background(), store); got.Type != "downtown" {
		t.Fatalf("expected downtown, got %+v", got)
	}
}
