package intelligence

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"
)

func TestRateLimiterSpacesConcurrentCallers(t *testing.T) {
	const minDelay = 20 * time.Millisecond
	limiter := NewRateLimiter(RateLimitDelays{
		General:   minDelay,
		Ticketing: minDelay,
		Mapping:   minDelay,
	})

	const callers = 5
	var mu sync.Mutex
	var stamps []time.Time

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := limiter.Wait(context.Background(), ClassTicketing); err != nil {
				t.Errorf("wait: %v", err)
				return
			}
			mu.Lock()
			stamps = append(stamps, time.Now())
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(stamps) != callers {
		t.Fatalf("expected %d permitted calls, got %d", callers, len(stamps))
	}
	sort.Slice(stamps, func(i, j int) bool { return stamps[i].Before(stamps[j]) })
	for i := 1; i < len(stamps); i++ {
		if delta := stamps[i].Sub(stamps[i-1]); delta < minDelay-time.Millisecond {
			t.Fatalf("calls %d and %d spaced %s apart, want >= %s", i-1, i, delta, minDelay)
		}
	}
}

func TestRateLimiterIndependentClasses(t *testing.T) {
	limiter := NewRateLimiter(RateLimitDelays{
		General:   time.Millisecond,
		Ticketing: time.Hour,
		Mapping:   time.Millisecond,
	})

	// Exhaust the ticketing slot, then verify a general caller is unaffected.
	if err := limiter.Wait(context.Background(), ClassTicketing); err != nil {
		t.Fatalf("ticketing wait: %v", err)
	}

	start := time.Now()
	if err := limiter.Wait(context.Background(), ClassGeneral); err != nil {
		t.Fatalf("general wait: %v", err)
	}
	if time.Since(start) > 100*time.Millisecond {
		t.Fatal("general class should not be blocked by ticketing backlog")
	}
}

func TestRateLimiterHonorsContextCancellation(t *testing.T) {
	limiter := NewRateLimiter(RateLimitDelays{Ticketing: time.Hour, General: time.Hour, Mapping: time.Hour})

	if err := limiter.Wait(context.Background(), ClassTicketing); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := limiter.Wait(ctx, ClassTicketing); err == nil {
		t.Fatal("expected context deadline error while waiting out a huge delay")
	}
}

func TestRateLimiterUnknownClassFallsBackToGeneral(t *testing.T) {
	limiter := NewRateLimiter(DefaultRateLimitDelays())
	if err := limiter.Wait(context.Background(), ProviderClass("mystery")); err != nil {
		t.Fatalf("unknown class should use the general gate: %v", err)
	}
}
