package intelligence

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestCacheFidelityBeforeExpiry(t *testing.T) {
	cache := NewCache()
	now := time.Now()
	cache.now = func() time.Time { return now }

	payload := &WeatherSignal{TempF: 58, Condition: "Rain"}
	cache.Set(weatherKey("s1"), payload)

	now = now.Add(9 * time.Minute)
	got, ok := cache.Get(weatherKey("s1"), 10*time.Minute)
	if !ok {
		t.Fatal("entry should still be valid before ttl elapses")
	}
	if got.(*WeatherSignal) != payload {
		t.Fatal("cache should return the exact payload that was set")
	}
}

func TestCacheExpiryEvictsLazily(t *testing.T) {
	cache := NewCache()
	now := time.Now()
	cache.now = func() time.Time { return now }

	cache.Set(trafficKey("s1"), &TrafficSignal{DelayMinutes: 12})

	now = now.Add(5 * time.Minute)
	if _, ok := cache.Get(trafficKey("s1"), 5*time.Minute); ok {
		t.Fatal("entry at exactly ttl should be a miss")
	}
	if cache.Len() != 0 {
		t.Fatal("expired entry should be deleted on read")
	}
}

func TestCacheMissForUnknownKey(t *testing.T) {
	cache := NewCache()
	if _, ok := cache.Get("nope", time.Minute); ok {
		t.Fatal("unknown key should miss")
	}
}

func TestCacheConcurrentReadWrite(t *testing.T) {
	cache := NewCache()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := fmt.Sprintf("events_%d", n%4)
			for j := 0; j < 200; j++ {
				cache.Set(key, j)
				cache.Get(key, time.Minute)
			}
		}(i)
	}
	wg.Wait()
}

func TestHolidaysKeyIncludesYearAndCountry(t *testing.T) {
	if got := holidaysKey(2024, "US"); got != "holidays_2024_US" {
		t.Fatalf("unexpected holidays key %q", got)
	}
}
