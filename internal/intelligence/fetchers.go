package intelligence

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sliceops-ai/sliceops-backend/pkg/config"
	pkgerrors "github.com/sliceops-ai/sliceops-backend/pkg/errors"
	"github.com/sliceops-ai/sliceops-backend/pkg/gmaps"
	"github.com/sliceops-ai/sliceops-backend/pkg/holidays"
	"github.com/sliceops-ai/sliceops-backend/pkg/logger"
	"github.com/sliceops-ai/sliceops-backend/pkg/metrics"
	"github.com/sliceops-ai/sliceops-backend/pkg/weather"
)

// WeatherProvider is the slice of the weather client the fetcher needs.
type WeatherProvider interface {
	Current(ctx context.Context, lat, lon float64) (*weather.Observation, error)
}

// RouteProvider computes traffic-aware vs free-flow durations for a route.
type RouteProvider interface {
	ComputeRoute(ctx context.Context, originLat, originLon, destLat, destLon float64) (*gmaps.RouteDurations, error)
}

// HolidayProvider lists public holidays for a year and country.
type HolidayProvider interface {
	PublicHolidays(ctx context.Context, year int, countryCode string) ([]holidays.Holiday, error)
}

// RawEvent is one provider listing before scoring. Capacity is already
// normalized to the conservative default when the provider reported none.
type RawEvent struct {
	Name     string
	Venue    string
	Date     time.Time
	Capacity int
	Type     string
	Source   string
}

// EventSource is one of the independent event-listing providers. Search
// adapts the provider's own listing type to RawEvent.
type EventSource struct {
	Name   string
	Class  ProviderClass
	Search func(ctx context.Context, lat, lon float64, radiusMiles int, from, to time.Time) ([]RawEvent, error)
}

// FetcherParams collects the fetcher's dependencies. Provider fields may be
// nil when the corresponding API key is absent; the fetcher treats that the
// same as a failed fetch.
type FetcherParams struct {
	Intel          config.IntelConfig
	HolidayCountry string
	RadiusMiles    int
	LookaheadDays  int

	Cache   *Cache
	Limiter *RateLimiter

	Weather      WeatherProvider
	Routes       RouteProvider
	Holidays     HolidayProvider
	EventSources []EventSource

	Metrics *metrics.ProviderMetrics
	Logger  *logger.Logger
}

// Fetcher pulls external signals through the cache and rate limiter. Every
// fetch method degrades to nil or an empty slice on any upstream problem;
// nothing here returns an error to the caller.
type Fetcher struct {
	cfg            config.IntelConfig
	holidayCountry string
	radiusMiles    int
	lookaheadDays  int

	cache   *Cache
	limiter *RateLimiter

	weather      WeatherProvider
	routes       RouteProvider
	holidays     HolidayProvider
	eventSources []EventSource

	metrics *metrics.ProviderMetrics
	logg    *logger.Logger
	now     func() time.Time

	unconfigured sync.Map
}

// NewFetcher validates wiring and builds a signal fetcher.
func NewFetcher(p FetcherParams) (*Fetcher, error) {
	if p.Cache == nil {
		return nil, fmt.Errorf("fetcher requires a cache")
	}
	if p.Limiter == nil {
		return nil, fmt.Errorf("fetcher requires a rate limiter")
	}
	if p.Logger == nil {
		return nil, fmt.Errorf("fetcher requires a logger")
	}
	if p.RadiusMiles <= 0 {
		p.RadiusMiles = 10
	}
	if p.LookaheadDays <= 0 {
		p.LookaheadDays = 7
	}
	if p.HolidayCountry == "" {
		p.HolidayCountry = "US"
	}
	return &Fetcher{
		cfg:            p.Intel,
		holidayCountry: strings.ToUpper(p.HolidayCountry),
		radiusMiles:    p.RadiusMiles,
		lookaheadDays:  p.LookaheadDays,
		cache:          p.Cache,
		limiter:        p.Limiter,
		weather:        p.Weather,
		routes:         p.Routes,
		holidays:       p.Holidays,
		eventSources:   p.EventSources,
		metrics:        p.Metrics,
		logg:           p.Logger,
		now:            time.Now,
	}, nil
}

// FetchWeather returns the current weather signal for a store, with the
// derived carryout opportunity attached. Nil on any failure.
func (f *Fetcher) FetchWeather(ctx context.Context, store Store) *WeatherSignal {
	key := weatherKey(store.ID)
	if v, ok := f.cache.Get(key, f.cfg.WeatherTTL); ok {
		f.metrics.IncCacheHit("weather")
		return v.(*WeatherSignal)
	}
	f.metrics.IncCacheMiss("weather")
	if f.onCooldown(key) {
		return nil
	}
	if f.weather == nil {
		f.warnUnconfigured(ctx, "weather")
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, f.cfg.ProviderTimeout)
	defer cancel()
	if err := f.limiter.Wait(callCtx, ClassGeneral); err != nil {
		return nil
	}

	start := f.now()
	obs, err := f.weather.Current(callCtx, store.Latitude, store.Longitude)
	f.metrics.ObserveCall("openweather", f.now().Sub(start), err)
	if err != nil {
		f.noteFailure(ctx, key, "weather", err)
		return nil
	}

	sig := normalizeWeather(obs)
	sig.Carryout = DetectCarryout(sig)
	f.cache.Set(key, sig)
	return sig
}

// FetchTraffic samples a fixed short route starting at the store and reports
// current delay over free flow. Nil on any failure.
func (f *Fetcher) FetchTraffic(ctx context.Context, store Store) *TrafficSignal {
	key := trafficKey(store.ID)
	if v, ok := f.cache.Get(key, f.cfg.TrafficTTL); ok {
		f.metrics.IncCacheHit("traffic")
		return v.(*TrafficSignal)
	}
	f.metrics.IncCacheMiss("traffic")
	if f.onCooldown(key) {
		return nil
	}
	if f.routes == nil {
		f.warnUnconfigured(ctx, "traffic")
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, f.cfg.ProviderTimeout)
	defer cancel()
	if err := f.limiter.Wait(callCtx, ClassMapping); err != nil {
		return nil
	}

	// A ~2 mile probe route heading away from the store. The absolute route
	// does not matter, only the delta between live and free-flow durations.
	destLat := store.Latitude + 0.03
	destLon := store.Longitude + 0.03

	start := f.now()
	durations, err := f.routes.ComputeRoute(callCtx, store.Latitude, store.Longitude, destLat, destLon)
	f.metrics.ObserveCall("google_routes", f.now().Sub(start), err)
	if err != nil {
		f.noteFailure(ctx, key, "traffic", err)
		return nil
	}

	sig := normalizeTraffic(durations)
	f.cache.Set(key, sig)
	return sig
}

// FetchEvents fans out to every configured event source concurrently and
// returns the merged raw listings for the lookahead window. Sources fail
// independently; the merge of the survivors is what gets cached.
func (f *Fetcher) FetchEvents(ctx context.Context, store Store) []RawEvent {
	key := eventsKey(store.ID)
	if v, ok := f.cache.Get(key, f.cfg.EventsTTL); ok {
		f.metrics.IncCacheHit("events")
		return v.([]RawEvent)
	}
	f.metrics.IncCacheMiss("events")
	if len(f.eventSources) == 0 {
		f.warnUnconfigured(ctx, "events")
		return nil
	}

	from := f.now().UTC()
	to := from.AddDate(0, 0, f.lookaheadDays)

	var mu sync.Mutex
	merged := make([]RawEvent, 0, 16)
	succeeded := 0
	var wg sync.WaitGroup
	for _, src := range f.eventSources {
		if f.onCooldown(src.Name) {
			continue
		}
		wg.Add(1)
		go func(src EventSource) {
			defer wg.Done()
			callCtx, cancel := context.WithTimeout(ctx, f.cfg.ProviderTimeout)
			defer cancel()
			if err := f.limiter.Wait(callCtx, src.Class); err != nil {
				return
			}
			start := f.now()
			raws, err := src.Search(callCtx, store.Latitude, store.Longitude, f.radiusMiles, from, to)
			f.metrics.ObserveCall(src.Name, f.now().Sub(start), err)
			if err != nil {
				f.noteFailure(ctx, src.Name, src.Name, err)
				return
			}
			mu.Lock()
			succeeded++
			for _, r := range raws {
				if r.Capacity <= 0 {
					r.Capacity = defaultEventCapacity
				}
				r.Source = src.Name
				merged = append(merged, r)
			}
			mu.Unlock()
		}(src)
	}
	wg.Wait()

	// Empty results are only pinned for the 429 cool-down window. When no
	// source answered at all, leave the cache cold so the next request
	// retries instead of serving the failure for the full events TTL.
	if succeeded > 0 {
		f.cache.Set(key, merged)
	}
	return merged
}

// FetchHolidays returns the public holidays for one calendar year, cached
// long-term. Empty on any failure.
func (f *Fetcher) FetchHolidays(ctx context.Context, year int) []Holiday {
	key := holidaysKey(year, f.holidayCountry)
	if v, ok := f.cache.Get(key, f.cfg.HolidaysTTL); ok {
		f.metrics.IncCacheHit("holidays")
		return v.([]Holiday)
	}
	f.metrics.IncCacheMiss("holidays")
	if f.holidays == nil {
		f.warnUnconfigured(ctx, "holidays")
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, f.cfg.ProviderTimeout)
	defer cancel()
	if err := f.limiter.Wait(callCtx, ClassGeneral); err != nil {
		return nil
	}

	start := f.now()
	raw, err := f.holidays.PublicHolidays(callCtx, year, f.holidayCountry)
	f.metrics.ObserveCall("nager_date", f.now().Sub(start), err)
	if err != nil {
		f.noteFailure(ctx, key, "holidays", err)
		return nil
	}

	list := make([]Holiday, 0, len(raw))
	for _, h := range raw {
		list = append(list, Holiday{Name: h.Name, Date: h.Date})
	}
	f.cache.Set(key, list)
	return list
}

// FetchUpcomingHoliday returns the nearest public holiday within the default
// lookahead, in store-local terms. December also considers next year.
func (f *Fetcher) FetchUpcomingHoliday(ctx context.Context, store Store) *Holiday {
	localNow := LocalTime(f.now().UTC(), store.Timezone)
	list := f.FetchHolidays(ctx, localNow.Year())
	if localNow.Month() == time.December {
		list = append(list, f.FetchHolidays(ctx, localNow.Year()+1)...)
	}
	return NearestHoliday(list, localNow, holidayLookaheadDays)
}

// FetchBoostWeek computes (and caches) the boost-week signal for a store.
func (f *Fetcher) FetchBoostWeek(ctx context.Context, store Store) *BoostWeek {
	key := boostKey(store.ID)
	if v, ok := f.cache.Get(key, f.cfg.BoostWeekTTL); ok {
		f.metrics.IncCacheHit("boost_week")
		return v.(*BoostWeek)
	}
	f.metrics.IncCacheMiss("boost_week")

	localNow := LocalTime(f.now().UTC(), store.Timezone)
	boost := DetectBoostWeek(localNow, f.FetchHolidays(ctx, localNow.Year()))
	f.cache.Set(key, boost)
	return boost
}

func normalizeWeather(obs *weather.Observation) *WeatherSignal {
	condition := strings.TrimSpace(obs.Condition)
	return &WeatherSignal{
		TempF:     obs.TempF,
		Condition: condition,
		IsRaining: isRainingCondition(condition),
		IsSevere:  isSevereCondition(condition),
	}
}

func isRainingCondition(condition string) bool {
	switch strings.ToLower(condition) {
	case "rain", "drizzle", "thunderstorm":
		return true
	}
	return false
}

func isSevereCondition(condition string) bool {
	switch strings.ToLower(condition) {
	case "thunderstorm", "snow", "tornado", "squall", "hail":
		return true
	}
	return false
}

func normalizeTraffic(d *gmaps.RouteDurations) *TrafficSignal {
	delay := int((d.Traffic - d.FreeFlow).Minutes())
	if delay < 0 {
		delay = 0
	}
	severity := "light"
	switch {
	case delay > 20:
		severity = "severe"
	case delay > 10:
		severity = "moderate"
	}
	return &TrafficSignal{
		DelayMinutes:    delay,
		Severity:        severity,
		AffectsDelivery: delay > 10,
	}
}

// Cooldown entries keep a rate-limited provider idle for a short window.
// They live in the same cache under a scoped key.

func cooldownScope(scope string) string { return "cooldown_" + scope }

func (f *Fetcher) onCooldown(scope string) bool {
	_, ok := f.cache.Get(cooldownScope(scope), f.cfg.CooldownTTL)
	return ok
}

func (f *Fetcher) noteFailure(ctx context.Context, scope, signal string, err error) {
	sctx := f.logg.WithSignal(ctx, signal)
	if coded := pkgerrors.As(err); coded != nil && coded.Code() == pkgerrors.CodeRateLimit {
		f.cache.Set(cooldownScope(scope), struct{}{})
		f.logg.Warn(sctx, "provider rate limited, cooling down")
		return
	}
	f.logg.Warn(sctx, "signal fetch failed: "+err.Error())
}

// warnUnconfigured logs a missing provider once per signal type.
func (f *Fetcher) warnUnconfigured(ctx context.Context, signal string) {
	if _, seen := f.unconfigured.LoadOrStore(signal, struct{}{}); !seen {
		f.logg.Warn(f.logg.WithSignal(ctx, signal), "provider not configured, signal disabled")
	}
}
