package intelligence

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sliceops-ai/sliceops-backend/pkg/logger"
)

// Collector fans out the independent signal fetches for one insight request
// and joins them into an ExternalData bundle. Fetch failures surface as nil
// or empty fields, never as errors.
type Collector struct {
	fetcher *Fetcher
	logg    *logger.Logger
	now     func() time.Time
}

// NewCollector builds a collector around a fetcher.
func NewCollector(fetcher *Fetcher, logg *logger.Logger) (*Collector, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("collector requires a fetcher")
	}
	if logg == nil {
		return nil, fmt.Errorf("collector requires a logger")
	}
	return &Collector{fetcher: fetcher, logg: logg, now: time.Now}, nil
}

// Collect gathers every signal for the store. The concurrent branches each
// write a distinct field of the bundle; the holiday lookup runs after the
// join since it feeds nothing else.
func (c *Collector) Collect(ctx context.Context, store Store, sctx StoreContext) ExternalData {
	var data ExternalData
	var wg sync.WaitGroup

	run := func(name string, fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					c.logg.Warn(c.logg.WithSignal(ctx, name), fmt.Sprintf("signal branch panicked: %v", r))
				}
			}()
			fn()
		}()
	}

	run("weather", func() { data.Weather = c.fetcher.FetchWeather(ctx, store) })
	run("traffic", func() { data.Traffic = c.fetcher.FetchTraffic(ctx, store) })
	run("events", func() {
		raw := c.fetcher.FetchEvents(ctx, store)
		data.Events = BuildEvents(raw, c.now().UTC(), store)
	})
	run("boost_week", func() { data.BoostWeek = c.fetcher.FetchBoostWeek(ctx, store) })
	run("slow_period", func() { data.SlowPeriod = DetectSlowPeriod(sctx.Hour, sctx.IsWeekend) })
	wg.Wait()

	data.UpcomingHoliday = c.fetcher.FetchUpcomingHoliday(ctx, store)
	return data
}
