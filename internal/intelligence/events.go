package intelligence

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

const (
	defaultEventCapacity = 5000
	holidayLookaheadDays = 7
	maxSelectedEvents    = 10
	minSelectedImpact    = 0.3
)

// BuildEvents turns raw provider listings into scored, deduplicated,
// selected events. All time-dependent fields are computed against nowUTC in
// the store's local frame, so callers must not cache the result.
func BuildEvents(raw []RawEvent, nowUTC time.Time, store Store) []Event {
	deduped := dedupeRawEvents(raw, store.Timezone)

	events := make([]Event, 0, len(deduped))
	for _, r := range deduped {
		events = append(events, buildEvent(r, nowUTC, store.Timezone))
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})

	selected := make([]Event, 0, maxSelectedEvents)
	for _, ev := range events {
		if ev.Impact < minSelectedImpact && !ev.IsToday {
			continue
		}
		selected = append(selected, ev)
		if len(selected) == maxSelectedEvents {
			break
		}
	}
	return selected
}

// dedupeRawEvents collapses listings of the same event reported by multiple
// providers: same venue (case-insensitive), same store-local calendar date,
// start times in the same 2-hour bucket. The larger capacity estimate wins.
func dedupeRawEvents(raw []RawEvent, offset string) []RawEvent {
	type slot struct {
		index int
	}
	seen := make(map[string]slot, len(raw))
	out := make([]RawEvent, 0, len(raw))
	for _, r := range raw {
		local := LocalTime(r.Date, offset)
		key := fmt.Sprintf("%s|%s|%d",
			strings.ToLower(strings.TrimSpace(r.Venue)),
			local.Format("2006-01-02"),
			local.Hour()/2,
		)
		if s, ok := seen[key]; ok {
			if r.Capacity > out[s.index].Capacity {
				out[s.index] = r
			}
			continue
		}
		seen[key] = slot{index: len(out)}
		out = append(out, r)
	}
	return out
}

func buildEvent(r RawEvent, nowUTC time.Time, offset string) Event {
	localEvent := LocalTime(r.Date, offset)
	localNow := LocalTime(nowUTC, offset)

	hoursUntil := r.Date.Sub(nowUTC).Hours()
	daysUntil := localCalendarDays(localNow, localEvent)
	isToday := SameLocalDay(nowUTC, r.Date, offset)

	ev := Event{
		Name:            r.Name,
		Venue:           r.Venue,
		Date:            r.Date.UTC(),
		Capacity:        r.Capacity,
		Type:            r.Type,
		Source:          r.Source,
		Impact:          scoreImpact(r, nowUTC, offset),
		HoursUntilEvent: hoursUntil,
		DaysUntilEvent:  daysUntil,
		IsToday:         isToday,
		IsPastToday:     isToday && r.Date.Before(nowUTC),
	}
	ev.PreEventWindow, ev.PostEventWindow = staffingWindows(r.Date, r.Capacity)
	ev.PreOrder = DetectPreOrder(ev)
	return ev
}

// scoreImpact estimates an event's effect on order volume in [0,1].
func scoreImpact(r RawEvent, nowUTC time.Time, offset string) float64 {
	var impact float64
	switch {
	case r.Capacity >= 20000:
		impact = 0.6
	case r.Capacity >= 10000:
		impact = 0.4
	case r.Capacity >= 5000:
		impact = 0.2
	case r.Capacity >= 1000:
		impact = 0.1
	}

	if diff := r.Date.Sub(nowUTC); diff >= 0 && diff < 24*time.Hour {
		impact += 0.2
	}

	local := LocalTime(r.Date, offset)
	if h := local.Hour(); h >= 17 && h <= 21 {
		impact += 0.3
	}
	if d := local.Weekday(); d == time.Friday || d == time.Saturday {
		impact += 0.1
	}

	return math.Min(1, math.Max(0, impact))
}

// staffingWindows derives the pre- and post-event staffing recommendations.
// Pre-event covers the arrival surge; post-event covers the exit surge with
// its peak 45 minutes after doors.
func staffingWindows(date time.Time, capacity int) (*StaffingWindow, *StaffingWindow) {
	preOrders := int(math.Floor(float64(capacity) * 0.005))
	postOrders := int(math.Floor(float64(capacity) * 0.01))
	peak := date.Add(45 * time.Minute)

	pre := &StaffingWindow{
		Start:          date.Add(-3 * time.Hour),
		End:            date.Add(-30 * time.Minute),
		ExpectedOrders: preOrders,
		DriversNeeded:  int(math.Ceil(float64(preOrders) / 20)),
	}
	post := &StaffingWindow{
		Start:          date,
		End:            date.Add(2 * time.Hour),
		PeakTime:       &peak,
		ExpectedOrders: postOrders,
		DriversNeeded:  int(math.Ceil(float64(postOrders) / 15)),
	}
	return pre, post
}

// localCalendarDays counts whole local calendar days from a to b. Both
// arguments must already be in the same local frame.
func localCalendarDays(a, b time.Time) int {
	am := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bm := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bm.Sub(am).Hours() / 24)
}
