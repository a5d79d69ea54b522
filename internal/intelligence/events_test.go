package intelligence

import (
	"testing"
	"time"
)

const pacific = "GMT-07:00"

func TestDedupKeepsLargerCapacity(t *testing.T) {
	// Same venue (case differs), same local date, start times in the same
	// 2-hour bucket: one survivor with the larger capacity estimate.
	raw := []RawEvent{
		{Name: "Concert A", Venue: "Staples Center", Date: time.Date(2024, 5, 2, 2, 0, 0, 0, time.UTC), Capacity: 18000},
		{Name: "Concert A", Venue: "staples center", Date: time.Date(2024, 5, 2, 2, 45, 0, 0, time.UTC), Capacity: 19500},
	}
	deduped := dedupeRawEvents(raw, pacific)
	if len(deduped) != 1 {
		t.Fatalf("expected 1 event after dedup, got %d", len(deduped))
	}
	if deduped[0].Capacity != 19500 {
		t.Fatalf("expected capacity 19500 to survive, got %d", deduped[0].Capacity)
	}
}

func TestDedupKeepsDistinctBuckets(t *testing.T) {
	raw := []RawEvent{
		{Venue: "Staples Center", Date: time.Date(2024, 5, 2, 2, 0, 0, 0, time.UTC), Capacity: 18000},
		// Local 22:00, a different 2-hour bucket than local 19:00.
		{Venue: "Staples Center", Date: time.Date(2024, 5, 2, 5, 0, 0, 0, time.UTC), Capacity: 12000},
	}
	if got := len(dedupeRawEvents(raw, pacific)); got != 2 {
		t.Fatalf("expected 2 events, got %d", got)
	}
}

func TestIsTodayUsesStoreLocalDay(t *testing.T) {
	// Event at 06:00Z is 23:00 the previous local day for a GMT-07:00 store.
	eventUTC := time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)

	// Local now 22:00 Apr 30: same local day as the event.
	now := time.Date(2024, 5, 1, 5, 0, 0, 0, time.UTC)
	if !SameLocalDay(now, eventUTC, pacific) {
		t.Fatal("expected event to be today in store-local terms")
	}

	// Local now 11:00 May 1: the event was yesterday locally even though
	// both instants share the UTC calendar date.
	now = time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)
	if SameLocalDay(now, eventUTC, pacific) {
		t.Fatal("expected event to be the prior local day")
	}
}

func TestScoreImpactTiersAndBonuses(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	// 20k capacity (+0.6), within 24h (+0.2), local hour 19 (+0.3),
	// Wednesday (no weekend bonus): clamped to 1.0.
	big := RawEvent{Capacity: 20000, Date: time.Date(2024, 5, 2, 2, 0, 0, 0, time.UTC)}
	if got := scoreImpact(big, now, pacific); got != 1.0 {
		t.Fatalf("expected impact 1.0, got %v", got)
	}

	// 1.2k capacity days out, local midday midweek: tier only.
	small := RawEvent{Capacity: 1200, Date: time.Date(2024, 5, 6, 19, 0, 0, 0, time.UTC)}
	if got := scoreImpact(small, now, pacific); got != 0.1 {
		t.Fatalf("expected impact 0.1, got %v", got)
	}
}

func TestBuildEventsSelection(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store := Store{ID: "s1", Timezone: pacific}

	raw := []RawEvent{
		// Low impact, not today: dropped.
		{Name: "Tiny Meetup", Venue: "Cafe", Date: time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC), Capacity: 1200},
		// Today, low capacity: kept because isToday.
		{Name: "Farmers Market", Venue: "Plaza", Date: time.Date(2024, 5, 1, 16, 0, 0, 0, time.UTC), Capacity: 1200},
		// Big prime-time event later in the week: kept on impact.
		{Name: "Arena Show", Venue: "Arena", Date: time.Date(2024, 5, 4, 2, 30, 0, 0, time.UTC), Capacity: 19000},
	}
	events := BuildEvents(raw, now, store)
	if len(events) != 2 {
		t.Fatalf("expected 2 selected events, got %d", len(events))
	}
	if events[0].Name != "Farmers Market" {
		t.Fatalf("expected date-ascending order, got %q first", events[0].Name)
	}
	if !events[0].IsToday {
		t.Fatal("expected first event to be today")
	}
}

func TestStaffingWindows(t *testing.T) {
	date := time.Date(2024, 5, 4, 2, 30, 0, 0, time.UTC)
	pre, post := staffingWindows(date, 19000)

	if pre.ExpectedOrders != 95 {
		t.Fatalf("expected 95 pre-event orders, got %d", pre.ExpectedOrders)
	}
	if pre.DriversNeeded != 5 {
		t.Fatalf("expected 5 pre-event drivers, got %d", pre.DriversNeeded)
	}
	if !pre.Start.Equal(date.Add(-3 * time.Hour)) {
		t.Fatalf("unexpected pre-window start %v", pre.Start)
	}
	if !pre.End.Equal(date.Add(-30 * time.Minute)) {
		t.Fatalf("unexpected pre-window end %v", pre.End)
	}

	if post.ExpectedOrders != 190 {
		t.Fatalf("expected 190 post-event orders, got %d", post.ExpectedOrders)
	}
	if post.DriversNeeded != 13 {
		t.Fatalf("expected 13 post-event drivers, got %d", post.DriversNeeded)
	}
	if post.PeakTime == nil || !post.PeakTime.Equal(date.Add(45*time.Minute)) {
		t.Fatalf("unexpected post-window peak %v", post.PeakTime)
	}
}
