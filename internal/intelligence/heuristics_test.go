package intelligence

import (
	"testing"
	"time"
)

func TestDetectCarryoutMatrix(t *testing.T) {
	cases := []struct {
		condition string
		discount  int
		active    bool
	}{
		{"Thunderstorm", 50, true},
		{"Snow", 50, true},
		{"Rain", 30, true},
		{"Drizzle", 30, true},
		{"Haze", 0, false},
		{"Clouds", 0, false},
		{"Clear", 0, false},
	}
	for _, tc := range cases {
		sig := &WeatherSignal{
			Condition: tc.condition,
			IsRaining: isRainingCondition(tc.condition),
			IsSevere:  isSevereCondition(tc.condition),
		}
		got := DetectCarryout(sig)
		if !tc.active {
			if got != nil {
				t.Fatalf("%s: expected no opportunity, got %+v", tc.condition, got)
			}
			continue
		}
		if got == nil || !got.IsActive {
			t.Fatalf("%s: expected active opportunity", tc.condition)
		}
		if got.Discount != tc.discount {
			t.Fatalf("%s: expected discount %d, got %d", tc.condition, tc.discount, got.Discount)
		}
	}
}

func TestDetectCarryoutNilSignal(t *testing.T) {
	if DetectCarryout(nil) != nil {
		t.Fatal("expected nil for missing weather")
	}
}

func TestDetectPreOrder(t *testing.T) {
	if got := DetectPreOrder(Event{Name: "Show", DaysUntilEvent: 1, Capacity: 20000}); got != nil {
		t.Fatalf("too close: expected nil, got %+v", got)
	}
	if got := DetectPreOrder(Event{Name: "Show", DaysUntilEvent: 4, Capacity: 5000}); got != nil {
		t.Fatalf("too small: expected nil, got %+v", got)
	}

	got := DetectPreOrder(Event{Name: "Show", DaysUntilEvent: 3, Capacity: 18000})
	if got == nil {
		t.Fatal("expected opportunity")
	}
	if got.Urgency != UrgencyHigh {
		t.Fatalf("expected HIGH urgency at 3 days, got %q", got.Urgency)
	}
	if got.TargetOrders != 180 {
		t.Fatalf("expected 180 target orders, got %d", got.TargetOrders)
	}

	if got := DetectPreOrder(Event{Name: "Show", DaysUntilEvent: 6, Capacity: 18000}); got == nil || got.Urgency != UrgencyMedium {
		t.Fatalf("expected MEDIUM urgency at 6 days, got %+v", got)
	}
}

func TestDetectBoostWeekHighConfidence(t *testing.T) {
	// Wednesday Nov 4 2026, week 1 of November, 10 days after an Oct 25
	// holiday: 30 + 20 + 25 + 5 = 80.
	localNow := time.Date(2026, 11, 4, 12, 0, 0, 0, time.UTC)
	yearHolidays := []Holiday{
		{Name: "Some Observance", Date: time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC)},
	}

	boost := DetectBoostWeek(localNow, yearHolidays)
	if boost.Confidence < 80 {
		t.Fatalf("expected confidence >= 80, got %d", boost.Confidence)
	}
	if !boost.IsHighProbabilityPeriod {
		t.Fatal("expected high-probability period")
	}
	if boost.Urgency != UrgencyHigh {
		t.Fatalf("expected HIGH urgency, got %q", boost.Urgency)
	}
}

func TestDetectBoostWeekQuietPeriod(t *testing.T) {
	// Monday mid-March, no recent holiday: nothing fires.
	localNow := time.Date(2026, 3, 16, 12, 0, 0, 0, time.UTC)
	boost := DetectBoostWeek(localNow, nil)
	if boost.Confidence != 0 {
		t.Fatalf("expected confidence 0, got %d", boost.Confidence)
	}
	if boost.IsHighProbabilityPeriod {
		t.Fatal("expected no high-probability period")
	}
}

func TestDetectSlowPeriodActive(t *testing.T) {
	sp := DetectSlowPeriod(10, false)
	if sp.Active == nil || sp.Active.Name != "morning" {
		t.Fatalf("expected active morning window, got %+v", sp.Active)
	}
	if len(sp.Recommendations) == 0 {
		t.Fatal("expected recommendations for the active window")
	}

	// 22:00 is late night on a weekday but not yet on a weekend.
	if sp := DetectSlowPeriod(22, false); sp.Active == nil || sp.Active.Name != "lateNight" {
		t.Fatalf("weekday 22:00: expected lateNight active, got %+v", sp.Active)
	}
	if sp := DetectSlowPeriod(22, true); sp.Active != nil {
		t.Fatalf("weekend 22:00: expected no active window, got %+v", sp.Active)
	}
}

func TestDetectSlowPeriodNext(t *testing.T) {
	sp := DetectSlowPeriod(12, false)
	if sp.Active != nil {
		t.Fatalf("expected no active window at noon, got %+v", sp.Active)
	}
	if sp.Next == nil || sp.Next.Name != "afternoon" {
		t.Fatalf("expected next afternoon window, got %+v", sp.Next)
	}
}

func TestNearestHoliday(t *testing.T) {
	localNow := time.Date(2026, 11, 20, 12, 0, 0, 0, time.UTC)
	list := []Holiday{
		{Name: "Thanksgiving Day", Date: time.Date(2026, 11, 26, 0, 0, 0, 0, time.UTC)},
		{Name: "Christmas Day", Date: time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC)},
	}

	got := NearestHoliday(list, localNow, 7)
	if got == nil {
		t.Fatal("expected a holiday within 7 days")
	}
	if got.Name != "Thanksgiving Day" {
		t.Fatalf("unexpected holiday %q", got.Name)
	}
	if got.DaysUntil != 6 {
		t.Fatalf("expected 6 days until, got %d", got.DaysUntil)
	}
	if got.ExpectedImpact != 50 {
		t.Fatalf("expected impact 50, got %d", got.ExpectedImpact)
	}

	if got := NearestHoliday(list, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), 7); got != nil {
		t.Fatalf("expected nil outside lookahead, got %+v", got)
	}
}
