package intelligence

import (
	"math"
	"strings"
	"time"
)

// Urgency labels shared by the pre-order and boost-week detectors.
const (
	UrgencyHigh   = "HIGH"
	UrgencyMedium = "MEDIUM"
)

// DetectCarryout derives a carryout discount opportunity from weather.
// Severe weather outranks plain rain; mild conditions never trigger.
func DetectCarryout(sig *WeatherSignal) *CarryoutOpportunity {
	if sig == nil {
		return nil
	}
	if sig.IsSevere {
		return &CarryoutOpportunity{
			IsActive: true,
			Discount: 50,
			Message:  "Severe weather outside. Skip the delivery wait: 50% off carryout orders.",
			Reason:   "severe_weather",
		}
	}
	if sig.IsRaining {
		return &CarryoutOpportunity{
			IsActive: true,
			Discount: 30,
			Message:  "Rainy day special: 30% off carryout orders.",
			Reason:   "rain",
		}
	}
	return nil
}

// DetectPreOrder flags events far enough out to run an early-order campaign
// but close enough to matter.
func DetectPreOrder(ev Event) *PreOrderOpportunity {
	if ev.DaysUntilEvent < 2 || ev.DaysUntilEvent > 7 || ev.Capacity <= 5000 {
		return nil
	}
	urgency := UrgencyMedium
	if ev.DaysUntilEvent <= 3 {
		urgency = UrgencyHigh
	}
	return &PreOrderOpportunity{
		EventName:    ev.Name,
		DaysUntil:    ev.DaysUntilEvent,
		Urgency:      urgency,
		TargetOrders: int(math.Floor(float64(ev.Capacity) * 0.01)),
	}
}

// Months with historically strong promotional weeks, and which week of the
// month carried the lift.
var boostMonthWeeks = map[time.Month]int{
	time.January:  2,
	time.April:    3,
	time.August:   4,
	time.November: 1,
}

// DetectBoostWeek scores how strongly the current local date matches the
// historical profile of a high-order promotional week. Confidence is built
// additively from independent signals.
func DetectBoostWeek(localNow time.Time, yearHolidays []Holiday) *BoostWeek {
	confidence := 0
	reasons := make([]string, 0, 4)

	if days, ok := daysSinceLastHoliday(localNow, yearHolidays); ok && days >= 5 && days <= 14 {
		confidence += 30
		reasons = append(reasons, "post-holiday recovery window")
	}

	month := localNow.Month()
	if week, ok := boostMonthWeeks[month]; ok {
		confidence += 20
		reasons = append(reasons, "historically strong month")
		if weekOfMonth(localNow) == week {
			confidence += 25
			reasons = append(reasons, "historical peak week of month")
		}
	}

	switch localNow.Weekday() {
	case time.Tuesday, time.Wednesday, time.Thursday:
		confidence += 5
		reasons = append(reasons, "midweek promo day")
	}

	urgency := UrgencyMedium
	if confidence > 70 {
		urgency = UrgencyHigh
	}
	return &BoostWeek{
		IsHighProbabilityPeriod: confidence > 50,
		Confidence:              confidence,
		Urgency:                 urgency,
		Reasons:                 reasons,
	}
}

func daysSinceLastHoliday(localNow time.Time, yearHolidays []Holiday) (int, bool) {
	best := -1
	for _, h := range yearHolidays {
		days := localCalendarDays(h.Date, localNow)
		if days < 0 {
			continue
		}
		if best == -1 || days < best {
			best = days
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}

func weekOfMonth(t time.Time) int {
	return (t.Day()-1)/7 + 1
}

// Slow-window tables. Late night shifts an hour later on weekends.

func slowWindows(weekend bool) []SlowWindow {
	lateStart := 22
	if weekend {
		lateStart = 23
	}
	return []SlowWindow{
		{Name: "morning", StartHour: 9, EndHour: 11, ImpactPct: -40, Confidence: "high"},
		{Name: "afternoon", StartHour: 14, EndHour: 16, ImpactPct: -30, Confidence: "high"},
		{Name: "lateNight", StartHour: lateStart, EndHour: 24, ImpactPct: -50, Confidence: "medium"},
	}
}

var slowRecommendations = map[string][]string{
	"morning": {
		"Run a lunch pre-order push before 11am",
		"Schedule prep work and deep cleaning now",
	},
	"afternoon": {
		"Promote early-dinner carryout deals",
		"Send drivers on supply runs while volume is low",
	},
	"lateNight": {
		"Reduce to minimum staffing",
		"Target late-night delivery ads to nearby campuses",
	},
}

// DetectSlowPeriod reports the currently active slow window, or the next
// upcoming one when nothing is active, from the store-local hour.
func DetectSlowPeriod(localHour int, weekend bool) *SlowPeriod {
	windows := slowWindows(weekend)

	for i := range windows {
		w := windows[i]
		last := w.EndHour
		if last == 24 {
			last = 23
		}
		if localHour >= w.StartHour && localHour <= last {
			return &SlowPeriod{
				Active:          &windows[i],
				Recommendations: slowRecommendations[w.Name],
			}
		}
	}

	// Nothing active: find the next window today, wrapping to tomorrow's
	// first window after late night.
	var next *SlowWindow
	for i := range windows {
		if windows[i].StartHour > localHour {
			next = &windows[i]
			break
		}
	}
	if next == nil {
		next = &windows[0]
	}
	return &SlowPeriod{Next: next}
}

// Holiday names bucketed by their expected effect on order volume.
var (
	highImpactHolidays   = []string{"thanksgiving", "new year", "independence"}
	mediumImpactHolidays = []string{"memorial", "labor", "labour", "veterans", "christmas"}
)

// NearestHoliday selects the closest holiday within daysAhead local days and
// attaches its expected impact. Nil when nothing qualifies.
func NearestHoliday(list []Holiday, localNow time.Time, daysAhead int) *Holiday {
	var best *Holiday
	for i := range list {
		days := localCalendarDays(localNow, list[i].Date)
		if days < 0 || days > daysAhead {
			continue
		}
		if best == nil || days < best.DaysUntil {
			h := list[i]
			h.DaysUntil = days
			h.ExpectedImpact = holidayImpact(h.Name)
			best = &h
		}
	}
	return best
}

func holidayImpact(name string) int {
	lower := strings.ToLower(name)
	for _, m := range highImpactHolidays {
		if strings.Contains(lower, m) {
			return 50
		}
	}
	for _, m := range mediumImpactHolidays {
		if strings.Contains(lower, m) {
			return 35
		}
	}
	return 20
}
