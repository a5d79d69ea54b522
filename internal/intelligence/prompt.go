package intelligence

import (
	"fmt"
	"strings"
)

// Shift phases keyed off the store-local hour. The phase picks the system
// instruction and the insight length cap.
const (
	PhaseMorning   = "morning"
	PhaseLunch     = "lunch"
	PhaseAfternoon = "afternoon"
	PhaseEvening   = "evening"
	PhaseLateNight = "late-night"
)

const maxPromptChars = 1200

// ShiftPhase maps a local hour onto the operational shift phase.
func ShiftPhase(hour int) string {
	switch {
	case hour >= 5 && hour < 11:
		return PhaseMorning
	case hour >= 11 && hour < 14:
		return PhaseLunch
	case hour >= 14 && hour < 17:
		return PhaseAfternoon
	case hour >= 17 && hour < 22:
		return PhaseEvening
	default:
		return PhaseLateNight
	}
}

// insightCharCap bounds the insight text per phase. Rush phases get shorter
// guidance a manager can read at a glance.
func insightCharCap(phase string) int {
	switch phase {
	case PhaseLunch, PhaseEvening:
		return 160
	case PhaseLateNight:
		return 200
	default:
		return 240
	}
}

var phaseFocus = map[string]string{
	PhaseMorning:   "Focus on prep, lunch readiness, and pre-order pushes.",
	PhaseLunch:     "Focus on throughput and delivery times during the lunch rush.",
	PhaseAfternoon: "Focus on early-dinner promos and staffing up for the evening.",
	PhaseEvening:   "Focus on the dinner rush: driver coverage and order flow.",
	PhaseLateNight: "Focus on minimum staffing, close-down, and late-night demand pockets.",
}

// BuildPrompt renders the system instruction and the bounded user prompt for
// the completion call. Only present signals are rendered; absent ones leave
// no trace, so the model cannot be led to invent them.
func BuildPrompt(store Store, data ExternalData, sctx StoreContext) (system, user string) {
	phase := ShiftPhase(sctx.Hour)

	var sys strings.Builder
	sys.WriteString("You are an operations analyst for a pizza store. ")
	sys.WriteString(phaseFocus[phase])
	sys.WriteString(" Respond with a single JSON object with fields: insight (string), severity (info|warning|critical), metrics {expectedOrderIncrease (0-100), recommendedExtraDrivers (0-10), primaryReason}, action (string), and optionally carryoutPromotion {discount, message} and preOrderCampaign {eventName, urgency, targetOrders}.")
	sys.WriteString(" Never suggest a weather promotion unless a carryout opportunity is listed in the data, and never invent a discount value: use exactly the discount given or omit carryoutPromotion entirely.")

	var b strings.Builder
	fmt.Fprintf(&b, "Store: %s (%s, %s), %s/%s area.\n", store.Name, store.City, store.State, sctx.Classification.Type, sctx.Classification.SubType)
	fmt.Fprintf(&b, "Local time: %s (%s shift).\n", sctx.LocalTime.Format("Mon Jan 2 15:04"), phase)

	if w := data.Weather; w != nil {
		fmt.Fprintf(&b, "Weather: %.0fF, %s.\n", w.TempF, w.Condition)
		if w.Carryout != nil {
			fmt.Fprintf(&b, "Carryout opportunity active: %d%% off (%s).\n", w.Carryout.Discount, w.Carryout.Reason)
		}
	}
	if t := data.Traffic; t != nil {
		fmt.Fprintf(&b, "Traffic: %d min delay, %s", t.DelayMinutes, t.Severity)
		if t.AffectsDelivery {
			b.WriteString(", delivery times affected")
		}
		b.WriteString(".\n")
	}
	for i, ev := range data.Events {
		if i == 3 {
			break
		}
		local := LocalTime(ev.Date, store.Timezone)
		fmt.Fprintf(&b, "Event: %s at %s, %s local, ~%d capacity, impact %.1f", ev.Name, ev.Venue, local.Format("Mon 15:04"), ev.Capacity, ev.Impact)
		if ev.IsToday {
			b.WriteString(", today")
		}
		b.WriteString(".\n")
	}
	if bw := data.BoostWeek; bw != nil && bw.IsHighProbabilityPeriod {
		fmt.Fprintf(&b, "Boost week: confidence %d, urgency %s (%s).\n", bw.Confidence, bw.Urgency, strings.Join(bw.Reasons, "; "))
	}
	if sp := data.SlowPeriod; sp != nil && sp.Active != nil {
		fmt.Fprintf(&b, "Slow period active: %s (%d%% volume).\n", sp.Active.Name, sp.Active.ImpactPct)
	}
	if h := data.UpcomingHoliday; h != nil {
		fmt.Fprintf(&b, "Holiday in %d days: %s (expected +%d%% orders).\n", h.DaysUntil, h.Name, h.ExpectedImpact)
	}
	fmt.Fprintf(&b, "Keep the insight under %d characters.", insightCharCap(phase))

	return sys.String(), truncateRunes(b.String(), maxPromptChars)
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
