package intelligence

import (
	"encoding/json"
	"math"
	"strings"
)

// FallbackInsight is the canonical degraded response: well-formed, zero
// impact, safe to show a manager when every upstream signal failed.
func FallbackInsight() Insight {
	return Insight{
		Insight:  "Operations look normal. Keep standard staffing and monitor order flow.",
		Severity: SeverityInfo,
		Metrics: InsightMetrics{
			ExpectedOrderIncrease:   0,
			RecommendedExtraDrivers: 0,
			PrimaryReason:           "no external signals available",
		},
		Action: "Maintain current staffing levels.",
	}
}

// ParseInsight coerces a raw completion response into a well-formed Insight.
// Every field is clamped or defaulted; a response that cannot be parsed at
// all becomes the fallback.
func ParseInsight(raw string, phase string) Insight {
	var payload struct {
		Insight  string `json:"insight"`
		Severity string `json:"severity"`
		Metrics  struct {
			ExpectedOrderIncrease   float64 `json:"expectedOrderIncrease"`
			RecommendedExtraDrivers float64 `json:"recommendedExtraDrivers"`
			PrimaryReason           string  `json:"primaryReason"`
		} `json:"metrics"`
		Action   string `json:"action"`
		Carryout *struct {
			Discount float64 `json:"discount"`
			Message  string  `json:"message"`
		} `json:"carryoutPromotion"`
		PreOrder *struct {
			EventName    string  `json:"eventName"`
			Urgency      string  `json:"urgency"`
			TargetOrders float64 `json:"targetOrders"`
		} `json:"preOrderCampaign"`
	}

	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return FallbackInsight()
	}
	if strings.TrimSpace(payload.Insight) == "" {
		return FallbackInsight()
	}

	limit := insightCharCap(phase)
	out := Insight{
		Insight:  truncateRunes(strings.TrimSpace(payload.Insight), limit),
		Severity: normalizeSeverity(payload.Severity),
		Metrics: InsightMetrics{
			ExpectedOrderIncrease:   clampInt(payload.Metrics.ExpectedOrderIncrease, 0, 100),
			RecommendedExtraDrivers: clampInt(payload.Metrics.RecommendedExtraDrivers, 0, 10),
			PrimaryReason:           truncateRunes(strings.TrimSpace(payload.Metrics.PrimaryReason), 120),
		},
		Action: truncateRunes(strings.TrimSpace(payload.Action), limit),
	}

	if c := payload.Carryout; c != nil && c.Discount > 0 && c.Discount <= 100 && strings.TrimSpace(c.Message) != "" {
		out.Carryout = &CarryoutPromotion{
			Discount: clampInt(c.Discount, 0, 100),
			Message:  truncateRunes(strings.TrimSpace(c.Message), 160),
		}
	}
	if p := payload.PreOrder; p != nil && strings.TrimSpace(p.EventName) != "" && p.TargetOrders >= 0 {
		out.PreOrder = &PreOrderCampaign{
			EventName:    truncateRunes(strings.TrimSpace(p.EventName), 120),
			Urgency:      normalizeUrgency(p.Urgency),
			TargetOrders: clampInt(p.TargetOrders, 0, math.MaxInt32),
		}
	}
	return out
}

func normalizeSeverity(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case SeverityWarning:
		return SeverityWarning
	case SeverityCritical, "high":
		// Models often say "high" for the top tier.
		return SeverityCritical
	default:
		return SeverityInfo
	}
}

func normalizeUrgency(s string) string {
	if strings.EqualFold(strings.TrimSpace(s), UrgencyHigh) {
		return UrgencyHigh
	}
	return UrgencyMedium
}

// clampInt floors a JSON number into [min, max].
func clampInt(v float64, min, max int) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return min
	}
	n := int(math.Floor(v))
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}
