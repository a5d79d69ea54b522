package intelligence

import (
	"time"

	"github.com/shopspring/decimal"
)

// Store is the normalized projection of a location that the engine reads.
// It is immutable for the duration of one insight request.
type Store struct {
	ID        string
	Name      string
	City      string
	State     string
	Latitude  float64
	Longitude float64

	// Timezone is a fixed offset string in GMT[+-]HH:MM form.
	Timezone string

	Online       bool
	ForceOffline bool

	CashLimit      decimal.Decimal
	DeliveryFee    decimal.Decimal
	MinimumOrder   decimal.Decimal
	EstWaitMinutes int
}

// Classification buckets a store by its surrounding geography.
type Classification struct {
	Type    string `json:"type"`
	SubType string `json:"subType"`
}

// StoreContext is the derived per-request view of a store: classification
// plus store-local time facts. Never persisted beyond the classification.
type StoreContext struct {
	Classification Classification
	LocalTime      time.Time
	Hour           int
	DayOfWeek      time.Weekday
	IsWeekend      bool
	IsPeakTime     bool
	IsLateNight    bool
	IsSlowPeriod   bool
}

// WeatherSignal is the normalized weather snapshot near a store.
type WeatherSignal struct {
	TempF     float64
	Condition string
	IsRaining bool
	IsSevere  bool

	Carryout *CarryoutOpportunity
}

// TrafficSignal summarizes current delay on a short route near the store.
type TrafficSignal struct {
	DelayMinutes    int
	Severity        string
	AffectsDelivery bool
}

// StaffingWindow is a pre- or post-event staffing recommendation.
type StaffingWindow struct {
	Start          time.Time
	End            time.Time
	PeakTime       *time.Time
	ExpectedOrders int
	DriversNeeded  int
}

// Event is one merged, scored event listing near a store. Date is UTC;
// IsToday and the windows are computed against the store's local day.
type Event struct {
	Name     string
	Venue    string
	Date     time.Time
	Capacity int
	Type     string
	Source   string

	Impact          float64
	HoursUntilEvent float64
	DaysUntilEvent  int
	IsToday         bool
	IsPastToday     bool

	PreEventWindow  *StaffingWindow
	PostEventWindow *StaffingWindow
	PreOrder        *PreOrderOpportunity
}

// Holiday is an upcoming public holiday with its expected order impact.
type Holiday struct {
	Name           string
	Date           time.Time
	DaysUntil      int
	ExpectedImpact int
}

// CarryoutOpportunity is a weather-triggered carryout discount suggestion.
type CarryoutOpportunity struct {
	IsActive bool   `json:"isActive"`
	Discount int    `json:"discount"`
	Message  string `json:"message"`
	Reason   string `json:"reason"`
}

// PreOrderOpportunity flags a multi-day-out event worth an early campaign.
type PreOrderOpportunity struct {
	EventName    string `json:"eventName"`
	DaysUntil    int    `json:"daysUntil"`
	Urgency      string `json:"urgency"`
	TargetOrders int    `json:"targetOrders"`
}

// BoostWeek is the historical high-probability promotional period signal.
type BoostWeek struct {
	IsHighProbabilityPeriod bool
	Confidence              int
	Urgency                 string
	Reasons                 []string
}

// SlowWindow is one named low-volume window of the day.
type SlowWindow struct {
	Name       string
	StartHour  int
	EndHour    int
	ImpactPct  int
	Confidence string
}

// SlowPeriod reports the currently active slow window, or the next one
// coming up, with operational recommendations.
type SlowPeriod struct {
	Active          *SlowWindow
	Next            *SlowWindow
	Recommendations []string
}

// ExternalData is the merged signal bundle for one store at one instant.
// Every field is independently nullable; absence means the fetch failed or
// the provider is not configured.
type ExternalData struct {
	Weather         *WeatherSignal
	Traffic         *TrafficSignal
	Events          []Event
	BoostWeek       *BoostWeek
	SlowPeriod      *SlowPeriod
	UpcomingHoliday *Holiday
}

// InsightMetrics carries the numeric estimates attached to an insight.
type InsightMetrics struct {
	ExpectedOrderIncrease   int    `json:"expectedOrderIncrease"`
	RecommendedExtraDrivers int    `json:"recommendedExtraDrivers"`
	PrimaryReason           string `json:"primaryReason"`
}

// Severity levels an insight can carry.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// CarryoutPromotion is the validated promotion block of an insight.
type CarryoutPromotion struct {
	Discount int    `json:"discount"`
	Message  string `json:"message"`
}

// PreOrderCampaign is the validated pre-order block of an insight.
type PreOrderCampaign struct {
	EventName    string `json:"eventName"`
	Urgency      string `json:"urgency"`
	TargetOrders int    `json:"targetOrders"`
}

// Insight is the validated, clamped response returned to callers. It is
// produced fresh per request and never cached.
type Insight struct {
	Insight  string             `json:"insight"`
	Severity string             `json:"severity"`
	Metrics  InsightMetrics     `json:"metrics"`
	Action   string             `json:"action"`
	Carryout *CarryoutPromotion `json:"carryoutPromotion,omitempty"`
	PreOrder *PreOrderCampaign  `json:"preOrderCampaign,omitempty"`
}
