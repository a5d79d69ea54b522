package intelligence

import (
	"regexp"
	"strconv"
	"time"
)

// Store directories report timezones as fixed offset strings, not IANA
// names, so all local-time math here is plain offset arithmetic:
// localInstant = UTC + offsetMinutes. Clock fields are always read off the
// shifted instant in UTC so the host timezone never leaks in.

const defaultOffsetMinutes = -480 // Pacific Standard

var offsetRe = regexp.MustCompile(`^GMT([+-])(\d{2}):(\d{2})$`)

// ParseOffsetMinutes parses a GMT[+-]HH:MM offset string into minutes.
// Unparseable input falls back to Pacific Standard.
func ParseOffsetMinutes(offset string) int {
	m := offsetRe.FindStringSubmatch(offset)
	if m == nil {
		return defaultOffsetMinutes
	}
	hours, _ := strconv.Atoi(m[2])
	minutes, _ := strconv.Atoi(m[3])
	total := hours*60 + minutes
	if m[1] == "-" {
		total = -total
	}
	return total
}

// LocalTime shifts a UTC instant into the store's wall clock. The returned
// time has a UTC location; its clock fields are the store-local fields.
func LocalTime(nowUTC time.Time, offset string) time.Time {
	minutes := ParseOffsetMinutes(offset)
	return nowUTC.In(time.UTC).Add(time.Duration(minutes) * time.Minute)
}

// SameLocalDay reports whether two UTC instants fall on the same calendar
// day in the store's timezone.
func SameLocalDay(aUTC, bUTC time.Time, offset string) bool {
	a := LocalTime(aUTC, offset)
	b := LocalTime(bUTC, offset)
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// IsPeakHour reports whether the local hour is in the dinner rush.
func IsPeakHour(hour int) bool {
	return hour >= 17 && hour <= 20
}

// IsLateNight reports whether the local hour is in the late-night window.
func IsLateNight(hour int) bool {
	return hour >= 22 || hour < 2
}

// IsSlowHour reports whether the local hour sits in a historically slow
// window for the given day of week.
func IsSlowHour(hour int, day time.Weekday) bool {
	weekend := day == time.Saturday || day == time.Sunday
	if hour >= 9 && hour <= 11 {
		return true
	}
	if hour >= 14 && hour <= 16 {
		return true
	}
	if weekend {
		return hour >= 23
	}
	return hour >= 22
}

// NewStoreContext derives the per-request local-time view for a store.
func NewStoreContext(nowUTC time.Time, store Store, classification Classification) StoreContext {
	local := LocalTime(nowUTC, store.Timezone)
	hour := local.Hour()
	day := local.Weekday()
	return StoreContext{
		Classification: classification,
		LocalTime:      local,
		Hour:           hour,
		DayOfWeek:      day,
		IsWeekend:      day == time.Saturday || day == time.Sunday,
		IsPeakTime:     IsPeakHour(hour),
		IsLateNight:    IsLateNight(hour),
		IsSlowPeriod:   IsSlowHour(hour, day),
	}
}
