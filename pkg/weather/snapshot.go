// Package weather provides short-lived weather risk signals for a farm
// coordinate. It is deliberately not forecast modeling: it fetches one
// reading, runs a fixed rule table over it, and caches the result for a
// bounded time so repeated advisory requests do not hammer the upstream API.
package weather

import "strings"

// Snapshot is a single fetched-or-fallback weather reading. Numeric fields
// are nil when live data is missing; Summary is always non-empty and
// human-readable regardless.
type Snapshot struct {
	Humidity       *float64
	TempC          *float64
	RainLastHourMM *float64
	RainNextHourMM *float64
	Summary        string
}

const (
	noConfigSummary    = "No live weather data. Assume normal humidity and typical temperature."
	unavailableSummary = "Weather service unavailable. Assume normal humidity and temperature."
	neutralSummary     = "No major immediate stress indicators from weather."
)

// riskRules is evaluated in declaration order; every matching rule
// contributes its message to the summary.
var riskRules = []struct {
	match   func(Snapshot) bool
	message string
}{
	{
		func(s Snapshot) bool { return s.Humidity != nil && *s.Humidity >= 80 },
		"High humidity can increase fungal disease risk.",
	},
	{
		func(s Snapshot) bool { return s.TempC != nil && *s.TempC >= 32 },
		"High heat can stress plants and burn leaves if sprayed mid-day.",
	},
	{
		func(s Snapshot) bool { return s.TempC != nil && *s.TempC <= 10 },
		"Low temperature can slow nutrient uptake.",
	},
	{
		func(s Snapshot) bool { return s.RainLastHourMM != nil && *s.RainLastHourMM > 0.1 },
		"It recently rained, leaves may be wet.",
	},
	{
		func(s Snapshot) bool { return s.RainNextHourMM != nil && *s.RainNextHourMM > 0.1 },
		"More rain likely soon, sprays may wash off.",
	},
}

// AssessRisks returns the messages of all matching risk rules in fixed rule
// order. The slice is empty when no rule fires.
func AssessRisks(s Snapshot) []string {
	var risks []string
	for _, rule := range riskRules {
		if rule.match(s) {
			risks = append(risks, rule.message)
		}
	}
	return risks
}

// Summarize builds the agronomy-friendly summary line for a snapshot. When
// no risk rule fires it returns a single neutral message, never an empty
// string.
func Summarize(s Snapshot) string {
	risks := AssessRisks(s)
	if len(risks) == 0 {
		return neutralSummary
	}
	return strings.Join(risks, " ")
}
