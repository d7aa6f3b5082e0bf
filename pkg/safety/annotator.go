// Package safety post-processes raw advisory text: it detects chemical
// mentions and hedging language, derives an escalation level, and appends
// fixed advisory blocks before the text reaches the farmer.
package safety

import "strings"

var pesticideKeywords = []string{
	"spray", "fungicide", "insecticide", "pesticide", "treat with",
	"apply chemical", "copper", "neem", "imidacloprid", "pyrethrin",
}

var hedgePhrases = []string{
	"not sure", "could be", "might be", "possibly",
	"unclear", "cannot confirm", "looks similar to",
	"resembles", "possibly indicates",
}

var highSeverityKeywords = []string{
	"severe", "widespread", "blighting", "wilting widely",
	"heavy infestation", "complete loss", "should see agronomist",
	"definitely consult", "serious concern",
}

const emptyInputMessage = "Unable to process the request. " +
	"Please describe the crop problem again in a few words."

const pesticideBlock = "Before using any chemical: " +
	"read the product label, follow local regulations, wear gloves and a mask, " +
	"and avoid spraying in mid-day heat."

const escalationBlock = "Bring a fresh sample (leaf / fruit / insect) to a local agriculture " +
	"extension officer or agronomist to confirm before treating your whole field."

var disclaimerByLevel = map[Level]string{
	LevelLow: "This tool gives general crop guidance based on your description and photo. " +
		"Always confirm pesticide products, rates, and local regulations with a " +
		"licensed agronomist before spraying anything.",
	LevelMedium: "This guidance carries some uncertainty. Treat it as a starting point, " +
		"confirm the diagnosis with a local agronomist, and always verify pesticide " +
		"products, rates, and regulations before spraying anything.",
	LevelHigh: "This looks like a serious problem. Contact your local agriculture " +
		"extension officer or a licensed agronomist promptly for an on-site check " +
		"before applying any treatment.",
}

// Classify derives the escalation level from text. A high-severity keyword
// forces LevelHigh regardless of co-occurring chemical or hedging signals.
func Classify(text string) Level {
	if strings.TrimSpace(text) == "" {
		return LevelUnknown
	}
	lowered := strings.ToLower(text)
	if containsAny(lowered, highSeverityKeywords) {
		return LevelHigh
	}
	if containsAny(lowered, pesticideKeywords) || containsAny(lowered, hedgePhrases) {
		return LevelMedium
	}
	return LevelLow
}

// Annotate appends the pesticide-safety block, the escalation-guidance
// block, and exactly one level-selected disclaimer to the trimmed raw text,
// in that fixed order, joined by blank lines. Empty input short-circuits to
// a fixed message. Output for non-empty input is always strictly longer
// than the input.
func Annotate(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return emptyInputMessage
	}
	lowered := strings.ToLower(trimmed)

	parts := []string{trimmed}
	if containsAny(lowered, pesticideKeywords) {
		parts = append(parts, pesticideBlock)
	}
	if containsAny(lowered, hedgePhrases) {
		parts = append(parts, escalationBlock)
	}
	parts = append(parts, disclaimerByLevel[Classify(trimmed)])

	return strings.Join(parts, "\n\n")
}

func containsAny(lowered string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(lowered, n) {
			return true
		}
	}
	return false
}
