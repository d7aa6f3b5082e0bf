package mock

import (
	"context"
	"strings"

	"github.com/harunnryd/tani/pkg/llm"
)

// LLMConfig pins the adapter's output for tests; when ResponseText is empty
// the adapter falls back to a small offline heuristic so the assistant can
// answer without any API key.
type LLMConfig struct {
	ResponseText string
}

type LLMAdapter struct {
	cfg LLMConfig
}

func NewLLMAdapter(cfg LLMConfig) *LLMAdapter {
	return &LLMAdapter{cfg: cfg}
}

func (a *LLMAdapter) Name() string { return "mock_llm" }

func (a *LLMAdapter) Generate(ctx context.Context, prompt llm.Prompt) (llm.Response, error) {
	if a.cfg.ResponseText != "" {
		return llm.Response{Text: a.cfg.ResponseText}, nil
	}
	return llm.Response{Text: heuristicAnswer(prompt.User)}, nil
}

// heuristicAnswer is a diagnosis-shaped canned reply keyed off the farmer's
// wording: wet-weather spot symptoms get the fungal answer, everything else
// the general stress answer.
func heuristicAnswer(promptText string) string {
	lowered := strings.ToLower(promptText)

	var answer string
	if strings.Contains(lowered, "spot") || strings.Contains(lowered, "rain") {
		answer = "It looks like a possible fungal leaf issue. " +
			"This often spreads in warm, wet weather. " +
			"Remove the worst leaves so the fungus doesn't spread. " +
			"Do not water from above. Water at the base in the early morning. " +
			"Improve airflow by trimming the lower leaves so they don't touch wet soil. " +
			"If many plants are affected, you may need a copper-based fungicide, " +
			"but confirm with a local agronomist before spraying."
	} else {
		answer = "The plant looks stressed. Check if the soil is too dry or compacted. " +
			"Water slowly in early morning so roots get moisture, not mid-day sun. " +
			"If leaves curl or turn yellow from the bottom up, it might be nutrient deficiency. " +
			"Add balanced fertilizer or compost, but avoid over-fertilizing all at once."
	}

	return answer + " If the problem spreads fast across the field, talk to your local " +
		"agriculture extension officer for an on-site check."
}

var _ llm.Adapter = (*LLMAdapter)(nil)
