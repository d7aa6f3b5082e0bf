package errorsx

// ReasonCode is a short machine-readable error reason.
type ReasonCode string

const (
	ReasonUnknown ReasonCode = "unknown"

	ReasonInvalidInput ReasonCode = "invalid_input"
	ReasonNoImage      ReasonCode = "no_image"
	ReasonNoDesc       ReasonCode = "no_description"
	ReasonImageRead    ReasonCode = "image_read"

	ReasonWeatherFetch ReasonCode = "weather_fetch"

	ReasonLLMGenerate  ReasonCode = "llm_generate"
	ReasonLLMRateLimit ReasonCode = "llm_rate_limit"

	ReasonSTTTranscribe   ReasonCode = "stt_transcribe"
	ReasonTTSSynthesize   ReasonCode = "tts_synthesize"
	ReasonTranscriptWrite ReasonCode = "transcript_write"

	ReasonConfig ReasonCode = "config"
)

// userMessages maps reason codes to the short, actionable text the boundary
// layer shows the farmer. No stack traces, no status codes.
var userMessages = map[ReasonCode]string{
	ReasonNoImage:       "Please upload a crop photo so the problem area can be analyzed.",
	ReasonNoDesc:        "Please describe the problem in a few words, by text or voice.",
	ReasonInvalidInput:  "Please provide both a crop photo and a short description of the problem.",
	ReasonImageRead:     "The uploaded photo could not be read. Please try another image.",
	ReasonLLMGenerate:   "The advisory service is temporarily unavailable. Please try again in a moment.",
	ReasonLLMRateLimit:  "The advisory service is busy right now. Please try again in a moment.",
	ReasonSTTTranscribe: "Your voice note could not be understood. Please try again or type the description.",
	ReasonTTSSynthesize: "Spoken guidance could not be generated, but the written guidance is available.",
}

// UserMessage returns farmer-facing text for an error. Every failure path
// resolves to one short message; unknown reasons get a generic one.
func UserMessage(err error) string {
	if msg, ok := userMessages[Reason(err)]; ok {
		return msg
	}
	return "Something went wrong while preparing your guidance. Please try again."
}
