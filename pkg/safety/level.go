package safety

// Level is the coarse escalation classification derived from advisory text.
type Level int

const (
	LevelUnknown Level = iota
	LevelLow
	LevelMedium
	LevelHigh
)

func (l Level) String() string {
	switch l {
	case LevelLow:
		return "low"
	case LevelMedium:
		return "medium"
	case LevelHigh:
		return "high"
	default:
		return "unknown"
	}
}
