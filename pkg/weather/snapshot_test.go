package weather

import (
	"strings"
	"testing"
)

func f(v float64) *float64 { return &v }

func TestAssessRisksHumidityOnly(t *testing.T) {
	snap := Snapshot{Humidity: f(85), TempC: f(25), RainLastHourMM: f(0), RainNextHourMM: f(0)}
	risks := AssessRisks(snap)
	if len(risks) != 1 {
		t.Fatalf("expected exactly one risk, got %d: %v", len(risks), risks)
	}
	if !strings.Contains(risks[0], "humidity") {
		t.Fatalf("expected humidity risk, got %q", risks[0])
	}
}

func TestAssessRisksNone(t *testing.T) {
	snap := Snapshot{Humidity: f(50), TempC: f(25), RainLastHourMM: f(0), RainNextHourMM: f(0)}
	if risks := AssessRisks(snap); len(risks) != 0 {
		t.Fatalf("expected no risks, got %v", risks)
	}
	if got := Summarize(snap); got != neutralSummary {
		t.Fatalf("expected neutral summary, got %q", got)
	}
}

func TestAssessRisksMissingFieldsFireNothing(t *testing.T) {
	if risks := AssessRisks(Snapshot{}); len(risks) != 0 {
		t.Fatalf("nil fields should not trigger rules, got %v", risks)
	}
}

func TestAssessRisksFixedOrder(t *testing.T) {
	snap := Snapshot{Humidity: f(90), TempC: f(35), RainLastHourMM: f(2), RainNextHourMM: f(1)}
	risks := AssessRisks(snap)
	if len(risks) != 4 {
		t.Fatalf("expected 4 risks, got %d: %v", len(risks), risks)
	}
	order := []string{"humidity", "heat", "recently rained", "More rain"}
	for i, needle := range order {
		if !strings.Contains(risks[i], needle) {
			t.Fatalf("risk %d = %q, expected to mention %q", i, risks[i], needle)
		}
	}
}

func TestAssessRisksColdThreshold(t *testing.T) {
	snap := Snapshot{TempC: f(10)}
	risks := AssessRisks(snap)
	if len(risks) != 1 || !strings.Contains(risks[0], "Low temperature") {
		t.Fatalf("expected cold risk at 10C, got %v", risks)
	}
}

func TestAssessRisksRainThreshold(t *testing.T) {
	// trace precipitation at or below 0.1mm is ignored
	snap := Snapshot{RainLastHourMM: f(0.1), RainNextHourMM: f(0.1)}
	if risks := AssessRisks(snap); len(risks) != 0 {
		t.Fatalf("expected no risks at threshold, got %v", risks)
	}
	snap = Snapshot{RainLastHourMM: f(0.2)}
	if risks := AssessRisks(snap); len(risks) != 1 {
		t.Fatalf("expected wet-leaves risk above threshold, got %v", risks)
	}
}

func TestSummarizeJoinsAllRisks(t *testing.T) {
	snap := Snapshot{Humidity: f(85), RainNextHourMM: f(3)}
	got := Summarize(snap)
	if !strings.Contains(got, "fungal") || !strings.Contains(got, "wash off") {
		t.Fatalf("expected both risk messages in summary, got %q", got)
	}
}
