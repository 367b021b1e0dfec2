package hindsight

import (
	"strings"
	"testing"

	"github.com/firedintern/meta-fgi/internal/core"
)

func bucket(regime core.Regime, avg, winRate float64, n int) BucketStats {
	return BucketStats{
		Regime:      regime,
		HorizonDays: 7,
		SampleSize:  n,
		AvgReturn:   avg,
		WinRatePct:  winRate,
	}
}

func TestGenerateInsights_BestAndWorst(t *testing.T) {
	stats := map[core.Regime]BucketStats{
		core.RegimeExtremeFear: bucket(core.RegimeExtremeFear, 3.5, 70, 10),
		core.RegimeNeutral:     bucket(core.RegimeNeutral, 0.5, 55, 20),
		core.RegimeExtremeGreed: bucket(core.RegimeExtremeGreed, 1.2, 60, 8),
	}

	insights := GenerateInsights(stats, 7)
	if len(insights) < 2 {
		t.Fatalf("expected at least best/worst insights, got %v", insights)
	}
	if !strings.Contains(insights[0], "Best 7-day performance") || !strings.Contains(insights[0], string(core.RegimeExtremeFear)) {
		t.Errorf("best insight wrong: %q", insights[0])
	}
	if !strings.Contains(insights[1], "Worst 7-day performance") || !strings.Contains(insights[1], string(core.RegimeNeutral)) {
		t.Errorf("worst insight wrong: %q", insights[1])
	}
}

func TestGenerateInsights_FearVsGreed(t *testing.T) {
	tests := []struct {
		name     string
		fearAvg  float64
		greedAvg float64
		want     string
	}{
		{"fear wins", 2.0, -1.0, "WORKS"},
		{"greed wins", -1.0, 2.0, "DOESN'T WORK"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := map[core.Regime]BucketStats{
				core.RegimeFear:  bucket(core.RegimeFear, tt.fearAvg, 50, 10),
				core.RegimeGreed: bucket(core.RegimeGreed, tt.greedAvg, 50, 10),
			}
			insights := GenerateInsights(stats, 7)
			found := false
			for _, in := range insights {
				if strings.Contains(in, "Buy Fear, Sell Greed") {
					found = true
					if !strings.Contains(in, tt.want) {
						t.Errorf("verdict = %q, want %q", in, tt.want)
					}
				}
			}
			if !found {
				t.Errorf("no Fear-vs-Greed insight in %v", insights)
			}
		})
	}
}

func TestGenerateInsights_FearVsGreedNeedsBothBuckets(t *testing.T) {
	stats := map[core.Regime]BucketStats{
		core.RegimeFear: bucket(core.RegimeFear, 2.0, 60, 10),
	}
	for _, in := range GenerateInsights(stats, 7) {
		if strings.Contains(in, "Buy Fear") {
			t.Errorf("Fear-vs-Greed emitted without a Greed bucket: %q", in)
		}
	}
}

func TestGenerateInsights_ReliabilityFlag(t *testing.T) {
	stats := map[core.Regime]BucketStats{
		core.RegimeExtremeFear: bucket(core.RegimeExtremeFear, 4.0, 92.5, 12),
		core.RegimeNeutral:     bucket(core.RegimeNeutral, 1.0, 89.9, 30),
	}

	insights := GenerateInsights(stats, 7)
	var flagged []string
	for _, in := range insights {
		if strings.Contains(in, "exceptional reliability") {
			flagged = append(flagged, in)
		}
	}
	if len(flagged) != 1 {
		t.Fatalf("expected exactly 1 reliability flag, got %v", flagged)
	}
	if !strings.Contains(flagged[0], string(core.RegimeExtremeFear)) {
		t.Errorf("wrong regime flagged: %q", flagged[0])
	}
}

func TestGenerateInsights_NegativeWarning(t *testing.T) {
	stats := map[core.Regime]BucketStats{
		core.RegimeGreed:   bucket(core.RegimeGreed, -2.3, 40, 15),
		core.RegimeNeutral: bucket(core.RegimeNeutral, 0.1, 51, 15),
	}

	insights := GenerateInsights(stats, 7)
	var warnings []string
	for _, in := range insights {
		if strings.Contains(in, "WARNING") {
			warnings = append(warnings, in)
		}
	}
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %v", warnings)
	}
	if !strings.Contains(warnings[0], "NEGATIVE") || !strings.Contains(warnings[0], string(core.RegimeGreed)) {
		t.Errorf("warning wrong: %q", warnings[0])
	}
}

func TestGenerateInsights_EmptyStats(t *testing.T) {
	if got := GenerateInsights(map[core.Regime]BucketStats{}, 7); len(got) != 0 {
		t.Errorf("empty stats produced insights: %v", got)
	}
}
