package hindsight

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/firedintern/meta-fgi/internal/core"
)

func fwd(date string, score int, ret *float64) core.ForwardReturn {
	return core.ForwardReturn{
		Date:        date,
		HorizonDays: 30,
		Score:       score,
		Label:       string(core.ClassifyScore(score)),
		Price:       100,
		Return:      ret,
	}
}

func pf(v float64) *float64 { return &v }

func TestAggregate_BasicStats(t *testing.T) {
	returns := []core.ForwardReturn{
		fwd("2024-01-01", 10, pf(5)),
		fwd("2024-01-02", 15, pf(-2)),
		fwd("2024-01-03", 20, pf(12)),
		fwd("2024-01-04", 22, pf(1)),
	}

	stats := Aggregate(returns, 30)
	ef := stats[core.RegimeExtremeFear]

	if ef.SampleSize != 4 {
		t.Fatalf("sample size = %d, want 4", ef.SampleSize)
	}
	if math.Abs(ef.AvgReturn-4.0) > 1e-9 {
		t.Errorf("avg = %f, want 4.0", ef.AvgReturn)
	}
	// Sorted: [-2, 1, 5, 12]; floor(4/2)=2 -> 5 (lower-middle selection).
	if ef.MedianReturn != 5 {
		t.Errorf("median = %f, want 5 (floor-index median)", ef.MedianReturn)
	}
	if ef.WinRatePct != 75 {
		t.Errorf("win rate = %f, want 75", ef.WinRatePct)
	}
	if ef.BestReturn != 12 || ef.WorstReturn != -2 {
		t.Errorf("best/worst = %f/%f, want 12/-2", ef.BestReturn, ef.WorstReturn)
	}
	if ef.BestExample == nil || ef.BestExample.Date != "2024-01-03" {
		t.Errorf("best example = %+v, want 2024-01-03", ef.BestExample)
	}
	if ef.WorstExample == nil || ef.WorstExample.Date != "2024-01-02" {
		t.Errorf("worst example = %+v, want 2024-01-02", ef.WorstExample)
	}
}

func TestAggregate_OddLengthMedian(t *testing.T) {
	returns := []core.ForwardReturn{
		fwd("2024-01-01", 50, pf(3)),
		fwd("2024-01-02", 50, pf(-1)),
		fwd("2024-01-03", 50, pf(7)),
	}

	stats := Aggregate(returns, 30)
	// Sorted: [-1, 3, 7]; floor(3/2)=1 -> 3.
	if got := stats[core.RegimeNeutral].MedianReturn; got != 3 {
		t.Errorf("median = %f, want 3", got)
	}
}

func TestAggregate_ZeroSampleBucket(t *testing.T) {
	returns := []core.ForwardReturn{
		fwd("2024-01-01", 10, pf(5)),
	}

	stats := Aggregate(returns, 30)

	for _, regime := range []core.Regime{core.RegimeFear, core.RegimeNeutral, core.RegimeGreed, core.RegimeExtremeGreed} {
		bs := stats[regime]
		if bs.SampleSize != 0 {
			t.Errorf("%s sample size = %d, want 0", regime, bs.SampleSize)
		}
		if bs.AvgReturn != 0 || bs.MedianReturn != 0 || bs.WinRatePct != 0 {
			t.Errorf("%s carries numerics despite zero samples: %+v", regime, bs)
		}
		if math.IsNaN(bs.AvgReturn) || math.IsInf(bs.AvgReturn, 0) {
			t.Errorf("%s avg is NaN/Inf", regime)
		}
		if bs.BestExample != nil || bs.WorstExample != nil {
			t.Errorf("%s has examples despite zero samples", regime)
		}
	}
}

func TestAggregate_SkipsAbsentReturns(t *testing.T) {
	returns := []core.ForwardReturn{
		fwd("2024-01-01", 10, pf(5)),
		fwd("2024-01-02", 10, nil), // no future data; not a zero return
	}

	stats := Aggregate(returns, 30)
	ef := stats[core.RegimeExtremeFear]

	if ef.SampleSize != 1 {
		t.Errorf("sample size = %d, want 1 (absent excluded)", ef.SampleSize)
	}
	if ef.AvgReturn != 5 {
		t.Errorf("avg = %f, want 5", ef.AvgReturn)
	}
}

func TestAggregate_UnknownSentinel(t *testing.T) {
	returns := []core.ForwardReturn{
		fwd("2024-01-01", 120, pf(5)),
	}

	stats := Aggregate(returns, 30)
	unknown, ok := stats[core.RegimeUnknown]
	if !ok || unknown.SampleSize != 1 {
		t.Errorf("out-of-range score should land in Unknown bucket, got %+v", unknown)
	}
}

func TestAggregate_ZeroStatsSurviveEncoding(t *testing.T) {
	// A bucket averaging exactly zero is real data, not "no data"; its
	// numbers must stay present in the artifact.
	returns := []core.ForwardReturn{
		fwd("2024-01-01", 10, pf(5)),
		fwd("2024-01-02", 12, pf(-5)),
	}

	stats := Aggregate(returns, 30)
	ef := stats[core.RegimeExtremeFear]
	if ef.AvgReturn != 0 {
		t.Fatalf("avg = %f, want exactly 0", ef.AvgReturn)
	}

	data, err := json.Marshal(ef)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	for _, key := range []string{`"avgReturn":0`, `"medianReturn":5`, `"winRate":50`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("encoded stats missing %s: %s", key, data)
		}
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	returns := []core.ForwardReturn{
		fwd("2024-01-01", 10, pf(5)),
		fwd("2024-01-02", 30, pf(-3)),
		fwd("2024-01-03", 65, pf(8)),
	}

	first := Aggregate(returns, 30)
	second := Aggregate(returns, 30)

	if !reflect.DeepEqual(first, second) {
		t.Error("aggregating identical input twice produced different results")
	}
}
