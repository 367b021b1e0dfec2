package hindsight

import (
	"sort"

	"github.com/firedintern/meta-fgi/internal/core"
)

// BucketStats holds the descriptive statistics for one regime bucket at one
// horizon. A SampleSize of zero means "no data": every numeric field stays
// at its zero value and must not be read as a computed statistic.
type BucketStats struct {
	Regime       core.Regime         `json:"regime"`
	Range        core.ScoreRange     `json:"range"`
	HorizonDays  int                 `json:"horizonDays"`
	SampleSize   int                 `json:"sampleSize"`
	AvgReturn    float64             `json:"avgReturn"`
	MedianReturn float64             `json:"medianReturn"`
	WinRatePct   float64             `json:"winRate"`
	BestReturn   float64             `json:"bestReturn"`
	WorstReturn  float64             `json:"worstReturn"`
	BestExample  *core.ForwardReturn `json:"bestExample,omitempty"`
	WorstExample *core.ForwardReturn `json:"worstExample,omitempty"`
}

// Aggregate groups the forward returns of a single horizon by regime and
// computes per-bucket statistics. Only present returns participate; nil
// returns are excluded from both numerator and denominator. The function is
// pure: calling it twice on the same input yields identical results.
//
// The median is the ascending-sorted value at floor(n/2) - the lower middle
// for even-length groups, not the interpolated statistical median. Callers
// compare against this exact definition.
func Aggregate(returns []core.ForwardReturn, horizonDays int) map[core.Regime]BucketStats {
	grouped := make(map[core.Regime][]core.ForwardReturn)
	for _, fr := range returns {
		if fr.Return == nil {
			continue
		}
		regime := core.ClassifyScore(fr.Score)
		grouped[regime] = append(grouped[regime], fr)
	}

	stats := make(map[core.Regime]BucketStats, len(core.RegimeOrder))
	for _, regime := range core.RegimeOrder {
		stats[regime] = bucketStats(regime, grouped[regime], horizonDays)
	}
	// Out-of-range scores land in the Unknown sentinel bucket; keep them
	// visible rather than silently folding them into a real regime.
	if unknown := grouped[core.RegimeUnknown]; len(unknown) > 0 {
		stats[core.RegimeUnknown] = bucketStats(core.RegimeUnknown, unknown, horizonDays)
	}

	return stats
}

func bucketStats(regime core.Regime, group []core.ForwardReturn, horizonDays int) BucketStats {
	bs := BucketStats{
		Regime:      regime,
		Range:       core.RegimeRanges[regime],
		HorizonDays: horizonDays,
		SampleSize:  len(group),
	}
	if len(group) == 0 {
		return bs
	}

	values := make([]float64, len(group))
	var sum float64
	wins := 0
	bestIdx, worstIdx := 0, 0
	for i, fr := range group {
		v := *fr.Return
		values[i] = v
		sum += v
		if v > 0 {
			wins++
		}
		if v > *group[bestIdx].Return {
			bestIdx = i
		}
		if v < *group[worstIdx].Return {
			worstIdx = i
		}
	}

	sort.Float64s(values)

	best := group[bestIdx]
	worst := group[worstIdx]

	bs.AvgReturn = sum / float64(len(values))
	bs.MedianReturn = values[len(values)/2]
	bs.WinRatePct = float64(wins) / float64(len(values)) * 100
	bs.BestReturn = values[len(values)-1]
	bs.WorstReturn = values[0]
	bs.BestExample = &best
	bs.WorstExample = &worst

	return bs
}
