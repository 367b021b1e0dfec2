package hindsight

import (
	"fmt"
	"sort"

	"github.com/firedintern/meta-fgi/internal/core"
)

// reliableWinRatePct is the win rate at or above which a regime gets flagged
// as exceptionally reliable.
const reliableWinRatePct = 90

// GenerateInsights turns the bucket statistics of one horizon into ranked,
// human-readable findings: best and worst regime by mean return, the
// Fear-vs-Greed comparison, reliability flags, and warnings for regimes with
// negative mean returns. Pure formatting and comparison; no estimation.
func GenerateInsights(stats map[core.Regime]BucketStats, horizonDays int) []string {
	var insights []string

	type ranked struct {
		regime core.Regime
		avg    float64
	}
	var order []ranked
	for _, regime := range core.RegimeOrder {
		bs, ok := stats[regime]
		if !ok || bs.SampleSize == 0 {
			continue
		}
		order = append(order, ranked{regime: regime, avg: bs.AvgReturn})
	}
	sort.Slice(order, func(i, j int) bool { return order[i].avg > order[j].avg })

	if len(order) > 0 {
		best := order[0]
		worst := order[len(order)-1]
		insights = append(insights,
			fmt.Sprintf("Best %d-day performance: %s averaged %+.2f%%", horizonDays, best.regime, best.avg),
			fmt.Sprintf("Worst %d-day performance: %s averaged %+.2f%%", horizonDays, worst.regime, worst.avg),
		)
	}

	fear, fearOK := stats[core.RegimeFear]
	greed, greedOK := stats[core.RegimeGreed]
	if fearOK && greedOK && fear.SampleSize > 0 && greed.SampleSize > 0 {
		if fear.AvgReturn > greed.AvgReturn {
			insights = append(insights, fmt.Sprintf(
				"\"Buy Fear, Sell Greed\" WORKS: Fear (%+.2f%%) outperformed Greed (%+.2f%%) by %.2f%%",
				fear.AvgReturn, greed.AvgReturn, fear.AvgReturn-greed.AvgReturn))
		} else {
			insights = append(insights, fmt.Sprintf(
				"\"Buy Fear, Sell Greed\" DOESN'T WORK: Greed (%+.2f%%) outperformed Fear (%+.2f%%) by %.2f%% - momentum beats contrarian",
				greed.AvgReturn, fear.AvgReturn, greed.AvgReturn-fear.AvgReturn))
		}
	}

	for _, regime := range core.RegimeOrder {
		bs, ok := stats[regime]
		if !ok || bs.SampleSize == 0 {
			continue
		}
		if bs.WinRatePct >= reliableWinRatePct {
			insights = append(insights, fmt.Sprintf(
				"%s has exceptional reliability (%.1f%% win rate over %d days)",
				regime, bs.WinRatePct, horizonDays))
		}
	}

	for _, regime := range core.RegimeOrder {
		bs, ok := stats[regime]
		if !ok || bs.SampleSize == 0 {
			continue
		}
		if bs.AvgReturn < 0 {
			insights = append(insights, fmt.Sprintf(
				"WARNING: %s has NEGATIVE average returns (%.2f%%)", regime, bs.AvgReturn))
		}
	}

	return insights
}
