package hindsight

import (
	"sort"

	"github.com/firedintern/meta-fgi/internal/core"
)

// Merge joins a sentiment series and a price series on calendar date.
// Sentiment points without a price on the exact same date are dropped; no
// interpolation or forward-fill happens. The result is ordered ascending by
// timestamp with no duplicate dates. An empty intersection yields an empty
// slice; callers that need statistics must treat that as ErrAlignmentEmpty
// before dividing by sample counts.
func Merge(sentiment []core.LabeledPoint, price []core.SeriesPoint) []core.MergedRecord {
	priceByDate := make(map[string]float64, len(price))
	for _, p := range price {
		priceByDate[p.Date] = p.Value
	}

	seen := make(map[string]bool, len(sentiment))
	merged := make([]core.MergedRecord, 0, len(sentiment))
	for _, s := range sentiment {
		p, ok := priceByDate[s.Date]
		if !ok || seen[s.Date] {
			continue
		}
		seen[s.Date] = true
		merged = append(merged, core.MergedRecord{
			Date:      s.Date,
			Timestamp: s.Timestamp,
			Score:     int(s.Value),
			Label:     s.Label,
			Price:     p,
		})
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Timestamp < merged[j].Timestamp
	})

	return merged
}
