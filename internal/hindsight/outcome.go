package hindsight

import "github.com/firedintern/meta-fgi/internal/core"

// maxOutcomeExamples caps the illustrative examples kept per divergence type.
const maxOutcomeExamples = 3

// Outcome records what price actually did after a flagged divergence.
type Outcome struct {
	Event           Event   `json:"event"`
	LookaheadDays   int     `json:"lookaheadDays"`
	FutureReturnPct float64 `json:"futureReturnPct"`
	Correct         bool    `json:"correct"`
}

// OutcomeStats scores one divergence type's predictive accuracy.
type OutcomeStats struct {
	Type DivergenceType `json:"type"`
	// Count covers only events with enough future data; events cut off by
	// the end of the series are excluded from numerator and denominator.
	Count               int       `json:"count"`
	Correct             int       `json:"correct"`
	SuccessRatePct      float64   `json:"successRate"`
	AvgReturnPct        float64   `json:"avgReturn"`
	AvgCorrectReturnPct float64   `json:"avgCorrectReturn"`
	Examples            []Outcome `json:"examples,omitempty"`
}

// ScoreOutcomes looks lookaheadDays past each event and checks whether price
// moved in the direction the divergence implied: down after bearish, up after
// bullish. Examples are retained in detection order, up to three per type.
func ScoreOutcomes(records []core.MergedRecord, events []Event, lookaheadDays int) map[DivergenceType]OutcomeStats {
	sums := map[DivergenceType]float64{}
	correctSums := map[DivergenceType]float64{}
	stats := map[DivergenceType]OutcomeStats{
		DivergenceBearish: {Type: DivergenceBearish},
		DivergenceBullish: {Type: DivergenceBullish},
	}

	for _, ev := range events {
		future := ev.index + lookaheadDays
		if future >= len(records) {
			continue
		}

		startPrice := records[ev.index].Price
		endPrice := records[future].Price
		futureReturn := (endPrice - startPrice) / startPrice * 100

		correct := futureReturn > 0
		if ev.Type == DivergenceBearish {
			correct = futureReturn < 0
		}

		s := stats[ev.Type]
		s.Count++
		sums[ev.Type] += futureReturn
		if correct {
			s.Correct++
			correctSums[ev.Type] += futureReturn
		}
		if len(s.Examples) < maxOutcomeExamples {
			s.Examples = append(s.Examples, Outcome{
				Event:           ev,
				LookaheadDays:   lookaheadDays,
				FutureReturnPct: futureReturn,
				Correct:         correct,
			})
		}
		stats[ev.Type] = s
	}

	for dtype, s := range stats {
		if s.Count > 0 {
			s.SuccessRatePct = float64(s.Correct) / float64(s.Count) * 100
			s.AvgReturnPct = sums[dtype] / float64(s.Count)
		}
		if s.Correct > 0 {
			s.AvgCorrectReturnPct = correctSums[dtype] / float64(s.Correct)
		}
		stats[dtype] = s
	}

	return stats
}
