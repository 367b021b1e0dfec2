package hindsight

import (
	"math"

	"github.com/firedintern/meta-fgi/internal/core"
)

// DivergenceType labels the direction a divergence implies for price.
type DivergenceType string

const (
	// DivergenceBearish: price up sharply while sentiment drops sharply.
	DivergenceBearish DivergenceType = "bearish"
	// DivergenceBullish: price down sharply while sentiment rises sharply.
	DivergenceBullish DivergenceType = "bullish"
)

// Thresholds is the dual threshold a window must cross, strictly, to flag.
type Thresholds struct {
	PricePct     float64 `json:"pricePct"`
	SentimentPct float64 `json:"sentimentPct"`
}

// Event is one flagged divergence window.
type Event struct {
	Date               string         `json:"date"`
	WindowDays         int            `json:"windowDays"`
	PriceChangePct     float64        `json:"priceChangePct"`
	SentimentChangePct float64        `json:"fgiChangePct"`
	Type               DivergenceType `json:"type"`
	Magnitude          float64        `json:"magnitude"`
	Score              int            `json:"fgiScore"`
	Label              string         `json:"fgiClassification"`
	Price              float64        `json:"price"`

	index int // position in the merged series, for outcome lookahead
}

// Detection holds the events of one scan plus the windows that had to be
// skipped because the windowed sentiment change was undefined.
type Detection struct {
	Events []Event
	// SkippedZeroBase counts windows whose previous sentiment score was
	// zero. The sentiment change uses the same (cur-prev)/prev formula as
	// price, which is undefined at a zero base and unstable near it; such
	// windows are skipped, not guessed at.
	SkippedZeroBase int
}

// Detect scans the merged series with a trailing window of windowDays and
// flags divergences against th. Both inequalities are strict: a change
// exactly at a threshold does not flag.
func Detect(records []core.MergedRecord, windowDays int, th Thresholds) Detection {
	var det Detection

	for i := windowDays; i < len(records); i++ {
		cur := records[i]
		prev := records[i-windowDays]

		if prev.Score == 0 {
			det.SkippedZeroBase++
			continue
		}
		if prev.Price == 0 {
			// Degenerate input; a free price series never contains it,
			// but guard the division anyway.
			continue
		}

		priceChange := (cur.Price - prev.Price) / prev.Price * 100
		sentChange := (float64(cur.Score) - float64(prev.Score)) / float64(prev.Score) * 100

		var dtype DivergenceType
		switch {
		case priceChange > th.PricePct && sentChange < -th.SentimentPct:
			dtype = DivergenceBearish
		case priceChange < -th.PricePct && sentChange > th.SentimentPct:
			dtype = DivergenceBullish
		default:
			continue
		}

		det.Events = append(det.Events, Event{
			Date:               cur.Date,
			WindowDays:         windowDays,
			PriceChangePct:     priceChange,
			SentimentChangePct: sentChange,
			Type:               dtype,
			Magnitude:          math.Abs(priceChange - sentChange),
			Score:              cur.Score,
			Label:              cur.Label,
			Price:              cur.Price,
			index:              i,
		})
	}

	return det
}
