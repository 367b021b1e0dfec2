package core

import "time"

// DateLayout is the calendar-date format used throughout the pipeline.
// All dates are UTC calendar days.
const DateLayout = "2006-01-02"

// SeriesPoint is a single observation in a daily time series.
// Providers normalize their payloads to this shape, oldest first.
type SeriesPoint struct {
	Date      string  `json:"date"`
	Timestamp int64   `json:"timestamp"` // unix seconds
	Value     float64 `json:"value"`
}

// LabeledPoint is a SeriesPoint carrying the provider's classification
// string (e.g. "Extreme Fear"). Only the sentiment provider emits labels.
type LabeledPoint struct {
	SeriesPoint
	Label string `json:"label"`
}

// MergedRecord joins one sentiment observation with the price on the same
// calendar date. Records exist only for dates present in both series and
// are ordered ascending by timestamp with no duplicate dates.
type MergedRecord struct {
	Date      string  `json:"date"`
	Timestamp int64   `json:"timestamp"`
	Score     int     `json:"fgiScore"`
	Label     string  `json:"fgiClassification"`
	Price     float64 `json:"btcPrice"`
}

// ForwardReturn is the percentage price change from a base record to the
// record HorizonDays later. Return is nil when not enough future data
// exists; nil means "no data", which is distinct from a zero return.
type ForwardReturn struct {
	Date        string   `json:"date"`
	HorizonDays int      `json:"horizonDays"`
	Score       int      `json:"fgiScore"`
	Label       string   `json:"fgiClassification"`
	Price       float64  `json:"price"`
	FuturePrice float64  `json:"futurePrice,omitempty"`
	Return      *float64 `json:"return,omitempty"`
}

// Regime is one of the five fixed sentiment buckets.
type Regime string

const (
	RegimeExtremeFear  Regime = "Extreme Fear"
	RegimeFear         Regime = "Fear"
	RegimeNeutral      Regime = "Neutral"
	RegimeGreed        Regime = "Greed"
	RegimeExtremeGreed Regime = "Extreme Greed"
	// RegimeUnknown is the sentinel for scores outside [0,100].
	RegimeUnknown Regime = "Unknown"
)

// ScoreRange is an inclusive score interval.
type ScoreRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// RegimeOrder lists the buckets in ascending score order.
var RegimeOrder = []Regime{
	RegimeExtremeFear,
	RegimeFear,
	RegimeNeutral,
	RegimeGreed,
	RegimeExtremeGreed,
}

// RegimeRanges is the fixed, contiguous partition of [0,100].
var RegimeRanges = map[Regime]ScoreRange{
	RegimeExtremeFear:  {Min: 0, Max: 24},
	RegimeFear:         {Min: 25, Max: 44},
	RegimeNeutral:      {Min: 45, Max: 59},
	RegimeGreed:        {Min: 60, Max: 79},
	RegimeExtremeGreed: {Min: 80, Max: 100},
}

// ClassifyScore maps a sentiment score to its regime bucket.
// Scores outside [0,100] return RegimeUnknown rather than panicking.
func ClassifyScore(score int) Regime {
	for _, regime := range RegimeOrder {
		r := RegimeRanges[regime]
		if score >= r.Min && score <= r.Max {
			return regime
		}
	}
	return RegimeUnknown
}

// IsExtreme reports whether a score sits in one of the two extreme buckets.
func IsExtreme(score int) bool {
	regime := ClassifyScore(score)
	return regime == RegimeExtremeFear || regime == RegimeExtremeGreed
}

// DateOf formats a unix-seconds timestamp as a UTC calendar date.
func DateOf(unixSeconds int64) string {
	return time.Unix(unixSeconds, 0).UTC().Format(DateLayout)
}
