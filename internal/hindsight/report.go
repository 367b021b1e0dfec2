package hindsight

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/firedintern/meta-fgi/internal/core"
	"github.com/google/uuid"
)

// rawDataSampleSize caps the merged-record sample embedded in a report.
const rawDataSampleSize = 10

// RunConfig is the full configuration of one backtest run, embedded in the
// report artifact so a result stays interpretable on its own.
type RunConfig struct {
	HistoryDays   int        `json:"historyDays"`
	Horizons      []int      `json:"horizons"`
	Windows       []int      `json:"divergenceWindows"`
	Thresholds    Thresholds `json:"divergenceThresholds"`
	LookaheadDays int        `json:"divergenceLookaheadDays"`
	// FetchDelay, when positive, switches the two upstream fetches from
	// concurrent to sequential with this pause between them. Rate-limit
	// courtesy only; results do not depend on it.
	FetchDelay time.Duration `json:"-"`
}

// DataRange describes the span of merged observations a run covered.
type DataRange struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	TotalDays int    `json:"totalDays"`
}

// Metadata identifies one run.
type Metadata struct {
	RunID       string    `json:"runId"`
	GeneratedAt time.Time `json:"generatedAt"`
	DataRange   DataRange `json:"dataRange"`
	Config      RunConfig `json:"config"`
}

// WindowResult holds one divergence scan: the window length, the outcome
// statistics per type, and how many windows were skipped.
type WindowResult struct {
	WindowDays      int                             `json:"windowDays"`
	Outcomes        map[DivergenceType]OutcomeStats `json:"outcomes"`
	EventCount      int                             `json:"eventCount"`
	SkippedZeroBase int                             `json:"skippedZeroBase,omitempty"`
}

// Report is the single artifact a backtest run produces. Results is keyed
// by regime, then by "day{N}" per horizon, matching the shape downstream
// consumers of the JSON file expect.
type Report struct {
	Metadata   Metadata                            `json:"metadata"`
	Results    map[core.Regime]map[string]BucketStats `json:"results"`
	Divergence []WindowResult                      `json:"divergence"`
	Insights   []string                            `json:"insights"`
	Narrative  string                              `json:"narrative,omitempty"`
	RawData    []core.MergedRecord                 `json:"rawData"`
}

// HorizonKey formats a horizon for the Results map ("day7", "day30").
func HorizonKey(days int) string {
	return fmt.Sprintf("day%d", days)
}

// NewReport assembles a report from a run's intermediate products.
func NewReport(cfg RunConfig, merged []core.MergedRecord,
	results map[core.Regime]map[string]BucketStats,
	divergence []WindowResult, insights []string, now time.Time) *Report {

	sample := merged
	if len(sample) > rawDataSampleSize {
		sample = sample[:rawDataSampleSize]
	}

	return &Report{
		Metadata: Metadata{
			RunID:       uuid.NewString(),
			GeneratedAt: now.UTC(),
			DataRange: DataRange{
				Start:     merged[0].Date,
				End:       merged[len(merged)-1].Date,
				TotalDays: len(merged),
			},
			Config: cfg,
		},
		Results:    results,
		Divergence: divergence,
		Insights:   insights,
		RawData:    sample,
	}
}

// Filename derives the artifact name from the covered span, mirroring the
// "backtest-results-{years}years.json" convention.
func (r *Report) Filename() string {
	years := float64(r.Metadata.DataRange.TotalDays) / 365
	return fmt.Sprintf("backtest-results-%.1fyears.json", years)
}

// Encode renders the report as indented JSON.
func (r *Report) Encode() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
