package narrative

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/firedintern/meta-fgi/internal/core"
	"github.com/firedintern/meta-fgi/internal/hindsight"
	"github.com/firedintern/meta-fgi/internal/llm"
)

const systemPrompt = "You are a crypto market analyst. You are given the " +
	"statistical results of a sentiment backtest. Write a short plain-language " +
	"summary (at most three paragraphs) of what the numbers say about buying " +
	"fear and selling greed. Do not invent numbers that are not in the input."

// Summarizer turns a backtest report into a plain-language narrative using
// the configured LLM provider. It is an optional layer on top of the
// deterministic insights; callers treat failures as "no narrative".
type Summarizer struct {
	provider llm.Provider
	log      *zap.Logger
}

// NewSummarizer creates a summarizer backed by the given provider.
func NewSummarizer(provider llm.Provider, log *zap.Logger) *Summarizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Summarizer{provider: provider, log: log}
}

// Summarize asks the LLM for a narrative over the report's statistics.
func (s *Summarizer) Summarize(ctx context.Context, report *hindsight.Report) (string, error) {
	resp, err := s.provider.Chat(ctx, llm.ChatRequest{
		SystemPrompt: systemPrompt,
		Messages: []llm.Message{
			{Role: "user", Content: renderPrompt(report)},
		},
		MaxTokens: 768,
	})
	if err != nil {
		return "", err
	}

	summary := strings.TrimSpace(resp.Content)
	if summary == "" {
		return "", core.WrapError(core.ErrLLMFailed,
			fmt.Errorf("%s returned an empty summary", s.provider.Name()))
	}

	s.log.Info("narrative generated",
		zap.String("provider", s.provider.Name()),
		zap.Int("output_tokens", resp.Usage.OutputTokens))

	return summary, nil
}

// renderPrompt flattens the report's statistics into a compact text block.
// Only aggregates go into the prompt; raw records stay out of it.
func renderPrompt(report *hindsight.Report) string {
	var sb strings.Builder

	dr := report.Metadata.DataRange
	fmt.Fprintf(&sb, "Data range: %s to %s (%d days).\n\n", dr.Start, dr.End, dr.TotalDays)

	sb.WriteString("Average forward returns by sentiment regime:\n")
	for _, regime := range core.RegimeOrder {
		horizons, ok := report.Results[regime]
		if !ok {
			continue
		}
		for _, horizon := range report.Metadata.Config.Horizons {
			bs, ok := horizons[hindsight.HorizonKey(horizon)]
			if !ok || bs.SampleSize == 0 {
				continue
			}
			fmt.Fprintf(&sb, "- %s, %d-day: avg %+.2f%%, median %+.2f%%, win rate %.1f%%, n=%d\n",
				regime, horizon, bs.AvgReturn, bs.MedianReturn, bs.WinRatePct, bs.SampleSize)
		}
	}

	if len(report.Divergence) > 0 {
		sb.WriteString("\nDivergence events (price and sentiment moving apart):\n")
		for _, wr := range report.Divergence {
			fmt.Fprintf(&sb, "- %d-day window: %d events\n", wr.WindowDays, wr.EventCount)
			for divType, outcome := range wr.Outcomes {
				fmt.Fprintf(&sb, "  - %s: %d scored, %.1f%% predictive success, avg %+.2f%%\n",
					divType, outcome.Count, outcome.SuccessRatePct, outcome.AvgReturnPct)
			}
		}
	}

	if len(report.Insights) > 0 {
		sb.WriteString("\nKey findings:\n")
		for _, insight := range report.Insights {
			fmt.Fprintf(&sb, "- %s\n", insight)
		}
	}

	return sb.String()
}
