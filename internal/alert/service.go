package alert

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/firedintern/meta-fgi/internal/core"
	"github.com/firedintern/meta-fgi/internal/notifier"
	"github.com/firedintern/meta-fgi/internal/provider"
	"github.com/firedintern/meta-fgi/internal/subscriber"
)

const (
	levelExtremeFear  = "extreme_fear"
	levelExtremeGreed = "extreme_greed"

	dashboardURL = "https://meta-fgi.vercel.app"
)

// Result summarizes one alert cycle. Skipped cycles carry the Reason;
// delivery cycles carry the fan-out counts.
type Result struct {
	Score       int    `json:"score"`
	Label       string `json:"label,omitempty"`
	Level       string `json:"level,omitempty"`
	Subscribers int    `json:"subscribers"`
	Sent        int    `json:"sent"`
	Failed      int    `json:"failed"`
	Skipped     bool   `json:"skipped"`
	Reason      string `json:"reason,omitempty"`
}

// Service runs the periodic extreme-sentiment check: fetch the latest
// score, decide whether it sits in an extreme bucket, dedup against the
// last alert, and fan the message out to every subscriber.
type Service struct {
	sentiment provider.SentimentProvider
	store     subscriber.Store
	notify    *notifier.Registry
	log       *zap.Logger
	dedup     bool
	now       func() time.Time
}

// NewService creates an alert service fanning out through every notifier
// registered on notify. With dedup enabled, at most one alert per level
// goes out per UTC day.
func NewService(sentiment provider.SentimentProvider, store subscriber.Store,
	notify *notifier.Registry, log *zap.Logger, dedup bool) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		sentiment: sentiment,
		store:     store,
		notify:    notify,
		log:       log,
		dedup:     dedup,
		now:       time.Now,
	}
}

// Run executes one alert cycle. Upstream or store failures degrade to a
// skipped cycle rather than an error: a missed alert is recoverable on the
// next run, a crashed cron job is not.
func (s *Service) Run(ctx context.Context) Result {
	score, label, err := s.sentiment.FetchLatest(ctx)
	if err != nil {
		s.log.Warn("sentiment fetch failed, no alert sent", zap.Error(err))
		return Result{Skipped: true, Reason: "sentiment fetch failed"}
	}

	s.log.Info("sentiment checked", zap.Int("score", score), zap.String("label", label))

	level := extremeLevel(score)
	if level == "" {
		return Result{Score: score, Label: label, Skipped: true, Reason: "not at extreme levels"}
	}

	today := s.now().UTC().Format(core.DateLayout)
	if s.dedup {
		last, err := s.store.LastAlert(ctx)
		if err != nil {
			s.log.Warn("alert state read failed", zap.Error(err))
		} else if last != nil && last.Level == level && last.Date == today {
			return Result{Score: score, Label: label, Level: level,
				Skipped: true, Reason: "already alerted today"}
		}
	}

	if len(s.notify.GetAll()) == 0 {
		s.log.Warn("no notification channels registered, no alert sent")
		return Result{Score: score, Label: label, Level: level,
			Skipped: true, Reason: "no notification channels"}
	}

	subs, err := s.store.List(ctx)
	if err != nil {
		s.log.Warn("subscriber listing failed, no alert sent", zap.Error(err))
		return Result{Score: score, Label: label, Level: level,
			Skipped: true, Reason: "subscriber listing failed"}
	}
	if len(subs) == 0 {
		return Result{Score: score, Label: label, Level: level,
			Skipped: true, Reason: "no subscribers"}
	}

	msg := notifier.Message{Text: formatAlert(score, label, level), ParseMode: "Markdown"}

	sent, failed := 0, 0
	for _, sub := range subs {
		errs := s.notify.NotifyAll(ctx, sub.ChatID, msg)
		if len(errs) > 0 {
			for name, err := range errs {
				s.log.Warn("alert delivery failed",
					zap.String("notifier", name),
					zap.Int64("chat_id", sub.ChatID), zap.Error(err))
			}
			failed++
			continue
		}
		sent++
	}

	s.log.Info("alerts sent", zap.Int("sent", sent), zap.Int("failed", failed))

	if s.dedup {
		if err := s.store.SetLastAlert(ctx, subscriber.AlertState{Level: level, Date: today}); err != nil {
			s.log.Warn("alert state write failed", zap.Error(err))
		}
	}

	return Result{
		Score:       score,
		Label:       label,
		Level:       level,
		Subscribers: len(subs),
		Sent:        sent,
		Failed:      failed,
	}
}

// extremeLevel returns the alert level for a score, or "" when the score
// sits outside both extreme buckets.
func extremeLevel(score int) string {
	switch core.ClassifyScore(score) {
	case core.RegimeExtremeFear:
		return levelExtremeFear
	case core.RegimeExtremeGreed:
		return levelExtremeGreed
	default:
		return ""
	}
}

func formatAlert(score int, label, level string) string {
	emoji := "🟢🚀"
	heading := "EXTREME GREED"
	advice := "Historical data shows strong performance (+21.87% avg over 30 days). Momentum is real!"
	if level == levelExtremeFear {
		emoji = "🔴💀"
		heading = "EXTREME FEAR"
		advice = "Historical data shows mixed results at this level. Proceed with caution."
	}

	return fmt.Sprintf("%s *%s ALERT!* %s\n\n"+
		"📊 Current Score: *%d/100*\n"+
		"Status: %s\n\n"+
		"💡 %s\n\n"+
		"🔮 Check Hindsight Score: %s",
		emoji, heading, emoji, score, label, advice, dashboardURL)
}
