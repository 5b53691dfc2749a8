package simulate

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/okian/readiness/pkg/logger"
)

// Run generates a squad, submits it, then prints the triage table and the
// load chart of the first athlete to out.
func Run(ctx context.Context, cfg Config, out io.Writer) (*Stats, error) {
	cfg.normalize()
	log := logger.Get().Named("simulate")
	stats := &Stats{StartTime: time.Now()}

	squad := Generate(cfg)
	stats.Athletes = len(squad.Athletes)
	log.Info(ctx, "generated squad",
		logger.Int("athletes", len(squad.Athletes)),
		logger.Int("wellnessReports", len(squad.Wellness)),
		logger.Int("loadEntries", len(squad.Loads)),
		logger.String("today", squad.Today.String()),
	)

	client := NewClient(cfg.BaseURL, cfg.Timeout)
	if err := client.Submit(ctx, cfg, squad, stats); err != nil {
		return stats, fmt.Errorf("submitting squad: %w", err)
	}

	triage, err := client.Triage(ctx, squad.Today)
	if err != nil {
		return stats, fmt.Errorf("fetching triage: %w", err)
	}
	byID := make(map[string]Profile, len(squad.Athletes))
	for _, a := range squad.Athletes {
		byID[a.ID] = a.Profile
	}
	fmt.Fprintln(out, RenderTriage(squad.Today, triage.Results, byID))
	fmt.Fprintln(out)

	if len(squad.Athletes) > 0 {
		first := squad.Athletes[0].ID
		points, err := client.Trend(ctx, first, squad.Today.AddDays(-cfg.Days), squad.Today.AddDays(1))
		if err != nil {
			return stats, fmt.Errorf("fetching load trend: %w", err)
		}
		fmt.Fprintln(out, RenderLoadChart(first, points))
	}

	stats.Duration = time.Since(stats.StartTime)
	log.Info(ctx, "simulation complete",
		logger.Int("submitted", stats.Submitted),
		logger.Int("failed", stats.Failed),
		logger.Duration("duration", stats.Duration),
	)
	return stats, nil
}
