package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/crucial707/asset-tracker/internal/metrics"
	"github.com/crucial707/asset-tracker/internal/models"
	"github.com/robfig/cron/v3"
)

// StatusCounter is the read the refresh job needs from the asset store.
type StatusCounter interface {
	CountByStatus(ctx context.Context) (map[models.Status]int, error)
}

// RefreshStatusGauges reads the per-status counts once and publishes them.
func RefreshStatusGauges(ctx context.Context, counter StatusCounter) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	counts, err := counter.CountByStatus(ctx)
	if err != nil {
		return err
	}
	statuses := make([]string, 0, len(models.Statuses))
	byName := make(map[string]int, len(counts))
	for _, s := range models.Statuses {
		statuses = append(statuses, string(s))
		byName[string(s)] = counts[s]
	}
	metrics.SetAssetsByStatus(statuses, byName)
	return nil
}

// Run refreshes the asset status gauges once, then on every tick of the cron
// spec (e.g. "@every 1m") until ctx is cancelled.
func Run(ctx context.Context, spec string, counter StatusCounter) error {
	c := cron.New()

	refresh := func() {
		if err := RefreshStatusGauges(ctx, counter); err != nil {
			slog.Error("scheduler: refresh asset status gauges", "error", err)
		}
	}

	if _, err := c.AddFunc(spec, refresh); err != nil {
		return fmt.Errorf("scheduler: invalid cron spec %q: %w", spec, err)
	}
	slog.Info("scheduler: asset status gauges", "cron", spec)

	// Initial load
	refresh()
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}
