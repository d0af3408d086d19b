// Package jobs contains the concrete scheduled jobs.
package jobs

import (
	"context"

	"github.com/jugesdebnath7/powercast/internal/inference"
	"github.com/jugesdebnath7/powercast/pkg/cache"
	"github.com/jugesdebnath7/powercast/pkg/logger"
)

// ForecastRefreshJob recomputes the forecast on a schedule so API
// requests hit a warm cache instead of running the pipeline inline.
type ForecastRefreshJob struct {
	service   *inference.Service
	respCache *cache.Cache
	version   string
	schedule  string
	log       *logger.Logger
}

// NewForecastRefreshJob creates the refresh job with the given cron
// schedule.
func NewForecastRefreshJob(service *inference.Service, respCache *cache.Cache, version, schedule string, log *logger.Logger) *ForecastRefreshJob {
	return &ForecastRefreshJob{
		service:   service,
		respCache: respCache,
		version:   version,
		schedule:  schedule,
		log:       log,
	}
}

// Name returns the job name.
func (j *ForecastRefreshJob) Name() string {
	return "forecast_refresh"
}

// Schedule returns the configured cron expression.
func (j *ForecastRefreshJob) Schedule() string {
	return j.schedule
}

// Run recomputes the forecast. The cached entry is invalidated first so
// the service performs a full pipeline run.
func (j *ForecastRefreshJob) Run(ctx context.Context) error {
	j.log.Info("Starting scheduled forecast refresh")

	if j.respCache != nil {
		if err := j.respCache.Delete(ctx, cache.PredictionsKey(j.version)); err != nil {
			j.log.WithError(err).Warn("Failed to invalidate forecast cache")
		}
	}

	preds, err := j.service.Run(ctx)
	if err != nil {
		return err
	}

	j.log.WithField("predictions", len(preds)).Info("Forecast refresh completed")
	return nil
}
