package main

import (
	"context"
	"time"

	"RentalHub/internal/biz"
	"RentalHub/internal/conf"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/robfig/cron/v3"
)

// newCron starts the background jobs:
//   - retention sweep: removes terminal rental requests older than the
//     configured retention window, daily at 03:00
//   - breaker report: logs circuit breaker states hourly so operators can
//     spot a dependency that never recovers
func newCron(
	uc *biz.RentalRequestUsecase,
	gateway *biz.ProtectedPropertyGateway,
	scoring *biz.TenantScoringUsecase,
	jobs *conf.Jobs,
	logger log.Logger,
) (*cron.Cron, func(), error) {
	helper := log.NewHelper(logger)

	retention := 90 * 24 * time.Hour
	if jobs != nil && jobs.RetentionMaxAge != nil && jobs.RetentionMaxAge.AsDuration() > 0 {
		retention = jobs.RetentionMaxAge.AsDuration()
	}

	c := cron.New(cron.WithSeconds())

	// Daily at 03:00
	_, err := c.AddFunc("0 0 3 * * *", func() {
		helper.Info("Starting rental request retention sweep...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		removed, err := uc.PurgeTerminalRequests(ctx, retention)
		if err != nil {
			helper.Errorw("retention sweep failed", "error", err)
			return
		}
		helper.Infow("retention sweep completed", "removed", removed)
	})
	if err != nil {
		return nil, nil, err
	}

	// Hourly breaker state report
	_, err = c.AddFunc("0 0 * * * *", func() {
		helper.Infow("circuit breaker states",
			"property_service", gateway.BreakerState().String(),
			"scoring_model", scoring.BreakerState().String())
	})
	if err != nil {
		return nil, nil, err
	}

	c.Start()
	helper.Infow("cron jobs started", "retention", retention.String())

	cleanup := func() {
		helper.Info("stopping cron jobs")
		<-c.Stop().Done()
	}

	return c, cleanup, nil
}
