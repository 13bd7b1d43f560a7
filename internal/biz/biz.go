// Package biz contains business logic layer implementations.
// This layer holds the core business rules and domain models.
package biz

import (
	"RentalHub/internal/conf"
	"RentalHub/internal/data"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

// ProviderSet is biz providers.
var ProviderSet = wire.NewSet(
	NewPropertyGateway,
	NewRentalRequestUsecase,
	NewTenantScoringUsecase,
	// Import data layer providers
	data.NewRentalRequestRepo,
	data.NewPropertyClient,
	data.NewScoringClient,
	data.NewDisputeSummaryRepo,
	data.NewPaymentReportRepo,
	data.NewNotificationDispatcher,
	// Bind data layer implementations to biz layer interfaces
	wire.Bind(new(PropertyGateway), new(*ProtectedPropertyGateway)),
	wire.Bind(new(RentalRequestRepo), new(*data.RentalRequestRepo)),
	wire.Bind(new(ScoringGateway), new(*data.ScoringClient)),
	wire.Bind(new(DisputeSummaryRepo), new(*data.DisputeSummaryRepo)),
	wire.Bind(new(PaymentReportRepo), new(*data.PaymentReportRepo)),
	wire.Bind(new(NotificationDispatcher), new(*data.AsyncNotificationDispatcher)),
)

// NewPropertyGateway wraps the raw property client in the protected gateway
// consumed by the workflow.
func NewPropertyGateway(client *data.PropertyClient, rc *conf.Resilience, logger log.Logger) *ProtectedPropertyGateway {
	return NewProtectedPropertyGateway(client, breakerConfigFrom("property-service", rc), logger)
}

// breakerConfigFrom builds one dependency's breaker config from the shared
// resilience settings, falling back to the standard tuning when unset.
func breakerConfigFrom(name string, rc *conf.Resilience) BreakerConfig {
	cfg := DefaultBreakerConfig(name)
	if rc == nil {
		return cfg
	}
	if rc.WindowSize > 0 {
		cfg.WindowSize = int(rc.WindowSize)
	}
	if rc.MinimumCalls > 0 {
		cfg.MinimumCalls = int(rc.MinimumCalls)
	}
	if rc.FailureThreshold > 0 {
		cfg.FailureThreshold = rc.FailureThreshold
	}
	if rc.WaitDuration != nil && rc.WaitDuration.AsDuration() > 0 {
		cfg.WaitDuration = rc.WaitDuration.AsDuration()
	}
	if rc.HalfOpenPermits > 0 {
		cfg.HalfOpenPermits = int(rc.HalfOpenPermits)
	}
	return cfg
}
