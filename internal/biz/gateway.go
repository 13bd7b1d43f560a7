package biz

import (
	"context"
	"fmt"

	"RentalHub/internal/model"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
)

// Stable error reasons for degraded property service calls.
const (
	reasonPropertyUnavailable = "PROPERTY_SERVICE_UNAVAILABLE"
)

// PropertyGateway is the typed interface over the remote property service.
// Implementations must return a kratos NotFound error when the property does
// not exist; any other error is treated as a dependency failure.
type PropertyGateway interface {
	GetByID(ctx context.Context, propertyID int64) (*model.Property, error)
	IsAvailable(ctx context.Context, propertyID int64) (bool, error)
	RentalType(ctx context.Context, propertyID int64) (model.RentalType, error)
	SetAvailability(ctx context.Context, propertyID int64, available bool) error
}

// ProtectedPropertyGateway wraps a PropertyGateway behind a circuit breaker
// with an explicit per-operation fallback policy. It is the single entry
// point the workflow uses to reach the property service.
//
// Fallback policy: reads that can degrade safely do so silently (availability
// reads as false, rental type falls back to the default category); fetching a
// property and both availability mutations fail loudly with ServiceUnavailable
// because no safe default exists for them.
type ProtectedPropertyGateway struct {
	gateway PropertyGateway
	breaker *CircuitBreaker
	logger  *log.Helper
}

// NewProtectedPropertyGateway constructs the protected gateway with its own
// breaker instance. NotFound responses from the property service are treated
// as healthy answers: they pass through to the caller and are not recorded
// as failures.
func NewProtectedPropertyGateway(gateway PropertyGateway, cfg BreakerConfig, logger log.Logger) *ProtectedPropertyGateway {
	cfg.Ignore = errors.IsNotFound
	helper := log.NewHelper(logger)

	breaker := NewCircuitBreaker(cfg, logger)
	breaker.Subscribe(func(ev BreakerEvent) {
		if ev.Kind == BreakerEventCallNotPermitted {
			helper.Warnw("property service call not permitted, circuit is open", "breaker", ev.Breaker)
		}
	})

	return &ProtectedPropertyGateway{
		gateway: gateway,
		breaker: breaker,
		logger:  helper,
	}
}

// GetByID fetches a property. There is no safe default for property data, so
// a denied or failed call surfaces as ServiceUnavailable.
func (g *ProtectedPropertyGateway) GetByID(ctx context.Context, propertyID int64) (*model.Property, error) {
	return Execute(ctx, g.breaker,
		func(ctx context.Context) (*model.Property, error) {
			return g.gateway.GetByID(ctx, propertyID)
		},
		func(ctx context.Context, cause error) (*model.Property, error) {
			g.logger.Errorw("fallback triggered for property fetch", "property_id", propertyID, "cause", cause)
			return nil, errors.ServiceUnavailable(reasonPropertyUnavailable,
				fmt.Sprintf("property service is temporarily unavailable, try again later (property %d)", propertyID))
		})
}

// IsAvailable reports whether a property can be rented. The fallback is the
// conservative answer: an unknown property state reads as unavailable.
func (g *ProtectedPropertyGateway) IsAvailable(ctx context.Context, propertyID int64) (bool, error) {
	return Execute(ctx, g.breaker,
		func(ctx context.Context) (bool, error) {
			return g.gateway.IsAvailable(ctx, propertyID)
		},
		func(ctx context.Context, cause error) (bool, error) {
			g.logger.Warnw("fallback triggered for availability check, returning false", "property_id", propertyID, "cause", cause)
			return false, nil
		})
}

// RentalType returns the property's rental category, falling back to the
// most common category when the property service is degraded.
func (g *ProtectedPropertyGateway) RentalType(ctx context.Context, propertyID int64) (model.RentalType, error) {
	return Execute(ctx, g.breaker,
		func(ctx context.Context) (model.RentalType, error) {
			return g.gateway.RentalType(ctx, propertyID)
		},
		func(ctx context.Context, cause error) (model.RentalType, error) {
			g.logger.Warnw("fallback triggered for rental type, returning default", "property_id", propertyID, "cause", cause)
			return model.RentalTypeMonthly, nil
		})
}

// SetAvailability flips the property's availability flag. Mutations must
// never silently no-op: the caller's invariants depend on the write landing,
// so a denied or failed call always surfaces as ServiceUnavailable.
func (g *ProtectedPropertyGateway) SetAvailability(ctx context.Context, propertyID int64, available bool) error {
	_, err := Execute(ctx, g.breaker,
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, g.gateway.SetAvailability(ctx, propertyID, available)
		},
		func(ctx context.Context, cause error) (struct{}, error) {
			g.logger.Errorw("fallback triggered for availability update",
				"property_id", propertyID,
				"available", available,
				"cause", cause)
			return struct{}{}, errors.ServiceUnavailable(reasonPropertyUnavailable,
				fmt.Sprintf("critical operation failed: unable to update availability of property %d", propertyID))
		})
	return err
}

// BreakerState exposes the breaker state for monitoring endpoints.
func (g *ProtectedPropertyGateway) BreakerState() BreakerState {
	return g.breaker.State()
}

// ResetBreaker forces the breaker back to CLOSED. Admin operation.
func (g *ProtectedPropertyGateway) ResetBreaker() {
	g.breaker.ForceClosed()
}

// SubscribeBreaker registers a monitoring callback on the underlying breaker.
func (g *ProtectedPropertyGateway) SubscribeBreaker(fn func(BreakerEvent)) {
	g.breaker.Subscribe(fn)
}
