package service

import (
	"context"

	"RentalHub/internal/biz"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
)

const (
	reasonBreakerNotFound = "BREAKER_NOT_FOUND"
	reasonAdminOnly       = "ADMIN_ONLY"

	breakerNameProperty = "property-service"
	breakerNameScoring  = "scoring-model"
)

// MonitorService exposes circuit breaker state for operations tooling and
// allows admins to force a breaker closed after a dependency recovers.
type MonitorService struct {
	gateway *biz.ProtectedPropertyGateway
	scoring *biz.TenantScoringUsecase
	logger  *log.Helper
}

// NewMonitorService creates a new MonitorService instance.
func NewMonitorService(gateway *biz.ProtectedPropertyGateway, scoring *biz.TenantScoringUsecase, logger log.Logger) *MonitorService {
	return &MonitorService{
		gateway: gateway,
		scoring: scoring,
		logger:  log.NewHelper(logger),
	}
}

// ListBreakers reports all circuit breakers and their current state.
func (s *MonitorService) ListBreakers(ctx context.Context) (*BreakerListReply, error) {
	if _, err := requirePrincipal(ctx); err != nil {
		return nil, err
	}

	return &BreakerListReply{
		Breakers: []*BreakerStateReply{
			{Name: breakerNameProperty, State: s.gateway.BreakerState().String()},
			{Name: breakerNameScoring, State: s.scoring.BreakerState().String()},
		},
	}, nil
}

// ResetBreaker forces one breaker back to CLOSED with a fresh window.
// Admin only.
func (s *MonitorService) ResetBreaker(ctx context.Context, name string) (*ResetBreakerReply, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if !principal.Admin {
		return nil, errors.Forbidden(reasonAdminOnly, "only an admin may reset a circuit breaker")
	}

	switch name {
	case breakerNameProperty:
		s.gateway.ResetBreaker()
		s.logger.Infow("circuit breaker forced closed", "breaker", name, "admin_id", principal.UserID)
		return &ResetBreakerReply{Success: true, State: s.gateway.BreakerState().String()}, nil
	case breakerNameScoring:
		s.scoring.ResetBreaker()
		s.logger.Infow("circuit breaker forced closed", "breaker", name, "admin_id", principal.UserID)
		return &ResetBreakerReply{Success: true, State: s.scoring.BreakerState().String()}, nil
	default:
		return nil, errors.NotFound(reasonBreakerNotFound, "no circuit breaker with that name")
	}
}
