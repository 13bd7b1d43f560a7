package biz

import (
	"context"
	"fmt"

	"RentalHub/internal/conf"
	"RentalHub/internal/model"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
)

const reasonScoringUnavailable = "SCORING_SERVICE_UNAVAILABLE"

// ScoringGateway is the typed interface over the remote tenant scoring model.
type ScoringGateway interface {
	Score(ctx context.Context, tenantID int64, missedPeriods, totalDisputes int) (*model.TenantScore, error)
}

// DisputeSummaryRepo reads the per-tenant dispute aggregate.
type DisputeSummaryRepo interface {
	GetByTenant(ctx context.Context, tenantID int64) (*model.DisputeSummary, error)
}

// PaymentReportRepo reads generated payment reports.
type PaymentReportRepo interface {
	GetLatestByTenant(ctx context.Context, tenantID int64) (*model.PaymentReport, error)
}

// TenantScoringUsecase assembles a tenant's payment and dispute history and
// consults the remote scoring model. The scoring service gets its own
// breaker instance; there is no safe default score, so a degraded call
// surfaces as ServiceUnavailable.
type TenantScoringUsecase struct {
	scoring  ScoringGateway
	disputes DisputeSummaryRepo
	payments PaymentReportRepo
	breaker  *CircuitBreaker
	logger   *log.Helper
}

// NewTenantScoringUsecase creates the scoring usecase with its own breaker.
func NewTenantScoringUsecase(scoring ScoringGateway, disputes DisputeSummaryRepo, payments PaymentReportRepo, rc *conf.Resilience, logger log.Logger) *TenantScoringUsecase {
	return &TenantScoringUsecase{
		scoring:  scoring,
		disputes: disputes,
		payments: payments,
		breaker:  NewCircuitBreaker(breakerConfigFrom("scoring-model", rc), logger),
		logger:   log.NewHelper(logger),
	}
}

// ScoreTenant computes the scoring model input for a tenant and returns the
// model's assessment. Tenants without dispute or payment history score with
// zeroed inputs.
func (uc *TenantScoringUsecase) ScoreTenant(ctx context.Context, tenantID int64) (*model.TenantScore, error) {
	missedPeriods := 0
	totalDisputes := 0

	report, err := uc.payments.GetLatestByTenant(ctx, tenantID)
	switch {
	case err == nil:
		missedPeriods = report.MissedPeriods
	case errors.IsNotFound(err):
		// No payment history yet.
	default:
		return nil, fmt.Errorf("failed to load payment report: %w", err)
	}

	dispute, err := uc.disputes.GetByTenant(ctx, tenantID)
	switch {
	case err == nil:
		totalDisputes = dispute.TotalDisputes
	case errors.IsNotFound(err):
		// No disputes on record.
	default:
		return nil, fmt.Errorf("failed to load dispute summary: %w", err)
	}

	return Execute(ctx, uc.breaker,
		func(ctx context.Context) (*model.TenantScore, error) {
			return uc.scoring.Score(ctx, tenantID, missedPeriods, totalDisputes)
		},
		func(ctx context.Context, cause error) (*model.TenantScore, error) {
			uc.logger.Errorw("fallback triggered for tenant scoring", "tenant_id", tenantID, "cause", cause)
			return nil, errors.ServiceUnavailable(reasonScoringUnavailable, "tenant scoring model is temporarily unavailable")
		})
}

// BreakerState exposes the scoring breaker state for monitoring.
func (uc *TenantScoringUsecase) BreakerState() BreakerState {
	return uc.breaker.State()
}

// ResetBreaker forces the scoring breaker back to CLOSED with a fresh window.
func (uc *TenantScoringUsecase) ResetBreaker() {
	uc.breaker.ForceClosed()
}
