package service

import (
	"context"

	"RentalHub/internal/biz"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
)

const reasonScoreForbidden = "SCORE_ACCESS_DENIED"

// ScoringService exposes tenant scoring.
type ScoringService struct {
	uc     *biz.TenantScoringUsecase
	logger *log.Helper
}

// NewScoringService creates a new ScoringService instance.
func NewScoringService(uc *biz.TenantScoringUsecase, logger log.Logger) *ScoringService {
	return &ScoringService{
		uc:     uc,
		logger: log.NewHelper(logger),
	}
}

// ScoreTenant returns the scoring model's assessment of a tenant. Tenants may
// score themselves; admins may score anyone.
func (s *ScoringService) ScoreTenant(ctx context.Context, tenantID int64) (*TenantScoreReply, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if tenantID != principal.UserID && !principal.Admin {
		return nil, errors.Forbidden(reasonScoreForbidden, "you may only request your own score")
	}

	score, err := s.uc.ScoreTenant(ctx, tenantID)
	if err != nil {
		s.logger.Errorw("failed to score tenant", "tenant_id", tenantID, "error", err)
		return nil, err
	}

	return &TenantScoreReply{
		TenantID: score.TenantID,
		Score:    score.Score,
		Label:    score.Label,
	}, nil
}
