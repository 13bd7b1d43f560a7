package data

import (
	"context"
	"fmt"
	"time"

	"RentalHub/internal/conf"
	"RentalHub/internal/model"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-resty/resty/v2"
)

// scoreRequestDTO is the scoring model's request payload.
type scoreRequestDTO struct {
	TenantID      int64 `json:"tenantId"`
	MissedPeriods int   `json:"missedPeriods"`
	TotalDisputes int   `json:"totalDisputes"`
}

// scoreResponseDTO is the scoring model's response payload.
type scoreResponseDTO struct {
	Score float64 `json:"score"`
	Label string  `json:"label"`
}

// ScoringClient is the raw HTTP client for the remote tenant scoring model.
// Resilience handling lives in the scoring usecase's breaker.
type ScoringClient struct {
	http   *resty.Client
	logger *log.Helper
}

// NewScoringClient creates the scoring model client.
func NewScoringClient(c *conf.Scoring, logger log.Logger) *ScoringClient {
	timeout := 5 * time.Second
	if c.Timeout != nil && c.Timeout.AsDuration() > 0 {
		timeout = c.Timeout.AsDuration()
	}

	client := resty.New().
		SetBaseURL(c.BaseUrl).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &ScoringClient{
		http:   client,
		logger: log.NewHelper(logger),
	}
}

// Score submits a tenant's history features to the scoring model.
func (s *ScoringClient) Score(ctx context.Context, tenantID int64, missedPeriods, totalDisputes int) (*model.TenantScore, error) {
	var dto scoreResponseDTO
	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(scoreRequestDTO{
			TenantID:      tenantID,
			MissedPeriods: missedPeriods,
			TotalDisputes: totalDisputes,
		}).
		SetResult(&dto).
		Post("/predict/score")
	if err != nil {
		return nil, fmt.Errorf("scoring service request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("scoring service returned status %d", resp.StatusCode())
	}

	return &model.TenantScore{
		TenantID: tenantID,
		Score:    dto.Score,
		Label:    dto.Label,
	}, nil
}
