package data

import (
	"context"
	"fmt"
	"time"

	"RentalHub/internal/model"
	pkgerrors "RentalHub/pkg/errors"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
)

// DisputeSummaryPO is the GORM model for the dispute_summaries table.
// One row per tenant, maintained by the dispute ingestion pipeline.
type DisputeSummaryPO struct {
	TenantID             int64      `gorm:"primaryKey;column:tenant_id"`
	TotalDisputes        int        `gorm:"column:total_disputes;not null"`
	DaysSinceLastDispute int        `gorm:"column:days_since_last_dispute;not null"`
	LastDisputeAt        *time.Time `gorm:"column:last_dispute_at"`
}

// TableName specifies the table name for GORM
func (DisputeSummaryPO) TableName() string {
	return "dispute_summaries"
}

// DisputeSummaryRepo is the GORM-backed dispute summary repository.
type DisputeSummaryRepo struct {
	db     *gorm.DB
	logger *log.Helper
}

// NewDisputeSummaryRepo creates the dispute summary repository.
func NewDisputeSummaryRepo(db *gorm.DB, logger log.Logger) *DisputeSummaryRepo {
	return &DisputeSummaryRepo{
		db:     db,
		logger: log.NewHelper(logger),
	}
}

// GetByTenant loads the tenant's dispute aggregate. Returns a kratos NotFound
// error for tenants without any disputes on record.
func (r *DisputeSummaryRepo) GetByTenant(ctx context.Context, tenantID int64) (*model.DisputeSummary, error) {
	var po DisputeSummaryPO
	err := r.db.WithContext(ctx).First(&po, "tenant_id = ?", tenantID).Error
	if err != nil {
		if pkgerrors.IsNotFoundError(err) {
			return nil, errors.NotFound("DISPUTE_SUMMARY_NOT_FOUND", fmt.Sprintf("no dispute summary for tenant %d", tenantID))
		}
		return nil, fmt.Errorf("failed to load dispute summary for tenant %d: %w", tenantID, err)
	}

	return &model.DisputeSummary{
		TenantID:             po.TenantID,
		TotalDisputes:        po.TotalDisputes,
		DaysSinceLastDispute: po.DaysSinceLastDispute,
		LastDisputeAt:        po.LastDisputeAt,
	}, nil
}
