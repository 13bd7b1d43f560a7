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

// PaymentReportPO is the GORM model for the payment_reports table.
type PaymentReportPO struct {
	ID                 int64     `gorm:"primaryKey;column:id"`
	TenantID           int64     `gorm:"column:tenant_id;not null;index"`
	TotalPaidSoFar     float64   `gorm:"column:total_paid_so_far;not null"`
	TotalExpectedSoFar float64   `gorm:"column:total_expected_so_far;not null"`
	PaidPeriods        int       `gorm:"column:paid_periods;not null"`
	MissedPeriods      int       `gorm:"column:missed_periods;not null"`
	Status             string    `gorm:"column:status;type:varchar(20);not null"`
	GeneratedAt        time.Time `gorm:"column:generated_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (PaymentReportPO) TableName() string {
	return "payment_reports"
}

// PaymentReportRepo is the GORM-backed payment report repository.
type PaymentReportRepo struct {
	db     *gorm.DB
	logger *log.Helper
}

// NewPaymentReportRepo creates the payment report repository.
func NewPaymentReportRepo(db *gorm.DB, logger log.Logger) *PaymentReportRepo {
	return &PaymentReportRepo{
		db:     db,
		logger: log.NewHelper(logger),
	}
}

// GetLatestByTenant loads the most recently generated report for a tenant.
// Returns a kratos NotFound error for tenants without payment history.
func (r *PaymentReportRepo) GetLatestByTenant(ctx context.Context, tenantID int64) (*model.PaymentReport, error) {
	var po PaymentReportPO
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("generated_at DESC").
		First(&po).Error
	if err != nil {
		if pkgerrors.IsNotFoundError(err) {
			return nil, errors.NotFound("PAYMENT_REPORT_NOT_FOUND", fmt.Sprintf("no payment report for tenant %d", tenantID))
		}
		return nil, fmt.Errorf("failed to load payment report for tenant %d: %w", tenantID, err)
	}

	return &model.PaymentReport{
		ID:                 po.ID,
		TenantID:           po.TenantID,
		TotalPaidSoFar:     po.TotalPaidSoFar,
		TotalExpectedSoFar: po.TotalExpectedSoFar,
		PaidPeriods:        po.PaidPeriods,
		MissedPeriods:      po.MissedPeriods,
		Status:             po.Status,
		GeneratedAt:        po.GeneratedAt,
	}, nil
}
