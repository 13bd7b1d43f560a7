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

// RentalRequestPO is the GORM model for the rental_requests table.
type RentalRequestPO struct {
	ID         int64     `gorm:"primaryKey;column:id"`
	PropertyID int64     `gorm:"column:property_id;not null;index:idx_property_status"`
	TenantID   int64     `gorm:"column:tenant_id;not null;index"`
	Status     string    `gorm:"column:status;type:varchar(20);not null;index:idx_property_status"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (RentalRequestPO) TableName() string {
	return "rental_requests"
}

func (p *RentalRequestPO) toModel() *model.RentalRequest {
	return &model.RentalRequest{
		ID:         p.ID,
		PropertyID: p.PropertyID,
		TenantID:   p.TenantID,
		Status:     model.RentalRequestStatus(p.Status),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func toRentalRequestPO(req *model.RentalRequest) *RentalRequestPO {
	return &RentalRequestPO{
		ID:         req.ID,
		PropertyID: req.PropertyID,
		TenantID:   req.TenantID,
		Status:     string(req.Status),
		CreatedAt:  req.CreatedAt,
		UpdatedAt:  req.UpdatedAt,
	}
}

// RentalRequestRepo is the GORM-backed rental request repository.
type RentalRequestRepo struct {
	db     *gorm.DB
	logger *log.Helper
}

// NewRentalRequestRepo creates the rental request repository.
func NewRentalRequestRepo(db *gorm.DB, logger log.Logger) *RentalRequestRepo {
	return &RentalRequestRepo{
		db:     db,
		logger: log.NewHelper(logger),
	}
}

// Create persists a new request and writes the assigned ID and timestamps
// back into req.
func (r *RentalRequestRepo) Create(ctx context.Context, req *model.RentalRequest) error {
	po := toRentalRequestPO(req)
	if err := r.db.WithContext(ctx).Create(po).Error; err != nil {
		dbErr := pkgerrors.ClassifyDBError(err)
		r.logger.Errorw("failed to create rental request",
			"property_id", req.PropertyID,
			"tenant_id", req.TenantID,
			"error", dbErr)
		if dbErr.Type == pkgerrors.ErrorTypeDuplicateKey {
			return errors.Conflict("RENTAL_REQUEST_EXISTS", "rental request already exists")
		}
		return fmt.Errorf("failed to create rental request: %w", err)
	}

	req.ID = po.ID
	req.CreatedAt = po.CreatedAt
	req.UpdatedAt = po.UpdatedAt
	return nil
}

// GetByID loads one request. Returns a kratos NotFound error when the record
// does not exist.
func (r *RentalRequestRepo) GetByID(ctx context.Context, id int64) (*model.RentalRequest, error) {
	var po RentalRequestPO
	err := r.db.WithContext(ctx).First(&po, "id = ?", id).Error
	if err != nil {
		if pkgerrors.IsNotFoundError(err) {
			return nil, errors.NotFound("RENTAL_REQUEST_NOT_FOUND", fmt.Sprintf("rental request %d not found", id))
		}
		return nil, fmt.Errorf("failed to load rental request %d: %w", id, err)
	}
	return po.toModel(), nil
}

// ListByProperty returns all requests filed against a property, newest first.
func (r *RentalRequestRepo) ListByProperty(ctx context.Context, propertyID int64) ([]*model.RentalRequest, error) {
	var pos []RentalRequestPO
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("created_at DESC").
		Find(&pos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list rental requests for property %d: %w", propertyID, err)
	}
	return toModels(pos), nil
}

// ListByPropertyAndStatus returns the property's requests in one status.
func (r *RentalRequestRepo) ListByPropertyAndStatus(ctx context.Context, propertyID int64, status model.RentalRequestStatus) ([]*model.RentalRequest, error) {
	var pos []RentalRequestPO
	err := r.db.WithContext(ctx).
		Where("property_id = ? AND status = ?", propertyID, string(status)).
		Order("created_at DESC").
		Find(&pos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s rental requests for property %d: %w", status, propertyID, err)
	}
	return toModels(pos), nil
}

// ListByTenant returns all requests filed by a tenant, newest first.
func (r *RentalRequestRepo) ListByTenant(ctx context.Context, tenantID int64) ([]*model.RentalRequest, error) {
	var pos []RentalRequestPO
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&pos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list rental requests for tenant %d: %w", tenantID, err)
	}
	return toModels(pos), nil
}

// ListAll returns every request, newest first. Admin listing only.
func (r *RentalRequestRepo) ListAll(ctx context.Context) ([]*model.RentalRequest, error) {
	var pos []RentalRequestPO
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&pos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list rental requests: %w", err)
	}
	return toModels(pos), nil
}

// Save upserts a request record.
func (r *RentalRequestRepo) Save(ctx context.Context, req *model.RentalRequest) error {
	po := toRentalRequestPO(req)
	if err := r.db.WithContext(ctx).Save(po).Error; err != nil {
		dbErr := pkgerrors.ClassifyDBError(err)
		r.logger.Errorw("failed to save rental request",
			"request_id", req.ID,
			"status", req.Status,
			"error", dbErr)
		return fmt.Errorf("failed to save rental request %d: %w", req.ID, err)
	}
	req.UpdatedAt = po.UpdatedAt
	return nil
}

// Delete removes a request. Returns NotFound when no row was deleted.
func (r *RentalRequestRepo) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&RentalRequestPO{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete rental request %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NotFound("RENTAL_REQUEST_NOT_FOUND", fmt.Sprintf("rental request %d not found", id))
	}
	return nil
}

// ExistsActive reports whether the tenant already has a request for the
// property in any of the given statuses.
func (r *RentalRequestRepo) ExistsActive(ctx context.Context, propertyID, tenantID int64, statuses []model.RentalRequestStatus) (bool, error) {
	strs := make([]string, 0, len(statuses))
	for _, s := range statuses {
		strs = append(strs, string(s))
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&RentalRequestPO{}).
		Where("property_id = ? AND tenant_id = ? AND status IN ?", propertyID, tenantID, strs).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check existing rental requests: %w", err)
	}
	return count > 0, nil
}

// DeleteTerminalBefore removes ACCEPTED/REJECTED requests last updated before
// the cutoff. Returns the number of rows deleted.
func (r *RentalRequestRepo) DeleteTerminalBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("status IN ? AND updated_at < ?",
			[]string{string(model.StatusAccepted), string(model.StatusRejected)}, cutoff).
		Delete(&RentalRequestPO{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge terminal rental requests: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func toModels(pos []RentalRequestPO) []*model.RentalRequest {
	out := make([]*model.RentalRequest, 0, len(pos))
	for i := range pos {
		out = append(out, pos[i].toModel())
	}
	return out
}
