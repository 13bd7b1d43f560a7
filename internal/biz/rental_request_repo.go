package biz

import (
	"context"
	"time"

	"RentalHub/internal/model"
)

// RentalRequestRepo is the persistence abstraction for rental request
// records. Implementations return a kratos NotFound error for missing
// records.
type RentalRequestRepo interface {
	// Create persists a new request and assigns its ID and timestamps.
	Create(ctx context.Context, req *model.RentalRequest) error

	// GetByID loads one request.
	GetByID(ctx context.Context, id int64) (*model.RentalRequest, error)

	// ListByProperty returns all requests filed against a property.
	ListByProperty(ctx context.Context, propertyID int64) ([]*model.RentalRequest, error)

	// ListByPropertyAndStatus returns the property's requests in one status.
	ListByPropertyAndStatus(ctx context.Context, propertyID int64, status model.RentalRequestStatus) ([]*model.RentalRequest, error)

	// ListByTenant returns all requests filed by a tenant.
	ListByTenant(ctx context.Context, tenantID int64) ([]*model.RentalRequest, error)

	// ListAll returns every request. Admin listing only.
	ListAll(ctx context.Context) ([]*model.RentalRequest, error)

	// Save upserts a request record.
	Save(ctx context.Context, req *model.RentalRequest) error

	// Delete removes a request.
	Delete(ctx context.Context, id int64) error

	// ExistsActive reports whether the tenant already has a request for the
	// property in any of the given statuses.
	ExistsActive(ctx context.Context, propertyID, tenantID int64, statuses []model.RentalRequestStatus) (bool, error)

	// DeleteTerminalBefore removes ACCEPTED/REJECTED requests older than the
	// cutoff. Used by the retention sweep.
	DeleteTerminalBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
