package biz

import (
	"context"
	"fmt"
	"time"

	"RentalHub/internal/model"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
)

// Stable error reasons for the rental request workflow.
const (
	reasonPropertyNotFound     = "PROPERTY_NOT_FOUND"
	reasonRequestNotFound      = "RENTAL_REQUEST_NOT_FOUND"
	reasonPropertyNotAvailable = "PROPERTY_NOT_AVAILABLE"
	reasonDuplicateRequest     = "RENTAL_REQUEST_EXISTS"
	reasonNotPropertyOwner     = "NOT_PROPERTY_OWNER"
	reasonTenantMismatch       = "TENANT_MISMATCH"
	reasonAdminOnly            = "ADMIN_ONLY"
	reasonNotRequestParty      = "NOT_REQUEST_PARTY"
)

// RentalRequestUsecase orchestrates the rental request lifecycle: creation,
// status transitions with cascading rejection, and deletion. It reaches the
// property service exclusively through the protected gateway and never
// retries failed calls itself; all probing lives inside the circuit breaker.
type RentalRequestUsecase struct {
	repo       RentalRequestRepo
	properties PropertyGateway
	notifier   NotificationDispatcher
	logger     *log.Helper
}

// NewRentalRequestUsecase creates the workflow usecase.
func NewRentalRequestUsecase(repo RentalRequestRepo, properties PropertyGateway, notifier NotificationDispatcher, logger log.Logger) *RentalRequestUsecase {
	return &RentalRequestUsecase{
		repo:       repo,
		properties: properties,
		notifier:   notifier,
		logger:     log.NewHelper(logger),
	}
}

// CreateRequest files a new PENDING request by tenantID against propertyID.
// It fails with NotFound when the property does not exist, and with Conflict
// when the property is unavailable or the tenant already holds an active
// request for it. The property owner is notified on success.
func (uc *RentalRequestUsecase) CreateRequest(ctx context.Context, propertyID, tenantID int64) (*model.RentalRequest, error) {
	property, err := uc.fetchProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	available, err := uc.properties.IsAvailable(ctx, property.ID)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, errors.Conflict(reasonPropertyNotAvailable, "this property is not available for rental")
	}

	exists, err := uc.repo.ExistsActive(ctx, propertyID, tenantID, model.ActiveStatuses)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing requests: %w", err)
	}
	if exists {
		return nil, errors.Conflict(reasonDuplicateRequest, "this property is already requested for rental")
	}

	req := &model.RentalRequest{
		PropertyID: propertyID,
		TenantID:   tenantID,
		Status:     model.StatusPending,
	}
	if err := uc.repo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create rental request: %w", err)
	}

	uc.logger.Infow("rental request created",
		"request_id", req.ID,
		"property_id", propertyID,
		"tenant_id", tenantID)

	uc.notify(ctx, model.EventRentalRequestCreated, []int64{property.OwnerID},
		"New rental request",
		"A tenant is interested in your property: "+property.Title,
		map[string]any{"tenant_id": req.TenantID, "request_id": req.ID})

	return req, nil
}

// ListForProperty returns all requests for a property. Only the property's
// owner may list them.
func (uc *RentalRequestUsecase) ListForProperty(ctx context.Context, propertyID int64, requester model.Principal) ([]*model.RentalRequest, error) {
	property, err := uc.fetchProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if property.OwnerID != requester.UserID {
		return nil, errors.Forbidden(reasonNotPropertyOwner, "only the property owner may list its rental requests")
	}
	return uc.repo.ListByProperty(ctx, propertyID)
}

// ListForTenant returns all requests filed by tenantID. Tenants may only
// list their own requests.
func (uc *RentalRequestUsecase) ListForTenant(ctx context.Context, tenantID int64, requester model.Principal) ([]*model.RentalRequest, error) {
	if tenantID != requester.UserID {
		return nil, errors.Forbidden(reasonTenantMismatch, "you are not allowed to view rental requests of another tenant")
	}
	return uc.repo.ListByTenant(ctx, tenantID)
}

// GetByID loads one request.
func (uc *RentalRequestUsecase) GetByID(ctx context.Context, requestID int64) (*model.RentalRequest, error) {
	return uc.repo.GetByID(ctx, requestID)
}

// ListAll returns every request in the system. Admin capability required.
func (uc *RentalRequestUsecase) ListAll(ctx context.Context, requester model.Principal) ([]*model.RentalRequest, error) {
	if !requester.Admin {
		return nil, errors.Forbidden(reasonAdminOnly, "only an admin may list all rental requests")
	}
	return uc.repo.ListAll(ctx)
}

// UpdateStatus transitions a request to newStatus. Only the property owner
// may transition a request.
//
// Accepting a request cascades: every other PENDING request for the same
// property is rejected and its tenants receive one grouped notification,
// the property is marked unavailable (a failure here aborts loudly, since
// acceptance must not leave the property marked available), and only then
// is the accepted status persisted. A reader therefore never observes the
// target request ACCEPTED while a sibling still shows PENDING.
func (uc *RentalRequestUsecase) UpdateStatus(ctx context.Context, requestID int64, newStatus model.RentalRequestStatus, requester model.Principal) (*model.RentalRequest, error) {
	req, err := uc.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	property, err := uc.fetchProperty(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if property.OwnerID != requester.UserID {
		return nil, errors.Forbidden(reasonNotPropertyOwner, "only the property owner may update a rental request")
	}

	switch newStatus {
	case model.StatusAccepted:
		rejectedTenants, err := uc.rejectOtherPending(ctx, req.PropertyID, req.ID)
		if err != nil {
			return nil, err
		}
		if len(rejectedTenants) > 0 {
			uc.notify(ctx, model.EventRentalRequestRejected, rejectedTenants,
				"Property no longer available",
				fmt.Sprintf("The property %q is unfortunately no longer available.", property.Title),
				map[string]any{"property_id": property.ID})
		}

		if err := uc.properties.SetAvailability(ctx, property.ID, false); err != nil {
			return nil, err
		}

		uc.notify(ctx, model.EventRentalRequestAccepted, []int64{req.TenantID},
			"Request accepted!",
			fmt.Sprintf("Congratulations! Your request for %q was accepted by the owner.", property.Title),
			map[string]any{"property_id": property.ID})

	case model.StatusRejected:
		uc.notify(ctx, model.EventRentalRequestRejected, []int64{req.TenantID},
			"Request rejected",
			fmt.Sprintf("Unfortunately, your request for %q was not retained.", property.Title),
			map[string]any{"property_id": property.ID})

	default:
		// Other target statuses persist without side effects. The source
		// system left their semantics unspecified, so no notification is
		// invented for them.
	}

	req.Status = newStatus
	if err := uc.repo.Save(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to persist status update: %w", err)
	}

	uc.logger.Infow("rental request status updated",
		"request_id", req.ID,
		"property_id", req.PropertyID,
		"status", string(newStatus))

	return req, nil
}

// DeleteRequest removes a request. The requester must be the request's
// tenant or an admin.
func (uc *RentalRequestUsecase) DeleteRequest(ctx context.Context, requestID int64, requester model.Principal) error {
	req, err := uc.repo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.TenantID != requester.UserID && !requester.Admin {
		return errors.Forbidden(reasonNotRequestParty, "only the requesting tenant or an admin may delete a rental request")
	}
	if err := uc.repo.Delete(ctx, requestID); err != nil {
		return fmt.Errorf("failed to delete rental request: %w", err)
	}

	uc.logger.Infow("rental request deleted", "request_id", requestID, "requester_id", requester.UserID)
	return nil
}

// PurgeTerminalRequests removes ACCEPTED/REJECTED requests older than the
// retention cutoff. Invoked by the retention cron job.
func (uc *RentalRequestUsecase) PurgeTerminalRequests(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	removed, err := uc.repo.DeleteTerminalBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("retention sweep failed: %w", err)
	}
	if removed > 0 {
		uc.logger.Infow("retention sweep removed terminal requests", "removed", removed, "cutoff", cutoff)
	}
	return removed, nil
}

// rejectOtherPending flips every other PENDING request for the property to
// REJECTED and returns the affected tenant ids.
func (uc *RentalRequestUsecase) rejectOtherPending(ctx context.Context, propertyID, acceptedRequestID int64) ([]int64, error) {
	pending, err := uc.repo.ListByPropertyAndStatus(ctx, propertyID, model.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending requests: %w", err)
	}

	var rejectedTenants []int64
	for _, sibling := range pending {
		if sibling.ID == acceptedRequestID {
			continue
		}
		sibling.Status = model.StatusRejected
		if err := uc.repo.Save(ctx, sibling); err != nil {
			return nil, fmt.Errorf("failed to reject request %d: %w", sibling.ID, err)
		}
		rejectedTenants = append(rejectedTenants, sibling.TenantID)
	}
	return rejectedTenants, nil
}

// fetchProperty loads a property through the protected gateway, translating
// the gateway's NotFound into the workflow's own NotFound.
func (uc *RentalRequestUsecase) fetchProperty(ctx context.Context, propertyID int64) (*model.Property, error) {
	property, err := uc.properties.GetByID(ctx, propertyID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound(reasonPropertyNotFound, "property not found")
		}
		return nil, err
	}
	return property, nil
}

// notify builds and enqueues one notification event. Delivery is
// fire-and-forget; the workflow does not wait for or inspect the result.
func (uc *RentalRequestUsecase) notify(ctx context.Context, eventType model.EventType, recipients []int64, title, message string, metadata map[string]any) {
	uc.notifier.Dispatch(ctx, &model.NotificationEvent{
		EventType:    eventType,
		RecipientIDs: recipients,
		Title:        title,
		Message:      message,
		Channels:     []model.Channel{model.ChannelPush},
		Metadata:     metadata,
	})
}
