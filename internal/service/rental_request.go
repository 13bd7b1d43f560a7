package service

import (
	"context"

	"RentalHub/internal/biz"
	"RentalHub/internal/model"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"
)

const (
	reasonUnauthenticated = "UNAUTHENTICATED"
	reasonInvalidStatus   = "INVALID_STATUS"
	reasonInvalidArgument = "INVALID_ARGUMENT"
)

// RentalRequestService exposes the rental request workflow.
type RentalRequestService struct {
	uc     *biz.RentalRequestUsecase
	logger *log.Helper
}

// NewRentalRequestService creates a new RentalRequestService instance.
func NewRentalRequestService(uc *biz.RentalRequestUsecase, logger log.Logger) *RentalRequestService {
	return &RentalRequestService{
		uc:     uc,
		logger: log.NewHelper(logger),
	}
}

// CreateRentalRequest files a new PENDING request for the caller.
func (s *RentalRequestService) CreateRentalRequest(ctx context.Context, req *CreateRentalRequestRequest) (*RentalRequestReply, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if req.PropertyID <= 0 {
		return nil, errors.BadRequest(reasonInvalidArgument, "propertyId must be a positive id")
	}

	s.logger.Infow("CreateRentalRequest called", "property_id", req.PropertyID, "tenant_id", principal.UserID)

	created, err := s.uc.CreateRequest(ctx, req.PropertyID, principal.UserID)
	if err != nil {
		s.logger.Errorw("failed to create rental request", "property_id", req.PropertyID, "error", err)
		return nil, err
	}

	return toRentalRequestReply(created), nil
}

// GetRentalRequest loads one request by id.
func (s *RentalRequestService) GetRentalRequest(ctx context.Context, id int64) (*RentalRequestReply, error) {
	if _, err := requirePrincipal(ctx); err != nil {
		return nil, err
	}

	req, err := s.uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toRentalRequestReply(req), nil
}

// ListRequestsForProperty lists a property's requests for its owner.
func (s *RentalRequestService) ListRequestsForProperty(ctx context.Context, propertyID int64) (*RentalRequestListReply, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}

	reqs, err := s.uc.ListForProperty(ctx, propertyID, principal)
	if err != nil {
		return nil, err
	}
	return toRentalRequestListReply(reqs), nil
}

// ListRequestsForTenant lists a tenant's own requests.
func (s *RentalRequestService) ListRequestsForTenant(ctx context.Context, tenantID int64) (*RentalRequestListReply, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}

	reqs, err := s.uc.ListForTenant(ctx, tenantID, principal)
	if err != nil {
		return nil, err
	}
	return toRentalRequestListReply(reqs), nil
}

// ListAllRentalRequests lists every request. Admin only.
func (s *RentalRequestService) ListAllRentalRequests(ctx context.Context) (*RentalRequestListReply, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}

	reqs, err := s.uc.ListAll(ctx, principal)
	if err != nil {
		return nil, err
	}
	return toRentalRequestListReply(reqs), nil
}

// UpdateRentalRequestStatus transitions a request. Property owner only.
func (s *RentalRequestService) UpdateRentalRequestStatus(ctx context.Context, id int64, req *UpdateRentalRequestStatusRequest) (*RentalRequestReply, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}

	status := model.RentalRequestStatus(req.Status)
	switch status {
	case model.StatusPending, model.StatusAccepted, model.StatusRejected:
	default:
		return nil, errors.BadRequest(reasonInvalidStatus, "status must be one of PENDING, ACCEPTED, REJECTED")
	}

	s.logger.Infow("UpdateRentalRequestStatus called", "request_id", id, "status", req.Status)

	updated, err := s.uc.UpdateStatus(ctx, id, status, principal)
	if err != nil {
		s.logger.Errorw("failed to update rental request status", "request_id", id, "error", err)
		return nil, err
	}

	return toRentalRequestReply(updated), nil
}

// DeleteRentalRequest removes a request. Requesting tenant or admin only.
func (s *RentalRequestService) DeleteRentalRequest(ctx context.Context, id int64) (*DeleteRentalRequestReply, error) {
	principal, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("DeleteRentalRequest called", "request_id", id)

	if err := s.uc.DeleteRequest(ctx, id, principal); err != nil {
		s.logger.Errorw("failed to delete rental request", "request_id", id, "error", err)
		return nil, err
	}

	return &DeleteRentalRequestReply{
		Success: true,
		Message: "Rental request deleted successfully",
	}, nil
}

// requirePrincipal returns the authenticated caller or an Unauthorized error.
func requirePrincipal(ctx context.Context) (model.Principal, error) {
	principal, ok := model.PrincipalFromContext(ctx)
	if !ok {
		return model.Principal{}, errors.Unauthorized(reasonUnauthenticated, "request carries no identity")
	}
	return principal, nil
}
