package service

import (
	"time"

	"RentalHub/internal/model"
)

// CreateRentalRequestRequest files a new request for a property. The tenant
// is the authenticated caller.
type CreateRentalRequestRequest struct {
	PropertyID int64 `json:"propertyId"`
}

// UpdateRentalRequestStatusRequest transitions a request to a new status.
type UpdateRentalRequestStatusRequest struct {
	Status string `json:"status"`
}

// RentalRequestReply is the wire representation of one rental request.
type RentalRequestReply struct {
	ID         int64     `json:"id"`
	PropertyID int64     `json:"propertyId"`
	TenantID   int64     `json:"tenantId"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// RentalRequestListReply carries a list of rental requests.
type RentalRequestListReply struct {
	Items []*RentalRequestReply `json:"items"`
	Total int                   `json:"total"`
}

// DeleteRentalRequestReply confirms a deletion.
type DeleteRentalRequestReply struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// TenantScoreReply is the scoring model's assessment of a tenant.
type TenantScoreReply struct {
	TenantID int64   `json:"tenantId"`
	Score    float64 `json:"score"`
	Label    string  `json:"label"`
}

// BreakerStateReply reports one circuit breaker's current state.
type BreakerStateReply struct {
	Name  string `json:"name"`
	State string `json:"state"`
}

// BreakerListReply reports all circuit breakers.
type BreakerListReply struct {
	Breakers []*BreakerStateReply `json:"breakers"`
}

// ResetBreakerReply confirms a manual breaker reset.
type ResetBreakerReply struct {
	Success bool   `json:"success"`
	State   string `json:"state"`
}

func toRentalRequestReply(req *model.RentalRequest) *RentalRequestReply {
	return &RentalRequestReply{
		ID:         req.ID,
		PropertyID: req.PropertyID,
		TenantID:   req.TenantID,
		Status:     string(req.Status),
		CreatedAt:  req.CreatedAt,
		UpdatedAt:  req.UpdatedAt,
	}
}

func toRentalRequestListReply(reqs []*model.RentalRequest) *RentalRequestListReply {
	items := make([]*RentalRequestReply, 0, len(reqs))
	for _, r := range reqs {
		items = append(items, toRentalRequestReply(r))
	}
	return &RentalRequestListReply{Items: items, Total: len(items)}
}
