// Package model contains the domain types shared between the biz and data layers.
package model

import "time"

// RentalRequestStatus is the lifecycle state of a rental request.
type RentalRequestStatus string

// Rental request lifecycle states. A request is created PENDING and moves to
// ACCEPTED or REJECTED exactly once; both are terminal.
const (
	StatusPending  RentalRequestStatus = "PENDING"
	StatusAccepted RentalRequestStatus = "ACCEPTED"
	StatusRejected RentalRequestStatus = "REJECTED"
)

// ActiveStatuses are the states that block a tenant from filing another
// request for the same property.
var ActiveStatuses = []RentalRequestStatus{StatusPending, StatusAccepted}

// RentalRequest is a tenant's request to rent a property.
type RentalRequest struct {
	ID         int64
	PropertyID int64
	TenantID   int64
	Status     RentalRequestStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// RentalType is the billing period category of a property.
type RentalType string

// Rental type categories as exposed by the property service.
const (
	RentalTypeDaily   RentalType = "DAILY"
	RentalTypeWeekly  RentalType = "WEEKLY"
	RentalTypeMonthly RentalType = "MONTHLY"
)

// Property is the view of a property record this service consumes from the
// remote property service. Only the fields the workflow needs are mapped.
type Property struct {
	ID        int64
	OwnerID   int64
	Title     string
	Available bool
}

// Principal identifies the already-authenticated caller of an operation.
// Token decoding happens upstream; this service only consumes the result.
type Principal struct {
	UserID int64
	Admin  bool
}

// TenantScore is the scoring model's assessment of a tenant.
type TenantScore struct {
	TenantID int64
	Score    float64
	Label    string
}

// DisputeSummary aggregates a tenant's dispute history. One row per tenant.
type DisputeSummary struct {
	TenantID             int64
	TotalDisputes        int
	DaysSinceLastDispute int
	LastDisputeAt        *time.Time
}

// PaymentReport is a generated payment history report for a tenant.
type PaymentReport struct {
	ID                 int64
	TenantID           int64
	TotalPaidSoFar     float64
	TotalExpectedSoFar float64
	PaidPeriods        int
	MissedPeriods      int
	Status             string
	GeneratedAt        time.Time
}
