// Package service exposes the business usecases over HTTP. Request and reply
// DTOs live here; the biz layer only sees domain types.
package service

import "github.com/google/wire"

// ProviderSet is service providers.
var ProviderSet = wire.NewSet(
	NewRentalRequestService,
	NewScoringService,
	NewMonitorService,
)
