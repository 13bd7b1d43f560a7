package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/transport/http"
)

// Operation names used for middleware matching and request logging.
const (
	OperationCreateRentalRequest       = "/rentalhub.v1.RentalRequestService/CreateRentalRequest"
	OperationGetRentalRequest          = "/rentalhub.v1.RentalRequestService/GetRentalRequest"
	OperationListRequestsForProperty   = "/rentalhub.v1.RentalRequestService/ListRequestsForProperty"
	OperationListRequestsForTenant     = "/rentalhub.v1.RentalRequestService/ListRequestsForTenant"
	OperationListAllRentalRequests     = "/rentalhub.v1.RentalRequestService/ListAllRentalRequests"
	OperationUpdateRentalRequestStatus = "/rentalhub.v1.RentalRequestService/UpdateRentalRequestStatus"
	OperationDeleteRentalRequest       = "/rentalhub.v1.RentalRequestService/DeleteRentalRequest"
	OperationScoreTenant               = "/rentalhub.v1.ScoringService/ScoreTenant"
	OperationListBreakers              = "/rentalhub.v1.MonitorService/ListBreakers"
	OperationResetBreaker              = "/rentalhub.v1.MonitorService/ResetBreaker"
)

// RegisterRentalRequestHTTPServer mounts the rental request routes.
func RegisterRentalRequestHTTPServer(srv *http.Server, svc *RentalRequestService) {
	r := srv.Route("/")
	r.POST("/api/v1/rental-requests", handleCreateRentalRequest(svc))
	r.GET("/api/v1/rental-requests", handleListAllRentalRequests(svc))
	r.GET("/api/v1/rental-requests/{id}", handleGetRentalRequest(svc))
	r.PUT("/api/v1/rental-requests/{id}/status", handleUpdateRentalRequestStatus(svc))
	r.DELETE("/api/v1/rental-requests/{id}", handleDeleteRentalRequest(svc))
	r.GET("/api/v1/properties/{propertyId}/rental-requests", handleListRequestsForProperty(svc))
	r.GET("/api/v1/tenants/{tenantId}/rental-requests", handleListRequestsForTenant(svc))
}

// RegisterScoringHTTPServer mounts the tenant scoring routes.
func RegisterScoringHTTPServer(srv *http.Server, svc *ScoringService) {
	r := srv.Route("/")
	r.GET("/api/v1/tenants/{tenantId}/score", handleScoreTenant(svc))
}

// RegisterMonitorHTTPServer mounts the breaker monitoring routes.
func RegisterMonitorHTTPServer(srv *http.Server, svc *MonitorService) {
	r := srv.Route("/")
	r.GET("/api/v1/breakers", handleListBreakers(svc))
	r.POST("/api/v1/breakers/{name}/reset", handleResetBreaker(svc))
}

func handleCreateRentalRequest(svc *RentalRequestService) func(http.Context) error {
	return func(ctx http.Context) error {
		var in CreateRentalRequestRequest
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationCreateRentalRequest)
		h := ctx.Middleware(func(c context.Context, req interface{}) (interface{}, error) {
			return svc.CreateRentalRequest(c, req.(*CreateRentalRequestRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(201, out)
	}
}

func handleGetRentalRequest(svc *RentalRequestService) func(http.Context) error {
	return func(ctx http.Context) error {
		id, err := pathID(ctx, "id")
		if err != nil {
			return err
		}
		http.SetOperation(ctx, OperationGetRentalRequest)
		h := ctx.Middleware(func(c context.Context, _ interface{}) (interface{}, error) {
			return svc.GetRentalRequest(c, id)
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func handleListAllRentalRequests(svc *RentalRequestService) func(http.Context) error {
	return func(ctx http.Context) error {
		http.SetOperation(ctx, OperationListAllRentalRequests)
		h := ctx.Middleware(func(c context.Context, _ interface{}) (interface{}, error) {
			return svc.ListAllRentalRequests(c)
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func handleUpdateRentalRequestStatus(svc *RentalRequestService) func(http.Context) error {
	return func(ctx http.Context) error {
		id, err := pathID(ctx, "id")
		if err != nil {
			return err
		}
		var in UpdateRentalRequestStatusRequest
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationUpdateRentalRequestStatus)
		h := ctx.Middleware(func(c context.Context, req interface{}) (interface{}, error) {
			return svc.UpdateRentalRequestStatus(c, id, req.(*UpdateRentalRequestStatusRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func handleDeleteRentalRequest(svc *RentalRequestService) func(http.Context) error {
	return func(ctx http.Context) error {
		id, err := pathID(ctx, "id")
		if err != nil {
			return err
		}
		http.SetOperation(ctx, OperationDeleteRentalRequest)
		h := ctx.Middleware(func(c context.Context, _ interface{}) (interface{}, error) {
			return svc.DeleteRentalRequest(c, id)
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func handleListRequestsForProperty(svc *RentalRequestService) func(http.Context) error {
	return func(ctx http.Context) error {
		propertyID, err := pathID(ctx, "propertyId")
		if err != nil {
			return err
		}
		http.SetOperation(ctx, OperationListRequestsForProperty)
		h := ctx.Middleware(func(c context.Context, _ interface{}) (interface{}, error) {
			return svc.ListRequestsForProperty(c, propertyID)
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func handleListRequestsForTenant(svc *RentalRequestService) func(http.Context) error {
	return func(ctx http.Context) error {
		tenantID, err := pathID(ctx, "tenantId")
		if err != nil {
			return err
		}
		http.SetOperation(ctx, OperationListRequestsForTenant)
		h := ctx.Middleware(func(c context.Context, _ interface{}) (interface{}, error) {
			return svc.ListRequestsForTenant(c, tenantID)
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func handleScoreTenant(svc *ScoringService) func(http.Context) error {
	return func(ctx http.Context) error {
		tenantID, err := pathID(ctx, "tenantId")
		if err != nil {
			return err
		}
		http.SetOperation(ctx, OperationScoreTenant)
		h := ctx.Middleware(func(c context.Context, _ interface{}) (interface{}, error) {
			return svc.ScoreTenant(c, tenantID)
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func handleListBreakers(svc *MonitorService) func(http.Context) error {
	return func(ctx http.Context) error {
		http.SetOperation(ctx, OperationListBreakers)
		h := ctx.Middleware(func(c context.Context, _ interface{}) (interface{}, error) {
			return svc.ListBreakers(c)
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

func handleResetBreaker(svc *MonitorService) func(http.Context) error {
	return func(ctx http.Context) error {
		name := ctx.Vars().Get("name")
		if name == "" {
			return errors.BadRequest(reasonInvalidArgument, "breaker name is required")
		}
		http.SetOperation(ctx, OperationResetBreaker)
		h := ctx.Middleware(func(c context.Context, _ interface{}) (interface{}, error) {
			return svc.ResetBreaker(c, name)
		})
		out, err := h(ctx, nil)
		if err != nil {
			return err
		}
		return ctx.Result(200, out)
	}
}

// pathID parses a positive int64 path variable.
func pathID(ctx http.Context, key string) (int64, error) {
	raw := ctx.Vars().Get(key)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.BadRequest(reasonInvalidArgument, fmt.Sprintf("%s must be a positive id", key))
	}
	return id, nil
}
