// Package server assembles the transport layer.
package server

import (
	"RentalHub/internal/conf"
	"RentalHub/internal/server/middleware"
	"RentalHub/internal/service"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"
	"github.com/google/wire"
)

// ProviderSet is server providers.
var ProviderSet = wire.NewSet(NewHTTPServer)

// NewHTTPServer new an HTTP server.
func NewHTTPServer(
	c *conf.Server,
	rentalRequests *service.RentalRequestService,
	scoring *service.ScoringService,
	monitor *service.MonitorService,
	logger log.Logger,
) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
			middleware.Identity(logger),
			middleware.Logging(logger),
		),
	}
	if c.Http.Network != "" {
		opts = append(opts, http.Network(c.Http.Network))
	}
	if c.Http.Addr != "" {
		opts = append(opts, http.Address(c.Http.Addr))
	}
	if c.Http.Timeout != nil {
		opts = append(opts, http.Timeout(c.Http.Timeout.AsDuration()))
	}
	srv := http.NewServer(opts...)

	service.RegisterRentalRequestHTTPServer(srv, rentalRequests)
	service.RegisterScoringHTTPServer(srv, scoring)
	service.RegisterMonitorHTTPServer(srv, monitor)

	return srv
}
