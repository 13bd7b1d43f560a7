//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package main

import (
	"RentalHub/internal/biz"
	"RentalHub/internal/conf"
	"RentalHub/internal/data"
	"RentalHub/internal/server"
	"RentalHub/internal/service"

	"github.com/go-kratos/kratos/v2"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
)

// wireApp init kratos application.
func wireApp(*conf.Server, *conf.Data, *conf.Property, *conf.Scoring, *conf.Notify, *conf.Resilience, *conf.Jobs, log.Logger) (*kratos.App, func(), error) {
	panic(wire.Build(
		data.ProviderSet,
		biz.ProviderSet,
		service.ProviderSet,
		server.ProviderSet,
		newCron,
		newApp,
	))
}
