package domain

import (
	"github.com/akeren/resfi-api/config"
	"github.com/akeren/resfi-api/domain/monitoring"
	"github.com/akeren/resfi-api/domain/status"
	"github.com/akeren/resfi-api/domain/waitlist"
)

func SetupCoreDomain(appConfig *config.ApplicationConfig) {
	rs := appConfig.RouterService

	waitlistFactory := waitlist.NewWaitlistServiceFactory(appConfig.DB, appConfig.Logger, appConfig.EventPublisher)
	deps := monitoring.Dependencies{Database: waitlistFactory.CreateRepository()}

	if appConfig.Cache != nil {
		deps.Cache = appConfig.Cache
	}
	if pinger, ok := appConfig.EventPublisher.(monitoring.Pinger); ok {
		deps.MessageQueue = pinger
	}

	rs.MountController(waitlistFactory.CreateController())

	if appConfig.DocStore != nil {
		statusFactory := status.NewStatusServiceFactory(appConfig.DocStore, appConfig.Logger)
		deps.DocumentStore = statusFactory.CreateRepository()
		rs.MountController(statusFactory.CreateController())
	}

	for _, controller := range monitoring.NewMonitoringControllerFactory(deps, appConfig.Logger).CreateControllers() {
		rs.MountController(controller)
	}
}
