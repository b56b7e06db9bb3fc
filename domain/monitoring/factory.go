package monitoring

import (
	"github.com/akeren/resfi-api/config/router"
	"github.com/akeren/resfi-api/internal/log"
)

type MonitoringControllerFactory interface {
	CreateControllers() []*router.RESTController
}

type DefaultMonitoringControllerFactory struct {
	deps   Dependencies
	logger *log.Logger
}

func NewMonitoringControllerFactory(deps Dependencies, logger *log.Logger) MonitoringControllerFactory {
	return &DefaultMonitoringControllerFactory{
		deps:   deps,
		logger: logger,
	}
}

func (f *DefaultMonitoringControllerFactory) CreateControllers() []*router.RESTController {
	return []*router.RESTController{
		NewRootController(),
		NewHealthController(f.deps, f.logger),
	}
}
