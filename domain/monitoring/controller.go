package monitoring

import (
	"context"
	"net/http"
	"time"

	"github.com/akeren/resfi-api/config/router"
	"github.com/akeren/resfi-api/internal/log"
	"github.com/akeren/resfi-api/pkg/constants"
)

const (
	healthCheckTimeout      = 2 * time.Second
	healthRequestsPerMinute = 10
)

// Pinger is satisfied by every dependency the health endpoint reports on.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies groups the probes; a nil probe is reported as not configured.
type Dependencies struct {
	Database      Pinger
	DocumentStore Pinger
	Cache         Pinger
	MessageQueue  Pinger
}

type HealthStatus struct {
	Database      int `json:"database"`       // 1 = healthy, 0 = unhealthy
	DocumentStore int `json:"document_store"` // 1 = healthy, 0 = unhealthy/not configured
	Cache         int `json:"cache"`          // 1 = healthy, 0 = unhealthy/not configured
	MessageQueue  int `json:"message_queue"`  // 1 = healthy, 0 = unhealthy/not configured
	Uptime        int `json:"uptime"`         // seconds
}

type MonitoringController struct {
	deps      Dependencies
	logger    *log.Logger
	startTime time.Time
}

func newMonitoringController(deps Dependencies, logger *log.Logger) *MonitoringController {
	return &MonitoringController{deps: deps, logger: logger, startTime: time.Now()}
}

// NewRootController serves GET /api/.
func NewRootController() *router.RESTController {
	return router.NewPrefixedRESTController(
		"RootController",
		constants.APIPrefix,
		"/",
		func(rs *router.RouterService, c *router.RESTController) {
			rs.AddGetHandler(c, nil, "/", func(ctx *router.RequestContext) *router.ServiceResult {
				return router.OKResult(nil, "Hello World")
			})
		},
	)
}

// NewHealthController serves GET /health outside the API prefix.
func NewHealthController(deps Dependencies, logger *log.Logger) *router.RESTController {
	ctrl := newMonitoringController(deps, logger)

	return router.NewRESTController(
		"MonitoringController",
		"/health",
		func(rs *router.RouterService, c *router.RESTController) {
			limiter := rs.NewRateLimiter(healthRequestsPerMinute, time.Minute)

			rs.AddGetHandler(c, limiter, "", func(ctx *router.RequestContext) *router.ServiceResult {
				return ctrl.healthCheck(rs, ctx)
			})
		},
	)
}

func (ctrl *MonitoringController) healthCheck(rs *router.RouterService, c *router.RequestContext) *router.ServiceResult {
	logger := rs.GetLogger(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	return &router.ServiceResult{
		StatusCode: http.StatusOK,
		Data:       ctrl.performHealthChecks(ctx, logger),
		Message:    "resfi-api health check completed",
	}
}

func (ctrl *MonitoringController) performHealthChecks(ctx context.Context, logger *log.Logger) HealthStatus {
	return HealthStatus{
		Database:      probe(ctx, logger, "database", ctrl.deps.Database),
		DocumentStore: probe(ctx, logger, "document_store", ctrl.deps.DocumentStore),
		Cache:         probe(ctx, logger, "cache", ctrl.deps.Cache),
		MessageQueue:  probe(ctx, logger, "message_queue", ctrl.deps.MessageQueue),
		Uptime:        int(time.Since(ctrl.startTime).Seconds()),
	}
}

func probe(ctx context.Context, logger *log.Logger, name string, p Pinger) int {
	if p == nil {
		logger.Debug("Dependency not configured, health check skipped", "dependency", name)
		return 0
	}

	if err := p.Ping(ctx); err != nil {
		logger.Error("Health check failed", "dependency", name, "error", err)
		return 0
	}

	return 1
}
