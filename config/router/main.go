package router

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/akeren/resfi-api/internal/log"
	apperrors "github.com/akeren/resfi-api/pkg/errors"
	"github.com/akeren/resfi-api/pkg/factory"
	"github.com/akeren/resfi-api/pkg/ratelimit"
	"github.com/akeren/resfi-api/pkg/utils"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const (
	DefaultTimeoutDuration = 30 * time.Second
)

type MiddlewareConfig struct {
	TimeoutDuration time.Duration
}

type RouterService struct {
	engine           *gin.Engine
	server           *http.Server
	logger           *log.Logger
	limiterFactory   factory.RateLimiterFactory
	rateLimiter      ratelimit.RateLimiter
	middlewareConfig *MiddlewareConfig

	rateLimitRequests int
	rateLimitWindow   time.Duration

	handlerToControllerMap map[string]*RESTController
	rateLimitOverrides     map[string]ratelimit.RateLimiter
}

type RouterConfig struct {
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RequestTimeout    time.Duration
	CORSOrigins       []string
}

// CreateRouterService builds the gin engine with the shared middleware chain.
// A nil limiterFactory falls back to per-process limiters.
func CreateRouterService(logger *log.Logger, limiterFactory factory.RateLimiterFactory, routerConfig *RouterConfig) *RouterService {
	if mode, ok := os.LookupEnv("GIN_MODE"); ok && mode != "" {
		logger.Info("Setting Gin mode", "mode", mode)
		gin.SetMode(mode)
	}

	if limiterFactory == nil {
		limiterFactory = factory.NewDefaultRateLimiterFactory(nil, logger)
	}

	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())

	if utils.IsTracingEnabled() {
		ginRouter.Use(otelgin.Middleware(utils.OTelServiceName()))
		logger.Info("Tracing middleware enabled")
	}

	// ClientIP() only honours X-Forwarded-For for proxies listed in TRUSTED_PROXIES.
	trustedProxies := parseTrustedProxiesEnv(os.Getenv("TRUSTED_PROXIES"))
	if err := ginRouter.SetTrustedProxies(trustedProxies); err != nil {
		logger.Error("Invalid TRUSTED_PROXIES; disabling trusted proxies", "error", err)
		_ = ginRouter.SetTrustedProxies(nil)
	} else if trustedProxies == nil {
		logger.Info("Trusted proxies disabled (TRUSTED_PROXIES not set)")
	}

	rs := &RouterService{
		engine:            ginRouter,
		logger:            logger,
		limiterFactory:    limiterFactory,
		rateLimitRequests: routerConfig.RateLimitRequests,
		rateLimitWindow:   routerConfig.RateLimitWindow,
		middlewareConfig:  &MiddlewareConfig{TimeoutDuration: routerConfig.RequestTimeout},

		rateLimitOverrides:     make(map[string]ratelimit.RateLimiter),
		handlerToControllerMap: make(map[string]*RESTController),
	}

	rs.rateLimiter = limiterFactory.CreateRateLimiter(rs.rateLimitRequests, rs.rateLimitWindow)
	logger.Info("Rate limiting initialized",
		"requests", rs.rateLimitRequests,
		"window", rs.rateLimitWindow,
		"distributed", limiterFactory.Distributed(),
	)

	rs.mountMetrics()

	ginRouter.Use(rs.securityHeadersMiddleware())
	ginRouter.Use(rs.maxBodySizeMiddleware())
	ginRouter.Use(rs.corsMiddleware(routerConfig.CORSOrigins))
	ginRouter.Use(rs.rateLimitMiddleware())
	ginRouter.Use(rs.timeoutMiddleware())

	ginRouter.Use(rs.correlationIDMiddleware())
	ginRouter.Use(rs.loggerInjectionMiddleware())
	ginRouter.Use(rs.requestLoggingMiddleware())

	ginRouter.HandleMethodNotAllowed = true
	ginRouter.RedirectTrailingSlash = true

	ginRouter.NoRoute(func(c *gin.Context) {
		logger.WithCorrelationID(c.Request.Context()).Warn("Route not found", "path", c.Request.URL.Path)
		c.JSON(http.StatusNotFound, NotFoundResult("Route not found").ToJSON())
	})

	ginRouter.NoMethod(func(c *gin.Context) {
		logger.WithCorrelationID(c.Request.Context()).Warn("Method not allowed", "method", c.Request.Method, "path", c.Request.URL.Path)
		c.JSON(http.StatusMethodNotAllowed, ErrorResult(apperrors.StatusMethodNotAllowed, "Method not allowed", nil).ToJSON())
	})

	rs.server = &http.Server{
		Addr:    ":8080",
		Handler: ginRouter,

		// gin.Context is not goroutine-safe, so time limits live on the server.
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       routerConfig.RequestTimeout,
		WriteTimeout:      routerConfig.RequestTimeout,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("Router service initialized")
	return rs
}

func parseTrustedProxiesEnv(v string) []string {
	proxies := utils.SplitCSV(v)
	if len(proxies) == 0 {
		return nil
	}
	if len(proxies) == 1 && proxies[0] == "*" {
		return []string{"0.0.0.0/0", "::/0"}
	}
	return proxies
}

func (routerService *RouterService) GetDefaultRateLimitConfig() (int, time.Duration) {
	return routerService.rateLimitRequests, routerService.rateLimitWindow
}

// NewRateLimiter builds a route-level limiter backed by the same store as the global one.
func (routerService *RouterService) NewRateLimiter(requests int, window time.Duration) ratelimit.RateLimiter {
	return routerService.limiterFactory.CreateRateLimiter(requests, window)
}

func (routerService *RouterService) GetEngine() *gin.Engine {
	return routerService.engine
}

func (routerService *RouterService) GetLogger(c *RequestContext) *log.Logger {
	return routerService.logger.WithCorrelationID(c.Request.Context())
}

func (routerService *RouterService) Cleanup() {
	limiters := []ratelimit.RateLimiter{routerService.rateLimiter}
	for _, l := range routerService.rateLimitOverrides {
		limiters = append(limiters, l)
	}

	for _, l := range limiters {
		if l == nil {
			continue
		}
		if err := l.Close(); err != nil {
			routerService.logger.Error("Failed to close rate limiter", "error", err)
		}
	}
	routerService.logger.Info("Router service cleanup completed")
}

func (routerService *RouterService) MountController(controller *RESTController) {
	routerService.logger.Info("Mounting controller",
		"name", controller.name,
		"path", controller.mountPoint,
		"prefix", controller.prefix,
	)

	controller.prepare(routerService, controller)

	routerService.logger.Info("Controller mounted",
		"name", controller.name,
		"handlers", controller.handlerCount,
	)
}

func (routerService *RouterService) RunHTTPServer() error {
	addr := ":" + utils.GetEnvTrimmedOrDefault("APP_PORT", "8080")
	routerService.server.Addr = addr

	routerService.logger.Info("Starting HTTP server", "addr", addr)

	if err := routerService.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		routerService.logger.Error("Failed to start HTTP server", "error", err)
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

func (routerService *RouterService) Shutdown(ctx context.Context) error {
	routerService.logger.Info("Shutting down HTTP server gracefully...")
	return routerService.server.Shutdown(ctx)
}
