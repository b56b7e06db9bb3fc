package router

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/akeren/resfi-api/internal/log"
	apperrors "github.com/akeren/resfi-api/pkg/errors"
	"github.com/akeren/resfi-api/pkg/ratelimit"
	"github.com/akeren/resfi-api/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
)

func (routerService *RouterService) correlationIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Correlation-ID")
		if id == "" {
			id = log.GenerateCorrelationID()
		}
		ctx := context.WithValue(c.Request.Context(), log.CorrelatedIDKey, id)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Correlation-ID", id)
		c.Next()
	}
}

func (routerService *RouterService) loggerInjectionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlatedLogger := routerService.logger.WithCorrelationID(c.Request.Context())
		ctx := context.WithValue(c.Request.Context(), log.LoggerKeyForContext, correlatedLogger)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (routerService *RouterService) requestLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		routerService.logger.WithCorrelationID(c.Request.Context()).Info("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"remote_addr", c.ClientIP(),
		)
	}
}

func (routerService *RouterService) securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")

		if shouldSetHSTS(c) {
			h.Set("Strict-Transport-Security", buildHSTSValue())
		}
		c.Next()
	}
}

func shouldSetHSTS(c *gin.Context) bool {
	enabled := false
	if raw := utils.GetEnvTrimmed("HSTS_ENABLED"); raw != "" {
		if b, err := strconv.ParseBool(raw); err == nil {
			enabled = b
		}
	} else {
		appEnv := strings.ToLower(utils.GetEnvTrimmed("APP_ENV"))
		enabled = appEnv == "production" || appEnv == "prod"
	}

	if !enabled {
		return false
	}

	if c.Request.TLS != nil {
		return true
	}
	// TLS terminated at a reverse proxy.
	return strings.EqualFold(strings.TrimSpace(c.GetHeader("X-Forwarded-Proto")), "https")
}

func buildHSTSValue() string {
	maxAge := int64(31536000)
	if raw := utils.GetEnvTrimmed("HSTS_MAX_AGE"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 {
			maxAge = parsed
		}
	}

	value := fmt.Sprintf("max-age=%d", maxAge)
	if raw := utils.GetEnvTrimmed("HSTS_INCLUDE_SUBDOMAINS"); raw == "" {
		value += "; includeSubDomains"
	} else if parsed, err := strconv.ParseBool(raw); err == nil && parsed {
		value += "; includeSubDomains"
	}
	return value
}

func (routerService *RouterService) maxBodySizeMiddleware() gin.HandlerFunc {
	maxBytes := int64(1 << 20)
	if raw := strings.TrimSpace(os.Getenv("MAX_REQUEST_BODY_BYTES")); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 {
			maxBytes = parsed
		}
	}

	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, ErrorResult(
				http.StatusRequestEntityTooLarge,
				"Request payload too large",
				nil,
			).ToJSON())
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// corsMiddleware runs go-chi/cors in front of the gin chain. Preflight requests
// are answered by the cors handler and never reach a route.
func (routerService *RouterService) corsMiddleware(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	opts := cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Correlation-ID", "X-RateLimit-Limit", "X-RateLimit-Window", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}

	// A bare "*" cannot be sent with credentials, so the request origin is echoed back.
	if slices.Contains(origins, "*") {
		opts.AllowedOrigins = nil
		opts.AllowOriginFunc = func(_ *http.Request, _ string) bool { return true }
	}

	policy := cors.New(opts)

	routerService.logger.Info("CORS configured", "origins", origins)

	return func(c *gin.Context) {
		reached := false
		policy.Handler(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			reached = true
			c.Request = r
			c.Next()
		})).ServeHTTP(c.Writer, c.Request)

		if !reached {
			c.Abort()
		}
	}
}

func (routerService *RouterService) timeoutMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), routerService.middlewareConfig.TimeoutDuration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		// Mid-flight enforcement is left to the http.Server timeouts.
		if ctx.Err() == context.DeadlineExceeded && !c.Writer.Written() {
			routerService.logger.WithCorrelationID(c.Request.Context()).Warn("Request timeout detected")
			c.AbortWithStatusJSON(http.StatusRequestTimeout, ErrorResult(
				apperrors.StatusRequestTimeout,
				"Request timeout",
				nil,
			).ToJSON())
		}
	}
}

// limiterFor resolves the limiter for a route: handler override, then
// controller override, then the global limiter.
func (routerService *RouterService) limiterFor(handlerKey string, controller *RESTController) ratelimit.RateLimiter {
	if l, ok := routerService.rateLimitOverrides[handlerKey]; ok {
		return l
	}
	if l, ok := routerService.rateLimitOverrides[controller.mountPoint]; ok {
		return l
	}
	return routerService.rateLimiter
}

func (routerService *RouterService) rateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Unmatched requests fall through to the NoRoute and NoMethod handlers.
		if c.FullPath() == "" {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		handlerPath := c.Request.URL.Path
		handlerKey := routerService.keyForPathAndMethod(c.FullPath(), c.Request.Method)

		controller, found := routerService.handlerToControllerMap[handlerKey]
		if !found || controller == nil {
			routerService.logger.Warn("Request for a path without a controller mapping", "method", c.Request.Method, "path", handlerPath)
			c.AbortWithStatusJSON(http.StatusNotFound, NotFoundResult(fmt.Sprintf("There is no handler configured to handle any resource at the path %s", handlerPath)).ToJSON())
			return
		}

		limiter := routerService.limiterFor(handlerKey, controller)
		limit, window := limiter.GetLimitDetails()
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Window", window.String())

		// One bucket per client and route.
		key := fmt.Sprintf("%s:%s", clientIP, handlerKey)
		limited, err := limiter.IsLimited(c.Request.Context(), key)
		if err != nil {
			// Fail open.
			routerService.logger.Error("Rate limiter error", "error", err, "client_ip", clientIP)
			c.Next()
			return
		}

		if limited {
			routerService.logger.Warn("Rate limit exceeded", "client_ip", clientIP, "path", handlerPath)
			retryAfterSeconds := int(math.Ceil(window.Seconds()))
			if retryAfterSeconds < 1 {
				retryAfterSeconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfterSeconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, TooManyRequestsResult(RateLimitResponse{
				Limit:      limit,
				Window:     window.String(),
				RetryAfter: strconv.Itoa(retryAfterSeconds),
			}).ToJSON())
			return
		}

		c.Next()
	}
}
