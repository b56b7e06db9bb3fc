package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/akeren/resfi-api/internal/log"
	"github.com/akeren/resfi-api/pkg/factory"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func init() {
	gin.SetMode(gin.TestMode)
}

func mountTestController(rs *RouterService) {
	ctrl := NewPrefixedRESTController("TestController", "api", "/", func(rs *RouterService, c *RESTController) {
		rs.AddGetHandler(c, nil, "ip", func(ctx *RequestContext) *ServiceResult {
			return OKResult(ctx.ClientIP(), "ok")
		})

		rs.AddPostHandler(c, nil, "echo", func(ctx *RequestContext) *ServiceResult {
			var payload map[string]any
			if err := ctx.ShouldBindJSON(&payload); err != nil {
				return BadRequestResult("bad", nil)
			}
			return OKResult(payload, "ok")
		})

		rs.AddGetHandler(c, rs.NewRateLimiter(1, time.Minute), "limited", func(ctx *RequestContext) *ServiceResult {
			return OKResult(nil, "ok")
		})

		rs.AddGetHandler(c, nil, "nil", func(ctx *RequestContext) *ServiceResult {
			return nil
		})
	})

	rs.MountController(ctrl)
}

func newTestRouterService(t *testing.T, limiterFactory factory.RateLimiterFactory, origins ...string) *RouterService {
	t.Helper()

	rs := CreateRouterService(log.NewLoggerWithJSONOutput(), limiterFactory, &RouterConfig{
		RateLimitRequests: 1000,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    5 * time.Second,
		CORSOrigins:       origins,
	})
	t.Cleanup(rs.Cleanup)
	return rs
}

func serve(rs *RouterService, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var resp envelope
	require.NoError(t, json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(&resp))
	return resp
}

func TestTrustedProxies_DisabledByDefault(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "")

	rs := newTestRouterService(t, nil)
	mountTestController(rs)

	req := httptest.NewRequest(http.MethodGet, "/api/ip", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	req.Header.Set("X-Forwarded-For", "1.1.1.1")

	w := serve(rs, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decodeEnvelope(t, w)
	assert.True(t, resp.Success)
	assert.JSONEq(t, `"10.0.0.2"`, string(resp.Data))
}

func TestTrustedProxies_StarTrustsForwardedFor(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "*")

	rs := newTestRouterService(t, nil)
	mountTestController(rs)

	req := httptest.NewRequest(http.MethodGet, "/api/ip", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	req.Header.Set("X-Forwarded-For", "1.1.1.1")

	w := serve(rs, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `"1.1.1.1"`, string(decodeEnvelope(t, w).Data))
}

func TestMaxBodySize_Returns413(t *testing.T) {
	t.Setenv("MAX_REQUEST_BODY_BYTES", "10")

	rs := newTestRouterService(t, nil)
	mountTestController(rs)

	req := httptest.NewRequest(http.MethodPost, "/api/echo", bytes.NewReader(bytes.Repeat([]byte{'a'}, 50)))
	req.Header.Set("Content-Type", "application/json")

	w := serve(rs, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.False(t, decodeEnvelope(t, w).Success)
}

func TestUnknownRoute_Returns404Envelope(t *testing.T) {
	rs := newTestRouterService(t, nil)
	mountTestController(rs)

	w := serve(rs, httptest.NewRequest(http.MethodGet, "/api/missing", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := decodeEnvelope(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestWrongMethod_Returns405Envelope(t *testing.T) {
	rs := newTestRouterService(t, nil)
	mountTestController(rs)

	w := serve(rs, httptest.NewRequest(http.MethodDelete, "/api/ip", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	resp := decodeEnvelope(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.Code)
	assert.Equal(t, "Method not allowed", resp.Message)
}

func TestNilHandlerResult_Returns500(t *testing.T) {
	rs := newTestRouterService(t, nil)
	mountTestController(rs)

	w := serve(rs, httptest.NewRequest(http.MethodGet, "/api/nil", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRouteLimiter_Returns429WithRetryAfter(t *testing.T) {
	rs := newTestRouterService(t, nil)
	mountTestController(rs)

	first := serve(rs, httptest.NewRequest(http.MethodGet, "/api/limited", nil))
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))

	second := serve(rs, httptest.NewRequest(http.MethodGet, "/api/limited", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "60", second.Header().Get("Retry-After"))

	// Other routes keep the global budget.
	other := serve(rs, httptest.NewRequest(http.MethodGet, "/api/ip", nil))
	assert.Equal(t, http.StatusOK, other.Code)
}

func TestRouteLimiter_SharesRedisWhenDistributed(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := factory.NewRedisRateLimiterFactory(client, nil)
	first := newTestRouterService(t, f)
	mountTestController(first)
	second := newTestRouterService(t, f)
	mountTestController(second)

	require.Equal(t, http.StatusOK, serve(first, httptest.NewRequest(http.MethodGet, "/api/limited", nil)).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(second, httptest.NewRequest(http.MethodGet, "/api/limited", nil)).Code)
}

func TestCORS_AllowsConfiguredOrigin(t *testing.T) {
	rs := newTestRouterService(t, nil, "https://resfi.ai")
	mountTestController(rs)

	req := httptest.NewRequest(http.MethodGet, "/api/ip", nil)
	req.Header.Set("Origin", "https://resfi.ai")

	w := serve(rs, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://resfi.ai", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_WildcardEchoesOriginWithCredentials(t *testing.T) {
	rs := newTestRouterService(t, nil, "*")
	mountTestController(rs)

	req := httptest.NewRequest(http.MethodGet, "/api/ip", nil)
	req.Header.Set("Origin", "https://app.resfi.ai")

	w := serve(rs, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://app.resfi.ai", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORS_RejectsUnknownOrigin(t *testing.T) {
	rs := newTestRouterService(t, nil, "https://resfi.ai")
	mountTestController(rs)

	req := httptest.NewRequest(http.MethodGet, "/api/ip", nil)
	req.Header.Set("Origin", "https://evil.example")

	w := serve(rs, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_PreflightIsAnsweredBeforeRouting(t *testing.T) {
	rs := newTestRouterService(t, nil)
	mountTestController(rs)

	req := httptest.NewRequest(http.MethodOptions, "/api/echo", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	w := serve(rs, req)
	assert.Less(t, w.Code, 300)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestMetricsEndpoint_ExposesRequestCounters(t *testing.T) {
	rs := newTestRouterService(t, nil)
	mountTestController(rs)

	serve(rs, httptest.NewRequest(http.MethodGet, "/api/ip", nil))
	w := serve(rs, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `resfi_api_http_requests_total{method="GET",route="/api/ip",status="200"} 1`)
}

func TestAddHandler_DuplicateRegistrationPanics(t *testing.T) {
	rs := newTestRouterService(t, nil)

	ctrl := NewRESTController("Dup", "dup", func(rs *RouterService, c *RESTController) {
		rs.AddGetHandler(c, nil, "", func(ctx *RequestContext) *ServiceResult { return OKResult(nil, "") })
		rs.AddGetHandler(c, nil, "", func(ctx *RequestContext) *ServiceResult { return OKResult(nil, "") })
	})

	assert.Panics(t, func() { rs.MountController(ctrl) })
}

func TestNormalizePath(t *testing.T) {
	ctrl := NewPrefixedRESTController("Waitlist", "api", "waitlist", nil)

	assert.Equal(t, "/api/waitlist", normalizePath(ctrl, ""))
	assert.Equal(t, "/api/waitlist/export", normalizePath(ctrl, "export"))
	assert.Equal(t, "/api/waitlist/export/", normalizePath(ctrl, "/export/"))

	root := NewPrefixedRESTController("Root", "api", "/", nil)
	assert.Equal(t, "/api", normalizePath(root, ""))
	assert.Equal(t, "/api/", normalizePath(root, "/"))
}
