package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/akeren/resfi-api/pkg/ratelimit"
)

func normalizePath(controller *RESTController, relativePath string) string {
	path := controller.mountPoint

	if relativePath != "" {
		path = path + "/" + relativePath
	}

	if path[0] != '/' {
		path = "/" + path
	}

	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}

	// An explicit trailing slash on the relative path is kept.
	if strings.HasSuffix(relativePath, "/") {
		return path
	}

	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	return path
}

func (routerService *RouterService) keyForPathAndMethod(path, method string) string {
	return fmt.Sprintf("%s-%s", method, path)
}

func (controller *RESTController) bindHandlerToController(routerService *RouterService, path, method string) {
	key := routerService.keyForPathAndMethod(path, method)

	if other, found := routerService.handlerToControllerMap[key]; found {
		panic(fmt.Sprintf("A handler is already registered for %s %s by controller '%s'", method, path, other.name))
	}

	routerService.handlerToControllerMap[key] = controller
}

func (routerService *RouterService) bindOverrideRateLimiter(key string, limiter ratelimit.RateLimiter) {
	if limiter == nil {
		return
	}

	if _, found := routerService.rateLimitOverrides[key]; found {
		panic(fmt.Sprintf("A rate limiter is already registered for '%s'", key))
	}

	routerService.rateLimitOverrides[key] = limiter
}

func createHandler(handler HandlerFunction) MiddlewareFunc {
	return func(c *RequestContext) {
		result := handler(c)

		if result == nil {
			c.JSON(http.StatusInternalServerError, InternalServerErrorResult("A handler returned an undefined result. This typically indicates a bug in a handler's implementation.").ToJSON())
			return
		}

		c.JSON(result.StatusCode, result.ToJSON())
	}
}

func NewRESTController(name, mountPoint string, prepare func(*RouterService, *RESTController)) *RESTController {
	return NewPrefixedRESTController(name, "", mountPoint, prepare)
}

// NewPrefixedRESTController mounts the controller below prefix (e.g. "api"),
// so every handler path already carries it.
func NewPrefixedRESTController(name, prefix, mountPoint string, prepare func(*RouterService, *RESTController)) *RESTController {
	finalPath := strings.ReplaceAll("/"+prefix+"/"+mountPoint, "//", "/")
	finalPath = strings.ReplaceAll(finalPath, "//", "/")

	return &RESTController{
		name:       name,
		mountPoint: finalPath,
		prefix:     prefix,
		prepare:    prepare,
	}
}

func (controller *RESTController) RateLimitWith(routerService *RouterService, limiter ratelimit.RateLimiter) *RESTController {
	routerService.bindOverrideRateLimiter(controller.mountPoint, limiter)
	return controller
}

func (routerService *RouterService) addHandler(
	method string,
	controller *RESTController,
	limiter ratelimit.RateLimiter,
	path string,
	handler HandlerFunction,
	middlewares ...MiddlewareFunc,
) {
	controller.handlerCount++
	fullPath := normalizePath(controller, path)
	controller.bindHandlerToController(routerService, fullPath, method)
	routerService.bindOverrideRateLimiter(routerService.keyForPathAndMethod(fullPath, method), limiter)
	routerService.engine.Handle(method, fullPath, append(middlewares, createHandler(handler))...)
	routerService.logger.Debug("Handler registered", "method", method, "path", fullPath)
}

func (routerService *RouterService) AddPostHandler(
	controller *RESTController,
	limiter ratelimit.RateLimiter,
	path string,
	handler HandlerFunction,
	middlewares ...MiddlewareFunc,
) {
	routerService.addHandler(http.MethodPost, controller, limiter, path, handler, middlewares...)
}

func (routerService *RouterService) AddGetHandler(
	controller *RESTController,
	limiter ratelimit.RateLimiter,
	path string,
	handler HandlerFunction,
	middlewares ...MiddlewareFunc,
) {
	routerService.addHandler(http.MethodGet, controller, limiter, path, handler, middlewares...)
}
