package waitlist

import (
	"errors"
	"net/http"
	"time"

	"github.com/akeren/resfi-api/config/router"
	"github.com/akeren/resfi-api/pkg/constants"
)

// Signups are write-heavy and public; listing keeps the global budget.
const signupRequestsPerMinute = 30

func NewWaitlistController(service WaitlistService) *router.RESTController {
	return router.NewPrefixedRESTController(
		"WaitlistController",
		constants.APIPrefix,
		"/waitlist",
		func(rs *router.RouterService, c *router.RESTController) {
			signupLimiter := rs.NewRateLimiter(signupRequestsPerMinute, time.Minute)

			rs.AddPostHandler(c, signupLimiter, "", submitWaitlistEntryHandler(service))
			rs.AddGetHandler(c, nil, "", getAllWaitlistEntriesHandler(service))
		},
	)
}

func submitWaitlistEntryHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		raw, err := ctx.GetRawData()
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return router.ErrorResult(http.StatusRequestEntityTooLarge, "Request payload too large", nil)
			}
			logger.Warn("Failed to read request body", "error", err)
			return router.UnprocessableEntityResult("Invalid request body", nil)
		}

		entry, err := ParseSubmission(raw)
		if err != nil {
			logger.Info("Rejected waitlist submission", "error", err)
			return router.AppErrorResult(err, &SubmitWaitlistRequest{})
		}

		response, err := service.SubmitEntry(ctx.Request.Context(), entry)
		if err != nil {
			return router.AppErrorResult(err, nil)
		}

		return router.CreatedResult(response, MessageJoined)
	}
}

func getAllWaitlistEntriesHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		response, err := service.GetAllEntries(ctx.Request.Context())
		if err != nil {
			return router.AppErrorResult(err, nil)
		}

		return router.OKResult(response, MessageListed)
	}
}
