package status

import (
	"github.com/akeren/resfi-api/config/router"
	"github.com/akeren/resfi-api/pkg/constants"
)

func NewStatusController(service StatusCheckService) *router.RESTController {
	return router.NewPrefixedRESTController(
		"StatusController",
		constants.APIPrefix,
		"/status",
		func(rs *router.RouterService, c *router.RESTController) {
			rs.AddPostHandler(c, nil, "", createStatusCheckHandler(service))
			rs.AddGetHandler(c, nil, "", listStatusChecksHandler(service))
		},
	)
}

func createStatusCheckHandler(service StatusCheckService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		raw, err := ctx.GetRawData()
		if err != nil {
			return router.UnprocessableEntityResult("Invalid request body", nil)
		}

		clientName, err := ParseStatusCheck(raw)
		if err != nil {
			return router.AppErrorResult(err, &CreateStatusCheckRequest{})
		}

		response, err := service.CreateStatusCheck(ctx.Request.Context(), clientName)
		if err != nil {
			return router.AppErrorResult(err, nil)
		}

		return router.OKResult(response, MessageCreated)
	}
}

func listStatusChecksHandler(service StatusCheckService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		response, err := service.ListStatusChecks(ctx.Request.Context())
		if err != nil {
			return router.AppErrorResult(err, nil)
		}

		return router.OKResult(response, MessageListed)
	}
}
