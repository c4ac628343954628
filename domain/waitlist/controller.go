package waitlist

import (
	"errors"
	"io"
	"net/http"

	"github.com/akeren/waitlist-api/config/router"
	apperrors "github.com/akeren/waitlist-api/pkg/errors"
	"github.com/akeren/waitlist-api/pkg/factory"
	"github.com/akeren/waitlist-api/pkg/ratelimit"
)

func NewWaitlistController(opts Options) *router.RESTController {
	opts = opts.withDefaults()

	return router.NewVersionedRESTController(
		"WaitlistController",
		"v1",
		"/waitlist",
		func(rs *router.RouterService, c *router.RESTController) {
			service := mustPrepare(rs, opts)

			rs.AddPostHandler(c, createSignupRateLimiter(opts), "", signupHandler(service))
			rs.AddGetHandler(c, nil, "stats", statsHandler(service))
			rs.AddGetHandler(c, nil, "thanks", thanksHandler(service))
		},
	)
}

func createSignupRateLimiter(opts Options) ratelimit.RateLimiter {
	requests, window := opts.signupLimit()
	limiterFactory := factory.NewDefaultRateLimiterFactory(requests, window, opts.Cache, opts.Logger)
	opts.Logger.Info("Signup rate limiter configured",
		"requests", requests,
		"window", window,
		"distributed", limiterFactory.Distributed(),
	)
	return limiterFactory.CreateRateLimiter()
}

func signupHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req SignupRequest
		if err := ctx.ShouldBind(&req); err != nil {
			logger.Info("Failed to bind signup request", "error", err)

			if fields := apperrors.FormatValidationErrors(err, &req); len(fields) > 0 {
				return router.ValidationErrorResult(msgValidationFailed, fields)
			}
			if errors.Is(err, io.EOF) {
				return router.BadRequestResult("Request body is required", nil)
			}
			return router.BadRequestResult("Invalid request body", nil)
		}

		response, err := service.Signup(ctx.Request.Context(), &req, ctx.ClientIP())
		if err != nil {
			return router.ResultFromError(err)
		}

		status := http.StatusOK
		if response.IsNewUser {
			status = http.StatusCreated
		}
		return router.NewResult(status, response, response.Message)
	}
}

func statsHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		stats, err := service.GetStats(ctx.Request.Context())
		if err != nil {
			return router.ResultFromError(err)
		}

		return router.OKResult(stats, "Waitlist statistics retrieved successfully")
	}
}

func thanksHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		thanks, err := service.GetThanks(ctx.Request.Context(), ctx.Query("receipt"))
		if err != nil {
			return router.ResultFromError(err)
		}

		return router.OKResult(thanks, "Thank you for joining the waitlist")
	}
}
