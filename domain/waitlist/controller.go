package waitlist

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/nimbuslabs/waitlist-service/config/router"
	"github.com/nimbuslabs/waitlist-service/internal/i18n"
	"github.com/nimbuslabs/waitlist-service/internal/log"
	"github.com/nimbuslabs/waitlist-service/internal/notify"
	apperrors "github.com/nimbuslabs/waitlist-service/pkg/errors"
	"github.com/nimbuslabs/waitlist-service/pkg/ratelimit"
)

// signupRateLimit caps public signups per client, tighter than the global
// limit so one client cannot churn the table.
const (
	signupRateLimitRequests = 30
	signupRateLimitWindow   = time.Minute
)

type controller struct {
	logger  *log.Logger
	service SignupService
	catalog *i18n.Catalog
}

// NewWaitlistController mounts the waitlist endpoints under /v1/waitlist.
func NewWaitlistController(db *gorm.DB, logger *log.Logger, catalog *i18n.Catalog, notifier notify.Notifier) *router.RESTController {
	ctrl := &controller{
		logger:  logger,
		service: NewSignupService(logger, NewEntryStore(db), notifier),
		catalog: catalog,
	}

	return router.NewVersionedRESTController("waitlist", "v1", "/waitlist", func(routerService *router.RouterService, restController *router.RESTController) {
		signupLimiter := ratelimit.NewInMemoryRateLimiter(signupRateLimitRequests, signupRateLimitWindow)

		routerService.AddPostHandler(restController, signupLimiter, "", ctrl.signup)
		routerService.AddGetHandler(restController, nil, "", ctrl.list)
	})
}

func (c *controller) localizer(ctx *router.RequestContext) *i18n.Localizer {
	return c.catalog.Localizer(ctx.GetHeader("Accept-Language"))
}

func (c *controller) signup(ctx *router.RequestContext) *router.ServiceResult {
	loc := c.localizer(ctx)

	var req SignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return router.BadRequestResult("Invalid request payload", apperrors.FormatValidationErrors(err, &req))
	}

	resp, err := c.service.Signup(ctx.Request.Context(), &req, loc)
	if err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			return router.BadRequestResult(
				loc.Lookup("hero.waitlist.toast.error.title"),
				validationErr.Localize(loc),
			)
		}

		router.GetLogger(ctx).Error("signup request failed", "error", err)

		return router.ErrorResult(apperrors.HTTPStatusCode(err), apperrors.GetHumanReadableMessage(err), nil)
	}

	return router.CreatedResult(resp, loc.Lookup("hero.waitlist.toast.success.title"))
}

func (c *controller) list(ctx *router.RequestContext) *router.ServiceResult {
	entries, err := c.service.ListEntries(ctx.Request.Context())
	if err != nil {
		router.GetLogger(ctx).Error("listing waitlist entries failed", "error", err)

		return router.ErrorResult(apperrors.HTTPStatusCode(err), apperrors.GetHumanReadableMessage(err), nil)
	}

	return router.OKResult(entries, "Waitlist entries retrieved")
}
