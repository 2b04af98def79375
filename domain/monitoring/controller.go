package monitoring

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/nimbuslabs/waitlist-service/config/router"
	"github.com/nimbuslabs/waitlist-service/internal/log"
	"github.com/nimbuslabs/waitlist-service/pkg/ratelimit"
)

// Cache is the slice of the cache client the health check needs.
type Cache interface {
	Ping(ctx context.Context) error
}

// HealthStatus reports each dependency as 1 (healthy) or 0 (unhealthy or
// not configured), plus process uptime in seconds.
type HealthStatus struct {
	Database int `json:"database"`
	Cache    int `json:"cache"`
	Uptime   int `json:"uptime"`
}

type MonitoringController struct {
	db        *gorm.DB
	logger    *log.Logger
	cache     Cache
	startTime time.Time
}

func NewMonitoringController(db *gorm.DB, logger *log.Logger, cache Cache) *router.RESTController {
	ctrl := &MonitoringController{
		db:        db,
		logger:    logger,
		cache:     cache,
		startTime: time.Now(),
	}

	return router.NewRESTController(
		"monitoring",
		"/",
		func(routerService *router.RouterService, controller *router.RESTController) {
			limiter := healthRateLimiter()

			routerService.AddGetHandler(controller, limiter, "", ctrl.root)
			routerService.AddGetHandler(controller, limiter, "health", ctrl.healthCheck)
		},
	)
}

// healthRateLimiter keeps probe endpoints tighter than the global limit.
func healthRateLimiter() ratelimit.RateLimiter {
	const requestsPerMinute = 10

	return ratelimit.New(&ratelimit.Config{
		Requests: requestsPerMinute,
		Window:   time.Minute,
	})
}

func (ctrl *MonitoringController) root(c *router.RequestContext) *router.ServiceResult {
	return router.OKResult("waitlist-service is operational", "Service is up")
}

func (ctrl *MonitoringController) healthCheck(c *router.RequestContext) *router.ServiceResult {
	logger := router.GetLogger(c)

	status := HealthStatus{
		Uptime: int(time.Since(ctrl.startTime).Seconds()),
	}

	ctx := c.Request.Context()

	if ctrl.checkDatabase(ctx) {
		status.Database = 1
	} else {
		logger.Error("Database health check failed")
	}

	if ctrl.cache != nil && ctrl.cache.Ping(ctx) == nil {
		status.Cache = 1
	}

	return router.OKResult(status, "Health check completed")
}

func (ctrl *MonitoringController) checkDatabase(ctx context.Context) bool {
	sqlDB, err := ctrl.db.DB()
	if err != nil {
		return false
	}

	return sqlDB.PingContext(ctx) == nil
}
