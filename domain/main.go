package domain

import (
	"github.com/nimbuslabs/waitlist-service/config"
	"github.com/nimbuslabs/waitlist-service/domain/monitoring"
	"github.com/nimbuslabs/waitlist-service/domain/waitlist"
)

// SetupCoreDomain mounts every domain controller onto the router.
func SetupCoreDomain(appConfig *config.ApplicationConfig) {
	appConfig.RouterService.MountController(monitoring.NewMonitoringController(appConfig.DB, appConfig.Logger, appConfig.Cache))
	appConfig.RouterService.MountController(waitlist.NewWaitlistController(appConfig.DB, appConfig.Logger, appConfig.Catalog, appConfig.Notifier))
}
