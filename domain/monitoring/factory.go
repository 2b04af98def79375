package monitoring

import (
	"gorm.io/gorm"

	"github.com/nimbuslabs/waitlist-service/config/router"
	"github.com/nimbuslabs/waitlist-service/internal/log"
)

type ControllerFactory interface {
	CreateController() *router.RESTController
}

type DefaultControllerFactory struct {
	db     *gorm.DB
	logger *log.Logger
	cache  Cache
}

func NewControllerFactory(db *gorm.DB, logger *log.Logger, cache Cache) ControllerFactory {
	return &DefaultControllerFactory{
		db:     db,
		logger: logger,
		cache:  cache,
	}
}

func (f *DefaultControllerFactory) CreateController() *router.RESTController {
	return NewMonitoringController(f.db, f.logger, f.cache)
}
