package waitlist

import (
	"gorm.io/gorm"

	"github.com/nimbuslabs/waitlist-service/config/router"
	"github.com/nimbuslabs/waitlist-service/internal/i18n"
	"github.com/nimbuslabs/waitlist-service/internal/log"
	"github.com/nimbuslabs/waitlist-service/internal/notify"
)

type ServiceFactory interface {
	CreateService() SignupService
	CreateController() *router.RESTController
}

type DefaultServiceFactory struct {
	db       *gorm.DB
	logger   *log.Logger
	catalog  *i18n.Catalog
	notifier notify.Notifier
}

func NewServiceFactory(db *gorm.DB, logger *log.Logger, catalog *i18n.Catalog, notifier notify.Notifier) ServiceFactory {
	return &DefaultServiceFactory{
		db:       db,
		logger:   logger,
		catalog:  catalog,
		notifier: notifier,
	}
}

func (f *DefaultServiceFactory) CreateService() SignupService {
	return NewSignupService(f.logger, NewEntryStore(f.db), f.notifier)
}

func (f *DefaultServiceFactory) CreateController() *router.RESTController {
	return NewWaitlistController(f.db, f.logger, f.catalog, f.notifier)
}
