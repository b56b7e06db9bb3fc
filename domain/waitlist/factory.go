package waitlist

import (
	"github.com/akeren/resfi-api/config/router"
	"github.com/akeren/resfi-api/internal/log"
	"github.com/akeren/resfi-api/pkg/events"
	"gorm.io/gorm"
)

type WaitlistServiceFactory interface {
	CreateRepository() WaitlistRepository
	CreateService() WaitlistService
	CreateController() *router.RESTController
}

type DefaultWaitlistServiceFactory struct {
	db        *gorm.DB
	logger    *log.Logger
	publisher events.Publisher
}

// NewWaitlistServiceFactory accepts a nil publisher; signup events are then skipped.
func NewWaitlistServiceFactory(db *gorm.DB, logger *log.Logger, publisher events.Publisher) WaitlistServiceFactory {
	return &DefaultWaitlistServiceFactory{
		db:        db,
		logger:    logger,
		publisher: publisher,
	}
}

func (f *DefaultWaitlistServiceFactory) CreateRepository() WaitlistRepository {
	return NewWaitlistRepository(f.db)
}

func (f *DefaultWaitlistServiceFactory) CreateService() WaitlistService {
	return NewWaitlistService(f.logger, f.CreateRepository(), f.publisher)
}

func (f *DefaultWaitlistServiceFactory) CreateController() *router.RESTController {
	return NewWaitlistController(f.CreateService())
}
