package status

import (
	"github.com/akeren/resfi-api/config/router"
	"github.com/akeren/resfi-api/internal/log"
	"github.com/akeren/resfi-api/pkg/circuitbreaker"
	"go.mongodb.org/mongo-driver/mongo"
)

type StatusServiceFactory interface {
	CreateRepository() StatusCheckRepository
	CreateService() StatusCheckService
	CreateController() *router.RESTController
}

type DefaultStatusServiceFactory struct {
	db      *mongo.Database
	logger  *log.Logger
	breaker circuitbreaker.CircuitBreaker
}

// NewStatusServiceFactory shares one circuit breaker between every repository it builds.
func NewStatusServiceFactory(db *mongo.Database, logger *log.Logger) StatusServiceFactory {
	return &DefaultStatusServiceFactory{
		db:      db,
		logger:  logger,
		breaker: circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig()),
	}
}

func (f *DefaultStatusServiceFactory) CreateRepository() StatusCheckRepository {
	return NewStatusCheckRepository(f.db, f.breaker)
}

func (f *DefaultStatusServiceFactory) CreateService() StatusCheckService {
	return NewStatusCheckService(f.logger, f.CreateRepository())
}

func (f *DefaultStatusServiceFactory) CreateController() *router.RESTController {
	return NewStatusController(f.CreateService())
}
