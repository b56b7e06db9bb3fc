package status

import (
	"context"
	"time"

	"github.com/akeren/resfi-api/internal/log"
	"github.com/akeren/resfi-api/internal/models"
	"github.com/akeren/resfi-api/pkg/constants"
	"github.com/google/uuid"
)

type StatusCheckService interface {
	CreateStatusCheck(ctx context.Context, clientName string) (*StatusCheckResponse, error)
	ListStatusChecks(ctx context.Context) ([]StatusCheckResponse, error)
}

type statusCheckService struct {
	logger     *log.Logger
	repository StatusCheckRepository
	now        func() time.Time
}

func NewStatusCheckService(logger *log.Logger, repository StatusCheckRepository) StatusCheckService {
	return &statusCheckService{logger: logger, repository: repository, now: time.Now}
}

func (s *statusCheckService) CreateStatusCheck(ctx context.Context, clientName string) (*StatusCheckResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	check := &models.StatusCheck{
		ID:         uuid.NewString(),
		ClientName: clientName,
		Timestamp:  s.now().UTC(),
	}

	if err := s.repository.Insert(ctx, check); err != nil {
		logger.Error("Failed to store status check", "error", err)
		return nil, err
	}

	response := ToStatusCheckResponse(check)
	return &response, nil
}

func (s *statusCheckService) ListStatusChecks(ctx context.Context) ([]StatusCheckResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	checks, err := s.repository.List(ctx, constants.StatusCheckListLimit)
	if err != nil {
		logger.Error("Failed to list status checks", "error", err)
		return nil, err
	}

	responses := make([]StatusCheckResponse, 0, len(checks))
	for _, check := range checks {
		responses = append(responses, ToStatusCheckResponse(check))
	}

	return responses, nil
}
