package waitlist

import (
	"context"
	"time"

	"github.com/akeren/resfi-api/internal/log"
	apperrors "github.com/akeren/resfi-api/pkg/errors"
	"github.com/akeren/resfi-api/pkg/events"
)

const publishTimeout = 3 * time.Second

type WaitlistService interface {
	// SubmitEntry persists a validated signup and announces it.
	SubmitEntry(ctx context.Context, entry *ValidatedEntry) (*WaitlistEntryResponse, error)

	// GetAllEntries returns every signup, oldest first.
	GetAllEntries(ctx context.Context) ([]WaitlistEntryResponse, error)
}

type waitlistService struct {
	logger     *log.Logger
	repository WaitlistRepository
	publisher  events.Publisher
}

// NewWaitlistService wires the repository and an optional event publisher.
func NewWaitlistService(logger *log.Logger, repository WaitlistRepository, publisher events.Publisher) WaitlistService {
	return &waitlistService{logger: logger, repository: repository, publisher: publisher}
}

func (s *waitlistService) SubmitEntry(ctx context.Context, entry *ValidatedEntry) (*WaitlistEntryResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if entry == nil {
		logger.Error("SubmitEntry received empty entry")
		return nil, apperrors.NewInvalidRequestError("entry cannot be nil", nil)
	}

	created, err := s.repository.CreateEntry(ctx, ToWaitlistEntryModel(entry))
	if err != nil {
		if apperrors.GetErrorType(err) == apperrors.ErrorTypeConflict {
			logger.Info("Duplicate waitlist signup rejected", "email", entry.Email)
		} else {
			logger.Error("Failed to create waitlist entry", "error", err)
		}
		return nil, err
	}

	response := ToWaitlistEntryResponse(created)
	logger.Info("New waitlist signup", "id", response.ID, "email", response.Email)

	s.publishSignup(ctx, logger, &response)

	return &response, nil
}

func (s *waitlistService) GetAllEntries(ctx context.Context) ([]WaitlistEntryResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	entries, err := s.repository.GetAllEntries(ctx)
	if err != nil {
		logger.Error("Failed to get all waitlist entries", "error", err)
		return nil, err
	}

	responses := make([]WaitlistEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, ToWaitlistEntryResponse(entry))
	}

	return responses, nil
}

// publishSignup never fails the signup; the row is already committed.
func (s *waitlistService) publishSignup(ctx context.Context, logger *log.Logger, entry *WaitlistEntryResponse) {
	if s.publisher == nil {
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(pubCtx, events.NewEvent(SignupEventType, toSignupEvent(entry))); err != nil {
		logger.Warn("Failed to publish signup event", "id", entry.ID, "error", err)
	}
}
