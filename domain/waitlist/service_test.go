package waitlist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/akeren/resfi-api/internal/log"
	"github.com/akeren/resfi-api/internal/models"
	apperrors "github.com/akeren/resfi-api/pkg/errors"
	"github.com/akeren/resfi-api/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func validEntry() *ValidatedEntry {
	return &ValidatedEntry{
		Email:     "test@example.com",
		FirstName: "John",
		LastName:  "Doe",
		Refinance: true,
		HYSA:      true,
	}
}

func TestWaitlistService_SubmitEntry(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockRepo := NewMockWaitlistRepository(ctrl)
	logger := log.NewLoggerWithJSONOutput()
	service := NewWaitlistService(logger, mockRepo, nil)

	t.Run("successful creation", func(t *testing.T) {
		created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

		mockRepo.EXPECT().
			CreateEntry(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e *models.WaitlistEntry) (*models.WaitlistEntry, error) {
				assert.Equal(t, "test@example.com", e.Email)
				assert.True(t, e.Refinance)
				assert.False(t, e.NewLoan)
				assert.True(t, e.HYSA)
				e.ID = 7
				e.CreatedAt = created
				e.UpdatedAt = created
				return e, nil
			})

		result, err := service.SubmitEntry(context.Background(), validEntry())

		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, uint(7), result.ID)
		assert.Equal(t, "test@example.com", result.Email)
		assert.Equal(t, "John", result.FirstName)
		assert.Equal(t, "Doe", result.LastName)
		assert.True(t, result.HYSA)
		assert.Equal(t, "2026-03-01T10:00:00Z", result.CreatedAt)
	})

	t.Run("duplicate email surfaces conflict", func(t *testing.T) {
		mockRepo.EXPECT().
			CreateEntry(gomock.Any(), gomock.Any()).
			Return(nil, apperrors.NewConflictError(MessageDuplicateEmail, errors.New("duplicate key")))

		result, err := service.SubmitEntry(context.Background(), validEntry())

		assert.Nil(t, result)
		assert.Equal(t, apperrors.StatusConflict, apperrors.HTTPStatusCode(err))
		assert.Equal(t, MessageDuplicateEmail, apperrors.GetHumanReadableMessage(err))
	})

	t.Run("repository error", func(t *testing.T) {
		mockRepo.EXPECT().
			CreateEntry(gomock.Any(), gomock.Any()).
			Return(nil, apperrors.NewDatabaseError(MessageCreateFailed, errors.New("connection reset")))

		result, err := service.SubmitEntry(context.Background(), validEntry())

		assert.Error(t, err)
		assert.Nil(t, result)
		assert.Equal(t, apperrors.StatusInternalServerError, apperrors.HTTPStatusCode(err))
	})

	t.Run("nil entry is rejected before the store", func(t *testing.T) {
		result, err := service.SubmitEntry(context.Background(), nil)

		assert.Nil(t, result)
		assert.Equal(t, apperrors.ErrorTypeInvalidRequest, apperrors.GetErrorType(err))
	})
}

func TestWaitlistService_SubmitEntry_PublishesSignupEvent(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockRepo := NewMockWaitlistRepository(ctrl)
	mockPublisher := events.NewMockPublisher(ctrl)
	service := NewWaitlistService(log.NewLoggerWithJSONOutput(), mockRepo, mockPublisher)

	mockRepo.EXPECT().
		CreateEntry(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *models.WaitlistEntry) (*models.WaitlistEntry, error) {
			e.ID = 3
			return e, nil
		})

	mockPublisher.EXPECT().
		Publish(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, ev events.Event) error {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			assert.Equal(t, SignupEventType, ev.Type)

			payload, ok := ev.Payload.(signupEvent)
			require.True(t, ok)
			assert.Equal(t, uint(3), payload.ID)
			assert.Equal(t, []string{"refinance", "hysa"}, payload.Interests)
			return nil
		})

	_, err := service.SubmitEntry(context.Background(), validEntry())
	assert.NoError(t, err)
}

func TestWaitlistService_SubmitEntry_PublishFailureDoesNotFailSignup(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockRepo := NewMockWaitlistRepository(ctrl)
	mockPublisher := events.NewMockPublisher(ctrl)
	service := NewWaitlistService(log.NewLoggerWithJSONOutput(), mockRepo, mockPublisher)

	mockRepo.EXPECT().
		CreateEntry(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e *models.WaitlistEntry) (*models.WaitlistEntry, error) {
			e.ID = 4
			return e, nil
		})
	mockPublisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

	result, err := service.SubmitEntry(context.Background(), validEntry())

	require.NoError(t, err)
	assert.Equal(t, uint(4), result.ID)
}

func TestWaitlistService_GetAllEntries(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockRepo := NewMockWaitlistRepository(ctrl)
	service := NewWaitlistService(log.NewLoggerWithJSONOutput(), mockRepo, nil)

	t.Run("maps every row", func(t *testing.T) {
		mockRepo.EXPECT().GetAllEntries(gomock.Any()).Return([]*models.WaitlistEntry{
			{ID: 1, Email: "a@example.com", FirstName: "A", LastName: "One"},
			{ID: 2, Email: "b@example.com", FirstName: "B", LastName: "Two", Automation: true},
		}, nil)

		result, err := service.GetAllEntries(context.Background())

		require.NoError(t, err)
		require.Len(t, result, 2)
		assert.Equal(t, "a@example.com", result[0].Email)
		assert.True(t, result[1].Automation)
	})

	t.Run("no rows is an empty list", func(t *testing.T) {
		mockRepo.EXPECT().GetAllEntries(gomock.Any()).Return([]*models.WaitlistEntry{}, nil)

		result, err := service.GetAllEntries(context.Background())

		require.NoError(t, err)
		assert.NotNil(t, result)
		assert.Empty(t, result)
	})

	t.Run("store failure", func(t *testing.T) {
		mockRepo.EXPECT().GetAllEntries(gomock.Any()).Return(nil, apperrors.NewDatabaseError(MessageListFailed, errors.New("boom")))

		result, err := service.GetAllEntries(context.Background())

		assert.Nil(t, result)
		assert.Equal(t, MessageListFailed, apperrors.GetHumanReadableMessage(err))
	})
}
