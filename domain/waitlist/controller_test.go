package waitlist

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/akeren/resfi-api/config/router"
	"github.com/akeren/resfi-api/internal/log"
	apperrors "github.com/akeren/resfi-api/pkg/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type responseEnvelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newControllerUnderTest(t *testing.T) (*MockWaitlistService, http.Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctrl := gomock.NewController(t)
	service := NewMockWaitlistService(ctrl)

	rs := router.CreateRouterService(log.NewLoggerWithJSONOutput(), nil, &router.RouterConfig{
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    5 * time.Second,
	})
	t.Cleanup(rs.Cleanup)
	rs.MountController(NewWaitlistController(service))

	return service, rs.GetEngine()
}

func do(t *testing.T, h http.Handler, method, body string) (*httptest.ResponseRecorder, responseEnvelope) {
	t.Helper()

	req := httptest.NewRequest(method, "/api/waitlist", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var env responseEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func TestSubmitWaitlistEntry_Created(t *testing.T) {
	service, h := newControllerUnderTest(t)

	service.EXPECT().
		SubmitEntry(gomock.Any(), &ValidatedEntry{Email: "new@example.com", FirstName: "New", LastName: "User", Refinance: true}).
		Return(&WaitlistEntryResponse{ID: 1, Email: "new@example.com", FirstName: "New", LastName: "User", Refinance: true}, nil)

	w, env := do(t, h, http.MethodPost, `{"email":"NEW@example.com","first_name":"New","last_name":"User","refinance":true}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, MessageJoined, env.Message)

	var data WaitlistEntryResponse
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, uint(1), data.ID)
	assert.True(t, data.Refinance)
}

func TestSubmitWaitlistEntry_ValidationErrorIs422WithFields(t *testing.T) {
	_, h := newControllerUnderTest(t)

	w, env := do(t, h, http.MethodPost, `{"email":"bad","first_name":"A"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.False(t, env.Success)

	var fields []apperrors.ValidationErrorResponse
	require.NoError(t, json.Unmarshal(env.Data, &fields))
	require.Len(t, fields, 2)
	assert.Equal(t, "email", fields[0].Field)
	assert.Equal(t, "last_name", fields[1].Field)
}

func TestSubmitWaitlistEntry_MalformedBodyIs422(t *testing.T) {
	_, h := newControllerUnderTest(t)

	w, env := do(t, h, http.MethodPost, `{"email":`)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Invalid request body", env.Message)
}

func TestSubmitWaitlistEntry_DuplicateIs409(t *testing.T) {
	service, h := newControllerUnderTest(t)

	service.EXPECT().SubmitEntry(gomock.Any(), gomock.Any()).
		Return(nil, apperrors.NewConflictError(MessageDuplicateEmail, errors.New(`duplicate key value violates unique constraint "waitlist_email_key"`)))

	w, env := do(t, h, http.MethodPost, `{"email":"dup@example.com","first_name":"D","last_name":"U"}`)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, MessageDuplicateEmail, env.Message)
}

func TestSubmitWaitlistEntry_StoreFailureIs500WithoutLeakingDetails(t *testing.T) {
	service, h := newControllerUnderTest(t)

	service.EXPECT().SubmitEntry(gomock.Any(), gomock.Any()).
		Return(nil, apperrors.NewDatabaseError(MessageCreateFailed, errors.New("password authentication failed for user postgres")))

	w, env := do(t, h, http.MethodPost, `{"email":"x@example.com","first_name":"X","last_name":"Y"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, MessageCreateFailed, env.Message)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestGetAllWaitlistEntries(t *testing.T) {
	t.Run("lists entries", func(t *testing.T) {
		service, h := newControllerUnderTest(t)
		service.EXPECT().GetAllEntries(gomock.Any()).Return([]WaitlistEntryResponse{{ID: 1}, {ID: 2}}, nil)

		w, env := do(t, h, http.MethodGet, "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, env.Success)

		var data []WaitlistEntryResponse
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Len(t, data, 2)
	})

	t.Run("empty list", func(t *testing.T) {
		service, h := newControllerUnderTest(t)
		service.EXPECT().GetAllEntries(gomock.Any()).Return([]WaitlistEntryResponse{}, nil)

		w, env := do(t, h, http.MethodGet, "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, string(env.Data))
	})

	t.Run("store failure", func(t *testing.T) {
		service, h := newControllerUnderTest(t)
		service.EXPECT().GetAllEntries(gomock.Any()).Return(nil, apperrors.NewDatabaseError(MessageListFailed, errors.New("timeout")))

		w, env := do(t, h, http.MethodGet, "")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, MessageListFailed, env.Message)
	})
}
