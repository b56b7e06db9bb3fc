package status

import (
	"github.com/gin-gonic/gin/binding"

	apperrors "github.com/akeren/resfi-api/pkg/errors"
)

type CreateStatusCheckRequest struct {
	// A pointer so that an empty name is accepted and only a missing one is rejected.
	ClientName *string `json:"client_name" binding:"required"`
}

// ParseStatusCheck decodes a raw status check body and returns the client name.
func ParseStatusCheck(raw []byte) (string, error) {
	var req CreateStatusCheckRequest

	if err := binding.JSON.BindBody(raw, &req); err != nil {
		return "", apperrors.NewValidationError("Invalid request payload", err)
	}

	return *req.ClientName, nil
}
