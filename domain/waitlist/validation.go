package waitlist

import (
	"github.com/gin-gonic/gin/binding"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	apperrors "github.com/akeren/resfi-api/pkg/errors"
)

// SubmitWaitlistRequest is the wire shape of a signup. Interest flags are
// optional and default to false.
type SubmitWaitlistRequest struct {
	Email      string `json:"email" binding:"required,email,max=255"`
	FirstName  string `json:"first_name" binding:"required,min=1,max=100"`
	LastName   string `json:"last_name" binding:"required,min=1,max=100"`
	Refinance  bool   `json:"refinance"`
	NewLoan    bool   `json:"new_loan"`
	HYSA       bool   `json:"hysa"`
	Automation bool   `json:"automation"`
}

// ValidatedEntry is a submission that passed validation, with its email normalized.
type ValidatedEntry struct {
	Email      string
	FirstName  string
	LastName   string
	Refinance  bool
	NewLoan    bool
	HYSA       bool
	Automation bool
}

var lowerEmail = cases.Lower(language.Und)

// ParseSubmission decodes and validates a raw JSON signup. Every failure is a
// VALIDATION_ERROR whose wrapped error carries the per-field details.
func ParseSubmission(raw []byte) (*ValidatedEntry, error) {
	var req SubmitWaitlistRequest

	if err := binding.JSON.BindBody(raw, &req); err != nil {
		return nil, apperrors.NewValidationError("Invalid request payload", err)
	}

	return &ValidatedEntry{
		Email:      lowerEmail.String(req.Email),
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Refinance:  req.Refinance,
		NewLoan:    req.NewLoan,
		HYSA:       req.HYSA,
		Automation: req.Automation,
	}, nil
}
