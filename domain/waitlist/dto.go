package waitlist

import (
	"github.com/akeren/resfi-api/internal/models"
	"github.com/akeren/resfi-api/pkg/constants"
)

const (
	MessageJoined         = "Thank you for joining our waitlist!"
	MessageListed         = "Waitlist entries retrieved successfully"
	MessageDuplicateEmail = "This email address is already on the waitlist"
	MessageCreateFailed   = "An error occurred while processing your request. Please try again later."
	MessageListFailed     = "Failed to retrieve waitlist data"
)

// SignupEventType is published after every accepted signup.
const SignupEventType = "waitlist.signup"

type WaitlistEntryResponse struct {
	ID         uint   `json:"id"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Refinance  bool   `json:"refinance"`
	NewLoan    bool   `json:"new_loan"`
	HYSA       bool   `json:"hysa"`
	Automation bool   `json:"automation"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type signupEvent struct {
	ID        uint     `json:"id"`
	Email     string   `json:"email"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Interests []string `json:"interests"`
}

func ToWaitlistEntryModel(entry *ValidatedEntry) *models.WaitlistEntry {
	if entry == nil {
		return nil
	}
	return &models.WaitlistEntry{
		Email:      entry.Email,
		FirstName:  entry.FirstName,
		LastName:   entry.LastName,
		Refinance:  entry.Refinance,
		NewLoan:    entry.NewLoan,
		HYSA:       entry.HYSA,
		Automation: entry.Automation,
	}
}

func ToWaitlistEntryResponse(entry *models.WaitlistEntry) WaitlistEntryResponse {
	if entry == nil {
		return WaitlistEntryResponse{}
	}
	return WaitlistEntryResponse{
		ID:         entry.ID,
		Email:      entry.Email,
		FirstName:  entry.FirstName,
		LastName:   entry.LastName,
		Refinance:  entry.Refinance,
		NewLoan:    entry.NewLoan,
		HYSA:       entry.HYSA,
		Automation: entry.Automation,
		CreatedAt:  entry.CreatedAt.UTC().Format(constants.RFC3339DateTimeFormat),
		UpdatedAt:  entry.UpdatedAt.UTC().Format(constants.RFC3339DateTimeFormat),
	}
}

func toSignupEvent(entry *WaitlistEntryResponse) signupEvent {
	interests := make([]string, 0, 4)
	flags := []struct {
		name     string
		selected bool
	}{
		{"refinance", entry.Refinance},
		{"new_loan", entry.NewLoan},
		{"hysa", entry.HYSA},
		{"automation", entry.Automation},
	}
	for _, f := range flags {
		if f.selected {
			interests = append(interests, f.name)
		}
	}

	return signupEvent{
		ID:        entry.ID,
		Email:     entry.Email,
		FirstName: entry.FirstName,
		LastName:  entry.LastName,
		Interests: interests,
	}
}
