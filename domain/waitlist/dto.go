package waitlist

import (
	"github.com/akeren/waitlist-api/internal/models"
	"github.com/akeren/waitlist-api/pkg/constants"
)

// SignupRequest accepts JSON or form bodies. Validation runs in the service
// after normalisation; Gin binding only decodes.
type SignupRequest struct {
	Name   string `json:"name" form:"name" validate:"required,max=255"`
	Email  string `json:"email" form:"email" validate:"required,email,max=254"`
	Role   string `json:"role" form:"role" validate:"required,waitlist_role"`
	Source string `json:"source" form:"source" validate:"omitempty,waitlist_source"`
}

type EntryResponse struct {
	ID             uint   `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	Role           string `json:"role"`
	RoleLabel      string `json:"role_label"`
	Source         string `json:"source,omitempty"`
	IsEarlyAdopter bool   `json:"is_early_adopter"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

type SignupResponse struct {
	Entry          EntryResponse `json:"entry"`
	IsNewUser      bool          `json:"is_new_user"`
	IsEarlyAdopter bool          `json:"is_early_adopter"`
	Position       int64         `json:"position"`
	TotalUsers     int64         `json:"total_users"`
	Receipt        string        `json:"receipt,omitempty"`
	// Message is the human-readable outcome, carried in the envelope.
	Message string `json:"-"`
}

type StatsResponse struct {
	Total          int64 `json:"total"`
	Coaches        int64 `json:"coaches"`
	EarlyAdopters  int64 `json:"early_adopters"`
	RemainingSpots int64 `json:"remaining_spots"`
}

type ThanksResponse struct {
	Name           string        `json:"name"`
	Email          string        `json:"email,omitempty"`
	Position       int64         `json:"position,omitempty"`
	IsEarlyAdopter bool          `json:"is_early_adopter"`
	Stats          StatsResponse `json:"stats"`
}

// UpsertCommand carries normalised input. IsEarlyAdopter and IPAddress are
// only written when a new entry is created.
type UpsertCommand struct {
	Email          string
	Name           string
	Role           models.Role
	Source         models.Source
	IsEarlyAdopter bool
	IPAddress      string
}

func ToEntryResponse(entry *models.WaitlistEntry) EntryResponse {
	if entry == nil {
		return EntryResponse{}
	}
	return EntryResponse{
		ID:             entry.ID,
		Email:          entry.Email,
		Name:           entry.Name,
		Role:           string(entry.Role),
		RoleLabel:      entry.Role.Label(),
		Source:         string(entry.Source),
		IsEarlyAdopter: entry.IsEarlyAdopter,
		CreatedAt:      entry.CreatedAt.UTC().Format(constants.RFC3339DateTimeFormat),
		UpdatedAt:      entry.UpdatedAt.UTC().Format(constants.RFC3339DateTimeFormat),
	}
}
