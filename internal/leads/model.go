package leads

import (
	"regexp"
	"strings"
	"time"
)

// emailPattern accepts local@domain.tld shapes; anything stricter belongs to
// the mail provider.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Lead represents a captured contact submission from the landing page form.
// JSON tags match the persisted document, so a stored collection written by
// one process version reloads unchanged in the next.
type Lead struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Company   *string   `json:"company"`
	Budget    *string   `json:"budget"`
	Message   *string   `json:"message"`
	Timestamp string    `json:"timestamp"`
	IPAddress string    `json:"ipAddress,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateLeadRequest represents the request body for creating a lead
type CreateLeadRequest struct {
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Company   *string `json:"company"`
	Budget    *string `json:"budget"`
	Message   *string `json:"message"`
	Timestamp string  `json:"timestamp"`
}

// Validate validates the create lead request
func (r *CreateLeadRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" ||
		strings.TrimSpace(r.Email) == "" ||
		strings.TrimSpace(r.Phone) == "" {
		return ErrMissingFields
	}
	if !emailPattern.MatchString(r.Email) {
		return ErrInvalidEmail
	}
	return nil
}

// RequestMeta carries best-effort client details captured from the
// originating HTTP request.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// Stats aggregates lead counts over rolling and calendar windows.
type Stats struct {
	Total     int `json:"total"`
	Today     int `json:"today"`
	ThisWeek  int `json:"thisWeek"`
	ThisMonth int `json:"thisMonth"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
