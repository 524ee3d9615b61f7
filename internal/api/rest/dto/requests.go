package dto

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/parentshield/notifier/internal/apierrors"
	"github.com/parentshield/notifier/internal/domain"
)

const maxDescriptionLength = 255

// CreateWebhookRequest is the request body for registering a webhook
type CreateWebhookRequest struct {
	URL         string   `json:"url"`
	Events      []string `json:"events"`
	Description *string  `json:"description"`
}

// Validate validates the create request
func (r *CreateWebhookRequest) Validate() *apierrors.APIError {
	if err := validateEndpointURL(r.URL); err != nil {
		return err
	}
	if err := validateEvents(r.Events); err != nil {
		return err
	}
	return validateDescription(r.Description)
}

// UpdateWebhookRequest is the request body for updating a webhook.
// Absent fields are left unchanged; the secret can never be updated.
type UpdateWebhookRequest struct {
	URL         *string  `json:"url"`
	Events      []string `json:"events"`
	IsActive    *bool    `json:"is_active"`
	Description *string  `json:"description"`
}

// Validate validates the update request
func (r *UpdateWebhookRequest) Validate() *apierrors.APIError {
	if r.URL != nil {
		if err := validateEndpointURL(*r.URL); err != nil {
			return err
		}
	}
	if r.Events != nil {
		if err := validateEvents(r.Events); err != nil {
			return err
		}
	}
	return validateDescription(r.Description)
}

// CreateAlertRequest is the request body for recording a device alert.
// OwnerID is honored only for API-key callers; JWT callers are scoped to
// their token subject.
type CreateAlertRequest struct {
	OwnerID   string                 `json:"owner_id"`
	DeviceID  *string                `json:"device_id"`
	AlertType string                 `json:"alert_type"`
	Severity  string                 `json:"severity"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details"`
}

// Validate validates the alert request and applies defaults
func (r *CreateAlertRequest) Validate() *apierrors.APIError {
	if strings.TrimSpace(r.AlertType) == "" {
		return apierrors.NewValidationError("alert_type is required")
	}
	if strings.TrimSpace(r.Title) == "" {
		return apierrors.NewValidationError("title is required")
	}
	if r.Severity == "" {
		r.Severity = domain.SeverityInfo
	}
	if !domain.ValidSeverity(r.Severity) {
		return apierrors.NewValidationError(fmt.Sprintf("unknown severity: %s", r.Severity))
	}
	return nil
}

// DeliveryListQuery holds pagination parameters for the delivery audit listing
type DeliveryListQuery struct {
	Limit  int `form:"limit,default=50"`
	Offset int `form:"offset"`
}

// Validate clamps the pagination parameters into safe bounds
func (q *DeliveryListQuery) Validate() *apierrors.APIError {
	if q.Limit <= 0 {
		q.Limit = 50
	}
	if q.Limit > 200 {
		q.Limit = 200
	}
	if q.Offset < 0 {
		return apierrors.NewValidationError("offset must not be negative")
	}
	return nil
}

func validateEndpointURL(raw string) *apierrors.APIError {
	if strings.TrimSpace(raw) == "" {
		return apierrors.NewValidationError("url is required")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return apierrors.NewValidationError(fmt.Sprintf("invalid url: %v", err))
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return apierrors.NewValidationError("url scheme must be http or https")
	}
	if parsed.Host == "" {
		return apierrors.NewValidationError("url host is required")
	}
	return nil
}

func validateEvents(events []string) *apierrors.APIError {
	if len(events) == 0 {
		return apierrors.NewValidationError("events must contain at least one event type")
	}
	if invalid := domain.ValidateEventTypes(events); len(invalid) > 0 {
		return apierrors.NewValidationError(fmt.Sprintf("unknown event types: %s", strings.Join(invalid, ", ")))
	}
	return nil
}

func validateDescription(description *string) *apierrors.APIError {
	if description != nil && len(*description) > maxDescriptionLength {
		return apierrors.NewValidationError(fmt.Sprintf("description must be at most %d characters", maxDescriptionLength))
	}
	return nil
}
