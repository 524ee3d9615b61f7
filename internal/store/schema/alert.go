package schema

import (
	"time"

	"gorm.io/datatypes"
)

// Alert represents the alerts table - a notable occurrence reported by a
// monitored device (blocked site, screen time limit, tamper attempt, ...).
// Recording an alert is the business action that triggers webhook
// dispatch.
type Alert struct {
	// ID is the alert identifier (UUID)
	ID string `gorm:"column:id;primaryKey;type:varchar(36)"`
	// OwnerID is the account the reporting device belongs to
	OwnerID string `gorm:"column:owner_id;not null;index;type:varchar(36)"`
	// DeviceID identifies the reporting device, when known
	DeviceID *string `gorm:"column:device_id;type:varchar(255)"`
	// AlertType is the kind of alert (blocked_site, blocked_app,
	// screen_time_limit, tamper_attempt)
	AlertType string `gorm:"column:alert_type;not null;type:varchar(50)"`
	// Severity is the reported severity (info, warning, critical)
	Severity string `gorm:"column:severity;not null;type:varchar(20)"`
	// Title is a short human-readable summary
	Title string `gorm:"column:title;not null;type:varchar(255)"`
	// Message is the alert body
	Message string `gorm:"column:message;type:text"`
	// Details carries alert-specific structured data
	Details datatypes.JSON `gorm:"column:details;type:jsonb"`
	// CreatedAt is the timestamp when this alert was recorded
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the Alert model
func (Alert) TableName() string {
	return "alerts"
}
