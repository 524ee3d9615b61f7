package domain

// Alert severity levels
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// ValidSeverity reports whether s is a known alert severity
func ValidSeverity(s string) bool {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityCritical:
		return true
	}
	return false
}

var alertTypeEvents = map[string]EventType{
	"blocked_site":      EventAlertBlockedSite,
	"blocked_app":       EventAlertBlockedApp,
	"screen_time":       EventAlertScreenTimeLimit,
	"screen_time_limit": EventAlertScreenTimeLimit,
	"tamper_attempt":    EventAlertTamperAttempt,
}

// EventForAlertType maps an alert type to its specific event type.
// Recording an alert always fires the generic alert.created event; types
// listed here additionally fire their specific event. Unmapped types only
// emit the generic one.
func EventForAlertType(alertType string) (EventType, bool) {
	event, ok := alertTypeEvents[alertType]
	return event, ok
}
