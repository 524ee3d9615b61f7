package domain

// EventType identifies the kind of domain occurrence that can trigger a
// webhook delivery. The vocabulary is closed: unknown tags are rejected at
// subscription creation and at dispatch, never at delivery time.
type EventType string

const (
	// EventAlertCreated is fired when any alert is recorded
	EventAlertCreated EventType = "alert.created"
	// EventAlertBlockedSite is fired when a blocked website is accessed
	EventAlertBlockedSite EventType = "alert.blocked_site"
	// EventAlertBlockedApp is fired when a blocked app is launched
	EventAlertBlockedApp EventType = "alert.blocked_app"
	// EventAlertScreenTimeLimit is fired when a screen time limit is reached
	EventAlertScreenTimeLimit EventType = "alert.screen_time_limit"
	// EventAlertTamperAttempt is fired when someone tries to disable the app
	EventAlertTamperAttempt EventType = "alert.tamper_attempt"
	// EventDeviceOffline is fired when a device goes offline
	EventDeviceOffline EventType = "device.offline"
	// EventDeviceOnline is fired when a device comes online
	EventDeviceOnline EventType = "device.online"
	// EventSettingsChanged is fired when parental control settings change
	EventSettingsChanged EventType = "settings.changed"
	// EventTest is the reserved event type used by test-fire deliveries
	EventTest EventType = "test"
)

// SupportedEventTypes lists every event type in the vocabulary, in catalog
// order.
var SupportedEventTypes = []EventType{
	EventAlertCreated,
	EventAlertBlockedSite,
	EventAlertBlockedApp,
	EventAlertScreenTimeLimit,
	EventAlertTamperAttempt,
	EventDeviceOffline,
	EventDeviceOnline,
	EventSettingsChanged,
	EventTest,
}

var eventDescriptions = map[EventType]string{
	EventAlertCreated:         "Triggered when any alert is created",
	EventAlertBlockedSite:     "Triggered when a blocked website is accessed",
	EventAlertBlockedApp:      "Triggered when a blocked app is launched",
	EventAlertScreenTimeLimit: "Triggered when screen time limit is reached",
	EventAlertTamperAttempt:   "Triggered when someone tries to disable the app",
	EventDeviceOffline:        "Triggered when a device goes offline",
	EventDeviceOnline:         "Triggered when a device comes online",
	EventSettingsChanged:      "Triggered when parental control settings are changed",
	EventTest:                 "Test event for verifying webhook configuration",
}

// Valid reports whether the event type belongs to the known vocabulary.
func (e EventType) Valid() bool {
	_, ok := eventDescriptions[e]
	return ok
}

// String returns the wire representation of the event type.
func (e EventType) String() string {
	return string(e)
}

// Description returns the human-readable description for the event type.
func (e EventType) Description() string {
	return eventDescriptions[e]
}

// ValidateEventTypes checks that every tag in the list is a known event
// type and that the list is not empty. It returns the unknown tags, if any.
func ValidateEventTypes(tags []string) (invalid []string) {
	for _, tag := range tags {
		if !EventType(tag).Valid() {
			invalid = append(invalid, tag)
		}
	}
	return invalid
}
