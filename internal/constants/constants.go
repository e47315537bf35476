package constants

// Session and context keys
const (
	SessionCookieName = "obraflow_session"
	ContextKeyUserID  = "user_id"
)

// Authentication
const (
	MinPasswordLength = 8
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Deliveries
const (
	// MinDeliveryDescriptionLength is the minimum length accepted for a
	// task delivery description.
	MinDeliveryDescriptionLength = 5
)

// AI suggestions
const (
	MaxAISuggestedItems = 20
)
