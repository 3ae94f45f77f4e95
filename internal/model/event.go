package model

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryCatalog = "catalog"
	EventCategoryEmail   = "email"
	EventCategoryAuth    = "auth"
	EventCategoryCache   = "cache"
	EventCategorySystem  = "system"
)
