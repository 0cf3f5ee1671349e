package components

import "slices"

const (
	// DefaultColor is the accent used by InfoCard and FeatureGrid items when no color is given.
	DefaultColor = "#16a34a"

	// DefaultStatusColor is the badge background for statuses missing from the table.
	DefaultStatusColor = "#6b7280"

	// DefaultColumns is the FeatureGrid column count used when Columns is not positive.
	DefaultColumns = 3

	// DefaultBadgeType is the tag carried by a StatusBadgeConfig without an explicit Type.
	DefaultBadgeType = "status"
)

// Status is a campaign lifecycle label displayed by StatusBadge.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusScheduled Status = "SCHEDULED"
	StatusRunning   Status = "RUNNING"
	StatusPaused    Status = "PAUSED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

var (
	statusOrder = []Status{
		StatusDraft,
		StatusScheduled,
		StatusRunning,
		StatusPaused,
		StatusCompleted,
		StatusCancelled,
	}

	statusColors = map[Status]string{
		StatusDraft:     "#6b7280",
		StatusScheduled: "#2563eb",
		StatusRunning:   "#16a34a",
		StatusPaused:    "#ea580c",
		StatusCompleted: "#059669",
		StatusCancelled: "#dc2626",
	}
)

// StatusColor returns the badge background for s.
// Matching is exact and case-sensitive; anything else gets DefaultStatusColor.
func StatusColor(s Status) string {
	if color, ok := statusColors[s]; ok {
		return color
	}
	return DefaultStatusColor
}

// Statuses returns the known status labels in lifecycle order.
func Statuses() []Status {
	return slices.Clone(statusOrder)
}

// AlertType selects the look of an AlertBox.
type AlertType string

const (
	AlertInfo    AlertType = "info"
	AlertWarning AlertType = "warning"
	AlertError   AlertType = "error"
	AlertSuccess AlertType = "success"
)

// AlertStyle holds the presentation attributes of one alert type.
type AlertStyle struct {
	Background string `json:"background" yaml:"background"`
	Border     string `json:"border" yaml:"border"`
	Icon       string `json:"icon" yaml:"icon"`
}

var (
	alertOrder = []AlertType{AlertInfo, AlertWarning, AlertError, AlertSuccess}

	alertStyles = map[AlertType]AlertStyle{
		AlertInfo:    {Background: "#dbeafe", Border: "#3b82f6", Icon: "ℹ️"},
		AlertWarning: {Background: "#fef3c7", Border: "#f59e0b", Icon: "⚠️"},
		AlertError:   {Background: "#fee2e2", Border: "#ef4444", Icon: "❌"},
		AlertSuccess: {Background: "#dcfce7", Border: "#22c55e", Icon: "✅"},
	}
)

// AlertStyleFor returns the style of t, falling back to the info style
// for any type that is not in the table.
func AlertStyleFor(t AlertType) AlertStyle {
	if style, ok := alertStyles[t]; ok {
		return style
	}
	return alertStyles[AlertInfo]
}

// AlertTypes returns the known alert types.
func AlertTypes() []AlertType {
	return slices.Clone(alertOrder)
}
