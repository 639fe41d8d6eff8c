package render

import "github.com/spec-kit/ticket-dashboard/internal/domain"

const (
	fallbackIcon          = "circle"
	fallbackPriorityStyle = "priority-default"
	fallbackStatusStyle   = "status-default"
)

var priorityIcons = map[domain.TicketPriority]string{
	domain.TicketPriorityLow:    "arrow-down",
	domain.TicketPriorityMedium: "minus",
	domain.TicketPriorityHigh:   "arrow-up",
	domain.TicketPriorityUrgent: "exclamation-triangle",
}

var priorityStyles = map[domain.TicketPriority]string{
	domain.TicketPriorityLow:    "priority-low",
	domain.TicketPriorityMedium: "priority-medium",
	domain.TicketPriorityHigh:   "priority-high",
	domain.TicketPriorityUrgent: "priority-urgent",
}

var statusStyles = map[domain.TicketStatus]string{
	domain.TicketStatusOpen:       "status-open",
	domain.TicketStatusInProgress: "status-in-progress",
	domain.TicketStatusResolved:   "status-resolved",
	domain.TicketStatusClosed:     "status-closed",
}

// PriorityIcon returns the icon name for p, "circle" for unknown values.
func PriorityIcon(p domain.TicketPriority) string {
	if icon, ok := priorityIcons[p]; ok {
		return icon
	}
	return fallbackIcon
}

// PriorityStyle returns the CSS token for p.
func PriorityStyle(p domain.TicketPriority) string {
	if style, ok := priorityStyles[p]; ok {
		return style
	}
	return fallbackPriorityStyle
}

// StatusStyle returns the CSS token for s.
func StatusStyle(s domain.TicketStatus) string {
	if style, ok := statusStyles[s]; ok {
		return style
	}
	return fallbackStatusStyle
}

var notificationStyles = map[string]string{
	"success": "alert-success",
	"info":    "alert-info",
	"warning": "alert-warning",
	"error":   "alert-danger",
}

func notificationStyle(level string) string {
	if style, ok := notificationStyles[level]; ok {
		return style
	}
	return "alert-secondary"
}
