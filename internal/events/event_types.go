package events

import (
	"strconv"
	"strings"
)

// EventType enumerates the UI events a dashboard reacts to.
type EventType string

const (
	EventSearchInput    EventType = "search_input"
	EventStatusFilter   EventType = "status_filter"
	EventPriorityFilter EventType = "priority_filter"
	EventDateRange      EventType = "date_range"
	EventPageSize       EventType = "page_size"
	EventPage           EventType = "page"
	EventClearFilters   EventType = "clear_filters"
	EventReload         EventType = "reload"
	EventExport         EventType = "export"
	EventDismissOverlay EventType = "dismiss_overlay"
	EventQuickView      EventType = "quick_view"
	EventUpdateStatus   EventType = "update_status"
	EventDeleteTicket   EventType = "delete_ticket"
	EventAssignTicket   EventType = "assign_ticket"
	EventAddNote        EventType = "add_note"
	EventCreateTicket   EventType = "create_ticket"
	EventEditTicket     EventType = "edit_ticket"
	EventLoadAnalytics  EventType = "load_analytics"
	EventRefreshStats   EventType = "refresh_stats"
)

// Event is one user or timer triggered action.
type Event struct {
	Type      EventType         `json:"type"`
	Value     string            `json:"value,omitempty"`
	TicketID  int64             `json:"ticket_id,omitempty"`
	Confirmed bool              `json:"confirmed,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
}

// IntValue parses Value as an int, returning fallback when it is not one.
func (e Event) IntValue(fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(e.Value))
	if err != nil {
		return fallback
	}
	return n
}

// Field returns a trimmed form field.
func (e Event) Field(name string) string {
	return strings.TrimSpace(e.Fields[name])
}

// KeyChord is a keyboard press as reported by the page.
type KeyChord struct {
	Key  string `json:"key"`
	Ctrl bool   `json:"ctrl"`
	Meta bool   `json:"meta"`
}

// FromKey maps a key chord to its event: Ctrl/Meta+R reloads, Ctrl/Meta+E
// exports and Escape dismisses the overlay.
func FromKey(k KeyChord) (EventType, bool) {
	if k.Key == "Escape" {
		return EventDismissOverlay, true
	}
	if !k.Ctrl && !k.Meta {
		return "", false
	}
	switch strings.ToLower(k.Key) {
	case "r":
		return EventReload, true
	case "e":
		return EventExport, true
	}
	return "", false
}
