package domain

import (
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusResolved   TicketStatus = "Resolved"
	TicketStatusClosed     TicketStatus = "Closed"
)

// TicketStatuses lists the known statuses in display order.
var TicketStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusInProgress,
	TicketStatusResolved,
	TicketStatusClosed,
}

// Valid reports whether s is one of the known statuses.
func (s TicketStatus) Valid() bool {
	for _, known := range TicketStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "Low"
	TicketPriorityMedium TicketPriority = "Medium"
	TicketPriorityHigh   TicketPriority = "High"
	TicketPriorityUrgent TicketPriority = "Urgent"
)

// TicketPriorities lists the known priorities from lowest to highest.
var TicketPriorities = []TicketPriority{
	TicketPriorityLow,
	TicketPriorityMedium,
	TicketPriorityHigh,
	TicketPriorityUrgent,
}

// Valid reports whether p is one of the known priorities.
func (p TicketPriority) Valid() bool {
	for _, known := range TicketPriorities {
		if p == known {
			return true
		}
	}
	return false
}

// Ticket is a support request as loaded from the ticket API.
type Ticket struct {
	ID           int64
	Title        string
	Description  string
	Category     string
	Priority     TicketPriority
	Status       TicketStatus
	CreatorName  string
	CreatorEmail string
	Assignee     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SearchText is the lower-cased haystack used by free-text search.
func (t Ticket) SearchText() string {
	return strings.ToLower(t.Title + " " + t.Description + " " + t.Category)
}

// Editable reports whether the ticket owner may still change it.
func (t Ticket) Editable() bool {
	return t.Status != TicketStatusClosed
}

// TicketDraft is the user supplied payload for create and update.
type TicketDraft struct {
	Title       string
	Description string
	Category    string
	Priority    TicketPriority
}

// MissingFields returns the names of blank draft fields.
func (d TicketDraft) MissingFields() []string {
	var missing []string
	if strings.TrimSpace(d.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(d.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(d.Category) == "" {
		missing = append(missing, "category")
	}
	if strings.TrimSpace(string(d.Priority)) == "" {
		missing = append(missing, "priority")
	}
	return missing
}
