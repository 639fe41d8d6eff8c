package dto

import (
	"strings"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// TicketPayload is a ticket as serialized by the ticket API. The admin
// endpoints call the title `subject` and the user endpoints call it `title`.
type TicketPayload struct {
	ID            int64    `json:"id"`
	Title         string   `json:"title,omitempty"`
	Subject       string   `json:"subject,omitempty"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	Priority      string   `json:"priority"`
	Status        string   `json:"status"`
	AssignedAgent *string  `json:"assigned_agent,omitempty"`
	UserName      string   `json:"user_name,omitempty"`
	UserEmail     string   `json:"user_email,omitempty"`
	CreatedAt     FlexTime `json:"created_at"`
	UpdatedAt     FlexTime `json:"updated_at"`
}

// ToDomain converts the payload to a domain ticket.
func (p TicketPayload) ToDomain() domain.Ticket {
	title := p.Title
	if title == "" {
		title = p.Subject
	}
	ticket := domain.Ticket{
		ID:           p.ID,
		Title:        title,
		Description:  p.Description,
		Category:     p.Category,
		Priority:     domain.TicketPriority(strings.TrimSpace(p.Priority)),
		Status:       domain.TicketStatus(strings.TrimSpace(p.Status)),
		CreatorName:  placeholderToEmpty(p.UserName),
		CreatorEmail: placeholderToEmpty(p.UserEmail),
		CreatedAt:    p.CreatedAt.Time,
		UpdatedAt:    p.UpdatedAt.Time,
	}
	if p.AssignedAgent != nil {
		ticket.Assignee = *p.AssignedAgent
	}
	return ticket
}

// TicketsToDomain converts a payload list preserving order.
func TicketsToDomain(items []TicketPayload) []domain.Ticket {
	tickets := make([]domain.Ticket, 0, len(items))
	for _, item := range items {
		tickets = append(tickets, item.ToDomain())
	}
	return tickets
}

// UnparsedTimestamp describes a ticket timestamp in an unknown format.
type UnparsedTimestamp struct {
	TicketID int64
	Field    string
	Value    string
}

// UnparsedTimestamps lists the timestamps that decoded to the zero time
// because their format was not recognized.
func UnparsedTimestamps(items []TicketPayload) []UnparsedTimestamp {
	var out []UnparsedTimestamp
	for _, item := range items {
		if item.CreatedAt.Unparsed != "" {
			out = append(out, UnparsedTimestamp{TicketID: item.ID, Field: "created_at", Value: item.CreatedAt.Unparsed})
		}
		if item.UpdatedAt.Unparsed != "" {
			out = append(out, UnparsedTimestamp{TicketID: item.ID, Field: "updated_at", Value: item.UpdatedAt.Unparsed})
		}
	}
	return out
}

// placeholderToEmpty drops the "N/A" the API emits for tickets without an author.
func placeholderToEmpty(s string) string {
	if s == "N/A" {
		return ""
	}
	return s
}

// TicketListResponse wraps GET /api/admin/tickets and GET /tickets/api/all.
type TicketListResponse struct {
	Envelope
	Tickets []TicketPayload `json:"tickets"`
	Stats   StatsPayload    `json:"stats,omitempty"`
}

// TicketDetailResponse wraps GET /api/tickets/{id}.
type TicketDetailResponse struct {
	Envelope
	Ticket *TicketPayload `json:"ticket"`
}

// TicketDraftRequest is the create/update body.
type TicketDraftRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
}

// NewTicketDraftRequest builds a request body from a draft.
func NewTicketDraftRequest(d domain.TicketDraft) TicketDraftRequest {
	return TicketDraftRequest{
		Title:       strings.TrimSpace(d.Title),
		Description: strings.TrimSpace(d.Description),
		Category:    strings.TrimSpace(d.Category),
		Priority:    string(d.Priority),
	}
}

// CreateTicketResponse wraps POST /tickets/api/create.
type CreateTicketResponse struct {
	Envelope
	TicketID int64 `json:"ticket_id"`
}

// StatusUpdateRequest is the body of PUT /api/tickets/{id}/status.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}
