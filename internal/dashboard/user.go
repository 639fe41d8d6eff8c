package dashboard

import (
	"context"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/events"
	"github.com/spec-kit/ticket-dashboard/internal/notify"
	"github.com/spec-kit/ticket-dashboard/internal/render"
	apperrors "github.com/spec-kit/ticket-dashboard/pkg/util/errorutil"
)

// UserAPI is the part of the ticket API the user dashboard consumes.
type UserAPI interface {
	MyTickets(ctx context.Context) ([]domain.Ticket, error)
	TicketStats(ctx context.Context) (domain.DashboardStats, error)
	CreateTicket(ctx context.Context, draft domain.TicketDraft) (int64, error)
	UpdateTicket(ctx context.Context, id int64, draft domain.TicketDraft) error
	DeleteOwnTicket(ctx context.Context, id int64) error
}

// User is the dashboard of a ticket author: their own tickets, which they may
// create, edit while not closed, and delete.
type User struct {
	*Controller
	api UserAPI
}

// NewUser builds the user controller.
func NewUser(api UserAPI, opts Options) *User {
	src := source{
		tickets:      api.MyTickets,
		stats:        api.TicketStats,
		deleteTicket: api.DeleteOwnTicket,
		deletePrompt: "Are you sure you want to delete this ticket?",
	}
	u := &User{
		Controller: newController(render.ViewUser, "My Tickets", src, opts, domain.RegionStats, domain.RegionTickets),
		api:        api,
	}
	u.registerUser()
	return u
}

// CreateTicket submits a new ticket. A draft with a blank field is rejected
// before any request is made.
func (u *User) CreateTicket(ctx context.Context, draft domain.TicketDraft) (int64, error) {
	if missing := draft.MissingFields(); len(missing) > 0 {
		u.Notify(notify.LevelWarning, "Please fill in all fields")
		return 0, apperrors.NewValidationError("All fields are required", map[string]any{"missing": missing})
	}
	var id int64
	err := u.mutate(ctx, "create ticket", func(ctx context.Context) error {
		var err error
		id, err = u.api.CreateTicket(ctx, draft)
		return err
	}, "Ticket created successfully!", "Failed to create ticket")
	return id, err
}

// EditTicket updates one of the loaded tickets. Blank draft fields keep the
// current value. Closed tickets cannot be edited.
func (u *User) EditTicket(ctx context.Context, id int64, draft domain.TicketDraft) error {
	current, ok := u.ticket(id)
	if !ok {
		u.Notify(notify.LevelError, "Ticket not found")
		return apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	if !current.Editable() {
		u.Notify(notify.LevelWarning, "Cannot edit a closed ticket")
		return apperrors.NewValidationError("closed tickets cannot be edited", map[string]any{"id": id})
	}
	merged := mergeDraft(current, draft)
	return u.mutate(ctx, "update ticket", func(ctx context.Context) error {
		return u.api.UpdateTicket(ctx, id, merged)
	}, "Ticket updated successfully!", "Failed to update ticket")
}

func mergeDraft(t domain.Ticket, d domain.TicketDraft) domain.TicketDraft {
	out := domain.TicketDraft{
		Title:       t.Title,
		Description: t.Description,
		Category:    t.Category,
		Priority:    t.Priority,
	}
	if d.Title != "" {
		out.Title = d.Title
	}
	if d.Description != "" {
		out.Description = d.Description
	}
	if d.Category != "" {
		out.Category = d.Category
	}
	if d.Priority != "" {
		out.Priority = d.Priority
	}
	return out
}

func draftFromEvent(ev events.Event) domain.TicketDraft {
	return domain.TicketDraft{
		Title:       ev.Field("title"),
		Description: ev.Field("description"),
		Category:    ev.Field("category"),
		Priority:    domain.TicketPriority(ev.Field("priority")),
	}
}

func (u *User) registerUser() {
	d := u.dispatcher
	d.Register(events.EventCreateTicket, func(ctx context.Context, ev events.Event) error {
		_, err := u.CreateTicket(ctx, draftFromEvent(ev))
		return err
	})
	d.Register(events.EventEditTicket, func(ctx context.Context, ev events.Event) error {
		return u.EditTicket(ctx, ev.TicketID, draftFromEvent(ev))
	})
}
