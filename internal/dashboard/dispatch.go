package dashboard

import (
	"context"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/events"
)

func (c *Controller) registerShared() {
	d := c.dispatcher
	d.Register(events.EventSearchInput, func(_ context.Context, ev events.Event) error {
		c.SearchInput(ev.Value)
		return nil
	})
	d.Register(events.EventStatusFilter, func(_ context.Context, ev events.Event) error {
		c.SetStatusFilter(domain.TicketStatus(ev.Value))
		return nil
	})
	d.Register(events.EventPriorityFilter, func(_ context.Context, ev events.Event) error {
		c.SetPriorityFilter(domain.TicketPriority(ev.Value))
		return nil
	})
	d.Register(events.EventDateRange, func(_ context.Context, ev events.Event) error {
		return c.SetDateRange(ev.Value)
	})
	d.Register(events.EventPageSize, func(_ context.Context, ev events.Event) error {
		c.SetPageSize(ev.IntValue(c.Snapshot().Page.Size))
		return nil
	})
	d.Register(events.EventPage, func(_ context.Context, ev events.Event) error {
		c.GoToPage(ev.IntValue(0))
		return nil
	})
	d.Register(events.EventClearFilters, func(context.Context, events.Event) error {
		c.ClearFilters()
		return nil
	})
	d.Register(events.EventReload, func(ctx context.Context, _ events.Event) error {
		return c.Load(ctx)
	})
	d.Register(events.EventRefreshStats, func(ctx context.Context, _ events.Event) error {
		return c.RefreshStats(ctx)
	})
	d.Register(events.EventDismissOverlay, func(context.Context, events.Event) error {
		c.DismissOverlay()
		return nil
	})
	d.Register(events.EventDeleteTicket, func(ctx context.Context, ev events.Event) error {
		return c.DeleteTicket(ctx, ev.TicketID, Confirmed(ev.Confirmed))
	})
}
