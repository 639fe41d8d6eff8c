package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/notify"
	"github.com/spec-kit/ticket-dashboard/internal/render"
)

var testNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

// fakeAPI implements AdminAPI and UserAPI. Func fields override the canned data.
type fakeAPI struct {
	mu      sync.Mutex
	tickets []domain.Ticket
	stats   domain.DashboardStats
	calls   map[string]int

	ticketsFn   func(context.Context) ([]domain.Ticket, error)
	statsFn     func(context.Context) (domain.DashboardStats, error)
	liveStatsFn func(context.Context) (domain.DashboardStats, error)
	deleteErr   error
	updateErr   error
	analyticsFn func(context.Context) (domain.Analytics, error)
	usersErr    error

	lastStatus domain.TicketStatus
	lastDraft  domain.TicketDraft
	lastID     int64
}

func newFakeAPI(tickets []domain.Ticket) *fakeAPI {
	return &fakeAPI{
		tickets: tickets,
		stats:   domain.DashboardStats{Total: len(tickets), Open: len(tickets)},
		calls:   map[string]int{},
	}
}

func (f *fakeAPI) count(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeAPI) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) list(ctx context.Context) ([]domain.Ticket, error) {
	if f.ticketsFn != nil {
		return f.ticketsFn(ctx)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Ticket, len(f.tickets))
	copy(out, f.tickets)
	return out, nil
}

func (f *fakeAPI) AdminTickets(ctx context.Context) ([]domain.Ticket, error) {
	f.count("tickets")
	return f.list(ctx)
}

func (f *fakeAPI) MyTickets(ctx context.Context) ([]domain.Ticket, error) {
	f.count("tickets")
	return f.list(ctx)
}

func (f *fakeAPI) AdminStats(ctx context.Context) (domain.DashboardStats, error) {
	f.count("stats")
	if f.statsFn != nil {
		return f.statsFn(ctx)
	}
	return f.stats, nil
}

func (f *fakeAPI) TicketStats(ctx context.Context) (domain.DashboardStats, error) {
	return f.AdminStats(ctx)
}

func (f *fakeAPI) LiveStats(ctx context.Context) (domain.DashboardStats, error) {
	f.count("live_stats")
	if f.liveStatsFn != nil {
		return f.liveStatsFn(ctx)
	}
	return f.stats, nil
}

func (f *fakeAPI) Ticket(_ context.Context, id int64) (domain.Ticket, error) {
	f.count("ticket")
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tickets {
		if t.ID == id {
			return t, nil
		}
	}
	return domain.Ticket{}, fmt.Errorf("ticket %d not found", id)
}

func (f *fakeAPI) UpdateTicketStatus(_ context.Context, id int64, status domain.TicketStatus) error {
	f.count("update_status")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastID, f.lastStatus = id, status
	return f.updateErr
}

func (f *fakeAPI) DeleteTicket(_ context.Context, id int64) error {
	f.count("delete")
	return f.remove(id)
}

func (f *fakeAPI) DeleteOwnTicket(_ context.Context, id int64) error {
	f.count("delete")
	return f.remove(id)
}

func (f *fakeAPI) remove(id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	kept := f.tickets[:0]
	for _, t := range f.tickets {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	f.tickets = kept
	return nil
}

func (f *fakeAPI) CreateTicket(_ context.Context, draft domain.TicketDraft) (int64, error) {
	f.count("create")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastDraft = draft
	id := int64(len(f.tickets) + 100)
	f.tickets = append(f.tickets, domain.Ticket{ID: id, Title: draft.Title, Description: draft.Description,
		Category: draft.Category, Priority: draft.Priority, Status: domain.TicketStatusOpen, CreatedAt: testNow})
	return id, nil
}

func (f *fakeAPI) UpdateTicket(_ context.Context, id int64, draft domain.TicketDraft) error {
	f.count("update")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastID, f.lastDraft = id, draft
	return f.updateErr
}

func (f *fakeAPI) DashboardSummary(context.Context) (domain.DashboardSummary, error) {
	f.count("summary")
	f.mu.Lock()
	defer f.mu.Unlock()
	summary := domain.DashboardSummary{TotalUsers: 3}
	if len(f.tickets) > 0 {
		summary.RecentTickets = []domain.Ticket{f.tickets[0]}
	}
	return summary, nil
}

func (f *fakeAPI) Analytics(ctx context.Context) (domain.Analytics, error) {
	f.count("analytics")
	if f.analyticsFn != nil {
		return f.analyticsFn(ctx)
	}
	return domain.Analytics{
		Stats:       domain.DashboardStats{CategoryCounts: map[string]int{"Billing": 2}},
		DailyTrends: []domain.DailyCount{{Date: "2026-10-15", Count: 2}},
		TotalUsers:  3,
	}, nil
}

func (f *fakeAPI) Users(context.Context) ([]domain.User, error) {
	f.count("users")
	if f.usersErr != nil {
		return nil, f.usersErr
	}
	return []domain.User{{ID: 1, Name: "Grace", Email: "grace@example.com", IsAdmin: true}}, nil
}

// makeTickets builds n tickets alternating Open and Resolved.
func makeTickets(n int) []domain.Ticket {
	out := make([]domain.Ticket, n)
	for i := range out {
		status := domain.TicketStatusOpen
		if i%2 == 1 {
			status = domain.TicketStatusResolved
		}
		out[i] = domain.Ticket{
			ID:          int64(i + 1),
			Title:       fmt.Sprintf("Ticket %d", i+1),
			Description: "Something broke",
			Category:    "General",
			Priority:    domain.TicketPriorityMedium,
			Status:      status,
			CreatedAt:   testNow.Add(-time.Duration(i) * time.Hour),
		}
	}
	return out
}

func testOptions(screen Screen) Options {
	return Options{
		Renderer:       render.MustNew().WithClock(func() time.Time { return testNow }),
		Screen:         screen,
		Notifications:  notify.NewCenter(time.Minute).WithClock(func() time.Time { return testNow }),
		PageSize:       10,
		SearchDebounce: 20 * time.Millisecond,
	}
}
