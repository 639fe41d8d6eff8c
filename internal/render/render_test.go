package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/notify"
)

var fixedNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New()
	require.NoError(t, err)
	return r.WithClock(func() time.Time { return fixedNow })
}

func sampleTicket() domain.Ticket {
	return domain.Ticket{
		ID:           7,
		Title:        "Printer jam",
		Description:  "Paper stuck in tray 2",
		Category:     "Hardware",
		Priority:     domain.TicketPriorityHigh,
		Status:       domain.TicketStatusOpen,
		CreatorName:  "Ada",
		CreatorEmail: "ada@example.com",
		CreatedAt:    fixedNow.Add(-3 * day),
	}
}

func TestPriorityIconLookup(t *testing.T) {
	cases := map[domain.TicketPriority]string{
		domain.TicketPriorityLow:    "arrow-down",
		domain.TicketPriorityMedium: "minus",
		domain.TicketPriorityHigh:   "arrow-up",
		domain.TicketPriorityUrgent: "exclamation-triangle",
		"Critical":                  "circle",
		"":                          "circle",
	}
	for priority, icon := range cases {
		assert.Equal(t, icon, PriorityIcon(priority), "priority %q", priority)
	}
}

func TestStyleFallbacks(t *testing.T) {
	assert.Equal(t, "priority-urgent", PriorityStyle(domain.TicketPriorityUrgent))
	assert.Equal(t, "priority-default", PriorityStyle("Critical"))
	assert.Equal(t, "status-in-progress", StatusStyle(domain.TicketStatusInProgress))
	assert.Equal(t, "status-default", StatusStyle("Escalated"))
}

func TestTicketsEscapesUserContent(t *testing.T) {
	r := newTestRenderer(t)
	ticket := sampleTicket()
	ticket.Title = "<script>alert(1)</script>"
	ticket.CreatorName = `"Bob" & co`

	for _, view := range []View{ViewAdmin, ViewUser} {
		out, err := r.Tickets(TicketList{View: view, Tickets: []domain.Ticket{ticket}, Filtered: 1, Total: 1, Page: 1, TotalPages: 1})
		require.NoError(t, err)
		assert.Contains(t, out, "&lt;script&gt;alert(1)&lt;/script&gt;")
		assert.NotContains(t, out, "<script>")
	}
}

func TestTicketsUnknownEnumsDoNotFail(t *testing.T) {
	r := newTestRenderer(t)
	ticket := sampleTicket()
	ticket.Priority = "Critical"
	ticket.Status = "Escalated"

	out, err := r.Tickets(TicketList{View: ViewAdmin, Tickets: []domain.Ticket{ticket}, Filtered: 1, Total: 1, Page: 1, TotalPages: 1})
	require.NoError(t, err)
	assert.Contains(t, out, "fa-circle")
	assert.Contains(t, out, "priority-default")
	assert.Contains(t, out, "status-default")
}

func TestTicketsEmptyStateAndSummary(t *testing.T) {
	r := newTestRenderer(t)

	out, err := r.Tickets(TicketList{
		View: ViewAdmin, Filtered: 0, Total: 12, Page: 1, TotalPages: 1,
		Criteria: domain.FilterCriteria{Search: "zzz"},
	})
	require.NoError(t, err)
	assert.Contains(t, out, "No tickets found")
	assert.Contains(t, out, `data-event="clear_filters"`)
	assert.Contains(t, out, "Showing 0 of 12 tickets")
	assert.NotContains(t, out, "pagination-bar")
}

func TestTicketsPaginationBar(t *testing.T) {
	r := newTestRenderer(t)
	tickets := []domain.Ticket{sampleTicket()}

	out, err := r.Tickets(TicketList{View: ViewUser, Tickets: tickets, Filtered: 25, Total: 30, Page: 3, TotalPages: 3})
	require.NoError(t, err)
	assert.Contains(t, out, "Showing 25 of 30 tickets")
	assert.Contains(t, out, "pagination-bar")
	assert.Contains(t, out, `page-item active"><a class="page-link" data-event="page" data-value="3"`)
}

func TestUserCardsHideEditForClosedTickets(t *testing.T) {
	r := newTestRenderer(t)
	open := sampleTicket()
	closed := sampleTicket()
	closed.ID = 8
	closed.Status = domain.TicketStatusClosed

	out, err := r.Tickets(TicketList{View: ViewUser, Tickets: []domain.Ticket{closed}, Filtered: 1, Total: 1, Page: 1, TotalPages: 1})
	require.NoError(t, err)
	assert.NotContains(t, out, `data-event="edit_ticket"`)

	out, err = r.Tickets(TicketList{View: ViewUser, Tickets: []domain.Ticket{open}, Filtered: 1, Total: 1, Page: 1, TotalPages: 1})
	require.NoError(t, err)
	assert.Contains(t, out, `data-event="edit_ticket"`)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", Preview("short", 80))
	long := strings.Repeat("é", 100)
	got := Preview(long, 80)
	assert.Equal(t, strings.Repeat("é", 80)+"...", got)
}

func TestAges(t *testing.T) {
	assert.Equal(t, "Today", AdminAge(fixedNow.Add(-2*time.Hour), fixedNow))
	assert.Contains(t, AdminAge(fixedNow.Add(-3*day), fixedNow), "3 days")
	assert.Contains(t, AdminAge(fixedNow.Add(-60*day), fixedNow), "months")
	assert.Empty(t, AdminAge(time.Time{}, fixedNow))

	assert.Equal(t, "Just now", UserAge(fixedNow.Add(-10*time.Second), fixedNow, time.UTC))
	assert.Contains(t, UserAge(fixedNow.Add(-5*time.Minute), fixedNow, time.UTC), "5m")
	assert.Contains(t, UserAge(fixedNow.Add(-3*time.Hour), fixedNow, time.UTC), "3h")
	assert.Equal(t, "Oct 1, 2026 12:00 PM", UserAge(fixedNow.Add(-15*day), fixedNow, time.UTC))
}

func TestCounterFrames(t *testing.T) {
	frames := CounterFrames(0, 100, 4)
	assert.Equal(t, []int{25, 50, 75, 100}, frames)

	frames = CounterFrames(10, 3, 3)
	require.Len(t, frames, 3)
	assert.Equal(t, 3, frames[2])

	assert.Equal(t, []int{5}, CounterFrames(0, 5, 0))
}

func TestStatsPanels(t *testing.T) {
	r := newTestRenderer(t)
	stats := domain.DashboardStats{Total: 12, Open: 4, InProgress: 3, Resolved: 5, ResolvedToday: 2, ActiveUsers: 6, AvgResponseMinutes: 42}

	out, err := r.Stats(ViewAdmin, domain.DashboardStats{}, stats)
	require.NoError(t, err)
	assert.Contains(t, out, `id="activeUsers"`)
	assert.Contains(t, out, "42m")

	out, err = r.Stats(ViewUser, domain.DashboardStats{}, stats)
	require.NoError(t, err)
	assert.Contains(t, out, `id="inProgressTickets"`)
	assert.NotContains(t, out, "activeUsers")
}

func TestAnalyticsPanel(t *testing.T) {
	r := newTestRenderer(t)
	out, err := r.Analytics(AnalyticsData{
		Analytics: domain.Analytics{
			Stats:             domain.DashboardStats{CategoryCounts: map[string]int{"Billing": 3, "<b>": 1}},
			DailyTrends:       []domain.DailyCount{{Date: "2026-10-15", Count: 4}},
			AvgTicketsPerUser: 2.5,
		},
		Summary: domain.DashboardSummary{TotalUsers: 9, RecentTickets: []domain.Ticket{sampleTicket()}},
		Users:   []domain.User{{ID: 1, Name: "Grace", Email: "grace@example.com", IsAdmin: true}},
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Total users: 9")
	assert.Contains(t, out, "2.5")
	assert.Contains(t, out, "Billing")
	assert.Contains(t, out, "&lt;b&gt;")
	assert.Contains(t, out, "2026-10-15")
	assert.Contains(t, out, "Printer jam")
	assert.Contains(t, out, "grace@example.com")
}

func TestOverlayNotificationsPlaceholdersAndPage(t *testing.T) {
	r := newTestRenderer(t)

	overlay, err := r.Overlay(sampleTicket())
	require.NoError(t, err)
	assert.Contains(t, overlay, "Ticket #7: Printer jam")

	toasts, err := r.Notifications([]notify.Notification{{ID: "n1", Level: notify.LevelError, Message: "Error loading <data>"}})
	require.NoError(t, err)
	assert.Contains(t, toasts, "alert-danger")
	assert.Contains(t, toasts, "Error loading &lt;data&gt;")

	loading, err := r.Loading(domain.RegionStats)
	require.NoError(t, err)
	assert.Contains(t, loading, "Loading...")

	failed, err := r.Error(domain.RegionTickets, "Error loading tickets")
	require.NoError(t, err)
	assert.Contains(t, failed, "Error loading tickets")

	page, err := r.Page(PageData{
		Title:         "Admin Dashboard",
		View:          ViewAdmin,
		Regions:       []PageRegion{{Name: domain.RegionStats, State: domain.RegionReady, HTML: loading}},
		Notifications: toasts,
		Overlay:       overlay,
	})
	require.NoError(t, err)
	assert.Contains(t, page, `data-region="stats" data-state="ready"`)
	assert.Contains(t, page, `<div class="loading-spinner"`)
	assert.Contains(t, page, `id="ticketModal"`)
}
