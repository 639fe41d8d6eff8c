package dashboard

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/events"
	"github.com/spec-kit/ticket-dashboard/internal/notify"
	apperrors "github.com/spec-kit/ticket-dashboard/pkg/util/errorutil"
)

func newTestAdmin(t *testing.T, api *fakeAPI) (*Admin, *MemoryScreen) {
	t.Helper()
	screen := NewMemoryScreen()
	a := NewAdmin(api, testOptions(screen), WithClock(func() time.Time { return testNow }))
	t.Cleanup(a.Close)
	return a, screen
}

func TestLoadRendersBothRegions(t *testing.T) {
	api := newFakeAPI(makeTickets(25))
	a, screen := newTestAdmin(t, api)

	require.NoError(t, a.Load(context.Background()))

	snap := a.Snapshot()
	assert.Equal(t, domain.RegionReady, snap.Regions[domain.RegionTickets])
	assert.Equal(t, domain.RegionReady, snap.Regions[domain.RegionStats])
	assert.Equal(t, 3, snap.TotalPages)
	assert.Equal(t, 25, snap.Filtered)

	frame, ok := screen.Region(domain.RegionTickets)
	require.True(t, ok)
	assert.Contains(t, frame.HTML, "Showing 25 of 25 tickets")
	assert.Equal(t, 10, strings.Count(frame.HTML, `class="ticket-row"`))

	active := a.Notifications().Active()
	require.Len(t, active, 1)
	assert.Equal(t, notify.LevelSuccess, active[0].Level)
}

func TestLoadWithStatsFailureStillRendersTickets(t *testing.T) {
	api := newFakeAPI(makeTickets(3))
	api.statsFn = func(context.Context) (domain.DashboardStats, error) {
		return domain.DashboardStats{}, apperrors.NewNetworkFailure("/api/admin/stats", errors.New("connection refused"))
	}
	a, screen := newTestAdmin(t, api)

	err := a.Load(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNetworkFailure))

	snap := a.Snapshot()
	assert.Equal(t, domain.RegionReady, snap.Regions[domain.RegionTickets])
	assert.Equal(t, domain.RegionError, snap.Regions[domain.RegionStats])

	tickets, _ := screen.Region(domain.RegionTickets)
	assert.Contains(t, tickets.HTML, "Ticket 1")
	stats, _ := screen.Region(domain.RegionStats)
	assert.Contains(t, stats.HTML, "Error loading statistics")

	active := a.Notifications().Active()
	require.Len(t, active, 1)
	assert.Equal(t, notify.LevelError, active[0].Level)
}

func TestFailedReloadKeepsLastContent(t *testing.T) {
	api := newFakeAPI(makeTickets(3))
	a, screen := newTestAdmin(t, api)
	require.NoError(t, a.Load(context.Background()))

	api.ticketsFn = func(context.Context) ([]domain.Ticket, error) {
		return nil, apperrors.NewServerFailure("/api/admin/tickets", 500, "")
	}
	require.Error(t, a.Load(context.Background()))

	frame, _ := screen.Region(domain.RegionTickets)
	assert.Equal(t, domain.RegionError, frame.State)
	assert.Contains(t, frame.HTML, "Ticket 3")
	assert.Equal(t, 3, a.Snapshot().Total)
}

func TestCriteriaChangeResetsPage(t *testing.T) {
	a, _ := newTestAdmin(t, newFakeAPI(makeTickets(25)))
	require.NoError(t, a.Load(context.Background()))

	a.GoToPage(3)
	assert.Equal(t, 3, a.Snapshot().Page.Page)

	a.SetStatusFilter(domain.TicketStatusOpen)
	snap := a.Snapshot()
	assert.Equal(t, 1, snap.Page.Page)
	assert.Equal(t, 13, snap.Filtered)

	a.GoToPage(2)
	a.ApplyFilters()
	assert.Equal(t, 2, a.Snapshot().Page.Page, "unchanged criteria keep the page")
}

func TestGoToPageOutOfRangeIsIgnored(t *testing.T) {
	a, _ := newTestAdmin(t, newFakeAPI(makeTickets(25)))
	require.NoError(t, a.Load(context.Background()))

	a.GoToPage(9)
	a.GoToPage(0)
	assert.Equal(t, 1, a.Snapshot().Page.Page)
}

func TestSetPageSizeResetsPage(t *testing.T) {
	a, screen := newTestAdmin(t, newFakeAPI(makeTickets(25)))
	require.NoError(t, a.Load(context.Background()))
	a.GoToPage(2)

	a.SetPageSize(25)
	snap := a.Snapshot()
	assert.Equal(t, domain.PageState{Page: 1, Size: 25}, snap.Page)
	assert.Equal(t, 1, snap.TotalPages)
	frame, _ := screen.Region(domain.RegionTickets)
	assert.Equal(t, 25, strings.Count(frame.HTML, `class="ticket-row"`))
}

func TestSearchInputIsDebounced(t *testing.T) {
	a, screen := newTestAdmin(t, newFakeAPI(makeTickets(25)))
	require.NoError(t, a.Load(context.Background()))
	before := len(screen.History(domain.RegionTickets))

	for _, text := range []string{"t", "ti", "ticket 1"} {
		a.SearchInput(text)
	}
	assert.Eventually(t, func() bool {
		return a.Snapshot().Criteria.Search == "ticket 1"
	}, time.Second, 5*time.Millisecond)

	time.Sleep(60 * time.Millisecond)
	assert.Len(t, screen.History(domain.RegionTickets), before+1)
	assert.Equal(t, 11, a.Snapshot().Filtered)
}

func TestDateRangeFilter(t *testing.T) {
	a, _ := newTestAdmin(t, newFakeAPI(makeTickets(25)))
	require.NoError(t, a.Load(context.Background()))

	require.NoError(t, a.SetDateRange("2026-10-16 to 2026-10-16"))
	assert.Equal(t, 13, a.Snapshot().Filtered)

	err := a.SetDateRange("last tuesday")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
	assert.Equal(t, 13, a.Snapshot().Filtered)

	a.ClearFilters()
	assert.Equal(t, 25, a.Snapshot().Filtered)
}

func TestDeleteDeclinedSendsNothing(t *testing.T) {
	api := newFakeAPI(makeTickets(3))
	a, _ := newTestAdmin(t, api)
	require.NoError(t, a.Load(context.Background()))

	require.NoError(t, a.DeleteTicket(context.Background(), 2, Confirmed(false)))
	assert.Equal(t, 0, api.Calls("delete"))
	assert.Equal(t, 1, api.Calls("tickets"))
	assert.Equal(t, 3, a.Snapshot().Total)
}

func TestDeleteConfirmedReloads(t *testing.T) {
	api := newFakeAPI(makeTickets(3))
	a, _ := newTestAdmin(t, api)
	require.NoError(t, a.Load(context.Background()))

	var prompt string
	confirm := func(_ context.Context, p string) bool {
		prompt = p
		return true
	}
	require.NoError(t, a.DeleteTicket(context.Background(), 2, confirm))
	assert.Contains(t, prompt, "cannot be undone")
	assert.Equal(t, 1, api.Calls("delete"))
	assert.Equal(t, 2, api.Calls("tickets"))
	assert.Equal(t, 2, a.Snapshot().Total)

	var messages []string
	for _, n := range a.Notifications().Active() {
		messages = append(messages, n.Message)
	}
	assert.Contains(t, messages, "Ticket deleted successfully")
}

func TestDeleteFailureLeavesStateUntouched(t *testing.T) {
	api := newFakeAPI(makeTickets(3))
	api.deleteErr = apperrors.NewServerFailure("/api/tickets/{id}", 500, "boom")
	a, _ := newTestAdmin(t, api)
	require.NoError(t, a.Load(context.Background()))

	err := a.DeleteTicket(context.Background(), 2, Confirmed(true))
	assert.True(t, apperrors.IsCode(err, apperrors.CodeServerFailure))
	assert.Equal(t, 1, api.Calls("tickets"))
	assert.Equal(t, 3, a.Snapshot().Total)

	active := a.Notifications().Active()
	require.Len(t, active, 2)
	assert.Equal(t, "Failed to delete ticket", active[1].Message)
}

func TestUpdateStatus(t *testing.T) {
	api := newFakeAPI(makeTickets(3))
	a, _ := newTestAdmin(t, api)
	require.NoError(t, a.Load(context.Background()))

	err := a.UpdateStatus(context.Background(), 1, "Escalated")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
	assert.Equal(t, 0, api.Calls("update_status"))

	require.NoError(t, a.UpdateStatus(context.Background(), 1, domain.TicketStatusResolved))
	assert.Equal(t, domain.TicketStatusResolved, api.lastStatus)
	assert.Equal(t, 2, api.Calls("tickets"))
}

func TestStaleStatsResultIsDiscarded(t *testing.T) {
	api := newFakeAPI(makeTickets(3))
	started := make(chan struct{})
	release := make(chan struct{})
	api.statsFn = func(context.Context) (domain.DashboardStats, error) {
		close(started)
		<-release
		return domain.DashboardStats{Total: 1}, nil
	}
	api.liveStatsFn = func(context.Context) (domain.DashboardStats, error) {
		return domain.DashboardStats{Total: 99}, nil
	}
	a, _ := newTestAdmin(t, api)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = a.Load(context.Background())
	}()
	<-started
	require.NoError(t, a.RefreshStats(context.Background()))
	close(release)
	wg.Wait()

	assert.Equal(t, 99, a.Snapshot().Stats.Total)
}

func TestRefreshStatsFailureNotifiesOnce(t *testing.T) {
	api := newFakeAPI(makeTickets(3))
	a, _ := newTestAdmin(t, api)
	require.NoError(t, a.Load(context.Background()))
	a.Notifications().Clear()

	api.liveStatsFn = func(context.Context) (domain.DashboardStats, error) {
		return domain.DashboardStats{}, apperrors.NewNetworkFailure("/api/admin/stats/live", errors.New("timeout"))
	}
	require.Error(t, a.RefreshStats(context.Background()))
	require.Error(t, a.RefreshStats(context.Background()))

	active := a.Notifications().Active()
	require.Len(t, active, 1)
	assert.Equal(t, msgRefreshError, active[0].Message)
	assert.Equal(t, domain.RegionError, a.Snapshot().Regions[domain.RegionStats])
}

func TestQuickViewAndEscape(t *testing.T) {
	api := newFakeAPI(makeTickets(3))
	a, screen := newTestAdmin(t, api)
	require.NoError(t, a.Load(context.Background()))

	require.NoError(t, a.Dispatch(context.Background(), events.Event{Type: events.EventQuickView, TicketID: 2}))
	require.NotNil(t, a.Snapshot().Overlay)
	assert.Contains(t, screen.Overlay(), "Ticket #2")

	page, err := a.Page()
	require.NoError(t, err)
	assert.Contains(t, page, `id="ticketModal"`)

	key, ok := events.FromKey(events.KeyChord{Key: "Escape"})
	require.True(t, ok)
	require.NoError(t, a.Dispatch(context.Background(), events.Event{Type: key}))
	assert.Nil(t, a.Snapshot().Overlay)
	assert.Empty(t, screen.Overlay())
}

func TestReloadShortcut(t *testing.T) {
	api := newFakeAPI(makeTickets(3))
	a, _ := newTestAdmin(t, api)
	require.NoError(t, a.Load(context.Background()))

	key, ok := events.FromKey(events.KeyChord{Key: "r", Ctrl: true})
	require.True(t, ok)
	require.NoError(t, a.Dispatch(context.Background(), events.Event{Type: key}))
	assert.Equal(t, 2, api.Calls("tickets"))
}

func TestExportShortcutUsesFilteredCollection(t *testing.T) {
	api := newFakeAPI(makeTickets(6))
	a, _ := newTestAdmin(t, api)
	require.NoError(t, a.Load(context.Background()))
	a.SetStatusFilter(domain.TicketStatusResolved)

	key, ok := events.FromKey(events.KeyChord{Key: "e", Meta: true})
	require.True(t, ok)
	require.NoError(t, a.Dispatch(context.Background(), events.Event{Type: key}))

	file := a.LastExport()
	require.NotNil(t, file)
	assert.Equal(t, "support-tickets-2026-10-16.csv", file.Name)
	lines := strings.Split(strings.TrimSpace(string(file.Data)), "\n")
	assert.Len(t, lines, 4)

	_, err := a.Export("pdf")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidationFailed))
}

func TestComingSoonActions(t *testing.T) {
	api := newFakeAPI(makeTickets(1))
	a, _ := newTestAdmin(t, api)

	require.NoError(t, a.Dispatch(context.Background(), events.Event{Type: events.EventAssignTicket, TicketID: 1}))
	require.NoError(t, a.Dispatch(context.Background(), events.Event{Type: events.EventAddNote, TicketID: 1}))

	active := a.Notifications().Active()
	require.Len(t, active, 2)
	assert.Equal(t, notify.LevelInfo, active[0].Level)
	assert.Contains(t, active[1].Message, "coming soon")
}

func TestLoadAnalytics(t *testing.T) {
	api := newFakeAPI(makeTickets(2))
	api.usersErr = errors.New("forbidden")
	a, screen := newTestAdmin(t, api)

	require.NoError(t, a.LoadAnalytics(context.Background()))
	frame, ok := screen.Region(domain.RegionAnalytics)
	require.True(t, ok)
	assert.Equal(t, domain.RegionReady, frame.State)
	assert.Contains(t, frame.HTML, "Billing")
	assert.Contains(t, frame.HTML, "Ticket 1")

	api.analyticsFn = func(context.Context) (domain.Analytics, error) {
		return domain.Analytics{}, apperrors.NewServerFailure("/admin/api/analytics-data", 500, "")
	}
	require.Error(t, a.LoadAnalytics(context.Background()))
	frame, _ = screen.Region(domain.RegionAnalytics)
	assert.Equal(t, domain.RegionError, frame.State)
	assert.Contains(t, frame.HTML, "Billing")
}

func TestLoadRefreshesAnalytics(t *testing.T) {
	api := newFakeAPI(makeTickets(2))
	a, screen := newTestAdmin(t, api)

	require.NoError(t, a.Load(context.Background()))
	assert.Equal(t, 1, api.Calls("analytics"))
	frame, ok := screen.Region(domain.RegionAnalytics)
	require.True(t, ok)
	assert.Equal(t, domain.RegionReady, frame.State)
	assert.Contains(t, frame.HTML, "Billing")
	require.Len(t, a.Notifications().Active(), 1)
}

func TestReloadRetriesFailedAnalytics(t *testing.T) {
	api := newFakeAPI(makeTickets(2))
	api.analyticsFn = func(context.Context) (domain.Analytics, error) {
		return domain.Analytics{}, apperrors.NewServerFailure("/admin/api/analytics-data", 500, "")
	}
	a, _ := newTestAdmin(t, api)

	err := a.Load(context.Background())
	require.Error(t, err)
	snap := a.Snapshot()
	assert.Equal(t, domain.RegionError, snap.Regions[domain.RegionAnalytics])
	assert.Equal(t, domain.RegionReady, snap.Regions[domain.RegionTickets])
	assert.Equal(t, domain.RegionReady, snap.Regions[domain.RegionStats])
	active := a.Notifications().Active()
	require.Len(t, active, 1)
	assert.Equal(t, notify.LevelError, active[0].Level)

	api.analyticsFn = nil
	require.NoError(t, a.Dispatch(context.Background(), events.Event{Type: events.EventReload}))
	assert.Equal(t, 2, api.Calls("analytics"))
	assert.Equal(t, domain.RegionReady, a.Snapshot().Regions[domain.RegionAnalytics])
}

func TestPageBeforeLoadShowsPlaceholders(t *testing.T) {
	a, _ := newTestAdmin(t, newFakeAPI(nil))

	page, err := a.Page()
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(page, "loading-spinner"))
}
