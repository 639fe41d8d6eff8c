package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/events"
	"github.com/spec-kit/ticket-dashboard/internal/export"
	"github.com/spec-kit/ticket-dashboard/internal/notify"
	"github.com/spec-kit/ticket-dashboard/internal/render"
	apperrors "github.com/spec-kit/ticket-dashboard/pkg/util/errorutil"
)

// AdminAPI is the part of the ticket API the admin dashboard consumes.
type AdminAPI interface {
	AdminTickets(ctx context.Context) ([]domain.Ticket, error)
	AdminStats(ctx context.Context) (domain.DashboardStats, error)
	LiveStats(ctx context.Context) (domain.DashboardStats, error)
	Ticket(ctx context.Context, id int64) (domain.Ticket, error)
	UpdateTicketStatus(ctx context.Context, id int64, status domain.TicketStatus) error
	DeleteTicket(ctx context.Context, id int64) error
	DashboardSummary(ctx context.Context) (domain.DashboardSummary, error)
	Analytics(ctx context.Context) (domain.Analytics, error)
	Users(ctx context.Context) ([]domain.User, error)
}

// Admin is the admin dashboard: every ticket, live stats, status changes,
// deletes, quick view, export and the analytics region.
type Admin struct {
	*Controller
	api          AdminAPI
	exportFormat export.Format
	now          func() time.Time
	lastExportMu sync.Mutex
	lastExport   *export.File
}

// AdminOption customizes an Admin controller.
type AdminOption func(*Admin)

// WithExportFormat sets the format used by the export shortcut.
func WithExportFormat(f export.Format) AdminOption {
	return func(a *Admin) { a.exportFormat = f }
}

// WithClock sets the time source for export file names.
func WithClock(now func() time.Time) AdminOption {
	return func(a *Admin) { a.now = now }
}

// NewAdmin builds the admin controller.
func NewAdmin(api AdminAPI, opts Options, options ...AdminOption) *Admin {
	src := source{
		tickets:      api.AdminTickets,
		stats:        api.AdminStats,
		liveStats:    api.LiveStats,
		deleteTicket: api.DeleteTicket,
		deletePrompt: "Are you sure you want to delete this ticket? This action cannot be undone.",
	}
	a := &Admin{
		api:          api,
		exportFormat: export.FormatCSV,
		now:          time.Now,
	}
	src.extra = []regionLoader{a.analyticsLoader()}
	a.Controller = newController(render.ViewAdmin, "Admin Dashboard", src, opts, domain.RegionStats, domain.RegionTickets, domain.RegionAnalytics)
	for _, opt := range options {
		opt(a)
	}
	a.registerAdmin()
	return a
}

// UpdateStatus moves a ticket to a new status and reloads on success.
func (a *Admin) UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus) error {
	if !status.Valid() {
		a.Notify(notify.LevelWarning, fmt.Sprintf("Unknown status %q", status))
		return apperrors.NewValidationError("invalid status", map[string]any{"status": string(status)})
	}
	return a.mutate(ctx, "update status", func(ctx context.Context) error {
		return a.api.UpdateTicketStatus(ctx, id, status)
	}, fmt.Sprintf("Ticket status updated to %s", status), "Error updating ticket status")
}

// QuickView loads one ticket into the overlay.
func (a *Admin) QuickView(ctx context.Context, id int64) error {
	t, err := a.api.Ticket(ctx, id)
	if err != nil {
		a.logFailure("quick view", err)
		a.Notify(notify.LevelError, "Error loading ticket details")
		return err
	}
	return a.showOverlay(t)
}

// AssignTicket is not supported by the ticket API yet.
func (a *Admin) AssignTicket(int64) {
	a.Notify(notify.LevelInfo, "Assign ticket functionality coming soon")
}

// AddNote is not supported by the ticket API yet.
func (a *Admin) AddNote(int64) {
	a.Notify(notify.LevelInfo, "Add note functionality coming soon")
}

// LoadAnalytics reloads only the analytics region. Load refreshes it together
// with tickets and stats.
func (a *Admin) LoadAnalytics(ctx context.Context) error {
	return a.loadRegion(ctx, a.analyticsLoader())
}

// analyticsLoader fetches the analytics region. The analytics call decides
// the region outcome; the summary and user list only enrich it.
func (a *Admin) analyticsLoader() regionLoader {
	return regionLoader{
		region:  domain.RegionAnalytics,
		op:      "load analytics",
		failMsg: "Error loading analytics",
		fetch: func(ctx context.Context) (func(*render.Renderer) (string, error), error) {
			data, err := a.fetchAnalytics(ctx)
			if err != nil {
				return nil, err
			}
			return func(r *render.Renderer) (string, error) { return r.Analytics(data) }, nil
		},
	}
}

func (a *Admin) fetchAnalytics(ctx context.Context) (render.AnalyticsData, error) {
	var (
		wg                                 sync.WaitGroup
		data                               render.AnalyticsData
		analyticsErr, summaryErr, usersErr error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		data.Analytics, analyticsErr = a.api.Analytics(ctx)
	}()
	go func() {
		defer wg.Done()
		data.Summary, summaryErr = a.api.DashboardSummary(ctx)
	}()
	go func() {
		defer wg.Done()
		data.Users, usersErr = a.api.Users(ctx)
	}()
	wg.Wait()

	if summaryErr != nil {
		a.logFailure("load dashboard summary", summaryErr)
	}
	if usersErr != nil {
		a.logFailure("load users", usersErr)
	}
	if analyticsErr != nil {
		return render.AnalyticsData{}, analyticsErr
	}
	return data, nil
}

// Export renders the filtered collection, creator columns and a status and
// priority summary included. A blank format uses the configured default.
func (a *Admin) Export(format string) (*export.File, error) {
	f := a.exportFormat
	if format != "" {
		parsed, err := export.ParseFormat(format)
		if err != nil {
			return nil, err
		}
		f = parsed
	}
	file, err := export.Tickets(f, a.Filtered(), export.Options{
		IncludeUsers:     true,
		IncludeAnalytics: true,
		Now:              a.now(),
	})
	if err != nil {
		a.logger.Error("export tickets", zap.String("format", string(f)), zap.Error(err))
		a.Notify(notify.LevelError, "Error exporting tickets")
		return nil, err
	}
	a.lastExportMu.Lock()
	a.lastExport = file
	a.lastExportMu.Unlock()
	return file, nil
}

// LastExport returns the file produced by the most recent export.
func (a *Admin) LastExport() *export.File {
	a.lastExportMu.Lock()
	defer a.lastExportMu.Unlock()
	return a.lastExport
}

func (a *Admin) registerAdmin() {
	d := a.dispatcher
	d.Register(events.EventQuickView, func(ctx context.Context, ev events.Event) error {
		return a.QuickView(ctx, ev.TicketID)
	})
	d.Register(events.EventUpdateStatus, func(ctx context.Context, ev events.Event) error {
		return a.UpdateStatus(ctx, ev.TicketID, domain.TicketStatus(ev.Value))
	})
	d.Register(events.EventAssignTicket, func(_ context.Context, ev events.Event) error {
		a.AssignTicket(ev.TicketID)
		return nil
	})
	d.Register(events.EventAddNote, func(_ context.Context, ev events.Event) error {
		a.AddNote(ev.TicketID)
		return nil
	})
	d.Register(events.EventLoadAnalytics, func(ctx context.Context, _ events.Event) error {
		return a.LoadAnalytics(ctx)
	})
	d.Register(events.EventExport, func(_ context.Context, ev events.Event) error {
		file, err := a.Export(ev.Value)
		if err != nil {
			return err
		}
		a.Notify(notify.LevelSuccess, fmt.Sprintf("Export ready: %s", file.Name))
		return nil
	})
}
