// Package dashboard holds the admin and user dashboard controllers. A
// controller owns its ticket collection, filter criteria and page state,
// loads regions through the gateway and pushes rendered fragments to a Screen.
package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/events"
	"github.com/spec-kit/ticket-dashboard/internal/filter"
	"github.com/spec-kit/ticket-dashboard/internal/notify"
	"github.com/spec-kit/ticket-dashboard/internal/render"
	apperrors "github.com/spec-kit/ticket-dashboard/pkg/util/errorutil"
)

const (
	DefaultPageSize       = 10
	DefaultSearchDebounce = 300 * time.Millisecond

	msgLoadSuccess  = "Dashboard updated successfully"
	msgLoadError    = "Error loading dashboard data"
	msgRefreshError = "Error refreshing statistics"
)

// Confirmer asks the person at the screen to confirm a destructive action.
type Confirmer func(ctx context.Context, prompt string) bool

// Confirmed returns a Confirmer with a fixed answer.
func Confirmed(ok bool) Confirmer {
	return func(context.Context, string) bool { return ok }
}

// Options are the collaborators shared by both controller variants.
type Options struct {
	Renderer       *render.Renderer
	Screen         Screen
	Notifications  *notify.Center
	Logger         *zap.Logger
	PageSize       int
	SearchDebounce time.Duration
	Location       *time.Location
}

// source is the set of gateway calls a variant plugs into the shared core.
type source struct {
	tickets      func(context.Context) ([]domain.Ticket, error)
	stats        func(context.Context) (domain.DashboardStats, error)
	liveStats    func(context.Context) (domain.DashboardStats, error)
	deleteTicket func(context.Context, int64) error
	deletePrompt string
	extra        []regionLoader
}

// regionLoader fetches a variant-specific region. fetch returns the render
// step, which runs under the controller lock.
type regionLoader struct {
	region  domain.Region
	op      string
	failMsg string
	fetch   func(ctx context.Context) (func(*render.Renderer) (string, error), error)
}

type regionSlot struct {
	state   domain.RegionState
	issued  uint64
	applied uint64
	content string
	current string
}

// Controller is the state shared by the admin and user dashboards. All state
// mutation and rendering happens under mu; gateway calls are made without it.
type Controller struct {
	view     render.View
	title    string
	src      source
	renderer *render.Renderer
	screen   Screen
	notes    *notify.Center
	logger   *zap.Logger
	loc      *time.Location
	debounce time.Duration
	order    []domain.Region

	mu            sync.Mutex
	tickets       []domain.Ticket
	ticketsLoaded bool
	stats         domain.DashboardStats
	criteria      domain.FilterCriteria
	computed      domain.FilterCriteria
	page          domain.PageState
	filtered      []domain.Ticket
	regions       map[domain.Region]*regionSlot
	overlay       *domain.Ticket

	searchMu    sync.Mutex
	searchTimer *time.Timer

	dispatcher events.Dispatcher
}

func newController(view render.View, title string, src source, opts Options, regions ...domain.Region) *Controller {
	if opts.Renderer == nil {
		opts.Renderer = render.MustNew()
	}
	if opts.Screen == nil {
		opts.Screen = discardScreen{}
	}
	if opts.Notifications == nil {
		opts.Notifications = notify.NewCenter(notify.DefaultTTL)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.PageSize < 1 {
		opts.PageSize = DefaultPageSize
	}
	if opts.SearchDebounce <= 0 {
		opts.SearchDebounce = DefaultSearchDebounce
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if src.liveStats == nil {
		src.liveStats = src.stats
	}

	c := &Controller{
		view:       view,
		title:      title,
		src:        src,
		renderer:   opts.Renderer,
		screen:     opts.Screen,
		notes:      opts.Notifications,
		logger:     opts.Logger.With(zap.String("view", string(view))),
		loc:        opts.Location,
		debounce:   opts.SearchDebounce,
		order:      regions,
		page:       domain.NewPageState(opts.PageSize),
		regions:    make(map[domain.Region]*regionSlot, len(regions)),
		dispatcher: events.NewDispatcher(),
	}
	for _, r := range regions {
		c.regions[r] = &regionSlot{state: domain.RegionLoading}
	}
	c.registerShared()
	return c
}

// View reports which dashboard this controller drives.
func (c *Controller) View() render.View { return c.view }

// Notifications exposes the controller's notification center.
func (c *Controller) Notifications() *notify.Center { return c.notes }

// Load fetches tickets, stats and any variant regions concurrently. Each region
// settles on its own; exactly one notification reports the outcome.
func (c *Controller) Load(ctx context.Context) error {
	ticketsGen := c.begin(domain.RegionTickets, true)
	statsGen := c.begin(domain.RegionStats, true)
	extraGens := make([]uint64, len(c.src.extra))
	for i, l := range c.src.extra {
		extraGens[i] = c.begin(l.region, true)
	}

	var (
		wg                   sync.WaitGroup
		tickets              []domain.Ticket
		stats                domain.DashboardStats
		ticketsErr, statsErr error
		renders              = make([]func(*render.Renderer) (string, error), len(c.src.extra))
		extraErrs            = make([]error, len(c.src.extra))
	)
	wg.Add(2 + len(c.src.extra))
	go func() {
		defer wg.Done()
		tickets, ticketsErr = c.src.tickets(ctx)
	}()
	go func() {
		defer wg.Done()
		stats, statsErr = c.src.stats(ctx)
	}()
	for i, l := range c.src.extra {
		go func(i int, l regionLoader) {
			defer wg.Done()
			renders[i], extraErrs[i] = l.fetch(ctx)
		}(i, l)
	}
	wg.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()

	if ticketsErr != nil {
		c.logFailure("load tickets", ticketsErr)
		c.failLocked(domain.RegionTickets, ticketsGen, "Error loading tickets")
	} else if c.acceptLocked(domain.RegionTickets, ticketsGen) {
		c.tickets = tickets
		c.ticketsLoaded = true
		c.renderTicketsLocked(true)
	}

	if statsErr != nil {
		c.logFailure("load stats", statsErr)
		c.failLocked(domain.RegionStats, statsGen, "Error loading statistics")
	} else {
		c.applyStatsLocked(statsGen, stats)
	}

	for i, l := range c.src.extra {
		c.settleLocked(l, extraGens[i], renders[i], extraErrs[i])
	}

	err := errors.Join(append([]error{ticketsErr, statsErr}, extraErrs...)...)
	if err == nil {
		c.notifyLocked(notify.LevelSuccess, msgLoadSuccess)
		return nil
	}
	c.notifyLocked(notify.LevelError, msgLoadError)
	return err
}

// loadRegion loads a single variant region outside of Load and notifies a
// failure on its own.
func (c *Controller) loadRegion(ctx context.Context, l regionLoader) error {
	gen := c.begin(l.region, true)
	renderFn, err := l.fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.settleLocked(l, gen, renderFn, err)
	if err != nil {
		c.notifyLocked(notify.LevelError, l.failMsg)
	}
	return err
}

func (c *Controller) settleLocked(l regionLoader, gen uint64, renderFn func(*render.Renderer) (string, error), err error) {
	if err != nil {
		c.logFailure(l.op, err)
		c.failLocked(l.region, gen, l.failMsg)
		return
	}
	if !c.acceptLocked(l.region, gen) {
		return
	}
	html, renderErr := renderFn(c.renderer)
	c.showLocked(l.region, html, renderErr)
}

// RefreshStats reloads the stats region only.
func (c *Controller) RefreshStats(ctx context.Context) error {
	gen := c.begin(domain.RegionStats, false)
	stats, err := c.src.liveStats(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.logFailure("refresh stats", err)
		c.failLocked(domain.RegionStats, gen, "Error loading statistics")
		c.notifyLocked(notify.LevelError, msgRefreshError)
		return err
	}
	c.applyStatsLocked(gen, stats)
	return nil
}

// ApplyFilters recomputes the filtered collection and re-renders the ticket
// region. The page resets to 1 when the criteria changed since the last run.
func (c *Controller) ApplyFilters() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.renderTicketsLocked(false)
}

// SetStatusFilter filters on an exact status; empty clears it.
func (c *Controller) SetStatusFilter(status domain.TicketStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.criteria.Status = status
	c.renderTicketsLocked(false)
}

// SetPriorityFilter filters on an exact priority; empty clears it.
func (c *Controller) SetPriorityFilter(priority domain.TicketPriority) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.criteria.Priority = priority
	c.renderTicketsLocked(false)
}

// SetSearch sets the free text filter immediately.
func (c *Controller) SetSearch(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.criteria.Search = text
	c.renderTicketsLocked(false)
}

// SearchInput applies text as the search filter once input has been quiet for
// the debounce delay.
func (c *Controller) SearchInput(text string) {
	c.searchMu.Lock()
	defer c.searchMu.Unlock()
	if c.searchTimer != nil {
		c.searchTimer.Stop()
	}
	c.searchTimer = time.AfterFunc(c.debounce, func() {
		c.SetSearch(text)
	})
}

// SetDateRange parses a "from to to" picker value; empty clears the range.
func (c *Controller) SetDateRange(value string) error {
	from, to, err := filter.ParseDateRange(value, c.loc)
	if err != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.notifyLocked(notify.LevelWarning, "Invalid date range")
		return apperrors.NewValidationError("invalid date range", map[string]any{"value": value, "reason": err.Error()})
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.criteria.CreatedFrom = from
	c.criteria.CreatedTo = to
	c.renderTicketsLocked(false)
	return nil
}

// SetPageSize changes the page size and returns to page 1.
func (c *Controller) SetPageSize(size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page = c.page.WithSize(size)
	c.renderTicketsLocked(false)
}

// GoToPage moves to page n. Pages outside the current range are ignored.
func (c *Controller) GoToPage(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := filter.TotalPages(len(c.filtered), c.page.Size)
	if n < 1 || n > total || n == c.page.Page {
		return
	}
	c.page.Page = n
	c.renderTicketsLocked(false)
}

// ClearFilters drops every criterion.
func (c *Controller) ClearFilters() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.criteria = domain.FilterCriteria{}
	c.renderTicketsLocked(false)
}

// DeleteTicket removes a ticket after confirmation. A declined prompt sends
// nothing and changes nothing.
func (c *Controller) DeleteTicket(ctx context.Context, id int64, confirm Confirmer) error {
	if confirm == nil || !confirm(ctx, c.src.deletePrompt) {
		return nil
	}
	return c.mutate(ctx, "delete ticket", func(ctx context.Context) error {
		return c.src.deleteTicket(ctx, id)
	}, "Ticket deleted successfully", "Failed to delete ticket")
}

// mutate runs a mutating gateway call, notifies the outcome and reloads the
// whole dashboard on success.
func (c *Controller) mutate(ctx context.Context, op string, action func(context.Context) error, okMsg, failMsg string) error {
	if err := action(ctx); err != nil {
		c.logFailure(op, err)
		c.Notify(notify.LevelError, failMsg)
		return err
	}
	c.Notify(notify.LevelSuccess, okMsg)
	return c.Load(ctx)
}

// DismissOverlay closes the quick-view overlay.
func (c *Controller) DismissOverlay() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.overlay = nil
	c.screen.ShowOverlay("")
}

func (c *Controller) showOverlay(t domain.Ticket) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	html, err := c.renderer.Overlay(t)
	if err != nil {
		c.logger.Error("render overlay", zap.Error(err))
		return apperrors.NewInternalError(err)
	}
	c.overlay = &t
	c.screen.ShowOverlay(html)
	return nil
}

// Notify records a notification and re-renders the notification stack.
func (c *Controller) Notify(level notify.Level, message string) notify.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notifyLocked(level, message)
}

// DismissNotification removes a notification by id.
func (c *Controller) DismissNotification(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	ok := c.notes.Dismiss(id)
	c.pushNotificationsLocked()
	return ok
}

// Dispatch routes a UI event through the controller's dispatch table.
func (c *Controller) Dispatch(ctx context.Context, event events.Event) error {
	return c.dispatcher.Dispatch(ctx, event)
}

// Handles reports whether the controller reacts to the event type.
func (c *Controller) Handles(t events.EventType) bool {
	return c.dispatcher.Handles(t)
}

// Close stops a pending debounced search.
func (c *Controller) Close() {
	c.searchMu.Lock()
	defer c.searchMu.Unlock()
	if c.searchTimer != nil {
		c.searchTimer.Stop()
	}
}

// Snapshot is a read-only copy of controller state.
type Snapshot struct {
	Criteria   domain.FilterCriteria
	Page       domain.PageState
	TotalPages int
	Total      int
	Filtered   int
	Stats      domain.DashboardStats
	Regions    map[domain.Region]domain.RegionState
	Overlay    *domain.Ticket
}

// Snapshot copies the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	regions := make(map[domain.Region]domain.RegionState, len(c.regions))
	for r, slot := range c.regions {
		regions[r] = slot.state
	}
	var overlay *domain.Ticket
	if c.overlay != nil {
		t := *c.overlay
		overlay = &t
	}
	return Snapshot{
		Criteria:   c.criteria,
		Page:       c.page,
		TotalPages: filter.TotalPages(len(c.filtered), c.page.Size),
		Total:      len(c.tickets),
		Filtered:   len(c.filtered),
		Stats:      c.stats,
		Regions:    regions,
		Overlay:    overlay,
	}
}

// Filtered returns a copy of the filtered collection across all pages.
func (c *Controller) Filtered() []domain.Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Ticket, len(c.filtered))
	copy(out, c.filtered)
	return out
}

func (c *Controller) ticket(id int64) (domain.Ticket, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.tickets {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Ticket{}, false
}

// Frame returns the fragment region r currently shows.
func (c *Controller) Frame(r domain.Region) (Frame, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.regions[r]; !ok {
		return Frame{}, false
	}
	return c.frameLocked(r), true
}

// Regions lists the regions of this dashboard in page order.
func (c *Controller) Regions() []domain.Region {
	out := make([]domain.Region, len(c.order))
	copy(out, c.order)
	return out
}

// OverlayHTML renders the open overlay, empty when none is open.
func (c *Controller) OverlayHTML() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.overlay == nil {
		return "", nil
	}
	return c.renderer.Overlay(*c.overlay)
}

// NotificationsHTML renders the notifications still visible.
func (c *Controller) NotificationsHTML() (string, error) {
	return c.renderer.Notifications(c.notes.Active())
}

// Page renders the full page: every region, notifications and the overlay.
func (c *Controller) Page() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	regions := make([]render.PageRegion, 0, len(c.order))
	for _, r := range c.order {
		frame := c.frameLocked(r)
		regions = append(regions, render.PageRegion{Name: r, State: frame.State, HTML: frame.HTML})
	}
	notes, err := c.renderer.Notifications(c.notes.Active())
	if err != nil {
		return "", err
	}
	overlay := ""
	if c.overlay != nil {
		if overlay, err = c.renderer.Overlay(*c.overlay); err != nil {
			return "", err
		}
	}
	return c.renderer.Page(render.PageData{
		Title:         c.title,
		View:          c.view,
		Regions:       regions,
		Notifications: notes,
		Overlay:       overlay,
	})
}

// begin issues a new generation for region r. A visible begin flips the
// region to Loading; a region without content shows the loading placeholder.
func (c *Controller) begin(r domain.Region, visible bool) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	slot := c.regions[r]
	slot.issued++
	if visible {
		slot.state = domain.RegionLoading
		c.screen.ShowRegion(c.frameLocked(r))
	}
	return slot.issued
}

// acceptLocked reports whether a result of generation gen may be applied,
// recording it as the newest applied result when it may.
func (c *Controller) acceptLocked(r domain.Region, gen uint64) bool {
	slot := c.regions[r]
	if gen <= slot.applied {
		c.logger.Debug("discarding stale region result",
			zap.String("region", string(r)),
			zap.Uint64("generation", gen),
			zap.Uint64("applied", slot.applied))
		return false
	}
	slot.applied = gen
	return true
}

// failLocked moves a region to Error, keeping its last content when it has any.
func (c *Controller) failLocked(r domain.Region, gen uint64, message string) {
	if !c.acceptLocked(r, gen) {
		return
	}
	slot := c.regions[r]
	slot.state = domain.RegionError
	if slot.content != "" {
		slot.current = slot.content
	} else {
		html, err := c.renderer.Error(r, message)
		if err != nil {
			c.logger.Error("render error placeholder", zap.String("region", string(r)), zap.Error(err))
		}
		slot.current = html
	}
	c.screen.ShowRegion(Frame{Region: r, State: slot.state, HTML: slot.current})
}

// showLocked publishes freshly rendered content for a region.
func (c *Controller) showLocked(r domain.Region, html string, renderErr error) {
	slot := c.regions[r]
	if renderErr != nil {
		c.logger.Error("render region", zap.String("region", string(r)), zap.Error(renderErr))
		slot.state = domain.RegionError
		if slot.content == "" {
			slot.current, _ = c.renderer.Error(r, "Unable to display this section")
		}
	} else {
		slot.state = domain.RegionReady
		slot.content = html
		slot.current = html
	}
	c.screen.ShowRegion(Frame{Region: r, State: slot.state, HTML: slot.current})
}

func (c *Controller) frameLocked(r domain.Region) Frame {
	slot := c.regions[r]
	html := slot.current
	if slot.state == domain.RegionLoading && slot.content == "" {
		html, _ = c.renderer.Loading(r)
	}
	return Frame{Region: r, State: slot.state, HTML: html}
}

func (c *Controller) applyStatsLocked(gen uint64, stats domain.DashboardStats) {
	if !c.acceptLocked(domain.RegionStats, gen) {
		return
	}
	previous := c.stats
	c.stats = stats
	html, err := c.renderer.Stats(c.view, previous, stats)
	c.showLocked(domain.RegionStats, html, err)
}

// renderTicketsLocked is the filter, paginate, render pipeline of the ticket
// region. clamp pulls the page back into range after the collection changed.
func (c *Controller) renderTicketsLocked(clamp bool) {
	if !c.criteria.Equal(c.computed) {
		c.page = c.page.Reset()
		c.computed = c.criteria
	}
	c.filtered = filter.Apply(c.tickets, c.criteria)
	totalPages := filter.TotalPages(len(c.filtered), c.page.Size)
	if clamp {
		c.page = c.page.Clamp(totalPages)
	}
	if !c.ticketsLoaded {
		return
	}
	visible, _ := filter.Paginate(c.filtered, c.page.Page, c.page.Size)
	html, err := c.renderer.Tickets(render.TicketList{
		View:       c.view,
		Tickets:    visible,
		Filtered:   len(c.filtered),
		Total:      len(c.tickets),
		Page:       c.page.Page,
		TotalPages: totalPages,
		Criteria:   c.criteria,
	})
	c.showLocked(domain.RegionTickets, html, err)
}

func (c *Controller) notifyLocked(level notify.Level, message string) notify.Notification {
	n := c.notes.Notify(level, message)
	c.pushNotificationsLocked()
	return n
}

func (c *Controller) pushNotificationsLocked() {
	html, err := c.renderer.Notifications(c.notes.Active())
	if err != nil {
		c.logger.Error("render notifications", zap.Error(err))
		return
	}
	c.screen.ShowNotifications(html)
}

func (c *Controller) logFailure(op string, err error) {
	domainErr := apperrors.ToDomainError(err)
	c.logger.Warn("dashboard operation failed",
		zap.String("op", op),
		zap.String("code", domainErr.Code),
		zap.Any("details", domainErr.Details),
		zap.Error(err))
}
