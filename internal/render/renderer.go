// Package render turns dashboard state into HTML fragments. Templates are
// pongo2 with autoescaping on, so every API supplied string is escaped unless a
// template marks a pre-rendered fragment as safe.
package render

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/flosch/pongo2/v6"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/filter"
	"github.com/spec-kit/ticket-dashboard/internal/notify"
)

//go:embed templates/*.html
var templateFS embed.FS

// View selects the admin or user rendition of a dashboard.
type View string

const (
	ViewAdmin View = "admin"
	ViewUser  View = "user"
)

const (
	previewLength = 80
	pageWindow    = 5
	counterSteps  = 20
)

// Renderer renders dashboard regions.
type Renderer struct {
	templates map[string]*pongo2.Template
	now       func() time.Time
	loc       *time.Location
}

// New compiles the embedded templates.
func New() (*Renderer, error) {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	r := &Renderer{
		templates: make(map[string]*pongo2.Template, len(entries)),
		now:       time.Now,
		loc:       time.UTC,
	}
	for _, entry := range entries {
		data, err := templateFS.ReadFile(path.Join("templates", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", entry.Name(), err)
		}
		tpl, err := pongo2.FromString(string(data))
		if err != nil {
			return nil, fmt.Errorf("compiling template %s: %w", entry.Name(), err)
		}
		r.templates[strings.TrimSuffix(entry.Name(), ".html")] = tpl
	}
	return r, nil
}

// MustNew is New for package initialization and tests.
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

// WithClock overrides the reference time used for ages.
func (r *Renderer) WithClock(now func() time.Time) *Renderer {
	r.now = now
	return r
}

// WithLocation sets the zone dates are displayed in.
func (r *Renderer) WithLocation(loc *time.Location) *Renderer {
	if loc != nil {
		r.loc = loc
	}
	return r
}

func (r *Renderer) execute(name string, ctx pongo2.Context) (string, error) {
	tpl, ok := r.templates[name]
	if !ok {
		return "", fmt.Errorf("template %q not found", name)
	}
	out, err := tpl.Execute(ctx)
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return out, nil
}

// TicketRow is the display form of one ticket.
type TicketRow struct {
	ID            int64
	Title         string
	Description   string
	Preview       string
	Category      string
	Priority      string
	PriorityIcon  string
	PriorityStyle string
	Status        string
	StatusStyle   string
	CreatorName   string
	CreatorEmail  string
	Assignee      string
	Age           string
	CreatedDate   string
	CreatedTime   string
	Editable      bool
}

// Row converts a ticket for display in view v.
func (r *Renderer) Row(v View, t domain.Ticket) TicketRow {
	now := r.now()
	age := AdminAge(t.CreatedAt, now)
	if v == ViewUser {
		age = UserAge(t.CreatedAt, now, r.loc)
	}
	row := TicketRow{
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		Preview:       Preview(t.Description, previewLength),
		Category:      t.Category,
		Priority:      string(t.Priority),
		PriorityIcon:  PriorityIcon(t.Priority),
		PriorityStyle: PriorityStyle(t.Priority),
		Status:        string(t.Status),
		StatusStyle:   StatusStyle(t.Status),
		CreatorName:   t.CreatorName,
		CreatorEmail:  t.CreatorEmail,
		Assignee:      t.Assignee,
		Age:           age,
		Editable:      t.Editable(),
	}
	if !t.CreatedAt.IsZero() {
		created := t.CreatedAt.In(r.loc)
		row.CreatedDate = created.Format("Jan 2, 2006")
		row.CreatedTime = created.Format("15:04")
	}
	return row
}

// Preview truncates s to n runes, marking the cut with "...".
func Preview(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n])) + "..."
}

// TicketList is one rendered page of the filtered collection.
type TicketList struct {
	View       View
	Tickets    []domain.Ticket
	Filtered   int
	Total      int
	Page       int
	TotalPages int
	Criteria   domain.FilterCriteria
}

// Tickets renders the ticket region: rows or the empty state, followed by the
// summary line and the pagination bar.
func (r *Renderer) Tickets(list TicketList) (string, error) {
	var body string
	var err error
	if len(list.Tickets) == 0 {
		body, err = r.execute("empty", pongo2.Context{
			"filtered": !list.Criteria.IsZero(),
			"hint":     emptyHint(list.View),
		})
	} else {
		rows := make([]TicketRow, 0, len(list.Tickets))
		for _, t := range list.Tickets {
			rows = append(rows, r.Row(list.View, t))
		}
		name := "admin_tickets"
		if list.View == ViewUser {
			name = "user_tickets"
		}
		body, err = r.execute(name, pongo2.Context{"rows": rows})
	}
	if err != nil {
		return "", err
	}

	bar, err := r.execute("pagination", pongo2.Context{
		"shown":      list.Filtered,
		"total":      list.Total,
		"page":       list.Page,
		"prev":       list.Page - 1,
		"next":       list.Page + 1,
		"totalPages": list.TotalPages,
		"pages":      filter.PageWindow(list.Page, list.TotalPages, pageWindow),
	})
	if err != nil {
		return "", err
	}
	return body + bar, nil
}

func emptyHint(v View) string {
	if v == ViewUser {
		return "You have not created any tickets yet."
	}
	return "No tickets have been submitted yet."
}

// Counter is one animated stat card.
type Counter struct {
	ID     string
	Label  string
	Icon   string
	Value  int
	Frames string
}

func counter(id, label, icon string, previous, value int) Counter {
	frames := CounterFrames(previous, value, counterSteps)
	parts := make([]string, len(frames))
	for i, f := range frames {
		parts[i] = strconv.Itoa(f)
	}
	return Counter{ID: id, Label: label, Icon: icon, Value: value, Frames: strings.Join(parts, ",")}
}

// Stats renders the stat counters, animating from previous to current.
func (r *Renderer) Stats(v View, previous, current domain.DashboardStats) (string, error) {
	var counters []Counter
	avg := ""
	if v == ViewUser {
		counters = []Counter{
			counter("totalTickets", "Total Tickets", "ticket-alt", previous.Total, current.Total),
			counter("openTickets", "Open", "folder-open", previous.Open, current.Open),
			counter("inProgressTickets", "In Progress", "spinner", previous.InProgress, current.InProgress),
			counter("resolvedTickets", "Resolved", "check-circle", previous.Resolved, current.Resolved),
		}
	} else {
		counters = []Counter{
			counter("totalTickets", "Total Tickets", "ticket-alt", previous.Total, current.Total),
			counter("openTickets", "Open Tickets", "folder-open", previous.Open, current.Open),
			counter("resolvedTickets", "Resolved Today", "check-circle", previous.ResolvedToday, current.ResolvedToday),
			counter("activeUsers", "Active Users", "users", previous.ActiveUsers, current.ActiveUsers),
		}
		if current.AvgResponseMinutes > 0 {
			avg = strconv.FormatFloat(current.AvgResponseMinutes, 'f', -1, 64) + "m"
		}
	}
	return r.execute("stats", pongo2.Context{"counters": counters, "avgResponse": avg})
}

// Bucket is one labelled count of a distribution.
type Bucket struct {
	Label string
	Count int
}

// Distribution is a named set of buckets, sorted by label.
type Distribution struct {
	Name    string
	Title   string
	Buckets []Bucket
}

func distribution(name, title string, counts map[string]int) Distribution {
	labels := make([]string, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	buckets := make([]Bucket, 0, len(labels))
	for _, label := range labels {
		buckets = append(buckets, Bucket{Label: label, Count: counts[label]})
	}
	return Distribution{Name: name, Title: title, Buckets: buckets}
}

// AnalyticsData feeds the admin analytics region.
type AnalyticsData struct {
	Analytics domain.Analytics
	Summary   domain.DashboardSummary
	Users     []domain.User
}

// Analytics renders distributions, daily trends, user stats and recent tickets.
func (r *Renderer) Analytics(data AnalyticsData) (string, error) {
	stats := data.Analytics.Stats
	recent := make([]TicketRow, 0, len(data.Summary.RecentTickets))
	for _, t := range data.Summary.RecentTickets {
		recent = append(recent, r.Row(ViewAdmin, t))
	}
	totalUsers := data.Analytics.TotalUsers
	if totalUsers == 0 {
		totalUsers = data.Summary.TotalUsers
	}
	return r.execute("analytics", pongo2.Context{
		"totalUsers":        totalUsers,
		"avgTicketsPerUser": strconv.FormatFloat(data.Analytics.AvgTicketsPerUser, 'f', 1, 64),
		"distributions": []Distribution{
			distribution("status", "By status", stats.StatusCounts),
			distribution("priority", "By priority", stats.PriorityCounts),
			distribution("category", "By category", stats.CategoryCounts),
		},
		"trends": data.Analytics.DailyTrends,
		"recent": recent,
		"users":  data.Users,
	})
}

// Overlay renders the quick-view modal for one ticket.
func (r *Renderer) Overlay(t domain.Ticket) (string, error) {
	return r.execute("overlay", pongo2.Context{"row": r.Row(ViewAdmin, t)})
}

type notificationView struct {
	ID      string
	Message string
	Style   string
}

// Notifications renders the toast stack.
func (r *Renderer) Notifications(items []notify.Notification) (string, error) {
	views := make([]notificationView, 0, len(items))
	for _, n := range items {
		views = append(views, notificationView{ID: n.ID, Message: n.Message, Style: notificationStyle(string(n.Level))})
	}
	return r.execute("notifications", pongo2.Context{"notifications": views})
}

// Loading renders the placeholder shown while a region has no content yet.
func (r *Renderer) Loading(region domain.Region) (string, error) {
	return r.execute("placeholder", pongo2.Context{"kind": "loading", "region": string(region)})
}

// Error renders the placeholder of a region whose first load failed.
func (r *Renderer) Error(region domain.Region, message string) (string, error) {
	return r.execute("placeholder", pongo2.Context{"kind": "error", "region": string(region), "message": message})
}

// PageRegion is one pre-rendered region of the page shell.
type PageRegion struct {
	Name  domain.Region
	State domain.RegionState
	HTML  string
}

// PageData feeds the full page shell.
type PageData struct {
	Title         string
	View          View
	Regions       []PageRegion
	Notifications string
	Overlay       string
}

// Page renders the page shell around already rendered fragments.
func (r *Renderer) Page(data PageData) (string, error) {
	return r.execute("page", pongo2.Context{
		"title":         data.Title,
		"view":          string(data.View),
		"regions":       data.Regions,
		"notifications": data.Notifications,
		"overlay":       data.Overlay,
	})
}
