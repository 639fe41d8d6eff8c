package dto

import (
	"encoding/json"
	"math"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// StatsPayload is a stats object keyed by whichever spelling the endpoint
// uses (`totalTickets`, `total_tickets` or `total`).
type StatsPayload map[string]json.RawMessage

// ToDomain resolves every known key spelling into a stats snapshot.
func (p StatsPayload) ToDomain() domain.DashboardStats {
	return domain.DashboardStats{
		Total:              p.intValue("totalTickets", "total_tickets", "total"),
		Open:               p.intValue("openTickets", "open_tickets", "open"),
		InProgress:         p.intValue("inProgressTickets", "in_progress_tickets", "in_progress"),
		Resolved:           p.intValue("resolvedTickets", "resolved_tickets", "resolved"),
		Closed:             p.intValue("closedTickets", "closed_tickets", "closed"),
		ResolvedToday:      p.intValue("resolvedToday", "resolved_today"),
		ActiveUsers:        p.intValue("activeUsers", "active_users"),
		AvgResponseMinutes: p.floatValue("avgResponseTime", "avg_response_time"),
		StatusCounts:       p.countsValue("statusCounts", "status_counts"),
		PriorityCounts:     p.countsValue("priorityCounts", "priority_counts", "priorities"),
		CategoryCounts:     p.countsValue("categoryCounts", "category_counts", "categories"),
	}
}

// Empty reports whether no key was present.
func (p StatsPayload) Empty() bool {
	return len(p) == 0
}

func (p StatsPayload) lookup(keys ...string) (json.RawMessage, bool) {
	for _, key := range keys {
		if raw, ok := p[key]; ok && string(raw) != "null" {
			return raw, true
		}
	}
	return nil, false
}

func (p StatsPayload) floatValue(keys ...string) float64 {
	raw, ok := p.lookup(keys...)
	if !ok {
		return 0
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0
	}
	return v
}

func (p StatsPayload) intValue(keys ...string) int {
	return int(math.Round(p.floatValue(keys...)))
}

func (p StatsPayload) countsValue(keys ...string) map[string]int {
	raw, ok := p.lookup(keys...)
	if !ok {
		return nil
	}
	var counts map[string]int
	if err := json.Unmarshal(raw, &counts); err != nil {
		return nil
	}
	return counts
}

// StatsResponse wraps the stats endpoints. Some return `{success, stats}`,
// others put the counters at the top level; Resolve handles both.
type StatsResponse struct {
	Envelope
	Stats StatsPayload `json:"stats,omitempty"`
}

// Resolve returns the nested stats object or, failing that, the top level body.
func (r StatsResponse) Resolve(body []byte) (domain.DashboardStats, error) {
	if !r.Stats.Empty() {
		return r.Stats.ToDomain(), nil
	}
	var top StatsPayload
	if err := json.Unmarshal(body, &top); err != nil {
		return domain.DashboardStats{}, err
	}
	return top.ToDomain(), nil
}

// DailyTrendPayload is one entry of analytics daily_trends.
type DailyTrendPayload struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// UserStatsPayload is the analytics user_stats object.
type UserStatsPayload struct {
	TotalUsers        int     `json:"total_users"`
	AvgTicketsPerUser float64 `json:"avg_tickets_per_user"`
}

// AnalyticsResponse wraps GET /admin/api/analytics-data.
type AnalyticsResponse struct {
	Envelope
	DailyTrends []DailyTrendPayload `json:"daily_trends"`
	UserStats   UserStatsPayload    `json:"user_stats"`
}

// ToDomain combines the typed fields with the stats keys of the same body.
func (r AnalyticsResponse) ToDomain(body []byte) (domain.Analytics, error) {
	var top StatsPayload
	if err := json.Unmarshal(body, &top); err != nil {
		return domain.Analytics{}, err
	}
	trends := make([]domain.DailyCount, 0, len(r.DailyTrends))
	for _, d := range r.DailyTrends {
		trends = append(trends, domain.DailyCount{Date: d.Date, Count: d.Count})
	}
	return domain.Analytics{
		Stats:             top.ToDomain(),
		DailyTrends:       trends,
		TotalUsers:        r.UserStats.TotalUsers,
		AvgTicketsPerUser: r.UserStats.AvgTicketsPerUser,
	}, nil
}

// DashboardSummaryResponse wraps GET /admin/api/dashboard-stats.
type DashboardSummaryResponse struct {
	Envelope
	TotalUsers    int             `json:"total_users"`
	RecentTickets []TicketPayload `json:"recent_tickets"`
}

// ToDomain combines the typed fields with the stats keys of the same body.
func (r DashboardSummaryResponse) ToDomain(body []byte) (domain.DashboardSummary, error) {
	var top StatsPayload
	if err := json.Unmarshal(body, &top); err != nil {
		return domain.DashboardSummary{}, err
	}
	return domain.DashboardSummary{
		Stats:         top.ToDomain(),
		TotalUsers:    r.TotalUsers,
		RecentTickets: TicketsToDomain(r.RecentTickets),
	}, nil
}
