package domain

import "time"

// DashboardStats is an aggregate snapshot produced by the ticket API.
type DashboardStats struct {
	Total              int
	Open               int
	InProgress         int
	Resolved           int
	Closed             int
	ResolvedToday      int
	ActiveUsers        int
	AvgResponseMinutes float64
	StatusCounts       map[string]int
	PriorityCounts     map[string]int
	CategoryCounts     map[string]int
}

// DashboardSummary is the admin overview returned by the dashboard-stats endpoint.
type DashboardSummary struct {
	Stats         DashboardStats
	TotalUsers    int
	RecentTickets []Ticket
}

// DailyCount is the number of tickets created on one day.
type DailyCount struct {
	Date  string
	Count int
}

// Analytics is the admin analytics snapshot.
type Analytics struct {
	Stats             DashboardStats
	DailyTrends       []DailyCount
	TotalUsers        int
	AvgTicketsPerUser float64
}

// User is an account known to the ticket API.
type User struct {
	ID        int64
	Name      string
	Email     string
	IsAdmin   bool
	CreatedAt time.Time
}
