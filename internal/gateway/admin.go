package gateway

import (
	"context"
	"net/http"
	"strconv"

	"github.com/spec-kit/ticket-dashboard/internal/api/dto"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
	apperrors "github.com/spec-kit/ticket-dashboard/pkg/util/errorutil"
)

// AdminTickets GET /api/admin/tickets.
func (c *Client) AdminTickets(ctx context.Context) ([]domain.Ticket, error) {
	var resp dto.TicketListResponse
	if _, err := c.doJSON(ctx, call{method: http.MethodGet, endpoint: "/api/admin/tickets", path: "/api/admin/tickets"}, &resp); err != nil {
		return nil, err
	}
	return c.toTickets("/api/admin/tickets", resp.Tickets), nil
}

// AdminStats GET /api/admin/stats.
func (c *Client) AdminStats(ctx context.Context) (domain.DashboardStats, error) {
	return c.stats(ctx, "/api/admin/stats")
}

// LiveStats GET /api/admin/stats/live.
func (c *Client) LiveStats(ctx context.Context) (domain.DashboardStats, error) {
	return c.stats(ctx, "/api/admin/stats/live")
}

func (c *Client) stats(ctx context.Context, path string) (domain.DashboardStats, error) {
	var resp dto.StatsResponse
	body, err := c.doJSON(ctx, call{method: http.MethodGet, endpoint: path, path: path}, &resp)
	if err != nil {
		return domain.DashboardStats{}, err
	}
	stats, err := resp.Resolve(body)
	if err != nil {
		return domain.DashboardStats{}, malformed(path, err)
	}
	return stats, nil
}

// Ticket GET /api/tickets/{id}.
func (c *Client) Ticket(ctx context.Context, id int64) (domain.Ticket, error) {
	var resp dto.TicketDetailResponse
	req := call{method: http.MethodGet, endpoint: "/api/tickets/{id}", path: "/api/tickets/" + strconv.FormatInt(id, 10)}
	if _, err := c.doJSON(ctx, req, &resp); err != nil {
		return domain.Ticket{}, err
	}
	if resp.Ticket == nil {
		return domain.Ticket{}, apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	return c.toTickets("/api/tickets/{id}", []dto.TicketPayload{*resp.Ticket})[0], nil
}

// UpdateTicketStatus PUT /api/tickets/{id}/status.
func (c *Client) UpdateTicketStatus(ctx context.Context, id int64, status domain.TicketStatus) error {
	req := call{
		method:   http.MethodPut,
		endpoint: "/api/tickets/{id}/status",
		path:     "/api/tickets/" + strconv.FormatInt(id, 10) + "/status",
		body:     dto.StatusUpdateRequest{Status: string(status)},
	}
	_, err := c.doJSON(ctx, req, nil)
	return err
}

// DeleteTicket DELETE /api/tickets/{id}.
func (c *Client) DeleteTicket(ctx context.Context, id int64) error {
	req := call{method: http.MethodDelete, endpoint: "/api/tickets/{id}", path: "/api/tickets/" + strconv.FormatInt(id, 10)}
	_, err := c.doJSON(ctx, req, nil)
	return err
}

// DashboardSummary GET /admin/api/dashboard-stats.
func (c *Client) DashboardSummary(ctx context.Context) (domain.DashboardSummary, error) {
	const path = "/admin/api/dashboard-stats"
	var resp dto.DashboardSummaryResponse
	body, err := c.doJSON(ctx, call{method: http.MethodGet, endpoint: path, path: path}, &resp)
	if err != nil {
		return domain.DashboardSummary{}, err
	}
	summary, err := resp.ToDomain(body)
	if err != nil {
		return domain.DashboardSummary{}, malformed(path, err)
	}
	return summary, nil
}

// Analytics GET /admin/api/analytics-data.
func (c *Client) Analytics(ctx context.Context) (domain.Analytics, error) {
	const path = "/admin/api/analytics-data"
	var resp dto.AnalyticsResponse
	body, err := c.doJSON(ctx, call{method: http.MethodGet, endpoint: path, path: path}, &resp)
	if err != nil {
		return domain.Analytics{}, err
	}
	analytics, err := resp.ToDomain(body)
	if err != nil {
		return domain.Analytics{}, malformed(path, err)
	}
	return analytics, nil
}

// Users GET /auth/api/users.
func (c *Client) Users(ctx context.Context) ([]domain.User, error) {
	const path = "/auth/api/users"
	var resp dto.UserListResponse
	if _, err := c.doJSON(ctx, call{method: http.MethodGet, endpoint: path, path: path}, &resp); err != nil {
		return nil, err
	}
	return resp.ToDomain(), nil
}
