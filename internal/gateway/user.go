package gateway

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/spec-kit/ticket-dashboard/internal/api/dto"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
	apperrors "github.com/spec-kit/ticket-dashboard/pkg/util/errorutil"
)

// MyTickets GET /tickets/api/all.
func (c *Client) MyTickets(ctx context.Context) ([]domain.Ticket, error) {
	var resp dto.TicketListResponse
	if _, err := c.doJSON(ctx, call{method: http.MethodGet, endpoint: "/tickets/api/all", path: "/tickets/api/all"}, &resp); err != nil {
		return nil, err
	}
	return c.toTickets("/tickets/api/all", resp.Tickets), nil
}

// TicketStats GET /tickets/api/stats.
func (c *Client) TicketStats(ctx context.Context) (domain.DashboardStats, error) {
	return c.stats(ctx, "/tickets/api/stats")
}

// CreateTicket POST /tickets/api/create.
func (c *Client) CreateTicket(ctx context.Context, draft domain.TicketDraft) (int64, error) {
	if err := validateDraft(draft); err != nil {
		return 0, err
	}
	var resp dto.CreateTicketResponse
	req := call{
		method:   http.MethodPost,
		endpoint: "/tickets/api/create",
		path:     "/tickets/api/create",
		body:     dto.NewTicketDraftRequest(draft),
	}
	if _, err := c.doJSON(ctx, req, &resp); err != nil {
		return 0, err
	}
	return resp.TicketID, nil
}

// UpdateTicket PUT /tickets/api/update/{id}.
func (c *Client) UpdateTicket(ctx context.Context, id int64, draft domain.TicketDraft) error {
	if err := validateDraft(draft); err != nil {
		return err
	}
	req := call{
		method:   http.MethodPut,
		endpoint: "/tickets/api/update/{id}",
		path:     "/tickets/api/update/" + strconv.FormatInt(id, 10),
		body:     dto.NewTicketDraftRequest(draft),
	}
	_, err := c.doJSON(ctx, req, nil)
	return err
}

// DeleteOwnTicket DELETE /tickets/api/delete/{id}.
func (c *Client) DeleteOwnTicket(ctx context.Context, id int64) error {
	req := call{method: http.MethodDelete, endpoint: "/tickets/api/delete/{id}", path: "/tickets/api/delete/" + strconv.FormatInt(id, 10)}
	_, err := c.doJSON(ctx, req, nil)
	return err
}

func validateDraft(draft domain.TicketDraft) error {
	if missing := draft.MissingFields(); len(missing) > 0 {
		return apperrors.NewValidationError("All fields are required", map[string]any{"missing": strings.Join(missing, ",")})
	}
	return nil
}
