package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/dashboard"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/events"
	"github.com/spec-kit/ticket-dashboard/internal/notify"
	apperrors "github.com/spec-kit/ticket-dashboard/pkg/util/errorutil"
)

// Dashboard is the controller surface the HTTP layer drives.
type Dashboard interface {
	Page() (string, error)
	Regions() []domain.Region
	Frame(r domain.Region) (dashboard.Frame, bool)
	OverlayHTML() (string, error)
	NotificationsHTML() (string, error)
	Notifications() *notify.Center
	DismissNotification(id string) bool
	Dispatch(ctx context.Context, event events.Event) error
	Handles(t events.EventType) bool
}

// DashboardHandler serves one dashboard: the page, region fragments, UI events
// and notifications.
type DashboardHandler struct {
	name      string
	dashboard Dashboard
	logger    *zap.Logger
}

// NewDashboardHandler constructs a handler for the dashboard mounted at /name.
func NewDashboardHandler(name string, d Dashboard, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{name: name, dashboard: d, logger: logger}
}

// StateResponse is returned after every event: the fragments that may have
// changed, ready to be swapped into the page.
type StateResponse struct {
	Regions       []dashboard.Frame `json:"regions"`
	Overlay       string            `json:"overlay"`
	Notifications string            `json:"notifications"`
	Download      string            `json:"download,omitempty"`
	Error         *ErrorBody        `json:"error,omitempty"`
}

// ErrorBody describes an upstream failure the dashboard already reported.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Page GET /{view}.
func (h *DashboardHandler) Page(c *fiber.Ctx) error {
	html, err := h.dashboard.Page()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	c.Type("html", "utf-8")
	return c.SendString(html)
}

// Region GET /{view}/regions/:region.
func (h *DashboardHandler) Region(c *fiber.Ctx) error {
	region := domain.Region(c.Params("region"))
	frame, ok := h.dashboard.Frame(region)
	if !ok {
		return apperrors.NewNotFound("region", map[string]any{"region": string(region)})
	}
	c.Set("X-Region-State", string(frame.State))
	c.Type("html", "utf-8")
	return c.SendString(frame.HTML)
}

// Event POST /{view}/events.
func (h *DashboardHandler) Event(c *fiber.Ctx) error {
	var ev events.Event
	if err := c.BodyParser(&ev); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(string(ev.Type)) == "" {
		return apperrors.NewValidationError("type required", nil)
	}
	return h.dispatch(c, ev)
}

// Key POST /{view}/keys. Unmapped chords are accepted and ignored.
func (h *DashboardHandler) Key(c *fiber.Ctx) error {
	var chord events.KeyChord
	if err := c.BodyParser(&chord); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	eventType, ok := events.FromKey(chord)
	if !ok || !h.dashboard.Handles(eventType) {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return h.dispatch(c, events.Event{Type: eventType})
}

func (h *DashboardHandler) dispatch(c *fiber.Ctx, ev events.Event) error {
	err := h.dashboard.Dispatch(c.UserContext(), ev)

	var unknown *events.UnknownEventError
	switch {
	case errors.As(err, &unknown):
		return apperrors.NewValidationError("unsupported event", map[string]any{"type": string(ev.Type)})
	case err != nil && !isUpstreamFailure(err):
		return err
	}

	resp, renderErr := h.state()
	if renderErr != nil {
		return apperrors.NewInternalError(renderErr)
	}
	if err != nil {
		domainErr := apperrors.ToDomainError(err)
		resp.Error = &ErrorBody{Code: domainErr.Code, Message: domainErr.Message}
		h.logger.Debug("event completed with upstream failure",
			zap.String("dashboard", h.name),
			zap.String("event", string(ev.Type)),
			zap.String("code", domainErr.Code))
	}
	if ev.Type == events.EventExport {
		resp.Download = "/" + h.name + "/export"
		if ev.Value != "" {
			resp.Download += "?format=" + ev.Value
		}
	}
	return c.JSON(resp)
}

func (h *DashboardHandler) state() (StateResponse, error) {
	var resp StateResponse
	for _, r := range h.dashboard.Regions() {
		if frame, ok := h.dashboard.Frame(r); ok {
			resp.Regions = append(resp.Regions, frame)
		}
	}
	overlay, err := h.dashboard.OverlayHTML()
	if err != nil {
		return resp, err
	}
	notes, err := h.dashboard.NotificationsHTML()
	if err != nil {
		return resp, err
	}
	resp.Overlay = overlay
	resp.Notifications = notes
	return resp, nil
}

// isUpstreamFailure reports failures of the ticket API. The dashboard has
// already rendered and notified them, so the request itself succeeds.
func isUpstreamFailure(err error) bool {
	return apperrors.IsCode(err, apperrors.CodeNetworkFailure) || apperrors.IsCode(err, apperrors.CodeServerFailure)
}

// Notifications GET /{view}/notifications.
func (h *DashboardHandler) Notifications(c *fiber.Ctx) error {
	html, err := h.dashboard.NotificationsHTML()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return c.JSON(fiber.Map{
		"data": h.dashboard.Notifications().Active(),
		"html": html,
	})
}

// DismissNotification DELETE /{view}/notifications/:id.
func (h *DashboardHandler) DismissNotification(c *fiber.Ctx) error {
	id := c.Params("id")
	if !h.dashboard.DismissNotification(id) {
		return apperrors.NewNotFound("notification", map[string]any{"id": id})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
