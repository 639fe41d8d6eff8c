// Package gateway is the single boundary through which dashboards talk to the
// ticket API. Every call is normalized into either a decoded value or a
// *errorutil.DomainError carrying NETWORK_FAILURE or SERVER_FAILURE.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/api/dto"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/observability"
	apperrors "github.com/spec-kit/ticket-dashboard/pkg/util/errorutil"
)

// TokenProvider supplies the bearer token sent with every request.
type TokenProvider interface {
	Token() (string, error)
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Tokens     TokenProvider
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	HTTPClient *http.Client
}

// Client issues requests to the ticket API.
type Client struct {
	baseURL    string
	timeout    time.Duration
	tokens     TokenProvider
	logger     *zap.Logger
	metrics    *observability.Metrics
	httpClient *http.Client
}

// New builds a client from options.
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		timeout:    opts.Timeout,
		tokens:     opts.Tokens,
		logger:     logger,
		metrics:    opts.Metrics,
		httpClient: httpClient,
	}
}

// call describes one request. endpoint is the route pattern used for metrics
// and error details, path the concrete URL path.
type call struct {
	method   string
	endpoint string
	path     string
	body     any
}

// do performs the request and returns the raw body of a successful response.
// Non-2xx statuses and `success: false` envelopes become SERVER_FAILURE,
// transport errors become NETWORK_FAILURE.
func (c *Client) do(ctx context.Context, req call) ([]byte, error) {
	var bodyReader io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return nil, apperrors.NewInternalError(fmt.Errorf("marshaling request body: %w", err))
		}
		bodyReader = bytes.NewReader(data)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, bodyReader)
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("creating request: %w", err))
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return nil, apperrors.NewInternalError(fmt.Errorf("issuing api token: %w", err))
		}
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.RecordFailure(req.endpoint, req.method, apperrors.CodeNetworkFailure)
		c.logger.Warn("ticket api unreachable",
			zap.String("endpoint", req.endpoint),
			zap.String("method", req.method),
			zap.Error(err))
		return nil, apperrors.NewNetworkFailure(req.endpoint, err)
	}
	defer resp.Body.Close()
	c.metrics.RecordCall(req.endpoint, req.method, resp.StatusCode, time.Since(start))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.RecordFailure(req.endpoint, req.method, apperrors.CodeNetworkFailure)
		return nil, apperrors.NewNetworkFailure(req.endpoint, fmt.Errorf("reading response: %w", err))
	}

	var env dto.Envelope
	envErr := json.Unmarshal(respBody, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		reason := ""
		if envErr == nil {
			reason = env.Reason()
		}
		return nil, c.serverFailure(req, resp.StatusCode, reason)
	}
	if envErr == nil && env.Failed() {
		return nil, c.serverFailure(req, resp.StatusCode, env.Reason())
	}
	return respBody, nil
}

func (c *Client) serverFailure(req call, status int, reason string) error {
	c.metrics.RecordFailure(req.endpoint, req.method, apperrors.CodeServerFailure)
	c.logger.Warn("ticket api request failed",
		zap.String("endpoint", req.endpoint),
		zap.String("method", req.method),
		zap.Int("status", status),
		zap.String("reason", reason))
	return apperrors.NewServerFailure(req.endpoint, status, reason)
}

// doJSON performs the request and decodes the successful body into out.
func (c *Client) doJSON(ctx context.Context, req call, out any) ([]byte, error) {
	body, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return body, nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return nil, malformed(req.endpoint, err)
	}
	return body, nil
}

func malformed(endpoint string, err error) error {
	domainErr := apperrors.ToDomainError(apperrors.NewServerFailure(endpoint, http.StatusOK, "malformed ticket api response"))
	domainErr.Err = err
	return domainErr
}

// toTickets converts payloads, logging timestamps in an unknown format. Those
// tickets keep a zero time instead of failing the whole list.
func (c *Client) toTickets(endpoint string, items []dto.TicketPayload) []domain.Ticket {
	for _, u := range dto.UnparsedTimestamps(items) {
		c.logger.Warn("unparsed ticket timestamp",
			zap.String("endpoint", endpoint),
			zap.Int64("ticket_id", u.TicketID),
			zap.String("field", u.Field),
			zap.String("value", u.Value))
	}
	return dto.TicketsToDomain(items)
}

// Ping checks that the ticket API answers HTTP at all.
func (c *Client) Ping(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return apperrors.NewNetworkFailure("/", err)
	}
	_ = resp.Body.Close()
	return nil
}
