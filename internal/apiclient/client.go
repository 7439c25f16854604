package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rpggio/newsdesk/internal/domain/activity"
)

const defaultTimeout = 15 * time.Second

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 8 << 20

// Client talks to the activity REST API on behalf of one bearer credential.
// It implements activity.Store.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListSelf lists the caller's own activity.
func (c *Client) ListSelf(ctx context.Context, opts activity.ListActivityOptions) ([]activity.Record, error) {
	return c.list(ctx, "/api/activities/me", opts)
}

// ListAll lists activity across all users. Requires an admin credential.
func (c *Client) ListAll(ctx context.Context, opts activity.ListActivityOptions) ([]activity.Record, error) {
	return c.list(ctx, "/api/activities", opts)
}

// list fetches one page when opts.Page is set. Otherwise it walks pages of at
// most activity.MaxPageSize until opts.Limit records are collected or the
// server runs out.
func (c *Client) list(ctx context.Context, path string, opts activity.ListActivityOptions) ([]activity.Record, error) {
	if opts.Page > 0 || opts.Limit <= activity.MaxPageSize {
		data, err := c.do(ctx, http.MethodGet, path, listQuery(opts), nil)
		if err != nil {
			return nil, err
		}
		records, _, err := decodeList(data)
		if err != nil {
			c.logger.Warn("malformed activity list", "path", path, "error", err)
		}
		return records, err
	}

	want := opts.Limit
	var out []activity.Record
	for page := 1; len(out) < want; page++ {
		pageOpts := opts
		pageOpts.Page = page
		pageOpts.Limit = activity.MaxPageSize
		data, err := c.do(ctx, http.MethodGet, path, listQuery(pageOpts), nil)
		if err != nil {
			return nil, err
		}
		records, pg, err := decodeList(data)
		if err != nil {
			c.logger.Warn("malformed activity list", "path", path, "page", page, "error", err)
			return nil, err
		}
		out = append(out, records...)
		if pg == nil || page >= pg.TotalPages || len(records) < activity.MaxPageSize {
			break
		}
	}
	if len(out) > want {
		out = out[:want]
	}
	return out, nil
}

// Statistics fetches the caller's statistics over period days.
func (c *Client) Statistics(ctx context.Context, period int) (activity.Snapshot, error) {
	return c.statistics(ctx, "/api/activities/me/stats", period)
}

// StatisticsAll fetches statistics across all users. Requires an admin
// credential.
func (c *Client) StatisticsAll(ctx context.Context, period int) (activity.Snapshot, error) {
	return c.statistics(ctx, "/api/activities/stats", period)
}

func (c *Client) statistics(ctx context.Context, path string, period int) (activity.Snapshot, error) {
	q := url.Values{}
	q.Set("period", strconv.Itoa(period))
	data, err := c.do(ctx, http.MethodGet, path, q, nil)
	if err != nil {
		return activity.Snapshot{}, err
	}
	snap, err := decodeSnapshot(data)
	if err != nil {
		c.logger.Warn("malformed statistics response", "path", path, "error", err)
		return activity.Snapshot{}, err
	}
	if snap.Period == 0 {
		snap.Period = period
	}
	return snap, nil
}

// DeleteSelf deletes one of the caller's records. A record that is already
// gone counts as deleted.
func (c *Client) DeleteSelf(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/activities/me/"+url.PathEscape(id), nil, nil)
	if errors.Is(err, activity.ErrNotFound) {
		c.logger.Debug("activity already deleted", "id", id)
		return nil
	}
	return err
}

// Log records an activity for the caller and returns the stored record.
func (c *Client) Log(ctx context.Context, rec activity.Record) (activity.Record, error) {
	body, err := json.Marshal(logBody{
		Type:        rec.Type,
		Description: rec.Description,
		Details:     rec.Details,
		Browser:     rec.Browser,
		OS:          rec.OS,
		Platform:    rec.Platform,
		City:        rec.Network.City,
		Country:     rec.Network.Country,
		Metadata:    rec.Metadata,
	})
	if err != nil {
		return activity.Record{}, fmt.Errorf("encoding activity: %w", err)
	}
	data, err := c.do(ctx, http.MethodPost, "/api/activities/me", nil, body)
	if err != nil {
		return activity.Record{}, err
	}
	var out activity.Record
	if err := json.Unmarshal(data, &out); err != nil || out.ID == "" {
		return activity.Record{}, fmt.Errorf("%w: created record", activity.ErrMalformedResponse)
	}
	return out.WithDefaults(), nil
}

// Whoami returns the principal the server resolved the token to.
func (c *Client) Whoami(ctx context.Context) (activity.Principal, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/me", nil, nil)
	if err != nil {
		return activity.Principal{}, err
	}
	var p activity.Principal
	if err := json.Unmarshal(data, &p); err != nil || p.UserID == "" {
		return activity.Principal{}, fmt.Errorf("%w: principal", activity.ErrMalformedResponse)
	}
	return p, nil
}

// ActivityTypes fetches the server's taxonomy listing.
func (c *Client) ActivityTypes(ctx context.Context) ([]activity.TypeInfo, error) {
	data, err := c.do(ctx, http.MethodGet, "/api/activity-types", nil, nil)
	if err != nil {
		return nil, err
	}
	var out []activity.TypeInfo
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: activity types: %v", activity.ErrMalformedResponse, err)
	}
	return out, nil
}

type logBody struct {
	Type        activity.ActivityType `json:"type"`
	Description string                `json:"description"`
	Details     string                `json:"details,omitempty"`
	Browser     string                `json:"browser,omitempty"`
	OS          string                `json:"os,omitempty"`
	Platform    string                `json:"platform,omitempty"`
	City        string                `json:"city,omitempty"`
	Country     string                `json:"country,omitempty"`
	Metadata    map[string]any        `json:"metadata,omitempty"`
}

type envelope struct {
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// do performs one request and returns the envelope's data member.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte) (json.RawMessage, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(ctx, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, classifyTransportError(ctx, method, path, err)
	}
	c.logger.Debug("api request", "method", method, "path", path, "status", resp.StatusCode, "duration", time.Since(start))

	if err := statusError(resp.StatusCode, raw); err != nil {
		return nil, err
	}
	if method == http.MethodDelete && len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.logger.Warn("malformed api response", "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("%w: %s %s: %v", activity.ErrMalformedResponse, method, path, err)
	}
	if env.Success != nil && !*env.Success {
		return nil, fmt.Errorf("%w: %s %s: %s", activity.ErrMalformedResponse, method, path, env.Message)
	}
	return env.Data, nil
}

func statusError(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}
	msg := serverMessage(body)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %s", activity.ErrUnauthorized, msg)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", activity.ErrNotFound, msg)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", activity.ErrValidation, msg)
	case status == http.StatusConflict:
		return fmt.Errorf("%w: %s", activity.ErrDeleteInFlight, msg)
	case status == http.StatusGatewayTimeout || status == http.StatusRequestTimeout:
		return fmt.Errorf("%w: status %d: %s", activity.ErrTimeout, status, msg)
	default:
		return fmt.Errorf("%w: status %d: %s", activity.ErrNetwork, status, msg)
	}
}

func serverMessage(body []byte) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Message != "" {
		return env.Message
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

func classifyTransportError(ctx context.Context, method, path string, err error) error {
	var netErr net.Error
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %s %s: %v", activity.ErrTimeout, method, path, err)
	}
	return fmt.Errorf("%w: %s %s: %v", activity.ErrNetwork, method, path, err)
}

func listQuery(opts activity.ListActivityOptions) url.Values {
	q := url.Values{}
	if opts.Type != "" && opts.Type != activity.TypeAll {
		q.Set("type", string(opts.Type))
	}
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	if opts.Days > 0 {
		q.Set("days", strconv.Itoa(opts.Days))
	}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	return q
}
