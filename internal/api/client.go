// Package api implements the typed REST client for the CloudCare health backend.
//
// All operations return tagged errors (ErrTransport, ErrDecode, ErrRemote) so
// callers can degrade through cache fallback tiers without inspecting raw
// network errors. The client never panics on backend input.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// apiVersionHeader is the backend response header carrying its semver version.
const apiVersionHeader = "X-Api-Version"

// requestIDHeader carries the per-request ULID for backend-side correlation.
const requestIDHeader = "X-Request-Id"

// maxErrorBodyBytes bounds how much of an error response body is read for the
// error message.
const maxErrorBodyBytes = 4096

// HoursPerDay converts day windows into the backend's hour-based query.
const HoursPerDay = 24

// RemoteHealthDataSource is the network boundary consumed by the sync engine.
// Implementations must return tagged errors and never panic.
type RemoteHealthDataSource interface {
	// TodaySummary fetches the current day's aggregated health summary.
	TodaySummary(ctx context.Context, patientID string) (*SummaryPayload, error)

	// AggregatedMetrics fetches per-bucket aggregates over a day window.
	AggregatedMetrics(ctx context.Context, patientID string, period AggregationPeriod, days int) (*MetricsAggregate, error)

	// PairedDevices lists wearables paired with the given account.
	PairedDevices(ctx context.Context, androidUserID string) ([]PairedDevice, error)

	// Profile fetches a patient profile record.
	Profile(ctx context.Context, patientID string) (*Profile, error)
}

// Client is the HTTP implementation of RemoteHealthDataSource.
type Client struct {
	baseURL    string
	authToken  string
	httpClient *http.Client
	constraint *semver.Constraints
	logger     zerolog.Logger
	entropy    io.Reader
}

// Options configures a Client.
type Options struct {
	// BaseURL is the backend root, without the /api/v1 prefix.
	BaseURL string

	// AuthToken is attached as a bearer token when non-empty.
	AuthToken string

	// VersionConstraint is a semver range checked against X-Api-Version.
	// Empty disables the check.
	VersionConstraint string

	// Timeout bounds each request.
	Timeout time.Duration

	// Logger receives request/response events.
	Logger zerolog.Logger
}

// NewClient constructs a Client. It fails only on an unparsable version
// constraint; everything else is validated per request.
func NewClient(opts Options) (*Client, error) {
	var constraint *semver.Constraints
	if opts.VersionConstraint != "" {
		parsed, err := semver.NewConstraint(opts.VersionConstraint)
		if err != nil {
			return nil, fmt.Errorf("parsing API version constraint %q: %w", opts.VersionConstraint, err)
		}
		constraint = parsed
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL:    opts.BaseURL,
		authToken:  opts.AuthToken,
		httpClient: &http.Client{Timeout: timeout},
		constraint: constraint,
		logger:     opts.Logger,
		entropy:    ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0), //nolint:gosec // request IDs are not security-sensitive
	}, nil
}

// TodaySummary fetches the current day's aggregated health summary.
func (c *Client) TodaySummary(ctx context.Context, patientID string) (*SummaryPayload, error) {
	var payload SummaryPayload
	query := url.Values{"patient_id": {patientID}}
	if err := c.getJSON(ctx, "/api/v1/wearables/summary", query, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// AggregatedMetrics fetches per-bucket aggregates over a day window.
func (c *Client) AggregatedMetrics(
	ctx context.Context,
	patientID string,
	period AggregationPeriod,
	days int,
) (*MetricsAggregate, error) {
	var payload MetricsAggregate
	query := url.Values{
		"patient_id": {patientID},
		"period":     {string(period)},
		"hours":      {strconv.Itoa(days * HoursPerDay)},
	}
	if err := c.getJSON(ctx, "/api/v1/wearables/metrics/recent", query, &payload); err != nil {
		return nil, err
	}
	if payload.Period == "" {
		payload.Period = period
	}
	if payload.Days == 0 {
		payload.Days = days
	}
	return &payload, nil
}

// PairedDevices lists wearables paired with the given account.
func (c *Client) PairedDevices(ctx context.Context, androidUserID string) ([]PairedDevice, error) {
	var devices []PairedDevice
	query := url.Values{"android_user_id": {androidUserID}}
	if err := c.getJSON(ctx, "/api/v1/wearables/devices/paired", query, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// Profile fetches a patient profile record.
func (c *Client) Profile(ctx context.Context, patientID string) (*Profile, error) {
	var profile Profile
	path := "/api/v1/patient/" + url.PathEscape(patientID) + "/profile"
	if err := c.getJSON(ctx, path, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// getJSON performs a GET request and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: building request for %s: %w", ErrTransport, path, err)
	}

	requestID := ulid.MustNew(ulid.Timestamp(time.Now()), c.entropy).String()
	req.Header.Set(requestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("path", path).Str("request_id", requestID).
			Msg("backend request failed")
		return fmt.Errorf("%w: GET %s: %w", ErrTransport, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.checkAPIVersion(resp, requestID)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		c.logger.Warn().Int("status", resp.StatusCode).Str("path", path).
			Str("request_id", requestID).Msg("backend returned error status")
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s response: %w", ErrDecode, path, err)
	}

	c.logger.Debug().Str("path", path).Str("request_id", requestID).
		Dur("elapsed", time.Since(start)).Msg("backend request completed")
	return nil
}

// checkAPIVersion compares the backend's advertised version against the
// configured constraint. Mismatches are logged, never fatal: a working
// response body beats a pessimistic version gate.
func (c *Client) checkAPIVersion(resp *http.Response, requestID string) {
	if c.constraint == nil {
		return
	}

	raw := resp.Header.Get(apiVersionHeader)
	if raw == "" {
		return
	}

	version, err := semver.NewVersion(raw)
	if err != nil {
		c.logger.Debug().Str("version", raw).Str("request_id", requestID).
			Msg("backend sent unparsable API version")
		return
	}

	if !c.constraint.Check(version) {
		c.logger.Warn().Str("version", raw).Str("constraint", c.constraint.String()).
			Str("request_id", requestID).Msg("backend API version outside supported range")
	}
}

// errorMessage extracts a human-readable message from an error response body.
// The backend wraps errors as {"detail": "..."}; anything else is passed
// through as raw text.
func errorMessage(body []byte) string {
	var wrapper struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &wrapper); err == nil && wrapper.Detail != "" {
		return wrapper.Detail
	}
	return string(body)
}
