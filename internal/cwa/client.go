package cwa

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/twweather/taiwan-weather-mcp/internal/observability"
)

// Endpoint codes of the CWA Open Data datastore resources this client consumes.
const (
	EndpointForecast36H = "F-C0032-001"
	EndpointForecast7D  = "F-D0047-091"
	EndpointWarnings    = "W-C0033-001"
	EndpointRainfall    = "O-A0002-001"
	EndpointObservation = "O-A0003-001"
)

var (
	ErrInvalidAPIKey   = errors.New("invalid API key")
	ErrTimeout         = errors.New("request timeout")
	ErrUpstream        = errors.New("upstream failure")
	ErrEmptyBody       = errors.New("empty API response")
	ErrInvalidResponse = errors.New("invalid response")
	ErrNoRecords       = errors.New("no records in response")
)

// Client issues authenticated GET requests against the CWA Open Data API and
// validates the response envelope. It holds no mutable state; one instance is
// shared by all tool invocations.
type Client struct {
	apiKey  string
	baseURL string
	timeout time.Duration
	client  *http.Client
	logger  *zap.Logger
}

func New(apiKey, baseURL string, timeout time.Duration, logger *zap.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: API key is required", ErrInvalidAPIKey)
	}
	if len(apiKey) < 10 {
		return nil, fmt.Errorf("%w: API key appears invalid (too short)", ErrInvalidAPIKey)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	logger.Info("cwa client initialized",
		zap.String("base_url", baseURL),
		zap.String("api_key", observability.MaskKey(apiKey)),
	)

	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		timeout: timeout,
		logger:  logger,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Forecast36H fetches the 36-hour city-level forecast. The location filter is
// passed upstream verbatim; fuzzy matching happens in the normalizer.
func (c *Client) Forecast36H(ctx context.Context, location string) (*Envelope, error) {
	params := url.Values{}
	params.Set("format", "JSON")
	params.Set("sort", "time")
	if location != "" {
		params.Set("locationName", location)
	}
	return c.get(ctx, EndpointForecast36H, params)
}

// Forecast7D fetches the 7-day township forecast.
func (c *Client) Forecast7D(ctx context.Context, location string) (*Envelope, error) {
	params := url.Values{}
	params.Set("format", "JSON")
	params.Set("sort", "time")
	if location != "" {
		params.Set("locationName", location)
	}
	return c.get(ctx, EndpointForecast7D, params)
}

// Warnings fetches active hazard warnings. The returned envelope always
// carries a flat records.record list regardless of which upstream schema
// variant arrived.
func (c *Client) Warnings(ctx context.Context, hazardType, location string) (*Envelope, error) {
	params := url.Values{}
	params.Set("format", "JSON")
	if hazardType != "" {
		params.Set("phenomena", hazardType)
	}
	if location != "" {
		params.Set("locationName", location)
	}
	env, err := c.get(ctx, EndpointWarnings, params)
	if err != nil {
		return nil, err
	}
	env.Records = reshapeWarnings(env.Records)
	return env, nil
}

// Rainfall fetches rainfall station observations, optionally filtered by
// county upstream. Station entries are flattened into the canonical
// records.location shape shared by the other endpoints.
func (c *Client) Rainfall(ctx context.Context, county string) (*Envelope, error) {
	params := url.Values{}
	if county != "" {
		params.Set("CountyName", county)
	}
	env, err := c.get(ctx, EndpointRainfall, params)
	if err != nil {
		return nil, err
	}
	env.Records = reshapeRainfall(env.Records)
	return env, nil
}

// Observation fetches live weather station snapshots. All stations are
// fetched; location filtering happens in the normalizer so that fuzzy
// county/town/station matching sees every candidate.
func (c *Client) Observation(ctx context.Context) (*Envelope, error) {
	params := url.Values{}
	params.Set("format", "JSON")
	env, err := c.get(ctx, EndpointObservation, params)
	if err != nil {
		return nil, err
	}
	records, err := reshapeObservation(env.Records)
	if err != nil {
		return nil, err
	}
	env.Records = records
	return env, nil
}

// get performs one bounded-timeout GET and validates the envelope. Every
// failure mode resolves to a tagged error; nothing is retried.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (*Envelope, error) {
	start := time.Now()
	requestID := uuid.New().String()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.buildRequest(reqCtx, endpoint, params)
	if err != nil {
		observability.UpstreamCallsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("build request: %w", err)
	}

	c.logger.Debug("cwa request",
		zap.String("request_id", requestID),
		zap.String("endpoint", endpoint),
		zap.String("params", c.maskParams(params)),
	)

	resp, err := c.client.Do(req)
	if err != nil {
		duration := time.Since(start).Seconds()
		observability.UpstreamCallsTotal.WithLabelValues(endpoint, "error").Inc()
		observability.UpstreamDuration.WithLabelValues(endpoint, "error").Observe(duration)

		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		var uerr *url.Error
		if errors.As(err, &uerr) && uerr.Timeout() {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	duration := time.Since(start).Seconds()
	status := statusLabel(resp.StatusCode)
	observability.UpstreamCallsTotal.WithLabelValues(endpoint, status).Inc()
	observability.UpstreamDuration.WithLabelValues(endpoint, status).Observe(duration)

	c.logger.Debug("cwa response",
		zap.String("request_id", requestID),
		zap.String("endpoint", endpoint),
		zap.Int("status_code", resp.StatusCode),
		zap.Float64("duration_s", duration),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: HTTP %d", ErrUpstream, resp.StatusCode)
	}

	// The body is always read in full before parsing: responses are small and
	// error bodies must be inspectable for diagnostics.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	env, err := parseEnvelope(body)
	if err != nil {
		return nil, err
	}
	return env, nil
}

func (c *Client) buildRequest(ctx context.Context, endpoint string, params url.Values) (*http.Request, error) {
	base, err := url.Parse(c.baseURL + "/" + endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}

	query := url.Values{}
	query.Set("Authorization", c.apiKey)
	for key, values := range params {
		for _, v := range values {
			query.Add(key, v)
		}
	}
	base.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", base.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	return req, nil
}

// maskParams renders the outgoing query parameters for logging with the
// credential reduced to its non-secret prefix.
func (c *Client) maskParams(params url.Values) string {
	masked := url.Values{}
	for key, values := range params {
		for _, v := range values {
			masked.Add(key, v)
		}
	}
	masked.Set("Authorization", observability.MaskKey(c.apiKey))
	return masked.Encode()
}

func statusLabel(statusCode int) string {
	if statusCode >= 200 && statusCode < 300 {
		return "success"
	}
	if statusCode == 429 {
		return "rate_limited"
	}
	if statusCode >= 400 && statusCode < 500 {
		return "client_error"
	}
	if statusCode >= 500 {
		return "server_error"
	}
	return "error"
}
