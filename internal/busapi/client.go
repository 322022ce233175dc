// Package busapi is the client for the transit data source: stops near a
// viewport, single routes and trips, and the full route list.
package busapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/klauspost/compress/gzhttp"
	"golang.org/x/time/rate"

	"busmap.org/internal/logging"
	"busmap.org/internal/models"
)

const (
	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 32 << 20

	EndpointHere   = "here"
	EndpointRoute  = "route"
	EndpointTrip   = "trip"
	EndpointRoutes = "routes"
)

// Observer is told about every request made to the data source.
type Observer interface {
	ObserveRequest(endpoint string, status int, duration time.Duration)
	ObserveDropped(kind string)
}

type Client struct {
	baseURL    *url.URL
	headers    map[string]string
	httpClient *http.Client
	limiter    *rate.Limiter
	validate   *validator.Validate
	logger     *slog.Logger
	observer   Observer
}

type Option func(*Client)

// WithHTTPClient replaces the default gzip-aware client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

func NewClient(config Config, logger *slog.Logger, opts ...Option) (*Client, error) {
	base, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", config.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host required", config.BaseURL)
	}

	if logger == nil {
		logger = slog.Default()
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	limit := rate.Inf
	if config.RequestsPerSecond > 0 {
		limit = rate.Limit(config.RequestsPerSecond)
	}
	burst := config.Burst
	if burst <= 0 {
		burst = 1
	}

	headers := map[string]string{}
	if config.authEnabled() {
		headers[config.AuthHeaderKey] = config.AuthHeaderValue
	}

	c := &Client{
		baseURL: base,
		headers: headers,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: gzhttp.Transport(http.DefaultTransport),
		},
		limiter:  rate.NewLimiter(limit, burst),
		validate: validator.New(),
		logger:   logger.With(slog.String("component", "busapi")),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Here fetches the stops around q. Stops, routes and trips that fail to
// decode or validate are dropped; the rest of the reply is kept.
func (c *Client) Here(ctx context.Context, q models.HereQuery) (*models.HereResponse, error) {
	params := url.Values{}
	params.Set("lat", formatFloat(q.Lat))
	params.Set("lon", formatFloat(q.Lon))
	params.Set("sw_lat", formatFloat(q.Bounds.SW.Lat))
	params.Set("sw_lon", formatFloat(q.Bounds.SW.Lon))
	params.Set("ne_lat", formatFloat(q.Bounds.NE.Lat))
	params.Set("ne_lon", formatFloat(q.Bounds.NE.Lon))
	for _, rt := range q.RouteTypes {
		params.Add("route_type", strconv.Itoa(int(rt)))
	}
	if len(q.Filter) > 0 {
		params.Set("filter", string(q.Filter))
	}

	var raw struct {
		Stops  []json.RawMessage `json:"stops"`
		Routes []json.RawMessage `json:"routes"`
		Trips  []json.RawMessage `json:"trips"`
		Filter json.RawMessage   `json:"filter"`
	}
	if err := c.get(ctx, EndpointHere, "/api/here", params, &raw); err != nil {
		return nil, err
	}

	resp := &models.HereResponse{
		Stops:  decodeRecords[models.Stop](c, "stop", raw.Stops),
		Routes: decodeRecords[models.Route](c, "route", raw.Routes),
		Trips:  decodeRecords[models.Trip](c, "trip", raw.Trips),
	}
	if len(raw.Filter) > 0 && string(raw.Filter) != "null" {
		resp.Filter = raw.Filter
	}
	for _, r := range resp.Routes {
		r.Normalize()
	}

	return resp, nil
}

// Route fetches a single route.
func (c *Client) Route(ctx context.Context, agencyID, routeID string) (*models.Route, error) {
	params := url.Values{}
	params.Set("agency_id", agencyID)
	params.Set("route_id", routeID)

	var raw json.RawMessage
	if err := c.get(ctx, EndpointRoute, "/api/route", params, &raw); err != nil {
		return nil, err
	}

	route, err := decodeRecord[models.Route](c, raw)
	if err != nil {
		return nil, fmt.Errorf("route %s|%s: %w", agencyID, routeID, err)
	}
	route.Normalize()
	return route, nil
}

// Trip fetches a single trip.
func (c *Client) Trip(ctx context.Context, agencyID, routeID, tripID string) (*models.Trip, error) {
	params := url.Values{}
	params.Set("agency_id", agencyID)
	params.Set("route_id", routeID)
	params.Set("trip_id", tripID)

	var raw json.RawMessage
	if err := c.get(ctx, EndpointTrip, "/api/trip", params, &raw); err != nil {
		return nil, err
	}

	trip, err := decodeRecord[models.Trip](c, raw)
	if err != nil {
		return nil, fmt.Errorf("trip %s|%s: %w", agencyID, tripID, err)
	}
	return trip, nil
}

// Routes fetches every route the data source knows about.
func (c *Client) Routes(ctx context.Context) ([]*models.Route, error) {
	var raw struct {
		Routes []json.RawMessage `json:"routes"`
	}
	if err := c.get(ctx, EndpointRoutes, "/api/routes", nil, &raw); err != nil {
		return nil, err
	}

	routes := decodeRecords[models.Route](c, "route", raw.Routes)
	for _, r := range routes {
		r.Normalize()
	}
	return routes, nil
}

func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: %w", endpoint, err)
	}

	u := c.baseURL.JoinPath(path)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	for key, value := range c.headers {
		req.Header.Add(key, value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(endpoint, 0, time.Since(start))
		// a cancelled request surfaces as context.Canceled
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	defer logging.SafeCloseWithLogging(resp.Body, c.logger, "http_response_body")

	c.observe(endpoint, resp.StatusCode, time.Since(start))
	c.logger.Debug("data source request",
		slog.String("endpoint", endpoint),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Endpoint: endpoint}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%s: failed to read response body: %w", endpoint, err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: %w: %v", endpoint, models.ErrMalformed, err)
	}

	return nil
}

func (c *Client) observe(endpoint string, status int, d time.Duration) {
	if c.observer != nil {
		c.observer.ObserveRequest(endpoint, status, d)
	}
}

func decodeRecord[T any](c *Client, raw json.RawMessage) (*T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrMalformed, err)
	}
	if err := c.validate.Struct(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrMalformed, err)
	}
	return &v, nil
}

func decodeRecords[T any](c *Client, kind string, raws []json.RawMessage) []*T {
	records := make([]*T, 0, len(raws))
	for i, raw := range raws {
		v, err := decodeRecord[T](c, raw)
		if err != nil {
			c.logger.Warn("dropping malformed record",
				slog.String("kind", kind),
				slog.Int("index", i),
				slog.String("error", err.Error()))
			if c.observer != nil {
				c.observer.ObserveDropped(kind)
			}
			continue
		}
		records = append(records, v)
	}
	return records
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
