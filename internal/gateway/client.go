// Package gateway is the REST client for the childcare backend gateway.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"childcare-assistant/internal/common/config"
	apperrors "childcare-assistant/internal/common/errors"
	commonhttp "childcare-assistant/internal/common/http"
	"childcare-assistant/internal/common/metrics"

	"github.com/go-resty/resty/v2"
)

// Resource paths exposed by the gateway.
const (
	ResourceChildren   = "/children"
	ResourceAttendance = "/attendance"
	ResourceBilling    = "/billing"
	ResourceHealth     = "/health"
	ResourceStaff      = "/staff"
	ResourceSchedule   = "/schedule"
	ResourceMedia      = "/media"
	ResourceBookings   = "/bookings"
	ResourceEvents     = "/calendar/events"
)

// mutable resources accept POST, PUT and DELETE.
var mutable = map[string]bool{
	ResourceChildren:   true,
	ResourceAttendance: true,
	ResourceBilling:    true,
	ResourceHealth:     true,
	ResourceStaff:      true,
	ResourceSchedule:   true,
	ResourceMedia:      true,
	ResourceBookings:   true,
	ResourceEvents:     true,
}

// Client calls the gateway. Bodies are untyped JSON values.
type Client struct {
	http *resty.Client
}

func NewClient(cfg config.GatewayConfig) *Client {
	headers := map[string]string{}
	if cfg.AuthToken != "" {
		headers["Authorization"] = "Bearer " + cfg.AuthToken
	}
	timeout := config.GetDuration(cfg.Timeout)
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{http: commonhttp.NewClient(commonhttp.Options{
		BaseURL: strings.TrimRight(cfg.BaseURL, "/"),
		Timeout: timeout,
		Headers: headers,
	})}
}

// List performs GET resource with params as the query string.
func (c *Client) List(ctx context.Context, resource string, params url.Values) (interface{}, error) {
	return c.do(ctx, http.MethodGet, resource, resource, params, nil)
}

func (c *Client) Get(ctx context.Context, resource, id string) (interface{}, error) {
	return c.do(ctx, http.MethodGet, resource, itemPath(resource, id), nil, nil)
}

func (c *Client) Create(ctx context.Context, resource string, body interface{}) (interface{}, error) {
	if err := checkMutable(resource); err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, resource, resource, nil, body)
}

func (c *Client) Update(ctx context.Context, resource, id string, body interface{}) (interface{}, error) {
	if err := checkMutable(resource); err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPut, resource, itemPath(resource, id), nil, body)
}

func (c *Client) Delete(ctx context.Context, resource, id string) error {
	if err := checkMutable(resource); err != nil {
		return err
	}
	_, err := c.do(ctx, http.MethodDelete, resource, itemPath(resource, id), nil, nil)
	return err
}

func (c *Client) do(ctx context.Context, method, resource, path string, params url.Values, body interface{}) (interface{}, error) {
	start := time.Now()
	defer func() {
		metrics.GatewayRequestDuration.WithLabelValues(resource).Observe(time.Since(start).Seconds())
	}()

	req := c.http.R().SetContext(ctx)
	if params != nil {
		req.SetQueryParamsFromValues(params)
	}
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		metrics.GatewayRequests.WithLabelValues(resource, "network_error").Inc()
		return nil, apperrors.NewNetworkError(resource, 0, err)
	}
	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		metrics.GatewayRequests.WithLabelValues(resource, "http_error").Inc()
		return nil, apperrors.NewNetworkError(resource, resp.StatusCode(), nil)
	}

	raw := resp.Body()
	if len(strings.TrimSpace(string(raw))) == 0 {
		metrics.GatewayRequests.WithLabelValues(resource, "ok").Inc()
		return nil, nil
	}

	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		metrics.GatewayRequests.WithLabelValues(resource, "parse_error").Inc()
		return nil, apperrors.NewParseError(resource, err)
	}

	metrics.GatewayRequests.WithLabelValues(resource, "ok").Inc()
	return out, nil
}

func itemPath(resource, id string) string {
	return resource + "/" + url.PathEscape(id)
}

func checkMutable(resource string) error {
	if !mutable[resource] {
		return fmt.Errorf("%w: resource %s is read-only", apperrors.ErrInvalidInput, resource)
	}
	return nil
}
