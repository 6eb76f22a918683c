// Package rest implements the service.Service interface against a JSON
// task collection served over HTTP.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"

	"todoctl/internal/config"
	"todoctl/internal/service"
)

// ErrTimeout is returned when a request runs past its deadline.
var ErrTimeout = errors.New("request timed out")

// Client implements service.Service over HTTP.
type Client struct {
	http       *http.Client
	collection string
	item       string
	timeout    time.Duration
	logger     *zap.Logger
}

// New creates a client for the endpoint in cfg, with an otelhttp
// instrumented transport.
func New(cfg *config.Config, logger *zap.Logger) (*Client, error) {
	httpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	c, err := NewWithHTTPClient(cfg.Endpoint, httpClient, logger)
	if err != nil {
		return nil, err
	}
	c.timeout = cfg.RequestTimeout
	return c, nil
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(endpoint string, httpClient *http.Client, logger *zap.Logger) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid endpoint %q: scheme and host are required", endpoint)
	}
	if u.RawQuery != "" || u.ForceQuery || u.Fragment != "" {
		return nil, fmt.Errorf("invalid endpoint %q: query and fragment are not supported", endpoint)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	collection := strings.TrimSuffix(u.String(), "/")
	return &Client{
		http:       httpClient,
		collection: collection,
		item:       googleapi.ResolveRelative(collection+"/", "{id}"),
		logger:     logger,
	}, nil
}

// SetTimeout bounds each request. Zero leaves it to the transport.
func (c *Client) SetTimeout(d time.Duration) {
	c.timeout = d
}

// ListTasks returns the whole collection in store order.
func (c *Client) ListTasks(ctx context.Context) ([]service.Task, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var tasks []service.Task
	if _, err := c.do(ctx, http.MethodGet, c.collection, nil, &tasks); err != nil {
		return nil, wrapError(err)
	}
	return tasks, nil
}

// CreateTask posts t and returns the task the store created.
func (c *Client) CreateTask(ctx context.Context, t service.NewTask) (service.Task, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var created service.Task
	if _, err := c.do(ctx, http.MethodPost, c.collection, t, &created); err != nil {
		return service.Task{}, wrapError(err)
	}
	return created, nil
}

// UpdateTask replaces the stored task with t. A response without a body is
// taken as acceptance of t unchanged.
func (c *Client) UpdateTask(ctx context.Context, t service.Task) (service.Task, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var stored service.Task
	decoded, err := c.do(ctx, http.MethodPut, c.itemURL(t.ID), t, &stored)
	if err != nil {
		return service.Task{}, wrapError(err)
	}
	if !decoded {
		return t, nil
	}
	if stored.ID.IsZero() {
		stored.ID = t.ID
	}
	return stored, nil
}

// DeleteTask removes the task with the given ID. Any response body is ignored.
func (c *Client) DeleteTask(ctx context.Context, id service.ID) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if _, err := c.do(ctx, http.MethodDelete, c.itemURL(id), nil, nil); err != nil {
		return wrapError(err)
	}
	return nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}

// itemURL expands the item template for id.
func (c *Client) itemURL(id service.ID) string {
	u, err := url.Parse(c.item)
	if err != nil {
		// The template was built from a parsed URL.
		return c.collection + "/" + url.PathEscape(id.String())
	}
	googleapi.Expand(u, map[string]string{"id": id.String()})
	return u.String()
}

// do sends one request. It reports whether a response body was decoded
// into out.
func (c *Client) do(ctx context.Context, method, target string, in, out any) (bool, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return false, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("task store request failed",
			zap.String("method", method),
			zap.String("url", target),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return false, err
	}
	defer googleapi.CloseBody(res)

	c.logger.Debug("task store request",
		zap.String("method", method),
		zap.String("url", target),
		zap.Int("status", res.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if err := googleapi.CheckResponse(res); err != nil {
		return false, err
	}
	if out == nil {
		return false, nil
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return false, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("malformed response from task store: %w", err)
	}
	return true, nil
}

// wrapError maps transport and status errors onto the service errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusNotFound:
			return service.ErrNotFound
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			if gerr.Message != "" {
				return fmt.Errorf("%w: %s", service.ErrRejected, gerr.Message)
			}
			return service.ErrRejected
		}
		return fmt.Errorf("task store returned %d: %s", gerr.Code, statusText(gerr))
	}

	return err
}

func statusText(gerr *googleapi.Error) string {
	if gerr.Message != "" {
		return gerr.Message
	}
	if text := http.StatusText(gerr.Code); text != "" {
		return text
	}
	return "unexpected status"
}
