package client

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

	"github.com/google/uuid"
	"go.uber.org/zap"

	v1 "github.com/kubev2v/interface-queue/api/v1"
	srvErrors "github.com/kubev2v/interface-queue/pkg/errors"
)

// Client talks to the interface-queue API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q", baseURL)
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/") + "/api/v1",
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// GetQueueStatus
// GET /api/v1/queue
func (c *Client) GetQueueStatus(ctx context.Context) (*v1.QueueStatus, error) {
	var status v1.QueueStatus
	if err := c.do(ctx, http.MethodGet, "/queue", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// SetQueueLimit changes and persists the active task limit
// PUT /api/v1/queue/limit
func (c *Client) SetQueueLimit(ctx context.Context, n int) (*v1.QueueStatus, error) {
	var status v1.QueueStatus
	if err := c.do(ctx, http.MethodPut, "/queue/limit", v1.QueueLimitUpdate{MaxActiveTasks: n}, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListQueueTasks
// GET /api/v1/queue/tasks
func (c *Client) ListQueueTasks(ctx context.Context, limit int, states ...v1.TaskState) ([]v1.TaskEvent, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}
	for _, s := range states {
		q.Add("state", string(s))
	}

	var list v1.TaskEventList
	if err := c.do(ctx, http.MethodGet, "/queue/tasks?"+q.Encode(), nil, &list); err != nil {
		return nil, err
	}
	return list.Events, nil
}

// ListQueueFailures
// GET /api/v1/queue/failures
func (c *Client) ListQueueFailures(ctx context.Context, limit int) ([]v1.TaskFailure, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", fmt.Sprint(limit))
	}

	var list v1.TaskFailureList
	if err := c.do(ctx, http.MethodGet, "/queue/failures?"+q.Encode(), nil, &list); err != nil {
		return nil, err
	}
	return list.Failures, nil
}

// ExecuteStatement runs a synchronous statement
// POST /api/v1/statements
func (c *Client) ExecuteStatement(ctx context.Context, req v1.StatementRequest) (*v1.StatementResult, error) {
	var result v1.StatementResult
	if err := c.do(ctx, http.MethodPost, "/statements", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	zap.S().Named("client").Debugw("api request", "method", method, "path", path, "request_id", req.Header.Get("X-Request-ID"))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return srvErrors.NewUnavailableError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return responseError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func responseError(resp *http.Response) error {
	var apiErr v1.Error
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Error == "" {
		apiErr.Error = resp.Status
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return srvErrors.NewInvalidArgumentError("request", "%s", apiErr.Error)
	case http.StatusNotFound:
		return srvErrors.NewResourceNotFoundError("resource", apiErr.Error)
	case http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return srvErrors.NewUnavailableError(errors.New(apiErr.Error))
	default:
		return fmt.Errorf("request failed: %s: %s", resp.Status, apiErr.Error)
	}
}
