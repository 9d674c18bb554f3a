package scrapestorm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// API is the set of remote operations. *Client implements it; the poller and
// dashboard depend on the interface so tests can substitute a fake.
type API interface {
	ListTasks(ctx context.Context) (*APIResponse, error)
	GetTask(ctx context.Context, taskID int64) (Task, error)
	GetTaskByName(ctx context.Context, name string) (Task, error)
	StartTask(ctx context.Context, taskID int64) (*APIResponse, error)
	StopTask(ctx context.Context, taskID int64) (*APIResponse, error)
	TaskStatus(ctx context.Context, taskID int64) (*APIResponse, error)
	DeleteTask(ctx context.Context, taskID int64) (*APIResponse, error)
	ClearTaskData(ctx context.Context, taskID int64) (*APIResponse, error)
	CopyTask(ctx context.Context, taskID int64, opts CopyOptions) (*APIResponse, error)
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

const (
	DefaultTimeout   = 5 * time.Second
	defaultUserAgent = "stormctl/0.1"

	// maxErrorBody bounds the response text kept on a ProtocolError.
	maxErrorBody = 512
)

// Client talks to the ScrapeStorm REST API.
type Client struct {
	endpoint Endpoint
	http     *resty.Client
	logger   *zap.Logger
	timeout  time.Duration
}

type settings struct {
	timeout    time.Duration
	logger     *zap.Logger
	userAgent  string
	httpClient *http.Client
}

// Option customizes NewClient.
type Option func(*settings)

// WithTimeout bounds every request. Non-positive values keep DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger enables debug request logging.
func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *settings) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// WithHTTPClient supplies the underlying *http.Client (transport, proxies).
func WithHTTPClient(hc *http.Client) Option {
	return func(s *settings) {
		s.httpClient = hc
	}
}

// NewClient builds a Client for ep. Empty endpoint fields fall back to
// localhost:8080.
func NewClient(ep Endpoint, opts ...Option) (*Client, error) {
	if ep.Port < 0 || ep.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", ep.Port)
	}
	s := settings{
		timeout:   DefaultTimeout,
		logger:    zap.NewNop(),
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(&s)
	}

	var rc *resty.Client
	if s.httpClient != nil {
		rc = resty.NewWithClient(s.httpClient)
	} else {
		rc = resty.New()
	}
	rc.SetTimeout(s.timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", s.userAgent).
		SetLogger(s.logger.Sugar())
	instrument(rc, s.logger)

	return &Client{
		endpoint: ep.normalized(),
		http:     rc,
		logger:   s.logger,
		timeout:  s.timeout,
	}, nil
}

// Endpoint returns the server address the client targets.
func (c *Client) Endpoint() Endpoint {
	return c.endpoint
}

// Timeout returns the per-request bound.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// ListTasks fetches every task known to the server.
func (c *Client) ListTasks(ctx context.Context) (*APIResponse, error) {
	return c.call(ctx, ActionList, 0, nil)
}

// GetTask returns the listed task whose id matches taskID.
func (c *Client) GetTask(ctx context.Context, taskID int64) (Task, error) {
	resp, err := c.ListTasks(ctx)
	if err != nil {
		return Task{}, err
	}
	for _, task := range resp.List {
		if task.TaskID == taskID {
			return task, nil
		}
	}
	return Task{}, fmt.Errorf("task id %d: %w", taskID, ErrNotFound)
}

// GetTaskByName returns the first listed task whose name equals name exactly.
func (c *Client) GetTaskByName(ctx context.Context, name string) (Task, error) {
	resp, err := c.ListTasks(ctx)
	if err != nil {
		return Task{}, err
	}
	for _, task := range resp.List {
		if task.Name == name {
			return task, nil
		}
	}
	return Task{}, fmt.Errorf("task name %q: %w", name, ErrNotFound)
}

// StartTask starts the crawler for taskID.
func (c *Client) StartTask(ctx context.Context, taskID int64) (*APIResponse, error) {
	return c.taskCall(ctx, ActionStart, taskID, nil)
}

// StopTask stops the crawler for taskID.
func (c *Client) StopTask(ctx context.Context, taskID int64) (*APIResponse, error) {
	return c.taskCall(ctx, ActionStop, taskID, nil)
}

// TaskStatus fetches the run status of taskID.
func (c *Client) TaskStatus(ctx context.Context, taskID int64) (*APIResponse, error) {
	return c.taskCall(ctx, ActionStatus, taskID, nil)
}

// DeleteTask removes taskID from the server.
func (c *Client) DeleteTask(ctx context.Context, taskID int64) (*APIResponse, error) {
	return c.taskCall(ctx, ActionDelete, taskID, nil)
}

// ClearTaskData discards the data collected by taskID.
func (c *Client) ClearTaskData(ctx context.Context, taskID int64) (*APIResponse, error) {
	return c.taskCall(ctx, ActionDataClear, taskID, nil)
}

// CopyTask duplicates taskID. translate_chart is always sent as "true" or "false".
func (c *Client) CopyTask(ctx context.Context, taskID int64, opts CopyOptions) (*APIResponse, error) {
	query := map[string]any{
		"name":            opts.Name,
		"translate_chart": strconv.FormatBool(opts.TranslateChart),
	}
	return c.taskCall(ctx, ActionCopy, taskID, query)
}

func (c *Client) taskCall(ctx context.Context, action Action, taskID int64, query map[string]any) (*APIResponse, error) {
	if taskID <= 0 {
		return nil, fmt.Errorf("%s task %d: %w", action, taskID, ErrInvalidTaskID)
	}
	return c.call(ctx, action, taskID, query)
}

func (c *Client) call(ctx context.Context, action Action, taskID int64, query map[string]any) (*APIResponse, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	reqURL := BuildURL(c.endpoint, action, taskID, query)

	res, err := c.http.R().SetContext(ctx).Get(reqURL)
	if err != nil {
		return nil, &TransportError{Op: http.MethodGet, URL: reqURL, Err: err}
	}
	body := res.Body()
	if !res.IsSuccess() {
		return nil, &ProtocolError{URL: reqURL, StatusCode: res.StatusCode(), Body: truncate(string(body), maxErrorBody)}
	}

	var payload APIResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &ProtocolError{URL: reqURL, StatusCode: res.StatusCode(), Body: truncate(string(body), maxErrorBody), Err: err}
	}
	return &payload, nil
}

// instrument logs every request outcome at debug level.
func instrument(rc *resty.Client, logger *zap.Logger) {
	rc.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		logger.Debug("request completed",
			zap.String("method", res.Request.Method),
			zap.String("url", res.Request.URL),
			zap.Int("status", res.StatusCode()),
			zap.Duration("elapsed", res.Time()),
		)
		return nil
	})
	rc.OnError(func(req *resty.Request, err error) {
		logger.Debug("request failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL),
			zap.Error(err),
		)
	})
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
