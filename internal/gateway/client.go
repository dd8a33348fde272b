package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Dallionking/alpha-mechanism/internal/domain"
)

// Default endpoint paths of the analysis backend.
const (
	DefaultAnalyzePath  = "/analyze-paper/"
	DefaultBacktestPath = "/run-backtest/"
	DefaultTimeout      = 2 * time.Minute
)

// Options configures a Client.
type Options struct {
	BaseURL      string
	Timeout      time.Duration
	AnalyzePath  string
	BacktestPath string
	Logger       *slog.Logger
}

// Client is the HTTP implementation of Gateway.
type Client struct {
	http         *resty.Client
	analyzePath  string
	backtestPath string
	log          *slog.Logger
}

// NewClient creates a Client for the backend at opts.BaseURL. Retries are
// disabled; every retry is a user action.
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.AnalyzePath == "" {
		opts.AnalyzePath = DefaultAnalyzePath
	}
	if opts.BacktestPath == "" {
		opts.BacktestPath = DefaultBacktestPath
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	rc := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(opts.Timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	return &Client{
		http:         rc,
		analyzePath:  opts.AnalyzePath,
		backtestPath: opts.BacktestPath,
		log:          opts.Logger.With("component", "gateway"),
	}
}

// BaseURL returns the backend address the client talks to.
func (c *Client) BaseURL() string {
	return c.http.BaseURL
}

// Analyze uploads the submission as the multipart field "file".
func (c *Client) Analyze(ctx context.Context, sub domain.Submission) (*AnalyzeResponse, error) {
	mediaType := sub.MediaType
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}

	start := time.Now()
	c.log.Debug("analyze request", "file", sub.Name, "media_type", mediaType, "bytes", sub.Size())

	resp, err := c.http.R().
		SetContext(ctx).
		SetMultipartField("file", sub.Name, mediaType, bytes.NewReader(sub.Content)).
		Post(c.analyzePath)
	if err != nil {
		c.log.Warn("analyze transport error", "error", err, "elapsed", time.Since(start))
		return nil, &Error{Op: OpAnalyze, Err: err}
	}
	if resp.IsError() {
		gerr := responseError(OpAnalyze, resp)
		c.log.Warn("analyze rejected", "status", resp.StatusCode(), "detail", gerr.Detail, "elapsed", time.Since(start))
		return nil, gerr
	}

	var out AnalyzeResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, &Error{Op: OpAnalyze, StatusCode: resp.StatusCode(), Err: fmt.Errorf("decoding response: %w", err)}
	}

	c.log.Info("analyze complete", "strategy", out.StrategyName, "elapsed", time.Since(start))
	return &out, nil
}

// RunBacktest requests a simulation of req.StrategyName on req.Ticker.
func (c *Client) RunBacktest(ctx context.Context, req BacktestRequest) (*BacktestResponse, error) {
	start := time.Now()
	c.log.Debug("backtest request", "strategy", req.StrategyName, "ticker", req.Ticker)

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"strategy_name": req.StrategyName,
			"ticker":        req.Ticker,
		}).
		Get(c.backtestPath)
	if err != nil {
		c.log.Warn("backtest transport error", "error", err, "elapsed", time.Since(start))
		return nil, &Error{Op: OpBacktest, Err: err}
	}
	if resp.IsError() {
		gerr := responseError(OpBacktest, resp)
		c.log.Warn("backtest rejected", "status", resp.StatusCode(), "detail", gerr.Detail, "elapsed", time.Since(start))
		return nil, gerr
	}

	var out BacktestResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, &Error{Op: OpBacktest, StatusCode: resp.StatusCode(), Err: fmt.Errorf("decoding response: %w", err)}
	}

	c.log.Info("backtest complete", "strategy", req.StrategyName, "samples", len(out.ChartData), "elapsed", time.Since(start))
	return &out, nil
}

// Ping checks that the backend answers on its root path.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get("/")
	if err != nil {
		return &Error{Op: OpPing, Err: err}
	}
	if resp.IsError() {
		return responseError(OpPing, resp)
	}
	return nil
}

// Probe issues a bare GET against path and returns the status code. Health
// checks use it to confirm that an endpoint is routed without running it.
func (c *Client) Probe(ctx context.Context, path string) (int, error) {
	resp, err := c.http.R().SetContext(ctx).Get(path)
	if err != nil {
		return 0, &Error{Op: OpPing, Err: err}
	}
	return resp.StatusCode(), nil
}

// AnalyzePath returns the configured analyze-submission path.
func (c *Client) AnalyzePath() string { return c.analyzePath }

// BacktestPath returns the configured run-backtest path.
func (c *Client) BacktestPath() string { return c.backtestPath }

// responseError builds an *Error from a non-success response, lifting a
// FastAPI-style {"detail": ...} body when present.
func responseError(op string, resp *resty.Response) *Error {
	e := &Error{Op: op, StatusCode: resp.StatusCode()}

	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err == nil && len(body.Detail) > 0 {
		var s string
		if json.Unmarshal(body.Detail, &s) == nil {
			e.Detail = s
		} else {
			e.Detail = string(body.Detail)
		}
	}
	if e.Detail == "" {
		e.Detail = http.StatusText(resp.StatusCode())
	}
	return e
}

// IsUnreachable reports whether err means the backend could not be contacted.
func IsUnreachable(err error) bool {
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
