// Package devserver is a stand-in for the analysis/backtest backend. It
// serves the same routes and response shapes so the dashboard can be driven
// end to end without the real service.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// Default backtest window and ticker.
var (
	DefaultStart = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	DefaultEnd   = time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
)

const (
	DefaultTicker  = "BTC-USD"
	maxUploadBytes = 64 << 20
	readyMessage   = "Alpha-Mechanism stub gateway is running"
)

// Options configures a Server.
type Options struct {
	Addr         string
	Latency      time.Duration
	Start, End   time.Time
	FailAnalyze  bool
	FailBacktest bool
	Logger       *slog.Logger
}

type registered struct {
	name     string
	filename string
	at       time.Time
}

// Server is the stub gateway.
type Server struct {
	opts    Options
	log     *slog.Logger
	handler http.Handler

	mu         sync.RWMutex
	strategies map[string]registered
}

// New builds the router. Call gin.SetMode before New to silence gin's own
// debug output.
func New(opts Options) *Server {
	if opts.Start.IsZero() {
		opts.Start = DefaultStart
	}
	if opts.End.IsZero() {
		opts.End = DefaultEnd
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Server{
		opts:       opts,
		log:        opts.Logger.With("component", "stub-gateway"),
		strategies: make(map[string]registered),
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.MaxMultipartMemory = maxUploadBytes
	router.Use(requestLogger(s.log))
	router.Use(recovery(s.log))
	router.NoRoute(func(c *gin.Context) { detail(c, http.StatusNotFound, "Not Found") })
	router.NoMethod(func(c *gin.Context) { detail(c, http.StatusMethodNotAllowed, "Method Not Allowed") })

	router.GET("/", s.home)
	router.POST("/analyze-paper/", s.latency, s.analyzePaper)
	router.GET("/run-backtest/", s.latency, s.runBacktest)

	s.handler = cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler(router)

	return s
}

// Handler returns the CORS-wrapped router.
func (s *Server) Handler() http.Handler { return s.handler }

// ListenAndServe serves on opts.Addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("stub gateway listening", "addr", s.opts.Addr,
			"window_start", s.opts.Start.Format("2006-01-02"), "window_end", s.opts.End.Format("2006-01-02"))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("stub gateway: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("stub gateway shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("stub gateway shutdown: %w", err)
		}
		return nil
	}
}

// Register makes a strategy known without an upload.
func (s *Server) Register(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.strategies[strategyKey(name)] = registered{name: name, at: time.Now()}
}

func (s *Server) lookup(name string) (registered, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.strategies[strategyKey(name)]
	return r, ok
}

// ---- handlers ----

func (s *Server) home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": readyMessage})
}

func (s *Server) analyzePaper(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		missingField(c, "body", "file")
		return
	}

	f, err := fh.Open()
	if err != nil {
		detail(c, http.StatusInternalServerError, err.Error())
		return
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		detail(c, http.StatusInternalServerError, err.Error())
		return
	}
	if !mimetype.Detect(content).Is("application/pdf") {
		detail(c, http.StatusBadRequest, "Could not read PDF")
		return
	}
	if s.opts.FailAnalyze {
		detail(c, http.StatusInternalServerError, "Gemini failed to extract logic")
		return
	}

	name := StrategyNameFromFile(fh.Filename)
	s.mu.Lock()
	s.strategies[strategyKey(name)] = registered{name: name, filename: fh.Filename, at: time.Now()}
	s.mu.Unlock()

	s.log.Info("strategy extracted", "file", fh.Filename, "strategy", name, "bytes", len(content))

	c.JSON(http.StatusOK, gin.H{
		"status":        "success",
		"strategy_name": name,
		"description":   describe(name, fh.Filename, content),
		"file_saved_at": generatedPath(name),
	})
}

type backtestQuery struct {
	StrategyName string `form:"strategy_name" binding:"required"`
	Ticker       string `form:"ticker"`
}

func (s *Server) runBacktest(c *gin.Context) {
	var q backtestQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		missingField(c, "query", "strategy_name")
		return
	}
	if q.Ticker == "" {
		q.Ticker = DefaultTicker
	}

	if _, ok := s.lookup(q.StrategyName); !ok {
		detail(c, http.StatusNotFound, "Strategy file not found: "+generatedPath(q.StrategyName))
		return
	}
	if s.opts.FailBacktest {
		detail(c, http.StatusInternalServerError, "Backtest returned no data")
		return
	}

	rows := Simulate(q.StrategyName, q.Ticker, s.opts.Start, s.opts.End)
	if len(rows) == 0 {
		detail(c, http.StatusNotFound, "Backtest returned no data")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ticker":       q.Ticker,
		"total_return": TotalReturn(rows),
		"chart_data":   rows,
	})
}

// latency delays the request by the configured amount, giving up early if
// the client goes away.
func (s *Server) latency(c *gin.Context) {
	if s.opts.Latency <= 0 {
		return
	}
	t := time.NewTimer(s.opts.Latency)
	defer t.Stop()
	select {
	case <-t.C:
	case <-c.Request.Context().Done():
		c.Abort()
	}
}

func describe(name, filename string, content []byte) string {
	pages := strings.Count(string(content), "/Type /Page") - strings.Count(string(content), "/Type /Pages")
	if pages < 1 {
		pages = 1
	}
	return fmt.Sprintf(`**%s** trades a single asset on trailing momentum.

- Source: `+"`%s`"+` (%d page(s))
- Entry: go long when the close is above its close %d sessions ago
- Exit: flatten when that comparison turns negative
- Position is applied on the following session to avoid look-ahead`,
		name, filename, pages, momentumWindow)
}

// ---- error bodies ----

// detail writes a FastAPI-style {"detail": "..."} error.
func detail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": msg})
}

// missingField writes the 422 body FastAPI produces for a missing parameter.
func missingField(c *gin.Context, loc, field string) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
		"detail": []gin.H{{
			"loc":  []string{loc, field},
			"msg":  "field required",
			"type": "value_error.missing",
		}},
	})
}
