package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dallionking/alpha-mechanism/internal/domain"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Options{BaseURL: srv.URL, Timeout: 5 * time.Second})
}

func TestAnalyzeSendsMultipartFile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != DefaultAnalyzePath {
			t.Errorf("got %s %s, want POST %s", r.Method, r.URL.Path, DefaultAnalyzePath)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm: %v", err)
		}
		files := r.MultipartForm.File["file"]
		if len(files) != 1 {
			t.Fatalf("expected one file part, got %d", len(files))
		}
		fh := files[0]
		if fh.Filename != "paper.pdf" {
			t.Errorf("filename = %q, want paper.pdf", fh.Filename)
		}
		if ct := fh.Header.Get("Content-Type"); ct != "application/pdf" {
			t.Errorf("part content type = %q, want application/pdf", ct)
		}
		f, _ := fh.Open()
		body, _ := io.ReadAll(f)
		if string(body) != "%PDF-1.4 test" {
			t.Errorf("content = %q", body)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","strategy_name":"MomentumX","description":"trend","file_saved_at":"t0"}`))
	})

	sub := domain.Submission{Name: "paper.pdf", MediaType: "application/pdf", Content: []byte("%PDF-1.4 test")}
	resp, err := c.Analyze(context.Background(), sub)
	if err != nil {
		t.Fatalf("Analyze() error: %v", err)
	}
	if resp.StrategyName != "MomentumX" || resp.Description != "trend" || resp.FileSavedAt != "t0" {
		t.Errorf("response = %+v", resp)
	}
}

func TestRunBacktestSendsQueryParams(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != DefaultBacktestPath {
			t.Errorf("got %s %s", r.Method, r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("strategy_name") != "MomentumX" {
			t.Errorf("strategy_name = %q", q.Get("strategy_name"))
		}
		if q.Get("ticker") != "BTC-USD" {
			t.Errorf("ticker = %q", q.Get("ticker"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"total_return":"5.00%","ticker":"BTC-USD","chart_data":[
			{"date":"2024-01-01","strategy":1.0,"market":1.0},
			{"date":"2024-01-02","strategy":1.05,"market":1.02}]}`))
	})

	resp, err := c.RunBacktest(context.Background(), BacktestRequest{StrategyName: "MomentumX", Ticker: "BTC-USD"})
	if err != nil {
		t.Fatalf("RunBacktest() error: %v", err)
	}
	if resp.TotalReturn != "5.00%" || resp.Ticker != "BTC-USD" {
		t.Errorf("summary = %q %q", resp.TotalReturn, resp.Ticker)
	}
	if len(resp.ChartData) != 2 {
		t.Fatalf("chart_data len = %d, want 2", len(resp.ChartData))
	}
	p := resp.ChartData[1]
	if p.Date == nil || *p.Date != "2024-01-02" || p.Strategy == nil || *p.Strategy != 1.05 {
		t.Errorf("second point = %+v", p)
	}
}

func TestRunBacktestKeepsMissingKeysNil(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"total_return":"1%","ticker":"BTC-USD","chart_data":[{"date":"2024-01-01","strategy":1.0}]}`))
	})

	resp, err := c.RunBacktest(context.Background(), BacktestRequest{StrategyName: "x", Ticker: "BTC-USD"})
	if err != nil {
		t.Fatalf("RunBacktest() error: %v", err)
	}
	if resp.ChartData[0].Market != nil {
		t.Errorf("Market = %v, want nil", *resp.ChartData[0].Market)
	}
}

func TestErrorStatusSurfacesDetail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Gemini failed to extract logic"})
	})

	_, err := c.Analyze(context.Background(), domain.Submission{Name: "p.pdf", Content: []byte("x")})
	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatalf("error = %v, want *Error", err)
	}
	if gerr.Op != OpAnalyze || gerr.StatusCode != 500 {
		t.Errorf("gerr = %+v", gerr)
	}
	if gerr.Detail != "Gemini failed to extract logic" {
		t.Errorf("Detail = %q", gerr.Detail)
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("message %q lacks status", err.Error())
	}
}

func TestErrorStatusOpaqueBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>upstream down</html>"))
	})

	_, err := c.RunBacktest(context.Background(), BacktestRequest{StrategyName: "x", Ticker: "BTC-USD"})
	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatalf("error = %v, want *Error", err)
	}
	if gerr.Detail != http.StatusText(http.StatusBadGateway) {
		t.Errorf("Detail = %q", gerr.Detail)
	}
}

func TestTimeoutIsReported(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(block)

	c := NewClient(Options{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.Analyze(context.Background(), domain.Submission{Name: "p.pdf", Content: []byte("x")})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !IsTimeout(err) {
		t.Errorf("IsTimeout(%v) = false", err)
	}
	var gerr *Error
	if !errors.As(err, &gerr) || gerr.StatusCode != 0 {
		t.Errorf("error = %#v", err)
	}
}

func TestUnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(Options{BaseURL: url, Timeout: time.Second})
	if err := c.Ping(context.Background()); err == nil {
		t.Fatal("Ping() succeeded against a closed server")
	}
}

func TestPingAndProbe(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			_, _ = w.Write([]byte(`{"message":"ok"}`))
		case DefaultBacktestPath:
			w.WriteHeader(http.StatusUnprocessableEntity)
		default:
			http.NotFound(w, r)
		}
	})

	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error: %v", err)
	}
	status, err := c.Probe(context.Background(), c.BacktestPath())
	if err != nil {
		t.Fatalf("Probe() error: %v", err)
	}
	if status != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", status)
	}
}
