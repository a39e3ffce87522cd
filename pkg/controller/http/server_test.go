package http_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/gt"
	"github.com/prometheus/client_golang/prometheus"
	controller "github.com/secmon-lab/parazit/pkg/controller/http"
	"github.com/secmon-lab/parazit/pkg/service/caseapi"
	"github.com/secmon-lab/parazit/pkg/usecase"
	"github.com/secmon-lab/parazit/pkg/utils/ratelimit"
)

func testContext() context.Context {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return ctxlog.With(context.Background(), logger)
}

// newBackend starts a fake case API answering /api/v1/cases with status and body
func newBackend(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/cases" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newPageServer(t *testing.T, backendURL string, opts ...controller.ServerOption) *controller.Server {
	t.Helper()
	ctx := testContext()
	fetcher := caseapi.New(backendURL)
	server, err := controller.NewServer(ctx, ":8080", usecase.NewCaseList(fetcher), opts...)
	gt.NoError(t, err).Required()
	return server
}

func getPage(t *testing.T, server *controller.Server) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	server.Server.Handler.ServeHTTP(w, req)
	return w
}

func TestServerHealthCheck(t *testing.T) {
	server := newPageServer(t, "http://127.0.0.1:1")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	server.Server.Handler.ServeHTTP(w, req)

	gt.Equal(t, http.StatusOK, w.Code)
	gt.S(t, w.Body.String()).Contains(`"status":"healthy"`)
	gt.S(t, w.Body.String()).Contains(`"service":"parazit"`)
}

func TestNewServerRequiresCaseList(t *testing.T) {
	_, err := controller.NewServer(testContext(), ":8080", nil)
	gt.Error(t, err)
}

func TestCaseListPage(t *testing.T) {
	backend := newBackend(t, http.StatusOK,
		`[{"id":"1","title":"Case A","summary":"Desc","severity":4},`+
			`{"id":"2","title":"Case B","summary":"Other","severity":2}]`)
	server := newPageServer(t, backend.URL)

	w := getPage(t, server)

	gt.Equal(t, http.StatusOK, w.Code)
	gt.S(t, w.Header().Get("Content-Type")).Contains("text/html")
	gt.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	body := w.Body.String()
	gt.S(t, body).Contains("<!DOCTYPE html>")
	gt.S(t, body).Contains(`<html lang="sk">`)
	gt.S(t, body).Contains("Parazit.sk")
	gt.S(t, body).Contains("Platforma pre transparentné Slovensko")
	gt.S(t, body).Contains("Prehľad monitorovaných káuz")
	gt.S(t, body).Contains(`data-key="1"`)
	gt.S(t, body).Contains("<h3>Case A</h3>")
	gt.S(t, body).Contains("Desc")
	gt.S(t, body).Contains("Závažnosť: 4 / 5")
	gt.S(t, body).Contains("Závažnosť: 2 / 5")
	gt.Equal(t, 2, strings.Count(body, "<article"))
	gt.False(t, strings.Contains(body, `class="fallback"`))

	// Blocks follow backend order
	gt.True(t, strings.Index(body, "Case A") < strings.Index(body, "Case B"))
}

func TestCaseListPageFallback(t *testing.T) {
	testCases := []struct {
		name   string
		status int
		body   string
	}{
		{name: "backend unavailable", status: http.StatusServiceUnavailable, body: `{"detail":"down"}`},
		{name: "backend error", status: http.StatusInternalServerError, body: ``},
		{name: "malformed body", status: http.StatusOK, body: `{not json`},
		{name: "empty list", status: http.StatusOK, body: `[]`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			backend := newBackend(t, tc.status, tc.body)
			server := newPageServer(t, backend.URL)

			w := getPage(t, server)

			gt.Equal(t, http.StatusOK, w.Code)
			body := w.Body.String()
			gt.Equal(t, 1, strings.Count(body, `<p class="fallback">`))
			gt.Equal(t, 0, strings.Count(body, "<article"))
			gt.S(t, body).Contains("Prehľad monitorovaných káuz")
		})
	}
}

func TestCaseListPageUnreachableBackend(t *testing.T) {
	server := newPageServer(t, "http://127.0.0.1:1")

	w := getPage(t, server)

	gt.Equal(t, http.StatusOK, w.Code)
	gt.Equal(t, 1, strings.Count(w.Body.String(), `<p class="fallback">`))
}

func TestCaseListPageSeverityOutOfScale(t *testing.T) {
	backend := newBackend(t, http.StatusOK, `[{"id":"x","title":"Huge","summary":"","severity":9}]`)
	server := newPageServer(t, backend.URL)

	w := getPage(t, server)

	gt.Equal(t, http.StatusOK, w.Code)
	gt.S(t, w.Body.String()).Contains("Závažnosť: 9 / 5")
}

func TestCaseListPageEscapesContent(t *testing.T) {
	backend := newBackend(t, http.StatusOK,
		`[{"id":"\"><b>","title":"<script>alert(1)</script>","summary":"a & b","severity":1}]`)
	server := newPageServer(t, backend.URL)

	w := getPage(t, server)

	body := w.Body.String()
	gt.False(t, strings.Contains(body, "<script>alert(1)</script>"))
	gt.S(t, body).Contains("&lt;script&gt;")
	gt.S(t, body).Contains("a &amp; b")
	gt.False(t, strings.Contains(body, `data-key=""><b>"`))
}

func TestCaseListPageFetchesEveryRequest(t *testing.T) {
	var hits atomic.Int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer backend.Close()
	server := newPageServer(t, backend.URL)

	for range 3 {
		gt.Equal(t, http.StatusOK, getPage(t, server).Code)
	}
	gt.Equal(t, int32(3), hits.Load())
}

func TestStaticStylesheet(t *testing.T) {
	server := newPageServer(t, "http://127.0.0.1:1")

	req := httptest.NewRequest(http.MethodGet, "/static/style.css", nil)
	w := httptest.NewRecorder()
	server.Server.Handler.ServeHTTP(w, req)

	gt.Equal(t, http.StatusOK, w.Code)
	gt.S(t, w.Header().Get("Content-Type")).Contains("text/css")
	gt.S(t, w.Body.String()).Contains(".case-grid")
}

func TestMetricsEndpoint(t *testing.T) {
	ctx := testContext()
	reg := prometheus.NewRegistry()
	backend := newBackend(t, http.StatusOK, `[]`)
	fetcher := caseapi.New(backend.URL, caseapi.WithMetrics(caseapi.NewMetrics(reg)))
	server, err := controller.NewServer(ctx, ":8080", usecase.NewCaseList(fetcher), controller.WithMetrics(reg))
	gt.NoError(t, err).Required()

	gt.Equal(t, http.StatusOK, getPage(t, server).Code)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	server.Server.Handler.ServeHTTP(w, req)

	gt.Equal(t, http.StatusOK, w.Code)
	gt.S(t, w.Body.String()).Contains(`parazit_case_fetch_total{outcome="ok"} 1`)
	gt.S(t, w.Body.String()).Contains("parazit_case_fetch_duration_seconds")
}

func TestMetricsEndpointDisabled(t *testing.T) {
	server := newPageServer(t, "http://127.0.0.1:1")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	server.Server.Handler.ServeHTTP(w, req)

	gt.Equal(t, http.StatusNotFound, w.Code)
}

func TestCaseListPageRateLimited(t *testing.T) {
	backend := newBackend(t, http.StatusOK, `[]`)
	server := newPageServer(t, backend.URL, controller.WithRateLimiter(ratelimit.New(0.001, 1, 0)))

	gt.Equal(t, http.StatusOK, getPage(t, server).Code)

	w := getPage(t, server)
	gt.Equal(t, http.StatusTooManyRequests, w.Code)
	gt.Equal(t, "1", w.Header().Get("Retry-After"))

	// Health checks are not limited
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	hw := httptest.NewRecorder()
	server.Server.Handler.ServeHTTP(hw, req)
	gt.Equal(t, http.StatusOK, hw.Code)
}

func TestRateLimitIgnoresForwardedHeadersByDefault(t *testing.T) {
	backend := newBackend(t, http.StatusOK, `[]`)
	server := newPageServer(t, backend.URL, controller.WithRateLimiter(ratelimit.New(0.001, 1, 0)))

	codes := make([]int, 0, 3)
	for _, forwarded := range []string{"203.0.113.1", "203.0.113.2", "203.0.113.3"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", forwarded)
		w := httptest.NewRecorder()
		server.Server.Handler.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	gt.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}

func TestRateLimitUsesForwardedHeadersBehindProxy(t *testing.T) {
	backend := newBackend(t, http.StatusOK, `[]`)
	server := newPageServer(t, backend.URL,
		controller.WithRateLimiter(ratelimit.New(0.001, 1, 0)),
		controller.WithTrustProxy(true),
	)

	request := func(forwarded string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", forwarded)
		w := httptest.NewRecorder()
		server.Server.Handler.ServeHTTP(w, req)
		return w.Code
	}

	gt.Equal(t, http.StatusOK, request("203.0.113.1"))
	gt.Equal(t, http.StatusOK, request("203.0.113.2"))
	gt.Equal(t, http.StatusTooManyRequests, request("203.0.113.1"))
}
