package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupRouter(checks map[string]Check) *gin.Engine {
	h := NewHealthHandler(checks)
	r := gin.New()
	r.GET("/healthz", h.Health)
	r.HEAD("/healthz", h.Health)
	r.OPTIONS("/healthz", h.Health)
	return r
}

func ok(context.Context) error { return nil }

func TestHealth_GET(t *testing.T) {
	t.Parallel()

	router := setupRouter(nil)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	var response map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if response["status"] != "ok" {
		t.Errorf("expected status 'ok', got %v", response["status"])
	}
	if _, found := response["checks"]; found {
		t.Error("expected no checks section without registered checks")
	}
	if w.Header().Get("Cache-Control") != "no-store" {
		t.Errorf("expected Cache-Control 'no-store', got %q", w.Header().Get("Cache-Control"))
	}
}

func TestHealth_HEAD(t *testing.T) {
	t.Parallel()

	router := setupRouter(map[string]Check{"database": ok})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodHead, "/healthz", nil)

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	// HEAD should have no body
	if w.Body.Len() != 0 {
		t.Errorf("expected empty body for HEAD request, got %d bytes", w.Body.Len())
	}
}

func TestHealth_OPTIONS(t *testing.T) {
	t.Parallel()

	called := false
	router := setupRouter(map[string]Check{"database": func(context.Context) error { called = true; return nil }})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/healthz", nil)

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected status %d, got %d", http.StatusNoContent, w.Code)
	}
	if called {
		t.Error("OPTIONS must not run dependency checks")
	}
}

func TestHealth_Checks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		checks         map[string]Check
		method         string
		expectedStatus int
		expectedState  string
		expectedChecks map[string]string
	}{
		{
			name:           "all dependencies up",
			checks:         map[string]Check{"database": ok, "redis": ok},
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			expectedState:  "ok",
			expectedChecks: map[string]string{"database": "ok", "redis": "ok"},
		},
		{
			name: "one dependency down",
			checks: map[string]Check{
				"database": ok,
				"redis":    func(context.Context) error { return errors.New("connection refused") },
			},
			method:         http.MethodGet,
			expectedStatus: http.StatusServiceUnavailable,
			expectedState:  "degraded",
			expectedChecks: map[string]string{"database": "ok", "redis": "connection refused"},
		},
		{
			name:           "HEAD reports failure status",
			checks:         map[string]Check{"database": func(context.Context) error { return errors.New("down") }},
			method:         http.MethodHead,
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := setupRouter(tt.checks)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, "/healthz", nil))

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.method == http.MethodHead {
				return
			}

			var response struct {
				Status string            `json:"status"`
				Checks map[string]string `json:"checks"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if response.Status != tt.expectedState {
				t.Errorf("expected status %q, got %q", tt.expectedState, response.Status)
			}
			for name, want := range tt.expectedChecks {
				if response.Checks[name] != want {
					t.Errorf("check %s: expected %q, got %q", name, want, response.Checks[name])
				}
			}
		})
	}
}
