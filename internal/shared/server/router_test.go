package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"audit-backend/internal/shared/config"
)

func TestRouterHealthAndMetrics(t *testing.T) {
	cfg := config.Config{
		Port: "0",
		Env:  "dev",
	}
	router := NewRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", resp.Code)
	}

	reqMetrics := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	respMetrics := httptest.NewRecorder()
	router.ServeHTTP(respMetrics, reqMetrics)
	if respMetrics.Code != http.StatusOK {
		t.Fatalf("metrics: expected 200, got %d", respMetrics.Code)
	}
	if !strings.Contains(respMetrics.Body.String(), "audit_started_total") {
		t.Fatalf("expected audit counters in metrics output")
	}
}

func TestRouterRequiresIdentityOnAudits(t *testing.T) {
	router := NewRouter(config.Config{Port: "0", Env: "dev"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/audits", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestAddr(t *testing.T) {
	cases := map[string]string{
		"":      ":8080",
		"9090":  ":9090",
		":7070": ":7070",
	}
	for in, want := range cases {
		if got := Addr(in); got != want {
			t.Fatalf("Addr(%q) = %q, want %q", in, got, want)
		}
	}
}
