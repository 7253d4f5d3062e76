package mcp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/unifi-tools/unifi-mcp/pkg/config"
)

func TestServerConnect_SingleLogin(t *testing.T) {
	var logins atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/login" {
			logins.Add(1)
			w.WriteHeader(http.StatusOK)
			return
		}
		http.NotFound(w, r)
	}))
	defer ts.Close()

	cfg := config.Defaults()
	cfg.Controller.URL = ts.URL
	cfg.Controller.Username = "admin"
	cfg.Controller.Password = "secret"

	srv := NewServer(cfg)
	defer srv.Close()

	if err := srv.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if got := logins.Load(); got != 1 {
		t.Errorf("startup issued %d login requests, want 1", got)
	}
}
