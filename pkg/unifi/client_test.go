package unifi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/unifi-tools/unifi-mcp/pkg/config"
)

func testConfig(url string, udmPro bool) config.Controller {
	return config.Controller{
		URL:      url,
		Username: "admin",
		Password: "secret",
		IsUDMPro: udmPro,
		Site:     "default",
	}
}

func TestNormalizeMAC(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"AA:BB:CC:DD:EE:01", "aa:bb:cc:dd:ee:01"},
		{"aa-bb-cc-dd-ee-01", "aa:bb:cc:dd:ee:01"},
		{"AA-BB-CC-DD-EE-01", "aa:bb:cc:dd:ee:01"},
		{"aabb.ccdd.ee01", "aabb:ccdd:ee01"},
		{"  aa:bb:cc:dd:ee:01  ", "aa:bb:cc:dd:ee:01"},
		{"aa:bb:cc:dd:ee:01", "aa:bb:cc:dd:ee:01"},
	}

	for _, tt := range tests {
		got := NormalizeMAC(tt.in)
		if got != tt.want {
			t.Errorf("NormalizeMAC(%q) = %q, want %q", tt.in, got, tt.want)
		}
		// Idempotent
		if again := NormalizeMAC(got); again != got {
			t.Errorf("NormalizeMAC not idempotent: %q -> %q", got, again)
		}
	}
}

func TestAPIBase(t *testing.T) {
	udm := NewClient(testConfig("https://c", true))
	if udm.APIBase() != "/proxy/network/api" {
		t.Errorf("UDM Pro APIBase = %q, want /proxy/network/api", udm.APIBase())
	}
	legacy := NewClient(testConfig("https://c", false))
	if legacy.APIBase() != "/api" {
		t.Errorf("legacy APIBase = %q, want /api", legacy.APIBase())
	}
}

func TestAuthenticate_BeforeConnect(t *testing.T) {
	c := NewClient(testConfig("https://c", true))
	if _, err := c.Authenticate(context.Background()); err == nil {
		t.Error("Authenticate before Connect should return an error")
	}
}

func TestAuthenticate_UDMPro(t *testing.T) {
	var loginCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Errorf("login path = %q, want /api/auth/login", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("login Content-Type = %q, want application/json", ct)
		}
		var creds map[string]string
		json.NewDecoder(r.Body).Decode(&creds)
		if creds["username"] != "admin" || creds["password"] != "secret" {
			t.Errorf("credentials = %v", creds)
		}
		atomic.AddInt32(&loginCalls, 1)
		token := "header." + base64.RawURLEncoding.EncodeToString([]byte(`{"csrfToken":"csrf-123"}`)) + ".sig"
		http.SetCookie(w, &http.Cookie{Name: "TOKEN", Value: token})
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL, true))
	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if !c.IsAuthenticated() {
		t.Error("client should be authenticated after Connect")
	}
	if c.csrfToken != "csrf-123" {
		t.Errorf("csrfToken = %q, want csrf-123", c.csrfToken)
	}
	if n := atomic.LoadInt32(&loginCalls); n != 1 {
		t.Errorf("login calls = %d, want 1", n)
	}
}

func TestAuthenticate_Legacy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/login" {
			t.Errorf("login path = %q, want /api/login", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
			t.Errorf("login Content-Type = %q, want form encoding", ct)
		}
		r.ParseForm()
		if r.PostForm.Get("username") != "admin" || r.PostForm.Get("remember") != "true" {
			t.Errorf("form = %v", r.PostForm)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL, false))
	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if !c.IsAuthenticated() {
		t.Error("client should be authenticated after Connect")
	}
}

func TestAuthenticate_BadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL, true))
	if err := c.Connect(context.Background()); err == nil {
		t.Error("Connect() should report failed authentication")
	}
	if c.IsAuthenticated() {
		t.Error("client should not be authenticated")
	}
}

func TestAuthenticate_CSRFDecodeFailureTolerated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "TOKEN", Value: "not-a-jwt"})
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL, true))
	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	if !c.IsAuthenticated() {
		t.Error("decode failure must not block authentication")
	}
	if c.csrfToken != "" {
		t.Errorf("csrfToken = %q, want empty", c.csrfToken)
	}
}

func TestRequest_EnvelopeUnwrapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			w.WriteHeader(http.StatusOK)
		case "/proxy/network/api/s/default/stat/device":
			fmt.Fprint(w, `{"data": [1, 2, 3], "meta": {"rc": "ok"}}`)
		case "/proxy/network/api/s/default/stat/health":
			fmt.Fprint(w, `{"status": "fine"}`)
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL, true))
	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	resp := c.Request(context.Background(), http.MethodGet, "/stat/device", "default", nil, nil)
	list, ok := resp.([]any)
	if !ok {
		t.Fatalf("expected unwrapped list, got %T: %v", resp, resp)
	}
	if len(list) != 3 {
		t.Errorf("list length = %d, want 3", len(list))
	}

	// A body without a data key is returned unchanged.
	resp = c.Request(context.Background(), http.MethodGet, "/stat/health", "default", nil, nil)
	obj, ok := resp.(map[string]any)
	if !ok {
		t.Fatalf("expected map, got %T", resp)
	}
	if obj["status"] != "fine" {
		t.Errorf("body = %v", obj)
	}
}

func TestRequest_SingleRetryOn401(t *testing.T) {
	var loginCalls, dataCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			atomic.AddInt32(&loginCalls, 1)
			w.WriteHeader(http.StatusOK)
		case "/proxy/network/api/s/default/stat/sta":
			if atomic.AddInt32(&dataCalls, 1) == 1 {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			fmt.Fprint(w, `{"data": [], "meta": {"rc": "ok"}}`)
		}
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL, true))
	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	atomic.StoreInt32(&loginCalls, 0)

	resp := c.Request(context.Background(), http.MethodGet, "/stat/sta", "default", nil, nil)
	if msg, isErr := ErrorMessage(resp); isErr {
		t.Fatalf("Request() = error %q, want success", msg)
	}
	if n := atomic.LoadInt32(&dataCalls); n != 2 {
		t.Errorf("data calls = %d, want exactly 2 (original + one retry)", n)
	}
	if n := atomic.LoadInt32(&loginCalls); n != 1 {
		t.Errorf("re-auth calls = %d, want exactly 1", n)
	}
}

func TestRequest_RetryStillFailing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL, true))
	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	resp := c.Request(context.Background(), http.MethodGet, "/stat/sta", "default", nil, nil)
	msg, isErr := ErrorMessage(resp)
	if !isErr {
		t.Fatalf("Request() = %v, want error payload", resp)
	}
	if !strings.Contains(msg, "401") {
		t.Errorf("error = %q, want status code in message", msg)
	}
}

func TestRequest_NoRetryOn500(t *testing.T) {
	var dataCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			w.WriteHeader(http.StatusOK)
		default:
			atomic.AddInt32(&dataCalls, 1)
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL, true))
	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	resp := c.Request(context.Background(), http.MethodGet, "/stat/device", "default", nil, nil)
	msg, isErr := ErrorMessage(resp)
	if !isErr {
		t.Fatalf("Request() = %v, want error payload", resp)
	}
	if !strings.Contains(msg, "500") {
		t.Errorf("error = %q, want \"500\" in message", msg)
	}
	if n := atomic.LoadInt32(&dataCalls); n != 1 {
		t.Errorf("data calls = %d, want exactly 1 (no retry)", n)
	}
}

func TestRequest_CrossSiteURL(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/login" {
			w.WriteHeader(http.StatusOK)
			return
		}
		gotPath = r.URL.Path
		fmt.Fprint(w, `{"data": [], "meta": {"rc": "ok"}}`)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL, true))
	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	c.GetSites(context.Background())
	if gotPath != "/proxy/network/api/self/sites" {
		t.Errorf("cross-site path = %q, want /proxy/network/api/self/sites", gotPath)
	}

	c.GetDevices(context.Background(), "branch")
	if gotPath != "/proxy/network/api/s/branch/stat/device" {
		t.Errorf("site path = %q", gotPath)
	}
}

func TestRequest_CSRFHeader(t *testing.T) {
	var gotCSRF string
	token := "h." + base64.RawURLEncoding.EncodeToString([]byte(`{"csrfToken":"tok-9"}`)) + ".s"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/login" {
			http.SetCookie(w, &http.Cookie{Name: "TOKEN", Value: token})
			w.WriteHeader(http.StatusOK)
			return
		}
		gotCSRF = r.Header.Get("X-CSRF-Token")
		fmt.Fprint(w, `{"data": [], "meta": {"rc": "ok"}}`)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL, true))
	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	c.Request(context.Background(), http.MethodPost, "/cmd/devmgr", "default",
		map[string]any{"cmd": "restart", "mac": "aa:bb:cc:dd:ee:01"}, nil)

	if gotCSRF != "tok-9" {
		t.Errorf("X-CSRF-Token = %q, want tok-9", gotCSRF)
	}
}

func TestDisconnect_ResetsState(t *testing.T) {
	var loginCalls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/login" {
			atomic.AddInt32(&loginCalls, 1)
			token := "h." + base64.RawURLEncoding.EncodeToString([]byte(`{"csrfToken":"x"}`)) + ".s"
			http.SetCookie(w, &http.Cookie{Name: "TOKEN", Value: token})
			w.WriteHeader(http.StatusOK)
			return
		}
		fmt.Fprint(w, `{"data": [], "meta": {"rc": "ok"}}`)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL, true))
	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	c.Disconnect()
	if c.IsAuthenticated() {
		t.Error("IsAuthenticated() should be false after Disconnect")
	}
	if c.csrfToken != "" {
		t.Error("csrfToken should be cleared after Disconnect")
	}

	// Safe to call twice.
	c.Disconnect()

	// A subsequent request re-authenticates from scratch.
	atomic.StoreInt32(&loginCalls, 0)
	resp := c.Request(context.Background(), http.MethodGet, "/stat/device", "default", nil, nil)
	if msg, isErr := ErrorMessage(resp); isErr {
		t.Fatalf("Request() after Disconnect = error %q", msg)
	}
	if n := atomic.LoadInt32(&loginCalls); n != 1 {
		t.Errorf("login calls after Disconnect = %d, want 1", n)
	}
}

func TestRequest_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	url := srv.URL
	srv.Close() // nothing listening anymore

	c := NewClient(testConfig(url, true))
	resp := c.Request(context.Background(), http.MethodGet, "/stat/device", "default", nil, nil)
	if _, isErr := ErrorMessage(resp); !isErr {
		t.Fatalf("Request() against closed server = %v, want error payload", resp)
	}
}

func TestErrorMessage(t *testing.T) {
	if msg, ok := ErrorMessage(map[string]any{"error": "boom"}); !ok || msg != "boom" {
		t.Errorf("ErrorMessage = %q, %v", msg, ok)
	}
	if _, ok := ErrorMessage([]any{1, 2}); ok {
		t.Error("list payload should not be an error")
	}
	if _, ok := ErrorMessage(map[string]any{"data": 1}); ok {
		t.Error("map without error key should not be an error")
	}
}
