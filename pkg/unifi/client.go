// Package unifi implements the UniFi controller API client: one
// persistent authenticated HTTP session, dual-mode login (UniFi OS and
// legacy controllers), and request execution with transparent
// re-authentication on session expiry.
package unifi

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/unifi-tools/unifi-mcp/pkg/config"
	"github.com/unifi-tools/unifi-mcp/pkg/util"
)

const requestTimeout = 30 * time.Second

// Client is the UniFi controller API client. One instance owns one
// persistent session; all domain services share it and never open
// connections of their own.
type Client struct {
	cfg     config.Controller
	apiBase string

	mu            sync.Mutex // guards session state and serializes login attempts
	http          *http.Client
	csrfToken     string
	authenticated bool
}

// NewClient creates a client for the configured controller. No network
// activity happens until Connect.
func NewClient(cfg config.Controller) *Client {
	apiBase := "/api"
	if cfg.IsUDMPro {
		apiBase = "/proxy/network/api"
	}
	return &Client{cfg: cfg, apiBase: apiBase}
}

// APIBase returns the controller API path prefix for the configured
// controller generation.
func (c *Client) APIBase() string {
	return c.apiBase
}

// IsAuthenticated reports whether the last login succeeded and no 401
// has been seen since.
func (c *Client) IsAuthenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authenticated
}

// sessionLocked returns the live HTTP client, creating it on first use
// and after Disconnect. Must be called with c.mu held.
func (c *Client) sessionLocked() *http.Client {
	if c.http == nil {
		jar, _ := cookiejar.New(nil)
		c.http = &http.Client{
			Jar:     jar,
			Timeout: requestTimeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: !c.cfg.VerifySSL},
			},
		}
	}
	return c.http
}

// Connect initializes the HTTP session if needed and authenticates.
// Repeated calls reuse the open session but always re-run
// authentication.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	c.sessionLocked()
	c.mu.Unlock()

	ok, err := c.Authenticate(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("authentication to %s failed", c.cfg.URL)
	}
	return nil
}

// Disconnect closes the session and clears all authentication state.
// Safe to call when already disconnected.
func (c *Client) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.http != nil {
		c.http.CloseIdleConnections()
		c.http = nil
	}
	c.authenticated = false
	c.csrfToken = ""
}

// Authenticate logs in to the controller. It returns false (with a nil
// error) on bad credentials or any transport failure; those are logged,
// not raised. The only error returned is ErrNotConnected when called
// before Connect has created a session.
//
// The mutex is held for the whole login exchange, so exactly one
// authentication attempt is in flight per session.
func (c *Client) Authenticate(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authenticateLocked(ctx)
}

func (c *Client) authenticateLocked(ctx context.Context) (bool, error) {
	if c.http == nil {
		return false, util.ErrNotConnected
	}

	var req *http.Request
	var err error
	if c.cfg.IsUDMPro {
		loginURL := c.cfg.URL + "/api/auth/login"
		body, _ := json.Marshal(map[string]string{
			"username": c.cfg.Username,
			"password": c.cfg.Password,
		})
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, loginURL, bytes.NewReader(body))
		if err == nil {
			req.Header.Set("Content-Type", "application/json")
		}
	} else {
		loginURL := c.cfg.URL + c.apiBase + "/login"
		form := url.Values{}
		form.Set("username", c.cfg.Username)
		form.Set("password", c.cfg.Password)
		form.Set("remember", "true")
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, loginURL, strings.NewReader(form.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	}
	if err != nil {
		util.Errorf("authentication error: %v", err)
		return false, nil
	}

	util.Debugf("authenticating to %s", req.URL)

	resp, err := c.http.Do(req)
	if err != nil {
		util.Errorf("authentication error: %v", err)
		return false, nil
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		util.Errorf("authentication failed with status %d", resp.StatusCode)
		return false, nil
	}

	if c.cfg.IsUDMPro {
		c.extractCSRFToken()
	}

	c.authenticated = true
	util.Info("authenticated to UniFi controller")
	return true, nil
}

// extractCSRFToken pulls the csrfToken claim out of the TOKEN session
// cookie. Decode failure is tolerated: requests proceed without the
// X-CSRF-Token header.
func (c *Client) extractCSRFToken() {
	base, err := url.Parse(c.cfg.URL)
	if err != nil {
		return
	}
	var token string
	for _, cookie := range c.http.Jar.Cookies(base) {
		if cookie.Name == "TOKEN" {
			token = cookie.Value
			break
		}
	}
	if token == "" {
		return
	}

	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		util.Warnf("failed to extract CSRF token: unexpected token format")
		return
	}
	payload := parts[1]
	if pad := len(payload) % 4; pad != 0 {
		payload += strings.Repeat("=", 4-pad)
	}
	decoded, err := base64.URLEncoding.DecodeString(payload)
	if err != nil {
		util.Warnf("failed to extract CSRF token: %v", err)
		return
	}
	var claims map[string]any
	if err := json.Unmarshal(decoded, &claims); err != nil {
		util.Warnf("failed to extract CSRF token: %v", err)
		return
	}
	if csrf, ok := claims["csrfToken"].(string); ok {
		c.csrfToken = csrf
		util.Debug("extracted CSRF token from session cookie")
	}
}

// ensureAuthenticated re-authenticates when the session is not marked
// authenticated. A failed attempt is not an error here: the following
// request will surface the failure as a request-level error payload.
func (c *Client) ensureAuthenticated(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.authenticated {
		return
	}
	c.authenticateLocked(ctx)
}

// Request executes an authenticated controller call and returns either
// the unwrapped JSON response or an error payload map[string]any
// {"error": message}. It never returns an error value: callers branch
// on ErrorMessage. An HTTP 401 triggers exactly one re-authentication
// and one retry; every other failure is returned immediately.
//
// site "" builds a cross-site URL (only /self/sites and /status use
// this); any other site is scoped under /s/{site}.
func (c *Client) Request(ctx context.Context, method, endpoint, site string, data map[string]any, params url.Values) any {
	// A request after Disconnect (or before Connect) gets a fresh
	// session; a failed login is not fatal here, the request itself
	// reports the failure.
	c.mu.Lock()
	httpClient := c.sessionLocked()
	c.mu.Unlock()

	c.ensureAuthenticated(ctx)

	var reqURL string
	if site == "" {
		reqURL = c.cfg.URL + c.apiBase + endpoint
	} else {
		reqURL = c.cfg.URL + c.apiBase + "/s/" + site + endpoint
	}
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	util.Debugf("%s %s", method, reqURL)

	resp, err := c.do(ctx, httpClient, method, reqURL, data)
	if err != nil {
		util.Errorf("request error: %v", err)
		return errPayload(err.Error())
	}

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		util.Warn("received 401, re-authenticating")
		c.mu.Lock()
		c.authenticated = false
		c.authenticateLocked(ctx)
		c.mu.Unlock()

		resp, err = c.do(ctx, httpClient, method, reqURL, data)
		if err != nil {
			util.Errorf("request error: %v", err)
			return errPayload(err.Error())
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		util.Errorf("request failed with status %d", resp.StatusCode)
		return errPayload(fmt.Sprintf("Request failed with status %d", resp.StatusCode))
	}

	var body any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		util.Errorf("request error: %v", err)
		return errPayload(err.Error())
	}

	// Unwrap the standard {data, meta} envelope.
	if obj, ok := body.(map[string]any); ok {
		if data, ok := obj["data"]; ok {
			return data
		}
	}
	return body
}

func (c *Client) do(ctx context.Context, httpClient *http.Client, method, reqURL string, data map[string]any) (*http.Response, error) {
	var body io.Reader
	if data != nil {
		encoded, err := json.Marshal(data)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	c.mu.Lock()
	if c.cfg.IsUDMPro && c.csrfToken != "" {
		req.Header.Set("X-CSRF-Token", c.csrfToken)
	}
	c.mu.Unlock()

	return httpClient.Do(req)
}

func errPayload(msg string) map[string]any {
	return map[string]any{"error": msg}
}

// ErrorMessage extracts the error string from a Request result. The
// second return is false for success payloads.
func ErrorMessage(resp any) (string, bool) {
	obj, ok := resp.(map[string]any)
	if !ok {
		return "", false
	}
	msg, ok := obj["error"].(string)
	if !ok {
		return "", false
	}
	return msg, true
}
