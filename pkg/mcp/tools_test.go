package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/unifi-tools/unifi-mcp/pkg/action"
	"github.com/unifi-tools/unifi-mcp/pkg/service"
)

func TestActionNames(t *testing.T) {
	names := actionNames()
	if len(names) != 31 {
		t.Errorf("actionNames() has %d entries, want 31", len(names))
	}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			t.Errorf("duplicate action name %q", name)
		}
		seen[name] = true
	}
	for _, want := range []string{"get_devices", "block_client", "authorize_guest", "get_user_info"} {
		if !seen[want] {
			t.Errorf("actionNames() missing %q", want)
		}
	}
}

func TestUnifiToolSchema(t *testing.T) {
	tool := unifiTool()
	if tool.Name != "unifi" {
		t.Errorf("tool name = %q", tool.Name)
	}
	if _, ok := tool.InputSchema.Properties["action"]; !ok {
		t.Error("tool schema missing action parameter")
	}
	for _, param := range []string{"site_name", "mac", "limit", "connected_only", "minutes"} {
		if _, ok := tool.InputSchema.Properties[param]; !ok {
			t.Errorf("tool schema missing %s parameter", param)
		}
	}
	if _, ok := tool.InputSchema.Properties["site"]; ok {
		t.Error("tool schema carries a stray site parameter; the wire name is site_name")
	}
}

// The site argument arrives as site_name and must reach the resolved
// site, not fall through to the default.
func TestParamsFromArgs_SiteName(t *testing.T) {
	params := paramsFromArgs(action.GetDevices, map[string]any{
		"action":    "get_devices",
		"site_name": "branch",
	})
	if params.Site != "branch" {
		t.Errorf("Site = %q, want branch", params.Site)
	}
	if got := params.ResolvedSite(); got != "branch" {
		t.Errorf("ResolvedSite() = %q, want branch", got)
	}

	params = paramsFromArgs(action.GetDevices, map[string]any{"action": "get_devices"})
	if got := params.ResolvedSite(); got != "default" {
		t.Errorf("ResolvedSite() with no site_name = %q, want default", got)
	}
}

// An unknown action must be rejected without touching the controller;
// the coordinator here would panic on any call.
func TestHandleUnifiTool_InvalidAction(t *testing.T) {
	srv := &Server{coordinator: service.NewCoordinator(nil)}

	request := mcp.CallToolRequest{}
	request.Params.Name = "unifi"
	request.Params.Arguments = map[string]any{"action": "reboot_universe"}

	result, err := srv.handleUnifiTool(context.Background(), request)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !result.IsError {
		t.Fatal("unknown action accepted")
	}
	text, ok := mcp.AsTextContent(result.Content[0])
	if !ok {
		t.Fatalf("content is %T", result.Content[0])
	}
	if !strings.Contains(text.Text, "Valid actions") || !strings.Contains(text.Text, "get_devices") {
		t.Errorf("error text = %q, want valid action listing", text.Text)
	}
}

func TestArgHelpers(t *testing.T) {
	args := map[string]any{
		"site_name": "branch",
		"limit":     float64(25),
		"name":      "",
		"flag":      true,
	}

	if got := argString(args, "site_name"); got != "branch" {
		t.Errorf("argString = %q", got)
	}
	if got := argInt(args, "limit"); got == nil || *got != 25 {
		t.Errorf("argInt = %v", got)
	}
	if got := argInt(args, "absent"); got != nil {
		t.Errorf("argInt(absent) = %v, want nil", got)
	}
	// Explicit empty string is distinct from absent.
	if got := argStringPtr(args, "name"); got == nil || *got != "" {
		t.Errorf("argStringPtr(present empty) = %v", got)
	}
	if got := argStringPtr(args, "absent"); got != nil {
		t.Errorf("argStringPtr(absent) = %v, want nil", got)
	}
	if got := argBool(args, "flag"); got == nil || !*got {
		t.Errorf("argBool = %v", got)
	}
}

func TestRenderResult(t *testing.T) {
	out := renderResult("Devices (1 total)", []map[string]any{{"name": "ap1"}})
	if !strings.Contains(out, "Devices (1 total)") || !strings.Contains(out, `"name": "ap1"`) {
		t.Errorf("renderResult = %q", out)
	}
	if got := renderResult("plain", nil); got != "plain" {
		t.Errorf("renderResult(nil structured) = %q", got)
	}
}
