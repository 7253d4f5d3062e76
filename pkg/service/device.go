package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/unifi-tools/unifi-mcp/pkg/action"
	"github.com/unifi-tools/unifi-mcp/pkg/format"
	"github.com/unifi-tools/unifi-mcp/pkg/unifi"
	"github.com/unifi-tools/unifi-mcp/pkg/util"
)

// DeviceService handles device listing, lookup and control.
type DeviceService struct {
	client Controller
}

// NewDeviceService creates the device service.
func NewDeviceService(client Controller) *DeviceService {
	return &DeviceService{client: client}
}

// Execute routes a device action to its handler.
func (s *DeviceService) Execute(ctx context.Context, params *action.Params) *Result {
	switch params.Action {
	case action.GetDevices:
		return s.getDevices(ctx, params)
	case action.GetDeviceByMAC:
		return s.getDeviceByMAC(ctx, params)
	case action.RestartDevice:
		return s.restartDevice(ctx, params)
	case action.LocateDevice:
		return s.locateDevice(ctx, params)
	}
	return Errorf("Device action %s not supported", params.Action)
}

func (s *DeviceService) getDevices(ctx context.Context, params *action.Params) *Result {
	site := params.ResolvedSite()

	devices, errResult := asList(s.client.GetDevices(ctx, site))
	if errResult != nil {
		return errResult
	}

	// Per-item formatting failure degrades to a stand-in entry rather
	// than aborting the whole list.
	formatted := make([]map[string]any, 0, len(devices))
	for _, device := range devices {
		formatted = append(formatted, summarizeDevice(device))
	}

	return &Result{
		Text:       format.DevicesText(formatted),
		Structured: formatted,
	}
}

func summarizeDevice(device map[string]any) (summary map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			util.Errorf("error formatting device %s: %v", format.Str(device, "name", "Unknown"), r)
			summary = map[string]any{
				"name":  format.Str(device, "name", "Unknown"),
				"mac":   format.Str(device, "mac", ""),
				"error": fmt.Sprintf("Formatting error: %v", r),
			}
		}
	}()
	return format.DeviceSummary(device)
}

func (s *DeviceService) getDeviceByMAC(ctx context.Context, params *action.Params) *Result {
	site := params.ResolvedSite()

	devices, errResult := asList(s.client.GetDevices(ctx, site))
	if errResult != nil {
		return errResult
	}

	want := params.NormalizedMAC()
	for _, device := range devices {
		if unifi.NormalizeMAC(format.Str(device, "mac", "")) != want {
			continue
		}
		summary := format.DeviceSummary(device)
		lines := []string{
			"Device Details",
			fmt.Sprintf("  %s | %s (%s)",
				format.Str(summary, "name", "Unknown"),
				format.Str(summary, "model", "Unknown"),
				format.Str(summary, "type", "Device")),
			fmt.Sprintf("  Status: %s | IP: %s | Uptime: %s",
				format.Str(summary, "status", "Unknown"),
				format.Str(summary, "ip", "Unknown"),
				format.Str(summary, "uptime", "Unknown")),
			fmt.Sprintf("  MAC: %s | Version: %s",
				format.Str(summary, "mac", ""),
				format.Str(summary, "version", "Unknown")),
		}
		return Success(strings.Join(lines, "\n"), summary)
	}

	return Errorf("Device with MAC %s not found on site %s", params.MAC, site)
}

func (s *DeviceService) restartDevice(ctx context.Context, params *action.Params) *Result {
	mac := params.NormalizedMAC()

	resp := s.client.RestartDevice(ctx, mac, params.ResolvedSite())
	if ok, msg := validateResponse(resp); !ok {
		return ErrorWithRaw(msg, resp)
	}

	return SuccessMessage(
		fmt.Sprintf("Device restart requested: %s", mac),
		fmt.Sprintf("Device %s restart command sent", mac),
		resp)
}

func (s *DeviceService) locateDevice(ctx context.Context, params *action.Params) *Result {
	mac := params.NormalizedMAC()

	resp := s.client.LocateDevice(ctx, mac, params.ResolvedSite())
	if ok, msg := validateResponse(resp); !ok {
		return ErrorWithRaw(msg, resp)
	}

	return SuccessMessage(
		fmt.Sprintf("Locate LED activated: %s", mac),
		fmt.Sprintf("Device %s locate LED activated", mac),
		resp)
}
