package service

import (
	"context"
	"fmt"
	"time"

	"github.com/unifi-tools/unifi-mcp/pkg/format"
)

// Overview assembles the site dashboard: device and client counts,
// WAN health, port forwarding exposure, the newest speed test and
// recent intrusion activity.
func (c *Coordinator) Overview(ctx context.Context, site string) *Result {
	devices, errResult := asList(c.controller.GetDevices(ctx, site))
	if errResult != nil {
		return errResult
	}
	clients, errResult := asList(c.controller.GetClients(ctx, site))
	if errResult != nil {
		return errResult
	}

	// Secondary feeds degrade to empty rather than failing the overview.
	health, _ := asList(c.controller.GetSiteHealth(ctx, site))
	portForwarding, _ := asList(c.controller.GetPortForwardingRules(ctx, site))

	end := time.Now().UnixMilli()
	speedTests, _ := asList(c.controller.GetSpeedtestResults(ctx, site, end-7*24*time.Hour.Milliseconds(), end))
	threats, _ := asList(c.controller.GetIPSEvents(ctx, site, end-24*time.Hour.Milliseconds(), end))

	gateway := wanSubsystem(health)

	summary := format.Overview(devices, clients, gateway, portForwarding, speedTests, threats)
	if metrics, errResult := asList(c.controller.GetDashboardMetrics(ctx, site)); errResult == nil && len(metrics) > 0 {
		summary["dashboard"] = metrics[len(metrics)-1]
	}

	network := format.Map(summary, "network_summary")
	return Success(
		fmt.Sprintf("Site Overview: %s\n  Devices: %v (%v online) | Clients: %v",
			site, network["total_devices"], network["online_devices"], network["total_clients"]),
		summary)
}

// wanSubsystem picks the WAN entry out of a site health response.
func wanSubsystem(health []map[string]any) map[string]any {
	for _, sub := range health {
		name := format.Str(sub, "subsystem", "")
		if name == "wan" || name == "www" {
			return sub
		}
	}
	return nil
}
