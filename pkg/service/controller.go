package service

import (
	"context"

	"github.com/unifi-tools/unifi-mcp/pkg/unifi"
)

// Controller is the slice of the UniFi client the domain services use.
// Tests substitute a fake; production wiring passes *unifi.Client.
type Controller interface {
	GetSites(ctx context.Context) any
	GetControllerStatus(ctx context.Context) any
	GetSelf(ctx context.Context) any

	GetDevices(ctx context.Context, site string) any
	RestartDevice(ctx context.Context, mac, site string) any
	LocateDevice(ctx context.Context, mac, site string) any
	StartSpectrumScan(ctx context.Context, mac, site string) any
	GetSpectrumScanState(ctx context.Context, mac, site string) any

	GetClients(ctx context.Context, site string) any
	ReconnectClient(ctx context.Context, mac, site string) any
	BlockClient(ctx context.Context, mac, site string) any
	UnblockClient(ctx context.Context, mac, site string) any
	ForgetClient(ctx context.Context, mac, site string) any
	AuthorizeGuest(ctx context.Context, mac, site string, minutes int, up, down *int, quotaBytes *int64) any
	ListUsers(ctx context.Context, site string) any
	UpdateUser(ctx context.Context, site, userID string, fields map[string]any) any

	GetWLANConfigs(ctx context.Context, site string) any
	GetNetworkConfigs(ctx context.Context, site string) any
	GetPortConfigs(ctx context.Context, site string) any
	GetPortForwardingRules(ctx context.Context, site string) any
	GetFirewallRules(ctx context.Context, site string) any
	GetFirewallGroups(ctx context.Context, site string) any
	GetStaticRoutes(ctx context.Context, site string) any

	GetEvents(ctx context.Context, site string, limit int) any
	GetAlarms(ctx context.Context, site string) any
	GetSiteHealth(ctx context.Context, site string) any
	GetDPIStats(ctx context.Context, site string) any
	GetDashboardMetrics(ctx context.Context, site string) any
	GetRogueAPs(ctx context.Context, site string) any
	GetSpeedtestResults(ctx context.Context, site string, startMillis, endMillis int64) any
	GetIPSEvents(ctx context.Context, site string, startMillis, endMillis int64) any
}

var _ Controller = (*unifi.Client)(nil)
