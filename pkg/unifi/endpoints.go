package unifi

import (
	"context"
	"net/http"
)

// Typed wrappers over Request for the fixed endpoint catalog. Write
// operations normalize the MAC before sending; the cmd strings are the
// controller's wire protocol.

// GetSites lists all sites on the controller (cross-site endpoint).
func (c *Client) GetSites(ctx context.Context) any {
	return c.Request(ctx, http.MethodGet, "/self/sites", "", nil, nil)
}

// GetControllerStatus returns controller system information.
func (c *Client) GetControllerStatus(ctx context.Context) any {
	return c.Request(ctx, http.MethodGet, "/status", "", nil, nil)
}

// GetSelf returns the authenticated controller user.
func (c *Client) GetSelf(ctx context.Context) any {
	return c.Request(ctx, http.MethodGet, "/self", "", nil, nil)
}

// GetDevices lists all devices for a site.
func (c *Client) GetDevices(ctx context.Context, site string) any {
	return c.Request(ctx, http.MethodGet, "/stat/device", site, nil, nil)
}

// GetClients lists active clients for a site.
func (c *Client) GetClients(ctx context.Context, site string) any {
	return c.Request(ctx, http.MethodGet, "/stat/sta", site, nil, nil)
}

// RestartDevice restarts a device by MAC address.
func (c *Client) RestartDevice(ctx context.Context, mac, site string) any {
	data := map[string]any{"cmd": "restart", "mac": NormalizeMAC(mac)}
	return c.Request(ctx, http.MethodPost, "/cmd/devmgr", site, data, nil)
}

// LocateDevice enables the locate LED on a device.
func (c *Client) LocateDevice(ctx context.Context, mac, site string) any {
	data := map[string]any{"cmd": "set-locate", "mac": NormalizeMAC(mac)}
	return c.Request(ctx, http.MethodPost, "/cmd/devmgr", site, data, nil)
}

// ReconnectClient forces a client to reconnect.
func (c *Client) ReconnectClient(ctx context.Context, mac, site string) any {
	data := map[string]any{"cmd": "kick-sta", "mac": NormalizeMAC(mac)}
	return c.Request(ctx, http.MethodPost, "/cmd/stamgr", site, data, nil)
}

// BlockClient blocks a client from network access.
func (c *Client) BlockClient(ctx context.Context, mac, site string) any {
	data := map[string]any{"cmd": "block-sta", "mac": NormalizeMAC(mac)}
	return c.Request(ctx, http.MethodPost, "/cmd/stamgr", site, data, nil)
}

// UnblockClient removes a block on a client.
func (c *Client) UnblockClient(ctx context.Context, mac, site string) any {
	data := map[string]any{"cmd": "unblock-sta", "mac": NormalizeMAC(mac)}
	return c.Request(ctx, http.MethodPost, "/cmd/stamgr", site, data, nil)
}

// ForgetClient removes a client and its history from the controller.
// The command takes a list of MACs on the wire.
func (c *Client) ForgetClient(ctx context.Context, mac, site string) any {
	data := map[string]any{"cmd": "forget-sta", "macs": []string{NormalizeMAC(mac)}}
	return c.Request(ctx, http.MethodPost, "/cmd/stamgr", site, data, nil)
}

// AuthorizeGuest grants a guest client network access for the given
// number of minutes. Bandwidth limits are Kbps; quotaBytes is already
// converted to bytes by the caller.
func (c *Client) AuthorizeGuest(ctx context.Context, mac, site string, minutes int, up, down *int, quotaBytes *int64) any {
	data := map[string]any{
		"cmd":     "authorize-guest",
		"mac":     NormalizeMAC(mac),
		"minutes": minutes,
	}
	if up != nil {
		data["up"] = *up
	}
	if down != nil {
		data["down"] = *down
	}
	if quotaBytes != nil {
		data["bytes"] = *quotaBytes
	}
	return c.Request(ctx, http.MethodPost, "/cmd/stamgr", site, data, nil)
}

// ListUsers lists all known controller users, including offline
// clients. Used to resolve a MAC to its internal id for updates.
func (c *Client) ListUsers(ctx context.Context, site string) any {
	return c.Request(ctx, http.MethodGet, "/list/user", site, nil, nil)
}

// UpdateUser posts a partial update for a known client by internal id.
func (c *Client) UpdateUser(ctx context.Context, site, userID string, fields map[string]any) any {
	return c.Request(ctx, http.MethodPost, "/upd/user/"+userID, site, fields, nil)
}

// StartSpectrumScan starts an RF spectrum scan on an access point.
func (c *Client) StartSpectrumScan(ctx context.Context, mac, site string) any {
	data := map[string]any{"cmd": "spectrum-scan", "mac": NormalizeMAC(mac)}
	return c.Request(ctx, http.MethodPost, "/cmd/devmgr", site, data, nil)
}

// GetSpectrumScanState returns spectrum scan progress and results for
// an access point.
func (c *Client) GetSpectrumScanState(ctx context.Context, mac, site string) any {
	return c.Request(ctx, http.MethodGet, "/stat/spectrum-scan/"+NormalizeMAC(mac), site, nil, nil)
}

// GetEvents returns recent events, newest first per the controller.
func (c *Client) GetEvents(ctx context.Context, site string, limit int) any {
	return c.Request(ctx, http.MethodPost, "/stat/event", site, map[string]any{"_limit": limit}, nil)
}

// GetAlarms returns controller alarms.
func (c *Client) GetAlarms(ctx context.Context, site string) any {
	return c.Request(ctx, http.MethodGet, "/list/alarm", site, nil, nil)
}

// GetSiteHealth returns per-subsystem site health.
func (c *Client) GetSiteHealth(ctx context.Context, site string) any {
	return c.Request(ctx, http.MethodGet, "/stat/health", site, nil, nil)
}

// GetWLANConfigs returns WLAN configurations.
func (c *Client) GetWLANConfigs(ctx context.Context, site string) any {
	return c.Request(ctx, http.MethodGet, "/rest/wlanconf", site, nil, nil)
}

// GetNetworkConfigs returns network/VLAN configurations.
func (c *Client) GetNetworkConfigs(ctx context.Context, site string) any {
	return c.Request(ctx, http.MethodGet, "/rest/networkconf", site, nil, nil)
}

// GetPortConfigs returns switch port profile configurations.
func (c *Client) GetPortConfigs(ctx context.Context, site string) any {
	return c.Request(ctx, http.MethodGet, "/rest/portconf", site, nil, nil)
}

// GetPortForwardingRules returns port forwarding rules.
func (c *Client) GetPortForwardingRules(ctx context.Context, site string) any {
	return c.Request(ctx, http.MethodGet, "/list/portforward", site, nil, nil)
}

// GetFirewallRules returns firewall rules.
func (c *Client) GetFirewallRules(ctx context.Context, site string) any {
	return c.Request(ctx, http.MethodGet, "/rest/firewallrule", site, nil, nil)
}

// GetFirewallGroups returns firewall address/port groups.
func (c *Client) GetFirewallGroups(ctx context.Context, site string) any {
	return c.Request(ctx, http.MethodGet, "/rest/firewallgroup", site, nil, nil)
}

// GetStaticRoutes returns static routing entries.
func (c *Client) GetStaticRoutes(ctx context.Context, site string) any {
	return c.Request(ctx, http.MethodGet, "/rest/routing", site, nil, nil)
}

// GetDPIStats returns deep packet inspection statistics.
func (c *Client) GetDPIStats(ctx context.Context, site string) any {
	return c.Request(ctx, http.MethodGet, "/stat/dpi", site, nil, nil)
}

// GetDashboardMetrics returns dashboard metrics.
func (c *Client) GetDashboardMetrics(ctx context.Context, site string) any {
	return c.Request(ctx, http.MethodGet, "/stat/dashboard", site, nil, nil)
}

// GetRogueAPs returns rogue access points seen in the last 24 hours.
func (c *Client) GetRogueAPs(ctx context.Context, site string) any {
	return c.Request(ctx, http.MethodPost, "/stat/rogueap", site, map[string]any{"within": 24}, nil)
}

// GetSpeedtestResults returns archived speed test results for a time
// window. Timestamps are controller-style milliseconds.
func (c *Client) GetSpeedtestResults(ctx context.Context, site string, startMillis, endMillis int64) any {
	data := map[string]any{
		"start": startMillis,
		"end":   endMillis,
		"attrs": []string{"time", "xput_download", "xput_upload", "latency", "ping", "jitter"},
	}
	return c.Request(ctx, http.MethodPost, "/stat/report/archive.speedtest", site, data, nil)
}

// GetIPSEvents returns IPS/IDS threat detection events for a time
// window. Timestamps are controller-style milliseconds.
func (c *Client) GetIPSEvents(ctx context.Context, site string, startMillis, endMillis int64) any {
	data := map[string]any{
		"start": startMillis,
		"end":   endMillis,
		"attrs": []string{"time", "src_ip", "dst_ip", "proto", "app_proto", "signature",
			"category", "action", "severity", "msg"},
	}
	return c.Request(ctx, http.MethodPost, "/stat/ips/event", site, data, nil)
}
