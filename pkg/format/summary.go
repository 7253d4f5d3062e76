package format

import (
	"fmt"
	"strings"
	"time"
)

// deviceModels maps controller model codes to marketing names.
var deviceModels = map[string]string{
	"U7PG2":    "UniFi AC Pro AP",
	"U7P":      "UniFi AC Pro AP",
	"U7LR":     "UniFi AC LR AP",
	"U7HD":     "UniFi AC HD AP",
	"U6LR":     "UniFi 6 LR AP",
	"U6PRO":    "UniFi 6 Pro AP",
	"U6E":      "UniFi 6 Enterprise AP",
	"U7P6":     "UniFi 7 Pro AP",
	"UCGMAX":   "Cloud Gateway Max",
	"UDMPRO":   "Dream Machine Pro",
	"UDMSE":    "Dream Machine SE",
	"USW24":    "UniFi 24-Port Switch",
	"USW48":    "UniFi 48-Port Switch",
	"USWPRO24": "UniFi Pro 24-Port Switch",
	"USWPRO48": "UniFi Pro 48-Port Switch",
}

// DeviceTypeName maps the controller's short type code to a label.
func DeviceTypeName(device map[string]any) string {
	switch strings.ToLower(Str(device, "type", "")) {
	case "uap":
		return "Access Point"
	case "udm", "ugw":
		return "Gateway"
	case "usw":
		return "Switch"
	case "usg":
		return "Security Gateway"
	case "uck":
		return "Cloud Key"
	}
	return "Unknown Device"
}

// DeviceModelName resolves a model code to a readable name, falling
// back to pattern matching on the product family.
func DeviceModelName(model string) string {
	if model == "" {
		return "Unknown Model"
	}
	upper := strings.ToUpper(model)
	if name, ok := deviceModels[upper]; ok {
		return name
	}

	switch {
	case strings.Contains(upper, "U7") && !strings.Contains(upper, "AP"):
		return fmt.Sprintf("UniFi %s AP", model)
	case strings.Contains(upper, "U6") && !strings.Contains(upper, "AP"):
		return fmt.Sprintf("UniFi %s AP", model)
	case strings.Contains(upper, "USW"):
		return fmt.Sprintf("UniFi %s Switch", model)
	case strings.Contains(upper, "UDM"):
		return "Dream Machine " + strings.TrimSpace(strings.ReplaceAll(model, "UDM", ""))
	case strings.Contains(upper, "UCG"):
		return "Cloud Gateway " + strings.TrimSpace(strings.ReplaceAll(model, "UCG", ""))
	}
	return model
}

// DeviceSummary reduces a raw device record to the fields that matter,
// with type-specific detail for APs, gateways and switches.
func DeviceSummary(device map[string]any) map[string]any {
	deviceType := DeviceTypeName(device)

	status := "Offline"
	if Num(device, "state") == 1 {
		status = "Online"
	}

	summary := map[string]any{
		"name":    Str(device, "name", "Unnamed Device"),
		"model":   DeviceModelName(Str(device, "model", "")),
		"type":    deviceType,
		"status":  status,
		"uptime":  FormatUptime(device["uptime"]),
		"mac":     strings.ToUpper(Str(device, "mac", "")),
		"ip":      Str(device, "ip", "Unknown"),
		"version": Str(device, "version", "Unknown"),
	}

	switch deviceType {
	case "Access Point":
		radios := List(device, "radio_table")
		summary["total_clients"] = Num(device, "num_sta")
		if len(radios) > 0 {
			r := AsObject(radios[0])
			summary["channel_2g"] = r["channel"]
			summary["tx_power_2g"] = fmt.Sprintf("%v dBm", r["tx_power"])
		}
		if len(radios) > 1 {
			r := AsObject(radios[1])
			summary["channel_5g"] = r["channel"]
			summary["tx_power_5g"] = fmt.Sprintf("%v dBm", r["tx_power"])
		}

	case "Gateway":
		stats := Map(device, "system-stats")
		speed := Map(device, "speedtest-status")
		summary["wan_ip"] = Str(Map(device, "wan1"), "ip", "Unknown")
		summary["lan_ip"] = Str(device, "lan_ip", "Unknown")
		summary["uplink_speed"] = fmt.Sprintf("%.0f Mbps down, %.0f Mbps up",
			Num(speed, "xput_download"), Num(speed, "xput_upload"))
		summary["cpu_usage"] = fmt.Sprintf("%.1f%%", Num(stats, "cpu"))
		summary["memory_usage"] = fmt.Sprintf("%.1f%%", Num(stats, "mem"))

	case "Switch":
		ports := List(device, "port_table")
		active := 0
		var poePower float64
		for _, p := range ports {
			port := AsObject(p)
			if Bool(port, "up") {
				active++
			}
			poePower += Num(port, "poe_power")
		}
		stats := Map(device, "system-stats")
		summary["total_ports"] = len(ports)
		summary["active_ports"] = active
		summary["poe_power_used"] = fmt.Sprintf("%.1fW", poePower)
		summary["cpu_usage"] = fmt.Sprintf("%.1f%%", Num(stats, "cpu"))
		summary["memory_usage"] = fmt.Sprintf("%.1f%%", Num(stats, "mem"))
	}

	return summary
}

// ClientSummary reduces a raw client record, with wireless detail when
// the client is not wired.
func ClientSummary(client map[string]any) map[string]any {
	isWired := Bool(client, "is_wired")

	name := Str(client, "name", "")
	if name == "" {
		name = Str(client, "hostname", "Unknown Device")
	}

	connType := "Wireless"
	if isWired {
		connType = "Wired"
	}

	summary := map[string]any{
		"name":            name,
		"mac":             strings.ToUpper(Str(client, "mac", "")),
		"ip":              Str(client, "ip", "Unknown"),
		"connection_type": connType,
		"connected_time":  FormatUptime(client["uptime"]),
		"last_seen":       FormatTimestamp(client["last_seen"]),
		"bytes_sent":      FormatBytes(client["tx_bytes"]),
		"bytes_received":  FormatBytes(client["rx_bytes"]),
		"device_type":     Str(client, "oui", "Unknown Manufacturer"),
	}

	if isWired {
		summary["switch_port"] = client["sw_port"]
		summary["switch_mac"] = Str(client, "sw_mac", "Unknown")
	} else {
		summary["signal_strength"] = FormatSignalStrength(client["rssi"])
		summary["access_point"] = Str(client, "ap_mac", "Unknown")
		summary["frequency"] = fmt.Sprintf("%v (%v)", client["channel"], client["radio"])
		summary["tx_rate"] = fmt.Sprintf("%.0f Mbps", Num(client, "tx_rate"))
		summary["rx_rate"] = fmt.Sprintf("%.0f Mbps", Num(client, "rx_rate"))
	}

	return summary
}

// SiteSummary reduces a raw site record including the per-subsystem
// health rollup.
func SiteSummary(site map[string]any) map[string]any {
	health := List(site, "health")
	healthy := 0
	details := map[string]any{}
	for _, h := range health {
		sub := AsObject(h)
		status := Str(sub, "status", "unknown")
		if status == "ok" {
			healthy++
		}
		if name := Str(sub, "subsystem", ""); name != "" {
			details[name] = status
		}
	}
	score := 0.0
	if len(health) > 0 {
		score = float64(healthy) / float64(len(health)) * 100
	}

	return map[string]any{
		"name":           Str(site, "desc", Str(site, "name", "Unknown Site")),
		"site_id":        Str(site, "name", "Unknown"),
		"role":           Str(site, "role", "admin"),
		"health_score":   fmt.Sprintf("%.1f%%", score),
		"total_devices":  Num(site, "num_ap") + Num(site, "num_gw") + Num(site, "num_sw"),
		"access_points":  Num(site, "num_ap"),
		"gateways":       Num(site, "num_gw"),
		"switches":       Num(site, "num_sw"),
		"health_details": details,
	}
}

// Overview assembles the network overview from the individual
// collections fetched by the monitoring service.
func Overview(devices, clients []map[string]any, gateway map[string]any,
	portForwarding, speedTests, threats []map[string]any) map[string]any {

	deviceCounts := map[string]int{
		"Access Points": 0, "Gateways": 0, "Switches": 0, "Other": 0,
	}
	online := 0
	for _, d := range devices {
		switch DeviceTypeName(d) {
		case "Access Point":
			deviceCounts["Access Points"]++
		case "Gateway", "Security Gateway":
			deviceCounts["Gateways"]++
		case "Switch":
			deviceCounts["Switches"]++
		default:
			deviceCounts["Other"]++
		}
		if Num(d, "state") == 1 {
			online++
		}
	}

	wired := 0
	for _, c := range clients {
		if Bool(c, "is_wired") {
			wired++
		}
	}

	var latestSpeedTest map[string]any
	var latest map[string]any
	for _, st := range speedTests {
		if latest == nil || Num(st, "time") > Num(latest, "time") {
			latest = st
		}
	}
	if latest != nil {
		latestSpeedTest = map[string]any{
			"date":     FormatTimestamp(latest["time"]),
			"download": fmt.Sprintf("%.1f Mbps", NumAny(latest, "xput_download", "xput_down", "download")),
			"upload":   fmt.Sprintf("%.1f Mbps", NumAny(latest, "xput_upload", "xput_up", "upload")),
			"latency":  fmt.Sprintf("%.0f ms", NumAny(latest, "latency", "ping")),
		}
	}

	dayAgo := float64(time.Now().Add(-24 * time.Hour).Unix())
	recentThreats := 0
	for _, t := range threats {
		if Num(t, "time") > dayAgo {
			recentThreats++
		}
	}

	return map[string]any{
		"network_summary": map[string]any{
			"total_devices":    len(devices),
			"online_devices":   online,
			"device_breakdown": deviceCounts,
			"total_clients":    len(clients),
			"wired_clients":    wired,
			"wireless_clients": len(clients) - wired,
		},
		"gateway_info":          gateway,
		"port_forwarding_rules": len(portForwarding),
		"latest_speed_test":     latestSpeedTest,
		"security": map[string]any{
			"threats_last_24h":    recentThreats,
			"total_threat_events": len(threats),
		},
	}
}
