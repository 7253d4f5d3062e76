package format

import (
	"fmt"
	"strings"
)

// Compact one-line-per-item text renderers. These produce the human
// half of every list result; the structured summaries carry the full
// detail. Inputs are the summary maps built elsewhere in this package
// or by the domain services.

const maxTextRows = 40

func listText(title string, items []map[string]any, row func(map[string]any) string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d total)", title, len(items))
	for i, item := range items {
		if i >= maxTextRows {
			fmt.Fprintf(&b, "\n  ... and %d more", len(items)-maxTextRows)
			break
		}
		b.WriteString("\n  ")
		b.WriteString(row(item))
	}
	return b.String()
}

// DevicesText renders device summaries.
func DevicesText(devices []map[string]any) string {
	return listText("Devices", devices, func(d map[string]any) string {
		return fmt.Sprintf("%s | %s | %s | %s",
			Str(d, "name", "Unknown"), Str(d, "model", "Unknown"),
			Str(d, "status", "Unknown"), Str(d, "ip", "Unknown"))
	})
}

// ClientsText renders client summaries.
func ClientsText(clients []map[string]any) string {
	return listText("Clients", clients, func(c map[string]any) string {
		return fmt.Sprintf("%s | %s | %s | %s",
			Str(c, "name", "Unknown"), Str(c, "ip", "Unknown"),
			Str(c, "connection_type", "Unknown"), Str(c, "mac", ""))
	})
}

// SitesText renders site summaries.
func SitesText(sites []map[string]any) string {
	return listText("Sites", sites, func(s map[string]any) string {
		return fmt.Sprintf("%s (%s) | health %s | %v devices",
			Str(s, "name", "Unknown"), Str(s, "site_id", "?"),
			Str(s, "health_score", "?"), s["total_devices"])
	})
}

// WLANsText renders WLAN config summaries.
func WLANsText(wlans []map[string]any) string {
	return listText("WLANs", wlans, func(w map[string]any) string {
		state := "disabled"
		if Bool(w, "enabled") {
			state = "enabled"
		}
		return fmt.Sprintf("%s | %s | %s | guest=%v",
			Str(w, "ssid", "Unknown"), state,
			Str(w, "security", "Unknown"), Bool(w, "guest_access"))
	})
}

// NetworksText renders network config summaries.
func NetworksText(networks []map[string]any) string {
	return listText("Networks", networks, func(n map[string]any) string {
		return fmt.Sprintf("%s | %s | VLAN %v | %s",
			Str(n, "name", "Unknown"), Str(n, "purpose", "Unknown"),
			n["vlan"], Str(n, "subnet", "Unknown"))
	})
}

// PortProfilesText renders switch port profile summaries.
func PortProfilesText(ports []map[string]any) string {
	return listText("Port Profiles", ports, func(p map[string]any) string {
		state := "disabled"
		if Bool(p, "enabled") {
			state = "enabled"
		}
		return fmt.Sprintf("%s | %s | PoE %s | security=%v",
			Str(p, "name", "Unknown"), state,
			Str(p, "poe_mode", "auto"), Bool(p, "port_security"))
	})
}

// PortForwardsText renders port forwarding rule summaries.
func PortForwardsText(rules []map[string]any) string {
	return listText("Port Forwarding Rules", rules, func(r map[string]any) string {
		state := "disabled"
		if Bool(r, "enabled") {
			state = "enabled"
		}
		return fmt.Sprintf("%s | %s %v -> %s:%v | %s",
			Str(r, "name", "Unknown"), Str(r, "protocol", "?"),
			r["external_port"], Str(r, "internal_ip", "?"), r["internal_port"], state)
	})
}

// FirewallRulesText renders firewall rule summaries.
func FirewallRulesText(rules []map[string]any) string {
	return listText("Firewall Rules", rules, func(r map[string]any) string {
		state := "disabled"
		if Bool(r, "enabled") {
			state = "enabled"
		}
		return fmt.Sprintf("[%s] %s | %s %s | %s",
			Str(r, "ruleset", "?"), Str(r, "name", "Unnamed"),
			Str(r, "action", "?"), Str(r, "protocol", "all"), state)
	})
}

// FirewallGroupsText renders firewall group summaries.
func FirewallGroupsText(groups []map[string]any) string {
	return listText("Firewall Groups", groups, func(g map[string]any) string {
		return fmt.Sprintf("%s | %s | %v members",
			Str(g, "name", "Unnamed"), Str(g, "group_type", "?"), g["member_count"])
	})
}

// StaticRoutesText renders static route summaries.
func StaticRoutesText(routes []map[string]any) string {
	return listText("Static Routes", routes, func(r map[string]any) string {
		state := "disabled"
		if Bool(r, "enabled") {
			state = "enabled"
		}
		return fmt.Sprintf("%s | %s via %s | %s",
			Str(r, "name", "Unnamed"), Str(r, "destination", "?"),
			Str(r, "gateway", "?"), state)
	})
}

// EventsText renders event summaries.
func EventsText(events []map[string]any) string {
	return listText("Events", events, func(e map[string]any) string {
		return fmt.Sprintf("%s [%s] %s",
			Str(e, "timestamp", "?"), Str(e, "subsystem", "?"),
			Str(e, "message", "No message"))
	})
}

// AlarmsText renders alarm summaries.
func AlarmsText(alarms []map[string]any) string {
	return listText("Alarms", alarms, func(a map[string]any) string {
		return fmt.Sprintf("%s [%s] %s",
			Str(a, "timestamp", "?"), Str(a, "severity", "?"),
			Str(a, "message", "No message"))
	})
}

// DPIStatsText renders DPI stat summaries.
func DPIStatsText(stats []map[string]any) string {
	return listText("DPI Statistics", stats, func(s map[string]any) string {
		summary := Map(s, "summary")
		if summary == nil {
			summary = s
		}
		return fmt.Sprintf("%s | tx %s | rx %s",
			Str(summary, "application", "Unknown"),
			Str(summary, "tx", "0 B"), Str(summary, "rx", "0 B"))
	})
}

// RogueAPsText renders rogue AP summaries.
func RogueAPsText(rogues []map[string]any) string {
	return listText("Rogue APs", rogues, func(r map[string]any) string {
		return fmt.Sprintf("%s (%s) ch %v | %s | threat %s",
			Str(r, "ssid", "Hidden"), Str(r, "bssid", "?"), r["channel"],
			Str(r, "signal_strength", "?"), Str(r, "threat_level", "Unknown"))
	})
}

// SpeedtestsText renders speed test summaries.
func SpeedtestsText(results []map[string]any) string {
	return listText("Speed Tests", results, func(r map[string]any) string {
		return fmt.Sprintf("%s | down %v Mbps | up %v Mbps | latency %v ms",
			Str(r, "timestamp", "?"), r["download_mbps"], r["upload_mbps"], r["latency_ms"])
	})
}

// IPSEventsText renders IPS event summaries.
func IPSEventsText(events []map[string]any) string {
	return listText("IPS Events", events, func(e map[string]any) string {
		return fmt.Sprintf("%s [%s] %s | %s -> %s",
			Str(e, "timestamp", "?"), Str(e, "severity", "?"),
			Str(e, "signature", "Unknown"),
			Str(e, "source_ip", "?"), Str(e, "destination_ip", "?"))
	})
}
