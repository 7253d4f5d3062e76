package service

import (
	"context"
	"fmt"

	"github.com/unifi-tools/unifi-mcp/pkg/action"
	"github.com/unifi-tools/unifi-mcp/pkg/format"
	"github.com/unifi-tools/unifi-mcp/pkg/util"
)

// NetworkService handles site and network configuration reads.
type NetworkService struct {
	client Controller
}

// NewNetworkService creates the network service.
func NewNetworkService(client Controller) *NetworkService {
	return &NetworkService{client: client}
}

// Execute routes a network action to its handler.
func (s *NetworkService) Execute(ctx context.Context, params *action.Params) *Result {
	switch params.Action {
	case action.GetSites:
		return s.getSites(ctx)
	case action.GetWLANConfigs:
		return s.getWLANConfigs(ctx, params)
	case action.GetNetworkConfigs:
		return s.getNetworkConfigs(ctx, params)
	case action.GetPortConfigs:
		return s.getPortConfigs(ctx, params)
	case action.GetPortForwardingRules:
		return s.getPortForwardingRules(ctx, params)
	case action.GetFirewallRules:
		return s.getFirewallRules(ctx, params)
	case action.GetFirewallGroups:
		return s.getFirewallGroups(ctx, params)
	case action.GetStaticRoutes:
		return s.getStaticRoutes(ctx, params)
	}
	return Errorf("Network action %s not supported", params.Action)
}

func (s *NetworkService) getSites(ctx context.Context) *Result {
	sites, errResult := asList(s.client.GetSites(ctx))
	if errResult != nil {
		return errResult
	}

	formatted := make([]map[string]any, 0, len(sites))
	for _, site := range sites {
		formatted = append(formatted, summarizeSite(site))
	}

	return &Result{
		Text:       format.SitesText(formatted),
		Structured: formatted,
	}
}

func summarizeSite(site map[string]any) (summary map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			util.Errorf("error formatting site %s: %v", format.Str(site, "name", "Unknown"), r)
			summary = map[string]any{
				"name":        format.Str(site, "name", "Unknown"),
				"description": format.Str(site, "desc", "Unknown"),
				"error":       fmt.Sprintf("Formatting error: %v", r),
			}
		}
	}()
	return format.SiteSummary(site)
}

func (s *NetworkService) getWLANConfigs(ctx context.Context, params *action.Params) *Result {
	wlans, errResult := asList(s.client.GetWLANConfigs(ctx, params.ResolvedSite()))
	if errResult != nil {
		return errResult
	}

	formatted := make([]map[string]any, 0, len(wlans))
	for _, wlan := range wlans {
		formatted = append(formatted, map[string]any{
			"name":               format.Str(wlan, "name", "Unknown WLAN"),
			"ssid":               format.Str(wlan, "ssid", format.Str(wlan, "name", "Unknown SSID")),
			"enabled":            format.Bool(wlan, "enabled"),
			"security":           format.Str(wlan, "security", "Unknown"),
			"wpa_mode":           format.Str(wlan, "wpa_mode", "Unknown"),
			"vlan":               wlan["vlan"],
			"guest_access":       format.Bool(wlan, "is_guest"),
			"hide_ssid":          format.Bool(wlan, "hide_ssid"),
			"mac_filter_enabled": format.Bool(wlan, "mac_filter_enabled"),
			"band_steering":      format.Bool(wlan, "band_steering"),
		})
	}

	return &Result{
		Text:       format.WLANsText(formatted),
		Structured: formatted,
	}
}

func (s *NetworkService) getNetworkConfigs(ctx context.Context, params *action.Params) *Result {
	networks, errResult := asList(s.client.GetNetworkConfigs(ctx, params.ResolvedSite()))
	if errResult != nil {
		return errResult
	}

	formatted := make([]map[string]any, 0, len(networks))
	for _, network := range networks {
		entry := map[string]any{
			"name":         format.Str(network, "name", "Unknown Network"),
			"purpose":      format.Str(network, "purpose", "Unknown"),
			"vlan":         network["vlan"],
			"subnet":       format.Str(network, "ip_subnet", "Unknown"),
			"dhcp_enabled": format.Bool(network, "dhcpd_enabled"),
			"domain_name":  network["domain_name"],
			"guest_access": format.Bool(network, "is_guest"),
		}
		if format.Bool(network, "dhcpd_enabled") {
			entry["dhcp_range"] = map[string]any{
				"start": network["dhcpd_start"],
				"stop":  network["dhcpd_stop"],
			}
		}
		formatted = append(formatted, entry)
	}

	return &Result{
		Text:       format.NetworksText(formatted),
		Structured: formatted,
	}
}

func (s *NetworkService) getPortConfigs(ctx context.Context, params *action.Params) *Result {
	ports, errResult := asList(s.client.GetPortConfigs(ctx, params.ResolvedSite()))
	if errResult != nil {
		return errResult
	}

	formatted := make([]map[string]any, 0, len(ports))
	for _, port := range ports {
		formatted = append(formatted, map[string]any{
			"name":          format.Str(port, "name", "Unknown Port Profile"),
			"enabled":       format.Bool(port, "enabled"),
			"native_vlan":   format.Str(port, "native_networkconf_id", "Default"),
			"tagged_vlans":  format.List(port, "tagged_networkconf_ids"),
			"port_security": format.Bool(port, "port_security_enabled"),
			"storm_control": format.Bool(port, "storm_ctrl_enabled"),
			"poe_mode":      format.Str(port, "poe_mode", "auto"),
			"speed":         format.Str(port, "speed", "auto"),
		})
	}

	return &Result{
		Text:       format.PortProfilesText(formatted),
		Structured: formatted,
	}
}

func (s *NetworkService) getPortForwardingRules(ctx context.Context, params *action.Params) *Result {
	rules, errResult := asList(s.client.GetPortForwardingRules(ctx, params.ResolvedSite()))
	if errResult != nil {
		return errResult
	}

	formatted := make([]map[string]any, 0, len(rules))
	for _, rule := range rules {
		formatted = append(formatted, map[string]any{
			"name":          format.Str(rule, "name", "Unknown Rule"),
			"enabled":       format.Bool(rule, "enabled"),
			"protocol":      format.Str(rule, "proto", "Unknown"),
			"external_port": rule["dst_port"],
			"internal_ip":   format.Str(rule, "fwd", "Unknown"),
			"internal_port": rule["fwd_port"],
			"log":           format.Bool(rule, "log"),
			"source":        format.Str(rule, "src", "any"),
		})
	}

	return &Result{
		Text:       format.PortForwardsText(formatted),
		Structured: formatted,
	}
}

func (s *NetworkService) getFirewallRules(ctx context.Context, params *action.Params) *Result {
	rules, errResult := asList(s.client.GetFirewallRules(ctx, params.ResolvedSite()))
	if errResult != nil {
		return errResult
	}

	formatted := make([]map[string]any, 0, len(rules))
	for _, rule := range rules {
		formatted = append(formatted, map[string]any{
			"name":        format.Str(rule, "name", "Unnamed Rule"),
			"enabled":     format.Bool(rule, "enabled"),
			"action":      format.Str(rule, "action", "unknown"),
			"protocol":    format.Str(rule, "protocol", "all"),
			"src_address": format.Str(rule, "src_address", "any"),
			"src_port":    format.Str(rule, "src_port", "any"),
			"dst_address": format.Str(rule, "dst_address", "any"),
			"dst_port":    format.Str(rule, "dst_port", "any"),
			"ruleset":     format.Str(rule, "ruleset", "unknown"),
			"index":       rule["rule_index"],
			"logging":     format.Bool(rule, "logging"),
			"established": format.Bool(rule, "state_established"),
			"related":     format.Bool(rule, "state_related"),
		})
	}

	return &Result{
		Text:       format.FirewallRulesText(formatted),
		Structured: formatted,
	}
}

func (s *NetworkService) getFirewallGroups(ctx context.Context, params *action.Params) *Result {
	groups, errResult := asList(s.client.GetFirewallGroups(ctx, params.ResolvedSite()))
	if errResult != nil {
		return errResult
	}

	formatted := make([]map[string]any, 0, len(groups))
	for _, group := range groups {
		members := format.List(group, "group_members")
		formatted = append(formatted, map[string]any{
			"name":          format.Str(group, "name", "Unnamed Group"),
			"group_type":    format.Str(group, "group_type", "unknown"),
			"group_members": members,
			"member_count":  len(members),
			"description":   format.Str(group, "description", "No description"),
		})
	}

	return &Result{
		Text:       format.FirewallGroupsText(formatted),
		Structured: formatted,
	}
}

func (s *NetworkService) getStaticRoutes(ctx context.Context, params *action.Params) *Result {
	routes, errResult := asList(s.client.GetStaticRoutes(ctx, params.ResolvedSite()))
	if errResult != nil {
		return errResult
	}

	formatted := make([]map[string]any, 0, len(routes))
	for _, route := range routes {
		formatted = append(formatted, map[string]any{
			"name":        format.Str(route, "name", "Unnamed Route"),
			"enabled":     format.Bool(route, "enabled"),
			"destination": format.Str(route, "static-route_network", "unknown"),
			"distance":    route["static-route_distance"],
			"gateway":     format.Str(route, "static-route_nexthop", "unknown"),
			"interface":   format.Str(route, "static-route_interface", "auto"),
			"type":        format.Str(route, "type", "static"),
		})
	}

	return &Result{
		Text:       format.StaticRoutesText(formatted),
		Structured: formatted,
	}
}
