// Package action defines the closed set of controller actions exposed
// through the unified tool, the membership sets that drive routing and
// validation, and the unified parameter model.
package action

import "sort"

// Action names one operation of the unified tool.
type Action string

// Device management actions.
const (
	GetDevices     Action = "get_devices"
	GetDeviceByMAC Action = "get_device_by_mac"
	RestartDevice  Action = "restart_device"
	LocateDevice   Action = "locate_device"
)

// Client management actions.
const (
	GetClients      Action = "get_clients"
	ReconnectClient Action = "reconnect_client"
	BlockClient     Action = "block_client"
	UnblockClient   Action = "unblock_client"
	ForgetClient    Action = "forget_client"
	SetClientName   Action = "set_client_name"
	SetClientNote   Action = "set_client_note"
)

// Network configuration actions.
const (
	GetSites               Action = "get_sites"
	GetWLANConfigs         Action = "get_wlan_configs"
	GetNetworkConfigs      Action = "get_network_configs"
	GetPortConfigs         Action = "get_port_configs"
	GetPortForwardingRules Action = "get_port_forwarding_rules"
	GetFirewallRules       Action = "get_firewall_rules"
	GetFirewallGroups      Action = "get_firewall_groups"
	GetStaticRoutes        Action = "get_static_routes"
)

// Monitoring and statistics actions.
const (
	GetControllerStatus  Action = "get_controller_status"
	GetEvents            Action = "get_events"
	GetAlarms            Action = "get_alarms"
	GetDPIStats          Action = "get_dpi_stats"
	GetRogueAPs          Action = "get_rogue_aps"
	StartSpectrumScan    Action = "start_spectrum_scan"
	GetSpectrumScanState Action = "get_spectrum_scan_state"
	AuthorizeGuest       Action = "authorize_guest"
	GetSpeedtestResults  Action = "get_speedtest_results"
	GetIPSEvents         Action = "get_ips_events"
)

// Authentication action.
const (
	GetUserInfo Action = "get_user_info"
)

// Domain identifies which service handles an action.
type Domain string

const (
	DomainDevice     Domain = "device"
	DomainClient     Domain = "client"
	DomainNetwork    Domain = "network"
	DomainMonitoring Domain = "monitoring"
	DomainAuth       Domain = "auth"
)

var domains = map[Action]Domain{
	GetDevices:     DomainDevice,
	GetDeviceByMAC: DomainDevice,
	RestartDevice:  DomainDevice,
	LocateDevice:   DomainDevice,

	GetClients:      DomainClient,
	ReconnectClient: DomainClient,
	BlockClient:     DomainClient,
	UnblockClient:   DomainClient,
	ForgetClient:    DomainClient,
	SetClientName:   DomainClient,
	SetClientNote:   DomainClient,

	GetSites:               DomainNetwork,
	GetWLANConfigs:         DomainNetwork,
	GetNetworkConfigs:      DomainNetwork,
	GetPortConfigs:         DomainNetwork,
	GetPortForwardingRules: DomainNetwork,
	GetFirewallRules:       DomainNetwork,
	GetFirewallGroups:      DomainNetwork,
	GetStaticRoutes:        DomainNetwork,

	GetControllerStatus:  DomainMonitoring,
	GetEvents:            DomainMonitoring,
	GetAlarms:            DomainMonitoring,
	GetDPIStats:          DomainMonitoring,
	GetRogueAPs:          DomainMonitoring,
	StartSpectrumScan:    DomainMonitoring,
	GetSpectrumScanState: DomainMonitoring,
	AuthorizeGuest:       DomainMonitoring,
	GetSpeedtestResults:  DomainMonitoring,
	GetIPSEvents:         DomainMonitoring,

	GetUserInfo: DomainAuth,
}

// macRequired lists the actions that target a specific device or
// client and therefore cannot run without a MAC address.
var macRequired = map[Action]bool{
	GetDeviceByMAC:       true,
	RestartDevice:        true,
	LocateDevice:         true,
	ReconnectClient:      true,
	BlockClient:          true,
	UnblockClient:        true,
	ForgetClient:         true,
	SetClientName:        true,
	SetClientNote:        true,
	StartSpectrumScan:    true,
	GetSpectrumScanState: true,
	AuthorizeGuest:       true,
}

// noSite lists the actions that operate on the controller itself and
// ignore the site parameter entirely.
var noSite = map[Action]bool{
	GetSites:            true,
	GetControllerStatus: true,
	GetUserInfo:         true,
}

// writes lists the actions that change controller state.
var writes = map[Action]bool{
	RestartDevice:     true,
	LocateDevice:      true,
	ReconnectClient:   true,
	BlockClient:       true,
	UnblockClient:     true,
	ForgetClient:      true,
	SetClientName:     true,
	SetClientNote:     true,
	StartSpectrumScan: true,
	AuthorizeGuest:    true,
}

// Valid reports whether a is a member of the closed action set.
func (a Action) Valid() bool {
	_, ok := domains[a]
	return ok
}

// Domain returns the service domain responsible for a. The second
// return is false for unknown actions.
func (a Action) Domain() (Domain, bool) {
	d, ok := domains[a]
	return d, ok
}

// RequiresMAC reports whether a cannot run without a MAC address.
func (a Action) RequiresMAC() bool {
	return macRequired[a]
}

// UsesSite reports whether a is scoped to a site.
func (a Action) UsesSite() bool {
	return !noSite[a]
}

// IsWrite reports whether a changes controller state.
func (a Action) IsWrite() bool {
	return writes[a]
}

func (a Action) String() string {
	return string(a)
}

// All returns every known action in sorted order.
func All() []Action {
	out := make([]Action, 0, len(domains))
	for a := range domains {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
