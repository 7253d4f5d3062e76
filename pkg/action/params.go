package action

import (
	"github.com/unifi-tools/unifi-mcp/pkg/unifi"
	"github.com/unifi-tools/unifi-mcp/pkg/util"
)

// Params is the unified parameter bag for all actions. Optional fields
// are pointers so an explicit zero value (false, 0, "") survives the
// trip through defaulting: nil means omitted, non-nil means the caller
// said so.
type Params struct {
	Action Action
	Site   string
	MAC    string

	Limit         *int
	ConnectedOnly *bool
	ActiveOnly    *bool
	ByFilter      string

	Name *string
	Note *string

	Minutes       *int
	UpBandwidth   *int
	DownBandwidth *int
	Quota         *int
}

// Validate checks field ranges and the cross-field requirements of the
// chosen action. Fields irrelevant to the action are ignored.
func (p *Params) Validate() error {
	var b util.ValidationBuilder

	if !p.Action.Valid() {
		b.AddErrorf("unknown action %q", p.Action)
		return b.Build()
	}

	if p.Action.RequiresMAC() && p.MAC == "" {
		b.AddErrorf("MAC address is required for action %s", p.Action)
	}
	if p.Action == SetClientName && p.Name == nil {
		b.AddError("name parameter is required for set_client_name")
	}
	if p.Action == SetClientNote && p.Note == nil {
		b.AddError("note parameter is required for set_client_note")
	}

	b.Add(p.Limit == nil || *p.Limit > 0, "limit must be positive")
	b.Add(p.Minutes == nil || *p.Minutes > 0, "minutes must be positive")
	for _, f := range []struct {
		name  string
		value *int
	}{
		{"up_bandwidth", p.UpBandwidth},
		{"down_bandwidth", p.DownBandwidth},
		{"quota", p.Quota},
	} {
		if f.value != nil && *f.value < 0 {
			b.AddErrorf("%s must be non-negative", f.name)
		}
	}
	b.Add(p.ByFilter == "" || p.ByFilter == "by_app" || p.ByFilter == "by_cat",
		`by_filter must be "by_app" or "by_cat"`)

	return b.Build()
}

// NormalizedMAC returns the MAC in canonical lowercase colon form.
func (p *Params) NormalizedMAC() string {
	return unifi.NormalizeMAC(p.MAC)
}

// ResolvedSite returns the effective site for the action: empty for
// actions that ignore the site, otherwise the given site or "default".
func (p *Params) ResolvedSite() string {
	if !p.Action.UsesSite() {
		return ""
	}
	if p.Site == "" {
		return "default"
	}
	return p.Site
}

// defaultLimits holds the per-action result limits applied when the
// caller does not supply one.
var defaultLimits = map[Action]int{
	GetEvents:           100,
	GetRogueAPs:         20,
	GetSpeedtestResults: 20,
	GetIPSEvents:        50,
}

// ResolvedLimit returns the caller's limit or the action's default.
// Zero means the action has no limit semantics.
func (p *Params) ResolvedLimit() int {
	if p.Limit != nil {
		return *p.Limit
	}
	return defaultLimits[p.Action]
}

// ResolvedConnectedOnly applies the get_clients default of true. An
// explicit false is preserved.
func (p *Params) ResolvedConnectedOnly() bool {
	if p.ConnectedOnly != nil {
		return *p.ConnectedOnly
	}
	return p.Action == GetClients
}

// ResolvedActiveOnly applies the get_alarms default of true.
func (p *Params) ResolvedActiveOnly() bool {
	if p.ActiveOnly != nil {
		return *p.ActiveOnly
	}
	return p.Action == GetAlarms
}

// ResolvedByFilter applies the get_dpi_stats default of "by_app".
func (p *Params) ResolvedByFilter() string {
	if p.ByFilter == "" {
		return "by_app"
	}
	return p.ByFilter
}

// ResolvedMinutes applies the authorize_guest default of 480 (8h).
func (p *Params) ResolvedMinutes() int {
	if p.Minutes != nil {
		return *p.Minutes
	}
	return 480
}

// QuotaBytes converts the MB quota to bytes for the wire, nil when no
// quota was given.
func (p *Params) QuotaBytes() *int64 {
	if p.Quota == nil {
		return nil
	}
	b := int64(*p.Quota) * 1024 * 1024
	return &b
}
