package service

import (
	"context"
	"fmt"
	"time"

	"github.com/unifi-tools/unifi-mcp/pkg/action"
	"github.com/unifi-tools/unifi-mcp/pkg/audit"
	"github.com/unifi-tools/unifi-mcp/pkg/format"
	"github.com/unifi-tools/unifi-mcp/pkg/util"
)

// Coordinator validates parameters, dispatches actions to the domain
// services and records an audit trail for state-changing actions.
type Coordinator struct {
	device     *DeviceService
	clients    *ClientService
	network    *NetworkService
	monitoring *MonitoringService
	controller Controller
}

// NewCoordinator wires the domain services around a controller client.
func NewCoordinator(client Controller) *Coordinator {
	return &Coordinator{
		device:     NewDeviceService(client),
		clients:    NewClientService(client),
		network:    NewNetworkService(client),
		monitoring: NewMonitoringService(client),
		controller: client,
	}
}

// Execute runs one action end to end. Validation failures and handler
// errors both come back as error Results, never as Go errors, so the
// protocol layer has a single path. A handler panic becomes a generic
// error result rather than taking down the serving process.
func (c *Coordinator) Execute(ctx context.Context, params *action.Params) (result *Result) {
	defer func() {
		if r := recover(); r != nil {
			util.WithAction(params.Action.String()).Errorf("handler panic: %v", r)
			result = Errorf("Internal error executing %s: %v", params.Action, r)
		}
	}()

	if err := params.Validate(); err != nil {
		return Errorf("%v", err)
	}

	domain, ok := params.Action.Domain()
	if !ok {
		return Errorf("Unknown action: %s", params.Action)
	}

	start := time.Now()
	switch domain {
	case action.DomainDevice:
		result = c.device.Execute(ctx, params)
	case action.DomainClient:
		result = c.clients.Execute(ctx, params)
	case action.DomainNetwork:
		result = c.network.Execute(ctx, params)
	case action.DomainMonitoring:
		result = c.monitoring.Execute(ctx, params)
	case action.DomainAuth:
		result = c.getUserInfo(ctx)
	default:
		result = Errorf("Unknown action: %s", params.Action)
	}

	if params.Action.IsWrite() {
		c.recordAudit(params, result, time.Since(start))
	}
	return result
}

func (c *Coordinator) recordAudit(params *action.Params, result *Result, elapsed time.Duration) {
	event := audit.NewEvent(params.Action.String(), params.ResolvedSite(), params.NormalizedMAC())
	if result.IsError {
		event.WithError(result.Text)
	} else {
		event.WithSuccess(result.Text)
	}
	event.WithDuration(elapsed)
	if err := audit.Log(event); err != nil {
		util.Warnf("audit log write failed: %v", err)
	}
}

func (c *Coordinator) getUserInfo(ctx context.Context) *Result {
	resp := c.controller.GetSelf(ctx)
	if ok, msg := validateResponse(resp); !ok {
		return ErrorWithRaw(msg, resp)
	}

	// /self may come back enveloped as a single-element list.
	self := format.AsObject(resp)
	if self == nil {
		if items, errResult := asList(resp); errResult == nil && len(items) > 0 {
			self = items[0]
		}
	}
	if self == nil {
		return ErrorWithRaw("Unexpected response shape from controller", resp)
	}

	info := map[string]any{
		"username":    format.Str(self, "name", format.Str(self, "username", "Unknown")),
		"email":       format.Str(self, "email", "Unknown"),
		"last_site":   format.Str(self, "last_site_name", "default"),
		"super_admin": format.Bool(self, "is_super"),
		"details":     self,
	}

	return Success(
		fmt.Sprintf("User Info\n  %s <%s> | super_admin=%v",
			info["username"], info["email"], info["super_admin"]),
		info)
}
