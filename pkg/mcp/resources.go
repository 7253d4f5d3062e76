package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/unifi-tools/unifi-mcp/pkg/action"
	"github.com/unifi-tools/unifi-mcp/pkg/service"
)

func (s *Server) registerResources() {
	s.mcp.AddResource(mcp.NewResource(
		"unifi://devices", "UniFi Devices",
		mcp.WithResourceDescription("All UniFi devices on the default site"),
		mcp.WithMIMEType("application/json"),
	), s.resourceForAction(action.GetDevices))

	s.mcp.AddResource(mcp.NewResource(
		"unifi://clients", "UniFi Clients",
		mcp.WithResourceDescription("Currently connected clients on the default site"),
		mcp.WithMIMEType("application/json"),
	), s.resourceForAction(action.GetClients))

	s.mcp.AddResource(mcp.NewResource(
		"unifi://sites", "UniFi Sites",
		mcp.WithResourceDescription("All sites on the controller"),
		mcp.WithMIMEType("application/json"),
	), s.resourceForAction(action.GetSites))

	s.mcp.AddResource(mcp.NewResource(
		"unifi://overview", "Site Overview",
		mcp.WithResourceDescription("Dashboard summary of the default site: devices, clients, WAN health, newest speed test and recent intrusion activity"),
		mcp.WithMIMEType("application/json"),
	), s.handleOverviewResource)
}

func (s *Server) resourceForAction(act action.Action) func(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		result := s.coordinator.Execute(ctx, &action.Params{Action: act, Site: s.cfg.Controller.Site})
		return resourceContents(request.Params.URI, result)
	}
}

func (s *Server) handleOverviewResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	result := s.coordinator.Overview(ctx, s.cfg.Controller.Site)
	return resourceContents(request.Params.URI, result)
}

func resourceContents(uri string, result *service.Result) ([]mcp.ResourceContents, error) {
	if result.IsError {
		return nil, fmt.Errorf("%s", result.Text)
	}
	data, err := json.MarshalIndent(result.Structured, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding resource: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
