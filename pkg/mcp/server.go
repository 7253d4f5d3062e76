// Package mcp exposes the UniFi action surface over the Model Context
// Protocol: one tool covering the full action enum plus read-only
// resources for the common inventory views.
package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	"github.com/unifi-tools/unifi-mcp/pkg/action"
	"github.com/unifi-tools/unifi-mcp/pkg/config"
	"github.com/unifi-tools/unifi-mcp/pkg/service"
	"github.com/unifi-tools/unifi-mcp/pkg/unifi"
	"github.com/unifi-tools/unifi-mcp/pkg/util"
	"github.com/unifi-tools/unifi-mcp/pkg/version"
)

// Server ties the controller client, the action coordinator and the
// MCP protocol server together.
type Server struct {
	cfg         *config.Config
	client      *unifi.Client
	coordinator *service.Coordinator
	mcp         *server.MCPServer
}

// NewServer builds a fully wired server from configuration. The
// controller is not contacted until Connect.
func NewServer(cfg *config.Config) *Server {
	client := unifi.NewClient(cfg.Controller)

	s := &Server{
		cfg:         cfg,
		client:      client,
		coordinator: service.NewCoordinator(client),
		mcp: server.NewMCPServer(
			"UniFi Network MCP",
			version.Version,
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
			server.WithRecovery(),
			server.WithInstructions("Bridge to a UniFi network controller. "+
				"The unifi tool runs one of a closed set of actions against the controller: "+
				"device inventory and control, client management, network configuration reads, "+
				"monitoring, statistics and guest authorization. "+
				"Read-only resources expose the device, client and site inventories and a site overview."),
		),
	}

	s.registerTools()
	s.registerResources()
	return s
}

// Connect establishes the controller session; Connect on the client
// already runs the login exchange and fails on bad credentials.
func (s *Server) Connect(ctx context.Context) error {
	if err := s.client.Connect(ctx); err != nil {
		return fmt.Errorf("connecting to controller: %w", err)
	}
	util.Infof("authenticated to controller %s", s.cfg.Controller.URL)
	return nil
}

// Serve runs the configured transport until the client disconnects or
// the listener fails.
func (s *Server) Serve() error {
	switch s.cfg.Server.Transport {
	case "stdio":
		util.Debug("serving MCP over stdio")
		return server.ServeStdio(s.mcp)
	case "http":
		addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
		util.Infof("serving MCP over HTTP on %s", addr)
		return server.NewStreamableHTTPServer(s.mcp).Start(addr)
	}
	return fmt.Errorf("unknown transport %q", s.cfg.Server.Transport)
}

// Close tears down the controller session.
func (s *Server) Close() {
	s.client.Disconnect()
}

// Status probes the controller through the full action pipeline.
func (s *Server) Status(ctx context.Context) *service.Result {
	return s.coordinator.Execute(ctx, &action.Params{Action: action.GetControllerStatus})
}
