package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/unifi-tools/unifi-mcp/pkg/action"
	"github.com/unifi-tools/unifi-mcp/pkg/util"
)

func (s *Server) registerTools() {
	s.mcp.AddTool(unifiTool(), s.handleUnifiTool)
}

func unifiTool() mcp.Tool {
	return mcp.NewTool("unifi",
		mcp.WithDescription("Run one action against the UniFi network controller. "+
			"Actions cover device inventory and control, client management, "+
			"network configuration reads, monitoring and guest authorization."),
		mcp.WithString("action",
			mcp.Required(),
			mcp.Description("The action to run"),
			mcp.Enum(actionNames()...),
		),
		mcp.WithString("site_name",
			mcp.Description("Site name (defaults to 'default'; ignored by controller-level actions)"),
		),
		mcp.WithString("mac",
			mcp.Description("Device or client MAC address; any common separator is accepted"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum entries to return for list actions"),
		),
		mcp.WithBoolean("connected_only",
			mcp.Description("get_clients: only currently connected clients (default true)"),
		),
		mcp.WithBoolean("active_only",
			mcp.Description("get_alarms: only unarchived alarms (default true)"),
		),
		mcp.WithString("by_filter",
			mcp.Description("get_dpi_stats: grouping, by_app or by_cat (default by_app)"),
			mcp.Enum("by_app", "by_cat"),
		),
		mcp.WithString("name",
			mcp.Description("set_client_name: new name; empty string removes the name"),
		),
		mcp.WithString("note",
			mcp.Description("set_client_note: new note; empty string removes the note"),
		),
		mcp.WithNumber("minutes",
			mcp.Description("authorize_guest: authorization duration in minutes (default 480)"),
		),
		mcp.WithNumber("up_bandwidth",
			mcp.Description("authorize_guest: upload limit in Kbps"),
		),
		mcp.WithNumber("down_bandwidth",
			mcp.Description("authorize_guest: download limit in Kbps"),
		),
		mcp.WithNumber("quota",
			mcp.Description("authorize_guest: data quota in megabytes"),
		),
	)
}

func actionNames() []string {
	all := action.All()
	names := make([]string, len(all))
	for i, a := range all {
		names[i] = a.String()
	}
	return names
}

func (s *Server) handleUnifiTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	name, _ := args["action"].(string)
	act := action.Action(name)
	// Reject unknown actions before touching the controller.
	if !act.Valid() {
		return mcp.NewToolResultError(fmt.Sprintf(
			"Unknown action %q. Valid actions: %s", name, strings.Join(actionNames(), ", "))), nil
	}

	params := paramsFromArgs(act, args)

	util.WithAction(name).Debug("executing action")
	result := s.coordinator.Execute(ctx, params)
	if result.IsError {
		return mcp.NewToolResultError(result.Text), nil
	}
	return mcp.NewToolResultText(renderResult(result.Text, result.Structured)), nil
}

// paramsFromArgs maps the wire arguments onto action parameters. The
// site argument travels as "site_name".
func paramsFromArgs(act action.Action, args map[string]any) *action.Params {
	return &action.Params{
		Action:        act,
		Site:          argString(args, "site_name"),
		MAC:           argString(args, "mac"),
		Limit:         argInt(args, "limit"),
		ConnectedOnly: argBool(args, "connected_only"),
		ActiveOnly:    argBool(args, "active_only"),
		ByFilter:      argString(args, "by_filter"),
		Name:          argStringPtr(args, "name"),
		Note:          argStringPtr(args, "note"),
		Minutes:       argInt(args, "minutes"),
		UpBandwidth:   argInt(args, "up_bandwidth"),
		DownBandwidth: argInt(args, "down_bandwidth"),
		Quota:         argInt(args, "quota"),
	}
}

// renderResult appends the structured payload as JSON so callers get
// both the compact text and the full data in one content block.
func renderResult(text string, structured any) string {
	if structured == nil {
		return text
	}
	data, err := json.MarshalIndent(structured, "", "  ")
	if err != nil {
		return text
	}
	return text + "\n\n" + string(data)
}

func argString(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

// argStringPtr distinguishes an absent argument from an explicit empty
// string; the empty string clears a client name or note.
func argStringPtr(args map[string]any, key string) *string {
	if v, ok := args[key].(string); ok {
		return &v
	}
	return nil
}

func argInt(args map[string]any, key string) *int {
	if v, ok := args[key].(float64); ok {
		n := int(v)
		return &n
	}
	return nil
}

func argBool(args map[string]any, key string) *bool {
	if v, ok := args[key].(bool); ok {
		return &v
	}
	return nil
}
