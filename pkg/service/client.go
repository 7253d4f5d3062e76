package service

import (
	"context"
	"fmt"

	"github.com/unifi-tools/unifi-mcp/pkg/action"
	"github.com/unifi-tools/unifi-mcp/pkg/format"
	"github.com/unifi-tools/unifi-mcp/pkg/unifi"
	"github.com/unifi-tools/unifi-mcp/pkg/util"
)

// ClientService handles client listing, control and metadata updates.
type ClientService struct {
	client Controller
}

// NewClientService creates the client service.
func NewClientService(client Controller) *ClientService {
	return &ClientService{client: client}
}

// Execute routes a client action to its handler.
func (s *ClientService) Execute(ctx context.Context, params *action.Params) *Result {
	switch params.Action {
	case action.GetClients:
		return s.getClients(ctx, params)
	case action.ReconnectClient:
		return s.reconnectClient(ctx, params)
	case action.BlockClient:
		return s.blockClient(ctx, params)
	case action.UnblockClient:
		return s.unblockClient(ctx, params)
	case action.ForgetClient:
		return s.forgetClient(ctx, params)
	case action.SetClientName:
		return s.setClientName(ctx, params)
	case action.SetClientNote:
		return s.setClientNote(ctx, params)
	}
	return Errorf("Client action %s not supported", params.Action)
}

func (s *ClientService) getClients(ctx context.Context, params *action.Params) *Result {
	site := params.ResolvedSite()
	connectedOnly := params.ResolvedConnectedOnly()

	clients, errResult := asList(s.client.GetClients(ctx, site))
	if errResult != nil {
		return errResult
	}

	formatted := make([]map[string]any, 0, len(clients))
	for _, clientData := range clients {
		// A record without is_online is treated as online: /stat/sta
		// only returns active sessions on most firmware.
		if connectedOnly {
			if online, present := clientData["is_online"].(bool); present && !online {
				continue
			}
		}
		formatted = append(formatted, summarizeClient(clientData))
	}

	return &Result{
		Text:       format.ClientsText(formatted),
		Structured: formatted,
	}
}

func summarizeClient(clientData map[string]any) (summary map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			util.Errorf("error formatting client %s: %v", format.Str(clientData, "name", "Unknown"), r)
			summary = map[string]any{
				"name":  format.Str(clientData, "name", "Unknown"),
				"mac":   format.Str(clientData, "mac", ""),
				"error": fmt.Sprintf("Formatting error: %v", r),
			}
		}
	}()
	return format.ClientSummary(clientData)
}

func (s *ClientService) reconnectClient(ctx context.Context, params *action.Params) *Result {
	mac := params.NormalizedMAC()
	resp := s.client.ReconnectClient(ctx, mac, params.ResolvedSite())
	if ok, msg := validateResponse(resp); !ok {
		return ErrorWithRaw(msg, resp)
	}
	return SuccessMessage(
		fmt.Sprintf("Reconnect requested: %s", mac),
		fmt.Sprintf("Client %s reconnect command sent", mac),
		resp)
}

func (s *ClientService) blockClient(ctx context.Context, params *action.Params) *Result {
	mac := params.NormalizedMAC()
	resp := s.client.BlockClient(ctx, mac, params.ResolvedSite())
	if ok, msg := validateResponse(resp); !ok {
		return ErrorWithRaw(msg, resp)
	}
	return SuccessMessage(
		fmt.Sprintf("Blocked client: %s", mac),
		fmt.Sprintf("Client %s has been blocked from network access", mac),
		resp)
}

func (s *ClientService) unblockClient(ctx context.Context, params *action.Params) *Result {
	mac := params.NormalizedMAC()
	resp := s.client.UnblockClient(ctx, mac, params.ResolvedSite())
	if ok, msg := validateResponse(resp); !ok {
		return ErrorWithRaw(msg, resp)
	}
	return SuccessMessage(
		fmt.Sprintf("Unblocked client: %s", mac),
		fmt.Sprintf("Client %s has been unblocked and can access the network", mac),
		resp)
}

func (s *ClientService) forgetClient(ctx context.Context, params *action.Params) *Result {
	mac := params.NormalizedMAC()
	resp := s.client.ForgetClient(ctx, mac, params.ResolvedSite())
	if ok, msg := validateResponse(resp); !ok {
		return ErrorWithRaw(msg, resp)
	}
	return SuccessMessage(
		fmt.Sprintf("Forgot client data: %s", mac),
		fmt.Sprintf("Client %s historical data has been removed", mac),
		resp)
}

// resolveUserID maps a MAC to the controller's internal user id by
// listing all known users, not just active sessions, so offline
// clients stay addressable.
func (s *ClientService) resolveUserID(ctx context.Context, site, mac string) (string, *Result) {
	resp := s.client.ListUsers(ctx, site)
	users, errResult := asList(resp)
	if errResult != nil {
		return "", errResult
	}

	for _, user := range users {
		if unifi.NormalizeMAC(format.Str(user, "mac", "")) != mac {
			continue
		}
		if id := format.Str(user, "_id", ""); id != "" {
			return id, nil
		}
		if id := format.Str(user, "user_id", ""); id != "" {
			return id, nil
		}
	}
	return "", Errorf("Client with MAC %s not found", mac)
}

func (s *ClientService) setClientName(ctx context.Context, params *action.Params) *Result {
	site := params.ResolvedSite()
	mac := params.NormalizedMAC()

	userID, errResult := s.resolveUserID(ctx, site, mac)
	if errResult != nil {
		return errResult
	}

	name := ""
	if params.Name != nil {
		name = *params.Name
	}

	resp := s.client.UpdateUser(ctx, site, userID, map[string]any{"name": name})
	if ok, msg := validateResponse(resp); !ok {
		return ErrorWithRaw(msg, resp)
	}

	verb := "updated"
	text := fmt.Sprintf("Name updated: %s -> %q", mac, name)
	if name == "" {
		verb = "removed"
		text = fmt.Sprintf("Name removed: %s", mac)
	}
	return Success(text, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Client %s name %s successfully", mac, verb),
		"mac":     mac,
		"name":    name,
		"details": resp,
	})
}

func (s *ClientService) setClientNote(ctx context.Context, params *action.Params) *Result {
	site := params.ResolvedSite()
	mac := params.NormalizedMAC()

	userID, errResult := s.resolveUserID(ctx, site, mac)
	if errResult != nil {
		return errResult
	}

	note := ""
	if params.Note != nil {
		note = *params.Note
	}

	resp := s.client.UpdateUser(ctx, site, userID, map[string]any{"note": note})
	if ok, msg := validateResponse(resp); !ok {
		return ErrorWithRaw(msg, resp)
	}

	verb := "updated"
	text := fmt.Sprintf("Note updated: %s -> %q", mac, note)
	if note == "" {
		verb = "removed"
		text = fmt.Sprintf("Note removed: %s", mac)
	}
	return Success(text, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Client %s note %s successfully", mac, verb),
		"mac":     mac,
		"note":    note,
		"details": resp,
	})
}
