// Package service implements the per-domain action handlers. Each
// service receives validated parameters, calls the controller client,
// reshapes the response, and returns a uniform Result.
package service

import (
	"fmt"

	"github.com/unifi-tools/unifi-mcp/pkg/format"
	"github.com/unifi-tools/unifi-mcp/pkg/unifi"
)

// Result is the uniform outcome of any action: a compact human-readable
// text plus the structured payload.
type Result struct {
	Text       string
	Structured any
	IsError    bool
}

// Errorf builds an error result from a message.
func Errorf(formatStr string, args ...any) *Result {
	msg := fmt.Sprintf(formatStr, args...)
	return &Result{
		Text:       "Error: " + msg,
		Structured: map[string]any{"error": msg},
		IsError:    true,
	}
}

// ErrorWithRaw builds an error result carrying the raw response for
// diagnosis.
func ErrorWithRaw(msg string, raw any) *Result {
	return &Result{
		Text:       "Error: " + msg,
		Structured: map[string]any{"error": msg, "raw": raw},
		IsError:    true,
	}
}

// Success builds a success result.
func Success(text string, structured any) *Result {
	return &Result{Text: text, Structured: structured}
}

// SuccessMessage wraps a structured payload with a success envelope.
func SuccessMessage(text, message string, details any) *Result {
	return &Result{
		Text: text,
		Structured: map[string]any{
			"success": true,
			"message": message,
			"details": details,
		},
	}
}

// validateResponse checks a controller response for the two failure
// shapes: a transport-level {"error": ...} payload and a logical
// failure reported in the envelope meta (rc != "ok").
func validateResponse(resp any) (bool, string) {
	if msg, ok := unifi.ErrorMessage(resp); ok {
		return false, msg
	}
	obj, ok := resp.(map[string]any)
	if !ok {
		return true, ""
	}
	if meta := format.Map(obj, "meta"); meta != nil {
		if rc := format.Str(meta, "rc", ""); rc != "" && rc != "ok" {
			return false, format.Str(meta, "msg", "Controller returned failure")
		}
	}
	return true, ""
}

// asList narrows a controller response to a list, returning an error
// result for error payloads and unexpected shapes. An empty list is a
// valid outcome, not an error.
func asList(resp any) ([]map[string]any, *Result) {
	if ok, msg := validateResponse(resp); !ok {
		return nil, ErrorWithRaw(msg, resp)
	}
	raw, ok := resp.([]any)
	if !ok {
		return nil, ErrorWithRaw(fmt.Sprintf("Unexpected response format: expected list, got %T", resp), resp)
	}
	items := make([]map[string]any, 0, len(raw))
	for _, v := range raw {
		if m := format.AsObject(v); m != nil {
			items = append(items, m)
		}
	}
	return items, nil
}
