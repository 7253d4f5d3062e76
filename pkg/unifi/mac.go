package unifi

import "strings"

// NormalizeMAC converts a MAC address in any common separator style to
// lowercase colon-separated form. Applied to user input before dispatch
// and to controller data before comparison, so lookups succeed
// regardless of input style. Idempotent.
func NormalizeMAC(mac string) string {
	m := strings.ToLower(strings.TrimSpace(mac))
	m = strings.ReplaceAll(m, "-", ":")
	return strings.ReplaceAll(m, ".", ":")
}
