// Package format renders raw controller JSON into compact,
// human-readable summaries. All input is the map/slice shape produced
// by encoding/json; missing or oddly-typed fields degrade to zero
// values or "Unknown" instead of failing.
package format

import (
	"fmt"
	"strconv"
	"time"
)

// asFloat coerces the numeric shapes that appear in controller JSON.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		if n == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// FormatBytes converts a byte count to a human-readable size.
func FormatBytes(v any) string {
	val, ok := asFloat(v)
	if !ok || val == 0 {
		return "0 B"
	}

	units := []string{"B", "KB", "MB", "GB", "TB", "PB"}
	i := 0
	for val >= 1024 && i < len(units)-1 {
		val /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d %s", int(val), units[i])
	}
	return fmt.Sprintf("%.1f %s", val, units[i])
}

// FormatUptime renders seconds of uptime as days/hours/minutes.
func FormatUptime(v any) string {
	val, ok := asFloat(v)
	if !ok {
		return "Unknown"
	}
	uptime := int64(val)
	if uptime <= 0 {
		return "Less than 1 minute"
	}

	days := uptime / 86400
	hours := (uptime % 86400) / 3600
	minutes := (uptime % 3600) / 60

	var parts []string
	if days > 0 {
		parts = append(parts, plural(days, "day"))
	}
	if hours > 0 {
		parts = append(parts, plural(hours, "hour"))
	}
	if minutes > 0 {
		parts = append(parts, plural(minutes, "minute"))
	}
	if len(parts) == 0 {
		return "Less than 1 minute"
	}

	out := parts[0]
	for _, p := range parts[1:] {
		out += ", " + p
	}
	return out
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// FormatTimestamp renders a Unix timestamp (seconds or milliseconds)
// as a local datetime string.
func FormatTimestamp(v any) string {
	val, ok := asFloat(v)
	if !ok || val == 0 {
		return "Unknown"
	}
	if val > 1e10 { // milliseconds
		val /= 1000
	}
	return time.Unix(int64(val), 0).Format("2006-01-02 15:04:05")
}

// FormatSignalStrength renders an RSSI value with a quality label.
func FormatSignalStrength(v any) string {
	val, ok := asFloat(v)
	if !ok {
		return "Unknown"
	}
	signal := int(val)

	var quality string
	switch {
	case signal >= -50:
		quality = "Excellent"
	case signal >= -60:
		quality = "Good"
	case signal >= -70:
		quality = "Fair"
	default:
		quality = "Poor"
	}
	return fmt.Sprintf("%d dBm (%s)", signal, quality)
}
