package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/unifi-tools/unifi-mcp/pkg/action"
	"github.com/unifi-tools/unifi-mcp/pkg/format"
)

// rogueAPCap bounds rogue AP listings regardless of the requested
// limit to keep responses manageable.
const rogueAPCap = 50

// MonitoringService handles controller status, events, statistics and
// security monitoring.
type MonitoringService struct {
	client Controller
}

// NewMonitoringService creates the monitoring service.
func NewMonitoringService(client Controller) *MonitoringService {
	return &MonitoringService{client: client}
}

// Execute routes a monitoring action to its handler.
func (s *MonitoringService) Execute(ctx context.Context, params *action.Params) *Result {
	switch params.Action {
	case action.GetControllerStatus:
		return s.getControllerStatus(ctx)
	case action.GetEvents:
		return s.getEvents(ctx, params)
	case action.GetAlarms:
		return s.getAlarms(ctx, params)
	case action.GetDPIStats:
		return s.getDPIStats(ctx, params)
	case action.GetRogueAPs:
		return s.getRogueAPs(ctx, params)
	case action.StartSpectrumScan:
		return s.startSpectrumScan(ctx, params)
	case action.GetSpectrumScanState:
		return s.getSpectrumScanState(ctx, params)
	case action.AuthorizeGuest:
		return s.authorizeGuest(ctx, params)
	case action.GetSpeedtestResults:
		return s.getSpeedtestResults(ctx, params)
	case action.GetIPSEvents:
		return s.getIPSEvents(ctx, params)
	}
	return Errorf("Monitoring action %s not supported", params.Action)
}

func (s *MonitoringService) getControllerStatus(ctx context.Context) *Result {
	resp := s.client.GetControllerStatus(ctx)
	if ok, msg := validateResponse(resp); !ok {
		return ErrorWithRaw(msg, resp)
	}

	obj := format.AsObject(resp)
	version := format.Str(obj, "server_version", "Unknown")
	up := format.Bool(obj, "up")

	upMark := "no"
	if up {
		upMark = "yes"
	}
	return Success(
		fmt.Sprintf("Controller Status\n  Version: %s | Up: %s", version, upMark),
		map[string]any{
			"status":         "online",
			"server_version": version,
			"up":             up,
			"details":        resp,
		})
}

func (s *MonitoringService) getEvents(ctx context.Context, params *action.Params) *Result {
	site := params.ResolvedSite()
	limit := params.ResolvedLimit()

	events, errResult := asList(s.client.GetEvents(ctx, site, limit))
	if errResult != nil {
		return errResult
	}

	sortByTimeDesc(events)
	if len(events) > limit {
		events = events[:limit]
	}

	formatted := make([]map[string]any, 0, len(events))
	for _, event := range events {
		formatted = append(formatted, map[string]any{
			"timestamp": format.FormatTimestamp(event["time"]),
			"type":      format.Str(event, "key", "Unknown"),
			"message":   format.Str(event, "msg", "No message"),
			"device":    eventDevice(event),
			"user":      format.Str(event, "user", "System"),
			"subsystem": format.Str(event, "subsystem", "Unknown"),
		})
	}

	return &Result{
		Text:       format.EventsText(formatted),
		Structured: formatted,
	}
}

// eventDevice picks whichever device reference the event carries.
func eventDevice(event map[string]any) string {
	for _, key := range []string{"ap", "gw", "sw"} {
		if v := format.Str(event, key, ""); v != "" {
			return v
		}
	}
	return "Unknown"
}

func (s *MonitoringService) getAlarms(ctx context.Context, params *action.Params) *Result {
	site := params.ResolvedSite()
	activeOnly := params.ResolvedActiveOnly()

	alarms, errResult := asList(s.client.GetAlarms(ctx, site))
	if errResult != nil {
		return errResult
	}

	formatted := make([]map[string]any, 0, len(alarms))
	for _, alarm := range alarms {
		if activeOnly && format.Bool(alarm, "archived") {
			continue
		}
		formatted = append(formatted, map[string]any{
			"timestamp": format.FormatTimestamp(alarm["time"]),
			"type":      format.Str(alarm, "key", "Unknown"),
			"message":   format.Str(alarm, "msg", "No message"),
			"severity":  format.Str(alarm, "catname", "Unknown"),
			"device":    eventDevice(alarm),
			"archived":  format.Bool(alarm, "archived"),
			"handled":   format.Bool(alarm, "handled"),
			"site_id":   format.Str(alarm, "site_id", "Unknown"),
		})
	}

	return &Result{
		Text:       format.AlarmsText(formatted),
		Structured: formatted,
	}
}

func (s *MonitoringService) getDPIStats(ctx context.Context, params *action.Params) *Result {
	site := params.ResolvedSite()
	byFilter := params.ResolvedByFilter()

	stats, errResult := asList(s.client.GetDPIStats(ctx, site))
	if errResult != nil {
		return errResult
	}

	nameKey := "app"
	if byFilter == "by_cat" {
		nameKey = "cat"
	}

	formatted := make([]map[string]any, 0, len(stats))
	for _, stat := range stats {
		tx := format.Num(stat, "tx_bytes")
		rx := format.Num(stat, "rx_bytes")
		entry := map[string]any{
			"tx_bytes":     format.FormatBytes(tx),
			"tx_bytes_raw": tx,
			"rx_bytes":     format.FormatBytes(rx),
			"rx_bytes_raw": rx,
			"summary": map[string]any{
				"application":     dpiName(stat, nameKey),
				"tx":              format.FormatBytes(tx),
				"rx":              format.FormatBytes(rx),
				"total_bytes_raw": tx + rx,
				"last_seen":       format.FormatTimestamp(stat["time"]),
			},
		}
		formatted = append(formatted, entry)
	}

	return &Result{
		Text:       format.DPIStatsText(formatted),
		Structured: formatted,
	}
}

func dpiName(stat map[string]any, nameKey string) any {
	if v, ok := stat[nameKey]; ok {
		return v
	}
	if v, ok := stat["app"]; ok {
		return v
	}
	if v, ok := stat["cat"]; ok {
		return v
	}
	return "Unknown"
}

func (s *MonitoringService) getRogueAPs(ctx context.Context, params *action.Params) *Result {
	site := params.ResolvedSite()
	limit := params.ResolvedLimit()
	if limit > rogueAPCap {
		limit = rogueAPCap
	}

	rogues, errResult := asList(s.client.GetRogueAPs(ctx, site))
	if errResult != nil {
		return errResult
	}

	// Strongest signal first, then cap.
	sort.SliceStable(rogues, func(i, j int) bool {
		return rogueRSSI(rogues[i]) > rogueRSSI(rogues[j])
	})
	total := len(rogues)
	if len(rogues) > limit {
		rogues = rogues[:limit]
	}

	formatted := make([]map[string]any, 0, len(rogues)+1)
	if total > limit {
		formatted = append(formatted, map[string]any{
			"summary": fmt.Sprintf("Showing top %d of %d detected rogue APs (sorted by signal strength)", limit, total),
		})
	}
	for _, rogue := range rogues {
		rssi, hasRSSI := rogue["rssi"]
		signal := "Unknown"
		threat := "Unknown"
		if hasRSSI {
			if v, ok := rssi.(float64); ok {
				signal = fmt.Sprintf("%.0f dBm", v)
				switch {
				case v > -60:
					threat = "High"
				case v > -80:
					threat = "Medium"
				default:
					threat = "Low"
				}
			}
		}
		formatted = append(formatted, map[string]any{
			"ssid":            format.Str(rogue, "essid", "Hidden"),
			"bssid":           format.Str(rogue, "bssid", "Unknown"),
			"channel":         rogue["channel"],
			"frequency":       rogue["freq"],
			"signal_strength": signal,
			"security":        format.Str(rogue, "security", "Unknown"),
			"threat_level":    threat,
			"first_seen":      format.FormatTimestamp(rogue["first_seen"]),
			"last_seen":       format.FormatTimestamp(rogue["last_seen"]),
			"detected_by":     format.Str(rogue, "ap_mac", "Unknown"),
		})
	}

	// The cap notice (when present) leads the text.
	textItems := formatted
	var header string
	if total > limit {
		header = format.Str(formatted[0], "summary", "") + "\n"
		textItems = formatted[1:]
	}
	return &Result{
		Text:       header + format.RogueAPsText(textItems),
		Structured: formatted,
	}
}

func rogueRSSI(rogue map[string]any) float64 {
	if v, ok := rogue["rssi"].(float64); ok {
		return v
	}
	return -100
}

func (s *MonitoringService) startSpectrumScan(ctx context.Context, params *action.Params) *Result {
	mac := params.NormalizedMAC()
	resp := s.client.StartSpectrumScan(ctx, mac, params.ResolvedSite())
	if ok, msg := validateResponse(resp); !ok {
		return ErrorWithRaw(msg, resp)
	}
	return SuccessMessage(
		fmt.Sprintf("Spectrum scan started: %s", mac),
		fmt.Sprintf("Spectrum scan started on AP %s", mac),
		resp)
}

func (s *MonitoringService) getSpectrumScanState(ctx context.Context, params *action.Params) *Result {
	mac := params.NormalizedMAC()
	resp := s.client.GetSpectrumScanState(ctx, mac, params.ResolvedSite())
	if ok, msg := validateResponse(resp); !ok {
		return ErrorWithRaw(msg, resp)
	}

	hasData := "no"
	if resp != nil {
		hasData = "yes"
	}
	return Success(
		fmt.Sprintf("Spectrum Scan State\n  MAC: %s | Data: %s", mac, hasData),
		map[string]any{"mac": mac, "scan_data": resp})
}

func (s *MonitoringService) authorizeGuest(ctx context.Context, params *action.Params) *Result {
	mac := params.NormalizedMAC()
	minutes := params.ResolvedMinutes()

	resp := s.client.AuthorizeGuest(ctx, mac, params.ResolvedSite(), minutes,
		params.UpBandwidth, params.DownBandwidth, params.QuotaBytes())
	if ok, msg := validateResponse(resp); !ok {
		return ErrorWithRaw(msg, resp)
	}

	return SuccessMessage(
		fmt.Sprintf("Guest authorized: %s | %d min", mac, minutes),
		fmt.Sprintf("Guest %s authorized for %d minutes", mac, minutes),
		resp)
}

func (s *MonitoringService) getSpeedtestResults(ctx context.Context, params *action.Params) *Result {
	site := params.ResolvedSite()
	limit := params.ResolvedLimit()

	end := time.Now().UnixMilli()
	start := end - 30*24*time.Hour.Milliseconds()

	results, errResult := asList(s.client.GetSpeedtestResults(ctx, site, start, end))
	if errResult != nil {
		return errResult
	}

	// Most recent results, regardless of archive ordering.
	sortByTimeDesc(results)
	if len(results) > limit {
		results = results[:limit]
	}

	formatted := make([]map[string]any, 0, len(results))
	for _, result := range results {
		download := format.NumAny(result, "xput_download", "download", "download_speed", "down")
		upload := format.NumAny(result, "xput_upload", "upload", "upload_speed", "up")
		formatted = append(formatted, map[string]any{
			"timestamp":     format.FormatTimestamp(result["time"]),
			"download_mbps": math.Round(download*100) / 100,
			"upload_mbps":   math.Round(upload*100) / 100,
			"latency_ms":    format.NumAny(result, "latency", "rtt"),
			"ping_ms":       format.Num(result, "ping"),
			"jitter_ms":     format.Num(result, "jitter"),
			"server":        format.Str(result, "server", format.Str(result, "test_server", "Unknown")),
		})
	}

	return &Result{
		Text:       format.SpeedtestsText(formatted),
		Structured: formatted,
	}
}

func (s *MonitoringService) getIPSEvents(ctx context.Context, params *action.Params) *Result {
	site := params.ResolvedSite()
	limit := params.ResolvedLimit()

	end := time.Now().UnixMilli()
	start := end - 7*24*time.Hour.Milliseconds()

	events, errResult := asList(s.client.GetIPSEvents(ctx, site, start, end))
	if errResult != nil {
		return errResult
	}

	sortByTimeDesc(events)
	if len(events) > limit {
		events = events[:limit]
	}

	formatted := make([]map[string]any, 0, len(events))
	for _, event := range events {
		formatted = append(formatted, map[string]any{
			"timestamp":      format.FormatTimestamp(event["time"]),
			"source_ip":      format.Str(event, "src_ip", "Unknown"),
			"destination_ip": format.Str(event, "dst_ip", "Unknown"),
			"protocol":       format.Str(event, "proto", "Unknown"),
			"app_protocol":   format.Str(event, "app_proto", "Unknown"),
			"signature":      format.Str(event, "signature", "Unknown"),
			"category":       format.Str(event, "category", "Unknown"),
			"action":         format.Str(event, "action", "Unknown"),
			"severity":       ipsSeverity(event),
			"message":        format.Str(event, "msg", "No message"),
		})
	}

	return &Result{
		Text:       format.IPSEventsText(formatted),
		Structured: formatted,
	}
}

// ipsSeverity keeps the controller's value whatever its type.
func ipsSeverity(event map[string]any) string {
	if v, ok := event["severity"]; ok {
		return fmt.Sprintf("%v", v)
	}
	return "Unknown"
}

// sortByTimeDesc orders newest first, accepting either "time" or
// "timestamp" keys.
func sortByTimeDesc(items []map[string]any) {
	sort.SliceStable(items, func(i, j int) bool {
		return itemTime(items[i]) > itemTime(items[j])
	})
}

func itemTime(item map[string]any) float64 {
	if v, ok := item["time"].(float64); ok {
		return v
	}
	if v, ok := item["timestamp"].(float64); ok {
		return v
	}
	return 0
}
