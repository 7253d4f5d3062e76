package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/unifi-tools/unifi-mcp/pkg/audit"
	"github.com/unifi-tools/unifi-mcp/pkg/cli"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "View the audit trail of state-changing actions",
	Long: `View the audit trail of state-changing controller actions.

Every write action (device restarts, client blocks, guest
authorizations and so on) is logged with its timestamp, target site
and MAC, outcome and duration.

Examples:
  unifi-mcp audit list --action block_client
  unifi-mcp audit list --last 24h
  unifi-mcp audit list --mac aa:bb:cc:dd:ee:01 --failures`,
}

var (
	auditFile     string
	auditAction   string
	auditSite     string
	auditMAC      string
	auditLast     string
	auditLimit    int
	auditFailures bool
	auditJSON     bool
)

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List audit events",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := auditFile
		if path == "" {
			path = os.Getenv("UNIFI_MCP_AUDIT_LOG")
		}
		if path == "" {
			return fmt.Errorf("no audit log configured: use --file or UNIFI_MCP_AUDIT_LOG")
		}
		logger, err := audit.NewFileLogger(path, audit.RotationConfig{})
		if err != nil {
			return fmt.Errorf("opening audit log: %w", err)
		}
		defer logger.Close()

		filter := audit.Filter{
			Action:      auditAction,
			Site:        auditSite,
			MAC:         auditMAC,
			Limit:       auditLimit,
			FailureOnly: auditFailures,
		}
		if auditLast != "" {
			duration, err := time.ParseDuration(auditLast)
			if err != nil {
				return fmt.Errorf("invalid duration: %s", auditLast)
			}
			filter.StartTime = time.Now().Add(-duration)
		}

		events, err := logger.Query(filter)
		if err != nil {
			return fmt.Errorf("querying audit log: %w", err)
		}

		if auditJSON {
			return json.NewEncoder(os.Stdout).Encode(events)
		}

		if len(events) == 0 {
			fmt.Println("No audit events found")
			return nil
		}

		t := cli.NewTable("TIMESTAMP", "ACTION", "SITE", "MAC", "STATUS", "DURATION")
		for _, event := range events {
			status := cli.Green("ok")
			if !event.Success {
				status = cli.Red("failed")
			}
			t.Row(
				event.Timestamp.Format("2006-01-02 15:04:05"),
				event.Action,
				event.Site,
				event.MAC,
				status,
				event.Duration.Round(time.Millisecond).String(),
			)
		}
		t.Flush()
		return nil
	},
}

func init() {
	auditListCmd.Flags().StringVar(&auditFile, "file", "", "Audit log file (default $UNIFI_MCP_AUDIT_LOG)")
	auditListCmd.Flags().StringVar(&auditAction, "action", "", "Filter by action name")
	auditListCmd.Flags().StringVar(&auditSite, "site", "", "Filter by site")
	auditListCmd.Flags().StringVar(&auditMAC, "mac", "", "Filter by MAC address")
	auditListCmd.Flags().StringVar(&auditLast, "last", "", "Show events from last duration (e.g., 24h)")
	auditListCmd.Flags().IntVar(&auditLimit, "limit", 100, "Maximum events to show")
	auditListCmd.Flags().BoolVar(&auditFailures, "failures", false, "Show only failed actions")
	auditListCmd.Flags().BoolVar(&auditJSON, "json", false, "JSON output")

	auditCmd.AddCommand(auditListCmd)
	rootCmd.AddCommand(auditCmd)
}
