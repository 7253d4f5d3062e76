// unifi-mcp - MCP server for UniFi network controllers
//
// Bridges a UniFi controller (UDM Pro or legacy) to MCP clients:
//   - one "unifi" tool covering device, client, network and monitoring
//     actions plus guest authorization
//   - read-only resources for device, client and site inventories and
//     a site overview
//   - stdio and streamable HTTP transports
//   - audit logging of all state-changing actions
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/unifi-tools/unifi-mcp/pkg/audit"
	"github.com/unifi-tools/unifi-mcp/pkg/cli"
	"github.com/unifi-tools/unifi-mcp/pkg/config"
	"github.com/unifi-tools/unifi-mcp/pkg/mcp"
	"github.com/unifi-tools/unifi-mcp/pkg/util"
	"github.com/unifi-tools/unifi-mcp/pkg/version"
)

var (
	configPath string
	envFile    string
	transport  string
	logLevel   string
	logJSON    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.Red("Error: ")+err.Error())
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "unifi-mcp",
	Short:         "MCP server for UniFi network controllers",
	SilenceUsage:  true,
	SilenceErrors: true,
	Long: `unifi-mcp bridges a UniFi network controller to MCP clients.

Configuration comes from the environment, an optional .env file and an
optional YAML file. At minimum UNIFI_CONTROLLER_URL, UNIFI_USERNAME and
UNIFI_PASSWORD must be set.`,
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file")
	rootCmd.Flags().StringVarP(&transport, "transport", "t", "", "Transport: stdio or http")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.Flags().BoolVar(&logJSON, "log-json", false, "JSON log output")

	rootCmd.AddCommand(checkCmd, versionCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath, envFile)
	if err != nil {
		return nil, err
	}

	// Flag overrides win over file and environment.
	if transport != "" {
		cfg.Server.Transport = transport
	}
	if logLevel != "" {
		cfg.Server.LogLevel = logLevel
	}
	if logJSON {
		cfg.Server.LogJSON = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupLogging configures the process logger. Logs always go to stderr
// or a file, never stdout: stdout belongs to the stdio transport.
func setupLogging(cfg *config.Config) error {
	if err := util.SetLogLevel(cfg.Server.LogLevel); err != nil {
		return err
	}
	if cfg.Server.LogJSON {
		util.SetJSONFormat()
	}
	if cfg.Server.LogFile != "" {
		f, err := os.OpenFile(cfg.Server.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		util.SetLogOutput(f)
	}
	return nil
}

func setupAudit(cfg *config.Config) {
	if cfg.Server.AuditLog == "" {
		return
	}
	logger, err := audit.NewFileLogger(cfg.Server.AuditLog, audit.RotationConfig{
		MaxSize:    10 * 1024 * 1024, // 10MB
		MaxBackups: 10,
	})
	if err != nil {
		util.Warnf("could not initialize audit logging: %v", err)
		return
	}
	audit.SetDefaultLogger(logger)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := setupLogging(cfg); err != nil {
		return err
	}
	setupAudit(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := mcp.NewServer(cfg)
	if err := srv.Connect(ctx); err != nil {
		return err
	}
	defer srv.Close()

	return srv.Serve()
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify controller connectivity and credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		promptPasswordIfMissing()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := setupLogging(cfg); err != nil {
			return err
		}

		ctx := context.Background()
		srv := mcp.NewServer(cfg)
		if err := srv.Connect(ctx); err != nil {
			fmt.Println(cli.Red("FAILED: ") + err.Error())
			return err
		}
		defer srv.Close()

		fmt.Println(cli.Green("Authenticated to ") + cli.Bold(cfg.Controller.URL))
		fmt.Printf("  %s %s\n", cli.DotPad("user", 14), cfg.Controller.Username)
		fmt.Printf("  %s %s\n", cli.DotPad("site", 14), cfg.Controller.Site)
		fmt.Printf("  %s %v\n", cli.DotPad("udm_pro", 14), cfg.Controller.IsUDMPro)
		if !cfg.Controller.VerifySSL {
			fmt.Println(cli.Yellow("  TLS certificate verification is disabled"))
		}

		status := srv.Status(ctx)
		if status.IsError {
			fmt.Println(cli.Red("Status probe failed: ") + status.Text)
			return nil
		}
		fmt.Println(cli.Dim(status.Text))
		return nil
	},
}

// promptPasswordIfMissing asks for the controller password on the
// terminal when it is not configured, so check works interactively
// without putting credentials in the shell history.
func promptPasswordIfMissing() {
	if os.Getenv("UNIFI_PASSWORD") != "" {
		return
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return
	}
	fmt.Fprint(os.Stderr, "Controller password: ")
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil || len(pw) == 0 {
		return
	}
	os.Setenv("UNIFI_PASSWORD", string(pw))
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("unifi-mcp %s\n", version.Info())
	},
}
