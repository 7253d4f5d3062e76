// Package config loads controller and server settings from the
// environment, an optional .env file, and an optional YAML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/unifi-tools/unifi-mcp/pkg/util"
)

// Controller holds UniFi controller connection settings.
type Controller struct {
	URL       string `yaml:"controller_url"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	VerifySSL bool   `yaml:"verify_ssl"`
	IsUDMPro  bool   `yaml:"is_udm_pro"`
	Site      string `yaml:"site"`
}

// Server holds MCP server settings.
type Server struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Transport string `yaml:"transport"` // "stdio" or "http"
	LogLevel  string `yaml:"log_level"`
	LogJSON   bool   `yaml:"log_json"`
	LogFile   string `yaml:"log_file"`
	AuditLog  string `yaml:"audit_log"`
}

// Config is the full configuration for one server process.
type Config struct {
	Controller Controller `yaml:"controller"`
	Server     Server     `yaml:"server"`
}

// Defaults returns a Config with all optional fields at their defaults.
func Defaults() *Config {
	return &Config{
		Controller: Controller{
			VerifySSL: false,
			IsUDMPro:  true,
			Site:      "default",
		},
		Server: Server{
			Host:      "0.0.0.0",
			Port:      8001,
			Transport: "stdio",
			LogLevel:  "info",
		},
	}
}

// Load builds the configuration. Precedence, lowest to highest:
// defaults, YAML file (if yamlPath is non-empty), .env file (if
// envFile exists), process environment.
func Load(yamlPath, envFile string) (*Config, error) {
	cfg := Defaults()

	if yamlPath != "" {
		if err := cfg.loadYAML(yamlPath); err != nil {
			return nil, err
		}
	}

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Overload(envFile); err != nil {
				return nil, fmt.Errorf("loading %s: %w", envFile, err)
			}
			util.Debugf("loaded environment from %s", envFile)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("UNIFI_CONTROLLER_URL"); v != "" {
		c.Controller.URL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("UNIFI_USERNAME"); v != "" {
		c.Controller.Username = v
	}
	if v := os.Getenv("UNIFI_PASSWORD"); v != "" {
		c.Controller.Password = v
	}
	if v := os.Getenv("UNIFI_VERIFY_SSL"); v != "" {
		c.Controller.VerifySSL = envBool(v)
	}
	if v := os.Getenv("UNIFI_IS_UDM_PRO"); v != "" {
		c.Controller.IsUDMPro = envBool(v)
	}
	if v := os.Getenv("UNIFI_SITE"); v != "" {
		c.Controller.Site = v
	}

	if v := os.Getenv("UNIFI_MCP_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("UNIFI_MCP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("UNIFI_MCP_TRANSPORT"); v != "" {
		c.Server.Transport = v
	}
	if v := os.Getenv("UNIFI_MCP_LOG_LEVEL"); v != "" {
		c.Server.LogLevel = v
	}
	if v := os.Getenv("UNIFI_MCP_LOG_JSON"); v != "" {
		c.Server.LogJSON = envBool(v)
	}
	if v := os.Getenv("UNIFI_MCP_LOG_FILE"); v != "" {
		c.Server.LogFile = v
	}
	if v := os.Getenv("UNIFI_MCP_AUDIT_LOG"); v != "" {
		c.Server.AuditLog = v
	}
}

// Validate checks that required settings are present.
func (c *Config) Validate() error {
	var b util.ValidationBuilder
	b.Add(c.Controller.URL != "", "controller URL is required (UNIFI_CONTROLLER_URL)")
	b.Add(c.Controller.Username != "", "controller username is required (UNIFI_USERNAME)")
	b.Add(c.Controller.Password != "", "controller password is required (UNIFI_PASSWORD)")
	b.Add(c.Server.Transport == "stdio" || c.Server.Transport == "http",
		fmt.Sprintf("transport must be 'stdio' or 'http', got %q", c.Server.Transport))
	b.Add(c.Server.Port > 0 && c.Server.Port < 65536,
		fmt.Sprintf("port must be in 1-65535, got %d", c.Server.Port))
	return b.Build()
}

func envBool(v string) bool {
	return strings.EqualFold(v, "true") || v == "1" || strings.EqualFold(v, "yes")
}
