package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultCheckInterval   = "1s"
	DefaultTimeout         = "2s"
	DefaultLogPath         = "./internet-connection.log"
	DefaultTimestampLocale = "de_DE"
	DefaultDurationLocale  = "en"
	DefaultTCPPort         = 443
)

// Probe types understood by the monitor
const (
	ProbeICMP = "icmp"
	ProbeTCP  = "tcp"
	ProbeHTTP = "http"
)

// DefaultHosts are probed when no config file overrides them
var DefaultHosts = []string{
	"google.de",
	"amazon.de",
	"netflix.com",
}

// Config represents the netwatch configuration
type Config struct {
	CheckInterval   string `yaml:"check_interval"`
	Timeout         string `yaml:"timeout"`
	TimestampLocale string `yaml:"timestamp_locale"`
	DurationLocale  string `yaml:"duration_locale"`
	PrivilegedICMP  bool   `yaml:"privileged_icmp,omitempty"`
	MetricsAddr     string `yaml:"metrics_addr,omitempty"`
	Hosts           []Host `yaml:"hosts"`
}

// Host represents a single remote host probed every cycle
type Host struct {
	Name string `yaml:"name"`
	Type string `yaml:"type,omitempty"` // "icmp", "tcp" or "http"
	Port int    `yaml:"port,omitempty"`
	URL  string `yaml:"url,omitempty"`
}

// Default returns the compiled-in configuration
func Default() *Config {
	hosts := make([]Host, 0, len(DefaultHosts))
	for _, name := range DefaultHosts {
		hosts = append(hosts, Host{Name: name, Type: ProbeICMP})
	}

	return &Config{
		CheckInterval:   DefaultCheckInterval,
		Timeout:         DefaultTimeout,
		TimestampLocale: DefaultTimestampLocale,
		DurationLocale:  DefaultDurationLocale,
		PrivilegedICMP:  runtime.GOOS == "windows",
		Hosts:           hosts,
	}
}

// GetConfigPath returns the path to the global config file
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".config", "netwatch", "config.yml"), nil
}

// LoadConfig reads the optional config file. A missing file yields Default().
func LoadConfig() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	return LoadFile(configPath)
}

// LoadFile parses the config at path on top of the defaults
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.CheckInterval == "" {
		c.CheckInterval = DefaultCheckInterval
	}
	if c.Timeout == "" {
		c.Timeout = DefaultTimeout
	}
	if c.TimestampLocale == "" {
		c.TimestampLocale = DefaultTimestampLocale
	}
	if c.DurationLocale == "" {
		c.DurationLocale = DefaultDurationLocale
	}
	c.MetricsAddr = ResolveEnv(c.MetricsAddr)

	for i := range c.Hosts {
		h := &c.Hosts[i]
		h.Name = ResolveEnv(strings.TrimSpace(h.Name))
		h.Type = strings.ToLower(strings.TrimSpace(h.Type))
		if h.Type == "" {
			h.Type = ProbeICMP
		}
		if h.Type == ProbeTCP && h.Port == 0 {
			h.Port = DefaultTCPPort
		}
		if h.Type == ProbeHTTP && h.URL == "" {
			h.URL = "https://" + h.Name + "/"
		}
	}
}

// Validate checks the values the monitor cannot run without
func (c *Config) Validate() error {
	if _, err := c.Interval(); err != nil {
		return err
	}
	if _, err := c.ProbeTimeout(); err != nil {
		return err
	}
	if len(c.Hosts) == 0 {
		return errors.New("at least one host is required")
	}

	seen := make(map[string]bool, len(c.Hosts))
	for i, h := range c.Hosts {
		if h.Name == "" {
			return fmt.Errorf("host %d is missing a name", i)
		}
		if seen[h.Name] {
			return fmt.Errorf("host '%s' is listed twice", h.Name)
		}
		seen[h.Name] = true

		switch h.Type {
		case ProbeICMP, ProbeHTTP:
		case ProbeTCP:
			if h.Port < 1 || h.Port > 65535 {
				return fmt.Errorf("host '%s' has invalid port %d", h.Name, h.Port)
			}
		default:
			return fmt.Errorf("host '%s' has unknown probe type: %s", h.Name, h.Type)
		}
	}

	return nil
}

// Interval returns the parsed polling interval
func (c *Config) Interval() (time.Duration, error) {
	return parsePositive("check_interval", c.CheckInterval)
}

// ProbeTimeout returns the parsed per-probe timeout
func (c *Config) ProbeTimeout() (time.Duration, error) {
	return parsePositive("timeout", c.Timeout)
}

// HostNames returns the configured host names in order
func (c *Config) HostNames() []string {
	names := make([]string, 0, len(c.Hosts))
	for _, h := range c.Hosts {
		names = append(names, h.Name)
	}
	return names
}

func parsePositive(field, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", field, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", field, value)
	}
	return d, nil
}

// ResolveEnv replaces environment variable placeholders with actual values
// Supports ${VAR_NAME} syntax
func ResolveEnv(value string) string {
	return os.ExpandEnv(strings.NewReplacer(
		"${", "$",
		"}", "",
	).Replace(value))
}
