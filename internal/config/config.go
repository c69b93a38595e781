// Package config provides configuration management for netorg.
//
// The configuration is a JSON file. Environment variables prefixed with
// NETORG_ override file values (NETORG_VLAN_SUBNET, NETORG_ACTIVE_CLIENTS_SOURCE,
// ...). A .env file in the working directory or next to the config file is
// loaded into the environment first.
//
// Config file locations (priority order):
//  1. $NETORG_CONFIG
//  2. ./.netorg.cfg
//  3. $XDG_CONFIG_HOME/netorg/netorg.cfg
//  4. ~/.netorg.cfg
//  5. /etc/netorg/netorg.cfg
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"netorg/internal/netspace"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "NETORG"

// ErrInvalidConfig is wrapped by every Validate failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()
	if path == "" {
		LoadDotEnv("")
		cfg, err := decode(newViper())
		if err != nil {
			return nil, "", err
		}
		return cfg, "", nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	LoadDotEnv(filepath.Dir(path))

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// setDefaults registers every key so that AutomaticEnv can override keys the
// file does not mention
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("devices_yml", d.DevicesYAML)
	v.SetDefault("vlan_subnet", d.VLANSubnet)
	v.SetDefault("active_clients.source", d.ActiveClients.Source)
	v.SetDefault("active_clients.nmap.timeout_seconds", d.ActiveClients.Nmap.TimeoutSeconds)
	v.SetDefault("active_clients.nmap.privileged", d.ActiveClients.Nmap.Privileged)
	v.SetDefault("active_clients.snmp.target", d.ActiveClients.SNMP.Target)
	v.SetDefault("active_clients.snmp.port", d.ActiveClients.SNMP.Port)
	v.SetDefault("active_clients.snmp.community", d.ActiveClients.SNMP.Community)
	v.SetDefault("active_clients.snmp.timeout_seconds", d.ActiveClients.SNMP.TimeoutSeconds)
	v.SetDefault("active_clients.snmp.retries", d.ActiveClients.SNMP.Retries)
	v.SetDefault("active_clients.dnsmasq.host", d.ActiveClients.Dnsmasq.Host)
	v.SetDefault("active_clients.dnsmasq.port", d.ActiveClients.Dnsmasq.Port)
	v.SetDefault("active_clients.dnsmasq.user", d.ActiveClients.Dnsmasq.User)
	v.SetDefault("active_clients.dnsmasq.password", d.ActiveClients.Dnsmasq.Password)
	v.SetDefault("active_clients.dnsmasq.key_file", d.ActiveClients.Dnsmasq.KeyFile)
	v.SetDefault("active_clients.dnsmasq.lease_file", d.ActiveClients.Dnsmasq.LeaseFile)
	v.SetDefault("active_clients.dnsmasq.timeout_seconds", d.ActiveClients.Dnsmasq.TimeoutSeconds)
	v.SetDefault("reservations.db", d.Reservations.DB)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)
	v.SetDefault("log.compress", d.Log.Compress)
}

// Save writes config to the specified path as indented JSON. The file may
// hold credentials and is created owner-readable only.
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, append(data, '\n'), 0600)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		DevicesYAML: "~/devices.yml",
		ActiveClients: ActiveClientsConfig{
			Source: SourceNmap,
			Nmap:   NmapConfig{TimeoutSeconds: 120},
			SNMP: SNMPConfig{
				Port:           161,
				Community:      "public",
				TimeoutSeconds: 5,
				Retries:        2,
			},
			Dnsmasq: DnsmasqConfig{
				Port:           22,
				User:           "root",
				LeaseFile:      "/var/lib/misc/dnsmasq.leases",
				TimeoutSeconds: 15,
			},
		},
		Reservations: ReservationsConfig{DB: "~/.netorg.db"},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	d := DefaultConfig()
	if c.DevicesYAML == "" {
		c.DevicesYAML = d.DevicesYAML
	}
	if c.ActiveClients.Source == "" {
		c.ActiveClients.Source = d.ActiveClients.Source
	}
	if c.ActiveClients.Nmap.TimeoutSeconds <= 0 {
		c.ActiveClients.Nmap.TimeoutSeconds = d.ActiveClients.Nmap.TimeoutSeconds
	}
	if c.ActiveClients.SNMP.Port == 0 {
		c.ActiveClients.SNMP.Port = d.ActiveClients.SNMP.Port
	}
	if c.ActiveClients.SNMP.TimeoutSeconds <= 0 {
		c.ActiveClients.SNMP.TimeoutSeconds = d.ActiveClients.SNMP.TimeoutSeconds
	}
	if c.ActiveClients.Dnsmasq.Port == 0 {
		c.ActiveClients.Dnsmasq.Port = d.ActiveClients.Dnsmasq.Port
	}
	if c.ActiveClients.Dnsmasq.LeaseFile == "" {
		c.ActiveClients.Dnsmasq.LeaseFile = d.ActiveClients.Dnsmasq.LeaseFile
	}
	if c.ActiveClients.Dnsmasq.TimeoutSeconds <= 0 {
		c.ActiveClients.Dnsmasq.TimeoutSeconds = d.ActiveClients.Dnsmasq.TimeoutSeconds
	}
	if c.Reservations.DB == "" {
		c.Reservations.DB = d.Reservations.DB
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

// Validate checks the settings every command depends on
func (c *Config) Validate() error {
	if c.DevicesYAML == "" {
		return fmt.Errorf("%w: devices_yml is required", ErrInvalidConfig)
	}
	if c.VLANSubnet == "" {
		return fmt.Errorf("%w: vlan_subnet is required (run netorg configure)", ErrInvalidConfig)
	}
	if err := netspace.ValidateCIDR(c.VLANSubnet); err != nil {
		return fmt.Errorf("%w: vlan_subnet: %w", ErrInvalidConfig, err)
	}
	if c.Reservations.DB == "" {
		return fmt.Errorf("%w: reservations.db is required", ErrInvalidConfig)
	}

	ac := c.ActiveClients
	if !slices.Contains(Sources, ac.Source) {
		return fmt.Errorf("%w: active_clients.source %q is not one of %s",
			ErrInvalidConfig, ac.Source, strings.Join(Sources, ", "))
	}
	switch ac.Source {
	case SourceSNMP:
		if ac.SNMP.Target == "" {
			return fmt.Errorf("%w: active_clients.snmp.target is required", ErrInvalidConfig)
		}
	case SourceDnsmasq:
		if ac.Dnsmasq.Host == "" || ac.Dnsmasq.User == "" {
			return fmt.Errorf("%w: active_clients.dnsmasq.host and user are required", ErrInvalidConfig)
		}
		if ac.Dnsmasq.Password == "" && ac.Dnsmasq.KeyFile == "" {
			return fmt.Errorf("%w: active_clients.dnsmasq needs a password or key_file", ErrInvalidConfig)
		}
	}
	return nil
}

// DevicesPath returns devices_yml with ~ expanded
func (c *Config) DevicesPath() string {
	return ExpandHome(c.DevicesYAML)
}

// ReservationsPath returns reservations.db with ~ expanded
func (c *Config) ReservationsPath() string {
	return ExpandHome(c.Reservations.DB)
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	summary := fmt.Sprintf("Devices: %s\n", c.DevicesPath())
	summary += fmt.Sprintf("VLAN subnet: %s\n", c.VLANSubnet)
	summary += fmt.Sprintf("Active clients: %s\n", c.ActiveClients.Source)
	summary += fmt.Sprintf("Reservations: %s", c.ReservationsPath())
	return summary
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
