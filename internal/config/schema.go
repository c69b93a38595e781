package config

import (
	"time"
)

// Active client source names
const (
	SourceNmap    = "nmap"
	SourceSNMP    = "snmp"
	SourceDnsmasq = "dnsmasq"
	SourceSQLite  = "sqlite"
)

// Sources lists the supported active client sources
var Sources = []string{SourceNmap, SourceSNMP, SourceDnsmasq, SourceSQLite}

// Config is the root configuration structure
type Config struct {
	DevicesYAML   string              `mapstructure:"devices_yml" json:"devices_yml"`
	VLANSubnet    string              `mapstructure:"vlan_subnet" json:"vlan_subnet"`
	ActiveClients ActiveClientsConfig `mapstructure:"active_clients" json:"active_clients"`
	Reservations  ReservationsConfig  `mapstructure:"reservations" json:"reservations"`
	Log           LogConfig           `mapstructure:"log" json:"log"`
}

// ActiveClientsConfig selects and configures the active client source
type ActiveClientsConfig struct {
	Source  string        `mapstructure:"source" json:"source"`
	Nmap    NmapConfig    `mapstructure:"nmap" json:"nmap"`
	SNMP    SNMPConfig    `mapstructure:"snmp" json:"snmp"`
	Dnsmasq DnsmasqConfig `mapstructure:"dnsmasq" json:"dnsmasq"`
}

// NmapConfig configures the ping sweep source
type NmapConfig struct {
	TimeoutSeconds int  `mapstructure:"timeout_seconds" json:"timeout_seconds"`
	Privileged     bool `mapstructure:"privileged" json:"privileged"`
}

// Timeout returns the sweep timeout
func (n NmapConfig) Timeout() time.Duration {
	return time.Duration(n.TimeoutSeconds) * time.Second
}

// SNMPConfig configures the router ARP table source
type SNMPConfig struct {
	Target         string `mapstructure:"target" json:"target"`
	Port           int    `mapstructure:"port" json:"port"`
	Community      string `mapstructure:"community" json:"community"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" json:"timeout_seconds"`
	Retries        int    `mapstructure:"retries" json:"retries"`
}

// Timeout returns the per-request timeout
func (s SNMPConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// DnsmasqConfig configures the dnsmasq lease file source, read over SSH
type DnsmasqConfig struct {
	Host           string `mapstructure:"host" json:"host"`
	Port           int    `mapstructure:"port" json:"port"`
	User           string `mapstructure:"user" json:"user"`
	Password       string `mapstructure:"password" json:"password,omitempty"`
	KeyFile        string `mapstructure:"key_file" json:"key_file,omitempty"`
	LeaseFile      string `mapstructure:"lease_file" json:"lease_file"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" json:"timeout_seconds"`
}

// Timeout returns the connect and command timeout
func (d DnsmasqConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutSeconds) * time.Second
}

// ReservationsConfig holds the fixed IP reservation database settings
type ReservationsConfig struct {
	DB string `mapstructure:"db" json:"db"`
}

// LogConfig holds logging settings. File is optional; when set, log lines
// are also written to a rotated file.
type LogConfig struct {
	Level      string `mapstructure:"level" json:"level"`
	File       string `mapstructure:"file" json:"file,omitempty"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" json:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" json:"max_age_days"`
	Compress   bool   `mapstructure:"compress" json:"compress"`
}
