package adapter

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/sirupsen/logrus"

	"netorg/internal/config"
	"netorg/internal/domain"
)

// fetchFunc returns the raw lease file contents
type fetchFunc func(ctx context.Context) ([]byte, error)

// DnsmasqSource reads active clients from the dnsmasq lease file on the
// router, fetched over SSH.
type DnsmasqSource struct {
	cfg   config.DnsmasqConfig
	log   logrus.FieldLogger
	fetch fetchFunc
}

// NewDnsmasqSource creates a lease file source
func NewDnsmasqSource(cfg config.DnsmasqConfig, opts ...Option) (*DnsmasqSource, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("dnsmasq host is required")
	}
	if _, err := buildSSHConfig(cfg); err != nil {
		return nil, err
	}
	if cfg.LeaseFile == "" {
		cfg.LeaseFile = "/var/lib/misc/dnsmasq.leases"
	}

	o := newOptions(opts)
	d := &DnsmasqSource{cfg: cfg, log: o.log}
	d.fetch = d.fetchLeases
	return d, nil
}

// Name returns the source identifier
func (d *DnsmasqSource) Name() string {
	return "dnsmasq"
}

// Load fetches and parses the lease file
func (d *DnsmasqSource) Load(ctx context.Context) ([]domain.ActiveClient, error) {
	d.log.Debugf("Dnsmasq: reading %s on %s", d.cfg.LeaseFile, d.cfg.Host)
	raw, err := d.fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("dnsmasq leases on %s: %w", d.cfg.Host, err)
	}

	clients, err := ParseLeases(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("dnsmasq leases on %s: %w", d.cfg.Host, err)
	}
	d.log.Debugf("Dnsmasq: %d leases", len(clients))
	return clients, nil
}

func (d *DnsmasqSource) fetchLeases(ctx context.Context) ([]byte, error) {
	timeout := d.cfg.Timeout()
	if timeout <= 0 {
		timeout = commandTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := dial(ctx, d.cfg)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	return runCommand(ctx, client, "cat "+shellQuote(d.cfg.LeaseFile))
}

// ParseLeases reads a dnsmasq lease file. Each line is
// "<expiry> <mac> <ip> <hostname> <client-id>"; a hostname of "*" means the
// client did not send one. IPv6 leases and the "duid" line are skipped.
func ParseLeases(r io.Reader) ([]domain.ActiveClient, error) {
	var clients []domain.ActiveClient
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || fields[0] == "duid" {
			continue
		}
		if len(fields) < 4 {
			return nil, fmt.Errorf("%w: lease line %d has %d fields", domain.ErrMalformedData, line, len(fields))
		}

		// IPv6 leases carry an IAID where the MAC would be
		ip := net.ParseIP(fields[2])
		if ip == nil || ip.To4() == nil {
			continue
		}
		hw, err := net.ParseMAC(fields[1])
		if err != nil {
			return nil, fmt.Errorf("%w: lease line %d: %v", domain.ErrMalformedData, line, err)
		}

		mac := hw.String()
		if seen[mac] {
			continue
		}
		seen[mac] = true

		name := fields[3]
		if name == "*" {
			name = ""
		}
		clients = append(clients, domain.ActiveClient{MAC: mac, Name: name, IP: ip.String()})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return clients, nil
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
