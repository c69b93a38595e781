package adapter

import (
	"context"
	"fmt"
	"strings"
	"time"

	nmap "github.com/Ullaakut/nmap/v3"
	"github.com/sirupsen/logrus"

	"netorg/internal/domain"
)

// runFunc runs one nmap scan
type runFunc func(ctx context.Context, opts ...nmap.Option) (*nmap.Run, []string, error)

// NmapSource finds active clients with an nmap ping sweep of the VLAN
// subnet. Only hosts that report a MAC address are returned, which in
// practice means nmap has to run privileged on the same layer 2 network.
type NmapSource struct {
	subnet     string
	timeout    time.Duration
	privileged bool
	log        logrus.FieldLogger
	run        runFunc
}

// NewNmapSource creates a ping sweep source for subnet
func NewNmapSource(subnet string, opts ...NmapOption) *NmapSource {
	n := &NmapSource{
		subnet:  subnet,
		timeout: 2 * time.Minute,
		log:     logrus.StandardLogger(),
		run:     runNmap,
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// Name returns the source identifier
func (n *NmapSource) Name() string {
	return "nmap"
}

// Load sweeps the subnet and returns every host that answered with a MAC
func (n *NmapSource) Load(ctx context.Context) ([]domain.ActiveClient, error) {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	opts := []nmap.Option{
		nmap.WithTargets(n.subnet),
		nmap.WithPingScan(),
		nmap.WithTimingTemplate(nmap.TimingAggressive),
	}
	if n.privileged {
		opts = append(opts, nmap.WithPrivileged())
	}

	n.log.Debugf("Nmap: sweeping %s", n.subnet)
	result, warnings, err := n.run(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("nmap sweep of %s: %w", n.subnet, err)
	}
	if len(warnings) > 0 {
		n.log.Warnf("Nmap: warnings for %s: %v", n.subnet, warnings)
	}

	clients, err := n.processResults(result)
	if err != nil {
		return nil, err
	}
	n.log.Debugf("Nmap: %d active clients on %s", len(clients), n.subnet)
	return clients, nil
}

// processResults converts the hosts of a sweep into active clients
func (n *NmapSource) processResults(result *nmap.Run) ([]domain.ActiveClient, error) {
	if result == nil {
		return nil, fmt.Errorf("nil scan result")
	}

	var clients []domain.ActiveClient
	seen := make(map[string]bool)
	for _, host := range result.Hosts {
		if host.Status.State != "up" {
			continue
		}

		var ip, mac, vendor string
		for _, addr := range host.Addresses {
			switch addr.AddrType {
			case "ipv4":
				ip = addr.Addr
			case "mac":
				mac = strings.ToLower(addr.Addr)
				vendor = addr.Vendor
			}
		}
		if ip == "" {
			continue
		}
		if mac == "" {
			n.log.Debugf("Nmap: %s has no MAC address, skipping", ip)
			continue
		}
		if seen[mac] {
			continue
		}
		seen[mac] = true

		clients = append(clients, domain.ActiveClient{
			MAC:  mac,
			Name: hostName(host, vendor),
			IP:   ip,
		})
	}

	return clients, nil
}

// hostName prefers the short reverse DNS name, then the MAC vendor
func hostName(host nmap.Host, vendor string) string {
	if len(host.Hostnames) > 0 {
		name := host.Hostnames[0].Name
		if idx := strings.Index(name, "."); idx > 0 {
			name = name[:idx]
		}
		if name != "" {
			return name
		}
	}
	return vendor
}

func runNmap(ctx context.Context, opts ...nmap.Option) (*nmap.Run, []string, error) {
	scanner, err := nmap.NewScanner(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create scanner: %w", err)
	}

	result, warnings, err := scanner.Run()
	var w []string
	if warnings != nil {
		w = *warnings
	}
	if err != nil {
		return nil, w, fmt.Errorf("scan failed: %w", err)
	}
	return result, w, nil
}
