package adapter

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/gosnmp/gosnmp"
	"github.com/sirupsen/logrus"

	"netorg/internal/config"
	"netorg/internal/domain"
)

// ipNetToMediaPhysAddress is the ARP table column of the router,
// indexed by <ifIndex>.<a>.<b>.<c>.<d>
const ipNetToMediaPhysAddress = ".1.3.6.1.2.1.4.22.1.2"

// walkFunc walks an OID subtree
type walkFunc func(ctx context.Context, root string) ([]gosnmp.SnmpPDU, error)

// SNMPSource reads active clients from the router's ARP table over SNMP v2c.
// Entries outside the VLAN subnet are dropped.
type SNMPSource struct {
	cfg    config.SNMPConfig
	subnet *net.IPNet
	log    logrus.FieldLogger
	walk   walkFunc
}

// NewSNMPSource creates an ARP table source
func NewSNMPSource(cfg config.SNMPConfig, subnet string, opts ...Option) (*SNMPSource, error) {
	if cfg.Target == "" {
		return nil, fmt.Errorf("snmp target is required")
	}
	_, ipNet, err := net.ParseCIDR(subnet)
	if err != nil {
		return nil, fmt.Errorf("invalid subnet %q: %w", subnet, err)
	}

	o := newOptions(opts)
	s := &SNMPSource{cfg: cfg, subnet: ipNet, log: o.log}
	s.walk = s.bulkWalk
	return s, nil
}

// Name returns the source identifier
func (s *SNMPSource) Name() string {
	return "snmp"
}

// Load walks the ARP table
func (s *SNMPSource) Load(ctx context.Context) ([]domain.ActiveClient, error) {
	s.log.Debugf("SNMP: walking ARP table on %s", s.cfg.Target)
	pdus, err := s.walk(ctx, ipNetToMediaPhysAddress)
	if err != nil {
		return nil, fmt.Errorf("snmp walk %s: %w", s.cfg.Target, err)
	}

	clients := ParseARPTable(pdus, s.subnet)
	s.log.Debugf("SNMP: %d of %d ARP entries are on %s", len(clients), len(pdus), s.subnet)
	return clients, nil
}

func (s *SNMPSource) bulkWalk(ctx context.Context, root string) ([]gosnmp.SnmpPDU, error) {
	port := s.cfg.Port
	if port == 0 {
		port = 161
	}
	// GoSNMP is not safe for concurrent use; one instance per walk
	params := &gosnmp.GoSNMP{
		Target:    s.cfg.Target,
		Port:      uint16(port),
		Community: s.cfg.Community,
		Version:   gosnmp.Version2c,
		Timeout:   s.cfg.Timeout(),
		Retries:   s.cfg.Retries,
		Transport: "udp",
		Context:   ctx,
	}

	if err := params.Connect(); err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer params.Conn.Close()

	return params.BulkWalkAll(root)
}

// ParseARPTable converts ipNetToMediaPhysAddress rows into active clients.
// The IP comes from the OID index and the MAC from the octet string value.
// The ARP table carries no names, so Name is left empty. Rows outside
// subnet (when non-nil) and malformed rows are skipped.
func ParseARPTable(pdus []gosnmp.SnmpPDU, subnet *net.IPNet) []domain.ActiveClient {
	var clients []domain.ActiveClient
	seen := make(map[string]bool)

	for _, pdu := range pdus {
		if pdu.Type != gosnmp.OctetString {
			continue
		}
		ip := arpIndexIP(pdu.Name)
		if ip == nil {
			continue
		}
		if subnet != nil && !subnet.Contains(ip) {
			continue
		}
		raw, ok := pdu.Value.([]byte)
		if !ok || len(raw) != 6 {
			continue
		}
		mac := net.HardwareAddr(raw).String()
		if seen[mac] {
			continue
		}
		seen[mac] = true

		clients = append(clients, domain.ActiveClient{MAC: mac, IP: ip.String()})
	}

	return clients
}

// arpIndexIP extracts a.b.c.d from <column>.<ifIndex>.a.b.c.d
func arpIndexIP(oid string) net.IP {
	parts := strings.Split(strings.TrimPrefix(oid, "."), ".")
	if len(parts) < 4 {
		return nil
	}
	ip := net.ParseIP(strings.Join(parts[len(parts)-4:], ".")).To4()
	if ip == nil {
		return nil
	}
	return ip
}
