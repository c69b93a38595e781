// Package adapter connects netorg to the outside world.
//
// # Known devices
//
// KnownDevicesFile keeps the operator's device inventory in a YAML file
// grouped by device group. Saving rewrites the file atomically and logs the
// devices that were added or dropped.
//
// # Active clients
//
// Active client sources report the devices currently on the VLAN:
//
//   - NmapSource runs a ping sweep of the subnet (needs layer 2 access for MACs)
//   - SNMPSource walks the router's ARP table
//   - DnsmasqSource reads the dnsmasq lease file over SSH
//
// The Registry maps the active_clients.source setting to one of these.
// MAC addresses are normalized to lower case so they line up with the
// known-devices file.
package adapter
