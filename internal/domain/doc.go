// Package domain defines the core types of netorg.
//
// # Sources
//
// Three independent views describe the devices on a network:
//
// KnownDevice is an entry of the operator-curated list and carries the
// device's group.
//
// ActiveClient is a device currently holding a DHCP lease.
//
// FixedIPReservation is a static IP-to-MAC binding held by the DHCP server.
//
// # Device Table
//
// DeviceTable merges the three views into one Device per MAC address. A
// device carries the Known, Reserved and Active flags of the sources it was
// seen in, a resolved name and IP, and its group ("unclassified" unless the
// device is known).
//
// Queries over the table are plain predicate functions (IsStaleReservation,
// WithoutIP, ActiveUnclassified) applied with Filter, MACs and Count.
//
// # Design Principles
//
// - No I/O and no external dependencies
// - MAC addresses are used exactly as supplied by the sources
package domain
