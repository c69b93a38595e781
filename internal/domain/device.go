package domain

import (
	"errors"
	"fmt"
)

// GroupUnclassified is the group of every device without a known-device entry
const GroupUnclassified = "unclassified"

// ErrMalformedData is returned when an external store holds data that is not
// shaped the way it should be (for example a known-devices file without a
// devices section)
var ErrMalformedData = errors.New("malformed data")

// KnownDevice is a device the operator has registered and assigned to a group
type KnownDevice struct {
	Name  string `json:"name" yaml:"name"`
	MAC   string `json:"mac" yaml:"mac"`
	Group string `json:"group" yaml:"group"`
}

func (k KnownDevice) String() string {
	return fmt.Sprintf("Known device: %s with MAC %s in %s", k.Name, k.MAC, k.Group)
}

// ActiveClient is a device currently holding a DHCP lease
type ActiveClient struct {
	MAC  string `json:"mac"`
	Name string `json:"name"`
	IP   string `json:"ip"`
}

func (a ActiveClient) String() string {
	return fmt.Sprintf("Active client: %s with MAC %s has IP address %s", a.Name, a.MAC, a.IP)
}

// FixedIPReservation is a static IP-to-MAC binding held by the DHCP server
type FixedIPReservation struct {
	MAC  string `json:"mac"`
	Name string `json:"name"`
	IP   string `json:"ip"`
}

func (f FixedIPReservation) String() string {
	return fmt.Sprintf("Fixed IP reservation: %s %s %s", f.MAC, f.Name, f.IP)
}

// Device is one row of the device table: the merged view of a single MAC
// across the known, active and reserved sources
type Device struct {
	MAC      string `json:"mac"`
	Name     string `json:"name"`
	Group    string `json:"group"`
	IP       string `json:"ip"`
	Known    bool   `json:"known"`
	Reserved bool   `json:"reserved"`
	Active   bool   `json:"active"`
}

// HasIP reports whether the device has an address assigned
func (d *Device) HasIP() bool {
	return d.IP != ""
}

// IsUnclassified reports whether the device has no real group
func (d *Device) IsUnclassified() bool {
	return d.Group == "" || d.Group == GroupUnclassified
}

// Predicate selects devices from a table
type Predicate func(d *Device) bool

// IsStaleReservation matches devices that only exist as a leftover fixed IP
// reservation: not known, reserved and not active. These rows are never
// written back to the known-devices or reservation stores.
func IsStaleReservation(d *Device) bool {
	return !d.Known && d.Reserved && !d.Active
}

// IsPersistable is the complement of IsStaleReservation
func IsPersistable(d *Device) bool {
	return !IsStaleReservation(d)
}

// WithoutIP matches devices that still need an address
func WithoutIP(d *Device) bool {
	return !d.HasIP()
}

// ActiveUnclassified matches active devices that still need to be triaged
// into a group
func ActiveUnclassified(d *Device) bool {
	return d.Active && d.Group == GroupUnclassified
}
