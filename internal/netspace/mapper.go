package netspace

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"netorg/internal/domain"
)

// Mapper gives every device of a table an address inside one subnet
type Mapper struct {
	subnet string
	space  *Space
	log    logrus.FieldLogger
}

// MapperOption configures a Mapper
type MapperOption func(*Mapper)

// WithLogger sets the logger used for allocation messages
func WithLogger(l logrus.FieldLogger) MapperOption {
	return func(m *Mapper) {
		m.log = l
	}
}

// NewMapper creates a mapper for vlanSubnet. The subnet is validated when
// Map runs.
func NewMapper(vlanSubnet string, opts ...MapperOption) *Mapper {
	m := &Mapper{
		subnet: vlanSubnet,
		log:    logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Space returns the address space built by the last call to Map
func (m *Mapper) Space() *Space {
	return m.space
}

// Map seeds the pool with every address already held by a device, then
// allocates an address to each device that has none, in table order.
//
// A device address outside the subnet or two devices sharing an address
// fail with a validation error. Running out of addresses fails with
// ErrNetworkOutOfSpace. Map is not transactional: rows assigned before the
// failure keep their new address, so a table from a failed Map must not be
// persisted.
func (m *Mapper) Map(table *domain.DeviceTable) error {
	space, err := New(m.subnet)
	if err != nil {
		return err
	}
	m.space = space

	for _, d := range table.Filter(func(d *domain.Device) bool { return d.HasIP() }) {
		if _, err := space.AllocateSpecificAddress(d.IP); err != nil {
			return fmt.Errorf("seed %s (%s): %w", d.MAC, d.Name, err)
		}
	}

	for _, d := range table.Filter(domain.WithoutIP) {
		ip, err := space.AllocateAddress()
		if err != nil {
			return fmt.Errorf("allocate for %s (%s): %w", d.MAC, d.Name, err)
		}
		d.IP = ip
		m.log.Debugf("Allocated %s to %s (%s)", ip, d.Name, d.MAC)
	}

	return nil
}

// MapToNetworkSpace is a convenience wrapper around NewMapper(...).Map
func MapToNetworkSpace(vlanSubnet string, table *domain.DeviceTable) error {
	return NewMapper(vlanSubnet).Map(table)
}
