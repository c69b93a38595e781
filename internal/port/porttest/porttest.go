// Package porttest provides in-memory port implementations for tests.
package porttest

import (
	"context"

	"netorg/internal/domain"
	"netorg/internal/netspace"
	"netorg/internal/scan"
)

// KnownDevices is an in-memory known-devices store. Save replaces the list
// with the persistable view of the table.
type KnownDevices struct {
	Devices []domain.KnownDevice
	Err     error
	Saves   int
}

func NewKnownDevices(seed ...domain.KnownDevice) *KnownDevices {
	return &KnownDevices{Devices: seed}
}

func (k *KnownDevices) Load(ctx context.Context) ([]domain.KnownDevice, error) {
	if k.Err != nil {
		return nil, k.Err
	}
	return k.Devices, nil
}

func (k *KnownDevices) Save(ctx context.Context, table *domain.DeviceTable) error {
	if k.Err != nil {
		return k.Err
	}
	k.Devices = domain.KnownDevicesView(table)
	k.Saves++
	return nil
}

// ActiveClients is a fixed active-clients snapshot
type ActiveClients struct {
	Clients []domain.ActiveClient
	Err     error
}

func NewActiveClients(seed ...domain.ActiveClient) *ActiveClients {
	return &ActiveClients{Clients: seed}
}

func (a *ActiveClients) Load(ctx context.Context) ([]domain.ActiveClient, error) {
	if a.Err != nil {
		return nil, a.Err
	}
	return a.Clients, nil
}

// FixedIPReservations is an in-memory reservation store. Save maps the
// table onto Subnet before replacing the list.
type FixedIPReservations struct {
	Subnet       string
	Reservations []domain.FixedIPReservation
	Err          error
	Saves        int
}

func NewFixedIPReservations(subnet string, seed ...domain.FixedIPReservation) *FixedIPReservations {
	return &FixedIPReservations{Subnet: subnet, Reservations: seed}
}

func (f *FixedIPReservations) Load(ctx context.Context) ([]domain.FixedIPReservation, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Reservations, nil
}

func (f *FixedIPReservations) Save(ctx context.Context, table *domain.DeviceTable) error {
	if f.Err != nil {
		return f.Err
	}
	if err := netspace.MapToNetworkSpace(f.Subnet, table); err != nil {
		return err
	}
	f.Reservations = domain.ReservationsView(table)
	f.Saves++
	return nil
}

// CSVOut records what was written
type CSVOut struct {
	Written []string
}

func (c *CSVOut) Write(csv string) error {
	c.Written = append(c.Written, csv)
	return nil
}

// Reporter records the analyses it was given
type Reporter struct {
	Reports []scan.Analysis
}

func (r *Reporter) Report(analysis scan.Analysis) error {
	r.Reports = append(r.Reports, analysis)
	return nil
}

// Last returns the most recent analysis or nil
func (r *Reporter) Last() scan.Analysis {
	if len(r.Reports) == 0 {
		return nil
	}
	return r.Reports[len(r.Reports)-1]
}
