// Package port defines the collaborators the netorg core talks to.
//
// Sources feed the device table loader; sinks persist views derived from a
// device table. Implementations live in internal/adapter and
// internal/repository.
package port

import (
	"context"

	"netorg/internal/domain"
	"netorg/internal/scan"
)

// KnownDevicesSource loads the operator-curated device list
type KnownDevicesSource interface {
	Load(ctx context.Context) ([]domain.KnownDevice, error)
}

// KnownDevicesSink persists the known-devices view of a device table.
// Rows matching domain.IsStaleReservation are left out.
type KnownDevicesSink interface {
	Save(ctx context.Context, table *domain.DeviceTable) error
}

// KnownDevicesStore is a known-devices source and sink
type KnownDevicesStore interface {
	KnownDevicesSource
	KnownDevicesSink
}

// ActiveClientsSource loads a snapshot of the current DHCP clients
type ActiveClientsSource interface {
	Load(ctx context.Context) ([]domain.ActiveClient, error)
}

// FixedIPReservationsSource loads the current static reservations
type FixedIPReservationsSource interface {
	Load(ctx context.Context) ([]domain.FixedIPReservation, error)
}

// FixedIPReservationsSink persists a new reservation set derived from a
// device table. Implementations map the table onto the network first and
// leave out rows matching domain.IsStaleReservation.
type FixedIPReservationsSink interface {
	Save(ctx context.Context, table *domain.DeviceTable) error
}

// FixedIPReservationsStore is a reservations source and sink
type FixedIPReservationsStore interface {
	FixedIPReservationsSource
	FixedIPReservationsSink
}

// DeviceTableCSVOut receives the CSV rendering of a device table
type DeviceTableCSVOut interface {
	Write(csv string) error
}

// ScanReporter presents the result of a scan
type ScanReporter interface {
	Report(analysis scan.Analysis) error
}
