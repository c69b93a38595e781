package repository

import (
	"context"
	"time"

	"netorg/internal/domain"
	"netorg/internal/port"
)

// Repository is the persistent store behind fixed IP reservations and the
// local DHCP lease table
type Repository interface {
	port.FixedIPReservationsStore

	// Lease table
	RecordLeases(ctx context.Context, clients []domain.ActiveClient, expires time.Time) error
	ActiveLeases(ctx context.Context) ([]domain.ActiveClient, error)
	PruneLeases(ctx context.Context) (int64, error)

	// LastSave reports when reservations were last written
	LastSave(ctx context.Context) (time.Time, bool, error)

	// Close releases resources
	Close() error
}
