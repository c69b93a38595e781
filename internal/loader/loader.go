package loader

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"netorg/internal/domain"
	"netorg/internal/port"
)

// Pass identifies one source merge step
type Pass int

const (
	PassKnown Pass = iota
	PassActive
	PassReserved
)

func (p Pass) String() string {
	switch p {
	case PassKnown:
		return "known"
	case PassActive:
		return "active"
	case PassReserved:
		return "reserved"
	default:
		return fmt.Sprintf("pass(%d)", int(p))
	}
}

// DefaultOrder is the order LoadAll runs the passes in
var DefaultOrder = []Pass{PassKnown, PassActive, PassReserved}

// Loader builds a device table from the three device sources.
// A nil source contributes nothing.
type Loader struct {
	known    port.KnownDevicesSource
	active   port.ActiveClientsSource
	reserved port.FixedIPReservationsSource
	log      logrus.FieldLogger
}

// Option configures a Loader
type Option func(*Loader)

// WithLogger sets the logger
func WithLogger(l logrus.FieldLogger) Option {
	return func(ld *Loader) {
		ld.log = l
	}
}

// New creates a loader over the given sources
func New(known port.KnownDevicesSource, active port.ActiveClientsSource, reserved port.FixedIPReservationsSource, opts ...Option) *Loader {
	l := &Loader{
		known:    known,
		active:   active,
		reserved: reserved,
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadAll runs the known, active and reserved passes
func (l *Loader) LoadAll(ctx context.Context) (*domain.DeviceTable, error) {
	return l.Load(ctx, DefaultOrder...)
}

// LoadKnown builds a table from the known devices only
func (l *Loader) LoadKnown(ctx context.Context) (*domain.DeviceTable, error) {
	return l.Load(ctx, PassKnown)
}

// LoadActive builds a table from the active clients only
func (l *Loader) LoadActive(ctx context.Context) (*domain.DeviceTable, error) {
	return l.Load(ctx, PassActive)
}

// LoadReserved builds a table from the fixed IP reservations only
func (l *Loader) LoadReserved(ctx context.Context) (*domain.DeviceTable, error) {
	return l.Load(ctx, PassReserved)
}

// Load runs the given passes in order. The resulting rows do not depend on
// the order; only the table's iteration order does.
func (l *Loader) Load(ctx context.Context, order ...Pass) (*domain.DeviceTable, error) {
	b := NewBuilder()
	for _, pass := range order {
		if err := l.run(ctx, b, pass); err != nil {
			return nil, err
		}
	}
	table := b.Build()
	l.warnCaseMismatches(table)
	l.log.Debugf("Loaded %d devices", table.Len())
	return table, nil
}

// warnCaseMismatches reports MACs that differ only by letter case. They
// are kept as separate devices, which usually means devices.yml spells a
// MAC in upper case while the active source reports it in lower case.
func (l *Loader) warnCaseMismatches(table *domain.DeviceTable) {
	seen := make(map[string]string)
	for _, d := range table.Rows() {
		key := strings.ToLower(d.MAC)
		if first, ok := seen[key]; ok {
			l.log.Warnf("MACs %s and %s differ only by case and are treated as two devices; write MACs in lower case", first, d.MAC)
			continue
		}
		seen[key] = d.MAC
	}
}

func (l *Loader) run(ctx context.Context, b *Builder, pass Pass) error {
	switch pass {
	case PassKnown:
		if l.known == nil {
			return nil
		}
		devices, err := l.known.Load(ctx)
		if err != nil {
			return fmt.Errorf("load known devices: %w", err)
		}
		l.log.Debugf("Loaded %d known devices", len(devices))
		b.AddKnown(devices)
	case PassActive:
		if l.active == nil {
			return nil
		}
		clients, err := l.active.Load(ctx)
		if err != nil {
			return fmt.Errorf("load active clients: %w", err)
		}
		l.log.Debugf("Loaded %d active clients", len(clients))
		b.AddActive(clients)
	case PassReserved:
		if l.reserved == nil {
			return nil
		}
		reservations, err := l.reserved.Load(ctx)
		if err != nil {
			return fmt.Errorf("load fixed IP reservations: %w", err)
		}
		l.log.Debugf("Loaded %d fixed IP reservations", len(reservations))
		b.AddReserved(reservations)
	default:
		return fmt.Errorf("unknown load %s", pass)
	}
	return nil
}

// Merge folds already-loaded source lists into a table, running the passes
// in the given order (DefaultOrder when none is given)
func Merge(known []domain.KnownDevice, active []domain.ActiveClient, reserved []domain.FixedIPReservation, order ...Pass) *domain.DeviceTable {
	if len(order) == 0 {
		order = DefaultOrder
	}
	b := NewBuilder()
	for _, pass := range order {
		switch pass {
		case PassKnown:
			b.AddKnown(known)
		case PassActive:
			b.AddActive(active)
		case PassReserved:
			b.AddReserved(reserved)
		}
	}
	return b.Build()
}
