package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"netorg/internal/codec"
	"netorg/internal/domain"
	"netorg/internal/loader"
	"netorg/internal/port"
	"netorg/internal/scan"
)

// App runs the top-level netorg use cases. It only talks to ports.
type App struct {
	known    port.KnownDevicesStore
	active   port.ActiveClientsSource
	reserved port.FixedIPReservationsStore
	csvOut   port.DeviceTableCSVOut
	reporter port.ScanReporter

	log      logrus.FieldLogger
	eventBus *EventBus
}

// Option configures an App
type Option func(*App)

// WithLogger sets the logger
func WithLogger(l logrus.FieldLogger) Option {
	return func(a *App) {
		a.log = l
	}
}

// WithEventBus publishes use case events on bus
func WithEventBus(bus *EventBus) Option {
	return func(a *App) {
		a.eventBus = bus
	}
}

// New creates an App. csvOut and reporter may be nil when the matching use
// case is not needed.
func New(
	known port.KnownDevicesStore,
	active port.ActiveClientsSource,
	reserved port.FixedIPReservationsStore,
	csvOut port.DeviceTableCSVOut,
	reporter port.ScanReporter,
	opts ...Option,
) *App {
	a := &App{
		known:    known,
		active:   active,
		reserved: reserved,
		csvOut:   csvOut,
		reporter: reporter,
		log:      logrus.StandardLogger(),
		eventBus: NewEventBus(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// EventBus returns the bus the App publishes on
func (a *App) EventBus() *EventBus {
	return a.eventBus
}

// Scan loads the device table, records new devices in the known-devices
// store and reports the classification
func (a *App) Scan(ctx context.Context) (scan.Analysis, error) {
	table, err := a.load(ctx)
	if err != nil {
		return nil, err
	}
	if err := a.known.Save(ctx, table); err != nil {
		return nil, fmt.Errorf("save known devices: %w", err)
	}

	scanner := scan.New(table)
	scanner.Run()
	analysis := scanner.Analysis()

	if a.reporter != nil {
		if err := a.reporter.Report(analysis); err != nil {
			return nil, fmt.Errorf("report scan: %w", err)
		}
	}

	a.eventBus.Publish(Event{Type: EventScanCompleted, Payload: stats(table)})
	return analysis, nil
}

// Organize loads the device table, records new devices in the known-devices
// store and rewrites the fixed IP reservations so every persistable device
// has an address in the VLAN. Known devices are saved first; a failure while
// saving reservations does not undo that.
func (a *App) Organize(ctx context.Context) error {
	table, err := a.load(ctx)
	if err != nil {
		return err
	}
	if err := a.known.Save(ctx, table); err != nil {
		return fmt.Errorf("save known devices: %w", err)
	}
	if err := a.reserved.Save(ctx, table); err != nil {
		return fmt.Errorf("save fixed IP reservations: %w", err)
	}

	a.log.Infof("Organized %d devices", table.Len())
	a.eventBus.Publish(Event{Type: EventOrganized, Payload: stats(table)})
	return nil
}

// Export loads the device table and writes it in the given format
// (csv or json) to the CSV out port
func (a *App) Export(ctx context.Context, format string) error {
	if a.csvOut == nil {
		return fmt.Errorf("no output configured for export")
	}
	exporter, err := codec.ExporterFor(format)
	if err != nil {
		return err
	}

	table, err := a.load(ctx)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := exporter.Export(table, &buf); err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}
	if err := a.csvOut.Write(buf.String()); err != nil {
		return fmt.Errorf("write export: %w", err)
	}

	a.eventBus.Publish(Event{Type: EventExported, Payload: stats(table)})
	return nil
}

func (a *App) load(ctx context.Context) (*domain.DeviceTable, error) {
	l := loader.New(a.known, a.active, a.reserved, loader.WithLogger(a.log))
	table, err := l.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	a.eventBus.Publish(Event{Type: EventTableLoaded, Payload: stats(table)})
	return table, nil
}

func stats(t *domain.DeviceTable) TableStats {
	return TableStats{
		Devices:  t.Len(),
		Known:    t.Count(func(d *domain.Device) bool { return d.Known }),
		Reserved: t.Count(func(d *domain.Device) bool { return d.Reserved }),
		Active:   t.Count(func(d *domain.Device) bool { return d.Active }),
	}
}
