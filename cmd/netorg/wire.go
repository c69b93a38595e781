package main

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"netorg/internal/adapter"
	"netorg/internal/config"
	"netorg/internal/port"
	"netorg/internal/report"
	"netorg/internal/repository/sqlite"
	"netorg/internal/service"
)

// openStore opens the reservations database named by the config
func (c *cli) openStore() (*sqlite.Store, error) {
	store, err := sqlite.New(c.cfg.ReservationsPath(), c.cfg.VLANSubnet, sqlite.WithLogger(c.log))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", c.cfg.ReservationsPath(), err)
	}
	return store, nil
}

// buildApp wires the adapters selected by the config into an App. The
// returned func closes the database.
func (c *cli) buildApp() (*service.App, func(), error) {
	if err := c.cfg.Validate(); err != nil {
		return nil, nil, err
	}

	store, err := c.openStore()
	if err != nil {
		return nil, nil, err
	}

	registry := adapter.DefaultRegistry()
	registry.MustRegister(config.SourceSQLite, func(cfg *config.Config, log logrus.FieldLogger) (port.ActiveClientsSource, error) {
		return sqlite.NewLeaseSource(store), nil
	})
	active, err := registry.Build(c.cfg, c.log)
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	known := adapter.NewKnownDevicesFile(c.cfg.DevicesPath(), adapter.WithLogger(c.log))
	app := service.New(
		known,
		active,
		store,
		report.NewCSVOut(c.out),
		report.NewConsole(c.out),
		service.WithLogger(c.log),
	)
	return app, func() { store.Close() }, nil
}
