package adapter

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"netorg/internal/config"
	"netorg/internal/port"
)

// Factory builds an active clients source from the configuration
type Factory func(cfg *config.Config, log logrus.FieldLogger) (port.ActiveClientsSource, error)

// Registry maps active_clients.source names to factories
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry holds the nmap, snmp and dnsmasq sources. Sources living
// outside this package (the sqlite lease table) register themselves at
// wiring time.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(config.SourceNmap, func(cfg *config.Config, log logrus.FieldLogger) (port.ActiveClientsSource, error) {
		return NewNmapSource(cfg.VLANSubnet,
			WithTimeout(cfg.ActiveClients.Nmap.Timeout()),
			WithPrivileged(cfg.ActiveClients.Nmap.Privileged),
			WithNmapLogger(log),
		), nil
	})
	r.MustRegister(config.SourceSNMP, func(cfg *config.Config, log logrus.FieldLogger) (port.ActiveClientsSource, error) {
		return NewSNMPSource(cfg.ActiveClients.SNMP, cfg.VLANSubnet, WithLogger(log))
	})
	r.MustRegister(config.SourceDnsmasq, func(cfg *config.Config, log logrus.FieldLogger) (port.ActiveClientsSource, error) {
		return NewDnsmasqSource(cfg.ActiveClients.Dnsmasq, WithLogger(log))
	})
	return r
}

// Register adds a factory
func (r *Registry) Register(name string, f Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("active clients source %s already registered", name)
	}
	r.factories[name] = f
	return nil
}

// MustRegister is Register for wiring code; it panics on a duplicate name
func (r *Registry) MustRegister(name string, f Factory) {
	if err := r.Register(name, f); err != nil {
		panic(err)
	}
}

// Names returns the registered source names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build creates the source selected by cfg.ActiveClients.Source
func (r *Registry) Build(cfg *config.Config, log logrus.FieldLogger) (port.ActiveClientsSource, error) {
	r.mu.RLock()
	f, ok := r.factories[cfg.ActiveClients.Source]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown active clients source %q (have %v)", cfg.ActiveClients.Source, r.Names())
	}
	src, err := f(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("create %s source: %w", cfg.ActiveClients.Source, err)
	}
	log.Debugf("Active clients source: %s", cfg.ActiveClients.Source)
	return src, nil
}
