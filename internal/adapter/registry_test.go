package adapter

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netorg/internal/config"
	"netorg/internal/domain"
	"netorg/internal/port"
)

type staticSource []domain.ActiveClient

func (s staticSource) Load(ctx context.Context) ([]domain.ActiveClient, error) {
	return s, nil
}

func TestDefaultRegistry_Names(t *testing.T) {
	assert.Equal(t, []string{"dnsmasq", "nmap", "snmp"}, DefaultRegistry().Names())
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	f := func(cfg *config.Config, log logrus.FieldLogger) (port.ActiveClientsSource, error) {
		return staticSource(nil), nil
	}
	require.NoError(t, r.Register("static", f))
	assert.Error(t, r.Register("static", f))
	assert.Panics(t, func() { r.MustRegister("static", f) })
}

func TestRegistry_Build(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.VLANSubnet = "192.168.128.0/24"

	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		want    any
		wantErr bool
	}{
		{"nmap", func(c *config.Config) { c.ActiveClients.Source = config.SourceNmap }, &NmapSource{}, false},
		{"snmp", func(c *config.Config) {
			c.ActiveClients.Source = config.SourceSNMP
			c.ActiveClients.SNMP.Target = "192.168.128.1"
		}, &SNMPSource{}, false},
		{"snmp without target", func(c *config.Config) { c.ActiveClients.Source = config.SourceSNMP }, nil, true},
		{"dnsmasq", func(c *config.Config) {
			c.ActiveClients.Source = config.SourceDnsmasq
			c.ActiveClients.Dnsmasq.Host = "router"
			c.ActiveClients.Dnsmasq.Password = "secret"
		}, &DnsmasqSource{}, false},
		{"unknown", func(c *config.Config) { c.ActiveClients.Source = "carrier-pigeon" }, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := *cfg
			tt.mutate(&c)
			src, err := DefaultRegistry().Build(&c, logrus.StandardLogger())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, src)
		})
	}
}

func TestRegistry_BuildCustom(t *testing.T) {
	r := NewRegistry()
	r.MustRegister("static", func(cfg *config.Config, log logrus.FieldLogger) (port.ActiveClientsSource, error) {
		return staticSource{{MAC: "aa:bb:cc:dd:ee:01", IP: "10.0.0.2"}}, nil
	})

	cfg := config.DefaultConfig()
	cfg.ActiveClients.Source = "static"
	src, err := r.Build(cfg, logrus.StandardLogger())
	require.NoError(t, err)

	clients, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, clients, 1)
}
