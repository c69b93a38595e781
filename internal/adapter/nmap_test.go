package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	nmap "github.com/Ullaakut/nmap/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netorg/internal/domain"
)

// TestNmapSource_Options tests option functions
func TestNmapSource_Options(t *testing.T) {
	tests := []struct {
		name           string
		opts           []NmapOption
		wantTimeout    time.Duration
		wantPrivileged bool
	}{
		{"default configuration", nil, 2 * time.Minute, false},
		{"with timeout", []NmapOption{WithTimeout(30 * time.Second)}, 30 * time.Second, false},
		{"zero timeout ignored", []NmapOption{WithTimeout(0)}, 2 * time.Minute, false},
		{"privileged", []NmapOption{WithPrivileged(true)}, 2 * time.Minute, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNmapSource("192.168.128.0/24", tt.opts...)
			assert.Equal(t, "192.168.128.0/24", n.subnet)
			assert.Equal(t, tt.wantTimeout, n.timeout)
			assert.Equal(t, tt.wantPrivileged, n.privileged)
			assert.Equal(t, "nmap", n.Name())
		})
	}
}

func sweepResult() *nmap.Run {
	return &nmap.Run{
		Hosts: []nmap.Host{
			{
				Addresses: []nmap.Address{
					{Addr: "192.168.128.100", AddrType: "ipv4"},
					{Addr: "AA:BB:CC:DD:EE:FF", AddrType: "mac", Vendor: "Test Vendor"},
				},
				Hostnames: []nmap.Hostname{{Name: "testhost.local"}},
				Status:    nmap.Status{State: "up"},
			},
			{
				Addresses: []nmap.Address{
					{Addr: "192.168.128.101", AddrType: "ipv4"},
					{Addr: "11:22:33:44:55:66", AddrType: "mac", Vendor: "Sonos"},
				},
				Status: nmap.Status{State: "up"},
			},
			{
				// the scanning host itself has no MAC in nmap output
				Addresses: []nmap.Address{{Addr: "192.168.128.2", AddrType: "ipv4"}},
				Status:    nmap.Status{State: "up"},
			},
			{
				Addresses: []nmap.Address{
					{Addr: "192.168.128.150", AddrType: "ipv4"},
					{Addr: "66:55:44:33:22:11", AddrType: "mac"},
				},
				Status: nmap.Status{State: "down"},
			},
		},
	}
}

// TestNmapSource_ParseResults tests parsing of mock nmap results
func TestNmapSource_ParseResults(t *testing.T) {
	n := NewNmapSource("192.168.128.0/24")

	clients, err := n.processResults(sweepResult())
	require.NoError(t, err)
	assert.Equal(t, []domain.ActiveClient{
		{MAC: "aa:bb:cc:dd:ee:ff", Name: "testhost", IP: "192.168.128.100"},
		{MAC: "11:22:33:44:55:66", Name: "Sonos", IP: "192.168.128.101"},
	}, clients)

	_, err = n.processResults(nil)
	assert.Error(t, err)
}

func TestNmapSource_Load(t *testing.T) {
	var gotOpts int
	run := func(ctx context.Context, opts ...nmap.Option) (*nmap.Run, []string, error) {
		gotOpts = len(opts)
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return sweepResult(), []string{"RTTVAR has grown"}, nil
	}

	n := NewNmapSource("192.168.128.0/24", WithPrivileged(true), withRunner(run))
	clients, err := n.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, clients, 2)
	assert.Equal(t, 4, gotOpts)
}

func TestNmapSource_LoadError(t *testing.T) {
	boom := errors.New("nmap binary not found")
	run := func(ctx context.Context, opts ...nmap.Option) (*nmap.Run, []string, error) {
		return nil, nil, boom
	}

	_, err := NewNmapSource("10.0.0.0/24", withRunner(run)).Load(context.Background())
	assert.ErrorIs(t, err, boom)
}
