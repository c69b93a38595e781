package netspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netorg/internal/domain"
)

func newTable(t *testing.T, rows ...domain.Device) *domain.DeviceTable {
	t.Helper()
	table := domain.NewDeviceTable()
	for _, r := range rows {
		d, created := table.Upsert(r.MAC)
		require.True(t, created, "duplicate MAC %s in fixture", r.MAC)
		*d = r
	}
	return table
}

func TestMap_FillsMissingAddresses(t *testing.T) {
	table := newTable(t,
		domain.Device{MAC: "aa", Name: "Laptop", IP: "192.168.128.2", Active: true},
		domain.Device{MAC: "bb", Name: "Printer", IP: "192.168.128.1", Reserved: true},
		domain.Device{MAC: "cc", Name: "Camera", Known: true},
		domain.Device{MAC: "dd", Name: "Doorbell", IP: "192.168.128.10", Active: true},
	)

	m := NewMapper("192.168.128.0/24")
	require.NoError(t, m.Map(table))

	assert.Zero(t, table.Count(domain.WithoutIP))
	assert.Equal(t, "192.168.128.3", table.Get("cc").IP)
	assert.Equal(t, []string{"192.168.128.1", "192.168.128.2", "192.168.128.3", "192.168.128.10"}, m.Space().UsedSet())
}

func TestMap_AllocatesInTableOrder(t *testing.T) {
	table := newTable(t,
		domain.Device{MAC: "z", Known: true},
		domain.Device{MAC: "a", Known: true},
		domain.Device{MAC: "m", Known: true},
	)

	require.NoError(t, MapToNetworkSpace("10.0.0.0/29", table))
	assert.Equal(t, "10.0.0.1", table.Get("z").IP)
	assert.Equal(t, "10.0.0.2", table.Get("a").IP)
	assert.Equal(t, "10.0.0.3", table.Get("m").IP)
}

func TestMap_DuplicateAddress(t *testing.T) {
	table := newTable(t,
		domain.Device{MAC: "aa", IP: "192.168.128.5", Active: true},
		domain.Device{MAC: "bb", IP: "192.168.128.5", Reserved: true, Known: true},
	)

	err := MapToNetworkSpace("192.168.128.0/24", table)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlreadyAllocated)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestMap_AddressOutsideSubnet(t *testing.T) {
	table := newTable(t,
		domain.Device{MAC: "aa", IP: "10.0.0.5", Active: true},
	)

	err := MapToNetworkSpace("192.168.128.0/24", table)
	assert.ErrorIs(t, err, ErrNotInNetwork)
}

func TestMap_MappedIPv6AddressRejected(t *testing.T) {
	table := newTable(t,
		domain.Device{MAC: "aa", IP: "::ffff:192.168.128.10", Active: true},
	)

	err := MapToNetworkSpace("192.168.128.0/24", table)
	assert.ErrorIs(t, err, ErrNotInNetwork)
	assert.Equal(t, "::ffff:192.168.128.10", table.Get("aa").IP)
}

func TestMap_InvalidSubnet(t *testing.T) {
	table := newTable(t, domain.Device{MAC: "aa", Known: true})

	for _, subnet := range []string{"192.168.128.22/24", "8.8.8.0/24", "nope", "::ffff:192.168.128.0/120"} {
		t.Run(subnet, func(t *testing.T) {
			err := MapToNetworkSpace(subnet, table)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Empty(t, table.Get("aa").IP)
		})
	}
}

func TestMap_ExhaustionLeavesPartialState(t *testing.T) {
	table := newTable(t,
		domain.Device{MAC: "a", Known: true},
		domain.Device{MAC: "b", Known: true},
		domain.Device{MAC: "c", Known: true},
	)

	err := MapToNetworkSpace("192.168.128.252/30", table)
	require.ErrorIs(t, err, ErrNetworkOutOfSpace)

	// Not transactional: the first two rows keep their addresses
	assert.Equal(t, "192.168.128.253", table.Get("a").IP)
	assert.Equal(t, "192.168.128.254", table.Get("b").IP)
	assert.Empty(t, table.Get("c").IP)
}
