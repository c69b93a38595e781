package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netorg/internal/domain"
	"netorg/internal/netspace"
)

// ============================================================================
// Test Helpers
// ============================================================================

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// newTestStore creates a file-backed store in a temp dir
func newTestStore(t *testing.T, subnet string) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "netorg.db")
	store, err := New(path, subnet, WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

type row struct {
	mac, name, ip             string
	known, reserved, active bool
}

func newTable(rows ...row) *domain.DeviceTable {
	table := domain.NewDeviceTable()
	for _, r := range rows {
		d, _ := table.Upsert(r.mac)
		d.Name, d.IP = r.name, r.ip
		d.Known, d.Reserved, d.Active = r.known, r.reserved, r.active
	}
	return table
}

// ============================================================================
// Helper Function Tests
// ============================================================================

func TestNullHelpers(t *testing.T) {
	assert.Equal(t, "", nullToString(sql.NullString{}))
	assert.Equal(t, "x", nullToString(sql.NullString{String: "x", Valid: true}))
	assert.False(t, stringToNull("").Valid)
	assert.Equal(t, sql.NullString{String: "x", Valid: true}, stringToNull("x"))
}

// ============================================================================
// Reservations
// ============================================================================

func TestStore_LoadEmpty(t *testing.T) {
	store, _ := newTestStore(t, "192.168.128.0/24")
	reservations, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, reservations)

	_, ok, err := store.LastSave(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_SaveMapsAndPersists(t *testing.T) {
	store, path := newTestStore(t, "192.168.128.0/24")
	ctx := context.Background()

	table := newTable(
		row{mac: "aa:bb:cc:dd:ee:01", name: "tv", ip: "192.168.128.1", known: true, reserved: true},
		row{mac: "aa:bb:cc:dd:ee:02", name: "laptop", known: true},
		row{mac: "aa:bb:cc:dd:ee:03", name: "phone", ip: "192.168.128.50", active: true},
		row{mac: "aa:bb:cc:dd:ee:04", name: "gone", ip: "192.168.128.60", reserved: true},
	)
	require.NoError(t, store.Save(ctx, table))

	// the table itself received the allocated address
	assert.Equal(t, "192.168.128.2", table.Get("aa:bb:cc:dd:ee:02").IP)

	want := []domain.FixedIPReservation{
		{MAC: "aa:bb:cc:dd:ee:01", Name: "tv", IP: "192.168.128.1"},
		{MAC: "aa:bb:cc:dd:ee:02", Name: "laptop", IP: "192.168.128.2"},
		{MAC: "aa:bb:cc:dd:ee:03", Name: "phone", IP: "192.168.128.50"},
	}
	reservations, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, reservations)

	last, ok, err := store.LastSave(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, fixedNow, last)

	// survives reopening
	require.NoError(t, store.Close())
	reopened, err := New(path, "192.168.128.0/24")
	require.NoError(t, err)
	defer reopened.Close()
	reservations, err = reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, reservations)
}

func TestStore_SaveReplacesPrevious(t *testing.T) {
	store, _ := newTestStore(t, "10.0.0.0/24")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, newTable(
		row{mac: "aa:bb:cc:dd:ee:01", name: "a", ip: "10.0.0.5", known: true},
		row{mac: "aa:bb:cc:dd:ee:02", name: "b", ip: "10.0.0.6", known: true},
	)))
	require.NoError(t, store.Save(ctx, newTable(
		row{mac: "aa:bb:cc:dd:ee:02", name: "b", ip: "10.0.0.5", known: true},
	)))

	reservations, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.FixedIPReservation{
		{MAC: "aa:bb:cc:dd:ee:02", Name: "b", IP: "10.0.0.5"},
	}, reservations)
}

func TestStore_SaveMappingErrorWritesNothing(t *testing.T) {
	tests := []struct {
		name    string
		subnet  string
		rows    []row
		wantErr error
	}{
		{
			name:    "public subnet",
			subnet:  "8.8.8.0/24",
			rows:    []row{{mac: "aa:bb:cc:dd:ee:01", known: true}},
			wantErr: netspace.ErrValidation,
		},
		{
			name:   "duplicate address",
			subnet: "10.0.0.0/24",
			rows: []row{
				{mac: "aa:bb:cc:dd:ee:01", ip: "10.0.0.5", known: true},
				{mac: "aa:bb:cc:dd:ee:02", ip: "10.0.0.5", known: true},
			},
			wantErr: netspace.ErrAlreadyAllocated,
		},
		{
			name:    "address outside subnet",
			subnet:  "10.0.0.0/24",
			rows:    []row{{mac: "aa:bb:cc:dd:ee:01", ip: "10.0.1.5", active: true}},
			wantErr: netspace.ErrNotInNetwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _ := newTestStore(t, tt.subnet)
			err := store.Save(context.Background(), newTable(tt.rows...))
			assert.ErrorIs(t, err, tt.wantErr)

			reservations, err := store.Load(context.Background())
			require.NoError(t, err)
			assert.Empty(t, reservations)
		})
	}
}

// ============================================================================
// Leases
// ============================================================================

func TestStore_Leases(t *testing.T) {
	store, _ := newTestStore(t, "192.168.128.0/24")
	ctx := context.Background()

	require.NoError(t, store.RecordLeases(ctx, []domain.ActiveClient{
		{MAC: "aa:bb:cc:dd:ee:01", Name: "laptop", IP: "192.168.128.10"},
	}, fixedNow.Add(-time.Hour)))
	require.NoError(t, store.RecordLeases(ctx, []domain.ActiveClient{
		{MAC: "aa:bb:cc:dd:ee:02", Name: "phone", IP: "192.168.128.11"},
		{MAC: "aa:bb:cc:dd:ee:03", IP: "192.168.128.12"},
	}, fixedNow.Add(time.Hour)))

	source := NewLeaseSource(store)
	assert.Equal(t, "sqlite", source.Name())

	clients, err := source.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.ActiveClient{
		{MAC: "aa:bb:cc:dd:ee:02", Name: "phone", IP: "192.168.128.11"},
		{MAC: "aa:bb:cc:dd:ee:03", Name: "", IP: "192.168.128.12"},
	}, clients)

	// renewing keeps a known hostname when the renewal carries none
	require.NoError(t, store.RecordLeases(ctx, []domain.ActiveClient{
		{MAC: "aa:bb:cc:dd:ee:02", IP: "192.168.128.20"},
	}, fixedNow.Add(2*time.Hour)))
	clients, err = source.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ActiveClient{MAC: "aa:bb:cc:dd:ee:02", Name: "phone", IP: "192.168.128.20"}, clients[0])

	pruned, err := store.PruneLeases(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)
}
