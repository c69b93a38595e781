package loader

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"netorg/internal/domain"
	"netorg/internal/port/porttest"
)

// Fixture MACs spell out known/reserved/active: a = no, b = yes.
var (
	knownFixture = []domain.KnownDevice{
		{Name: "Meerkat", MAC: "baa", Group: "servers"},
		{Name: "Office Printer", MAC: "bab", Group: "printers"},
		{Name: "Front Doorbell", MAC: "bba", Group: "security"},
		{Name: "Driveway camera", MAC: "bbb", Group: "security"},
	}
	activeFixture = []domain.ActiveClient{
		{MAC: "aab", Name: "HS105", IP: "192.168.128.201"},
		{MAC: "abb", Name: "HS105", IP: "192.168.128.202"},
		{MAC: "bab", Name: "Office Printer", IP: "192.168.128.203"},
		{MAC: "bbb", Name: "Driveway camera", IP: "192.168.128.204"},
	}
	reservedFixture = []domain.FixedIPReservation{
		{MAC: "aba", IP: "192.168.128.191", Name: "Work Laptop"},
		{MAC: "abb", IP: "192.168.128.202", Name: "HS105"},
		{MAC: "bba", IP: "192.168.128.191", Name: "Echo 1"},
		{MAC: "bbb", IP: "192.168.128.205", Name: "Echo 2"},
	}
)

func newFixtureLoader() *Loader {
	return New(
		porttest.NewKnownDevices(knownFixture...),
		porttest.NewActiveClients(activeFixture...),
		porttest.NewFixedIPReservations("192.168.128.0/24", reservedFixture...),
	)
}

func isKnown(d *domain.Device) bool    { return d.Known }
func isActive(d *domain.Device) bool   { return d.Active }
func isReserved(d *domain.Device) bool { return d.Reserved }

func TestLoadKnown(t *testing.T) {
	table, err := newFixtureLoader().LoadKnown(context.Background())
	require.NoError(t, err)

	assert.Equal(t, len(knownFixture), table.Count(isKnown))
	assert.Zero(t, table.Count(isActive))
	assert.Zero(t, table.Count(isReserved))
}

func TestLoadActive(t *testing.T) {
	table, err := newFixtureLoader().LoadActive(context.Background())
	require.NoError(t, err)

	assert.Zero(t, table.Count(isKnown))
	assert.Equal(t, len(activeFixture), table.Count(isActive))
	assert.Zero(t, table.Count(isReserved))
	for _, d := range table.Rows() {
		assert.Equal(t, domain.GroupUnclassified, d.Group)
	}
}

func TestLoadReserved(t *testing.T) {
	table, err := newFixtureLoader().LoadReserved(context.Background())
	require.NoError(t, err)

	assert.Zero(t, table.Count(isKnown))
	assert.Zero(t, table.Count(isActive))
	assert.Equal(t, len(reservedFixture), table.Count(isReserved))
}

func TestLoadAll(t *testing.T) {
	table, err := newFixtureLoader().LoadAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, 7, table.Len())

	assert.ElementsMatch(t, []string{"baa", "bab", "bba", "bbb"}, table.MACs(isKnown))
	assert.ElementsMatch(t, []string{"aab", "abb", "bab", "bbb"}, table.MACs(isActive))
	assert.ElementsMatch(t, []string{"aba", "abb", "bba", "bbb"}, table.MACs(isReserved))

	assert.ElementsMatch(t, []string{"bab", "bbb"}, table.MACs(func(d *domain.Device) bool { return d.Known && d.Active }))
	assert.ElementsMatch(t, []string{"bba", "bbb"}, table.MACs(func(d *domain.Device) bool { return d.Known && d.Reserved }))
	assert.ElementsMatch(t, []string{"abb", "bbb"}, table.MACs(func(d *domain.Device) bool { return d.Active && d.Reserved }))
	assert.ElementsMatch(t, []string{"bbb"}, table.MACs(func(d *domain.Device) bool { return d.Known && d.Active && d.Reserved }))
}

func TestLoadAll_Precedence(t *testing.T) {
	table, err := newFixtureLoader().LoadAll(context.Background())
	require.NoError(t, err)

	tests := []struct {
		mac   string
		name  string
		group string
		ip    string
	}{
		{"baa", "Meerkat", "servers", ""},
		{"bab", "Office Printer", "printers", "192.168.128.203"},
		// known name beats reserved name
		{"bba", "Front Doorbell", "security", "192.168.128.191"},
		// active address beats reserved address
		{"bbb", "Driveway camera", "security", "192.168.128.204"},
		{"aab", "HS105", domain.GroupUnclassified, "192.168.128.201"},
		{"aba", "Work Laptop", domain.GroupUnclassified, "192.168.128.191"},
	}

	for _, tt := range tests {
		t.Run(tt.mac, func(t *testing.T) {
			d := table.Get(tt.mac)
			require.NotNil(t, d)
			assert.Equal(t, tt.name, d.Name)
			assert.Equal(t, tt.group, d.Group)
			assert.Equal(t, tt.ip, d.IP)
		})
	}
}

func TestLoad_NameFallsThroughEmptyNames(t *testing.T) {
	table := Merge(
		[]domain.KnownDevice{{MAC: "m1", Group: "lab"}},
		[]domain.ActiveClient{{MAC: "m1", IP: "10.0.0.2"}},
		[]domain.FixedIPReservation{{MAC: "m1", Name: "from-reservation", IP: "10.0.0.9"}},
	)

	d := table.Get("m1")
	assert.Equal(t, "from-reservation", d.Name)
	assert.Equal(t, "10.0.0.2", d.IP)
	assert.Equal(t, "lab", d.Group)
}

func TestLoad_KnownWithoutGroupIsUnclassified(t *testing.T) {
	table := Merge([]domain.KnownDevice{{MAC: "m1", Name: "x"}}, nil, nil)
	assert.Equal(t, domain.GroupUnclassified, table.Get("m1").Group)
}

func TestMerge_OrderIndependent(t *testing.T) {
	want := Merge(knownFixture, activeFixture, reservedFixture).Snapshot()

	orders := [][]Pass{
		{PassKnown, PassActive, PassReserved},
		{PassKnown, PassReserved, PassActive},
		{PassActive, PassKnown, PassReserved},
		{PassActive, PassReserved, PassKnown},
		{PassReserved, PassKnown, PassActive},
		{PassReserved, PassActive, PassKnown},
	}
	for _, order := range orders {
		t.Run(order[0].String()+"-"+order[1].String()+"-"+order[2].String(), func(t *testing.T) {
			got := Merge(knownFixture, activeFixture, reservedFixture, order...).Snapshot()
			assert.Equal(t, want, got)

			table, err := newFixtureLoader().Load(context.Background(), order...)
			require.NoError(t, err)
			assert.Equal(t, want, table.Snapshot())
		})
	}
}

func TestLoad_NilSourcesSkipped(t *testing.T) {
	l := New(porttest.NewKnownDevices(knownFixture...), nil, nil)
	table, err := l.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(knownFixture), table.Len())
}

func TestLoad_SourceErrorPropagates(t *testing.T) {
	boom := errors.New("dhcp server unreachable")
	active := porttest.NewActiveClients()
	active.Err = boom

	l := New(porttest.NewKnownDevices(knownFixture...), active, nil)
	table, err := l.LoadAll(context.Background())
	assert.Nil(t, table)
	assert.ErrorIs(t, err, boom)
}

func TestLoad_WarnsOnMACCaseMismatch(t *testing.T) {
	log, hook := test.NewNullLogger()
	l := New(
		porttest.NewKnownDevices(domain.KnownDevice{Name: "tv", MAC: "AA:BB:CC:DD:EE:01", Group: "media"}),
		porttest.NewActiveClients(domain.ActiveClient{MAC: "aa:bb:cc:dd:ee:01", IP: "192.168.128.10"}),
		nil,
		WithLogger(log),
	)

	table, err := l.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	require.Len(t, hook.AllEntries(), 1)
	entry := hook.LastEntry()
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Contains(t, entry.Message, "AA:BB:CC:DD:EE:01")
	assert.Contains(t, entry.Message, "aa:bb:cc:dd:ee:01")
}
