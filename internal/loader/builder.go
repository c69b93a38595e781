package loader

import (
	"netorg/internal/domain"
)

// Source precedence. Higher wins regardless of the order entries arrive in.
const (
	rankNone = iota
	rankReserved
	rankActive
	rankKnown
)

// Builder folds source entries into a device table. Name and IP precedence
// are resolved by rank rather than by arrival order, so the same entries
// produce the same rows whichever source is added first.
type Builder struct {
	table    *domain.DeviceTable
	nameRank map[string]int
	ipRank   map[string]int
}

// NewBuilder creates an empty builder
func NewBuilder() *Builder {
	return &Builder{
		table:    domain.NewDeviceTable(),
		nameRank: make(map[string]int),
		ipRank:   make(map[string]int),
	}
}

// AddKnown merges known devices. A known device always takes the entry's
// group; an empty group is read as unclassified.
func (b *Builder) AddKnown(devices []domain.KnownDevice) {
	for _, k := range devices {
		d, _ := b.table.Upsert(k.MAC)
		d.Known = true
		d.Group = k.Group
		if d.Group == "" {
			d.Group = domain.GroupUnclassified
		}
		b.setName(d, k.Name, rankKnown)
	}
}

// AddActive merges active clients
func (b *Builder) AddActive(clients []domain.ActiveClient) {
	for _, a := range clients {
		d, _ := b.table.Upsert(a.MAC)
		d.Active = true
		b.setName(d, a.Name, rankActive)
		b.setIP(d, a.IP, rankActive)
	}
}

// AddReserved merges fixed IP reservations
func (b *Builder) AddReserved(reservations []domain.FixedIPReservation) {
	for _, r := range reservations {
		d, _ := b.table.Upsert(r.MAC)
		d.Reserved = true
		b.setName(d, r.Name, rankReserved)
		b.setIP(d, r.IP, rankReserved)
	}
}

// Build returns the table. The builder must not be used afterwards.
func (b *Builder) Build() *domain.DeviceTable {
	return b.table
}

func (b *Builder) setName(d *domain.Device, name string, rank int) {
	if name == "" || b.nameRank[d.MAC] >= rank {
		return
	}
	d.Name = name
	b.nameRank[d.MAC] = rank
}

func (b *Builder) setIP(d *domain.Device, ip string, rank int) {
	if ip == "" || b.ipRank[d.MAC] >= rank {
		return
	}
	d.IP = ip
	b.ipRank[d.MAC] = rank
}
