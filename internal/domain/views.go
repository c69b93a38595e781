package domain

// KnownDevicesView derives the known-devices list a sink should persist.
// Stale reservations are left out and an empty group becomes unclassified.
func KnownDevicesView(t *DeviceTable) []KnownDevice {
	var out []KnownDevice
	for _, d := range t.Filter(IsPersistable) {
		group := d.Group
		if group == "" {
			group = GroupUnclassified
		}
		out = append(out, KnownDevice{Name: d.Name, MAC: d.MAC, Group: group})
	}
	return out
}

// ReservationsView derives the reservation list a sink should persist. The
// table is expected to be mapped onto the network already; rows that still
// have no address are left out along with stale reservations.
func ReservationsView(t *DeviceTable) []FixedIPReservation {
	var out []FixedIPReservation
	for _, d := range t.Filter(IsPersistable) {
		if !d.HasIP() {
			continue
		}
		out = append(out, FixedIPReservation{MAC: d.MAC, Name: d.Name, IP: d.IP})
	}
	return out
}

// Reservation is the value side of GenerateReservations
type Reservation struct {
	IP   string `json:"ip"`
	Name string `json:"name"`
}

// GenerateReservations returns the reservation set keyed by MAC
func GenerateReservations(t *DeviceTable) map[string]Reservation {
	out := make(map[string]Reservation)
	for _, r := range ReservationsView(t) {
		out[r.MAC] = Reservation{IP: r.IP, Name: r.Name}
	}
	return out
}
