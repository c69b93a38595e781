package domain

// DeviceTable is the in-memory set of devices keyed by MAC address.
// Iteration follows insertion order so that anything walking the table
// (the network mapper in particular) behaves the same on every run.
type DeviceTable struct {
	order   []string
	devices map[string]*Device
}

// NewDeviceTable creates an empty device table
func NewDeviceTable() *DeviceTable {
	return &DeviceTable{
		order:   make([]string, 0),
		devices: make(map[string]*Device),
	}
}

// Upsert returns the row for mac, creating it first if needed.
// The second return value is true when the row was created.
func (t *DeviceTable) Upsert(mac string) (*Device, bool) {
	if d, ok := t.devices[mac]; ok {
		return d, false
	}
	d := &Device{MAC: mac, Group: GroupUnclassified}
	t.devices[mac] = d
	t.order = append(t.order, mac)
	return d, true
}

// Get returns the row for mac or nil
func (t *DeviceTable) Get(mac string) *Device {
	return t.devices[mac]
}

// Len returns the number of rows
func (t *DeviceTable) Len() int {
	return len(t.order)
}

// Rows returns every row in insertion order. The pointers are live: writing
// through them mutates the table.
func (t *DeviceTable) Rows() []*Device {
	rows := make([]*Device, 0, len(t.order))
	for _, mac := range t.order {
		rows = append(rows, t.devices[mac])
	}
	return rows
}

// Filter returns the rows matching pred in insertion order
func (t *DeviceTable) Filter(pred Predicate) []*Device {
	var rows []*Device
	for _, mac := range t.order {
		if d := t.devices[mac]; pred(d) {
			rows = append(rows, d)
		}
	}
	return rows
}

// MACs returns the MAC of every row matching pred
func (t *DeviceTable) MACs(pred Predicate) []string {
	var macs []string
	for _, d := range t.Filter(pred) {
		macs = append(macs, d.MAC)
	}
	return macs
}

// Count returns the number of rows matching pred
func (t *DeviceTable) Count(pred Predicate) int {
	n := 0
	for _, mac := range t.order {
		if pred(t.devices[mac]) {
			n++
		}
	}
	return n
}

// Groups returns the distinct groups in order of first appearance
func (t *DeviceTable) Groups() []string {
	seen := make(map[string]bool)
	var groups []string
	for _, mac := range t.order {
		g := t.devices[mac].Group
		if !seen[g] {
			seen[g] = true
			groups = append(groups, g)
		}
	}
	return groups
}

// Snapshot returns a copy of every row keyed by MAC, for comparisons
func (t *DeviceTable) Snapshot() map[string]Device {
	snap := make(map[string]Device, len(t.devices))
	for mac, d := range t.devices {
		snap[mac] = *d
	}
	return snap
}
