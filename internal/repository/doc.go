// Package repository defines the data access interface for netorg's
// database. The implementation lives in the sqlite subpackage.
//
// The database holds two tables. reservations is the DHCP server's fixed
// IP reservation list: saving it first maps the device table into the VLAN
// subnet, so every persisted device has an address. leases records DHCP
// leases with an expiry and backs the "sqlite" active clients source.
package repository
