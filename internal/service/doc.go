// Package service implements the netorg use cases on top of the ports.
//
// App.Scan loads the device table from the known-devices, active-clients
// and fixed-reservation sources, adds newly seen devices to the known
// devices, and reports how every device is classified.
//
// App.Organize does the same load and save, then rewrites the fixed IP
// reservations after mapping every device into the VLAN subnet.
//
// App.Export writes the device table as CSV or JSON.
//
// Completed use cases are published on the App's EventBus.
package service
