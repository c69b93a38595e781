// Package netspace models a private IPv4 subnet as a finite pool of host
// addresses and maps device tables onto it.
//
// Space tracks which host addresses are used. AllocateAddress hands out the
// numerically smallest unused address; AllocateSpecificAddress claims a given
// one. Invalid input fails with an error wrapping ErrValidation; an empty
// pool fails with ErrNetworkOutOfSpace.
//
// Mapper seeds a Space with the addresses a device table already holds and
// then fills in the devices that have none.
package netspace
