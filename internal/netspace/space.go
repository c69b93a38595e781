package netspace

import (
	"errors"
	"fmt"
	"net"
	"sort"
	"strings"
)

var (
	// ErrValidation is wrapped by every input validation failure in this package
	ErrValidation = errors.New("validation error")

	ErrInvalidCIDR      = fmt.Errorf("%w: not an IPv4 CIDR", ErrValidation)
	ErrHostBitsSet      = fmt.Errorf("%w: CIDR has host bits set", ErrValidation)
	ErrNotPrivate       = fmt.Errorf("%w: CIDR is not a private network", ErrValidation)
	ErrNotInNetwork     = fmt.Errorf("%w: address is not in the network", ErrValidation)
	ErrAlreadyAllocated = fmt.Errorf("%w: address is already allocated", ErrValidation)

	// ErrNetworkOutOfSpace is returned when every host address is in use.
	// Retrying does not help: the subnet is fully consumed.
	ErrNetworkOutOfSpace = errors.New("network is out of space")
)

var privateBlocks = mustParseCIDRs("10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16")

// Space is a private IPv4 block seen as a pool of allocatable host
// addresses. The host addresses are every address strictly between the
// network address and the broadcast address. An address is used iff it is in
// the used set; every other host address is unused.
type Space struct {
	network *net.IPNet
	first   uint32
	last    uint32
	used    map[uint32]struct{}
}

// New builds the address space for cidr. The CIDR must be IPv4, must name
// the network's base address and must lie within 10.0.0.0/8, 172.16.0.0/12
// or 192.168.0.0/16.
func New(cidr string) (*Space, error) {
	ip, network, err := net.ParseCIDR(cidr)
	if err != nil || ip.To4() == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCIDR, cidr)
	}
	// IPv4-mapped IPv6 blocks parse with a 128 bit mask
	if _, bits := network.Mask.Size(); bits != 8*net.IPv4len || len(network.IP) != net.IPv4len {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCIDR, cidr)
	}
	if !ip.Equal(network.IP) {
		return nil, fmt.Errorf("%w: %q (network address is %s)", ErrHostBitsSet, cidr, network)
	}
	if !isPrivate(network) {
		return nil, fmt.Errorf("%w: %q", ErrNotPrivate, cidr)
	}

	base, _ := ipToInt(network.IP)
	broadcast := lastIPInBlockInt(network)

	s := &Space{
		network: network,
		used:    make(map[uint32]struct{}),
	}
	// A /31 or /32 has nothing strictly between its endpoints
	if broadcast-base >= 2 {
		s.first = base + 1
		s.last = broadcast - 1
	} else {
		s.first = 1
		s.last = 0
	}
	return s, nil
}

// CIDR returns the normalized network block
func (s *Space) CIDR() string {
	return s.network.String()
}

// Size returns the number of host addresses
func (s *Space) Size() int {
	if s.last < s.first {
		return 0
	}
	return int(s.last-s.first) + 1
}

// Contains reports whether ip is one of the host addresses
func (s *Space) Contains(ip string) bool {
	n, ok := s.parse(ip)
	return ok && s.inRange(n)
}

// IsUsed reports whether ip has been allocated
func (s *Space) IsUsed(ip string) bool {
	n, ok := s.parse(ip)
	if !ok {
		return false
	}
	_, used := s.used[n]
	return used
}

// AddressSet returns every host address in ascending order
func (s *Space) AddressSet() []string {
	return s.collect(func(uint32) bool { return true })
}

// UsedSet returns the allocated host addresses in ascending order
func (s *Space) UsedSet() []string {
	addrs := make([]uint32, 0, len(s.used))
	for n := range s.used {
		addrs = append(addrs, n)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })

	out := make([]string, 0, len(addrs))
	for _, n := range addrs {
		out = append(out, intToIP(n).String())
	}
	return out
}

// UnusedSet returns the host addresses still available, in ascending order
func (s *Space) UnusedSet() []string {
	return s.collect(func(n uint32) bool {
		_, used := s.used[n]
		return !used
	})
}

// AllocateAddress takes the numerically smallest unused address
func (s *Space) AllocateAddress() (string, error) {
	if s.last < s.first {
		return "", fmt.Errorf("%w: %s", ErrNetworkOutOfSpace, s.network)
	}
	for n := s.first; ; n++ {
		if _, used := s.used[n]; !used {
			s.used[n] = struct{}{}
			return intToIP(n).String(), nil
		}
		if n == s.last {
			break
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNetworkOutOfSpace, s.network)
}

// AllocateSpecificAddress marks ip as used. It fails without touching the
// pool when ip is not a host address of the block or is already in use.
func (s *Space) AllocateSpecificAddress(ip string) (string, error) {
	n, ok := s.parse(ip)
	if !ok || !s.inRange(n) {
		return "", fmt.Errorf("%w: %s not in %s", ErrNotInNetwork, ip, s.network)
	}
	if _, used := s.used[n]; used {
		return "", fmt.Errorf("%w: %s", ErrAlreadyAllocated, ip)
	}
	s.used[n] = struct{}{}
	return intToIP(n).String(), nil
}

func (s *Space) collect(keep func(uint32) bool) []string {
	if s.last < s.first {
		return []string{}
	}
	out := make([]string, 0, s.Size())
	for n := s.first; ; n++ {
		if keep(n) {
			out = append(out, intToIP(n).String())
		}
		if n == s.last {
			break
		}
	}
	return out
}

func (s *Space) inRange(n uint32) bool {
	return n >= s.first && n <= s.last
}

// parse accepts dotted-decimal IPv4 only
func (s *Space) parse(ip string) (uint32, bool) {
	if strings.Contains(ip, ":") {
		return 0, false
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return 0, false
	}
	n, err := ipToInt(parsed)
	if err != nil {
		return 0, false
	}
	return n, true
}

func isPrivate(network *net.IPNet) bool {
	ones, _ := network.Mask.Size()
	for _, block := range privateBlocks {
		blockOnes, _ := block.Mask.Size()
		if ones >= blockOnes && block.Contains(network.IP) {
			return true
		}
	}
	return false
}

// ValidateCIDR checks cidr against the same rules as New
func ValidateCIDR(cidr string) error {
	_, err := New(cidr)
	return err
}

func mustParseCIDRs(cidrs ...string) []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(cidrs))
	for _, c := range cidrs {
		_, n, err := net.ParseCIDR(c)
		if err != nil {
			panic(err)
		}
		nets = append(nets, n)
	}
	return nets
}
