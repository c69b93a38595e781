package netspace

import (
	"encoding/binary"
	"fmt"
	"net"
)

func ipToInt(ip net.IP) (uint32, error) {
	ip4 := ip.To4()
	if ip4 == nil {
		return 0, fmt.Errorf("invalid IPv4 address %s", ip)
	}
	return binary.BigEndian.Uint32(ip4), nil
}

func intToIP(ipInt uint32) net.IP {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, ipInt)
	return net.IP(buf)
}

// lastIPInBlockInt returns the broadcast address of block
func lastIPInBlockInt(block *net.IPNet) uint32 {
	prefixLength, _ := block.Mask.Size()
	capacity := uint64(1) << (32 - prefixLength)

	ipInt, err := ipToInt(block.IP)
	if err != nil {
		return 0
	}
	return uint32(uint64(ipInt) + capacity - 1)
}
