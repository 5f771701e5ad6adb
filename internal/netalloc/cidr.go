package netalloc

import (
	"encoding/binary"
	"fmt"
	"net"
)

// ipv4Range is a contiguous IPv4 address interval with its prefix length.
// Two ranges overlap iff their intervals intersect.
type ipv4Range struct {
	start  uint32
	end    uint32
	prefix int
}

// parseRange parses an IPv4 CIDR into its address interval.
// IPv6 is rejected; the allocator only handles IPv4 networks.
func parseRange(cidr string) (ipv4Range, error) {
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		return ipv4Range{}, fmt.Errorf("invalid CIDR %q: %w", cidr, err)
	}
	if network.IP.To4() == nil {
		return ipv4Range{}, fmt.Errorf("only IPv4 is supported, got %s", cidr)
	}

	prefix, bits := network.Mask.Size()
	if bits != 32 {
		return ipv4Range{}, fmt.Errorf("only IPv4 is supported, got %s", cidr)
	}

	start := uint32FromIP(network.IP)
	size := uint32(1) << (32 - prefix)
	return ipv4Range{start: start, end: start + size - 1, prefix: prefix}, nil
}

func (r ipv4Range) overlaps(other ipv4Range) bool {
	return r.start <= other.end && other.start <= r.end
}

// subnetAt returns the i-th partition of size prefix within r.
// The caller guarantees prefix >= r.prefix and i < r.partitions(prefix).
func (r ipv4Range) subnetAt(prefix, i int) ipv4Range {
	size := uint32(1) << (32 - prefix)
	start := r.start + uint32(i)*size
	return ipv4Range{start: start, end: start + size - 1, prefix: prefix}
}

// partitions returns how many ranges of the given prefix length fit in r.
func (r ipv4Range) partitions(prefix int) int {
	if prefix < r.prefix {
		return 0
	}
	return 1 << (prefix - r.prefix)
}

func (r ipv4Range) String() string {
	return fmt.Sprintf("%s/%d", ipFromUint32(r.start), r.prefix)
}

func uint32FromIP(ip net.IP) uint32 {
	if ip4 := ip.To4(); ip4 != nil {
		return binary.BigEndian.Uint32(ip4)
	}
	return 0
}

func ipFromUint32(val uint32) net.IP {
	ip := make(net.IP, 4)
	binary.BigEndian.PutUint32(ip, val)
	return ip
}
