package netalloc

import (
	"errors"
)

const (
	// DefaultPrefixLen is the subnet size requested when the caller has no
	// preference.
	DefaultPrefixLen = 24

	// smallestPrefixLen bounds the fallback ladder: when a /24 cannot be
	// placed, progressively smaller ranges down to /27 are tried.
	smallestPrefixLen = 27

	// suggestTailDefault and suggestTailFallback bound how many
	// highest-numbered partitions SuggestRange inspects per size.
	suggestTailDefault  = 20
	suggestTailFallback = 10
)

// ErrExhausted reports that no free, non-overlapping range of any tried
// size exists in any of the network's blocks. It is distinct from a
// provider error: the network genuinely has no room.
var ErrExhausted = errors.New("address space exhausted: no free range in any network block")

// FindAvailableRange searches the network's blocks, in declaration order,
// for a free range of prefixLen bits, falling back to smaller ranges
// (/25, /26, /27) when prefixLen is at least the default size. Subnets
// whose IDs appear in exclude are treated as nonexistent for the overlap
// check. Each block is partitioned in address order and scanned forward
// first, then in reverse; the reverse pass sidesteps the crowded
// low-address region that older tooling tends to fill.
//
// Returns ErrExhausted when every block/size combination is occupied, and
// ErrNoZones when the inventory reports no availability zones.
func FindAvailableRange(inv *Inventory, exclude []string, prefixLen int) (*Candidate, error) {
	zone, err := SelectZone(inv.Zones, inv.UsedZones())
	if err != nil {
		return nil, err
	}

	used, err := usedRanges(inv, exclude)
	if err != nil {
		return nil, err
	}

	for _, block := range inv.Blocks {
		blockRange, err := parseRange(block)
		if err != nil {
			return nil, err
		}

		for _, size := range candidateSizes(prefixLen) {
			n := blockRange.partitions(size)
			if n == 0 {
				continue // block too small for this size
			}

			if r, ok := scanPartitions(blockRange, size, n, used, false); ok {
				return &Candidate{CIDR: r.String(), Zone: zone}, nil
			}
			if r, ok := scanPartitions(blockRange, size, n, used, true); ok {
				return &Candidate{CIDR: r.String(), Zone: zone}, nil
			}
		}
	}

	return nil, ErrExhausted
}

// SuggestRange proposes a likely-free range by inspecting only the
// highest-numbered partitions of each block: the tail 20 of the /24
// partitions, then the tail 10 of each smaller size. The suggestion is
// overlap-checked against the snapshot but remains advisory; callers must
// still expect the provider to reject it.
func SuggestRange(inv *Inventory) (*Candidate, error) {
	zone, err := SelectZone(inv.Zones, inv.UsedZones())
	if err != nil {
		return nil, err
	}

	used, err := usedRanges(inv, nil)
	if err != nil {
		return nil, err
	}

	for _, block := range inv.Blocks {
		blockRange, err := parseRange(block)
		if err != nil {
			return nil, err
		}

		if r, ok := scanTail(blockRange, DefaultPrefixLen, suggestTailDefault, used); ok {
			return &Candidate{CIDR: r.String(), Zone: zone}, nil
		}
		for size := DefaultPrefixLen + 1; size <= smallestPrefixLen; size++ {
			if r, ok := scanTail(blockRange, size, suggestTailFallback, used); ok {
				return &Candidate{CIDR: r.String(), Zone: zone}, nil
			}
		}
	}

	return nil, ErrExhausted
}

// candidateSizes returns the prefix lengths to try, most specific request
// first. A request at or below the default size gets the fallback ladder;
// a larger-than-default request is honored as-is with no fallback.
func candidateSizes(prefixLen int) []int {
	if prefixLen < DefaultPrefixLen {
		return []int{prefixLen}
	}

	sizes := []int{prefixLen}
	for s := prefixLen + 1; s <= smallestPrefixLen; s++ {
		sizes = append(sizes, s)
	}
	return sizes
}

// usedRanges parses the CIDRs of all subnets not listed in exclude.
func usedRanges(inv *Inventory, exclude []string) ([]ipv4Range, error) {
	excluded := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		excluded[id] = true
	}

	var used []ipv4Range
	for _, s := range inv.Subnets {
		if excluded[s.ID] {
			continue
		}
		r, err := parseRange(s.CIDR)
		if err != nil {
			return nil, err
		}
		used = append(used, r)
	}
	return used, nil
}

// scanPartitions walks the n partitions of the given size within block,
// forward or reverse, and returns the first partition free of overlap.
func scanPartitions(block ipv4Range, size, n int, used []ipv4Range, reverse bool) (ipv4Range, bool) {
	for i := 0; i < n; i++ {
		idx := i
		if reverse {
			idx = n - 1 - i
		}
		candidate := block.subnetAt(size, idx)
		if !overlapsAny(candidate, used) {
			return candidate, true
		}
	}
	return ipv4Range{}, false
}

// scanTail checks the last tail partitions of the given size in reverse
// address order.
func scanTail(block ipv4Range, size, tail int, used []ipv4Range) (ipv4Range, bool) {
	n := block.partitions(size)
	if n == 0 {
		return ipv4Range{}, false
	}

	first := n - tail
	if first < 0 {
		first = 0
	}
	for idx := n - 1; idx >= first; idx-- {
		candidate := block.subnetAt(size, idx)
		if !overlapsAny(candidate, used) {
			return candidate, true
		}
	}
	return ipv4Range{}, false
}

func overlapsAny(candidate ipv4Range, used []ipv4Range) bool {
	for _, u := range used {
		if candidate.overlaps(u) {
			return true
		}
	}
	return false
}
