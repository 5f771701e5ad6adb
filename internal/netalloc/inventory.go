package netalloc

// Subnet is an existing carved-out address range within the network.
type Subnet struct {
	ID            string
	CIDR          string
	Zone          string
	FreeAddresses int32
}

// Inventory is a read-only snapshot of a virtual network's address space:
// its declared CIDR blocks (primary first, then associated secondaries),
// the subnets already carved out of them, and the availability zones open
// for placement.
type Inventory struct {
	NetworkID string
	Blocks    []string
	Subnets   []Subnet
	Zones     []string
}

// Candidate is a proposed (CIDR, zone) placement for a new subnet.
type Candidate struct {
	CIDR string
	Zone string
}

// UsedZones returns the set of zones already hosting a subnet.
func (inv *Inventory) UsedZones() []string {
	seen := make(map[string]bool)
	var zones []string
	for _, s := range inv.Subnets {
		if s.Zone != "" && !seen[s.Zone] {
			seen[s.Zone] = true
			zones = append(zones, s.Zone)
		}
	}
	return zones
}

// SubnetByID returns the subnet with the given identifier, or nil.
func (inv *Inventory) SubnetByID(id string) *Subnet {
	for i := range inv.Subnets {
		if inv.Subnets[i].ID == id {
			return &inv.Subnets[i]
		}
	}
	return nil
}
