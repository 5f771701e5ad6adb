package netalloc

import "errors"

// ErrNoZones reports that the provider returned no available zones.
var ErrNoZones = errors.New("no availability zones available")

// SelectZone picks a placement zone: the first available zone not already
// hosting a subnet, for spread. When every available zone is in use the
// first available zone is reused — duplicate-zone subnets are legal, just
// not preferred.
func SelectZone(available, used []string) (string, error) {
	if len(available) == 0 {
		return "", ErrNoZones
	}

	usedSet := make(map[string]bool, len(used))
	for _, z := range used {
		usedSet[z] = true
	}

	for _, z := range available {
		if !usedSet[z] {
			return z, nil
		}
	}
	return available[0], nil
}
