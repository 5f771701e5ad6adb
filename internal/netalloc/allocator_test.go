package netalloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inventory(blocks []string, subnets []Subnet, zones []string) *Inventory {
	return &Inventory{
		NetworkID: "vpc-test",
		Blocks:    blocks,
		Subnets:   subnets,
		Zones:     zones,
	}
}

func TestFindAvailableRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		inv       *Inventory
		exclude   []string
		prefixLen int
		wantCIDR  string
		wantZone  string
		wantErr   error
	}{
		{
			name: "first free partition in empty block",
			inv: inventory([]string{"10.0.0.0/16"}, nil,
				[]string{"us-east-1a"}),
			prefixLen: 24,
			wantCIDR:  "10.0.0.0/24",
			wantZone:  "us-east-1a",
		},
		{
			name: "skips occupied partitions",
			inv: inventory([]string{"10.0.0.0/16"},
				[]Subnet{
					{ID: "subnet-a", CIDR: "10.0.0.0/24", Zone: "us-east-1a"},
					{ID: "subnet-b", CIDR: "10.0.1.0/24", Zone: "us-east-1b"},
				},
				[]string{"us-east-1a", "us-east-1b", "us-east-1c"}),
			prefixLen: 24,
			wantCIDR:  "10.0.2.0/24",
			wantZone:  "us-east-1c",
		},
		{
			name: "fourth zone picked when three are occupied",
			inv: inventory([]string{"10.0.0.0/16"},
				[]Subnet{
					{ID: "subnet-a", CIDR: "10.0.0.0/24", Zone: "us-east-1a"},
					{ID: "subnet-b", CIDR: "10.0.1.0/24", Zone: "us-east-1b"},
					{ID: "subnet-c", CIDR: "10.0.2.0/24", Zone: "us-east-1c"},
				},
				[]string{"us-east-1a", "us-east-1b", "us-east-1c", "us-east-1d"}),
			prefixLen: 24,
			wantCIDR:  "10.0.3.0/24",
			wantZone:  "us-east-1d",
		},
		{
			name: "all zones occupied falls back to the first",
			inv: inventory([]string{"10.0.0.0/16"},
				[]Subnet{
					{ID: "subnet-a", CIDR: "10.0.0.0/24", Zone: "us-east-1a"},
					{ID: "subnet-b", CIDR: "10.0.1.0/24", Zone: "us-east-1b"},
					{ID: "subnet-c", CIDR: "10.0.2.0/24", Zone: "us-east-1c"},
				},
				[]string{"us-east-1a", "us-east-1b", "us-east-1c"}),
			prefixLen: 24,
			wantCIDR:  "10.0.3.0/24",
			wantZone:  "us-east-1a",
		},
		{
			name: "excluded subnets free their range",
			inv: inventory([]string{"10.0.0.0/16"},
				[]Subnet{
					{ID: "subnet-a", CIDR: "10.0.0.0/24", Zone: "us-east-1a"},
				},
				[]string{"us-east-1a", "us-east-1b"}),
			exclude:   []string{"subnet-a"},
			prefixLen: 24,
			wantCIDR:  "10.0.0.0/24",
			wantZone:  "us-east-1b",
		},
		{
			name: "falls back to smaller sizes when no /24 fits",
			inv: inventory([]string{"10.0.0.0/24"},
				[]Subnet{
					{ID: "subnet-a", CIDR: "10.0.0.0/25", Zone: "us-east-1a"},
					{ID: "subnet-b", CIDR: "10.0.0.128/26", Zone: "us-east-1b"},
				},
				[]string{"us-east-1a", "us-east-1b", "us-east-1c"}),
			prefixLen: 24,
			wantCIDR:  "10.0.0.192/26",
			wantZone:  "us-east-1c",
		},
		{
			name: "larger-than-default request gets no fallback",
			inv: inventory([]string{"10.0.0.0/24"}, nil,
				[]string{"us-east-1a"}),
			prefixLen: 20,
			wantErr:   ErrExhausted,
		},
		{
			name: "fully occupied network is exhausted",
			inv: inventory([]string{"10.0.0.0/24"},
				[]Subnet{
					{ID: "subnet-a", CIDR: "10.0.0.0/24", Zone: "us-east-1a"},
				},
				[]string{"us-east-1a"}),
			prefixLen: 24,
			wantErr:   ErrExhausted,
		},
		{
			name: "secondary block used when primary is full",
			inv: inventory([]string{"10.0.0.0/24", "10.1.0.0/24"},
				[]Subnet{
					{ID: "subnet-a", CIDR: "10.0.0.0/24", Zone: "us-east-1a"},
				},
				[]string{"us-east-1a", "us-east-1b"}),
			prefixLen: 24,
			wantCIDR:  "10.1.0.0/24",
			wantZone:  "us-east-1b",
		},
		{
			name:      "no zones",
			inv:       inventory([]string{"10.0.0.0/16"}, nil, nil),
			prefixLen: 24,
			wantErr:   ErrNoZones,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := FindAvailableRange(tt.inv, tt.exclude, tt.prefixLen)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCIDR, got.CIDR)
			assert.Equal(t, tt.wantZone, got.Zone)
		})
	}
}

// Repeatedly allocating and committing ranges must never produce an
// overlap, and must end in ErrExhausted rather than a repeat.
func TestFindAvailableRange_NoOverlapUntilExhausted(t *testing.T) {
	t.Parallel()

	inv := inventory([]string{"10.0.0.0/22"}, nil, []string{"us-east-1a"})

	var allocated []ipv4Range
	for i := 0; ; i++ {
		got, err := FindAvailableRange(inv, nil, DefaultPrefixLen)
		if err != nil {
			require.ErrorIs(t, err, ErrExhausted)
			break
		}

		r, parseErr := parseRange(got.CIDR)
		require.NoError(t, parseErr)
		for _, prev := range allocated {
			assert.False(t, r.overlaps(prev), "%s overlaps an earlier allocation", got.CIDR)
		}
		allocated = append(allocated, r)

		inv.Subnets = append(inv.Subnets, Subnet{
			ID:   got.CIDR,
			CIDR: got.CIDR,
			Zone: got.Zone,
		})

		require.Less(t, i, 64, "allocation loop did not terminate")
	}

	// A /22 holds 4 /24 partitions; once those are gone the fallback
	// ladder finds nothing either.
	assert.Len(t, allocated, 4)
}

func TestSuggestRange(t *testing.T) {
	t.Parallel()

	t.Run("prefers the highest /24 partition", func(t *testing.T) {
		t.Parallel()

		inv := inventory([]string{"10.0.0.0/16"}, nil, []string{"us-east-1a"})
		got, err := SuggestRange(inv)
		require.NoError(t, err)
		assert.Equal(t, "10.0.255.0/24", got.CIDR)
	})

	t.Run("walks down from the tail", func(t *testing.T) {
		t.Parallel()

		inv := inventory([]string{"10.0.0.0/16"},
			[]Subnet{{ID: "subnet-a", CIDR: "10.0.255.0/24", Zone: "us-east-1a"}},
			[]string{"us-east-1a", "us-east-1b"})
		got, err := SuggestRange(inv)
		require.NoError(t, err)
		assert.Equal(t, "10.0.254.0/24", got.CIDR)
	})

	t.Run("never leaves the tail region", func(t *testing.T) {
		t.Parallel()

		// The last 20 /24 partitions of 10.0.0.0/16 are 10.0.236.0
		// through 10.0.255.0; occupy that whole region. The rest of the
		// block is free, but the suggestion must not wander into it.
		inv := inventory([]string{"10.0.0.0/16"},
			[]Subnet{{ID: "subnet-tail", CIDR: "10.0.236.0/22", Zone: "us-east-1a"},
				{ID: "subnet-tail2", CIDR: "10.0.240.0/20", Zone: "us-east-1a"}},
			[]string{"us-east-1a"})

		_, err := SuggestRange(inv)
		require.ErrorIs(t, err, ErrExhausted)
	})
}

func TestCandidateSizes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		prefixLen int
		want      []int
	}{
		{"default gets the full ladder", 24, []int{24, 25, 26, 27}},
		{"mid-ladder request continues downward", 26, []int{26, 27}},
		{"smallest size stands alone", 27, []int{27}},
		{"large range request is honored as-is", 20, []int{20}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, candidateSizes(tt.prefixLen))
		})
	}
}
