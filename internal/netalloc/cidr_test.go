package netalloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	t.Parallel()

	t.Run("parses IPv4 CIDR", func(t *testing.T) {
		t.Parallel()

		r, err := parseRange("10.0.0.0/24")
		require.NoError(t, err)
		assert.Equal(t, 24, r.prefix)
		assert.Equal(t, "10.0.0.0/24", r.String())
		assert.Equal(t, uint32(256), r.end-r.start+1)
	})

	t.Run("normalizes to the network address", func(t *testing.T) {
		t.Parallel()

		r, err := parseRange("10.0.0.17/24")
		require.NoError(t, err)
		assert.Equal(t, "10.0.0.0/24", r.String())
	})

	t.Run("rejects garbage", func(t *testing.T) {
		t.Parallel()

		_, err := parseRange("not-a-cidr")
		require.Error(t, err)
	})

	t.Run("rejects IPv6", func(t *testing.T) {
		t.Parallel()

		_, err := parseRange("2001:db8::/32")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "IPv4")
	})
}

func TestOverlaps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{"identical", "10.0.0.0/24", "10.0.0.0/24", true},
		{"nested", "10.0.0.0/16", "10.0.5.0/24", true},
		{"adjacent", "10.0.0.0/24", "10.0.1.0/24", false},
		{"disjoint", "10.0.0.0/24", "192.168.0.0/24", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a, err := parseRange(tt.a)
			require.NoError(t, err)
			b, err := parseRange(tt.b)
			require.NoError(t, err)

			assert.Equal(t, tt.want, a.overlaps(b))
			assert.Equal(t, tt.want, b.overlaps(a))
		})
	}
}

func TestPartitions(t *testing.T) {
	t.Parallel()

	block, err := parseRange("10.0.0.0/16")
	require.NoError(t, err)

	assert.Equal(t, 256, block.partitions(24))
	assert.Equal(t, 1, block.partitions(16))
	assert.Equal(t, 0, block.partitions(8), "block too small")
}

func TestSubnetAt(t *testing.T) {
	t.Parallel()

	block, err := parseRange("10.0.0.0/16")
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.0/24", block.subnetAt(24, 0).String())
	assert.Equal(t, "10.0.7.0/24", block.subnetAt(24, 7).String())
	assert.Equal(t, "10.0.255.0/24", block.subnetAt(24, 255).String())
	assert.Equal(t, "10.0.0.128/25", block.subnetAt(25, 1).String())
}
