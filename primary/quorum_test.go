package primary

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProvisionalQuorumIsOneSignature(t *testing.T) {
	for _, n := range []int{0, 1, 4, 100} {
		require.Equal(t, 1, ProvisionalQuorum(n))
	}
}

func TestBFTQuorumThreshold(t *testing.T) {
	cases := []struct {
		validators int
		want       int
	}{
		{0, 1},
		{1, 2},
		{3, 3},
		{4, 4},
		{7, 6},
		{10, 8},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, BFTQuorum(tc.validators), "committee of %d", tc.validators)
	}
}
