package worker

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/narwhalchain/primary/crypto"
	"github.com/narwhalchain/primary/types"
)

func TestAssignIsDeterministicAcrossRuns(t *testing.T) {
	const n = 4
	ids := make([]types.TransmissionId, 100)
	for i := range ids {
		ids[i] = types.NewTransactionId(crypto.HashToDigest([]byte(fmt.Sprintf("t%d", i))))
	}

	first := make([]int, len(ids))
	for i, id := range ids {
		shard, err := Assign(id, n)
		require.NoError(t, err)
		first[i] = shard
	}

	for i, id := range ids {
		shard, err := Assign(id, n)
		require.NoError(t, err)
		require.Equal(t, first[i], shard, "assignment for %v changed between runs", id)
	}
}

func TestAssignRejectsZeroWorkers(t *testing.T) {
	id := types.NewTransactionId(crypto.HashToDigest([]byte("t")))
	_, err := Assign(id, 0)
	require.ErrorIs(t, err, ErrNoWorkers)
}

func TestAssignStaysInRange(t *testing.T) {
	const n = 3
	for i := 0; i < 50; i++ {
		id := types.NewTransactionId(crypto.HashToDigest([]byte(fmt.Sprintf("s%d", i))))
		shard, err := Assign(id, n)
		require.NoError(t, err)
		require.True(t, shard >= 0 && shard < n)
	}
}
