package primary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/narwhalchain/primary/crypto"
	"github.com/narwhalchain/primary/types"
)

func newCellBatch(t *testing.T, seedByte byte, round uint64) (types.Batch, *crypto.Account) {
	t.Helper()
	acct := seedAccount(seedByte)
	batch, err := types.NewBatch(acct, round, nil, nil, time.Now().Unix())
	require.NoError(t, err)
	return batch, acct
}

func TestProposalCellStartsEmpty(t *testing.T) {
	cell := NewProposalCell()
	require.False(t, cell.Occupied())

	_, _, ok := cell.Snapshot()
	require.False(t, ok)
}

func TestProposalCellSetReplacesAndResetsSignatures(t *testing.T) {
	cell := NewProposalCell()

	first, _ := newCellBatch(t, 1, 1)
	signer := seedAccount(2)

	cell.Set(first)
	require.True(t, cell.TryAppendSignature(first.BatchId, types.SignerSignature{Signer: signer.Address()}))

	second, _ := newCellBatch(t, 1, 2)
	cell.Set(second)

	batch, sigs, ok := cell.Snapshot()
	require.True(t, ok)
	require.Equal(t, second.BatchId, batch.BatchId)
	require.Empty(t, sigs, "replacing the proposal must reset the signature set")

	// The old batch's signer is free to sign the new batch: the dedup
	// set is per-proposal, not global.
	require.True(t, cell.TryAppendSignature(second.BatchId, types.SignerSignature{Signer: signer.Address()}))
}

func TestProposalCellRejectsStaleBatchId(t *testing.T) {
	cell := NewProposalCell()
	batch, _ := newCellBatch(t, 1, 1)
	cell.Set(batch)

	stale := crypto.HashToDigest([]byte("some other batch"))
	require.False(t, cell.TryAppendSignature(stale, types.SignerSignature{Signer: seedAccount(2).Address()}))

	_, sigs, ok := cell.Snapshot()
	require.True(t, ok)
	require.Empty(t, sigs)
}

func TestProposalCellDedupsBySignerAddress(t *testing.T) {
	cell := NewProposalCell()
	batch, _ := newCellBatch(t, 1, 1)
	cell.Set(batch)

	signer := seedAccount(2).Address()
	require.True(t, cell.TryAppendSignature(batch.BatchId, types.SignerSignature{Signer: signer}))
	require.False(t, cell.TryAppendSignature(batch.BatchId, types.SignerSignature{Signer: signer}))

	_, sigs, ok := cell.Snapshot()
	require.True(t, ok)
	require.Len(t, sigs, 1)
}

func TestProposalCellSignatureCountGrowsMonotonically(t *testing.T) {
	cell := NewProposalCell()
	batch, _ := newCellBatch(t, 1, 1)
	cell.Set(batch)

	prev := 0
	for seed := byte(10); seed < 15; seed++ {
		cell.TryAppendSignature(batch.BatchId, types.SignerSignature{Signer: seedAccount(seed).Address()})
		_, sigs, ok := cell.Snapshot()
		require.True(t, ok)
		require.GreaterOrEqual(t, len(sigs), prev)
		prev = len(sigs)
	}
	require.Equal(t, 5, prev)
}

func TestProposalCellClearChecksBatchId(t *testing.T) {
	cell := NewProposalCell()
	batch, _ := newCellBatch(t, 1, 1)
	cell.Set(batch)

	cell.Clear(crypto.HashToDigest([]byte("not the proposal")))
	require.True(t, cell.Occupied(), "Clear with a stale id must be a no-op")

	cell.Clear(batch.BatchId)
	require.False(t, cell.Occupied())
}

func TestProposalCellTakeAndClear(t *testing.T) {
	cell := NewProposalCell()
	batch, _ := newCellBatch(t, 1, 1)
	cell.Set(batch)
	require.True(t, cell.TryAppendSignature(batch.BatchId, types.SignerSignature{Signer: seedAccount(2).Address()}))

	_, _, ok := cell.TakeAndClear(crypto.HashToDigest([]byte("stale")))
	require.False(t, ok, "TakeAndClear with a stale id must be a no-op")
	require.True(t, cell.Occupied())

	got, sigs, ok := cell.TakeAndClear(batch.BatchId)
	require.True(t, ok)
	require.Equal(t, batch.BatchId, got.BatchId)
	require.Len(t, sigs, 1)
	require.False(t, cell.Occupied())

	_, _, ok = cell.TakeAndClear(batch.BatchId)
	require.False(t, ok, "a second take must find the cell empty")
}
