package types

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/narwhalchain/primary/crypto"
)

func newTestAccount(t *testing.T, seedByte byte) *crypto.Account {
	t.Helper()
	var seed [32]byte
	seed[0] = seedByte
	return crypto.AccountFromSeed(seed)
}

func TestNewBatchIdIndependentOfMapIterationOrder(t *testing.T) {
	author := newTestAccount(t, 1)

	t1 := NewTransactionId(crypto.HashToDigest([]byte("t1")))
	t2 := NewTransactionId(crypto.HashToDigest([]byte("t2")))

	transmissionsA := map[TransmissionId]Transmission{
		t1: {Kind: KindTransaction, Data: []byte("a")},
		t2: {Kind: KindTransaction, Data: []byte("b")},
	}
	transmissionsB := map[TransmissionId]Transmission{
		t2: {Kind: KindTransaction, Data: []byte("b")},
		t1: {Kind: KindTransaction, Data: []byte("a")},
	}

	parents := []crypto.Digest{crypto.HashToDigest([]byte("p2")), crypto.HashToDigest([]byte("p1"))}

	batchA, err := NewBatch(author, 1, transmissionsA, parents, 1000)
	require.NoError(t, err)
	batchB, err := NewBatch(author, 1, transmissionsB, parents, 1000)
	require.NoError(t, err)

	require.Equal(t, batchA.BatchId, batchB.BatchId)
}

func TestNewBatchIdChangesWithContent(t *testing.T) {
	author := newTestAccount(t, 1)
	t1 := NewTransactionId(crypto.HashToDigest([]byte("t1")))

	base := map[TransmissionId]Transmission{t1: {Kind: KindTransaction, Data: []byte("a")}}
	batch1, err := NewBatch(author, 1, base, nil, 1000)
	require.NoError(t, err)

	batch2, err := NewBatch(author, 2, base, nil, 1000)
	require.NoError(t, err)

	require.NotEqual(t, batch1.BatchId, batch2.BatchId)
}

func TestNewBatchIsSignedByAuthor(t *testing.T) {
	author := newTestAccount(t, 1)
	batch, err := NewBatch(author, 1, nil, nil, 1000)
	require.NoError(t, err)

	require.True(t, crypto.Verify(author.PublicKey(), batch.BatchId, batch.AuthorSignature))
	require.Equal(t, author.Address(), batch.Author)
}

func TestSealPreservesBatchId(t *testing.T) {
	author := newTestAccount(t, 1)
	batch, err := NewBatch(author, 1, nil, nil, 1000)
	require.NoError(t, err)

	sig := SignerSignature{Signer: author.Address(), Signature: batch.AuthorSignature}
	sealed := Seal(batch, []SignerSignature{sig})

	require.Equal(t, batch.BatchId, sealed.BatchId())
	require.Len(t, sealed.Certificate.Signatures, 1)
}
