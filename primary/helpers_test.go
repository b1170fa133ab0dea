package primary

import (
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/narwhalchain/primary/crypto"
	"github.com/narwhalchain/primary/gateway"
	"github.com/narwhalchain/primary/inbound"
	"github.com/narwhalchain/primary/shared"
	"github.com/narwhalchain/primary/types"
)

func unconfirmedMsg(id types.TransmissionId, payload []byte) inbound.UnconfirmedMsg {
	return inbound.UnconfirmedMsg{
		Id:           id,
		Transmission: types.Transmission{Kind: types.KindTransaction, Data: payload},
	}
}

func batchSignatureMsg(peer gateway.PeerIP, batchID crypto.Digest, sig crypto.Signature) inbound.BatchSignatureMsg {
	return inbound.BatchSignatureMsg{
		PeerIP: peer,
		Signature: types.BatchSignature{
			BatchId:   batchID,
			Signature: sig,
		},
	}
}

// hasAnySealedBatch reports whether a sealed batch is stored under
// author, without knowing the batch id ahead of time.
func hasAnySealedBatch(st *shared.MemoryStore, author crypto.Address) bool {
	return st.HasSealedBatchFrom(author)
}

// dumpCellOnFailure logs the proposal cell's contents via spew if the
// test has already failed, giving a readable snapshot of the batch and
// signatures a bare require.Eventually timeout would otherwise hide.
func dumpCellOnFailure(t *testing.T, cell *ProposalCell) {
	t.Helper()
	if !t.Failed() {
		return
	}
	batch, sigs, ok := cell.Snapshot()
	t.Logf("proposal cell at failure: occupied=%v\n%s", ok, spew.Sdump(batch, sigs))
}
