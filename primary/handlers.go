package primary

import (
	"context"

	"github.com/narwhalchain/primary/crypto"
	"github.com/narwhalchain/primary/inbound"
	"github.com/narwhalchain/primary/log"
	"github.com/narwhalchain/primary/types"
	"github.com/narwhalchain/primary/worker"
)

// handleBatchPropose stores a peer's proposal, signs its batch id, and
// unicasts the signature back. No validation beyond deserialization is
// performed here; round consistency, author identity, parent
// certificates, and transmission membership are left to the Shared
// store or a later consensus step.
func (p *Primary) handleBatchPropose(ctx context.Context, rx inbound.PrimaryReceiver) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-rx.BatchPropose:
			if !ok {
				return
			}
			p.onBatchPropose(ctx, msg)
		}
	}
}

func (p *Primary) onBatchPropose(ctx context.Context, msg inbound.BatchProposeMsg) {
	batch, err := msg.Propose.Batch.Get()
	if err != nil {
		log.Warn("dropping unparseable batch propose", "peer", msg.PeerIP, "err", err)
		return
	}
	p.st.StoreProposedBatch(msg.PeerIP, batch)

	sig, err := p.gw.LocalAccount().Sign(batch.BatchId)
	if err != nil {
		log.Error("failed to sign peer batch", "batch_id", batch.BatchId, "err", err)
		return
	}
	env := gatewayEnvelope(types.EventBatchSignature, types.BatchSignature{
		BatchId:   batch.BatchId,
		Signature: sig,
	})
	if err := p.gw.Unicast(ctx, msg.PeerIP, env); err != nil {
		log.Warn("failed to unicast batch signature", "peer", msg.PeerIP, "err", err)
	}
}

// handleBatchSignature verifies and appends a peer's signature on our
// own outstanding proposal.
func (p *Primary) handleBatchSignature(ctx context.Context, rx inbound.PrimaryReceiver) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-rx.BatchSignature:
			if !ok {
				return
			}
			p.onBatchSignature(msg)
		}
	}
}

func (p *Primary) onBatchSignature(msg inbound.BatchSignatureMsg) {
	batch, _, ok := p.cell.Snapshot()
	if !ok || batch.BatchId != msg.Signature.BatchId {
		log.Warn("dropping signature for unknown or stale batch", "peer", msg.PeerIP, "batch_id", msg.Signature.BatchId)
		return
	}

	addr, ok := p.st.GetAddress(msg.PeerIP)
	if !ok {
		log.Warn("dropping signature from unknown peer", "peer", msg.PeerIP)
		return
	}
	if !p.st.IsCommitteeMember(addr) {
		log.Warn("dropping signature from non-committee signer", "signer", addr)
		return
	}
	pk, ok := p.st.GetPublicKey(addr)
	if !ok {
		log.Warn("dropping signature: no public key on file", "signer", addr)
		return
	}
	if !crypto.Verify(pk, msg.Signature.BatchId, msg.Signature.Signature) {
		log.Warn("dropping signature that fails verification", "signer", addr, "batch_id", msg.Signature.BatchId)
		return
	}

	// Appended under the proposal-cell lock, which re-checks the batch
	// id and dedups by signer; a racing Set (new round) or duplicate
	// signature from the same peer is simply dropped here rather than
	// double-counted.
	if !p.cell.TryAppendSignature(msg.Signature.BatchId, types.SignerSignature{Signer: addr, Signature: msg.Signature.Signature}) {
		log.Debug("signature not appended (stale batch or duplicate signer)", "signer", addr, "batch_id", msg.Signature.BatchId)
		return
	}
	log.Info("appended batch signature", "signer", addr, "batch_id", msg.Signature.BatchId)
}

// handleBatchSealed stores a peer's sealed certificate. The Primary
// does not verify the certificate itself; that is the Shared store's
// (or consensus layer's) responsibility.
func (p *Primary) handleBatchSealed(ctx context.Context, rx inbound.PrimaryReceiver) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-rx.BatchSealed:
			if !ok {
				return
			}
			p.onBatchSealed(msg)
		}
	}
}

func (p *Primary) onBatchSealed(msg inbound.BatchSealedMsg) {
	cert, err := msg.Sealed.Certificate.Get()
	if err != nil {
		log.Warn("dropping unparseable sealed certificate", "peer", msg.PeerIP, "err", err)
		return
	}
	p.st.StoreSealedBatch(msg.PeerIP, cert)
}

// handleUnconfirmedSolution routes an unconfirmed prover solution to
// its assigned worker shard.
func (p *Primary) handleUnconfirmedSolution(ctx context.Context, rx inbound.PrimaryReceiver) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-rx.UnconfirmedSolution:
			if !ok {
				return
			}
			p.routeUnconfirmed(msg, func(w *worker.Worker, id types.TransmissionId, t types.Transmission) error {
				return w.ProcessUnconfirmedSolution(id, t)
			})
		}
	}
}

// handleUnconfirmedTransaction routes an unconfirmed transaction to
// its assigned worker shard.
func (p *Primary) handleUnconfirmedTransaction(ctx context.Context, rx inbound.PrimaryReceiver) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-rx.UnconfirmedTransaction:
			if !ok {
				return
			}
			p.routeUnconfirmed(msg, func(w *worker.Worker, id types.TransmissionId, t types.Transmission) error {
				return w.ProcessUnconfirmedTransaction(id, t)
			})
		}
	}
}

func (p *Primary) routeUnconfirmed(msg inbound.UnconfirmedMsg, process func(*worker.Worker, types.TransmissionId, types.Transmission) error) {
	n := p.NumWorkers()
	id, err := worker.Assign(msg.Id, n)
	if err != nil {
		log.Warn("dropping unconfirmed transmission: no workers", "id", msg.Id, "err", err)
		return
	}
	w := p.workerAt(id)
	if w == nil {
		log.Warn("dropping unconfirmed transmission: worker vanished", "id", msg.Id, "worker", id)
		return
	}
	if err := process(w, msg.Id, msg.Transmission); err != nil {
		log.Warn("worker rejected transmission", "worker", id, "id", msg.Id, "err", err)
	}
}
