package primary

import (
	"context"
	"time"

	"github.com/narwhalchain/primary/crypto"
	"github.com/narwhalchain/primary/log"
	"github.com/narwhalchain/primary/types"
)

// sealerLoop watches the proposal cell and seals it on quorum or
// discards it on expiry. It polls at SealerTick once a proposal
// exists and SealerIdleWait while the cell is empty, since an idle
// cell can't become ready or expire on its own.
func (p *Primary) sealerLoop(ctx context.Context) {
	for {
		interval := p.cfg.SealerIdleWait
		if p.cell.Occupied() {
			interval = p.cfg.SealerTick
		}
		select {
		case <-time.After(interval):
		case <-ctx.Done():
			return
		}
		p.sealTick(ctx)
	}
}

// sealTick is one pass of the sealer algorithm: snapshot, decide, act.
// The snapshot is taken and released before any decision is made, and
// the cell is only re-touched through TakeAndClear/Clear, which
// re-check the batch id under the write lock, so a concurrent Set by
// the proposer (a new round's batch) can never be sealed or discarded
// by a decision made against the stale snapshot.
func (p *Primary) sealTick(ctx context.Context) {
	batch, sigs, ok := p.cell.Snapshot()
	if !ok {
		return
	}

	isExpired := time.Since(time.Unix(batch.Timestamp, 0)) > p.cfg.BatchExpiration
	isReady := len(sigs) >= p.cfg.Quorum(p.st.NumValidators())

	// Tie-break: if both hold on the same snapshot, seal wins. Don't
	// discard work a quorum already signed.
	switch {
	case isReady:
		p.sealBatch(ctx, batch.BatchId)
	case isExpired:
		p.cell.Clear(batch.BatchId)
		log.Info("discarded expired proposal", "batch_id", batch.BatchId, "round", batch.Round)
	}
}

// sealBatch takes and clears the cell, seals the batch with the
// collected signatures, stores the certificate locally, then
// broadcasts it. The local store write happens before the broadcast
// so a crash between the two never leaves a certificate broadcast to
// peers without a local record of it.
func (p *Primary) sealBatch(ctx context.Context, batchID crypto.Digest) {
	batch, sigs, ok := p.cell.TakeAndClear(batchID)
	if !ok {
		// Already sealed or cleared by a racing tick; nothing to do.
		return
	}

	sealed := types.Seal(batch, sigs)
	p.st.StoreSealedBatchFromPrimary(p.LocalAddress(), sealed)

	wire, err := types.Encode(sealed.Certificate)
	if err != nil {
		log.Error("failed to encode sealed certificate", "batch_id", batchID, "err", err)
		return
	}
	env := gatewayEnvelope(types.EventBatchSealed, types.BatchSealed{
		Certificate: types.FromBytes[types.Certificate](wire),
	})
	if err := p.gw.Broadcast(ctx, env); err != nil {
		log.Warn("failed to broadcast sealed certificate", "batch_id", batchID, "err", err)
		return
	}

	log.Info("sealed batch", "batch_id", batchID, "round", batch.Round, "signatures", len(sigs))
}
