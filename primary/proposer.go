package primary

import (
	"context"
	"time"

	"github.com/narwhalchain/primary/log"
	"github.com/narwhalchain/primary/types"
)

// proposerLoop is the standalone task with exclusive right to write a
// new proposal into the cell. It never proposes while one is already
// outstanding: that rule preserves single authorship per round and
// avoids wasting a worker drain on a batch nobody can collect
// signatures for yet.
func (p *Primary) proposerLoop(ctx context.Context) {
	select {
	case <-time.After(p.cfg.BootstrapDelay):
	case <-ctx.Done():
		return
	}

	ticker := time.NewTicker(p.cfg.ProposerBusyWait)
	defer ticker.Stop()

	for {
		if p.cell.Occupied() {
			select {
			case <-ticker.C:
				continue
			case <-ctx.Done():
				return
			}
		}

		if err := p.proposeBatch(ctx); err != nil {
			log.Warn("propose_batch failed, retrying next tick", "err", err)
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

// proposeBatch drains every worker, reads the round and its parent
// certificates, constructs and signs a batch, installs it in the
// cell, and broadcasts it.
func (p *Primary) proposeBatch(ctx context.Context) error {
	p.mu.RLock()
	workers := p.workers
	p.mu.RUnlock()

	transmissions := make(map[types.TransmissionId]types.Transmission)
	for _, w := range workers {
		// Iteration is by ascending worker id (p.workers is populated
		// in id order at Run and never reordered), so on a duplicate
		// TransmissionId the highest-id worker's entry wins
		// deterministically.
		for id, t := range w.Drain() {
			transmissions[id] = t
		}
	}

	round := p.st.Round()
	parents := p.st.PreviousCertificates(round)

	batch, err := types.NewBatch(p.gw.LocalAccount(), round, transmissions, parents, time.Now().Unix())
	if err != nil {
		return err
	}

	p.cell.Set(batch)

	wire, err := types.Encode(batch)
	if err != nil {
		return err
	}
	env := gatewayEnvelope(types.EventBatchPropose, types.BatchPropose{Batch: types.FromBytes[types.Batch](wire)})
	if err := p.gw.Broadcast(ctx, env); err != nil {
		return err
	}

	log.Info("proposed batch", "round", round, "batch_id", batch.BatchId, "transmissions", len(transmissions))
	return nil
}
