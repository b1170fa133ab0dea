// Package worker implements the Primary's mempool shards: each Worker
// buffers unconfirmed transmissions assigned to it by fingerprint and
// hands them over, atomically and in bulk, whenever the proposer
// drains it.
package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/narwhalchain/primary/gateway"
	"github.com/narwhalchain/primary/log"
	"github.com/narwhalchain/primary/types"
)

// errEmptyTransmission is returned when a worker is asked to buffer a
// transmission with no payload.
var errEmptyTransmission = errors.New("worker: empty transmission payload")

// Worker is one shard of the mempool.
type Worker struct {
	id uint8
	gw gateway.Gateway

	mu      sync.Mutex
	pending map[types.TransmissionId]types.Transmission

	shutdownOnce sync.Once
	shutdownCh   chan struct{}
}

// New constructs a worker bound to the given id and gateway handle. id
// must be unique across the pool; that uniqueness is the caller's
// responsibility (enforced by Primary.Run, which assigns ids
// sequentially).
func New(id uint8, gw gateway.Gateway) (*Worker, error) {
	return &Worker{
		id:         id,
		gw:         gw,
		pending:    make(map[types.TransmissionId]types.Transmission),
		shutdownCh: make(chan struct{}),
	}, nil
}

// Id returns the worker's shard id.
func (w *Worker) Id() uint8 { return w.id }

// Run subscribes the worker to its input channel. Today that channel
// only carries the shutdown signal; it is also where a future gateway-
// driven transmission-sync protocol would deliver peer-requested
// fetches without going through the Primary's ingress channels.
func (w *Worker) Run(ctx context.Context) {
	log.Debug("worker started", "id", w.id)
	select {
	case <-ctx.Done():
	case <-w.shutdownCh:
	}
	log.Debug("worker stopped", "id", w.id)
}

// ProcessUnconfirmedSolution validates and inserts a prover solution.
// Insertion is idempotent on the solution's TransmissionId.
func (w *Worker) ProcessUnconfirmedSolution(id types.TransmissionId, solution types.Transmission) error {
	if len(solution.Data) == 0 {
		return errEmptyTransmission
	}
	w.mu.Lock()
	w.pending[id] = solution
	w.mu.Unlock()
	return nil
}

// ProcessUnconfirmedTransaction validates and inserts a transaction.
// Insertion is idempotent on the transaction's TransmissionId.
func (w *Worker) ProcessUnconfirmedTransaction(id types.TransmissionId, tx types.Transmission) error {
	if len(tx.Data) == 0 {
		return errEmptyTransmission
	}
	w.mu.Lock()
	w.pending[id] = tx
	w.mu.Unlock()
	return nil
}

// Drain removes and returns every currently buffered transmission.
// Atomic with respect to concurrent inserts: an insert either lands in
// the map before Drain takes its snapshot (and is returned) or after
// (and survives for the next Drain); it can never be lost or
// duplicated across two Drain calls.
func (w *Worker) Drain() map[types.TransmissionId]types.Transmission {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := w.pending
	w.pending = make(map[types.TransmissionId]types.Transmission)
	return out
}

// ShutDown stops the worker. Idempotent.
func (w *Worker) ShutDown() {
	w.shutdownOnce.Do(func() {
		close(w.shutdownCh)
	})
}
