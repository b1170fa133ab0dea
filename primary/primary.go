// Package primary implements the per-validator mempool coordinator: it
// shards unconfirmed transmissions across workers, proposes batches,
// collects peer signatures, and seals certificates.
package primary

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/narwhalchain/primary/crypto"
	"github.com/narwhalchain/primary/gateway"
	"github.com/narwhalchain/primary/inbound"
	"github.com/narwhalchain/primary/log"
	"github.com/narwhalchain/primary/shared"
	"github.com/narwhalchain/primary/worker"
)

// Config surfaces the timing and sizing knobs the proposer and sealer
// loops run on. None of these are protocol-visible, but they still
// need to be tunable per deployment. The Primary owns no CLI or
// config file; an embedding process constructs this struct directly.
type Config struct {
	// MaxWorkers is how many worker shards Run starts, up to
	// worker.MaxWorkers.
	MaxWorkers int

	// BootstrapDelay is how long the proposer waits after startup
	// before its first proposal attempt, giving peers and workers time
	// to come up.
	BootstrapDelay time.Duration

	// ProposerBusyWait is how long the proposer sleeps between
	// attempts while a proposal is already outstanding.
	ProposerBusyWait time.Duration

	// SealerTick is the sealer's poll interval once a proposal exists.
	SealerTick time.Duration

	// SealerIdleWait is the sealer's poll interval while the cell is
	// empty.
	SealerIdleWait time.Duration

	// BatchExpiration bounds how long a proposal may sit uncollected
	// before the sealer discards it, so a proposal nobody will ever
	// sign doesn't block the next round's proposal forever.
	BatchExpiration time.Duration

	// Quorum computes the signature count required to seal a
	// proposal. Defaults to ProvisionalQuorum.
	Quorum QuorumFunc

	// ChannelCapacity bounds each of the five ingress channels.
	ChannelCapacity int
}

// DefaultConfig returns production-reasonable timings.
func DefaultConfig() Config {
	return Config{
		MaxWorkers:       8,
		BootstrapDelay:   5 * time.Second,
		ProposerBusyWait: 1 * time.Second,
		SealerTick:       50 * time.Millisecond,
		SealerIdleWait:   1 * time.Second,
		BatchExpiration:  10 * time.Second,
		Quorum:           ProvisionalQuorum,
		ChannelCapacity:  inbound.DefaultCapacity,
	}
}

// ErrAlreadyRunning is returned by Run if called on a Primary that is
// not idle: one already active, or one already shut down.
var ErrAlreadyRunning = errors.New("primary: already running")

// state is the Primary's lifecycle: idle -> active -> shut down
// (terminal).
type state int32

const (
	stateIdle state = iota
	stateActive
	stateShutDown
)

// Primary is the coordinator. It is used through a *Primary, a cheap
// shared handle: the tasks spawned by Run all run against the same
// *Primary and so observe the same ProposalCell, worker pool, and
// Shared store. The struct itself holds locks and must not be copied.
type Primary struct {
	cfg Config
	gw  gateway.Gateway
	st  shared.Store

	cell *ProposalCell

	mu      sync.RWMutex // guards workers; read-mostly after Run
	workers []*worker.Worker

	handlesMu sync.Mutex // guards cancel/group; write-mostly
	cancel    context.CancelFunc
	group     *errgroup.Group

	stateMu sync.Mutex
	state   state
}

// New constructs an idle Primary. Workers are not started until Run.
func New(cfg Config, gw gateway.Gateway, st shared.Store) *Primary {
	if cfg.Quorum == nil {
		cfg.Quorum = ProvisionalQuorum
	}
	return &Primary{
		cfg:   cfg,
		gw:    gw,
		st:    st,
		cell:  NewProposalCell(),
		state: stateIdle,
	}
}

// NumWorkers returns the number of worker shards currently running.
func (p *Primary) NumWorkers() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.workers)
}

func (p *Primary) workerAt(id int) *worker.Worker {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if id < 0 || id >= len(p.workers) {
		return nil
	}
	return p.workers[id]
}

// Run transitions the Primary from idle to active: it publishes the
// sender half of the ingress channels into the Shared store, starts up
// to Config.MaxWorkers workers, starts the gateway, and spawns the
// proposer, sealer, inbound dispatch, and five handler tasks.
//
// Only startup errors are fatal: a worker or gateway construction
// failure here aborts Run and leaves the Primary idle.
func (p *Primary) Run(ctx context.Context) error {
	p.stateMu.Lock()
	if p.state != stateIdle {
		p.stateMu.Unlock()
		return ErrAlreadyRunning
	}
	p.state = stateActive
	p.stateMu.Unlock()

	backToIdle := func() {
		p.stateMu.Lock()
		p.state = stateIdle
		p.stateMu.Unlock()
	}

	n := p.cfg.MaxWorkers
	if n <= 0 || n > worker.MaxWorkers {
		backToIdle()
		return fmt.Errorf("primary: MaxWorkers must be in (0, %d], got %d", worker.MaxWorkers, n)
	}

	sender, receiver := inbound.NewChannels(p.cfg.ChannelCapacity)
	p.st.SetPrimarySender(sender)

	workers := make([]*worker.Worker, 0, n)
	for id := 0; id < n; id++ {
		w, err := worker.New(uint8(id), p.gw)
		if err != nil {
			backToIdle()
			return fmt.Errorf("primary: starting worker %d: %w", id, err)
		}
		workers = append(workers, w)
	}
	p.mu.Lock()
	p.workers = workers
	p.mu.Unlock()

	if err := p.gw.Start(ctx); err != nil {
		backToIdle()
		return fmt.Errorf("primary: starting gateway: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	group, runCtx := errgroup.WithContext(runCtx)

	for _, w := range workers {
		w := w
		group.Go(func() error {
			w.Run(runCtx)
			return nil
		})
	}

	group.Go(func() error {
		p.proposerLoop(runCtx)
		return nil
	})

	group.Go(func() error {
		p.sealerLoop(runCtx)
		return nil
	})

	group.Go(func() error {
		p.dispatchInbound(runCtx, sender)
		return nil
	})

	for _, task := range []func(context.Context, inbound.PrimaryReceiver){
		func(c context.Context, r inbound.PrimaryReceiver) { p.handleBatchPropose(c, r) },
		func(c context.Context, r inbound.PrimaryReceiver) { p.handleBatchSignature(c, r) },
		func(c context.Context, r inbound.PrimaryReceiver) { p.handleBatchSealed(c, r) },
		func(c context.Context, r inbound.PrimaryReceiver) { p.handleUnconfirmedSolution(c, r) },
		func(c context.Context, r inbound.PrimaryReceiver) { p.handleUnconfirmedTransaction(c, r) },
	} {
		task := task
		group.Go(func() error {
			task(runCtx, receiver)
			return nil
		})
	}

	p.handlesMu.Lock()
	p.cancel = cancel
	p.group = group
	p.handlesMu.Unlock()

	log.Info("primary started", "workers", n)
	return nil
}

// ShutDown stops every worker, aborts every spawned task, and closes
// the gateway. It is idempotent and safe to call after a partial or
// failed Run.
func (p *Primary) ShutDown() {
	p.stateMu.Lock()
	if p.state == stateShutDown {
		p.stateMu.Unlock()
		return
	}
	p.state = stateShutDown
	p.stateMu.Unlock()

	p.mu.RLock()
	workers := p.workers
	p.mu.RUnlock()
	for _, w := range workers {
		w.ShutDown()
	}

	p.handlesMu.Lock()
	cancel := p.cancel
	group := p.group
	p.handlesMu.Unlock()
	if cancel != nil {
		cancel()
	}
	if group != nil {
		_ = group.Wait()
	}

	if err := p.gw.Close(); err != nil {
		log.Warn("gateway close returned an error", "err", err)
	}
	log.Info("primary shut down")
}

// LocalAddress returns this Primary's committee address, derived from
// the gateway's local account.
func (p *Primary) LocalAddress() crypto.Address {
	return p.gw.LocalAccount().Address()
}
