package primary

import (
	"sync"

	mapset "github.com/deckarep/golang-set"

	"github.com/narwhalchain/primary/crypto"
	"github.com/narwhalchain/primary/types"
)

// ProposalCell holds at most one outstanding batch authored by this
// Primary, plus the signatures collected on it so far.
//
// Lock discipline: every read takes the lock only long enough to copy
// out a snapshot, then releases it before doing anything that might
// suspend. Writers that must decide based on a prior read (the
// sealer) take a fresh read, decide, then re-acquire the write lock
// and re-check the invariant before mutating, never holding the lock
// across a channel send, a timer, or a signature verification.
type ProposalCell struct {
	mu         sync.RWMutex
	batch      *types.Batch
	signatures []types.SignerSignature
	signers    mapset.Set // of crypto.Address, mirrors signatures for O(1) dedup checks
}

// NewProposalCell returns an empty cell.
func NewProposalCell() *ProposalCell {
	return &ProposalCell{signers: mapset.NewSet()}
}

// Occupied reports whether a proposal is currently outstanding.
func (c *ProposalCell) Occupied() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.batch != nil
}

// Snapshot copies out the current batch and its signatures without
// holding the lock past the copy. The returned slice is owned by the
// caller and safe to read without further synchronization.
func (c *ProposalCell) Snapshot() (batch types.Batch, signatures []types.SignerSignature, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.batch == nil {
		return types.Batch{}, nil, false
	}
	sigs := append([]types.SignerSignature(nil), c.signatures...)
	return *c.batch, sigs, true
}

// Set atomically replaces the cell's contents with a freshly authored
// batch and an empty signature set. Set is the only way a new
// proposal appears, so at most one Primary-authored proposal is ever
// outstanding, and it always starts from zero signatures.
func (c *ProposalCell) Set(batch types.Batch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b := batch
	c.batch = &b
	c.signatures = nil
	c.signers = mapset.NewSet()
}

// TryAppendSignature appends sig if the cell still holds batchID and
// the signer has not already signed. Returns true if the signature was
// appended. The dedup-by-signer check here is what callers rely on for
// uniqueness; monotonic growth of the signature count follows because
// this is the only mutator that can grow the slice.
func (c *ProposalCell) TryAppendSignature(batchID crypto.Digest, sig types.SignerSignature) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.batch == nil || c.batch.BatchId != batchID {
		return false
	}
	if c.signers.Contains(sig.Signer) {
		return false
	}
	c.signatures = append(c.signatures, sig)
	c.signers.Add(sig.Signer)
	return true
}

// Clear empties the cell if it still holds batchID. Used by the
// sealer to discard an expired proposal without racing a concurrent
// Set from the proposer.
func (c *ProposalCell) Clear(batchID crypto.Digest) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.batch != nil && c.batch.BatchId == batchID {
		c.batch = nil
		c.signatures = nil
		c.signers = mapset.NewSet()
	}
}

// TakeAndClear empties the cell if it still holds batchID, returning
// what it held. Used by the sealer when sealing: the same compare-
// and-clear semantics as Clear, but returning the content being
// removed.
func (c *ProposalCell) TakeAndClear(batchID crypto.Digest) (types.Batch, []types.SignerSignature, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.batch == nil || c.batch.BatchId != batchID {
		return types.Batch{}, nil, false
	}
	batch := *c.batch
	sigs := c.signatures
	c.batch = nil
	c.signatures = nil
	c.signers = mapset.NewSet()
	return batch, sigs, true
}
