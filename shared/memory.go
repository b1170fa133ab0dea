package shared

import (
	"sync"
	"sync/atomic"

	mapset "github.com/deckarep/golang-set"
	lru "github.com/hashicorp/golang-lru"

	"github.com/narwhalchain/primary/crypto"
	"github.com/narwhalchain/primary/gateway"
	"github.com/narwhalchain/primary/inbound"
	"github.com/narwhalchain/primary/log"
	"github.com/narwhalchain/primary/types"
)

// defaultCacheSize bounds the peer-directory and per-round certificate
// caches.
const defaultCacheSize = 1024

// MemoryStore is the in-memory reference implementation of Store. It
// is what this module's tests wire a Primary against, and what a
// single-validator process can use directly when it has no separate
// consensus-layer registry.
//
// Round advancement is deliberately NOT driven by anything in the
// primary package: MemoryStore exposes AdvanceRound so whatever
// component observes a quorum of sealed certificates (the consensus
// layer, in a full node) can move the round forward and record the
// new round's parents explicitly.
type MemoryStore struct {
	round uint64 // atomic

	mu        sync.RWMutex
	committee mapset.Set // of crypto.Address
	pubkeys   map[crypto.Address]crypto.PublicKey

	addressByPeer *lru.Cache // gateway.PeerIP -> crypto.Address
	certsByRound  *lru.Cache // uint64 -> []crypto.Digest

	proposed *lru.Cache // proposedKey -> types.Batch
	sealed   *lru.Cache // sealedKey -> types.Certificate

	senderMu sync.RWMutex
	sender   *inbound.PrimarySender
}

type proposedKey struct {
	peer    gateway.PeerIP
	batchID crypto.Digest
}

type sealedKey struct {
	peer    gateway.PeerIP
	batchID crypto.Digest
}

// NewMemoryStore creates a store at round 0 seeded with a fixed
// committee (address -> public key). No parent certificates are
// recorded for round 0.
func NewMemoryStore(committee map[crypto.Address]crypto.PublicKey) *MemoryStore {
	addrSet := mapset.NewSet()
	pubkeys := make(map[crypto.Address]crypto.PublicKey, len(committee))
	for addr, pk := range committee {
		addrSet.Add(addr)
		pubkeys[addr] = pk
	}

	addressByPeer, _ := lru.New(defaultCacheSize)
	certsByRound, _ := lru.New(defaultCacheSize)
	proposed, _ := lru.New(defaultCacheSize)
	sealed, _ := lru.New(defaultCacheSize)

	return &MemoryStore{
		committee:     addrSet,
		pubkeys:       pubkeys,
		addressByPeer: addressByPeer,
		certsByRound:  certsByRound,
		proposed:      proposed,
		sealed:        sealed,
	}
}

// RegisterPeer records the committee address a peer IP corresponds to.
// A real node learns this from its gossip/handshake layer; tests and
// local deployments register it directly.
func (s *MemoryStore) RegisterPeer(peer gateway.PeerIP, addr crypto.Address) {
	s.addressByPeer.Add(peer, addr)
}

func (s *MemoryStore) Round() uint64 { return atomic.LoadUint64(&s.round) }

// AdvanceRound records the certificate ids that will serve as parents
// for the next round and atomically bumps the round counter. It
// returns the new round number.
func (s *MemoryStore) AdvanceRound(parentCertificateIds []crypto.Digest) uint64 {
	next := atomic.AddUint64(&s.round, 1)
	certs := append([]crypto.Digest(nil), parentCertificateIds...)
	s.certsByRound.Add(next, certs)
	log.Info("round advanced", "round", next, "parents", len(certs))
	return next
}

func (s *MemoryStore) PreviousCertificates(round uint64) []crypto.Digest {
	v, ok := s.certsByRound.Get(round)
	if !ok {
		return nil
	}
	return v.([]crypto.Digest)
}

func (s *MemoryStore) GetAddress(peer gateway.PeerIP) (crypto.Address, bool) {
	v, ok := s.addressByPeer.Get(peer)
	if !ok {
		return crypto.Address{}, false
	}
	return v.(crypto.Address), true
}

func (s *MemoryStore) GetPublicKey(addr crypto.Address) (crypto.PublicKey, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pk, ok := s.pubkeys[addr]
	return pk, ok
}

func (s *MemoryStore) IsCommitteeMember(addr crypto.Address) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.committee.Contains(addr)
}

func (s *MemoryStore) NumValidators() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.committee.Cardinality()
}

func (s *MemoryStore) StoreProposedBatch(peer gateway.PeerIP, batch types.Batch) {
	s.proposed.Add(proposedKey{peer: peer, batchID: batch.BatchId}, batch)
}

func (s *MemoryStore) StoreSealedBatch(peer gateway.PeerIP, cert types.Certificate) {
	s.sealed.Add(sealedKey{peer: peer, batchID: cert.Batch.BatchId}, cert)
}

func (s *MemoryStore) StoreSealedBatchFromPrimary(author crypto.Address, sealed types.SealedBatch) {
	s.sealed.Add(sealedKey{peer: gateway.PeerIP(author.String()), batchID: sealed.BatchId()}, sealed.Certificate)
	log.Info("stored sealed batch from primary", "author", author, "batch_id", sealed.BatchId())
}

func (s *MemoryStore) SetPrimarySender(sender inbound.PrimarySender) {
	s.senderMu.Lock()
	defer s.senderMu.Unlock()
	s.sender = &sender
}

// Sender returns the previously registered PrimarySender, if any. RPC
// or ledger code embedding this store uses it to inject unconfirmed
// transmissions into the mempool.
func (s *MemoryStore) Sender() (inbound.PrimarySender, bool) {
	s.senderMu.RLock()
	defer s.senderMu.RUnlock()
	if s.sender == nil {
		return inbound.PrimarySender{}, false
	}
	return *s.sender, true
}

// SealedBatch looks up a certificate previously stored under peer and
// batch id.
func (s *MemoryStore) SealedBatch(peer gateway.PeerIP, batchID crypto.Digest) (types.Certificate, bool) {
	v, ok := s.sealed.Get(sealedKey{peer: peer, batchID: batchID})
	if !ok {
		return types.Certificate{}, false
	}
	return v.(types.Certificate), true
}

// HasSealedBatchFrom reports whether any certificate authored by addr
// has been sealed and stored, without the caller needing to know its
// batch id ahead of time.
func (s *MemoryStore) HasSealedBatchFrom(addr crypto.Address) bool {
	peer := gateway.PeerIP(addr.String())
	for _, k := range s.sealed.Keys() {
		if key, ok := k.(sealedKey); ok && key.peer == peer {
			return true
		}
	}
	return false
}

var _ Store = (*MemoryStore)(nil)
