// Package shared defines the Shared store contract: the process-wide,
// round-indexed registry of committee membership, peer addresses, and
// proposed/sealed batches. Its internals are an external collaborator
// the Primary depends on but does not own; this package supplies the
// contract plus one in-memory reference implementation.
package shared

import (
	"github.com/narwhalchain/primary/crypto"
	"github.com/narwhalchain/primary/gateway"
	"github.com/narwhalchain/primary/inbound"
	"github.com/narwhalchain/primary/types"
)

// Store is the Shared contract the Primary depends on.
type Store interface {
	// Round returns the current round index.
	Round() uint64

	// PreviousCertificates returns the parent certificate ids a new
	// proposal at the given round should reference.
	PreviousCertificates(round uint64) []crypto.Digest

	// GetAddress resolves a peer's committee address, if known.
	GetAddress(peer gateway.PeerIP) (crypto.Address, bool)

	// GetPublicKey resolves a committee member's public key, needed to
	// verify a BatchSignature against its claimed signer.
	GetPublicKey(addr crypto.Address) (crypto.PublicKey, bool)

	// IsCommitteeMember reports whether addr is currently authorized to
	// sign batches.
	IsCommitteeMember(addr crypto.Address) bool

	// NumValidators returns the size of the current committee.
	NumValidators() int

	// StoreProposedBatch records a batch proposed by a peer.
	StoreProposedBatch(peer gateway.PeerIP, batch types.Batch)

	// StoreSealedBatch records a certificate sealed and broadcast by a
	// peer.
	StoreSealedBatch(peer gateway.PeerIP, cert types.Certificate)

	// StoreSealedBatchFromPrimary records a certificate this Primary
	// itself sealed.
	StoreSealedBatchFromPrimary(author crypto.Address, sealed types.SealedBatch)

	// SetPrimarySender registers the producer half of the Primary's
	// ingress channels, so other subsystems (RPC, the ledger) can
	// inject unconfirmed transmissions without a direct dependency on
	// the primary package.
	SetPrimarySender(sender inbound.PrimarySender)
}
