// Package types holds the wire-level data model of the mempool: the
// transmission identifiers workers shard on, the batches a Primary
// proposes, and the certificates that seal them.
package types

import (
	"github.com/narwhalchain/primary/crypto"
)

// TransmissionKind distinguishes the two payload shapes a Transmission
// may carry.
type TransmissionKind uint8

const (
	// KindTransaction marks a TransmissionId as a TransactionId.
	KindTransaction TransmissionKind = iota
	// KindSolution marks a TransmissionId as a PuzzleCommitment.
	KindSolution
)

// TransmissionId uniquely identifies an unconfirmed transaction or
// prover solution: a TransactionId or a PuzzleCommitment, tagged by
// Kind so the two digest spaces never collide.
type TransmissionId struct {
	Kind   TransmissionKind
	Digest crypto.Digest
}

// NewTransactionId wraps a transaction digest as a TransmissionId.
func NewTransactionId(d crypto.Digest) TransmissionId {
	return TransmissionId{Kind: KindTransaction, Digest: d}
}

// NewSolutionId wraps a puzzle-commitment digest as a TransmissionId.
func NewSolutionId(d crypto.Digest) TransmissionId {
	return TransmissionId{Kind: KindSolution, Digest: d}
}

func (id TransmissionId) String() string { return id.Digest.String() }

// Transmission is the payload addressed by a TransmissionId. The
// Primary never inspects its contents; it is opaque cargo shuttled
// from a worker's buffer into a batch.
type Transmission struct {
	Kind TransmissionKind
	Data []byte
}
