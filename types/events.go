package types

import "github.com/narwhalchain/primary/crypto"

// EventKind tags a message crossing the Gateway so a single unicast or
// broadcast transport can multiplex all three event shapes.
type EventKind uint8

const (
	EventBatchPropose EventKind = iota
	EventBatchSignature
	EventBatchSealed
)

// BatchPropose carries a freshly authored batch to every peer.
type BatchPropose struct {
	Batch *Data[Batch]
}

// BatchSignature is the unicast reply a peer sends back to a batch's
// author once it has decoded and signed the proposal.
type BatchSignature struct {
	BatchId   crypto.Digest
	Signature crypto.Signature
}

// BatchSealed announces a freshly sealed certificate to every peer.
// The certificate is wrapped so a peer that only wants to check the
// sender or log the event doesn't pay the decode cost.
type BatchSealed struct {
	Certificate *Data[Certificate]
}
