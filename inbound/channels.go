// Package inbound defines the Primary's five ingress streams:
// PrimarySender/PrimaryReceiver. Each is a bounded, single-consumer
// FIFO channel; the sender half is registered into the Shared store so
// other subsystems (RPC, ledger) can inject work without importing the
// primary package directly.
package inbound

import (
	"github.com/narwhalchain/primary/gateway"
	"github.com/narwhalchain/primary/types"
)

// DefaultCapacity is the default bound applied to every ingress
// channel when callers don't specify one.
const DefaultCapacity = 1024

// BatchProposeMsg is a (peer_ip, BatchPropose) tuple.
type BatchProposeMsg struct {
	PeerIP  gateway.PeerIP
	Propose types.BatchPropose
}

// BatchSignatureMsg is a (peer_ip, BatchSignature) tuple.
type BatchSignatureMsg struct {
	PeerIP    gateway.PeerIP
	Signature types.BatchSignature
}

// BatchSealedMsg is a (peer_ip, DataWrapper<Certificate>) tuple.
type BatchSealedMsg struct {
	PeerIP gateway.PeerIP
	Sealed types.BatchSealed
}

// UnconfirmedMsg carries either a (PuzzleCommitment, ProverSolution) or
// a (TransactionId, Transaction) pair; the TransmissionId already
// tags which.
type UnconfirmedMsg struct {
	Id           types.TransmissionId
	Transmission types.Transmission
}

// PrimarySender is the producer half of the five ingress channels.
type PrimarySender struct {
	BatchPropose           chan<- BatchProposeMsg
	BatchSignature         chan<- BatchSignatureMsg
	BatchSealed            chan<- BatchSealedMsg
	UnconfirmedSolution    chan<- UnconfirmedMsg
	UnconfirmedTransaction chan<- UnconfirmedMsg
}

// PrimaryReceiver is the consumer half, read exclusively by the
// Primary's five handler tasks.
type PrimaryReceiver struct {
	BatchPropose           <-chan BatchProposeMsg
	BatchSignature         <-chan BatchSignatureMsg
	BatchSealed            <-chan BatchSealedMsg
	UnconfirmedSolution    <-chan UnconfirmedMsg
	UnconfirmedTransaction <-chan UnconfirmedMsg
}

// NewChannels allocates the five bounded channels and returns their
// sender/receiver halves.
func NewChannels(capacity int) (PrimarySender, PrimaryReceiver) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	propose := make(chan BatchProposeMsg, capacity)
	signature := make(chan BatchSignatureMsg, capacity)
	sealed := make(chan BatchSealedMsg, capacity)
	solution := make(chan UnconfirmedMsg, capacity)
	transaction := make(chan UnconfirmedMsg, capacity)

	sender := PrimarySender{
		BatchPropose:           propose,
		BatchSignature:         signature,
		BatchSealed:            sealed,
		UnconfirmedSolution:    solution,
		UnconfirmedTransaction: transaction,
	}
	receiver := PrimaryReceiver{
		BatchPropose:           propose,
		BatchSignature:         signature,
		BatchSealed:            sealed,
		UnconfirmedSolution:    solution,
		UnconfirmedTransaction: transaction,
	}
	return sender, receiver
}
