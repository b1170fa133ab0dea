// Package gateway defines the networking façade the Primary treats as
// an external collaborator: peer broadcast/unicast and the local
// signing account. The transport itself is out of scope; LocalGateway
// below is a minimal in-process implementation sufficient to drive
// end-to-end tests without a real network stack.
package gateway

import (
	"context"

	"github.com/narwhalchain/primary/crypto"
	"github.com/narwhalchain/primary/types"
)

// PeerIP identifies a peer opaquely, as whatever the transport uses to
// address a connection.
type PeerIP string

// Envelope is a single typed message crossing the Gateway, tagging the
// sender so unicast replies know where to go.
type Envelope struct {
	From PeerIP
	Kind types.EventKind
	// Exactly one of the following is populated, selected by Kind.
	Propose   *types.BatchPropose
	Signature *types.BatchSignature
	Sealed    *types.BatchSealed
}

// Gateway is the network façade contract consumed by the Primary.
type Gateway interface {
	// LocalAccount returns the signing identity used to author and
	// countersign batches.
	LocalAccount() *crypto.Account

	// Broadcast fans a message out to every known peer.
	Broadcast(ctx context.Context, env Envelope) error

	// Unicast sends a message to exactly one peer.
	Unicast(ctx context.Context, peer PeerIP, env Envelope) error

	// Inbox returns the channel the Primary's inbound dispatch task
	// reads inbound peer messages from.
	Inbox() <-chan Envelope

	// Start begins accepting inbound connections / messages.
	Start(ctx context.Context) error

	// Close stops the gateway. Idempotent.
	Close() error
}
