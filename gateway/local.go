package gateway

import (
	"context"
	"errors"
	"sync"

	"github.com/narwhalchain/primary/crypto"
	"github.com/narwhalchain/primary/log"
)

// ErrClosed is returned by Broadcast/Unicast once the gateway has been
// closed.
var ErrClosed = errors.New("gateway: closed")

// Network is a shared in-process registry LocalGateway instances join
// to reach one another. It stands in for the real validator-to-validator
// transport and is the reference implementation used by this module's
// end-to-end tests.
type Network struct {
	mu   sync.RWMutex
	byIP map[PeerIP]*LocalGateway
}

// NewNetwork creates an empty shared network.
func NewNetwork() *Network {
	return &Network{byIP: make(map[PeerIP]*LocalGateway)}
}

func (n *Network) register(g *LocalGateway) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.byIP[g.ip] = g
}

func (n *Network) unregister(ip PeerIP) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.byIP, ip)
}

func (n *Network) peers(except PeerIP) []*LocalGateway {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]*LocalGateway, 0, len(n.byIP))
	for ip, g := range n.byIP {
		if ip == except {
			continue
		}
		out = append(out, g)
	}
	return out
}

func (n *Network) get(ip PeerIP) (*LocalGateway, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	g, ok := n.byIP[ip]
	return g, ok
}

// LocalGateway is a Gateway that delivers messages directly to peer
// inboxes within the same process. It carries no transport-layer
// concerns (framing, retries, NAT traversal); those belong to the
// production Gateway this module treats as external.
type LocalGateway struct {
	ip      PeerIP
	account *crypto.Account
	net     *Network

	inbox chan Envelope

	closeOnce sync.Once
	closed    chan struct{}
}

// NewLocalGateway creates a gateway bound to ip and joins net once
// Start is called.
func NewLocalGateway(net *Network, ip PeerIP, account *crypto.Account) *LocalGateway {
	return &LocalGateway{
		ip:      ip,
		account: account,
		net:     net,
		inbox:   make(chan Envelope, 1024),
		closed:  make(chan struct{}),
	}
}

func (g *LocalGateway) LocalAccount() *crypto.Account { return g.account }

func (g *LocalGateway) Inbox() <-chan Envelope { return g.inbox }

func (g *LocalGateway) Start(ctx context.Context) error {
	g.net.register(g)
	return nil
}

func (g *LocalGateway) Close() error {
	g.closeOnce.Do(func() {
		g.net.unregister(g.ip)
		close(g.closed)
	})
	return nil
}

func (g *LocalGateway) Broadcast(ctx context.Context, env Envelope) error {
	env.From = g.ip
	for _, peer := range g.net.peers(g.ip) {
		if err := peer.deliver(ctx, env); err != nil {
			log.Warn("broadcast delivery failed", "to", peer.ip, "err", err)
		}
	}
	return nil
}

func (g *LocalGateway) Unicast(ctx context.Context, peer PeerIP, env Envelope) error {
	env.From = g.ip
	target, ok := g.net.get(peer)
	if !ok {
		return errors.New("gateway: unknown peer " + string(peer))
	}
	return target.deliver(ctx, env)
}

func (g *LocalGateway) deliver(ctx context.Context, env Envelope) error {
	select {
	case <-g.closed:
		return ErrClosed
	default:
	}
	select {
	case g.inbox <- env:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-g.closed:
		return ErrClosed
	}
}
