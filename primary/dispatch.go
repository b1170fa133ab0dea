package primary

import (
	"context"

	"github.com/narwhalchain/primary/gateway"
	"github.com/narwhalchain/primary/inbound"
	"github.com/narwhalchain/primary/log"
	"github.com/narwhalchain/primary/types"
)

// dispatchInbound is the sixth long-running task Run spawns: it reads
// every Envelope the Gateway hands back from peers and fans it out onto
// the matching one of the five ingress channels, tagging each with the
// peer it arrived from. The five handler tasks never read the
// Gateway's inbox; this is the only place that does.
func (p *Primary) dispatchInbound(ctx context.Context, sender inbound.PrimarySender) {
	inbox := p.gw.Inbox()
	for {
		select {
		case <-ctx.Done():
			return
		case env, ok := <-inbox:
			if !ok {
				return
			}
			p.dispatchEnvelope(ctx, sender, env)
		}
	}
}

func (p *Primary) dispatchEnvelope(ctx context.Context, sender inbound.PrimarySender, env gateway.Envelope) {
	switch env.Kind {
	case types.EventBatchPropose:
		if env.Propose == nil {
			log.Warn("dropping batch propose envelope with no payload", "peer", env.From)
			return
		}
		msg := inbound.BatchProposeMsg{PeerIP: env.From, Propose: *env.Propose}
		select {
		case sender.BatchPropose <- msg:
		case <-ctx.Done():
		}
	case types.EventBatchSignature:
		if env.Signature == nil {
			log.Warn("dropping batch signature envelope with no payload", "peer", env.From)
			return
		}
		msg := inbound.BatchSignatureMsg{PeerIP: env.From, Signature: *env.Signature}
		select {
		case sender.BatchSignature <- msg:
		case <-ctx.Done():
		}
	case types.EventBatchSealed:
		if env.Sealed == nil {
			log.Warn("dropping batch sealed envelope with no payload", "peer", env.From)
			return
		}
		msg := inbound.BatchSealedMsg{PeerIP: env.From, Sealed: *env.Sealed}
		select {
		case sender.BatchSealed <- msg:
		case <-ctx.Done():
		}
	default:
		log.Warn("dropping envelope of unknown kind", "peer", env.From, "kind", env.Kind)
	}
}
