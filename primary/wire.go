package primary

import (
	"github.com/narwhalchain/primary/gateway"
	"github.com/narwhalchain/primary/types"
)

// gatewayEnvelope builds the Envelope the Gateway contract expects for
// one of the three outbound event shapes.
func gatewayEnvelope(kind types.EventKind, payload any) gateway.Envelope {
	env := gateway.Envelope{Kind: kind}
	switch v := payload.(type) {
	case types.BatchPropose:
		env.Propose = &v
	case types.BatchSignature:
		env.Signature = &v
	case types.BatchSealed:
		env.Sealed = &v
	}
	return env
}
