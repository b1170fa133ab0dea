// Package crypto supplies the concrete account, address, and signature
// primitives the Primary treats as an opaque collaborator. It exists
// so the rest of the module can be exercised end to end; the signature
// scheme itself is not a protocol concern of the Primary.
package crypto

import (
	"crypto/rand"
	"errors"

	"github.com/btcsuite/btcd/btcec"
)

// Address identifies a committee member. It is the low 20 bytes of the
// Keccak-256 digest of the member's uncompressed public key, the usual
// Ethereum-style account address derivation.
type Address [20]byte

func (a Address) String() string {
	const hextable = "0123456789abcdef"
	out := make([]byte, 2+len(a)*2)
	out[0], out[1] = '0', 'x'
	for i, b := range a {
		out[2+i*2] = hextable[b>>4]
		out[2+i*2+1] = hextable[b&0x0f]
	}
	return string(out)
}

// IsZero reports whether the address is the zero value.
func (a Address) IsZero() bool { return a == Address{} }

// Signature is a serialized ECDSA signature over a Digest.
type Signature []byte

// Account is a local signing identity: a private key plus its derived
// address. The Primary holds exactly one Account, used to author
// batches and sign peer proposals.
type Account struct {
	priv *btcec.PrivateKey
	addr Address
}

// NewAccount generates a fresh random signing account.
func NewAccount() (*Account, error) {
	priv, err := btcec.NewPrivateKey(btcec.S256())
	if err != nil {
		return nil, err
	}
	return accountFromKey(priv), nil
}

// AccountFromSeed deterministically derives an account from 32 bytes of
// seed material. Tests use this to build a reproducible committee.
func AccountFromSeed(seed [32]byte) *Account {
	priv, _ := btcec.PrivKeyFromBytes(btcec.S256(), seed[:])
	return accountFromKey(priv)
}

func accountFromKey(priv *btcec.PrivateKey) *Account {
	pub := PublicKey(priv.PubKey().SerializeUncompressed())
	return &Account{priv: priv, addr: pub.Address()}
}

// Address returns the account's public address.
func (a *Account) Address() Address { return a.addr }

// Sign produces a signature over a digest.
func (a *Account) Sign(msg Digest) (Signature, error) {
	sig, err := a.priv.Sign(msg[:])
	if err != nil {
		return nil, err
	}
	return Signature(sig.Serialize()), nil
}

// PublicKey returns the account's public key, the piece of information
// the committee directory needs in order to verify signatures produced
// by this account.
func (a *Account) PublicKey() PublicKey {
	return PublicKey(a.priv.PubKey().SerializeUncompressed())
}

// PublicKey is a serialized uncompressed secp256k1 public key.
type PublicKey []byte

// Address derives the committee address associated with a public key:
// the low 20 bytes of the Keccak-256 digest of the uncompressed key,
// skipping its leading 0x04 prefix byte.
func (pk PublicKey) Address() Address {
	digest := HashToDigest(pk[1:])
	var addr Address
	copy(addr[:], digest[12:])
	return addr
}

// Verify reports whether sig is a valid signature over msg under pk.
func Verify(pk PublicKey, msg Digest, sig Signature) bool {
	pub, err := btcec.ParsePubKey(pk, btcec.S256())
	if err != nil {
		return false
	}
	parsed, err := btcec.ParseSignature(sig, btcec.S256())
	if err != nil {
		return false
	}
	return parsed.Verify(msg[:], pub)
}

var errNoRandomness = errors.New("crypto: system randomness unavailable")

func init() {
	// Fail fast in environments without a secure RNG instead of handing
	// out deterministic "random" keys later.
	var probe [1]byte
	if _, err := rand.Read(probe[:]); err != nil {
		panic(errNoRandomness)
	}
}
