package crypto

import (
	"golang.org/x/crypto/sha3"
)

// Digest is a 32-byte cryptographic digest, used both as a transmission
// identifier and as a batch identifier.
type Digest [32]byte

// Bytes returns the digest's raw bytes.
func (d Digest) Bytes() []byte { return d[:] }

// String returns the digest as a hex string.
func (d Digest) String() string {
	const hextable = "0123456789abcdef"
	out := make([]byte, 2+len(d)*2)
	out[0], out[1] = '0', 'x'
	for i, b := range d {
		out[2+i*2] = hextable[b>>4]
		out[2+i*2+1] = hextable[b&0x0f]
	}
	return string(out)
}

// IsZero reports whether the digest is the zero value.
func (d Digest) IsZero() bool { return d == Digest{} }

// HashToDigest combines one or more byte slices into a single digest
// using Keccak-256, the same primitive this module uses for batch ids
// and address derivation.
func HashToDigest(parts ...[]byte) Digest {
	h := sha3.NewLegacyKeccak256()
	for _, p := range parts {
		h.Write(p)
	}
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}
