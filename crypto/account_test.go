package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccountFromSeedIsDeterministic(t *testing.T) {
	var seed [32]byte
	seed[0] = 0x42

	a1 := AccountFromSeed(seed)
	a2 := AccountFromSeed(seed)
	require.Equal(t, a1.Address(), a2.Address())
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	acct, err := NewAccount()
	require.NoError(t, err)

	msg := HashToDigest([]byte("batch contents"))
	sig, err := acct.Sign(msg)
	require.NoError(t, err)

	require.True(t, Verify(acct.PublicKey(), msg, sig))
}

func TestVerifyRejectsWrongMessage(t *testing.T) {
	acct, err := NewAccount()
	require.NoError(t, err)

	sig, err := acct.Sign(HashToDigest([]byte("original")))
	require.NoError(t, err)

	require.False(t, Verify(acct.PublicKey(), HashToDigest([]byte("tampered")), sig))
}

func TestVerifyRejectsWrongSigner(t *testing.T) {
	a, err := NewAccount()
	require.NoError(t, err)
	b, err := NewAccount()
	require.NoError(t, err)

	msg := HashToDigest([]byte("batch contents"))
	sig, err := a.Sign(msg)
	require.NoError(t, err)

	require.False(t, Verify(b.PublicKey(), msg, sig))
}

func TestPublicKeyAddressMatchesAccountAddress(t *testing.T) {
	acct, err := NewAccount()
	require.NoError(t, err)
	require.Equal(t, acct.Address(), acct.PublicKey().Address())
}

func TestDigestStringIsStable(t *testing.T) {
	d := HashToDigest([]byte("x"))
	require.Equal(t, d.String(), d.String())
	require.False(t, d.IsZero())

	var zero Digest
	require.True(t, zero.IsZero())
}
