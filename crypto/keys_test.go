package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAdaptorSecretRoundTripsThroughVerify(t *testing.T) {
	priv, err := GeneratePrivateKey()
	require.NoError(t, err)
	nonce, err := GenerateNonce()
	require.NoError(t, err)

	message := []byte("outcome message bytes")
	secret := AdaptorSecret(priv, nonce, message)

	ok, err := VerifyAdaptorSecret(priv.PubKey(), nonce.Point(), message, secret)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestVerifyAdaptorSecretRejectsWrongMessage(t *testing.T) {
	priv, err := GeneratePrivateKey()
	require.NoError(t, err)
	nonce, err := GenerateNonce()
	require.NoError(t, err)

	secret := AdaptorSecret(priv, nonce, []byte("real message"))

	ok, err := VerifyAdaptorSecret(priv.PubKey(), nonce.Point(), []byte("forged message"), secret)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifyAdaptorSecretRejectsWrongKey(t *testing.T) {
	priv, err := GeneratePrivateKey()
	require.NoError(t, err)
	other, err := GeneratePrivateKey()
	require.NoError(t, err)
	nonce, err := GenerateNonce()
	require.NoError(t, err)

	message := []byte("outcome message bytes")
	secret := AdaptorSecret(priv, nonce, message)

	ok, err := VerifyAdaptorSecret(other.PubKey(), nonce.Point(), message, secret)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifyAdaptorSecretRejectsBadLength(t *testing.T) {
	priv, err := GeneratePrivateKey()
	require.NoError(t, err)
	nonce, err := GenerateNonce()
	require.NoError(t, err)

	_, err = VerifyAdaptorSecret(priv.PubKey(), nonce.Point(), []byte("m"), []byte("too-short"))
	require.Error(t, err)
}

func TestPrivateKeyBytesRoundTrip(t *testing.T) {
	priv, err := GeneratePrivateKey()
	require.NoError(t, err)

	reparsed, err := PrivateKeyFromBytes(priv.Bytes())
	require.NoError(t, err)
	require.Equal(t, priv.PubKey().Bytes(), reparsed.PubKey().Bytes())
}

func TestPublicKeyBytesRoundTrip(t *testing.T) {
	priv, err := GeneratePrivateKey()
	require.NoError(t, err)
	pub := priv.PubKey()

	reparsed, err := PublicKeyFromBytes(pub.Bytes())
	require.NoError(t, err)
	require.Equal(t, pub.Bytes(), reparsed.Bytes())

	reparsedCompressed, err := PublicKeyFromBytes(pub.CompressedBytes())
	require.NoError(t, err)
	require.Equal(t, pub.Bytes(), reparsedCompressed.Bytes())
}

func TestNonceBytesRoundTrip(t *testing.T) {
	nonce, err := GenerateNonce()
	require.NoError(t, err)

	reparsed, err := NonceFromBytes(nonce.Bytes())
	require.NoError(t, err)
	require.Equal(t, nonce.Point(), reparsed.Point())
}
