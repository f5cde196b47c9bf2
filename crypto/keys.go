package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// PrivateKey is an oracle signing key. Unlike an on-chain spending key it
// never derives a wallet address; it only ever produces a nonce point and
// per-outcome adaptor secrets over the curve.
type PrivateKey struct {
	key *secp256k1.PrivateKey
}

// PublicKey is the x-only public key published as the oracle's identity.
type PublicKey struct {
	key *secp256k1.PublicKey
}

// GeneratePrivateKey draws a new private key from a CSPRNG.
func GeneratePrivateKey() (*PrivateKey, error) {
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return nil, fmt.Errorf("crypto: generate private key: %w", err)
	}
	return &PrivateKey{key: secp256k1.PrivKeyFromBytes(buf[:])}, nil
}

// PrivateKeyFromBytes parses a 32-byte scalar into a private key.
func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("crypto: private key must be 32 bytes, got %d", len(b))
	}
	return &PrivateKey{key: secp256k1.PrivKeyFromBytes(b)}, nil
}

// Bytes returns the raw 32-byte scalar.
func (k *PrivateKey) Bytes() []byte {
	b := k.key.Serialize()
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// PubKey returns the public key corresponding to this private key.
func (k *PrivateKey) PubKey() *PublicKey {
	return &PublicKey{key: k.key.PubKey()}
}

// Bytes returns the 32-byte x-only encoding of the public key, the form
// published as the oracle's identity and used as input to every adaptor
// secret's challenge hash.
func (k *PublicKey) Bytes() []byte {
	return xOnly(k.key)
}

// PublicKeyFromBytes parses a 32-byte x-only or 33-byte compressed public key.
func PublicKeyFromBytes(b []byte) (*PublicKey, error) {
	switch len(b) {
	case 32:
		pub, err := secp256k1.ParsePubKey(append([]byte{0x02}, b...))
		if err != nil {
			return nil, fmt.Errorf("crypto: parse x-only public key: %w", err)
		}
		return &PublicKey{key: pub}, nil
	case 33:
		pub, err := secp256k1.ParsePubKey(b)
		if err != nil {
			return nil, fmt.Errorf("crypto: parse compressed public key: %w", err)
		}
		return &PublicKey{key: pub}, nil
	default:
		return nil, fmt.Errorf("crypto: public key must be 32 or 33 bytes, got %d", len(b))
	}
}

// CompressedBytes returns the 33-byte SEC1 compressed encoding, the form the
// oracle exposes from its public_key() facade method.
func (k *PublicKey) CompressedBytes() []byte {
	return k.key.SerializeCompressed()
}

func xOnly(pub *secp256k1.PublicKey) []byte {
	b := pub.SerializeCompressed()
	out := make([]byte, 32)
	copy(out, b[1:])
	return out
}

// NonceKey is a one-time scalar/point pair committed to an event at
// announcement time. Its point half is published; its scalar half is kept
// alongside the oracle's private key until signing.
type NonceKey struct {
	scalar *secp256k1.PrivateKey
}

// GenerateNonce draws a fresh nonce key for a newly announced event.
func GenerateNonce() (*NonceKey, error) {
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return nil, fmt.Errorf("crypto: generate nonce: %w", err)
	}
	return &NonceKey{scalar: secp256k1.PrivKeyFromBytes(buf[:])}, nil
}

// NonceFromBytes parses a stored 32-byte nonce scalar.
func NonceFromBytes(b []byte) (*NonceKey, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("crypto: nonce must be 32 bytes, got %d", len(b))
	}
	return &NonceKey{scalar: secp256k1.PrivKeyFromBytes(b)}, nil
}

// Bytes returns the raw 32-byte nonce scalar for persistence.
func (n *NonceKey) Bytes() []byte {
	b := n.scalar.Serialize()
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Point returns the 33-byte compressed nonce point published in the event
// announcement.
func (n *NonceKey) Point() []byte {
	return n.scalar.PubKey().SerializeCompressed()
}

// AdaptorSecret computes the Schnorr-style adaptor secret released when the
// oracle attests to a single outcome message:
//
//	s = k + H(R || P || m) * x  mod n
//
// where R is the nonce point, P is the oracle's public key, x is the
// oracle's private scalar and m is the encoded outcome message for the
// winning ranking. Releasing s publicly lets anyone holding the matching
// adaptor signature complete it; that is the entire point of publishing R
// and P ahead of the observation window.
func AdaptorSecret(priv *PrivateKey, nonce *NonceKey, message []byte) []byte {
	challenge := challengeScalar(nonce.Point(), priv.PubKey().Bytes(), message)

	var s secp256k1.ModNScalar
	s.Set(&nonce.scalar.Key)
	s.Add(challenge.Mul(&priv.key.Key))

	out := s.Bytes()
	return out[:]
}

// VerifyAdaptorSecret recomputes the challenge and checks that s*G equals
// R + H(R||P||m)*P, confirming a released secret actually attests to message
// under (nonce, pub) without needing the private key.
func VerifyAdaptorSecret(pub *PublicKey, noncePoint []byte, message []byte, s []byte) (bool, error) {
	if len(s) != 32 {
		return false, fmt.Errorf("crypto: adaptor secret must be 32 bytes, got %d", len(s))
	}
	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(s); overflow {
		return false, errors.New("crypto: adaptor secret overflows scalar field")
	}

	var lhs secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&scalar, &lhs)
	lhs.ToAffine()

	r, err := PublicKeyFromBytes(noncePoint)
	if err != nil {
		return false, err
	}

	challenge := challengeScalar(noncePoint, pub.Bytes(), message)

	var pubJacobian, rJacobian, challengeTerm, rhs secp256k1.JacobianPoint
	pub.key.AsJacobian(&pubJacobian)
	r.key.AsJacobian(&rJacobian)
	secp256k1.ScalarMultNonConst(challenge, &pubJacobian, &challengeTerm)
	secp256k1.AddNonConst(&rJacobian, &challengeTerm, &rhs)
	rhs.ToAffine()

	return lhs.X.Equals(&rhs.X) && lhs.Y.Equals(&rhs.Y), nil
}

func challengeScalar(noncePoint, pubKey, message []byte) *secp256k1.ModNScalar {
	h := sha256.New()
	h.Write(noncePoint)
	h.Write(pubKey)
	h.Write(message)
	digest := h.Sum(nil)

	var scalar secp256k1.ModNScalar
	scalar.SetByteSlice(digest)
	return &scalar
}
