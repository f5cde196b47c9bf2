package announcement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrips(t *testing.T) {
	a := Announcement{
		PublicKey:       bytesOf(32, 0xAB),
		NoncePoint:      bytesOf(33, 0xCD),
		OutcomeMessages: [][]byte{{0x01, 0x02}, {0x03}, {}},
		Expiry:          time.Date(2026, 8, 8, 0, 0, 0, 0, time.UTC),
	}

	encoded, err := Encode(a)
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, a.PublicKey, decoded.PublicKey)
	require.Equal(t, a.NoncePoint, decoded.NoncePoint)
	require.Equal(t, a.OutcomeMessages, decoded.OutcomeMessages)
	require.True(t, a.Expiry.Equal(decoded.Expiry))
}

func TestEncodeRejectsWrongSizedPublicKey(t *testing.T) {
	a := Announcement{PublicKey: bytesOf(31, 0), NoncePoint: bytesOf(33, 0)}
	_, err := Encode(a)
	require.Error(t, err)
}

func TestEncodeRejectsWrongSizedNoncePoint(t *testing.T) {
	a := Announcement{PublicKey: bytesOf(32, 0), NoncePoint: bytesOf(32, 0)}
	_, err := Encode(a)
	require.Error(t, err)
}

func TestDecodeRejectsTruncatedHeader(t *testing.T) {
	_, err := Decode(bytesOf(10, 0))
	require.Error(t, err)
}

func TestDecodeRejectsTruncatedTail(t *testing.T) {
	a := Announcement{
		PublicKey:       bytesOf(32, 1),
		NoncePoint:      bytesOf(33, 2),
		OutcomeMessages: [][]byte{{0x01, 0x02, 0x03}},
		Expiry:          time.Unix(0, 0),
	}
	encoded, err := Encode(a)
	require.NoError(t, err)

	_, err = Decode(encoded[:len(encoded)-2])
	require.Error(t, err)
}

func bytesOf(n int, fill byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = fill
	}
	return b
}
