// Package announcement builds and parses the event announcement wire
// format published at event creation: oracle x-only public key, nonce
// point, the ordered list of outcome messages, and an expiry.
// The event store treats the encoded form as an opaque blob.
package announcement

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"
)

// Announcement is the pre-commit record published when an event is
// created. OutcomeMessages is fixed at creation and never mutated.
type Announcement struct {
	PublicKey       []byte // 32-byte x-only oracle public key
	NoncePoint      []byte // 33-byte nonce point
	OutcomeMessages [][]byte
	Expiry          time.Time
}

// Encode serializes the announcement into its wire format: the public key,
// the nonce point, a 32-bit count followed by length-prefixed outcome
// messages, and a 32-bit unix-second expiry.
func Encode(a Announcement) ([]byte, error) {
	if len(a.PublicKey) != 32 {
		return nil, fmt.Errorf("announcement: public key must be 32 bytes, got %d", len(a.PublicKey))
	}
	if len(a.NoncePoint) != 33 {
		return nil, fmt.Errorf("announcement: nonce point must be 33 bytes, got %d", len(a.NoncePoint))
	}

	var buf bytes.Buffer
	buf.Write(a.PublicKey)
	buf.Write(a.NoncePoint)

	var count [4]byte
	binary.BigEndian.PutUint32(count[:], uint32(len(a.OutcomeMessages)))
	buf.Write(count[:])

	for _, msg := range a.OutcomeMessages {
		var length [4]byte
		binary.BigEndian.PutUint32(length[:], uint32(len(msg)))
		buf.Write(length[:])
		buf.Write(msg)
	}

	var expiry [4]byte
	binary.BigEndian.PutUint32(expiry[:], uint32(a.Expiry.UTC().Unix()))
	buf.Write(expiry[:])

	return buf.Bytes(), nil
}

// Decode parses an Encode-produced byte string back into an Announcement.
func Decode(data []byte) (Announcement, error) {
	if len(data) < 32+33+4 {
		return Announcement{}, fmt.Errorf("announcement: truncated header")
	}
	a := Announcement{}
	a.PublicKey = append([]byte(nil), data[:32]...)
	a.NoncePoint = append([]byte(nil), data[32:65]...)

	rest := data[65:]
	if len(rest) < 4 {
		return Announcement{}, fmt.Errorf("announcement: truncated count")
	}
	count := binary.BigEndian.Uint32(rest[:4])
	rest = rest[4:]

	messages := make([][]byte, 0, count)
	for i := uint32(0); i < count; i++ {
		if len(rest) < 4 {
			return Announcement{}, fmt.Errorf("announcement: truncated message length")
		}
		length := binary.BigEndian.Uint32(rest[:4])
		rest = rest[4:]
		if uint32(len(rest)) < length {
			return Announcement{}, fmt.Errorf("announcement: truncated message body")
		}
		messages = append(messages, append([]byte(nil), rest[:length]...))
		rest = rest[length:]
	}
	a.OutcomeMessages = messages

	if len(rest) < 4 {
		return Announcement{}, fmt.Errorf("announcement: truncated expiry")
	}
	expirySeconds := binary.BigEndian.Uint32(rest[:4])
	a.Expiry = time.Unix(int64(expirySeconds), 0).UTC()

	return a, nil
}
