package entities

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// minIDLength is the shortest generated id. Four hex digits keep ids short
// for small datasets while leaving room to grow on collision.
const minIDLength = 4

// MakeID generates an id for payload as the shortest unused prefix of the
// SHA-256 of its canonical JSON form. The exists callback reports whether a
// candidate id is already taken within the entity kind. If every prefix of
// the full hash is taken, the payload is re-hashed salted with the current
// timestamp until a free id turns up.
func MakeID(payload any, exists func(id string) bool) (string, error) {
	return makeID(payload, "", exists)
}

func makeID(payload any, salt string, exists func(id string) bool) (string, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("canonicalizing payload: %w", err)
	}
	sum := sha256.Sum256(append(raw, salt...))
	full := hex.EncodeToString(sum[:])
	for i := minIDLength; i <= len(full); i++ {
		if !exists(full[:i]) {
			return full[:i], nil
		}
	}
	return makeID(payload, time.Now().Format(time.RFC3339Nano), exists)
}
