package service

import "github.com/google/uuid"

// NewShareID returns an opaque identifier for a new share. A v4 uuid carries
// 122 bits of entropy, enough that the registry treats a collision as an
// internal invariant violation rather than something to retry.
func NewShareID() string {
	return uuid.NewString()
}
