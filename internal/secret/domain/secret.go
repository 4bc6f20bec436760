// Package domain defines the core domain models for one-time secret sharing.
// A Secret holds only non-secret metadata: the ciphertext itself lives in the
// blob store and the decryption key never reaches the server.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Kind identifies how the stored ciphertext should be interpreted by the client.
type Kind string

// Supported secret kinds.
const (
	KindText Kind = "text"
	KindFile Kind = "file"
)

// TTL options available at creation time.
const (
	TTL5m  = "5m"
	TTL10m = "10m"
	TTL30m = "30m"
	TTL1h  = "1h"
	TTL24h = "24h"

	// DefaultTTLOption is applied when the requested option is absent or unknown.
	DefaultTTLOption = TTL10m
)

// ttlOptions maps the enumerated TTL options to durations.
var ttlOptions = map[string]time.Duration{
	TTL5m:  5 * time.Minute,
	TTL10m: 10 * time.Minute,
	TTL30m: 30 * time.Minute,
	TTL1h:  time.Hour,
	TTL24h: 24 * time.Hour,
}

// ParseTTL resolves a TTL option string to its duration and canonical option
// name. Absent or unknown options silently map to the default; an invalid
// option is never an error.
func ParseTTL(option string) (time.Duration, string) {
	if d, ok := ttlOptions[option]; ok {
		return d, option
	}
	return ttlOptions[DefaultTTLOption], DefaultTTLOption
}

// PasswordGate holds client-derived password verification material. The server
// stores and returns it verbatim so the client can verify a password locally
// before spending the one allowed read; it is never checked server-side.
type PasswordGate struct {
	// Hash is the client-derived password verification hash (base64).
	Hash string
	// Salt is the salt used in the client-side derivation (base64).
	Salt string
	// IV is the initialization vector used in the client-side derivation (base64).
	IV string
}

// Secret represents the metadata record for one stored ciphertext.
type Secret struct {
	// ID is the unique identifier, used as the sole external reference and
	// as the blob store key.
	ID uuid.UUID
	// Kind determines which optional fields are meaningful.
	Kind Kind
	// IV is the initialization vector for the payload (base64), stored as
	// provided and never interpreted.
	IV string
	// SizeBytes is the length of the stored ciphertext.
	SizeBytes int64
	// OriginalName is the uploaded file name. File secrets only.
	OriginalName string
	// MimeType is the uploaded file content type. File secrets only.
	MimeType string
	// PasswordGate is the optional client-side password verification material.
	PasswordGate *PasswordGate
	// TTLOption is the canonical TTL option this secret was created with.
	TTLOption string
	// CreatedAt is the UTC timestamp when the secret was created.
	CreatedAt time.Time
	// ExpiresAt is CreatedAt plus the selected TTL.
	ExpiresAt time.Time
	// Consumed is set exactly once, by the retrieval that releases the ciphertext.
	Consumed bool
}

// HasPassword reports whether a password gate is attached.
func (s *Secret) HasPassword() bool {
	return s.PasswordGate != nil
}

// Expired reports whether the secret must behave as absent at the given time.
func (s *Secret) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
