// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"encoding/base64"

	"github.com/allisson/lockbin/internal/secret/domain"
)

// CreateSecretResponse is returned after a secret has been stored. ExpiresIn
// is the time-to-live in seconds; Size is only populated for file secrets.
type CreateSecretResponse struct {
	ID        string `json:"id"`
	ExpiresIn int64  `json:"expiresIn"`
	Size      int64  `json:"size,omitempty"`
}

// MapSecretToCreateResponse converts a domain secret to a creation response.
func MapSecretToCreateResponse(secret *domain.Secret) CreateSecretResponse {
	resp := CreateSecretResponse{
		ID:        secret.ID.String(),
		ExpiresIn: int64(secret.ExpiresAt.Sub(secret.CreatedAt).Seconds()),
	}
	if secret.Kind == domain.KindFile {
		resp.Size = secret.SizeBytes
	}
	return resp
}

// ExistsResponse reports whether a secret is still retrievable. For available
// secrets it carries the password verification material so the client can
// verify a password locally before spending the one allowed read.
type ExistsResponse struct {
	Exists       bool   `json:"exists"`
	Type         string `json:"type,omitempty"`
	OriginalName string `json:"originalName,omitempty"`
	MimeType     string `json:"mimeType,omitempty"`
	Size         int64  `json:"size,omitempty"`
	ExpiresAt    int64  `json:"expiresAt,omitempty"`
	HasPassword  *bool  `json:"hasPassword,omitempty"`
	PasswordHash string `json:"passwordHash,omitempty"`
	PasswordSalt string `json:"passwordSalt,omitempty"`
	PasswordIv   string `json:"passwordIv,omitempty"`
}

// UnavailableExistsResponse is the uniform negative probe result. Unknown,
// expired, and consumed secrets are indistinguishable on this path.
func UnavailableExistsResponse() ExistsResponse {
	return ExistsResponse{Exists: false}
}

// MapSecretToExistsResponse converts an available domain secret to a positive
// probe result. ExpiresAt is epoch milliseconds.
func MapSecretToExistsResponse(secret *domain.Secret) ExistsResponse {
	hasPassword := secret.HasPassword()
	resp := ExistsResponse{
		Exists:      true,
		Type:        string(secret.Kind),
		ExpiresAt:   secret.ExpiresAt.UnixMilli(),
		HasPassword: &hasPassword,
	}
	if secret.Kind == domain.KindFile {
		resp.OriginalName = secret.OriginalName
		resp.MimeType = secret.MimeType
		resp.Size = secret.SizeBytes
	}
	if hasPassword {
		resp.PasswordHash = secret.PasswordGate.Hash
		resp.PasswordSalt = secret.PasswordGate.Salt
		resp.PasswordIv = secret.PasswordGate.IV
	}
	return resp
}

// RevealResponse carries the ciphertext released by the one-time read.
// PasswordHash is deliberately absent: the verification hash is only exposed
// on the non-consuming probe.
type RevealResponse struct {
	EncryptedData string `json:"encryptedData"`
	IV            string `json:"iv"`
	Type          string `json:"type"`
	OriginalName  string `json:"originalName,omitempty"`
	MimeType      string `json:"mimeType,omitempty"`
	HasPassword   bool   `json:"hasPassword"`
	PasswordSalt  string `json:"passwordSalt,omitempty"`
	PasswordIv    string `json:"passwordIv,omitempty"`
}

// MapSecretToRevealResponse converts a consumed secret and its ciphertext to
// the reveal payload. Text ciphertext is stored as the base64 string the
// client submitted and returned verbatim; file ciphertext is stored as raw
// bytes and base64-encoded here.
func MapSecretToRevealResponse(secret *domain.Secret, data []byte) RevealResponse {
	resp := RevealResponse{
		IV:          secret.IV,
		Type:        string(secret.Kind),
		HasPassword: secret.HasPassword(),
	}

	switch secret.Kind {
	case domain.KindFile:
		resp.EncryptedData = base64.StdEncoding.EncodeToString(data)
		resp.OriginalName = secret.OriginalName
		resp.MimeType = secret.MimeType
	default:
		resp.EncryptedData = string(data)
	}

	if secret.HasPassword() {
		resp.PasswordSalt = secret.PasswordGate.Salt
		resp.PasswordIv = secret.PasswordGate.IV
	}

	return resp
}
