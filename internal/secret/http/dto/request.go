// Package dto provides data transfer objects for HTTP request and response handling.
// Field names follow the wire format the browser client already speaks.
package dto

import (
	validation "github.com/jellydator/validation"

	"github.com/allisson/lockbin/internal/secret/domain"
	appvalidation "github.com/allisson/lockbin/internal/validation"
)

// CreateTextRequest contains the parameters for storing an encrypted text secret.
// The payload arrives already encrypted; the server never sees a key.
type CreateTextRequest struct {
	EncryptedData string `json:"encryptedData"`
	IV            string `json:"iv"`
	ExpiresIn     string `json:"expiresIn"`
	PasswordHash  string `json:"passwordHash"`
	PasswordSalt  string `json:"passwordSalt"`
	PasswordIv    string `json:"passwordIv"`
}

// Validate checks if the create text request is valid.
// The password fields are optional but must be provided together.
func (r *CreateTextRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.EncryptedData, validation.Required, appvalidation.Base64),
		validation.Field(&r.IV, validation.Required, appvalidation.Base64),
		validation.Field(&r.PasswordHash,
			validation.Required.When(r.PasswordSalt != "" || r.PasswordIv != ""),
			appvalidation.Base64,
		),
		validation.Field(&r.PasswordSalt,
			validation.Required.When(r.PasswordHash != "" || r.PasswordIv != ""),
			appvalidation.Base64,
		),
		validation.Field(&r.PasswordIv,
			validation.Required.When(r.PasswordHash != "" || r.PasswordSalt != ""),
			appvalidation.Base64,
		),
	)
}

// PasswordGate returns the password verification material, or nil when the
// secret is not password protected.
func (r *CreateTextRequest) PasswordGate() *domain.PasswordGate {
	if r.PasswordHash == "" {
		return nil
	}
	return &domain.PasswordGate{
		Hash: r.PasswordHash,
		Salt: r.PasswordSalt,
		IV:   r.PasswordIv,
	}
}

// CreateFileRequest contains the multipart form fields for storing an
// encrypted file secret. The file content itself is read from the
// "encryptedFile" form file by the handler.
type CreateFileRequest struct {
	IV           string `form:"iv"`
	OriginalName string `form:"originalName"`
	MimeType     string `form:"mimeType"`
	ExpiresIn    string `form:"expiresIn"`
	PasswordHash string `form:"passwordHash"`
	PasswordSalt string `form:"passwordSalt"`
	PasswordIv   string `form:"passwordIv"`
}

// Validate checks if the create file request is valid.
func (r *CreateFileRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.IV, validation.Required, appvalidation.Base64),
		validation.Field(&r.PasswordHash,
			validation.Required.When(r.PasswordSalt != "" || r.PasswordIv != ""),
			appvalidation.Base64,
		),
		validation.Field(&r.PasswordSalt,
			validation.Required.When(r.PasswordHash != "" || r.PasswordIv != ""),
			appvalidation.Base64,
		),
		validation.Field(&r.PasswordIv,
			validation.Required.When(r.PasswordHash != "" || r.PasswordSalt != ""),
			appvalidation.Base64,
		),
	)
}

// PasswordGate returns the password verification material, or nil when the
// secret is not password protected.
func (r *CreateFileRequest) PasswordGate() *domain.PasswordGate {
	if r.PasswordHash == "" {
		return nil
	}
	return &domain.PasswordGate{
		Hash: r.PasswordHash,
		Salt: r.PasswordSalt,
		IV:   r.PasswordIv,
	}
}
