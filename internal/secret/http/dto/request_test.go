package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/lockbin/internal/secret/http/dto"
)

func validTextRequest() dto.CreateTextRequest {
	return dto.CreateTextRequest{
		EncryptedData: "ZW5jcnlwdGVkLXRleHQ=",
		IV:            "aXYtYnl0ZXM=",
		ExpiresIn:     "10m",
	}
}

func TestCreateTextRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*dto.CreateTextRequest)
		wantErr bool
	}{
		{
			name:   "valid request",
			mutate: func(r *dto.CreateTextRequest) {},
		},
		{
			name: "valid request with password gate",
			mutate: func(r *dto.CreateTextRequest) {
				r.PasswordHash = "aGFzaA=="
				r.PasswordSalt = "c2FsdA=="
				r.PasswordIv = "cGl2"
			},
		},
		{
			name:    "missing encrypted data",
			mutate:  func(r *dto.CreateTextRequest) { r.EncryptedData = "" },
			wantErr: true,
		},
		{
			name:    "missing iv",
			mutate:  func(r *dto.CreateTextRequest) { r.IV = "" },
			wantErr: true,
		},
		{
			name:    "encrypted data is not base64",
			mutate:  func(r *dto.CreateTextRequest) { r.EncryptedData = "not!!valid" },
			wantErr: true,
		},
		{
			name:    "iv is not base64",
			mutate:  func(r *dto.CreateTextRequest) { r.IV = "not!!valid" },
			wantErr: true,
		},
		{
			name: "partial password gate",
			mutate: func(r *dto.CreateTextRequest) {
				r.PasswordHash = "aGFzaA=="
			},
			wantErr: true,
		},
		{
			name: "password salt without hash",
			mutate: func(r *dto.CreateTextRequest) {
				r.PasswordSalt = "c2FsdA=="
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validTextRequest()
			tt.mutate(&req)

			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCreateTextRequest_PasswordGate(t *testing.T) {
	t.Run("without password", func(t *testing.T) {
		req := validTextRequest()
		assert.Nil(t, req.PasswordGate())
	})

	t.Run("with password", func(t *testing.T) {
		req := validTextRequest()
		req.PasswordHash = "aGFzaA=="
		req.PasswordSalt = "c2FsdA=="
		req.PasswordIv = "cGl2"

		gate := req.PasswordGate()
		require.NotNil(t, gate)
		assert.Equal(t, "aGFzaA==", gate.Hash)
		assert.Equal(t, "c2FsdA==", gate.Salt)
		assert.Equal(t, "cGl2", gate.IV)
	})
}

func TestCreateFileRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request dto.CreateFileRequest
		wantErr bool
	}{
		{
			name:    "valid request",
			request: dto.CreateFileRequest{IV: "aXY=", OriginalName: "report.pdf", MimeType: "application/pdf"},
		},
		{
			name:    "missing iv",
			request: dto.CreateFileRequest{OriginalName: "report.pdf"},
			wantErr: true,
		},
		{
			name: "partial password gate",
			request: dto.CreateFileRequest{
				IV:         "aXY=",
				PasswordIv: "cGl2",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
