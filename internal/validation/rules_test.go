package validation

import (
	"testing"

	validation "github.com/jellydator/validation"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/lockbin/internal/errors"
)

func TestBase64(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		expectErr bool
	}{
		{"valid base64", "aGVsbG8gd29ybGQ=", false},
		{"valid base64 binary", "AAECAwQF", false},
		{"empty string is skipped", "", false},
		{"invalid characters", "not-valid-base64!@#$", true},
		{"missing padding", "aGVsbG8gd29ybGQ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validation.Validate(tt.value, Base64)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWrapValidationError(t *testing.T) {
	t.Run("wraps non-nil error as invalid input", func(t *testing.T) {
		err := WrapValidationError(assert.AnError)
		assert.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
	})

	t.Run("nil error stays nil", func(t *testing.T) {
		assert.NoError(t, WrapValidationError(nil))
	})
}
