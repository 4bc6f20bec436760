package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTTL(t *testing.T) {
	tests := []struct {
		option           string
		expectedDuration time.Duration
		expectedOption   string
	}{
		{"5m", 5 * time.Minute, "5m"},
		{"10m", 10 * time.Minute, "10m"},
		{"30m", 30 * time.Minute, "30m"},
		{"1h", time.Hour, "1h"},
		{"24h", 24 * time.Hour, "24h"},
		{"", 10 * time.Minute, "10m"},
		{"7m", 10 * time.Minute, "10m"},
		{"forever", 10 * time.Minute, "10m"},
	}

	for _, tt := range tests {
		t.Run("option_"+tt.option, func(t *testing.T) {
			duration, option := ParseTTL(tt.option)
			assert.Equal(t, tt.expectedDuration, duration)
			assert.Equal(t, tt.expectedOption, option)
		})
	}
}

func TestSecret_Expired(t *testing.T) {
	now := time.Now().UTC()
	secret := &Secret{
		CreatedAt: now,
		ExpiresAt: now.Add(5 * time.Minute),
	}

	assert.False(t, secret.Expired(now))
	assert.False(t, secret.Expired(now.Add(5*time.Minute-time.Second)))
	assert.True(t, secret.Expired(now.Add(5*time.Minute)))
	assert.True(t, secret.Expired(now.Add(5*time.Minute+time.Second)))
}

func TestSecret_HasPassword(t *testing.T) {
	secret := &Secret{}
	assert.False(t, secret.HasPassword())

	secret.PasswordGate = &PasswordGate{Hash: "aGFzaA==", Salt: "c2FsdA==", IV: "aXY="}
	assert.True(t, secret.HasPassword())
}
