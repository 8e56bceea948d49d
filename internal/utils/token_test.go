package utils

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateResetToken(t *testing.T) {
	token, err := GenerateResetToken()

	assert.NoError(t, err)
	assert.Len(t, token, 64) // 32 bytes hex-encoded

	_, err = hex.DecodeString(token)
	assert.NoError(t, err)
}

func TestGenerateResetToken_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := GenerateResetToken()
		assert.NoError(t, err)
		assert.False(t, seen[token], "reset tokens must not repeat")
		seen[token] = true
	}
}
