package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashToken(t *testing.T) {
	// SHA-256("abc123"), hex encoded
	assert.Equal(t,
		"6ca13d52ca70c883e0f0bb101e425a89e8624de51db2d2392593af6a84118090",
		HashToken("abc123"),
	)

	// deterministic
	assert.Equal(t, HashToken("some-token"), HashToken("some-token"))
	assert.NotEqual(t, HashToken("some-token"), HashToken("some-token2"))
}

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken()
	require.NoError(t, err)

	// 32 bytes, raw URL-safe base64
	assert.Len(t, token, 43)
	assert.NotContains(t, token, "+")
	assert.NotContains(t, token, "/")
	assert.NotContains(t, token, "=")

	other, err := GenerateToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}
