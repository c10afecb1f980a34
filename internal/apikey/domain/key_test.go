package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatToken(t *testing.T) {
	token := FormatToken("key_3F9A", "deadbeef")
	assert.Equal(t, "wk_live_3F9A_deadbeef", token)

	keyID, ok := KeyIDFromToken(token)
	assert.True(t, ok)
	assert.Equal(t, "key_3F9A", keyID)
}

func TestKeyIDFromToken_Malformed(t *testing.T) {
	for _, raw := range []string{"", "wk_bootstrap_secret", "wk_live_", "wk_live_3F9A", "wk_live_3F9A_"} {
		_, ok := KeyIDFromToken(raw)
		assert.False(t, ok, raw)
	}
}

func TestHashAPIKey(t *testing.T) {
	assert.Len(t, HashAPIKey("wk_live_a_b"), 64)
	assert.Equal(t, HashAPIKey("wk_live_a_b"), HashAPIKey(" wk_live_a_b "))
	assert.NotEqual(t, HashAPIKey("wk_live_a_b"), HashAPIKey("wk_live_a_c"))
}
