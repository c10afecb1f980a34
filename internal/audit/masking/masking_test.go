package masking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", MaskSecret("  "))
	assert.Equal(t, "wk_live_****cdef", MaskSecret("wk_live_0123456789abcdef"))
	assert.Equal(t, "****", MaskSecret("abc"))
}

func TestMaskMetadata(t *testing.T) {
	out := MaskMetadata(map[string]any{
		"file_name": "facts_2025.xlsx",
		"api_key":   "wk_live_0123456789abcdef",
		"nested":    map[string]any{"token": "abcdefgh", "year": 2025},
		"":          "dropped",
	})

	assert.Equal(t, map[string]any{
		"file_name": "facts_2025.xlsx",
		"api_key":   "wk_live_****cdef",
		"nested":    map[string]any{"token": "****efgh", "year": 2025},
	}, out)
	assert.Nil(t, MaskMetadata(nil))
}
