package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Issued keys look like wk_live_<key id>_<hex secret>. Bootstrap keys are
// whatever the operator configured.
const (
	TokenPrefix = "wk_live_"
	keyIDPrefix = "key_"
)

// FormatToken builds the bearer token handed out once at creation.
func FormatToken(keyID, secret string) string {
	return TokenPrefix + strings.TrimPrefix(keyID, keyIDPrefix) + "_" + secret
}

// KeyIDFromToken recovers the key id of an issued token without touching
// the secret. ok is false for tokens not in the issued format.
func KeyIDFromToken(raw string) (string, bool) {
	rest, found := strings.CutPrefix(strings.TrimSpace(raw), TokenPrefix)
	if !found {
		return "", false
	}
	id, secret, found := strings.Cut(rest, "_")
	if !found || id == "" || secret == "" {
		return "", false
	}
	return keyIDPrefix + id, true
}

// HashAPIKey is the lookup hash stored in api_keys.key_hash.
func HashAPIKey(raw string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(raw)))
	return hex.EncodeToString(sum[:])
}
