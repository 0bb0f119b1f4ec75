package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
)

var sha256HexPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

func normalizeIdentifier(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// HashIdentifier trims and lower-cases raw and returns its SHA-256 hex digest.
// When alreadyHashed is set the normalized value is trusted as a digest and
// returned unchanged. Blank input reports false.
func HashIdentifier(raw string, alreadyHashed bool) (string, bool) {
	normalized := normalizeIdentifier(raw)
	if normalized == "" {
		return "", false
	}
	if alreadyHashed {
		return normalized, true
	}
	return sha256Hex(normalized), true
}

// EnsureHashed trusts input that already looks like a SHA-256 hex digest and
// hashes everything else.
func EnsureHashed(raw string) (string, bool) {
	normalized := normalizeIdentifier(raw)
	if normalized == "" {
		return "", false
	}
	if IsSHA256Hex(normalized) {
		return normalized, true
	}
	return sha256Hex(normalized), true
}

func IsSHA256Hex(s string) bool {
	return sha256HexPattern.MatchString(s)
}
