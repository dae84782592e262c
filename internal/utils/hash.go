package utils

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashString computes an HMAC-SHA256 signature over the given string
// using the provided hash key and returns the result as a hex-encoded string.
//
// Refresh tokens are stored as HashString(token, key): the same input always
// yields the same digest, so a session can be found by user ID and digest.
//
// Example usage:
//
//	digest := utils.HashString(refreshToken, "my-secret-key")
func HashString(data string, hashKey string) string {
	return hex.EncodeToString(hashString([]byte(data), hashKey))
}

func hashString(data []byte, hashKey string) []byte {
	hasher := hmac.New(sha256.New, []byte(hashKey))
	hasher.Write(data)
	return hasher.Sum(nil)
}

// MD5Hex returns the lowercase hex MD5 of the trimmed, lowercased input, as
// Gravatar expects.
func MD5Hex(data string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(data))))
	return hex.EncodeToString(sum[:])
}
