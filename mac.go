package cronto

import (
	"crypto/hmac"
	"crypto/sha256"
)

// hmacSHA256 computes HMAC-SHA-256(key, message). Callers truncate the
// 32-byte output as needed.
func hmacSHA256(key, message []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(message)
	return mac.Sum(nil)
}
