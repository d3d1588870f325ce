// Package password produces the credential digest stored in users.password_hash.
//
// The digest is an unsalted SHA-256 of the UTF-8 password, hex encoded in lower
// case. Existing database files carry this format, so it must not change.
package password

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

const DigestLen = sha256.Size * 2

func Digest(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// Matches compares the digest of plain against stored in constant time.
func Matches(stored, plain string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(Digest(plain))) == 1
}
