package auth

import (
	"crypto/sha256"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

// deriveKey stretches a password with argon2id. Parameters: 1 pass,
// 64 MiB memory, 4 lanes, 32-byte key.
func deriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// makeVerifier hashes the derived key so the stored value cannot be used
// directly as a credential.
func makeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}

// checkPassword derives a candidate verifier and compares it in constant
// time against the stored one.
func checkPassword(password, salt, verifier []byte) bool {
	candidate := makeVerifier(deriveKey(password, salt))
	return subtle.ConstantTimeCompare(verifier, candidate) == 1
}
