// Package crypto derives the cookie keys of the dashboard from
// SESSION_SECRET.
package crypto

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// AuthKeyLen is the HMAC key length for signed cookies.
	AuthKeyLen = 64
	// EncryptionKeyLen selects AES-256 for encrypted cookies.
	EncryptionKeyLen = 32

	salt = "automarketer/session"
)

// SessionKeys holds independent signing and encryption keys.
type SessionKeys struct {
	Auth       []byte
	Encryption []byte
}

// DeriveSessionKeys expands secret into SessionKeys with HKDF-SHA256. The
// same secret always yields the same keys, so cookies survive restarts.
func DeriveSessionKeys(secret string) (SessionKeys, error) {
	if secret == "" {
		return SessionKeys{}, fmt.Errorf("session secret is required")
	}

	auth, err := expand(secret, "auth", AuthKeyLen)
	if err != nil {
		return SessionKeys{}, err
	}
	enc, err := expand(secret, "encryption", EncryptionKeyLen)
	if err != nil {
		return SessionKeys{}, err
	}
	return SessionKeys{Auth: auth, Encryption: enc}, nil
}

func expand(secret, info string, n int) ([]byte, error) {
	key := make([]byte, n)
	r := hkdf.New(sha256.New, []byte(secret), []byte(salt), []byte(info))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("failed to derive %s key: %w", info, err)
	}
	return key, nil
}
