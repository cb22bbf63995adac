// Package cryptox seals small secrets (session tokens) at rest.
//
// A random device secret is kept in a 0600 file next to the local database;
// HKDF-SHA256 expands it into the AES-256-GCM key. Sealed values are
// nonce || ciphertext.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/merrycards/merry/internal/common"
	"golang.org/x/crypto/hkdf"
)

const (
	deviceSecretSize = 32
	keySize          = 32
)

var ErrCiphertextTooShort = errors.New("ciphertext too short")

// LoadOrCreateDeviceSecret reads the device secret at path, creating it with
// fresh random bytes on first use.
func LoadOrCreateDeviceSecret(path string) ([]byte, error) {
	secret, err := os.ReadFile(path)
	if err == nil {
		if len(secret) != deviceSecretSize {
			return nil, fmt.Errorf("device secret %s: unexpected size %d", path, len(secret))
		}
		return secret, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read device secret: %w", err)
	}

	secret = common.GenerateRandByteArray(deviceSecretSize)
	if err := os.WriteFile(path, secret, 0o600); err != nil {
		return nil, fmt.Errorf("write device secret: %w", err)
	}
	return secret, nil
}

// DeriveKey expands secret into an AES-256 key bound to purpose.
func DeriveKey(secret []byte, purpose string) ([]byte, error) {
	key := make([]byte, keySize)
	r := hkdf.New(sha256.New, secret, nil, []byte(purpose))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, err
	}
	return key, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext with a fresh random nonce; aad is authenticated but
// not stored.
func Seal(key, plaintext, aad []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := common.GenerateRandByteArray(aead.NonceSize())
	return aead.Seal(nonce, nonce, plaintext, aad), nil
}

// Open reverses Seal. A wrong key, wrong aad or tampered blob returns an error.
func Open(key, sealed, aad []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(sealed) < aead.NonceSize() {
		return nil, ErrCiphertextTooShort
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	return aead.Open(nil, nonce, ciphertext, aad)
}
