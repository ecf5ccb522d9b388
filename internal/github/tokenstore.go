// Copyright (c) 2024-2025 Mamerto Fabian / Codefrost
// SPDX-License-Identifier: MIT

package github

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// =============================================================================
// TOKEN STORE
// =============================================================================

// Token file format: ENC:base64(nonce|ciphertext|tag). The AES-256-GCM
// key is derived with PBKDF2-SHA-256 from a random machine-local secret
// kept alongside the token with 0600 permissions.

const (
	encryptedPrefix  = "ENC:"
	nonceSize        = 12
	keySize          = 32
	saltSize         = 32
	pbkdf2Iterations = 600000
)

var (
	// ErrNoToken indicates no personal access token has been stored.
	ErrNoToken = errors.New("no personal access token stored")

	// ErrTokenCorrupt indicates the stored token failed authentication.
	ErrTokenCorrupt = errors.New("stored token is corrupt or was tampered with")
)

// zeroBytes clears key material after use.
// SECURITY: Prevents disclosure of derived keys via crash dumps.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// TokenStore persists a personal access token encrypted at rest.
type TokenStore struct {
	tokenPath  string
	secretPath string
}

// NewTokenStore creates a store rooted at dir (typically ~/.bolt-sync).
func NewTokenStore(dir string) *TokenStore {
	return &TokenStore{
		tokenPath:  filepath.Join(dir, "token.enc"),
		secretPath: filepath.Join(dir, "token.key"),
	}
}

// SaveToken encrypts and stores the token, creating the machine-local
// secret on first use.
func (s *TokenStore) SaveToken(token string) error {
	secret, salt, err := s.loadOrCreateSecret()
	if err != nil {
		return err
	}

	key := pbkdf2.Key(secret, salt, pbkdf2Iterations, keySize, sha256.New)
	defer zeroBytes(key)
	zeroBytes(secret)

	aead, err := newAEAD(key)
	if err != nil {
		return err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, []byte(token), nil)
	encoded := encryptedPrefix + base64.StdEncoding.EncodeToString(sealed)

	return atomicWrite(s.tokenPath, []byte(encoded), 0600)
}

// LoadToken decrypts and returns the stored token, or ErrNoToken when
// none has been saved.
func (s *TokenStore) LoadToken() (string, error) {
	raw, err := os.ReadFile(s.tokenPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("failed to read token file: %w", err)
	}

	encoded := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(encoded, encryptedPrefix) {
		return "", ErrTokenCorrupt
	}

	sealed, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(encoded, encryptedPrefix))
	if err != nil || len(sealed) < nonceSize {
		return "", ErrTokenCorrupt
	}

	secret, salt, err := s.loadOrCreateSecret()
	if err != nil {
		return "", err
	}

	key := pbkdf2.Key(secret, salt, pbkdf2Iterations, keySize, sha256.New)
	defer zeroBytes(key)
	zeroBytes(secret)

	aead, err := newAEAD(key)
	if err != nil {
		return "", err
	}

	plain, err := aead.Open(nil, sealed[:nonceSize], sealed[nonceSize:], nil)
	if err != nil {
		return "", ErrTokenCorrupt
	}

	return string(plain), nil
}

// Clear removes the stored token. The machine secret is kept so a
// re-saved token keeps working across restores of the token file.
func (s *TokenStore) Clear() error {
	if err := os.Remove(s.tokenPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

// HasToken reports whether a token file exists without decrypting it.
func (s *TokenStore) HasToken() bool {
	_, err := os.Stat(s.tokenPath)
	return err == nil
}

// loadOrCreateSecret returns the machine-local secret and salt, creating
// them with 0600 permissions on first use.
func (s *TokenStore) loadOrCreateSecret() (secret, salt []byte, err error) {
	raw, err := os.ReadFile(s.secretPath)
	if err == nil && len(raw) == keySize+saltSize {
		return raw[:keySize], raw[keySize:], nil
	}
	if err != nil && !os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("failed to read key file: %w", err)
	}

	raw = make([]byte, keySize+saltSize)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return nil, nil, fmt.Errorf("failed to generate secret: %w", err)
	}
	if err := atomicWrite(s.secretPath, raw, 0600); err != nil {
		return nil, nil, err
	}

	return raw[:keySize], raw[keySize:], nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aead, nil
}

// atomicWrite writes via a temp file and rename so the target is never
// partially written.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.CreateTemp(dir, ".tmp-")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Chmod(perm); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
