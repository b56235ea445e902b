// Package crypto protects the Superlógica credentials stored per tenant.
//
// Values are sealed with AES-256-GCM and stored as three hex fields
// separated by colons:
//
//	hex(iv):hex(tag):hex(ciphertext)
//
// with a 12-byte IV and a 16-byte authentication tag. Rows written
// before this service existed use the same layout.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	keySize = 32
	ivSize  = 12
	tagSize = 16
)

var (
	// ErrMalformed is returned for values that do not follow the iv:tag:ct layout.
	ErrMalformed = errors.New("encrypted value is malformed")

	// ErrAuthentication is returned when the tag does not verify (wrong key or tampered data).
	ErrAuthentication = errors.New("encrypted value failed authentication")
)

// Service encrypts and decrypts tenant credentials.
type Service interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(encrypted string) (string, error)
}

// AesGcmService implements Service with AES-256-GCM.
type AesGcmService struct {
	gcm cipher.AEAD
}

// NewAesGcmService builds the cipher from a 64-character hex key.
func NewAesGcmService(hexKey string) (*AesGcmService, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid encryption key hex: %w", err)
	}
	if len(key) != keySize {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", keySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCMWithTagSize(block, tagSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AesGcmService{gcm: gcm}, nil
}

// Encrypt seals plaintext under a fresh random IV.
func (s *AesGcmService) Encrypt(plaintext string) (string, error) {
	iv := make([]byte, ivSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("failed to generate iv: %w", err)
	}

	// Seal returns ciphertext || tag.
	sealed := s.gcm.Seal(nil, iv, []byte(plaintext), nil)
	ciphertext, tag := sealed[:len(sealed)-tagSize], sealed[len(sealed)-tagSize:]

	return strings.Join([]string{
		hex.EncodeToString(iv),
		hex.EncodeToString(tag),
		hex.EncodeToString(ciphertext),
	}, ":"), nil
}

// Decrypt opens a value produced by Encrypt.
func (s *AesGcmService) Decrypt(encrypted string) (string, error) {
	parts := strings.Split(encrypted, ":")
	if len(parts) != 3 {
		return "", fmt.Errorf("%w: expected 3 fields, got %d", ErrMalformed, len(parts))
	}

	iv, err := hex.DecodeString(parts[0])
	if err != nil || len(iv) != ivSize {
		return "", fmt.Errorf("%w: invalid iv", ErrMalformed)
	}
	tag, err := hex.DecodeString(parts[1])
	if err != nil || len(tag) != tagSize {
		return "", fmt.Errorf("%w: invalid tag", ErrMalformed)
	}
	ciphertext, err := hex.DecodeString(parts[2])
	if err != nil {
		return "", fmt.Errorf("%w: invalid ciphertext", ErrMalformed)
	}

	plain, err := s.gcm.Open(nil, iv, append(ciphertext, tag...), nil)
	if err != nil {
		return "", ErrAuthentication
	}

	return string(plain), nil
}
