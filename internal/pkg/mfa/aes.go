package mfa

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
)

// Sealed layout: uint16 version | 12 byte nonce | GCM ciphertext and tag.
const (
	sealVersion uint16 = 1
	nonceSize          = 12
	keySize            = 32
	headerSize         = 2 + nonceSize
)

var (
	ErrPlaintextEmpty     = errors.New("mfa: plaintext is empty")
	ErrInvalidKeyLength   = errors.New("mfa: key must be 32 bytes")
	ErrCiphertextTooShort = errors.New("mfa: ciphertext too short")
	ErrUnsupportedVersion = errors.New("mfa: unsupported ciphertext version")
	ErrDecryptFailed      = errors.New("mfa: decrypt failed")
	ErrMissingStaticKey   = errors.New("mfa: missing static key")
	ErrEncryptorNotReady  = errors.New("mfa: encryptor not configured")
)

// AESGCMEncryptor implements Encryptor with AES-256-GCM.
type AESGCMEncryptor struct {
	keys KeyProvider
}

func NewAESGCMEncryptor(keys KeyProvider) *AESGCMEncryptor {
	return &AESGCMEncryptor{keys: keys}
}

func (e *AESGCMEncryptor) Encrypt(plaintext []byte, scope Scope) ([]byte, error) {
	if len(plaintext) == 0 {
		return nil, ErrPlaintextEmpty
	}

	aead, err := e.aead(scope)
	if err != nil {
		return nil, err
	}

	out := make([]byte, headerSize, headerSize+len(plaintext)+aead.Overhead())
	binary.BigEndian.PutUint16(out[:2], sealVersion)
	if _, err := rand.Read(out[2:headerSize]); err != nil {
		return nil, fmt.Errorf("mfa: nonce: %w", err)
	}

	return aead.Seal(out, out[2:headerSize], plaintext, scopeAAD(scope)), nil
}

func (e *AESGCMEncryptor) Decrypt(ciphertext []byte, scope Scope) ([]byte, error) {
	if len(ciphertext) <= headerSize {
		return nil, ErrCiphertextTooShort
	}
	if v := binary.BigEndian.Uint16(ciphertext[:2]); v != sealVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}

	aead, err := e.aead(scope)
	if err != nil {
		return nil, err
	}

	plain, err := aead.Open(nil, ciphertext[2:headerSize], ciphertext[headerSize:], scopeAAD(scope))
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return plain, nil
}

func (e *AESGCMEncryptor) aead(scope Scope) (cipher.AEAD, error) {
	if e == nil || e.keys == nil {
		return nil, ErrEncryptorNotReady
	}

	key, err := e.keys.Key(scope)
	if err != nil {
		return nil, err
	}
	if len(key) != keySize {
		return nil, ErrInvalidKeyLength
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCMWithNonceSize(block, nonceSize)
}

func scopeAAD(s Scope) []byte {
	sum := sha256.Sum256(fmt.Appendf(nil, "owner=%d\npurpose=%s\n", s.OwnerID, s.Purpose))
	return sum[:]
}
