// Package mfa seals second factor secrets at rest. Ciphertexts are bound to
// the owner and purpose they were created for.
package mfa

// Purpose names what a sealed secret is used for.
type Purpose string

const PurposeTOTPSeed Purpose = "totp_seed"

// Scope is authenticated as additional data, so a ciphertext copied to
// another owner row fails to open.
type Scope struct {
	OwnerID int64
	Purpose Purpose
}

// Encryptor seals and opens secrets for a scope.
type Encryptor interface {
	Encrypt(plaintext []byte, scope Scope) ([]byte, error)
	Decrypt(ciphertext []byte, scope Scope) ([]byte, error)
}

// KeyProvider returns the 32 byte AES key for a scope.
type KeyProvider interface {
	Key(scope Scope) ([]byte, error)
}

// StaticKeyProvider serves one key for every scope.
type StaticKeyProvider struct {
	KeyBytes []byte
}

func (p StaticKeyProvider) Key(Scope) ([]byte, error) {
	if len(p.KeyBytes) == 0 {
		return nil, ErrMissingStaticKey
	}
	return append([]byte(nil), p.KeyBytes...), nil
}
