// Package hash hashes secrets that are stored and later compared: passwords,
// one-time codes and refresh tokens.
package hash

// Hash produces a storable digest of a secret and checks a candidate against it.
type Hash interface {
	Hash(str string) ([]byte, error)
	Verify(hashed, str string) bool
}
