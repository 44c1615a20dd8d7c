package credential

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

var (
	// ErrMalformedSalt means a stored or supplied salt cannot be used for hashing.
	ErrMalformedSalt = errors.New("credential: malformed salt")
	// ErrMalformedHash means a stored hash cannot be decoded.
	ErrMalformedHash = errors.New("credential: malformed password hash")
)

const (
	saltBytes    = 16
	minSaltBytes = 8
)

// Argon2Params tunes argon2id. Memory is in KiB.
type Argon2Params struct {
	Time    uint32
	Memory  uint32
	Threads uint8
	KeyLen  uint32
}

// DefaultArgon2Params returns argon2id with one pass over 64 MiB on four lanes.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{Time: 1, Memory: 64 * 1024, Threads: 4, KeyLen: 32}
}

// Validate rejects parameters argon2 cannot run with.
func (p Argon2Params) Validate() error {
	if p.Time == 0 || p.Threads == 0 || p.KeyLen < 16 {
		return fmt.Errorf("credential: invalid argon2 params %+v", p)
	}
	if p.Memory < 8*uint32(p.Threads) {
		return fmt.Errorf("credential: argon2 memory %d KiB too small for %d threads", p.Memory, p.Threads)
	}
	return nil
}

// Hasher derives and checks password hashes. Salts and hashes are exchanged
// as standard base64 text, which is how they are stored.
type Hasher struct {
	params Argon2Params
	rand   io.Reader
}

// NewHasher returns a Hasher reading salts from crypto/rand.
func NewHasher(params Argon2Params) *Hasher {
	return &Hasher{params: params, rand: rand.Reader}
}

// GenerateSalt returns a fresh random salt.
func (h *Hasher) GenerateSalt() (string, error) {
	buf := make([]byte, saltBytes)
	if _, err := io.ReadFull(h.rand, buf); err != nil {
		return "", fmt.Errorf("credential: read salt: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

// Hash derives the password hash for salt.
func (h *Hasher) Hash(password, salt string) (string, error) {
	key, err := h.derive(password, salt)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(key), nil
}

// Verify reports whether password matches expected. Errors are reserved for
// unusable stored values; a wrong password is (false, nil).
func (h *Hasher) Verify(password, salt, expected string) (bool, error) {
	want, err := base64.StdEncoding.DecodeString(expected)
	if err != nil || len(want) == 0 {
		return false, ErrMalformedHash
	}
	got, err := h.derive(password, salt)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

func (h *Hasher) derive(password, salt string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(salt)
	if err != nil || len(raw) < minSaltBytes {
		return nil, ErrMalformedSalt
	}
	p := h.params
	return argon2.IDKey([]byte(password), raw, p.Time, p.Memory, p.Threads, p.KeyLen), nil
}
