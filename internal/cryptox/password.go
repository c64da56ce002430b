// Package cryptox implements password hashing for stored credentials.
//
// Hashes are encoded as PHC-style Argon2id strings:
//
//	argon2id$v=19$m=65536,t=3,p=4$<salt_b64>$<hash_b64>
package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
)

var (
	ErrEmptyPassword   = errors.New("password is required")
	ErrInvalidHash     = errors.New("invalid password hash format")
	ErrUnsupportedHash = errors.New("unsupported password hash")
)

// Params are the Argon2id cost parameters used for new hashes.
// Existing hashes are always verified with the parameters encoded in them.
type Params struct {
	Memory      uint32 `json:"memory" env:"ARGON2_MEMORY"`
	Iterations  uint32 `json:"iterations" env:"ARGON2_ITERATIONS"`
	Parallelism uint8  `json:"parallelism" env:"ARGON2_PARALLELISM"`
	SaltLen     uint32 `json:"salt_len"`
	KeyLen      uint32 `json:"key_len"`
}

func DefaultParams() Params {
	return Params{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 4,
		SaltLen:     16,
		KeyLen:      32,
	}
}

// Hasher hashes and verifies passwords with fixed parameters. It also keeps a
// throwaway hash so that lookups for unknown usernames cost the same as real
// verifications.
type Hasher struct {
	params Params

	dummyOnce sync.Once
	dummy     string
}

func NewHasher(p Params) *Hasher {
	return &Hasher{params: p}
}

func (h *Hasher) Params() Params {
	return h.params
}

func (h *Hasher) Hash(password string) (string, error) {
	return HashPassword(password, h.params)
}

// Verify reports whether password matches encoded. An empty encoded hash is
// verified against the dummy hash and always fails.
func (h *Hasher) Verify(password, encoded string) (bool, error) {
	if encoded == "" {
		_, _ = VerifyPassword(password, h.dummyHash())
		return false, nil
	}
	return VerifyPassword(password, encoded)
}

func (h *Hasher) dummyHash() string {
	h.dummyOnce.Do(func() {
		s, err := HashPassword("dummy-"+strconv.Itoa(int(h.params.Memory)), h.params)
		if err != nil {
			// rand.Read failing leaves nothing sensible to do
			panic(err)
		}
		h.dummy = s
	})
	return h.dummy
}

// HashPassword returns a PHC-style Argon2id string for password.
func HashPassword(password string, p Params) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	key := argon2.IDKey([]byte(password), salt, p.Iterations, p.Memory, p.Parallelism, p.KeyLen)
	enc := base64.RawStdEncoding
	return fmt.Sprintf(
		"argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		p.Memory,
		p.Iterations,
		p.Parallelism,
		enc.EncodeToString(salt),
		enc.EncodeToString(key),
	), nil
}

// VerifyPassword compares password with encoded in constant time.
func VerifyPassword(password, encoded string) (bool, error) {
	if encoded == "" {
		return false, nil
	}
	p, salt, want, err := parsePHC(encoded)
	if err != nil {
		return false, err
	}
	got := argon2.IDKey([]byte(password), salt, p.Iterations, p.Memory, p.Parallelism, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

func parsePHC(s string) (Params, []byte, []byte, error) {
	parts := strings.Split(s, "$")
	if len(parts) != 5 {
		return Params{}, nil, nil, ErrInvalidHash
	}
	if parts[0] != "argon2id" {
		return Params{}, nil, nil, ErrUnsupportedHash
	}
	ver, err := strconv.Atoi(strings.TrimPrefix(parts[1], "v="))
	if err != nil || !strings.HasPrefix(parts[1], "v=") || ver != argon2.Version {
		return Params{}, nil, nil, ErrUnsupportedHash
	}

	var p Params
	for _, kv := range strings.Split(parts[2], ",") {
		key, val, ok := strings.Cut(kv, "=")
		if !ok {
			return Params{}, nil, nil, ErrInvalidHash
		}
		switch key {
		case "m":
			v, err := strconv.ParseUint(val, 10, 32)
			if err != nil {
				return Params{}, nil, nil, fmt.Errorf("%w: memory", ErrInvalidHash)
			}
			p.Memory = uint32(v)
		case "t":
			v, err := strconv.ParseUint(val, 10, 32)
			if err != nil {
				return Params{}, nil, nil, fmt.Errorf("%w: iterations", ErrInvalidHash)
			}
			p.Iterations = uint32(v)
		case "p":
			v, err := strconv.ParseUint(val, 10, 8)
			if err != nil {
				return Params{}, nil, nil, fmt.Errorf("%w: parallelism", ErrInvalidHash)
			}
			p.Parallelism = uint8(v)
		default:
			return Params{}, nil, nil, fmt.Errorf("%w: unknown parameter %q", ErrInvalidHash, key)
		}
	}

	enc := base64.RawStdEncoding
	salt, err := enc.DecodeString(parts[3])
	if err != nil {
		return Params{}, nil, nil, fmt.Errorf("%w: salt", ErrInvalidHash)
	}
	hash, err := enc.DecodeString(parts[4])
	if err != nil || len(hash) < 16 {
		return Params{}, nil, nil, fmt.Errorf("%w: hash", ErrInvalidHash)
	}
	return p, salt, hash, nil
}
