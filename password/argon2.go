package password

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	minMemoryKB    uint32 = 8 * 1024
	minTimeCost    uint32 = 1
	minParallelism uint8  = 1
	minKeyLength   uint32 = 16
)

// Config holds the Argon2id cost parameters. Changing any of them
// invalidates every stored digest.
type Config struct {
	Memory      uint32
	Time        uint32
	Parallelism uint8
	KeyLength   uint32
	SaltLength  int
}

// DefaultConfig returns interactive-login parameters.
func DefaultConfig() Config {
	return Config{
		Memory:      64 * 1024,
		Time:        3,
		Parallelism: 2,
		KeyLength:   32,
		SaltLength:  DefaultSaltLength,
	}
}

// Hash is the stored form of a password.
type Hash struct {
	Hash string `json:"hash"`
	Salt Salt   `json:"salt"`
}

// Hasher derives password digests. It is safe for concurrent use.
type Hasher struct {
	config Config
}

// NewHasher validates cfg and returns a Hasher.
func NewHasher(cfg Config) (*Hasher, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return &Hasher{config: cfg}, nil
}

// Config returns the parameters the Hasher was built with.
func (h *Hasher) Config() Config {
	return h.config
}

// WithSalt hashes p with salt.
func (h *Hasher) WithSalt(p Password, salt Salt) (Hash, error) {
	if _, err := ParseSalt(string(salt)); err != nil {
		return Hash{}, err
	}
	key := h.derive(p, salt)
	return Hash{Hash: base64.StdEncoding.EncodeToString(key), Salt: salt}, nil
}

// WithNewSalt hashes p with a freshly generated salt.
func (h *Hasher) WithNewSalt(p Password) (Hash, error) {
	salt, err := NewSalt(h.config.SaltLength)
	if err != nil {
		return Hash{}, fmt.Errorf("%w: %v", ErrHash, err)
	}
	return h.WithSalt(p, salt)
}

// Matches reports whether candidate hashes to stored under the stored salt.
func (h *Hasher) Matches(stored Hash, candidate Password) (bool, error) {
	want, err := base64.StdEncoding.DecodeString(stored.Hash)
	if err != nil {
		return false, fmt.Errorf("%w: invalid hash encoding", ErrHash)
	}
	if _, err := ParseSalt(string(stored.Salt)); err != nil {
		return false, err
	}
	got := h.derive(candidate, stored.Salt)
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

func (h *Hasher) derive(p Password, salt Salt) []byte {
	// Raw string bytes, no Unicode normalization.
	return argon2.IDKey(
		[]byte(p),
		[]byte(salt),
		h.config.Time,
		h.config.Memory,
		h.config.Parallelism,
		h.config.KeyLength,
	)
}

func validateConfig(cfg Config) error {
	if cfg.Memory < minMemoryKB {
		return errors.New("password memory must be >= 8192 KB")
	}
	if cfg.Time < minTimeCost {
		return errors.New("password time must be >= 1")
	}
	if cfg.Parallelism < minParallelism {
		return errors.New("password parallelism must be >= 1")
	}
	if cfg.KeyLength < minKeyLength {
		return errors.New("password key length must be >= 16")
	}
	if cfg.SaltLength < 8 {
		return errors.New("password salt length must be >= 8")
	}
	return nil
}
