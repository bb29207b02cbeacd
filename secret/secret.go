// Package secret stores per-user key material: password salts and
// committed one-time-password seeds.
package secret

import (
	"context"
	"errors"

	"github.com/MrEthical07/goIdentity/user"
)

// ErrNotFound is returned when no secret matches.
var ErrNotFound = errors.New("secret not found")

// Kind is the type of a secret.
type Kind string

const (
	KindSalt Kind = "salt"
	KindOtp  Kind = "otp"
)

// Secret is immutable once stored; it is replaced by delete and create.
type Secret struct {
	Owner user.ID
	Kind  Kind
	Data  []byte
}

// New returns a secret of kind owned by owner.
func New(owner user.ID, kind Kind, data []byte) *Secret {
	return &Secret{Owner: owner, Kind: kind, Data: data}
}

// NewSalt packages the password salt of u.
func NewSalt(u *user.User) *Secret {
	return New(u.ID, KindSalt, []byte(u.Credentials.Password.Salt))
}

// Repository persists secrets.
type Repository interface {
	FindByOwnerAndKind(ctx context.Context, owner user.ID, kind Kind) (*Secret, error)
	Create(ctx context.Context, s *Secret) error
	Delete(ctx context.Context, s *Secret) error
	DeleteByOwner(ctx context.Context, owner user.ID) error
}
