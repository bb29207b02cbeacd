package user

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/MrEthical07/goIdentity/password"
)

var (
	// ErrNotFound is returned by repositories when no user matches.
	ErrNotFound = errors.New("user not found")
	// ErrUncomplete reports staged credentials that still lack a password.
	ErrUncomplete = errors.New("credentials are incomplete")
)

// ID identifies a user.
type ID = uuid.UUID

// NewID returns a random user id.
func NewID() ID {
	return uuid.New()
}

// MultiFactorMethod names a registered second factor. The empty value
// means multi-factor is disabled.
type MultiFactorMethod string

// Credentials are the email and password digest of a user.
type Credentials struct {
	Email    Email         `json:"email"`
	Password password.Hash `json:"password"`
}

// CredentialsPrelude is staged in the cache between the verification mail
// and signup. The password is optional until signup.
type CredentialsPrelude struct {
	Email    Email          `json:"email"`
	Password *password.Hash `json:"password,omitempty"`
}

// Hash returns the deterministic key under which the prelude is staged.
func (p CredentialsPrelude) Hash() string {
	raw, _ := json.Marshal(p)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Credentials converts the prelude once a password is present.
func (p CredentialsPrelude) Credentials() (Credentials, error) {
	if p.Password == nil {
		return Credentials{}, ErrUncomplete
	}
	return Credentials{Email: p.Email, Password: *p.Password}, nil
}

// Preferences are user-controlled settings.
type Preferences struct {
	MultiFactor MultiFactorMethod `json:"multi_factor,omitempty"`
}

// User is a registered account.
type User struct {
	ID          ID          `json:"id"`
	Credentials Credentials `json:"credentials"`
	Preferences Preferences `json:"preferences"`
}

// New returns a user with a fresh id and default preferences.
func New(creds Credentials) *User {
	return &User{ID: NewID(), Credentials: creds}
}

// Name is the persisted user name, derived from the email address.
func (u *User) Name() string {
	return u.Credentials.Email.Username()
}

// Repository persists users. Create and Delete also manage the user's salt
// secret and lifecycle event where the backend supports it.
type Repository interface {
	Find(ctx context.Context, id ID) (*User, error)
	FindByEmail(ctx context.Context, email Email) (*User, error)
	FindByName(ctx context.Context, name string) (*User, error)
	Create(ctx context.Context, u *User) error
	Save(ctx context.Context, u *User) error
	Delete(ctx context.Context, u *User) error
}
