package user

import (
	"context"
	"errors"
	"sync"
)

// ErrExists is returned by Repository.Create on a duplicate id or email.
var ErrExists = errors.New("user already exists")

// SaltStore keeps the salt secret whose lifetime follows the user record.
// secret.SaltStore adapts a secret.Repository to it.
type SaltStore interface {
	ReplaceSalt(ctx context.Context, u *User) error
	DeleteByOwner(ctx context.Context, owner ID) error
}

// MemoryRepository is an in-process Repository for tests and local runs.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[ID]User
	salts SaltStore
}

// NewMemoryRepository returns an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[ID]User)}
}

// WithSalts makes writes keep the salt secret in s: Create and Save store
// the current salt, Delete removes every secret of the user. A failing
// secret write leaves the user record unchanged.
func (r *MemoryRepository) WithSalts(s SaltStore) *MemoryRepository {
	r.salts = s
	return r
}

func (r *MemoryRepository) Find(_ context.Context, id ID) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *MemoryRepository) FindByEmail(_ context.Context, email Email) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Credentials.Email == email || u.Credentials.Email.Actual() == email {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) FindByName(_ context.Context, name string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Name() == name {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryRepository) Create(ctx context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; ok {
		return ErrExists
	}
	for _, existing := range r.users {
		if existing.Credentials.Email == u.Credentials.Email {
			return ErrExists
		}
	}
	if r.salts != nil {
		if err := r.salts.ReplaceSalt(ctx, u); err != nil {
			return err
		}
	}
	r.users[u.ID] = *u
	return nil
}

func (r *MemoryRepository) Save(ctx context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return ErrNotFound
	}
	if r.salts != nil {
		if err := r.salts.ReplaceSalt(ctx, u); err != nil {
			return err
		}
	}
	r.users[u.ID] = *u
	return nil
}

// Delete removes u and, with a SaltStore, all of its secrets. The record is
// restored when the secrets cannot be removed.
func (r *MemoryRepository) Delete(ctx context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[u.ID]
	if !ok {
		return ErrNotFound
	}
	delete(r.users, u.ID)
	if r.salts != nil {
		if err := r.salts.DeleteByOwner(ctx, u.ID); err != nil {
			r.users[u.ID] = stored
			return err
		}
	}
	return nil
}

// Len reports the number of stored users.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}
