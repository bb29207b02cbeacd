package secret

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"github.com/MrEthical07/goIdentity/user"
)

// ErrExists is returned by MemoryRepository.Create when (owner, kind) is taken.
var ErrExists = errors.New("secret already exists")

type memoryKey struct {
	owner user.ID
	kind  Kind
}

// MemoryRepository is an in-process Repository.
type MemoryRepository struct {
	mu      sync.RWMutex
	secrets map[memoryKey][]byte
}

// NewMemoryRepository returns an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{secrets: make(map[memoryKey][]byte)}
}

func (r *MemoryRepository) FindByOwnerAndKind(_ context.Context, owner user.ID, kind Kind) (*Secret, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	data, ok := r.secrets[memoryKey{owner, kind}]
	if !ok {
		return nil, ErrNotFound
	}
	return New(owner, kind, bytes.Clone(data)), nil
}

func (r *MemoryRepository) Create(_ context.Context, s *Secret) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := memoryKey{s.Owner, s.Kind}
	if _, ok := r.secrets[k]; ok {
		return ErrExists
	}
	r.secrets[k] = bytes.Clone(s.Data)
	return nil
}

func (r *MemoryRepository) Delete(_ context.Context, s *Secret) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := memoryKey{s.Owner, s.Kind}
	if _, ok := r.secrets[k]; !ok {
		return ErrNotFound
	}
	delete(r.secrets, k)
	return nil
}

func (r *MemoryRepository) DeleteByOwner(_ context.Context, owner user.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k := range r.secrets {
		if k.owner == owner {
			delete(r.secrets, k)
		}
	}
	return nil
}

// Count reports how many secrets owner holds.
func (r *MemoryRepository) Count(owner user.ID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for k := range r.secrets {
		if k.owner == owner {
			n++
		}
	}
	return n
}
