package secret

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/goIdentity/user"
)

// SaltStore adapts a Repository to user.SaltStore.
type SaltStore struct {
	Repository
}

var _ user.SaltStore = SaltStore{}

// ReplaceSalt stores the current salt of u in place of any previous one.
// The previous salt is put back if the new one cannot be stored.
func (s SaltStore) ReplaceSalt(ctx context.Context, u *user.User) error {
	prev, err := s.FindByOwnerAndKind(ctx, u.ID, KindSalt)
	switch {
	case errors.Is(err, ErrNotFound):
		prev = nil
	case err != nil:
		return err
	default:
		if err := s.Delete(ctx, prev); err != nil {
			return err
		}
	}

	if err := s.Create(ctx, NewSalt(u)); err != nil {
		if prev != nil {
			if rerr := s.Create(ctx, prev); rerr != nil {
				return fmt.Errorf("store salt: %w (restore: %v)", err, rerr)
			}
		}
		return fmt.Errorf("store salt: %w", err)
	}
	return nil
}
