package secret

import (
	"context"
	"errors"
	"testing"

	"github.com/MrEthical07/goIdentity/password"
	"github.com/MrEthical07/goIdentity/user"
)

func TestNewSalt(t *testing.T) {
	u := user.New(user.Credentials{
		Email:    "alice@example.com",
		Password: password.Hash{Hash: "h", Salt: "abc123"},
	})
	s := NewSalt(u)
	if s.Owner != u.ID || s.Kind != KindSalt || string(s.Data) != "abc123" {
		t.Fatalf("unexpected salt secret %+v", s)
	}
}

func TestMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	owner := user.NewID()

	if err := repo.Create(ctx, New(owner, KindOtp, []byte("seed"))); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, New(owner, KindOtp, []byte("other"))); !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	if err := repo.Create(ctx, New(owner, KindSalt, []byte("salt"))); err != nil {
		t.Fatalf("Create salt: %v", err)
	}

	got, err := repo.FindByOwnerAndKind(ctx, owner, KindOtp)
	if err != nil || string(got.Data) != "seed" {
		t.Fatalf("FindByOwnerAndKind = %+v, %v", got, err)
	}

	if err := repo.Delete(ctx, got); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.FindByOwnerAndKind(ctx, owner, KindOtp); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := repo.DeleteByOwner(ctx, owner); err != nil {
		t.Fatalf("DeleteByOwner: %v", err)
	}
	if repo.Count(owner) != 0 {
		t.Fatalf("expected no secrets left, got %d", repo.Count(owner))
	}
}

func TestSaltStoreWithUserRepository(t *testing.T) {
	ctx := context.Background()
	secrets := NewMemoryRepository()
	users := user.NewMemoryRepository().WithSalts(SaltStore{Repository: secrets})
	u := user.New(user.Credentials{
		Email:    "alice@example.com",
		Password: password.Hash{Hash: "h", Salt: "first"},
	})

	if err := users.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := secrets.FindByOwnerAndKind(ctx, u.ID, KindSalt)
	if err != nil || string(got.Data) != "first" {
		t.Fatalf("salt after create = %+v, %v", got, err)
	}

	u.Credentials.Password = password.Hash{Hash: "h2", Salt: "second"}
	if err := users.Save(ctx, u); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err = secrets.FindByOwnerAndKind(ctx, u.ID, KindSalt)
	if err != nil || string(got.Data) != "second" {
		t.Fatalf("salt after save = %+v, %v", got, err)
	}

	if err := secrets.Create(ctx, New(u.ID, KindOtp, []byte("seed"))); err != nil {
		t.Fatalf("Create otp: %v", err)
	}
	if err := users.Delete(ctx, u); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if secrets.Count(u.ID) != 0 {
		t.Fatalf("delete must cascade to every secret, %d left", secrets.Count(u.ID))
	}
}
